package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// PayloadWriter stores payloads as files under a base directory. Writing a
// path removes any previous file first, then writes the new content.
type PayloadWriter struct {
	base string
}

func NewPayloadWriter(base string) *PayloadWriter {
	return &PayloadWriter{base: base}
}

func (w *PayloadWriter) Write(ctx context.Context, path string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target, err := w.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create folder for %s: %w", path, err)
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove previous %s: %w", path, err)
	}
	if err := os.WriteFile(target, payload, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// resolve keeps every payload inside the base directory.
func (w *PayloadWriter) resolve(path string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash("/" + path))
	target := filepath.Join(w.base, clean)
	rel, err := filepath.Rel(w.base, target)
	if err != nil || rel == "." {
		return "", fmt.Errorf("invalid payload path %q", path)
	}
	return target, nil
}
