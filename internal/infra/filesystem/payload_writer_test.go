package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestPayloadWriterReplacesFile(t *testing.T) {
	base := t.TempDir()
	w := NewPayloadWriter(base)
	ctx := context.Background()

	if err := w.Write(ctx, "players/ana/quiz_result.json", []byte(`{"score":100}`)); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := w.Write(ctx, "players/ana/quiz_result.json", []byte(`{"score":7}`)); err != nil {
		t.Fatalf("second write: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(base, "players", "ana", "quiz_result.json"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != `{"score":7}` {
		t.Fatalf("expected replaced content, got %s", data)
	}
}

func TestPayloadWriterStaysInsideBase(t *testing.T) {
	base := t.TempDir()
	w := NewPayloadWriter(base)

	if err := w.Write(context.Background(), "../../escape.json", []byte("x")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := os.Stat(filepath.Join(base, "escape.json")); err != nil {
		t.Fatalf("expected file inside base: %v", err)
	}
	if err := w.Write(context.Background(), "", []byte("x")); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestPayloadWriterHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewPayloadWriter(t.TempDir()).Write(ctx, "a.json", nil); err == nil {
		t.Fatalf("expected context error")
	}
}
