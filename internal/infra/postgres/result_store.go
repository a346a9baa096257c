package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type roundPayload struct {
	bun.BaseModel `bun:"table:round_payloads"`

	Path      string    `bun:"path,pk"`
	Payload   []byte    `bun:"payload,type:jsonb,notnull"`
	WrittenAt time.Time `bun:"written_at,notnull"`
}

type roundScore struct {
	bun.BaseModel `bun:"table:round_scores"`

	ID          uuid.UUID `bun:"id,pk,type:uuid"`
	QuizID      string    `bun:"quiz_id,notnull"`
	Score       int       `bun:"score,notnull"`
	SubmittedAt time.Time `bun:"submitted_at,notnull"`
}

// ResultStore keeps round payloads and submitted scores in Postgres. It
// serves both as the payload writer and the score board of a round.
type ResultStore struct {
	db  *bun.DB
	now func() time.Time
}

func NewResultStore(db *bun.DB) *ResultStore {
	return &ResultStore{db: db, now: time.Now}
}

// Write replaces the payload stored at path.
func (s *ResultStore) Write(ctx context.Context, path string, payload []byte) error {
	row := &roundPayload{Path: path, Payload: payload, WrittenAt: s.now().UTC()}
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*roundPayload)(nil)).Where("path = ?", path).Exec(ctx); err != nil {
			return fmt.Errorf("delete previous payload: %w", err)
		}
		if _, err := tx.NewInsert().Model(row).Exec(ctx); err != nil {
			return fmt.Errorf("insert payload: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Read returns the payload stored at path.
func (s *ResultStore) Read(ctx context.Context, path string) ([]byte, error) {
	row := new(roundPayload)
	err := s.db.NewSelect().Model(row).Where("path = ?", path).Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return row.Payload, nil
}

func (s *ResultStore) SubmitScore(ctx context.Context, quizID string, score int) error {
	row := &roundScore{ID: uuid.New(), QuizID: quizID, Score: score, SubmittedAt: s.now().UTC()}
	if _, err := s.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return fmt.Errorf("submit score: %w", err)
	}
	return nil
}

func (s *ResultStore) HighScore(ctx context.Context, quizID string) (int, error) {
	var high int
	err := s.db.NewSelect().
		Model((*roundScore)(nil)).
		ColumnExpr("COALESCE(MAX(score), 0)").
		Where("quiz_id = ?", quizID).
		Scan(ctx, &high)
	if err != nil {
		return 0, fmt.Errorf("high score: %w", err)
	}
	return high, nil
}
