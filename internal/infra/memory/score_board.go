package memory

import (
	"context"
	"sync"
)

// ScoreBoard keeps the best score per quiz in process memory.
type ScoreBoard struct {
	mu   sync.RWMutex
	best map[string]int
}

func NewScoreBoard() *ScoreBoard {
	return &ScoreBoard{best: make(map[string]int)}
}

func (b *ScoreBoard) HighScore(_ context.Context, quizID string) (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.best[quizID], nil
}

func (b *ScoreBoard) SubmitScore(_ context.Context, quizID string, score int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if score > b.best[quizID] {
		b.best[quizID] = score
	}
	return nil
}
