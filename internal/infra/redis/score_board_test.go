package redis

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestScoreBoardHighScore(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	board := NewScoreBoard(newClient(mr))

	if high, err := board.HighScore(ctx, "quiz-1"); err != nil || high != 0 {
		t.Fatalf("expected empty board, got %d %v", high, err)
	}
	for _, score := range []int{200, 500, 200} {
		if err := board.SubmitScore(ctx, "quiz-1", score); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
	high, err := board.HighScore(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("high score: %v", err)
	}
	if high != 500 {
		t.Fatalf("expected 500, got %d", high)
	}
	members, err := mr.ZMembers("quiz:quiz-1:scores")
	if err != nil {
		t.Fatalf("members: %v", err)
	}
	if len(members) != 3 {
		t.Fatalf("expected every submission kept, got %d", len(members))
	}
}
