package redis

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ScoreBoard keeps every submitted score in a sorted set per quiz:
//
//	ZADD quiz:{quizID}:scores {score} {submissionID}
type ScoreBoard struct {
	client *redis.Client
}

func NewScoreBoard(client *redis.Client) *ScoreBoard {
	return &ScoreBoard{client: client}
}

func (b *ScoreBoard) SubmitScore(ctx context.Context, quizID string, score int) error {
	return b.client.ZAdd(ctx, b.key(quizID), redis.Z{
		Score:  float64(score),
		Member: uuid.NewString(),
	}).Err()
}

func (b *ScoreBoard) HighScore(ctx context.Context, quizID string) (int, error) {
	top, err := b.client.ZRevRangeWithScores(ctx, b.key(quizID), 0, 0).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	if len(top) == 0 {
		return 0, nil
	}
	return int(top[0].Score), nil
}

func (b *ScoreBoard) key(quizID string) string {
	return "quiz:" + quizID + ":scores"
}
