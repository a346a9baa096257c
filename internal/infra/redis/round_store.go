package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"quiz-round-service/internal/app"
)

// RoundStore is a Redis-aware implementation of app.RoundRepository.
// Rounds live in process memory since their presenter is bound to a local
// connection; Redis only holds a liveness marker per round so other
// instances can tell which rounds are running:
//
//	HSET quiz:round:{roundID} quiz_id {quizID} started_at {unix} (EX ttl)
type RoundStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger

	mu     sync.RWMutex
	rounds map[string]*app.Round
}

func NewRoundStore(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RoundStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoundStore{
		client: client,
		ttl:    ttl,
		logger: logger,
		rounds: make(map[string]*app.Round),
	}
}

func (s *RoundStore) Put(round *app.Round) {
	s.mu.Lock()
	s.rounds[round.ID()] = round
	s.mu.Unlock()

	ctx := context.Background()
	key := s.key(round.ID())
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, "quiz_id", round.QuizID(), "started_at", time.Now().Unix())
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Warn("mark round live failed", zap.String("round_id", round.ID()), zap.Error(err))
	}
}

func (s *RoundStore) Get(roundID string) (*app.Round, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	round, ok := s.rounds[roundID]
	return round, ok
}

func (s *RoundStore) Delete(roundID string) {
	s.mu.Lock()
	delete(s.rounds, roundID)
	s.mu.Unlock()

	if err := s.client.Del(context.Background(), s.key(roundID)).Err(); err != nil {
		s.logger.Warn("clear round marker failed", zap.String("round_id", roundID), zap.Error(err))
	}
}

func (s *RoundStore) key(roundID string) string {
	return "quiz:round:" + roundID
}
