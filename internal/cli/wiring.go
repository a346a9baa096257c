package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"quiz-round-service/internal/app"
	"quiz-round-service/internal/config"
	"quiz-round-service/internal/domain"
	"quiz-round-service/internal/infra/filesystem"
	"quiz-round-service/internal/infra/memory"
	"quiz-round-service/internal/infra/objectstore"
	pgstore "quiz-round-service/internal/infra/postgres"
	redisstore "quiz-round-service/internal/infra/redis"
)

// stack is the set of adapters a round service runs on.
type stack struct {
	quizzes app.QuizRepository
	writer  app.PayloadWriter
	scores  app.ScoreBoard
	rounds  app.RoundRepository
	closers []func()
}

func (s *stack) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func (s *stack) service(settings app.Settings, logger *zap.Logger) *app.RoundService {
	return app.NewRoundService(s.rounds, s.quizzes, s.writer, s.scores, settings, logger)
}

func buildStack(ctx context.Context, cfg config.Config, logger *zap.Logger) (*stack, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &stack{}
	ok := false
	defer func() {
		if !ok {
			s.Close()
		}
	}()

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		s.closers = append(s.closers, func() { _ = redisClient.Close() })
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var (
		pool    *pgxpool.Pool
		results *pgstore.ResultStore
	)
	if cfg.Postgres.URL != "" {
		db := openBun(cfg.Postgres.URL)
		s.closers = append(s.closers, func() { _ = db.Close() })
		if err := migrateDB(ctx, db, logger); err != nil {
			return nil, err
		}
		results = pgstore.NewResultStore(db)

		var err error
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		s.closers = append(s.closers, pool.Close)
	}

	var loader memory.QuizLoader = memory.NewStaticQuizLoader(sampleQuizzes())
	switch {
	case pool != nil:
		loader = pgstore.NewQuizLoader(pool)
	case cfg.Quiz.File != "":
		fileLoader, err := memory.LoadQuizFile(cfg.Quiz.File)
		if err != nil {
			return nil, err
		}
		loader = fileLoader
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	if redisClient != nil {
		s.quizzes = redisstore.NewQuizRepository(redisClient, loader, quizTTL, logger)
		s.rounds = redisstore.NewRoundStore(redisClient, redisTTL, logger)
		s.scores = redisstore.NewScoreBoard(redisClient)
	} else {
		s.quizzes = memory.NewQuizRepository(loader, quizTTL)
		s.rounds = memory.NewRoundStore()
		if results != nil {
			s.scores = results
		} else {
			s.scores = memory.NewScoreBoard()
		}
	}

	switch cfg.Storage.Driver {
	case config.StorageS3:
		s3cfg := cfg.Storage.S3
		writer, err := objectstore.NewPayloadWriter(ctx, objectstore.S3Config{
			Region:          s3cfg.Region,
			Bucket:          s3cfg.Bucket,
			Prefix:          s3cfg.Prefix,
			Endpoint:        s3cfg.Endpoint,
			AccessKeyID:     s3cfg.AccessKeyID,
			SecretAccessKey: s3cfg.SecretAccessKey,
		}, logger)
		if err != nil {
			return nil, err
		}
		s.writer = writer
	case config.StoragePostgres:
		if results == nil {
			return nil, fmt.Errorf("postgres storage needs postgres.url")
		}
		s.writer = results
	default:
		dir := cfg.Storage.Dir
		if dir == "" {
			dir = "results"
		}
		s.writer = filesystem.NewPayloadWriter(dir)
	}

	ok = true
	return s, nil
}

// sampleQuizzes provides a minimal catalogue when neither Postgres nor a quiz file is configured.
func sampleQuizzes() map[string]domain.Quiz {
	alternatives := func(right string, wrong ...string) []domain.Alternative {
		out := []domain.Alternative{{Text: right, Correct: true}}
		for _, w := range wrong {
			out = append(out, domain.Alternative{Text: w})
		}
		return out
	}
	return map[string]domain.Quiz{
		"quiz-1": {
			ID:    "quiz-1",
			Round: domain.RoundContext{PointsPerCorrect: 100, FolderPath: "players/guest"},
			Questions: []domain.Question{
				{ID: "q1", Text: "What is 2 + 2?", Alternatives: alternatives("4", "3", "5", "22")},
				{ID: "q2", Text: "Which planet is the largest?", Alternatives: alternatives("Jupiter", "Mars", "Venus", "Mercury")},
				{ID: "q3", Text: "What is the boiling point of water at sea level?", Alternatives: alternatives("100 °C", "90 °C", "80 °C", "120 °C")},
			},
		},
	}
}
