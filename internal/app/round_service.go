package app

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"quiz-round-service/internal/domain"
)

// QuizRepository loads quiz content (from cache/backing store). The quiz
// carries both the question pool and the round context.
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// PayloadWriter persists a finished payload at path, replacing what was there.
type PayloadWriter interface {
	Write(ctx context.Context, path string, payload []byte) error
}

// ScoreBoard keeps the best score per quiz.
type ScoreBoard interface {
	HighScore(ctx context.Context, quizID string) (int, error)
	SubmitScore(ctx context.Context, quizID string, score int) error
}

// Presenter renders round state. Calls always come from the goroutine that
// drives the round.
type Presenter interface {
	ShowQuestion(q domain.QuestionView)
	ShowTimer(display string)
	ShowScore(score int)
	ShowFeedback(correct bool)
	SetAlternativeEnabled(index int, enabled bool)
	ShowResults(results domain.RoundResults)
	ShowNotice(message string)
	NavigateTo(screen domain.Screen)
}

// RoundRepository abstracts where live rounds are registered (in-memory, Redis, etc).
type RoundRepository interface {
	Put(round *Round)
	Get(roundID string) (*Round, bool)
	Delete(roundID string)
}

// RoundService contains the round use cases.
type RoundService struct {
	rounds   RoundRepository
	quizzes  QuizRepository
	writer   PayloadWriter
	scores   ScoreBoard
	settings Settings
	logger   *zap.Logger
}

func NewRoundService(rounds RoundRepository, quizzes QuizRepository, writer PayloadWriter, scores ScoreBoard, settings Settings, logger *zap.Logger) *RoundService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoundService{
		rounds:   rounds,
		quizzes:  quizzes,
		writer:   writer,
		scores:   scores,
		settings: settings,
		logger:   logger,
	}
}

// Settings returns the round settings the service was built with.
func (s *RoundService) Settings() Settings {
	return s.settings
}

// StartRound builds a round for quizID, starts it and registers it.
func (s *RoundService) StartRound(ctx context.Context, quizID string, presenter Presenter) (*Round, error) {
	round := NewRound(uuid.NewString(), quizID, RoundDeps{
		Quizzes:   s.quizzes,
		Writer:    s.writer,
		Scores:    s.scores,
		Presenter: presenter,
		Logger:    s.logger,
	}, s.settings)
	if err := round.Start(ctx); err != nil {
		return nil, err
	}
	s.rounds.Put(round)
	return round, nil
}

// Get returns a registered round.
func (s *RoundService) Get(roundID string) (*Round, error) {
	round, ok := s.rounds.Get(roundID)
	if !ok {
		return nil, domain.ErrRoundNotFound
	}
	return round, nil
}

// Finish tears a round down and drops it from the registry. Pending
// continuations of the round become no-ops.
func (s *RoundService) Finish(roundID string) {
	round, ok := s.rounds.Get(roundID)
	if !ok {
		return
	}
	round.Dispose()
	s.rounds.Delete(roundID)
}
