package app

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"path"
	"sort"
	"time"

	"go.uber.org/zap"

	"quiz-round-service/internal/domain"
)

// ResultFile is the name of the payload written into the round folder.
const ResultFile = "quiz_result.json"

// TimeoutPolicy decides what a timeout does while immunity is active.
type TimeoutPolicy string

const (
	// TimeoutForceAnswered ignores immunity: the question counts as answered
	// and the unused immunity carries over.
	TimeoutForceAnswered TimeoutPolicy = "force-answered"
	// TimeoutAbsorb lets immunity absorb the timeout: immunity is consumed and
	// the question clock restarts once the feedback is over.
	TimeoutAbsorb TimeoutPolicy = "absorb"
)

// Settings tunes round timing and features.
type Settings struct {
	QuestionTime       time.Duration
	FeedbackDelay      time.Duration
	ElapsedReference   time.Duration
	PowerUpsEnabled    bool
	TimeoutWhileImmune TimeoutPolicy
}

// DefaultSettings mirrors the timings of the game client.
func DefaultSettings() Settings {
	return Settings{
		QuestionTime:       30 * time.Second,
		FeedbackDelay:      3 * time.Second,
		ElapsedReference:   DefaultElapsedReference,
		PowerUpsEnabled:    true,
		TimeoutWhileImmune: TimeoutForceAnswered,
	}
}

// State is the lifecycle position of a round.
type State int

const (
	StateIdle State = iota
	StateActive
	StateAnswered
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateAnswered:
		return "answered"
	case StateEnded:
		return "ended"
	default:
		return "idle"
	}
}

// RoundDeps are the collaborators a round talks to.
type RoundDeps struct {
	Quizzes   QuizRepository
	Writer    PayloadWriter
	Scores    ScoreBoard
	Presenter Presenter
	Logger    *zap.Logger
	// Now and Rand default to the wall clock and a time-seeded source.
	Now  func() time.Time
	Rand *rand.Rand
}

// Round is the state machine of one pass through a question pool.
//
// A Round is not safe for concurrent use. Tick, SubmitAnswer, UsePowerUp and
// the other mutating calls must all come from the goroutine that owns it;
// delayed work runs from Tick.
type Round struct {
	id       string
	quizID   string
	settings Settings
	deps     RoundDeps
	logger   *zap.Logger

	state           State
	answered        bool
	feedbackPending bool
	disposed        bool
	generation      uint64

	roundCtx  domain.RoundContext
	questions []domain.Question
	index     int

	questionClock *Clock
	totalClock    *Clock
	lastTimer     string

	powerUps  *PowerUps
	tracker   usageTracker
	telemetry *Telemetry
	scheduler *Scheduler

	results domain.RoundResults
}

// NewRound builds an idle round. Nothing is loaded until Start.
func NewRound(id, quizID string, deps RoundDeps, settings Settings) *Round {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if settings.TimeoutWhileImmune == "" {
		settings.TimeoutWhileImmune = TimeoutForceAnswered
	}
	return &Round{
		id:        id,
		quizID:    quizID,
		settings:  settings,
		deps:      deps,
		logger:    deps.Logger.With(zap.String("round_id", id), zap.String("quiz_id", quizID)),
		powerUps:  NewPowerUps(),
		scheduler: NewScheduler(),
	}
}

func (r *Round) ID() string     { return r.id }
func (r *Round) QuizID() string { return r.quizID }

// State reports the lifecycle state; an active round whose current question
// has been answered reports StateAnswered.
func (r *Round) State() State {
	if r.state == StateActive && r.answered {
		return StateAnswered
	}
	return r.state
}

// QuestionIndex is the zero-based index of the current question.
func (r *Round) QuestionIndex() int { return r.index }

// Remaining is the time left on the current question.
func (r *Round) Remaining() time.Duration {
	if r.questionClock == nil {
		return 0
	}
	return r.questionClock.Time()
}

// Elapsed is the total time the round has been running.
func (r *Round) Elapsed() time.Duration {
	if r.totalClock == nil {
		return 0
	}
	return r.totalClock.Time()
}

func (r *Round) PowerUps() *PowerUps   { return r.powerUps }
func (r *Round) Telemetry() *Telemetry { return r.telemetry }

// Results returns the final results once the round has ended.
func (r *Round) Results() (domain.RoundResults, bool) {
	return r.results, r.state == StateEnded
}

// SetPointsPerCorrect changes the points awarded from the next correct answer on.
func (r *Round) SetPointsPerCorrect(points int) {
	r.roundCtx.PointsPerCorrect = points
}

// Start loads the quiz, shuffles alternatives and presents the first question.
func (r *Round) Start(ctx context.Context) error {
	if r.state != StateIdle || r.disposed {
		return domain.ErrRoundStarted
	}
	if err := r.checkDeps(); err != nil {
		return err
	}

	quiz, err := r.deps.Quizzes.GetQuiz(ctx, r.quizID)
	if err != nil {
		return fmt.Errorf("load quiz %s: %w", r.quizID, err)
	}
	if len(quiz.Questions) == 0 {
		return fmt.Errorf("quiz %s: %w", r.quizID, domain.ErrEmptyQuestionPool)
	}
	if len(quiz.Questions) > MaxQuestions {
		return fmt.Errorf("quiz %s has %d questions: %w", r.quizID, len(quiz.Questions), domain.ErrQuestionPoolTooLarge)
	}
	for i, q := range quiz.Questions {
		if len(q.Alternatives) == 0 {
			return fmt.Errorf("quiz %s question %d has no alternatives: %w", r.quizID, i+1, domain.ErrEmptyQuestionPool)
		}
	}

	r.roundCtx = quiz.Round
	r.questions = shuffleAlternatives(quiz.Questions, r.deps.Rand)
	r.index = 0
	r.questionClock = NewClock(r.settings.QuestionTime)
	r.totalClock = NewClock(0)
	r.telemetry = newTelemetry(r.deps.Now())
	r.state = StateActive

	r.deps.Presenter.ShowScore(0)
	r.showQuestion()
	r.publishTimer()
	r.logger.Info("round started", zap.Int("questions", len(r.questions)), zap.Bool("power_ups", r.settings.PowerUpsEnabled))
	return nil
}

func (r *Round) checkDeps() error {
	switch {
	case r.deps.Quizzes == nil:
		return fmt.Errorf("%w: quiz repository", domain.ErrMissingCollaborator)
	case r.deps.Writer == nil:
		return fmt.Errorf("%w: payload writer", domain.ErrMissingCollaborator)
	case r.deps.Scores == nil:
		return fmt.Errorf("%w: score board", domain.ErrMissingCollaborator)
	case r.deps.Presenter == nil:
		return fmt.Errorf("%w: presenter", domain.ErrMissingCollaborator)
	}
	return nil
}

func shuffleAlternatives(questions []domain.Question, rnd *rand.Rand) []domain.Question {
	out := make([]domain.Question, len(questions))
	for i, q := range questions {
		q = q.Clone()
		rnd.Shuffle(len(q.Alternatives), func(a, b int) {
			q.Alternatives[a], q.Alternatives[b] = q.Alternatives[b], q.Alternatives[a]
		})
		out[i] = q
	}
	return out
}

func (r *Round) live() bool {
	return r.state == StateActive && !r.disposed
}

// Tick advances the round by one frame of length delta.
func (r *Round) Tick(ctx context.Context, delta time.Duration) {
	if r.disposed || r.state == StateIdle {
		return
	}
	r.scheduler.Advance(delta)

	if r.live() && !r.answered {
		r.totalClock.Advance(delta)
		if !r.frozen() {
			r.questionClock.Countdown(delta)
		}
		r.publishTimer()
		if r.questionClock.Expired() && !r.feedbackPending {
			r.timeout(ctx)
		}
	}

	r.scheduler.RunDue(ctx)
}

func (r *Round) frozen() bool {
	return r.settings.PowerUpsEnabled && r.powerUps.IsTimeFrozen()
}

func (r *Round) immune() bool {
	return r.settings.PowerUpsEnabled && r.powerUps.IsImmune()
}

func (r *Round) lastQuestion() bool {
	return r.index == len(r.questions)-1
}

func (r *Round) timeout(ctx context.Context) {
	last := r.lastQuestion()
	absorb := r.immune() && r.settings.TimeoutWhileImmune == TimeoutAbsorb && !last
	r.logger.Debug("question timed out", zap.Int("question", r.index+1), zap.Bool("absorbed", absorb))

	r.resolve(domain.NoAlternative, false, absorb)
	if last {
		r.EndRound(ctx)
		return
	}
	r.scheduleFeedback(false, domain.NoAlternative, absorb)
}

// SubmitAnswer selects alternative i of the current question. Selections
// outside the question or removed by a power-up are rejected and not
// recorded. A submission on an answered question is ignored.
func (r *Round) SubmitAnswer(_ context.Context, i int) error {
	if !r.live() || r.answered || r.feedbackPending {
		return nil
	}
	q := r.questions[r.index]
	if i < 0 || i >= len(q.Alternatives) {
		r.logger.Warn("answer rejected", zap.Int("alternative", i), zap.Int("alternatives", len(q.Alternatives)))
		return fmt.Errorf("%w: %d", domain.ErrAlternativeOutOfRange, i)
	}
	if r.settings.PowerUpsEnabled && r.powerUps.IsExcluded(i) {
		r.logger.Warn("answer rejected", zap.Int("alternative", i), zap.String("reason", "disabled"))
		return fmt.Errorf("%w: %d", domain.ErrAlternativeDisabled, i)
	}

	correct := q.Alternatives[i].Correct
	absorb := r.immune() && !correct
	if correct && r.immune() {
		r.powerUps.clearImmunity()
	}

	r.resolve(i, correct, absorb)
	r.scheduleFeedback(correct, i, absorb)
	return nil
}

// resolve does the bookkeeping of one answer and appends its record.
func (r *Round) resolve(alt int, correct, absorb bool) {
	if !absorb {
		r.answered = true
	}
	if r.settings.PowerUpsEnabled {
		r.powerUps.CountAnswer(correct)
	}
	if correct {
		r.telemetry.AddCorrect(r.roundCtx.PointsPerCorrect)
		r.deps.Presenter.ShowScore(r.telemetry.Score())
	} else {
		r.telemetry.AddWrong(!absorb)
	}

	rec := domain.AnswerRecord{
		QuestionIndex: r.index,
		Alternative:   alt,
		Remaining:     r.questionClock.Time(),
		Correct:       correct,
	}
	if r.settings.PowerUpsEnabled {
		rec.PowerUp = r.tracker.detect(r.powerUps)
		if rec.PowerUp == domain.PowerUpEliminateTwo {
			rec.Eliminated = r.powerUps.LastEliminated()
		}
	}
	r.telemetry.Append(rec)

	r.logger.Debug("answer recorded",
		zap.String("record", EncodeRecord(rec, r.settings.ElapsedReference)),
		zap.Int("score", r.telemetry.Score()),
		zap.Int("streak", r.telemetry.Streak()),
	)
}

func (r *Round) scheduleFeedback(correct bool, alt int, absorb bool) {
	r.deps.Presenter.ShowFeedback(correct)
	r.feedbackPending = true
	gen := r.generation
	r.scheduler.After(r.settings.FeedbackDelay, func(ctx context.Context) {
		if gen != r.generation || !r.live() {
			return
		}
		r.feedbackPending = false
		if absorb {
			r.absorbed(alt)
			return
		}
		r.advance(ctx)
	})
}

// absorbed finishes a pick that immunity took: the question stays open.
func (r *Round) absorbed(alt int) {
	r.powerUps.clearImmunity()
	if alt == domain.NoAlternative {
		r.questionClock.Reset(r.settings.QuestionTime)
		r.publishTimer()
		return
	}
	if r.powerUps.disable(alt) {
		r.deps.Presenter.SetAlternativeEnabled(alt, false)
	}
}

func (r *Round) advance(ctx context.Context) {
	if r.lastQuestion() {
		r.EndRound(ctx)
		return
	}
	r.releaseAlternatives()
	r.powerUps.nextQuestion()
	r.index++
	r.questionClock.Reset(r.settings.QuestionTime)
	r.answered = false
	r.showQuestion()
	r.publishTimer()
}

// releaseAlternatives re-enables everything taken out on the current question
// before the next one is shown.
func (r *Round) releaseAlternatives() {
	for _, i := range r.powerUps.DisabledAlternatives() {
		r.deps.Presenter.SetAlternativeEnabled(i, true)
	}
	if pair, active := r.powerUps.Eliminated(); active {
		r.deps.Presenter.SetAlternativeEnabled(pair[0], true)
		r.deps.Presenter.SetAlternativeEnabled(pair[1], true)
	}
}

// UsePowerUp activates kind on the current question.
func (r *Round) UsePowerUp(_ context.Context, kind domain.PowerUpKind) error {
	if !r.settings.PowerUpsEnabled {
		return domain.ErrPowerUpsDisabled
	}
	if !r.live() || r.answered || r.feedbackPending {
		return domain.ErrRoundNotActive
	}

	var err error
	switch kind {
	case domain.PowerUpEliminateTwo:
		err = r.eliminateTwo()
	case domain.PowerUpFreeze:
		err = r.powerUps.ActivateFreeze()
	case domain.PowerUpImmunity:
		err = r.powerUps.ActivateImmunity()
	default:
		err = domain.ErrUnknownPowerUp
	}
	if err != nil {
		return err
	}
	r.logger.Info("power-up activated", zap.Stringer("kind", kind), zap.Int("question", r.index+1))
	return nil
}

func (r *Round) eliminateTwo() error {
	if _, active := r.powerUps.Eliminated(); active {
		return domain.ErrPowerUpActive
	}
	var wrong []int
	for i, alt := range r.questions[r.index].Alternatives {
		if !alt.Correct && !r.powerUps.IsExcluded(i) {
			wrong = append(wrong, i)
		}
	}
	if len(wrong) < 2 {
		return domain.ErrNotEnoughAlternatives
	}
	r.deps.Rand.Shuffle(len(wrong), func(a, b int) { wrong[a], wrong[b] = wrong[b], wrong[a] })
	pair := wrong[:2]
	sort.Ints(pair)

	if err := r.powerUps.ActivateEliminateTwo(pair[0], pair[1]); err != nil {
		return err
	}
	r.deps.Presenter.SetAlternativeEnabled(pair[0], false)
	r.deps.Presenter.SetAlternativeEnabled(pair[1], false)
	return nil
}

// EndRound finalizes the round: submits the score, persists the session
// summary and switches to the results screen. A failed write is reported to
// the presenter but never blocks the results.
func (r *Round) EndRound(ctx context.Context) {
	if !r.live() {
		return
	}
	r.state = StateEnded
	r.generation++
	r.scheduler.CancelAll()
	r.feedbackPending = false

	total := r.totalClock.HHMMSS()
	score := r.telemetry.Score()
	results := domain.RoundResults{
		QuizID:       r.quizID,
		Score:        score,
		HighScore:    score,
		RightAnswers: r.telemetry.Right(),
		WrongAnswers: r.telemetry.Wrong(),
		MaxStreak:    r.telemetry.MaxStreak(),
		TotalTime:    total,
	}

	if err := r.deps.Scores.SubmitScore(ctx, r.quizID, score); err != nil {
		r.logger.Error("submit score failed", zap.Error(err))
	}
	if high, err := r.deps.Scores.HighScore(ctx, r.quizID); err != nil {
		r.logger.Error("read high score failed", zap.Error(err))
	} else if high > results.HighScore {
		results.HighScore = high
	}

	summary := r.telemetry.Summary(r.settings.ElapsedReference, total, r.powerUps)
	if err := r.persist(ctx, summary); err != nil {
		r.logger.Error("save quiz results failed", zap.Error(err))
		results.SaveFailed = true
		r.deps.Presenter.ShowNotice("quiz results could not be saved")
	}
	r.results = results

	r.logger.Info("round ended",
		zap.String("total_time", total),
		zap.Int("score", score),
		zap.Int("records", len(summary.Sequence)),
	)
	r.deps.Presenter.ShowResults(results)
	r.deps.Presenter.NavigateTo(domain.ScreenResults)
}

func (r *Round) persist(ctx context.Context, summary domain.SessionSummary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	return r.deps.Writer.Write(ctx, path.Join(r.roundCtx.FolderPath, ResultFile), payload)
}

// ReturnToMenu abandons the round and goes back to the menu.
func (r *Round) ReturnToMenu() {
	r.Dispose()
	if r.deps.Presenter != nil {
		r.deps.Presenter.NavigateTo(domain.ScreenMenu)
	}
}

// Dispose tears the round down. Continuations still queued never run and
// later calls are no-ops.
func (r *Round) Dispose() {
	if r.disposed {
		return
	}
	r.disposed = true
	r.generation++
	r.scheduler.CancelAll()
}

func (r *Round) showQuestion() {
	q := r.questions[r.index]
	texts := make([]string, len(q.Alternatives))
	for i, alt := range q.Alternatives {
		texts[i] = alt.Text
	}
	r.deps.Presenter.ShowQuestion(domain.QuestionView{
		Number:       r.index + 1,
		Total:        len(r.questions),
		Text:         q.Text,
		Alternatives: texts,
	})
}

func (r *Round) publishTimer() {
	display := r.questionClock.Formatted()
	if display == r.lastTimer {
		return
	}
	r.lastTimer = display
	r.deps.Presenter.ShowTimer(display)
}
