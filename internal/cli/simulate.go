package cli

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"quiz-round-service/internal/app"
	"quiz-round-service/internal/config"
	"quiz-round-service/internal/domain"
)

// NewSimulateCmd plays one headless round with a random player.
func NewSimulateCmd(configPath *string, logger *zap.Logger) *cobra.Command {
	var (
		quizID      string
		seed        int64
		powerUpRate float64
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play a headless round with random answers on simulated time",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			deps, err := buildStack(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer deps.Close()

			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			sim := simulation{
				service:     deps.service(cfg.RoundSettings(), logger),
				rnd:         rand.New(rand.NewSource(seed)),
				step:        cfg.TickInterval(),
				powerUpRate: powerUpRate,
				out:         cmd.OutOrStdout(),
				logger:      logger,
			}
			_, err = sim.run(cmd.Context(), quizID)
			return err
		},
	}
	cmd.Flags().StringVar(&quizID, "quiz", "quiz-1", "quiz to play")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
	cmd.Flags().Float64Var(&powerUpRate, "power-ups", 0.25, "chance of using a power-up before each answer")
	return cmd
}

type simulation struct {
	service     *app.RoundService
	rnd         *rand.Rand
	step        time.Duration
	powerUpRate float64
	out         io.Writer
	logger      *zap.Logger
}

const maxSimulatedTime = 24 * time.Hour

func (s simulation) run(ctx context.Context, quizID string) (domain.RoundResults, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	presenter := newConsolePresenter(s.out)
	round, err := s.service.StartRound(ctx, quizID, presenter)
	if err != nil {
		return domain.RoundResults{}, err
	}
	defer s.service.Finish(round.ID())

	question := 0
	var waited, think time.Duration
	for elapsed := time.Duration(0); elapsed < maxSimulatedTime; elapsed += s.step {
		if results, ended := round.Results(); ended {
			return results, nil
		}
		if presenter.question.Number != question {
			question = presenter.question.Number
			waited, think = 0, s.thinkTime()
		}
		if round.State() == app.StateActive && waited >= think {
			s.maybeUsePowerUp(ctx, round)
			if pick, ok := presenter.pick(s.rnd); ok {
				if err := round.SubmitAnswer(ctx, pick); err != nil {
					s.logger.Debug("simulated answer rejected", zap.Int("alternative", pick), zap.Error(err))
				}
			}
			waited, think = 0, s.thinkTime()
		}
		round.Tick(ctx, s.step)
		waited += s.step
	}
	return domain.RoundResults{}, fmt.Errorf("round %s did not finish", round.ID())
}

// thinkTime is how long the simulated player looks at a question, up to 40s
// so that some questions time out.
func (s simulation) thinkTime() time.Duration {
	return time.Duration(1+s.rnd.Intn(40)) * time.Second
}

func (s simulation) maybeUsePowerUp(ctx context.Context, round *app.Round) {
	if s.rnd.Float64() >= s.powerUpRate {
		return
	}
	kind := domain.PowerUpKind(1 + s.rnd.Intn(3))
	if err := round.UsePowerUp(ctx, kind); err != nil {
		s.logger.Debug("simulated power-up refused", zap.Stringer("kind", kind), zap.Error(err))
		return
	}
	fmt.Fprintf(s.out, "  * %s\n", kind)
}

// consolePresenter prints the round as plain text.
type consolePresenter struct {
	out      io.Writer
	question domain.QuestionView
	disabled map[int]bool
}

func newConsolePresenter(out io.Writer) *consolePresenter {
	return &consolePresenter{out: out, disabled: make(map[int]bool)}
}

func (p *consolePresenter) ShowQuestion(q domain.QuestionView) {
	p.question = q
	p.disabled = make(map[int]bool)
	fmt.Fprintf(p.out, "\nQ%d/%d %s\n", q.Number, q.Total, q.Text)
	for i, alt := range q.Alternatives {
		fmt.Fprintf(p.out, "  [%d] %s\n", i, alt)
	}
}

func (p *consolePresenter) ShowTimer(string) {}

func (p *consolePresenter) ShowScore(score int) {
	fmt.Fprintf(p.out, "  score: %d\n", score)
}

func (p *consolePresenter) ShowFeedback(correct bool) {
	if correct {
		fmt.Fprintln(p.out, "  correct")
		return
	}
	fmt.Fprintln(p.out, "  wrong")
}

func (p *consolePresenter) SetAlternativeEnabled(index int, enabled bool) {
	p.disabled[index] = !enabled
	if !enabled {
		fmt.Fprintf(p.out, "  [%d] removed\n", index)
	}
}

func (p *consolePresenter) ShowResults(r domain.RoundResults) {
	fmt.Fprintf(p.out, "\nscore %d (best %d) right %d wrong %d streak %d time %s\n",
		r.Score, r.HighScore, r.RightAnswers, r.WrongAnswers, r.MaxStreak, r.TotalTime)
}

func (p *consolePresenter) ShowNotice(message string) {
	fmt.Fprintf(p.out, "! %s\n", message)
}

func (p *consolePresenter) NavigateTo(screen domain.Screen) {
	fmt.Fprintf(p.out, "-> %s\n", screen)
}

// pick chooses a random alternative that is still enabled.
func (p *consolePresenter) pick(rnd *rand.Rand) (int, bool) {
	var open []int
	for i := range p.question.Alternatives {
		if !p.disabled[i] {
			open = append(open, i)
		}
	}
	if len(open) == 0 {
		return 0, false
	}
	return open[rnd.Intn(len(open))], true
}
