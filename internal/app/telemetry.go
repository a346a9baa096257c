package app

import (
	"time"

	"quiz-round-service/internal/domain"
)

// startTimeLayout formats the session start timestamp.
const startTimeLayout = "2006-01-02 15:04:05"

// Telemetry accumulates scoring and the ordered answer log of one round.
type Telemetry struct {
	score     int
	streak    int
	maxStreak int
	right     int
	wrong     int
	startedAt time.Time
	records   []domain.AnswerRecord
}

func newTelemetry(startedAt time.Time) *Telemetry {
	return &Telemetry{startedAt: startedAt}
}

// AddCorrect adds points and extends the streak.
func (t *Telemetry) AddCorrect(points int) {
	t.score += points
	t.right++
	t.streak++
	if t.streak > t.maxStreak {
		t.maxStreak = t.streak
	}
}

// AddWrong counts a wrong answer. resetStreak is false when immunity absorbed it.
func (t *Telemetry) AddWrong(resetStreak bool) {
	t.wrong++
	if resetStreak {
		t.streak = 0
	}
}

// Append adds a record to the log.
func (t *Telemetry) Append(rec domain.AnswerRecord) {
	t.records = append(t.records, rec)
}

func (t *Telemetry) Score() int     { return t.score }
func (t *Telemetry) Streak() int    { return t.streak }
func (t *Telemetry) MaxStreak() int { return t.maxStreak }
func (t *Telemetry) Right() int     { return t.right }
func (t *Telemetry) Wrong() int     { return t.wrong }

// Records returns a copy of the answer log.
func (t *Telemetry) Records() []domain.AnswerRecord {
	out := make([]domain.AnswerRecord, len(t.records))
	copy(out, t.records)
	return out
}

// Summary builds the persisted payload.
func (t *Telemetry) Summary(reference time.Duration, totalTime string, p *PowerUps) domain.SessionSummary {
	seq := make([]string, 0, len(t.records))
	for _, rec := range t.records {
		seq = append(seq, EncodeRecord(rec, reference))
	}
	return domain.SessionSummary{
		Score:        t.score,
		RightAnswers: t.right,
		WrongAnswers: t.wrong,
		Streak:       t.maxStreak,
		StartTime:    t.startedAt.Format(startTimeLayout),
		TotalTime:    totalTime,
		Hab1:         p.Uses(domain.PowerUpEliminateTwo),
		Hab2:         p.Uses(domain.PowerUpFreeze),
		Hab3:         p.Uses(domain.PowerUpImmunity),
		Sequence:     seq,
	}
}
