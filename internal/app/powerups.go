package app

import "quiz-round-service/internal/domain"

// PowerUps tracks the modifiers active on the current question and how many
// times each kind has been used during the round.
//
// Activation goes through the exported Activate* methods. Clearing and
// disabling are reserved to the Round that owns the state.
type PowerUps struct {
	frozen bool
	immune bool

	// disabled holds the alternatives taken out by absorbed wrong picks on
	// the current question, in the order they were absorbed.
	disabled []int

	eliminated     [2]int
	hasEliminated  bool
	lastEliminated [2]int

	uses  [4]int
	right int
	wrong int
}

// NewPowerUps returns an empty state.
func NewPowerUps() *PowerUps {
	return &PowerUps{}
}

func (p *PowerUps) IsTimeFrozen() bool { return p.frozen }

func (p *PowerUps) IsImmune() bool { return p.immune }

// DisabledAlternatives returns the alternatives taken out by absorbed wrong
// picks on this question.
func (p *PowerUps) DisabledAlternatives() []int {
	out := make([]int, len(p.disabled))
	copy(out, p.disabled)
	return out
}

// Eliminated returns the pair removed by eliminate-two on this question.
func (p *PowerUps) Eliminated() ([2]int, bool) {
	return p.eliminated, p.hasEliminated
}

// LastEliminated returns the most recent eliminate-two pair, kept after the
// question it applied to has ended.
func (p *PowerUps) LastEliminated() [2]int {
	return p.lastEliminated
}

// IsExcluded reports whether alternative i can no longer be selected.
func (p *PowerUps) IsExcluded(i int) bool {
	for _, d := range p.disabled {
		if d == i {
			return true
		}
	}
	return p.hasEliminated && (p.eliminated[0] == i || p.eliminated[1] == i)
}

// Uses returns the monotonically increasing usage counter for kind.
func (p *PowerUps) Uses(kind domain.PowerUpKind) int {
	if kind <= domain.PowerUpNone || int(kind) >= len(p.uses) {
		return 0
	}
	return p.uses[kind]
}

// AnswersSeen returns the right and wrong answers counted for trigger logic.
func (p *PowerUps) AnswersSeen() (right, wrong int) {
	return p.right, p.wrong
}

// ActivateEliminateTwo removes alternatives a and b from the current question.
func (p *PowerUps) ActivateEliminateTwo(a, b int) error {
	if p.hasEliminated {
		return domain.ErrPowerUpActive
	}
	p.eliminated = [2]int{a, b}
	p.lastEliminated = p.eliminated
	p.hasEliminated = true
	p.uses[domain.PowerUpEliminateTwo]++
	return nil
}

// ActivateFreeze stops the question countdown until the question changes.
func (p *PowerUps) ActivateFreeze() error {
	if p.frozen {
		return domain.ErrPowerUpActive
	}
	p.frozen = true
	p.uses[domain.PowerUpFreeze]++
	return nil
}

// ActivateImmunity makes the next wrong pick on this question harmless.
func (p *PowerUps) ActivateImmunity() error {
	if p.immune {
		return domain.ErrPowerUpActive
	}
	p.immune = true
	p.uses[domain.PowerUpImmunity]++
	return nil
}

// CountAnswer feeds the right/wrong counters.
func (p *PowerUps) CountAnswer(correct bool) {
	if correct {
		p.right++
		return
	}
	p.wrong++
}

func (p *PowerUps) clearImmunity() {
	p.immune = false
}

// disable takes alternative i out of play until the question changes. It
// reports false when i was already disabled.
func (p *PowerUps) disable(i int) bool {
	for _, d := range p.disabled {
		if d == i {
			return false
		}
	}
	p.disabled = append(p.disabled, i)
	return true
}

// nextQuestion releases everything scoped to the question that just ended.
// Immunity is left alone: an unused immunity carries over.
func (p *PowerUps) nextQuestion() {
	p.frozen = false
	p.disabled = nil
	p.hasEliminated = false
	p.eliminated = [2]int{}
}

// usageTracker turns the level counters of PowerUps into per-answer edges.
type usageTracker struct {
	seen [4]int
}

// detect reports which power-up fired since the previous answer. Only the
// first match in priority order is consumed, so a second simultaneous
// activation surfaces on the next answer.
func (t *usageTracker) detect(p *PowerUps) domain.PowerUpKind {
	for _, kind := range []domain.PowerUpKind{
		domain.PowerUpEliminateTwo,
		domain.PowerUpFreeze,
		domain.PowerUpImmunity,
	} {
		if used := p.Uses(kind); used != t.seen[kind] {
			t.seen[kind] = used
			return kind
		}
	}
	return domain.PowerUpNone
}
