package domain

import "time"

// Alternative is one selectable answer of a question.
type Alternative struct {
	Text    string `json:"text" yaml:"text"`
	Correct bool   `json:"correct" yaml:"correct"`
}

// Question models a multiple-choice question.
type Question struct {
	ID           string        `json:"id" yaml:"id"`
	Text         string        `json:"text" yaml:"text"`
	Alternatives []Alternative `json:"alternatives" yaml:"alternatives"`
}

// Clone returns a deep copy so callers can reorder alternatives freely.
func (q Question) Clone() Question {
	alts := make([]Alternative, len(q.Alternatives))
	copy(alts, q.Alternatives)
	q.Alternatives = alts
	return q
}

// RoundContext carries per-round settings served alongside the question pool.
type RoundContext struct {
	PointsPerCorrect int    `json:"pointsPerCorrect" yaml:"pointsPerCorrect"`
	FolderPath       string `json:"folderPath" yaml:"folderPath"`
}

// Quiz is a question pool plus the context of the round that plays it.
type Quiz struct {
	ID        string       `json:"id" yaml:"id"`
	Round     RoundContext `json:"round" yaml:"round"`
	Questions []Question   `json:"questions" yaml:"questions"`
}

// Clone deep-copies the question pool.
func (q Quiz) Clone() Quiz {
	questions := make([]Question, len(q.Questions))
	for i, question := range q.Questions {
		questions[i] = question.Clone()
	}
	q.Questions = questions
	return q
}

// PowerUpKind identifies a power-up in the encoded answer log.
type PowerUpKind int

const (
	PowerUpNone PowerUpKind = iota
	PowerUpEliminateTwo
	PowerUpFreeze
	PowerUpImmunity
)

func (k PowerUpKind) String() string {
	switch k {
	case PowerUpEliminateTwo:
		return "eliminate-two"
	case PowerUpFreeze:
		return "freeze"
	case PowerUpImmunity:
		return "immunity"
	default:
		return "none"
	}
}

// ParsePowerUpKind maps the wire name back to a kind.
func ParsePowerUpKind(name string) (PowerUpKind, error) {
	switch name {
	case "eliminate-two":
		return PowerUpEliminateTwo, nil
	case "freeze":
		return PowerUpFreeze, nil
	case "immunity":
		return PowerUpImmunity, nil
	}
	return PowerUpNone, ErrUnknownPowerUp
}

// NoAlternative marks a timeout: the clock ran out before a selection.
const NoAlternative = -1

// AnswerRecord is the structured form of one entry of the answer log.
// Indices are zero-based; the encoded form shifts them to one-based.
type AnswerRecord struct {
	QuestionIndex int
	Alternative   int
	Remaining     time.Duration
	Correct       bool
	PowerUp       PowerUpKind
	Eliminated    [2]int
}

// SessionSummary is the payload persisted at round end.
type SessionSummary struct {
	Score        int      `json:"score"`
	RightAnswers int      `json:"rightAnswers"`
	WrongAnswers int      `json:"wrongAnswers"`
	Streak       int      `json:"streak"`
	StartTime    string   `json:"startTime"`
	TotalTime    string   `json:"totalTime"`
	Hab1         int      `json:"hab1"`
	Hab2         int      `json:"hab2"`
	Hab3         int      `json:"hab3"`
	Sequence     []string `json:"sequencia_atuacao"`
}

// RoundResults is what the results screen shows.
type RoundResults struct {
	QuizID       string `json:"quizId"`
	Score        int    `json:"score"`
	HighScore    int    `json:"highScore"`
	RightAnswers int    `json:"rightAnswers"`
	WrongAnswers int    `json:"wrongAnswers"`
	MaxStreak    int    `json:"maxStreak"`
	TotalTime    string `json:"totalTime"`
	SaveFailed   bool   `json:"saveFailed"`
}

// QuestionView is a question as shown to the player, without correctness.
type QuestionView struct {
	Number       int      `json:"number"`
	Total        int      `json:"total"`
	Text         string   `json:"text"`
	Alternatives []string `json:"alternatives"`
}

// Screen names a navigation target.
type Screen string

const (
	ScreenResults Screen = "QuizResult"
	ScreenMenu    Screen = "MenuScreen"
)
