package http

import "quiz-round-service/internal/domain"

type timerPayload struct {
	Display string `json:"display"`
}

type scorePayload struct {
	Score int `json:"score"`
}

type feedbackPayload struct {
	Correct bool `json:"correct"`
}

type alternativePayload struct {
	Index   int  `json:"index"`
	Enabled bool `json:"enabled"`
}

type noticePayload struct {
	Message string `json:"message"`
}

type navigatePayload struct {
	Screen domain.Screen `json:"screen"`
}

// wsPresenter turns presenter calls into outbound websocket messages.
// It is only called from the connection loop.
type wsPresenter struct {
	send chan<- outboundMessage[any]
	done <-chan struct{}
}

func (p *wsPresenter) emit(typ string, payload any) {
	select {
	case p.send <- outboundMessage[any]{Type: typ, Payload: payload}:
	case <-p.done:
	}
}

func (p *wsPresenter) ShowQuestion(q domain.QuestionView) { p.emit("question", q) }
func (p *wsPresenter) ShowTimer(display string) {
	p.emit("timer", timerPayload{Display: display})
}
func (p *wsPresenter) ShowScore(score int) { p.emit("score", scorePayload{Score: score}) }
func (p *wsPresenter) ShowFeedback(correct bool) {
	p.emit("feedback", feedbackPayload{Correct: correct})
}
func (p *wsPresenter) SetAlternativeEnabled(index int, enabled bool) {
	p.emit("alternative", alternativePayload{Index: index, Enabled: enabled})
}
func (p *wsPresenter) ShowResults(results domain.RoundResults) { p.emit("results", results) }
func (p *wsPresenter) ShowNotice(message string) {
	p.emit("notice", noticePayload{Message: message})
}
func (p *wsPresenter) NavigateTo(screen domain.Screen) {
	p.emit("navigate", navigatePayload{Screen: screen})
}
