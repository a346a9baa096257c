package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"quiz-round-service/internal/app"
	"quiz-round-service/internal/domain"
)

type WSHandler struct {
	service      *app.RoundService
	tickInterval time.Duration
	logger       *zap.Logger
	upgrader     websocket.Upgrader
}

func NewWSHandler(service *app.RoundService, tickInterval time.Duration, logger *zap.Logger) *WSHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if tickInterval <= 0 {
		tickInterval = 100 * time.Millisecond
	}
	return &WSHandler{
		service:      service,
		tickInterval: tickInterval,
		logger:       logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	Alternative int `json:"alternative"`
}

type powerUpPayload struct {
	Kind string `json:"kind"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type startedPayload struct {
	RoundID string `json:"roundId"`
	QuizID  string `json:"quizId"`
}

// ServeWS upgrades HTTP requests to websockets and plays one round per connection.
//
// A single loop goroutine owns the round: it advances it on every tick and
// applies inbound messages, so the round never sees concurrent calls.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	quizID := r.URL.Query().Get("quizId")
	if quizID == "" {
		http.Error(w, "missing quizId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	send := make(chan outboundMessage[any], 64)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.logger.Debug("ws write error", zap.Error(err))
				cancel()
				// keep draining so the loop never blocks on a dead peer
				for range send {
				}
				return
			}
		}
	}()
	defer func() {
		close(send)
		<-writerDone
	}()

	presenter := &wsPresenter{send: send, done: ctx.Done()}
	round, err := h.service.StartRound(ctx, quizID, presenter)
	if err != nil {
		h.logger.Warn("start round failed", zap.String("quiz_id", quizID), zap.Error(err))
		presenter.emit("error", errorPayload{Message: err.Error()})
		return
	}
	defer h.service.Finish(round.ID())
	presenter.emit("started", startedPayload{RoundID: round.ID(), QuizID: quizID})

	inbound := make(chan inboundMessage)
	go func() {
		defer cancel()
		for {
			var msg inboundMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			select {
			case inbound <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(h.tickInterval)
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case now := <-ticker.C:
			round.Tick(ctx, now.Sub(last))
			last = now
		case msg := <-inbound:
			if !h.handle(ctx, round, presenter, msg) {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// handle applies one inbound message; it returns false when the connection should close.
func (h *WSHandler) handle(ctx context.Context, round *app.Round, presenter *wsPresenter, msg inboundMessage) bool {
	switch msg.Type {
	case "answer":
		var payload answerPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			presenter.emit("error", errorPayload{Message: "invalid answer payload"})
			return true
		}
		if err := round.SubmitAnswer(ctx, payload.Alternative); err != nil {
			presenter.emit("error", errorPayload{Message: err.Error()})
		}
	case "powerUp":
		var payload powerUpPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			presenter.emit("error", errorPayload{Message: "invalid power-up payload"})
			return true
		}
		kind, err := domain.ParsePowerUpKind(payload.Kind)
		if err == nil {
			err = round.UsePowerUp(ctx, kind)
		}
		if err != nil {
			presenter.emit("error", errorPayload{Message: err.Error()})
		}
	case "menu":
		round.ReturnToMenu()
		return false
	default:
		presenter.emit("error", errorPayload{Message: "unsupported message type"})
	}
	return true
}
