package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"quiz-round-service/internal/app"
	"quiz-round-service/internal/domain"
	"quiz-round-service/internal/infra/memory"
)

type memoryWriter struct {
	writes chan string
}

func (w *memoryWriter) Write(_ context.Context, path string, _ []byte) error {
	w.writes <- path
	return nil
}

func newTestServer(t *testing.T) (*httptest.Server, *memoryWriter) {
	t.Helper()
	settings := app.DefaultSettings()
	settings.FeedbackDelay = 30 * time.Millisecond

	writer := &memoryWriter{writes: make(chan string, 4)}
	quizRepo := memory.NewQuizRepository(memory.NewStaticQuizLoader(sampleQuiz()), time.Minute)
	service := app.NewRoundService(memory.NewRoundStore(), quizRepo, writer, memory.NewScoreBoard(), settings, nil)
	wsHandler := NewWSHandler(service, 5*time.Millisecond, nil)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, writer
}

func dial(t *testing.T, server *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	u := "ws" + server.URL[len("http"):] + "/ws" + query
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestWebSocketRoundFlow(t *testing.T) {
	server, writer := newTestServer(t)
	conn := dial(t, server, "?quizId=quiz-1")

	_, question := readUntil(conn, t, "question")
	alternatives, _ := question["alternatives"].([]any)
	correct := -1
	for i, alt := range alternatives {
		if alt == "4" {
			correct = i
		}
	}
	if correct < 0 {
		t.Fatalf("correct alternative not shown: %v", question)
	}

	if err := conn.WriteJSON(map[string]any{
		"type":    "powerUp",
		"payload": map[string]any{"kind": "freeze"},
	}); err != nil {
		t.Fatalf("write power-up: %v", err)
	}
	if err := conn.WriteJSON(map[string]any{
		"type":    "answer",
		"payload": map[string]any{"alternative": correct},
	}); err != nil {
		t.Fatalf("write answer: %v", err)
	}

	_, feedback := readUntil(conn, t, "feedback")
	if feedback["correct"] != true {
		t.Fatalf("expected correct feedback, got %v", feedback)
	}
	_, results := readUntil(conn, t, "results")
	if results["score"] != float64(100) || results["rightAnswers"] != float64(1) {
		t.Fatalf("unexpected results %v", results)
	}
	_, nav := readUntil(conn, t, "navigate")
	if nav["screen"] != string(domain.ScreenResults) {
		t.Fatalf("expected results screen, got %v", nav)
	}

	select {
	case path := <-writer.writes:
		if path != "players/p1/"+app.ResultFile {
			t.Fatalf("unexpected payload path %s", path)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("payload not written")
	}
}

func TestWebSocketRejectsBadInput(t *testing.T) {
	server, _ := newTestServer(t)
	conn := dial(t, server, "?quizId=quiz-1")
	readUntil(conn, t, "started")

	if err := conn.WriteJSON(map[string]any{
		"type":    "answer",
		"payload": map[string]any{"alternative": 9},
	}); err != nil {
		t.Fatalf("write answer: %v", err)
	}
	readUntil(conn, t, "error")

	if err := conn.WriteJSON(map[string]any{"type": "dance"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, payload := readUntil(conn, t, "error")
	if payload["message"] != "unsupported message type" {
		t.Fatalf("unexpected error %v", payload)
	}

	if err := conn.WriteJSON(map[string]any{"type": "menu"}); err != nil {
		t.Fatalf("write menu: %v", err)
	}
	_, nav := readUntil(conn, t, "navigate")
	if nav["screen"] != string(domain.ScreenMenu) {
		t.Fatalf("expected menu screen, got %v", nav)
	}
}

func TestWebSocketUnknownQuiz(t *testing.T) {
	server, _ := newTestServer(t)
	conn := dial(t, server, "?quizId=nope")
	readUntil(conn, t, "error")
}

func TestWebSocketRequiresQuizID(t *testing.T) {
	server, _ := newTestServer(t)
	resp, err := http.Get(server.URL + "/ws")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

// readUntil skips messages until one of type expect arrives.
func readUntil(conn *websocket.Conn, t *testing.T, expect string) (string, map[string]any) {
	t.Helper()
	for i := 0; i < 200; i++ {
		var msg struct {
			Type    string         `json:"type"`
			Payload map[string]any `json:"payload"`
		}
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read json waiting for %s: %v", expect, err)
		}
		if msg.Type == expect {
			return msg.Type, msg.Payload
		}
	}
	t.Fatalf("no %s message", expect)
	return "", nil
}

func sampleQuiz() map[string]domain.Quiz {
	return map[string]domain.Quiz{
		"quiz-1": {
			ID:    "quiz-1",
			Round: domain.RoundContext{PointsPerCorrect: 100, FolderPath: "players/p1"},
			Questions: []domain.Question{
				{
					ID:   "q1",
					Text: "What is 2 + 2?",
					Alternatives: []domain.Alternative{
						{Text: "3"},
						{Text: "4", Correct: true},
						{Text: "5"},
					},
				},
			},
		},
	}
}
