package app

import (
	"errors"
	"strings"
	"testing"
	"time"

	"quiz-round-service/internal/domain"
)

func TestEncodeRecord(t *testing.T) {
	tests := []struct {
		name string
		rec  domain.AnswerRecord
		want string
	}{
		{
			name: "correct answer without power-up",
			rec:  domain.AnswerRecord{QuestionIndex: 0, Alternative: 2, Remaining: 20 * time.Second, Correct: true},
			want: "Q-01-1-H-0-0-0-AE-3-T-005-S-1",
		},
		{
			name: "timeout",
			rec:  domain.AnswerRecord{QuestionIndex: 11, Alternative: domain.NoAlternative, Remaining: 0},
			want: "Q-12-1-H-0-0-0-AE-0-T-025-S-0",
		},
		{
			name: "eliminate-two fills the pair",
			rec: domain.AnswerRecord{
				QuestionIndex: 2, Alternative: 0, Remaining: 14600 * time.Millisecond, Correct: true,
				PowerUp: domain.PowerUpEliminateTwo, Eliminated: [2]int{1, 3},
			},
			want: "Q-03-1-H-1-2-4-AE-1-T-010-S-1",
		},
		{
			name: "pair ignored for other power-ups",
			rec: domain.AnswerRecord{
				QuestionIndex: 4, Alternative: 1, Remaining: 25 * time.Second,
				PowerUp: domain.PowerUpFreeze, Eliminated: [2]int{1, 3},
			},
			want: "Q-05-1-H-2-0-0-AE-2-T-000-S-0",
		},
		{
			name: "last question of the largest pool",
			rec:  domain.AnswerRecord{QuestionIndex: MaxQuestions - 1, Alternative: 0, Remaining: 25 * time.Second},
			want: "Q-99-1-H-0-0-0-AE-1-T-000-S-0",
		},
		{
			name: "negative elapsed clamps to zero",
			rec:  domain.AnswerRecord{QuestionIndex: 0, Alternative: 0, Remaining: 30 * time.Second, PowerUp: domain.PowerUpImmunity},
			want: "Q-01-1-H-3-0-0-AE-1-T-000-S-0",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EncodeRecord(tt.rec, DefaultElapsedReference)
			if got != tt.want {
				t.Fatalf("EncodeRecord() = %q, want %q", got, tt.want)
			}
			if n := len(strings.Split(got, "-")); n != 13 {
				t.Fatalf("expected 13 fields, got %d", n)
			}
		})
	}
}

func TestEncodeRecordRoundsHalfToEven(t *testing.T) {
	// 25 - 22.5 = 2.5 -> 2
	got := EncodeRecord(domain.AnswerRecord{Remaining: 22500 * time.Millisecond}, DefaultElapsedReference)
	if !strings.Contains(got, "-T-002-") {
		t.Fatalf("expected elapsed 002, got %q", got)
	}
}

func TestParseRecord(t *testing.T) {
	rec, err := ParseRecord("Q-03-1-H-1-2-4-AE-1-T-010-S-1", DefaultElapsedReference)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := domain.AnswerRecord{
		QuestionIndex: 2,
		Alternative:   0,
		Remaining:     15 * time.Second,
		Correct:       true,
		PowerUp:       domain.PowerUpEliminateTwo,
		Eliminated:    [2]int{1, 3},
	}
	if rec != want {
		t.Fatalf("ParseRecord() = %+v, want %+v", rec, want)
	}

	timeout, err := ParseRecord("Q-12-1-H-0-0-0-AE-0-T-025-S-0", DefaultElapsedReference)
	if err != nil {
		t.Fatalf("parse timeout: %v", err)
	}
	if timeout.Alternative != domain.NoAlternative || timeout.Correct {
		t.Fatalf("unexpected timeout record %+v", timeout)
	}
}

func TestParseRecordRejectsMalformed(t *testing.T) {
	for _, in := range []string{
		"",
		"Q-01-1-H-0-0-0-AE-1-T-005-S",
		"X-01-1-H-0-0-0-AE-1-T-005-S-1",
		"Q-01-1-H-9-0-0-AE-1-T-005-S-1",
		"Q-aa-1-H-0-0-0-AE-1-T-005-S-1",
	} {
		if _, err := ParseRecord(in, DefaultElapsedReference); !errors.Is(err, domain.ErrMalformedRecord) {
			t.Errorf("ParseRecord(%q) error = %v", in, err)
		}
	}
}
