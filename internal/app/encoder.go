package app

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"quiz-round-service/internal/domain"
)

// recordTemplate holds the default value of every field of an encoded answer.
const recordTemplate = "Q-0-1-H-0-0-0-AE-0-T-0-S-0"

const (
	fieldQuestion    = 1
	fieldPowerUp     = 4
	fieldEliminatedA = 5
	fieldEliminatedB = 6
	fieldAlternative = 8
	fieldElapsed     = 10
	fieldCorrect     = 12

	recordFields = 13
	maxElapsed   = 999
)

// MaxQuestions is the largest pool whose numbers fit the two-digit question field.
const MaxQuestions = 99

// DefaultElapsedReference is subtracted from the remaining time to get the
// response time written in the log.
const DefaultElapsedReference = 25 * time.Second

// EncodeRecord serializes rec into the dash-delimited fixed-field format.
func EncodeRecord(rec domain.AnswerRecord, reference time.Duration) string {
	parts := strings.Split(recordTemplate, "-")
	parts[fieldQuestion] = fmt.Sprintf("%02d", rec.QuestionIndex+1)
	parts[fieldPowerUp] = strconv.Itoa(int(rec.PowerUp))
	if rec.PowerUp == domain.PowerUpEliminateTwo {
		// Written 1-based like the chosen alternative. The game client's log
		// wrote the raw 0-based indices here.
		parts[fieldEliminatedA] = strconv.Itoa(rec.Eliminated[0] + 1)
		parts[fieldEliminatedB] = strconv.Itoa(rec.Eliminated[1] + 1)
	}
	parts[fieldAlternative] = strconv.Itoa(rec.Alternative + 1)
	parts[fieldElapsed] = fmt.Sprintf("%03d", elapsedSeconds(rec.Remaining, reference))
	if rec.Correct {
		parts[fieldCorrect] = "1"
	}
	return strings.Join(parts, "-")
}

func elapsedSeconds(remaining, reference time.Duration) int {
	elapsed := int(math.RoundToEven((reference - remaining).Seconds()))
	if elapsed < 0 {
		return 0
	}
	if elapsed > maxElapsed {
		return maxElapsed
	}
	return elapsed
}

// ParseRecord decodes an encoded answer. Remaining is reconstructed from the
// elapsed field, so it carries whole-second precision only.
func ParseRecord(encoded string, reference time.Duration) (domain.AnswerRecord, error) {
	parts := strings.Split(encoded, "-")
	if len(parts) != recordFields {
		return domain.AnswerRecord{}, fmt.Errorf("%w: %d fields", domain.ErrMalformedRecord, len(parts))
	}
	defaults := strings.Split(recordTemplate, "-")
	for _, i := range []int{0, 3, 7, 9, 11} {
		if parts[i] != defaults[i] {
			return domain.AnswerRecord{}, fmt.Errorf("%w: field %d is %q", domain.ErrMalformedRecord, i, parts[i])
		}
	}

	nums := make(map[int]int, 7)
	for _, i := range []int{fieldQuestion, fieldPowerUp, fieldEliminatedA, fieldEliminatedB, fieldAlternative, fieldElapsed, fieldCorrect} {
		n, err := strconv.Atoi(parts[i])
		if err != nil {
			return domain.AnswerRecord{}, fmt.Errorf("%w: field %d: %v", domain.ErrMalformedRecord, i, err)
		}
		nums[i] = n
	}
	if nums[fieldPowerUp] < 0 || nums[fieldPowerUp] > int(domain.PowerUpImmunity) {
		return domain.AnswerRecord{}, fmt.Errorf("%w: power-up code %d", domain.ErrMalformedRecord, nums[fieldPowerUp])
	}

	rec := domain.AnswerRecord{
		QuestionIndex: nums[fieldQuestion] - 1,
		Alternative:   nums[fieldAlternative] - 1,
		Remaining:     reference - time.Duration(nums[fieldElapsed])*time.Second,
		Correct:       nums[fieldCorrect] == 1,
		PowerUp:       domain.PowerUpKind(nums[fieldPowerUp]),
	}
	if rec.PowerUp == domain.PowerUpEliminateTwo {
		rec.Eliminated = [2]int{nums[fieldEliminatedA] - 1, nums[fieldEliminatedB] - 1}
	}
	return rec, nil
}
