package memory

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"quiz-round-service/internal/domain"
)

type quizFile struct {
	Quizzes []domain.Quiz `yaml:"quizzes"`
}

// LoadQuizFile reads a YAML document with a top-level `quizzes` list and
// returns a loader over it.
func LoadQuizFile(path string) (*StaticQuizLoader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read quiz file: %w", err)
	}
	return ParseQuizFile(data)
}

// ParseQuizFile is LoadQuizFile on an in-memory document.
func ParseQuizFile(data []byte) (*StaticQuizLoader, error) {
	var doc quizFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse quiz file: %w", err)
	}
	quizzes := make(map[string]domain.Quiz, len(doc.Quizzes))
	for _, quiz := range doc.Quizzes {
		if quiz.ID == "" {
			return nil, fmt.Errorf("parse quiz file: quiz without id")
		}
		quizzes[quiz.ID] = quiz
	}
	return NewStaticQuizLoader(quizzes), nil
}
