package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/waypoint/internal/answer"
	"github.com/roach88/waypoint/internal/survey"
)

// createTestStore creates a new file-backed store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

var testSubmittedAt = time.Date(2026, 3, 1, 9, 30, 0, 123456789, time.UTC)

var (
	testSingle = &survey.SingleChoiceQuestion{
		ID:   "q1",
		Text: "Own a pet?",
		Options: []survey.Option{
			{ID: "yes", Label: "Yes", NextQuestionID: "q2"},
			{ID: "no", Label: "No", NextQuestionID: "q3"},
		},
	}
	testMulti = &survey.MultiChoiceQuestion{
		ID: "q2", Text: "Which pets?", Required: true, MinSelect: 0, MaxSelect: 3,
		Options:        []survey.Option{{ID: "dog", Label: "Dog"}, {ID: "cat", Label: "Cat"}, {ID: "fish", Label: "Fish"}},
		NextQuestionID: "q3",
	}
	testText = &survey.TextQuestion{ID: "q3", Text: "Anything else?"}
)

// record builds a submitted record for tests.
func record(q survey.Question, a answer.Answer) answer.QuestionAnswer {
	qa := answer.NewPending(q)
	qa.Answer = a
	qa.SubmittedAt = testSubmittedAt
	return qa
}
