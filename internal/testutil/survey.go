package testutil

import (
	"testing"

	"github.com/roach88/waypoint/internal/survey"
)

// PetSurvey builds the three question survey used across package tests:
//
//	q1 singleChoice  yes -> q2, no -> q3
//	q2 multiChoice   1..2 of dog/cat/fish -> q3
//	q3 text          optional, terminal
func PetSurvey(t testing.TB) *survey.Survey {
	t.Helper()
	s, err := survey.New("pets", "Pet owners", 1, "q1", []survey.Question{
		&survey.SingleChoiceQuestion{
			ID:   "q1",
			Text: "Do you own a pet?",
			Options: []survey.Option{
				{ID: "yes", Label: "Yes", NextQuestionID: "q2"},
				{ID: "no", Label: "No", NextQuestionID: "q3"},
			},
		},
		&survey.MultiChoiceQuestion{
			ID:        "q2",
			Text:      "Which pets?",
			Required:  true,
			MinSelect: 1,
			MaxSelect: 2,
			Options: []survey.Option{
				{ID: "dog", Label: "Dog"},
				{ID: "cat", Label: "Cat"},
				{ID: "fish", Label: "Fish"},
			},
			NextQuestionID: "q3",
		},
		&survey.TextQuestion{
			ID:   "q3",
			Text: "Anything else?",
		},
	})
	if err != nil {
		t.Fatalf("build pet survey: %v", err)
	}
	return s
}

// Catalog wraps surveys in a survey.Catalog.
func Catalog(t testing.TB, surveys ...*survey.Survey) *survey.Catalog {
	t.Helper()
	c, err := survey.NewCatalog(surveys...)
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	return c
}

// StrPtr returns a pointer to s.
func StrPtr(s string) *string {
	return &s
}
