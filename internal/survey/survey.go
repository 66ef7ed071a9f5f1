package survey

import "fmt"

// QuestionType is the discriminator of the Question variants.
type QuestionType string

const (
	TypeSingleChoice QuestionType = "singleChoice"
	TypeMultiChoice  QuestionType = "multiChoice"
	TypeText         QuestionType = "text"
)

// Valid reports whether t names a known question variant.
func (t QuestionType) Valid() bool {
	switch t {
	case TypeSingleChoice, TypeMultiChoice, TypeText:
		return true
	}
	return false
}

// Question is a closed set of question variants.
// The concrete types are *SingleChoiceQuestion, *MultiChoiceQuestion and
// *TextQuestion.
type Question interface {
	QuestionID() string
	Prompt() string
	IsRequired() bool
	Type() QuestionType

	sealed()
}

// Option is a selectable choice of a choice question.
// NextQuestionID is only meaningful on SingleChoice options.
type Option struct {
	ID             string
	Label          string
	NextQuestionID string
}

// SingleChoiceQuestion selects exactly one option. It is always required and
// its only edges live on the options.
type SingleChoiceQuestion struct {
	ID      string
	Text    string
	Options []Option
}

func (q *SingleChoiceQuestion) QuestionID() string { return q.ID }
func (q *SingleChoiceQuestion) Prompt() string     { return q.Text }
func (q *SingleChoiceQuestion) IsRequired() bool   { return true }
func (q *SingleChoiceQuestion) Type() QuestionType { return TypeSingleChoice }
func (q *SingleChoiceQuestion) sealed()            {}

// Option returns the option with the given id.
func (q *SingleChoiceQuestion) Option(id string) (Option, bool) {
	return findOption(q.Options, id)
}

// MultiChoiceQuestion selects between MinSelect and MaxSelect options.
type MultiChoiceQuestion struct {
	ID             string
	Text           string
	Required       bool
	Options        []Option
	MinSelect      int
	MaxSelect      int
	NextQuestionID string
}

func (q *MultiChoiceQuestion) QuestionID() string { return q.ID }
func (q *MultiChoiceQuestion) Prompt() string     { return q.Text }
func (q *MultiChoiceQuestion) IsRequired() bool   { return q.Required }
func (q *MultiChoiceQuestion) Type() QuestionType { return TypeMultiChoice }
func (q *MultiChoiceQuestion) sealed()            {}

// Option returns the option with the given id.
func (q *MultiChoiceQuestion) Option(id string) (Option, bool) {
	return findOption(q.Options, id)
}

// TextQuestion accepts free text.
type TextQuestion struct {
	ID             string
	Text           string
	Required       bool
	NextQuestionID string
}

func (q *TextQuestion) QuestionID() string { return q.ID }
func (q *TextQuestion) Prompt() string     { return q.Text }
func (q *TextQuestion) IsRequired() bool   { return q.Required }
func (q *TextQuestion) Type() QuestionType { return TypeText }
func (q *TextQuestion) sealed()            {}

func findOption(options []Option, id string) (Option, bool) {
	for _, o := range options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// Edges returns the distinct non-empty nextQuestionId targets of q in
// declaration order.
func Edges(q Question) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}

	switch q := q.(type) {
	case *SingleChoiceQuestion:
		for _, o := range q.Options {
			add(o.NextQuestionID)
		}
	case *MultiChoiceQuestion:
		add(q.NextQuestionID)
	case *TextQuestion:
		add(q.NextQuestionID)
	}
	return out
}

// Survey is an immutable questionnaire graph.
type Survey struct {
	ID              string
	Title           string
	Version         int
	StartQuestionID string

	questions []Question
	byID      map[string]Question
}

// New builds a survey and validates its structure.
// Questions keep their declaration order.
func New(id, title string, version int, startQuestionID string, questions []Question) (*Survey, error) {
	s := &Survey{
		ID:              id,
		Title:           title,
		Version:         version,
		StartQuestionID: startQuestionID,
		questions:       append([]Question(nil), questions...),
		byID:            make(map[string]Question, len(questions)),
	}
	for _, q := range questions {
		if q == nil {
			continue
		}
		if _, dup := s.byID[q.QuestionID()]; !dup {
			s.byID[q.QuestionID()] = q
		}
	}

	if errs := Validate(s); len(errs) > 0 {
		return nil, &InvalidSurveyError{SurveyID: id, Errors: errs}
	}
	return s, nil
}

// Question returns the question with the given id.
func (s *Survey) Question(id string) (Question, bool) {
	q, ok := s.byID[id]
	return q, ok
}

// Questions returns the questions in declaration order.
func (s *Survey) Questions() []Question {
	return append([]Question(nil), s.questions...)
}

// InvalidSurveyError reports every structural problem found in a survey.
type InvalidSurveyError struct {
	SurveyID string
	Errors   []ValidationError
}

func (e *InvalidSurveyError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("survey %q: %v", e.SurveyID, e.Errors[0])
	}
	return fmt.Sprintf("survey %q: %v (and %d more)", e.SurveyID, e.Errors[0], len(e.Errors)-1)
}
