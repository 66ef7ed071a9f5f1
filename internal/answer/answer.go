package answer

import (
	"time"

	"github.com/roach88/waypoint/internal/survey"
)

// Answer is the canonical answer to one question.
// The concrete types are SingleChoiceAnswer, MultiChoiceAnswer and TextAnswer;
// Type returns the question variant the answer belongs to.
type Answer interface {
	Type() survey.QuestionType

	sealed()
}

// SingleChoiceAnswer selects one option.
type SingleChoiceAnswer struct {
	OptionID string
}

func (SingleChoiceAnswer) Type() survey.QuestionType { return survey.TypeSingleChoice }
func (SingleChoiceAnswer) sealed()                   {}

// MultiChoiceAnswer selects options in respondent order.
// A nil OptionIDs means the field was never provided.
type MultiChoiceAnswer struct {
	OptionIDs []string
}

func (MultiChoiceAnswer) Type() survey.QuestionType { return survey.TypeMultiChoice }
func (MultiChoiceAnswer) sealed()                   {}

// TextAnswer carries free text.
type TextAnswer struct {
	Text string
}

func (TextAnswer) Type() survey.QuestionType { return survey.TypeText }
func (TextAnswer) sealed()                   {}

// RawAnswer is a submission as received from a respondent.
// Only the field matching the question variant is read.
type RawAnswer struct {
	OptionID  *string  `json:"optionId,omitempty" yaml:"optionId,omitempty"`
	OptionIDs []string `json:"optionIds,omitempty" yaml:"optionIds,omitempty"`
	Text      *string  `json:"text,omitempty" yaml:"text,omitempty"`
}

// QuestionAnswer is one respondent's answer to one question, together with
// a copy of the question as it was when the answer was given.
//
// Answer is nil when the respondent skipped the question. A zero
// SubmittedAt marks a pending record.
type QuestionAnswer struct {
	QuestionID       string
	QuestionSnapshot survey.Question
	Answer           Answer
	SubmittedAt      time.Time
}

// NewPending creates the pending record for answering q.
func NewPending(q survey.Question) QuestionAnswer {
	qa := QuestionAnswer{QuestionSnapshot: q}
	if q != nil {
		qa.QuestionID = q.QuestionID()
	}
	return qa
}

// Submitted reports whether the record has been submitted.
func (qa QuestionAnswer) Submitted() bool {
	return qa.Answer != nil || !qa.SubmittedAt.IsZero()
}
