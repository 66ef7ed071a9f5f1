package session

import (
	"time"

	"github.com/roach88/waypoint/internal/answer"
	"github.com/roach88/waypoint/internal/survey"
)

// SessionView is the respondent-facing rendering of a DetailSession.
// The internal id and the token are never part of it.
type SessionView struct {
	SessionID      string       `json:"sessionId"`
	SurveyID       string       `json:"surveyId"`
	Completed      bool         `json:"isCompleted"`
	NextQuestionID *string      `json:"nextQuestionId"`
	Answers        []AnswerView `json:"answers"`
}

// AnswerView renders one record with its question text and option labels.
type AnswerView struct {
	QuestionID   string           `json:"questionId"`
	QuestionText string           `json:"questionText"`
	Answer       *SubmittedAnswer `json:"answer"`
	SubmittedAt  time.Time        `json:"submittedAt"`
}

// SubmittedAnswer is the tagged rendering of an answer.
type SubmittedAnswer struct {
	Type     survey.QuestionType `json:"type"`
	OptionID string              `json:"optionId,omitempty"`
	Label    string              `json:"label,omitempty"`
	Choices  []Choice            `json:"choices,omitempty"`
	Text     string              `json:"text,omitempty"`
}

// Choice is one selected option of a multi choice answer.
type Choice struct {
	OptionID string `json:"optionId"`
	Label    string `json:"label"`
}

// Describe renders d. Labels come from each record's own snapshot.
func Describe(d DetailSession) SessionView {
	v := SessionView{
		SessionID: d.UUID,
		SurveyID:  d.SurveyID,
		Completed: d.Completed,
		Answers:   make([]AnswerView, 0, len(d.Answers)),
	}
	if d.NextQuestionID != "" {
		next := d.NextQuestionID
		v.NextQuestionID = &next
	}

	for _, qa := range d.Answers {
		av := AnswerView{
			QuestionID:  qa.QuestionID,
			SubmittedAt: qa.SubmittedAt,
		}
		if qa.QuestionSnapshot != nil {
			av.QuestionText = qa.QuestionSnapshot.Prompt()
		}
		av.Answer = describeAnswer(qa)
		v.Answers = append(v.Answers, av)
	}
	return v
}

func describeAnswer(qa answer.QuestionAnswer) *SubmittedAnswer {
	switch a := qa.Answer.(type) {
	case answer.SingleChoiceAnswer:
		out := &SubmittedAnswer{Type: survey.TypeSingleChoice, OptionID: a.OptionID}
		if q, ok := qa.QuestionSnapshot.(*survey.SingleChoiceQuestion); ok {
			opt, _ := q.Option(a.OptionID)
			out.Label = opt.Label
		}
		return out
	case answer.MultiChoiceAnswer:
		out := &SubmittedAnswer{Type: survey.TypeMultiChoice, Choices: []Choice{}}
		q, _ := qa.QuestionSnapshot.(*survey.MultiChoiceQuestion)
		for _, id := range a.OptionIDs {
			c := Choice{OptionID: id}
			if q != nil {
				opt, _ := q.Option(id)
				c.Label = opt.Label
			}
			out.Choices = append(out.Choices, c)
		}
		return out
	case answer.TextAnswer:
		return &SubmittedAnswer{Type: survey.TypeText, Text: a.Text}
	default:
		return nil
	}
}
