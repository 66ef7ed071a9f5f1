package session

import (
	"github.com/roach88/waypoint/internal/answer"
	"github.com/roach88/waypoint/internal/fault"
)

// CheckSubmittable reports whether questionID may be answered now.
//
// Guards run in order: a completed session is a conflict; a question other
// than the cursor is an invalid step; a question that already has a record
// is a replay.
func (d DetailSession) CheckSubmittable(questionID string) error {
	if d.Completed {
		return fault.Conflictf("Session already completed")
	}
	if d.NextQuestionID != questionID {
		return fault.BadInputf("Invalid question step")
	}
	for _, qa := range d.Answers {
		if qa.QuestionID == questionID {
			return fault.BadInputf("Question already submitted")
		}
	}
	return nil
}

// Advance returns the cursor that follows the submission held by p.
// The session completes when the submission has no successor.
func Advance(p *answer.Processor) Cursor {
	next := p.NextQuestionID()
	return Cursor{Completed: next == "", NextQuestionID: next}
}
