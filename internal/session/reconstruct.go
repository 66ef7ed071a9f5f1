package session

import (
	"github.com/roach88/waypoint/internal/answer"
	"github.com/roach88/waypoint/internal/fault"
)

// Reconstruct joins a stored session with its stored records.
//
// Every record is validated against its own snapshot, not the live survey.
// Any failure, and any inconsistency between the session and its records,
// is a corruption fault naming the offending question.
func Reconstruct(s Session, records []answer.QuestionAnswer) (DetailSession, error) {
	if s.Completed != (s.NextQuestionID == "") {
		return DetailSession{}, fault.Corruptionf(
			"session %s: completed=%t with next question %q", s.UUID, s.Completed, s.NextQuestionID)
	}

	seen := make(map[string]bool, len(records))
	answers := make([]answer.QuestionAnswer, 0, len(records))
	for _, qa := range records {
		if seen[qa.QuestionID] {
			return DetailSession{}, fault.Corruptionf("question %s: answered more than once", qa.QuestionID)
		}
		seen[qa.QuestionID] = true

		p, err := answer.NewProcessor(qa)
		if err != nil {
			return DetailSession{}, fault.Wrap(fault.KindCorruption, "question "+qa.QuestionID+": stored snapshot is unreadable", err)
		}
		if id := qa.QuestionSnapshot.QuestionID(); id != qa.QuestionID {
			return DetailSession{}, fault.Corruptionf("question %s: snapshot belongs to question %s", qa.QuestionID, id)
		}
		if err := p.Validate(); err != nil {
			return DetailSession{}, fault.Wrap(fault.KindCorruption, "question "+qa.QuestionID+": stored answer is invalid", err)
		}
		answers = append(answers, p.QuestionAnswer())
	}

	return DetailSession{Session: s, Answers: answers}, nil
}
