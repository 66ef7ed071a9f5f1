package answer

import (
	"time"

	"github.com/roach88/waypoint/internal/fault"
)

// Processor applies the strategy of a record's snapshot to that record.
// It is used both for new submissions and for re-checking stored records.
type Processor struct {
	qa       QuestionAnswer
	strategy Strategy
}

// NewProcessor binds qa to the strategy of its snapshot variant.
// A missing or unrecognized snapshot is a corruption fault.
func NewProcessor(qa QuestionAnswer) (*Processor, error) {
	strategy, err := NewStrategy(qa.QuestionSnapshot)
	if err != nil {
		return nil, err
	}
	return &Processor{qa: qa, strategy: strategy}, nil
}

// QuestionAnswer returns the record the processor is bound to.
func (p *Processor) QuestionAnswer() QuestionAnswer {
	return p.qa
}

// Submit returns a processor bound to the submitted form of a pending
// record. The receiver and its record are left unchanged.
//
// A nil raw answer is an explicit skip: only the submission time is set.
func (p *Processor) Submit(raw *RawAnswer, now time.Time) (*Processor, error) {
	if p.qa.Submitted() {
		return nil, fault.BadInputf("Answer already submitted")
	}

	next := p.qa
	if raw != nil {
		next.Answer = p.strategy.Transform(*raw)
	}
	next.SubmittedAt = now

	return &Processor{qa: next, strategy: p.strategy}, nil
}

// Validate checks the bound record against its own snapshot.
func (p *Processor) Validate() error {
	if p.qa.Answer == nil {
		if p.qa.QuestionSnapshot.IsRequired() {
			return fault.BadInputf("Answer is Required")
		}
		return nil
	}

	if p.qa.Answer.Type() != p.qa.QuestionSnapshot.Type() {
		return fault.BadInputf("Answer type mismatched with question type")
	}

	return p.strategy.Validate(p.qa.Answer)
}

// NextQuestionID returns the question that follows the bound record, or ""
// when the session ends there.
func (p *Processor) NextQuestionID() string {
	return p.strategy.NextQuestionID(p.qa.Answer)
}
