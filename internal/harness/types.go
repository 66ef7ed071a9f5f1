package harness

import "github.com/roach88/waypoint/internal/answer"

// Trace event types.
const (
	EventStart  = "start"
	EventSubmit = "submit"
	EventFinal  = "final"
)

// TraceEvent records one engine call and what it returned.
// Fields that vary between runs (session uuid, timestamps) are never traced.
type TraceEvent struct {
	Seq            int               `json:"seq"`
	Type           string            `json:"type"`
	SurveyID       string            `json:"survey_id,omitempty"`
	QuestionID     string            `json:"question_id,omitempty"`
	Answer         *answer.RawAnswer `json:"answer,omitempty"`
	Skip           bool              `json:"skip,omitempty"`
	NextQuestionID string            `json:"next_question_id,omitempty"`
	Completed      bool              `json:"completed,omitempty"`
	Answers        []string          `json:"answers,omitempty"`
	Error          *TraceError       `json:"error,omitempty"`
}

// TraceError is a rejected call.
type TraceError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every step and the final clause matched.
	Pass bool `json:"pass"`

	// Trace contains every engine call in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// addEvent appends ev to the trace with the next sequence number.
func (r *Result) addEvent(ev TraceEvent) TraceEvent {
	ev.Seq = len(r.Trace) + 1
	r.Trace = append(r.Trace, ev)
	return ev
}
