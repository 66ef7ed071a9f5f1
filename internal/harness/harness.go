package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/roach88/waypoint/internal/fault"
	"github.com/roach88/waypoint/internal/session"
	"github.com/roach88/waypoint/internal/store"
	"github.com/roach88/waypoint/internal/survey"
	"github.com/roach88/waypoint/internal/testutil"
)

// Harness drives one scenario through the session service.
type Harness struct {
	service *session.Service
	logger  *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs against a fresh in-memory store with a deterministic
// clock and token sequence, so traces are reproducible.
//
// Returns an error only if the scenario cannot be set up (surveys fail to
// load or the session cannot be started). Mismatched expectations are
// reported through Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// RunWithLogger is Run with an explicit logger for the session service.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	catalog, err := survey.LoadFiles(scenario.Surveys...)
	if err != nil {
		return nil, fmt.Errorf("failed to load surveys: %w", err)
	}

	mem := store.NewMemory()
	h := &Harness{
		service: session.NewService(catalog, mem, mem, mem,
			session.WithClock(testutil.NewDeterministicClock()),
			session.WithTokenGenerator(testutil.NewSequentialTokenGenerator(scenario.Name)),
			session.WithLogger(logger),
		),
		logger: logger,
	}

	ctx := context.Background()
	result := NewResult()

	sess, err := h.service.StartSession(ctx, scenario.SurveyID)
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	result.addEvent(TraceEvent{
		Type:           EventStart,
		SurveyID:       sess.SurveyID,
		NextQuestionID: sess.NextQuestionID,
	})

	for i, step := range scenario.Steps {
		h.executeStep(ctx, i, step, sess.Token, result)
	}

	if err := h.checkFinal(ctx, scenario.Final, sess.Token, result); err != nil {
		return nil, err
	}

	return result, nil
}

// executeStep submits one step and compares the outcome with its expect clause.
func (h *Harness) executeStep(ctx context.Context, i int, step Step, token string, result *Result) {
	raw := step.Answer
	if step.Skip {
		raw = nil
	}

	res, err := h.service.SubmitAnswer(ctx, token, step.QuestionID, raw)

	ev := TraceEvent{
		Type:       EventSubmit,
		QuestionID: step.QuestionID,
		Answer:     raw,
		Skip:       step.Skip,
	}
	if err != nil {
		ev.Error = traceError(err)
	} else {
		ev.NextQuestionID = res.NextQuestionID
		ev.Completed = res.Completed
	}
	result.addEvent(ev)

	label := fmt.Sprintf("step %d (%s)", i, step.QuestionID)
	expect := step.Expect

	if !expect.expectsError() {
		if err != nil {
			result.AddError(fmt.Sprintf("%s: unexpected error: %v", label, err))
			return
		}
		if expect != nil {
			if expect.Completed != res.Completed {
				result.AddError(fmt.Sprintf("%s: expected completed=%t, got %t", label, expect.Completed, res.Completed))
			}
			if expect.NextQuestionID != "" && expect.NextQuestionID != res.NextQuestionID {
				result.AddError(fmt.Sprintf("%s: expected next question %q, got %q", label, expect.NextQuestionID, res.NextQuestionID))
			}
		}
		h.logger.Info("step accepted", "step", i, "question", step.QuestionID, "next_question", res.NextQuestionID)
		return
	}

	if err == nil {
		result.AddError(fmt.Sprintf("%s: expected %s error, got success", label, expect.ErrorKind))
		return
	}
	if got := string(fault.KindOf(err)); got != expect.ErrorKind {
		result.AddError(fmt.Sprintf("%s: expected %s error, got %q: %v", label, expect.ErrorKind, got, err))
	}
	if expect.ErrorContains != "" && !strings.Contains(err.Error(), expect.ErrorContains) {
		result.AddError(fmt.Sprintf("%s: expected error containing %q, got %q", label, expect.ErrorContains, err.Error()))
	}
	h.logger.Info("step rejected", "step", i, "question", step.QuestionID, "error", err)
}

// checkFinal reads the session back and compares it with the final clause.
// The read itself is traced even without a final clause.
func (h *Harness) checkFinal(ctx context.Context, final *FinalClause, token string, result *Result) error {
	detail, err := h.service.GetDetailSession(ctx, token)
	if err != nil {
		var fe *fault.Error
		if errors.As(err, &fe) {
			result.addEvent(TraceEvent{Type: EventFinal, Error: traceError(err)})
			result.AddError(fmt.Sprintf("final: %v", err))
			return nil
		}
		return fmt.Errorf("failed to read session: %w", err)
	}

	answered := make([]string, 0, len(detail.Answers))
	for _, qa := range detail.Answers {
		answered = append(answered, qa.QuestionID)
	}
	result.addEvent(TraceEvent{
		Type:           EventFinal,
		NextQuestionID: detail.NextQuestionID,
		Completed:      detail.Completed,
		Answers:        answered,
	})

	if final == nil {
		return nil
	}
	if final.Completed != detail.Completed {
		result.AddError(fmt.Sprintf("final: expected completed=%t, got %t", final.Completed, detail.Completed))
	}
	if final.Answers != nil && !slices.Equal(final.Answers, answered) {
		result.AddError(fmt.Sprintf("final: expected answers %v, got %v", final.Answers, answered))
	}
	return nil
}

func traceError(err error) *TraceError {
	kind := string(fault.KindOf(err))
	if kind == "" {
		kind = "INTERNAL"
	}
	return &TraceError{Kind: kind, Message: err.Error()}
}
