package survey

import "fmt"

// Survey validation codes (E300-E399)
const (
	ErrSurveyIDEmpty        = "E301" // survey id is required
	ErrStartQuestionMissing = "E302" // startQuestionId must name a question
	ErrQuestionIDEmpty      = "E303" // question id is required
	ErrDuplicateQuestionID  = "E304" // question ids must be unique
	ErrDuplicateOptionID    = "E305" // option ids must be unique per question
	ErrOptionIDEmpty        = "E306" // option id is required
	ErrSelectBounds         = "E307" // 0 <= minSelect <= maxSelect <= len(options)
	ErrNilQuestion          = "E308" // question entry is empty

	// Lint warnings (W3xx) never block loading.
	WarnDanglingEdge        = "W301" // nextQuestionId names no question
	WarnUnreachableQuestion = "W302" // question cannot be reached from the start
	WarnQuestionCycle       = "W303" // a path leads back to an earlier question
)

// ValidationError describes one structural problem of a survey.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks the structural rules of s and returns every violation.
// Dangling edges are not violations; see Lint.
func Validate(s *Survey) []ValidationError {
	var errs []ValidationError

	if s.ID == "" {
		errs = append(errs, ValidationError{Field: "id", Message: "survey id is required", Code: ErrSurveyIDEmpty})
	}

	seen := make(map[string]bool, len(s.questions))
	for i, q := range s.questions {
		field := fmt.Sprintf("questions[%d]", i)
		if q == nil {
			errs = append(errs, ValidationError{Field: field, Message: "question is empty", Code: ErrNilQuestion})
			continue
		}

		id := q.QuestionID()
		if id == "" {
			errs = append(errs, ValidationError{Field: field + ".id", Message: "question id is required", Code: ErrQuestionIDEmpty})
		} else if seen[id] {
			errs = append(errs, ValidationError{
				Field:   field + ".id",
				Message: fmt.Sprintf("duplicate question id %q", id),
				Code:    ErrDuplicateQuestionID,
			})
		}
		seen[id] = true

		errs = append(errs, validateQuestion(field, q)...)
	}

	if _, ok := s.byID[s.StartQuestionID]; !ok {
		errs = append(errs, ValidationError{
			Field:   "startQuestionId",
			Message: fmt.Sprintf("start question %q not found", s.StartQuestionID),
			Code:    ErrStartQuestionMissing,
		})
	}

	return errs
}

func validateQuestion(field string, q Question) []ValidationError {
	switch q := q.(type) {
	case *SingleChoiceQuestion:
		return validateOptions(field, q.Options)
	case *MultiChoiceQuestion:
		errs := validateOptions(field, q.Options)
		if q.MinSelect < 0 || q.MinSelect > q.MaxSelect || q.MaxSelect > len(q.Options) {
			errs = append(errs, ValidationError{
				Field: field,
				Message: fmt.Sprintf("minSelect=%d maxSelect=%d must satisfy 0 <= minSelect <= maxSelect <= %d",
					q.MinSelect, q.MaxSelect, len(q.Options)),
				Code: ErrSelectBounds,
			})
		}
		return errs
	}
	return nil
}

func validateOptions(field string, options []Option) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]bool, len(options))
	for i, o := range options {
		optField := fmt.Sprintf("%s.options[%d].id", field, i)
		switch {
		case o.ID == "":
			errs = append(errs, ValidationError{Field: optField, Message: "option id is required", Code: ErrOptionIDEmpty})
		case seen[o.ID]:
			errs = append(errs, ValidationError{
				Field:   optField,
				Message: fmt.Sprintf("duplicate option id %q", o.ID),
				Code:    ErrDuplicateOptionID,
			})
		}
		seen[o.ID] = true
	}
	return errs
}

// Lint reports non-fatal graph problems: edges that point at no question,
// questions that no path from the start question reaches, and loops.
func Lint(s *Survey) []ValidationError {
	var warns []ValidationError

	for i, q := range s.questions {
		for _, next := range Edges(q) {
			if _, ok := s.byID[next]; !ok {
				warns = append(warns, ValidationError{
					Field:   fmt.Sprintf("questions[%d]", i),
					Message: fmt.Sprintf("question %q points at unknown question %q", q.QuestionID(), next),
					Code:    WarnDanglingEdge,
				})
			}
		}
	}

	reached := map[string]bool{}
	stack := []string{s.StartQuestionID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if reached[id] {
			continue
		}
		q, ok := s.byID[id]
		if !ok {
			continue
		}
		reached[id] = true
		stack = append(stack, Edges(q)...)
	}

	for i, q := range s.questions {
		if !reached[q.QuestionID()] {
			warns = append(warns, ValidationError{
				Field:   fmt.Sprintf("questions[%d]", i),
				Message: fmt.Sprintf("question %q is unreachable from %q", q.QuestionID(), s.StartQuestionID),
				Code:    WarnUnreachableQuestion,
			})
		}
	}

	return append(warns, Cycles(s)...)
}
