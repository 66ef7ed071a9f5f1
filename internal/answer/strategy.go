package answer

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/waypoint/internal/fault"
	"github.com/roach88/waypoint/internal/survey"
)

// Strategy holds the per-variant answer rules for one question snapshot.
type Strategy interface {
	// Validate checks a non-nil answer whose variant matches the snapshot.
	Validate(a Answer) error

	// Transform builds the canonical answer from a raw submission.
	// A nil result means no answer.
	Transform(raw RawAnswer) Answer

	// NextQuestionID returns the question that follows a, or "" when the
	// session ends.
	NextQuestionID(a Answer) string
}

// NewStrategy selects the strategy for q's variant.
// An unrecognized variant is a corruption fault.
func NewStrategy(q survey.Question) (Strategy, error) {
	switch q := q.(type) {
	case *survey.SingleChoiceQuestion:
		return singleChoiceStrategy{q: q}, nil
	case *survey.MultiChoiceQuestion:
		return multiChoiceStrategy{q: q}, nil
	case *survey.TextQuestion:
		return textStrategy{q: q}, nil
	default:
		return nil, fault.Corruptionf("invalid question type")
	}
}

type singleChoiceStrategy struct {
	q *survey.SingleChoiceQuestion
}

func (s singleChoiceStrategy) Validate(a Answer) error {
	ans, _ := a.(SingleChoiceAnswer)
	if ans.OptionID == "" {
		return fault.BadInputf("OptionId is required")
	}
	if _, ok := s.q.Option(ans.OptionID); !ok {
		return fault.BadInputf("Invalid optionId (%s)", ans.OptionID)
	}
	return nil
}

func (s singleChoiceStrategy) Transform(raw RawAnswer) Answer {
	var id string
	if raw.OptionID != nil {
		id = *raw.OptionID
	}
	return SingleChoiceAnswer{OptionID: id}
}

func (s singleChoiceStrategy) NextQuestionID(a Answer) string {
	ans, ok := a.(SingleChoiceAnswer)
	if !ok {
		return ""
	}
	opt, _ := s.q.Option(ans.OptionID)
	return opt.NextQuestionID
}

type multiChoiceStrategy struct {
	q *survey.MultiChoiceQuestion
}

func (s multiChoiceStrategy) Validate(a Answer) error {
	ans, _ := a.(MultiChoiceAnswer)
	ids := ans.OptionIDs
	if ids == nil {
		return fault.BadInputf("OptionIds is required")
	}

	if dups := duplicates(ids); len(dups) > 0 {
		return fault.BadInputf("Duplicated optionIds (%s)", strings.Join(dups, ","))
	}
	if len(ids) < s.q.MinSelect {
		return fault.BadInputf("Should choice more than %d options", s.q.MinSelect)
	}
	if len(ids) > s.q.MaxSelect {
		return fault.BadInputf("Should choice less than %d options", s.q.MaxSelect)
	}

	var invalid []string
	for _, id := range ids {
		if _, ok := s.q.Option(id); !ok {
			invalid = append(invalid, id)
		}
	}
	if len(invalid) > 0 {
		return fault.BadInputf("Invalid optionIds (%s)", strings.Join(invalid, ","))
	}
	return nil
}

func (s multiChoiceStrategy) Transform(raw RawAnswer) Answer {
	var ids []string
	if raw.OptionIDs != nil {
		ids = append([]string{}, raw.OptionIDs...)
	}
	return MultiChoiceAnswer{OptionIDs: ids}
}

func (s multiChoiceStrategy) NextQuestionID(Answer) string {
	return s.q.NextQuestionID
}

type textStrategy struct {
	q *survey.TextQuestion
}

func (s textStrategy) Validate(Answer) error {
	return nil
}

// Transform normalizes text to NFC and trims surrounding whitespace.
// Blank text is no answer.
func (s textStrategy) Transform(raw RawAnswer) Answer {
	if raw.Text == nil {
		return nil
	}
	text := strings.TrimSpace(norm.NFC.String(*raw.Text))
	if text == "" {
		return nil
	}
	return TextAnswer{Text: text}
}

func (s textStrategy) NextQuestionID(Answer) string {
	return s.q.NextQuestionID
}

// duplicates returns each repeated value once, in first-repeat order.
func duplicates(ids []string) []string {
	var out []string
	seen := make(map[string]int, len(ids))
	for _, id := range ids {
		seen[id]++
		if seen[id] == 2 {
			out = append(out, id)
		}
	}
	return out
}
