package answer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/waypoint/internal/fault"
	"github.com/roach88/waypoint/internal/survey"
)

func strPtr(s string) *string { return &s }

var (
	colorQuestion = &survey.SingleChoiceQuestion{
		ID:   "color",
		Text: "Favorite color?",
		Options: []survey.Option{
			{ID: "red", Label: "Red", NextQuestionID: "why-red"},
			{ID: "blue", Label: "Blue", NextQuestionID: "why-blue"},
			{ID: "none", Label: "None"},
		},
	}

	toppingsQuestion = &survey.MultiChoiceQuestion{
		ID:        "toppings",
		Text:      "Toppings?",
		Required:  true,
		MinSelect: 2,
		MaxSelect: 3,
		Options: []survey.Option{
			{ID: "o1", Label: "Cheese"},
			{ID: "o2", Label: "Ham"},
			{ID: "o3", Label: "Olives"},
			{ID: "o4", Label: "Mushrooms"},
		},
		NextQuestionID: "drinks",
	}

	commentQuestion = &survey.TextQuestion{
		ID:             "comment",
		Text:           "Comments?",
		NextQuestionID: "thanks",
	}
)

func TestNewStrategy_UnknownVariant(t *testing.T) {
	_, err := NewStrategy(nil)
	require.Error(t, err)
	assert.True(t, fault.IsCorruption(err))
	assert.EqualError(t, err, "invalid question type")
}

func TestSingleChoiceStrategy_Validate(t *testing.T) {
	s, err := NewStrategy(colorQuestion)
	require.NoError(t, err)

	tests := []struct {
		name    string
		answer  SingleChoiceAnswer
		wantErr string
	}{
		{name: "valid option", answer: SingleChoiceAnswer{OptionID: "blue"}},
		{name: "missing option", answer: SingleChoiceAnswer{}, wantErr: "OptionId is required"},
		{name: "unknown option", answer: SingleChoiceAnswer{OptionID: "green"}, wantErr: "Invalid optionId (green)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Validate(tt.answer)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
			assert.True(t, fault.IsBadInput(err))
		})
	}
}

func TestSingleChoiceStrategy_NextQuestionFollowsChosenOption(t *testing.T) {
	s, err := NewStrategy(colorQuestion)
	require.NoError(t, err)

	assert.Equal(t, "why-red", s.NextQuestionID(SingleChoiceAnswer{OptionID: "red"}))
	assert.Equal(t, "why-blue", s.NextQuestionID(SingleChoiceAnswer{OptionID: "blue"}))
	assert.Equal(t, "", s.NextQuestionID(SingleChoiceAnswer{OptionID: "none"}), "option without edge ends the session")
	assert.Equal(t, "", s.NextQuestionID(nil), "no answer has no successor")
}

func TestSingleChoiceStrategy_Transform(t *testing.T) {
	s, err := NewStrategy(colorQuestion)
	require.NoError(t, err)

	assert.Equal(t, SingleChoiceAnswer{OptionID: "red"}, s.Transform(RawAnswer{OptionID: strPtr("red"), Text: strPtr("ignored")}))
	assert.Equal(t, SingleChoiceAnswer{}, s.Transform(RawAnswer{}))
}

func TestMultiChoiceStrategy_Validate(t *testing.T) {
	s, err := NewStrategy(toppingsQuestion)
	require.NoError(t, err)

	tests := []struct {
		name    string
		ids     []string
		wantErr string
	}{
		{name: "valid", ids: []string{"o1", "o3"}},
		{name: "at max", ids: []string{"o1", "o2", "o4"}},
		{name: "absent", ids: nil, wantErr: "OptionIds is required"},
		{name: "duplicate", ids: []string{"o1", "o1"}, wantErr: "Duplicated optionIds (o1)"},
		{name: "duplicate reported once", ids: []string{"o2", "o2", "o2", "o1", "o1"}, wantErr: "Duplicated optionIds (o2,o1)"},
		{name: "duplicate wins over cardinality", ids: []string{"o9", "o9", "o9", "o9"}, wantErr: "Duplicated optionIds (o9)"},
		{name: "too few", ids: []string{"o1"}, wantErr: "Should choice more than 2 options"},
		{name: "empty", ids: []string{}, wantErr: "Should choice more than 2 options"},
		{name: "too many", ids: []string{"o1", "o2", "o3", "o4"}, wantErr: "Should choice less than 3 options"},
		{name: "cardinality wins over membership", ids: []string{"x"}, wantErr: "Should choice more than 2 options"},
		{name: "unknown ids", ids: []string{"o1", "x", "y"}, wantErr: "Invalid optionIds (x,y)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Validate(MultiChoiceAnswer{OptionIDs: tt.ids})
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
			assert.True(t, fault.IsBadInput(err))
		})
	}
}

func TestMultiChoiceStrategy_NextQuestionIgnoresAnswer(t *testing.T) {
	s, err := NewStrategy(toppingsQuestion)
	require.NoError(t, err)

	assert.Equal(t, "drinks", s.NextQuestionID(MultiChoiceAnswer{OptionIDs: []string{"o1", "o2"}}))
	assert.Equal(t, "drinks", s.NextQuestionID(nil))
}

func TestMultiChoiceStrategy_TransformCopiesIDs(t *testing.T) {
	s, err := NewStrategy(toppingsQuestion)
	require.NoError(t, err)

	raw := RawAnswer{OptionIDs: []string{"o2", "o1"}}
	got := s.Transform(raw).(MultiChoiceAnswer)
	raw.OptionIDs[0] = "changed"
	assert.Equal(t, []string{"o2", "o1"}, got.OptionIDs, "respondent order kept, input not aliased")

	assert.Nil(t, s.Transform(RawAnswer{}).(MultiChoiceAnswer).OptionIDs)
	assert.NotNil(t, s.Transform(RawAnswer{OptionIDs: []string{}}).(MultiChoiceAnswer).OptionIDs)
}

func TestTextStrategy(t *testing.T) {
	s, err := NewStrategy(commentQuestion)
	require.NoError(t, err)

	assert.NoError(t, s.Validate(TextAnswer{Text: ""}))
	assert.Equal(t, "thanks", s.NextQuestionID(nil))
	assert.Equal(t, TextAnswer{Text: "hello"}, s.Transform(RawAnswer{Text: strPtr("  hello \n")}))
	assert.Nil(t, s.Transform(RawAnswer{Text: strPtr("   ")}))
	assert.Nil(t, s.Transform(RawAnswer{}))

	// "e" + combining acute composes to a single code point.
	got := s.Transform(RawAnswer{Text: strPtr("cafe\u0301")})
	assert.Equal(t, TextAnswer{Text: "caf\u00e9"}, got)
}
