package survey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func choice(id string, next ...string) *SingleChoiceQuestion {
	q := &SingleChoiceQuestion{ID: id, Text: id}
	for i, n := range next {
		q.Options = append(q.Options, Option{ID: string(rune('a' + i)), Label: n, NextQuestionID: n})
	}
	return q
}

func TestCycles(t *testing.T) {
	tests := []struct {
		name      string
		start     string
		questions []Question
		want      []string
	}{
		{
			name:  "acyclic",
			start: "q1",
			questions: []Question{
				choice("q1", "q2", "q3"),
				&TextQuestion{ID: "q2", Text: "q2", NextQuestionID: "q3"},
				&TextQuestion{ID: "q3", Text: "q3"},
			},
			want: nil,
		},
		{
			name:  "self_loop",
			start: "q1",
			questions: []Question{
				choice("q1", "q1", "q2"),
				&TextQuestion{ID: "q2", Text: "q2"},
			},
			want: []string{"questions loop: q1 -> q1"},
		},
		{
			name:  "three_question_loop",
			start: "q1",
			questions: []Question{
				&TextQuestion{ID: "q1", Text: "q1", NextQuestionID: "q2"},
				&TextQuestion{ID: "q2", Text: "q2", NextQuestionID: "q3"},
				choice("q3", "q1", "q4"),
				&TextQuestion{ID: "q4", Text: "q4"},
			},
			want: []string{"questions loop: q1 -> q2 -> q3 -> q1"},
		},
		{
			name:  "shortest_way_back",
			start: "q1",
			questions: []Question{
				choice("q1", "q2"),
				choice("q2", "q3", "q4"),
				choice("q3", "q2"),
				choice("q4", "q1"),
			},
			want: []string{"questions loop: q1 -> q2 -> q4 -> q1"},
		},
		{
			name:  "two_separate_loops",
			start: "q1",
			questions: []Question{
				choice("q1", "q2", "q3"),
				choice("q2", "q1"),
				choice("q3", "q4"),
				choice("q4", "q3"),
			},
			want: []string{
				"questions loop: q1 -> q2 -> q1",
				"questions loop: q3 -> q4 -> q3",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New("s", "S", 1, tt.start, tt.questions)
			require.NoError(t, err)

			var got []string
			for _, w := range Cycles(s) {
				assert.Equal(t, WarnQuestionCycle, w.Code)
				got = append(got, w.Message)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLint_IncludesCycles(t *testing.T) {
	s, err := New("s", "S", 1, "q1", []Question{
		choice("q1", "q2"),
		choice("q2", "q1", "gone"),
	})
	require.NoError(t, err)

	codes := []string{}
	for _, w := range Lint(s) {
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []string{WarnDanglingEdge, WarnQuestionCycle}, codes)
}
