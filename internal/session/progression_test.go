package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/waypoint/internal/answer"
	"github.com/roach88/waypoint/internal/fault"
	"github.com/roach88/waypoint/internal/testutil"
)

func TestCheckSubmittable_GuardOrder(t *testing.T) {
	pets := testutil.PetSurvey(t)
	q1, _ := pets.Question("q1")
	answered := answer.NewPending(q1)
	answered.Answer = answer.SingleChoiceAnswer{OptionID: "yes"}
	answered.SubmittedAt = testutil.Epoch

	tests := []struct {
		name     string
		detail   DetailSession
		question string
		check    func(error) bool
		wantErr  string
	}{
		{
			name:     "accepts the cursor question",
			detail:   DetailSession{Session: Session{NextQuestionID: "q1"}},
			question: "q1",
		},
		{
			name:     "completed wins over wrong step",
			detail:   DetailSession{Session: Session{Completed: true}},
			question: "q2",
			check:    fault.IsConflict,
			wantErr:  "Session already completed",
		},
		{
			name:     "wrong step",
			detail:   DetailSession{Session: Session{NextQuestionID: "q2"}},
			question: "q3",
			check:    fault.IsBadInput,
			wantErr:  "Invalid question step",
		},
		{
			name: "replay of an answered question",
			detail: DetailSession{
				Session: Session{NextQuestionID: "q1"},
				Answers: []answer.QuestionAnswer{answered},
			},
			question: "q1",
			check:    fault.IsBadInput,
			wantErr:  "Question already submitted",
		},
		{
			name: "other answers do not block",
			detail: DetailSession{
				Session: Session{NextQuestionID: "q2"},
				Answers: []answer.QuestionAnswer{answered},
			},
			question: "q2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.detail.CheckSubmittable(tt.question)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.EqualError(t, err, tt.wantErr)
			assert.True(t, tt.check(err))
		})
	}
}

func TestAdvance(t *testing.T) {
	pets := testutil.PetSurvey(t)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	submit := func(questionID string, raw *answer.RawAnswer) *answer.Processor {
		q, ok := pets.Question(questionID)
		require.True(t, ok)
		p, err := answer.NewProcessor(answer.NewPending(q))
		require.NoError(t, err)
		submitted, err := p.Submit(raw, now)
		require.NoError(t, err)
		require.NoError(t, submitted.Validate())
		return submitted
	}

	assert.Equal(t, Cursor{NextQuestionID: "q2"}, Advance(submit("q1", &answer.RawAnswer{OptionID: testutil.StrPtr("yes")})))
	assert.Equal(t, Cursor{NextQuestionID: "q3"}, Advance(submit("q1", &answer.RawAnswer{OptionID: testutil.StrPtr("no")})))
	assert.Equal(t, Cursor{NextQuestionID: "q3"}, Advance(submit("q2", &answer.RawAnswer{OptionIDs: []string{"cat"}})))
	assert.Equal(t, Cursor{Completed: true}, Advance(submit("q3", nil)), "terminal question completes the session")
}
