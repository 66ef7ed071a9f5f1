package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/waypoint/internal/answer"
	"github.com/roach88/waypoint/internal/fault"
	"github.com/roach88/waypoint/internal/session"
)

func TestListAnswers_CorruptRowsAreFaults(t *testing.T) {
	tests := []struct {
		name   string
		tamper string
	}{
		{"unreadable snapshot", `UPDATE question_answers SET question_snapshot = '{"id":"q1","type":"rating"}'`},
		{"unknown answer type", `UPDATE question_answers SET answer_type = 'rating'`},
		{"missing payload", `DELETE FROM answer_single_choices`},
		{"unreadable time", `UPDATE question_answers SET submitted_at = 'yesterday'`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := createTestStore(t)
			ctx := context.Background()
			sess, err := s.CreateSession(ctx, session.NewSession{Token: "tok", SurveyID: "pets", NextQuestionID: "q1"})
			require.NoError(t, err)
			require.NoError(t, s.AppendAnswer(ctx, sess.ID, record(testSingle, answer.SingleChoiceAnswer{OptionID: "yes"})))

			_, err = s.DB().Exec(tt.tamper)
			require.NoError(t, err)

			_, err = s.ListAnswers(ctx, sess.ID)
			require.Error(t, err)
			assert.True(t, fault.IsCorruption(err), "got %v", err)
		})
	}
}

func TestGetSessionByUUID(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	created, err := s.CreateSession(ctx, session.NewSession{Token: "tok", SurveyID: "pets", NextQuestionID: "q1"})
	require.NoError(t, err)

	got, err := s.GetSessionByUUID(ctx, created.UUID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "tok", got.Token)

	missing, err := s.GetSessionByUUID(ctx, "00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestAppendAnswer_StoresSnapshotJSON(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	sess, err := s.CreateSession(ctx, session.NewSession{Token: "tok", SurveyID: "pets", NextQuestionID: "q3"})
	require.NoError(t, err)

	require.NoError(t, s.AppendAnswer(ctx, sess.ID, record(testText, answer.TextAnswer{Text: "hi"})))

	var snapshot, typ, submittedAt string
	err = s.DB().QueryRow(`SELECT question_snapshot, answer_type, submitted_at FROM question_answers`).Scan(&snapshot, &typ, &submittedAt)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"q3","type":"text","text":"Anything else?","required":false}`, snapshot)
	assert.Equal(t, "text", typ)
	assert.Equal(t, "2026-03-01T09:30:00.123456789Z", submittedAt)
}
