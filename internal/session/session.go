package session

import (
	"context"
	"time"

	"github.com/roach88/waypoint/internal/answer"
	"github.com/roach88/waypoint/internal/survey"
)

// Session is a respondent's progress through one survey.
//
// Completed is true exactly when NextQuestionID is empty.
type Session struct {
	ID             int64
	UUID           string
	Token          string
	SurveyID       string
	Completed      bool
	NextQuestionID string
}

// Cursor returns the session's position in the survey graph.
func (s Session) Cursor() Cursor {
	return Cursor{Completed: s.Completed, NextQuestionID: s.NextQuestionID}
}

// NewSession holds the fields of a session before it is stored.
// The repository assigns ID and UUID.
type NewSession struct {
	Token          string
	SurveyID       string
	NextQuestionID string
}

// Cursor is the mutable part of a session.
type Cursor struct {
	Completed      bool
	NextQuestionID string
}

// DetailSession is a session with its answers in submission order.
type DetailSession struct {
	Session
	Answers []answer.QuestionAnswer
}

// SubmitResult reports the outcome of an accepted submission.
type SubmitResult struct {
	NextQuestionID string
	Completed      bool
	SubmittedAt    time.Time
}

// SurveyLookup resolves surveys and their questions.
// Unknown ids are reported as not-found faults.
type SurveyLookup interface {
	GetSurvey(ctx context.Context, id string) (*survey.Survey, error)
	GetQuestion(ctx context.Context, surveyID, questionID string) (survey.Question, error)
}

// SessionRepository stores sessions.
type SessionRepository interface {
	CreateSession(ctx context.Context, s NewSession) (Session, error)

	// GetSessionByToken returns nil, nil when no session has the token.
	GetSessionByToken(ctx context.Context, token string) (*Session, error)

	UpdateSessionCursor(ctx context.Context, sessionID int64, c Cursor) error
}

// AnswerRepository stores QuestionAnswer records.
type AnswerRepository interface {
	// AppendAnswer stores a submitted record. A second record for the same
	// question of a session is rejected with "Question already submitted".
	AppendAnswer(ctx context.Context, sessionID int64, qa answer.QuestionAnswer) error

	// ListAnswers returns records in submission order.
	ListAnswers(ctx context.Context, sessionID int64) ([]answer.QuestionAnswer, error)
}

// Tx is the write surface available inside a transaction.
type Tx interface {
	AppendAnswer(ctx context.Context, sessionID int64, qa answer.QuestionAnswer) error
	UpdateSessionCursor(ctx context.Context, sessionID int64, c Cursor) error
}

// Transactor runs fn atomically. If fn returns an error nothing it wrote is
// kept.
type Transactor interface {
	RunInTransaction(ctx context.Context, fn func(tx Tx) error) error
}
