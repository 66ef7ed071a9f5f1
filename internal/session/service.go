package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/waypoint/internal/answer"
	"github.com/roach88/waypoint/internal/fault"
)

// Service is the engine entry point for starting, reading and advancing
// sessions.
//
// Thread-safety: Service holds no per-session state. Concurrent submissions
// to one session are serialized by the repository's transaction and its
// one-record-per-question constraint.
type Service struct {
	surveys  SurveyLookup
	sessions SessionRepository
	answers  AnswerRepository
	tx       Transactor
	tokens   TokenGenerator
	clock    Clock
	logger   *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithTokenGenerator overrides the session token generator.
func WithTokenGenerator(g TokenGenerator) Option {
	return func(s *Service) { s.tokens = g }
}

// WithClock overrides the submission clock.
func WithClock(c Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService wires a Service to its collaborators.
func NewService(surveys SurveyLookup, sessions SessionRepository, answers AnswerRepository, tx Transactor, opts ...Option) *Service {
	s := &Service{
		surveys:  surveys,
		sessions: sessions,
		answers:  answers,
		tx:       tx,
		tokens:   RandomTokenGenerator{},
		clock:    SystemClock{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartSession opens a session on the survey's start question.
func (s *Service) StartSession(ctx context.Context, surveyID string) (Session, error) {
	sv, err := s.surveys.GetSurvey(ctx, surveyID)
	if err != nil {
		return Session{}, err
	}

	created, err := s.sessions.CreateSession(ctx, NewSession{
		Token:          s.tokens.Generate(),
		SurveyID:       sv.ID,
		NextQuestionID: sv.StartQuestionID,
	})
	if err != nil {
		return Session{}, fmt.Errorf("start session: %w", err)
	}

	s.logger.Info("session started", "session", created.UUID, "survey", sv.ID, "next_question", created.NextQuestionID)
	return created, nil
}

// GetDetailSession rebuilds the session identified by token.
func (s *Service) GetDetailSession(ctx context.Context, token string) (DetailSession, error) {
	if token == "" {
		return DetailSession{}, fault.NotFoundf("Session not found")
	}

	sess, err := s.sessions.GetSessionByToken(ctx, token)
	if err != nil {
		return DetailSession{}, fmt.Errorf("get session: %w", err)
	}
	if sess == nil {
		return DetailSession{}, fault.NotFoundf("Session not found")
	}

	records, err := s.answers.ListAnswers(ctx, sess.ID)
	if err != nil {
		return DetailSession{}, fmt.Errorf("list answers: %w", err)
	}

	detail, err := Reconstruct(*sess, records)
	if err != nil {
		s.logger.Error("stored session failed validation", "session", sess.UUID, "error", err)
		return DetailSession{}, err
	}
	return detail, nil
}

// SubmitAnswer answers the session's current question.
//
// A nil raw answer skips the question, which only optional questions accept.
func (s *Service) SubmitAnswer(ctx context.Context, token, questionID string, raw *answer.RawAnswer) (SubmitResult, error) {
	detail, err := s.GetDetailSession(ctx, token)
	if err != nil {
		return SubmitResult{}, err
	}

	if err := detail.CheckSubmittable(questionID); err != nil {
		return SubmitResult{}, err
	}

	q, err := s.surveys.GetQuestion(ctx, detail.SurveyID, questionID)
	if err != nil {
		return SubmitResult{}, err
	}

	pending, err := answer.NewProcessor(answer.NewPending(q))
	if err != nil {
		return SubmitResult{}, err
	}
	submitted, err := pending.Submit(raw, s.clock.Now())
	if err != nil {
		return SubmitResult{}, err
	}
	if err := submitted.Validate(); err != nil {
		return SubmitResult{}, err
	}

	qa := submitted.QuestionAnswer()
	cursor := Advance(submitted)

	err = s.tx.RunInTransaction(ctx, func(tx Tx) error {
		if err := tx.AppendAnswer(ctx, detail.ID, qa); err != nil {
			return err
		}
		return tx.UpdateSessionCursor(ctx, detail.ID, cursor)
	})
	if err != nil {
		if fault.KindOf(err) != "" {
			return SubmitResult{}, err
		}
		return SubmitResult{}, fmt.Errorf("submit answer: %w", err)
	}

	s.logger.Info("answer accepted",
		"session", detail.UUID,
		"question", questionID,
		"next_question", cursor.NextQuestionID,
		"completed", cursor.Completed,
	)

	return SubmitResult{
		NextQuestionID: cursor.NextQuestionID,
		Completed:      cursor.Completed,
		SubmittedAt:    qa.SubmittedAt,
	}, nil
}
