package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/waypoint/internal/answer"
	"github.com/roach88/waypoint/internal/fault"
	"github.com/roach88/waypoint/internal/session"
)

// execer is the write surface shared by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// CreateSession inserts a session and returns it with its assigned id and
// a time-sortable UUIDv7.
func (s *Store) CreateSession(ctx context.Context, ns session.NewSession) (session.Session, error) {
	created := session.Session{
		UUID:           uuid.Must(uuid.NewV7()).String(),
		Token:          ns.Token,
		SurveyID:       ns.SurveyID,
		Completed:      ns.NextQuestionID == "",
		NextQuestionID: ns.NextQuestionID,
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (uuid, session_token, survey_id, is_completed, next_question_id)
		VALUES (?, ?, ?, ?, ?)
	`,
		created.UUID,
		created.Token,
		created.SurveyID,
		boolToInt(created.Completed),
		nullableString(created.NextQuestionID),
	)
	if err != nil {
		return session.Session{}, fmt.Errorf("write session: %w", err)
	}

	created.ID, err = res.LastInsertId()
	if err != nil {
		return session.Session{}, fmt.Errorf("write session: %w", err)
	}
	return created, nil
}

// UpdateSessionCursor moves a session's cursor.
func (s *Store) UpdateSessionCursor(ctx context.Context, sessionID int64, c session.Cursor) error {
	return updateSessionCursor(ctx, s.db, sessionID, c)
}

// AppendAnswer stores a submitted record and its payload atomically.
func (s *Store) AppendAnswer(ctx context.Context, sessionID int64, qa answer.QuestionAnswer) error {
	return s.RunInTransaction(ctx, func(tx session.Tx) error {
		return tx.AppendAnswer(ctx, sessionID, qa)
	})
}

// RunInTransaction runs fn in a database transaction. The transaction is
// committed only if fn returns nil.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx session.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&storeTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// storeTx implements session.Tx over a *sql.Tx.
type storeTx struct {
	tx *sql.Tx
}

func (t *storeTx) AppendAnswer(ctx context.Context, sessionID int64, qa answer.QuestionAnswer) error {
	return appendAnswer(ctx, t.tx, sessionID, qa)
}

func (t *storeTx) UpdateSessionCursor(ctx context.Context, sessionID int64, c session.Cursor) error {
	return updateSessionCursor(ctx, t.tx, sessionID, c)
}

func updateSessionCursor(ctx context.Context, db execer, sessionID int64, c session.Cursor) error {
	res, err := db.ExecContext(ctx, `
		UPDATE sessions SET is_completed = ?, next_question_id = ? WHERE id = ?
	`, boolToInt(c.Completed), nullableString(c.NextQuestionID), sessionID)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("update session: session %d does not exist", sessionID)
	}
	return nil
}

// appendAnswer writes the question_answers row, then the payload row(s) for
// the answer variant. Must run inside a transaction.
func appendAnswer(ctx context.Context, db execer, sessionID int64, qa answer.QuestionAnswer) error {
	snapshot, err := marshalSnapshot(qa.QuestionSnapshot)
	if err != nil {
		return fmt.Errorf("write answer: %w", err)
	}

	res, err := db.ExecContext(ctx, `
		INSERT INTO question_answers (session_id, question_id, question_snapshot, answer_type, submitted_at)
		VALUES (?, ?, ?, ?, ?)
	`,
		sessionID,
		qa.QuestionID,
		snapshot,
		answerType(qa.Answer),
		formatTime(qa.SubmittedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fault.BadInputf("Question already submitted")
		}
		return fmt.Errorf("write answer: %w", err)
	}

	answerID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("write answer: %w", err)
	}

	switch a := qa.Answer.(type) {
	case nil:
		return nil
	case answer.SingleChoiceAnswer:
		_, err = db.ExecContext(ctx, `
			INSERT INTO answer_single_choices (question_answer_id, option_id) VALUES (?, ?)
		`, answerID, a.OptionID)
	case answer.MultiChoiceAnswer:
		for pos, optionID := range a.OptionIDs {
			_, err = db.ExecContext(ctx, `
				INSERT INTO answer_multi_choices (question_answer_id, position, option_id) VALUES (?, ?, ?)
			`, answerID, pos, optionID)
			if err != nil {
				break
			}
		}
	case answer.TextAnswer:
		_, err = db.ExecContext(ctx, `
			INSERT INTO answer_texts (question_answer_id, text) VALUES (?, ?)
		`, answerID, a.Text)
	default:
		return fmt.Errorf("write answer: unsupported answer type %T", a)
	}
	if err != nil {
		return fmt.Errorf("write answer payload: %w", err)
	}
	return nil
}
