package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/waypoint/internal/answer"
	"github.com/roach88/waypoint/internal/fault"
	"github.com/roach88/waypoint/internal/session"
	"github.com/roach88/waypoint/internal/survey"
)

// GetSessionByToken returns the session with the given token.
// Returns nil, nil if no session has it.
func (s *Store) GetSessionByToken(ctx context.Context, token string) (*session.Session, error) {
	return s.getSession(ctx, "session_token", token)
}

// GetSessionByUUID returns the session with the given public id.
// Returns nil, nil if no session has it.
func (s *Store) GetSessionByUUID(ctx context.Context, id string) (*session.Session, error) {
	return s.getSession(ctx, "uuid", id)
}

func (s *Store) getSession(ctx context.Context, column, value string) (*session.Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, uuid, session_token, survey_id, is_completed, next_question_id
		FROM sessions
		WHERE `+column+` = ?
	`, value)

	var (
		sess      session.Session
		completed int
		next      sql.NullString
	)
	err := row.Scan(&sess.ID, &sess.UUID, &sess.Token, &sess.SurveyID, &completed, &next)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query session: %w", err)
	}

	sess.Completed = completed != 0
	sess.NextQuestionID = next.String
	return &sess, nil
}

// ListAnswers returns a session's records in submission order.
//
// Returns an empty slice (not nil) if the session has no records.
// Rows that cannot be decoded are reported as corruption faults.
func (s *Store) ListAnswers(ctx context.Context, sessionID int64) ([]answer.QuestionAnswer, error) {
	records, ids, err := s.readAnswerRows(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	choices, err := s.readMultiChoices(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	for i, id := range ids {
		if ans, ok := records[i].Answer.(answer.MultiChoiceAnswer); ok {
			ans.OptionIDs = append(ans.OptionIDs, choices[id]...)
			records[i].Answer = ans
		}
	}

	return records, nil
}

// readAnswerRows reads question_answers joined with the single choice and
// text payloads. Multi choice answers are returned with an empty selection
// to be filled from answer_multi_choices.
func (s *Store) readAnswerRows(ctx context.Context, sessionID int64) ([]answer.QuestionAnswer, []int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT qa.id, qa.question_id, qa.question_snapshot, qa.answer_type, qa.submitted_at,
		       sc.option_id, t.text
		FROM question_answers qa
		LEFT JOIN answer_single_choices sc ON sc.question_answer_id = qa.id
		LEFT JOIN answer_texts t ON t.question_answer_id = qa.id
		WHERE qa.session_id = ?
		ORDER BY qa.id ASC
	`, sessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("query answers: %w", err)
	}
	defer rows.Close()

	records := []answer.QuestionAnswer{}
	ids := []int64{}
	for rows.Next() {
		var (
			id          int64
			qa          answer.QuestionAnswer
			snapshot    string
			typ         sql.NullString
			submittedAt string
			optionID    sql.NullString
			text        sql.NullString
		)
		if err := rows.Scan(&id, &qa.QuestionID, &snapshot, &typ, &submittedAt, &optionID, &text); err != nil {
			return nil, nil, fmt.Errorf("scan answer: %w", err)
		}

		qa.QuestionSnapshot, err = unmarshalSnapshot(qa.QuestionID, snapshot)
		if err != nil {
			return nil, nil, err
		}
		qa.SubmittedAt, err = parseTime(qa.QuestionID, submittedAt)
		if err != nil {
			return nil, nil, err
		}
		qa.Answer, err = decodeAnswer(qa.QuestionID, typ, optionID, text)
		if err != nil {
			return nil, nil, err
		}

		records = append(records, qa)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate answers: %w", err)
	}

	return records, ids, nil
}

func decodeAnswer(questionID string, typ, optionID, text sql.NullString) (answer.Answer, error) {
	if !typ.Valid {
		return nil, nil
	}

	switch survey.QuestionType(typ.String) {
	case survey.TypeSingleChoice:
		if !optionID.Valid {
			return nil, fault.Corruptionf("question %s: single choice answer has no option", questionID)
		}
		return answer.SingleChoiceAnswer{OptionID: optionID.String}, nil
	case survey.TypeMultiChoice:
		return answer.MultiChoiceAnswer{OptionIDs: []string{}}, nil
	case survey.TypeText:
		if !text.Valid {
			return nil, fault.Corruptionf("question %s: text answer has no text", questionID)
		}
		return answer.TextAnswer{Text: text.String}, nil
	default:
		return nil, fault.Corruptionf("question %s: unknown answer type %q", questionID, typ.String)
	}
}

// readMultiChoices returns the selected option ids per question_answers id,
// in respondent order.
func (s *Store) readMultiChoices(ctx context.Context, sessionID int64) (map[int64][]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT mc.question_answer_id, mc.option_id
		FROM answer_multi_choices mc
		JOIN question_answers qa ON qa.id = mc.question_answer_id
		WHERE qa.session_id = ?
		ORDER BY mc.question_answer_id ASC, mc.position ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query multi choices: %w", err)
	}
	defer rows.Close()

	out := make(map[int64][]string)
	for rows.Next() {
		var (
			id       int64
			optionID string
		)
		if err := rows.Scan(&id, &optionID); err != nil {
			return nil, fmt.Errorf("scan multi choice: %w", err)
		}
		out[id] = append(out[id], optionID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate multi choices: %w", err)
	}
	return out, nil
}
