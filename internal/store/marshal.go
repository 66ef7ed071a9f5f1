package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/roach88/waypoint/internal/answer"
	"github.com/roach88/waypoint/internal/fault"
	"github.com/roach88/waypoint/internal/survey"
)

// timeLayout stores timestamps as sortable UTC text.
const timeLayout = time.RFC3339Nano

// marshalSnapshot converts a question snapshot to JSON TEXT for storage.
func marshalSnapshot(q survey.Question) (string, error) {
	data, err := survey.MarshalQuestion(q)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	return string(data), nil
}

// unmarshalSnapshot parses a stored snapshot. An unreadable snapshot means
// the row was written by something other than this store.
func unmarshalSnapshot(questionID, text string) (survey.Question, error) {
	q, err := survey.UnmarshalQuestion([]byte(text))
	if err != nil {
		return nil, fault.Wrap(fault.KindCorruption,
			fmt.Sprintf("question %s: stored snapshot is unreadable", questionID), err)
	}
	return q, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(questionID, text string) (time.Time, error) {
	t, err := time.Parse(timeLayout, text)
	if err != nil {
		return time.Time{}, fault.Wrap(fault.KindCorruption,
			fmt.Sprintf("question %s: stored submission time is unreadable", questionID), err)
	}
	return t, nil
}

// answerType returns the answer_type column value; NULL for a skipped question.
func answerType(a answer.Answer) *string {
	if a == nil {
		return nil
	}
	t := string(a.Type())
	return &t
}

// nullableString maps "" to SQL NULL.
func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
