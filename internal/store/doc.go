// Package store provides SQLite-backed durable storage for survey sessions.
//
// The store holds:
//   - Sessions: one row per respondent session, addressed by token
//   - Question answers: one row per submitted question, with a JSON copy of
//     the question as it was answered
//   - Answer payloads: one table per answer variant (single choice, multi
//     choice, text); a skipped question has no payload row
//
// # Invariants
//
//   - UNIQUE(session_id, question_id) on question_answers: a question is
//     answered at most once per session. A losing writer gets
//     "Question already submitted".
//   - is_completed is 1 exactly when next_question_id is NULL. The store
//     does not check this; session reads do.
//   - Answers are listed ORDER BY id ASC, which is submission order.
//   - Multi choice selections keep respondent order via a position column.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Memory implements the same contracts without a database, for tests and
// scenario runs.
package store
