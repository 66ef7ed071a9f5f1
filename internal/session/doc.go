// Package session drives a respondent through a survey.
//
// A session is a cursor over the survey graph: it names the next question
// to answer, or is completed. Each accepted submission appends one
// QuestionAnswer record and moves the cursor in a single transaction.
//
// Reads rebuild the session from stored records and re-validate every
// record against its own question snapshot. A record that fails this check
// is reported as a corruption fault, never as bad input, since the write
// path validated it before it was stored.
//
// Collaborators (survey lookup, repositories, transactor, token generator,
// clock, logger) are passed to NewService explicitly.
package session
