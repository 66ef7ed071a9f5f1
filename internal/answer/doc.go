// Package answer validates and canonicalizes respondent answers.
//
// Each question variant has a Strategy that knows how to turn a raw
// submission into a canonical Answer, how to validate that answer against
// the question snapshot, and which question comes next. A Processor binds a
// QuestionAnswer record to its strategy and owns the submit and validate
// steps.
//
// Records are built in two phases. NewPending creates a record that holds
// only the question snapshot; Processor.Submit returns a new, submitted
// record. Submitted records are never modified.
package answer
