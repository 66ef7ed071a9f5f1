// Package survey holds the survey graph model.
//
// A survey is a set of questions connected by nextQuestionId edges.
// SingleChoice questions branch per option; MultiChoice and Text questions
// carry one question-level edge. An absent edge ends the session.
//
// Surveys are authored as CUE, JSON or YAML documents. Every document is
// unified with the embedded schema (schema.cue) before it is compiled into
// Go values, so malformed documents are rejected with CUE positions.
// Compiled surveys are immutable.
package survey
