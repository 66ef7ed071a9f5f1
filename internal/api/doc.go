// Package api exposes the survey engine over HTTP.
//
// Routes:
//
//	GET  /health
//	GET  /surveys
//	GET  /surveys/{surveyId}/questions/{questionId}
//	POST /sessions           {"surveyId": "..."}
//	GET  /sessions           X-Session-Token required
//	POST /sessions/answers   X-Session-Token required, {"questionId": "...", "answer": {...} | null}
//
// Engine faults map to status codes: NOT_FOUND 404, CONFLICT 403,
// BAD_INPUT 400. Corruption and unclassified errors are logged and answered
// with a generic 500.
package api
