package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/roach88/waypoint/internal/answer"
	"github.com/roach88/waypoint/internal/session"
	"github.com/roach88/waypoint/internal/survey"
)

// Catalog is the survey source the handlers read from.
type Catalog interface {
	session.SurveyLookup
	ListSurveys(ctx context.Context) ([]*survey.Survey, error)
}

// Handler serves the survey and session endpoints.
type Handler struct {
	catalog  Catalog
	sessions *session.Service
	logger   *slog.Logger
}

// NewHandler creates a handler over catalog and sessions.
func NewHandler(catalog Catalog, sessions *session.Service, logger *slog.Logger) *Handler {
	return &Handler{catalog: catalog, sessions: sessions, logger: logger}
}

// SurveySummary is one entry of GET /surveys.
type SurveySummary struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Version         int    `json:"version"`
	StartQuestionID string `json:"startQuestionId"`
	QuestionCount   int    `json:"questionCount"`
}

// StartSessionRequest is the body of POST /sessions.
type StartSessionRequest struct {
	SurveyID string `json:"surveyId"`
}

// SessionResponse is the body returned by POST /sessions.
// It is the only response that carries the session token.
type SessionResponse struct {
	SessionID      string  `json:"sessionId"`
	SessionToken   string  `json:"sessionToken"`
	SurveyID       string  `json:"surveyId"`
	Completed      bool    `json:"isCompleted"`
	NextQuestionID *string `json:"nextQuestionId"`
}

// SubmitAnswerRequest is the body of POST /sessions/answers.
// A null or absent answer skips the question.
type SubmitAnswerRequest struct {
	QuestionID string            `json:"questionId"`
	Answer     *answer.RawAnswer `json:"answer"`
}

// SubmitAnswerResponse is the body returned by POST /sessions/answers.
type SubmitAnswerResponse struct {
	NextQuestionID *string   `json:"nextQuestionId"`
	Completed      bool      `json:"completed"`
	SubmittedAt    time.Time `json:"submittedAt"`
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, map[string]string{"status": "ok"})
}

// ListSurveys handles GET /surveys.
func (h *Handler) ListSurveys(w http.ResponseWriter, r *http.Request) {
	surveys, err := h.catalog.ListSurveys(r.Context())
	if err != nil {
		writeFault(w, r, h.logger, err)
		return
	}

	out := make([]SurveySummary, 0, len(surveys))
	for _, s := range surveys {
		out = append(out, SurveySummary{
			ID:              s.ID,
			Title:           s.Title,
			Version:         s.Version,
			StartQuestionID: s.StartQuestionID,
			QuestionCount:   len(s.Questions()),
		})
	}
	writeJSON(w, h.logger, http.StatusOK, out)
}

// GetQuestion handles GET /surveys/{surveyId}/questions/{questionId}.
func (h *Handler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	q, err := h.catalog.GetQuestion(r.Context(), vars["surveyId"], vars["questionId"])
	if err != nil {
		writeFault(w, r, h.logger, err)
		return
	}

	data, err := survey.MarshalQuestion(q)
	if err != nil {
		writeFault(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, json.RawMessage(data))
}

// StartSession handles POST /sessions.
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req StartSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	sess, err := h.sessions.StartSession(r.Context(), req.SurveyID)
	if err != nil {
		writeFault(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusCreated, SessionResponse{
		SessionID:      sess.UUID,
		SessionToken:   sess.Token,
		SurveyID:       sess.SurveyID,
		Completed:      sess.Completed,
		NextQuestionID: optional(sess.NextQuestionID),
	})
}

// GetSession handles GET /sessions.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	detail, err := h.sessions.GetDetailSession(r.Context(), sessionToken(r))
	if err != nil {
		writeFault(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, session.Describe(detail))
}

// SubmitAnswer handles POST /sessions/answers.
func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req SubmitAnswerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.QuestionID == "" {
		writeError(w, h.logger, http.StatusBadRequest, "questionId is required")
		return
	}

	res, err := h.sessions.SubmitAnswer(r.Context(), sessionToken(r), req.QuestionID, req.Answer)
	if err != nil {
		writeFault(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusCreated, SubmitAnswerResponse{
		NextQuestionID: optional(res.NextQuestionID),
		Completed:      res.Completed,
		SubmittedAt:    res.SubmittedAt,
	})
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
