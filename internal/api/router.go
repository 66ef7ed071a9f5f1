package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter creates the API router with all endpoints.
func NewRouter(h *Handler, logger *slog.Logger) http.Handler {
	r := mux.NewRouter()
	r.Use(WithLogging(logger))

	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	r.HandleFunc("/surveys", h.ListSurveys).Methods(http.MethodGet)
	r.HandleFunc("/surveys/{surveyId}/questions/{questionId}", h.GetQuestion).Methods(http.MethodGet)

	r.HandleFunc("/sessions", h.StartSession).Methods(http.MethodPost)

	// Respondent routes (require a session token)
	respondent := r.NewRoute().Subrouter()
	respondent.Use(RequireSessionToken(logger))
	respondent.HandleFunc("/sessions", h.GetSession).Methods(http.MethodGet)
	respondent.HandleFunc("/sessions/answers", h.SubmitAnswer).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, logger, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, logger, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}
