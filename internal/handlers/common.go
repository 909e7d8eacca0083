package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lehigh-university-libraries/moviebasket/internal/pager"
	"github.com/lehigh-university-libraries/moviebasket/internal/state"
)

type Handler struct {
	state *state.Manager
	pager *pager.Pager

	// Heartbeat is how often an idle event stream sends a comment line
	Heartbeat time.Duration
}

func New(m *state.Manager, p *pager.Pager) *Handler {
	return &Handler{
		state:     m,
		pager:     p,
		Heartbeat: 15 * time.Second,
	}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	if code >= http.StatusInternalServerError {
		slog.Error(message, "status", code)
	} else {
		slog.Debug(message, "status", code)
	}
	h.writeJSON(w, code, errorResponse{Error: message})
}

// movieID parses the {id} URL parameter
func (h *Handler) movieID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.writeError(w, "Invalid movie id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
