package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dukerupert/afresh/internal/model"
	"github.com/dukerupert/afresh/internal/websocket"
)

// maxBodyBytes caps JSON request bodies; journal text is the largest field.
const maxBodyBytes = 64 << 10

var timeNow = time.Now

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps a domain error to its HTTP status. Client errors carry the
// error text; server errors are logged and reported generically.
func writeError(w http.ResponseWriter, logger *slog.Logger, op string, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidArgument):
		writeJSON(w, http.StatusBadRequest, errorResponse{err.Error(), "invalid_argument"})
	case errors.Is(err, model.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{err.Error(), "not_found"})
	case errors.Is(err, model.ErrInsufficientPoints):
		writeJSON(w, http.StatusConflict, errorResponse{err.Error(), "insufficient_points"})
	case errors.Is(err, model.ErrConflict):
		writeJSON(w, http.StatusConflict, errorResponse{"concurrent update, try again", "conflict"})
	case errors.Is(err, model.ErrStoreUnavailable):
		logger.Error(op, "error", err)
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{"storage unavailable", "store_unavailable"})
	default:
		logger.Error(op, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{"internal error", "internal"})
	}
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{msg, "invalid_argument"})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		badRequest(w, "invalid JSON")
		return false
	}
	return true
}

func parseIDParam(r *http.Request) (int64, error) {
	idStr := r.PathValue("id")
	return strconv.ParseInt(idStr, 10, 64)
}

func parseDateParam(r *http.Request) (time.Time, error) {
	return model.ParseDate(r.PathValue("date"))
}

// parseOptionalDate reads a YYYY-MM-DD query parameter, returning the zero
// time when it is absent.
func parseOptionalDate(r *http.Request, key string) (time.Time, error) {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return time.Time{}, nil
	}
	return model.ParseDate(v)
}

// Publisher is the slice of the WebSocket hub handlers need. It may be nil.
type Publisher interface {
	Publish(userID string, msg websocket.Message)
}

func publish(p Publisher, userID string, msg websocket.Message) {
	if p != nil {
		p.Publish(userID, msg)
	}
}
