package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dukerupert/afresh/internal/auth"
	"github.com/dukerupert/afresh/internal/model"
	"github.com/dukerupert/afresh/internal/store"
	"github.com/dukerupert/afresh/internal/websocket"
)

type GoalHandler struct {
	goalStore *store.GoalStore
	hub       Publisher
	logger    *slog.Logger
}

func NewGoalHandler(gs *store.GoalStore, hub Publisher, logger *slog.Logger) *GoalHandler {
	return &GoalHandler{goalStore: gs, hub: hub, logger: logger}
}

type goalRequest struct {
	QuitDate       string `json:"quit_date"`
	Active         *bool  `json:"active"`
	DailyCostCents int64  `json:"daily_cost_cents"`
	Currency       string `json:"currency"`
}

// ParseQuitDate accepts an RFC 3339 instant or a bare YYYY-MM-DD date,
// which is read as midnight UTC.
func ParseQuitDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return model.ParseDate(s)
}

// Put handles PUT /api/goal.
func (h *GoalHandler) Put(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	quit, err := ParseQuitDate(req.QuitDate)
	if err != nil {
		writeError(w, h.logger, "parse quit date", err)
		return
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	userID := auth.UserID(r.Context())
	g, err := h.goalStore.Set(r.Context(), model.Goal{
		UserID:         userID,
		QuitDate:       quit,
		Active:         active,
		DailyCostCents: req.DailyCostCents,
		Currency:       strings.ToUpper(strings.TrimSpace(req.Currency)),
	})
	if err != nil {
		writeError(w, h.logger, "set goal", err)
		return
	}

	publish(h.hub, userID, websocket.NewMessage("goal", "updated", 0, nil))

	writeJSON(w, http.StatusOK, g)
}

// Get handles GET /api/goal.
func (h *GoalHandler) Get(w http.ResponseWriter, r *http.Request) {
	g, err := h.goalStore.Get(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		writeError(w, h.logger, "get goal", err)
		return
	}
	if g == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{"no goal set", "not_found"})
		return
	}
	writeJSON(w, http.StatusOK, g)
}
