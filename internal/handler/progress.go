package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dukerupert/afresh/internal/auth"
	"github.com/dukerupert/afresh/internal/model"
	"github.com/dukerupert/afresh/internal/progress"
)

type ProgressHandler struct {
	svc    *progress.Service
	logger *slog.Logger
}

func NewProgressHandler(svc *progress.Service, logger *slog.Logger) *ProgressHandler {
	return &ProgressHandler{svc: svc, logger: logger}
}

type streakResponse struct {
	Mode       model.StreakMode `json:"mode"`
	DaysAfresh int              `json:"days_afresh"`
}

// Streak handles GET /api/streak?mode=goal|log. Without a mode it reports
// every streak.
func (h *ProgressHandler) Streak(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	raw := r.URL.Query().Get("mode")
	if raw == "" {
		st, err := h.svc.Streaks(r.Context(), userID)
		if err != nil {
			writeError(w, h.logger, "get streaks", err)
			return
		}
		writeJSON(w, http.StatusOK, st)
		return
	}

	mode, err := model.ParseStreakMode(raw)
	if err != nil {
		writeError(w, h.logger, "parse mode", err)
		return
	}
	days, err := h.svc.DaysAfresh(r.Context(), userID, mode)
	if err != nil {
		writeError(w, h.logger, "days afresh", err)
		return
	}
	writeJSON(w, http.StatusOK, streakResponse{Mode: mode, DaysAfresh: days})
}

// Achievements handles GET /api/achievements.
func (h *ProgressHandler) Achievements(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.Achievements(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		writeError(w, h.logger, "evaluate achievements", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HealthTimeline handles GET /api/health-timeline.
func (h *ProgressHandler) HealthTimeline(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.HealthTimeline(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		writeError(w, h.logger, "evaluate health timeline", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Window handles GET /api/window?days=&end=.
func (h *ProgressHandler) Window(w http.ResponseWriter, r *http.Request) {
	days := progress.DefaultWindowDays
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			badRequest(w, "days must be an integer")
			return
		}
		days = n
	}
	end, err := parseOptionalDate(r, "end")
	if err != nil {
		writeError(w, h.logger, "parse end", err)
		return
	}

	series, err := h.svc.Window(r.Context(), auth.UserID(r.Context()), days, end)
	if err != nil {
		writeError(w, h.logger, "aggregate window", err)
		return
	}
	writeJSON(w, http.StatusOK, series)
}

// Summary handles GET /api/summary.
func (h *ProgressHandler) Summary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.svc.Summary(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		writeError(w, h.logger, "summary", err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}
