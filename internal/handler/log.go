package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/afresh/internal/auth"
	"github.com/dukerupert/afresh/internal/model"
	"github.com/dukerupert/afresh/internal/store"
	"github.com/dukerupert/afresh/internal/websocket"
)

type LogHandler struct {
	logStore *store.LogStore
	hub      Publisher
	logger   *slog.Logger
}

func NewLogHandler(ls *store.LogStore, hub Publisher, logger *slog.Logger) *LogHandler {
	return &LogHandler{logStore: ls, hub: hub, logger: logger}
}

type logRequest struct {
	UsedNicotine     bool     `json:"used_nicotine"`
	ProductType      *string  `json:"product_type"`
	Quantity         *float64 `json:"quantity"`
	Mood             int      `json:"mood"`
	Energy           int      `json:"energy"`
	Focus            int      `json:"focus"`
	SleepHours       float64  `json:"sleep_hours"`
	SleepQuality     int      `json:"sleep_quality"`
	CravingIntensity int      `json:"craving_intensity"`
	CravingTrigger   *string  `json:"craving_trigger"`
	Journal          *string  `json:"journal"`
}

// Put handles PUT /api/logs/{date}: the day's log is created or replaced.
func (h *LogHandler) Put(w http.ResponseWriter, r *http.Request) {
	date, err := parseDateParam(r)
	if err != nil {
		writeError(w, h.logger, "parse date", err)
		return
	}

	var req logRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	userID := auth.UserID(r.Context())
	saved, err := h.logStore.Upsert(r.Context(), model.DailyLog{
		UserID:           userID,
		Date:             date,
		UsedNicotine:     req.UsedNicotine,
		ProductType:      req.ProductType,
		Quantity:         req.Quantity,
		Mood:             req.Mood,
		Energy:           req.Energy,
		Focus:            req.Focus,
		SleepHours:       req.SleepHours,
		SleepQuality:     req.SleepQuality,
		CravingIntensity: req.CravingIntensity,
		CravingTrigger:   req.CravingTrigger,
		Journal:          req.Journal,
	})
	if err != nil {
		writeError(w, h.logger, "save daily log", err)
		return
	}

	publish(h.hub, userID, websocket.NewMessage("log", "saved", saved.ID, map[string]any{
		"date": model.FormatDate(saved.Date),
	}))

	writeJSON(w, http.StatusOK, saved)
}

// List handles GET /api/logs?from=&to=. Without a range it returns the full
// history, most recent first; with one, the range oldest first.
func (h *LogHandler) List(w http.ResponseWriter, r *http.Request) {
	from, err := parseOptionalDate(r, "from")
	if err != nil {
		writeError(w, h.logger, "parse from", err)
		return
	}
	to, err := parseOptionalDate(r, "to")
	if err != nil {
		writeError(w, h.logger, "parse to", err)
		return
	}

	userID := auth.UserID(r.Context())
	var logs []model.DailyLog
	if from.IsZero() && to.IsZero() {
		logs, err = h.logStore.ListByUser(r.Context(), userID)
	} else {
		if to.IsZero() {
			to = model.CalendarDate(timeNow())
		}
		if to.Before(from) {
			badRequest(w, "to must not be before from")
			return
		}
		logs, err = h.logStore.ListRange(r.Context(), userID, from, to)
	}
	if err != nil {
		writeError(w, h.logger, "list daily logs", err)
		return
	}
	if logs == nil {
		logs = []model.DailyLog{}
	}
	writeJSON(w, http.StatusOK, logs)
}
