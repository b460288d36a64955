package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/afresh/internal/auth"
	"github.com/dukerupert/afresh/internal/ledger"
	"github.com/dukerupert/afresh/internal/model"
	"github.com/dukerupert/afresh/internal/websocket"
)

type LedgerHandler struct {
	svc    *ledger.Service
	hub    Publisher
	logger *slog.Logger
}

func NewLedgerHandler(svc *ledger.Service, hub Publisher, logger *slog.Logger) *LedgerHandler {
	return &LedgerHandler{svc: svc, hub: hub, logger: logger}
}

type stepsRequest struct {
	Steps *int `json:"steps"`
}

// RecordSteps handles PUT /api/steps/{date}.
func (h *LedgerHandler) RecordSteps(w http.ResponseWriter, r *http.Request) {
	date, err := parseDateParam(r)
	if err != nil {
		writeError(w, h.logger, "parse date", err)
		return
	}

	var req stepsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Steps == nil {
		badRequest(w, "steps is required")
		return
	}

	userID := auth.UserID(r.Context())
	entry, err := h.svc.RecordSteps(r.Context(), userID, date, *req.Steps)
	if err != nil {
		writeError(w, h.logger, "record steps", err)
		return
	}

	publish(h.hub, userID, websocket.NewMessage("steps", "recorded", entry.ID, map[string]any{
		"date":   model.FormatDate(entry.Date),
		"points": entry.PointsEarned,
	}))

	writeJSON(w, http.StatusOK, entry)
}

// StepHistory handles GET /api/steps?from=&to=. The range defaults to the
// last 30 days ending today (UTC).
func (h *LedgerHandler) StepHistory(w http.ResponseWriter, r *http.Request) {
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
	if to.IsZero() {
		to = model.CalendarDate(timeNow())
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -29)
	}

	entries, err := h.svc.StepHistory(r.Context(), auth.UserID(r.Context()), from, to)
	if err != nil {
		writeError(w, h.logger, "list steps", err)
		return
	}
	if entries == nil {
		entries = []model.StepEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// Points handles GET /api/points.
func (h *LedgerHandler) Points(w http.ResponseWriter, r *http.Request) {
	bal, err := h.svc.Balance(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		writeError(w, h.logger, "get balance", err)
		return
	}
	writeJSON(w, http.StatusOK, bal)
}

// Rewards handles GET /api/rewards.
func (h *LedgerHandler) Rewards(w http.ResponseWriter, r *http.Request) {
	rewards, err := h.svc.Rewards(r.Context())
	if err != nil {
		writeError(w, h.logger, "list rewards", err)
		return
	}
	if rewards == nil {
		rewards = []model.Reward{}
	}
	writeJSON(w, http.StatusOK, rewards)
}

// Claim handles POST /api/rewards/{id}/claim.
func (h *LedgerHandler) Claim(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		badRequest(w, "invalid id")
		return
	}

	userID := auth.UserID(r.Context())
	claim, err := h.svc.Claim(r.Context(), userID, id)
	if err != nil {
		writeError(w, h.logger, "claim reward", err)
		return
	}

	publish(h.hub, userID, websocket.NewMessage("reward", "claimed", claim.ID, map[string]any{
		"reward_id": claim.RewardID,
		"points":    claim.PointsRedeemed,
		"status":    claim.Status,
	}))

	writeJSON(w, http.StatusCreated, claim)
}

// Claims handles GET /api/claims.
func (h *LedgerHandler) Claims(w http.ResponseWriter, r *http.Request) {
	claims, err := h.svc.Claims(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		writeError(w, h.logger, "list claims", err)
		return
	}
	if claims == nil {
		claims = []model.ClaimedReward{}
	}
	writeJSON(w, http.StatusOK, claims)
}
