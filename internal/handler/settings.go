package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"messbook/internal/auth"
	"messbook/internal/store"
)

var maxBreakfastWeight = decimal.NewFromInt(1)

type SettingsHandler struct {
	messStore *store.MessStore
	logger    *slog.Logger
}

func NewSettingsHandler(ms *store.MessStore, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{messStore: ms, logger: logger}
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	messID := auth.MessID(r.Context())
	if !requireSuperAdmin(w, h.messStore, h.logger, messID, auth.UserID(r.Context())) {
		return
	}

	mess, err := h.messStore.GetByID(messID)
	if err != nil {
		h.logger.Error("get mess", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if mess == nil {
		writeError(w, http.StatusNotFound, "mess not found")
		return
	}
	writeJSON(w, http.StatusOK, mess)
}

// Update changes the mess currency and breakfast settings. Invalid
// values are rejected rather than ignored.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	messID := auth.MessID(r.Context())
	if !requireSuperAdmin(w, h.messStore, h.logger, messID, auth.UserID(r.Context())) {
		return
	}

	var req struct {
		Currency         string          `json:"currency"`
		IncludeBreakfast bool            `json:"include_breakfast"`
		BreakfastWeight  decimal.Decimal `json:"breakfast_weight"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Currency = strings.TrimSpace(req.Currency)
	if req.Currency == "" {
		writeError(w, http.StatusBadRequest, "currency is required")
		return
	}
	if req.BreakfastWeight.IsNegative() || req.BreakfastWeight.GreaterThan(maxBreakfastWeight) {
		writeError(w, http.StatusBadRequest, "breakfast weight must be between 0 and 1")
		return
	}

	mess, err := h.messStore.UpdateSettings(messID, req.Currency, req.IncludeBreakfast, req.BreakfastWeight)
	if err != nil {
		h.logger.Error("update settings", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update settings")
		return
	}
	writeJSON(w, http.StatusOK, mess)
}
