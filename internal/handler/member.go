package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"messbook/internal/auth"
	"messbook/internal/dashboard"
	"messbook/internal/model"
	"messbook/internal/store"
)

type MemberHandler struct {
	messStore    *store.MessStore
	memberStore  *store.MemberStore
	mealStore    *store.MealStore
	depositStore *store.DepositStore
	logger       *slog.Logger
}

func NewMemberHandler(ms *store.MessStore, mbs *store.MemberStore, mls *store.MealStore, ds *store.DepositStore, logger *slog.Logger) *MemberHandler {
	return &MemberHandler{
		messStore:    ms,
		memberStore:  mbs,
		mealStore:    mls,
		depositStore: ds,
		logger:       logger,
	}
}

type memberRequest struct {
	UserID   *int64 `json:"user_id"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Pattern  string `json:"default_meal_pattern"`
	IsActive *bool  `json:"is_active"`
}

func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	messID := auth.MessID(r.Context())
	if !requireSuperAdmin(w, h.messStore, h.logger, messID, auth.UserID(r.Context())) {
		return
	}

	members, err := h.memberStore.List(messID)
	if err != nil {
		h.logger.Error("list members", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list members")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"members": members})
}

func (h *MemberHandler) Create(w http.ResponseWriter, r *http.Request) {
	messID := auth.MessID(r.Context())
	if !requireSuperAdmin(w, h.messStore, h.logger, messID, auth.UserID(r.Context())) {
		return
	}

	var req memberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Pattern == "" {
		req.Pattern = model.PatternNone
	}
	if !model.ValidMealPattern(req.Pattern) {
		writeError(w, http.StatusBadRequest, "unknown meal pattern")
		return
	}

	exists, err := h.memberStore.NameExists(messID, req.Name, 0)
	if err != nil {
		h.logger.Error("check member name", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if exists {
		writeError(w, http.StatusConflict, "a member with this name already exists")
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	member, err := h.memberStore.Create(messID, req.UserID, req.Name, req.Phone, req.Pattern, isActive)
	if err != nil {
		h.logger.Error("create member", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create member")
		return
	}
	writeJSON(w, http.StatusCreated, member)
}

func (h *MemberHandler) Update(w http.ResponseWriter, r *http.Request) {
	messID := auth.MessID(r.Context())
	if !requireSuperAdmin(w, h.messStore, h.logger, messID, auth.UserID(r.Context())) {
		return
	}

	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid member id")
		return
	}
	existing, err := h.memberStore.Get(messID, id)
	if err != nil {
		h.logger.Error("get member", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "member not found")
		return
	}

	var req memberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Pattern == "" {
		req.Pattern = existing.DefaultMealPattern
	}
	if !model.ValidMealPattern(req.Pattern) {
		writeError(w, http.StatusBadRequest, "unknown meal pattern")
		return
	}

	taken, err := h.memberStore.NameExists(messID, req.Name, id)
	if err != nil {
		h.logger.Error("check member name", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if taken {
		writeError(w, http.StatusConflict, "a member with this name already exists")
		return
	}

	isActive := existing.IsActive
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	member, err := h.memberStore.Update(messID, id, req.UserID, req.Name, req.Phone, req.Pattern, isActive)
	if err != nil {
		h.logger.Error("update member", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update member")
		return
	}
	writeJSON(w, http.StatusOK, member)
}

type mealHistoryRow struct {
	Date         string          `json:"date"`
	HadBreakfast bool            `json:"had_breakfast"`
	HadLunch     bool            `json:"had_lunch"`
	HadDinner    bool            `json:"had_dinner"`
	ExtraMeals   decimal.Decimal `json:"extra_meals"`
	Units        decimal.Decimal `json:"units"`
}

// Detail returns a member's profile with their meal and deposit
// history. Visible to super admins and to the user the member row is
// linked to.
func (h *MemberHandler) Detail(w http.ResponseWriter, r *http.Request) {
	messID := auth.MessID(r.Context())
	userID := auth.UserID(r.Context())

	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid member id")
		return
	}
	member, err := h.memberStore.Get(messID, id)
	if err != nil {
		h.logger.Error("get member", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if member == nil {
		writeError(w, http.StatusNotFound, "member not found")
		return
	}

	isAdmin, err := h.messStore.IsSuperAdmin(messID, userID)
	if err != nil {
		h.logger.Error("check super admin", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	isSelf := member.UserID != nil && *member.UserID == userID
	if !isAdmin && !isSelf {
		writeError(w, http.StatusForbidden, "not allowed to view this member")
		return
	}

	mess, err := h.messStore.GetByID(messID)
	if err != nil || mess == nil {
		h.logger.Error("get mess", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	weight := dashboard.EffectiveBreakfastWeight(*mess)

	meals, err := h.mealStore.ListForMember(messID, id)
	if err != nil {
		h.logger.Error("list meals", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	deposits, err := h.depositStore.ListForMember(messID, id)
	if err != nil {
		h.logger.Error("list deposits", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	history := make([]mealHistoryRow, 0, len(meals))
	totalUnits := decimal.Zero
	for _, m := range meals {
		units := dashboard.MealUnits(m, weight)
		totalUnits = totalUnits.Add(units)
		history = append(history, mealHistoryRow{
			Date:         m.Date.Format(dateLayout),
			HadBreakfast: m.HadBreakfast,
			HadLunch:     m.HadLunch,
			HadDinner:    m.HadDinner,
			ExtraMeals:   m.ExtraMeals,
			Units:        units,
		})
	}

	totalDeposited := decimal.Zero
	for _, d := range deposits {
		totalDeposited = totalDeposited.Add(d.Amount)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"member":          member,
		"meals":           history,
		"total_units":     totalUnits,
		"deposits":        deposits,
		"total_deposited": totalDeposited,
	})
}
