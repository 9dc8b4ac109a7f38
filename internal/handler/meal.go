package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"messbook/internal/auth"
	"messbook/internal/dashboard"
	"messbook/internal/model"
	"messbook/internal/store"
)

type MealHandler struct {
	messStore       *store.MessStore
	memberStore     *store.MemberStore
	mealStore       *store.MealStore
	assignmentStore *store.AssignmentStore
	logger          *slog.Logger
}

func NewMealHandler(ms *store.MessStore, mbs *store.MemberStore, mls *store.MealStore, as *store.AssignmentStore, logger *slog.Logger) *MealHandler {
	return &MealHandler{
		messStore:       ms,
		memberStore:     mbs,
		mealStore:       mls,
		assignmentStore: as,
		logger:          logger,
	}
}

type mealSheetRow struct {
	MemberID     int64           `json:"member_id"`
	Name         string          `json:"name"`
	HadBreakfast bool            `json:"had_breakfast"`
	HadLunch     bool            `json:"had_lunch"`
	HadDinner    bool            `json:"had_dinner"`
	ExtraMeals   decimal.Decimal `json:"extra_meals"`
	Recorded     bool            `json:"recorded"`
}

// Sheet returns the day's entry rows for every active member. Members
// without a stored record get defaults pre-filled from their meal
// pattern; those defaults count for nothing until saved.
func (h *MealHandler) Sheet(w http.ResponseWriter, r *http.Request) {
	messID := auth.MessID(r.Context())
	userID := auth.UserID(r.Context())
	date := parseDateQuery(r, "date")

	canEdit, err := h.canEditDate(messID, userID, date)
	if err != nil {
		h.logger.Error("meal permission check", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	members, err := h.memberStore.ListActive(messID)
	if err != nil {
		h.logger.Error("list members", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list members")
		return
	}
	meals, err := h.mealStore.ListForDate(messID, date)
	if err != nil {
		h.logger.Error("list meals", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list meals")
		return
	}

	byMember := make(map[int64]model.Meal, len(meals))
	for _, m := range meals {
		byMember[m.MemberID] = m
	}

	rows := make([]mealSheetRow, 0, len(members))
	for _, member := range members {
		row := mealSheetRow{MemberID: member.ID, Name: member.Name, ExtraMeals: decimal.Zero}
		if meal, ok := byMember[member.ID]; ok {
			row.HadBreakfast = meal.HadBreakfast
			row.HadLunch = meal.HadLunch
			row.HadDinner = meal.HadDinner
			row.ExtraMeals = meal.ExtraMeals
			row.Recorded = true
		} else {
			row.HadBreakfast, row.HadLunch, row.HadDinner = member.PatternFlags()
		}
		rows = append(rows, row)
	}

	resp := map[string]any{
		"date":     date.Format(dateLayout),
		"can_edit": canEdit,
		"rows":     rows,
	}

	// Surface the covering assignment so managers can see their window.
	if assignment, err := h.assignmentStore.GetForDate(messID, userID, date); err == nil && assignment != nil {
		resp["assignment"] = assignment
	}

	writeJSON(w, http.StatusOK, resp)
}

// Save upserts the day's records for all submitted members. Writes are
// last-write-wins on the (mess, member, date) key.
func (h *MealHandler) Save(w http.ResponseWriter, r *http.Request) {
	messID := auth.MessID(r.Context())
	userID := auth.UserID(r.Context())

	var req struct {
		Date    string `json:"date"`
		Entries []struct {
			MemberID     int64           `json:"member_id"`
			HadBreakfast bool            `json:"had_breakfast"`
			HadLunch     bool            `json:"had_lunch"`
			HadDinner    bool            `json:"had_dinner"`
			ExtraMeals   decimal.Decimal `json:"extra_meals"`
		} `json:"entries"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	date, err := parseDateString(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	canEdit, err := h.canEditDate(messID, userID, date)
	if err != nil {
		h.logger.Error("meal permission check", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !canEdit {
		writeError(w, http.StatusForbidden, "you are not the meal manager for this date")
		return
	}

	for _, e := range req.Entries {
		if e.ExtraMeals.IsNegative() {
			writeError(w, http.StatusBadRequest, "extra meals cannot be negative")
			return
		}
		member, err := h.memberStore.Get(messID, e.MemberID)
		if err != nil {
			h.logger.Error("get member", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if member == nil || !member.IsActive {
			writeError(w, http.StatusBadRequest, "unknown or inactive member")
			return
		}
	}

	saved := 0
	for _, e := range req.Entries {
		if _, err := h.mealStore.Upsert(messID, e.MemberID, date, e.HadBreakfast, e.HadLunch, e.HadDinner, e.ExtraMeals); err != nil {
			h.logger.Error("save meal", "error", err, "member_id", e.MemberID)
			writeError(w, http.StatusInternalServerError, "failed to save meals")
			return
		}
		saved++
	}

	writeJSON(w, http.StatusOK, map[string]any{"date": req.Date, "saved": saved})
}

// Recent returns per-day totals for the seven days ending at the given
// date, weighted the same way as the monthly aggregation.
func (h *MealHandler) Recent(w http.ResponseWriter, r *http.Request) {
	messID := auth.MessID(r.Context())
	date := parseDateQuery(r, "date")
	start := date.AddDate(0, 0, -6)

	mess, err := h.messStore.GetByID(messID)
	if err != nil || mess == nil {
		h.logger.Error("get mess", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	meals, err := h.mealStore.ListRangeActive(messID, start, date)
	if err != nil {
		h.logger.Error("list meals", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list meals")
		return
	}

	stats := dashboard.SummarizeDays(meals, dashboard.EffectiveBreakfastWeight(*mess))
	writeJSON(w, http.StatusOK, map[string]any{"days": stats})
}

// canEditDate: super admins may edit any date; everyone else needs an
// assignment covering it.
func (h *MealHandler) canEditDate(messID, userID int64, date time.Time) (bool, error) {
	isAdmin, err := h.messStore.IsSuperAdmin(messID, userID)
	if err != nil {
		return false, err
	}
	if isAdmin {
		return true, nil
	}
	return h.assignmentStore.IsManagerForDate(messID, userID, date)
}
