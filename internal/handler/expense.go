package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"messbook/internal/auth"
	"messbook/internal/model"
	"messbook/internal/store"
)

const recentEntryLimit = 200

type ExpenseHandler struct {
	messStore    *store.MessStore
	memberStore  *store.MemberStore
	expenseStore *store.ExpenseStore
	logger       *slog.Logger
}

func NewExpenseHandler(ms *store.MessStore, mbs *store.MemberStore, es *store.ExpenseStore, logger *slog.Logger) *ExpenseHandler {
	return &ExpenseHandler{messStore: ms, memberStore: mbs, expenseStore: es, logger: logger}
}

// Create records a bazar expense. Super admins only.
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	messID := auth.MessID(r.Context())
	if !requireSuperAdmin(w, h.messStore, h.logger, messID, auth.UserID(r.Context())) {
		return
	}

	var req struct {
		Date           string          `json:"date"`
		Amount         decimal.Decimal `json:"amount"`
		Category       string          `json:"category"`
		PaidByMemberID *int64          `json:"paid_by_member_id"`
		Note           string          `json:"note"`
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
	if !req.Amount.IsPositive() {
		writeError(w, http.StatusBadRequest, "amount must be positive")
		return
	}
	if req.Category == "" {
		req.Category = model.CategoryOther
	}
	if !model.ValidExpenseCategory(req.Category) {
		writeError(w, http.StatusBadRequest, "unknown category")
		return
	}
	if req.PaidByMemberID != nil {
		member, err := h.memberStore.Get(messID, *req.PaidByMemberID)
		if err != nil {
			h.logger.Error("get member", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if member == nil || !member.IsActive {
			writeError(w, http.StatusBadRequest, "paid-by member must be an active member")
			return
		}
	}

	expense, err := h.expenseStore.Create(messID, date, req.Amount.Round(2), req.Category, req.PaidByMemberID, req.Note)
	if err != nil {
		h.logger.Error("create expense", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to record expense")
		return
	}
	writeJSON(w, http.StatusCreated, expense)
}

type expenseDay struct {
	Date        string          `json:"date"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// Recent groups the latest expenses into per-day totals, newest first.
func (h *ExpenseHandler) Recent(w http.ResponseWriter, r *http.Request) {
	messID := auth.MessID(r.Context())

	expenses, err := h.expenseStore.ListRecent(messID, recentEntryLimit)
	if err != nil {
		h.logger.Error("list expenses", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list expenses")
		return
	}

	var days []expenseDay
	index := make(map[string]int)
	for _, e := range expenses {
		key := e.Date.Format(dateLayout)
		i, ok := index[key]
		if !ok {
			i = len(days)
			index[key] = i
			days = append(days, expenseDay{Date: key, TotalAmount: decimal.Zero})
		}
		days[i].TotalAmount = days[i].TotalAmount.Add(e.Amount)
	}

	writeJSON(w, http.StatusOK, map[string]any{"days": days})
}
