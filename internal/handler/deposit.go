package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"messbook/internal/auth"
	"messbook/internal/store"
)

type DepositHandler struct {
	messStore    *store.MessStore
	memberStore  *store.MemberStore
	depositStore *store.DepositStore
	logger       *slog.Logger
}

func NewDepositHandler(ms *store.MessStore, mbs *store.MemberStore, ds *store.DepositStore, logger *slog.Logger) *DepositHandler {
	return &DepositHandler{messStore: ms, memberStore: mbs, depositStore: ds, logger: logger}
}

// Create records a member's deposit into the mess fund. Super admins only.
func (h *DepositHandler) Create(w http.ResponseWriter, r *http.Request) {
	messID := auth.MessID(r.Context())
	if !requireSuperAdmin(w, h.messStore, h.logger, messID, auth.UserID(r.Context())) {
		return
	}

	var req struct {
		Date     string          `json:"date"`
		MemberID int64           `json:"member_id"`
		Amount   decimal.Decimal `json:"amount"`
		Method   string          `json:"method"`
		Note     string          `json:"note"`
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
	member, err := h.memberStore.Get(messID, req.MemberID)
	if err != nil {
		h.logger.Error("get member", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if member == nil || !member.IsActive {
		writeError(w, http.StatusBadRequest, "member must be an active member of the mess")
		return
	}

	deposit, err := h.depositStore.Create(messID, req.MemberID, date, req.Amount.Round(2), req.Method, req.Note)
	if err != nil {
		h.logger.Error("create deposit", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to record deposit")
		return
	}
	writeJSON(w, http.StatusCreated, deposit)
}

type depositDay struct {
	Date        string          `json:"date"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Members     string          `json:"members"`
}

// Recent groups the latest deposits into per-day totals with the
// depositors' names, newest first.
func (h *DepositHandler) Recent(w http.ResponseWriter, r *http.Request) {
	messID := auth.MessID(r.Context())

	deposits, err := h.depositStore.ListRecent(messID, recentEntryLimit)
	if err != nil {
		h.logger.Error("list deposits", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list deposits")
		return
	}
	members, err := h.memberStore.List(messID)
	if err != nil {
		h.logger.Error("list members", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	names := make(map[int64]string, len(members))
	for _, m := range members {
		names[m.ID] = m.Name
	}

	var days []depositDay
	index := make(map[string]int)
	nameSets := make(map[string]map[string]bool)
	for _, d := range deposits {
		key := d.Date.Format(dateLayout)
		i, ok := index[key]
		if !ok {
			i = len(days)
			index[key] = i
			days = append(days, depositDay{Date: key, TotalAmount: decimal.Zero})
			nameSets[key] = make(map[string]bool)
		}
		days[i].TotalAmount = days[i].TotalAmount.Add(d.Amount)
		if name, ok := names[d.MemberID]; ok {
			nameSets[key][name] = true
		}
	}
	for i := range days {
		set := nameSets[days[i].Date]
		sorted := make([]string, 0, len(set))
		for name := range set {
			sorted = append(sorted, name)
		}
		sort.Strings(sorted)
		days[i].Members = strings.Join(sorted, ", ")
	}

	writeJSON(w, http.StatusOK, map[string]any{"days": days})
}
