package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"messbook/internal/assignment"
	"messbook/internal/auth"
	"messbook/internal/store"
)

type AssignmentHandler struct {
	messStore       *store.MessStore
	memberStore     *store.MemberStore
	assignmentStore *store.AssignmentStore
	logger          *slog.Logger
}

func NewAssignmentHandler(ms *store.MessStore, mbs *store.MemberStore, as *store.AssignmentStore, logger *slog.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		messStore:       ms,
		memberStore:     mbs,
		assignmentStore: as,
		logger:          logger,
	}
}

func (h *AssignmentHandler) List(w http.ResponseWriter, r *http.Request) {
	messID := auth.MessID(r.Context())
	if !requireSuperAdmin(w, h.messStore, h.logger, messID, auth.UserID(r.Context())) {
		return
	}

	assignments, err := h.assignmentStore.ListForMess(messID)
	if err != nil {
		h.logger.Error("list assignments", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list assignments")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"assignments":    assignments,
		"period_choices": assignment.PeriodChoices,
	})
}

// Create assigns a user as meal manager for a period. The period is a
// preset relative to the start date or a custom explicit range.
func (h *AssignmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	messID := auth.MessID(r.Context())
	callerID := auth.UserID(r.Context())
	if !requireSuperAdmin(w, h.messStore, h.logger, messID, callerID) {
		return
	}

	var req struct {
		ManagerUserID int64  `json:"manager_user_id"`
		PeriodChoice  string `json:"period_choice"`
		StartDate     string `json:"start_date"`
		EndDate       string `json:"end_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	start, err := parseDateString(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
		return
	}

	membership, err := h.messStore.GetUser(messID, req.ManagerUserID)
	if err != nil {
		h.logger.Error("get mess user", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if membership == nil {
		writeError(w, http.StatusBadRequest, "manager must belong to the mess")
		return
	}

	var explicitEnd *time.Time
	if req.EndDate != "" {
		parsed, err := parseDateString(req.EndDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "end_date must be YYYY-MM-DD")
			return
		}
		explicitEnd = &parsed
	}

	end, assignmentType, err := assignment.ResolvePeriod(req.PeriodChoice, start, explicitEnd)
	switch {
	case errors.Is(err, assignment.ErrUnknownPeriod):
		writeError(w, http.StatusBadRequest, "unknown period choice")
		return
	case errors.Is(err, assignment.ErrEndRequired):
		writeError(w, http.StatusBadRequest, "custom period requires an end date")
		return
	case errors.Is(err, assignment.ErrEndBeforeStart):
		writeError(w, http.StatusBadRequest, "end date cannot be before start date")
		return
	case err != nil:
		h.logger.Error("resolve period", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	// Link the manager's member row when one exists so the schedule
	// shows their member name.
	var managerMemberID *int64
	if member, err := h.memberStore.GetByUser(messID, req.ManagerUserID); err != nil {
		h.logger.Error("get member by user", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	} else if member != nil {
		managerMemberID = &member.ID
	}

	created, err := h.assignmentStore.Create(messID, req.ManagerUserID, managerMemberID, assignmentType, req.PeriodChoice, start, end, &callerID)
	if err != nil {
		h.logger.Error("create assignment", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create assignment")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}
