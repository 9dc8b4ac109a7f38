package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"messbook/internal/auth"
	"messbook/internal/dashboard"
)

type DashboardHandler struct {
	svc    *dashboard.Service
	logger *slog.Logger
}

func NewDashboardHandler(svc *dashboard.Service, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{svc: svc, logger: logger}
}

// Get computes the monthly dashboard for the session's mess. Year and
// month query parameters default to the current month.
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	year, month := now.Year(), int(now.Month())

	if s := r.URL.Query().Get("year"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid year")
			return
		}
		year = v
	}
	if s := r.URL.Query().Get("month"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid month")
			return
		}
		month = v
	}

	result, err := h.svc.ForMonth(auth.MessID(r.Context()), year, month)
	switch {
	case errors.Is(err, dashboard.ErrInvalidPeriod):
		writeError(w, http.StatusBadRequest, "year/month out of range")
		return
	case errors.Is(err, dashboard.ErrMessNotFound):
		writeError(w, http.StatusNotFound, "mess not found")
		return
	case err != nil:
		h.logger.Error("compute dashboard", "error", err, "year", year, "month", month)
		writeError(w, http.StatusInternalServerError, "failed to compute dashboard")
		return
	}

	writeJSON(w, http.StatusOK, result)
}
