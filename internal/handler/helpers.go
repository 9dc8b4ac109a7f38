package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"messbook/internal/store"
)

const dateLayout = "2006-01-02"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func parseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// parseDateQuery reads a YYYY-MM-DD query parameter, defaulting to
// today when absent. Malformed input falls back to today as well,
// matching the forgiving date handling of the entry screens.
func parseDateQuery(r *http.Request, key string) time.Time {
	s := r.URL.Query().Get(key)
	if s == "" {
		return today()
	}
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return today()
	}
	return d
}

func parseDateString(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// requireSuperAdmin writes the error response and returns false when
// the user does not hold the super admin role in the mess.
func requireSuperAdmin(w http.ResponseWriter, ms *store.MessStore, logger *slog.Logger, messID, userID int64) bool {
	isAdmin, err := ms.IsSuperAdmin(messID, userID)
	if err != nil {
		logger.Error("check super admin", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return false
	}
	if !isAdmin {
		writeError(w, http.StatusForbidden, "super admin role required")
		return false
	}
	return true
}
