package handler

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"messbook/internal/auth"
	"messbook/internal/database"
	"messbook/internal/model"
	"messbook/internal/store"
)

type mealTestEnv struct {
	handler     *MealHandler
	messes      *store.MessStore
	members     *store.MemberStore
	assignments *store.AssignmentStore
	adminID     int64
	managerID   int64
	messID      int64
	memberID    int64
}

func newMealTestEnv(t *testing.T) *mealTestEnv {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	messes := store.NewMessStore(db)
	members := store.NewMemberStore(db)
	meals := store.NewMealStore(db)
	assignments := store.NewAssignmentStore(db)
	users := store.NewUserStore(db)

	admin, mess, err := messes.Register("rahim", "rahim@example.com", "hash")
	if err != nil {
		t.Fatal(err)
	}
	manager, err := users.Create("karim", "karim@example.com", "hash")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := messes.AddUser(mess.ID, manager.ID, model.RoleManager); err != nil {
		t.Fatal(err)
	}
	member, err := members.GetByUser(mess.ID, admin.ID)
	if err != nil || member == nil {
		t.Fatalf("self member: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewMealHandler(messes, members, meals, assignments, logger)
	return &mealTestEnv{
		handler:     h,
		messes:      messes,
		members:     members,
		assignments: assignments,
		adminID:     admin.ID,
		managerID:   manager.ID,
		messID:      mess.ID,
		memberID:    member.ID,
	}
}

func (e *mealTestEnv) saveAs(t *testing.T, userID int64, role, date string) *httptest.ResponseRecorder {
	t.Helper()
	body := `{"date":"` + date + `","entries":[{"member_id":` + strconv.FormatInt(e.memberID, 10) +
		`,"had_lunch":true,"extra_meals":"0"}]}`
	req := httptest.NewRequest("PUT", "/api/meals", strings.NewReader(body))
	ctx := auth.WithAuth(req.Context(), auth.AuthContext{UserID: userID, MessID: e.messID, Role: role})
	rec := httptest.NewRecorder()
	e.handler.Save(rec, req.WithContext(ctx))
	return rec
}

func TestMealSaveManagerWindow(t *testing.T) {
	e := newMealTestEnv(t)

	// Assign karim for one week in June.
	start, _ := time.Parse("2006-01-02", "2025-06-08")
	end, _ := time.Parse("2006-01-02", "2025-06-14")
	if _, err := e.assignments.Create(e.messID, e.managerID, nil, model.AssignmentTypeWeek, "1_week", start, end, nil); err != nil {
		t.Fatal(err)
	}

	// Inside the window the manager may save.
	rec := e.saveAs(t, e.managerID, model.RoleManager, "2025-06-10")
	if rec.Code != http.StatusOK {
		t.Errorf("manager inside window: status %d, want 200 (%s)", rec.Code, rec.Body)
	}

	// Outside the window the save is forbidden.
	rec = e.saveAs(t, e.managerID, model.RoleManager, "2025-06-20")
	if rec.Code != http.StatusForbidden {
		t.Errorf("manager outside window: status %d, want 403", rec.Code)
	}

	// Super admins are never restricted by assignment windows.
	rec = e.saveAs(t, e.adminID, model.RoleSuperAdmin, "2025-06-20")
	if rec.Code != http.StatusOK {
		t.Errorf("admin outside window: status %d, want 200 (%s)", rec.Code, rec.Body)
	}
}

func TestMealSaveRejectsNegativeExtra(t *testing.T) {
	e := newMealTestEnv(t)

	body := `{"date":"2025-06-10","entries":[{"member_id":` + strconv.FormatInt(e.memberID, 10) + `,"had_lunch":true,"extra_meals":"-1"}]}`
	req := httptest.NewRequest("PUT", "/api/meals", strings.NewReader(body))
	ctx := auth.WithAuth(req.Context(), auth.AuthContext{UserID: e.adminID, MessID: e.messID, Role: model.RoleSuperAdmin})
	rec := httptest.NewRecorder()
	e.handler.Save(rec, req.WithContext(ctx))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for negative extra meals", rec.Code)
	}
}
