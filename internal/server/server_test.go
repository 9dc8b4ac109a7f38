package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"messbook/internal/database"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := New(db, time.Hour, logger)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

type apiClient struct {
	t       *testing.T
	base    string
	client  *http.Client
	cookies []*http.Cookie
}

func newAPIClient(t *testing.T, ts *httptest.Server) *apiClient {
	return &apiClient{t: t, base: ts.URL, client: ts.Client()}
}

func (c *apiClient) do(method, path string, body any) (*http.Response, map[string]any) {
	c.t.Helper()
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			c.t.Fatal(err)
		}
		buf = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, c.base+path, buf)
	if err != nil {
		c.t.Fatal(err)
	}
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		c.t.Fatal(err)
	}
	defer resp.Body.Close()
	if len(resp.Cookies()) > 0 {
		c.cookies = resp.Cookies()
	}

	var decoded map[string]any
	data, _ := io.ReadAll(resp.Body)
	if len(data) > 0 {
		json.Unmarshal(data, &decoded)
	}
	return resp, decoded
}

func (c *apiClient) register(username string) map[string]any {
	c.t.Helper()
	resp, body := c.do("POST", "/api/register", map[string]any{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret-password",
	})
	if resp.StatusCode != http.StatusCreated {
		c.t.Fatalf("register %s: status %d, body %v", username, resp.StatusCode, body)
	}
	return body
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, err := ts.Client().Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	ts := newTestServer(t)
	c := newAPIClient(t, ts)

	resp, _ := c.do("GET", "/api/dashboard", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestRegisterLoginFlow(t *testing.T) {
	ts := newTestServer(t)
	c := newAPIClient(t, ts)

	body := c.register("rahim")
	mess, ok := body["mess"].(map[string]any)
	if !ok {
		t.Fatalf("register response missing mess: %v", body)
	}
	if mess["name"] != "rahim's Mess" {
		t.Errorf("mess name = %v, want rahim's Mess", mess["name"])
	}

	// The registration cookie authenticates immediately.
	resp, _ := c.do("GET", "/api/dashboard", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("dashboard after register: status %d, want 200", resp.StatusCode)
	}

	// Logout invalidates the session.
	resp, _ = c.do("POST", "/api/logout", nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("logout status = %d, want 204", resp.StatusCode)
	}
	resp, _ = c.do("GET", "/api/dashboard", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("dashboard after logout: status %d, want 401", resp.StatusCode)
	}

	// Login restores access.
	resp, _ = c.do("POST", "/api/login", map[string]any{
		"username": "rahim",
		"password": "secret-password",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d, want 200", resp.StatusCode)
	}
	resp, _ = c.do("GET", "/api/dashboard", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("dashboard after login: status %d, want 200", resp.StatusCode)
	}
}

func TestLoginBadPassword(t *testing.T) {
	ts := newTestServer(t)
	c := newAPIClient(t, ts)
	c.register("rahim")
	c.cookies = nil

	resp, _ := c.do("POST", "/api/login", map[string]any{
		"username": "rahim",
		"password": "wrong-password",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestFullMonthFlow(t *testing.T) {
	ts := newTestServer(t)
	c := newAPIClient(t, ts)
	c.register("rahim")

	// Add a second boarder.
	resp, member := c.do("POST", "/api/members", map[string]any{
		"name":                 "Karim",
		"default_meal_pattern": "LD",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create member: status %d, body %v", resp.StatusCode, member)
	}
	karimID := member["id"].(float64)

	// Members list shows both.
	resp, body := c.do("GET", "/api/members", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list members: %d", resp.StatusCode)
	}
	if n := len(body["members"].([]any)); n != 2 {
		t.Errorf("members = %d, want 2", n)
	}

	// Meal sheet pre-fills Karim's LD pattern.
	resp, sheet := c.do("GET", "/api/meals?date=2025-06-10", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("meal sheet: %d", resp.StatusCode)
	}
	if sheet["can_edit"] != true {
		t.Error("super admin should be able to edit any date")
	}
	var karimRow map[string]any
	for _, raw := range sheet["rows"].([]any) {
		row := raw.(map[string]any)
		if row["member_id"].(float64) == karimID {
			karimRow = row
		}
	}
	if karimRow == nil {
		t.Fatal("karim missing from meal sheet")
	}
	if karimRow["had_lunch"] != true || karimRow["had_dinner"] != true || karimRow["had_breakfast"] != false {
		t.Errorf("karim prefill = %v, want lunch and dinner from LD pattern", karimRow)
	}
	if karimRow["recorded"] != false {
		t.Error("unrecorded row should report recorded=false")
	}

	// Save the sheet, record an expense and a deposit.
	resp, saved := c.do("PUT", "/api/meals", map[string]any{
		"date": "2025-06-10",
		"entries": []map[string]any{
			{"member_id": karimID, "had_lunch": true, "had_dinner": true, "extra_meals": "0"},
		},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("save meals: status %d, body %v", resp.StatusCode, saved)
	}
	resp, _ = c.do("POST", "/api/expenses", map[string]any{
		"date":     "2025-06-10",
		"amount":   "500",
		"category": "rice",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create expense: %d", resp.StatusCode)
	}
	resp, _ = c.do("POST", "/api/deposits", map[string]any{
		"date":      "2025-06-10",
		"member_id": karimID,
		"amount":    "300",
		"method":    "cash",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create deposit: %d", resp.StatusCode)
	}

	// Dashboard: Karim's 2 units at rate 250 cost 500; he deposited
	// 300, so his net is -200 and he is due.
	resp, dash := c.do("GET", "/api/dashboard?year=2025&month=6", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("dashboard: %d", resp.StatusCode)
	}
	summary := dash["summary"].(map[string]any)
	if summary["meal_rate"] != "250" {
		t.Errorf("meal rate = %v, want 250", summary["meal_rate"])
	}
	if summary["mess_balance"] != "-200" {
		t.Errorf("mess balance = %v, want -200", summary["mess_balance"])
	}
	for _, raw := range dash["members"].([]any) {
		row := raw.(map[string]any)
		if row["id"].(float64) == karimID {
			if row["net"] != "-200" || row["status"] != "due" {
				t.Errorf("karim row = %v, want net -200 due", row)
			}
		}
	}
}

func TestNonAdminPermissions(t *testing.T) {
	ts := newTestServer(t)

	admin := newAPIClient(t, ts)
	adminBody := admin.register("rahim")
	messID := int64(adminBody["mess"].(map[string]any)["id"].(float64))

	// Second registered user belongs to their own mess, not rahim's.
	other := newAPIClient(t, ts)
	other.register("karim")

	resp, _ := other.do("POST", "/api/expenses", map[string]any{
		"date": "2025-06-10", "amount": "100", "category": "rice",
	})
	// karim is super admin of karim's Mess, so this succeeds there,
	// scoped entirely to their own mess.
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expense in own mess: %d", resp.StatusCode)
	}

	// rahim's dashboard must not see karim's expense.
	resp, dash := admin.do("GET", "/api/dashboard?year=2025&month=6", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("dashboard: %d", resp.StatusCode)
	}
	if total := dash["summary"].(map[string]any)["total_expense"]; total != "0" {
		t.Errorf("mess %d total expense = %v, want 0", messID, total)
	}
}

func TestDashboardBadPeriod(t *testing.T) {
	ts := newTestServer(t)
	c := newAPIClient(t, ts)
	c.register("rahim")

	for _, q := range []string{"year=2025&month=13", "year=2025&month=0", "year=abc"} {
		resp, _ := c.do("GET", fmt.Sprintf("/api/dashboard?%s", q), nil)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("query %q: status %d, want 400", q, resp.StatusCode)
		}
	}
}

func TestSettingsUpdate(t *testing.T) {
	ts := newTestServer(t)
	c := newAPIClient(t, ts)
	c.register("rahim")

	resp, settings := c.do("PUT", "/api/settings", map[string]any{
		"currency":          "BDT",
		"include_breakfast": false,
		"breakfast_weight":  "0.5",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update settings: status %d, body %v", resp.StatusCode, settings)
	}
	if settings["include_breakfast"] != false {
		t.Error("include_breakfast should be false after update")
	}

	// Out-of-range weight is rejected.
	resp, _ = c.do("PUT", "/api/settings", map[string]any{
		"currency":          "BDT",
		"include_breakfast": true,
		"breakfast_weight":  "1.5",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("invalid weight: status %d, want 400", resp.StatusCode)
	}
}

func TestAssignmentFlow(t *testing.T) {
	ts := newTestServer(t)
	c := newAPIClient(t, ts)
	body := c.register("rahim")
	userID := body["user"].(map[string]any)["id"].(float64)

	resp, created := c.do("POST", "/api/assignments", map[string]any{
		"manager_user_id": userID,
		"period_choice":   "1_week",
		"start_date":      "2025-06-01",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create assignment: status %d, body %v", resp.StatusCode, created)
	}
	if created["end_date"] == nil {
		t.Fatal("assignment response missing end_date")
	}
	if created["assignment_type"] != "week" {
		t.Errorf("type = %v, want week", created["assignment_type"])
	}

	resp, list := c.do("GET", "/api/assignments", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list assignments: %d", resp.StatusCode)
	}
	if n := len(list["assignments"].([]any)); n != 1 {
		t.Errorf("assignments = %d, want 1", n)
	}

	// Unknown preset is rejected.
	resp, _ = c.do("POST", "/api/assignments", map[string]any{
		"manager_user_id": userID,
		"period_choice":   "fortnight",
		"start_date":      "2025-06-01",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown period: status %d, want 400", resp.StatusCode)
	}
}
