package store

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestMealUpsertOverwrites(t *testing.T) {
	db := openTestDB(t)
	meals := NewMealStore(db)
	_, messID, memberID := registerTestMess(t, db, "rahim")
	d := day("2025-06-10")

	first, err := meals.Upsert(messID, memberID, d, true, true, false, decimal.Zero)
	if err != nil {
		t.Fatal(err)
	}
	second, err := meals.Upsert(messID, memberID, d, false, true, true, decimal.RequireFromString("0.5"))
	if err != nil {
		t.Fatal(err)
	}

	if second.ID != first.ID {
		t.Errorf("second save should update the same row, got ids %d and %d", first.ID, second.ID)
	}
	if second.HadBreakfast {
		t.Error("breakfast flag should be overwritten to false")
	}
	if !second.HadDinner {
		t.Error("dinner flag should be overwritten to true")
	}
	if !second.ExtraMeals.Equal(decimal.RequireFromString("0.5")) {
		t.Errorf("extra meals = %s, want 0.5", second.ExtraMeals)
	}

	all, err := meals.ListForDate(messID, d)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Errorf("records for date = %d, want 1", len(all))
	}
}

func TestMealListRangeActiveInclusive(t *testing.T) {
	db := openTestDB(t)
	meals := NewMealStore(db)
	_, messID, memberID := registerTestMess(t, db, "rahim")

	for _, s := range []string{"2025-05-31", "2025-06-01", "2025-06-15", "2025-06-30", "2025-07-01"} {
		if _, err := meals.Upsert(messID, memberID, day(s), false, true, false, decimal.Zero); err != nil {
			t.Fatal(err)
		}
	}

	got, err := meals.ListRangeActive(messID, day("2025-06-01"), day("2025-06-30"))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d records, want 3 (both endpoints inclusive)", len(got))
	}
	if !got[0].Date.Equal(day("2025-06-01")) || !got[2].Date.Equal(day("2025-06-30")) {
		t.Errorf("range endpoints missing: %v .. %v", got[0].Date, got[2].Date)
	}
}

func TestMealListRangeActiveExcludesInactive(t *testing.T) {
	db := openTestDB(t)
	meals := NewMealStore(db)
	members := NewMemberStore(db)
	_, messID, _ := registerTestMess(t, db, "rahim")

	inactive, err := members.Create(messID, nil, "Karim", "", "NONE", true)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := meals.Upsert(messID, inactive.ID, day("2025-06-10"), false, true, true, decimal.Zero); err != nil {
		t.Fatal(err)
	}
	if _, err := members.Update(messID, inactive.ID, nil, "Karim", "", "NONE", false); err != nil {
		t.Fatal(err)
	}

	got, err := meals.ListRangeActive(messID, day("2025-06-01"), day("2025-06-30"))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("got %d records, want 0 after deactivating the member", len(got))
	}
}

func TestMealGetMissing(t *testing.T) {
	db := openTestDB(t)
	meals := NewMealStore(db)
	_, messID, memberID := registerTestMess(t, db, "rahim")

	m, err := meals.Get(messID, memberID, day("2025-06-10"))
	if err != nil {
		t.Fatal(err)
	}
	if m != nil {
		t.Error("missing record should return nil, nil")
	}
}
