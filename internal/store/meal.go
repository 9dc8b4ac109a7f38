package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"messbook/internal/model"
)

type MealStore struct {
	db *sql.DB
}

func NewMealStore(db *sql.DB) *MealStore {
	return &MealStore{db: db}
}

func scanMeal(scanner interface{ Scan(...any) error }) (*model.Meal, error) {
	var m model.Meal
	var dateStr string
	err := scanner.Scan(
		&m.ID, &m.MessID, &m.MemberID, &dateStr,
		&m.HadBreakfast, &m.HadLunch, &m.HadDinner, &m.ExtraMeals,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.Date, err = parseStoredDate(dateStr)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

const mealCols = `id, mess_id, member_id, date, had_breakfast, had_lunch, had_dinner, extra_meals, created_at, updated_at`

// Upsert writes the meal record for (mess, member, date). A second save
// for the same key overwrites the first: last write wins.
func (s *MealStore) Upsert(messID, memberID int64, date time.Time, breakfast, lunch, dinner bool, extra decimal.Decimal) (*model.Meal, error) {
	_, err := s.db.Exec(
		`INSERT INTO meals (mess_id, member_id, date, had_breakfast, had_lunch, had_dinner, extra_meals)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(mess_id, member_id, date) DO UPDATE SET
		   had_breakfast = excluded.had_breakfast,
		   had_lunch = excluded.had_lunch,
		   had_dinner = excluded.had_dinner,
		   extra_meals = excluded.extra_meals,
		   updated_at = CURRENT_TIMESTAMP`,
		messID, memberID, fmtDate(date), breakfast, lunch, dinner, extra,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert meal: %w", err)
	}
	return s.Get(messID, memberID, date)
}

func (s *MealStore) Get(messID, memberID int64, date time.Time) (*model.Meal, error) {
	row := s.db.QueryRow(
		`SELECT `+mealCols+` FROM meals WHERE mess_id = ? AND member_id = ? AND date = ?`,
		messID, memberID, fmtDate(date),
	)
	m, err := scanMeal(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get meal: %w", err)
	}
	return m, nil
}

// ListForDate returns every meal record of the mess on a date.
func (s *MealStore) ListForDate(messID int64, date time.Time) ([]model.Meal, error) {
	return s.list(
		`SELECT `+mealCols+` FROM meals WHERE mess_id = ? AND date = ? ORDER BY member_id ASC`,
		messID, fmtDate(date),
	)
}

// ListRangeActive returns meal records in [start, end] (inclusive)
// belonging to currently active members, oldest date first.
func (s *MealStore) ListRangeActive(messID int64, start, end time.Time) ([]model.Meal, error) {
	return s.list(
		`SELECT ml.id, ml.mess_id, ml.member_id, ml.date, ml.had_breakfast, ml.had_lunch, ml.had_dinner, ml.extra_meals, ml.created_at, ml.updated_at
		 FROM meals ml
		 JOIN members mb ON ml.member_id = mb.id
		 WHERE ml.mess_id = ? AND ml.date BETWEEN ? AND ? AND mb.is_active = 1
		 ORDER BY ml.date ASC, mb.name ASC`,
		messID, fmtDate(start), fmtDate(end),
	)
}

// ListForMember returns the member's full meal history, newest first.
func (s *MealStore) ListForMember(messID, memberID int64) ([]model.Meal, error) {
	return s.list(
		`SELECT `+mealCols+` FROM meals WHERE mess_id = ? AND member_id = ? ORDER BY date DESC`,
		messID, memberID,
	)
}

func (s *MealStore) list(query string, args ...any) ([]model.Meal, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	defer rows.Close()

	var meals []model.Meal
	for rows.Next() {
		m, err := scanMeal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan meal: %w", err)
		}
		meals = append(meals, *m)
	}
	return meals, rows.Err()
}
