package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"messbook/internal/model"
)

type ExpenseStore struct {
	db *sql.DB
}

func NewExpenseStore(db *sql.DB) *ExpenseStore {
	return &ExpenseStore{db: db}
}

func scanExpense(scanner interface{ Scan(...any) error }) (*model.Expense, error) {
	var e model.Expense
	var dateStr string
	var paidBy sql.NullInt64
	err := scanner.Scan(&e.ID, &e.MessID, &dateStr, &e.Amount, &e.Category, &paidBy, &e.Note, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	e.Date, err = parseStoredDate(dateStr)
	if err != nil {
		return nil, err
	}
	if paidBy.Valid {
		e.PaidByMemberID = &paidBy.Int64
	}
	return &e, nil
}

const expenseCols = `id, mess_id, date, amount, category, paid_by_member_id, note, created_at`

func (s *ExpenseStore) Create(messID int64, date time.Time, amount decimal.Decimal, category string, paidByMemberID *int64, note string) (*model.Expense, error) {
	result, err := s.db.Exec(
		`INSERT INTO expenses (mess_id, date, amount, category, paid_by_member_id, note) VALUES (?, ?, ?, ?, ?, ?)`,
		messID, fmtDate(date), amount, category, paidByMemberID, note,
	)
	if err != nil {
		return nil, fmt.Errorf("insert expense: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	row := s.db.QueryRow(`SELECT `+expenseCols+` FROM expenses WHERE id = ?`, id)
	e, err := scanExpense(row)
	if err != nil {
		return nil, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

// ListRange returns expenses dated within [start, end], inclusive.
func (s *ExpenseStore) ListRange(messID int64, start, end time.Time) ([]model.Expense, error) {
	return s.list(
		`SELECT `+expenseCols+` FROM expenses WHERE mess_id = ? AND date BETWEEN ? AND ? ORDER BY date ASC`,
		messID, fmtDate(start), fmtDate(end),
	)
}

// ListRecent returns the latest expenses, newest date first, capped to
// keep the recent-activity view bounded.
func (s *ExpenseStore) ListRecent(messID int64, limit int) ([]model.Expense, error) {
	return s.list(
		`SELECT `+expenseCols+` FROM expenses WHERE mess_id = ? ORDER BY date DESC, id DESC LIMIT ?`,
		messID, limit,
	)
}

func (s *ExpenseStore) list(query string, args ...any) ([]model.Expense, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []model.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, *e)
	}
	return expenses, rows.Err()
}
