package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"messbook/internal/model"
)

type DepositStore struct {
	db *sql.DB
}

func NewDepositStore(db *sql.DB) *DepositStore {
	return &DepositStore{db: db}
}

func scanDeposit(scanner interface{ Scan(...any) error }) (*model.Deposit, error) {
	var d model.Deposit
	var dateStr string
	err := scanner.Scan(&d.ID, &d.MessID, &d.MemberID, &dateStr, &d.Amount, &d.Method, &d.Note, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	d.Date, err = parseStoredDate(dateStr)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

const depositCols = `id, mess_id, member_id, date, amount, method, note, created_at`

func (s *DepositStore) Create(messID, memberID int64, date time.Time, amount decimal.Decimal, method, note string) (*model.Deposit, error) {
	result, err := s.db.Exec(
		`INSERT INTO deposits (mess_id, member_id, date, amount, method, note) VALUES (?, ?, ?, ?, ?, ?)`,
		messID, memberID, fmtDate(date), amount, method, note,
	)
	if err != nil {
		return nil, fmt.Errorf("insert deposit: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	row := s.db.QueryRow(`SELECT `+depositCols+` FROM deposits WHERE id = ?`, id)
	d, err := scanDeposit(row)
	if err != nil {
		return nil, fmt.Errorf("get deposit: %w", err)
	}
	return d, nil
}

// ListRange returns deposits dated within [start, end], inclusive.
func (s *DepositStore) ListRange(messID int64, start, end time.Time) ([]model.Deposit, error) {
	return s.list(
		`SELECT `+depositCols+` FROM deposits WHERE mess_id = ? AND date BETWEEN ? AND ? ORDER BY date ASC`,
		messID, fmtDate(start), fmtDate(end),
	)
}

// ListRecent returns the latest deposits, newest date first.
func (s *DepositStore) ListRecent(messID int64, limit int) ([]model.Deposit, error) {
	return s.list(
		`SELECT `+depositCols+` FROM deposits WHERE mess_id = ? ORDER BY date DESC, id DESC LIMIT ?`,
		messID, limit,
	)
}

// ListForMember returns the member's deposit history, newest first.
func (s *DepositStore) ListForMember(messID, memberID int64) ([]model.Deposit, error) {
	return s.list(
		`SELECT `+depositCols+` FROM deposits WHERE mess_id = ? AND member_id = ? ORDER BY date DESC`,
		messID, memberID,
	)
}

func (s *DepositStore) list(query string, args ...any) ([]model.Deposit, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list deposits: %w", err)
	}
	defer rows.Close()

	var deposits []model.Deposit
	for rows.Next() {
		d, err := scanDeposit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan deposit: %w", err)
		}
		deposits = append(deposits, *d)
	}
	return deposits, rows.Err()
}
