// Package store contains the database/sql persistence layer. Each
// aggregate gets its own store around a shared *sql.DB. Calendar dates
// are persisted as YYYY-MM-DD text so range queries compare
// lexicographically; money columns are decimal text, summed in Go.
package store

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

func fmtDate(t time.Time) string {
	return t.Format(dateLayout)
}

func parseStoredDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored date %q: %w", s, err)
	}
	return t, nil
}
