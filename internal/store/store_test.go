package store

import (
	"database/sql"
	"testing"

	"messbook/internal/database"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// registerTestMess creates a user with their default mess and returns
// (userID, messID, selfMemberID).
func registerTestMess(t *testing.T, db *sql.DB, username string) (int64, int64, int64) {
	t.Helper()
	user, mess, err := NewMessStore(db).Register(username, username+"@example.com", "hash")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	member, err := NewMemberStore(db).GetByUser(mess.ID, user.ID)
	if err != nil || member == nil {
		t.Fatalf("self member lookup: %v", err)
	}
	return user.ID, mess.ID, member.ID
}
