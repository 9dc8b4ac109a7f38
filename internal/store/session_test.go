package store

import (
	"testing"
	"time"
)

func TestSessionLifecycle(t *testing.T) {
	db := openTestDB(t)
	sessions := NewSessionStore(db)
	userID, messID, _ := registerTestMess(t, db, "rahim")

	sess, err := sessions.Create(userID, messID, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if len(sess.Token) != 64 {
		t.Errorf("token length = %d, want 64 hex chars", len(sess.Token))
	}
	if sess.MessID != messID {
		t.Errorf("session mess = %d, want %d", sess.MessID, messID)
	}

	got, err := sessions.GetByToken(sess.Token)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.UserID != userID {
		t.Fatalf("GetByToken = %v, want session for user %d", got, userID)
	}

	if err := sessions.Delete(sess.Token); err != nil {
		t.Fatal(err)
	}
	gone, err := sessions.GetByToken(sess.Token)
	if err != nil {
		t.Fatal(err)
	}
	if gone != nil {
		t.Error("deleted session should not resolve")
	}
}

func TestSessionExpiry(t *testing.T) {
	db := openTestDB(t)
	sessions := NewSessionStore(db)
	userID, messID, _ := registerTestMess(t, db, "rahim")

	expired, err := sessions.Create(userID, messID, -time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	got, err := sessions.GetByToken(expired.Token)
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Error("expired session should not resolve")
	}

	n, err := sessions.DeleteExpired()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("DeleteExpired removed %d rows, want 1", n)
	}
}

func TestSessionTokensUnique(t *testing.T) {
	db := openTestDB(t)
	sessions := NewSessionStore(db)
	userID, messID, _ := registerTestMess(t, db, "rahim")

	a, err := sessions.Create(userID, messID, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	b, err := sessions.Create(userID, messID, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if a.Token == b.Token {
		t.Error("two sessions should never share a token")
	}
}
