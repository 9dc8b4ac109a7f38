package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"messbook/internal/middleware"
	"messbook/internal/store"
)

const minPasswordLength = 8

type AuthHandler struct {
	userStore    *store.UserStore
	messStore    *store.MessStore
	sessionStore *store.SessionStore
	sessionTTL   time.Duration
	logger       *slog.Logger
}

func NewAuthHandler(us *store.UserStore, ms *store.MessStore, ss *store.SessionStore, sessionTTL time.Duration, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		userStore:    us,
		messStore:    ms,
		sessionStore: ss,
		sessionTTL:   sessionTTL,
		logger:       logger,
	}
}

// Register creates the user plus their default mess, super-admin
// membership, and self member row, then starts a session.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" {
		writeError(w, http.StatusBadRequest, "username and email are required")
		return
	}
	if !strings.Contains(req.Email, "@") {
		writeError(w, http.StatusBadRequest, "invalid email address")
		return
	}
	if len(req.Password) < minPasswordLength {
		writeError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	if existing, err := h.userStore.GetByUsername(req.Username); err != nil {
		h.logger.Error("register username lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	} else if existing != nil {
		writeError(w, http.StatusConflict, "username is taken")
		return
	}
	if existing, err := h.userStore.GetByEmail(req.Email); err != nil {
		h.logger.Error("register email lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	} else if existing != nil {
		writeError(w, http.StatusConflict, "email is already registered")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("hash password", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	user, mess, err := h.messStore.Register(req.Username, req.Email, string(hash))
	if err != nil {
		h.logger.Error("register", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	sess, err := h.sessionStore.Create(user.ID, mess.ID, h.sessionTTL)
	if err != nil {
		h.logger.Error("create session", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.setSessionCookie(w, sess.Token, sess.ExpiresAt)

	writeJSON(w, http.StatusCreated, map[string]any{"user": user, "mess": mess})
}

// Login verifies credentials and starts a session scoped to the user's
// mess.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	user, err := h.userStore.GetByUsername(strings.TrimSpace(req.Username))
	if err != nil {
		h.logger.Error("login lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	mess, err := h.messStore.GetForUser(user.ID)
	if err != nil {
		h.logger.Error("login mess lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if mess == nil {
		writeError(w, http.StatusForbidden, "no mess associated with this account")
		return
	}

	sess, err := h.sessionStore.Create(user.ID, mess.ID, h.sessionTTL)
	if err != nil {
		h.logger.Error("create session", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.setSessionCookie(w, sess.Token, sess.ExpiresAt)

	writeJSON(w, http.StatusOK, map[string]any{"user": user, "mess": mess})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.sessionStore.Delete(cookie.Value); err != nil {
			h.logger.Error("delete session", "error", err)
		}
	}
	h.setSessionCookie(w, "", time.Unix(0, 0))
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
