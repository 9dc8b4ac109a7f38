// Package server wires the stores, handlers, and middleware into the
// HTTP API.
package server

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"messbook/internal/dashboard"
	"messbook/internal/handler"
	"messbook/internal/middleware"
	"messbook/internal/store"
)

const (
	loginRateLimit  = 10
	loginRateWindow = time.Minute
)

type Server struct {
	logger      *slog.Logger
	rateLimiter *middleware.RateLimiter

	userStore       *store.UserStore
	messStore       *store.MessStore
	memberStore     *store.MemberStore
	mealStore       *store.MealStore
	expenseStore    *store.ExpenseStore
	depositStore    *store.DepositStore
	assignmentStore *store.AssignmentStore
	sessionStore    *store.SessionStore

	authHandler       *handler.AuthHandler
	dashboardHandler  *handler.DashboardHandler
	mealHandler       *handler.MealHandler
	expenseHandler    *handler.ExpenseHandler
	depositHandler    *handler.DepositHandler
	memberHandler     *handler.MemberHandler
	settingsHandler   *handler.SettingsHandler
	assignmentHandler *handler.AssignmentHandler
}

func New(db *sql.DB, sessionTTL time.Duration, logger *slog.Logger) *Server {
	s := &Server{
		logger:      logger,
		rateLimiter: middleware.NewRateLimiter(),

		userStore:       store.NewUserStore(db),
		messStore:       store.NewMessStore(db),
		memberStore:     store.NewMemberStore(db),
		mealStore:       store.NewMealStore(db),
		expenseStore:    store.NewExpenseStore(db),
		depositStore:    store.NewDepositStore(db),
		assignmentStore: store.NewAssignmentStore(db),
		sessionStore:    store.NewSessionStore(db),
	}

	svc := dashboard.NewService(s.messStore, s.memberStore, s.mealStore, s.expenseStore, s.depositStore, s.assignmentStore)

	s.authHandler = handler.NewAuthHandler(s.userStore, s.messStore, s.sessionStore, sessionTTL, logger.With("component", "auth"))
	s.dashboardHandler = handler.NewDashboardHandler(svc, logger.With("component", "dashboard"))
	s.mealHandler = handler.NewMealHandler(s.messStore, s.memberStore, s.mealStore, s.assignmentStore, logger.With("component", "meals"))
	s.expenseHandler = handler.NewExpenseHandler(s.messStore, s.memberStore, s.expenseStore, logger.With("component", "expenses"))
	s.depositHandler = handler.NewDepositHandler(s.messStore, s.memberStore, s.depositStore, logger.With("component", "deposits"))
	s.memberHandler = handler.NewMemberHandler(s.messStore, s.memberStore, s.mealStore, s.depositStore, logger.With("component", "members"))
	s.settingsHandler = handler.NewSettingsHandler(s.messStore, logger.With("component", "settings"))
	s.assignmentHandler = handler.NewAssignmentHandler(s.messStore, s.memberStore, s.assignmentStore, logger.With("component", "assignments"))

	return s
}

// Router builds the full handler chain. Credential endpoints are
// rate-limited by client IP; everything under /api except register and
// login requires a valid session.
func (s *Server) Router() http.Handler {
	limit := middleware.RateLimit(s.rateLimiter, middleware.RealIP, loginRateLimit, loginRateWindow)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("POST /api/register", limit(http.HandlerFunc(s.authHandler.Register)))
	mux.Handle("POST /api/login", limit(http.HandlerFunc(s.authHandler.Login)))

	protected := http.NewServeMux()
	protected.HandleFunc("POST /api/logout", s.authHandler.Logout)
	protected.HandleFunc("GET /api/dashboard", s.dashboardHandler.Get)
	protected.HandleFunc("GET /api/meals", s.mealHandler.Sheet)
	protected.HandleFunc("PUT /api/meals", s.mealHandler.Save)
	protected.HandleFunc("GET /api/meals/recent", s.mealHandler.Recent)
	protected.HandleFunc("POST /api/expenses", s.expenseHandler.Create)
	protected.HandleFunc("GET /api/expenses/recent", s.expenseHandler.Recent)
	protected.HandleFunc("POST /api/deposits", s.depositHandler.Create)
	protected.HandleFunc("GET /api/deposits/recent", s.depositHandler.Recent)
	protected.HandleFunc("GET /api/members", s.memberHandler.List)
	protected.HandleFunc("POST /api/members", s.memberHandler.Create)
	protected.HandleFunc("GET /api/members/{id}", s.memberHandler.Detail)
	protected.HandleFunc("PUT /api/members/{id}", s.memberHandler.Update)
	protected.HandleFunc("GET /api/settings", s.settingsHandler.Get)
	protected.HandleFunc("PUT /api/settings", s.settingsHandler.Update)
	protected.HandleFunc("GET /api/assignments", s.assignmentHandler.List)
	protected.HandleFunc("POST /api/assignments", s.assignmentHandler.Create)

	requireAuth := middleware.RequireAuth(s.sessionStore, s.messStore)
	mux.Handle("/api/", requireAuth(protected))

	return middleware.RequestLogger(s.logger)(mux)
}

// SessionStore exposes the session store for periodic cleanup.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// RateLimiter exposes the limiter for periodic cleanup.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}
