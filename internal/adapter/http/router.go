package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/mintledger/internal/adapter/http/handler"
	"github.com/iho/mintledger/internal/adapter/http/middleware"
	"github.com/iho/mintledger/internal/domain"
	"github.com/iho/mintledger/internal/infrastructure/auth"
	"github.com/iho/mintledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler    *handler.AccountHandler
	WithdrawalHandler *handler.WithdrawalHandler
	AdminHandler      *handler.AdminHandler
	HealthHandler     *handler.HealthHandler
	MetricsHandler    http.Handler
	IdempotencyStore  usecase.IdempotencyStore
	IdempotencyTTL    time.Duration
	// JWTManager enables bearer auth on /api/v1 when set.
	JWTManager *auth.JWTManager
	// WithdrawLimiter throttles code redemption when set.
	WithdrawLimiter *middleware.RateLimiter
	Logger          zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery(cfg.Logger))

	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.JWTManager != nil {
			r.Use(middleware.AuthMiddleware(cfg.JWTManager))
		}
		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger).Wrap)
		}

		r.Route("/accounts/{id}", func(r chi.Router) {
			r.Get("/", cfg.AccountHandler.Get)
			r.Get("/investments", cfg.AccountHandler.ListInvestments)
			r.Get("/notifications", cfg.AccountHandler.ListNotifications)
			r.Get("/changes", cfg.AccountHandler.Changes)
			r.Get("/withdrawals", cfg.WithdrawalHandler.List)

			r.Group(func(r chi.Router) {
				if cfg.WithdrawLimiter != nil {
					r.Use(cfg.WithdrawLimiter.Limit)
				}
				r.Post("/withdraw", cfg.WithdrawalHandler.Withdraw)
			})
		})

		r.Get("/investments/{id}", cfg.AccountHandler.GetInvestment)

		r.Route("/admin", func(r chi.Router) {
			if cfg.JWTManager != nil {
				r.Use(middleware.RequireRole(domain.RoleAdmin))
			}

			r.Post("/investments/{id}/approve", cfg.AdminHandler.ApproveInvestment)
			r.Post("/investments/{id}/accrue", cfg.AdminHandler.AccrueInvestment)
			r.Post("/loans/{id}/approve", cfg.AdminHandler.ApproveLoan)
			r.Post("/loans/{id}/decline", cfg.AdminHandler.DeclineLoan)
			r.Post("/accounts/{id}/funds", cfg.AdminHandler.AddFunds)
			r.Post("/withdrawal-codes", cfg.AdminHandler.IssueCode)
			r.Post("/withdrawal-codes/notify-expired", cfg.AdminHandler.NotifyExpiredCodes)
			r.Post("/accrual/run", cfg.AdminHandler.AccrueAll)
			r.Post("/retention/sweep", cfg.AdminHandler.Sweep)
			r.Get("/consistency", cfg.AdminHandler.Consistency)
		})
	})

	return r
}
