package httpapi

import (
	"time"

	custommw "github.com/cassiomorais/paymentpipeline/internal/middleware"
	"github.com/cassiomorais/paymentpipeline/internal/observability"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// baseMiddleware installs the chain shared by every REST surface this
// pipeline exposes: request id, tracing span per matched route, real IP,
// access log, panic recovery, a hard request timeout, CORS, an optional
// rate limit, security headers, and request metrics — in that order so
// metrics always sees the final status code.
func baseMiddleware(r chi.Router, allowedOrigins []string, rateLimitPerMinute int, metrics *observability.Metrics) {
	r.Use(chimw.RequestID)
	r.Use(custommw.Tracing())
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	if rateLimitPerMinute > 0 {
		r.Use(custommw.RateLimit(rateLimitPerMinute))
	}
	r.Use(custommw.SecurityHeaders())
	r.Use(custommw.Metrics(metrics))
}

func mountHealth(r chi.Router, pool *pgxpool.Pool) {
	healthH := NewHealthController(pool)
	r.Get("/health", healthH.Health)
	r.Get("/health/live", healthH.Liveness)
	r.Get("/health/ready", healthH.Readiness)
	r.Handle("/metrics", promhttp.Handler())
}

// OrdersRouterDeps wires the REST surface exposed by cmd/orders: order
// creation and reads.
type OrdersRouterDeps struct {
	Pool               *pgxpool.Pool
	Metrics            *observability.Metrics
	OrderController    *OrderController
	AllowedOrigins     []string
	RateLimitPerMinute int
}

func NewOrdersRouter(deps OrdersRouterDeps) *chi.Mux {
	r := chi.NewRouter()
	baseMiddleware(r, deps.AllowedOrigins, deps.RateLimitPerMinute, deps.Metrics)
	mountHealth(r, deps.Pool)

	r.Route("/api", func(r chi.Router) {
		r.Post("/orders", deps.OrderController.Create)
		r.Get("/orders", deps.OrderController.List)
		r.Get("/orders/{id}", deps.OrderController.Get)
	})

	return r
}

// PaymentsRouterDeps wires the REST surface exposed by cmd/payments: account
// creation, deposits, and ledger reads. The debit path itself is never
// reached over HTTP — only the Inbox Consumer calls it, off the broker.
type PaymentsRouterDeps struct {
	Pool               *pgxpool.Pool
	Metrics            *observability.Metrics
	AccountController  *AccountController
	AllowedOrigins     []string
	RateLimitPerMinute int
}

func NewPaymentsRouter(deps PaymentsRouterDeps) *chi.Mux {
	r := chi.NewRouter()
	baseMiddleware(r, deps.AllowedOrigins, deps.RateLimitPerMinute, deps.Metrics)
	mountHealth(r, deps.Pool)

	r.Route("/api", func(r chi.Router) {
		r.Post("/accounts", deps.AccountController.Create)
		r.Post("/accounts/{user_id}/deposit", deps.AccountController.Deposit)
		r.Get("/accounts/{user_id}/balance", deps.AccountController.GetBalance)
		r.Get("/accounts/{user_id}/transactions", deps.AccountController.GetTransactions)
	})

	return r
}
