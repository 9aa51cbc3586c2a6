// Package httpapi exposes the ledger services over a JSON HTTP API rooted
// at /api/v1.
package httpapi

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/gophledger/internal/logging"
	"github.com/dmitrijs2005/gophledger/internal/server/analytics"
	"github.com/dmitrijs2005/gophledger/internal/server/currency"
	"github.com/dmitrijs2005/gophledger/internal/server/models"
	"github.com/dmitrijs2005/gophledger/internal/server/services"
	"github.com/dmitrijs2005/gophledger/internal/server/transform"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
)

const (
	ServiceName = "GophLedger"
	Version     = "1.0.0"
	APIPrefix   = "/api/v1"
)

type Authenticator interface {
	Resolve(ctx context.Context, token string) (*models.User, error)
}

type UserService interface {
	Register(ctx context.Context, in services.Registration) (*models.User, error)
	Login(ctx context.Context, userName, password string) (string, error)
	UpdateProfile(ctx context.Context, user *models.User, in services.ProfileUpdate) (*models.User, error)
	Preferences(ctx context.Context, userID string) (*models.Preferences, error)
	UpdatePreferences(ctx context.Context, userID string, in services.PreferencesUpdate) (*models.Preferences, error)
}

type TransactionService interface {
	Create(ctx context.Context, userID string, in services.TransactionInput) (*models.Transaction, error)
	Get(ctx context.Context, userID, id string) (*models.Transaction, error)
	List(ctx context.Context, userID string, filter models.TransactionFilter) ([]models.Transaction, error)
	Update(ctx context.Context, userID, id string, in services.TransactionPatch) (*models.Transaction, error)
	Delete(ctx context.Context, userID, id string) error
}

type BudgetService interface {
	Create(ctx context.Context, userID string, in services.BudgetInput) (*models.Budget, error)
	Get(ctx context.Context, userID, id string) (*models.Budget, error)
	List(ctx context.Context, userID string, activeOnly bool) ([]models.Budget, error)
	Update(ctx context.Context, userID, id string, in services.BudgetPatch) (*models.Budget, error)
	Delete(ctx context.Context, userID, id string) error
}

type AnalyticsService interface {
	CategoryBreakdown(ctx context.Context, userID, period string) (*analytics.Breakdown, error)
	PeriodSummary(ctx context.Context, userID, period string) (*analytics.Summary, error)
	BudgetProgress(ctx context.Context, userID string) (*analytics.BudgetReport, error)
	Transform(ctx context.Context, operation string, batch transform.Batch) (any, error)
	ConvertCurrency(ctx context.Context, amount decimal.Decimal, from, to string) (*currency.Conversion, error)
}

type ExportService interface {
	ExportTransactions(ctx context.Context, userID, format string) (*services.Export, error)
}

// Services bundles everything the router dispatches to.
type Services struct {
	Auth         Authenticator
	Users        UserService
	Transactions TransactionService
	Budgets      BudgetService
	Analytics    AnalyticsService
	Exports      ExportService
}

type handler struct {
	Services
	logger logging.Logger
}

// NewRouter wires every route of the API.
func NewRouter(s Services, logger logging.Logger) http.Handler {
	h := &handler{Services: s, logger: logger.With("module", "http")}

	r := chi.NewRouter()
	r.Use(requestID, requestLogger(h.logger), middleware.Recoverer)

	r.Get("/", h.root)
	r.Get("/health", h.health)

	r.Route(APIPrefix, func(api chi.Router) {
		api.Post("/auth/register", h.register)
		api.Post("/auth/login", h.login)

		api.Group(func(p chi.Router) {
			p.Use(h.authenticate)

			p.Get("/auth/me", h.me)
			p.Put("/auth/me", h.updateMe)
			p.Get("/auth/preferences", h.preferences)
			p.Put("/auth/preferences", h.updatePreferences)

			p.Route("/transactions", func(t chi.Router) {
				t.Post("/", h.createTransaction)
				t.Get("/", h.listTransactions)
				t.Get("/summary/period", h.periodSummary)
				t.Get("/{id}", h.getTransaction)
				t.Put("/{id}", h.updateTransaction)
				t.Delete("/{id}", h.deleteTransaction)
			})

			p.Route("/budgets", func(b chi.Router) {
				b.Post("/", h.createBudget)
				b.Get("/", h.listBudgets)
				b.Get("/{id}", h.getBudget)
				b.Put("/{id}", h.updateBudget)
				b.Delete("/{id}", h.deleteBudget)
			})

			p.Route("/analytics", func(a chi.Router) {
				// Authenticated: conversion uses the server's rates API key.
				a.Get("/currency/convert", h.convertCurrency)
				a.Get("/transactions/category-breakdown", h.categoryBreakdown)
				a.Get("/budgets/progress", h.budgetProgress)
				a.Post("/data/transform", h.transformData)
			})

			p.Post("/exports/transactions", h.exportTransactions)
		})
	})

	return r
}

func (h *handler) root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Welcome to " + ServiceName,
		"version": Version,
		"health":  "/health",
	})
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": ServiceName,
		"version": Version,
	})
}
