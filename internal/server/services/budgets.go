package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophledger/internal/logging"
	"github.com/dmitrijs2005/gophledger/internal/server/events"
	"github.com/dmitrijs2005/gophledger/internal/server/models"
	"github.com/dmitrijs2005/gophledger/internal/server/repositories/repomanager"
	"github.com/shopspring/decimal"
)

// BudgetInput is the payload for creating a budget. Period defaults to
// monthly and IsActive to true.
type BudgetInput struct {
	Name      string              `json:"name"`
	Amount    decimal.Decimal     `json:"amount"`
	Currency  string              `json:"currency"`
	Period    models.BudgetPeriod `json:"period"`
	Category  string              `json:"category"`
	StartDate time.Time           `json:"start_date"`
	EndDate   *time.Time          `json:"end_date"`
	IsActive  *bool               `json:"is_active"`
}

// BudgetPatch carries a partial budget update. A nil field leaves the stored value unchanged. The optional fields
// category and end_date are removed by an explicit JSON null, which sets
// ClearCategory or ClearEndDate.
type BudgetPatch struct {
	Name      *string              `json:"name"`
	Amount    *decimal.Decimal     `json:"amount"`
	Currency  *string              `json:"currency"`
	Period    *models.BudgetPeriod `json:"period"`
	Category  *string              `json:"category"`
	StartDate *time.Time           `json:"start_date"`
	EndDate   *time.Time           `json:"end_date"`
	IsActive  *bool                `json:"is_active"`

	ClearCategory bool `json:"-"`
	ClearEndDate  bool `json:"-"`
}

func (p *BudgetPatch) UnmarshalJSON(b []byte) error {
	type plain BudgetPatch
	if err := json.Unmarshal(b, (*plain)(p)); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	p.ClearCategory = isJSONNull(raw["category"])
	p.ClearEndDate = isJSONNull(raw["end_date"])
	return nil
}

// isJSONNull reports whether a present field was the literal null.
func isJSONNull(v json.RawMessage) bool {
	return v != nil && bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

type BudgetService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	publisher   events.Publisher
	logger      logging.Logger
}

func NewBudgetService(db *sql.DB, m repomanager.RepositoryManager, p events.Publisher, logger logging.Logger) *BudgetService {
	return &BudgetService{db: db, repomanager: m, publisher: p, logger: logger}
}

func validateBudget(b *models.Budget) error {
	if err := checkLength("name", b.Name, 1, 100); err != nil {
		return err
	}
	if err := checkPositive("amount", b.Amount); err != nil {
		return err
	}
	code, err := normalizeCurrency(b.Currency, models.DefaultCurrency)
	if err != nil {
		return err
	}
	b.Currency = code
	if b.Period == "" {
		b.Period = models.BudgetMonthly
	}
	if !b.Period.Valid() {
		return invalid("period %q must be one of daily, weekly, monthly, yearly", b.Period)
	}
	if err := checkLength("category", b.Category, 0, 100); err != nil {
		return err
	}
	if b.StartDate.IsZero() {
		return invalid("start_date is required")
	}
	if b.EndDate != nil && b.EndDate.Before(b.StartDate) {
		return invalid("end_date must not be before start_date")
	}
	return nil
}

func (s *BudgetService) Create(ctx context.Context, userID string, in BudgetInput) (*models.Budget, error) {
	b := &models.Budget{
		UserID:    userID,
		Name:      strings.TrimSpace(in.Name),
		Amount:    in.Amount,
		Currency:  in.Currency,
		Period:    in.Period,
		Category:  strings.TrimSpace(in.Category),
		StartDate: in.StartDate.UTC(),
		IsActive:  true,
	}
	if in.EndDate != nil {
		end := in.EndDate.UTC()
		b.EndDate = &end
	}
	if in.IsActive != nil {
		b.IsActive = *in.IsActive
	}
	if err := validateBudget(b); err != nil {
		return nil, err
	}

	created, err := s.repomanager.Budgets(s.db).Create(ctx, b)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "budget created", "id", created.ID, "user_id", userID)
	notify(ctx, s.publisher, s.logger, events.New(events.BudgetCreated, userID, created.ID))
	return created, nil
}

func (s *BudgetService) Get(ctx context.Context, userID, id string) (*models.Budget, error) {
	return s.repomanager.Budgets(s.db).GetByID(ctx, userID, id)
}

func (s *BudgetService) List(ctx context.Context, userID string, activeOnly bool) ([]models.Budget, error) {
	return s.repomanager.Budgets(s.db).List(ctx, userID, activeOnly)
}

func (s *BudgetService) Update(ctx context.Context, userID, id string, in BudgetPatch) (*models.Budget, error) {
	repo := s.repomanager.Budgets(s.db)

	b, err := repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		b.Name = strings.TrimSpace(*in.Name)
	}
	if in.Amount != nil {
		b.Amount = *in.Amount
	}
	if in.Currency != nil {
		b.Currency = *in.Currency
	}
	if in.Period != nil {
		b.Period = *in.Period
	}
	if in.Category != nil {
		b.Category = strings.TrimSpace(*in.Category)
	}
	if in.ClearCategory {
		b.Category = ""
	}
	if in.StartDate != nil {
		b.StartDate = in.StartDate.UTC()
	}
	if in.EndDate != nil {
		end := in.EndDate.UTC()
		b.EndDate = &end
	}
	if in.ClearEndDate {
		b.EndDate = nil
	}
	if in.IsActive != nil {
		b.IsActive = *in.IsActive
	}
	if err := validateBudget(b); err != nil {
		return nil, err
	}

	updated, err := repo.Update(ctx, b)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "budget updated", "id", id, "user_id", userID)
	notify(ctx, s.publisher, s.logger, events.New(events.BudgetUpdated, userID, id))
	return updated, nil
}

func (s *BudgetService) Delete(ctx context.Context, userID, id string) error {
	if err := s.repomanager.Budgets(s.db).Delete(ctx, userID, id); err != nil {
		return err
	}
	s.logger.Info(ctx, "budget deleted", "id", id, "user_id", userID)
	notify(ctx, s.publisher, s.logger, events.New(events.BudgetDeleted, userID, id))
	return nil
}
