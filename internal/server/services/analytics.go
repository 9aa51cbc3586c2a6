package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/gophledger/internal/logging"
	"github.com/dmitrijs2005/gophledger/internal/server/analytics"
	"github.com/dmitrijs2005/gophledger/internal/server/currency"
	"github.com/dmitrijs2005/gophledger/internal/server/models"
	"github.com/dmitrijs2005/gophledger/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophledger/internal/server/transform"
	"github.com/shopspring/decimal"
)

// Converter converts money between currencies. *currency.Client
// implements it.
type Converter interface {
	Convert(ctx context.Context, amount decimal.Decimal, from, to string) (*currency.Conversion, error)
}

// AnalyticsService fetches the caller's ledger and hands it to the pure
// aggregation functions in the analytics and transform packages.
type AnalyticsService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	converter   Converter
	logger      logging.Logger
	now         func() time.Time
}

func NewAnalyticsService(db *sql.DB, m repomanager.RepositoryManager, c Converter, logger logging.Logger) *AnalyticsService {
	return &AnalyticsService{db: db, repomanager: m, converter: c, logger: logger, now: time.Now}
}

// localNow returns the current time in the user's preferred timezone
// together with the preferences themselves. Unknown zones fall back to UTC.
func (s *AnalyticsService) localNow(ctx context.Context, userID string) (time.Time, *models.Preferences, error) {
	now := s.now().UTC()

	p, err := s.repomanager.Preferences(s.db).GetByUserID(ctx, userID)
	if err != nil {
		return now, models.NewDefaultPreferences(userID), ignoreNotFound(err)
	}

	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		s.logger.Debug(ctx, "unknown timezone, using UTC", "timezone", p.Timezone)
		return now, p, nil
	}
	return now.In(loc), p, nil
}

// parsePeriod defaults an empty tag to month.
func parsePeriod(tag string) (analytics.Period, error) {
	if tag == "" {
		return analytics.Month, nil
	}
	return analytics.ParsePeriod(tag)
}

func (s *AnalyticsService) since(ctx context.Context, userID string, start time.Time) ([]models.Transaction, error) {
	from := start.UTC()
	return s.repomanager.Transactions(s.db).List(ctx, userID, models.TransactionFilter{StartDate: &from})
}

// CategoryBreakdown groups the caller's expenses in the current window of
// period by category.
func (s *AnalyticsService) CategoryBreakdown(ctx context.Context, userID, period string) (*analytics.Breakdown, error) {
	p, err := parsePeriod(period)
	if err != nil {
		return nil, err
	}
	now, _, err := s.localNow(ctx, userID)
	if err != nil {
		return nil, err
	}

	txs, err := s.since(ctx, userID, analytics.WindowStart(p, now))
	if err != nil {
		return nil, err
	}

	b := analytics.CategoryBreakdown(txs, p, now)
	return &b, nil
}

// PeriodSummary totals the caller's income and expenses in the current
// window of period, labelled with their default currency.
func (s *AnalyticsService) PeriodSummary(ctx context.Context, userID, period string) (*analytics.Summary, error) {
	p, err := parsePeriod(period)
	if err != nil {
		return nil, err
	}
	now, prefs, err := s.localNow(ctx, userID)
	if err != nil {
		return nil, err
	}

	txs, err := s.since(ctx, userID, analytics.WindowStart(p, now))
	if err != nil {
		return nil, err
	}

	sum := analytics.PeriodSummary(txs, p, now, prefs.DefaultCurrency)
	return &sum, nil
}

// BudgetProgress evaluates every active budget against the caller's
// expenses.
func (s *AnalyticsService) BudgetProgress(ctx context.Context, userID string) (*analytics.BudgetReport, error) {
	budgets, err := s.repomanager.Budgets(s.db).List(ctx, userID, true)
	if err != nil {
		return nil, err
	}

	report := analytics.EvaluateBudgets(nil, nil)
	if len(budgets) == 0 {
		return &report, nil
	}

	earliest := budgets[0].StartDate
	for _, b := range budgets[1:] {
		if b.StartDate.Before(earliest) {
			earliest = b.StartDate
		}
	}

	txs, err := s.repomanager.Transactions(s.db).List(ctx, userID, models.TransactionFilter{
		Type:      models.TransactionExpense,
		StartDate: &earliest,
	})
	if err != nil {
		return nil, err
	}

	report = analytics.EvaluateBudgets(budgets, txs)
	return &report, nil
}

// Transform runs the named operation over a caller-supplied batch.
func (s *AnalyticsService) Transform(ctx context.Context, operation string, batch transform.Batch) (any, error) {
	op, err := transform.ParseOperation(operation)
	if err != nil {
		return nil, err
	}
	result, err := transform.Apply(op, batch)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "data transformation completed", "operation", op.String(), "records", len(batch.Transactions))
	return result, nil
}

func (s *AnalyticsService) ConvertCurrency(ctx context.Context, amount decimal.Decimal, from, to string) (*currency.Conversion, error) {
	c, err := s.converter.Convert(ctx, amount, from, to)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "currency converted", "from", c.OriginalCurrency, "to", c.TargetCurrency, "amount", amount.String())
	return c, nil
}
