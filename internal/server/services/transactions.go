package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophledger/internal/logging"
	"github.com/dmitrijs2005/gophledger/internal/server/events"
	"github.com/dmitrijs2005/gophledger/internal/server/models"
	"github.com/dmitrijs2005/gophledger/internal/server/repositories/repomanager"
	"github.com/shopspring/decimal"
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 1000
)

// TransactionInput is the payload for creating a ledger entry. A nil Date
// means "now".
type TransactionInput struct {
	Amount      decimal.Decimal        `json:"amount"`
	Currency    string                 `json:"currency"`
	Description string                 `json:"description"`
	Category    string                 `json:"category"`
	Type        models.TransactionType `json:"transaction_type"`
	Date        *time.Time             `json:"date"`
}

// TransactionPatch carries optional changes to a ledger entry.
type TransactionPatch struct {
	Amount      *decimal.Decimal        `json:"amount"`
	Currency    *string                 `json:"currency"`
	Description *string                 `json:"description"`
	Category    *string                 `json:"category"`
	Type        *models.TransactionType `json:"transaction_type"`
	Date        *time.Time              `json:"date"`
}

type TransactionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	publisher   events.Publisher
	logger      logging.Logger
	now         func() time.Time
}

func NewTransactionService(db *sql.DB, m repomanager.RepositoryManager, p events.Publisher, logger logging.Logger) *TransactionService {
	return &TransactionService{db: db, repomanager: m, publisher: p, logger: logger, now: time.Now}
}

func validateTransaction(t *models.Transaction) error {
	if err := checkPositive("amount", t.Amount); err != nil {
		return err
	}
	code, err := normalizeCurrency(t.Currency, models.DefaultCurrency)
	if err != nil {
		return err
	}
	t.Currency = code
	if err := checkLength("description", t.Description, 1, 255); err != nil {
		return err
	}
	if err := checkLength("category", t.Category, 0, 100); err != nil {
		return err
	}
	if !t.Type.Valid() {
		return invalid("transaction_type %q must be one of income, expense, transfer", t.Type)
	}
	return nil
}

func (s *TransactionService) Create(ctx context.Context, userID string, in TransactionInput) (*models.Transaction, error) {
	t := &models.Transaction{
		UserID:      userID,
		Amount:      in.Amount,
		Currency:    in.Currency,
		Description: in.Description,
		Category:    strings.TrimSpace(in.Category),
		Type:        in.Type,
		Date:        s.now().UTC(),
	}
	if in.Date != nil {
		t.Date = in.Date.UTC()
	}
	if err := validateTransaction(t); err != nil {
		return nil, err
	}

	created, err := s.repomanager.Transactions(s.db).Create(ctx, t)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "transaction created", "id", created.ID, "user_id", userID)
	s.publish(ctx, events.TransactionCreated, userID, created.ID)
	return created, nil
}

func (s *TransactionService) Get(ctx context.Context, userID, id string) (*models.Transaction, error) {
	return s.repomanager.Transactions(s.db).GetByID(ctx, userID, id)
}

// List returns the user's entries newest first. A non-positive limit
// selects DefaultListLimit; larger limits are capped at MaxListLimit.
func (s *TransactionService) List(ctx context.Context, userID string, filter models.TransactionFilter) ([]models.Transaction, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, invalid("transaction_type %q must be one of income, expense, transfer", filter.Type)
	}
	if filter.Skip < 0 {
		return nil, invalid("skip must not be negative")
	}
	switch {
	case filter.Limit <= 0:
		filter.Limit = DefaultListLimit
	case filter.Limit > MaxListLimit:
		filter.Limit = MaxListLimit
	}
	return s.repomanager.Transactions(s.db).List(ctx, userID, filter)
}

func (s *TransactionService) Update(ctx context.Context, userID, id string, in TransactionPatch) (*models.Transaction, error) {
	repo := s.repomanager.Transactions(s.db)

	t, err := repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if in.Amount != nil {
		t.Amount = *in.Amount
	}
	if in.Currency != nil {
		t.Currency = *in.Currency
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Category != nil {
		t.Category = strings.TrimSpace(*in.Category)
	}
	if in.Type != nil {
		t.Type = *in.Type
	}
	if in.Date != nil {
		t.Date = in.Date.UTC()
	}
	if err := validateTransaction(t); err != nil {
		return nil, err
	}

	updated, err := repo.Update(ctx, t)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "transaction updated", "id", id, "user_id", userID)
	s.publish(ctx, events.TransactionUpdated, userID, id)
	return updated, nil
}

func (s *TransactionService) Delete(ctx context.Context, userID, id string) error {
	if err := s.repomanager.Transactions(s.db).Delete(ctx, userID, id); err != nil {
		return err
	}
	s.logger.Info(ctx, "transaction deleted", "id", id, "user_id", userID)
	s.publish(ctx, events.TransactionDeleted, userID, id)
	return nil
}

// publish sends a notification. Delivery failures are logged, not returned.
func (s *TransactionService) publish(ctx context.Context, typ, userID, id string) {
	notify(ctx, s.publisher, s.logger, events.New(typ, userID, id))
}

func notify(ctx context.Context, p events.Publisher, logger logging.Logger, e events.Event) {
	if err := p.Publish(ctx, e); err != nil {
		logger.Warn(ctx, "event not published", "type", e.Type, "entity_id", e.EntityID, "error", err)
	}
}
