package transactions

import (
	"context"

	"github.com/dmitrijs2005/gophledger/internal/server/models"
)

// Repository persists ledger entries. Every read and write is scoped to
// the owning user; an entry owned by someone else is reported as not found.
type Repository interface {
	Create(ctx context.Context, tx *models.Transaction) (*models.Transaction, error)
	GetByID(ctx context.Context, userID, id string) (*models.Transaction, error)
	List(ctx context.Context, userID string, filter models.TransactionFilter) ([]models.Transaction, error)
	Update(ctx context.Context, tx *models.Transaction) (*models.Transaction, error)
	Delete(ctx context.Context, userID, id string) error
}
