package budgets

import (
	"context"

	"github.com/dmitrijs2005/gophledger/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, b *models.Budget) (*models.Budget, error)
	GetByID(ctx context.Context, userID, id string) (*models.Budget, error)
	// List returns the user's budgets, or only active ones when activeOnly is set.
	List(ctx context.Context, userID string, activeOnly bool) ([]models.Budget, error)
	Update(ctx context.Context, b *models.Budget) (*models.Budget, error)
	Delete(ctx context.Context, userID, id string) error
}
