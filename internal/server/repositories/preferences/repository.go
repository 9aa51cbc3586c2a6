package preferences

import (
	"context"

	"github.com/dmitrijs2005/gophledger/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, p *models.Preferences) (*models.Preferences, error)
	GetByUserID(ctx context.Context, userID string) (*models.Preferences, error)
	Update(ctx context.Context, p *models.Preferences) (*models.Preferences, error)
}
