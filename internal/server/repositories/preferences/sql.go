package preferences

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophledger/internal/common"
	"github.com/dmitrijs2005/gophledger/internal/dbx"
	"github.com/dmitrijs2005/gophledger/internal/server/models"
	"github.com/google/uuid"
)

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Create(ctx context.Context, p *models.Preferences) (*models.Preferences, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now

	query :=
		`INSERT INTO user_preferences (id, user_id, default_currency, timezone, notifications_enabled, theme, language, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.UserID, p.DefaultCurrency, p.Timezone, p.NotificationsEnabled, p.Theme, p.Language,
		p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}

func (r *SQLRepository) GetByUserID(ctx context.Context, userID string) (*models.Preferences, error) {
	query :=
		`SELECT id, user_id, default_currency, timezone, notifications_enabled, theme, language, created_at, updated_at
		 FROM user_preferences WHERE user_id = $1`

	p := &models.Preferences{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&p.ID, &p.UserID, &p.DefaultCurrency, &p.Timezone, &p.NotificationsEnabled,
		&p.Theme, &p.Language, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}

// Update overwrites every setting of the user's preferences row.
func (r *SQLRepository) Update(ctx context.Context, p *models.Preferences) (*models.Preferences, error) {
	p.UpdatedAt = time.Now().UTC()

	query :=
		`UPDATE user_preferences
		 SET default_currency = $2, timezone = $3, notifications_enabled = $4, theme = $5, language = $6, updated_at = $7
		 WHERE user_id = $1`

	res, err := r.db.ExecContext(ctx, query,
		p.UserID, p.DefaultCurrency, p.Timezone, p.NotificationsEnabled, p.Theme, p.Language, p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	} else if n == 0 {
		return nil, common.ErrorNotFound
	}

	return p, nil
}
