package budgets

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

const selectBudget = `SELECT id, user_id, name, amount, currency, period, category, start_date, end_date, is_active, created_at, updated_at FROM budgets`

type scanner interface {
	Scan(dest ...any) error
}

func scanBudget(s scanner) (*models.Budget, error) {
	var (
		b        models.Budget
		category sql.NullString
		endDate  sql.NullTime
	)
	if err := s.Scan(&b.ID, &b.UserID, &b.Name, &b.Amount, &b.Currency, &b.Period, &category,
		&b.StartDate, &endDate, &b.IsActive, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	b.Category = category.String
	b.EndDate = dbx.TimePtr(endDate)
	return &b, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func (r *SQLRepository) Create(ctx context.Context, b *models.Budget) (*models.Budget, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	b.CreatedAt, b.UpdatedAt = now, now
	b.StartDate, b.EndDate = b.StartDate.UTC(), utcPtr(b.EndDate)

	query :=
		`INSERT INTO budgets (id, user_id, name, amount, currency, period, category, start_date, end_date, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.ExecContext(ctx, query,
		b.ID, b.UserID, b.Name, b.Amount, b.Currency, string(b.Period), dbx.NullString(b.Category),
		b.StartDate, dbx.NullTime(b.EndDate), b.IsActive, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return b, nil
}

func (r *SQLRepository) GetByID(ctx context.Context, userID, id string) (*models.Budget, error) {
	row := r.db.QueryRowContext(ctx, selectBudget+` WHERE id = $1 AND user_id = $2`, id, userID)

	b, err := scanBudget(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return b, nil
}

func (r *SQLRepository) List(ctx context.Context, userID string, activeOnly bool) ([]models.Budget, error) {
	query := selectBudget + ` WHERE user_id = $1`
	args := []any{userID}
	if activeOnly {
		query += ` AND is_active = $2`
		args = append(args, true)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Budget{}
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *SQLRepository) Update(ctx context.Context, b *models.Budget) (*models.Budget, error) {
	b.UpdatedAt = time.Now().UTC()
	b.StartDate, b.EndDate = b.StartDate.UTC(), utcPtr(b.EndDate)

	query :=
		`UPDATE budgets
		 SET name = $3, amount = $4, currency = $5, period = $6, category = $7, start_date = $8, end_date = $9, is_active = $10, updated_at = $11
		 WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query,
		b.ID, b.UserID, b.Name, b.Amount, b.Currency, string(b.Period), dbx.NullString(b.Category),
		b.StartDate, dbx.NullTime(b.EndDate), b.IsActive, b.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("rows affected error: %w", err)
	} else if n == 0 {
		return nil, common.ErrorNotFound
	}
	return b, nil
}

func (r *SQLRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	} else if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
