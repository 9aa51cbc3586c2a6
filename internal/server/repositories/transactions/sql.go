package transactions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
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

const selectTransaction = `SELECT id, user_id, amount, currency, description, category, transaction_type, date, created_at, updated_at FROM transactions`

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(s scanner) (*models.Transaction, error) {
	var (
		tx       models.Transaction
		category sql.NullString
	)
	if err := s.Scan(&tx.ID, &tx.UserID, &tx.Amount, &tx.Currency, &tx.Description, &category,
		&tx.Type, &tx.Date, &tx.CreatedAt, &tx.UpdatedAt); err != nil {
		return nil, err
	}
	tx.Category = category.String
	return &tx, nil
}

func (r *SQLRepository) Create(ctx context.Context, tx *models.Transaction) (*models.Transaction, error) {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	tx.CreatedAt, tx.UpdatedAt = now, now
	tx.Date = tx.Date.UTC()

	query :=
		`INSERT INTO transactions (id, user_id, amount, currency, description, category, transaction_type, date, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		tx.ID, tx.UserID, tx.Amount, tx.Currency, tx.Description, dbx.NullString(tx.Category),
		string(tx.Type), tx.Date, tx.CreatedAt, tx.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return tx, nil
}

func (r *SQLRepository) GetByID(ctx context.Context, userID, id string) (*models.Transaction, error) {
	row := r.db.QueryRowContext(ctx, selectTransaction+` WHERE id = $1 AND user_id = $2`, id, userID)

	tx, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return tx, nil
}

// List returns the user's entries matching filter, newest first. A zero
// Limit returns every match.
func (r *SQLRepository) List(ctx context.Context, userID string, filter models.TransactionFilter) ([]models.Transaction, error) {
	conds := []string{"user_id = $1"}
	args := []any{userID}

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.Type != "" {
		add("transaction_type = $%d", string(filter.Type))
	}
	if filter.Category != "" {
		add("category = $%d", filter.Category)
	}
	if filter.StartDate != nil {
		add("date >= $%d", filter.StartDate.UTC())
	}
	if filter.EndDate != nil {
		add("date <= $%d", filter.EndDate.UTC())
	}

	query := selectTransaction + ` WHERE ` + strings.Join(conds, " AND ") + ` ORDER BY date DESC, created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Skip)
		query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Transaction{}
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *SQLRepository) Update(ctx context.Context, tx *models.Transaction) (*models.Transaction, error) {
	tx.UpdatedAt = time.Now().UTC()
	tx.Date = tx.Date.UTC()

	query :=
		`UPDATE transactions
		 SET amount = $3, currency = $4, description = $5, category = $6, transaction_type = $7, date = $8, updated_at = $9
		 WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query,
		tx.ID, tx.UserID, tx.Amount, tx.Currency, tx.Description, dbx.NullString(tx.Category),
		string(tx.Type), tx.Date, tx.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if err := expectOneRow(res); err != nil {
		return nil, err
	}
	return tx, nil
}

func (r *SQLRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
