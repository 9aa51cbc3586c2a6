package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetPeriod is the nominal recurrence of a budget.
type BudgetPeriod string

const (
	BudgetDaily   BudgetPeriod = "daily"
	BudgetWeekly  BudgetPeriod = "weekly"
	BudgetMonthly BudgetPeriod = "monthly"
	BudgetYearly  BudgetPeriod = "yearly"
)

func (p BudgetPeriod) Valid() bool {
	switch p {
	case BudgetDaily, BudgetWeekly, BudgetMonthly, BudgetYearly:
		return true
	}
	return false
}

// Budget is a spending target. An empty Category applies the budget to
// all expenses; a nil EndDate leaves it open-ended.
type Budget struct {
	ID        string          `db:"id" json:"id"`
	UserID    string          `db:"user_id" json:"user_id"`
	Name      string          `db:"name" json:"name"`
	Amount    decimal.Decimal `db:"amount" json:"amount"`
	Currency  string          `db:"currency" json:"currency"`
	Period    BudgetPeriod    `db:"period" json:"period"`
	Category  string          `db:"category" json:"category,omitempty"`
	StartDate time.Time       `db:"start_date" json:"start_date"`
	EndDate   *time.Time      `db:"end_date" json:"end_date,omitempty"`
	IsActive  bool            `db:"is_active" json:"is_active"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}
