package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a ledger entry.
type TransactionType string

const (
	TransactionIncome   TransactionType = "income"
	TransactionExpense  TransactionType = "expense"
	TransactionTransfer TransactionType = "transfer"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionIncome, TransactionExpense, TransactionTransfer:
		return true
	}
	return false
}

// Transaction is a single ledger entry owned by a user. Category is empty
// when the entry is uncategorized.
type Transaction struct {
	ID          string          `db:"id" json:"id"`
	UserID      string          `db:"user_id" json:"user_id"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	Currency    string          `db:"currency" json:"currency"`
	Description string          `db:"description" json:"description"`
	Category    string          `db:"category" json:"category,omitempty"`
	Type        TransactionType `db:"transaction_type" json:"transaction_type"`
	Date        time.Time       `db:"date" json:"date"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

// TransactionFilter narrows a transaction listing. Zero values mean "no
// constraint"; Limit is clamped by the service layer.
type TransactionFilter struct {
	Type      TransactionType
	Category  string
	StartDate *time.Time
	EndDate   *time.Time
	Skip      int
	Limit     int
}
