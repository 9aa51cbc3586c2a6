package analytics

import (
	"time"

	"github.com/dmitrijs2005/gophledger/internal/server/models"
	"github.com/shopspring/decimal"
)

// Summary holds income and expense totals for a window.
type Summary struct {
	Period           string          `json:"period"`
	StartDate        time.Time       `json:"start_date"`
	TotalIncome      decimal.Decimal `json:"total_income"`
	TotalExpenses    decimal.Decimal `json:"total_expenses"`
	NetAmount        decimal.Decimal `json:"net_amount"`
	TransactionCount int             `json:"transaction_count"`
	Currency         string          `json:"currency"`
}

// PeriodSummary totals transactions dated on or after the start of p's
// window. Transfers are counted but contribute to neither total.
func PeriodSummary(txs []models.Transaction, p Period, now time.Time, currency string) Summary {
	start := WindowStart(p, now)
	s := Summary{
		Period:        p.String(),
		StartDate:     start,
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
		Currency:      currency,
	}

	for _, tx := range txs {
		if tx.Date.Before(start) {
			continue
		}
		s.TransactionCount++
		switch tx.Type {
		case models.TransactionIncome:
			s.TotalIncome = s.TotalIncome.Add(tx.Amount)
		case models.TransactionExpense:
			s.TotalExpenses = s.TotalExpenses.Add(tx.Amount)
		}
	}
	s.NetAmount = s.TotalIncome.Sub(s.TotalExpenses)

	return s
}
