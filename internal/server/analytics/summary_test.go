package analytics

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/gophledger/internal/server/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPeriodSummary(t *testing.T) {
	inWindow := testNow.Add(-time.Hour)
	txs := []models.Transaction{
		tx(models.TransactionIncome, "1000", "", inWindow),
		tx(models.TransactionExpense, "250.50", "Food", inWindow),
		tx(models.TransactionTransfer, "300", "", inWindow),
		tx(models.TransactionExpense, "75", "Food", time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)),
	}

	s := PeriodSummary(txs, Year, testNow, "EUR")

	assert.Equal(t, "year", s.Period)
	assert.Equal(t, 3, s.TransactionCount)
	assert.True(t, s.TotalIncome.Equal(decimal.NewFromInt(1000)))
	assert.True(t, s.TotalExpenses.Equal(decimal.RequireFromString("250.50")))
	assert.True(t, s.NetAmount.Equal(decimal.RequireFromString("749.50")))
	assert.Equal(t, "EUR", s.Currency)
}

func TestPeriodSummary_Empty(t *testing.T) {
	s := PeriodSummary(nil, Day, testNow, "USD")

	assert.Equal(t, 0, s.TransactionCount)
	assert.True(t, s.NetAmount.IsZero())
}
