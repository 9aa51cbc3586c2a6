package analytics

import (
	"sort"
	"time"

	"github.com/dmitrijs2005/gophledger/internal/server/models"
	"github.com/shopspring/decimal"
)

// UncategorizedLabel groups expenses that carry no category.
const UncategorizedLabel = "Uncategorized"

const defaultColor = "#BDC3C7"

var categoryColors = map[string]string{
	"Food":           "#FF6B6B",
	"Transportation": "#4ECDC4",
	"Entertainment":  "#45B7D1",
	"Shopping":       "#96CEB4",
	"Bills":          "#FFEAA7",
	"Healthcare":     "#DDA0DD",
	"Education":      "#98D8C8",
	"Travel":         "#F7DC6F",
	"Uncategorized":  defaultColor,
}

var hundred = decimal.NewFromInt(100)

// CategoryColor returns the display colour for category.
func CategoryColor(category string) string {
	if c, ok := categoryColors[category]; ok {
		return c
	}
	return defaultColor
}

// CategoryShare is one category's slice of the expense total.
type CategoryShare struct {
	Category         string          `json:"category"`
	Amount           decimal.Decimal `json:"amount"`
	Percentage       float64         `json:"percentage"`
	TransactionCount int             `json:"transaction_count"`
	Color            string          `json:"color"`
}

// Breakdown is the per-category split of expenses inside a window.
type Breakdown struct {
	Period        string          `json:"period"`
	StartDate     time.Time       `json:"start_date"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	CategoryCount int             `json:"category_count"`
	Items         []CategoryShare `json:"breakdown"`
}

// CategoryBreakdown groups expense transactions dated on or after the
// start of p's window by category. Items are ordered by amount, largest
// first; ties keep first-encounter order. Percentages are rounded to two
// decimals after the split is computed, so their sum may differ from 100
// by rounding error.
func CategoryBreakdown(txs []models.Transaction, p Period, now time.Time) Breakdown {
	start := WindowStart(p, now)

	total := decimal.Zero
	index := map[string]int{}
	items := []CategoryShare{}

	for _, tx := range txs {
		if tx.Type != models.TransactionExpense || tx.Date.Before(start) {
			continue
		}

		category := tx.Category
		if category == "" {
			category = UncategorizedLabel
		}

		i, ok := index[category]
		if !ok {
			i = len(items)
			index[category] = i
			items = append(items, CategoryShare{Category: category, Amount: decimal.Zero, Color: CategoryColor(category)})
		}
		items[i].Amount = items[i].Amount.Add(tx.Amount)
		items[i].TransactionCount++
		total = total.Add(tx.Amount)
	}

	for i := range items {
		items[i].Percentage = percentOf(items[i].Amount, total)
	}

	sort.SliceStable(items, func(a, b int) bool {
		return items[a].Amount.GreaterThan(items[b].Amount)
	})

	return Breakdown{
		Period:        p.String(),
		StartDate:     start,
		TotalExpenses: total,
		CategoryCount: len(items),
		Items:         items,
	}
}

// percentOf returns part/whole*100 rounded to two decimals, or 0 when
// whole is not positive.
func percentOf(part, whole decimal.Decimal) float64 {
	if !whole.IsPositive() {
		return 0
	}
	f, _ := part.Div(whole).Mul(hundred).Round(2).Float64()
	return f
}
