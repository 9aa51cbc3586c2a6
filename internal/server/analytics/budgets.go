package analytics

import (
	"sort"

	"github.com/dmitrijs2005/gophledger/internal/server/models"
	"github.com/shopspring/decimal"
)

type BudgetStatus string

const (
	StatusGood     BudgetStatus = "good"
	StatusWarning  BudgetStatus = "warning"
	StatusExceeded BudgetStatus = "exceeded"
)

var (
	warningThreshold  = decimal.NewFromInt(80)
	exceededThreshold = decimal.NewFromInt(100)
)

// BudgetProgress reports how much of one budget has been spent.
type BudgetProgress struct {
	BudgetID           string              `json:"budget_id"`
	Name               string              `json:"budget_name"`
	Category           string              `json:"category,omitempty"`
	Period             models.BudgetPeriod `json:"period"`
	Currency           string              `json:"currency"`
	BudgetAmount       decimal.Decimal     `json:"budget_amount"`
	SpentAmount        decimal.Decimal     `json:"spent_amount"`
	RemainingAmount    decimal.Decimal     `json:"remaining_amount"`
	ProgressPercentage float64             `json:"progress_percentage"`
	Status             BudgetStatus        `json:"status"`
}

// BudgetReport is the progress of every active budget plus status counts.
type BudgetReport struct {
	TotalBudgets    int              `json:"total_budgets"`
	GoodBudgets     int              `json:"active_budgets"`
	WarningBudgets  int              `json:"warning_budgets"`
	ExceededBudgets int              `json:"exceeded_budgets"`
	Budgets         []BudgetProgress `json:"budgets"`
}

// EvaluateBudgets computes progress for each active budget.
//
// Spent is the sum of expense amounts dated within [StartDate, EndDate]
// (EndDate open when nil), restricted to the budget's category when it has
// one. Amounts are summed at face value regardless of currency. Status is
// exceeded at 100% or more, warning at 80% or more, good otherwise; a
// budget with a non-positive target always reports 0% and good. Budgets
// are ordered by progress, highest first, ties in input order.
func EvaluateBudgets(budgets []models.Budget, txs []models.Transaction) BudgetReport {
	type scored struct {
		item     BudgetProgress
		progress decimal.Decimal
	}

	var list []scored
	for _, b := range budgets {
		if !b.IsActive {
			continue
		}

		spent := spentAgainst(b, txs)

		progress := decimal.Zero
		if b.Amount.IsPositive() {
			progress = spent.Div(b.Amount).Mul(hundred)
		}

		pct, _ := progress.Round(2).Float64()
		list = append(list, scored{
			progress: progress,
			item: BudgetProgress{
				BudgetID:           b.ID,
				Name:               b.Name,
				Category:           b.Category,
				Period:             b.Period,
				Currency:           b.Currency,
				BudgetAmount:       b.Amount,
				SpentAmount:        spent,
				RemainingAmount:    b.Amount.Sub(spent),
				ProgressPercentage: pct,
				Status:             statusFor(progress),
			},
		})
	}

	sort.SliceStable(list, func(i, j int) bool {
		return list[i].progress.GreaterThan(list[j].progress)
	})

	report := BudgetReport{Budgets: make([]BudgetProgress, 0, len(list))}
	for _, s := range list {
		report.Budgets = append(report.Budgets, s.item)
		switch s.item.Status {
		case StatusExceeded:
			report.ExceededBudgets++
		case StatusWarning:
			report.WarningBudgets++
		default:
			report.GoodBudgets++
		}
	}
	report.TotalBudgets = len(report.Budgets)

	return report
}

func spentAgainst(b models.Budget, txs []models.Transaction) decimal.Decimal {
	spent := decimal.Zero
	for _, tx := range txs {
		if tx.Type != models.TransactionExpense {
			continue
		}
		if tx.Date.Before(b.StartDate) {
			continue
		}
		if b.EndDate != nil && tx.Date.After(*b.EndDate) {
			continue
		}
		if b.Category != "" && tx.Category != b.Category {
			continue
		}
		spent = spent.Add(tx.Amount)
	}
	return spent
}

func statusFor(progress decimal.Decimal) BudgetStatus {
	switch {
	case progress.GreaterThanOrEqual(exceededThreshold):
		return StatusExceeded
	case progress.GreaterThanOrEqual(warningThreshold):
		return StatusWarning
	default:
		return StatusGood
	}
}
