package cli

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophledger/internal/client/client"
	"github.com/dmitrijs2005/gophledger/internal/server/analytics"
)

const dateLayout = "2006-01-02"

func summaryMarkdown(s *analytics.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Summary: %s\n\n", s.Period)
	fmt.Fprintf(&b, "Since %s\n\n", s.StartDate.Format(dateLayout))
	b.WriteString("| | Amount |\n|---|---:|\n")
	fmt.Fprintf(&b, "| Income | %s %s |\n", s.TotalIncome.StringFixed(2), s.Currency)
	fmt.Fprintf(&b, "| Expenses | %s %s |\n", s.TotalExpenses.StringFixed(2), s.Currency)
	fmt.Fprintf(&b, "| **Net** | **%s %s** |\n", s.NetAmount.StringFixed(2), s.Currency)
	fmt.Fprintf(&b, "\n%d transactions\n", s.TransactionCount)
	return b.String()
}

func breakdownMarkdown(r *analytics.Breakdown) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Spending by category: %s\n\n", r.Period)
	fmt.Fprintf(&b, "Since %s, total expenses %s\n\n", r.StartDate.Format(dateLayout), r.TotalExpenses.StringFixed(2))

	if len(r.Items) == 0 {
		b.WriteString("_No expenses in this period._\n")
		return b.String()
	}

	b.WriteString("| Category | Amount | Share | Count |\n|---|---:|---:|---:|\n")
	for _, it := range r.Items {
		fmt.Fprintf(&b, "| %s | %s | %.2f%% | %d |\n", escapeCell(it.Category), it.Amount.StringFixed(2), it.Percentage, it.TransactionCount)
	}
	return b.String()
}

var statusMark = map[analytics.BudgetStatus]string{
	analytics.StatusGood:     "ok",
	analytics.StatusWarning:  "warning",
	analytics.StatusExceeded: "**exceeded**",
}

func budgetsMarkdown(r *analytics.BudgetReport) string {
	var b strings.Builder
	b.WriteString("# Budgets\n\n")

	if len(r.Budgets) == 0 {
		b.WriteString("_No active budgets._\n")
		return b.String()
	}

	fmt.Fprintf(&b, "%d total: %d ok, %d warning, %d exceeded\n\n", r.TotalBudgets, r.GoodBudgets, r.WarningBudgets, r.ExceededBudgets)
	b.WriteString("| Budget | Category | Spent | Limit | Remaining | Progress | Status |\n|---|---|---:|---:|---:|---:|---|\n")
	for _, p := range r.Budgets {
		category := p.Category
		if category == "" {
			category = "all"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s %s | %s | %.2f%% | %s |\n",
			escapeCell(p.Name), escapeCell(category),
			p.SpentAmount.StringFixed(2), p.BudgetAmount.StringFixed(2), p.Currency,
			p.RemainingAmount.StringFixed(2), p.ProgressPercentage, statusMark[p.Status])
	}
	return b.String()
}

func exportMarkdown(e *client.Export) string {
	var b strings.Builder
	b.WriteString("# Export ready\n\n")
	fmt.Fprintf(&b, "- Format: %s\n", e.Format)
	fmt.Fprintf(&b, "- Transactions: %d\n", e.TransactionCount)
	fmt.Fprintf(&b, "- Object: `%s`\n", e.Key)
	fmt.Fprintf(&b, "- Link (valid until %s): %s\n", e.ExpiresAt.Format("2006-01-02 15:04 MST"), e.URL)
	return b.String()
}

// escapeCell keeps user-entered names from breaking table rows.
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
