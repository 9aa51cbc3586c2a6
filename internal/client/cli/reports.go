package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type summaryCmd struct {
	app    *App
	period string
	raw    bool
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "income, expenses and net for a period" }
func (*summaryCmd) Usage() string {
	return `finctl summary [-p day|week|month|year] [-raw]

  Shows totals for the period that ends now.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "p", "month", "period (day, week, month, year)")
	f.BoolVar(&c.raw, "raw", false, "print Markdown without rendering")
}

func (c *summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	api, err := c.app.authorized()
	if err != nil {
		return c.app.failSession(err)
	}
	s, err := api.PeriodSummary(ctx, c.period)
	if err != nil {
		return c.app.failSession(err)
	}
	c.app.printMarkdown(summaryMarkdown(s), c.raw)
	return subcommands.ExitSuccess
}

type breakdownCmd struct {
	app    *App
	period string
	raw    bool
}

func (*breakdownCmd) Name() string     { return "breakdown" }
func (*breakdownCmd) Synopsis() string { return "expenses by category for a period" }
func (*breakdownCmd) Usage() string {
	return `finctl breakdown [-p day|week|month|year] [-raw]

  Shows each category's share of expenses, largest first.
`
}

func (c *breakdownCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "p", "month", "period (day, week, month, year)")
	f.BoolVar(&c.raw, "raw", false, "print Markdown without rendering")
}

func (c *breakdownCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	api, err := c.app.authorized()
	if err != nil {
		return c.app.failSession(err)
	}
	r, err := api.CategoryBreakdown(ctx, c.period)
	if err != nil {
		return c.app.failSession(err)
	}
	c.app.printMarkdown(breakdownMarkdown(r), c.raw)
	return subcommands.ExitSuccess
}

type budgetsCmd struct {
	app *App
	raw bool
}

func (*budgetsCmd) Name() string     { return "budgets" }
func (*budgetsCmd) Synopsis() string { return "progress of active budgets" }
func (*budgetsCmd) Usage() string {
	return `finctl budgets [-raw]

  Shows spending against every active budget, most used first.
`
}

func (c *budgetsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.raw, "raw", false, "print Markdown without rendering")
}

func (c *budgetsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	api, err := c.app.authorized()
	if err != nil {
		return c.app.failSession(err)
	}
	r, err := api.BudgetProgress(ctx)
	if err != nil {
		return c.app.failSession(err)
	}
	c.app.printMarkdown(budgetsMarkdown(r), c.raw)
	return subcommands.ExitSuccess
}

type exportCmd struct {
	app    *App
	format string
	output string
	raw    bool
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export all transactions to object storage" }
func (*exportCmd) Usage() string {
	return `finctl export [-f csv|json] [-o <file>] [-raw]

  Uploads the full ledger and prints a time-limited download link.
  With -o the export is also downloaded to <file>.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "f", "csv", "export format (csv, json)")
	f.StringVar(&c.output, "o", "", "download the export to this file")
	f.BoolVar(&c.raw, "raw", false, "print Markdown without rendering")
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a := c.app

	api, err := a.authorized()
	if err != nil {
		return a.failSession(err)
	}
	e, err := api.ExportTransactions(ctx, c.format)
	if err != nil {
		return a.failSession(err)
	}
	a.printMarkdown(exportMarkdown(e), c.raw)

	if c.output == "" {
		return subcommands.ExitSuccess
	}

	f, err := os.Create(c.output)
	if err != nil {
		return a.fail(err)
	}
	n, err := a.download(ctx, e.URL, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(c.output)
		return a.fail(fmt.Errorf("download export: %w", err))
	}

	fmt.Fprintf(a.out, "Saved %d bytes to %s\n", n, c.output)
	return subcommands.ExitSuccess
}
