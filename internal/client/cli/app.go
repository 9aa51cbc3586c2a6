package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/dmitrijs2005/gophledger/internal/client/client"
	"github.com/dmitrijs2005/gophledger/internal/client/config"
	"github.com/dmitrijs2005/gophledger/internal/netx"
	"github.com/dmitrijs2005/gophledger/internal/server/analytics"
	"github.com/dmitrijs2005/gophledger/internal/server/models"
	"github.com/google/subcommands"
)

// API is the subset of the HTTP API that finctl uses.
type API interface {
	Register(ctx context.Context, r client.Registration) (*models.User, error)
	Login(ctx context.Context, userName string, password []byte) (string, error)
	PeriodSummary(ctx context.Context, period string) (*analytics.Summary, error)
	CategoryBreakdown(ctx context.Context, period string) (*analytics.Breakdown, error)
	BudgetProgress(ctx context.Context) (*analytics.BudgetReport, error)
	ExportTransactions(ctx context.Context, format string) (*client.Export, error)
}

var errNotLoggedIn = errors.New("not logged in, run 'finctl login' first")

// getSimpleText and getPassword are indirections swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

type App struct {
	config   *config.Config
	api      func(token string) API
	reader   *bufio.Reader
	out      io.Writer
	errOut   io.Writer
	render   func(md string) (string, error)
	download func(ctx context.Context, url string, w io.Writer) (int64, error)
}

func NewApp(c *config.Config) *App {
	base := client.NewAPIClient(c.ServerURL, c.RequestTimeout)

	return &App{
		config: c,
		api: func(token string) API {
			return base.WithToken(token)
		},
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		errOut: os.Stderr,
		render: renderMarkdown,
		download: func(ctx context.Context, url string, w io.Writer) (int64, error) {
			return netx.Download(ctx, base.HTTPClient(), url, w)
		},
	}
}

// Run parses args (without the program name) and executes the chosen
// command.
func (a *App) Run(ctx context.Context, args []string) subcommands.ExitStatus {
	top := flag.NewFlagSet("finctl", flag.ContinueOnError)
	top.SetOutput(a.errOut)

	cdr := subcommands.NewCommander(top, "finctl")
	cdr.Output = a.out
	cdr.Error = a.errOut

	cdr.Register(cdr.HelpCommand(), "")
	cdr.Register(cdr.CommandsCommand(), "")
	cdr.Register(cdr.FlagsCommand(), "")

	cdr.Register(&registerCmd{app: a}, "auth")
	cdr.Register(&loginCmd{app: a}, "auth")
	cdr.Register(&logoutCmd{app: a}, "auth")

	cdr.Register(&summaryCmd{app: a}, "reports")
	cdr.Register(&breakdownCmd{app: a}, "reports")
	cdr.Register(&budgetsCmd{app: a}, "reports")
	cdr.Register(&exportCmd{app: a}, "reports")

	if err := top.Parse(args); err != nil {
		return subcommands.ExitUsageError
	}
	return cdr.Execute(ctx)
}

// authorized returns an API bound to the saved token.
func (a *App) authorized() (API, error) {
	b, err := os.ReadFile(a.config.TokenFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errNotLoggedIn
	}
	if err != nil {
		return nil, fmt.Errorf("read token: %w", err)
	}
	token := strings.TrimSpace(string(b))
	if token == "" {
		return nil, errNotLoggedIn
	}
	return a.api(token), nil
}

func (a *App) fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(a.errOut, "Error: %v\n", err)
	return subcommands.ExitFailure
}

// failSession is fail for commands that use the saved token.
func (a *App) failSession(err error) subcommands.ExitStatus {
	if errors.Is(err, client.ErrUnauthorized) {
		err = fmt.Errorf("%w (session expired? run 'finctl login')", err)
	}
	return a.fail(err)
}

// printMarkdown falls back to the Markdown source when rendering fails.
func (a *App) printMarkdown(md string, raw bool) {
	if raw {
		fmt.Fprint(a.out, md)
		return
	}
	out, err := a.render(md)
	if err != nil {
		fmt.Fprint(a.out, md)
		return
	}
	fmt.Fprint(a.out, out)
}

func renderMarkdown(md string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}
