package httpapi

import (
	"context"

	"github.com/dmitrijs2005/gophledger/internal/common"
	"github.com/dmitrijs2005/gophledger/internal/server/analytics"
	"github.com/dmitrijs2005/gophledger/internal/server/currency"
	"github.com/dmitrijs2005/gophledger/internal/server/models"
	"github.com/dmitrijs2005/gophledger/internal/server/services"
	"github.com/dmitrijs2005/gophledger/internal/server/transform"
	"github.com/shopspring/decimal"
)

const goodToken = "good-token"

type fakeAuth struct {
	user *models.User
	err  error
}

func (f *fakeAuth) Resolve(_ context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, common.ErrUnauthenticated
	}
	if f.err != nil {
		return nil, f.err
	}
	if token != goodToken {
		return nil, common.ErrUnauthenticated
	}
	return f.user, nil
}

type fakeUsers struct {
	registered  services.Registration
	loginUser   string
	loginPass   string
	token       string
	err         error
	prefs       *models.Preferences
	prefsUpdate services.PreferencesUpdate
}

func (f *fakeUsers) Register(_ context.Context, in services.Registration) (*models.User, error) {
	f.registered = in
	if f.err != nil {
		return nil, f.err
	}
	return &models.User{ID: "u-new", UserName: in.UserName, Email: in.Email, PasswordHash: "secret", IsActive: true}, nil
}

func (f *fakeUsers) Login(_ context.Context, userName, password string) (string, error) {
	f.loginUser, f.loginPass = userName, password
	return f.token, f.err
}

func (f *fakeUsers) UpdateProfile(_ context.Context, u *models.User, in services.ProfileUpdate) (*models.User, error) {
	c := *u
	if in.FullName != nil {
		c.FullName = *in.FullName
	}
	return &c, f.err
}

func (f *fakeUsers) Preferences(_ context.Context, userID string) (*models.Preferences, error) {
	return f.prefs, f.err
}

func (f *fakeUsers) UpdatePreferences(_ context.Context, userID string, in services.PreferencesUpdate) (*models.Preferences, error) {
	f.prefsUpdate = in
	return f.prefs, f.err
}

type fakeTransactions struct {
	created services.TransactionInput
	filter  models.TransactionFilter
	list    []models.Transaction
	item    *models.Transaction
	userID  string
	id      string
	err     error
}

func (f *fakeTransactions) Create(_ context.Context, userID string, in services.TransactionInput) (*models.Transaction, error) {
	f.userID, f.created = userID, in
	if f.err != nil {
		return nil, f.err
	}
	return &models.Transaction{ID: "t1", UserID: userID, Amount: in.Amount, Type: in.Type, Description: in.Description}, nil
}

func (f *fakeTransactions) Get(_ context.Context, userID, id string) (*models.Transaction, error) {
	f.userID, f.id = userID, id
	return f.item, f.err
}

func (f *fakeTransactions) List(_ context.Context, userID string, filter models.TransactionFilter) ([]models.Transaction, error) {
	f.userID, f.filter = userID, filter
	return f.list, f.err
}

func (f *fakeTransactions) Update(_ context.Context, userID, id string, in services.TransactionPatch) (*models.Transaction, error) {
	f.userID, f.id = userID, id
	return f.item, f.err
}

func (f *fakeTransactions) Delete(_ context.Context, userID, id string) error {
	f.userID, f.id = userID, id
	return f.err
}

type fakeBudgets struct {
	activeOnly bool
	id         string
	patch      services.BudgetPatch
	err        error
}

func (f *fakeBudgets) Create(_ context.Context, userID string, in services.BudgetInput) (*models.Budget, error) {
	return &models.Budget{ID: "b1", UserID: userID, Name: in.Name, Amount: in.Amount}, f.err
}

func (f *fakeBudgets) Get(_ context.Context, userID, id string) (*models.Budget, error) {
	f.id = id
	return &models.Budget{ID: id, UserID: userID}, f.err
}

func (f *fakeBudgets) List(_ context.Context, userID string, activeOnly bool) ([]models.Budget, error) {
	f.activeOnly = activeOnly
	return nil, f.err
}

func (f *fakeBudgets) Update(_ context.Context, userID, id string, in services.BudgetPatch) (*models.Budget, error) {
	f.id = id
	f.patch = in
	return &models.Budget{ID: id, UserID: userID}, f.err
}

func (f *fakeBudgets) Delete(_ context.Context, userID, id string) error {
	f.id = id
	return f.err
}

type fakeAnalytics struct {
	period     string
	operation  string
	batch      transform.Batch
	transformR any
	conversion *currency.Conversion
	err        error
}

func (f *fakeAnalytics) CategoryBreakdown(_ context.Context, userID, period string) (*analytics.Breakdown, error) {
	f.period = period
	return &analytics.Breakdown{Period: period, Items: []analytics.CategoryShare{}}, f.err
}

func (f *fakeAnalytics) PeriodSummary(_ context.Context, userID, period string) (*analytics.Summary, error) {
	f.period = period
	return &analytics.Summary{Period: period, Currency: "EUR"}, f.err
}

func (f *fakeAnalytics) BudgetProgress(_ context.Context, userID string) (*analytics.BudgetReport, error) {
	return &analytics.BudgetReport{Budgets: []analytics.BudgetProgress{}}, f.err
}

func (f *fakeAnalytics) Transform(_ context.Context, operation string, batch transform.Batch) (any, error) {
	f.operation, f.batch = operation, batch
	if f.err != nil {
		return nil, f.err
	}
	return f.transformR, nil
}

func (f *fakeAnalytics) ConvertCurrency(_ context.Context, amount decimal.Decimal, from, to string) (*currency.Conversion, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.conversion, nil
}

type fakeExports struct {
	format string
	err    error
}

func (f *fakeExports) ExportTransactions(_ context.Context, userID, format string) (*services.Export, error) {
	f.format = format
	if f.err != nil {
		return nil, f.err
	}
	return &services.Export{Key: "exports/" + userID + "/x.csv", Format: "csv", URL: "http://minio/x"}, nil
}
