package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophledger/internal/common"
	"github.com/dmitrijs2005/gophledger/internal/dbx"
	"github.com/dmitrijs2005/gophledger/internal/server/events"
	"github.com/dmitrijs2005/gophledger/internal/server/models"
	"github.com/dmitrijs2005/gophledger/internal/server/repositories/budgets"
	"github.com/dmitrijs2005/gophledger/internal/server/repositories/preferences"
	"github.com/dmitrijs2005/gophledger/internal/server/repositories/transactions"
	"github.com/dmitrijs2005/gophledger/internal/server/repositories/users"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// --- users ---

type fakeUsersRepo struct {
	byID      map[string]*models.User
	createErr error
	getErr    error
	updateErr error
	created   []*models.User
}

func newFakeUsers(us ...*models.User) *fakeUsersRepo {
	f := &fakeUsersRepo{byID: map[string]*models.User{}}
	for _, u := range us {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if u.ID == "" {
		u.ID = "u-new"
	}
	f.byID[u.ID] = u
	f.created = append(f.created, u)
	return u, nil
}

func (f *fakeUsersRepo) find(match func(*models.User) bool) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byID {
		if match(u) {
			c := *u
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetUserByLogin(_ context.Context, login string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.UserName == login })
}

func (f *fakeUsersRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.ID == id })
}

func (f *fakeUsersRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.Email == email })
}

func (f *fakeUsersRepo) Update(_ context.Context, u *models.User) (*models.User, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if _, ok := f.byID[u.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	f.byID[u.ID] = u
	return u, nil
}

// --- preferences ---

type fakePrefsRepo struct {
	byUser    map[string]*models.Preferences
	getErr    error
	createErr error
}

func newFakePrefs(ps ...*models.Preferences) *fakePrefsRepo {
	f := &fakePrefsRepo{byUser: map[string]*models.Preferences{}}
	for _, p := range ps {
		f.byUser[p.UserID] = p
	}
	return f
}

func (f *fakePrefsRepo) Create(_ context.Context, p *models.Preferences) (*models.Preferences, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.byUser[p.UserID] = p
	return p, nil
}

func (f *fakePrefsRepo) GetByUserID(_ context.Context, userID string) (*models.Preferences, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	p, ok := f.byUser[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *p
	return &c, nil
}

func (f *fakePrefsRepo) Update(_ context.Context, p *models.Preferences) (*models.Preferences, error) {
	f.byUser[p.UserID] = p
	return p, nil
}

// --- transactions ---

type fakeTxRepo struct {
	items      map[string]*models.Transaction
	list       []models.Transaction
	listErr    error
	lastFilter models.TransactionFilter
	filters    []models.TransactionFilter
}

func newFakeTxs(ts ...*models.Transaction) *fakeTxRepo {
	f := &fakeTxRepo{items: map[string]*models.Transaction{}}
	for _, t := range ts {
		f.items[t.ID] = t
	}
	return f
}

func (f *fakeTxRepo) Create(_ context.Context, t *models.Transaction) (*models.Transaction, error) {
	if t.ID == "" {
		t.ID = "t-new"
	}
	f.items[t.ID] = t
	return t, nil
}

func (f *fakeTxRepo) GetByID(_ context.Context, userID, id string) (*models.Transaction, error) {
	t, ok := f.items[id]
	if !ok || t.UserID != userID {
		return nil, common.ErrorNotFound
	}
	c := *t
	return &c, nil
}

func (f *fakeTxRepo) List(_ context.Context, _ string, filter models.TransactionFilter) ([]models.Transaction, error) {
	f.lastFilter = filter
	f.filters = append(f.filters, filter)
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.list, nil
}

func (f *fakeTxRepo) Update(_ context.Context, t *models.Transaction) (*models.Transaction, error) {
	f.items[t.ID] = t
	return t, nil
}

func (f *fakeTxRepo) Delete(_ context.Context, userID, id string) error {
	t, ok := f.items[id]
	if !ok || t.UserID != userID {
		return common.ErrorNotFound
	}
	delete(f.items, id)
	return nil
}

// --- budgets ---

type fakeBudgetRepo struct {
	items      map[string]*models.Budget
	list       []models.Budget
	listErr    error
	activeOnly bool
}

func newFakeBudgets(bs ...*models.Budget) *fakeBudgetRepo {
	f := &fakeBudgetRepo{items: map[string]*models.Budget{}}
	for _, b := range bs {
		f.items[b.ID] = b
	}
	return f
}

func (f *fakeBudgetRepo) Create(_ context.Context, b *models.Budget) (*models.Budget, error) {
	if b.ID == "" {
		b.ID = "b-new"
	}
	f.items[b.ID] = b
	return b, nil
}

func (f *fakeBudgetRepo) GetByID(_ context.Context, userID, id string) (*models.Budget, error) {
	b, ok := f.items[id]
	if !ok || b.UserID != userID {
		return nil, common.ErrorNotFound
	}
	c := *b
	return &c, nil
}

func (f *fakeBudgetRepo) List(_ context.Context, _ string, activeOnly bool) ([]models.Budget, error) {
	f.activeOnly = activeOnly
	return f.list, f.listErr
}

func (f *fakeBudgetRepo) Update(_ context.Context, b *models.Budget) (*models.Budget, error) {
	f.items[b.ID] = b
	return b, nil
}

func (f *fakeBudgetRepo) Delete(_ context.Context, userID, id string) error {
	b, ok := f.items[id]
	if !ok || b.UserID != userID {
		return common.ErrorNotFound
	}
	delete(f.items, id)
	return nil
}

// --- manager & publisher ---

type fakeRepoManager struct {
	u *fakeUsersRepo
	p *fakePrefsRepo
	t *fakeTxRepo
	b *fakeBudgetRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error   { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository               { return m.u }
func (m *fakeRepoManager) Preferences(dbx.DBTX) preferences.Repository   { return m.p }
func (m *fakeRepoManager) Transactions(dbx.DBTX) transactions.Repository { return m.t }
func (m *fakeRepoManager) Budgets(dbx.DBTX) budgets.Repository           { return m.b }

type recordingPublisher struct {
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}
