package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophledger/internal/dbx"
	"github.com/dmitrijs2005/gophledger/internal/server/migrations"
	"github.com/dmitrijs2005/gophledger/internal/server/repositories/budgets"
	"github.com/dmitrijs2005/gophledger/internal/server/repositories/preferences"
	"github.com/dmitrijs2005/gophledger/internal/server/repositories/transactions"
	"github.com/dmitrijs2005/gophledger/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// SQLiteRepositoryManager vends the same SQL repositories as the
// PostgreSQL manager, with placeholders rewritten for SQLite.
type SQLiteRepositoryManager struct{}

func NewSQLiteRepositoryManager() *SQLiteRepositoryManager {
	return &SQLiteRepositoryManager{}
}

func (m *SQLiteRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLRepository(dbx.Rebinding(db))
}

func (m *SQLiteRepositoryManager) Preferences(db dbx.DBTX) preferences.Repository {
	return preferences.NewSQLRepository(dbx.Rebinding(db))
}

func (m *SQLiteRepositoryManager) Transactions(db dbx.DBTX) transactions.Repository {
	return transactions.NewSQLRepository(dbx.Rebinding(db))
}

func (m *SQLiteRepositoryManager) Budgets(db dbx.DBTX) budgets.Repository {
	return budgets.NewSQLRepository(dbx.Rebinding(db))
}

// RunMigrations applies the embedded SQLite migrations.
func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, migrations.SQLiteDir)
}
