// Package repomanager vends repository implementations bound to a database
// handle and runs the schema migrations for the selected dialect.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophledger/internal/dbx"
	"github.com/dmitrijs2005/gophledger/internal/server/repositories/budgets"
	"github.com/dmitrijs2005/gophledger/internal/server/repositories/preferences"
	"github.com/dmitrijs2005/gophledger/internal/server/repositories/transactions"
	"github.com/dmitrijs2005/gophledger/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
)

// SQLitePrefix marks a DSN as a path to an SQLite database file.
const SQLitePrefix = "sqlite://"

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Preferences(db dbx.DBTX) preferences.Repository
	Transactions(db dbx.DBTX) transactions.Repository
	Budgets(db dbx.DBTX) budgets.Repository
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// Open connects to the database named by dsn and returns the matching
// RepositoryManager. DSNs starting with SQLitePrefix select the embedded
// SQLite backend; anything else is handed to the pgx driver.
func Open(dsn string) (*sql.DB, RepositoryManager, error) {
	if path, ok := strings.CutPrefix(dsn, SQLitePrefix); ok {
		db, err := sql.Open("sqlite", sqliteDSN(path))
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		// a single connection serialises writers and keeps :memory: databases alive
		db.SetMaxOpenConns(1)
		return db, NewSQLiteRepositoryManager(), nil
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open postgres: %w", err)
	}
	m, err := NewPostgresRepositoryManager(db)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return db, m, nil
}

func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return "file:" + path + sep + "_time_format=sqlite&_pragma=foreign_keys(1)"
}
