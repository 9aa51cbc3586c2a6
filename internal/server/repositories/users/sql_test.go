package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophledger/internal/common"
	"github.com/dmitrijs2005/gophledger/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*SQLRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewSQLRepository(db), mock, db
}

var userColumns = []string{"id", "username", "email", "full_name", "password_hash", "is_active", "created_at", "updated_at"}

const insertUserQ = `(?s)^INSERT\s+INTO\s+users\s*\(id,\s*username,\s*email,\s*full_name,\s*password_hash,\s*is_active,\s*created_at,\s*updated_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6,\s*\$7,\s*\$8\)$`

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertUserQ).
		WithArgs(sqlmock.AnyArg(), "alice", "alice@example.com", nil, "hash", true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	u := &models.User{UserName: "alice", Email: "alice@example.com", PasswordHash: "hash", IsActive: true}
	got, err := repo.Create(context.Background(), u)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID == "" || got.UserName != "alice" || got.CreatedAt.IsZero() {
		t.Fatalf("unexpected user: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertUserQ).
		WithArgs("fixed-id", "alice", "a@b.c", "Alice A", "hash", true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.User{ID: "fixed-id", UserName: "alice", Email: "a@b.c", FullName: "Alice A", PasswordHash: "hash", IsActive: true})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetters_Found(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		where string
		arg   string
		call  func(r *SQLRepository) (*models.User, error)
	}{
		{"by login", "username", "alice", func(r *SQLRepository) (*models.User, error) {
			return r.GetUserByLogin(context.Background(), "alice")
		}},
		{"by id", "id", "u-1", func(r *SQLRepository) (*models.User, error) {
			return r.GetByID(context.Background(), "u-1")
		}},
		{"by email", "email", "alice@example.com", func(r *SQLRepository) (*models.User, error) {
			return r.GetByEmail(context.Background(), "alice@example.com")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, db := newRepoWithMock(t)
			defer db.Close()

			q := `(?s)^SELECT\s+id,\s*username,\s*email,\s*full_name,\s*password_hash,\s*is_active,\s*created_at,\s*updated_at\s+FROM\s+users\s+WHERE\s+` + tt.where + `\s*=\s*\$1$`
			rows := sqlmock.NewRows(userColumns).
				AddRow("u-1", "alice", "alice@example.com", nil, "hash", true, created, created)
			mock.ExpectQuery(q).WithArgs(tt.arg).WillReturnRows(rows)

			got, err := tt.call(repo)
			if err != nil {
				t.Fatalf("getter error: %v", err)
			}
			if got.ID != "u-1" || got.UserName != "alice" || got.FullName != "" || !got.IsActive {
				t.Fatalf("unexpected user: %+v", got)
			}
		})
	}
}

func TestGetUserByLogin_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+users\s+WHERE\s+username`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetUserByLogin(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestGetUserByLogin_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+users\s+WHERE\s+username`).
		WithArgs("alice").
		WillReturnError(errors.New("db err"))

	_, err := repo.GetUserByLogin(context.Background(), "alice")
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestUpdate(t *testing.T) {
	q := `(?s)^UPDATE\s+users\s+SET\s+email\s*=\s*\$2,\s*full_name\s*=\s*\$3,\s*is_active\s*=\s*\$4,\s*updated_at\s*=\s*\$5\s+WHERE\s+id\s*=\s*\$1$`

	t.Run("success", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectExec(q).
			WithArgs("u-1", "new@example.com", "New Name", true, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		u := &models.User{ID: "u-1", Email: "new@example.com", FullName: "New Name", IsActive: true}
		got, err := repo.Update(context.Background(), u)
		if err != nil {
			t.Fatalf("Update error: %v", err)
		}
		if got.UpdatedAt.IsZero() {
			t.Fatalf("UpdatedAt not stamped")
		}
	})

	t.Run("missing row", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectExec(q).WillReturnResult(sqlmock.NewResult(0, 0))

		_, err := repo.Update(context.Background(), &models.User{ID: "nope"})
		if !errors.Is(err, common.ErrorNotFound) {
			t.Fatalf("want common.ErrorNotFound, got %v", err)
		}
	})
}
