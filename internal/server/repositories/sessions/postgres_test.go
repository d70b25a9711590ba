package sessions

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dmitrijs2005/campuslink/internal/common"
)

const (
	pruneQ  = `(?s)^\s*DELETE\s+FROM\s+sessions\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+expires_at\s*<\s*now\(\)\s*$`
	insertQ = `(?s)^\s*INSERT\s+INTO\s+sessions\s*\(user_id,\s*expires_at\)\s*VALUES\s*\(\$1,\s*\$2\)\s*RETURNING\s+id,\s*created_at\s*$`
	findQ   = `(?s)^\s*SELECT\s+id,\s*user_id,\s*expires_at,\s*created_at\s+FROM\s+sessions\s+WHERE\s+id\s*=\s*\$1\s*$`
	deleteQ = `(?s)^\s*DELETE\s+FROM\s+sessions\s+WHERE\s+id\s*=\s*\$1\s*$`
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	exp := time.Now().Add(time.Hour)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec(pruneQ).WithArgs("u1").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery(insertQ).WithArgs("u1", exp).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("s1", now))
	mock.ExpectCommit()

	s, err := repo.Create(context.Background(), "u1", exp)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if s.ID != "s1" || s.UserID != "u1" || !s.Expires.Equal(exp) {
		t.Fatalf("unexpected session: %+v", s)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_RollbackOnInsertError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	exp := time.Now().Add(time.Hour)

	mock.ExpectBegin()
	mock.ExpectExec(pruneQ).WithArgs("u1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(insertQ).WithArgs("u1", exp).WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	if _, err := repo.Create(context.Background(), "u1", exp); err == nil {
		t.Fatalf("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFind(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	exp := time.Now().Add(time.Hour)
	mock.ExpectQuery(findQ).WithArgs("s1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "expires_at", "created_at"}).AddRow("s1", "u1", exp, time.Now()))

	s, err := repo.Find(context.Background(), "s1")
	if err != nil {
		t.Fatalf("Find error: %v", err)
	}
	if s.UserID != "u1" {
		t.Fatalf("unexpected session: %+v", s)
	}

	mock.ExpectQuery(findQ).WithArgs("ghost").WillReturnError(sql.ErrNoRows)
	if _, err := repo.Find(context.Background(), "ghost"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(deleteQ).WithArgs("s1").WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.Delete(context.Background(), "s1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}

	mock.ExpectExec(deleteQ).WithArgs("s2").WillReturnError(errors.New("db down"))
	if err := repo.Delete(context.Background(), "s2"); err == nil {
		t.Fatalf("expected error")
	}
}
