package repomanager

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/campuslink/internal/common"
	"github.com/dmitrijs2005/campuslink/internal/server/models"
)

var sqlmockNow = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func TestPostgresFactories_ReturnRepos(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	var m RepositoryManager = NewPostgresRepositoryManager(db)

	if m.Users() == nil {
		t.Fatal("Users() nil")
	}
	if m.Sessions() == nil {
		t.Fatal("Sessions() nil")
	}
	if m.Profiles() == nil {
		t.Fatal("Profiles() nil")
	}
}

func TestRunMigrations_UsesSeam(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })

	var gotDir string
	gooseUpContext = func(ctx context.Context, got *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		if got != db {
			t.Fatalf("unexpected db handle")
		}
		gotDir = dir
		return nil
	}

	m := NewPostgresRepositoryManager(db)
	if err := m.RunMigrations(context.Background()); err != nil {
		t.Fatalf("RunMigrations error: %v", err)
	}
	if gotDir != "." {
		t.Fatalf("dir = %q, want \".\"", gotDir)
	}

	want := errors.New("boom")
	gooseUpContext = func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error { return want }
	if err := m.RunMigrations(context.Background()); !errors.Is(err, want) {
		t.Fatalf("want %v, got %v", want, err)
	}
}

func TestNew_SelectsBackend(t *testing.T) {
	m, err := New(context.Background(), StorageMemory, "")
	if err != nil {
		t.Fatalf("New(memory) error: %v", err)
	}
	if _, ok := m.(*MemoryRepositoryManager); !ok {
		t.Fatalf("New(memory) = %T", m)
	}
	if err := m.RunMigrations(context.Background()); err != nil {
		t.Fatalf("memory RunMigrations error: %v", err)
	}

	if _, err := New(context.Background(), "mongo", ""); err == nil {
		t.Fatal("expected error for unknown storage")
	}
}

func TestMemoryManager_SharesRepos(t *testing.T) {
	m := NewMemoryRepositoryManager()
	if m.Users() != m.Users() {
		t.Fatal("Users() must return the same repository")
	}
	if m.Profiles() != m.Profiles() {
		t.Fatal("Profiles() must return the same repository")
	}
}

type brokenProfiles struct{ err error }

func (b brokenProfiles) Create(context.Context, string) error { return b.err }
func (b brokenProfiles) Get(context.Context, string) (*models.ProfileDocument, error) {
	return nil, b.err
}
func (b brokenProfiles) Upsert(context.Context, string, json.RawMessage) (*models.ProfileDocument, error) {
	return nil, b.err
}

func TestMemoryManager_CreateAccount(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryRepositoryManager()

	a, err := m.CreateAccount(ctx, &models.Account{Email: "a@b.com", PasswordHash: []byte("h")})
	if err != nil {
		t.Fatalf("CreateAccount error: %v", err)
	}
	if _, err := m.Profiles().Get(ctx, a.ID); err != nil {
		t.Fatalf("profile not created: %v", err)
	}

	_, err = m.CreateAccount(ctx, &models.Account{Email: "a@b.com"})
	if !errors.Is(err, common.ErrorConflict) {
		t.Fatalf("want conflict, got %v", err)
	}
}

func TestMemoryManager_CreateAccount_ProfileFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryRepositoryManager()
	want := errors.New("db down")
	m.profiles = brokenProfiles{err: want}

	_, err := m.CreateAccount(ctx, &models.Account{Email: "a@b.com"})
	if !errors.Is(err, want) {
		t.Fatalf("want %v, got %v", want, err)
	}
	if _, err := m.Users().GetByEmail(ctx, "a@b.com"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("account left behind: %v", err)
	}
}

func TestPostgresManager_CreateAccount_Commits(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("a@b.com", "Ana", []byte("h")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("u-1", sqlmockNow))
	mock.ExpectExec("INSERT INTO profiles").
		WithArgs("u-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	m := NewPostgresRepositoryManager(db)
	a, err := m.CreateAccount(context.Background(), &models.Account{Email: "a@b.com", Name: "Ana", PasswordHash: []byte("h")})
	if err != nil {
		t.Fatalf("CreateAccount error: %v", err)
	}
	if a.ID != "u-1" {
		t.Fatalf("id = %q", a.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresManager_CreateAccount_ProfileFailureRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("u-1", sqlmockNow))
	mock.ExpectExec("INSERT INTO profiles").
		WillReturnError(errors.New("db down"))
	mock.ExpectRollback()

	m := NewPostgresRepositoryManager(db)
	if _, err := m.CreateAccount(context.Background(), &models.Account{Email: "a@b.com"}); err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
