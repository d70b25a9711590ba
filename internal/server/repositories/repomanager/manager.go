// Package repomanager vends the gateway server's repositories for the
// configured storage backend.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/campuslink/internal/server/models"
	"github.com/dmitrijs2005/campuslink/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/campuslink/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/campuslink/internal/server/repositories/users"
)

// Storage backends accepted by New.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Users() users.Repository
	Sessions() sessions.Repository
	Profiles() profiles.Repository

	// CreateAccount stores account together with its empty profile document.
	// Either both are stored or neither is. A taken email yields
	// common.ErrorConflict.
	CreateAccount(ctx context.Context, account *models.Account) (*models.Account, error)

	Close() error
}
