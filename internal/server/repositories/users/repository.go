// Package users declares the account repository of the gateway server and
// its PostgreSQL and in-memory implementations.
package users

import (
	"context"

	"github.com/dmitrijs2005/campuslink/internal/server/models"
)

// Repository stores accounts. Emails are compared as given; callers
// normalize them before storing or looking up.
type Repository interface {
	// Create stores a new account and fills in ID and CreatedAt.
	// A taken email yields common.ErrorConflict.
	Create(ctx context.Context, account *models.Account) (*models.Account, error)

	// GetByEmail returns common.ErrorNotFound when no account has email.
	GetByEmail(ctx context.Context, email string) (*models.Account, error)

	// GetByID returns common.ErrorNotFound when id is unknown.
	GetByID(ctx context.Context, id string) (*models.Account, error)
}
