// Package sessions declares the login session repository of the gateway
// server and its PostgreSQL and in-memory implementations.
package sessions

import (
	"context"
	"time"

	"github.com/dmitrijs2005/campuslink/internal/server/models"
)

// Repository defines operations for opening, looking up and revoking sessions.
type Repository interface {
	// Create opens a session for userID expiring at expires. Expired
	// sessions of the same user are pruned on the way.
	Create(ctx context.Context, userID string, expires time.Time) (*models.Session, error)

	// Find returns common.ErrorNotFound when the session does not exist.
	Find(ctx context.Context, id string) (*models.Session, error)

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error
}
