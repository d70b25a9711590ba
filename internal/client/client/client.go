package client

import (
	"context"

	"github.com/dmitrijs2005/campuslink/internal/client/models"
)

// SessionToken describes a gateway session created by CreateSession.
type SessionToken struct {
	ID     string
	UserID string
	Secret string
}

// Gateway is the Credential Gateway capability set the auth core depends on.
// Implementations hold the current session themselves, the way a hosted
// backend SDK keeps its session cookie.
type Gateway interface {
	// CreateIdentity registers a new account. Fails with ErrConflict or
	// ErrInvalidInput; anything else is an unclassified gateway failure.
	CreateIdentity(ctx context.Context, email, password, displayName string) (models.Identity, error)

	// CreateSession signs in and makes the session current. Fails with
	// ErrUnauthorized on bad credentials.
	CreateSession(ctx context.Context, email, password string) (SessionToken, error)

	// GetCurrentIdentity returns the identity of the current session, or
	// (nil, nil) when there is none.
	GetCurrentIdentity(ctx context.Context) (*models.Identity, error)

	// DeleteSession ends the current session. Best effort.
	DeleteSession(ctx context.Context) error

	// GetProfile returns the profile document of identityID, or (nil, nil)
	// when it does not exist.
	GetProfile(ctx context.Context, identityID string) (*models.Profile, error)

	// UpsertProfile applies a partial update and returns the stored profile.
	// Fails with ErrNotFound when the document does not exist.
	UpsertProfile(ctx context.Context, identityID string, update models.ProfileUpdate) (models.Profile, error)
}

// SecretStore persists the current session secret between runs.
type SecretStore interface {
	LoadSecret(ctx context.Context) (string, error)
	SaveSecret(ctx context.Context, secret string) error
	ClearSecret(ctx context.Context) error
}
