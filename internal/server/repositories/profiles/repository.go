// Package profiles declares the profile document repository of the gateway
// server and its PostgreSQL and in-memory implementations.
package profiles

import (
	"context"
	"encoding/json"

	"github.com/dmitrijs2005/campuslink/internal/server/models"
)

// Repository stores one JSON profile document per account.
type Repository interface {
	// Create stores an empty document for userID unless one exists.
	Create(ctx context.Context, userID string) error

	// Get returns common.ErrorNotFound when userID has no document.
	Get(ctx context.Context, userID string) (*models.ProfileDocument, error)

	// Upsert merges the top-level keys of patch (a JSON object) into the
	// document of userID, creating it if needed, and returns the result.
	Upsert(ctx context.Context, userID string, patch json.RawMessage) (*models.ProfileDocument, error)
}
