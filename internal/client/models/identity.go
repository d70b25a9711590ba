// Package models defines the client-side session data: the gateway identity,
// the extended user profile and the derived session snapshot.
package models

import "time"

// Identity is the authenticated user record owned by the Credential Gateway.
// The client only ever holds a read-only copy for the lifetime of a session.
type Identity struct {
	ID        string
	Email     string
	Name      string
	CreatedAt time.Time
}
