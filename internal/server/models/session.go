package models

import "time"

// Session is a server-side login session. The secret handed to the client
// references it by ID; deleting the row revokes the secret.
type Session struct {
	ID        string
	UserID    string
	Expires   time.Time
	CreatedAt time.Time
}
