package models

import "time"

// Account is a registered identity. PasswordHash is a bcrypt hash.
type Account struct {
	ID           string
	Email        string
	Name         string
	PasswordHash []byte
	CreatedAt    time.Time
}
