package models

import (
	"encoding/json"
	"time"
)

// ProfileDocument is the stored profile of an account. Data is a JSON object
// holding the user-editable fields; gateway metadata is added on output only.
type ProfileDocument struct {
	UserID    string
	Data      json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}
