package model

import "time"

// Account is a registered user of the inventory tracker.
// PasswordHash is the only persisted form of the credential.
type Account struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
