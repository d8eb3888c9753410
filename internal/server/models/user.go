// Package models defines server-side data models persisted in the database.
package models

import (
	"encoding/json"
	"time"
)

// User is an account together with its credential scheme.
//
// Only Version decides which of the legacy derivation fields (PwSalt, PwCost,
// PwAlg, PwFunc, PwKeySize) are meaningful; the rest are stored but never
// surfaced. EncryptedPassword is opaque and never leaves the server.
type User struct {
	UUID              string
	Email             string
	EncryptedPassword string

	Version string
	PwNonce string

	PwSalt    string
	PwCost    int
	PwAlg     string
	PwFunc    string
	PwKeySize int

	KpOrigination string
	KpCreated     int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PublicUser is the externally shareable view of a User.
type PublicUser struct {
	UUID  string `json:"uuid"`
	Email string `json:"email"`
}

// Public returns the shareable view of u.
func (u *User) Public() PublicUser {
	return PublicUser{UUID: u.UUID, Email: u.Email}
}

// MarshalJSON serializes only the public view, so credential material cannot
// leak through an accidental json.Marshal of a User.
func (u User) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.Public())
}
