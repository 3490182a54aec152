package models

import "time"

// Identity is the authenticated user as decoded from the credential.
type Identity struct {
	Subject   string
	UserID    ID
	IssuedAt  time.Time
	ExpiresAt time.Time
}
