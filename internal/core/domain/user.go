package domain

import "time"

// User models a registered account. PublicID is the opaque identifier
// embedded in tokens and never changes after registration.
type User struct {
	PublicID     string    `json:"public_id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
}
