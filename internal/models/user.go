package models

import "time"

// User represents a registered account.
// PasswordHash is never serialized into API responses.
type User struct {
	ID           uint64    `json:"id" badgerhold:"key"`
	Username     string    `json:"username" badgerhold:"unique"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	ModifiedAt   time.Time `json:"modified_at"`
}
