// Package store is the persistence collaborator for the lobby: a minimal
// user-record lookup/insert interface with a goleveldb-backed implementation
// and an in-memory one for tests.
package store

import (
	"errors"
	"time"
)

var (
	// ErrNotFound indicates no record matched the lookup.
	ErrNotFound = errors.New("store: user not found")

	// ErrDuplicate indicates an insert collided with an existing id,
	// username or email.
	ErrDuplicate = errors.New("store: duplicate user record")

	// ErrClosed indicates the store was closed.
	ErrClosed = errors.New("store: closed")
)

// UserRecord is the durable shape of a registered user.
type UserRecord struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UserStore is the lookup/insert dependency consumed by the lobby.
// Connection management and dialects live behind implementations.
type UserStore interface {
	UserExists(id string) (bool, error)
	UserExistsByUsername(username string) (bool, error)
	UserExistsByEmail(email string) (bool, error)
	InsertUser(rec UserRecord) error
	UserByID(id string) (UserRecord, error)
	UserByEmail(email string) (UserRecord, error)
	Close() error
}
