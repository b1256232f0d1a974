// Package memory implements the repository interfaces with mutex-guarded
// in-memory structures. All state is volatile and lost on restart, which is
// the service's contract: there is no persistence layer.
package memory

import (
	"context"
	"sync"

	"github.com/sakif/taskdeck/internal/apperror"
	"github.com/sakif/taskdeck/internal/model"
)

// UserDirectory holds all registered users in insertion order. A user's id
// is its index in the slice, which is why users are append-only: deleting
// would shift every id after it.
//
// Locking discipline: Register takes the write lock for the whole
// duplicate-check-plus-append sequence, so two concurrent registrations
// with the same email cannot both pass the uniqueness check. Authenticate
// and Exists only ever read and share the read lock.
type UserDirectory struct {
	mu    sync.RWMutex
	users []model.User
}

// NewUserDirectory returns an empty directory.
func NewUserDirectory() *UserDirectory {
	return &UserDirectory{}
}

// Register adds a user, allocating id = current directory size.
// The email match is case-sensitive and exact.
func (d *UserDirectory) Register(ctx context.Context, email, password string) (uint32, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, u := range d.users {
		if u.Email == email {
			return 0, apperror.DuplicateEmail(email)
		}
	}

	id := uint32(len(d.users))
	d.users = append(d.users, model.User{
		ID:       id,
		Email:    email,
		Password: password,
	})
	return id, nil
}

// Authenticate scans for a user matching both email and password
// byte-for-byte. No lockout, no throttling.
func (d *UserDirectory) Authenticate(ctx context.Context, email, password string) (uint32, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, u := range d.users {
		if u.Email == email && u.Password == password {
			return u.ID, nil
		}
	}
	return 0, apperror.InvalidCredentials()
}

// Exists reports whether id was ever handed out by Register. Because users
// are append-only, any id below the current size is live.
func (d *UserDirectory) Exists(ctx context.Context, id uint32) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return id < uint32(len(d.users))
}
