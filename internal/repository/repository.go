// Package repository declares the storage interfaces the service layer
// programs against. The only implementation today is the in-memory one in
// the memory subpackage; the interfaces exist so services can be tested
// against fakes and so a persistent backend could be swapped in later.
package repository

import (
	"context"

	"github.com/sakif/taskdeck/internal/model"
)

// TaskChanges carries the partial-update payload for a task. Nil pointer
// fields are left at the task's current value; Completed has no unset state
// and is always applied.
type TaskChanges struct {
	Name        *string
	Description *string
	Deadline    *string
	Completed   bool
}

// UserRepository is the user directory: registered accounts, unique by
// email, never deleted.
type UserRepository interface {
	// Register adds a user and returns its new id. The duplicate-email
	// check and the insert happen in one critical section; a concurrent
	// Register with the same email sees exactly one winner.
	Register(ctx context.Context, email, password string) (uint32, error)
	// Authenticate returns the id of the user matching both email and
	// password exactly, or apperror.ErrCredentials.
	Authenticate(ctx context.Context, email, password string) (uint32, error)
	// Exists reports whether id belongs to a registered user.
	Exists(ctx context.Context, id uint32) bool
}

// TaskRepository holds one ordered task sequence per user id.
type TaskRepository interface {
	// Create appends a task to the user's sequence and returns its id,
	// which is the sequence length at insert time.
	Create(ctx context.Context, userID uint32, name, description, deadline string) (uint32, error)
	// List returns a snapshot copy of the user's sequence; a user with no
	// tasks gets an empty slice, not an error.
	List(ctx context.Context, userID uint32) ([]model.Task, error)
	// Update merges changes into the identified task and re-sorts the
	// sequence by ascending id. Returns apperror.ErrNotFound if the user
	// has no sequence at all or the task id is absent from it.
	Update(ctx context.Context, userID, taskID uint32, changes TaskChanges) (model.Task, error)
	// Delete removes the task with the given id. A missing sequence is
	// apperror.ErrNotFound; a missing id within an existing sequence is a
	// no-op success.
	Delete(ctx context.Context, userID, taskID uint32) error
}
