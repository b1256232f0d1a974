package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/sakif/taskdeck/internal/apperror"
	"github.com/sakif/taskdeck/internal/model"
	"github.com/sakif/taskdeck/internal/repository"
)

// TaskStore maps a user id to that user's ordered task sequence.
//
// One RWMutex serializes all mutations across all users. Task ids are the
// sequence length at creation time, so an unserialized create racing a
// delete on the same user could hand out a duplicate id; holding the write
// lock across the length read and the append rules that out. List takes the
// read lock and copies, so readers never observe a half-written sequence.
type TaskStore struct {
	mu    sync.RWMutex
	tasks map[uint32][]model.Task
}

// NewTaskStore returns an empty store.
func NewTaskStore() *TaskStore {
	return &TaskStore{tasks: make(map[uint32][]model.Task)}
}

// Create appends a task with id = current sequence length and
// completed = false. A user's first create allocates their sequence.
//
// Note on numbering: ids are not renumbered on delete, so they stay unique
// within a sequence but can become non-contiguous. The one exception is
// deleting the last task and then creating, which reuses the freed id; the
// scheme is kept for compatibility.
func (s *TaskStore) Create(ctx context.Context, userID uint32, name, description, deadline string) (uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq := s.tasks[userID]
	id := uint32(len(seq))
	s.tasks[userID] = append(seq, model.Task{
		ID:          id,
		Name:        name,
		Description: description,
		Deadline:    deadline,
		Completed:   false,
	})
	return id, nil
}

// List returns a snapshot copy of the user's sequence. A user with no tasks
// yet gets an empty slice; that is not an error.
func (s *TaskStore) List(ctx context.Context, userID uint32) ([]model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seq, ok := s.tasks[userID]
	if !ok {
		return []model.Task{}, nil
	}
	return slices.Clone(seq), nil
}

// Update merges changes into the task with the given id and re-sorts the
// sequence by ascending id afterwards. Nil change fields keep the stored
// value; Completed is always applied.
//
// Both a user with no sequence and an absent task id within an existing
// sequence are reported as not-found, never as a panic.
func (s *TaskStore) Update(ctx context.Context, userID, taskID uint32, changes repository.TaskChanges) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq, ok := s.tasks[userID]
	if !ok {
		return model.Task{}, apperror.NotFound("task", taskID)
	}

	i := slices.IndexFunc(seq, func(t model.Task) bool { return t.ID == taskID })
	if i < 0 {
		return model.Task{}, apperror.NotFound("task", taskID)
	}

	task := seq[i]
	if changes.Name != nil {
		task.Name = *changes.Name
	}
	if changes.Description != nil {
		task.Description = *changes.Description
	}
	if changes.Deadline != nil {
		task.Deadline = *changes.Deadline
	}
	task.Completed = changes.Completed

	seq[i] = task
	slices.SortFunc(seq, func(a, b model.Task) int {
		return int(a.ID) - int(b.ID)
	})
	s.tasks[userID] = seq

	return task, nil
}

// Delete removes any task with the given id from the user's sequence.
// A user who never created a task has no sequence and gets not-found; an
// absent id within an existing sequence is a no-op success.
func (s *TaskStore) Delete(ctx context.Context, userID, taskID uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq, ok := s.tasks[userID]
	if !ok {
		return apperror.NotFound("task", taskID)
	}

	s.tasks[userID] = slices.DeleteFunc(seq, func(t model.Task) bool {
		return t.ID == taskID
	})
	return nil
}
