package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/sakif/taskdeck/internal/apperror"
	"github.com/sakif/taskdeck/internal/model"
	"github.com/sakif/taskdeck/internal/repository"
)

// TaskService gates every task operation on an authenticated, registered
// owner. The bearer middleware has already validated the token and resolved
// ownerID from its uid claim; this layer confirms the id is actually in the
// directory before the store is touched, closing the gap where a valid
// token references a user that was never registered.
//
// Every method is scoped to ownerID and only ownerID: no input can make a
// task operation read or write another user's collection.
type TaskService struct {
	users  repository.UserRepository
	tasks  repository.TaskRepository
	logger *slog.Logger
}

// NewTaskService creates a TaskService with all required dependencies.
func NewTaskService(users repository.UserRepository, tasks repository.TaskRepository, logger *slog.Logger) *TaskService {
	return &TaskService{
		users:  users,
		tasks:  tasks,
		logger: logger,
	}
}

// Create adds a task to the owner's collection and returns its id.
// Name, description and deadline are all required; the deadline must be
// RFC 3339 text so it round-trips through storage unchanged.
func (s *TaskService) Create(ctx context.Context, ownerID uint32, name, description, deadline string) (uint32, error) {
	if !s.users.Exists(ctx, ownerID) {
		return 0, apperror.UnknownUser(ownerID)
	}

	if name == "" {
		return 0, apperror.ValidationFailed("name", "name is required")
	}
	if description == "" {
		return 0, apperror.ValidationFailed("description", "description is required")
	}
	if err := validateDeadline(deadline); err != nil {
		return 0, err
	}

	id, err := s.tasks.Create(ctx, ownerID, name, description, deadline)
	if err != nil {
		return 0, err
	}

	s.logger.Info("task created",
		slog.Uint64("userID", uint64(ownerID)),
		slog.Uint64("taskID", uint64(id)),
	)
	return id, nil
}

// List returns the owner's tasks in id order.
//
// targetID is the userId the caller asked about. It is checked for
// existence (an unrecognized id is an unknown-user error), but the
// collection actually read is always the owner's; asking about someone
// else's id never exposes their tasks.
func (s *TaskService) List(ctx context.Context, ownerID, targetID uint32) ([]model.Task, error) {
	if !s.users.Exists(ctx, ownerID) {
		return nil, apperror.UnknownUser(ownerID)
	}
	if !s.users.Exists(ctx, targetID) {
		return nil, apperror.UnknownUser(targetID)
	}

	return s.tasks.List(ctx, ownerID)
}

// Update merges the given changes into one of the owner's tasks. When a
// deadline is supplied it must again be RFC 3339 text.
func (s *TaskService) Update(ctx context.Context, ownerID, taskID uint32, changes repository.TaskChanges) (model.Task, error) {
	if !s.users.Exists(ctx, ownerID) {
		return model.Task{}, apperror.UnknownUser(ownerID)
	}

	if changes.Deadline != nil {
		if err := validateDeadline(*changes.Deadline); err != nil {
			return model.Task{}, err
		}
	}

	task, err := s.tasks.Update(ctx, ownerID, taskID, changes)
	if err != nil {
		return model.Task{}, err
	}

	s.logger.Info("task updated",
		slog.Uint64("userID", uint64(ownerID)),
		slog.Uint64("taskID", uint64(taskID)),
		slog.Bool("completed", task.Completed),
	)
	return task, nil
}

// Delete removes a task from the owner's collection. Deleting an id the
// owner never had succeeds quietly as long as the owner has a collection.
func (s *TaskService) Delete(ctx context.Context, ownerID, taskID uint32) error {
	if !s.users.Exists(ctx, ownerID) {
		return apperror.UnknownUser(ownerID)
	}

	if err := s.tasks.Delete(ctx, ownerID, taskID); err != nil {
		return err
	}

	s.logger.Info("task deleted",
		slog.Uint64("userID", uint64(ownerID)),
		slog.Uint64("taskID", uint64(taskID)),
	)
	return nil
}

// validateDeadline checks that the deadline is present and parses as
// RFC 3339. The parsed value is discarded; tasks store the original text so
// clients get back exactly what they sent.
func validateDeadline(deadline string) error {
	if deadline == "" {
		return apperror.ValidationFailed("deadline", "deadline is required")
	}
	if _, err := time.Parse(time.RFC3339, deadline); err != nil {
		return apperror.ValidationFailed("deadline", "deadline must be an RFC 3339 date-time")
	}
	return nil
}
