package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/taskdeck/internal/apperror"
	"github.com/sakif/taskdeck/internal/repository"
	"github.com/sakif/taskdeck/internal/repository/memory"
)

func strptr(s string) *string { return &s }

// newTestTaskService returns a TaskService plus the ids of two registered
// users, alice (0) and bob (1).
func newTestTaskService(t *testing.T) (*TaskService, uint32, uint32) {
	t.Helper()

	users := memory.NewUserDirectory()
	ctx := context.Background()
	alice, err := users.Register(ctx, "alice@example.com", "pw1")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	bob, err := users.Register(ctx, "bob@example.com", "pw2")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	return NewTaskService(users, memory.NewTaskStore(), testLogger()), alice, bob
}

func TestTaskCreate(t *testing.T) {
	svc, alice, _ := newTestTaskService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, alice, "buy milk", "2%", "2025-01-01T00:00:00Z")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if id != 0 {
		t.Errorf("first task id = %d, want 0", id)
	}

	tasks, err := svc.List(ctx, alice, alice)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(tasks) != 1 || tasks[0].Name != "buy milk" || tasks[0].Completed {
		t.Errorf("List() = %+v", tasks)
	}
}

func TestTaskCreate_UnknownOwner(t *testing.T) {
	svc, _, _ := newTestTaskService(t)

	_, err := svc.Create(context.Background(), 999, "x", "y", "2025-01-01T00:00:00Z")
	if !errors.Is(err, apperror.ErrUnknownUser) {
		t.Fatalf("Create() for unregistered owner error = %v, want ErrUnknownUser", err)
	}
}

func TestTaskCreate_MissingFields(t *testing.T) {
	svc, alice, _ := newTestTaskService(t)
	ctx := context.Background()

	cases := []struct {
		name, description, deadline string
	}{
		{"", "desc", "2025-01-01T00:00:00Z"},
		{"name", "", "2025-01-01T00:00:00Z"},
		{"name", "desc", ""},
		{"name", "desc", "tomorrow"},
		{"name", "desc", "2025-01-01"}, // date only, not a full RFC 3339 date-time
	}
	for _, tc := range cases {
		_, err := svc.Create(ctx, alice, tc.name, tc.description, tc.deadline)
		if !errors.Is(err, apperror.ErrValidation) {
			t.Errorf("Create(%q, %q, %q) error = %v, want ErrValidation", tc.name, tc.description, tc.deadline, err)
		}
	}
}

func TestTaskList_UnknownTarget(t *testing.T) {
	svc, alice, _ := newTestTaskService(t)

	_, err := svc.List(context.Background(), alice, 10000)
	if !errors.Is(err, apperror.ErrUnknownUser) {
		t.Fatalf("List() with unknown target error = %v, want ErrUnknownUser", err)
	}
}

// Asking about another registered user's id must not expose their tasks:
// the listing is always the caller's own collection.
func TestTaskList_NeverExposesOtherUsers(t *testing.T) {
	svc, alice, bob := newTestTaskService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, alice, "alice's secret", "d", "2025-01-01T00:00:00Z"); err != nil {
		t.Fatalf("setup: %v", err)
	}

	tasks, err := svc.List(ctx, bob, alice)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("bob listing with alice's id sees %d tasks, want 0", len(tasks))
	}
}

func TestTaskUpdate_PreservesUnsetFields(t *testing.T) {
	svc, alice, _ := newTestTaskService(t)
	ctx := context.Background()

	id, _ := svc.Create(ctx, alice, "buy milk", "2%", "2025-01-01T00:00:00Z")

	task, err := svc.Update(ctx, alice, id, repository.TaskChanges{Completed: true})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if task.Name != "buy milk" || task.Description != "2%" || task.Deadline != "2025-01-01T00:00:00Z" {
		t.Errorf("Update() disturbed unset fields: %+v", task)
	}
	if !task.Completed {
		t.Error("Update() did not set completed")
	}

	// Confirmed by a fresh listing, not just the returned value.
	tasks, _ := svc.List(ctx, alice, alice)
	if len(tasks) != 1 || !tasks[0].Completed || tasks[0].Name != "buy milk" {
		t.Errorf("List() after update = %+v", tasks)
	}
}

func TestTaskUpdate_BadDeadline(t *testing.T) {
	svc, alice, _ := newTestTaskService(t)
	ctx := context.Background()

	id, _ := svc.Create(ctx, alice, "a", "d", "2025-01-01T00:00:00Z")

	_, err := svc.Update(ctx, alice, id, repository.TaskChanges{Deadline: strptr("next week")})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("Update() with bad deadline error = %v, want ErrValidation", err)
	}
}

func TestTaskUpdate_NotFound(t *testing.T) {
	svc, alice, bob := newTestTaskService(t)
	ctx := context.Background()

	// alice has a collection with task 0; bob has none.
	svc.Create(ctx, alice, "a", "d", "2025-01-01T00:00:00Z")

	if _, err := svc.Update(ctx, alice, 99, repository.TaskChanges{}); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Update() absent id error = %v, want ErrNotFound", err)
	}
	if _, err := svc.Update(ctx, bob, 0, repository.TaskChanges{}); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Update() without collection error = %v, want ErrNotFound", err)
	}
}

// A task created under one user is not mutable through another user's
// identity, whatever task id is supplied.
func TestTaskMutation_OwnershipIsolation(t *testing.T) {
	svc, alice, bob := newTestTaskService(t)
	ctx := context.Background()

	id, _ := svc.Create(ctx, alice, "alice's", "d", "2025-01-01T00:00:00Z")

	if _, err := svc.Update(ctx, bob, id, repository.TaskChanges{Completed: true}); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("bob updating alice's task error = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(ctx, bob, id); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("bob deleting alice's task error = %v, want ErrNotFound", err)
	}

	tasks, _ := svc.List(ctx, alice, alice)
	if len(tasks) != 1 || tasks[0].Completed {
		t.Errorf("alice's task was disturbed: %+v", tasks)
	}
}

func TestTaskDelete(t *testing.T) {
	svc, alice, bob := newTestTaskService(t)
	ctx := context.Background()

	id, _ := svc.Create(ctx, alice, "a", "d", "2025-01-01T00:00:00Z")

	if err := svc.Delete(ctx, alice, id); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	tasks, _ := svc.List(ctx, alice, alice)
	if len(tasks) != 0 {
		t.Errorf("List() after delete = %+v, want empty", tasks)
	}

	// Absent id in an existing collection: success. No collection: not found.
	if err := svc.Delete(ctx, alice, 42); err != nil {
		t.Errorf("Delete() of absent id error = %v, want nil", err)
	}
	if err := svc.Delete(ctx, bob, 0); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Delete() without collection error = %v, want ErrNotFound", err)
	}
}
