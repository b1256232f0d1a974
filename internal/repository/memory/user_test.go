package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/sakif/taskdeck/internal/apperror"
	"github.com/sakif/taskdeck/internal/repository"
)

// Compile-time checks that the memory implementations satisfy the
// repository interfaces.
var (
	_ repository.UserRepository = (*UserDirectory)(nil)
	_ repository.TaskRepository = (*TaskStore)(nil)
)

func TestRegister_SequentialIDs(t *testing.T) {
	d := NewUserDirectory()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		id, err := d.Register(ctx, string(rune('a'+i))+"@example.com", "pw")
		if err != nil {
			t.Fatalf("Register() error = %v", err)
		}
		if id != uint32(i) {
			t.Errorf("Register() id = %d, want %d", id, i)
		}
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	d := NewUserDirectory()
	ctx := context.Background()

	if _, err := d.Register(ctx, "alice@example.com", "pw1"); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}

	// The duplicate check ignores the password.
	_, err := d.Register(ctx, "alice@example.com", "pw2")
	if !errors.Is(err, apperror.ErrDuplicate) {
		t.Fatalf("second Register() error = %v, want ErrDuplicate", err)
	}
}

func TestRegister_EmailMatchIsCaseSensitive(t *testing.T) {
	d := NewUserDirectory()
	ctx := context.Background()

	if _, err := d.Register(ctx, "alice@example.com", "pw"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if _, err := d.Register(ctx, "Alice@example.com", "pw"); err != nil {
		t.Fatalf("Register() with different casing error = %v, want success", err)
	}
}

func TestAuthenticate(t *testing.T) {
	d := NewUserDirectory()
	ctx := context.Background()

	id, _ := d.Register(ctx, "alice@example.com", "pw1")

	got, err := d.Authenticate(ctx, "alice@example.com", "pw1")
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if got != id {
		t.Errorf("Authenticate() id = %d, want %d", got, id)
	}

	if _, err := d.Authenticate(ctx, "alice@example.com", "wrong"); !errors.Is(err, apperror.ErrCredentials) {
		t.Errorf("wrong password error = %v, want ErrCredentials", err)
	}
	if _, err := d.Authenticate(ctx, "bob@example.com", "pw1"); !errors.Is(err, apperror.ErrCredentials) {
		t.Errorf("unknown email error = %v, want ErrCredentials", err)
	}
}

func TestExists(t *testing.T) {
	d := NewUserDirectory()
	ctx := context.Background()

	if d.Exists(ctx, 0) {
		t.Error("Exists(0) on empty directory should be false")
	}

	d.Register(ctx, "alice@example.com", "pw")
	if !d.Exists(ctx, 0) {
		t.Error("Exists(0) should be true after one registration")
	}
	if d.Exists(ctx, 1) {
		t.Error("Exists(1) should be false after one registration")
	}
}

// Two concurrent registrations with the same email must see exactly one
// winner: the duplicate check and the append are one critical section.
func TestRegister_ConcurrentSameEmail(t *testing.T) {
	d := NewUserDirectory()
	ctx := context.Background()

	const attempts = 50
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := d.Register(ctx, "race@example.com", "pw")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var wins, dups int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, apperror.ErrDuplicate):
			dups++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	if wins != 1 {
		t.Errorf("%d registrations won, want exactly 1", wins)
	}
	if dups != attempts-1 {
		t.Errorf("%d duplicates, want %d", dups, attempts-1)
	}
}

// Concurrent registrations with distinct emails must produce distinct,
// gap-free ids.
func TestRegister_ConcurrentDistinctEmails(t *testing.T) {
	d := NewUserDirectory()
	ctx := context.Background()

	const n = 50
	var wg sync.WaitGroup
	ids := make(chan uint32, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := d.Register(ctx, string(rune('a'+i%26))+string(rune('a'+i/26))+"@example.com", "pw")
			if err != nil {
				t.Errorf("Register() error = %v", err)
				return
			}
			ids <- id
		}(i)
	}
	wg.Wait()
	close(ids)

	seen := make(map[uint32]bool)
	for id := range ids {
		if seen[id] {
			t.Errorf("id %d handed out twice", id)
		}
		seen[id] = true
		if id >= n {
			t.Errorf("id %d out of range [0, %d)", id, n)
		}
	}
	if len(seen) != n {
		t.Errorf("got %d distinct ids, want %d", len(seen), n)
	}
}
