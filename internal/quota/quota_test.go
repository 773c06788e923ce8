package quota

import (
	"context"
	"errors"
	"testing"

	"github.com/inkwell-app/inkwell/internal/db"
)

func setupTestStore(t *testing.T, limit int) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database, limit)
}

func TestConsumeUpToLimit(t *testing.T) {
	store := setupTestStore(t, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := store.Consume(ctx, "alice"); err != nil {
			t.Fatalf("Consume %d: %v", i, err)
		}
	}

	err := store.Consume(ctx, "alice")
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Errorf("expected ErrQuotaExceeded, got %v", err)
	}
}

func TestRemaining(t *testing.T) {
	store := setupTestStore(t, 5)
	ctx := context.Background()

	remaining, err := store.Remaining(ctx, "alice")
	if err != nil {
		t.Fatalf("Remaining: %v", err)
	}
	if remaining != 5 {
		t.Errorf("remaining = %d, want 5", remaining)
	}

	store.Consume(ctx, "alice")
	store.Consume(ctx, "alice")

	remaining, _ = store.Remaining(ctx, "alice")
	if remaining != 3 {
		t.Errorf("remaining = %d, want 3", remaining)
	}
}

func TestQuotaIsPerUser(t *testing.T) {
	store := setupTestStore(t, 1)
	ctx := context.Background()

	if err := store.Consume(ctx, "alice"); err != nil {
		t.Fatalf("Consume alice: %v", err)
	}
	if err := store.Consume(ctx, "bob"); err != nil {
		t.Errorf("bob should have their own quota: %v", err)
	}
	if err := store.Consume(ctx, "alice"); !errors.Is(err, ErrQuotaExceeded) {
		t.Errorf("expected ErrQuotaExceeded for alice, got %v", err)
	}
}

func TestZeroLimitDisablesQuota(t *testing.T) {
	store := setupTestStore(t, 0)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		if err := store.Consume(ctx, "alice"); err != nil {
			t.Fatalf("Consume with disabled quota: %v", err)
		}
	}

	remaining, err := store.Remaining(ctx, "alice")
	if err != nil {
		t.Fatalf("Remaining: %v", err)
	}
	if remaining != -1 {
		t.Errorf("remaining = %d, want -1 (unlimited)", remaining)
	}
}
