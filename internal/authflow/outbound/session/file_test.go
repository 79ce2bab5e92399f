package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/harvestlink/farmgate/internal/authflow/entity"
	"github.com/harvestlink/farmgate/internal/pkg/instrument"
)

func newTestFile(t *testing.T) *File {
	t.Helper()

	path := filepath.Join(t.TempDir(), "nested", "session.json")
	return NewFile(path, instrument.NewNoop())
}

func TestFileCommitThenCurrent(t *testing.T) {
	ctx := context.Background()
	store := newTestFile(t)

	want := entity.Session{
		Token: "tok-123",
		Role:  entity.RoleFarmer,
		Name:  "Green Farmer",
		Email: "farmer@example.com",
	}
	if err := store.Commit(ctx, want); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	got, err := store.Current(ctx)
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if got != want {
		t.Fatalf("Current() = %+v, want %+v", got, want)
	}
	if !got.Authenticated() {
		t.Fatal("Current() record should report authenticated")
	}
}

func TestFileCurrentWhenMissing(t *testing.T) {
	ctx := context.Background()
	store := newTestFile(t)

	got, err := store.Current(ctx)
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if got.Authenticated() {
		t.Fatalf("Current() = %+v, want zero record", got)
	}
}

func TestFileClearIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newTestFile(t)

	// Clearing before anything was stored must not fail.
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear() on empty store error = %v", err)
	}

	if err := store.Commit(ctx, entity.Session{Token: "t", Role: "r", Name: "n", Email: "e"}); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	got, err := store.Current(ctx)
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if got.Authenticated() {
		t.Fatalf("Current() after Clear = %+v, want zero record", got)
	}
}

func TestFileCommitOverwrites(t *testing.T) {
	ctx := context.Background()
	store := newTestFile(t)

	first := entity.Session{Token: "one", Role: "farmer", Name: "A", Email: "a@x.io"}
	second := entity.Session{Token: "two", Role: "farmer", Name: "B", Email: "b@x.io"}

	if err := store.Commit(ctx, first); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if err := store.Commit(ctx, second); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	got, err := store.Current(ctx)
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if got != second {
		t.Fatalf("Current() = %+v, want %+v", got, second)
	}
}

func TestFileCorruptRecordReadsAsSignedOut(t *testing.T) {
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}

	store := NewFile(path, instrument.NewNoop())
	got, err := store.Current(ctx)
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if got.Authenticated() {
		t.Fatalf("Current() = %+v, want zero record", got)
	}
}
