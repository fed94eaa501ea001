package repository

import (
	"context"
	"errors"
	"testing"

	"greenpulse"
)

func TestUserRepo_Create_RejectsDuplicateNormalizedEmail(t *testing.T) {
	repo := NewUserRepo(newMemKV())
	ctx := context.Background()

	if err := repo.Create(ctx, greenpulse.User{Name: "Alice", Email: "alice@x.com"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	err := repo.Create(ctx, greenpulse.User{Name: "Other", Email: "  ALICE@X.com "})
	if !errors.Is(err, greenpulse.ErrDuplicateEmail) {
		t.Fatalf("Create() error = %v, want ErrDuplicateEmail", err)
	}
}

func TestUserRepo_FindByEmail_IsCaseInsensitive(t *testing.T) {
	repo := NewUserRepo(newMemKV())
	ctx := context.Background()

	if err := repo.Create(ctx, greenpulse.User{Name: "Alice", Email: "alice@x.com"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	u, err := repo.FindByEmail(ctx, "ALICE@X.com")
	if err != nil {
		t.Fatalf("FindByEmail() error = %v", err)
	}
	if u == nil || u.Name != "Alice" {
		t.Fatalf("FindByEmail() = %+v, want Alice", u)
	}

	missing, err := repo.FindByEmail(ctx, "nobody@x.com")
	if err != nil {
		t.Fatalf("FindByEmail() error = %v", err)
	}
	if missing != nil {
		t.Fatalf("FindByEmail() = %+v, want nil for unknown email", missing)
	}
}

func TestUserRepo_Update_ReplacesStoredRecord(t *testing.T) {
	repo := NewUserRepo(newMemKV())
	ctx := context.Background()

	if err := repo.Create(ctx, greenpulse.User{Name: "Alice", Email: "alice@x.com", Units: greenpulse.UnitsMetric}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := repo.Update(ctx, greenpulse.User{Name: "Alice B", Email: "alice@x.com", Units: greenpulse.UnitsImperial}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	u, err := repo.FindByEmail(ctx, "alice@x.com")
	if err != nil {
		t.Fatalf("FindByEmail() error = %v", err)
	}
	if u.Name != "Alice B" || u.Units != greenpulse.UnitsImperial {
		t.Fatalf("stored user = %+v, want updated fields", u)
	}
}

func TestUserRepo_Update_UnknownUserFails(t *testing.T) {
	repo := NewUserRepo(newMemKV())
	err := repo.Update(context.Background(), greenpulse.User{Email: "ghost@x.com"})
	if !errors.Is(err, greenpulse.ErrNotFound) {
		t.Fatalf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestUserRepo_RenameEmail(t *testing.T) {
	repo := NewUserRepo(newMemKV())
	ctx := context.Background()

	for _, u := range []greenpulse.User{
		{Name: "Alice", Email: "alice@x.com"},
		{Name: "Bob", Email: "bob@x.com"},
	} {
		if err := repo.Create(ctx, u); err != nil {
			t.Fatalf("Create(%s) error = %v", u.Email, err)
		}
	}

	// taken by a different user
	if err := repo.RenameEmail(ctx, "alice@x.com", "BOB@x.com"); !errors.Is(err, greenpulse.ErrDuplicateEmail) {
		t.Fatalf("RenameEmail() error = %v, want ErrDuplicateEmail", err)
	}
	// unknown source
	if err := repo.RenameEmail(ctx, "ghost@x.com", "new@x.com"); !errors.Is(err, greenpulse.ErrNotFound) {
		t.Fatalf("RenameEmail() error = %v, want ErrNotFound", err)
	}

	if err := repo.RenameEmail(ctx, "alice@x.com", "alice@y.com"); err != nil {
		t.Fatalf("RenameEmail() error = %v", err)
	}
	old, _ := repo.FindByEmail(ctx, "alice@x.com")
	if old != nil {
		t.Fatalf("old email still resolves: %+v", old)
	}
	renamed, _ := repo.FindByEmail(ctx, "alice@y.com")
	if renamed == nil || renamed.Name != "Alice" {
		t.Fatalf("new email does not resolve: %+v", renamed)
	}
}

func TestUserRepo_CorruptListReadsAsEmpty(t *testing.T) {
	store := newMemKV()
	repo := NewUserRepo(store)
	ctx := context.Background()

	store.corrupt("users")

	u, err := repo.FindByEmail(ctx, "alice@x.com")
	if err != nil || u != nil {
		t.Fatalf("FindByEmail() = (%+v, %v), want (nil, nil)", u, err)
	}
	// sign-up over a corrupt list starts fresh
	if err := repo.Create(ctx, greenpulse.User{Name: "Alice", Email: "alice@x.com"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
}
