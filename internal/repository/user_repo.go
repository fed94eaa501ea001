package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"greenpulse"
)

// UserRepo keeps the full account list under one key, mirroring the
// original dashboard's single "users" record.
type UserRepo struct {
	store KV
}

func NewUserRepo(store KV) *UserRepo {
	return &UserRepo{store: store}
}

var _ Users = (*UserRepo)(nil)

func decodeUsers(raw []byte) ([]greenpulse.User, error) {
	if raw == nil {
		return nil, nil
	}
	var users []greenpulse.User
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, nil // corrupt list reads as empty
	}
	return users, nil
}

// Create inserts a new user. Fails with greenpulse.ErrDuplicateEmail when the
// normalized email is already taken.
func (r *UserRepo) Create(ctx context.Context, u greenpulse.User) error {
	err := r.store.Update(ctx, keyUsers, func(raw []byte) (any, error) {
		users, _ := decodeUsers(raw)
		norm := NormalizeEmail(u.Email)
		for _, existing := range users {
			if NormalizeEmail(existing.Email) == norm {
				return nil, greenpulse.ErrDuplicateEmail
			}
		}
		if users == nil {
			users = []greenpulse.User{}
		}
		return append(users, u), nil
	})
	if err != nil {
		return fmt.Errorf("create user %q: %w", NormalizeEmail(u.Email), err)
	}
	return nil
}

// FindByEmail looks an account up case-insensitively. Returns (nil, nil) if
// absent.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*greenpulse.User, error) {
	var users []greenpulse.User
	if _, err := r.store.Get(ctx, keyUsers, &users); err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	norm := NormalizeEmail(email)
	for i := range users {
		if NormalizeEmail(users[i].Email) == norm {
			u := users[i]
			return &u, nil
		}
	}
	return nil, nil
}

// Update replaces the stored record matching u's current email.
func (r *UserRepo) Update(ctx context.Context, u greenpulse.User) error {
	err := r.store.Update(ctx, keyUsers, func(raw []byte) (any, error) {
		users, _ := decodeUsers(raw)
		norm := NormalizeEmail(u.Email)
		for i := range users {
			if NormalizeEmail(users[i].Email) == norm {
				users[i] = u
				return users, nil
			}
		}
		return nil, greenpulse.ErrNotFound
	})
	if err != nil {
		return fmt.Errorf("update user %q: %w", NormalizeEmail(u.Email), err)
	}
	return nil
}

// RenameEmail moves an account to a new address. Fails with
// greenpulse.ErrDuplicateEmail when newEmail belongs to a different user and
// with greenpulse.ErrNotFound when oldEmail has no record. Session and
// per-email namespace cascades are owned by the profile service.
func (r *UserRepo) RenameEmail(ctx context.Context, oldEmail, newEmail string) error {
	oldNorm := NormalizeEmail(oldEmail)
	newNorm := NormalizeEmail(newEmail)

	err := r.store.Update(ctx, keyUsers, func(raw []byte) (any, error) {
		users, _ := decodeUsers(raw)
		for i := range users {
			if NormalizeEmail(users[i].Email) == newNorm && NormalizeEmail(users[i].Email) != oldNorm {
				return nil, greenpulse.ErrDuplicateEmail
			}
		}
		for i := range users {
			if NormalizeEmail(users[i].Email) == oldNorm {
				users[i].Email = newEmail
				return users, nil
			}
		}
		return nil, greenpulse.ErrNotFound
	})
	if err != nil {
		return fmt.Errorf("rename user %q to %q: %w", oldNorm, newNorm, err)
	}
	return nil
}
