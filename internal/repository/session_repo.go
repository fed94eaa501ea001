package repository

import (
	"context"
	"fmt"

	"greenpulse"
)

// SessionRepo persists the single active session.
type SessionRepo struct {
	store KV
}

func NewSessionRepo(store KV) *SessionRepo {
	return &SessionRepo{store: store}
}

var _ Sessions = (*SessionRepo)(nil)

func (r *SessionRepo) Set(ctx context.Context, email string) error {
	if err := r.store.Set(ctx, keySession, greenpulse.Session{Email: email}); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *SessionRepo) Clear(ctx context.Context) error {
	if err := r.store.Delete(ctx, keySession); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Get returns the signed-in email, or ok=false when no session exists.
func (r *SessionRepo) Get(ctx context.Context) (string, bool, error) {
	var s greenpulse.Session
	ok, err := r.store.Get(ctx, keySession, &s)
	if err != nil {
		return "", false, fmt.Errorf("load session: %w", err)
	}
	if !ok || s.Email == "" {
		return "", false, nil
	}
	return s.Email, true, nil
}
