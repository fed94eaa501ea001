package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"greenpulse"
)

// NotificationRepo is the per-user append-only reminder list.
type NotificationRepo struct {
	store KV
}

func NewNotificationRepo(store KV) *NotificationRepo {
	return &NotificationRepo{store: store}
}

var _ Notifications = (*NotificationRepo)(nil)

func (r *NotificationRepo) Append(ctx context.Context, email string, n greenpulse.Notification) error {
	err := r.store.Update(ctx, keyNotifications(email), func(raw []byte) (any, error) {
		var list []greenpulse.Notification
		if raw != nil {
			_ = json.Unmarshal(raw, &list)
		}
		return append(list, n), nil
	})
	if err != nil {
		return fmt.Errorf("append notification: %w", err)
	}
	return nil
}

func (r *NotificationRepo) List(ctx context.Context, email string) ([]greenpulse.Notification, error) {
	var list []greenpulse.Notification
	if _, err := r.store.Get(ctx, keyNotifications(email), &list); err != nil {
		return nil, fmt.Errorf("load notifications: %w", err)
	}
	return list, nil
}

func (r *NotificationRepo) Rekey(ctx context.Context, oldEmail, newEmail string) error {
	if err := moveKey(ctx, r.store, keyNotifications(oldEmail), keyNotifications(newEmail)); err != nil {
		return fmt.Errorf("rekey notifications %q -> %q: %w", oldEmail, newEmail, err)
	}
	return nil
}
