package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"greenpulse"
)

// HistoryRepo is the append-only per-(user, plant) log of sensor snapshots.
// Appends are full read-modify-write cycles serialized by the store.
type HistoryRepo struct {
	store KV
}

func NewHistoryRepo(store KV) *HistoryRepo {
	return &HistoryRepo{store: store}
}

var _ History = (*HistoryRepo)(nil)

func decodeHistory(raw []byte) []greenpulse.HistoryEntry {
	if raw == nil {
		return nil
	}
	var log []greenpulse.HistoryEntry
	if err := json.Unmarshal(raw, &log); err != nil {
		return nil
	}
	return log
}

// Append adds e to the end of the log. Timestamps stay non-decreasing: an
// entry older than the current tail is clamped to the tail's timestamp.
func (r *HistoryRepo) Append(ctx context.Context, email, plantID string, e greenpulse.HistoryEntry) error {
	err := r.store.Update(ctx, keyHistory(email, plantID), func(raw []byte) (any, error) {
		log := decodeHistory(raw)
		if n := len(log); n > 0 && e.Ts.Before(log[n-1].Ts) {
			e.Ts = log[n-1].Ts
		}
		return append(log, e), nil
	})
	if err != nil {
		return fmt.Errorf("append history for plant %q: %w", plantID, err)
	}
	return nil
}

func (r *HistoryRepo) List(ctx context.Context, email, plantID string) ([]greenpulse.HistoryEntry, error) {
	var log []greenpulse.HistoryEntry
	if _, err := r.store.Get(ctx, keyHistory(email, plantID), &log); err != nil {
		return nil, fmt.Errorf("load history for plant %q: %w", plantID, err)
	}
	return log, nil
}

// MarkWatered flags one entry as watered at the given time. Reports whether
// the entry was found.
func (r *HistoryRepo) MarkWatered(ctx context.Context, email, plantID, entryID string, at time.Time) (bool, error) {
	err := r.store.Update(ctx, keyHistory(email, plantID), func(raw []byte) (any, error) {
		log := decodeHistory(raw)
		for i := range log {
			if log[i].ID == entryID {
				at := at.UTC()
				log[i].UserWatered = true
				log[i].UserWateredAt = &at
				return log, nil
			}
		}
		return nil, greenpulse.ErrNotFound
	})
	if err != nil {
		if errors.Is(err, greenpulse.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("mark watered %q: %w", entryID, err)
	}
	return true, nil
}

// Rekey moves every plant's log to the new email's namespace.
func (r *HistoryRepo) Rekey(ctx context.Context, oldEmail, newEmail string, plantIDs []string) error {
	for _, id := range plantIDs {
		if err := moveKey(ctx, r.store, keyHistory(oldEmail, id), keyHistory(newEmail, id)); err != nil {
			return fmt.Errorf("rekey history %q -> %q: %w", oldEmail, newEmail, err)
		}
	}
	return nil
}
