package repository

import (
	"context"
	"fmt"

	"greenpulse"
)

// TelemetryRepo handles raw sensor snapshots written by the monitoring
// feature and the dashboard-owned telemetry copies derived from them.
type TelemetryRepo struct {
	store KV
}

func NewTelemetryRepo(store KV) *TelemetryRepo {
	return &TelemetryRepo{store: store}
}

var _ Telemetry = (*TelemetryRepo)(nil)

func (r *TelemetryRepo) SaveSensor(ctx context.Context, email, plantID string, s greenpulse.SensorSnapshot) error {
	if err := r.store.Set(ctx, keySensor(email, plantID), s); err != nil {
		return fmt.Errorf("save sensor snapshot for plant %q: %w", plantID, err)
	}
	return nil
}

// LoadSensor returns the latest raw snapshot, or (nil, nil) when the
// monitoring feature has not written one.
func (r *TelemetryRepo) LoadSensor(ctx context.Context, email, plantID string) (*greenpulse.SensorSnapshot, error) {
	var s greenpulse.SensorSnapshot
	ok, err := r.store.Get(ctx, keySensor(email, plantID), &s)
	if err != nil {
		return nil, fmt.Errorf("load sensor snapshot for plant %q: %w", plantID, err)
	}
	if !ok {
		return nil, nil
	}
	return &s, nil
}

// Publish writes the per-(user, plant) current copy and the global last copy.
func (r *TelemetryRepo) Publish(ctx context.Context, email, plantID string, rec greenpulse.TelemetryRecord) error {
	if err := r.store.Set(ctx, keyTelemetry(email, plantID), rec); err != nil {
		return fmt.Errorf("publish telemetry for plant %q: %w", plantID, err)
	}
	if err := r.store.Set(ctx, keyTelemetryLast, rec); err != nil {
		return fmt.Errorf("publish last telemetry: %w", err)
	}
	return nil
}

func (r *TelemetryRepo) Current(ctx context.Context, email, plantID string) (*greenpulse.TelemetryRecord, error) {
	var rec greenpulse.TelemetryRecord
	ok, err := r.store.Get(ctx, keyTelemetry(email, plantID), &rec)
	if err != nil {
		return nil, fmt.Errorf("load telemetry for plant %q: %w", plantID, err)
	}
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// Rekey moves every plant's sensor snapshot and telemetry copy to the new
// email's namespace.
func (r *TelemetryRepo) Rekey(ctx context.Context, oldEmail, newEmail string, plantIDs []string) error {
	for _, id := range plantIDs {
		if err := moveKey(ctx, r.store, keySensor(oldEmail, id), keySensor(newEmail, id)); err != nil {
			return fmt.Errorf("rekey sensor %q -> %q: %w", oldEmail, newEmail, err)
		}
		if err := moveKey(ctx, r.store, keyTelemetry(oldEmail, id), keyTelemetry(newEmail, id)); err != nil {
			return fmt.Errorf("rekey telemetry %q -> %q: %w", oldEmail, newEmail, err)
		}
	}
	return nil
}

func (r *TelemetryRepo) Last(ctx context.Context) (*greenpulse.TelemetryRecord, error) {
	var rec greenpulse.TelemetryRecord
	ok, err := r.store.Get(ctx, keyTelemetryLast, &rec)
	if err != nil {
		return nil, fmt.Errorf("load last telemetry: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &rec, nil
}
