package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"greenpulse"
)

// PlantRepo is the monitoring-side plant collection, kept per user under
// plants_{email} with its own active-plant pointer and pump map. It is a
// separate collection from the plant list embedded in the user record.
type PlantRepo struct {
	store KV
}

func NewPlantRepo(store KV) *PlantRepo {
	return &PlantRepo{store: store}
}

var _ Plants = (*PlantRepo)(nil)

func decodePlants(raw []byte) []greenpulse.Plant {
	if raw == nil {
		return nil
	}
	var plants []greenpulse.Plant
	if err := json.Unmarshal(raw, &plants); err != nil {
		return nil
	}
	return plants
}

// Upsert inserts or replaces a plant by id and marks it active.
func (r *PlantRepo) Upsert(ctx context.Context, email string, p greenpulse.Plant) error {
	err := r.store.Update(ctx, keyPlants(email), func(raw []byte) (any, error) {
		plants := decodePlants(raw)
		for i := range plants {
			if plants[i].ID == p.ID {
				plants[i] = p
				return plants, nil
			}
		}
		return append(plants, p), nil
	})
	if err != nil {
		return fmt.Errorf("upsert plant %q: %w", p.ID, err)
	}
	if err := r.store.Set(ctx, keyActivePlant(email), p.ID); err != nil {
		return fmt.Errorf("mark plant %q active: %w", p.ID, err)
	}
	return nil
}

func (r *PlantRepo) List(ctx context.Context, email string) ([]greenpulse.Plant, error) {
	var plants []greenpulse.Plant
	if _, err := r.store.Get(ctx, keyPlants(email), &plants); err != nil {
		return nil, fmt.Errorf("load plants: %w", err)
	}
	return plants, nil
}

// ActiveID returns the explicit active pointer, falling back to the first
// stored plant. Empty when the user has no plants.
func (r *PlantRepo) ActiveID(ctx context.Context, email string) (string, error) {
	var id string
	ok, err := r.store.Get(ctx, keyActivePlant(email), &id)
	if err != nil {
		return "", fmt.Errorf("load active plant: %w", err)
	}
	if ok && id != "" {
		return id, nil
	}
	plants, err := r.List(ctx, email)
	if err != nil {
		return "", err
	}
	if len(plants) == 0 {
		return "", nil
	}
	return plants[0].ID, nil
}

// SetActiveID points the active-plant pointer at an existing plant.
func (r *PlantRepo) SetActiveID(ctx context.Context, email, id string) error {
	plants, err := r.List(ctx, email)
	if err != nil {
		return err
	}
	for i := range plants {
		if plants[i].ID == id {
			if err := r.store.Set(ctx, keyActivePlant(email), id); err != nil {
				return fmt.Errorf("set active plant %q: %w", id, err)
			}
			return nil
		}
	}
	return fmt.Errorf("set active plant %q: %w", id, greenpulse.ErrNotFound)
}

// PumpStatus returns the pump state for a plant, OFF when never set.
func (r *PlantRepo) PumpStatus(ctx context.Context, email, plantID string) (string, error) {
	var pumps map[string]string
	if _, err := r.store.Get(ctx, keyPump(email), &pumps); err != nil {
		return "", fmt.Errorf("load pump map: %w", err)
	}
	if status, ok := pumps[plantID]; ok && status != "" {
		return status, nil
	}
	return greenpulse.PumpOff, nil
}

func (r *PlantRepo) SetPumpStatus(ctx context.Context, email, plantID, status string) error {
	err := r.store.Update(ctx, keyPump(email), func(raw []byte) (any, error) {
		pumps := map[string]string{}
		if raw != nil {
			_ = json.Unmarshal(raw, &pumps)
		}
		pumps[plantID] = status
		return pumps, nil
	})
	if err != nil {
		return fmt.Errorf("set pump %q=%s: %w", plantID, status, err)
	}
	return nil
}

// Rekey moves the plant list, active pointer, and pump map from one email's
// namespace to another after an email rename.
func (r *PlantRepo) Rekey(ctx context.Context, oldEmail, newEmail string) error {
	moves := []struct{ from, to string }{
		{keyPlants(oldEmail), keyPlants(newEmail)},
		{keyActivePlant(oldEmail), keyActivePlant(newEmail)},
		{keyPump(oldEmail), keyPump(newEmail)},
	}
	for _, m := range moves {
		if err := moveKey(ctx, r.store, m.from, m.to); err != nil {
			return fmt.Errorf("rekey plants %q -> %q: %w", oldEmail, newEmail, err)
		}
	}
	return nil
}

// moveKey copies the raw value from one key to another and drops the old key.
// Missing source keys are skipped.
func moveKey(ctx context.Context, store KV, from, to string) error {
	if from == to {
		return nil
	}
	var v json.RawMessage
	ok, err := store.Get(ctx, from, &v)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if err := store.Set(ctx, to, v); err != nil {
		return err
	}
	return store.Delete(ctx, from)
}
