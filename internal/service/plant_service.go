package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"greenpulse"
	"greenpulse/internal/repository"
)

var ErrInvalidPumpStatus = errors.New("pump status must be ON or OFF")

// Plant field defaults.
const (
	defaultGrowth      = "Healthy - Growing steadily"
	defaultMinMoisture = 30.0
)

// PlantService manages both plant collections. The monitoring-side list
// (plants_{email}) is the source of truth for telemetry and pump control; the
// list embedded in the user record drives the profile dashboard. The two are
// deliberately not synchronized.
type PlantService struct {
	users  repository.Users
	plants repository.Plants
}

func NewPlantService(users repository.Users, plants repository.Plants) *PlantService {
	return &PlantService{users: users, plants: plants}
}

// newPlantID derives an opaque id from the creation time.
func newPlantID(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 10)
}

func applyPlantDefaults(p *greenpulse.Plant, now time.Time) {
	if p.ID == "" {
		p.ID = newPlantID(now)
	}
	if p.Growth == "" {
		p.Growth = defaultGrowth
	}
	if p.MinMoisture <= 0 {
		p.MinMoisture = defaultMinMoisture
	}
}

// Upsert inserts or replaces a plant in the monitoring-side list and marks it
// active.
func (s *PlantService) Upsert(ctx context.Context, email string, p greenpulse.Plant) (greenpulse.Plant, error) {
	if email == "" {
		return greenpulse.Plant{}, ErrAuthRequired
	}
	applyPlantDefaults(&p, time.Now())
	if err := s.plants.Upsert(ctx, email, p); err != nil {
		return greenpulse.Plant{}, err
	}
	return p, nil
}

func (s *PlantService) List(ctx context.Context, email string) ([]greenpulse.Plant, error) {
	if email == "" {
		return nil, ErrAuthRequired
	}
	return s.plants.List(ctx, email)
}

// Active returns the user's active plant: the explicit pointer when set,
// otherwise the first stored plant, otherwise nil.
func (s *PlantService) Active(ctx context.Context, email string) (*greenpulse.Plant, error) {
	if email == "" {
		return nil, ErrAuthRequired
	}
	id, err := s.plants.ActiveID(ctx, email)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, nil
	}
	plants, err := s.plants.List(ctx, email)
	if err != nil {
		return nil, err
	}
	for i := range plants {
		if plants[i].ID == id {
			p := plants[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (s *PlantService) SetActive(ctx context.Context, email, id string) error {
	if email == "" {
		return ErrAuthRequired
	}
	return s.plants.SetActiveID(ctx, email, id)
}

// AddEmbedded appends a plant to the user record and selects it.
func (s *PlantService) AddEmbedded(ctx context.Context, email string, params PlantParams) (*greenpulse.Plant, error) {
	if email == "" {
		return nil, ErrAuthRequired
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrAccountNotFound
	}

	now := time.Now()
	p := greenpulse.Plant{
		ID:          newPlantID(now),
		Name:        params.Name,
		Species:     params.Species,
		PlantedOn:   params.PlantedOn,
		Description: params.Description,
		Growth:      params.Growth,
		Notes:       params.Notes,
		Photo:       params.Photo,
		MinMoisture: defaultMinMoisture,
	}
	if p.Growth == "" {
		p.Growth = defaultGrowth
	}
	if params.MinMoisture != nil && *params.MinMoisture > 0 {
		p.MinMoisture = *params.MinMoisture
	}

	user.Plants = append(user.Plants, p)
	user.SelectedPlantID = p.ID
	if err := s.users.Update(ctx, *user); err != nil {
		return nil, err
	}
	return &p, nil
}

// PumpStatus reports the pump state for a plant, OFF when never set.
func (s *PlantService) PumpStatus(ctx context.Context, email, plantID string) (string, error) {
	if email == "" {
		return "", ErrAuthRequired
	}
	return s.plants.PumpStatus(ctx, email, plantID)
}

func (s *PlantService) SetPumpStatus(ctx context.Context, email, plantID, status string) error {
	if email == "" {
		return ErrAuthRequired
	}
	if status != greenpulse.PumpOn && status != greenpulse.PumpOff {
		return ErrInvalidPumpStatus
	}
	return s.plants.SetPumpStatus(ctx, email, plantID, status)
}
