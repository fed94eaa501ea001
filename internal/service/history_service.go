package service

import (
	"context"
	"math"
	"time"

	"greenpulse"
	"greenpulse/internal/repository"

	"github.com/google/uuid"
)

// HistoryService appends timestamped snapshots to the per-plant log and
// derives the history summary. A need-water prediction also lands in the
// user's notification list so the reminder table stays in step.
type HistoryService struct {
	users         repository.Users
	plants        repository.Plants
	history       repository.History
	notifications repository.Notifications
}

func NewHistoryService(
	users repository.Users,
	plants repository.Plants,
	history repository.History,
	notifications repository.Notifications,
) *HistoryService {
	return &HistoryService{users: users, plants: plants, history: history, notifications: notifications}
}

// resolvePlantID picks the plant a log call refers to: the user's selected
// plant, falling back to the monitoring-side active pointer. Empty when the
// user has no plant at all.
func (s *HistoryService) resolvePlantID(ctx context.Context, user *greenpulse.User) (string, error) {
	if user.SelectedPlantID != "" {
		return user.SelectedPlantID, nil
	}
	return s.plants.ActiveID(ctx, user.Email)
}

func (s *HistoryService) plantName(ctx context.Context, user *greenpulse.User, plantID string) string {
	for _, p := range user.Plants {
		if p.ID == plantID {
			return p.Name
		}
	}
	plants, err := s.plants.List(ctx, user.Email)
	if err == nil {
		for _, p := range plants {
			if p.ID == plantID {
				return p.Name
			}
		}
	}
	return ""
}

// Append records one reading. Without an account or a selected plant it is a
// silent no-op and returns (nil, nil).
func (s *HistoryService) Append(ctx context.Context, email string, in SensorInput, pred Prediction) (*greenpulse.HistoryEntry, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	plantID, err := s.resolvePlantID(ctx, user)
	if err != nil {
		return nil, err
	}
	if plantID == "" {
		return nil, nil
	}

	entry := greenpulse.HistoryEntry{
		ID:              uuid.NewString(),
		Ts:              time.Now().UTC(),
		SoilTemperature: in.SoilTemperature,
		SoilMoisture:    in.SoilMoisture,
		AirHumidity:     in.AirHumidity,
		AINeedWater:     pred.NeedWater,
		AIProbability:   pred.Probability,
		UserWatered:     false,
	}
	if err := s.history.Append(ctx, user.Email, plantID, entry); err != nil {
		return nil, err
	}

	if pred.NeedWater {
		n := greenpulse.Notification{
			ID:          uuid.NewString(),
			PlantName:   s.plantName(ctx, user, plantID),
			Ts:          entry.Ts,
			Type:        greenpulse.NotifNeedWater,
			UserWatered: false,
		}
		if err := s.notifications.Append(ctx, user.Email, n); err != nil {
			return nil, err
		}
	}
	return &entry, nil
}

// Recent returns the last n entries, newest first. Does not mutate.
func (s *HistoryService) Recent(ctx context.Context, email string, n int) ([]greenpulse.HistoryEntry, error) {
	log, err := s.load(ctx, email)
	if err != nil {
		return nil, err
	}
	if n <= 0 || n > len(log) {
		n = len(log)
	}
	out := make([]greenpulse.HistoryEntry, 0, n)
	for i := len(log) - 1; i >= len(log)-n; i-- {
		out = append(out, log[i])
	}
	return out, nil
}

// MarkWatered flags one history entry as watered now.
func (s *HistoryService) MarkWatered(ctx context.Context, email, entryID string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrAccountNotFound
	}
	plantID, err := s.resolvePlantID(ctx, user)
	if err != nil {
		return err
	}
	if plantID == "" {
		return greenpulse.ErrNotFound
	}
	found, err := s.history.MarkWatered(ctx, user.Email, plantID, entryID, time.Now().UTC())
	if err != nil {
		return err
	}
	if !found {
		return greenpulse.ErrNotFound
	}
	return nil
}

// Summary digests the log for display: record count, last update, and the
// last prediction with its probability as an integer percentage
// (round-half-up). Returns (nil, nil) when the log is empty.
func (s *HistoryService) Summary(ctx context.Context, email string) (*greenpulse.Summary, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	plantID, err := s.resolvePlantID(ctx, user)
	if err != nil {
		return nil, err
	}
	if plantID == "" {
		return nil, nil
	}
	log, err := s.history.List(ctx, user.Email, plantID)
	if err != nil {
		return nil, err
	}
	if len(log) == 0 {
		return nil, nil
	}
	last := log[len(log)-1]
	return &greenpulse.Summary{
		Plant:          s.plantName(ctx, user, plantID),
		Records:        len(log),
		LastUpdate:     last.Ts,
		NeedWater:      last.AINeedWater,
		ProbabilityPct: roundPct(last.AIProbability),
	}, nil
}

func (s *HistoryService) load(ctx context.Context, email string) ([]greenpulse.HistoryEntry, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	plantID, err := s.resolvePlantID(ctx, user)
	if err != nil {
		return nil, err
	}
	if plantID == "" {
		return nil, nil
	}
	return s.history.List(ctx, user.Email, plantID)
}

// roundPct converts a 0..1 probability to an integer percentage, rounding
// halves up.
func roundPct(p float64) int {
	return int(math.Floor(p*100 + 0.5))
}
