package service

import (
	"context"
	"time"

	"greenpulse"
	"greenpulse/internal/eventbus"
	"greenpulse/internal/repository"
)

// TelemetryService mirrors sensor snapshots written by the monitoring
// feature into dashboard-owned telemetry records: one current copy per
// (user, plant) and one global last copy. The mirror is best-effort and
// never a hard failure; anything missing makes a refresh a silent no-op.
type TelemetryService struct {
	sessions  repository.Sessions
	users     repository.Users
	plants    repository.Plants
	telemetry repository.Telemetry
	bus       *eventbus.Bus
}

func NewTelemetryService(
	sessions repository.Sessions,
	users repository.Users,
	plants repository.Plants,
	telemetry repository.Telemetry,
	bus *eventbus.Bus,
) *TelemetryService {
	return &TelemetryService{
		sessions:  sessions,
		users:     users,
		plants:    plants,
		telemetry: telemetry,
		bus:       bus,
	}
}

// IngestSensor stores a raw snapshot under the sensor key. The store's change
// event then triggers the mirror.
func (s *TelemetryService) IngestSensor(ctx context.Context, email, plantID string, snap greenpulse.SensorSnapshot) error {
	if email == "" {
		return ErrAuthRequired
	}
	if snap.Ts.IsZero() {
		snap.Ts = time.Now().UTC()
	}
	return s.telemetry.SaveSensor(ctx, email, plantID, snap)
}

// activePlantID resolves the plant the mirror republishes for: the
// monitoring-side active pointer first, then the user's selected plant.
func (s *TelemetryService) activePlantID(ctx context.Context, email string) (string, error) {
	id, err := s.plants.ActiveID(ctx, email)
	if err != nil {
		return "", err
	}
	if id != "" {
		return id, nil
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", nil
	}
	return user.SelectedPlantID, nil
}

// Refresh mirrors the session's active plant snapshot once. No session,
// no active plant, or no sensor data all make it a silent no-op.
func (s *TelemetryService) Refresh(ctx context.Context) error {
	email, ok, err := s.sessions.Get(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	plantID, err := s.activePlantID(ctx, email)
	if err != nil {
		return err
	}
	if plantID == "" {
		return nil
	}
	snap, err := s.telemetry.LoadSensor(ctx, email, plantID)
	if err != nil {
		return err
	}
	if snap == nil {
		return nil
	}
	return s.telemetry.Publish(ctx, email, plantID, greenpulse.TelemetryRecord{
		SoilMoisture:    snap.MoistPct,
		SoilTemperature: snap.TempC,
		AirHumidity:     snap.HumPct,
		Ts:              snap.Ts,
	})
}

// Run refreshes once on start and then on every sensor-key change event
// until ctx is canceled. Refresh errors are swallowed; the next event tries
// again.
func (s *TelemetryService) Run(ctx context.Context) {
	events, cancel := s.bus.Subscribe()
	defer cancel()

	_ = s.Refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case e, open := <-events:
			if !open {
				return
			}
			if !repository.IsSensorKey(e.Key) || e.Deleted {
				continue
			}
			_ = s.Refresh(ctx)
		}
	}
}

// Current returns the mirrored record for the user's active plant, or nil.
func (s *TelemetryService) Current(ctx context.Context, email string) (*greenpulse.TelemetryRecord, error) {
	if email == "" {
		return nil, ErrAuthRequired
	}
	plantID, err := s.activePlantID(ctx, email)
	if err != nil {
		return nil, err
	}
	if plantID == "" {
		return nil, nil
	}
	return s.telemetry.Current(ctx, email, plantID)
}

// Last returns the most recently mirrored record across all users, or nil.
func (s *TelemetryService) Last(ctx context.Context) (*greenpulse.TelemetryRecord, error) {
	return s.telemetry.Last(ctx)
}
