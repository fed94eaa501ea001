package repository

import (
	"context"
	"time"

	"greenpulse"
)

// KV is the flat key-value namespace everything persists into.
type KV interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any) error
	Delete(ctx context.Context, key string) error
	Update(ctx context.Context, key string, fn func(raw []byte) (any, error)) error
}

type Users interface {
	Create(ctx context.Context, u greenpulse.User) error
	FindByEmail(ctx context.Context, email string) (*greenpulse.User, error)
	Update(ctx context.Context, u greenpulse.User) error
	RenameEmail(ctx context.Context, oldEmail, newEmail string) error
}

type Sessions interface {
	Set(ctx context.Context, email string) error
	Clear(ctx context.Context) error
	Get(ctx context.Context) (string, bool, error)
}

type Plants interface {
	Upsert(ctx context.Context, email string, p greenpulse.Plant) error
	List(ctx context.Context, email string) ([]greenpulse.Plant, error)
	ActiveID(ctx context.Context, email string) (string, error)
	SetActiveID(ctx context.Context, email, id string) error
	PumpStatus(ctx context.Context, email, plantID string) (string, error)
	SetPumpStatus(ctx context.Context, email, plantID, status string) error
	Rekey(ctx context.Context, oldEmail, newEmail string) error
}

type History interface {
	Append(ctx context.Context, email, plantID string, e greenpulse.HistoryEntry) error
	List(ctx context.Context, email, plantID string) ([]greenpulse.HistoryEntry, error)
	MarkWatered(ctx context.Context, email, plantID, entryID string, at time.Time) (bool, error)
	Rekey(ctx context.Context, oldEmail, newEmail string, plantIDs []string) error
}

type Telemetry interface {
	SaveSensor(ctx context.Context, email, plantID string, s greenpulse.SensorSnapshot) error
	LoadSensor(ctx context.Context, email, plantID string) (*greenpulse.SensorSnapshot, error)
	Publish(ctx context.Context, email, plantID string, rec greenpulse.TelemetryRecord) error
	Current(ctx context.Context, email, plantID string) (*greenpulse.TelemetryRecord, error)
	Last(ctx context.Context) (*greenpulse.TelemetryRecord, error)
	Rekey(ctx context.Context, oldEmail, newEmail string, plantIDs []string) error
}

type Notifications interface {
	Append(ctx context.Context, email string, n greenpulse.Notification) error
	List(ctx context.Context, email string) ([]greenpulse.Notification, error)
	Rekey(ctx context.Context, oldEmail, newEmail string) error
}

type Scratch interface {
	SaveSearch(ctx context.Context, keyword string) error
	LastSearch(ctx context.Context) (string, error)
}

type Repository struct {
	Users         Users
	Sessions      Sessions
	Plants        Plants
	History       History
	Telemetry     Telemetry
	Notifications Notifications
	Scratch       Scratch
}

func NewRepository(store KV) *Repository {
	return &Repository{
		Users:         NewUserRepo(store),
		Sessions:      NewSessionRepo(store),
		Plants:        NewPlantRepo(store),
		History:       NewHistoryRepo(store),
		Telemetry:     NewTelemetryRepo(store),
		Notifications: NewNotificationRepo(store),
		Scratch:       NewScratchRepo(store),
	}
}
