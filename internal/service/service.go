package service

import (
	"context"

	"greenpulse"
	"greenpulse/internal/eventbus"
	"greenpulse/internal/repository"
)

// Authorization gates every other feature: accounts, credentials, the single
// active session, and the bearer tokens carried by API requests.
type Authorization interface {
	SignUp(ctx context.Context, name, email, password string) error
	SignIn(ctx context.Context, email, password string) (string, error)
	SignOut(ctx context.Context) error
	ParseToken(accessToken string) (string, error)
	Current(ctx context.Context) (*greenpulse.User, error)
}

// Profile reads and mutates the signed-in user's record, including email
// renames that cascade to the session and the per-email storage namespaces.
type Profile interface {
	Get(ctx context.Context, email string) (*greenpulse.User, error)
	Update(ctx context.Context, email string, p ProfileParams) (*greenpulse.User, error)
	UpdatePhoto(ctx context.Context, email, photo string) (*greenpulse.User, error)
}

// Plants covers both plant collections: the monitoring-side list with its
// active pointer and pump map, and the list embedded in the user record.
type Plants interface {
	Upsert(ctx context.Context, email string, p greenpulse.Plant) (greenpulse.Plant, error)
	List(ctx context.Context, email string) ([]greenpulse.Plant, error)
	Active(ctx context.Context, email string) (*greenpulse.Plant, error)
	SetActive(ctx context.Context, email, id string) error
	AddEmbedded(ctx context.Context, email string, p PlantParams) (*greenpulse.Plant, error)
	PumpStatus(ctx context.Context, email, plantID string) (string, error)
	SetPumpStatus(ctx context.Context, email, plantID, status string) error
}

// History is the append-only per-plant log of readings and predictions.
type History interface {
	Append(ctx context.Context, email string, in SensorInput, pred Prediction) (*greenpulse.HistoryEntry, error)
	Recent(ctx context.Context, email string, n int) ([]greenpulse.HistoryEntry, error)
	MarkWatered(ctx context.Context, email, entryID string) error
	Summary(ctx context.Context, email string) (*greenpulse.Summary, error)
}

// Telemetry mirrors raw sensor snapshots into dashboard-owned records.
// Run consumes storage-change events until the context is canceled.
type Telemetry interface {
	IngestSensor(ctx context.Context, email, plantID string, s greenpulse.SensorSnapshot) error
	Refresh(ctx context.Context) error
	Run(ctx context.Context)
	Current(ctx context.Context, email string) (*greenpulse.TelemetryRecord, error)
	Last(ctx context.Context) (*greenpulse.TelemetryRecord, error)
}

// Notifications derives display rows from the stored reminder list.
type Notifications interface {
	Rows(ctx context.Context, email string) ([]greenpulse.NotificationRow, error)
}

// Search keeps the last plant search keyword.
type Search interface {
	SaveKeyword(ctx context.Context, keyword string) error
	LastKeyword(ctx context.Context) (string, error)
}

type Service struct {
	Authorization
	Profile
	Plants
	History
	Telemetry
	Notifications
	Search
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, bus *eventbus.Bus, auth AuthConfig) *Service {
	return &Service{
		Authorization: NewAuthService(repos.Users, repos.Sessions, auth),
		Profile:       NewProfileService(repos.Users, repos.Sessions, repos.Plants, repos.History, repos.Telemetry, repos.Notifications),
		Plants:        NewPlantService(repos.Users, repos.Plants),
		History:       NewHistoryService(repos.Users, repos.Plants, repos.History, repos.Notifications),
		Telemetry:     NewTelemetryService(repos.Sessions, repos.Users, repos.Plants, repos.Telemetry, bus),
		Notifications: NewNotificationService(repos.Notifications),
		Search:        NewSearchService(repos.Scratch),
	}
}
