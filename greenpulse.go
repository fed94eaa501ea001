package greenpulse

import (
	"errors"
	"time"
)

// Measurement unit systems a user can pick for the dashboard.
const (
	UnitsMetric   = "metric"
	UnitsImperial = "imperial"
)

// Pump states per plant.
const (
	PumpOn  = "ON"
	PumpOff = "OFF"
)

// Notification types.
const (
	NotifNeedWater = "NEED_WATER"
)

// Shared storage-level errors.
var (
	ErrDuplicateEmail = errors.New("email is already registered")
	ErrNotFound       = errors.New("record not found")
)

// User is one registered account. Plants embedded here are the profile-side
// collection; the monitoring feature keeps its own per-email plant list
// (see repository.PlantsRepo).
type User struct {
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	PasswordHash    string  `json:"password_hash"`
	Photo           string  `json:"photo"` // data-URL or empty
	Country         string  `json:"country"`
	City            string  `json:"city"`
	About           string  `json:"about"`
	Units           string  `json:"units"` // metric | imperial
	Plants          []Plant `json:"plants"`
	SelectedPlantID string  `json:"selectedPlantId,omitempty"`
}

// Plant is a single monitored plant.
type Plant struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Species     string  `json:"species"`
	PlantedOn   string  `json:"plantedOn"`
	Description string  `json:"description"`
	Growth      string  `json:"growth"`
	MinMoisture float64 `json:"minMoisture"`
	Notes       string  `json:"notes"`
	Photo       string  `json:"photo"`
}

// Session is the single currently-authenticated user reference.
type Session struct {
	Email string `json:"email"`
}

// SensorSnapshot is raw sensor data as written by the monitoring feature.
type SensorSnapshot struct {
	MoistPct float64   `json:"moistPct"`
	TempC    float64   `json:"tempC"`
	HumPct   float64   `json:"humPct"`
	Ts       time.Time `json:"ts"`
}

// TelemetryRecord is the dashboard-owned copy of a sensor snapshot,
// republished under stable keys so other features do not depend on the
// monitoring feature's schema.
type TelemetryRecord struct {
	SoilMoisture    float64   `json:"soilMoisture"`
	SoilTemperature float64   `json:"soilTemperature"`
	AirHumidity     float64   `json:"airHumidity"`
	Ts              time.Time `json:"ts"`
}

// HistoryEntry is one timestamped snapshot of sensor readings plus the
// watering-need prediction and the user's watering action.
type HistoryEntry struct {
	ID              string     `json:"id"`
	Ts              time.Time  `json:"ts"`
	SoilTemperature float64    `json:"soil_temperature"`
	SoilMoisture    float64    `json:"soil_moisture"`
	AirHumidity     float64    `json:"air_humidity"`
	AINeedWater     bool       `json:"ai_need_water"`
	AIProbability   float64    `json:"ai_probability"` // 0..1
	UserWatered     bool       `json:"user_watered"`
	UserWateredAt   *time.Time `json:"user_watered_at,omitempty"`
}

// Notification is one append-only reminder entry per user.
type Notification struct {
	ID            string     `json:"id"`
	PlantName     string     `json:"plantName"`
	Ts            time.Time  `json:"ts"`
	Type          string     `json:"type"` // NEED_WATER | other
	UserWatered   bool       `json:"user_watered"`
	UserWateredAt *time.Time `json:"user_watered_at,omitempty"`
}

// NotificationRow is a derived display row; it carries no state of its own.
type NotificationRow struct {
	Plant     string    `json:"plant"`
	Ts        time.Time `json:"ts"`
	Condition string    `json:"condition"` // "Needs watering" | "Healthy"
	Activity  string    `json:"activity"`
}

// Summary is the derived history digest shown on the history page.
type Summary struct {
	Plant          string    `json:"plant"`
	Records        int       `json:"records"`
	LastUpdate     time.Time `json:"last_update"`
	NeedWater      bool      `json:"need_water"`
	ProbabilityPct int       `json:"probability_pct"` // round-half-up of probability*100
}
