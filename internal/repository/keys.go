package repository

import "strings"

// Storage key templates. Per-user keys embed the normalized email so that two
// spellings of one address can never land in different namespaces.
const (
	keyUsers   = "users"
	keySession = "session"
	keySearch  = "searchPlant"

	keyTelemetryLast = "telemetry:last"
)

// NormalizeEmail is the one email canonicalization used for both lookups and
// key derivation.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func keyPlants(email string) string {
	return "plants_" + NormalizeEmail(email)
}

func keyActivePlant(email string) string {
	return "active_plant_" + NormalizeEmail(email)
}

func keyPump(email string) string {
	return "pump_" + NormalizeEmail(email)
}

func keyHistory(email, plantID string) string {
	return "history_" + NormalizeEmail(email) + "_" + plantID
}

func keySensor(email, plantID string) string {
	return "sensor_" + NormalizeEmail(email) + "_" + plantID
}

func keyTelemetry(email, plantID string) string {
	return "telemetry:" + NormalizeEmail(email) + ":" + plantID
}

func keyNotifications(email string) string {
	return "notifications_" + NormalizeEmail(email)
}

// SensorKeyPrefix lets the telemetry mirror recognize change events for
// sensor snapshots written by the monitoring feature.
const SensorKeyPrefix = "sensor_"

// IsSensorKey reports whether a storage key holds a raw sensor snapshot.
func IsSensorKey(key string) bool {
	return strings.HasPrefix(key, SensorKeyPrefix)
}

// IsTelemetryKeyFor reports whether a storage key holds the dashboard
// telemetry mirror for the given account.
func IsTelemetryKeyFor(key, email string) bool {
	return strings.HasPrefix(key, "telemetry:"+NormalizeEmail(email)+":")
}
