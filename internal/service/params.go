package service

// ProfileParams carries a partial profile update; nil fields keep the stored
// value, matching the dashboard's field-by-field merge.
type ProfileParams struct {
	Name    *string
	Email   *string
	Country *string
	City    *string
	About   *string
	Units   *string // "metric" | "imperial"
}

// PlantParams describes a plant to add to the user record.
type PlantParams struct {
	Name        string
	Species     string
	PlantedOn   string
	Description string
	Growth      string
	MinMoisture *float64
	Notes       string
	Photo       string
}

// SensorInput is one reading handed to the history log.
type SensorInput struct {
	SoilTemperature float64
	SoilMoisture    float64
	AirHumidity     float64
}

// Prediction is the watering-need verdict produced by the external AI
// feature, consumed here as opaque pre-computed fields.
type Prediction struct {
	NeedWater   bool
	Probability float64 // 0..1
}
