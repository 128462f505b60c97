package weather

import (
	"time"
)

// SourceUnknown is substituted when an ingested record carries no source.
const SourceUnknown = "unknown"

// Observation is a single point-in-time weather reading. Records are
// append-only: they are created by the ingestion endpoint and never
// updated or deleted.
type Observation struct {
	ID     string `json:"id,omitempty"`
	Source string `json:"source"`

	// ObsTimestamp is an optional secondary timestamp reported by the
	// source, kept verbatim. Timestamp is the ordering and filtering key.
	ObsTimestamp string    `json:"obs_timestamp,omitempty"`
	Timestamp    time.Time `json:"timestamp"`

	Temperature         float64 `json:"temperature"`
	Windspeed           float64 `json:"windspeed"`
	Humidity            float64 `json:"humidity"`
	UVIndex             float64 `json:"uvIndex"`
	PrecipitationChance float64 `json:"precipitationChance"`
	HeatIndex           float64 `json:"heatIndex"`

	Condition string `json:"condition,omitempty"`
}

// CreateInput is the ingestion payload for one observation. Numeric fields
// are pointers so that an absent measurement is distinguishable from zero.
type CreateInput struct {
	Source       string `json:"source"`
	ObsTimestamp string `json:"obs_timestamp"`
	Timestamp    string `json:"timestamp" validate:"required"`

	Temperature         *float64 `json:"temperature" validate:"required"`
	Windspeed           *float64 `json:"windspeed" validate:"required"`
	Humidity            *float64 `json:"humidity" validate:"required"`
	UVIndex             *float64 `json:"uvIndex" validate:"required"`
	PrecipitationChance *float64 `json:"precipitationChance" validate:"required"`
	HeatIndex           *float64 `json:"heatIndex" validate:"required"`

	Condition string `json:"condition"`
}

// CurrentConditions is the reshaped view of the most recent observation
// served to the dashboard.
type CurrentConditions struct {
	Temperature         float64   `json:"temperature"`
	Humidity            float64   `json:"humidity"`
	WindSpeed           float64   `json:"windSpeed"`
	UVIndex             float64   `json:"uvIndex"`
	PrecipitationChance float64   `json:"precipitationChance"`
	HeatIndex           float64   `json:"heatIndex"`
	Timestamp           time.Time `json:"timestamp"`
	Source              string    `json:"source"`
	Condition           string    `json:"condition,omitempty"`
}
