package weather

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Store is the contract the Mongo store (and the in-memory test store) must
// satisfy for observations. List results are sorted descending by Timestamp.
type Store interface {
	InsertObservation(ctx context.Context, obs Observation) (string, error)
	ListObservations(ctx context.Context, r Range) ([]Observation, error)
	LatestObservation(ctx context.Context) (Observation, error)
	GetObservation(ctx context.Context, id string) (Observation, error)
}

// Service exposes observation ingestion and the query side of the export
// pipeline.
type Service struct {
	store  Store
	logger *slog.Logger
}

// NewService creates a new Service.
func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
	}
}

// Create validates the ingestion payload and persists a new observation.
// Every accepted call creates a new record, even for a duplicate timestamp.
func (s *Service) Create(ctx context.Context, in CreateInput) (string, error) {
	ts, err := parseTime(in.Timestamp)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimestamp, in.Timestamp)
	}

	source := in.Source
	if source == "" {
		source = SourceUnknown
	}

	obs := Observation{
		Source:              source,
		ObsTimestamp:        in.ObsTimestamp,
		Timestamp:           ts,
		Temperature:         *in.Temperature,
		Windspeed:           *in.Windspeed,
		Humidity:            *in.Humidity,
		UVIndex:             *in.UVIndex,
		PrecipitationChance: *in.PrecipitationChance,
		HeatIndex:           *in.HeatIndex,
		Condition:           in.Condition,
	}

	id, err := s.store.InsertObservation(ctx, obs)
	if err != nil {
		return "", fmt.Errorf("insert observation: %w", err)
	}

	s.logger.Info("saved weather log", "id", id, "source", obs.Source, "timestamp", obs.Timestamp.Format(time.RFC3339))
	return id, nil
}

// List returns observations inside the window, newest first. An empty result
// is an empty slice, not an error.
func (s *Service) List(ctx context.Context, r Range) ([]Observation, error) {
	return s.store.ListObservations(ctx, r)
}

// Latest returns the most recent observation.
func (s *Service) Latest(ctx context.Context) (Observation, error) {
	return s.store.LatestObservation(ctx)
}

// Get returns a single observation by id.
func (s *Service) Get(ctx context.Context, id string) (Observation, error) {
	return s.store.GetObservation(ctx, id)
}

// Current reshapes the latest observation into the dashboard view.
func (s *Service) Current(ctx context.Context) (CurrentConditions, error) {
	latest, err := s.store.LatestObservation(ctx)
	if err != nil {
		return CurrentConditions{}, err
	}

	return CurrentConditions{
		Temperature:         latest.Temperature,
		Humidity:            latest.Humidity,
		WindSpeed:           latest.Windspeed,
		UVIndex:             latest.UVIndex,
		PrecipitationChance: latest.PrecipitationChance,
		HeatIndex:           latest.HeatIndex,
		Timestamp:           latest.Timestamp,
		Source:              latest.Source,
		Condition:           latest.Condition,
	}, nil
}
