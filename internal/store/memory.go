package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/i474232898/weather-dashboard/internal/users"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// Memory is a concurrency-safe in-memory implementation of weather.Store and
// users.Store. It backs tests and local development without a database.
type Memory struct {
	mu sync.RWMutex

	// observations in arrival order; List sorts a copy.
	observations []weather.Observation
	users        map[string]users.User
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		users: make(map[string]users.User),
	}
}

// InsertObservation appends a new observation and returns its generated id.
func (m *Memory) InsertObservation(_ context.Context, obs weather.Observation) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	obs.ID = uuid.NewString()
	m.observations = append(m.observations, obs)
	return obs.ID, nil
}

// ListObservations returns observations inside the window, newest first.
// Equal timestamps keep arrival order.
func (m *Memory) ListObservations(_ context.Context, r weather.Range) ([]weather.Observation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]weather.Observation, 0)
	for _, obs := range m.observations {
		if r.Contains(obs.Timestamp) {
			result = append(result, obs)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Timestamp.After(result[j].Timestamp)
	})
	return result, nil
}

// LatestObservation returns the observation with the greatest timestamp.
func (m *Memory) LatestObservation(ctx context.Context) (weather.Observation, error) {
	all, err := m.ListObservations(ctx, weather.Range{})
	if err != nil {
		return weather.Observation{}, err
	}
	if len(all) == 0 {
		return weather.Observation{}, weather.ErrNotFound
	}
	return all[0], nil
}

// GetObservation returns one observation by id.
func (m *Memory) GetObservation(_ context.Context, id string) (weather.Observation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, obs := range m.observations {
		if obs.ID == id {
			return obs, nil
		}
	}
	return weather.Observation{}, weather.ErrNotFound
}

// InsertUser stores a new account, enforcing email uniqueness.
func (m *Memory) InsertUser(_ context.Context, u users.User) (users.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if existing.Email == u.Email {
			return users.User{}, users.ErrEmailExists
		}
	}

	u.ID = uuid.NewString()
	m.users[u.ID] = u
	return u, nil
}

// ListUsers returns all accounts.
func (m *Memory) ListUsers(_ context.Context) ([]users.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]users.User, 0, len(m.users))
	for _, u := range m.users {
		result = append(result, u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// GetUser returns one account by id.
func (m *Memory) GetUser(_ context.Context, id string) (users.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return users.User{}, users.ErrNotFound
	}
	return u, nil
}

// GetUserByEmail returns one account by email.
func (m *Memory) GetUserByEmail(_ context.Context, email string) (users.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return users.User{}, users.ErrNotFound
}

// UpdateUser replaces a stored account.
func (m *Memory) UpdateUser(_ context.Context, u users.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[u.ID]; !ok {
		return users.ErrNotFound
	}
	for id, existing := range m.users {
		if id != u.ID && existing.Email == u.Email {
			return users.ErrEmailExists
		}
	}
	m.users[u.ID] = u
	return nil
}

// DeleteUser removes one account by id.
func (m *Memory) DeleteUser(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[id]; !ok {
		return users.ErrNotFound
	}
	delete(m.users, id)
	return nil
}
