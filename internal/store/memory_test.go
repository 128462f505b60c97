package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-dashboard/internal/users"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

func obsAt(ts time.Time, temp float64) weather.Observation {
	return weather.Observation{
		Source:      "test",
		Timestamp:   ts,
		Temperature: temp,
	}
}

func TestListObservationsFiltersAndSorts(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	day := func(d int) time.Time {
		return time.Date(2024, 1, d, 12, 0, 0, 0, time.UTC)
	}

	for _, d := range []int{2, 1, 4, 3} {
		_, err := m.InsertObservation(ctx, obsAt(day(d), float64(d)))
		require.NoError(t, err)
	}

	start := day(2)
	end := day(3)
	got, err := m.ListObservations(ctx, weather.Range{Start: &start, End: &end})
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, float64(3), got[0].Temperature)
	require.Equal(t, float64(2), got[1].Temperature)

	// Omitting both bounds returns everything, newest first.
	all, err := m.ListObservations(ctx, weather.Range{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	for i := 1; i < len(all); i++ {
		require.False(t, all[i].Timestamp.After(all[i-1].Timestamp),
			"expected non-increasing timestamps")
	}
}

func TestListObservationsEmptyWindow(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, err := m.InsertObservation(ctx, obsAt(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 1))
	require.NoError(t, err)

	start := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	got, err := m.ListObservations(ctx, weather.Range{Start: &start})
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestLatestObservation(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, err := m.LatestObservation(ctx)
	require.ErrorIs(t, err, weather.ErrNotFound)

	_, err = m.InsertObservation(ctx, obsAt(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 1))
	require.NoError(t, err)
	_, err = m.InsertObservation(ctx, obsAt(time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), 3))
	require.NoError(t, err)
	_, err = m.InsertObservation(ctx, obsAt(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), 2))
	require.NoError(t, err)

	latest, err := m.LatestObservation(ctx)
	require.NoError(t, err)
	require.Equal(t, float64(3), latest.Temperature)
}

func TestGetObservation(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	id, err := m.InsertObservation(ctx, obsAt(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 1))
	require.NoError(t, err)

	got, err := m.GetObservation(ctx, id)
	require.NoError(t, err)
	require.Equal(t, id, got.ID)

	_, err = m.GetObservation(ctx, "missing")
	require.ErrorIs(t, err, weather.ErrNotFound)
}

func TestUserEmailUniqueness(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	first, err := m.InsertUser(ctx, users.User{Email: "a@example.com", PasswordHash: "x"})
	require.NoError(t, err)

	_, err = m.InsertUser(ctx, users.User{Email: "a@example.com", PasswordHash: "y"})
	require.True(t, errors.Is(err, users.ErrEmailExists))

	// The original record is untouched.
	got, err := m.GetUserByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	require.Equal(t, first.ID, got.ID)
	require.Equal(t, "x", got.PasswordHash)
}

func TestUserCRUD(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	u, err := m.InsertUser(ctx, users.User{Email: "a@example.com", PasswordHash: "x", Name: "A"})
	require.NoError(t, err)

	u.Name = "B"
	require.NoError(t, m.UpdateUser(ctx, u))

	got, err := m.GetUser(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "B", got.Name)

	require.NoError(t, m.DeleteUser(ctx, u.ID))
	require.ErrorIs(t, m.DeleteUser(ctx, u.ID), users.ErrNotFound)
	_, err = m.GetUser(ctx, u.ID)
	require.ErrorIs(t, err, users.ErrNotFound)
}
