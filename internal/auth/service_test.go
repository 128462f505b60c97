package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/users"
)

func newTestAuth(t *testing.T, ttl time.Duration) (*Service, *users.Service) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	userSvc := users.NewService(store.NewMemory(), logger)
	return NewService(userSvc, "test-signing-secret", ttl, logger), userSvc
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc, userSvc := newTestAuth(t, time.Hour)
	ctx := context.Background()

	created, err := userSvc.Create(ctx, users.CreateInput{
		Email:    "admin@example.com",
		Password: "adminpass",
		Name:     "Admin",
		IsAdmin:  true,
	})
	require.NoError(t, err)

	result, err := svc.Login(ctx, "admin@example.com", "adminpass")
	require.NoError(t, err)
	require.NotEmpty(t, result.AccessToken)
	require.Equal(t, created.ID, result.User.ID)
	require.True(t, result.User.IsAdmin)

	claims, err := svc.Verify(result.AccessToken)
	require.NoError(t, err)
	require.Equal(t, created.ID, claims.Subject)
	require.Equal(t, "admin@example.com", claims.Email)
	require.True(t, claims.IsAdmin)
	require.NotNil(t, claims.ExpiresAt)
}

func TestLoginFailuresAreUniform(t *testing.T) {
	svc, userSvc := newTestAuth(t, time.Hour)
	ctx := context.Background()

	_, err := userSvc.Create(ctx, users.CreateInput{
		Email:    "user@example.com",
		Password: "correct-pass",
	})
	require.NoError(t, err)

	_, wrongPass := svc.Login(ctx, "user@example.com", "wrong-pass")
	_, unknownEmail := svc.Login(ctx, "nobody@example.com", "correct-pass")

	require.ErrorIs(t, wrongPass, ErrInvalidCredentials)
	require.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	// Indistinguishable failure modes: same error text for both.
	require.Equal(t, wrongPass.Error(), unknownEmail.Error())
}

func TestZeroTTLOmitsExpiry(t *testing.T) {
	svc, userSvc := newTestAuth(t, 0)
	ctx := context.Background()

	_, err := userSvc.Create(ctx, users.CreateInput{
		Email:    "user@example.com",
		Password: "correct-pass",
	})
	require.NoError(t, err)

	result, err := svc.Login(ctx, "user@example.com", "correct-pass")
	require.NoError(t, err)

	claims, err := svc.Verify(result.AccessToken)
	require.NoError(t, err)
	require.Nil(t, claims.ExpiresAt)
}

func TestVerifyRejectsForgedToken(t *testing.T) {
	svc, userSvc := newTestAuth(t, time.Hour)
	ctx := context.Background()

	_, err := userSvc.Create(ctx, users.CreateInput{
		Email:    "user@example.com",
		Password: "correct-pass",
	})
	require.NoError(t, err)

	otherSvc := NewService(nil, "different-secret", time.Hour, slog.New(slog.NewTextHandler(io.Discard, nil)))

	result, err := svc.Login(ctx, "user@example.com", "correct-pass")
	require.NoError(t, err)

	_, err = otherSvc.Verify(result.AccessToken)
	require.Error(t, err)

	_, err = svc.Verify("not-a-token")
	require.Error(t, err)
}
