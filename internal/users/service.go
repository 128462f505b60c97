package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Store is the contract the Mongo store (and the in-memory test store) must
// satisfy for accounts.
type Store interface {
	InsertUser(ctx context.Context, u User) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	UpdateUser(ctx context.Context, u User) error
	DeleteUser(ctx context.Context, id string) error
}

// Service implements account CRUD and the default-admin bootstrap.
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

// Create registers a new account. The password is hashed before storage and
// the stored hash never leaves this package in serialized form.
func (s *Service) Create(ctx context.Context, in CreateInput) (User, error) {
	if _, err := s.store.GetUserByEmail(ctx, in.Email); err == nil {
		return User{}, ErrEmailExists
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, fmt.Errorf("check existing email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.store.InsertUser(ctx, User{
		Email:        in.Email,
		PasswordHash: string(hash),
		Name:         in.Name,
		IsAdmin:      in.IsAdmin,
	})
	if err != nil {
		return User{}, fmt.Errorf("insert user: %w", err)
	}

	s.logger.Info("created user", "id", created.ID, "email", created.Email)
	return created, nil
}

// List returns all accounts.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.store.ListUsers(ctx)
}

// Get returns one account by id.
func (s *Service) Get(ctx context.Context, id string) (User, error) {
	return s.store.GetUser(ctx, id)
}

// FindByEmail returns one account by email. Used by the auth service; the
// returned record includes the password hash for verification.
func (s *Service) FindByEmail(ctx context.Context, email string) (User, error) {
	return s.store.GetUserByEmail(ctx, email)
}

// Update applies a partial update. Only a supplied password is rehashed.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (User, error) {
	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		return User{}, err
	}

	if in.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return User{}, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = string(hash)
	}
	if in.Email != nil {
		u.Email = *in.Email
	}
	if in.Name != nil {
		u.Name = *in.Name
	}
	if in.IsAdmin != nil {
		u.IsAdmin = *in.IsAdmin
	}

	if err := s.store.UpdateUser(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

// Delete removes an account.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.DeleteUser(ctx, id)
}

// EnsureDefaultAdmin creates the default admin account when absent. Keyed by
// email, so repeated calls are no-ops.
func (s *Service) EnsureDefaultAdmin(ctx context.Context, email, password, name string) error {
	if email == "" || password == "" {
		s.logger.Warn("default admin credentials not configured; skipping bootstrap")
		return nil
	}

	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		s.logger.Info("default admin already exists", "email", email)
		return nil
	} else if !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("check default admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	created, err := s.store.InsertUser(ctx, User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		IsAdmin:      true,
	})
	if err != nil {
		// A concurrent bootstrap may have won the race on the unique index.
		if errors.Is(err, ErrEmailExists) {
			return nil
		}
		return fmt.Errorf("create default admin: %w", err)
	}

	s.logger.Info("created default admin", "id", created.ID, "email", created.Email)
	return nil
}
