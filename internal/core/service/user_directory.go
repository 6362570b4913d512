package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gabchak/weather-auth/internal/core/domain"
	"github.com/gabchak/weather-auth/internal/core/ports"
)

// timingEqualizer is hashed once so that lookups of unknown emails spend
// the same hashing work as a wrong password.
const timingEqualizer = "weather-auth:unknown-user"

// UserDirectory implements registration, lookup and credential checks.
type UserDirectory struct {
	store     ports.CredentialStore
	hasher    ports.PasswordHasher
	log       zerolog.Logger
	now       func() time.Time
	dummyHash string
}

func NewUserDirectory(store ports.CredentialStore, hasher ports.PasswordHasher, log zerolog.Logger) *UserDirectory {
	dummy, err := hasher.Hash(timingEqualizer)
	if err != nil {
		log.Warn().Err(err).Msg("could not precompute dummy password hash")
	}
	return &UserDirectory{
		store:     store,
		hasher:    hasher,
		log:       log,
		now:       time.Now,
		dummyHash: dummy,
	}
}

// Register creates an account with the default role set {FREE_USER}.
func (d *UserDirectory) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return nil, domain.InvalidInput("email is required")
	}
	if err := domain.CheckPassword(in.Password); err != nil {
		return nil, err
	}

	if _, err := d.store.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register: lookup: %w", err)
	}

	hash, err := d.hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return nil, err
		}
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	now := d.now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PasswordHash: hash,
		Roles:        domain.NewRoleSet(domain.RoleFreeUser),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := d.store.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("register: create: %w", err)
	}

	d.log.Info().Str("user_id", created.ID).Msg("user registered")
	return created, nil
}

// FindByEmail performs a case-insensitive lookup.
func (d *UserDirectory) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := d.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// FindByID looks up the account a token subject refers to.
func (d *UserDirectory) FindByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := d.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return user, nil
}

// VerifyCredentials returns the user owning email when password matches.
// Unknown emails and wrong passwords yield the same ErrInvalidCredentials.
func (d *UserDirectory) VerifyCredentials(ctx context.Context, email, password string) (*domain.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := d.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			if d.dummyHash != "" {
				d.hasher.Matches(password, d.dummyHash)
			}
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("verify credentials: %w", err)
	}

	if !d.hasher.Matches(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// ChangePassword replaces the password of the account owning email after
// checking the current one.
func (d *UserDirectory) ChangePassword(ctx context.Context, email, current, next string) error {
	if err := domain.CheckPassword(next); err != nil {
		return err
	}

	user, err := d.VerifyCredentials(ctx, email, current)
	if err != nil {
		return err
	}
	if d.hasher.Matches(next, user.PasswordHash) {
		return domain.ErrPasswordUnchanged
	}

	hash, err := d.hasher.Hash(next)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return err
		}
		return fmt.Errorf("change password: hash: %w", err)
	}
	if err := d.store.UpdatePassword(ctx, user.ID, hash, d.now().UTC()); err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	d.log.Info().Str("user_id", user.ID).Msg("password changed")
	return nil
}
