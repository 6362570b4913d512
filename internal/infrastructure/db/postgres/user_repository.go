package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gabchak/weather-auth/internal/core/domain"
	"github.com/gabchak/weather-auth/internal/core/ports"
)

const uniqueViolation = "23505"

// UserRepository implements ports.CredentialStore on PostgreSQL.
type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

var _ ports.CredentialStore = (*UserRepository)(nil)

const selectUser = `
	SELECT id, email, first_name, last_name, password_hash, roles, paid_before_date, created_at, updated_at
	FROM users
`

// Create inserts a user row. The unique index on email_key turns a
// concurrent duplicate registration into ErrDuplicateEmail.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `
		INSERT INTO users (id, email, email_key, first_name, last_name, password_hash, roles, paid_before_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(ctx, query,
		user.ID,
		user.Email,
		domain.NormalizeEmail(user.Email),
		user.FirstName,
		user.LastName,
		user.PasswordHash,
		user.Roles.Names(),
		user.PaidBeforeDate,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return user.Clone(), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, selectUser+` WHERE email_key = $1`, domain.NormalizeEmail(email))
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, selectUser+` WHERE id = $1`, id)
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var (
		u          domain.User
		roles      []string
		paidBefore *time.Time
	)
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&u.ID,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&u.PasswordHash,
		&roles,
		&paidBefore,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	u.Roles = domain.RoleSetFromNames(roles)
	if paidBefore != nil {
		pb := domain.DateOf(*paidBefore)
		u.PaidBeforeDate = &pb
	}
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return &u, nil
}

// UpdateSubscription writes the new paid-before date and roles only if the
// stored date still equals the expected one.
func (r *UserRepository) UpdateSubscription(ctx context.Context, upd ports.SubscriptionUpdate) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `
		UPDATE users
		SET paid_before_date = $3, roles = $4, updated_at = $5
		WHERE id = $1 AND paid_before_date IS NOT DISTINCT FROM $2
	`
	tag, err := r.db.Exec(ctx, query,
		upd.UserID,
		upd.ExpectedPaidBefore,
		upd.PaidBefore,
		upd.Roles.Names(),
		upd.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.missOrConflict(ctx, upd.UserID)
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID, passwordHash string, updatedAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tag, err := r.db.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`,
		userID, passwordHash, updatedAt,
	)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) missOrConflict(ctx context.Context, id string) error {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}
	if !exists {
		return domain.ErrUserNotFound
	}
	return domain.ErrConcurrentUpdate
}

// Ping reports whether the pool can reach the database.
func (r *UserRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
