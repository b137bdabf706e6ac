package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"taskflow-api/internal/model"
)

const pgUniqueViolation = "23505"

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// FindByEmail matches the email exactly; the email column is the token
// subject and is treated as case-sensitive.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, is_active, is_superuser, created_at, updated_at
		 FROM users WHERE email = $1`, email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.IsActive, &u.IsSuperuser, &u.CreatedAt, &u.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, is_active, is_superuser, created_at, updated_at
		 FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.IsActive, &u.IsSuperuser, &u.CreatedAt, &u.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// Create inserts a user and returns the stored row. Email uniqueness is
// enforced by the users_email_key index; a unique violation surfaces as
// ErrEmailTaken so two concurrent registrations cannot both succeed.
func (r *UserRepository) Create(ctx context.Context, email string, passwordHash string) (model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, is_active, is_superuser)
		 VALUES ($1, $2, TRUE, FALSE)
		 RETURNING id, email, password_hash, is_active, is_superuser, created_at, updated_at`,
		email, passwordHash).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.IsActive, &u.IsSuperuser, &u.CreatedAt, &u.UpdatedAt)

	if isUniqueViolation(err) {
		return model.User{}, model.ErrEmailTaken
	}
	if err != nil {
		return model.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) Update(ctx context.Context, u model.User) (model.User, error) {
	var updated model.User
	err := r.pool.QueryRow(ctx,
		`UPDATE users
		 SET email = $2, password_hash = $3, is_active = $4, is_superuser = $5, updated_at = now()
		 WHERE id = $1
		 RETURNING id, email, password_hash, is_active, is_superuser, created_at, updated_at`,
		u.ID, u.Email, u.PasswordHash, u.IsActive, u.IsSuperuser).
		Scan(&updated.ID, &updated.Email, &updated.PasswordHash, &updated.IsActive,
			&updated.IsSuperuser, &updated.CreatedAt, &updated.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if isUniqueViolation(err) {
		return model.User{}, model.ErrEmailTaken
	}
	if err != nil {
		return model.User{}, fmt.Errorf("update user: %w", err)
	}
	return updated, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
