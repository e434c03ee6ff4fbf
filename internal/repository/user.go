package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/coinboard/coinboard-go/internal/model"
	"github.com/google/uuid"
)

const userColumns = `id, username, email, created_at, updated_at`

// UserRepository handles user persistence operations.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts user, assigning its ID and timestamps.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (id, username, email, password_hash, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`

	id := uuid.NewString()
	ts := now()
	_, err := r.db.ExecContext(ctx, query, id, user.Username, user.Email, user.PasswordHash, ts, ts)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateEmail
		}
		if isDataTooLongError(err) {
			return ErrFieldTooLong
		}
		return wrapErr("create user", err)
	}

	user.ID = id
	user.CreatedAt = ts
	user.UpdatedAt = ts
	return nil
}

// ExistsByEmail reports whether a user with email is already registered.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		return false, wrapErr("user exists", err)
	}
	return exists, nil
}

// GetByEmail retrieves a user by email. The password hash column is read
// only when includePasswordHash is set.
func (r *UserRepository) GetByEmail(ctx context.Context, email string, includePasswordHash bool) (*model.User, error) {
	columns := userColumns
	if includePasswordHash {
		columns += `, password_hash`
	}
	query := `SELECT ` + columns + ` FROM users WHERE email = ?`

	user := &model.User{}
	dest := []any{&user.ID, &user.Username, &user.Email, &user.CreatedAt, &user.UpdatedAt}
	if includePasswordHash {
		dest = append(dest, &user.PasswordHash)
	}

	if err := r.db.QueryRowContext(ctx, query, email).Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, wrapErr("get user by email", err)
	}

	return user, nil
}

// GetByID retrieves a user by ID, never including the password hash.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`

	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Username, &user.Email, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, wrapErr("get user by id", err)
	}

	return user, nil
}

// UpdatePasswordHash replaces the stored hash of user id.
func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	query := `UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, hash, now(), id)
	if err != nil {
		return wrapErr("update password hash", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return wrapErr("update password hash", err)
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}
