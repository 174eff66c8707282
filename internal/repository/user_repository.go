package repository

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/payhere/user-service/internal/models"
)

// UserWriteRepository handles all state-mutating operations for users.
// It operates exclusively against the PostgreSQL write store (source of truth).
type UserWriteRepository struct {
	db *sql.DB
}

func NewUserWriteRepository(db *sql.DB) *UserWriteRepository {
	return &UserWriteRepository{db: db}
}

const userColumns = `id, email, password_hash, nickname, mbti, created_at, updated_at, deleted_at`

func (r *UserWriteRepository) Create(user *models.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, nickname, mbti, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(query,
		user.ID, user.Email, user.PasswordHash, user.Nickname, user.MBTI,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return mapUniqueViolation(err, "failed to create user")
	}
	return nil
}

// GetByID fetches the full write model (including PasswordHash) for a live user.
func (r *UserWriteRepository) GetByID(id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND deleted_at IS NULL`
	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByEmail is the login lookup. Soft-deleted users cannot authenticate.
func (r *UserWriteRepository) GetByEmail(email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND deleted_at IS NULL`
	return r.scanOne(r.db.QueryRow(query, email))
}

func (r *UserWriteRepository) GetByNickname(nickname string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE nickname = $1 AND deleted_at IS NULL`
	return r.scanOne(r.db.QueryRow(query, nickname))
}

// GetByIDIncludingDeleted bypasses the soft-delete filter. Used to read a row
// back after deletion and by audit tooling.
func (r *UserWriteRepository) GetByIDIncludingDeleted(id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanOne(r.db.QueryRow(query, id))
}

func (r *UserWriteRepository) Update(user *models.User) error {
	query := `
		UPDATE users
		SET nickname = $2, mbti = $3, password_hash = $4, updated_at = $5
		WHERE id = $1 AND deleted_at IS NULL
	`
	result, err := r.db.Exec(query,
		user.ID, user.Nickname, user.MBTI, user.PasswordHash, user.UpdatedAt,
	)
	if err != nil {
		return mapUniqueViolation(err, "failed to update user")
	}
	return checkAffected(result)
}

// SoftDelete marks the row deleted; it stays retrievable via
// GetByIDIncludingDeleted.
func (r *UserWriteRepository) SoftDelete(id string) error {
	query := `UPDATE users SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	result, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return checkAffected(result)
}

func (r *UserWriteRepository) scanOne(row *sql.Row) (*models.User, error) {
	var user models.User
	var deletedAt sql.NullTime

	err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Nickname, &user.MBTI,
		&user.CreatedAt, &user.UpdatedAt, &deletedAt,
	)
	if err == sql.ErrNoRows {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		user.DeletedAt = &t
	}
	return &user, nil
}

// mapUniqueViolation converts Postgres 23505 errors on the users table into
// the matching business error, keyed by the violated constraint.
func mapUniqueViolation(err error, msg string) error {
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
		if pqErr.Constraint == "users_nickname_key" {
			return models.ErrNicknameTaken
		}
		return models.ErrEmailTaken
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func checkAffected(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return models.ErrUserNotFound
	}
	return nil
}
