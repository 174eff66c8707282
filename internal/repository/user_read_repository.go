package repository

import (
	"context"
	"database/sql"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/payhere/user-service/internal/models"
	svcredis "github.com/payhere/user-service/internal/redis"
)

const userViewKeyPrefix = "user:view:"

// UserReadRepository handles all read operations for users.
// It uses Redis as the primary read store, falling back to PostgreSQL on a miss.
type UserReadRepository struct {
	db    *sql.DB
	cache *svcredis.ViewCache[models.UserView]
}

func NewUserReadRepository(db *sql.DB, redisClient *goredis.Client) *UserReadRepository {
	return &UserReadRepository{
		db:    db,
		cache: svcredis.NewViewCache[models.UserView](redisClient, 0),
	}
}

// GetByID returns a UserView from Redis first, then PostgreSQL.
func (r *UserReadRepository) GetByID(ctx context.Context, id string) (*models.UserView, error) {
	cacheKey := userViewKeyPrefix + id

	if view, ok := r.cache.Get(ctx, cacheKey); ok {
		return view, nil
	}

	// Fallback: PostgreSQL
	query := `
		SELECT id, email, nickname, mbti, created_at, updated_at
		FROM users
		WHERE id = $1 AND deleted_at IS NULL
	`
	var view models.UserView
	pgErr := r.db.QueryRow(query, id).Scan(
		&view.ID, &view.Email, &view.Nickname, &view.MBTI,
		&view.CreatedAt, &view.UpdatedAt,
	)
	if pgErr == sql.ErrNoRows {
		return nil, models.ErrUserNotFound
	}
	if pgErr != nil {
		return nil, fmt.Errorf("failed to get user: %w", pgErr)
	}

	// Warm the cache
	r.CacheUserView(ctx, &view)
	return &view, nil
}

// CacheUserView stores or refreshes the Redis read model for a user.
// Called by the command service after every mutation.
func (r *UserReadRepository) CacheUserView(ctx context.Context, view *models.UserView) {
	r.cache.Set(ctx, userViewKeyPrefix+view.ID, view)
}

// InvalidateUserView removes the Redis read model entry for a deleted user.
func (r *UserReadRepository) InvalidateUserView(ctx context.Context, userID string) {
	r.cache.Delete(ctx, userViewKeyPrefix+userID)
}
