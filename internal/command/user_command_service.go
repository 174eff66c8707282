package command

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/payhere/user-service/internal/cqrs"
	"github.com/payhere/user-service/internal/events"
	"github.com/payhere/user-service/internal/models"
	"github.com/payhere/user-service/internal/token"
	"github.com/payhere/user-service/internal/utils"
)

// UserWriter is the slice of the write repository used by the command service.
type UserWriter interface {
	Create(user *models.User) error
	GetByID(id string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByNickname(nickname string) (*models.User, error)
	GetByIDIncludingDeleted(id string) (*models.User, error)
	Update(user *models.User) error
	SoftDelete(id string) error
}

// SessionStore holds the refresh token of each live session.
type SessionStore interface {
	Save(ctx context.Context, userID, refreshToken string) error
	Delete(ctx context.Context, userID string)
}

// ViewCacher keeps the Redis read model in step with writes.
type ViewCacher interface {
	CacheUserView(ctx context.Context, view *models.UserView)
	InvalidateUserView(ctx context.Context, userID string)
}

// EventPublisher pushes lifecycle events onto the user events stream.
type EventPublisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

// UserCommandService writes user state to PostgreSQL and keeps the Redis
// read model and session store up to date.
type UserCommandService struct {
	writeRepo UserWriter
	readRepo  ViewCacher
	sessions  SessionStore
	issuer    *token.Issuer
	publisher EventPublisher
}

func NewUserCommandService(
	writeRepo UserWriter,
	readRepo ViewCacher,
	sessions SessionStore,
	issuer *token.Issuer,
	publisher EventPublisher,
) *UserCommandService {
	return &UserCommandService{
		writeRepo: writeRepo,
		readRepo:  readRepo,
		sessions:  sessions,
		issuer:    issuer,
		publisher: publisher,
	}
}

// SignUp creates a user and logs them straight in: the new user gets a token
// pair and a session, same as a successful login.
func (s *UserCommandService) SignUp(cmd cqrs.SignUpCommand) (*models.UserView, token.Pair, error) {
	if _, err := s.writeRepo.GetByEmail(cmd.Email); err == nil {
		return nil, token.Pair{}, models.ErrEmailTaken
	} else if !errors.Is(err, models.ErrUserNotFound) {
		return nil, token.Pair{}, err
	}
	if _, err := s.writeRepo.GetByNickname(cmd.Nickname); err == nil {
		return nil, token.Pair{}, models.ErrNicknameTaken
	} else if !errors.Is(err, models.ErrUserNotFound) {
		return nil, token.Pair{}, err
	}

	passwordHash, err := utils.HashPassword(cmd.Password)
	if err != nil {
		return nil, token.Pair{}, err
	}
	now := time.Now().UTC()
	user := &models.User{
		ID:           utils.GenerateID("usr"),
		Email:        cmd.Email,
		PasswordHash: passwordHash,
		Nickname:     cmd.Nickname,
		MBTI:         cmd.MBTI,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	// The unique constraints back up the lookups above under concurrent signups.
	if err := s.writeRepo.Create(user); err != nil {
		return nil, token.Pair{}, err
	}

	pair, err := s.issuer.Sign(user.ID, user.Email)
	if err != nil {
		return nil, token.Pair{}, err
	}

	ctx := context.Background()
	if err := s.sessions.Save(ctx, user.ID, pair.RefreshToken); err != nil {
		return nil, token.Pair{}, err
	}
	view := user.ToView()
	s.readRepo.CacheUserView(ctx, view)
	if err := s.publisher.Publish(ctx, events.UserEventsStream, events.UserCreated, events.UserCreatedEvent{
		UserID:   user.ID,
		Email:    user.Email,
		Nickname: user.Nickname,
	}); err != nil {
		log.Printf("Failed to publish user.created event: %v", err)
	}
	return view, pair, nil
}

// EditUser merges the optional fields onto the stored user. A field is applied
// only when it is present and differs from the current value; if every field
// is skipped the edit is rejected.
func (s *UserCommandService) EditUser(cmd cqrs.UpdateUserCommand) error {
	user, err := s.writeRepo.GetByID(cmd.UserID)
	if err != nil {
		return err
	}

	changed := false
	if cmd.Nickname != "" && cmd.Nickname != user.Nickname {
		user.Nickname = cmd.Nickname
		changed = true
	}
	if cmd.MBTI != "" && cmd.MBTI != user.MBTI {
		user.MBTI = cmd.MBTI
		changed = true
	}
	if cmd.Password != "" && !utils.CheckPassword(cmd.Password, user.PasswordHash) {
		hash, hashErr := utils.HashPassword(cmd.Password)
		if hashErr != nil {
			return hashErr
		}
		user.PasswordHash = hash
		changed = true
	}
	if !changed {
		return models.ErrNothingToUpdate
	}

	user.UpdatedAt = time.Now().UTC()
	if err := s.writeRepo.Update(user); err != nil {
		return err
	}

	ctx := context.Background()
	s.readRepo.CacheUserView(ctx, user.ToView())
	if err := s.publisher.Publish(ctx, events.UserEventsStream, events.UserUpdated, events.UserUpdatedEvent{
		UserID:   user.ID,
		Nickname: user.Nickname,
		MBTI:     user.MBTI,
	}); err != nil {
		log.Printf("Failed to publish user.updated event: %v", err)
	}
	return nil
}

// DeleteUser soft-deletes the user and revokes their session. The returned
// view is read back through the deleted-inclusive path, so the row is known
// to survive the delete.
func (s *UserCommandService) DeleteUser(cmd cqrs.DeleteUserCommand) (*models.UserView, error) {
	if err := s.writeRepo.SoftDelete(cmd.UserID); err != nil {
		return nil, err
	}
	user, err := s.writeRepo.GetByIDIncludingDeleted(cmd.UserID)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	s.readRepo.InvalidateUserView(ctx, cmd.UserID)
	s.sessions.Delete(ctx, cmd.UserID)
	if err := s.publisher.Publish(ctx, events.UserEventsStream, events.UserDeleted, events.UserDeletedEvent{
		UserID: cmd.UserID,
	}); err != nil {
		log.Printf("Failed to publish user.deleted event: %v", err)
	}
	return user.ToView(), nil
}

// Logout removes the session entry. It never fails from the caller's point of
// view: a missing session means the user was already logged out.
func (s *UserCommandService) Logout(cmd cqrs.LogoutCommand) error {
	s.sessions.Delete(context.Background(), cmd.UserID)
	return nil
}
