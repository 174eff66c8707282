package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/payhere/user-service/internal/cqrs"
	"github.com/payhere/user-service/internal/models"
	"github.com/payhere/user-service/internal/token"
	"github.com/payhere/user-service/internal/utils"
)

// CredentialReader is the slice of the write repository used for login.
type CredentialReader interface {
	GetByEmail(email string) (*models.User, error)
}

// SessionReader looks up and refreshes the stored session during login and reissue.
type SessionReader interface {
	Get(ctx context.Context, userID string) (string, error)
	Save(ctx context.Context, userID, refreshToken string) error
}

// AuthQueryService handles login and token reissue. There's no CommandService
// for auth because these operations don't mutate application state beyond the
// session entry.
type AuthQueryService struct {
	users    CredentialReader
	sessions SessionReader
	issuer   *token.Issuer
}

func NewAuthQueryService(users CredentialReader, sessions SessionReader, issuer *token.Issuer) *AuthQueryService {
	return &AuthQueryService{users: users, sessions: sessions, issuer: issuer}
}

// Login checks the credentials and issues a fresh token pair. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *AuthQueryService) Login(cmd cqrs.LoginCommand) (*models.UserView, token.Pair, error) {
	user, err := s.users.GetByEmail(cmd.Email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, token.Pair{}, models.ErrInvalidCredentials
		}
		return nil, token.Pair{}, err
	}
	if !utils.CheckPassword(cmd.Password, user.PasswordHash) {
		return nil, token.Pair{}, models.ErrInvalidCredentials
	}

	pair, err := s.issuer.Sign(user.ID, user.Email)
	if err != nil {
		return nil, token.Pair{}, err
	}
	if err := s.sessions.Save(context.Background(), user.ID, pair.RefreshToken); err != nil {
		return nil, token.Pair{}, err
	}
	return user.ToView(), pair, nil
}

// ResignToken resolves the three-way reissue decision against the stored
// session. An unparseable refresh token short-circuits to unauthorized since
// no session can be located for it.
func (s *AuthQueryService) ResignToken(cmd cqrs.ResignTokenCommand) (token.Decision, error) {
	claims, err := s.issuer.Parse(cmd.RefreshToken)
	if err != nil {
		return token.Decision{Outcome: token.Unauthorized}, nil
	}
	stored, err := s.sessions.Get(context.Background(), claims.UserID)
	if err != nil {
		return token.Decision{}, fmt.Errorf("failed to load session: %w", err)
	}
	return s.issuer.Decide(cmd.AccessToken, cmd.RefreshToken, stored), nil
}
