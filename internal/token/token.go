package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Pair is an access/refresh token pair issued after authentication.
type Pair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Claims is the JWT payload.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Outcome is the result of the reissue decision.
type Outcome int

const (
	// Reissue means the access token expired and a fresh one was minted.
	Reissue Outcome = iota
	// Unauthorized means the refresh token is invalid, expired, or does not
	// match the caller's stored session.
	Unauthorized
	// Unnecessary means the access token is still valid and needs no refresh.
	Unnecessary
)

// Decision carries the reissue outcome. AccessToken is set only for Reissue.
type Decision struct {
	Outcome     Outcome
	AccessToken string
}

// Issuer signs and verifies HS256 token pairs.
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewIssuer(secret string, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Sign issues an access/refresh pair for the given user.
func (i *Issuer) Sign(userID, email string) (Pair, error) {
	access, err := i.sign(userID, email, i.accessTTL)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := i.sign(userID, email, i.refreshTTL)
	if err != nil {
		return Pair{}, err
	}
	return Pair{AccessToken: access, RefreshToken: refresh}, nil
}

func (i *Issuer) sign(userID, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return signed, nil
}

// Parse validates a token and extracts its claims.
func (i *Issuer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// Decide resolves the three-way reissue branch. storedRefresh is the refresh
// token currently held in the caller's session; an empty value means the
// session was logged out or never existed.
func (i *Issuer) Decide(accessToken, refreshToken, storedRefresh string) Decision {
	refClaims, err := i.Parse(refreshToken)
	if err != nil || storedRefresh == "" || refreshToken != storedRefresh {
		return Decision{Outcome: Unauthorized}
	}

	_, err = i.Parse(accessToken)
	switch {
	case err == nil:
		return Decision{Outcome: Unnecessary}
	case errors.Is(err, jwt.ErrTokenExpired):
		access, signErr := i.sign(refClaims.UserID, refClaims.Email, i.accessTTL)
		if signErr != nil {
			return Decision{Outcome: Unauthorized}
		}
		return Decision{Outcome: Reissue, AccessToken: access}
	default:
		return Decision{Outcome: Unauthorized}
	}
}
