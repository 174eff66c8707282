package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/payhere/user-service/internal/cqrs"
	"github.com/payhere/user-service/internal/middleware"
	"github.com/payhere/user-service/internal/models"
	"github.com/payhere/user-service/internal/token"
)

// AuthQuerier defines the read-side operations used by AuthHandler.
type AuthQuerier interface {
	Login(cqrs.LoginCommand) (*models.UserView, token.Pair, error)
	ResignToken(cqrs.ResignTokenCommand) (token.Decision, error)
}

// AuthCommander defines the write-side operations used by AuthHandler.
type AuthCommander interface {
	SignUp(cqrs.SignUpCommand) (*models.UserView, token.Pair, error)
	Logout(cqrs.LogoutCommand) error
}

// AuthHandler handles signup, login, logout and token reissue.
type AuthHandler struct {
	commands AuthCommander
	queries  AuthQuerier
}

type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Nickname string `json:"nickname" validate:"required,min=2,max=20"`
	MBTI     string `json:"mbti" validate:"required,oneof=INTJ INTP ENTJ ENTP INFJ INFP ENFJ ENFP ISTJ ISFJ ESTJ ESFJ ISTP ISFP ESTP ESFP"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ResignTokenRequest struct {
	AccessToken  string `json:"accessToken" validate:"required"`
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// LoginResponse is returned by both login and signup.
type LoginResponse struct {
	User         *models.UserView `json:"user"`
	AccessToken  string           `json:"accessToken"`
	RefreshToken string           `json:"refreshToken"`
}

type ResignTokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func NewAuthHandler(commands AuthCommander, queries AuthQuerier) *AuthHandler {
	return &AuthHandler{commands: commands, queries: queries}
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	view, pair, err := h.commands.SignUp(cqrs.SignUpCommand{
		Email:    req.Email,
		Password: req.Password,
		Nickname: req.Nickname,
		MBTI:     req.MBTI,
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrEmailTaken):
			middleware.RespondWithError(c, http.StatusBadRequest, "Email already exists")
		case errors.Is(err, models.ErrNicknameTaken):
			middleware.RespondWithError(c, http.StatusBadRequest, "Nickname already exists")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to sign up")
		}
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		User:         view,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	view, pair, err := h.queries.Login(cqrs.LoginCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			middleware.RespondWithError(c, http.StatusBadRequest, "Invalid email or password")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to log in")
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		User:         view,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// Logout always succeeds: deleting an absent session is a no-op.
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	if err := h.commands.Logout(cqrs.LogoutCommand{UserID: userID}); err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to log out")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *AuthHandler) ResignToken(c *gin.Context) {
	var req ResignTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	decision, err := h.queries.ResignToken(cqrs.ResignTokenCommand{
		AccessToken:  req.AccessToken,
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to reissue token")
		return
	}

	switch decision.Outcome {
	case token.Reissue:
		c.JSON(http.StatusOK, ResignTokenResponse{
			AccessToken:  decision.AccessToken,
			RefreshToken: req.RefreshToken,
		})
	case token.Unauthorized:
		middleware.RespondWithError(c, http.StatusUnauthorized, "Invalid or expired refresh token")
	case token.Unnecessary:
		middleware.RespondWithError(c, http.StatusBadRequest, "Access token does not need to be refreshed")
	default:
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to reissue token")
	}
}
