package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/payhere/user-service/internal/cqrs"
	"github.com/payhere/user-service/internal/middleware"
	"github.com/payhere/user-service/internal/models"
)

// UserCommander defines the write-side operations used by UserHandler.
type UserCommander interface {
	EditUser(cqrs.UpdateUserCommand) error
	DeleteUser(cqrs.DeleteUserCommand) (*models.UserView, error)
}

// UserQuerier defines the read-side operations used by UserHandler.
type UserQuerier interface {
	GetUser(cqrs.GetUserQuery) (*models.UserView, error)
}

// UserHandler routes requests to the command or query service as appropriate.
type UserHandler struct {
	commands UserCommander
	queries  UserQuerier
}

// UpdateUserRequest carries the optional profile fields. Absent fields are
// left untouched; present-but-unchanged fields count as no-ops.
type UpdateUserRequest struct {
	Nickname string `json:"nickname" validate:"omitempty,min=2,max=20"`
	MBTI     string `json:"mbti" validate:"omitempty,oneof=INTJ INTP ENTJ ENTP INFJ INFP ENFJ ENFP ISTJ ISFJ ESTJ ESFJ ISTP ISFP ESTP ESFP"`
	Password string `json:"password" validate:"omitempty,min=8"`
}

func NewUserHandler(commands UserCommander, queries UserQuerier) *UserHandler {
	return &UserHandler{commands: commands, queries: queries}
}

func (h *UserHandler) GetUser(c *gin.Context) {
	userID := c.Param("userId")
	requestingUserID, _ := middleware.GetUserID(c)

	if userID != requestingUserID {
		middleware.RespondWithError(c, http.StatusForbidden, "You can only access your own user details")
		return
	}

	view, err := h.queries.GetUser(cqrs.GetUserQuery{UserID: userID})
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			c.Status(http.StatusNoContent)
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to get user")
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID := c.Param("userId")
	requestingUserID, _ := middleware.GetUserID(c)

	if userID != requestingUserID {
		middleware.RespondWithError(c, http.StatusForbidden, "You can only update your own user details")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	err := h.commands.EditUser(cqrs.UpdateUserCommand{
		UserID:   userID,
		Nickname: req.Nickname,
		MBTI:     req.MBTI,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNothingToUpdate):
			middleware.RespondWithError(c, http.StatusBadRequest, "No fields changed")
		case errors.Is(err, models.ErrNicknameTaken):
			middleware.RespondWithError(c, http.StatusBadRequest, "Nickname already exists")
		case errors.Is(err, models.ErrUserNotFound):
			middleware.RespondWithError(c, http.StatusNotFound, "User not found")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to update user")
		}
		return
	}

	c.Status(http.StatusOK)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID := c.Param("userId")
	requestingUserID, _ := middleware.GetUserID(c)

	if userID != requestingUserID {
		middleware.RespondWithError(c, http.StatusForbidden, "You can only delete your own account")
		return
	}

	view, err := h.commands.DeleteUser(cqrs.DeleteUserCommand{UserID: userID})
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			middleware.RespondWithError(c, http.StatusNotFound, "User not found")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to delete user")
		return
	}

	c.JSON(http.StatusOK, view)
}
