package query

import (
	"context"

	"github.com/payhere/user-service/internal/cqrs"
	"github.com/payhere/user-service/internal/models"
)

// ViewReader is the read repository slice used for profile lookups.
type ViewReader interface {
	GetByID(ctx context.Context, id string) (*models.UserView, error)
}

// UserQueryService reads user views from the Redis cache (with a Postgres fallback).
type UserQueryService struct {
	readRepo ViewReader
}

func NewUserQueryService(readRepo ViewReader) *UserQueryService {
	return &UserQueryService{readRepo: readRepo}
}

func (s *UserQueryService) GetUser(q cqrs.GetUserQuery) (*models.UserView, error) {
	return s.readRepo.GetByID(context.Background(), q.UserID)
}
