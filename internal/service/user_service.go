package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"habitud/internal/apperr"
	"habitud/internal/model"
	"habitud/internal/repository"
)

type UserService struct {
	users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

func (s *UserService) GetByID(ctx context.Context, id int) (*model.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("usuario no encontrado")
		}
		return nil, err
	}
	return u, nil
}

// Update merges the profile patch into the user.
func (s *UserService) Update(ctx context.Context, id int, patch model.UserPatch) (*model.User, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(u)
	if err := s.users.Update(ctx, u); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return nil, apperr.Conflict("el email o nombre ya está en uso")
		}
		return nil, err
	}
	return u, nil
}

// Delete removes the user; habits, records and progress cascade in schema.
func (s *UserService) Delete(ctx context.Context, id int) error {
	err := s.users.Delete(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("usuario no encontrado")
	}
	return err
}
