package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"habitud/internal/apperr"
	"habitud/internal/model"
	"habitud/internal/repository"
)

// CategoryService manages the flat habit-grouping labels. Category names
// are unique across all users.
type CategoryService struct {
	categories CategoryStore
}

func NewCategoryService(categories CategoryStore) *CategoryService {
	return &CategoryService{categories: categories}
}

func (s *CategoryService) Create(ctx context.Context, name string) (*model.Category, error) {
	if name == "" {
		return nil, apperr.Invalid("el nombre de la categoría es obligatorio")
	}

	c := &model.Category{Name: name}
	if err := s.categories.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return nil, apperr.Conflict("la categoría ya existe")
		}
		return nil, err
	}
	return c, nil
}

func (s *CategoryService) GetByID(ctx context.Context, id int) (*model.Category, error) {
	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("categoría no encontrada")
		}
		return nil, err
	}
	return c, nil
}

func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	return s.categories.List(ctx)
}

func (s *CategoryService) Rename(ctx context.Context, id int, name string) (*model.Category, error) {
	if name == "" {
		return nil, apperr.Invalid("el nombre de la categoría es obligatorio")
	}

	c, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	c.Name = name
	if err := s.categories.Update(ctx, c); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return nil, apperr.Conflict("la categoría ya existe")
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("categoría no encontrada")
		}
		return nil, err
	}
	return c, nil
}

func (s *CategoryService) Delete(ctx context.Context, id int) error {
	err := s.categories.Delete(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("categoría no encontrada")
	}
	return err
}
