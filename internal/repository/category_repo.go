package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"habitud/internal/model"
)

type CategoryRepository struct {
	db *pgxpool.Pool
}

func NewCategoryRepository(db *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create inserts a category. Names are globally unique; duplicates surface
// as ErrUniqueViolation.
func (r *CategoryRepository) Create(ctx context.Context, c *model.Category) error {
	query := `
        INSERT INTO categories (name)
        VALUES ($1)
        RETURNING id, created_at
    `
	err := r.db.QueryRow(ctx, query, c.Name).Scan(&c.ID, &c.CreatedAt)
	return translateUnique(err)
}

func (r *CategoryRepository) FindByID(ctx context.Context, id int) (*model.Category, error) {
	var c model.Category
	err := r.db.QueryRow(ctx,
		`SELECT id, name, created_at FROM categories WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, created_at FROM categories ORDER BY name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []model.Category{}
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) Update(ctx context.Context, c *model.Category) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE categories SET name = $1 WHERE id = $2`, c.Name, c.ID,
	)
	if err != nil {
		return translateUnique(err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
