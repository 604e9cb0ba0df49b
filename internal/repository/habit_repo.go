package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"habitud/internal/model"
)

type HabitRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewHabitRepository(db *pgxpool.Pool, logger *zap.Logger) *HabitRepository {
	return &HabitRepository{db: db, logger: logger}
}

const habitColumns = `id, user_id, category_id, name, description, unit,
       daily_goal, days, color, active, created_at, updated_at`

func scanHabit(row pgx.Row) (*model.Habit, error) {
	var h model.Habit
	err := row.Scan(
		&h.ID, &h.UserID, &h.CategoryID, &h.Name, &h.Description, &h.Unit,
		&h.DailyGoal, &h.Days, &h.Color, &h.Active, &h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *HabitRepository) Create(ctx context.Context, h *model.Habit) error {
	query := `
        INSERT INTO habits (user_id, category_id, name, description, unit,
            daily_goal, days, color, active)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, created_at, updated_at
    `
	err := r.db.QueryRow(ctx, query,
		h.UserID, h.CategoryID, h.Name, h.Description, h.Unit,
		h.DailyGoal, h.Days, h.Color, h.Active,
	).Scan(&h.ID, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to insert habit",
			zap.Int("user_id", h.UserID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (r *HabitRepository) FindByID(ctx context.Context, id int) (*model.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits WHERE id = $1`
	return scanHabit(r.db.QueryRow(ctx, query, id))
}

func (r *HabitRepository) ListByUser(ctx context.Context, userID int) ([]model.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits WHERE user_id = $1 ORDER BY id`
	return r.list(ctx, query, userID)
}

// ListActiveByUser returns the user's active habits; the materializer
// filters them further by creation date and schedule.
func (r *HabitRepository) ListActiveByUser(ctx context.Context, userID int) ([]model.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits WHERE user_id = $1 AND active = TRUE ORDER BY id`
	return r.list(ctx, query, userID)
}

func (r *HabitRepository) list(ctx context.Context, query string, args ...any) ([]model.Habit, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	habits := []model.Habit{}
	for rows.Next() {
		var h model.Habit
		if err := rows.Scan(
			&h.ID, &h.UserID, &h.CategoryID, &h.Name, &h.Description, &h.Unit,
			&h.DailyGoal, &h.Days, &h.Color, &h.Active, &h.CreatedAt, &h.UpdatedAt,
		); err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (r *HabitRepository) Update(ctx context.Context, h *model.Habit) error {
	query := `
        UPDATE habits
        SET category_id = $1, name = $2, description = $3, unit = $4,
            daily_goal = $5, days = $6, color = $7, active = $8, updated_at = NOW()
        WHERE id = $9
    `
	_, err := r.db.Exec(ctx, query,
		h.CategoryID, h.Name, h.Description, h.Unit,
		h.DailyGoal, h.Days, h.Color, h.Active, h.ID,
	)
	return err
}

// DeleteWithProgress removes the habit and every progress row that
// references it, across all records, in one transaction.
func (r *HabitRepository) DeleteWithProgress(ctx context.Context, habitID int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `DELETE FROM progress WHERE habit_id = $1`, habitID)
	if err != nil {
		return err
	}
	deleted := tag.RowsAffected()

	if _, err := tx.Exec(ctx, `DELETE FROM habits WHERE id = $1`, habitID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	r.logger.Info("Habit deleted",
		zap.Int("habit_id", habitID),
		zap.Int64("progress_rows_removed", deleted),
	)
	return nil
}
