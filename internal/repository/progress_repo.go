package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"habitud/internal/model"
)

type ProgressRepository struct {
	db *pgxpool.Pool
}

func NewProgressRepository(db *pgxpool.Pool) *ProgressRepository {
	return &ProgressRepository{db: db}
}

const progressColumns = `id, record_id, habit_id, value, completed, created_at, updated_at`

func scanProgress(row pgx.Row) (*model.Progress, error) {
	var p model.Progress
	err := row.Scan(&p.ID, &p.RecordID, &p.HabitID, &p.Value, &p.Completed, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProgressRepository) FindByID(ctx context.Context, id int) (*model.Progress, error) {
	query := `SELECT ` + progressColumns + ` FROM progress WHERE id = $1`
	return scanProgress(r.db.QueryRow(ctx, query, id))
}

func (r *ProgressRepository) FindByRecordAndHabit(ctx context.Context, recordID, habitID int) (*model.Progress, error) {
	query := `SELECT ` + progressColumns + ` FROM progress WHERE record_id = $1 AND habit_id = $2`
	return scanProgress(r.db.QueryRow(ctx, query, recordID, habitID))
}

func (r *ProgressRepository) ListByRecord(ctx context.Context, recordID int) ([]model.Progress, error) {
	query := `SELECT ` + progressColumns + ` FROM progress WHERE record_id = $1 ORDER BY id`
	rows, err := r.db.Query(ctx, query, recordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.Progress{}
	for rows.Next() {
		var p model.Progress
		if err := rows.Scan(&p.ID, &p.RecordID, &p.HabitID, &p.Value, &p.Completed, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *ProgressRepository) Create(ctx context.Context, p *model.Progress) error {
	query := `
        INSERT INTO progress (record_id, habit_id, value, completed)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at
    `
	return r.db.QueryRow(ctx, query, p.RecordID, p.HabitID, p.Value, p.Completed).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *ProgressRepository) Update(ctx context.Context, p *model.Progress) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE progress SET value = $1, completed = $2, updated_at = NOW() WHERE id = $3`,
		p.Value, p.Completed, p.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ProgressRepository) DeleteByRecordAndHabit(ctx context.Context, recordID, habitID int) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM progress WHERE record_id = $1 AND habit_id = $2`,
		recordID, habitID,
	)
	return err
}

// CountCompletedByDate returns, per date inside [from, to], how many of the
// user's progress rows are completed. Dates without completions are absent.
func (r *ProgressRepository) CountCompletedByDate(ctx context.Context, userID int, from, to string) (map[string]int, error) {
	query := `
        SELECT r.date, COUNT(*)
        FROM progress p
        JOIN records r ON r.id = p.record_id
        WHERE r.user_id = $1 AND r.date >= $2 AND r.date <= $3 AND p.completed = TRUE
        GROUP BY r.date
    `
	rows, err := r.db.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var date string
		var n int
		if err := rows.Scan(&date, &n); err != nil {
			return nil, err
		}
		counts[date] = n
	}
	return counts, rows.Err()
}

// CompletedDatesByHabit returns, per habit of the user, the set of dates in
// [from, to] with a completed progress row.
func (r *ProgressRepository) CompletedDatesByHabit(ctx context.Context, userID int, from, to string) (map[int]map[string]bool, error) {
	query := `
        SELECT p.habit_id, r.date
        FROM progress p
        JOIN records r ON r.id = p.record_id
        WHERE r.user_id = $1 AND r.date >= $2 AND r.date <= $3 AND p.completed = TRUE
    `
	rows, err := r.db.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byHabit := map[int]map[string]bool{}
	for rows.Next() {
		var habitID int
		var date string
		if err := rows.Scan(&habitID, &date); err != nil {
			return nil, err
		}
		if byHabit[habitID] == nil {
			byHabit[habitID] = map[string]bool{}
		}
		byHabit[habitID][date] = true
	}
	return byHabit, rows.Err()
}
