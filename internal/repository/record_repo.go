package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"habitud/internal/model"
	"habitud/pkg/metrics"
)

type RecordRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewRecordRepository(db *pgxpool.Pool, logger *zap.Logger) *RecordRepository {
	return &RecordRepository{db: db, logger: logger}
}

const recordColumns = `id, user_id, date, notes, created_at, updated_at`

func scanRecord(row pgx.Row) (*model.Record, error) {
	var rec model.Record
	err := row.Scan(&rec.ID, &rec.UserID, &rec.Date, &rec.Notes, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *RecordRepository) FindByID(ctx context.Context, id int) (*model.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records WHERE id = $1`
	return scanRecord(r.db.QueryRow(ctx, query, id))
}

func (r *RecordRepository) FindByUserAndDate(ctx context.Context, userID int, date string) (*model.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records WHERE user_id = $1 AND date = $2`
	return scanRecord(r.db.QueryRow(ctx, query, userID, date))
}

// CreateWithProgress inserts a record plus its seed progress rows in one
// transaction, so a half-materialized day is never visible. A concurrent
// creator losing the (user_id, date) unique race gets ErrUniqueViolation.
func (r *RecordRepository) CreateWithProgress(ctx context.Context, rec *model.Record, seeds []model.Progress) error {
	start := time.Now()
	defer func() {
		metrics.RecordDBQueryDuration("insert_tx", "records", time.Since(start))
	}()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
        INSERT INTO records (user_id, date, notes)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at
    `, rec.UserID, rec.Date, rec.Notes).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return translateUnique(err)
	}

	for i := range seeds {
		seeds[i].RecordID = rec.ID
		err = tx.QueryRow(ctx, `
            INSERT INTO progress (record_id, habit_id, value, completed)
            VALUES ($1, $2, $3, $4)
            RETURNING id, created_at, updated_at
        `, seeds[i].RecordID, seeds[i].HabitID, seeds[i].Value, seeds[i].Completed,
		).Scan(&seeds[i].ID, &seeds[i].CreatedAt, &seeds[i].UpdatedAt)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	r.logger.Info("Record materialized",
		zap.Int("record_id", rec.ID),
		zap.Int("user_id", rec.UserID),
		zap.String("date", rec.Date),
		zap.Int("progress_seeded", len(seeds)),
	)
	return nil
}

func (r *RecordRepository) ListByUser(ctx context.Context, userID int) ([]model.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records WHERE user_id = $1 ORDER BY date DESC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []model.Record{}
	for rows.Next() {
		var rec model.Record
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Date, &rec.Notes, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ListDatesInRange returns the dates inside [from, to] for which the user
// has a record, ascending.
func (r *RecordRepository) ListDatesInRange(ctx context.Context, userID int, from, to string) ([]string, error) {
	query := `
        SELECT date FROM records
        WHERE user_id = $1 AND date >= $2 AND date <= $3
        ORDER BY date
    `
	rows, err := r.db.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dates := []string{}
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

func (r *RecordRepository) Update(ctx context.Context, rec *model.Record) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE records SET notes = $1, updated_at = NOW() WHERE id = $2`,
		rec.Notes, rec.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes the record; its progress rows cascade in schema.
func (r *RecordRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM records WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
