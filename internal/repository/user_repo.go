package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"habitud/internal/model"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, name, email, password_hash, can_view_future,
       notifications_enabled, reminders_enabled, reminder_time, timezone,
       created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CanViewFuture,
		&u.NotificationsEnabled, &u.RemindersEnabled, &u.ReminderTime, &u.Timezone,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user and fills in the generated fields.
func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	query := `
        INSERT INTO users (name, email, password_hash, can_view_future,
            notifications_enabled, reminders_enabled, reminder_time, timezone)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, created_at, updated_at
    `
	err := r.db.QueryRow(ctx, query,
		u.Name, u.Email, u.PasswordHash, u.CanViewFuture,
		u.NotificationsEnabled, u.RemindersEnabled, u.ReminderTime, u.Timezone,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	return translateUnique(err)
}

func (r *UserRepository) FindByID(ctx context.Context, id int) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *UserRepository) FindByName(ctx context.Context, name string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE name = $1`
	return scanUser(r.db.QueryRow(ctx, query, name))
}

// Update persists the mutable user fields.
func (r *UserRepository) Update(ctx context.Context, u *model.User) error {
	query := `
        UPDATE users
        SET name = $1, email = $2, can_view_future = $3,
            notifications_enabled = $4, reminders_enabled = $5,
            reminder_time = $6, timezone = $7, updated_at = NOW()
        WHERE id = $8
    `
	_, err := r.db.Exec(ctx, query,
		u.Name, u.Email, u.CanViewFuture,
		u.NotificationsEnabled, u.RemindersEnabled,
		u.ReminderTime, u.Timezone, u.ID,
	)
	return translateUnique(err)
}

// Delete removes the user; habits, records and progress cascade in schema.
func (r *UserRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ListWithRemindersEnabled returns users the reminder scan must consider.
func (r *UserRepository) ListWithRemindersEnabled(ctx context.Context) ([]model.User, error) {
	query := `
        SELECT ` + userColumns + `
        FROM users
        WHERE reminders_enabled = TRUE AND notifications_enabled = TRUE
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(
			&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CanViewFuture,
			&u.NotificationsEnabled, &u.RemindersEnabled, &u.ReminderTime, &u.Timezone,
			&u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
