// Package service holds the application logic: materialization of daily
// records, progress mutation, habit lifecycle reconciliation, analytics,
// calendar projection, auth and reminders.
//
// Services depend on the narrow store interfaces below instead of concrete
// repositories so the logic is exercisable without Postgres; the repository
// package satisfies all of them.
package service

import (
	"context"

	"habitud/internal/model"
)

type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	FindByID(ctx context.Context, id int) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByName(ctx context.Context, name string) (*model.User, error)
	Update(ctx context.Context, u *model.User) error
	Delete(ctx context.Context, id int) error
	ListWithRemindersEnabled(ctx context.Context) ([]model.User, error)
}

type CategoryStore interface {
	Create(ctx context.Context, c *model.Category) error
	FindByID(ctx context.Context, id int) (*model.Category, error)
	List(ctx context.Context) ([]model.Category, error)
	Update(ctx context.Context, c *model.Category) error
	Delete(ctx context.Context, id int) error
}

type HabitStore interface {
	Create(ctx context.Context, h *model.Habit) error
	FindByID(ctx context.Context, id int) (*model.Habit, error)
	ListByUser(ctx context.Context, userID int) ([]model.Habit, error)
	ListActiveByUser(ctx context.Context, userID int) ([]model.Habit, error)
	Update(ctx context.Context, h *model.Habit) error
	DeleteWithProgress(ctx context.Context, habitID int) error
}

type RecordStore interface {
	FindByID(ctx context.Context, id int) (*model.Record, error)
	FindByUserAndDate(ctx context.Context, userID int, date string) (*model.Record, error)
	CreateWithProgress(ctx context.Context, rec *model.Record, seeds []model.Progress) error
	ListByUser(ctx context.Context, userID int) ([]model.Record, error)
	ListDatesInRange(ctx context.Context, userID int, from, to string) ([]string, error)
	Update(ctx context.Context, rec *model.Record) error
	Delete(ctx context.Context, id int) error
}

type ProgressStore interface {
	FindByID(ctx context.Context, id int) (*model.Progress, error)
	FindByRecordAndHabit(ctx context.Context, recordID, habitID int) (*model.Progress, error)
	ListByRecord(ctx context.Context, recordID int) ([]model.Progress, error)
	Create(ctx context.Context, p *model.Progress) error
	Update(ctx context.Context, p *model.Progress) error
	DeleteByRecordAndHabit(ctx context.Context, recordID, habitID int) error
	CountCompletedByDate(ctx context.Context, userID int, from, to string) (map[string]int, error)
	CompletedDatesByHabit(ctx context.Context, userID int, from, to string) (map[int]map[string]bool, error)
}

type SubscriptionStore interface {
	FindByEndpoint(ctx context.Context, endpoint string) (*model.PushSubscription, error)
	Create(ctx context.Context, s *model.PushSubscription) error
	Update(ctx context.Context, s *model.PushSubscription) error
	DeleteByEndpointAndUser(ctx context.Context, endpoint string, userID int) error
	CountActiveByUser(ctx context.Context, userID int) (int, error)
}

// Notifier dispatches a notification event; delivery is an external
// concern. *mq.Publisher satisfies it.
type Notifier interface {
	Publish(routingKey string, payload any) error
}
