package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"habitud/internal/schedule"
	"habitud/pkg/metrics"
)

// OnceGuard gates a reminder to at most one delivery per user per local day.
type OnceGuard interface {
	AcquireOnce(ctx context.Context, userID int, localDate string) bool
}

// ReminderService runs the per-minute reminder sweep: every user with
// reminders enabled whose configured local time matches the current minute
// gets a reminder event published, at most once per local day.
type ReminderService struct {
	users    UserStore
	guard    OnceGuard
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
}

func NewReminderService(users UserStore, guard OnceGuard, notifier Notifier, logger *zap.Logger) *ReminderService {
	return &ReminderService{
		users:    users,
		guard:    guard,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// CheckDueReminders is invoked once per minute. A broken timezone or a
// failed publish for one user never stops the sweep for the rest.
func (s *ReminderService) CheckDueReminders(ctx context.Context) error {
	users, err := s.users.ListWithRemindersEnabled(ctx)
	if err != nil {
		return err
	}

	now := s.now()
	for _, u := range users {
		loc, err := time.LoadLocation(u.Timezone)
		if err != nil {
			s.logger.Warn("Skipping user with invalid timezone",
				zap.Int("user_id", u.ID),
				zap.String("timezone", u.Timezone),
				zap.Error(err),
			)
			metrics.IncrementReminderCheck("failed")
			continue
		}

		local := now.In(loc)
		if local.Format("15:04") != u.ReminderTime {
			continue
		}

		localDate := local.Format(schedule.DateLayout)
		if !s.guard.AcquireOnce(ctx, u.ID, localDate) {
			metrics.IncrementReminderCheck("skipped")
			continue
		}

		payload := map[string]any{
			"user_id": u.ID,
			"date":    localDate,
			"title":   "¡Hora de tus hábitos!",
			"body":    "No olvides registrar tu progreso de hoy.",
			"tag":     "daily-reminder",
		}
		if err := s.notifier.Publish("reminder.due", payload); err != nil {
			s.logger.Error("Failed to publish reminder",
				zap.Int("user_id", u.ID),
				zap.Error(err),
			)
			metrics.IncrementReminderCheck("failed")
			continue
		}

		metrics.IncrementReminderCheck("sent")
		s.logger.Info("Reminder published",
			zap.Int("user_id", u.ID),
			zap.String("date", localDate),
		)
	}
	return nil
}
