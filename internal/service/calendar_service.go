package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"habitud/internal/apperr"
	"habitud/internal/model"
	"habitud/internal/schedule"
)

// CalendarService projects a month of completion data. It is strictly
// read-only: days without a record stay unmaterialized.
type CalendarService struct {
	habits   HabitStore
	records  RecordStore
	progress ProgressStore
	logger   *zap.Logger
}

func NewCalendarService(habits HabitStore, records RecordStore, progress ProgressStore, logger *zap.Logger) *CalendarService {
	return &CalendarService{habits: habits, records: records, progress: progress, logger: logger}
}

// MonthProgress returns one projection per calendar day of (year, month):
// habits scheduled, habits completed, and the completion percentage.
func (s *CalendarService) MonthProgress(ctx context.Context, userID, year, month int) ([]model.DayProjection, error) {
	if month < 1 || month > 12 {
		return nil, apperr.Invalid("mes inválido, use 1-12")
	}

	habits, err := s.habits.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	parsed := s.parseSchedules(habits)

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	days := schedule.DaysInMonth(year, time.Month(month))
	from := first.Format(schedule.DateLayout)
	to := first.AddDate(0, 0, days-1).Format(schedule.DateLayout)

	completedByDate, err := s.progress.CountCompletedByDate(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	recordDates, err := s.records.ListDatesInRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	hasRecord := map[string]bool{}
	for _, d := range recordDates {
		hasRecord[d] = true
	}

	result := make([]model.DayProjection, 0, days)
	for day := first; len(result) < days; day = day.AddDate(0, 0, 1) {
		date := day.Format(schedule.DateLayout)
		letter := schedule.DayLetter(day)

		scheduled := 0
		for i, h := range habits {
			if parsed[i] == nil {
				continue
			}
			if h.CreatedAt.Format(schedule.DateLayout) > date {
				continue
			}
			if schedule.Contains(parsed[i], letter) {
				scheduled++
			}
		}

		completed := completedByDate[date]
		result = append(result, model.DayProjection{
			Date:       date,
			Scheduled:  scheduled,
			Completed:  completed,
			Percentage: percentage(completed, scheduled),
			HasRecord:  hasRecord[date],
		})
	}
	return result, nil
}

// HabitMonthProgress returns, per day of the month, whether one habit was
// scheduled and whether it was completed.
func (s *CalendarService) HabitMonthProgress(ctx context.Context, userID, year, month, habitID int) ([]model.HabitDayProjection, error) {
	if month < 1 || month > 12 {
		return nil, apperr.Invalid("mes inválido, use 1-12")
	}

	h, err := s.habits.FindByID(ctx, habitID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("hábito no encontrado")
		}
		return nil, err
	}
	if h.UserID != userID {
		return nil, apperr.NotFound("hábito no encontrado")
	}

	days, err := schedule.ParseDays(h.Days)
	if err != nil {
		s.logger.Warn("Habit schedule unparseable in month view",
			zap.Int("habit_id", h.ID),
			zap.Error(err),
		)
		days = []string{} // habit never applies, projection stays all-false
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	total := schedule.DaysInMonth(year, time.Month(month))
	from := first.Format(schedule.DateLayout)
	to := first.AddDate(0, 0, total-1).Format(schedule.DateLayout)

	completedDates, err := s.progress.CompletedDatesByHabit(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	created := h.CreatedAt.Format(schedule.DateLayout)

	result := make([]model.HabitDayProjection, 0, total)
	for day := first; len(result) < total; day = day.AddDate(0, 0, 1) {
		date := day.Format(schedule.DateLayout)
		result = append(result, model.HabitDayProjection{
			Date:      date,
			Scheduled: created <= date && schedule.Contains(days, schedule.DayLetter(day)),
			Completed: completedDates[h.ID][date],
		})
	}
	return result, nil
}

func (s *CalendarService) parseSchedules(habits []model.Habit) [][]string {
	parsed := make([][]string, len(habits))
	for i, h := range habits {
		days, err := schedule.ParseDays(h.Days)
		if err != nil {
			s.logger.Warn("Skipping habit with unparseable schedule in calendar",
				zap.Int("habit_id", h.ID),
				zap.Error(err),
			)
			continue
		}
		parsed[i] = days
	}
	return parsed
}

// percentage is completed/scheduled as a percent, one decimal, clamped to
// [0,100]. Zero scheduled yields zero.
func percentage(completed, scheduled int) float64 {
	if scheduled == 0 {
		return 0
	}
	pct := math.Round(float64(completed)/float64(scheduled)*1000) / 10
	if pct > 100 {
		pct = 100
	}
	return pct
}
