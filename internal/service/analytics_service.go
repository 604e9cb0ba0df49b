package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"habitud/internal/apperr"
	"habitud/internal/model"
	"habitud/internal/schedule"
)

// AnalyticsService aggregates historical completion into day-level and
// habit-level figures. Schedules are evaluated against each habit's current
// stored value, so editing a habit's days retroactively reshapes past
// figures; that trade-off is deliberate.
type AnalyticsService struct {
	habits   HabitStore
	progress ProgressStore
	logger   *zap.Logger
}

func NewAnalyticsService(habits HabitStore, progress ProgressStore, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{habits: habits, progress: progress, logger: logger}
}

// DailyPerformance reports, for every date in [from, to], how many habits
// were scheduled and how many were completed. Days with nothing scheduled
// still appear with zero.
func (s *AnalyticsService) DailyPerformance(ctx context.Context, userID int, from, to string) ([]model.DayPerformance, error) {
	fromDay, toDay, err := parseRange(from, to)
	if err != nil {
		return nil, err
	}

	habits, err := s.habits.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	parsed := s.parseSchedules(habits)

	completedByDate, err := s.progress.CountCompletedByDate(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	result := []model.DayPerformance{}
	for day := fromDay; !day.After(toDay); day = day.AddDate(0, 0, 1) {
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

		result = append(result, model.DayPerformance{
			Date:      date,
			Scheduled: scheduled,
			Completed: completedByDate[date],
		})
	}
	return result, nil
}

// HabitCompliance reports, per habit, on how many days in [from, to] it
// applied and how many of those were completed. Habits with nothing
// applicable in the range are omitted.
func (s *AnalyticsService) HabitCompliance(ctx context.Context, userID int, from, to string) ([]model.HabitCompliance, error) {
	fromDay, toDay, err := parseRange(from, to)
	if err != nil {
		return nil, err
	}

	habits, err := s.habits.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	parsed := s.parseSchedules(habits)

	completedDates, err := s.progress.CompletedDatesByHabit(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	result := []model.HabitCompliance{}
	for i, h := range habits {
		if parsed[i] == nil {
			continue
		}
		created := h.CreatedAt.Format(schedule.DateLayout)

		total := 0
		completed := 0
		firstDate := ""
		for day := fromDay; !day.After(toDay); day = day.AddDate(0, 0, 1) {
			date := day.Format(schedule.DateLayout)
			if created > date || !schedule.Contains(parsed[i], schedule.DayLetter(day)) {
				continue
			}
			total++
			if firstDate == "" {
				firstDate = date
			}
			if completedDates[h.ID][date] {
				completed++
			}
		}

		if total == 0 {
			continue
		}
		result = append(result, model.HabitCompliance{
			Date:      firstDate,
			HabitName: h.Name,
			Completed: completed,
			Total:     total,
			Color:     h.Color,
		})
	}

	sort.Slice(result, func(i, j int) bool { return result[i].HabitName < result[j].HabitName })
	return result, nil
}

// parseSchedules decodes every habit's schedule up front; habits with a
// corrupt payload get a nil entry, are logged once, and are skipped by the
// aggregation loops instead of failing the whole query.
func (s *AnalyticsService) parseSchedules(habits []model.Habit) [][]string {
	parsed := make([][]string, len(habits))
	for i, h := range habits {
		days, err := schedule.ParseDays(h.Days)
		if err != nil {
			s.logger.Warn("Skipping habit with unparseable schedule in aggregation",
				zap.Int("habit_id", h.ID),
				zap.String("days", h.Days),
				zap.Error(err),
			)
			continue
		}
		parsed[i] = days
	}
	return parsed
}

func parseRange(from, to string) (time.Time, time.Time, error) {
	fromDay, err := schedule.ParseDate(from)
	if err != nil {
		return time.Time{}, time.Time{}, apperr.Invalid("formato de fecha inválido, use YYYY-MM-DD")
	}
	toDay, err := schedule.ParseDate(to)
	if err != nil {
		return time.Time{}, time.Time{}, apperr.Invalid("formato de fecha inválido, use YYYY-MM-DD")
	}
	return fromDay, toDay, nil
}
