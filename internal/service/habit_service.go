package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"habitud/internal/apperr"
	"habitud/internal/model"
	"habitud/internal/schedule"
)

// HabitService owns habit CRUD and the reconciliation of today's record
// when a habit's schedule or active flag changes.
type HabitService struct {
	habits   HabitStore
	records  RecordStore
	progress ProgressStore
	logger   *zap.Logger
	now      func() time.Time
}

func NewHabitService(habits HabitStore, records RecordStore, progress ProgressStore, logger *zap.Logger) *HabitService {
	return &HabitService{
		habits:   habits,
		records:  records,
		progress: progress,
		logger:   logger,
		now:      time.Now,
	}
}

type HabitInput struct {
	CategoryID  int     `json:"categoria_id"`
	Name        string  `json:"nombre"`
	Description string  `json:"descripcion"`
	Unit        string  `json:"unidad_medida"`
	DailyGoal   float64 `json:"meta_diaria"`
	Days        string  `json:"dias"`
	Color       string  `json:"color"`
	Active      *bool   `json:"activo"`
}

// Create stores a new habit and, when it is active and scheduled for today,
// inserts its progress row into today's already-existing record.
func (s *HabitService) Create(ctx context.Context, userID int, in HabitInput) (*model.Habit, error) {
	if in.Name == "" {
		return nil, apperr.Invalid("el nombre del hábito es obligatorio")
	}
	if _, err := schedule.ParseDays(in.Days); err != nil {
		return nil, apperr.Invalid("dias debe ser una lista JSON de letras de día")
	}

	active := true
	if in.Active != nil {
		active = *in.Active
	}

	h := &model.Habit{
		UserID:      userID,
		CategoryID:  in.CategoryID,
		Name:        in.Name,
		Description: in.Description,
		Unit:        in.Unit,
		DailyGoal:   in.DailyGoal,
		Days:        in.Days,
		Color:       in.Color,
		Active:      active,
	}
	if err := s.habits.Create(ctx, h); err != nil {
		return nil, err
	}

	if s.appliesToday(h) {
		s.addToToday(ctx, h)
	}
	return h, nil
}

func (s *HabitService) GetByID(ctx context.Context, habitID, callerID int) (*model.Habit, error) {
	return s.ownedHabit(ctx, habitID, callerID)
}

func (s *HabitService) ListForUser(ctx context.Context, userID int) ([]model.Habit, error) {
	return s.habits.ListByUser(ctx, userID)
}

// Update merges the patch and reconciles today's record when the habit
// starts or stops applying to today.
func (s *HabitService) Update(ctx context.Context, habitID, callerID int, patch model.HabitPatch) (*model.Habit, error) {
	h, err := s.ownedHabit(ctx, habitID, callerID)
	if err != nil {
		return nil, err
	}

	if patch.Days != nil {
		if _, err := schedule.ParseDays(*patch.Days); err != nil {
			return nil, apperr.Invalid("dias debe ser una lista JSON de letras de día")
		}
	}

	appliedBefore := s.appliesToday(h)
	patch.Apply(h)
	appliesAfter := s.appliesToday(h)

	if err := s.habits.Update(ctx, h); err != nil {
		return nil, err
	}

	switch {
	case !appliedBefore && appliesAfter:
		s.addToToday(ctx, h)
	case appliedBefore && !appliesAfter:
		s.removeFromToday(ctx, h)
	}

	return h, nil
}

// Delete removes the habit together with all its progress rows across all
// records.
func (s *HabitService) Delete(ctx context.Context, habitID, callerID int) error {
	if _, err := s.ownedHabit(ctx, habitID, callerID); err != nil {
		return err
	}
	return s.habits.DeleteWithProgress(ctx, habitID)
}

func (s *HabitService) appliesToday(h *model.Habit) bool {
	return h.Active && schedule.Applies(h.Days, s.now())
}

// addToToday inserts the habit's progress row into today's record when that
// record exists and the row doesn't yet. Without a record today there is
// nothing to do: the next materialization picks the habit up.
func (s *HabitService) addToToday(ctx context.Context, h *model.Habit) {
	rec, err := s.todaysRecord(ctx, h.UserID)
	if err != nil || rec == nil {
		return
	}

	if _, err := s.progress.FindByRecordAndHabit(ctx, rec.ID, h.ID); err == nil {
		return // already present, guard against re-entrant syncs
	} else if !errors.Is(err, pgx.ErrNoRows) {
		s.logger.Error("Failed to check today's progress", zap.Int("habit_id", h.ID), zap.Error(err))
		return
	}

	p := &model.Progress{RecordID: rec.ID, HabitID: h.ID}
	if err := s.progress.Create(ctx, p); err != nil {
		s.logger.Error("Failed to add habit to today's record",
			zap.Int("habit_id", h.ID),
			zap.Int("record_id", rec.ID),
			zap.Error(err),
		)
		return
	}
	s.logger.Info("Habit added to today's record",
		zap.Int("habit_id", h.ID),
		zap.Int("record_id", rec.ID),
	)
}

func (s *HabitService) removeFromToday(ctx context.Context, h *model.Habit) {
	rec, err := s.todaysRecord(ctx, h.UserID)
	if err != nil || rec == nil {
		return
	}

	if err := s.progress.DeleteByRecordAndHabit(ctx, rec.ID, h.ID); err != nil {
		s.logger.Error("Failed to remove habit from today's record",
			zap.Int("habit_id", h.ID),
			zap.Int("record_id", rec.ID),
			zap.Error(err),
		)
		return
	}
	s.logger.Info("Habit removed from today's record",
		zap.Int("habit_id", h.ID),
		zap.Int("record_id", rec.ID),
	)
}

func (s *HabitService) todaysRecord(ctx context.Context, userID int) (*model.Record, error) {
	today := s.now().Format(schedule.DateLayout)
	rec, err := s.records.FindByUserAndDate(ctx, userID, today)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		s.logger.Error("Failed to look up today's record",
			zap.Int("user_id", userID),
			zap.Error(err),
		)
		return nil, err
	}
	return rec, nil
}

func (s *HabitService) ownedHabit(ctx context.Context, habitID, callerID int) (*model.Habit, error) {
	h, err := s.habits.FindByID(ctx, habitID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("hábito no encontrado")
		}
		return nil, err
	}
	if h.UserID != callerID {
		return nil, apperr.Forbidden("el hábito pertenece a otro usuario")
	}
	return h, nil
}
