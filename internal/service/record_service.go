package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"habitud/internal/apperr"
	"habitud/internal/model"
	"habitud/internal/repository"
	"habitud/internal/schedule"
	"habitud/pkg/metrics"
)

// RecordService owns record materialization and progress mutation.
type RecordService struct {
	records  RecordStore
	progress ProgressStore
	habits   HabitStore
	users    UserStore
	logger   *zap.Logger
	now      func() time.Time
}

func NewRecordService(records RecordStore, progress ProgressStore, habits HabitStore, users UserStore, logger *zap.Logger) *RecordService {
	return &RecordService{
		records:  records,
		progress: progress,
		habits:   habits,
		users:    users,
		logger:   logger,
		now:      time.Now,
	}
}

// GetOrCreateForDate returns the user's record for a date, creating it on
// first access together with one progress row per habit scheduled that day.
// Future dates are gated by the user's ver_futuro preference.
func (s *RecordService) GetOrCreateForDate(ctx context.Context, userID int, date string) (*model.RecordWithProgress, error) {
	day, err := schedule.ParseDate(date)
	if err != nil {
		return nil, apperr.Invalid("formato de fecha inválido, use YYYY-MM-DD")
	}

	today := s.now().Format(schedule.DateLayout)
	if date > today {
		u, err := s.users.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperr.NotFound("usuario no encontrado")
			}
			return nil, err
		}
		if !u.CanViewFuture {
			return nil, apperr.Forbidden("no puedes ver fechas futuras")
		}
	}

	rec, err := s.records.FindByUserAndDate(ctx, userID, date)
	switch {
	case err == nil:
		return s.withProgress(ctx, rec)
	case errors.Is(err, pgx.ErrNoRows):
		// First access: materialize below.
	default:
		return nil, err
	}

	seeds, err := s.seedProgress(ctx, userID, day)
	if err != nil {
		return nil, err
	}

	rec = &model.Record{UserID: userID, Date: date}
	err = s.records.CreateWithProgress(ctx, rec, seeds)
	if err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			// Lost the create race; the winner's rows are what we want.
			metrics.IncrementRecordsMaterialized("race_lost")
			rec, err = s.records.FindByUserAndDate(ctx, userID, date)
			if err != nil {
				return nil, err
			}
			return s.withProgress(ctx, rec)
		}
		return nil, err
	}

	metrics.IncrementRecordsMaterialized("created")
	return &model.RecordWithProgress{Record: *rec, Progress: seeds}, nil
}

// seedProgress builds the initial progress rows for a new record: one per
// active habit that already existed on the given day and is scheduled for
// its weekday. A habit with a corrupt schedule is skipped, never fatal.
func (s *RecordService) seedProgress(ctx context.Context, userID int, day time.Time) ([]model.Progress, error) {
	habits, err := s.habits.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	letter := schedule.DayLetter(day)
	date := day.Format(schedule.DateLayout)

	seeds := []model.Progress{}
	for _, h := range habits {
		if h.CreatedAt.Format(schedule.DateLayout) > date {
			continue
		}
		days, err := schedule.ParseDays(h.Days)
		if err != nil {
			s.logger.Warn("Skipping habit with unparseable schedule",
				zap.Int("habit_id", h.ID),
				zap.String("days", h.Days),
				zap.Error(err),
			)
			continue
		}
		if schedule.Contains(days, letter) {
			seeds = append(seeds, model.Progress{HabitID: h.ID})
		}
	}
	return seeds, nil
}

func (s *RecordService) withProgress(ctx context.Context, rec *model.Record) (*model.RecordWithProgress, error) {
	list, err := s.progress.ListByRecord(ctx, rec.ID)
	if err != nil {
		return nil, err
	}
	return &model.RecordWithProgress{Record: *rec, Progress: list}, nil
}

// GetByID returns one record owned by the caller.
func (s *RecordService) GetByID(ctx context.Context, recordID, callerID int) (*model.Record, error) {
	rec, err := s.ownedRecord(ctx, recordID, callerID)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListForUser returns all of a user's records, newest first.
func (s *RecordService) ListForUser(ctx context.Context, userID int) ([]model.Record, error) {
	return s.records.ListByUser(ctx, userID)
}

// UpdateNotes merges a notes patch into the record.
func (s *RecordService) UpdateNotes(ctx context.Context, recordID, callerID int, patch model.RecordPatch) (*model.Record, error) {
	rec, err := s.ownedRecord(ctx, recordID, callerID)
	if err != nil {
		return nil, err
	}

	patch.Apply(rec)
	if err := s.records.Update(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Delete removes a record and, via schema cascade, its progress rows.
func (s *RecordService) Delete(ctx context.Context, recordID, callerID int) error {
	if _, err := s.ownedRecord(ctx, recordID, callerID); err != nil {
		return err
	}
	return s.records.Delete(ctx, recordID)
}

// UpdateProgress merges a (value, completed) patch into one progress entry.
func (s *RecordService) UpdateProgress(ctx context.Context, progressID, callerID int, patch model.ProgressPatch) (*model.Progress, error) {
	p, err := s.ownedProgress(ctx, progressID, callerID)
	if err != nil {
		return nil, err
	}

	patch.Apply(p)
	if err := s.progress.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ToggleProgress flips completion: to completed with value set to the
// habit's daily goal, or back to zero. A dangling habit reference falls
// back to goal 1.
func (s *RecordService) ToggleProgress(ctx context.Context, progressID, callerID int) (*model.Progress, error) {
	p, err := s.ownedProgress(ctx, progressID, callerID)
	if err != nil {
		return nil, err
	}

	if p.Completed {
		p.Completed = false
		p.Value = 0
	} else {
		goal := 1.0
		if h, err := s.habits.FindByID(ctx, p.HabitID); err == nil {
			goal = h.DailyGoal
		}
		p.Completed = true
		p.Value = goal
	}

	if err := s.progress.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *RecordService) ownedRecord(ctx context.Context, recordID, callerID int) (*model.Record, error) {
	rec, err := s.records.FindByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("registro no encontrado")
		}
		return nil, err
	}
	if rec.UserID != callerID {
		return nil, apperr.Forbidden("el registro pertenece a otro usuario")
	}
	return rec, nil
}

func (s *RecordService) ownedProgress(ctx context.Context, progressID, callerID int) (*model.Progress, error) {
	p, err := s.progress.FindByID(ctx, progressID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("progreso no encontrado")
		}
		return nil, err
	}

	rec, err := s.records.FindByID(ctx, p.RecordID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("registro no encontrado")
		}
		return nil, err
	}
	if rec.UserID != callerID {
		return nil, apperr.Forbidden("el progreso pertenece a otro usuario")
	}
	return p, nil
}
