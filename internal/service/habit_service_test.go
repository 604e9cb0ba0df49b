package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"habitud/internal/apperr"
	"habitud/internal/model"
)

type habitFixture struct {
	db      *memDB
	habits  *fakeHabits
	records *fakeRecords
	prog    *fakeProgress
	svc     *HabitService
}

func newHabitFixture(t *testing.T) *habitFixture {
	t.Helper()
	db := newMemDB()
	f := &habitFixture{
		db:      db,
		habits:  &fakeHabits{db: db},
		records: &fakeRecords{db: db},
		prog:    &fakeProgress{db: db},
	}
	f.svc = NewHabitService(f.habits, f.records, f.prog, zap.NewNop())
	f.svc.now = func() time.Time { return testToday }
	return f
}

// materializeToday creates today's record directly, as the record service
// would have.
func (f *habitFixture) materializeToday(t *testing.T, userID int, seeds []model.Progress) *model.Record {
	t.Helper()
	rec := &model.Record{UserID: userID, Date: testToday.Format("2006-01-02")}
	require.NoError(t, f.records.CreateWithProgress(context.Background(), rec, seeds))
	return rec
}

func TestHabitCreate_Validation(t *testing.T) {
	f := newHabitFixture(t)

	_, err := f.svc.Create(context.Background(), 1, HabitInput{Days: `["L"]`})
	assert.Equal(t, apperr.KindInvalid, apperr.KindOf(err), "name required")

	_, err = f.svc.Create(context.Background(), 1, HabitInput{Name: "leer", Days: `["Z"]`})
	assert.Equal(t, apperr.KindInvalid, apperr.KindOf(err), "unknown day letter")

	_, err = f.svc.Create(context.Background(), 1, HabitInput{Name: "leer", Days: `nope`})
	assert.Equal(t, apperr.KindInvalid, apperr.KindOf(err), "non-JSON days")
}

func TestHabitCreate_AddsToExistingTodayRecord(t *testing.T) {
	f := newHabitFixture(t)
	rec := f.materializeToday(t, 1, nil)

	h, err := f.svc.Create(context.Background(), 1, HabitInput{Name: "leer", Days: `["X"]`}) // today is Wednesday
	require.NoError(t, err)
	assert.True(t, h.Active, "active defaults to true")

	p, err := f.prog.FindByRecordAndHabit(context.Background(), rec.ID, h.ID)
	require.NoError(t, err)
	assert.False(t, p.Completed)
}

func TestHabitCreate_NoRecordTodayMeansNoProgress(t *testing.T) {
	f := newHabitFixture(t)

	_, err := f.svc.Create(context.Background(), 1, HabitInput{Name: "leer", Days: `["X"]`})
	require.NoError(t, err)

	assert.Empty(t, f.db.prog, "next materialization picks the habit up instead")
}

func TestHabitCreate_NotScheduledTodayNotAdded(t *testing.T) {
	f := newHabitFixture(t)
	f.materializeToday(t, 1, nil)

	_, err := f.svc.Create(context.Background(), 1, HabitInput{Name: "leer", Days: `["S","D"]`})
	require.NoError(t, err)

	assert.Empty(t, f.db.prog)
}

func TestHabitUpdate_LifecycleSyncsTodayRecord(t *testing.T) {
	f := newHabitFixture(t)
	rec := f.materializeToday(t, 1, nil)

	h, err := f.svc.Create(context.Background(), 1, HabitInput{Name: "leer", Days: `["X"]`})
	require.NoError(t, err)
	_, err = f.prog.FindByRecordAndHabit(context.Background(), rec.ID, h.ID)
	require.NoError(t, err)

	// Deactivation removes today's pending row.
	inactive := false
	_, err = f.svc.Update(context.Background(), h.ID, 1, model.HabitPatch{Active: &inactive})
	require.NoError(t, err)
	_, err = f.prog.FindByRecordAndHabit(context.Background(), rec.ID, h.ID)
	assert.Error(t, err)

	// Reactivation brings it back.
	active := true
	_, err = f.svc.Update(context.Background(), h.ID, 1, model.HabitPatch{Active: &active})
	require.NoError(t, err)
	_, err = f.prog.FindByRecordAndHabit(context.Background(), rec.ID, h.ID)
	assert.NoError(t, err)

	// Moving the schedule off today removes it again.
	weekend := `["S","D"]`
	_, err = f.svc.Update(context.Background(), h.ID, 1, model.HabitPatch{Days: &weekend})
	require.NoError(t, err)
	_, err = f.prog.FindByRecordAndHabit(context.Background(), rec.ID, h.ID)
	assert.Error(t, err)
}

func TestHabitUpdate_RejectsBadDays(t *testing.T) {
	f := newHabitFixture(t)
	h, err := f.svc.Create(context.Background(), 1, HabitInput{Name: "leer", Days: `["X"]`})
	require.NoError(t, err)

	bad := `["lunes"]`
	_, err = f.svc.Update(context.Background(), h.ID, 1, model.HabitPatch{Days: &bad})
	assert.Equal(t, apperr.KindInvalid, apperr.KindOf(err))

	stored, err := f.habits.FindByID(context.Background(), h.ID)
	require.NoError(t, err)
	assert.Equal(t, `["X"]`, stored.Days, "failed update must not persist")
}

func TestHabitDelete_RemovesProgressEverywhere(t *testing.T) {
	f := newHabitFixture(t)
	rec := f.materializeToday(t, 1, nil)

	h, err := f.svc.Create(context.Background(), 1, HabitInput{Name: "leer", Days: `["X"]`})
	require.NoError(t, err)
	_, err = f.prog.FindByRecordAndHabit(context.Background(), rec.ID, h.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(context.Background(), h.ID, 1))
	assert.Empty(t, f.db.habits)
	assert.Empty(t, f.db.prog)
}

func TestHabitOwnership(t *testing.T) {
	f := newHabitFixture(t)
	h, err := f.svc.Create(context.Background(), 1, HabitInput{Name: "leer", Days: `["X"]`})
	require.NoError(t, err)

	_, err = f.svc.GetByID(context.Background(), h.ID, 2)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	err = f.svc.Delete(context.Background(), h.ID, 2)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	_, err = f.svc.GetByID(context.Background(), 999, 1)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
