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

type analyticsFixture struct {
	db      *memDB
	habits  *fakeHabits
	records *fakeRecords
	prog    *fakeProgress
	svc     *AnalyticsService
}

func newAnalyticsFixture(t *testing.T) *analyticsFixture {
	t.Helper()
	db := newMemDB()
	f := &analyticsFixture{
		db:      db,
		habits:  &fakeHabits{db: db},
		records: &fakeRecords{db: db},
		prog:    &fakeProgress{db: db},
	}
	f.svc = NewAnalyticsService(f.habits, f.prog, zap.NewNop())
	return f
}

func (f *analyticsFixture) addHabit(t *testing.T, userID int, name, days string, created time.Time) *model.Habit {
	t.Helper()
	h := &model.Habit{UserID: userID, Name: name, Days: days, Active: true, CreatedAt: created}
	require.NoError(t, f.habits.Create(context.Background(), h))
	return h
}

// complete records a completed progress row for (habit, date).
func (f *analyticsFixture) complete(t *testing.T, userID, habitID int, date string) {
	t.Helper()
	rec, err := f.records.FindByUserAndDate(context.Background(), userID, date)
	if err != nil {
		rec = &model.Record{UserID: userID, Date: date}
		require.NoError(t, f.records.CreateWithProgress(context.Background(), rec, nil))
	}
	p := &model.Progress{RecordID: rec.ID, HabitID: habitID, Completed: true, Value: 1}
	require.NoError(t, f.prog.Create(context.Background(), p))
}

var analyticsCreated = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

func TestDailyPerformance_EveryDateInRange(t *testing.T) {
	f := newAnalyticsFixture(t)
	daily := f.addHabit(t, 1, "agua", `["L","M","X","J","V","S","D"]`, analyticsCreated)
	f.addHabit(t, 1, "gym", `["L","X","V"]`, analyticsCreated)

	f.complete(t, 1, daily.ID, "2025-06-02") // Monday

	// Monday .. Sunday
	out, err := f.svc.DailyPerformance(context.Background(), 1, "2025-06-02", "2025-06-08")
	require.NoError(t, err)
	require.Len(t, out, 7, "one entry per date, gaps included")

	assert.Equal(t, "2025-06-02", out[0].Date)
	assert.Equal(t, 2, out[0].Scheduled) // both habits on Monday
	assert.Equal(t, 1, out[0].Completed)

	assert.Equal(t, 1, out[1].Scheduled) // Tuesday: daily only
	assert.Equal(t, 0, out[1].Completed)

	for _, day := range out {
		assert.LessOrEqual(t, day.Completed, day.Scheduled)
	}
}

func TestDailyPerformance_HabitCreatedMidRange(t *testing.T) {
	f := newAnalyticsFixture(t)
	f.addHabit(t, 1, "nuevo", `["L","M","X","J","V","S","D"]`,
		time.Date(2025, time.June, 5, 0, 0, 0, 0, time.UTC))

	out, err := f.svc.DailyPerformance(context.Background(), 1, "2025-06-02", "2025-06-08")
	require.NoError(t, err)

	assert.Equal(t, 0, out[0].Scheduled, "before creation")
	assert.Equal(t, 0, out[2].Scheduled, "day before creation")
	assert.Equal(t, 1, out[3].Scheduled, "creation day counts")
	assert.Equal(t, 1, out[6].Scheduled)
}

func TestDailyPerformance_CorruptScheduleSkipped(t *testing.T) {
	f := newAnalyticsFixture(t)
	f.addHabit(t, 1, "roto", `garbage`, analyticsCreated)
	f.addHabit(t, 1, "bueno", `["X"]`, analyticsCreated)

	out, err := f.svc.DailyPerformance(context.Background(), 1, "2025-06-04", "2025-06-04")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 1, out[0].Scheduled, "corrupt habit ignored, query succeeds")
}

func TestDailyPerformance_BadRange(t *testing.T) {
	f := newAnalyticsFixture(t)
	_, err := f.svc.DailyPerformance(context.Background(), 1, "ayer", "2025-06-08")
	assert.Equal(t, apperr.KindInvalid, apperr.KindOf(err))
	_, err = f.svc.DailyPerformance(context.Background(), 1, "2025-06-02", "")
	assert.Equal(t, apperr.KindInvalid, apperr.KindOf(err))
}

func TestHabitCompliance(t *testing.T) {
	f := newAnalyticsFixture(t)
	gym := f.addHabit(t, 1, "gym", `["L","X","V"]`, analyticsCreated)
	agua := f.addHabit(t, 1, "agua", `["L","M","X","J","V","S","D"]`, analyticsCreated)
	f.addHabit(t, 1, "finde", `["S","D"]`, analyticsCreated)

	f.complete(t, 1, gym.ID, "2025-06-02")  // Monday
	f.complete(t, 1, gym.ID, "2025-06-04")  // Wednesday
	f.complete(t, 1, agua.ID, "2025-06-03") // Tuesday

	// Monday .. Friday: the weekend habit never applies and is omitted.
	out, err := f.svc.HabitCompliance(context.Background(), 1, "2025-06-02", "2025-06-06")
	require.NoError(t, err)
	require.Len(t, out, 2)

	// Sorted by habit name.
	assert.Equal(t, "agua", out[0].HabitName)
	assert.Equal(t, 5, out[0].Total)
	assert.Equal(t, 1, out[0].Completed)
	assert.Equal(t, "2025-06-02", out[0].Date, "earliest applicable date in range")

	assert.Equal(t, "gym", out[1].HabitName)
	assert.Equal(t, 3, out[1].Total) // Mon, Wed, Fri
	assert.Equal(t, 2, out[1].Completed)
}

func TestHabitCompliance_RespectsCreationDate(t *testing.T) {
	f := newAnalyticsFixture(t)
	h := f.addHabit(t, 1, "nuevo", `["L","M","X","J","V","S","D"]`,
		time.Date(2025, time.June, 5, 0, 0, 0, 0, time.UTC))
	f.complete(t, 1, h.ID, "2025-06-06")

	out, err := f.svc.HabitCompliance(context.Background(), 1, "2025-06-02", "2025-06-08")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 4, out[0].Total, "June 5 through 8 only")
	assert.Equal(t, 1, out[0].Completed)
	assert.Equal(t, "2025-06-05", out[0].Date)
}
