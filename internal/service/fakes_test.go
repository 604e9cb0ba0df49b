package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"habitud/internal/model"
	"habitud/internal/repository"
)

// memDB backs the in-memory fakes below so service logic runs without
// Postgres. Each fake implements one of the store interfaces.
type memDB struct {
	seq     int
	users   map[int]model.User
	cats    map[int]model.Category
	habits  map[int]model.Habit
	records map[int]model.Record
	prog    map[int]model.Progress
	subs    map[int]model.PushSubscription
}

func newMemDB() *memDB {
	return &memDB{
		users:   map[int]model.User{},
		cats:    map[int]model.Category{},
		habits:  map[int]model.Habit{},
		records: map[int]model.Record{},
		prog:    map[int]model.Progress{},
		subs:    map[int]model.PushSubscription{},
	}
}

func (d *memDB) nextID() int {
	d.seq++
	return d.seq
}

type fakeUsers struct{ db *memDB }

func (f *fakeUsers) Create(_ context.Context, u *model.User) error {
	for _, other := range f.db.users {
		if other.Email == u.Email || other.Name == u.Name {
			return repository.ErrUniqueViolation
		}
	}
	u.ID = f.db.nextID()
	u.CreatedAt = time.Now()
	f.db.users[u.ID] = *u
	return nil
}

func (f *fakeUsers) FindByID(_ context.Context, id int) (*model.User, error) {
	u, ok := f.db.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &u, nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.db.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUsers) FindByName(_ context.Context, name string) (*model.User, error) {
	for _, u := range f.db.users {
		if u.Name == name {
			u := u
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUsers) Update(_ context.Context, u *model.User) error {
	if _, ok := f.db.users[u.ID]; !ok {
		return pgx.ErrNoRows
	}
	for _, other := range f.db.users {
		if other.ID != u.ID && (other.Email == u.Email || other.Name == u.Name) {
			return repository.ErrUniqueViolation
		}
	}
	f.db.users[u.ID] = *u
	return nil
}

func (f *fakeUsers) Delete(_ context.Context, id int) error {
	if _, ok := f.db.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.db.users, id)
	return nil
}

func (f *fakeUsers) ListWithRemindersEnabled(_ context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range f.db.users {
		if u.RemindersEnabled {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeCategories struct{ db *memDB }

func (f *fakeCategories) Create(_ context.Context, c *model.Category) error {
	for _, other := range f.db.cats {
		if other.Name == c.Name {
			return repository.ErrUniqueViolation
		}
	}
	c.ID = f.db.nextID()
	c.CreatedAt = time.Now()
	f.db.cats[c.ID] = *c
	return nil
}

func (f *fakeCategories) FindByID(_ context.Context, id int) (*model.Category, error) {
	c, ok := f.db.cats[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &c, nil
}

func (f *fakeCategories) List(_ context.Context) ([]model.Category, error) {
	var out []model.Category
	for _, c := range f.db.cats {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeCategories) Update(_ context.Context, c *model.Category) error {
	if _, ok := f.db.cats[c.ID]; !ok {
		return pgx.ErrNoRows
	}
	for _, other := range f.db.cats {
		if other.ID != c.ID && other.Name == c.Name {
			return repository.ErrUniqueViolation
		}
	}
	f.db.cats[c.ID] = *c
	return nil
}

func (f *fakeCategories) Delete(_ context.Context, id int) error {
	if _, ok := f.db.cats[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.db.cats, id)
	return nil
}

type fakeHabits struct{ db *memDB }

func (f *fakeHabits) Create(_ context.Context, h *model.Habit) error {
	h.ID = f.db.nextID()
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now()
	}
	f.db.habits[h.ID] = *h
	return nil
}

func (f *fakeHabits) FindByID(_ context.Context, id int) (*model.Habit, error) {
	h, ok := f.db.habits[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &h, nil
}

func (f *fakeHabits) ListByUser(_ context.Context, userID int) ([]model.Habit, error) {
	var out []model.Habit
	for _, h := range f.db.habits {
		if h.UserID == userID {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeHabits) ListActiveByUser(ctx context.Context, userID int) ([]model.Habit, error) {
	all, _ := f.ListByUser(ctx, userID)
	out := all[:0]
	for _, h := range all {
		if h.Active {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeHabits) Update(_ context.Context, h *model.Habit) error {
	if _, ok := f.db.habits[h.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.db.habits[h.ID] = *h
	return nil
}

func (f *fakeHabits) DeleteWithProgress(_ context.Context, habitID int) error {
	if _, ok := f.db.habits[habitID]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.db.habits, habitID)
	for id, p := range f.db.prog {
		if p.HabitID == habitID {
			delete(f.db.prog, id)
		}
	}
	return nil
}

type fakeRecords struct {
	db *memDB

	// onCreate runs just before CreateWithProgress inserts, letting a test
	// slip a competing record in to exercise the unique-violation path.
	onCreate func()
}

func (f *fakeRecords) FindByID(_ context.Context, id int) (*model.Record, error) {
	r, ok := f.db.records[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &r, nil
}

func (f *fakeRecords) FindByUserAndDate(_ context.Context, userID int, date string) (*model.Record, error) {
	for _, r := range f.db.records {
		if r.UserID == userID && r.Date == date {
			r := r
			return &r, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeRecords) CreateWithProgress(ctx context.Context, rec *model.Record, seeds []model.Progress) error {
	if f.onCreate != nil {
		f.onCreate()
	}
	for _, r := range f.db.records {
		if r.UserID == rec.UserID && r.Date == rec.Date {
			return repository.ErrUniqueViolation
		}
	}
	rec.ID = f.db.nextID()
	rec.CreatedAt = time.Now()
	f.db.records[rec.ID] = *rec
	for i := range seeds {
		seeds[i].ID = f.db.nextID()
		seeds[i].RecordID = rec.ID
		f.db.prog[seeds[i].ID] = seeds[i]
	}
	return nil
}

func (f *fakeRecords) ListByUser(_ context.Context, userID int) ([]model.Record, error) {
	var out []model.Record
	for _, r := range f.db.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

func (f *fakeRecords) ListDatesInRange(_ context.Context, userID int, from, to string) ([]string, error) {
	var out []string
	for _, r := range f.db.records {
		if r.UserID == userID && r.Date >= from && r.Date <= to {
			out = append(out, r.Date)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (f *fakeRecords) Update(_ context.Context, rec *model.Record) error {
	if _, ok := f.db.records[rec.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.db.records[rec.ID] = *rec
	return nil
}

func (f *fakeRecords) Delete(_ context.Context, id int) error {
	if _, ok := f.db.records[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.db.records, id)
	for pid, p := range f.db.prog {
		if p.RecordID == id {
			delete(f.db.prog, pid)
		}
	}
	return nil
}

type fakeProgress struct{ db *memDB }

func (f *fakeProgress) FindByID(_ context.Context, id int) (*model.Progress, error) {
	p, ok := f.db.prog[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &p, nil
}

func (f *fakeProgress) FindByRecordAndHabit(_ context.Context, recordID, habitID int) (*model.Progress, error) {
	for _, p := range f.db.prog {
		if p.RecordID == recordID && p.HabitID == habitID {
			p := p
			return &p, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeProgress) ListByRecord(_ context.Context, recordID int) ([]model.Progress, error) {
	var out []model.Progress
	for _, p := range f.db.prog {
		if p.RecordID == recordID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeProgress) Create(_ context.Context, p *model.Progress) error {
	p.ID = f.db.nextID()
	p.CreatedAt = time.Now()
	f.db.prog[p.ID] = *p
	return nil
}

func (f *fakeProgress) Update(_ context.Context, p *model.Progress) error {
	if _, ok := f.db.prog[p.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.db.prog[p.ID] = *p
	return nil
}

func (f *fakeProgress) DeleteByRecordAndHabit(_ context.Context, recordID, habitID int) error {
	for id, p := range f.db.prog {
		if p.RecordID == recordID && p.HabitID == habitID {
			delete(f.db.prog, id)
		}
	}
	return nil
}

func (f *fakeProgress) CountCompletedByDate(_ context.Context, userID int, from, to string) (map[string]int, error) {
	out := map[string]int{}
	for _, p := range f.db.prog {
		if !p.Completed {
			continue
		}
		r, ok := f.db.records[p.RecordID]
		if !ok || r.UserID != userID || r.Date < from || r.Date > to {
			continue
		}
		out[r.Date]++
	}
	return out, nil
}

func (f *fakeProgress) CompletedDatesByHabit(_ context.Context, userID int, from, to string) (map[int]map[string]bool, error) {
	out := map[int]map[string]bool{}
	for _, p := range f.db.prog {
		if !p.Completed {
			continue
		}
		r, ok := f.db.records[p.RecordID]
		if !ok || r.UserID != userID || r.Date < from || r.Date > to {
			continue
		}
		if out[p.HabitID] == nil {
			out[p.HabitID] = map[string]bool{}
		}
		out[p.HabitID][r.Date] = true
	}
	return out, nil
}

type fakeSubscriptions struct{ db *memDB }

func (f *fakeSubscriptions) FindByEndpoint(_ context.Context, endpoint string) (*model.PushSubscription, error) {
	for _, s := range f.db.subs {
		if s.Endpoint == endpoint {
			s := s
			return &s, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeSubscriptions) Create(_ context.Context, s *model.PushSubscription) error {
	for _, other := range f.db.subs {
		if other.Endpoint == s.Endpoint {
			return repository.ErrUniqueViolation
		}
	}
	s.ID = f.db.nextID()
	s.CreatedAt = time.Now()
	f.db.subs[s.ID] = *s
	return nil
}

func (f *fakeSubscriptions) Update(_ context.Context, s *model.PushSubscription) error {
	if _, ok := f.db.subs[s.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.db.subs[s.ID] = *s
	return nil
}

func (f *fakeSubscriptions) DeleteByEndpointAndUser(_ context.Context, endpoint string, userID int) error {
	for id, s := range f.db.subs {
		if s.Endpoint == endpoint && s.UserID == userID {
			delete(f.db.subs, id)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeSubscriptions) CountActiveByUser(_ context.Context, userID int) (int, error) {
	n := 0
	for _, s := range f.db.subs {
		if s.UserID == userID && s.Active {
			n++
		}
	}
	return n, nil
}

// fakeNotifier records every published event.
type fakeNotifier struct {
	published []publishedEvent
	err       error
}

type publishedEvent struct {
	routingKey string
	payload    any
}

func (f *fakeNotifier) Publish(routingKey string, payload any) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, publishedEvent{routingKey: routingKey, payload: payload})
	return nil
}

// fakeGuard mirrors the redis SetNX behavior in memory.
type fakeGuard struct {
	acquired map[string]bool
}

func newFakeGuard() *fakeGuard {
	return &fakeGuard{acquired: map[string]bool{}}
}

func (f *fakeGuard) AcquireOnce(_ context.Context, userID int, localDate string) bool {
	key := fmt.Sprintf("%d:%s", userID, localDate)
	if f.acquired[key] {
		return false
	}
	f.acquired[key] = true
	return true
}
