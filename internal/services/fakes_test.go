package services

import (
	"context"
	"sort"
	"time"

	"github.com/dmitrijs2005/domca/internal/common"
	"github.com/dmitrijs2005/domca/internal/ids"
	"github.com/dmitrijs2005/domca/internal/models"
	"github.com/dmitrijs2005/domca/internal/repositories/hydration"
	"github.com/dmitrijs2005/domca/internal/repositories/marks"
	"github.com/dmitrijs2005/domca/internal/repositories/schoolyears"
	"github.com/dmitrijs2005/domca/internal/repositories/sessions"
	"github.com/dmitrijs2005/domca/internal/repositories/subjects"
	"github.com/dmitrijs2005/domca/internal/repositories/teachers"
	"github.com/dmitrijs2005/domca/internal/repositories/users"
	"github.com/dmitrijs2005/domca/internal/timex"
	"github.com/dmitrijs2005/domca/internal/uow"
)

// memStore is an in-memory database. Repository writes are queued and only
// applied by SaveChanges, like the SQL unit of work.
type memStore struct {
	users    map[ids.UserID]models.UserState
	sessions map[ids.UserSessionID]models.UserSessionState
	records  map[ids.HydrationRecordID]models.HydrationRecordState
	teachers map[ids.TeacherID]models.Teacher
	years    map[ids.SchoolYearID]models.SchoolYear
	subjects map[ids.SubjectID]models.Subject
	marks    map[ids.MarkID]models.Mark

	pending []func()
	saves   int

	// Injected failures.
	readErr error
	saveErr error
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[ids.UserID]models.UserState{},
		sessions: map[ids.UserSessionID]models.UserSessionState{},
		records:  map[ids.HydrationRecordID]models.HydrationRecordState{},
		teachers: map[ids.TeacherID]models.Teacher{},
		years:    map[ids.SchoolYearID]models.SchoolYear{},
		subjects: map[ids.SubjectID]models.Subject{},
		marks:    map[ids.MarkID]models.Mark{},
	}
}

func (m *memStore) enqueue(f func()) { m.pending = append(m.pending, f) }

// --- unit of work ---

type memUoW struct{ m *memStore }

func (u memUoW) SaveChanges(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if u.m.saveErr != nil {
		return 0, u.m.saveErr
	}
	n := len(u.m.pending)
	for _, f := range u.m.pending {
		f()
	}
	u.m.pending = nil
	u.m.saves++
	return n, nil
}

func (u memUoW) Discard() { u.m.pending = nil }

// --- manager ---

type memManager struct{ m *memStore }

func (r memManager) RunMigrations(context.Context) error { return nil }
func (r memManager) Users() users.Repository             { return memUsers{r.m} }
func (r memManager) Sessions() sessions.Repository       { return memSessions{r.m} }
func (r memManager) Hydration() hydration.Repository     { return memHydration{r.m} }
func (r memManager) Teachers() teachers.Repository       { return memTeachers{r.m} }
func (r memManager) SchoolYears() schoolyears.Repository { return memYears{r.m} }
func (r memManager) Subjects() subjects.Repository       { return memSubjects{r.m} }
func (r memManager) Marks() marks.Repository             { return memMarks{r.m} }
func (r memManager) UnitOfWork() uow.UnitOfWork          { return memUoW{r.m} }

// --- users ---

type memUsers struct{ m *memStore }

func (r memUsers) load(st models.UserState) *models.User {
	var ss []*models.UserSession
	for _, s := range r.m.sessions {
		if s.UserID == st.ID {
			ss = append(ss, models.RestoreUserSession(s))
		}
	}
	var rs []*models.HydrationRecord
	for _, h := range r.m.records {
		if h.UserID == st.ID {
			rs = append(rs, models.RestoreHydrationRecord(h))
		}
	}
	return models.RestoreUser(st, ss, rs)
}

func (r memUsers) find(match func(models.UserState) bool) (*models.User, error) {
	if r.m.readErr != nil {
		return nil, r.m.readErr
	}
	for _, st := range r.m.users {
		if match(st) {
			return r.load(st), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r memUsers) GetByID(ctx context.Context, id ids.UserID) (*models.User, error) {
	return r.find(func(st models.UserState) bool { return st.ID == id })
}

func (r memUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	n := models.NormalizeEmail(email)
	return r.find(func(st models.UserState) bool { return st.EmailNormalized == n })
}

func (r memUsers) GetByUserName(ctx context.Context, userName string) (*models.User, error) {
	return r.find(func(st models.UserState) bool { return st.UserName == userName })
}

func (r memUsers) IsEmailUnique(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if err == common.ErrorNotFound {
		return true, nil
	}
	return false, err
}

func (r memUsers) Add(u *models.User) error { return r.Update(u) }
func (r memUsers) Remove(u *models.User) error {
	id := u.ID()
	r.m.enqueue(func() { delete(r.m.users, id) })
	return nil
}

func (r memUsers) Update(u *models.User) error {
	st := u.State()
	ss, rs := u.TakeAdded()
	r.m.enqueue(func() {
		r.m.users[st.ID] = st
		for _, s := range ss {
			r.m.sessions[s.ID()] = s.State()
		}
		for _, h := range rs {
			if _, ok := r.m.records[h.ID()]; !ok {
				r.m.records[h.ID()] = h.State()
			}
		}
	})
	return nil
}

// --- sessions ---

type memSessions struct{ m *memStore }

func (r memSessions) GetByID(ctx context.Context, id ids.UserSessionID) (*models.UserSession, error) {
	if st, ok := r.m.sessions[id]; ok {
		return models.RestoreUserSession(st), nil
	}
	return nil, common.ErrorNotFound
}

func (r memSessions) GetByToken(ctx context.Context, token string) (*models.UserSession, error) {
	if r.m.readErr != nil {
		return nil, r.m.readErr
	}
	for _, st := range r.m.sessions {
		if st.Token == token {
			return models.RestoreUserSession(st), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r memSessions) GetActiveByUserID(ctx context.Context, userID ids.UserID, now time.Time) ([]*models.UserSession, error) {
	var out []*models.UserSession
	for _, st := range r.m.sessions {
		if st.UserID == userID && st.ExpiresAt.After(now) {
			out = append(out, models.RestoreUserSession(st))
		}
	}
	return out, nil
}

func (r memSessions) Add(s *models.UserSession) error { return r.Update(s) }

func (r memSessions) Update(s *models.UserSession) error {
	st := s.State()
	r.m.enqueue(func() { r.m.sessions[st.ID] = st })
	return nil
}

func (r memSessions) Remove(s *models.UserSession) error {
	id := s.ID()
	r.m.enqueue(func() { delete(r.m.sessions, id) })
	return nil
}

func (r memSessions) RemoveRange(ss []*models.UserSession) error {
	for _, s := range ss {
		_ = r.Remove(s)
	}
	return nil
}

func (r memSessions) RemoveExpired(before time.Time) {
	r.m.enqueue(func() {
		for id, st := range r.m.sessions {
			if !st.ExpiresAt.After(before) {
				delete(r.m.sessions, id)
			}
		}
	})
}

// --- hydration ---

type memHydration struct{ m *memStore }

func (r memHydration) GetByID(ctx context.Context, id ids.HydrationRecordID) (*models.HydrationRecord, error) {
	if st, ok := r.m.records[id]; ok {
		return models.RestoreHydrationRecord(st), nil
	}
	return nil, common.ErrorNotFound
}

func (r memHydration) GetByUser(ctx context.Context, userID ids.UserID) ([]*models.HydrationRecord, error) {
	return r.GetByUserBetween(ctx, userID, time.Time{}, time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC))
}

func (r memHydration) GetByUserForDay(ctx context.Context, userID ids.UserID, day time.Time) ([]*models.HydrationRecord, error) {
	from := timex.StartOfDay(day)
	return r.GetByUserBetween(ctx, userID, from, from.AddDate(0, 0, 1))
}

func (r memHydration) GetByUserForWeek(ctx context.Context, userID ids.UserID, reference time.Time) ([]*models.HydrationRecord, error) {
	from := timex.StartOfWeek(reference)
	return r.GetByUserBetween(ctx, userID, from, from.AddDate(0, 0, 7))
}

func (r memHydration) GetByUserForMonth(ctx context.Context, userID ids.UserID, month time.Month, year int) ([]*models.HydrationRecord, error) {
	if month < time.January || month > time.December {
		return nil, common.NewInvalidArgumentError("month", "must be between 1 and 12")
	}
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return r.GetByUserBetween(ctx, userID, from, from.AddDate(0, 1, 0))
}

func (r memHydration) GetByUserForYear(ctx context.Context, userID ids.UserID, year int) ([]*models.HydrationRecord, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return r.GetByUserBetween(ctx, userID, from, from.AddDate(1, 0, 0))
}

func (r memHydration) GetByUserBetween(ctx context.Context, userID ids.UserID, from, to time.Time) ([]*models.HydrationRecord, error) {
	if r.m.readErr != nil {
		return nil, r.m.readErr
	}
	out := []*models.HydrationRecord{}
	for _, st := range r.m.records {
		if st.UserID == userID && !st.Date.Before(from) && st.Date.Before(to) {
			out = append(out, models.RestoreHydrationRecord(st))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date().Before(out[j].Date()) })
	return out, nil
}

func (r memHydration) Add(h *models.HydrationRecord) error {
	st := h.State()
	r.m.enqueue(func() { r.m.records[st.ID] = st })
	return nil
}

func (r memHydration) AddRange(hs []*models.HydrationRecord) error {
	for _, h := range hs {
		_ = r.Add(h)
	}
	return nil
}

func (r memHydration) Update(h *models.HydrationRecord) error { return r.Add(h) }

func (r memHydration) Remove(h *models.HydrationRecord) error {
	id := h.ID()
	r.m.enqueue(func() { delete(r.m.records, id) })
	return nil
}

// --- school ---

type memTeachers struct{ m *memStore }

func (r memTeachers) GetByID(ctx context.Context, id ids.TeacherID) (*models.Teacher, error) {
	if r.m.readErr != nil {
		return nil, r.m.readErr
	}
	if t, ok := r.m.teachers[id]; ok {
		t.Subjects = nil
		return &t, nil
	}
	return nil, common.ErrorNotFound
}

func (r memTeachers) Add(t *models.Teacher) error { return r.Update(t) }
func (r memTeachers) Update(t *models.Teacher) error {
	c := *t
	r.m.enqueue(func() { r.m.teachers[c.ID] = c })
	return nil
}

func (r memTeachers) Remove(t *models.Teacher) error {
	id := t.ID
	r.m.enqueue(func() { delete(r.m.teachers, id) })
	return nil
}

type memYears struct{ m *memStore }

func (r memYears) GetByID(ctx context.Context, id ids.SchoolYearID) (*models.SchoolYear, error) {
	if sy, ok := r.m.years[id]; ok {
		sy.Subjects = nil
		return &sy, nil
	}
	return nil, common.ErrorNotFound
}

func (r memYears) GetByStartYear(ctx context.Context, startYear int) (*models.SchoolYear, error) {
	if r.m.readErr != nil {
		return nil, r.m.readErr
	}
	for _, sy := range r.m.years {
		if sy.StartYear == startYear {
			sy.Subjects = nil
			return &sy, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r memYears) Add(sy *models.SchoolYear) error { return r.Update(sy) }
func (r memYears) Update(sy *models.SchoolYear) error {
	c := *sy
	r.m.enqueue(func() { r.m.years[c.ID] = c })
	return nil
}

func (r memYears) Remove(sy *models.SchoolYear) error {
	id := sy.ID
	r.m.enqueue(func() { delete(r.m.years, id) })
	return nil
}

type memSubjects struct{ m *memStore }

func (r memSubjects) GetByID(ctx context.Context, id ids.SubjectID) (*models.Subject, error) {
	if r.m.readErr != nil {
		return nil, r.m.readErr
	}
	s, ok := r.m.subjects[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	s.Marks = nil
	for _, mk := range r.m.marks {
		if mk.SubjectID == id {
			c := mk
			s.Marks = append(s.Marks, &c)
		}
	}
	return &s, nil
}

func (r memSubjects) list(match func(models.Subject) bool) ([]*models.Subject, error) {
	out := []*models.Subject{}
	for _, s := range r.m.subjects {
		if match(s) {
			c := s
			c.Marks = nil
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r memSubjects) GetBySchoolYear(ctx context.Context, id ids.SchoolYearID) ([]*models.Subject, error) {
	return r.list(func(s models.Subject) bool { return s.SchoolYearID == id })
}

func (r memSubjects) GetByTeacher(ctx context.Context, id ids.TeacherID) ([]*models.Subject, error) {
	return r.list(func(s models.Subject) bool { return s.TeacherID == id })
}

func (r memSubjects) Add(s *models.Subject) error { return r.Update(s) }
func (r memSubjects) Update(s *models.Subject) error {
	c := *s
	c.Marks = nil
	r.m.enqueue(func() { r.m.subjects[c.ID] = c })
	return nil
}

func (r memSubjects) Remove(s *models.Subject) error {
	id := s.ID
	r.m.enqueue(func() { delete(r.m.subjects, id) })
	return nil
}

type memMarks struct{ m *memStore }

func (r memMarks) GetByID(ctx context.Context, id ids.MarkID) (*models.Mark, error) {
	if mk, ok := r.m.marks[id]; ok {
		return &mk, nil
	}
	return nil, common.ErrorNotFound
}

func (r memMarks) GetBySubject(ctx context.Context, id ids.SubjectID) ([]*models.Mark, error) {
	out := []*models.Mark{}
	for _, mk := range r.m.marks {
		if mk.SubjectID == id {
			c := mk
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r memMarks) Add(mk *models.Mark) error { return r.Update(mk) }
func (r memMarks) Update(mk *models.Mark) error {
	c := *mk
	r.m.enqueue(func() { r.m.marks[c.ID] = c })
	return nil
}

func (r memMarks) Remove(mk *models.Mark) error {
	id := mk.ID
	r.m.enqueue(func() { delete(r.m.marks, id) })
	return nil
}
