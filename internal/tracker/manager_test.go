package tracker

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/record/internal/db"
	recerr "github.com/balkashynov/record/internal/errors"
	"github.com/balkashynov/record/internal/models"
)

// fakeStore keeps records in memory and logs every call.
type fakeStore struct {
	records  []models.Record
	calls    []string
	closeErr error
}

func (f *fakeStore) InsertOpenSession(caseName, task, contents string) (uint, error) {
	f.calls = append(f.calls, "insert")
	id := uint(len(f.records) + 1)
	f.records = append(f.records, models.Record{ID: id, Case: caseName, Task: task, Contents: contents,
		StartTime: "2024-05-01 09:00:00"})
	return id, nil
}

func (f *fakeStore) TryCloseLatest() (db.CloseResult, error) {
	f.calls = append(f.calls, "try-close")
	if f.closeErr != nil {
		return db.CloseResult{}, f.closeErr
	}
	if len(f.records) == 0 || !f.records[len(f.records)-1].IsOpen() {
		return db.CloseResult{}, nil
	}
	latest := &f.records[len(f.records)-1]
	end := "2024-05-01 10:00:00"
	latest.EndTime = &end
	return db.CloseResult{ID: latest.ID, Closed: true}, nil
}

func (f *fakeStore) CloseLatestOpenSession() (uint, error) {
	f.calls = append(f.calls, "close")
	result, err := f.TryCloseLatest()
	f.calls = f.calls[:len(f.calls)-1]
	if err != nil {
		return 0, err
	}
	if !result.Closed {
		return 0, recerr.NewNoSessionError()
	}
	return result.ID, nil
}

func (f *fakeStore) ListSessionsForDay(day time.Time) ([]models.SessionView, error) {
	f.calls = append(f.calls, "list")
	views := []models.SessionView{}
	for i := range f.records {
		views = append(views, f.records[i].View())
	}
	return views, nil
}

func (f *fakeStore) OpenSession() (*models.Record, error) {
	f.calls = append(f.calls, "open")
	if len(f.records) == 0 || !f.records[len(f.records)-1].IsOpen() {
		return nil, nil
	}
	r := f.records[len(f.records)-1]
	return &r, nil
}

func TestStartRejectsUnknownKeywordBeforeStorage(t *testing.T) {
	store := &fakeStore{}
	m := New(store)

	_, err := m.Start("acme", "unknown-keyword", "notes")

	var ve *recerr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Empty(t, store.calls)
	assert.Empty(t, store.records)
}

func TestStartClosesBeforeInserting(t *testing.T) {
	store := &fakeStore{}
	m := New(store)

	id, err := m.Start("acme", "coding", "fix bug")
	require.NoError(t, err)
	assert.Equal(t, uint(1), id)
	assert.Equal(t, []string{"try-close", "insert"}, store.calls)
	assert.Equal(t, "コーディング", store.records[0].Task)

	_, err = m.Start("acme", "meeting", "standup")
	require.NoError(t, err)
	assert.False(t, store.records[0].IsOpen())
	assert.True(t, store.records[1].IsOpen())
}

func TestStartStopsOnCloseFailure(t *testing.T) {
	store := &fakeStore{closeErr: recerr.NewStorageError("close latest session", recerr.New("locked"))}
	m := New(store)

	_, err := m.Start("acme", "coding", "fix bug")

	var se *recerr.StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, []string{"try-close"}, store.calls)
}

func TestEndWithNothingOpen(t *testing.T) {
	store := &fakeStore{}
	m := New(store)

	_, err := m.End()
	require.Error(t, err)
	assert.True(t, recerr.IsNoSession(err))
	assert.Equal(t, "no task has begun", err.Error())
	assert.True(t, recerr.IsUserFacing(err))
}

func TestListDayFormatting(t *testing.T) {
	end := "2024-05-01 09:30:00"
	store := &fakeStore{records: []models.Record{
		{ID: 1, Case: "acme", Task: "会議", Contents: "standup", StartTime: "2024-05-01 09:00:00", EndTime: &end},
		{ID: 2, Case: "acme", Task: "コーディング", Contents: "fix bug", StartTime: "2024-05-01 09:30:00"},
	}}
	m := New(store)

	lines, err := m.ListDay(time.Date(2024, time.May, 1, 12, 0, 0, 0, time.Local), "hotoku")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"2024-05-01\thotoku\t09:00:00\t09:30:00\tacme\t会議\tstandup",
		"2024-05-01\thotoku\t09:30:00\t\tacme\tコーディング\tfix bug",
	}, lines)
}

func TestListRequiresDisplayName(t *testing.T) {
	store := &fakeStore{}
	m := New(store)

	_, err := m.ListToday("")
	var ce *recerr.ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Empty(t, store.calls)
}

func TestCurrent(t *testing.T) {
	store := &fakeStore{}
	m := New(store)

	cur, err := m.Current()
	require.NoError(t, err)
	assert.Nil(t, cur)

	_, err = m.Start("acme", "trip", "osaka")
	require.NoError(t, err)
	cur, err = m.Current()
	require.NoError(t, err)
	require.NotNil(t, cur)
	assert.Equal(t, "出張", cur.Task)
}

// The remaining tests run against a real sqlite file.

type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

func newManager(t *testing.T) (*Manager, *db.Store, *clock) {
	t.Helper()
	c := &clock{t: time.Date(2024, time.May, 1, 9, 0, 0, 0, time.Local)}
	store, err := db.Initialize(filepath.Join(t.TempDir(), "db.sqlite"), db.WithClock(c.Now))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return New(store, WithClock(c.Now)), store, c
}

func TestSessionLifecycleScenario(t *testing.T) {
	m, store, c := newManager(t)

	_, err := m.Start("acme", "coding", "fix bug")
	require.NoError(t, err)
	open, err := store.OpenSession()
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Equal(t, "acme", open.Case)

	c.t = c.t.Add(45 * time.Minute)
	_, err = m.Start("acme", "meeting", "standup")
	require.NoError(t, err)

	views, err := store.ListSessionsForDay(c.t)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "09:45:00", views[0].EndTimeOfDay)
	assert.Equal(t, "acme", views[1].Case)
	assert.Equal(t, "会議", views[1].Task)
	assert.Empty(t, views[1].EndTimeOfDay)

	c.t = c.t.Add(15 * time.Minute)
	_, err = m.End()
	require.NoError(t, err)

	lines, err := m.ListToday("hotoku")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"2024-05-01\thotoku\t09:00:00\t09:45:00\tacme\tコーディング\tfix bug",
		"2024-05-01\thotoku\t09:45:00\t10:00:00\tacme\t会議\tstandup",
	}, lines)
}

func TestAutoCloseKeepsPreviousFields(t *testing.T) {
	m, store, c := newManager(t)

	first, err := m.Start("O'Brien", "review", `PR "42"`)
	require.NoError(t, err)
	c.t = c.t.Add(time.Hour)
	second, err := m.Start("globex", "analysis", "capacity")
	require.NoError(t, err)
	assert.Greater(t, second, first)

	views, err := store.ListSessionsForDay(c.t)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, models.SessionView{
		Case: "O'Brien", Task: "レビュー", Contents: `PR "42"`,
		StartTimeOfDay: "09:00:00", EndTimeOfDay: "10:00:00",
	}, views[0])
	assert.Equal(t, models.SessionView{
		Case: "globex", Task: "分析・検討・調査", Contents: "capacity",
		StartTimeOfDay: "10:00:00",
	}, views[1])
}

func TestAtMostOneOpenSession(t *testing.T) {
	m, store, c := newManager(t)

	ops := []string{"start", "start", "end", "end", "start", "end", "start", "start", "start", "end"}
	for i, op := range ops {
		c.t = c.t.Add(time.Minute)
		switch op {
		case "start":
			_, err := m.Start("acme", "moving", "")
			require.NoError(t, err, "step %d", i)
		case "end":
			_, err := m.End()
			if err != nil {
				require.True(t, recerr.IsNoSession(err), "step %d: %v", i, err)
			}
		}

		views, err := store.ListSessionsForDay(c.t)
		require.NoError(t, err)
		open := 0
		for _, v := range views {
			if v.EndTimeOfDay == "" {
				open++
			}
		}
		assert.LessOrEqual(t, open, 1, "step %d", i)
	}
}

func TestEndOnFreshStore(t *testing.T) {
	m, store, c := newManager(t)

	_, err := m.End()
	assert.True(t, recerr.IsNoSession(err))

	views, err := store.ListSessionsForDay(c.t)
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestUnknownKeywordWritesNothing(t *testing.T) {
	m, store, c := newManager(t)

	_, err := m.Start("acme", "unknown-keyword", "notes")
	var ve *recerr.ValidationError
	require.ErrorAs(t, err, &ve)

	views, err := store.ListSessionsForDay(c.t)
	require.NoError(t, err)
	assert.Empty(t, views)
}
