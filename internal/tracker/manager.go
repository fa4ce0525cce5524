// Package tracker enforces the start/end protocol on top of the Store.
//
// At most one session is open at a time. Start first closes whatever session
// is still open, then opens the new one. The two steps are separate commits:
// a crash in between leaves the old session closed and nothing open.
// Concurrent processes sharing one storage file are not coordinated.
package tracker

import (
	"fmt"
	"strings"
	"time"

	"github.com/balkashynov/record/internal/db"
	recerr "github.com/balkashynov/record/internal/errors"
	"github.com/balkashynov/record/internal/logging"
	"github.com/balkashynov/record/internal/models"
	"github.com/balkashynov/record/internal/parser"
)

// SessionStore is the part of db.Store the manager drives.
type SessionStore interface {
	InsertOpenSession(caseName, task, contents string) (uint, error)
	TryCloseLatest() (db.CloseResult, error)
	CloseLatestOpenSession() (uint, error)
	ListSessionsForDay(day time.Time) ([]models.SessionView, error)
	OpenSession() (*models.Record, error)
}

// Manager runs the session lifecycle.
type Manager struct {
	store SessionStore
	log   *logging.Logger
	now   func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the trace logger.
func WithLogger(l *logging.Logger) Option {
	return func(m *Manager) { m.log = l.With("component", "tracker") }
}

// WithClock sets the clock used to resolve "today".
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// New returns a Manager on top of store.
func New(store SessionStore, opts ...Option) *Manager {
	m := &Manager{
		store: store,
		log:   logging.NopLogger(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start opens a new session, closing a forgotten open one first. The task
// keyword is checked before anything is written.
func (m *Manager) Start(caseName, keyword, contents string) (uint, error) {
	label, err := parser.TaskLabel(keyword)
	if err != nil {
		m.log.Info("rejected task keyword", "task", keyword)
		return 0, err
	}

	closed, err := m.store.TryCloseLatest()
	if err != nil {
		return 0, fmt.Errorf("closing previous session: %w", err)
	}
	if closed.Closed {
		m.log.Info("auto-closed previous session", "id", closed.ID)
	} else {
		m.log.Debug("no open session to close")
	}

	id, err := m.store.InsertOpenSession(caseName, label, contents)
	if err != nil {
		return 0, fmt.Errorf("starting session: %w", err)
	}
	m.log.Info("started session", "id", id, "case", caseName, "task", label)
	return id, nil
}

// End closes the open session. With nothing open it returns a NoSessionError
// whose message is "no task has begun".
func (m *Manager) End() (uint, error) {
	id, err := m.store.CloseLatestOpenSession()
	if err != nil {
		if recerr.IsNoSession(err) {
			m.log.Info("end requested with no open session")
		}
		return 0, err
	}
	m.log.Info("ended session", "id", id)
	return id, nil
}

// Current returns the open session, or nil when idle.
func (m *Manager) Current() (*models.Record, error) {
	return m.store.OpenSession()
}

// ListToday renders today's sessions, see ListDay.
func (m *Manager) ListToday(displayName string) ([]string, error) {
	return m.ListDay(m.now(), displayName)
}

// ListDay renders every session started on day as a tab-separated line:
// date, name, start, end, case, task, contents. The end column is empty for
// an open session.
func (m *Manager) ListDay(day time.Time, displayName string) ([]string, error) {
	if strings.TrimSpace(displayName) == "" {
		return nil, recerr.NewConfigError("name", "display name is required", recerr.ErrMissingConfig)
	}

	views, err := m.store.ListSessionsForDay(day)
	if err != nil {
		return nil, err
	}

	date := day.Format(models.DayLayout)
	lines := make([]string, 0, len(views))
	for _, v := range views {
		lines = append(lines, FormatLine(date, displayName, v))
	}
	return lines, nil
}

// FormatLine renders one listing row.
func FormatLine(date, displayName string, v models.SessionView) string {
	return strings.Join([]string{
		date,
		displayName,
		v.StartTimeOfDay,
		v.EndTimeOfDay,
		v.Case,
		v.Task,
		v.Contents,
	}, "\t")
}
