package db

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	recerr "github.com/balkashynov/record/internal/errors"
	"github.com/balkashynov/record/internal/logging"
	"github.com/balkashynov/record/internal/models"
)

// Store owns the records table. It is opened once per process and handed to
// whoever needs it; there is no package-level connection.
type Store struct {
	db   *gorm.DB
	path string
	log  *logging.Logger
	now  func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the trace logger. The default discards everything.
func WithLogger(l *logging.Logger) Option {
	return func(s *Store) { s.log = l.With("component", "store") }
}

// WithClock replaces time.Now as the source of start and end times.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Setup opens the storage file at path, creating it and its schema first when
// it does not exist yet.
func Setup(path string, opts ...Option) (*Store, error) {
	_, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		return Initialize(path, opts...)
	case err != nil:
		return nil, recerr.NewStorageError("stat storage file", err)
	}
	return Open(path, opts...)
}

// Initialize creates the storage file, any missing parent directories and the
// records table. It fails with a SchemaError if the table is already there.
func Initialize(path string, opts ...Option) (*Store, error) {
	if err := ensureDir(path); err != nil {
		return nil, recerr.NewStorageError("create storage directory", err)
	}

	s, err := connect(path, opts...)
	if err != nil {
		return nil, err
	}

	m := s.db.Migrator()
	if m.HasTable(&models.Record{}) {
		s.Close()
		return nil, recerr.NewSchemaError(path, "cannot initialize", recerr.ErrSchemaExists)
	}

	s.log.Info("creating db", "path", path)
	if err := m.CreateTable(&models.Record{}); err != nil {
		s.Close()
		return nil, recerr.NewStorageError("create records table", err)
	}

	return s, nil
}

// Open connects to an existing storage file and checks that it holds the
// records table with every expected column.
func Open(path string, opts ...Option) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, recerr.NewStorageError("open storage file", err)
	}

	s, err := connect(path, opts...)
	if err != nil {
		return nil, err
	}

	if err := s.verifySchema(); err != nil {
		s.Close()
		return nil, err
	}

	s.log.Debug("opened db", "path", path)
	return s, nil
}

func connect(path string, opts ...Option) (*Store, error) {
	s := &Store{
		path: path,
		log:  logging.NopLogger(),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, recerr.NewStorageError("connect to database", err)
	}
	s.db = db
	return s, nil
}

// verifySchema compares the live table against models.Columns.
func (s *Store) verifySchema() error {
	if !s.db.Migrator().HasTable(&models.Record{}) {
		return recerr.NewSchemaError(s.path, "records table is missing", recerr.ErrSchemaMismatch)
	}

	var names []string
	if err := s.db.Raw("SELECT name FROM pragma_table_info(?)", models.Record{}.TableName()).
		Scan(&names).Error; err != nil {
		return recerr.NewStorageError("read table info", err)
	}

	present := make(map[string]bool, len(names))
	for _, name := range names {
		present[name] = true
	}
	for _, col := range models.Columns {
		if !present[col] {
			return recerr.NewSchemaError(s.path,
				fmt.Sprintf("records table has no %q column", col), recerr.ErrSchemaMismatch)
		}
	}
	return nil
}

// ensureDir creates the parent directory of path if needed.
func ensureDir(path string) error {
	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("path '%s' already exists and is not a directory", dir)
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// Path returns the storage file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
