package db

import (
	"errors"
	"time"

	"gorm.io/gorm"

	recerr "github.com/balkashynov/record/internal/errors"
	"github.com/balkashynov/record/internal/models"
)

// CloseResult is the outcome of TryCloseLatest. Closed is false when there was
// nothing to close: the store is empty or its latest record is already closed.
type CloseResult struct {
	ID     uint
	Closed bool
}

// InsertOpenSession records the start of a new session and returns its id.
// Values are stored as given; callers validate them.
func (s *Store) InsertOpenSession(caseName, task, contents string) (uint, error) {
	record := models.Record{
		Case:      caseName,
		Task:      task,
		Contents:  contents,
		StartTime: models.FormatTime(s.now()),
	}

	s.log.Info("inserting start", "case", caseName, "task", task, "start_time", record.StartTime)
	if err := s.db.Create(&record).Error; err != nil {
		return 0, recerr.NewStorageError("insert open session", err)
	}

	return record.ID, nil
}

// TryCloseLatest sets end_time on the record with the highest id if it is
// still open. The lookup and the update commit together.
func (s *Store) TryCloseLatest() (CloseResult, error) {
	var result CloseResult

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var latest models.Record
		if err := tx.Last(&latest).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				s.log.Info("checking end: no record")
				return nil
			}
			return err
		}

		s.log.Debug("checking end", "id", latest.ID, "open", latest.IsOpen())
		if !latest.IsOpen() {
			return nil
		}

		endTime := models.FormatTime(s.now())
		res := tx.Model(&models.Record{}).
			Where("id = ? AND end_time IS NULL", latest.ID).
			Update("end_time", endTime)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 1 {
			s.log.Info("inserting end", "id", latest.ID, "end_time", endTime)
			result = CloseResult{ID: latest.ID, Closed: true}
		}
		return nil
	})
	if err != nil {
		return CloseResult{}, recerr.NewStorageError("close latest session", err)
	}

	return result, nil
}

// CloseLatestOpenSession closes the latest session and returns its id, or a
// NoSessionError when there is nothing open.
func (s *Store) CloseLatestOpenSession() (uint, error) {
	result, err := s.TryCloseLatest()
	if err != nil {
		return 0, err
	}
	if !result.Closed {
		return 0, recerr.NewNoSessionError()
	}
	return result.ID, nil
}

// ListSessionsForDay returns the sessions started on day's local calendar
// date, oldest first.
func (s *Store) ListSessionsForDay(day time.Time) ([]models.SessionView, error) {
	date := day.Format(models.DayLayout)

	var records []models.Record
	s.log.Info("list records", "day", date)
	err := s.db.Where("date(start_time) = ?", date).
		Order("id ASC").
		Find(&records).Error
	if err != nil {
		return nil, recerr.NewStorageError("list sessions for "+date, err)
	}

	views := make([]models.SessionView, 0, len(records))
	for i := range records {
		views = append(views, records[i].View())
	}
	return views, nil
}

// OpenSession returns the latest record if it is still open, nil otherwise.
func (s *Store) OpenSession() (*models.Record, error) {
	var latest models.Record
	err := s.db.Last(&latest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, recerr.NewStorageError("get open session", err)
	}
	if !latest.IsOpen() {
		return nil, nil
	}
	return &latest, nil
}
