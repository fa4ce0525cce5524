package models

import (
	"time"
)

// Timestamp layouts used in the records table. Times are local wall clock at
// second precision.
const (
	TimeLayout  = "2006-01-02 15:04:05"
	DayLayout   = "2006-01-02"
	ClockLayout = "15:04:05"
)

// Record is one work session. A nil EndTime means the session is still open.
type Record struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	Case      string  `gorm:"column:case;not null" json:"case"`
	Task      string  `gorm:"not null" json:"task"`
	Contents  string  `json:"contents"`
	StartTime string  `gorm:"not null" json:"start_time"`
	EndTime   *string `json:"end_time"`
}

// TableName keeps the table name stable regardless of naming strategy.
func (Record) TableName() string {
	return "records"
}

// Columns lists the columns of the records table in declaration order.
var Columns = []string{"id", "case", "task", "contents", "start_time", "end_time"}

// IsOpen reports whether the session has not been ended yet.
func (r *Record) IsOpen() bool {
	return r.EndTime == nil
}

// StartedAt parses StartTime in the local zone.
func (r *Record) StartedAt() (time.Time, error) {
	return time.ParseInLocation(TimeLayout, r.StartTime, time.Local)
}

// FinishedAt parses EndTime in the local zone. ok is false for open sessions.
func (r *Record) FinishedAt() (t time.Time, ok bool, err error) {
	if r.EndTime == nil {
		return time.Time{}, false, nil
	}
	t, err = time.ParseInLocation(TimeLayout, *r.EndTime, time.Local)
	return t, err == nil, err
}

// View reduces the record to its listing form.
func (r *Record) View() SessionView {
	v := SessionView{
		Case:           r.Case,
		Task:           r.Task,
		Contents:       r.Contents,
		StartTimeOfDay: clockOf(r.StartTime),
	}
	if r.EndTime != nil {
		v.EndTimeOfDay = clockOf(*r.EndTime)
	}
	return v
}

// SessionView is a record as shown in a day listing: time of day only.
type SessionView struct {
	Case           string `json:"case"`
	Task           string `json:"task"`
	Contents       string `json:"contents"`
	StartTimeOfDay string `json:"start_time"`
	EndTimeOfDay   string `json:"end_time"` // empty while open
}

// clockOf drops the date part of a stored timestamp.
func clockOf(ts string) string {
	t, err := time.ParseInLocation(TimeLayout, ts, time.Local)
	if err != nil {
		return ts
	}
	return t.Format(ClockLayout)
}

// FormatTime renders t the way the records table stores it.
func FormatTime(t time.Time) string {
	return t.Local().Format(TimeLayout)
}
