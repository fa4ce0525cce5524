package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestRecordView(t *testing.T) {
	tests := []struct {
		name   string
		record Record
		want   SessionView
	}{
		{
			name: "closed",
			record: Record{
				ID: 1, Case: "acme", Task: "会議", Contents: "standup",
				StartTime: "2024-05-01 09:00:00", EndTime: ptr("2024-05-01 09:15:30"),
			},
			want: SessionView{Case: "acme", Task: "会議", Contents: "standup",
				StartTimeOfDay: "09:00:00", EndTimeOfDay: "09:15:30"},
		},
		{
			name: "open",
			record: Record{
				ID: 2, Case: "acme", Task: "コーディング",
				StartTime: "2024-05-01 10:00:00",
			},
			want: SessionView{Case: "acme", Task: "コーディング", StartTimeOfDay: "10:00:00"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.record.View())
		})
	}
}

func TestRecordTimes(t *testing.T) {
	r := Record{StartTime: "2024-05-01 09:00:00"}
	assert.True(t, r.IsOpen())

	start, err := r.StartedAt()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 9, 0, 0, 0, time.Local), start)

	_, ok, err := r.FinishedAt()
	require.NoError(t, err)
	assert.False(t, ok)

	r.EndTime = ptr("2024-05-01 17:30:00")
	assert.False(t, r.IsOpen())
	end, ok, err := r.FinishedAt()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 8*time.Hour+30*time.Minute, end.Sub(start))
}

func TestFormatTimeDropsSubseconds(t *testing.T) {
	ts := time.Date(2024, 12, 31, 23, 59, 59, 999_000_000, time.Local)
	assert.Equal(t, "2024-12-31 23:59:59", FormatTime(ts))
}
