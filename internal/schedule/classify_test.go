package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pujadisplay/internal/model"
)

func at(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.ParseInLocation("2006-01-02 15:04", value, time.UTC)
	require.NoError(t, err)
	return ts
}

func TestClassifyLifecycle(t *testing.T) {
	p := model.Puja{
		Title:     "Morning Aarti",
		StartDate: "2026-08-28",
		StartTime: "9:00 am",
		EndTime:   "10:00 am",
	}

	assert.Equal(t, StatusUpcoming, Classify(p, at(t, "2026-08-28 08:59")).Status)
	assert.Equal(t, StatusLive, Classify(p, at(t, "2026-08-28 09:00")).Status)
	assert.Equal(t, StatusLive, Classify(p, at(t, "2026-08-28 09:30")).Status)
	assert.Equal(t, StatusLive, Classify(p, at(t, "2026-08-28 10:00")).Status)
	assert.Equal(t, StatusCompleted, Classify(p, at(t, "2026-08-28 10:01")).Status)
}

func TestClassifyOvernightRollover(t *testing.T) {
	p := model.Puja{
		StartDate: "2026-08-28",
		EndDate:   "2026-08-28",
		StartTime: "10:00 pm",
		EndTime:   "1:00 am",
	}

	c := Classify(p, at(t, "2026-08-28 23:30"))
	assert.Equal(t, StatusLive, c.Status)
	assert.Equal(t, at(t, "2026-08-29 01:00"), c.End)

	assert.Equal(t, StatusLive, Classify(p, at(t, "2026-08-29 00:30")).Status)
	assert.Equal(t, StatusCompleted, Classify(p, at(t, "2026-08-29 01:30")).Status)
}

func TestClassifyNoTimesSpansWholeDay(t *testing.T) {
	p := model.Puja{StartDate: "2026-08-28"}

	assert.Equal(t, StatusUpcoming, Classify(p, at(t, "2026-08-27 18:00")).Status)
	assert.Equal(t, StatusLive, Classify(p, at(t, "2026-08-28 00:00")).Status)
	assert.Equal(t, StatusLive, Classify(p, at(t, "2026-08-28 23:59")).Status)
	assert.Equal(t, StatusCompleted, Classify(p, at(t, "2026-08-29 00:00")).Status)
}

func TestClassifyEndDateDefaultsToStartDate(t *testing.T) {
	p := model.Puja{StartDate: "2026-08-28", StartTime: "2:00 pm"}

	c := Classify(p, at(t, "2026-08-28 14:00"))
	// Only a start time: the event's window collapses to that instant.
	assert.Equal(t, c.Start, c.End)
	assert.Equal(t, StatusLive, c.Status)
}

func TestClassifyMultiDay(t *testing.T) {
	p := model.Puja{
		StartDate: "2026-08-28",
		EndDate:   "2026-08-30",
		StartTime: "6:00 pm",
		EndTime:   "8:00 pm",
	}

	// End minute earlier than start minute is fine across distinct dates;
	// no rollover applies.
	c := Classify(p, at(t, "2026-08-29 12:00"))
	assert.Equal(t, at(t, "2026-08-28 18:00"), c.Start)
	assert.Equal(t, at(t, "2026-08-30 20:00"), c.End)
	assert.Equal(t, StatusLive, c.Status)
}

func TestOccursOn(t *testing.T) {
	p := model.Puja{StartDate: "2026-08-28", EndDate: "2026-08-30"}

	assert.False(t, OccursOn(p, at(t, "2026-08-27 23:59")))
	assert.True(t, OccursOn(p, at(t, "2026-08-28 00:00")))
	assert.True(t, OccursOn(p, at(t, "2026-08-29 12:00")))
	assert.True(t, OccursOn(p, at(t, "2026-08-30 23:59")))
	assert.False(t, OccursOn(p, at(t, "2026-08-31 00:00")))

	single := model.Puja{StartDate: "2026-08-28"}
	assert.True(t, OccursOn(single, at(t, "2026-08-28 15:00")))
	assert.False(t, OccursOn(single, at(t, "2026-08-29 15:00")))
}
