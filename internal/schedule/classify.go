package schedule

import (
	"time"

	"pujadisplay/internal/model"
)

// Status is the lifecycle state of an event relative to a given instant.
type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusLive      Status = "live"
	StatusCompleted Status = "completed"
)

// dateLayout is the calendar-date wire format used throughout the system.
const dateLayout = "2006-01-02"

// Classification is the derived temporal view of one puja. It is recomputed
// on every evaluation and never persisted.
type Classification struct {
	Status Status
	Start  time.Time // effective start instant
	End    time.Time // effective end instant
}

// Classify computes a puja's lifecycle state and effective start/end
// instants relative to now, in now's location.
//
// The effective start is StartDate + StartTime (00:00 when absent). The
// effective end is EndDate (or StartDate) + EndTime, falling back to
// StartTime and finally to 23:59 when no time is given at all. When start
// and end fall on the same date but the end minute is strictly earlier than
// the start minute, the end rolls to the next calendar day; this is how
// overnight events (10 PM–1 AM) are expressed upstream.
//
// A missing or malformed StartDate is a data-entry precondition owned by
// the admin surface and is not guarded here.
func Classify(p model.Puja, now time.Time) Classification {
	loc := now.Location()

	startDay, _ := time.ParseInLocation(dateLayout, p.StartDate, loc)
	endDay := startDay
	if p.EndDate != "" {
		endDay, _ = time.ParseInLocation(dateLayout, p.EndDate, loc)
	}

	startMin := 0
	if p.StartTime != "" {
		startMin = ParseClock(p.StartTime)
	}

	endMin := EndOfDayMinute
	switch {
	case p.EndTime != "":
		endMin = ParseClock(p.EndTime)
	case p.StartTime != "":
		endMin = ParseClock(p.StartTime)
	}

	if endDay.Equal(startDay) && endMin < startMin {
		endDay = endDay.AddDate(0, 0, 1)
	}

	start := startDay.Add(time.Duration(startMin) * time.Minute)
	end := endDay.Add(time.Duration(endMin) * time.Minute)

	status := StatusLive
	switch {
	case now.Before(start):
		status = StatusUpcoming
	case now.After(end):
		status = StatusCompleted
	}

	return Classification{Status: status, Start: start, End: end}
}

// OccursOn reports whether the puja's date range [StartDate, EndDate]
// contains the given day's calendar date. The comparison is textual:
// "YYYY-MM-DD" strings order the same way the dates do.
func OccursOn(p model.Puja, day time.Time) bool {
	d := day.Format(dateLayout)
	return p.StartDate <= d && d <= p.EffectiveEndDate()
}
