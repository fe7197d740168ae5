// Package schedule implements the temporal model for the puja display:
// clock-text parsing, lifecycle classification, display ordering and
// pagination. It is pure computation with no I/O; callers supply the
// current instant.
package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	// MinutesPerDay is the exclusive upper bound for a minute-of-day value.
	MinutesPerDay = 24 * 60

	// EndOfDayMinute is the effective end minute for events with no time
	// information at all (23:59).
	EndOfDayMinute = 23*60 + 59
)

// clockPattern matches the accepted clock-text grammar: hour digits, an
// optional ":minutes" part and an optional am/pm suffix that may be glued
// to the digits ("9am", "9:30 PM", "18:30").
var clockPattern = regexp.MustCompile(`^\s*(\d{1,2})(?::(\d{1,2}))?\s*([AaPp][Mm])?\s*$`)

// parseClock parses free-form clock text into minutes since midnight.
// The second return value reports whether the text matched the grammar
// with in-range hour/minute values.
func parseClock(text string) (int, bool) {
	m := clockPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}

	hour, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}

	minute := 0
	if m[2] != "" {
		minute, err = strconv.Atoi(m[2])
		if err != nil {
			return 0, false
		}
	}
	if minute > 59 {
		return 0, false
	}

	switch strings.ToLower(m[3]) {
	case "pm":
		if hour < 1 || hour > 12 {
			return 0, false
		}
		if hour != 12 {
			hour += 12
		}
	case "am":
		if hour < 1 || hour > 12 {
			return 0, false
		}
		if hour == 12 {
			hour = 0
		}
	default:
		// No suffix: digits are already 24-hour.
		if hour > 23 {
			return 0, false
		}
	}

	return hour*60 + minute, true
}

// ParseClock converts free-form clock text into minutes since midnight in
// [0, 1439]. Malformed or empty input parses as 0 (midnight): the admin UI
// accepts free text, and the display favors rendering something over
// rejecting a record.
func ParseClock(text string) int {
	min, ok := parseClock(text)
	if !ok {
		return 0
	}
	return min
}

// FormatClock renders clock text back as a canonical 12-hour string with an
// AM/PM suffix, omitting the minute component when exactly on the hour
// ("9 AM", "9:05 PM"). Malformed or empty input formats as "".
func FormatClock(text string) string {
	min, ok := parseClock(text)
	if !ok {
		return ""
	}
	return FormatMinutes(min)
}

// FormatMinutes renders a minute-of-day value as "H[:MM] AM/PM".
func FormatMinutes(min int) string {
	if min < 0 || min >= MinutesPerDay {
		return ""
	}

	hour := min / 60
	minute := min % 60

	meridiem := "AM"
	if hour >= 12 {
		meridiem = "PM"
	}

	hour12 := hour % 12
	if hour12 == 0 {
		hour12 = 12
	}

	if minute == 0 {
		return fmt.Sprintf("%d %s", hour12, meridiem)
	}
	return fmt.Sprintf("%d:%02d %s", hour12, minute, meridiem)
}

// To24Hour converts clock text to the "HH:MM:SS" form required by stores
// that keep times in 24-hour columns. Malformed input yields "00:00:00",
// consistent with the midnight fallback in ParseClock.
func To24Hour(text string) string {
	min := ParseClock(text)
	return fmt.Sprintf("%02d:%02d:00", min/60, min%60)
}
