package schedule

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"pujadisplay/internal/model"
)

// SortKey returns the fixed-width chronological key for a puja: the date
// digits followed by the zero-padded four-digit start minute-of-day
// ("20260828" + "0540"). Lexicographic comparison of these keys is
// equivalent to chronological comparison; the zero padding is what keeps
// that true, so both widths are load-bearing.
func SortKey(p model.Puja) string {
	date := strings.ReplaceAll(p.StartDate, "-", "")

	min := 0
	if p.StartTime != "" {
		min = ParseClock(p.StartTime)
	}

	return fmt.Sprintf("%s%04d", date, min)
}

// Order produces the display sequence: pujas whose date range contains
// now's calendar date first, then the remainder, each partition sorted
// ascending by SortKey. The sort is stable, so records with identical keys
// keep their snapshot order.
//
// Order does not drop anything; excluding completed events, when wanted,
// is done by filtering on Classify status before ordering.
func Order(pujas []model.Puja, now time.Time) []model.Puja {
	today := make([]model.Puja, 0, len(pujas))
	rest := make([]model.Puja, 0, len(pujas))

	for _, p := range pujas {
		if OccursOn(p, now) {
			today = append(today, p)
		} else {
			rest = append(rest, p)
		}
	}

	byKey := func(list []model.Puja) {
		sort.SliceStable(list, func(i, j int) bool {
			return SortKey(list[i]) < SortKey(list[j])
		})
	}
	byKey(today)
	byKey(rest)

	return append(today, rest...)
}

// Partition splits an ordered sequence into the featured block (date range
// covers now's calendar date) and the upcoming list (everything else). An
// event is never in both: the chronologically first event overall still
// lands in upcoming when it is not today's.
func Partition(ordered []model.Puja, now time.Time) (featured, upcoming []model.Puja) {
	for _, p := range ordered {
		if OccursOn(p, now) {
			featured = append(featured, p)
		} else {
			upcoming = append(upcoming, p)
		}
	}
	return featured, upcoming
}
