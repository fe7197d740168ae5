package web

import (
	"net/http"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	applog "pujadisplay/internal/log"
	"pujadisplay/internal/model"
	"pujadisplay/internal/schedule"
)

// handleICSFeed exports the active schedule as an iCalendar feed, so the
// temple's events can be subscribed to from regular calendar apps.
func (s *Server) handleICSFeed(w http.ResponseWriter, r *http.Request) {
	pujas, err := s.st.ListActivePujas(r.Context())
	if err != nil {
		applog.Error("ics feed: list failed", err)
		writeError(w, http.StatusInternalServerError, "Failed to load pujas")
		return
	}

	loc, err := time.LoadLocation(s.cfg.Timezone)
	if err != nil {
		loc = time.Local
	}
	now := time.Now().In(loc)

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//pujadisplay//schedule//EN")

	for _, p := range pujas {
		c := schedule.Classify(p, now)

		ev := cal.AddEvent(p.ID)
		ev.SetDtStampTime(now)
		ev.SetSummary(p.Title)

		if p.StartTime == "" && p.EndTime == "" {
			// No time information: an all-day event (or run of days).
			ev.SetAllDayStartAt(c.Start)
			// DTEND is exclusive for all-day events.
			ev.SetAllDayEndAt(c.End.Add(time.Minute))
		} else {
			ev.SetStartAt(c.Start)
			ev.SetEndAt(c.End)
		}

		if desc := detailsDescription(p.Details); desc != "" {
			ev.SetDescription(desc)
		}
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(cal.Serialize()))
}

// detailsDescription flattens the sub-agenda into one description, each
// line formatted with the display clock form.
func detailsDescription(details []model.Detail) string {
	lines := make([]string, 0, len(details))
	for _, d := range details {
		if d.Name == "" {
			continue
		}
		if t := schedule.FormatClock(d.Time); t != "" {
			lines = append(lines, t+" "+d.Name)
		} else {
			lines = append(lines, d.Name)
		}
	}
	return strings.Join(lines, "\n")
}
