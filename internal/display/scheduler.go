package display

import (
	"time"

	"github.com/robfig/cron/v3"
)

// StopFunc cancels a scheduled callback. Calling it more than once is safe.
type StopFunc func()

// Scheduler abstracts time for the controller: the current instant,
// fixed-interval schedules, the local-midnight schedule and one-shot
// timers. Tests inject a manual implementation and drive it
// deterministically; production uses the cron-backed scheduler below.
type Scheduler interface {
	Now() time.Time
	// Every runs f at a fixed interval, first firing one interval from now.
	Every(d time.Duration, f func()) StopFunc
	// AtMidnight runs f at every local midnight.
	AtMidnight(f func()) StopFunc
	// After runs f once, d from now.
	After(d time.Duration, f func()) StopFunc
}

// CronScheduler implements Scheduler on wall-clock time. Recurring entries
// (poll, midnight) run on a cron instance pinned to the display timezone,
// so the midnight entry fires at actual local midnight including across
// DST transitions; one-shot timers use time.AfterFunc.
type CronScheduler struct {
	loc  *time.Location
	cron *cron.Cron
}

// NewCronScheduler creates and starts a scheduler in the given location.
func NewCronScheduler(loc *time.Location) *CronScheduler {
	if loc == nil {
		loc = time.Local
	}
	c := cron.New(cron.WithLocation(loc))
	c.Start()
	return &CronScheduler{loc: loc, cron: c}
}

func (s *CronScheduler) Now() time.Time {
	return time.Now().In(s.loc)
}

func (s *CronScheduler) Every(d time.Duration, f func()) StopFunc {
	id := s.cron.Schedule(cron.Every(d), cron.FuncJob(f))
	return func() { s.cron.Remove(id) }
}

func (s *CronScheduler) AtMidnight(f func()) StopFunc {
	// Standard 5-field expression: minute 0, hour 0, every day.
	id, err := s.cron.AddFunc("0 0 * * *", f)
	if err != nil {
		// The expression above is a constant; this cannot happen.
		return func() {}
	}
	return func() { s.cron.Remove(id) }
}

func (s *CronScheduler) After(d time.Duration, f func()) StopFunc {
	t := time.AfterFunc(d, f)
	return func() { t.Stop() }
}

// Close stops the underlying cron runner. Already-running jobs finish.
func (s *CronScheduler) Close() {
	s.cron.Stop()
}
