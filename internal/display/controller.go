// Package display drives the public screens: it polls the event source,
// classifies and orders the snapshot, paginates the upcoming list and
// rotates through its pages, recomputing everything at each local
// midnight. All timer work goes through an injected Scheduler so the loop
// can be driven deterministically in tests.
package display

import (
	"context"
	"errors"
	"sync"
	"time"

	"pujadisplay/internal/log"
	"pujadisplay/internal/model"
	"pujadisplay/internal/schedule"
	"pujadisplay/internal/source"
)

// Phase is the controller's lifecycle state.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseLoaded    Phase = "loaded"
	PhaseRendering Phase = "rendering"
	PhaseRotating  Phase = "rotating"
)

// Options tunes the controller's timers and pagination.
type Options struct {
	// PollInterval is the snapshot refresh interval.
	PollInterval time.Duration
	// RotateInterval is how long each upcoming page is shown.
	RotateInterval time.Duration
	// CardsPerSlide is the upcoming-list page size.
	CardsPerSlide int
}

func (o *Options) normalize() {
	if o.PollInterval <= 0 {
		o.PollInterval = 60 * time.Second
	}
	if o.RotateInterval <= 0 {
		o.RotateInterval = 5 * time.Second
	}
	if o.CardsPerSlide <= 0 {
		o.CardsPerSlide = 2
	}
}

// Controller owns the display loop: the current snapshot, the carousel
// page index and the three timers (poll, rotation, midnight). All state is
// guarded by one mutex; a completing fetch swaps the snapshot and resets
// the page index under the same lock acquisition, so a rotation tick can
// never observe a page index beyond the new snapshot's page count.
type Controller struct {
	src   source.Source
	sched Scheduler
	out   Renderer
	opts  Options

	mu           sync.Mutex
	phase        Phase
	upcoming     []model.Puja
	page         int
	pages        int
	frame        Frame
	stopPoll     StopFunc
	stopMidnight StopFunc
	stopRotate   StopFunc
	// rotateGen invalidates in-flight rotation ticks. Stopping a one-shot
	// timer cannot suppress a callback that has already fired and is
	// waiting on the mutex; such a tick carries a stale generation and is
	// dropped, so exactly one rotation loop is ever live.
	rotateGen uint64

	ctx context.Context
}

// New creates a Controller. out may be nil, in which case frames are only
// kept for Frame() readers (the web layer) and logged at debug level.
func New(src source.Source, sched Scheduler, out Renderer, opts Options) *Controller {
	opts.normalize()
	if out == nil {
		out = LogRenderer{}
	}
	return &Controller{
		src:   src,
		sched: sched,
		out:   out,
		opts:  opts,
		phase: PhaseIdle,
	}
}

// Start performs the first fetch and render, then arms the poll and
// midnight schedules. It is the display's single entry point; there is no
// other way to begin rendering.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.phase != PhaseIdle {
		c.mu.Unlock()
		return errors.New("display: controller already started")
	}
	c.ctx = ctx
	c.phase = PhaseLoaded
	c.mu.Unlock()

	c.Refresh()

	c.mu.Lock()
	c.stopPoll = c.sched.Every(c.opts.PollInterval, c.Refresh)
	// The poll alone would cross date boundaries up to a full interval
	// late; the midnight entry forces the recompute exactly on rollover,
	// since "today" grouping depends on the current date.
	c.stopMidnight = c.sched.AtMidnight(func() {
		log.Info("midnight rollover, recomputing display")
		c.Refresh()
	})
	c.mu.Unlock()

	return nil
}

// Stop cancels all timers and returns the controller to idle. It does not
// clear the last frame; a stopped display keeps showing it.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rotateGen++
	stopAll(&c.stopPoll, &c.stopMidnight, &c.stopRotate)
	c.phase = PhaseIdle
}

// Phase returns the controller's current lifecycle state.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Frame returns the most recently rendered frame.
func (c *Controller) Frame() Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frame
}

// Refresh runs one fetch cycle: snapshot, filter, order, partition,
// paginate, render. A failed fetch renders the placeholder but leaves all
// timers armed; the next poll tick is the retry.
func (c *Controller) Refresh() {
	c.mu.Lock()
	ctx := c.ctx
	c.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}

	snapshot, err := c.src.Snapshot(ctx)
	if err != nil {
		log.Error("snapshot fetch failed", err)
		c.publishEmpty()
		return
	}

	now := c.sched.Now()

	// Completed events are dropped here, upstream of ordering; the
	// ordering step itself never filters.
	visible := make([]model.Puja, 0, len(snapshot))
	for _, p := range snapshot {
		if schedule.Classify(p, now).Status != schedule.StatusCompleted {
			visible = append(visible, p)
		}
	}

	if len(visible) == 0 {
		c.publishEmpty()
		return
	}

	ordered := schedule.Order(visible, now)
	featured, upcoming := schedule.Partition(ordered, now)
	pages := schedule.PageCount(len(upcoming), c.opts.CardsPerSlide)

	// Empty partitions and pages serialize as [] on the wire, never null.
	if featured == nil {
		featured = []model.Puja{}
	}
	if upcoming == nil {
		upcoming = []model.Puja{}
	}
	slide := schedule.Page(upcoming, 0, c.opts.CardsPerSlide)
	if slide == nil {
		slide = []model.Puja{}
	}

	c.mu.Lock()
	c.phase = PhaseRendering
	c.upcoming = upcoming
	c.page = 0
	c.pages = pages
	// A fresh snapshot always restarts rotation from the first page so
	// the pagination state can never drift from the data. Bumping the
	// generation invalidates any rotation tick that already fired.
	c.rotateGen++
	stopAll(&c.stopRotate)
	if pages > 1 {
		gen := c.rotateGen
		c.stopRotate = c.sched.After(c.opts.RotateInterval, func() { c.rotateTick(gen) })
		c.phase = PhaseRotating
	} else {
		c.phase = PhaseLoaded
	}
	frame := Frame{
		Generated: now,
		Featured:  featured,
		Upcoming:  upcoming,
		Slide:     slide,
		Page:      0,
		PageCount: pages,
	}
	c.frame = frame
	c.mu.Unlock()

	log.Info("snapshot refreshed",
		"count", len(visible),
		"featured", len(featured),
		"upcoming", len(upcoming),
		"pages", pages,
	)
	c.out.Render(frame)
}

// rotateTick advances the carousel one page, wrapping after the last, and
// re-arms itself with the same generation. A tick whose generation no
// longer matches fired before its timer was stopped; it must neither
// advance the page nor re-arm, otherwise a second rotation loop starts.
func (c *Controller) rotateTick(gen uint64) {
	c.mu.Lock()
	if gen != c.rotateGen || c.phase != PhaseRotating || c.pages <= 1 {
		c.mu.Unlock()
		return
	}

	c.page = schedule.NextPage(c.page, c.pages)
	c.frame.Page = c.page
	c.frame.Slide = schedule.Page(c.upcoming, c.page, c.opts.CardsPerSlide)
	frame := c.frame
	c.stopRotate = c.sched.After(c.opts.RotateInterval, func() { c.rotateTick(gen) })
	c.mu.Unlock()

	c.out.Render(frame)
}

// publishEmpty renders the placeholder frame and stops rotation. Poll and
// midnight timers stay armed.
func (c *Controller) publishEmpty() {
	now := c.sched.Now()

	c.mu.Lock()
	c.rotateGen++
	stopAll(&c.stopRotate)
	c.upcoming = nil
	c.page = 0
	c.pages = 0
	c.phase = PhaseLoaded
	frame := Frame{
		Generated:   now,
		Featured:    []model.Puja{},
		Upcoming:    []model.Puja{},
		Slide:       []model.Puja{},
		Placeholder: Placeholder,
	}
	c.frame = frame
	c.mu.Unlock()

	c.out.Render(frame)
}

func stopAll(stops ...*StopFunc) {
	for _, s := range stops {
		if *s != nil {
			(*s)()
			*s = nil
		}
	}
}
