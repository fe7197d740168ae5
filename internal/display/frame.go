package display

import (
	"time"

	"pujadisplay/internal/log"
	"pujadisplay/internal/model"
)

// Placeholder is what the display shows when there is nothing to render:
// no active events, or the last fetch failed.
const Placeholder = "No upcoming pujas"

// Frame is one fully computed display state. The featured block holds
// events whose date range covers the current calendar date; Slide is the
// currently visible page of the upcoming list. Clients position the
// carousel from Page/PageCount and their own live container measurements;
// the frame deliberately carries no pixel geometry.
type Frame struct {
	Generated time.Time    `json:"generated"`
	Featured  []model.Puja `json:"featured"`
	Upcoming  []model.Puja `json:"upcoming"`
	Slide     []model.Puja `json:"slide"`
	Page      int          `json:"page"`
	PageCount int          `json:"pageCount"`
	// Placeholder is non-empty when the frame has nothing to show.
	Placeholder string `json:"placeholder,omitempty"`
}

// Empty reports whether the frame renders the placeholder.
func (f Frame) Empty() bool {
	return f.Placeholder != ""
}

// Renderer is the controller's output sink. Render is called with a fresh
// frame after every fetch, rotation tick and midnight recompute; it must
// not block, and it must not call back into the controller.
type Renderer interface {
	Render(Frame)
}

// RenderFunc adapts a function to the Renderer interface.
type RenderFunc func(Frame)

func (f RenderFunc) Render(frame Frame) { f(frame) }

// LogRenderer writes a one-line summary of each frame at debug level.
// Useful as a default sink and when diagnosing rotation behavior in the
// field.
type LogRenderer struct{}

func (LogRenderer) Render(f Frame) {
	if f.Empty() {
		log.Debug("render frame", "placeholder", f.Placeholder)
		return
	}
	log.Debug("render frame",
		"featured", len(f.Featured),
		"upcoming", len(f.Upcoming),
		"page", f.Page,
		"pages", f.PageCount,
	)
}
