package ui

import (
	"time"

	"github.com/dustin/go-humanize"
)

type footerState int

const (
	footerNever footerState = iota
	footerUpdated
	footerFailed
	footerUpdating
)

// footer tracks the "last updated" line and the live indicator.
type footer struct {
	state footerState
	last  time.Time
	live  bool
}

func (f *footer) succeeded(at time.Time) {
	f.state = footerUpdated
	f.last = at
	f.live = true
}

func (f *footer) failed() {
	f.state = footerFailed
	f.live = false
}

// polling marks a core poll in flight. Only "Never" and "Update Failed"
// turn into "Updating..."; a shown time stays until the answer arrives.
func (f *footer) polling() {
	if f.state == footerNever || f.state == footerFailed {
		f.state = footerUpdating
	}
}

func (f footer) text(now time.Time) string {
	switch f.state {
	case footerUpdated:
		return f.last.Local().Format("15:04:05") + " (" + humanize.RelTime(f.last, now, "ago", "from now") + ")"
	case footerFailed:
		return "Update Failed"
	case footerUpdating:
		return "Updating..."
	default:
		return "Never"
	}
}
