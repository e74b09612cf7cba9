// Package ui is the Bubble Tea dashboard. Poll results arrive as messages
// from the poll package; everything here runs on the Update goroutine.
package ui

// flashDone ends the "updated" highlight of one stat card. gen guards
// against an older timer clearing a newer flash.
type flashDone struct {
	card int
	gen  int
}

// copyReset restores the copy button label.
type copyReset struct {
	gen int
}

// frame is the next paint slot for the reservations view.
type frame struct{}
