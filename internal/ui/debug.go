package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/abelbrown/flingwatch/internal/otel"
)

// debugPanelChrome is the number of lines DebugPanel's border and padding
// take. Keep in sync with DebugPanel.
const debugPanelChrome = 4

// debugOverlay renders poll and reconciliation counters plus recent events.
// Returns "" if ring is nil.
func debugOverlay(ring *otel.RingBuffer, width, height int) string {
	if ring == nil {
		return ""
	}

	stats := ring.Stats()
	recent := ring.Last(20)

	var lines []string
	lines = append(lines, DebugHeaderStyle.Render("Poll Stats"))
	lines = append(lines, fmt.Sprintf("  Polls:      %d started, %d complete, %d errors, %d skipped",
		stats[otel.KindPollStart], stats[otel.KindPollComplete], stats[otel.KindPollError], stats[otel.KindPollSkip]))
	lines = append(lines, fmt.Sprintf("  Feeds:      %d admits, %d trims, %d stale",
		stats[otel.KindFeedAdmit], stats[otel.KindFeedTrim], stats[otel.KindFeedStale]))
	lines = append(lines, fmt.Sprintf("  Prefs:      %d changes", stats[otel.KindPrefsSet]))
	lines = append(lines, fmt.Sprintf("  Buffer:     %d / %d events", ring.Len(), ring.Cap()))
	lines = append(lines, "")

	if errs := ring.LastWhere(3, func(e otel.Event) bool { return e.Level == otel.LevelError }); len(errs) > 0 {
		lines = append(lines, DebugHeaderStyle.Render("Last Errors"))
		for _, e := range errs {
			lines = append(lines, fmt.Sprintf("  %6s  %-6s %s", formatAge(time.Since(e.Time)), e.Feed, runewidth.Truncate(e.Err, 60, "…")))
		}
		lines = append(lines, "")
	}

	lines = append(lines, DebugHeaderStyle.Render("Recent Events"))
	for _, e := range recent {
		line := fmt.Sprintf("  %6s  %-14s", formatAge(time.Since(e.Time)), string(e.Kind))
		if e.Feed != "" {
			line += fmt.Sprintf("  %-6s #%d", e.Feed, e.Seq)
		}
		if e.Count > 0 {
			line += fmt.Sprintf("  n=%d", e.Count)
		}
		if d := e.Duration(); d > 0 {
			line += "  " + formatAge(d)
		}
		if e.Msg != "" {
			line += "  " + runewidth.Truncate(e.Msg, 30, "…")
		}
		if e.Err != "" {
			line += "  ERR:" + runewidth.Truncate(e.Err, 30, "…")
		}
		lines = append(lines, line)
	}

	maxHeight := height - debugPanelChrome
	if maxHeight < 1 {
		maxHeight = 1
	}
	if len(lines) > maxHeight {
		lines = lines[:maxHeight]
	}

	panelWidth := 86
	if panelWidth > width-4 {
		panelWidth = width - 4
	}
	if panelWidth < 20 {
		panelWidth = 20
	}

	return DebugPanel.Width(panelWidth).Render(strings.Join(lines, "\n"))
}

// formatAge formats a duration as a compact human string.
// Negative durations from clock skew clamp to "0ms".
func formatAge(d time.Duration) string {
	if d < 0 {
		return "0ms"
	}
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
}

// debugStatusBar renders the status bar for the debug overlay.
func debugStatusBar(width int) string {
	keys := StatusBarKey.Render("D") + StatusBarText.Render(":close")
	return StatusBar.Width(width).Render("  [DEBUG]  " + keys)
}
