// Package otel is flingwatch's structured event log.
//
// Events are serialized as JSONL lines by an async Logger. An optional
// RingBuffer keeps the most recent events in memory for the debug overlay.
package otel

import (
	"encoding/json"
	"time"
)

// Level defines event severity for filtering.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// EventKind identifies the category of an event.
// Dot-delimited: "<subsystem>.<action>".
type EventKind string

const (
	// Polling
	KindPollStart    EventKind = "poll.start"
	KindPollComplete EventKind = "poll.complete"
	KindPollError    EventKind = "poll.error"
	KindPollSkip     EventKind = "poll.skip"

	// Reconciliation
	KindFeedAdmit EventKind = "feed.admit"
	KindFeedTrim  EventKind = "feed.trim"
	KindFeedStale EventKind = "feed.stale"

	// Preferences
	KindPrefsSet   EventKind = "prefs.set"
	KindStoreError EventKind = "store.error"

	// UI
	KindKeyPress EventKind = "ui.key"
	KindCopy     EventKind = "ui.copy"

	// System
	KindStartup  EventKind = "sys.startup"
	KindShutdown EventKind = "sys.shutdown"
	KindError    EventKind = "sys.error"

	// Message tracing, only when FLINGWATCH_TRACE is set
	KindMsgReceived EventKind = "trace.msg_received"
)

// Event is the universal record. Every field except Kind and Time is
// optional.
type Event struct {
	Time      time.Time      `json:"t"`
	Level     Level          `json:"level,omitempty"`
	Kind      EventKind      `json:"kind"`
	Comp      string         `json:"comp,omitempty"` // "poll", "ui", "main", "fwctl"
	SessionID string         `json:"session_id,omitempty"`
	Feed      string         `json:"feed,omitempty"`  // "core", "flings", "chat"
	Seq       uint64         `json:"seq,omitempty"`   // request sequence number
	Cycle     string         `json:"cycle,omitempty"` // per-poll correlation id
	Dur       time.Duration  `json:"-"`
	DurMs     float64        `json:"dur_ms,omitempty"` // computed from Dur at marshal time
	Count     int            `json:"count,omitempty"`
	Mark      float64        `json:"mark,omitempty"` // high-water mark after the event
	Err       string         `json:"err,omitempty"`
	Msg       string         `json:"msg,omitempty"`
	Extra     map[string]any `json:"extra,omitempty"`
}

// MarshalJSON converts Dur to DurMs.
func (e Event) MarshalJSON() ([]byte, error) {
	type alias Event
	a := struct {
		alias
	}{alias: alias(e)}
	if e.Dur > 0 {
		a.DurMs = float64(e.Dur) / float64(time.Millisecond)
	}
	return json.Marshal(a)
}

// Duration returns Dur, falling back to DurMs for events read back from disk.
func (e Event) Duration() time.Duration {
	if e.Dur > 0 {
		return e.Dur
	}
	return time.Duration(e.DurMs * float64(time.Millisecond))
}
