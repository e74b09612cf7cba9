package reservations

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strings"
)

// Display texts shared with the dashboard.
const (
	TextLoading     = "Loading reservation data..."
	TextNone        = "No active reservations."
	TextNoData      = "No reservation data received."
	TextUnexpected  = "Received unexpected data format."
	TextEmptyObject = "No active reservations. (Empty object)"
	TextFailedFmt   = "Failed to load data: %s"
)

// Block is one rendered record.
type Block struct {
	Title string
	Body  string
}

// View holds the last reservations payload and decides when it must be
// re-rendered. It is not safe for concurrent use; the UI owns it.
type View struct {
	sort        SortKey
	highlighter *Highlighter

	loaded      bool
	fingerprint [sha256.Size]byte
	snap        Snapshot
	err         error

	pending bool
	blocks  []Block
	message string
}

// NewView creates a View sorted by key, highlighting with h. A nil
// highlighter renders plain text.
func NewView(key SortKey, h *Highlighter) *View {
	if _, ok := ParseSortKey(string(key)); !ok {
		key = SortTimestamp
	}
	return &View{sort: key, highlighter: h, message: TextLoading}
}

// Update records a new raw payload. It reports whether a render is needed:
// true on the first load, after an error, or when the payload changed.
func (v *View) Update(raw json.RawMessage) (bool, error) {
	fp := sha256.Sum256(raw)
	if v.loaded && v.err == nil && fp == v.fingerprint {
		return false, nil
	}
	snap, err := Normalize(raw)
	if err != nil {
		v.Fail(err)
		return true, err
	}
	v.loaded = true
	v.err = nil
	v.fingerprint = fp
	v.snap = snap
	v.schedule()
	return true, nil
}

// Fail shows the failure message. The last good data is kept for copying,
// and the next Update re-renders even when the payload is unchanged.
func (v *View) Fail(err error) {
	v.err = err
	v.blocks = nil
	v.message = fmt.Sprintf(TextFailedFmt, err)
	v.pending = false
}

// Err returns the last failure, or nil.
func (v *View) Err() error { return v.err }

// Sort returns the active sort key.
func (v *View) Sort() SortKey { return v.sort }

// SetSort changes the order and reschedules a render from the remembered
// data. It reports whether anything changed.
func (v *View) SetSort(key SortKey) bool {
	if _, ok := ParseSortKey(string(key)); !ok {
		key = SortTimestamp
	}
	if key == v.sort {
		return false
	}
	v.sort = key
	if v.loaded && v.err == nil {
		v.schedule()
	}
	return true
}

// SetHighlighter swaps the theme and re-renders the current data.
func (v *View) SetHighlighter(h *Highlighter) {
	v.highlighter = h
	if v.loaded && v.err == nil {
		v.schedule()
	}
}

// Pending reports whether a render is scheduled.
func (v *View) Pending() bool { return v.pending }

func (v *View) schedule() { v.pending = true }

// Flush performs the scheduled render, if any. Multiple Update and SetSort
// calls between two frames collapse into one Flush. It reports whether
// rendering happened.
func (v *View) Flush() bool {
	if !v.pending {
		return false
	}
	v.pending = false
	v.render()
	return true
}

// Blocks returns the rendered records; empty when Message applies.
func (v *View) Blocks() []Block { return v.blocks }

// Message returns the status text shown instead of records.
func (v *View) Message() string { return v.message }

// Len returns the number of records in the last good payload.
func (v *View) Len() int { return len(v.snap.Records) }

func (v *View) render() {
	v.blocks = nil
	v.message = ""
	switch v.snap.Shape {
	case ShapeNone:
		v.message = TextNoData
		return
	case ShapeUnexpected:
		v.message = TextUnexpected
		return
	case ShapeEmptyObject:
		v.message = TextEmptyObject
		return
	}
	if v.snap.Empty() {
		v.message = TextNone
		return
	}
	for _, r := range Sorted(v.snap.Records, v.sort) {
		pretty, err := Pretty(r.Raw())
		if err != nil {
			pretty = string(r.Raw())
		}
		v.blocks = append(v.blocks, Block{
			Title: blockTitle(r.ServerID(), r.BotName()),
			Body:  v.highlight(pretty),
		})
	}
}

// highlight never fails: any highlighter error yields plain text.
func (v *View) highlight(src string) string {
	if v.highlighter == nil {
		return Plain(src)
	}
	out, err := v.highlighter.Highlight(src)
	if err != nil {
		return Plain(src)
	}
	return out
}

func blockTitle(serverID, bot string) string {
	switch {
	case serverID != "" && bot != "":
		return Plain(serverID + " · " + bot)
	case serverID != "":
		return Plain(serverID)
	case bot != "":
		return Plain(bot)
	}
	return "reservation"
}

// CopyText returns the remembered records, sorted by the active key, as an
// indented JSON array. ok is false when there is nothing to copy.
func (v *View) CopyText() (string, bool) {
	if !v.loaded || v.snap.Empty() {
		return "", false
	}
	sorted := Sorted(v.snap.Records, v.sort)
	raws := make([]json.RawMessage, len(sorted))
	for i, r := range sorted {
		raws[i] = r.Raw()
	}
	out, err := json.MarshalIndent(raws, "", "  ")
	if err != nil {
		return "", false
	}
	return string(out), true
}

// String renders the blocks or the message as plain lines.
func (v *View) String() string {
	if len(v.blocks) == 0 {
		return v.message
	}
	var b strings.Builder
	for i, blk := range v.blocks {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(blk.Title)
		b.WriteString("\n")
		b.WriteString(blk.Body)
		b.WriteString("\n")
	}
	return b.String()
}
