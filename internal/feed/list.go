package feed

import "strings"

// Row is one displayed entry: a data item or a placeholder.
type Row[T any] struct {
	Item        T
	Placeholder Placeholder
	Message     string
}

// IsPlaceholder reports whether the row is not a data item.
func (r Row[T]) IsPlaceholder() bool { return r.Placeholder != PlaceholderNone }

type entry[T any] struct {
	row    Row[T]
	hidden bool
}

// Matcher reports whether item matches a normalized, non-empty filter.
type Matcher[T any] func(item T, filter string) bool

// List is an in-memory, newest-first Renderer. Index 0 is the top of the
// feed. Placeholders live in the same slice as data, like banners in a list,
// and are never counted or trimmed as data.
type List[T any] struct {
	entries []entry[T]
	match   Matcher[T]
	filter  string
}

// NewList creates a List. match may be nil for feeds without a filter.
func NewList[T any](match Matcher[T]) *List[T] {
	return &List[T]{match: match}
}

// Normalize lower-cases and trims a filter string.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Render prepends item.
func (l *List[T]) Render(item T) {
	e := entry[T]{row: Row[T]{Item: item}}
	e.hidden = !l.matches(item)
	l.entries = append([]entry[T]{e}, l.entries...)
}

// RemoveOldest removes the bottom-most data entry.
func (l *List[T]) RemoveOldest() bool {
	for i := len(l.entries) - 1; i >= 0; i-- {
		if l.entries[i].row.IsPlaceholder() {
			continue
		}
		l.entries = append(l.entries[:i], l.entries[i+1:]...)
		return true
	}
	return false
}

// DataCount returns the number of data entries.
func (l *List[T]) DataCount() int {
	n := 0
	for _, e := range l.entries {
		if !e.row.IsPlaceholder() {
			n++
		}
	}
	return n
}

// ShowPlaceholder puts a placeholder of kind at the top.
func (l *List[T]) ShowPlaceholder(kind Placeholder, msg string) {
	if kind == PlaceholderNone {
		return
	}
	if msg == "" {
		msg = kind.String()
	}
	l.ClearPlaceholder(kind)
	p := entry[T]{row: Row[T]{Placeholder: kind, Message: msg}}
	l.entries = append([]entry[T]{p}, l.entries...)
}

// ClearPlaceholder removes every placeholder of kind.
func (l *List[T]) ClearPlaceholder(kind Placeholder) {
	kept := l.entries[:0]
	for _, e := range l.entries {
		if e.row.Placeholder == kind && kind != PlaceholderNone {
			continue
		}
		kept = append(kept, e)
	}
	l.entries = kept
}

// HasPlaceholder reports whether a placeholder of kind is shown.
func (l *List[T]) HasPlaceholder(kind Placeholder) bool {
	for _, e := range l.entries {
		if e.row.Placeholder == kind {
			return true
		}
	}
	return false
}

// Filter returns the normalized filter in effect.
func (l *List[T]) Filter() string { return l.filter }

// SetFilter normalizes f and re-applies visibility. Data entries are never
// added or removed by filtering.
func (l *List[T]) SetFilter(f string) {
	l.filter = Normalize(f)
	l.Refilter()
}

// Refilter recomputes visibility and the no-results placeholder.
func (l *List[T]) Refilter() {
	data, visible := 0, 0
	for i := range l.entries {
		e := &l.entries[i]
		if e.row.IsPlaceholder() {
			continue
		}
		data++
		e.hidden = !l.matches(e.row.Item)
		if !e.hidden {
			visible++
		}
	}
	if data > 0 && visible == 0 {
		l.ShowPlaceholder(PlaceholderNoResults, "")
	} else {
		l.ClearPlaceholder(PlaceholderNoResults)
	}
}

// Items returns all data items, newest first, hidden ones included.
func (l *List[T]) Items() []T {
	items := make([]T, 0, len(l.entries))
	for _, e := range l.entries {
		if !e.row.IsPlaceholder() {
			items = append(items, e.row.Item)
		}
	}
	return items
}

// Visible returns the rows to draw, top first: every placeholder plus the
// data entries the filter lets through.
func (l *List[T]) Visible() []Row[T] {
	rows := make([]Row[T], 0, len(l.entries))
	for _, e := range l.entries {
		if e.hidden {
			continue
		}
		rows = append(rows, e.row)
	}
	return rows
}

// VisibleCount returns the number of visible data entries.
func (l *List[T]) VisibleCount() int {
	n := 0
	for _, e := range l.entries {
		if !e.hidden && !e.row.IsPlaceholder() {
			n++
		}
	}
	return n
}

func (l *List[T]) matches(item T) bool {
	if l.filter == "" || l.match == nil {
		return true
	}
	return l.match(item, l.filter)
}
