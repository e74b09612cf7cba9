// Package feed merges freshly polled batches into capped, newest-first lists.
//
// A Reconciler owns the high-water mark of one feed and drives a Renderer.
// List is the in-memory Renderer used by the TUI and the CLI; it also owns the
// text filter, which only ever changes visibility.
package feed

// Placeholder identifies a non-data entry shown in a feed.
type Placeholder int

const (
	PlaceholderNone      Placeholder = iota // a data entry
	PlaceholderLoading                      // before the first response
	PlaceholderEmpty                        // fetched fine, nothing to show yet
	PlaceholderNoResults                    // data exists but the filter hides all of it
	PlaceholderError                        // last fetch failed
)

// String returns the default text of the placeholder.
func (p Placeholder) String() string {
	switch p {
	case PlaceholderLoading:
		return "Loading..."
	case PlaceholderEmpty:
		return "No data yet."
	case PlaceholderNoResults:
		return "No matching entries."
	case PlaceholderError:
		return "Error loading feed."
	default:
		return ""
	}
}

// Renderer is the display capability a Reconciler writes to.
type Renderer[T any] interface {
	// Render prepends one newly admitted item.
	Render(item T)
	// RemoveOldest drops the oldest data entry. Placeholders are skipped.
	// Returns false when there is no data entry left.
	RemoveOldest() bool
	// DataCount returns the number of data entries, placeholders excluded.
	DataCount() int
	// ShowPlaceholder shows a placeholder of the given kind, replacing any
	// earlier one of the same kind. msg overrides the default text.
	ShowPlaceholder(kind Placeholder, msg string)
	// ClearPlaceholder removes placeholders of the given kind.
	ClearPlaceholder(kind Placeholder)
}

// Refilterer is implemented by renderers that hide entries by a filter.
// The Reconciler calls Refilter after every admission/trim cycle.
type Refilterer interface {
	Refilter()
}
