package feed

// State is the lifecycle state of a feed.
type State int

const (
	StateLoading State = iota
	StatePopulated
	StateUpdating
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StatePopulated:
		return "populated"
	case StateUpdating:
		return "updating"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Options configures a Reconciler.
type Options[T any] struct {
	// Key extracts the ordering key. Required.
	Key func(T) float64
	// Identity, when set, lets an item whose key equals the mark through if
	// no item with the same identity was admitted at that key. Without it,
	// key ties with the mark are always dropped.
	Identity func(T) string
	// Cap is the maximum number of data entries kept. <= 0 means unlimited.
	Cap int
}

// Result describes one reconciliation.
type Result struct {
	Admitted int
	Trimmed  int
	Stale    bool // response older than one already applied; ignored
	PrevMark float64
	Mark     float64
}

// Totals are running counters since construction.
type Totals struct {
	Admitted int
	Trimmed  int
	Stale    int
	Failures int
}

// Reconciler merges server-ordered (newest-first) batches into a Renderer.
// The only state carried between polls is the high-water mark (plus the
// identities admitted at the mark when Identity is set).
//
// Not safe for concurrent use: the owner serializes calls, the same way the
// TUI serializes all messages through Update.
type Reconciler[T any] struct {
	out      Renderer[T]
	key      func(T) float64
	identity func(T) string
	cap      int

	mark    float64
	atMark  map[string]struct{}
	lastSeq uint64
	state   State
	totals  Totals
}

// NewReconciler creates a Reconciler writing to out and shows the loading
// placeholder.
func NewReconciler[T any](out Renderer[T], opts Options[T]) *Reconciler[T] {
	if opts.Key == nil {
		panic("feed: Options.Key is required")
	}
	r := &Reconciler[T]{
		out:      out,
		key:      opts.Key,
		identity: opts.Identity,
		cap:      opts.Cap,
		atMark:   make(map[string]struct{}),
		state:    StateLoading,
	}
	out.ShowPlaceholder(PlaceholderLoading, "")
	return r
}

// Mark returns the current high-water mark.
func (r *Reconciler[T]) Mark() float64 { return r.mark }

// State returns the current lifecycle state.
func (r *Reconciler[T]) State() State { return r.state }

// Totals returns running counters.
func (r *Reconciler[T]) Totals() Totals { return r.totals }

// Begin records that a request is in flight.
func (r *Reconciler[T]) Begin() {
	if r.state == StatePopulated {
		r.state = StateUpdating
	}
}

// Apply reconciles a batch fetched by request seq. A zero seq is never stale.
func (r *Reconciler[T]) Apply(seq uint64, batch []T) Result {
	if r.stale(seq) {
		r.totals.Stale++
		return Result{Stale: true, PrevMark: r.mark, Mark: r.mark}
	}
	res := Result{PrevMark: r.mark}

	r.out.ClearPlaceholder(PlaceholderLoading)
	r.out.ClearPlaceholder(PlaceholderError)

	high := r.mark
	var ties []keyedID
	for i := len(batch) - 1; i >= 0; i-- {
		item := batch[i]
		k := r.key(item)
		if !r.isNew(item, k) {
			continue
		}
		r.out.Render(item)
		res.Admitted++
		if k > high {
			high = k
		}
		if r.identity != nil {
			ties = append(ties, keyedID{key: k, id: r.identity(item)})
		}
	}
	r.advance(high, ties)

	if r.cap > 0 {
		for r.out.DataCount() > r.cap {
			if !r.out.RemoveOldest() {
				break
			}
			res.Trimmed++
		}
	}

	if r.out.DataCount() == 0 {
		r.out.ShowPlaceholder(PlaceholderEmpty, "")
	} else {
		r.out.ClearPlaceholder(PlaceholderEmpty)
	}
	if rf, ok := r.out.(Refilterer); ok {
		rf.Refilter()
	}

	r.state = StatePopulated
	r.totals.Admitted += res.Admitted
	r.totals.Trimmed += res.Trimmed
	res.Mark = r.mark
	return res
}

// Fail records a failed fetch for request seq. Existing entries and the mark
// are left alone; an error placeholder is shown. Returns false when the
// failure was stale and ignored.
func (r *Reconciler[T]) Fail(seq uint64, err error) bool {
	if r.stale(seq) {
		r.totals.Stale++
		return false
	}
	msg := PlaceholderError.String()
	if err != nil {
		msg = "Error: " + err.Error()
	}
	r.out.ClearPlaceholder(PlaceholderLoading)
	r.out.ClearPlaceholder(PlaceholderEmpty)
	r.out.ShowPlaceholder(PlaceholderError, msg)
	r.state = StateError
	r.totals.Failures++
	return true
}

type keyedID struct {
	key float64
	id  string
}

func (r *Reconciler[T]) isNew(item T, k float64) bool {
	if k > r.mark {
		return true
	}
	if k < r.mark || r.identity == nil {
		return false
	}
	_, seen := r.atMark[r.identity(item)]
	return !seen
}

func (r *Reconciler[T]) advance(high float64, ties []keyedID) {
	if high > r.mark {
		r.mark = high
		if r.identity != nil {
			r.atMark = make(map[string]struct{})
		}
	}
	for _, t := range ties {
		if t.key == r.mark {
			r.atMark[t.id] = struct{}{}
		}
	}
}

// stale reports whether seq is older than (or equal to) the newest request
// already settled, and otherwise records it as the newest.
func (r *Reconciler[T]) stale(seq uint64) bool {
	if seq == 0 {
		return false
	}
	if seq <= r.lastSeq {
		return true
	}
	r.lastSeq = seq
	return false
}
