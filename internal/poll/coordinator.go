// Package poll runs the background polling loops and delivers their results
// to the UI as messages.
package poll

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/abelbrown/flingwatch/internal/logging"
	"github.com/abelbrown/flingwatch/internal/model"
	"github.com/abelbrown/flingwatch/internal/otel"
)

// Source is the API the coordinator polls. *api.Client satisfies it.
type Source interface {
	Stats(ctx context.Context) (model.Stats, error)
	Reservations(ctx context.Context) (json.RawMessage, error)
	Flings(ctx context.Context) ([]model.Fling, error)
	ChatLogs(ctx context.Context, limit int) ([]model.ChatMessage, error)
}

// Sender receives poll messages. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(tea.Msg)

// Send calls f(msg).
func (f SenderFunc) Send(msg tea.Msg) { f(msg) }

// Options configures a Coordinator. Zero values take the defaults.
type Options struct {
	CoreInterval  time.Duration // default 1.5s
	FlingInterval time.Duration // default 1s
	ChatInterval  time.Duration // default 750ms
	Timeout       time.Duration // per poll, default 10s
	ChatLimit     int           // default 50
	MaxInFlight   int           // concurrent polls per feed, default 2
	Events        *otel.Logger  // optional
}

func (o *Options) setDefaults() {
	if o.CoreInterval <= 0 {
		o.CoreInterval = 1500 * time.Millisecond
	}
	if o.FlingInterval <= 0 {
		o.FlingInterval = time.Second
	}
	if o.ChatInterval <= 0 {
		o.ChatInterval = 750 * time.Millisecond
	}
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}
	if o.ChatLimit <= 0 {
		o.ChatLimit = 50
	}
	if o.MaxInFlight <= 0 {
		o.MaxInFlight = 2
	}
}

// Coordinator polls every feed on its own ticker. Uses context
// cancellation as the only stop mechanism.
type Coordinator struct {
	src      Source
	opts     Options
	seq      map[Feed]*atomic.Uint64
	triggers map[Feed]chan struct{}
	wg       sync.WaitGroup
}

// New creates a Coordinator polling src.
func New(src Source, opts Options) *Coordinator {
	opts.setDefaults()
	c := &Coordinator{
		src:      src,
		opts:     opts,
		seq:      make(map[Feed]*atomic.Uint64, len(Feeds)),
		triggers: make(map[Feed]chan struct{}, len(Feeds)),
	}
	for _, f := range Feeds {
		c.seq[f] = new(atomic.Uint64)
		c.triggers[f] = make(chan struct{}, 1)
	}
	return c
}

// Interval returns the polling period of feed.
func (c *Coordinator) Interval(feed Feed) time.Duration {
	switch feed {
	case FeedFlings:
		return c.opts.FlingInterval
	case FeedChat:
		return c.opts.ChatInterval
	default:
		return c.opts.CoreInterval
	}
}

// Start launches one loop per feed. Each polls immediately, then on every
// tick and every Trigger, until ctx is cancelled.
func (c *Coordinator) Start(ctx context.Context, s Sender) {
	for _, f := range Feeds {
		c.wg.Add(1)
		go func(feed Feed) {
			defer c.wg.Done()
			c.loop(ctx, feed, s)
		}(f)
	}
}

// Wait blocks until every loop and in-flight poll has exited.
// Call after cancelling the context passed to Start.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

// Trigger requests an immediate poll of feed. Triggers that arrive while
// one is already queued are merged.
func (c *Coordinator) Trigger(feed Feed) {
	ch, ok := c.triggers[feed]
	if !ok {
		return
	}
	select {
	case ch <- struct{}{}:
	default:
	}
}

func (c *Coordinator) loop(ctx context.Context, feed Feed, s Sender) {
	// Ticks never wait for a slow poll; overlapping polls are bounded and
	// the sequence numbers let the UI drop late answers.
	var g errgroup.Group
	g.SetLimit(c.opts.MaxInFlight)
	defer g.Wait()

	dispatch := func() {
		if ctx.Err() != nil {
			return
		}
		started := g.TryGo(func() error {
			msg := c.Poll(ctx, feed, s)
			if ctx.Err() == nil && s != nil {
				s.Send(msg)
			}
			return nil
		})
		if !started {
			c.opts.Events.Emit(otel.Event{Kind: otel.KindPollSkip, Level: otel.LevelWarn, Comp: "poll", Feed: string(feed)})
			if s != nil {
				s.Send(Skipped{Feed: feed, At: time.Now()})
			}
		}
	}

	dispatch()

	ticker := time.NewTicker(c.Interval(feed))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			dispatch()
		case <-c.triggers[feed]:
			dispatch()
		}
	}
}

// Poll performs one poll of feed and returns its result message. It
// allocates the next sequence number, announces the poll to s (which may
// be nil) and applies the per-poll timeout.
func (c *Coordinator) Poll(ctx context.Context, feed Feed, s Sender) tea.Msg {
	counter, ok := c.seq[feed]
	if !ok {
		return FlingsResult{Cycle: Cycle{Feed: feed, At: time.Now()}, Err: fmt.Errorf("poll: unknown feed %q", feed)}
	}
	cyc := Cycle{
		Feed: feed,
		Seq:  counter.Add(1),
		ID:   uuid.NewString()[:8],
		At:   time.Now(),
	}
	c.opts.Events.Emit(otel.Event{Kind: otel.KindPollStart, Level: otel.LevelDebug, Comp: "poll", Feed: string(feed), Seq: cyc.Seq, Cycle: cyc.ID})
	if s != nil {
		s.Send(Started{Cycle: cyc})
	}

	pollCtx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	var (
		msg   tea.Msg
		err   error
		count int
	)
	switch feed {
	case FeedFlings:
		var items []model.Fling
		items, err = c.src.Flings(pollCtx)
		cyc.Dur = time.Since(cyc.At)
		count = len(items)
		msg = FlingsResult{Cycle: cyc, Items: items, Err: err}
	case FeedChat:
		var items []model.ChatMessage
		items, err = c.src.ChatLogs(pollCtx, c.opts.ChatLimit)
		cyc.Dur = time.Since(cyc.At)
		count = len(items)
		msg = ChatResult{Cycle: cyc, Items: items, Err: err}
	case FeedCore:
		var res CoreResult
		res, err = c.pollCore(pollCtx)
		cyc.Dur = time.Since(cyc.At)
		res.Cycle = cyc
		msg = res
	}

	c.opts.Events.Poll(string(feed), cyc.Seq, cyc.ID, cyc.Dur, count, err)
	if err != nil {
		logging.Warn("poll failed", "feed", feed, "seq", cyc.Seq, "error", err)
	}
	return msg
}

// pollCore fetches stats and reservations together; either failing fails
// the whole cycle.
func (c *Coordinator) pollCore(ctx context.Context) (CoreResult, error) {
	var res CoreResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := c.src.Stats(gctx)
		if err != nil {
			return fmt.Errorf("stats: %w", err)
		}
		res.Stats = s
		return nil
	})
	g.Go(func() error {
		r, err := c.src.Reservations(gctx)
		if err != nil {
			return fmt.Errorf("reservations: %w", err)
		}
		res.Reservations = r
		return nil
	})
	if err := g.Wait(); err != nil {
		return CoreResult{Err: err}, err
	}
	return res, nil
}
