package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/log"

	"github.com/abelbrown/flingwatch/internal/feed"
	"github.com/abelbrown/flingwatch/internal/model"
	"github.com/abelbrown/flingwatch/internal/poll"
)

type tailCmd struct {
	Feed     string        `arg:"" help:"Feed to follow." enum:"flings,chat"`
	Interval time.Duration `help:"Poll interval; defaults to the configured one." placeholder:"DUR"`
	Polls    int           `help:"Stop after this many polls; 0 runs until interrupted." default:"0"`
	Filter   string        `help:"Chat only: show lines whose player or message contains this text."`
}

// printer is a line-mode feed.Renderer. Admitted items arrive oldest
// first, so printing them as they come reads like tail -f.
type printer[T any] struct {
	w      io.Writer
	log    *log.Logger
	line   func(T) string
	match  feed.Matcher[T]
	filter string
	n      int
}

func (p *printer[T]) Render(item T) {
	p.n++
	if p.filter != "" && p.match != nil && !p.match(item, p.filter) {
		return
	}
	fmt.Fprintln(p.w, p.line(item))
}

func (p *printer[T]) RemoveOldest() bool {
	if p.n == 0 {
		return false
	}
	p.n--
	return true
}

func (p *printer[T]) DataCount() int { return p.n }

func (p *printer[T]) ShowPlaceholder(kind feed.Placeholder, msg string) {
	switch kind {
	case feed.PlaceholderError:
		p.log.Error(msg)
	case feed.PlaceholderEmpty:
		p.log.Info(msg)
	}
}

func (p *printer[T]) ClearPlaceholder(feed.Placeholder) {}

func (c *tailCmd) Run(e *env) error {
	coord, err := e.coordinator()
	if err != nil {
		return err
	}
	logger := log.NewWithOptions(e.errOut, log.Options{Prefix: "fwctl " + c.Feed})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	f := poll.Feed(c.Feed)
	interval := c.Interval
	if interval <= 0 {
		interval = coord.Interval(f)
	}

	var step func()
	switch f {
	case poll.FeedFlings:
		p := &printer[model.Fling]{w: e.out, log: logger, line: flingText}
		rec := feed.NewReconciler[model.Fling](p, feed.Options[model.Fling]{
			Key:      model.Fling.Key,
			Identity: model.Fling.Identity,
			Cap:      e.cfg.Feeds.MaxFlings,
		})
		step = func() {
			msg, _ := coord.Poll(ctx, f, nil).(poll.FlingsResult)
			switch {
			case ctx.Err() != nil:
			case msg.Err != nil:
				rec.Fail(msg.Seq, msg.Err)
			default:
				rec.Apply(msg.Seq, msg.Items)
			}
		}
	case poll.FeedChat:
		p := &printer[model.ChatMessage]{
			w: e.out, log: logger, line: chatText,
			match: model.MatchChat, filter: feed.Normalize(c.Filter),
		}
		rec := feed.NewReconciler[model.ChatMessage](p, feed.Options[model.ChatMessage]{
			Key:      model.ChatMessage.Key,
			Identity: model.ChatMessage.Identity,
			Cap:      e.cfg.Feeds.MaxChat,
		})
		step = func() {
			msg, _ := coord.Poll(ctx, f, nil).(poll.ChatResult)
			switch {
			case ctx.Err() != nil:
			case msg.Err != nil:
				rec.Fail(msg.Seq, msg.Err)
			default:
				rec.Apply(msg.Seq, msg.Items)
			}
		}
	default:
		return fmt.Errorf("unknown feed %q", c.Feed)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for n := 1; ; n++ {
		step()
		if c.Polls > 0 && n >= c.Polls {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
