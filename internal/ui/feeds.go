package ui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/abelbrown/flingwatch/internal/feed"
	"github.com/abelbrown/flingwatch/internal/model"
	"github.com/abelbrown/flingwatch/internal/otel"
	"github.com/abelbrown/flingwatch/internal/poll"
)

// feedPane couples a reconciler with the list it renders into.
type feedPane[T any] struct {
	name   poll.Feed
	title  string
	empty  string
	list   *feed.List[T]
	rec    *feed.Reconciler[T]
	line   func(item T, width int) string
	events *otel.Logger
}

func newFlingPane(limit int, events *otel.Logger) *feedPane[model.Fling] {
	list := feed.NewList[model.Fling](nil)
	return &feedPane[model.Fling]{
		name:  poll.FeedFlings,
		title: "Flings",
		empty: "No flings yet.",
		list:  list,
		rec: feed.NewReconciler[model.Fling](list, feed.Options[model.Fling]{
			Key:      model.Fling.Key,
			Identity: model.Fling.Identity,
			Cap:      limit,
		}),
		line:   flingLine,
		events: events,
	}
}

func newChatPane(limit int, events *otel.Logger) *feedPane[model.ChatMessage] {
	list := feed.NewList[model.ChatMessage](model.MatchChat)
	return &feedPane[model.ChatMessage]{
		name:  poll.FeedChat,
		title: "Chat",
		empty: "No chat messages yet.",
		list:  list,
		rec: feed.NewReconciler[model.ChatMessage](list, feed.Options[model.ChatMessage]{
			Key:      model.ChatMessage.Key,
			Identity: model.ChatMessage.Identity,
			Cap:      limit,
		}),
		line:   chatLine,
		events: events,
	}
}

func (p *feedPane[T]) begin() { p.rec.Begin() }

// apply reconciles one successful response and logs what changed.
func (p *feedPane[T]) apply(c poll.Cycle, items []T) feed.Result {
	res := p.rec.Apply(c.Seq, items)
	base := otel.Event{Comp: "ui", Feed: string(p.name), Seq: c.Seq, Cycle: c.ID, Mark: res.Mark}
	switch {
	case res.Stale:
		e := base
		e.Kind, e.Level = otel.KindFeedStale, otel.LevelWarn
		p.events.Emit(e)
	case res.Admitted > 0:
		e := base
		e.Kind, e.Level, e.Count = otel.KindFeedAdmit, otel.LevelDebug, res.Admitted
		p.events.Emit(e)
	}
	if res.Trimmed > 0 {
		e := base
		e.Kind, e.Level, e.Count = otel.KindFeedTrim, otel.LevelDebug, res.Trimmed
		p.events.Emit(e)
	}
	return res
}

func (p *feedPane[T]) fail(c poll.Cycle, err error) {
	if !p.rec.Fail(c.Seq, err) {
		p.events.Emit(otel.Event{Kind: otel.KindFeedStale, Level: otel.LevelWarn, Comp: "ui", Feed: string(p.name), Seq: c.Seq, Err: err.Error()})
	}
}

func (p *feedPane[T]) placeholderText(r feed.Row[T]) string {
	if r.Message != "" {
		return r.Message
	}
	if r.Placeholder == feed.PlaceholderEmpty {
		return p.empty
	}
	return r.Placeholder.String()
}

// view draws the pane in a width x height box, newest entry on top.
func (p *feedPane[T]) view(width, height int, focused bool) string {
	style := PaneStyle
	if focused {
		style = PaneFocused
	}
	inner := width - style.GetHorizontalFrameSize()
	if inner < 10 {
		inner = 10
	}
	rowsAvail := height - style.GetVerticalFrameSize() - 1
	if rowsAvail < 1 {
		rowsAvail = 1
	}

	title := fmt.Sprintf("%s (%d)", p.title, p.list.DataCount())
	if f := p.list.Filter(); f != "" {
		title = fmt.Sprintf("%s (%d/%d matching %q)", p.title, p.list.VisibleCount(), p.list.DataCount(), f)
	}
	if p.rec.State() == feed.StateUpdating {
		title += " ·"
	}

	lines := []string{PaneTitle.Render(runewidth.Truncate(title, inner, "…"))}
	for _, r := range p.list.Visible() {
		if len(lines) > rowsAvail {
			break
		}
		if r.IsPlaceholder() {
			text := runewidth.Truncate(p.placeholderText(r), inner, "…")
			if r.Placeholder == feed.PlaceholderError {
				lines = append(lines, ErrorStyle.Render(text))
			} else {
				lines = append(lines, PlaceholderStyle.Render(text))
			}
			continue
		}
		lines = append(lines, p.line(r.Item, inner))
	}
	return style.Width(inner + style.GetHorizontalPadding()).Height(rowsAvail + 1).Render(strings.Join(lines, "\n"))
}

func flingLine(f model.Fling, width int) string {
	ts := f.Time().Local().Format("15:04:05")
	text := fmt.Sprintf("%s → %s", f.BotName, f.Target)
	if f.ServerID != "" {
		text += "  [" + f.ServerID + "]"
	}
	text = runewidth.Truncate(text, width-len(ts)-1, "…")
	return Timestamp.Render(ts) + " " + Actor.Render(text)
}

func chatLine(c model.ChatMessage, width int) string {
	ts := c.Time().Local().Format("15:04:05")
	name := runewidth.Truncate(c.PlayerName, 16, "…")
	rest := width - len(ts) - 1 - runewidth.StringWidth(name) - 2
	if rest < 1 {
		rest = 1
	}
	msg := runewidth.Truncate(strings.ReplaceAll(c.Message, "\n", " "), rest, "…")
	return Timestamp.Render(ts) + " " + Actor.Render(name) + ": " + msg
}
