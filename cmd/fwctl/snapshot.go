package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/abelbrown/flingwatch/internal/api"
	"github.com/abelbrown/flingwatch/internal/model"
	"github.com/abelbrown/flingwatch/internal/poll"
	"github.com/abelbrown/flingwatch/internal/reservations"
)

type snapshotCmd struct {
	Limit int    `help:"Flings and chat lines to show." default:"10"`
	Sort  string `help:"Reservation order: timestamp, players, region, id." default:"timestamp" enum:"timestamp,players,region,id"`
	Color string `help:"Highlight reservations with this chroma style; empty prints plain JSON." placeholder:"STYLE"`
}

func (c *snapshotCmd) Run(e *env) error {
	coord, err := e.coordinator()
	if err != nil {
		return err
	}
	ctx := context.Background()

	var failed []string
	for _, f := range poll.Feeds {
		switch msg := coord.Poll(ctx, f, nil).(type) {
		case poll.CoreResult:
			if msg.Err != nil {
				failed = append(failed, fmt.Sprintf("core: %v", msg.Err))
				if api.IsStatus(msg.Err, http.StatusNotFound) {
					failed = append(failed, "is "+e.cfg.BaseURL+" the coordination API?")
				}
				continue
			}
			printStats(e, msg.Stats)
			c.printReservations(e, msg)
		case poll.FlingsResult:
			if msg.Err != nil {
				failed = append(failed, fmt.Sprintf("flings: %v", msg.Err))
				continue
			}
			e.printf("\nFlings (%d, %s)\n", len(msg.Items), msg.Dur.Round(time.Millisecond))
			for i, fl := range msg.Items {
				if i >= c.Limit {
					break
				}
				e.printf("  %s\n", flingText(fl))
			}
		case poll.ChatResult:
			if msg.Err != nil {
				failed = append(failed, fmt.Sprintf("chat: %v", msg.Err))
				continue
			}
			e.printf("\nChat (%d, %s)\n", len(msg.Items), msg.Dur.Round(time.Millisecond))
			for i, m := range msg.Items {
				if i >= c.Limit {
					break
				}
				e.printf("  %s\n", chatText(m))
			}
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("snapshot incomplete: %s", strings.Join(failed, "; "))
	}
	return nil
}

func printStats(e *env, st model.Stats) {
	e.printf("Stats\n")
	e.printf("  Bots:          %s\n", countText(st.BotCount))
	e.printf("  Servers:       %s\n", countText(st.ServerCount))
	e.printf("  Total flings:  %s\n", countText(st.TotalFlings))
	rate := "?"
	if st.FlingRatePerMinute != nil {
		rate = fmt.Sprintf("%.1f", *st.FlingRatePerMinute)
	}
	e.printf("  Flings / min:  %s\n", rate)

	lines, msg := reservations.Regions(st.BotsPerRegion)
	if len(lines) == 0 {
		e.printf("  Regions:       %s\n", msg)
		return
	}
	e.printf("  Regions:\n")
	for _, l := range lines {
		e.printf("    %-12s %s\n", l.Region, l.Label())
	}
}

func (c *snapshotCmd) printReservations(e *env, msg poll.CoreResult) {
	key, _ := reservations.ParseSortKey(c.Sort)
	var h *reservations.Highlighter
	if c.Color != "" {
		h = reservations.NewHighlighter(c.Color)
	}
	v := reservations.NewView(key, h)
	if _, err := v.Update(msg.Reservations); err != nil {
		e.printf("\nReservations\n  %s\n", v.Message())
		return
	}
	v.Flush()
	style := "plain"
	if h != nil {
		style = h.StyleName()
	}
	e.printf("\nReservations (%d, by %s, %s)\n", v.Len(), key, style)
	if len(v.Blocks()) == 0 {
		e.printf("  %s\n", v.Message())
		return
	}
	for _, b := range v.Blocks() {
		e.printf("\n# %s\n%s\n", b.Title, b.Body)
	}
}

func countText(p *int) string {
	if p == nil {
		return "?"
	}
	return humanize.Comma(int64(*p))
}

func flingText(f model.Fling) string {
	s := fmt.Sprintf("%-14s %s → %s", humanize.Time(f.Time()), f.BotName, f.Target)
	if f.ServerID != "" {
		s += " [" + f.ServerID + "]"
	}
	return s
}

func chatText(m model.ChatMessage) string {
	return fmt.Sprintf("%-14s %s: %s", humanize.Time(m.Time()), m.PlayerName, truncate(m.Message, 100))
}
