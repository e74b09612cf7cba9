package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/abelbrown/flingwatch/internal/model"
	"github.com/abelbrown/flingwatch/internal/reservations"
)

const (
	valueLoading = "Loading..."
	valueUnknown = "?"
	valueError   = "Error"

	regionsLoading = "Loading regional data..."
)

// Card indexes.
const (
	cardBots = iota
	cardServers
	cardFlings
	cardRate
)

type card struct {
	label    string
	value    string
	loading  bool
	flashing bool
	failed   bool
	gen      int
}

// statsPanel holds the four stat cards and the region distribution.
type statsPanel struct {
	cards     []*card
	regions   []reservations.RegionLine
	regionMsg string
	flash     time.Duration
}

func newStatsPanel(flash time.Duration) *statsPanel {
	labels := []string{"Bots", "Servers", "Total flings", "Flings / min"}
	s := &statsPanel{flash: flash, regionMsg: regionsLoading}
	for _, l := range labels {
		s.cards = append(s.cards, &card{label: l, value: valueLoading, loading: true})
	}
	return s
}

func intValue(p *int) string {
	if p == nil {
		return valueUnknown
	}
	return humanize.Comma(int64(*p))
}

func rateValue(p *float64) string {
	if p == nil {
		return valueUnknown
	}
	return fmt.Sprintf("%.1f", *p)
}

// apply shows st and returns the timers that end any flashes it started.
func (s *statsPanel) apply(st model.Stats) []tea.Cmd {
	values := []string{
		cardBots:    intValue(st.BotCount),
		cardServers: intValue(st.ServerCount),
		cardFlings:  intValue(st.TotalFlings),
		cardRate:    rateValue(st.FlingRatePerMinute),
	}
	var cmds []tea.Cmd
	for i, v := range values {
		if cmd := s.set(i, v); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	s.regions, s.regionMsg = reservations.Regions(st.BotsPerRegion)
	return cmds
}

// set updates one card. A change flashes unless the card was still
// loading or the new value is "?".
func (s *statsPanel) set(i int, v string) tea.Cmd {
	c := s.cards[i]
	wasLoading := c.loading
	prev := c.value
	c.loading = false
	c.failed = false
	if v == prev {
		return nil
	}
	c.value = v
	if wasLoading || v == valueUnknown || s.flash <= 0 {
		return nil
	}
	c.flashing = true
	c.gen++
	gen, idx := c.gen, i
	return tea.Tick(s.flash, func(time.Time) tea.Msg {
		return flashDone{card: idx, gen: gen}
	})
}

func (s *statsPanel) unflash(msg flashDone) {
	if msg.card < 0 || msg.card >= len(s.cards) {
		return
	}
	if c := s.cards[msg.card]; c.gen == msg.gen {
		c.flashing = false
	}
}

// fail overwrites every card with "Error" and the regions with the cause.
func (s *statsPanel) fail(err error) {
	for _, c := range s.cards {
		c.value = valueError
		c.loading = false
		c.flashing = false
		c.failed = true
	}
	s.regions = nil
	s.regionMsg = "Error: " + err.Error()
}

func (s *statsPanel) view(width int) string {
	boxes := make([]string, len(s.cards))
	for i, c := range s.cards {
		style, value := CardStyle, CardValue
		switch {
		case c.failed:
			style, value = CardError, ErrorStyle
		case c.flashing:
			style, value = CardFlash, CardValueFlash
		}
		boxes[i] = style.Render(CardLabel.Render(c.label) + "\n" + value.Render(c.value))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
	return row + "\n" + s.regionLine(width)
}

func (s *statsPanel) regionLine(width int) string {
	text := s.regionMsg
	if len(s.regions) > 0 {
		parts := make([]string, len(s.regions))
		for i, r := range s.regions {
			parts[i] = r.Region + " " + r.Label()
		}
		text = strings.Join(parts, " · ")
	}
	line := "Regions: " + text
	if width > 2 {
		line = runewidth.Truncate(line, width-2, "…")
	}
	if strings.HasPrefix(s.regionMsg, "Error") && len(s.regions) == 0 {
		return " " + ErrorStyle.Render(line)
	}
	return " " + CardLabel.Render(line)
}
