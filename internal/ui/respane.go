package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/flingwatch/internal/otel"
	"github.com/abelbrown/flingwatch/internal/reservations"
)

// copyResetDelay is how long a copy result stays on the button.
const copyResetDelay = 1500 * time.Millisecond

const copyIdle = "Copy JSON"

// resPane shows the reservations view in a scrollable viewport.
type resPane struct {
	view      *reservations.View
	vp        viewport.Model
	visible   bool
	copyLabel string
	copyGen   int
	copyFn    func(string) error
	events    *otel.Logger
}

func newResPane(sort reservations.SortKey, h *reservations.Highlighter, visible bool, copyFn func(string) error, events *otel.Logger) *resPane {
	p := &resPane{
		view:      reservations.NewView(sort, h),
		vp:        viewport.New(0, 0),
		visible:   visible,
		copyLabel: copyIdle,
		copyFn:    copyFn,
		events:    events,
	}
	p.refresh()
	return p
}

// refresh copies the current rendering into the viewport.
func (p *resPane) refresh() {
	p.vp.SetContent(p.view.String())
}

// flush paints a scheduled render and reports whether it did.
func (p *resPane) flush() bool {
	if !p.view.Flush() {
		return false
	}
	p.refresh()
	return true
}

func (p *resPane) fail(err error) {
	p.view.Fail(err)
	p.refresh()
}

func (p *resPane) setSize(width, height int) {
	p.vp.Width = width
	p.vp.Height = height
}

// copy puts the sorted JSON on the clipboard and returns the timer that
// restores the button label.
func (p *resPane) copy() tea.Cmd {
	text, ok := p.view.CopyText()
	switch {
	case !ok:
		p.copyLabel = "No Data"
	case p.copyFn == nil:
		p.copyLabel = "Error"
	default:
		if err := p.copyFn(text); err != nil {
			p.copyLabel = "Failed"
			p.events.Error(otel.KindCopy, "ui", err)
		} else {
			p.copyLabel = "Copied!"
			p.events.Emit(otel.Event{Kind: otel.KindCopy, Level: otel.LevelInfo, Comp: "ui", Count: p.view.Len()})
		}
	}
	p.copyGen++
	gen := p.copyGen
	return tea.Tick(copyResetDelay, func(time.Time) tea.Msg { return copyReset{gen: gen} })
}

func (p *resPane) resetCopy(msg copyReset) {
	if msg.gen == p.copyGen {
		p.copyLabel = copyIdle
	}
}

func (p *resPane) sortBar() string {
	parts := make([]string, 0, len(reservations.SortKeys))
	for _, k := range reservations.SortKeys {
		if k == p.view.Sort() {
			parts = append(parts, SortActive.Render(string(k)))
		} else {
			parts = append(parts, SortInactive.Render(string(k)))
		}
	}
	return strings.Join(parts, "")
}

func (p *resPane) render(width int, focused bool) string {
	style := PaneStyle
	if focused {
		style = PaneFocused
	}
	head := lipgloss.JoinHorizontal(lipgloss.Top,
		PaneTitle.Render("Reservations "),
		p.sortBar(),
		"  ",
		CopyLabel.Render("["+p.copyLabel+"]"),
	)
	body := p.vp.View()
	if p.view.Err() != nil {
		body = ErrorStyle.Render(p.view.Message())
	}
	return style.Width(width - style.GetHorizontalBorderSize()).Render(head + "\n" + body)
}
