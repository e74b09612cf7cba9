package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/flingwatch/internal/logging"
	"github.com/abelbrown/flingwatch/internal/model"
	"github.com/abelbrown/flingwatch/internal/otel"
	"github.com/abelbrown/flingwatch/internal/poll"
	"github.com/abelbrown/flingwatch/internal/prefs"
	"github.com/abelbrown/flingwatch/internal/reservations"
)

// frameInterval paces reservation renders to one per frame.
const frameInterval = time.Second / 60

// focus selects which pane receives scroll keys.
type focus int

const (
	focusReservations focus = iota
	focusFlings
	focusChat
)

// Config wires the App to the rest of the program. Only Prefs is required.
type Config struct {
	Prefs            *prefs.Prefs
	Events           *otel.Logger
	Ring             *otel.RingBuffer
	Trigger          func(poll.Feed)    // manual refresh
	Copy             func(string) error // clipboard writer
	MaxFlings        int
	MaxChat          int
	Flash            time.Duration
	Sort             reservations.SortKey
	ShowReservations bool
	Now              func() time.Time
}

// App is the root Bubble Tea model.
// App does not fetch anything itself: poll results arrive as messages.
type App struct {
	prefs   *prefs.Prefs
	events  *otel.Logger
	ring    *otel.RingBuffer
	trigger func(poll.Feed)
	now     func() time.Time

	stats  *statsPanel
	flings *feedPane[model.Fling]
	chat   *feedPane[model.ChatMessage]
	res    *resPane
	footer *footer

	filter      textinput.Model
	filtering   bool
	gradient    textinput.Model
	editingGrad bool
	spinner     spinner.Model

	focus       focus
	showDebug   bool
	statusMsg   string
	frameQueued bool
	lastCoreSeq uint64

	width  int
	height int
	ready  bool
}

// New creates the App.
func New(cfg Config) App {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	theme := cfg.Prefs.Theme()

	s := spinner.New()
	s.Spinner = spinner.Pulse
	s.Style = LiveOn

	fi := textinput.New()
	fi.Prompt = "/"
	fi.Placeholder = "filter chat by player or message"
	fi.CharLimit = 80

	gi := textinput.New()
	gi.Prompt = "gradient: "
	gi.Placeholder = prefs.DefaultGradientStart + " " + prefs.DefaultGradientEnd
	gi.CharLimit = 15

	return App{
		prefs:    cfg.Prefs,
		events:   cfg.Events,
		ring:     cfg.Ring,
		trigger:  cfg.Trigger,
		now:      cfg.Now,
		stats:    newStatsPanel(cfg.Flash),
		flings:   newFlingPane(cfg.MaxFlings, cfg.Events),
		chat:     newChatPane(cfg.MaxChat, cfg.Events),
		res:      newResPane(cfg.Sort, reservations.NewHighlighter(theme.Chroma), cfg.ShowReservations, cfg.Copy, cfg.Events),
		footer:   &footer{},
		filter:   fi,
		gradient: gi,
		spinner:  s,
	}
}

// Init starts the pulse indicator.
func (a App) Init() tea.Cmd {
	return a.spinner.Tick
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if otel.TraceEnabled() {
		a.events.Emit(otel.Event{Kind: otel.KindMsgReceived, Level: otel.LevelDebug, Comp: "ui", Msg: fmt.Sprintf("%T", msg)})
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.layout()
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case poll.Started:
		switch msg.Feed {
		case poll.FeedCore:
			a.footer.polling()
		case poll.FeedFlings:
			a.flings.begin()
		case poll.FeedChat:
			a.chat.begin()
		}
		return a, nil

	case poll.CoreResult:
		return a.handleCore(msg)

	case poll.FlingsResult:
		if msg.Err != nil {
			a.flings.fail(msg.Cycle, msg.Err)
		} else {
			a.flings.apply(msg.Cycle, msg.Items)
		}
		return a, nil

	case poll.ChatResult:
		if msg.Err != nil {
			a.chat.fail(msg.Cycle, msg.Err)
		} else {
			a.chat.apply(msg.Cycle, msg.Items)
		}
		return a, nil

	case flashDone:
		a.stats.unflash(msg)
		return a, nil

	case copyReset:
		a.res.resetCopy(msg)
		return a, nil

	case frame:
		a.frameQueued = false
		a.res.flush()
		return a, nil

	case poll.Skipped:
		logging.Debug("poll skipped", "feed", msg.Feed)
		return a, nil
	}

	return a, nil
}

func (a App) handleCore(msg poll.CoreResult) (tea.Model, tea.Cmd) {
	if msg.Seq != 0 && msg.Seq <= a.lastCoreSeq {
		a.events.Emit(otel.Event{Kind: otel.KindFeedStale, Level: otel.LevelWarn, Comp: "ui", Feed: string(poll.FeedCore), Seq: msg.Seq})
		return a, nil
	}
	if msg.Seq != 0 {
		a.lastCoreSeq = msg.Seq
	}

	if msg.Err != nil {
		a.stats.fail(msg.Err)
		a.res.fail(msg.Err)
		a.footer.failed()
		logging.Warn("core update failed", "seq", msg.Seq, "error", msg.Err)
		return a, nil
	}

	cmds := a.stats.apply(msg.Stats)
	a.footer.succeeded(a.now())
	if changed, err := a.res.view.Update(msg.Reservations); err != nil {
		a.res.refresh()
	} else if changed {
		cmds = append(cmds, a.scheduleFrame())
	}
	return a, tea.Batch(cmds...)
}

// scheduleFrame asks for one paint slot; further calls before it fires
// are folded into it.
func (a *App) scheduleFrame() tea.Cmd {
	if a.frameQueued {
		return nil
	}
	a.frameQueued = true
	return tea.Tick(frameInterval, func(time.Time) tea.Msg { return frame{} })
}

// handleKeyMsg processes keyboard input.
func (a App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.events.Emit(otel.Event{Kind: otel.KindKeyPress, Level: otel.LevelDebug, Comp: "ui", Msg: msg.String()})

	if a.filtering {
		return a.handleFilterInput(msg)
	}
	if a.editingGrad {
		return a.handleGradientInput(msg)
	}

	a.statusMsg = ""

	switch {
	case key.Matches(msg, keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, keys.Debug):
		a.showDebug = !a.showDebug
		return a, nil

	case key.Matches(msg, keys.Filter):
		a.filtering = true
		a.filter.SetValue(a.chat.list.Filter())
		a.filter.CursorEnd()
		return a, a.filter.Focus()

	case key.Matches(msg, keys.Escape):
		if a.chat.list.Filter() != "" {
			a.chat.list.SetFilter("")
		}
		a.showDebug = false
		return a, nil

	case key.Matches(msg, keys.Refresh):
		if a.trigger != nil {
			for _, f := range poll.Feeds {
				a.trigger(f)
			}
			a.statusMsg = "Refreshing..."
		}
		return a, nil

	case key.Matches(msg, keys.Reservations):
		a.res.visible = !a.res.visible
		if !a.res.visible && a.focus == focusReservations {
			a.focus = focusFlings
		}
		a.layout()
		return a, nil

	case key.Matches(msg, keys.Sort):
		if a.res.view.SetSort(a.res.view.Sort().Next()) {
			return a, a.scheduleFrame()
		}
		return a, nil

	case key.Matches(msg, keys.Copy):
		return a, a.res.copy()

	case key.Matches(msg, keys.Theme):
		theme, err := a.prefs.CycleTheme()
		a.res.view.SetHighlighter(reservations.NewHighlighter(theme.Chroma))
		a.statusMsg = "Theme: " + theme.Label
		if err != nil {
			a.statusMsg += " (not saved: " + err.Error() + ")"
			logging.Error("theme not persisted", "error", err)
		}
		return a, a.scheduleFrame()

	case key.Matches(msg, keys.Gradient):
		g := a.prefs.Gradient()
		a.editingGrad = true
		a.gradient.SetValue(g.Start + " " + g.End)
		a.gradient.CursorEnd()
		return a, a.gradient.Focus()

	case key.Matches(msg, keys.Focus):
		a.focus = a.nextFocus()
		return a, nil

	case key.Matches(msg, keys.Up), key.Matches(msg, keys.Down):
		if a.focus == focusReservations && a.res.visible {
			var cmd tea.Cmd
			a.res.vp, cmd = a.res.vp.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	return a, nil
}

func (a App) nextFocus() focus {
	next := (a.focus + 1) % 3
	if next == focusReservations && !a.res.visible {
		next = focusFlings
	}
	return next
}

// handleFilterInput applies the chat filter on every keystroke.
func (a App) handleFilterInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		a.filtering = false
		a.filter.Blur()
		a.filter.SetValue("")
		a.chat.list.SetFilter("")
		return a, nil
	case key.Matches(msg, keys.Enter):
		a.filtering = false
		a.filter.Blur()
		return a, nil
	}

	var cmd tea.Cmd
	a.filter, cmd = a.filter.Update(msg)
	a.chat.list.SetFilter(a.filter.Value())
	return a, cmd
}

func (a App) handleGradientInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		a.editingGrad = false
		a.gradient.Blur()
		return a, nil
	case key.Matches(msg, keys.Enter):
		a.editingGrad = false
		a.gradient.Blur()
		fields := strings.Fields(a.gradient.Value())
		if len(fields) != 2 {
			a.statusMsg = "Gradient needs two colours: #rrggbb #rrggbb"
			return a, nil
		}
		if _, err := a.prefs.SetGradient(fields[0], fields[1]); err != nil {
			a.statusMsg = err.Error()
			return a, nil
		}
		a.statusMsg = "Gradient saved"
		return a, nil
	}

	var cmd tea.Cmd
	a.gradient, cmd = a.gradient.Update(msg)
	return a, cmd
}

// Fixed line budgets of the layout.
const (
	headerLines = 1
	statsLines  = 5 // card border (2) + label + value + regions
	footerLines = 1
)

func (a *App) bodyHeight() int {
	h := a.height - headerLines - statsLines - footerLines
	if a.filtering || a.editingGrad || a.chat.list.Filter() != "" {
		h--
	}
	if h < 4 {
		h = 4
	}
	return h
}

// layout splits the body between the feeds and the reservations pane.
func (a *App) layout() (feedsH, resH int) {
	body := a.bodyHeight()
	feedsH = body
	if a.res.visible {
		feedsH = body / 2
		if feedsH < 4 {
			feedsH = 4
		}
		resH = body - feedsH
		// pane border + heading line
		vpH := resH - 3
		if vpH < 1 {
			vpH = 1
		}
		a.res.setSize(a.width-PaneStyle.GetHorizontalFrameSize(), vpH)
	}
	return feedsH, resH
}

// View renders the UI.
func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}

	if a.showDebug {
		overlay := debugOverlay(a.ring, a.width, a.height-1)
		return lipgloss.Place(a.width, a.height-1, lipgloss.Center, lipgloss.Center, overlay) + "\n" + debugStatusBar(a.width)
	}

	feedsH, _ := a.layout()

	var b strings.Builder
	b.WriteString(a.renderHeader())
	b.WriteString("\n")
	b.WriteString(a.stats.view(a.width))
	b.WriteString("\n")

	left := a.width / 2
	right := a.width - left
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		a.flings.view(left, feedsH, a.focus == focusFlings),
		a.chat.view(right, feedsH, a.focus == focusChat),
	))
	b.WriteString("\n")

	if a.res.visible {
		b.WriteString(a.res.render(a.width, a.focus == focusReservations))
		b.WriteString("\n")
	}

	if bar := a.renderInputBar(); bar != "" {
		b.WriteString(bar)
		b.WriteString("\n")
	}
	b.WriteString(a.renderStatusBar())
	return b.String()
}

func (a App) renderHeader() string {
	theme := a.prefs.Theme()
	text := fmt.Sprintf(" FLINGWATCH │ theme: %s", theme.Label)
	return a.prefs.Gradient().Render(text, a.width)
}

func (a App) renderInputBar() string {
	switch {
	case a.filtering:
		return FilterBar.Width(a.width).Render(a.filter.View() + "  " + a.filterCount())
	case a.editingGrad:
		return FilterBar.Width(a.width).Render(a.gradient.View())
	case a.chat.list.Filter() != "":
		return FilterBar.Width(a.width).Render("/" + a.chat.list.Filter() + "  " + a.filterCount() + "  (esc to clear)")
	}
	return ""
}

func (a App) filterCount() string {
	return FilterBarCount.Render(fmt.Sprintf("%d/%d", a.chat.list.VisibleCount(), a.chat.list.DataCount()))
}

func (a App) renderStatusBar() string {
	live := LiveOff.Render("●")
	if a.footer.live {
		live = a.spinner.View()
	}
	left := live + " Last updated: " + a.footer.text(a.now())
	if a.footer.state == footerFailed {
		left = live + " " + ErrorStyle.Render(a.footer.text(a.now()))
	}
	if a.statusMsg != "" {
		left += "  " + StatusBarText.Render(a.statusMsg)
	}

	var hints []string
	for _, k := range helpKeys {
		h := k.Help()
		hints = append(hints, StatusBarKey.Render(h.Key)+StatusBarText.Render(":"+h.Desc))
	}
	right := strings.Join(hints, " ")

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		right = ""
		gap = 1
	}
	return StatusBar.Width(a.width).Render(left + strings.Repeat(" ", gap) + right)
}

// Flings returns the fling list (for testing).
func (a App) Flings() []model.Fling { return a.flings.list.Items() }

// Chat returns the chat list (for testing).
func (a App) Chat() []model.ChatMessage { return a.chat.list.Items() }
