package ui

import "github.com/charmbracelet/lipgloss"

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("62")  // Purple
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("212") // Pink
	colorSuccess   = lipgloss.Color("78")  // Green
	colorError     = lipgloss.Color("196") // Red
	colorFlash     = lipgloss.Color("220") // Amber
)

// CardStyle frames one stat card.
var CardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorMuted).
	Padding(0, 1).
	Width(18)

// CardFlash is applied while a changed value is highlighted.
var CardFlash = CardStyle.
	BorderForeground(colorFlash)

// CardError frames a card after a failed update.
var CardError = CardStyle.
	BorderForeground(colorError)

// CardLabel style for the card caption.
var CardLabel = lipgloss.NewStyle().
	Foreground(colorSecondary)

// CardValue style for the card number.
var CardValue = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Bold(true)

// CardValueFlash style for a number that just changed.
var CardValueFlash = CardValue.
	Foreground(colorFlash)

// PaneStyle frames the feed and reservation panes.
var PaneStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorMuted).
	Padding(0, 1)

// PaneFocused frames the pane receiving scroll keys.
var PaneFocused = PaneStyle.
	BorderForeground(colorPrimary)

// PaneTitle style for pane headings.
var PaneTitle = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// PlaceholderStyle for empty, loading and no-results rows.
var PlaceholderStyle = lipgloss.NewStyle().
	Foreground(colorMuted).
	Italic(true)

// Timestamp style for entry times.
var Timestamp = lipgloss.NewStyle().
	Foreground(colorSecondary)

// Actor style for bot and player names.
var Actor = lipgloss.NewStyle().
	Foreground(colorPrimary).
	Bold(true)

// SortActive marks the selected reservation sort.
var SortActive = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 1)

// SortInactive for the other sort keys.
var SortInactive = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Padding(0, 1)

// CopyLabel shows the transient copy result.
var CopyLabel = lipgloss.NewStyle().
	Foreground(colorSuccess).
	Bold(true)

// LiveOn is the pulse indicator while updates succeed.
var LiveOn = lipgloss.NewStyle().
	Foreground(colorSuccess)

// LiveOff is the indicator after a failed update.
var LiveOff = lipgloss.NewStyle().
	Foreground(colorMuted)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// StatusBarKey style for key hints in status bar.
var StatusBarKey = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// StatusBarText style for descriptive text in status bar.
var StatusBarText = lipgloss.NewStyle().
	Foreground(colorSecondary)

// ErrorStyle for displaying errors.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(colorError).
	Bold(true)

// FilterBar style for the filter input bar.
var FilterBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("240")).
	Padding(0, 1)

// FilterBarCount style for the filtered count.
var FilterBarCount = lipgloss.NewStyle().
	Foreground(lipgloss.Color("252"))

// DebugPanel frames the debug overlay.
var DebugPanel = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorHighlight).
	Padding(1, 2)

// DebugHeaderStyle for overlay section headings.
var DebugHeaderStyle = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)
