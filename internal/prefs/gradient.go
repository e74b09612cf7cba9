package prefs

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Default gradient colours.
const (
	DefaultGradientStart = "#6a11cb"
	DefaultGradientEnd   = "#2575fc"
)

// ErrInvalidColor is returned for anything but #rrggbb.
var ErrInvalidColor = errors.New("invalid colour")

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Gradient is a two-stop colour gradient.
type Gradient struct {
	Start string
	End   string
}

// DefaultGradient returns the built-in gradient.
func DefaultGradient() Gradient {
	return Gradient{Start: DefaultGradientStart, End: DefaultGradientEnd}
}

// ParseColor validates and lower-cases a #rrggbb colour.
func ParseColor(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !hexColor.MatchString(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return strings.ToLower(s), nil
}

// NewGradient validates both stops.
func NewGradient(start, end string) (Gradient, error) {
	s, err := ParseColor(start)
	if err != nil {
		return Gradient{}, fmt.Errorf("gradient start: %w", err)
	}
	e, err := ParseColor(end)
	if err != nil {
		return Gradient{}, fmt.Errorf("gradient end: %w", err)
	}
	return Gradient{Start: s, End: e}, nil
}

// Steps returns n colours blended from Start to End in the HCL space.
// n <= 0 yields nil, n == 1 yields Start.
func (g Gradient) Steps(n int) []string {
	if n <= 0 {
		return nil
	}
	a, errA := colorful.Hex(g.Start)
	b, errB := colorful.Hex(g.End)
	if errA != nil || errB != nil {
		d := DefaultGradient()
		a, _ = colorful.Hex(d.Start)
		b, _ = colorful.Hex(d.End)
	}
	out := make([]string, n)
	for i := range out {
		switch {
		case i == 0:
			out[i] = a.Hex()
		case i == n-1:
			out[i] = b.Hex()
		default:
			out[i] = a.BlendHcl(b, float64(i)/float64(n-1)).Clamped().Hex()
		}
	}
	return out
}

// Render paints text over a width-wide bar whose background runs through
// the gradient. Text longer than width is cut.
func (g Gradient) Render(text string, width int) string {
	if width <= 0 {
		return ""
	}
	cells := []rune(text)
	if len(cells) > width {
		cells = cells[:width]
	}
	for len(cells) < width {
		cells = append(cells, ' ')
	}
	colors := g.Steps(width)
	var b strings.Builder
	for i, r := range cells {
		st := lipgloss.NewStyle().
			Background(lipgloss.Color(colors[i])).
			Foreground(lipgloss.Color("#ffffff")).
			Bold(true)
		b.WriteString(st.Render(string(r)))
	}
	return b.String()
}
