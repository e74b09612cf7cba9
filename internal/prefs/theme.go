// Package prefs holds the user's theme and header gradient and keeps them
// in a key-value store.
package prefs

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultTheme is used when nothing valid is stored.
const DefaultTheme = "atom-one-dark"

// ErrUnknownTheme is returned for a name outside the catalogue.
var ErrUnknownTheme = errors.New("unknown theme")

// Theme is one entry of the catalogue: the name users pick and persist,
// and the chroma style that renders it.
type Theme struct {
	Name   string
	Label  string
	Chroma string
	Dark   bool
}

// Themes is the fixed catalogue, in menu order.
var Themes = []Theme{
	{Name: "atom-one-dark", Label: "Atom One Dark", Chroma: "onedark", Dark: true},
	{Name: "github", Label: "GitHub", Chroma: "github"},
	{Name: "github-dark", Label: "GitHub Dark", Chroma: "github-dark", Dark: true},
	{Name: "monokai", Label: "Monokai", Chroma: "monokai", Dark: true},
	{Name: "dracula", Label: "Dracula", Chroma: "dracula", Dark: true},
	{Name: "nord", Label: "Nord", Chroma: "nord", Dark: true},
	{Name: "solarized-light", Label: "Solarized Light", Chroma: "solarized-light"},
	{Name: "solarized-dark", Label: "Solarized Dark", Chroma: "solarized-dark", Dark: true},
	{Name: "vs", Label: "Visual Studio", Chroma: "vs"},
}

// LookupTheme finds a theme by name, case-insensitively.
func LookupTheme(name string) (Theme, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, t := range Themes {
		if t.Name == n {
			return t, nil
		}
	}
	return Theme{}, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
}

// Next returns the theme after t in the catalogue, wrapping around.
func (t Theme) Next() Theme {
	for i, c := range Themes {
		if c.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

// ThemeNames lists the catalogue names.
func ThemeNames() []string {
	out := make([]string, len(Themes))
	for i, t := range Themes {
		out[i] = t.Name
	}
	return out
}
