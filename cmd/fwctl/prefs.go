package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/abelbrown/flingwatch/internal/config"
	"github.com/abelbrown/flingwatch/internal/prefs"
	"github.com/abelbrown/flingwatch/internal/store"
)

type prefsCmd struct {
	Get    prefsGetCmd    `cmd:"" help:"Print stored preferences, or one key."`
	Set    prefsSetCmd    `cmd:"" help:"Change a preference."`
	Themes prefsThemesCmd `cmd:"" help:"List available themes."`
}

type prefsGetCmd struct {
	Key string `arg:"" optional:"" help:"Preference key."`
}

type prefsSetCmd struct {
	Theme    setThemeCmd    `cmd:"" help:"Select a highlight theme."`
	Gradient setGradientCmd `cmd:"" help:"Set the header gradient."`
}

type setThemeCmd struct {
	Name string `arg:"" help:"Theme name."`
}

type setGradientCmd struct {
	Start string `arg:"" help:"Start colour, #rrggbb."`
	End   string `arg:"" help:"End colour, #rrggbb."`
}

type prefsThemesCmd struct{}

func openStore() (*store.Store, error) {
	return store.Open(filepath.Join(config.DataDir(), "flingwatch.db"))
}

func (c *prefsGetCmd) Run(e *env) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if c.Key != "" {
		v, err := st.Get(c.Key)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%s is not set", c.Key)
		}
		if err != nil {
			return err
		}
		e.printf("%s\n", v)
		return nil
	}

	entries, err := st.All()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		e.printf("No preferences stored; defaults apply (theme %s, gradient %s %s).\n",
			st.GetOr(store.KeyTheme, prefs.DefaultTheme),
			st.GetOr(store.KeyGradientStart, prefs.DefaultGradientStart),
			st.GetOr(store.KeyGradientEnd, prefs.DefaultGradientEnd))
		return nil
	}
	for _, en := range entries {
		e.printf("%-20s %-16s %s\n", en.Key, en.Value, humanize.Time(en.Updated))
	}
	return nil
}

func (c *setThemeCmd) Run(e *env) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	p, err := prefs.Load(st, e.events)
	if err != nil {
		return err
	}
	changed, err := p.SetTheme(c.Name)
	if err != nil {
		return err
	}
	if !changed {
		e.printf("Theme already %s\n", p.Theme().Name)
		return nil
	}
	e.printf("Theme set to %s\n", p.Theme().Label)
	return nil
}

func (c *setGradientCmd) Run(e *env) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	p, err := prefs.Load(st, e.events)
	if err != nil {
		return err
	}
	changed, err := p.SetGradient(c.Start, c.End)
	if err != nil {
		return err
	}
	g := p.Gradient()
	if !changed {
		e.printf("Gradient already %s → %s\n", g.Start, g.End)
		return nil
	}
	e.printf("%s\n", g.Render(fmt.Sprintf(" %s → %s", g.Start, g.End), 40))
	return nil
}

func (c *prefsThemesCmd) Run(e *env) error {
	e.printf("%s\n", strings.Join(prefs.ThemeNames(), "\n"))
	return nil
}
