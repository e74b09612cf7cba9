package prefs

import (
	"errors"
	"fmt"

	"github.com/abelbrown/flingwatch/internal/otel"
	"github.com/abelbrown/flingwatch/internal/store"
)

// KV is the storage Prefs needs. *store.Store satisfies it.
type KV interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// Prefs is the current theme and gradient. The in-memory selection always
// mirrors the last write, even when persisting it failed.
type Prefs struct {
	kv       KV
	events   *otel.Logger
	theme    Theme
	gradient Gradient
}

// Load reads the stored selection. Missing or invalid values fall back to
// the defaults without error; only storage failures are reported, and even
// then a usable Prefs is returned.
func Load(kv KV, events *otel.Logger) (*Prefs, error) {
	p := &Prefs{kv: kv, events: events, gradient: DefaultGradient()}
	p.theme, _ = LookupTheme(DefaultTheme)

	var errs []error
	if name, err := kv.Get(store.KeyTheme); err == nil {
		if t, err := LookupTheme(name); err == nil {
			p.theme = t
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		errs = append(errs, err)
	}

	start, errS := kv.Get(store.KeyGradientStart)
	end, errE := kv.Get(store.KeyGradientEnd)
	for _, err := range []error{errS, errE} {
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			errs = append(errs, err)
		}
	}
	if errS == nil && errE == nil {
		if g, err := NewGradient(start, end); err == nil {
			p.gradient = g
		}
	}
	return p, errors.Join(errs...)
}

// Theme returns the selected theme.
func (p *Prefs) Theme() Theme { return p.theme }

// Gradient returns the selected gradient.
func (p *Prefs) Gradient() Gradient { return p.gradient }

// SetTheme selects and persists a theme. Selecting the current theme is a
// no-op and reports false.
func (p *Prefs) SetTheme(name string) (bool, error) {
	t, err := LookupTheme(name)
	if err != nil {
		return false, err
	}
	if t.Name == p.theme.Name {
		return false, nil
	}
	p.theme = t
	p.logSet(store.KeyTheme, t.Name)
	if err := p.kv.Set(store.KeyTheme, t.Name); err != nil {
		return true, fmt.Errorf("persist theme: %w", err)
	}
	return true, nil
}

// CycleTheme moves to the next theme in the catalogue.
func (p *Prefs) CycleTheme() (Theme, error) {
	next := p.theme.Next()
	_, err := p.SetTheme(next.Name)
	return p.theme, err
}

// SetGradient validates, selects and persists both colours. Invalid input
// leaves the current gradient untouched.
func (p *Prefs) SetGradient(start, end string) (bool, error) {
	g, err := NewGradient(start, end)
	if err != nil {
		return false, err
	}
	if g == p.gradient {
		return false, nil
	}
	p.gradient = g
	p.logSet("gradient", g.Start+" "+g.End)
	if err := p.kv.Set(store.KeyGradientStart, g.Start); err != nil {
		return true, fmt.Errorf("persist gradient: %w", err)
	}
	if err := p.kv.Set(store.KeyGradientEnd, g.End); err != nil {
		return true, fmt.Errorf("persist gradient: %w", err)
	}
	return true, nil
}

func (p *Prefs) logSet(key, value string) {
	p.events.Emit(otel.Event{
		Kind:  otel.KindPrefsSet,
		Level: otel.LevelInfo,
		Comp:  "prefs",
		Msg:   value,
		Extra: map[string]any{"key": key},
	})
}
