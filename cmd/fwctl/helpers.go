package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abelbrown/flingwatch/internal/api"
	"github.com/abelbrown/flingwatch/internal/config"
	"github.com/abelbrown/flingwatch/internal/logging"
	"github.com/abelbrown/flingwatch/internal/otel"
	"github.com/abelbrown/flingwatch/internal/poll"
)

// env is what every subcommand receives from main.
type env struct {
	cfg    *config.Config
	events *otel.Logger
	out    io.Writer
	errOut io.Writer
}

func loadEnv(path, url string) (*env, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if url != "" {
		cfg.BaseURL = url
	}
	e := &env{cfg: cfg, out: os.Stdout, errOut: os.Stderr}
	if events, err := otel.Open(config.DataDir()); err == nil {
		e.events = events
	}
	return e, nil
}

func (e *env) close() {
	e.events.Close()
}

func (e *env) client() (*api.Client, error) {
	return api.NewClient(e.cfg.BaseURL, api.Options{
		Timeout:   e.cfg.Timeout(),
		RateEvery: e.cfg.MinSpacing(),
		UserAgent: "fwctl/" + logging.Version,
	})
}

func (e *env) coordinator() (*poll.Coordinator, error) {
	c, err := e.client()
	if err != nil {
		return nil, err
	}
	return poll.New(c, poll.Options{
		CoreInterval:  e.cfg.CoreInterval(),
		FlingInterval: e.cfg.FlingInterval(),
		ChatInterval:  e.cfg.ChatInterval(),
		Timeout:       e.cfg.Timeout(),
		ChatLimit:     e.cfg.Poll.ChatLimit,
		Events:        e.events,
	}), nil
}

func (e *env) printf(format string, args ...interface{}) {
	fmt.Fprintf(e.out, format, args...)
}

// truncate shortens a string to max runes, appending "..." if truncated.
func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
