// Command flingwatch is the terminal dashboard for the fling-bot
// coordination API.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/flingwatch/internal/api"
	"github.com/abelbrown/flingwatch/internal/config"
	"github.com/abelbrown/flingwatch/internal/logging"
	"github.com/abelbrown/flingwatch/internal/otel"
	"github.com/abelbrown/flingwatch/internal/poll"
	"github.com/abelbrown/flingwatch/internal/prefs"
	"github.com/abelbrown/flingwatch/internal/reservations"
	"github.com/abelbrown/flingwatch/internal/store"
	"github.com/abelbrown/flingwatch/internal/ui"
)

var cli struct {
	Config string `help:"Config file." type:"path" placeholder:"PATH"`
	URL    string `help:"API base URL, overrides the config file." placeholder:"URL"`
	Debug  bool   `help:"Log at debug level."`
}

func main() {
	kong.Parse(&cli,
		kong.Name("flingwatch"),
		kong.Description("Live dashboard for the fling-bot coordination API."),
	)

	cfg, err := config.Load(cli.Config)
	if err != nil {
		fatal("Failed to load config: %v", err)
	}
	if cli.URL != "" {
		cfg.BaseURL = cli.URL
	}
	if cli.Debug {
		cfg.LogLevel = "debug"
	}

	dataDir := config.DataDir()
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		fatal("Failed to create data directory: %v", err)
	}

	if err := logging.Init(dataDir, cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}
	defer logging.Close()

	events, err := otel.Open(dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: event log disabled: %v\n", err)
		events = otel.NewNullLogger()
	}
	defer events.Close()
	ring := otel.NewRingBuffer(otel.DefaultRingSize)
	events.SetRingBuffer(ring)
	events.Emit(otel.Event{Kind: otel.KindStartup, Level: otel.LevelInfo, Comp: "main", Msg: cfg.BaseURL})

	dbPath := filepath.Join(dataDir, "flingwatch.db")
	st, err := store.Open(dbPath)
	if err != nil {
		fatal("Failed to open database: %v", err)
	}
	defer st.Close()

	p, err := prefs.Load(st, events)
	if err != nil {
		logging.Warn("Failed to read preferences, using defaults", "error", err)
	}

	client, err := api.NewClient(cfg.BaseURL, api.Options{
		Timeout:   cfg.Timeout(),
		RateEvery: cfg.MinSpacing(),
		UserAgent: "flingwatch/" + logging.Version,
	})
	if err != nil {
		fatal("Invalid API URL: %v", err)
	}

	coordinator := poll.New(client, poll.Options{
		CoreInterval:  cfg.CoreInterval(),
		FlingInterval: cfg.FlingInterval(),
		ChatInterval:  cfg.ChatInterval(),
		Timeout:       cfg.Timeout(),
		ChatLimit:     cfg.Poll.ChatLimit,
		Events:        events,
	})

	sortKey, _ := reservations.ParseSortKey(cfg.UI.ReservationSort)
	app := ui.New(ui.Config{
		Prefs:            p,
		Events:           events,
		Ring:             ring,
		Trigger:          coordinator.Trigger,
		Copy:             clipboard.WriteAll,
		MaxFlings:        cfg.Feeds.MaxFlings,
		MaxChat:          cfg.Feeds.MaxChat,
		Flash:            cfg.Flash(),
		Sort:             sortKey,
		ShowReservations: cfg.UI.ShowReservations,
	})

	logging.Info("flingwatch starting", "url", client.BaseURL(), "version", logging.Version)

	ctx, cancel := context.WithCancel(context.Background())
	program := tea.NewProgram(app, tea.WithAltScreen())
	coordinator.Start(ctx, program)

	// Run UI (blocks until quit)
	if _, err := program.Run(); err != nil {
		logging.Error("Application error", "error", err)
		events.Error(otel.KindError, "main", err)
	}

	cancel()
	coordinator.Wait()
	events.Emit(otel.Event{Kind: otel.KindShutdown, Level: otel.LevelInfo, Comp: "main"})
	logging.Info("flingwatch exiting")
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
