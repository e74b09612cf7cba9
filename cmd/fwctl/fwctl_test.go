package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/abelbrown/flingwatch/internal/apitest"
	"github.com/abelbrown/flingwatch/internal/config"
	"github.com/abelbrown/flingwatch/internal/model"
)

func testEnv(t *testing.T, baseURL string) (*env, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	t.Setenv("FLINGWATCH_HOME", t.TempDir())
	cfg := config.DefaultConfig()
	cfg.BaseURL = baseURL
	cfg.Poll.MinSpacingMs = 0
	cfg.Poll.TimeoutMs = 2000
	var out, errOut bytes.Buffer
	return &env{cfg: cfg, out: &out, errOut: &errOut}, &out, &errOut
}

func intp(v int) *int { return &v }

func TestSnapshot(t *testing.T) {
	b := apitest.New(t)
	b.SetStats(model.Stats{
		BotCount:      intp(3),
		ServerCount:   intp(2),
		TotalFlings:   intp(12345),
		BotsPerRegion: map[string]int{"us-east": 2, "eu": 1},
	})
	b.SetReservations(map[string]any{
		"s1": map[string]any{"serverId": "s1", "botName": "alpha", "timestamp": 10},
		"s2": map[string]any{"serverId": "s2", "botName": "beta", "timestamp": 20},
	})
	b.SetFlings([]model.Fling{{Timestamp: 2, BotName: "alpha", Target: "Zed"}, {Timestamp: 1, BotName: "beta", Target: "Amy"}})
	b.SetChat([]model.ChatMessage{{ReceivedAt: 1, PlayerName: "Zed", Message: "help"}})

	e, out, _ := testEnv(t, b.URL)
	if err := (&snapshotCmd{Limit: 10, Sort: "timestamp"}).Run(e); err != nil {
		t.Fatalf("Run: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"Bots:          3",
		"Total flings:  12,345",
		"Flings / min:  ?",
		"eu           1 bot",
		"us-east      2 bots",
		"Reservations (2, by timestamp, plain)",
		"# s2 · beta",
		"alpha → Zed",
		"Zed: help",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Index(got, "# s2") > strings.Index(got, "# s1") {
		t.Error("reservations should be newest first")
	}
}

func TestSnapshotReportsFailures(t *testing.T) {
	b := apitest.New(t)
	b.Fail("/flings", 500)

	e, out, _ := testEnv(t, b.URL)
	err := (&snapshotCmd{Limit: 5, Sort: "id"}).Run(e)
	if err == nil || !strings.Contains(err.Error(), "flings:") {
		t.Fatalf("err = %v, want a flings failure", err)
	}
	if !strings.Contains(out.String(), "Stats") {
		t.Error("other feeds should still print")
	}
}

func TestTailPrintsEachFlingOnceOldestFirst(t *testing.T) {
	b := apitest.New(t)
	b.SetFlings([]model.Fling{
		{Timestamp: 2, BotName: "second", Target: "x"},
		{Timestamp: 1, BotName: "first", Target: "x"},
	})

	e, out, _ := testEnv(t, b.URL)
	if err := (&tailCmd{Feed: "flings", Polls: 2, Interval: time.Millisecond}).Run(e); err != nil {
		t.Fatalf("Run: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), out.String())
	}
	if !strings.Contains(lines[0], "first") || !strings.Contains(lines[1], "second") {
		t.Errorf("lines out of order:\n%s", out.String())
	}
	if b.Hits("/flings") != 2 {
		t.Errorf("hits = %d, want 2", b.Hits("/flings"))
	}
}

func TestTailChatFilter(t *testing.T) {
	b := apitest.New(t)
	b.SetChat([]model.ChatMessage{
		{ReceivedAt: 2, PlayerName: "Bob", Message: "gg"},
		{ReceivedAt: 1, PlayerName: "amy", Message: "hi"},
	})

	e, out, _ := testEnv(t, b.URL)
	if err := (&tailCmd{Feed: "chat", Polls: 1, Filter: " BOB "}).Run(e); err != nil {
		t.Fatalf("Run: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "Bob: gg") || strings.Contains(got, "amy") {
		t.Errorf("filtered output = %q", got)
	}
}

func TestTailReportsErrors(t *testing.T) {
	b := apitest.New(t)
	b.Fail("/get_chatlogs", 503)

	e, out, errOut := testEnv(t, b.URL)
	if err := (&tailCmd{Feed: "chat", Polls: 1}).Run(e); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("stdout = %q, want nothing", out.String())
	}
	if !strings.Contains(errOut.String(), "503") {
		t.Errorf("stderr = %q, want the status", errOut.String())
	}
}

func TestPrinterCountsData(t *testing.T) {
	var buf bytes.Buffer
	p := &printer[model.Fling]{w: &buf, line: func(f model.Fling) string { return f.BotName }}

	p.Render(model.Fling{BotName: "a"})
	p.Render(model.Fling{BotName: "b"})
	if p.DataCount() != 2 {
		t.Errorf("DataCount = %d, want 2", p.DataCount())
	}
	if !p.RemoveOldest() || !p.RemoveOldest() || p.RemoveOldest() {
		t.Error("RemoveOldest should succeed exactly twice")
	}
	if buf.String() != "a\nb\n" {
		t.Errorf("printed %q", buf.String())
	}
}

func TestPrefsSetAndGet(t *testing.T) {
	e, out, _ := testEnv(t, "http://localhost:5000")

	if err := (&prefsGetCmd{}).Run(e); err != nil {
		t.Fatalf("get: %v", err)
	}
	if !strings.Contains(out.String(), "defaults apply") {
		t.Errorf("empty store output = %q", out.String())
	}

	if err := (&setThemeCmd{Name: "Monokai"}).Run(e); err != nil {
		t.Fatalf("set theme: %v", err)
	}
	if err := (&setThemeCmd{Name: "nope"}).Run(e); err == nil {
		t.Error("unknown theme should fail")
	}
	if err := (&setGradientCmd{Start: "#000000", End: "#FFFFFF"}).Run(e); err != nil {
		t.Fatalf("set gradient: %v", err)
	}
	if err := (&setGradientCmd{Start: "red", End: "#ffffff"}).Run(e); err == nil {
		t.Error("invalid colour should fail")
	}

	out.Reset()
	if err := (&prefsGetCmd{Key: "tcdDashboardTheme"}).Run(e); err != nil {
		t.Fatalf("get key: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "monokai" {
		t.Errorf("theme = %q, want monokai", got)
	}

	out.Reset()
	if err := (&prefsGetCmd{}).Run(e); err != nil {
		t.Fatalf("get all: %v", err)
	}
	for _, want := range []string{"tcdGradientEnd", "#ffffff", "tcdGradientStart", "#000000"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("listing missing %q:\n%s", want, out.String())
		}
	}

	if err := (&prefsGetCmd{Key: "missing"}).Run(e); err == nil {
		t.Error("missing key should fail")
	}
}
