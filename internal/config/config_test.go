package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CoreInterval() != 1500*time.Millisecond || cfg.Poll.ChatLimit != 50 {
		t.Errorf("defaults not applied: %+v", cfg.Poll)
	}
	if cfg.Timeout() != 10*time.Second {
		t.Errorf("timeout = %v", cfg.Timeout())
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json")
	cfg := DefaultConfig()
	cfg.BaseURL = "http://bots.example:8080"
	cfg.Feeds.MaxChat = 25
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("perm = %v", info.Mode().Perm())
	}

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.BaseURL != cfg.BaseURL || got.Feeds.MaxChat != 25 {
		t.Errorf("loaded = %+v", got)
	}
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	os.WriteFile(path, []byte(`{"poll":{"chat_limit":10}}`), 0600)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Poll.ChatLimit != 10 {
		t.Errorf("chat limit = %d", cfg.Poll.ChatLimit)
	}
	if cfg.Poll.FlingIntervalMs != 1000 || cfg.Feeds.MaxFlings != 100 || cfg.UI.FlashMs != 300 {
		t.Errorf("unset fields lost their defaults: %+v", cfg)
	}
}

func TestMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	os.WriteFile(path, []byte(`{not json`), 0600)
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("FLINGWATCH_URL", "http://env.example")
	t.Setenv("FLINGWATCH_CHAT_LIMIT", "7")
	t.Setenv("FLINGWATCH_MAX_FLINGS", "3")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.json"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BaseURL != "http://env.example" || cfg.Poll.ChatLimit != 7 || cfg.Feeds.MaxFlings != 3 {
		t.Errorf("env not applied: %+v", cfg)
	}

	t.Setenv("FLINGWATCH_CHAT_LIMIT", "lots")
	if _, err := Load(filepath.Join(t.TempDir(), "none.json")); err == nil {
		t.Error("expected error for non-numeric override")
	}
}

func TestDataDirOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("FLINGWATCH_HOME", dir)
	if DataDir() != dir || ConfigPath() != filepath.Join(dir, "config.json") {
		t.Errorf("DataDir = %q", DataDir())
	}
}
