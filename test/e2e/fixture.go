package e2e

import (
	"os"
	"path/filepath"
	"time"

	"github.com/abelbrown/flingwatch/internal/apitest"
	"github.com/abelbrown/flingwatch/internal/model"
	"github.com/abelbrown/flingwatch/internal/store"
)

// seedPrefs stores a non-default theme so startup must read it back.
func seedPrefs(dataDir string) error {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return err
	}
	st, err := store.Open(filepath.Join(dataDir, "flingwatch.db"))
	if err != nil {
		return err
	}
	defer st.Close()
	return st.Set(store.KeyTheme, "monokai")
}

func seedBackend(b *apitest.Backend) {
	now := float64(time.Now().Unix())
	bots, servers, total := 2, 1, 42
	rate := 3.5
	b.SetStats(model.Stats{
		BotCount:           &bots,
		ServerCount:        &servers,
		TotalFlings:        &total,
		FlingRatePerMinute: &rate,
		BotsPerRegion:      map[string]int{"eu": 2},
	})
	b.SetReservations(map[string]any{
		"srv-1": map[string]any{"serverId": "srv-1", "botName": "alpha", "region": "eu", "currentPlayerCount": 7, "timestamp": now},
	})
	b.SetFlings([]model.Fling{
		{Timestamp: now, BotName: "alpha", Target: "Zed", ServerID: "srv-1"},
		{Timestamp: now - 5, BotName: "beta", Target: "Amy", ServerID: "srv-1"},
	})
	b.SetChat([]model.ChatMessage{
		{ReceivedAt: now, PlayerName: "Zed", Message: "who flung me"},
		{ReceivedAt: now - 2, PlayerName: "Amy", Message: "hello"},
	})
}

func readSnapshot(f *os.File) string {
	if err := f.SetReadDeadline(time.Now().Add(50 * time.Millisecond)); err != nil {
		return ""
	}
	out := make([]byte, 0, 8192)
	buf := make([]byte, 4096)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			out = append(out, buf[:n]...)
		}
		if err != nil {
			break
		}
	}
	return string(out)
}
