package poll

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/flingwatch/internal/api"
	"github.com/abelbrown/flingwatch/internal/apitest"
	"github.com/abelbrown/flingwatch/internal/model"
)

// mockSource implements Source for testing.
type mockSource struct {
	statsErr   error
	resErr     error
	flingDelay time.Duration
	flings     []model.Fling
	chatLimit  atomic.Int32
	flingCalls atomic.Int32
}

func (m *mockSource) Stats(ctx context.Context) (model.Stats, error) {
	if m.statsErr != nil {
		return model.Stats{}, m.statsErr
	}
	n := 2
	return model.Stats{BotCount: &n}, nil
}

func (m *mockSource) Reservations(ctx context.Context) (json.RawMessage, error) {
	if m.resErr != nil {
		return nil, m.resErr
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(5 * time.Millisecond):
	}
	return json.RawMessage(`[]`), nil
}

func (m *mockSource) Flings(ctx context.Context) ([]model.Fling, error) {
	m.flingCalls.Add(1)
	if m.flingDelay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(m.flingDelay):
		}
	}
	return m.flings, nil
}

func (m *mockSource) ChatLogs(ctx context.Context, limit int) ([]model.ChatMessage, error) {
	m.chatLimit.Store(int32(limit))
	return []model.ChatMessage{{ReceivedAt: 1, PlayerName: "p", Message: "m"}}, nil
}

// recorder collects sent messages.
type recorder struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (r *recorder) Send(msg tea.Msg) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func (r *recorder) snapshot() []tea.Msg {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]tea.Msg(nil), r.msgs...)
}

func TestPollAssignsIncreasingSeq(t *testing.T) {
	c := New(&mockSource{}, Options{})
	ctx := context.Background()

	first := c.Poll(ctx, FeedFlings, nil).(FlingsResult)
	second := c.Poll(ctx, FeedFlings, nil).(FlingsResult)
	chat := c.Poll(ctx, FeedChat, nil).(ChatResult)

	if first.Seq != 1 || second.Seq != 2 {
		t.Errorf("fling seqs = %d, %d; want 1, 2", first.Seq, second.Seq)
	}
	if chat.Seq != 1 {
		t.Errorf("chat seq = %d; feeds must count independently", chat.Seq)
	}
	if first.ID == "" || first.ID == second.ID {
		t.Errorf("cycle ids = %q, %q", first.ID, second.ID)
	}
}

func TestPollSendsStarted(t *testing.T) {
	c := New(&mockSource{}, Options{})
	rec := &recorder{}
	c.Poll(context.Background(), FeedChat, rec)

	msgs := rec.snapshot()
	if len(msgs) != 1 {
		t.Fatalf("sent %d messages, want 1", len(msgs))
	}
	if st, ok := msgs[0].(Started); !ok || st.Feed != FeedChat || st.Seq != 1 {
		t.Errorf("sent %#v", msgs[0])
	}
}

func TestCoreFailsAsAWhole(t *testing.T) {
	boom := errors.New("boom")
	c := New(&mockSource{resErr: boom}, Options{})

	res := c.Poll(context.Background(), FeedCore, nil).(CoreResult)
	if !errors.Is(res.Err, boom) {
		t.Fatalf("err = %v, want boom", res.Err)
	}
	if res.Stats.BotCount != nil {
		t.Error("stats must be discarded when reservations fail")
	}
	if res.Seq != 1 {
		t.Errorf("seq = %d", res.Seq)
	}
}

func TestCoreSuccess(t *testing.T) {
	c := New(&mockSource{}, Options{})
	res := c.Poll(context.Background(), FeedCore, nil).(CoreResult)
	if res.Err != nil {
		t.Fatal(res.Err)
	}
	if res.Stats.BotCount == nil || *res.Stats.BotCount != 2 || string(res.Reservations) != "[]" {
		t.Errorf("result = %+v", res)
	}
}

func TestChatLimitDefault(t *testing.T) {
	src := &mockSource{}
	c := New(src, Options{})
	c.Poll(context.Background(), FeedChat, nil)
	if src.chatLimit.Load() != 50 {
		t.Errorf("limit = %d, want 50", src.chatLimit.Load())
	}
}

func TestPollTimeout(t *testing.T) {
	src := &mockSource{flingDelay: time.Second}
	c := New(src, Options{Timeout: 20 * time.Millisecond})

	start := time.Now()
	res := c.Poll(context.Background(), FeedFlings, nil).(FlingsResult)
	if !errors.Is(res.Err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", res.Err)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Error("poll was not bounded by the timeout")
	}
}

func TestUnknownFeed(t *testing.T) {
	c := New(&mockSource{}, Options{})
	res, ok := c.Poll(context.Background(), Feed("bogus"), nil).(FlingsResult)
	if !ok || res.Err == nil {
		t.Errorf("unknown feed should report an error, got %#v", res)
	}
}

func TestStartPollsEveryFeedAndStops(t *testing.T) {
	src := &mockSource{}
	c := New(src, Options{
		CoreInterval:  10 * time.Millisecond,
		FlingInterval: 10 * time.Millisecond,
		ChatInterval:  10 * time.Millisecond,
	})
	rec := &recorder{}
	ctx, cancel := context.WithCancel(context.Background())
	c.Start(ctx, rec)
	time.Sleep(60 * time.Millisecond)
	cancel()
	c.Wait()

	seen := map[string]int{}
	for _, m := range rec.snapshot() {
		switch m.(type) {
		case CoreResult:
			seen["core"]++
		case FlingsResult:
			seen["flings"]++
		case ChatResult:
			seen["chat"]++
		}
	}
	for _, f := range []string{"core", "flings", "chat"} {
		if seen[f] == 0 {
			t.Errorf("no %s results delivered: %v", f, seen)
		}
	}

	calls := src.flingCalls.Load()
	time.Sleep(30 * time.Millisecond)
	if src.flingCalls.Load() != calls {
		t.Error("polling continued after Wait returned")
	}
}

func TestSlowFeedSkipsTicks(t *testing.T) {
	src := &mockSource{flingDelay: 80 * time.Millisecond}
	c := New(src, Options{
		FlingInterval: 5 * time.Millisecond,
		CoreInterval:  time.Hour,
		ChatInterval:  time.Hour,
		MaxInFlight:   1,
	})
	rec := &recorder{}
	ctx, cancel := context.WithCancel(context.Background())
	c.Start(ctx, rec)
	time.Sleep(40 * time.Millisecond)
	cancel()
	c.Wait()

	if n := src.flingCalls.Load(); n != 1 {
		t.Errorf("fling calls = %d, want 1 while the first is in flight", n)
	}
	skipped := 0
	for _, m := range rec.snapshot() {
		if _, ok := m.(Skipped); ok {
			skipped++
		}
	}
	if skipped == 0 {
		t.Error("expected skipped ticks to be reported")
	}
}

func TestTrigger(t *testing.T) {
	src := &mockSource{}
	c := New(src, Options{
		CoreInterval:  time.Hour,
		FlingInterval: time.Hour,
		ChatInterval:  time.Hour,
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		c.Wait()
	}()
	c.Start(ctx, nil)

	deadline := time.Now().Add(time.Second)
	for src.flingCalls.Load() < 1 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	c.Trigger(FeedFlings)
	c.Trigger(Feed("bogus"))
	for src.flingCalls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if src.flingCalls.Load() < 2 {
		t.Error("Trigger did not cause a poll")
	}
}

func TestAgainstFakeBackend(t *testing.T) {
	b := apitest.New(t)
	b.SetFlings([]model.Fling{{Timestamp: 2, BotName: "b", Target: "t"}})
	b.SetRaw(api.PathReservations, `{"s1":{"serverId":"s1"}}`)
	client, err := api.NewClient(b.URL, api.Options{})
	if err != nil {
		t.Fatal(err)
	}

	c := New(client, Options{ChatLimit: 5})
	ctx := context.Background()

	if res := c.Poll(ctx, FeedFlings, nil).(FlingsResult); res.Err != nil || len(res.Items) != 1 {
		t.Errorf("flings = %+v", res)
	}
	if res := c.Poll(ctx, FeedCore, nil).(CoreResult); res.Err != nil || len(res.Reservations) == 0 {
		t.Errorf("core = %+v", res)
	}
	c.Poll(ctx, FeedChat, nil)
	if limits := b.ChatLimits(); len(limits) != 1 || limits[0] != 5 {
		t.Errorf("chat limits = %v", limits)
	}

	b.Fail(api.PathStats, 503)
	if res := c.Poll(ctx, FeedCore, nil).(CoreResult); !api.IsStatus(res.Err, 503) {
		t.Errorf("core err = %v, want 503", res.Err)
	}
}
