// Package apitest provides an in-process fake of the coordination API for
// tests.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/abelbrown/flingwatch/internal/model"
)

// Backend serves the four API endpoints from mutable in-memory state.
type Backend struct {
	*httptest.Server

	mu         sync.Mutex
	bodies     map[string][]byte
	failures   map[string]int
	delays     map[string]time.Duration
	hits       map[string]int
	requestIDs []string
	chatLimits []int
}

// New starts a Backend that is closed when the test ends.
func New(t testing.TB) *Backend {
	t.Helper()
	b := &Backend{
		bodies: map[string][]byte{
			"/":             []byte(`{}`),
			"/reservations": []byte(`{}`),
			"/flings":       []byte(`[]`),
			"/get_chatlogs": []byte(`[]`),
		},
		failures: make(map[string]int),
		delays:   make(map[string]time.Duration),
		hits:     make(map[string]int),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", b.handle("/"))
	r.Get("/reservations", b.handle("/reservations"))
	r.Get("/flings", b.handle("/flings"))
	r.Get("/get_chatlogs", b.handleChat)

	b.Server = httptest.NewServer(r)
	t.Cleanup(b.Close)
	return b
}

func (b *Backend) handle(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.hits[path]++
		b.requestIDs = append(b.requestIDs, r.Header.Get("X-Request-ID"))
		body := b.bodies[path]
		code := b.failures[path]
		delay := b.delays[path]
		b.mu.Unlock()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}
		if code != 0 {
			http.Error(w, http.StatusText(code), code)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
	}
}

func (b *Backend) handleChat(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		limit = -1
	}
	b.mu.Lock()
	b.chatLimits = append(b.chatLimits, limit)
	b.mu.Unlock()
	b.handle("/get_chatlogs")(w, r)
}

// SetRaw replaces the body served at path.
func (b *Backend) SetRaw(path, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bodies[path] = []byte(body)
}

func (b *Backend) setJSON(path string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bodies[path] = data
}

// SetStats serves s at the root.
func (b *Backend) SetStats(s model.Stats) { b.setJSON("/", s) }

// SetReservations serves v as the reservations payload.
func (b *Backend) SetReservations(v any) { b.setJSON("/reservations", v) }

// SetFlings serves flings, which should be newest first.
func (b *Backend) SetFlings(flings []model.Fling) { b.setJSON("/flings", flings) }

// SetChat serves chat messages, which should be newest first.
func (b *Backend) SetChat(msgs []model.ChatMessage) { b.setJSON("/get_chatlogs", msgs) }

// Fail makes path answer with code; 0 restores normal responses.
func (b *Backend) Fail(path string, code int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[path] = code
}

// Delay holds responses at path for d.
func (b *Backend) Delay(path string, d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.delays[path] = d
}

// Hits returns how many requests reached path.
func (b *Backend) Hits(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[path]
}

// RequestIDs returns the X-Request-ID headers seen so far.
func (b *Backend) RequestIDs() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.requestIDs...)
}

// ChatLimits returns the limit parameters seen on /get_chatlogs.
func (b *Backend) ChatLimits() []int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]int(nil), b.chatLimits...)
}
