package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/abelbrown/flingwatch/internal/config"
	"github.com/abelbrown/flingwatch/internal/otel"
)

type eventsCmd struct {
	Tail   int    `help:"Number of recent lines to show." default:"50"`
	Follow bool   `short:"f" help:"Follow mode (like tail -f)."`
	Kind   string `help:"Filter by event kind prefix (e.g. 'poll')."`
	Level  string `help:"Minimum level: debug, info, warn, error."`
	Comp   string `help:"Filter by component name."`
	Feed   string `help:"Filter by feed: core, flings, chat."`
	Cycle  string `help:"Filter by poll cycle id."`
	JSON   bool   `name:"json" help:"Output raw JSON lines."`
	File   string `help:"Event log path." type:"path" placeholder:"PATH"`
}

// eventRecord mirrors otel.Event for JSON decoding. Decoding the JSONL
// rather than otel.Event keeps old logs readable as the schema evolves.
type eventRecord struct {
	Time      time.Time      `json:"t"`
	Level     string         `json:"level"`
	Kind      string         `json:"kind"`
	Comp      string         `json:"comp"`
	SessionID string         `json:"session_id"`
	Feed      string         `json:"feed"`
	Seq       uint64         `json:"seq"`
	Cycle     string         `json:"cycle"`
	DurMs     float64        `json:"dur_ms"`
	Count     int            `json:"count"`
	Mark      float64        `json:"mark"`
	Err       string         `json:"err"`
	Msg       string         `json:"msg"`
	Extra     map[string]any `json:"extra"`
}

// levelRank returns a numeric rank for filtering (higher = more severe).
func levelRank(level string) int {
	switch level {
	case "info":
		return 1
	case "warn":
		return 2
	case "error":
		return 3
	default:
		return 0
	}
}

func (c *eventsCmd) match(ev eventRecord) bool {
	if c.Kind != "" && !strings.HasPrefix(ev.Kind, c.Kind) {
		return false
	}
	if c.Level != "" && levelRank(ev.Level) < levelRank(c.Level) {
		return false
	}
	if c.Comp != "" && ev.Comp != c.Comp {
		return false
	}
	if c.Feed != "" && ev.Feed != c.Feed {
		return false
	}
	if c.Cycle != "" && ev.Cycle != c.Cycle {
		return false
	}
	return true
}

func (c *eventsCmd) format(ev eventRecord, raw []byte) string {
	if c.JSON {
		return string(raw)
	}
	ts := ev.Time.Local().Format("15:04:05.000")
	lvl := strings.ToUpper(ev.Level)
	if lvl == "" {
		lvl = "?"
	}

	parts := []string{fmt.Sprintf("%s %-5s [%-5s] %-18s", ts, lvl, ev.Comp, ev.Kind)}

	if ev.Feed != "" {
		parts = append(parts, fmt.Sprintf("%s#%d", ev.Feed, ev.Seq))
	}
	if ev.Cycle != "" {
		parts = append(parts, "cycle="+ev.Cycle)
	}
	if ev.Msg != "" {
		parts = append(parts, "- "+ev.Msg)
	}
	if ev.DurMs > 0 {
		parts = append(parts, fmt.Sprintf("(%.*fms)", durPrecision(ev.DurMs), ev.DurMs))
	}
	if ev.Count > 0 {
		parts = append(parts, fmt.Sprintf("n=%d", ev.Count))
	}
	if ev.Mark > 0 {
		parts = append(parts, fmt.Sprintf("mark=%.3f", ev.Mark))
	}
	if ev.Err != "" {
		parts = append(parts, "err="+ev.Err)
	}

	return strings.Join(parts, " ")
}

func (c *eventsCmd) Run(e *env) error {
	logPath := c.File
	if logPath == "" {
		logPath = filepath.Join(config.DataDir(), otel.EventsFile)
	}

	f, err := os.Open(logPath)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("event log not found at %s; run flingwatch first to generate events", logPath)
	}
	if err != nil {
		return err
	}
	defer f.Close()

	for _, l := range readTailLines(f, c.Tail, c.match) {
		fmt.Fprintln(e.out, c.format(l.ev, l.raw))
	}
	if !c.Follow {
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return follow(ctx, f, e.out, c.match, c.format)
}

// follow prints lines appended to r until ctx is done.
func follow(ctx context.Context, r io.Reader, w io.Writer, match func(eventRecord) bool, format func(eventRecord, []byte) string) error {
	reader := bufio.NewReader(r)
	var partial []byte
	for {
		line, err := reader.ReadBytes('\n')
		partial = append(partial, line...)
		if err != nil {
			if err != io.EOF {
				return err
			}
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(100 * time.Millisecond):
			}
			continue
		}
		line = trimLine(partial)
		partial = nil
		if len(line) == 0 {
			continue
		}
		var ev eventRecord
		if json.Unmarshal(line, &ev) != nil {
			continue
		}
		if match(ev) {
			fmt.Fprintln(w, format(ev, line))
		}
	}
}

type parsedLine struct {
	ev  eventRecord
	raw []byte
}

// readTailLines reads r and returns the last n lines matching the filter.
func readTailLines(r io.Reader, n int, match func(eventRecord) bool) []parsedLine {
	scanner := bufio.NewScanner(r)
	// Allow large lines (some events may have big Extra maps)
	scanner.Buffer(make([]byte, 0, 64*1024), 256*1024)

	if n <= 0 {
		for scanner.Scan() {
		}
		return nil
	}
	ring := make([]parsedLine, 0, n)

	for scanner.Scan() {
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var ev eventRecord
		if json.Unmarshal(raw, &ev) != nil {
			continue
		}
		if !match(ev) {
			continue
		}
		// Make a copy of raw since scanner reuses the buffer
		rawCopy := make([]byte, len(raw))
		copy(rawCopy, raw)

		if len(ring) < n {
			ring = append(ring, parsedLine{ev: ev, raw: rawCopy})
		} else {
			copy(ring, ring[1:])
			ring[n-1] = parsedLine{ev: ev, raw: rawCopy}
		}
	}

	return ring
}

func trimLine(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return b
}

func durPrecision(ms float64) int {
	if ms >= 100 {
		return 0
	}
	if ms >= 1 {
		return 1
	}
	return 2
}
