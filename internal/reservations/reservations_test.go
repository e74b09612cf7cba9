package reservations

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestNormalizeShapes(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		shape Shape
		count int
	}{
		{"null", `null`, ShapeNone, 0},
		{"blank", ``, ShapeNone, 0},
		{"empty array", `[]`, ShapeArray, 0},
		{"array", `[{"serverId":"a"},{"serverId":"b"}]`, ShapeArray, 2},
		{"keyed", `{"a":{"serverId":"a"},"b":{"serverId":"b"}}`, ShapeKeyed, 2},
		{"single", `{"serverId":"a","region":"eu"}`, ShapeObject, 1},
		{"empty object", `{}`, ShapeEmptyObject, 0},
		{"scalar", `42`, ShapeUnexpected, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := Normalize(json.RawMessage(tt.raw))
			if err != nil {
				t.Fatalf("Normalize: %v", err)
			}
			if snap.Shape != tt.shape {
				t.Errorf("shape = %v, want %v", snap.Shape, tt.shape)
			}
			if len(snap.Records) != tt.count {
				t.Errorf("records = %d, want %d", len(snap.Records), tt.count)
			}
		})
	}
}

func TestNormalizeMalformed(t *testing.T) {
	if _, err := Normalize(json.RawMessage(`{"a":`)); err == nil {
		t.Fatal("expected error for truncated object")
	}
}

func TestSorted(t *testing.T) {
	snap, err := Normalize(json.RawMessage(`[
		{"serverId":"b","region":"us","timestamp":10,"currentPlayerCount":3},
		{"serverId":"a","region":"eu","timestamp":30},
		{"serverId":"c","region":"asia","timestamp":20,"currentPlayerCount":7}
	]`))
	if err != nil {
		t.Fatal(err)
	}

	ids := func(key SortKey) string {
		var out []string
		for _, r := range Sorted(snap.Records, key) {
			out = append(out, r.ServerID())
		}
		return strings.Join(out, ",")
	}

	tests := []struct {
		key  SortKey
		want string
	}{
		{SortTimestamp, "a,c,b"},
		{SortPlayers, "c,b,a"},
		{SortRegion, "c,a,b"},
		{SortID, "a,b,c"},
		{SortKey("bogus"), "a,c,b"},
	}
	for _, tt := range tests {
		if got := ids(tt.key); got != tt.want {
			t.Errorf("Sorted(%q) = %s, want %s", tt.key, got, tt.want)
		}
	}

	// input order untouched
	if snap.Records[0].ServerID() != "b" {
		t.Error("Sorted modified its input")
	}
}

func TestSortKeyNext(t *testing.T) {
	k := SortTimestamp
	seen := map[SortKey]bool{}
	for range SortKeys {
		seen[k] = true
		k = k.Next()
	}
	if k != SortTimestamp || len(seen) != len(SortKeys) {
		t.Errorf("Next did not cycle through all keys: %v", seen)
	}
}

func TestViewFingerprint(t *testing.T) {
	v := NewView(SortTimestamp, nil)
	raw := json.RawMessage(`{"s1":{"serverId":"s1","timestamp":1}}`)

	changed, err := v.Update(raw)
	if err != nil || !changed {
		t.Fatalf("first Update = %v, %v; want true, nil", changed, err)
	}
	if !v.Flush() {
		t.Fatal("first Flush should render")
	}
	if changed, _ := v.Update(raw); changed {
		t.Error("identical payload should not re-render")
	}
	if v.Flush() {
		t.Error("Flush without pending render should do nothing")
	}

	changed, _ = v.Update(json.RawMessage(`{"s1":{"serverId":"s1","timestamp":2}}`))
	if !changed {
		t.Error("changed payload should re-render")
	}
}

func TestViewCoalescesRenders(t *testing.T) {
	v := NewView(SortTimestamp, nil)
	v.Update(json.RawMessage(`[{"serverId":"a","timestamp":1}]`))
	v.SetSort(SortID)
	v.Update(json.RawMessage(`[{"serverId":"a","timestamp":2}]`))

	if !v.Pending() {
		t.Fatal("expected a pending render")
	}
	if !v.Flush() {
		t.Fatal("expected one render")
	}
	if v.Flush() {
		t.Error("bursts should collapse into a single render")
	}
}

func TestViewSortRerendersWithoutFetch(t *testing.T) {
	v := NewView(SortTimestamp, nil)
	v.Update(json.RawMessage(`[{"serverId":"b","timestamp":2},{"serverId":"a","timestamp":1}]`))
	v.Flush()
	if v.Blocks()[0].Title != "b" {
		t.Fatalf("first block = %q, want b", v.Blocks()[0].Title)
	}

	if !v.SetSort(SortID) {
		t.Fatal("SetSort should report a change")
	}
	if v.SetSort(SortID) {
		t.Error("SetSort to the same key should be a no-op")
	}
	v.Flush()
	if v.Blocks()[0].Title != "a" {
		t.Errorf("after sort by id first block = %q, want a", v.Blocks()[0].Title)
	}
}

func TestViewMessages(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`null`, TextNoData},
		{`[]`, TextNone},
		{`{}`, TextEmptyObject},
		{`"x"`, TextUnexpected},
	}
	for _, tt := range tests {
		v := NewView(SortTimestamp, nil)
		v.Update(json.RawMessage(tt.raw))
		v.Flush()
		if v.Message() != tt.want {
			t.Errorf("%s: message = %q, want %q", tt.raw, v.Message(), tt.want)
		}
	}
}

func TestViewFailThenRecover(t *testing.T) {
	v := NewView(SortTimestamp, nil)
	raw := json.RawMessage(`[{"serverId":"a"}]`)
	v.Update(raw)
	v.Flush()

	v.Fail(errors.New("boom"))
	if v.Message() != "Failed to load data: boom" {
		t.Errorf("message = %q", v.Message())
	}
	if len(v.Blocks()) != 0 {
		t.Error("blocks should be cleared on failure")
	}

	changed, _ := v.Update(raw)
	if !changed {
		t.Error("same payload after a failure must re-render")
	}
}

func TestCopyText(t *testing.T) {
	v := NewView(SortID, nil)
	if _, ok := v.CopyText(); ok {
		t.Error("CopyText before data should report no data")
	}
	v.Update(json.RawMessage(`{"b":{"serverId":"b","extra":{"k":1}},"a":{"serverId":"a"}}`))

	text, ok := v.CopyText()
	if !ok {
		t.Fatal("CopyText reported no data")
	}
	var out []map[string]any
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		t.Fatalf("copy text is not JSON: %v", err)
	}
	if len(out) != 2 || out[0]["serverId"] != "a" {
		t.Errorf("copy = %v", out)
	}
	if _, ok := out[1]["extra"]; !ok {
		t.Error("unknown fields must survive copying")
	}
}

func TestHighlightFallback(t *testing.T) {
	h := NewHighlighter("onedark")
	out, err := h.Highlight(`{"a": 1}`)
	if err != nil {
		t.Fatalf("Highlight: %v", err)
	}
	if !strings.Contains(out, "\x1b[") {
		t.Error("expected ANSI colour codes")
	}

	var nilH *Highlighter
	if _, err := nilH.Highlight("{}"); err == nil {
		t.Error("nil highlighter should error, not panic")
	}

	v := NewView(SortTimestamp, nilH)
	v.Update(json.RawMessage(`[{"serverId":"a","note":"x\u001b[31m"}]`))
	v.Flush()
	if strings.Contains(v.Blocks()[0].Body, "\x1b") {
		t.Error("plain fallback must strip escape characters")
	}
}

func TestRegions(t *testing.T) {
	if _, msg := Regions(nil); msg != RegionError {
		t.Errorf("nil map message = %q", msg)
	}
	if _, msg := Regions(map[string]int{}); msg != RegionEmpty {
		t.Errorf("empty map message = %q", msg)
	}
	lines, msg := Regions(map[string]int{"us": 2, "eu": 1})
	if msg != "" || len(lines) != 2 {
		t.Fatalf("Regions = %v, %q", lines, msg)
	}
	if lines[0].Region != "eu" || lines[0].Label() != "1 bot" || lines[1].Label() != "2 bots" {
		t.Errorf("lines = %+v", lines)
	}
}
