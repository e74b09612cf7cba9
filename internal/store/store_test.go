package store

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	st, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestOpen(t *testing.T) {
	st := openMemory(t)

	var name string
	err := st.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='prefs'").Scan(&name)
	if err != nil {
		t.Fatalf("prefs table not created: %v", err)
	}
}

func TestGetSet(t *testing.T) {
	st := openMemory(t)

	if _, err := st.Get(KeyTheme); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get on empty store: got %v, want ErrNotFound", err)
	}
	if got := st.GetOr(KeyTheme, "atom-one-dark"); got != "atom-one-dark" {
		t.Errorf("GetOr default = %q", got)
	}

	if err := st.Set(KeyTheme, "monokai"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := st.Set(KeyTheme, "nord"); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	got, err := st.Get(KeyTheme)
	if err != nil || got != "nord" {
		t.Errorf("Get = %q, %v; want nord", got, err)
	}
}

func TestAllAndDelete(t *testing.T) {
	st := openMemory(t)
	st.Set(KeyGradientStart, "#000000")
	st.Set(KeyGradientEnd, "#ffffff")
	st.Set(KeyTheme, "vs")

	entries, err := st.All()
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(entries) != 3 || entries[0].Key != KeyTheme {
		t.Errorf("entries = %+v", entries)
	}
	if entries[0].Updated.IsZero() {
		t.Error("updated_at not set")
	}

	if err := st.Delete(KeyTheme); err != nil {
		t.Fatal(err)
	}
	if err := st.Delete("missing"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
	if _, err := st.Get(KeyTheme); !errors.Is(err, ErrNotFound) {
		t.Error("key still present after Delete")
	}
}

func TestPersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.db")
	st, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	st.Set(KeyGradientStart, "#6a11cb")
	st.Close()

	st, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	if got := st.GetOr(KeyGradientStart, ""); got != "#6a11cb" {
		t.Errorf("after reopen = %q", got)
	}
}

func TestConcurrentSet(t *testing.T) {
	st := openMemory(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := st.Set(fmt.Sprintf("k%02d", i), "v"); err != nil {
				t.Errorf("Set: %v", err)
			}
		}(i)
	}
	wg.Wait()

	entries, err := st.All()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 20 {
		t.Errorf("entries = %d, want 20", len(entries))
	}
}
