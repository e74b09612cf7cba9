package reservations

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/abelbrown/flingwatch/internal/model"
)

// SortKey selects the display order of reservations.
type SortKey string

const (
	SortTimestamp SortKey = "timestamp" // newest first
	SortPlayers   SortKey = "players"   // most players first, missing last
	SortRegion    SortKey = "region"    // A-Z
	SortID        SortKey = "id"        // A-Z
)

// SortKeys lists the keys in the order they are offered to the user.
var SortKeys = []SortKey{SortTimestamp, SortPlayers, SortRegion, SortID}

// ParseSortKey maps a name to a SortKey. Unknown names fall back to
// SortTimestamp and report false.
func ParseSortKey(name string) (SortKey, bool) {
	k := SortKey(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range SortKeys {
		if k == known {
			return k, true
		}
	}
	return SortTimestamp, false
}

// Next returns the key after k, wrapping around.
func (k SortKey) Next() SortKey {
	for i, known := range SortKeys {
		if known == k {
			return SortKeys[(i+1)%len(SortKeys)]
		}
	}
	return SortTimestamp
}

// Sorted returns a sorted copy of records; the input is left untouched.
func Sorted(records []model.Reservation, key SortKey) []model.Reservation {
	out := make([]model.Reservation, len(records))
	copy(out, records)

	if _, ok := ParseSortKey(string(key)); !ok {
		key = SortTimestamp
	}

	col := collate.New(language.Und)
	var less func(a, b model.Reservation) bool
	switch key {
	case SortPlayers:
		less = func(a, b model.Reservation) bool { return a.PlayerCount() > b.PlayerCount() }
	case SortRegion:
		less = func(a, b model.Reservation) bool { return col.CompareString(a.Region(), b.Region()) < 0 }
	case SortID:
		less = func(a, b model.Reservation) bool { return col.CompareString(a.ServerID(), b.ServerID()) < 0 }
	default:
		less = func(a, b model.Reservation) bool { return a.Timestamp() > b.Timestamp() }
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
