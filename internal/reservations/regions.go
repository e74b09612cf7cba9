package reservations

import (
	"fmt"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// RegionError is shown when the stats payload has no region map.
const RegionError = "Error loading regional data"

// RegionEmpty is shown when no region has any bot.
const RegionEmpty = "No bots active in any specific region."

// RegionLine is one row of the region distribution.
type RegionLine struct {
	Region string
	Count  int
}

// Label renders "N bot" or "N bots".
func (l RegionLine) Label() string {
	if l.Count == 1 {
		return "1 bot"
	}
	return fmt.Sprintf("%d bots", l.Count)
}

// Regions turns a region->count map into sorted lines. A nil map yields
// RegionError, an empty one RegionEmpty.
func Regions(counts map[string]int) ([]RegionLine, string) {
	if counts == nil {
		return nil, RegionError
	}
	if len(counts) == 0 {
		return nil, RegionEmpty
	}
	lines := make([]RegionLine, 0, len(counts))
	for region, n := range counts {
		lines = append(lines, RegionLine{Region: region, Count: n})
	}
	col := collate.New(language.Und)
	sort.Slice(lines, func(i, j int) bool {
		return col.CompareString(lines[i].Region, lines[j].Region) < 0
	})
	return lines, ""
}
