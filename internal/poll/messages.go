package poll

import (
	"encoding/json"
	"time"

	"github.com/abelbrown/flingwatch/internal/model"
)

// Feed names one independently polled endpoint group.
type Feed string

const (
	FeedCore   Feed = "core" // stats + reservations
	FeedFlings Feed = "flings"
	FeedChat   Feed = "chat"
)

// Feeds lists every feed in start order.
var Feeds = []Feed{FeedCore, FeedFlings, FeedChat}

// Cycle identifies one poll.
type Cycle struct {
	Feed Feed
	Seq  uint64 // monotonic per feed, assigned when the request is issued
	ID   string // short random id for log correlation
	At   time.Time
	Dur  time.Duration
}

// Started is sent when a poll is issued.
type Started struct {
	Cycle
}

// CoreResult carries the stats and reservations of one core poll. Err is
// set when either request failed; the other payload is then discarded.
type CoreResult struct {
	Cycle
	Stats        model.Stats
	Reservations json.RawMessage
	Err          error
}

// FlingsResult carries one /flings response, newest first.
type FlingsResult struct {
	Cycle
	Items []model.Fling
	Err   error
}

// ChatResult carries one /get_chatlogs response, newest first.
type ChatResult struct {
	Cycle
	Items []model.ChatMessage
	Err   error
}

// Skipped is sent when a tick found the feed's in-flight limit reached.
type Skipped struct {
	Feed Feed
	At   time.Time
}
