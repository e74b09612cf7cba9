package otel

import (
	"os"
	"sync/atomic"
)

var traceEnabled atomic.Bool

func init() {
	traceEnabled.Store(os.Getenv("FLINGWATCH_TRACE") != "")
}

// TraceEnabled reports whether FLINGWATCH_TRACE is set. When it is, the UI
// logs every message it receives.
func TraceEnabled() bool {
	return traceEnabled.Load()
}

func setTraceEnabled(v bool) {
	traceEnabled.Store(v)
}
