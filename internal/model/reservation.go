package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Reservation is an opaque reservation record. The raw bytes are kept so the
// record can be shown exactly as the server sent it; the few fields used for
// sorting are read on demand.
type Reservation struct {
	raw    json.RawMessage
	fields map[string]any
}

// ParseReservation wraps a raw JSON value. Non-object values are accepted and
// simply expose no fields.
func ParseReservation(raw json.RawMessage) (Reservation, error) {
	r := Reservation{raw: append(json.RawMessage(nil), raw...)}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Reservation{}, fmt.Errorf("parse reservation: empty value")
	}
	if trimmed[0] != '{' {
		return r, nil
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	if err := dec.Decode(&r.fields); err != nil {
		return Reservation{}, fmt.Errorf("parse reservation: %w", err)
	}
	return r, nil
}

// Raw returns the record as received.
func (r Reservation) Raw() json.RawMessage { return r.raw }

// Timestamp returns the last update time in unix seconds, or 0.
func (r Reservation) Timestamp() float64 {
	v, ok := r.number("timestamp")
	if !ok {
		return 0
	}
	return v
}

// PlayerCount returns currentPlayerCount, or -1 when missing or null.
func (r Reservation) PlayerCount() float64 {
	v, ok := r.number("currentPlayerCount")
	if !ok {
		return -1
	}
	return v
}

// Region returns the region, or "".
func (r Reservation) Region() string { return r.String("region") }

// ServerID returns the server id, or "".
func (r Reservation) ServerID() string { return r.String("serverId") }

// BotName returns the owning bot, or "".
func (r Reservation) BotName() string { return r.String("botName") }

// String returns a string field, or "" when absent or not a string.
func (r Reservation) String(key string) string {
	s, _ := r.fields[key].(string)
	return s
}

// Has reports whether the record carries the named field.
func (r Reservation) Has(key string) bool {
	_, ok := r.fields[key]
	return ok
}

func (r Reservation) number(key string) (float64, bool) {
	switch v := r.fields[key].(type) {
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case float64:
		return v, true
	default:
		return 0, false
	}
}
