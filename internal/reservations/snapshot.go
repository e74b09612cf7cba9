// Package reservations prepares the /reservations payload for display:
// normalizing its shape, sorting, change detection and highlighting.
package reservations

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/abelbrown/flingwatch/internal/model"
)

// Shape describes what the endpoint returned.
type Shape int

const (
	ShapeNone        Shape = iota // null or no body
	ShapeArray                    // JSON array of records
	ShapeKeyed                    // object of records keyed by server id
	ShapeObject                   // a single record object
	ShapeEmptyObject              // {}
	ShapeUnexpected               // a scalar
)

// Snapshot is a normalized reservations payload.
type Snapshot struct {
	Shape   Shape
	Records []model.Reservation
	Raw     json.RawMessage
}

// Empty reports whether there is nothing to list.
func (s Snapshot) Empty() bool { return len(s.Records) == 0 }

// Normalize parses a raw /reservations body. The backend answers with an
// object keyed by server id; arrays and single records are accepted too.
func Normalize(raw json.RawMessage) (Snapshot, error) {
	trimmed := bytes.TrimSpace(raw)
	snap := Snapshot{Raw: append(json.RawMessage(nil), trimmed...)}
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		snap.Shape = ShapeNone
		return snap, nil
	}

	switch trimmed[0] {
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(trimmed, &elems); err != nil {
			return Snapshot{}, fmt.Errorf("normalize reservations: %w", err)
		}
		snap.Shape = ShapeArray
		for _, e := range elems {
			r, err := model.ParseReservation(e)
			if err != nil {
				return Snapshot{}, fmt.Errorf("normalize reservations: %w", err)
			}
			snap.Records = append(snap.Records, r)
		}
	case '{':
		keys, values, err := objectMembers(trimmed)
		if err != nil {
			return Snapshot{}, fmt.Errorf("normalize reservations: %w", err)
		}
		switch {
		case len(keys) == 0:
			snap.Shape = ShapeEmptyObject
		case allObjects(values):
			snap.Shape = ShapeKeyed
			for _, v := range values {
				r, err := model.ParseReservation(v)
				if err != nil {
					return Snapshot{}, fmt.Errorf("normalize reservations: %w", err)
				}
				snap.Records = append(snap.Records, r)
			}
		default:
			snap.Shape = ShapeObject
			r, err := model.ParseReservation(trimmed)
			if err != nil {
				return Snapshot{}, fmt.Errorf("normalize reservations: %w", err)
			}
			snap.Records = []model.Reservation{r}
		}
	default:
		snap.Shape = ShapeUnexpected
	}
	return snap, nil
}

// objectMembers returns the members of a JSON object in document order.
func objectMembers(data []byte) ([]string, []json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	var keys []string
	var values []json.RawMessage
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("unexpected object key %v", tok)
		}
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return nil, nil, err
		}
		keys = append(keys, key)
		values = append(values, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	return keys, values, nil
}

func allObjects(values []json.RawMessage) bool {
	for _, v := range values {
		t := bytes.TrimSpace(v)
		if len(t) == 0 || t[0] != '{' {
			return false
		}
	}
	return true
}
