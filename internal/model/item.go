// Package model defines the records served by the fling-bot coordination API.
//
// Every record is ephemeral: it is decoded from a poll response, displayed,
// and dropped on the next poll. Nothing here is persisted.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotArray is returned when a feed endpoint answers with anything other
// than a JSON array.
var ErrNotArray = errors.New("payload is not an array")

// Fling is one fling event reported by a bot.
type Fling struct {
	Timestamp float64 `json:"timestamp"` // unix seconds
	BotName   string  `json:"botName"`
	Target    string  `json:"target"`
	ServerID  string  `json:"serverId,omitempty"`
}

// Key returns the ordering key of the fling feed.
func (f Fling) Key() float64 { return f.Timestamp }

// Identity distinguishes two flings that share a timestamp.
func (f Fling) Identity() string {
	return f.BotName + "\x00" + f.Target + "\x00" + f.ServerID
}

// Time converts the unix timestamp to a time.Time.
func (f Fling) Time() time.Time { return unixSeconds(f.Timestamp) }

// ChatMessage is one in-game chat line captured by a bot.
type ChatMessage struct {
	ReceivedAt float64 `json:"received_at"` // unix seconds, assigned by the server
	PlayerName string  `json:"playerName"`
	Message    string  `json:"message"`
	ServerID   string  `json:"serverId,omitempty"`
}

// Key returns the ordering key of the chat feed.
func (c ChatMessage) Key() float64 { return c.ReceivedAt }

// Identity distinguishes two chat lines received in the same instant.
func (c ChatMessage) Identity() string {
	return c.PlayerName + "\x00" + c.Message + "\x00" + c.ServerID
}

// Time converts the receive timestamp to a time.Time.
func (c ChatMessage) Time() time.Time { return unixSeconds(c.ReceivedAt) }

// SearchText is the text the chat filter matches against.
func (c ChatMessage) SearchText() string {
	return strings.ToLower(c.PlayerName + " " + c.Message)
}

// MatchChat reports whether c matches a normalized, non-empty filter.
func MatchChat(c ChatMessage, filter string) bool {
	return strings.Contains(c.SearchText(), filter)
}

// DecodeFlings decodes a /flings response body.
func DecodeFlings(data []byte) ([]Fling, error) {
	var items []Fling
	if err := decodeArray(data, &items); err != nil {
		return nil, fmt.Errorf("decode flings: %w", err)
	}
	return items, nil
}

// DecodeChat decodes a /get_chatlogs response body.
func DecodeChat(data []byte) ([]ChatMessage, error) {
	var items []ChatMessage
	if err := decodeArray(data, &items); err != nil {
		return nil, fmt.Errorf("decode chat logs: %w", err)
	}
	return items, nil
}

func decodeArray(data []byte, v any) error {
	trimmed := strings.TrimSpace(string(data))
	if !strings.HasPrefix(trimmed, "[") {
		return ErrNotArray
	}
	return json.Unmarshal([]byte(trimmed), v)
}

func unixSeconds(ts float64) time.Time {
	sec := int64(ts)
	nsec := int64((ts - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec)
}
