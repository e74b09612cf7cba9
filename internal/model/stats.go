package model

import (
	"encoding/json"
	"fmt"
)

// Stats is the aggregate served at the API root. Any field may be missing;
// a nil pointer means the server did not report it.
type Stats struct {
	BotCount           *int           `json:"botCount"`
	ServerCount        *int           `json:"serverCount"`
	TotalFlings        *int           `json:"totalFlings"`
	FlingRatePerMinute *float64       `json:"flingRatePerMinute"`
	BotsPerRegion      map[string]int `json:"botsPerRegion"`
	ServersPerRegion   map[string]int `json:"serversPerRegion"`
}

// DecodeStats decodes the root endpoint response.
func DecodeStats(data []byte) (Stats, error) {
	var s Stats
	if err := json.Unmarshal(data, &s); err != nil {
		return Stats{}, fmt.Errorf("decode stats: %w", err)
	}
	return s, nil
}
