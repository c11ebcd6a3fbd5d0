package domain

import "time"

// Observation is a single reward sample recorded against a channel.
// Reward > 0 counts as a success for Beta-posterior purposes, else a
// failure.
type Observation struct {
	Timestamp time.Time
	Reward    float64
}

// ChannelState holds the per-channel statistics the bandit maintains:
// a sliding window of reward observations, the lifetime scan count, and
// a separate windowed sequence of observed client-activity counts used
// by passive-mode scoring.
type ChannelState struct {
	History        []Observation
	TotalScans     int
	ClientActivity []int
}
