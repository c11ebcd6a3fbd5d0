package bandit

import (
	"strconv"
	"time"

	"github.com/FadeVT/pwny-core/internal/core/domain"
)

func secondsToTime(sec float64) time.Time {
	return time.Unix(int64(sec), 0)
}

// ObservationState is the JSON-serializable form of a domain.Observation.
type ObservationState struct {
	Timestamp float64 `json:"t"`
	Reward    float64 `json:"r"`
}

// State is the serializable snapshot of a Bandit's full history,
// counters, window size, exploration bonus, and mode. load_state
// tolerates missing fields so a partially corrupt persisted blob still
// restores whatever it can.
type State struct {
	Channels         []int                         `json:"channels"`
	WindowSize       int                           `json:"window_size"`
	ExplorationBonus float64                       `json:"exploration_bonus"`
	Mode             string                        `json:"mode"`
	History          map[string][]ObservationState `json:"history"`
	TotalScans       map[string]int                `json:"total_scans"`
	TotalEpochs      int                           `json:"total_epochs"`
	ClientActivity   map[string][]int              `json:"client_activity"`
}

// GetState serializes the bandit's full state for persistence.
func (b *Bandit) GetState() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	channels := make([]int, len(b.channels))
	for i, ch := range b.channels {
		channels[i] = int(ch)
	}

	history := make(map[string][]ObservationState, len(b.states))
	totalScans := make(map[string]int, len(b.states))
	clientActivity := make(map[string][]int, len(b.states))
	for ch, st := range b.states {
		key := strconv.Itoa(int(ch))
		obs := make([]ObservationState, len(st.history))
		for i, o := range st.history {
			obs[i] = ObservationState{Timestamp: float64(o.Timestamp.Unix()), Reward: o.Reward}
		}
		history[key] = obs
		totalScans[key] = st.totalScans
		clientActivity[key] = append([]int(nil), st.clientActivity...)
	}

	return State{
		Channels:         channels,
		WindowSize:       b.windowSize,
		ExplorationBonus: b.explorationBonus,
		Mode:             string(b.mode),
		History:          history,
		TotalScans:       totalScans,
		TotalEpochs:      b.totalEpochs,
		ClientActivity:   clientActivity,
	}
}

// LoadState restores history, counters, window size, exploration bonus,
// and mode from a previously serialized State. Missing fields are left
// at their current values.
func (b *Bandit) LoadState(s State) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if s.WindowSize > 0 {
		b.windowSize = s.WindowSize
	}
	if s.ExplorationBonus != 0 {
		b.explorationBonus = s.ExplorationBonus
	}
	if domain.ValidMode(domain.Mode(s.Mode)) {
		b.mode = domain.Mode(s.Mode)
	}

	for key, obs := range s.History {
		ch, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		st := b.state(domain.Channel(ch))
		st.history = st.history[:0]
		for _, o := range obs {
			st.history = append(st.history, domain.Observation{
				Timestamp: secondsToTime(o.Timestamp),
				Reward:    o.Reward,
			})
		}
	}
	for key, count := range s.TotalScans {
		ch, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		b.state(domain.Channel(ch)).totalScans = count
	}
	if s.TotalEpochs > 0 {
		b.totalEpochs = s.TotalEpochs
	}
	for key, counts := range s.ClientActivity {
		ch, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		b.state(domain.Channel(ch)).clientActivity = append([]int(nil), counts...)
	}
}
