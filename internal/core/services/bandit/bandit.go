// Package bandit implements the Channel Bandit: a multi-armed bandit
// that selects radio channels via Thompson Sampling on windowed Beta
// posteriors, with tri-band awareness and mode-dependent selection
// rules.
package bandit

import (
	"sort"
	"sync"
	"time"

	"github.com/FadeVT/pwny-core/internal/core/domain"
	"github.com/FadeVT/pwny-core/internal/core/ports"
	"github.com/FadeVT/pwny-core/internal/core/services/rng"
)

// DefaultWindowSize is the sliding-window size used when none is given.
const DefaultWindowSize = 30

// DefaultExplorationBonus is the score bonus applied to never-scanned
// channels in ACTIVE mode.
const DefaultExplorationBonus = 0.1

type channelState struct {
	history        []domain.Observation
	totalScans     int
	clientActivity []int
}

// Bandit is a Thompson Sampling bandit over a fixed set of channels.
// Each channel maintains a Beta(alpha, beta) posterior over its
// windowed observation history:
//
//	alpha = 1 + successes
//	beta  = 1 + failures
//
// The sliding window ages out old observations so the bandit adapts to
// non-stationary environments (a user moving to a new area, devices
// moving in/out of range) without losing Beta-conjugacy.
type Bandit struct {
	mu sync.Mutex

	channels         []domain.Channel
	windowSize       int
	explorationBonus float64
	mode             domain.Mode
	rng              ports.RNG

	states      map[domain.Channel]*channelState
	totalEpochs int
	bands       map[domain.Band][]domain.Channel
}

// New constructs a Bandit over the given channels.
func New(channels []domain.Channel, windowSize int, explorationBonus float64, mode domain.Mode, r ports.RNG) *Bandit {
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}
	if r == nil {
		r = rng.New()
	}
	b := &Bandit{
		channels:         append([]domain.Channel(nil), channels...),
		windowSize:       windowSize,
		explorationBonus: explorationBonus,
		mode:             mode,
		rng:              r,
		states:           make(map[domain.Channel]*channelState, len(channels)),
		bands:            map[domain.Band][]domain.Channel{domain.Band2G: nil, domain.Band5G: nil, domain.Band6G: nil},
	}
	for _, ch := range channels {
		b.states[ch] = &channelState{}
		band := domain.BandOf(ch)
		b.bands[band] = append(b.bands[band], ch)
	}
	return b
}

// Channels returns the channel set the bandit was constructed with.
func (b *Bandit) Channels() []domain.Channel {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.Channel(nil), b.channels...)
}

func (b *Bandit) state(ch domain.Channel) *channelState {
	st, ok := b.states[ch]
	if !ok {
		st = &channelState{}
		b.states[ch] = st
	}
	return st
}

// windowedStats returns the success/failure counts within the sliding
// window, trimming the stored history to the window as a side effect.
func (b *Bandit) windowedStats(ch domain.Channel) (successes, failures int) {
	st := b.state(ch)
	if len(st.history) > b.windowSize {
		st.history = st.history[len(st.history)-b.windowSize:]
	}
	for _, obs := range st.history {
		if obs.Reward > 0 {
			successes++
		} else {
			failures++
		}
	}
	return successes, failures
}

func (b *Bandit) avgClientActivity(ch domain.Channel) float64 {
	st := b.state(ch)
	if len(st.clientActivity) == 0 {
		return 0
	}
	sum := 0
	for _, c := range st.clientActivity {
		sum += c
	}
	return float64(sum) / float64(len(st.clientActivity))
}

// RecordClientActivity appends an observed client-activity count for a
// channel, truncated to the window. Used by passive-mode scoring.
func (b *Bandit) RecordClientActivity(ch domain.Channel, count int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	st := b.state(ch)
	st.clientActivity = append(st.clientActivity, count)
	if len(st.clientActivity) > b.windowSize {
		st.clientActivity = st.clientActivity[len(st.clientActivity)-b.windowSize:]
	}
}

// Boost inserts a synthetic observation into a channel's history
// without incrementing its scan counters, biasing the posterior from
// pre-scan recon evidence (cold-start mitigation).
func (b *Bandit) Boost(ch domain.Channel, weight float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.states[ch]; !ok {
		return
	}
	st := b.state(ch)
	st.history = append(st.history, domain.Observation{Timestamp: time.Now(), Reward: weight})
}

// Update records a full observation: append the reward and increment
// both the channel's scan counter and the bandit's global epoch
// counter.
func (b *Bandit) Update(ch domain.Channel, reward float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	st := b.state(ch)
	st.history = append(st.history, domain.Observation{Timestamp: time.Now(), Reward: reward})
	st.totalScans++
	b.totalEpochs++
}

// SelectChannels selects k distinct channels to scan using Thompson
// Sampling, applying mode-dependent scoring adjustments. If k exceeds
// the channel count, all channels are returned.
func (b *Bandit) SelectChannels(k int) []domain.Channel {
	b.mu.Lock()
	defer b.mu.Unlock()

	if k >= len(b.channels) {
		return append([]domain.Channel(nil), b.channels...)
	}

	switch b.mode {
	case domain.ModePassive:
		return b.selectPassive(k)
	case domain.ModeAssist:
		return b.selectAssist(k)
	default:
		return b.selectActive(k)
	}
}

func (b *Bandit) baseScore(ch domain.Channel) float64 {
	successes, failures := b.windowedStats(ch)
	alpha := 1 + float64(successes)
	beta := 1 + float64(failures)
	return rng.Beta(b.rng, alpha, beta)
}

func (b *Bandit) selectActive(k int) []domain.Channel {
	scores := make(map[domain.Channel]float64, len(b.channels))
	for _, ch := range b.channels {
		score := b.baseScore(ch)
		if b.state(ch).totalScans == 0 {
			score += b.explorationBonus
		}
		scores[ch] = score
	}

	selected := topK(b.channels, scores, k)
	selected = b.ensureUnscanned(selected, scores)
	if k >= 3 {
		selected = b.ensureBandDiversity(selected, scores)
	}
	return selected
}

func (b *Bandit) selectPassive(k int) []domain.Channel {
	scores := make(map[domain.Channel]float64, len(b.channels))
	for _, ch := range b.channels {
		score := b.baseScore(ch)
		score += 0.3 * b.avgClientActivity(ch)
		if b.state(ch).totalScans == 0 {
			score += b.explorationBonus
		}
		scores[ch] = score
	}

	selected := topK(b.channels, scores, k)
	return b.ensureUnscanned(selected, scores)
}

func (b *Bandit) selectAssist(k int) []domain.Channel {
	scores := make(map[domain.Channel]float64, len(b.channels))
	for _, ch := range b.channels {
		score := b.baseScore(ch)
		score += b.rng.Float64() * 0.3
		if b.state(ch).totalScans == 0 {
			score += b.explorationBonus * 2.0
		}
		scores[ch] = score
	}

	selected := topK(b.channels, scores, k)
	selected = b.ensureUnscanned(selected, scores)
	if k >= 3 {
		selected = b.ensureBandDiversity(selected, scores)
	}
	return selected
}

func topK(channels []domain.Channel, scores map[domain.Channel]float64, k int) []domain.Channel {
	ranked := append([]domain.Channel(nil), channels...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return scores[ranked[i]] > scores[ranked[j]]
	})
	if k > len(ranked) {
		k = len(ranked)
	}
	return append([]domain.Channel(nil), ranked[:k]...)
}

// ensureUnscanned guarantees at least one never-scanned channel is
// present in the selection when one exists among the candidates.
func (b *Bandit) ensureUnscanned(selected []domain.Channel, scores map[domain.Channel]float64) []domain.Channel {
	var unscanned []domain.Channel
	for _, ch := range b.channels {
		if b.state(ch).totalScans == 0 {
			unscanned = append(unscanned, ch)
		}
	}
	if len(unscanned) == 0 {
		return selected
	}
	for _, ch := range selected {
		for _, u := range unscanned {
			if ch == u {
				return selected
			}
		}
	}
	if len(selected) == 0 {
		return selected
	}
	selected[len(selected)-1] = unscanned[b.rng.Intn(len(unscanned))]
	return selected
}

// ensureBandDiversity guarantees every active band (a band with at
// least one configured channel) is represented in the selection,
// replacing the lowest-scoring selected channel with the highest
// scoring channel from an unrepresented band.
func (b *Bandit) ensureBandDiversity(selected []domain.Channel, scores map[domain.Channel]float64) []domain.Channel {
	represented := make(map[domain.Band]bool)
	for _, ch := range selected {
		represented[domain.BandOf(ch)] = true
	}

	for _, band := range []domain.Band{domain.Band2G, domain.Band5G, domain.Band6G} {
		bandChannels := b.bands[band]
		if len(bandChannels) == 0 || represented[band] || len(selected) == 0 {
			continue
		}

		best := bandChannels[0]
		for _, ch := range bandChannels[1:] {
			if scores[ch] > scores[best] {
				best = ch
			}
		}

		worstIdx := 0
		for i, ch := range selected {
			if scores[ch] < scores[selected[worstIdx]] {
				worstIdx = i
			}
		}
		selected[worstIdx] = best
		represented[band] = true
	}
	return selected
}

// ChannelStats is a snapshot of a single channel's windowed statistics.
type ChannelStats struct {
	Band               domain.Band
	Scans              int
	SuccessesWindowed  int
	FailuresWindowed   int
	SuccessRate        float64
}

// GetStats returns per-channel statistics for every configured channel.
func (b *Bandit) GetStats() map[domain.Channel]ChannelStats {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make(map[domain.Channel]ChannelStats, len(b.channels))
	for _, ch := range b.channels {
		successes, failures := b.windowedStats(ch)
		total := successes + failures
		rate := 0.0
		if total > 0 {
			rate = float64(successes) / float64(total)
		}
		out[ch] = ChannelStats{
			Band:              domain.BandOf(ch),
			Scans:             b.state(ch).totalScans,
			SuccessesWindowed: successes,
			FailuresWindowed:  failures,
			SuccessRate:       rate,
		}
	}
	return out
}

// BandStats is an aggregate over all channels in a band.
type BandStats struct {
	Channels    int
	TotalScans  int
	Successes   int
	Failures    int
	SuccessRate float64
}

// GetBandStats aggregates statistics per band.
func (b *Bandit) GetBandStats() map[domain.Band]BandStats {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make(map[domain.Band]BandStats)
	for band, channels := range b.bands {
		if len(channels) == 0 {
			continue
		}
		var scans, successes, failures int
		for _, ch := range channels {
			scans += b.state(ch).totalScans
			s, f := b.windowedStats(ch)
			successes += s
			failures += f
		}
		total := successes + failures
		rate := 0.0
		if total > 0 {
			rate = float64(successes) / float64(total)
		}
		out[band] = BandStats{
			Channels:    len(channels),
			TotalScans:  scans,
			Successes:   successes,
			Failures:    failures,
			SuccessRate: rate,
		}
	}
	return out
}

// TotalEpochs returns the number of Update calls observed across all
// channels.
func (b *Bandit) TotalEpochs() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.totalEpochs
}

// Mode returns the bandit's operational mode.
func (b *Bandit) Mode() domain.Mode {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mode
}
