// Package brain implements the Orchestrator: the epoch lifecycle that
// glues the channel bandit, tactical engine, and Bayesian optimizer
// together, aggregates reward, and persists/restores state. Ported
// from nextgen/__init__.py's NextGenBrain class.
package brain

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"sort"
	"time"

	"github.com/FadeVT/pwny-core/internal/core/domain"
	"github.com/FadeVT/pwny-core/internal/core/ports"
	"github.com/FadeVT/pwny-core/internal/core/services/bandit"
	"github.com/FadeVT/pwny-core/internal/core/services/optimizer"
	"github.com/FadeVT/pwny-core/internal/core/services/rng"
	"github.com/FadeVT/pwny-core/internal/core/services/tactical"
)

// Config is the brain's configuration surface, per §6.
type Config struct {
	Mode                domain.Mode
	ChannelsPerEpoch    int
	MaxTargetsPerEpoch  int
	OptimizeTiming      bool
	BanditWindow        int
	BOInitialEpochs     int
	MaxInteractions     int
	HandshakeDir        string
	StateCheckpointEvery int
}

// DefaultConfig returns the configuration surface's documented
// defaults.
func DefaultConfig() Config {
	return Config{
		Mode:                 domain.ModeActive,
		ChannelsPerEpoch:     5,
		MaxTargetsPerEpoch:   tactical.DefaultMaxTargetsPerEpoch,
		OptimizeTiming:       true,
		BanditWindow:         bandit.DefaultWindowSize,
		BOInitialEpochs:      optimizer.DefaultNInitial,
		MaxInteractions:      tactical.DefaultMaxInteractionsPerEpoch,
		HandshakeDir:         "",
		StateCheckpointEvery: 10,
	}
}

// TimingConfig is the set of scanner-timing knobs the optimizer tunes.
// Integer-typed fields are rounded on apply, matching the original's
// personality-dict rounding rule.
type TimingConfig struct {
	ReconTime    int
	HopReconTime int
	MinReconTime int
	APTTL        int
	STATTL       int
}

func timingFromParams(p map[string]float64) TimingConfig {
	return TimingConfig{
		ReconTime:    int(math.Round(p["recon_time"])),
		HopReconTime: int(math.Round(p["hop_recon_time"])),
		MinReconTime: int(math.Round(p["min_recon_time"])),
		APTTL:        int(math.Round(p["ap_ttl"])),
		STATTL:       int(math.Round(p["sta_ttl"])),
	}
}

// Brain is the Orchestrator: it owns the bandit, tactical engine, and
// optimizer for a single run, and drives them through the per-epoch
// protocol described in §4.6. The core is single-threaded and
// synchronous; callers embedding it in a multi-threaded program must
// place it behind a serialization boundary.
type Brain struct {
	cfg Config

	logger *log.Logger

	bandit    *bandit.Bandit
	context   *tactical.CaptureContext
	tactical  *tactical.TacticalEngine
	optimizer *optimizer.Optimizer
	rng       ports.RNG

	sensor   ports.Sensor
	actuator ports.Actuator
	store    ports.StateStore

	currentTiming TimingConfig
	currentParams map[string]float64
	lastReward    float64

	knownAPMACs map[string]struct{}

	epochStart           time.Time
	epochNewHandshakes   int
	epochRepeatHandshakes int
	epochTargetsAttacked int
	epochUncaptured      int
	epochChannelsScanned int
	epochChannelsActive  int
	epochNewAPs          int

	epochNum int
}

// New constructs a Brain. An unrecognized mode falls back to
// ModeActive with a logged warning (per §7's input-validation policy).
func New(cfg Config, sensor ports.Sensor, actuator ports.Actuator, store ports.StateStore, r ports.RNG, logger *log.Logger) *Brain {
	if logger == nil {
		logger = log.Default()
	}
	if !domain.ValidMode(cfg.Mode) {
		logger.Printf("[brain] invalid mode %q, falling back to active", cfg.Mode)
		cfg.Mode = domain.ModeActive
	}
	if r == nil {
		r = rng.New()
	}
	if cfg.MaxTargetsPerEpoch <= 0 {
		cfg.MaxTargetsPerEpoch = tactical.DefaultMaxTargetsPerEpoch
	}
	if cfg.BanditWindow <= 0 {
		cfg.BanditWindow = bandit.DefaultWindowSize
	}
	if cfg.MaxInteractions <= 0 {
		cfg.MaxInteractions = tactical.DefaultMaxInteractionsPerEpoch
	}
	if cfg.StateCheckpointEvery <= 0 {
		cfg.StateCheckpointEvery = 10
	}

	channels := resolveChannels(sensor, logger)

	b := &Brain{
		cfg:         cfg,
		logger:      logger,
		bandit:      bandit.New(channels, cfg.BanditWindow, bandit.DefaultExplorationBonus, cfg.Mode, r),
		rng:         r,
		sensor:      sensor,
		actuator:    actuator,
		store:       store,
		knownAPMACs: make(map[string]struct{}),
		epochStart:  time.Now(),
	}

	b.context = tactical.NewCaptureContextFromDir(cfg.HandshakeDir)
	b.tactical = tactical.New(b.context, cfg.MaxInteractions, cfg.MaxTargetsPerEpoch, cfg.Mode)

	if cfg.OptimizeTiming && cfg.Mode != domain.ModePassive {
		space := optimizer.DefaultTimingParams()
		opts := []optimizer.Option{}
		if cfg.BOInitialEpochs > 0 {
			opts = append(opts, optimizer.WithNInitial(cfg.BOInitialEpochs))
		}
		b.optimizer = optimizer.New(space, 0.5, 0.1, r, opts...)
		b.currentParams = b.optimizer.Suggest()
		b.currentTiming = timingFromParams(b.currentParams)
	}

	b.loadState()

	logger.Printf("[brain] initialized: mode=%s channels=%d existing_captures=%d",
		cfg.Mode, len(channels), b.context.CapturedCount())

	return b
}

// resolveChannels pulls the channel list from the sensor collaborator,
// deduplicates it, and falls back to 2.4 GHz channels 1-11 when the
// sensor supplies none (per §7's sensor-absence policy). 6 GHz
// offset-form channels are preserved; anything above 177 that isn't a
// recognized 6 GHz offset channel is dropped.
func resolveChannels(sensor ports.Sensor, logger *log.Logger) []domain.Channel {
	var raw []domain.Channel
	if sensor != nil {
		if chans, err := sensor.SupplyChannels(context.Background()); err == nil {
			raw = chans
		} else {
			logger.Printf("[brain] sensor.SupplyChannels failed: %v", err)
		}
	}

	if len(raw) == 0 {
		logger.Printf("[brain] no channels supplied, falling back to 2.4 GHz 1-11")
		fallback := make([]domain.Channel, 0, 11)
		for ch := 1; ch <= 11; ch++ {
			fallback = append(fallback, domain.Channel(ch))
		}
		return fallback
	}

	seen := make(map[domain.Channel]struct{}, len(raw))
	var deduped []domain.Channel
	for _, ch := range raw {
		if _, ok := seen[ch]; ok {
			continue
		}
		if ch > 177 {
			known := false
			for _, c6 := range domain.Channels6G {
				if c6 == ch {
					known = true
					break
				}
			}
			if !known {
				continue
			}
		}
		seen[ch] = struct{}{}
		deduped = append(deduped, ch)
	}

	sort.Slice(deduped, func(i, j int) bool { return deduped[i] < deduped[j] })
	return deduped
}

// SelectChannels asks the bandit for k channels, widening k in ASSIST
// mode, and records them as scanned in the epoch counter.
func (b *Brain) SelectChannels(k int) []domain.Channel {
	if b.cfg.Mode == domain.ModeAssist {
		half := len(b.bandit.Channels()) / 2
		if half > k {
			k = half
		}
	}
	channels := b.bandit.SelectChannels(k)
	b.epochChannelsScanned += len(channels)
	return channels
}

// PlanAttacks updates the known-AP set, feeds per-channel client
// activity to the bandit, and returns the tactical engine's ordered
// attack plan.
func (b *Brain) PlanAttacks(aps []domain.AP) []domain.PlanEntry {
	for _, ap := range aps {
		mac := ap.NormalizedMAC()
		if mac == "" {
			continue
		}
		if _, ok := b.knownAPMACs[mac]; !ok {
			b.knownAPMACs[mac] = struct{}{}
			b.epochNewAPs++
		}
	}

	channelClients := make(map[domain.Channel]int)
	for _, ap := range aps {
		if ap.Channel > 0 {
			channelClients[ap.Channel] += len(ap.Clients)
		}
	}
	for ch, count := range channelClients {
		b.bandit.RecordClientActivity(ch, count)
		if count > 0 {
			weight := float64(count) * 0.1
			if weight > 0.5 {
				weight = 0.5
			}
			b.bandit.Boost(ch, weight)
		}
	}

	plan := b.tactical.PlanEpoch(aps)

	b.epochTargetsAttacked = len(plan)
	uncaptured := 0
	for _, entry := range plan {
		if !b.context.HasHandshake(entry.AP.NormalizedMAC()) {
			uncaptured++
		}
	}
	b.epochUncaptured = uncaptured

	return plan
}

// ExecuteAttack delegates a single plan entry to the actuator
// collaborator, recording the interaction first. Actuator errors are
// observable but non-fatal: the attack is treated as unsuccessful and
// no posterior update occurs for this AP.
func (b *Brain) ExecuteAttack(ctx context.Context, entry domain.PlanEntry) bool {
	if entry.Variant == domain.AttackSkip {
		return false
	}
	b.context.RecordInteraction(entry.AP.NormalizedMAC())

	ok, err := b.actuator.ExecuteAttack(ctx, entry.AP, entry.Variant)
	if err != nil {
		b.logger.Printf("[brain] actuator error for %s: %v", entry.AP.NormalizedMAC(), err)
		return false
	}
	return ok
}

// OnChannelScanned records whether a scanned channel showed activity,
// updating both the epoch's activity counter and the bandit's
// posterior (a zero-reward observation when no activity was seen).
func (b *Brain) OnChannelScanned(ch domain.Channel, hadActivity bool) {
	if hadActivity {
		b.epochChannelsActive++
		return
	}
	b.bandit.Update(ch, 0.0)
}

// OnHandshake records a capture notification from the capture
// collaborator. A channel of zero means "unknown" and rewards no
// bandit arm.
func (b *Brain) OnHandshake(mac string, ch domain.Channel) {
	mac = domain.NormalizeMAC(mac)
	isNew := !b.context.HasHandshake(mac)
	b.context.RecordHandshake(mac, domain.CaptureFull, "")

	if isNew {
		b.epochNewHandshakes++
		b.logger.Printf("[brain] new handshake: %s (total unique: %d)", mac, b.context.CapturedCount())
	} else {
		b.epochRepeatHandshakes++
	}

	if ch > 0 {
		b.bandit.Update(ch, 1.0)
	}
}

// OnEpoch closes out the epoch: if an optimizer is active, it computes
// reward from the accumulated counters, observes it, suggests the next
// timing vector, and applies it; it then resets all epoch counters and
// checkpoints state every StateCheckpointEvery epochs.
func (b *Brain) OnEpoch(epochNum int) {
	b.epochNum = epochNum
	now := time.Now()

	if b.optimizer != nil && b.currentParams != nil {
		metrics := domain.EpochMetrics{
			DurationSecs:         now.Sub(b.epochStart).Seconds(),
			NewUniqueHandshakes:  b.epochNewHandshakes,
			RepeatHandshakes:     b.epochRepeatHandshakes,
			TargetsAttacked:      b.epochTargetsAttacked,
			UncapturedAttacked:   b.epochUncaptured,
			ChannelsScanned:      b.epochChannelsScanned,
			ChannelsWithActivity: b.epochChannelsActive,
			NewAPsDiscovered:     b.epochNewAPs,
		}
		reward := tactical.RewardV2(metrics)
		b.lastReward = reward
		b.optimizer.Observe(b.currentParams, reward)

		b.currentParams = b.optimizer.Suggest()
		b.currentTiming = timingFromParams(b.currentParams)
	}

	b.epochStart = now
	b.epochNewHandshakes = 0
	b.epochRepeatHandshakes = 0
	b.epochTargetsAttacked = 0
	b.epochUncaptured = 0
	b.epochChannelsScanned = 0
	b.epochChannelsActive = 0
	b.epochNewAPs = 0

	if epochNum%b.cfg.StateCheckpointEvery == 0 {
		b.saveState()
	}
}

// CurrentTiming returns the optimizer's currently-applied timing
// vector. Zero-valued if timing optimization is disabled.
func (b *Brain) CurrentTiming() TimingConfig {
	return b.currentTiming
}

// LastReward returns the RewardV2 value computed at the most recently
// closed epoch. Zero if no epoch has closed yet or timing optimization
// is disabled.
func (b *Brain) LastReward() float64 {
	return b.lastReward
}

// Mode returns the brain's operational mode.
func (b *Brain) Mode() domain.Mode {
	return b.cfg.Mode
}

// Context returns the brain's capture context.
func (b *Brain) Context() *tactical.CaptureContext {
	return b.context
}

// Bandit returns the brain's channel bandit.
func (b *Brain) Bandit() *bandit.Bandit {
	return b.bandit
}

// Optimizer returns the brain's optimizer, or nil when timing
// optimization is disabled.
func (b *Brain) Optimizer() *optimizer.Optimizer {
	return b.optimizer
}

func (b *Brain) saveState() {
	if b.store == nil {
		return
	}

	state := State{
		Mode:         string(b.cfg.Mode),
		Bandit:       b.bandit.GetState(),
		CapturedMACs: b.context.CapturedMACs(),
		KnownAPMACs:  b.knownAPMACsSlice(),
	}
	if b.optimizer != nil {
		s := b.optimizer.GetState()
		state.Optimizer = &s
	}

	blob, err := json.Marshal(state)
	if err != nil {
		b.logger.Printf("[brain] failed to marshal state: %v", err)
		return
	}
	if err := b.store.Save(context.Background(), blob); err != nil {
		b.logger.Printf("[brain] failed to save state: %v", err)
	}
}

func (b *Brain) loadState() {
	if b.store == nil {
		return
	}

	blob, err := b.store.Load(context.Background())
	if err != nil {
		b.logger.Printf("[brain] failed to load state: %v", err)
		return
	}
	if len(blob) == 0 {
		return
	}

	var state State
	if err := json.Unmarshal(blob, &state); err != nil {
		b.logger.Printf("[brain] failed to decode state: %v", err)
		return
	}

	b.bandit.LoadState(state.Bandit)
	b.logger.Printf("[brain] restored bandit state (%d epochs)", b.bandit.TotalEpochs())

	if state.Optimizer != nil && b.optimizer != nil {
		b.optimizer.LoadState(*state.Optimizer)
		b.logger.Printf("[brain] restored optimizer state (%d observations)", b.optimizer.NumObservations())
	}

	for _, mac := range state.KnownAPMACs {
		b.knownAPMACs[mac] = struct{}{}
	}
}

func (b *Brain) knownAPMACsSlice() []string {
	macs := make([]string, 0, len(b.knownAPMACs))
	for mac := range b.knownAPMACs {
		macs = append(macs, mac)
	}
	return macs
}
