package tactical

import "github.com/FadeVT/pwny-core/internal/core/domain"

// RewardV2 computes the orchestrator's epoch reward signal from raw
// epoch metrics. It has no emotional or circular terms, uses only the
// current epoch's data, and provides gradient even in the absence of
// captures via the efficiency/exploration/coverage terms. Ported from
// tactical_engine.py's RewardV2 class.
func RewardV2(m domain.EpochMetrics) float64 {
	duration := m.DurationSecs
	if duration < 1.0 {
		duration = 1.0
	}
	durationMin := duration / 60.0

	captureRate := (float64(m.NewUniqueHandshakes) + 0.1*float64(m.RepeatHandshakes)) / durationMin

	totalAttacked := m.TargetsAttacked
	if totalAttacked < 1 {
		totalAttacked = 1
	}
	efficiency := float64(m.UncapturedAttacked) / float64(totalAttacked)

	exploration := 0.1 * float64(m.NewAPsDiscovered)
	if exploration > 0.3 {
		exploration = 0.3
	}

	channelsScanned := m.ChannelsScanned
	if channelsScanned < 1 {
		channelsScanned = 1
	}
	coverage := float64(m.ChannelsWithActivity) / float64(channelsScanned)

	return captureRate + 0.3*efficiency + 0.1*exploration + 0.1*coverage
}
