package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// EpochsCompleted counts epochs the orchestrator has finished, by mode.
	EpochsCompleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pwny_core",
			Name:      "epochs_completed_total",
			Help:      "Total number of epochs completed by the orchestrator",
		},
		[]string{"mode"},
	)

	// HandshakesCaptured counts capture notifications routed through
	// OnHandshake, split by whether the AP was new or a repeat.
	HandshakesCaptured = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pwny_core",
			Name:      "handshakes_captured_total",
			Help:      "Total number of handshake notifications processed",
		},
		[]string{"kind"},
	)

	// AttacksExecuted counts attack-plan entries delegated to the
	// actuator collaborator, by variant and outcome.
	AttacksExecuted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pwny_core",
			Name:      "attacks_executed_total",
			Help:      "Total number of attack-plan entries delegated to the actuator",
		},
		[]string{"variant", "outcome"},
	)

	// EpochReward tracks the reward value computed by RewardV2 per epoch.
	EpochReward = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "pwny_core",
			Name:      "epoch_reward",
			Help:      "RewardV2 value computed for the most recently closed epoch",
		},
		[]string{"mode"},
	)

	// BanditBandSuccessRate tracks the bandit's per-band windowed success
	// rate, refreshed each epoch from GetBandStats.
	BanditBandSuccessRate = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "pwny_core",
			Name:      "bandit_band_success_rate",
			Help:      "Windowed success rate of the channel bandit, per band",
		},
		[]string{"band"},
	)

	// OptimizerBestReward tracks the Bayesian optimizer's best-seen
	// reward across its observation history.
	OptimizerBestReward = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "pwny_core",
			Name:      "optimizer_best_reward",
			Help:      "Best-seen reward observed by the Bayesian optimizer",
		},
		[]string{"mode"},
	)

	once sync.Once
)

// InitMetrics registers all metrics with the global Prometheus
// registry. Idempotent: safe to call multiple times.
func InitMetrics() {
	once.Do(func() {
		prometheus.DefaultRegisterer.Register(EpochsCompleted)
		prometheus.DefaultRegisterer.Register(HandshakesCaptured)
		prometheus.DefaultRegisterer.Register(AttacksExecuted)
		prometheus.DefaultRegisterer.Register(EpochReward)
		prometheus.DefaultRegisterer.Register(BanditBandSuccessRate)
		prometheus.DefaultRegisterer.Register(OptimizerBestReward)
	})
}
