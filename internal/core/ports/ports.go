// Package ports defines the narrow collaborator interfaces the
// intelligence core depends on. The core never holds a back-reference
// into whatever owns these collaborators (breaking the cyclic
// collaborator reference the original adapter/agent pair had).
package ports

import (
	"context"

	"github.com/FadeVT/pwny-core/internal/core/domain"
)

// Sensor supplies the orchestrator with the world: visible access
// points and hardware-supported channels. 6 GHz channel numbers must
// already be in offset form (raw + domain.Offset6G) by the time they
// reach the core.
type Sensor interface {
	SupplyAccessPoints(ctx context.Context) ([]domain.AP, error)
	SupplyChannels(ctx context.Context) ([]domain.Channel, error)
}

// Actuator executes attack decisions emitted by the tactical engine.
// The core treats actuator errors as observable but non-fatal: a
// failed ExecuteAttack simply means no posterior update occurs for
// that AP this epoch.
type Actuator interface {
	ExecuteAttack(ctx context.Context, ap domain.AP, variant domain.AttackVariant) (bool, error)
}

// RNG is the single injectable randomness seam every stochastic routine
// in the core draws from (Beta sampling, uniform candidate sampling,
// jitter, replacement-channel choice). Production code wraps
// *math/rand.Rand seeded from the environment; tests inject a
// deterministic source.
type RNG interface {
	Float64() float64
	NormFloat64() float64
	Intn(n int) int
}

// StateStore persists and restores the single serialized Orchestrator
// state blob described by the persisted-state schema.
type StateStore interface {
	Save(ctx context.Context, state []byte) error
	Load(ctx context.Context) ([]byte, error)
}
