package mock

import (
	"context"
	"math/rand"

	"github.com/FadeVT/pwny-core/internal/core/domain"
)

// CaptureEvent reports a simulated handshake/PMKID capture resulting
// from an attack the Actuator just executed.
type CaptureEvent struct {
	APMAC     string
	Kind      domain.CaptureKind
	ClientMAC string
}

// successRates mirrors the relative real-world effectiveness of each
// attack variant, used to decide whether a simulated attack "lands".
var successRates = map[domain.AttackVariant]float64{
	domain.AttackAssocOnly:       0.35,
	domain.AttackDeauthOnly:      0.5,
	domain.AttackAssocThenDeauth: 0.65,
	domain.AttackBroadcastDeauth: 0.4,
}

// Actuator is an in-memory ports.Actuator implementation. It never
// touches a radio: it decides attack outcomes from a seeded RNG and,
// on success, appends a CaptureEvent the orchestrator binary's epoch
// loop can feed into Brain.OnHandshake.
type Actuator struct {
	rng      *rand.Rand
	Captures []CaptureEvent
}

// NewActuator constructs an Actuator seeded for reproducible demo runs.
func NewActuator(seed int64) *Actuator {
	return &Actuator{rng: rand.New(rand.NewSource(seed))}
}

// ExecuteAttack implements ports.Actuator. It never returns an error:
// a real actuator's transport failures have no analog in the mock, so
// every call either "succeeds" (capture simulated) or "misses".
func (a *Actuator) ExecuteAttack(ctx context.Context, ap domain.AP, variant domain.AttackVariant) (bool, error) {
	if variant == domain.AttackSkip {
		return false, nil
	}

	rate, ok := successRates[variant]
	if !ok {
		rate = 0.3
	}

	success := a.rng.Float64() < rate
	if !success {
		return false, nil
	}

	kind := domain.CaptureFull
	var clientMAC string
	if len(ap.Clients) > 0 {
		clientMAC = ap.Clients[a.rng.Intn(len(ap.Clients))].MAC
	} else {
		kind = domain.CapturePMKID
	}

	a.Captures = append(a.Captures, CaptureEvent{
		APMAC:     ap.MAC,
		Kind:      kind,
		ClientMAC: clientMAC,
	})

	return true, nil
}

// DrainCaptures returns and clears the captures accumulated since the
// last call, for the orchestrator loop to route into Brain.OnHandshake.
func (a *Actuator) DrainCaptures() []CaptureEvent {
	if len(a.Captures) == 0 {
		return nil
	}
	out := a.Captures
	a.Captures = nil
	return out
}
