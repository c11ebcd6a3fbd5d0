package tactical

import (
	"sort"
	"time"

	"github.com/FadeVT/pwny-core/internal/core/domain"
)

// DefaultMaxInteractionsPerEpoch is the per-AP, per-epoch attack budget.
const DefaultMaxInteractionsPerEpoch = 3

// DefaultMaxTargetsPerEpoch bounds the number of attack-plan entries
// emitted per epoch.
const DefaultMaxTargetsPerEpoch = 20

// TacticalEngine scores visible APs, routes them to an attack variant,
// and assembles a priority-ordered, budget-capped attack plan.
// Ported from tactical_engine.py's TacticalEngine class.
type TacticalEngine struct {
	context                 *CaptureContext
	maxInteractionsPerEpoch int
	maxTargetsPerEpoch      int
	mode                    domain.Mode
}

// New constructs a TacticalEngine. An invalid mode falls back to
// ModeActive.
func New(context *CaptureContext, maxInteractionsPerEpoch, maxTargetsPerEpoch int, mode domain.Mode) *TacticalEngine {
	if !domain.ValidMode(mode) {
		mode = domain.ModeActive
	}
	if maxInteractionsPerEpoch <= 0 {
		maxInteractionsPerEpoch = DefaultMaxInteractionsPerEpoch
	}
	if maxTargetsPerEpoch <= 0 {
		maxTargetsPerEpoch = DefaultMaxTargetsPerEpoch
	}
	return &TacticalEngine{
		context:                 context,
		maxInteractionsPerEpoch: maxInteractionsPerEpoch,
		maxTargetsPerEpoch:      maxTargetsPerEpoch,
		mode:                    mode,
	}
}

// ScoreTarget computes a priority score for ap. Higher is better;
// negative scores mean "do not attack".
func (e *TacticalEngine) ScoreTarget(ap domain.AP) float64 {
	switch e.mode {
	case domain.ModePassive:
		return e.scorePassive(ap)
	case domain.ModeAssist:
		return e.scoreAssist(ap)
	default:
		return e.scoreActive(ap)
	}
}

func activeClientCount(clients []domain.Client, now time.Time) int {
	n := 0
	for _, c := range clients {
		if c.Active(now) {
			n++
		}
	}
	return n
}

func rssiBonusActive(rssi int) float64 {
	switch {
	case rssi > -50:
		return 5.0
	case rssi > -65:
		return 3.0
	case rssi > -75:
		return 1.5
	case rssi > -85:
		return 0.5
	default:
		return 0
	}
}

func rssiBonusPassive(rssi int) float64 {
	switch {
	case rssi > -50:
		return 3.0
	case rssi > -65:
		return 2.0
	case rssi > -75:
		return 1.0
	default:
		return 0
	}
}

func rssiBonusAssist(rssi int) float64 {
	switch {
	case rssi > -50:
		return 4.0
	case rssi > -65:
		return 3.0
	case rssi > -75:
		return 1.5
	case rssi > -85:
		return 0.5
	default:
		return 0
	}
}

func (e *TacticalEngine) scoreActive(ap domain.AP) float64 {
	mac := ap.NormalizedMAC()
	if ap.Encryption.IsOpen() {
		return -500.0
	}

	if e.context.HasHandshake(mac) {
		newClients := e.context.GetNewClients(mac, ap.Clients)
		if len(newClients) == 0 {
			return -1000.0
		}
		score := float64(len(newClients)) * 2.0
		if score > 8.0 {
			score = 8.0
		}
		score -= float64(e.context.SessionInteractions(mac)) * 1.5
		if e.context.EpochInteractions(mac) >= e.maxInteractionsPerEpoch {
			return -100.0
		}
		return score
	}

	score := 0.0
	switch {
	case ap.Encryption.Contains("WPA3"), ap.Encryption.Contains("SAE"):
		score += 3.0
	case ap.Encryption.Contains("WPA2"), ap.Encryption.Contains("WPA"):
		score += 10.0
	case ap.Encryption.Contains("WEP"):
		score += 1.0
	}

	numClients := len(ap.Clients)
	clientScore := float64(numClients) * 3.0
	if clientScore > 15.0 {
		clientScore = 15.0
	}
	score += clientScore

	now := time.Now()
	score += float64(activeClientCount(ap.Clients, now)) * 2.0
	score += rssiBonusActive(ap.RSSI)

	if !ap.LastSeen.IsZero() {
		age := now.Sub(ap.LastSeen)
		switch {
		case age <= 60*time.Second:
			score += 3.0
		case age <= 300*time.Second:
			score += 1.0
		}
	}

	score -= float64(e.context.SessionInteractions(mac)) * 1.0

	if e.context.EpochInteractions(mac) >= e.maxInteractionsPerEpoch {
		return -100.0
	}
	return score
}

func (e *TacticalEngine) scorePassive(ap domain.AP) float64 {
	if ap.Encryption.IsOpen() {
		return -500.0
	}

	score := 0.0
	if e.context.HasHandshake(ap.NormalizedMAC()) {
		score -= 5.0
	}

	score += float64(len(ap.Clients)) * 5.0
	score += float64(activeClientCount(ap.Clients, time.Now())) * 4.0
	score += rssiBonusPassive(ap.RSSI)
	return score
}

func (e *TacticalEngine) scoreAssist(ap domain.AP) float64 {
	if ap.Encryption.IsOpen() {
		return -500.0
	}

	score := float64(len(ap.Clients)) * 8.0
	score += float64(activeClientCount(ap.Clients, time.Now())) * 5.0
	score += rssiBonusAssist(ap.RSSI)
	score += 1.0
	return score
}

// SelectAttack chooses the attack variant for ap given the current mode.
func (e *TacticalEngine) SelectAttack(ap domain.AP) domain.AttackVariant {
	switch e.mode {
	case domain.ModePassive:
		return domain.AttackSkip
	case domain.ModeAssist:
		return e.selectAttackAssist(ap)
	default:
		return e.selectAttackActive(ap)
	}
}

func (e *TacticalEngine) selectAttackActive(ap domain.AP) domain.AttackVariant {
	mac := ap.NormalizedMAC()
	if e.context.HasPMKID(mac) {
		if len(ap.Clients) > 0 {
			return domain.AttackDeauthOnly
		}
		return domain.AttackSkip
	}
	if len(ap.Clients) == 0 {
		return domain.AttackAssocOnly
	}
	return domain.AttackAssocThenDeauth
}

func (e *TacticalEngine) selectAttackAssist(ap domain.AP) domain.AttackVariant {
	if len(ap.Clients) == 0 {
		return domain.AttackAssocOnly
	}
	return domain.AttackBroadcastDeauth
}

// PlanEpoch resets epoch counters, scores and routes every AP, and
// returns a descending-by-score plan capped at maxTargetsPerEpoch. In
// passive mode it always returns an empty plan.
func (e *TacticalEngine) PlanEpoch(aps []domain.AP) []domain.PlanEntry {
	e.context.NewEpoch()

	if e.mode == domain.ModePassive {
		return nil
	}

	var plan []domain.PlanEntry
	for _, ap := range aps {
		score := e.ScoreTarget(ap)
		if score <= 0 {
			continue
		}
		variant := e.SelectAttack(ap)
		if variant == domain.AttackSkip {
			continue
		}
		plan = append(plan, domain.PlanEntry{AP: ap, Variant: variant, Score: score})
	}

	sort.SliceStable(plan, func(i, j int) bool {
		return plan[i].Score > plan[j].Score
	})

	if len(plan) > e.maxTargetsPerEpoch {
		plan = plan[:e.maxTargetsPerEpoch]
	}
	return plan
}

// Mode returns the engine's operational mode.
func (e *TacticalEngine) Mode() domain.Mode {
	return e.mode
}

// Context returns the engine's capture context.
func (e *TacticalEngine) Context() *CaptureContext {
	return e.context
}
