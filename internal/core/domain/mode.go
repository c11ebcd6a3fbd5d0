package domain

// Mode selects the operational posture for both the channel bandit and
// the tactical engine.
type Mode string

const (
	ModeActive  Mode = "active"
	ModePassive Mode = "passive"
	ModeAssist  Mode = "assist"
)

// ValidMode reports whether m is one of the three recognized modes.
func ValidMode(m Mode) bool {
	switch m {
	case ModeActive, ModePassive, ModeAssist:
		return true
	default:
		return false
	}
}

// AttackVariant is the attack routing decision the tactical engine
// emits for a target AP.
type AttackVariant string

const (
	AttackAssocThenDeauth  AttackVariant = "assoc_then_deauth"
	AttackDeauthOnly       AttackVariant = "deauth_only"
	AttackBroadcastDeauth  AttackVariant = "broadcast_deauth"
	AttackAssocOnly        AttackVariant = "assoc_only"
	AttackSkip             AttackVariant = "skip"
)

// CaptureKind identifies the kind of capture artifact recorded against
// an AP MAC.
type CaptureKind string

const (
	CaptureFull  CaptureKind = "full"
	CapturePMKID CaptureKind = "pmkid"
	CaptureFile  CaptureKind = "file"
)

// PlanEntry is one scheduled attack in an epoch's plan: the target, the
// chosen variant, and its priority score.
type PlanEntry struct {
	AP      AP
	Variant AttackVariant
	Score   float64
}

// EpochMetrics is the set of raw counters the reward function consumes.
type EpochMetrics struct {
	DurationSecs           float64
	NewUniqueHandshakes    int
	RepeatHandshakes       int
	TargetsAttacked        int
	UncapturedAttacked     int
	ChannelsScanned        int
	ChannelsWithActivity   int
	NewAPsDiscovered       int
}
