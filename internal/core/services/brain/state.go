package brain

import (
	"github.com/FadeVT/pwny-core/internal/core/services/bandit"
	"github.com/FadeVT/pwny-core/internal/core/services/optimizer"
)

// State is the serializable snapshot persisted at checkpoint epochs and
// restored at construction. Mirrors §4.6's state file layout.
type State struct {
	Mode         string             `json:"mode"`
	Bandit       bandit.State       `json:"bandit"`
	Optimizer    *optimizer.State   `json:"optimizer"`
	CapturedMACs []string           `json:"captured_macs"`
	KnownAPMACs  []string           `json:"known_ap_macs"`
}
