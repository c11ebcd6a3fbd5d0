package tactical

import (
	"testing"
	"time"

	"github.com/FadeVT/pwny-core/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeAP(mac string, clients ...domain.Client) domain.AP {
	return domain.AP{
		MAC:        mac,
		Channel:    6,
		RSSI:       -60,
		Encryption: domain.EncWPA2,
		Clients:    clients,
		LastSeen:   time.Now(),
	}
}

func TestAlreadyCapturedSkip(t *testing.T) {
	ctx := NewCaptureContext()
	ctx.RecordHandshake("aa:bb:cc:dd:ee:ff", domain.CaptureFull, "")

	engine := New(ctx, DefaultMaxInteractionsPerEpoch, DefaultMaxTargetsPerEpoch, domain.ModeActive)
	ap := makeAP("aa:bb:cc:dd:ee:ff", domain.Client{MAC: "11:22:33:44:55:66", LastSeen: time.Now()})

	require.Equal(t, -1000.0, engine.ScoreTarget(ap))

	plan := engine.PlanEpoch([]domain.AP{ap})
	assert.Empty(t, plan)
}

func TestBroadcastFallbackAssistMode(t *testing.T) {
	ctx := NewCaptureContext()
	engine := New(ctx, DefaultMaxInteractionsPerEpoch, DefaultMaxTargetsPerEpoch, domain.ModeAssist)

	noClients := makeAP("aa:bb:cc:dd:ee:ff")
	assert.Equal(t, domain.AttackAssocOnly, engine.SelectAttack(noClients))

	withClient := makeAP("aa:bb:cc:dd:ee:ff", domain.Client{MAC: "11:22:33:44:55:66", LastSeen: time.Now()})
	assert.Equal(t, domain.AttackBroadcastDeauth, engine.SelectAttack(withClient))
}

func TestPMKIDShortcutActiveMode(t *testing.T) {
	ctx := NewCaptureContext()
	ctx.RecordHandshake("aa:bb:cc:dd:ee:ff", domain.CapturePMKID, "")

	engine := New(ctx, DefaultMaxInteractionsPerEpoch, DefaultMaxTargetsPerEpoch, domain.ModeActive)

	withClient := makeAP("aa:bb:cc:dd:ee:ff", domain.Client{MAC: "11:22:33:44:55:66", LastSeen: time.Now()})
	assert.Equal(t, domain.AttackDeauthOnly, engine.SelectAttack(withClient))

	noClients := makeAP("aa:bb:cc:dd:ee:ff")
	assert.Equal(t, domain.AttackSkip, engine.SelectAttack(noClients))
}

func TestBudgetSaturationExcludesFromPlan(t *testing.T) {
	ctx := NewCaptureContext()
	engine := New(ctx, 3, DefaultMaxTargetsPerEpoch, domain.ModeActive)

	ap := makeAP("aa:bb:cc:dd:ee:ff", domain.Client{MAC: "11:22:33:44:55:66", LastSeen: time.Now()})
	require.Greater(t, engine.ScoreTarget(ap), 0.0)

	for i := 0; i < 3; i++ {
		ctx.RecordInteraction(ap.NormalizedMAC())
	}

	assert.Equal(t, -100.0, engine.ScoreTarget(ap))

	plan := engine.PlanEpoch([]domain.AP{ap})
	assert.Empty(t, plan)
}

func TestOpenNetworksAlwaysUnattackable(t *testing.T) {
	ctx := NewCaptureContext()
	for _, mode := range []domain.Mode{domain.ModeActive, domain.ModePassive, domain.ModeAssist} {
		engine := New(ctx, DefaultMaxInteractionsPerEpoch, DefaultMaxTargetsPerEpoch, mode)
		ap := makeAP("aa:bb:cc:dd:ee:ff")
		ap.Encryption = domain.EncOpen
		assert.Equal(t, -500.0, engine.ScoreTarget(ap), "mode=%s", mode)
	}
}

func TestPassiveModeNeverAttacks(t *testing.T) {
	ctx := NewCaptureContext()
	engine := New(ctx, DefaultMaxInteractionsPerEpoch, DefaultMaxTargetsPerEpoch, domain.ModePassive)
	ap := makeAP("aa:bb:cc:dd:ee:ff", domain.Client{MAC: "11:22:33:44:55:66", LastSeen: time.Now()})

	assert.Equal(t, domain.AttackSkip, engine.SelectAttack(ap))
	assert.Empty(t, engine.PlanEpoch([]domain.AP{ap}))
}

func TestPlanEpochSortedDescendingAndCapped(t *testing.T) {
	ctx := NewCaptureContext()
	engine := New(ctx, DefaultMaxInteractionsPerEpoch, 2, domain.ModeActive)

	var aps []domain.AP
	for i := 0; i < 5; i++ {
		ap := makeAP(domain.NormalizeMAC("aa:bb:cc:dd:ee:0" + string(rune('0'+i))))
		for j := 0; j <= i; j++ {
			ap.Clients = append(ap.Clients, domain.Client{MAC: "cc:cc:cc:cc:cc:cc", LastSeen: time.Now()})
		}
		aps = append(aps, ap)
	}

	plan := engine.PlanEpoch(aps)
	require.Len(t, plan, 2)
	assert.GreaterOrEqual(t, plan[0].Score, plan[1].Score)
	for _, entry := range plan {
		assert.Greater(t, entry.Score, 0.0)
		assert.NotEqual(t, domain.AttackSkip, entry.Variant)
	}
}

func TestGetNewClientsExcludesCaptured(t *testing.T) {
	ctx := NewCaptureContext()
	ctx.RecordHandshake("aa:bb:cc:dd:ee:ff", domain.CaptureFull, "11:11:11:11:11:11")

	clients := []domain.Client{
		{MAC: "11:11:11:11:11:11"},
		{MAC: "22:22:22:22:22:22"},
	}
	fresh := ctx.GetNewClients("AA:BB:CC:DD:EE:FF", clients)
	require.Len(t, fresh, 1)
	assert.Equal(t, "22:22:22:22:22:22", fresh[0])
}

func TestHasPMKIDImpliesHasHandshake(t *testing.T) {
	ctx := NewCaptureContext()
	ctx.RecordHandshake("aa:bb:cc:dd:ee:ff", domain.CapturePMKID, "")
	assert.True(t, ctx.HasPMKID("aa:bb:cc:dd:ee:ff"))
	assert.True(t, ctx.HasHandshake("aa:bb:cc:dd:ee:ff"))
}

func TestNewEpochClearsOnlyEpochCounters(t *testing.T) {
	ctx := NewCaptureContext()
	ctx.RecordInteraction("aa:bb:cc:dd:ee:ff")
	ctx.RecordInteraction("aa:bb:cc:dd:ee:ff")

	ctx.NewEpoch()

	assert.Equal(t, 0, ctx.EpochInteractions("aa:bb:cc:dd:ee:ff"))
	assert.Equal(t, 2, ctx.SessionInteractions("aa:bb:cc:dd:ee:ff"))
}

func TestRewardV2HighActivityExceedsBaseline(t *testing.T) {
	high := domain.EpochMetrics{
		DurationSecs:         60,
		NewUniqueHandshakes:  3,
		TargetsAttacked:      5,
		UncapturedAttacked:   5,
		ChannelsScanned:      5,
		ChannelsWithActivity: 3,
		NewAPsDiscovered:     2,
	}
	baseline := domain.EpochMetrics{
		DurationSecs:         60,
		NewUniqueHandshakes:  0,
		TargetsAttacked:      5,
		UncapturedAttacked:   1,
		ChannelsScanned:      5,
		ChannelsWithActivity: 0,
		NewAPsDiscovered:     0,
	}

	assert.Greater(t, RewardV2(high), RewardV2(baseline))
}

func TestExtractAPClientPairRoundTrip(t *testing.T) {
	apMAC, clientMAC, ok := extractAPClientPair("1772260468_142103B04721_84F3EBEE271E_handshake.22000")
	require.True(t, ok)
	assert.Equal(t, "14:21:03:b0:47:21", apMAC)
	assert.Equal(t, "84:f3:eb:ee:27:1e", clientMAC)
}

func TestExtractMACColonAndBareForms(t *testing.T) {
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", extractMAC("capture_aa:bb:cc:dd:ee:ff.pcap"))
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", extractMAC("capture_aabbccddeeff.pcap"))
}
