package mock

import (
	"context"
	"testing"

	"github.com/FadeVT/pwny-core/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSensorSeedPopulatesAPs(t *testing.T) {
	s := NewSensor([]domain.Channel{1, 6, 11}, 1)
	s.Seed(10)

	aps, err := s.SupplyAccessPoints(context.Background())
	require.NoError(t, err)
	assert.Len(t, aps, 10)

	for _, ap := range aps {
		assert.NotEmpty(t, ap.MAC)
		assert.Contains(t, []domain.Channel{1, 6, 11}, ap.Channel)
	}
}

func TestSensorSupplyChannelsReturnsConfiguredSet(t *testing.T) {
	s := NewSensor([]domain.Channel{36, 44, 149}, 2)
	channels, err := s.SupplyChannels(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.Channel{36, 44, 149}, channels)
}

func TestSimulateActivityKeepsRSSIInRange(t *testing.T) {
	s := NewSensor([]domain.Channel{1, 6, 11}, 3)
	s.Seed(5)

	for i := 0; i < 50; i++ {
		s.SimulateActivity()
	}

	aps, err := s.SupplyAccessPoints(context.Background())
	require.NoError(t, err)
	for _, ap := range aps {
		assert.LessOrEqual(t, ap.RSSI, -20)
		assert.GreaterOrEqual(t, ap.RSSI, -95)
	}
}

func TestActuatorSkipVariantNeverAttacks(t *testing.T) {
	a := NewActuator(1)
	ap := domain.AP{MAC: "aa:bb:cc:dd:ee:ff"}

	success, err := a.ExecuteAttack(context.Background(), ap, domain.AttackSkip)
	require.NoError(t, err)
	assert.False(t, success)
	assert.Empty(t, a.Captures)
}

func TestActuatorDrainCapturesClearsBuffer(t *testing.T) {
	a := NewActuator(7)
	ap := domain.AP{
		MAC:     "aa:bb:cc:dd:ee:ff",
		Clients: []domain.Client{{MAC: "11:22:33:44:55:66"}},
	}

	for i := 0; i < 100; i++ {
		_, err := a.ExecuteAttack(context.Background(), ap, domain.AttackAssocThenDeauth)
		require.NoError(t, err)
	}

	captures := a.DrainCaptures()
	assert.NotEmpty(t, captures)
	assert.Empty(t, a.Captures)

	for _, c := range captures {
		assert.Equal(t, "aa:bb:cc:dd:ee:ff", c.APMAC)
		assert.Equal(t, domain.CaptureFull, c.Kind)
	}
}

func TestActuatorNoClientsYieldsPMKIDCapture(t *testing.T) {
	a := NewActuator(9)
	ap := domain.AP{MAC: "aa:bb:cc:dd:ee:ff"}

	var captures []CaptureEvent
	for i := 0; i < 200 && len(captures) == 0; i++ {
		_, err := a.ExecuteAttack(context.Background(), ap, domain.AttackDeauthOnly)
		require.NoError(t, err)
		captures = a.DrainCaptures()
	}

	require.NotEmpty(t, captures)
	assert.Equal(t, domain.CapturePMKID, captures[0].Kind)
	assert.Empty(t, captures[0].ClientMAC)
}
