// Package mock implements an in-memory sensor/actuator pair satisfying
// ports.Sensor and ports.Actuator, for demo runs and tests that need a
// brain.Brain without real radio hardware: weighted random AP/client
// generation with periodic SimulateActivity churn.
package mock

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/FadeVT/pwny-core/internal/core/domain"
)

var commonSSIDs = []string{
	"HomeNetwork", "NETGEAR-5G", "Coffee_WiFi", "TP-Link_2.4GHz",
	"Linksys", "ATT-WiFi", "Xfinity", "Office-Network",
	"Guest-WiFi", "DIRECT-Printer", "AndroidAP", "Apartment_5G",
}

var vendorPrefixes = []string{
	"00:17:F2", "00:12:FB", "00:1E:BD", "50:C7:BF", "A0:63:91",
	"00:14:BF", "F4:F5:D8", "FC:A6:67", "34:CE:00", "00:E0:FC",
}

var encryptionWeights = []struct {
	enc    domain.Encryption
	weight float32
}{
	{domain.EncWPA2, 0.55},
	{domain.EncWPA3, 0.15},
	{domain.EncWEP, 0.1},
	{domain.EncOpen, 0.2},
}

// mockAP is the sensor's internal mutable record for one simulated AP.
type mockAP struct {
	mac        string
	ssid       string
	channel    domain.Channel
	rssi       int
	encryption domain.Encryption
	clients    []domain.Client
	lastSeen   time.Time
}

// Sensor is an in-memory ports.Sensor implementation that generates a
// population of simulated APs/clients and churns them over time via
// SimulateActivity, the way a real environment's population drifts
// epoch to epoch.
type Sensor struct {
	rng      *rand.Rand
	channels []domain.Channel
	aps      map[string]*mockAP
}

// NewSensor constructs a Sensor over the given channel set, seeded for
// reproducible demo runs.
func NewSensor(channels []domain.Channel, seed int64) *Sensor {
	return &Sensor{
		rng:      rand.New(rand.NewSource(seed)),
		channels: append([]domain.Channel(nil), channels...),
		aps:      make(map[string]*mockAP),
	}
}

// Seed populates the sensor with an initial population of n simulated
// APs, each with a random number of clients.
func (s *Sensor) Seed(n int) {
	for i := 0; i < n; i++ {
		s.generateAP()
	}
}

func (s *Sensor) generateAP() *mockAP {
	mac := s.generateMAC()
	ap := &mockAP{
		mac:        mac,
		ssid:       commonSSIDs[s.rng.Intn(len(commonSSIDs))],
		channel:    s.channels[s.rng.Intn(len(s.channels))],
		rssi:       -30 - s.rng.Intn(60),
		encryption: s.weightedEncryption(),
		lastSeen:   time.Now(),
	}

	numClients := s.rng.Intn(4)
	for i := 0; i < numClients; i++ {
		ap.clients = append(ap.clients, domain.Client{
			MAC:      s.generateMAC(),
			LastSeen: time.Now(),
		})
	}

	s.aps[mac] = ap
	return ap
}

func (s *Sensor) generateMAC() string {
	prefix := vendorPrefixes[s.rng.Intn(len(vendorPrefixes))]
	return fmt.Sprintf("%s:%02X:%02X:%02X", prefix, s.rng.Intn(256), s.rng.Intn(256), s.rng.Intn(256))
}

func (s *Sensor) weightedEncryption() domain.Encryption {
	total := float32(0)
	for _, w := range encryptionWeights {
		total += w.weight
	}
	r := s.rng.Float32() * total
	cumulative := float32(0)
	for _, w := range encryptionWeights {
		cumulative += w.weight
		if r <= cumulative {
			return w.enc
		}
	}
	return domain.EncWPA2
}

// SimulateActivity churns the population: occasionally adds an AP or
// client, occasionally drops one, and jitters RSSI/last-seen for
// everything still present.
func (s *Sensor) SimulateActivity() {
	if s.rng.Float32() < 0.1 {
		s.generateAP()
	}

	if s.rng.Float32() < 0.05 && len(s.aps) > 3 {
		for mac := range s.aps {
			delete(s.aps, mac)
			break
		}
	}

	now := time.Now()
	for _, ap := range s.aps {
		delta := s.rng.Intn(10) - 5
		ap.rssi += delta
		if ap.rssi > -20 {
			ap.rssi = -20
		}
		if ap.rssi < -95 {
			ap.rssi = -95
		}
		ap.lastSeen = now

		if s.rng.Float32() < 0.3 && len(ap.clients) < 8 {
			ap.clients = append(ap.clients, domain.Client{MAC: s.generateMAC(), LastSeen: now})
		}
		for i := range ap.clients {
			if s.rng.Float32() < 0.6 {
				ap.clients[i].LastSeen = now
			}
		}
	}
}

// SupplyAccessPoints implements ports.Sensor.
func (s *Sensor) SupplyAccessPoints(ctx context.Context) ([]domain.AP, error) {
	aps := make([]domain.AP, 0, len(s.aps))
	for _, m := range s.aps {
		aps = append(aps, domain.AP{
			MAC:        m.mac,
			Hostname:   m.ssid,
			Channel:    m.channel,
			RSSI:       m.rssi,
			Encryption: m.encryption,
			Clients:    append([]domain.Client(nil), m.clients...),
			LastSeen:   m.lastSeen,
		})
	}
	return aps, nil
}

// SupplyChannels implements ports.Sensor.
func (s *Sensor) SupplyChannels(ctx context.Context) ([]domain.Channel, error) {
	return append([]domain.Channel(nil), s.channels...), nil
}
