package bandit

import (
	"testing"

	"github.com/FadeVT/pwny-core/internal/core/domain"
	"github.com/FadeVT/pwny-core/internal/core/services/rng"
)

func chans(vals ...int) []domain.Channel {
	chs := make([]domain.Channel, len(vals))
	for i, v := range vals {
		chs[i] = domain.Channel(v)
	}
	return chs
}

func TestSelectChannelsReturnsAllWhenKExceedsChannelCount(t *testing.T) {
	b := New(chans(1, 6, 11), DefaultWindowSize, DefaultExplorationBonus, domain.ModeActive, rng.NewSeeded(1))
	got := b.SelectChannels(10)
	if len(got) != 3 {
		t.Fatalf("expected all 3 channels, got %d", len(got))
	}
}

func TestSelectChannelsReturnsKDistinctChannels(t *testing.T) {
	b := New(chans(1, 2, 3, 4, 5, 6), DefaultWindowSize, DefaultExplorationBonus, domain.ModeActive, rng.NewSeeded(42))
	got := b.SelectChannels(3)
	if len(got) != 3 {
		t.Fatalf("expected 3 channels, got %d", len(got))
	}
	seen := map[domain.Channel]bool{}
	for _, ch := range got {
		if seen[ch] {
			t.Fatalf("duplicate channel %d in selection", ch)
		}
		seen[ch] = true
	}
}

func TestBandDiversityActiveMode(t *testing.T) {
	// 1, 6, 11 are 2G; 36, 44 are 5G.
	b := New(chans(1, 6, 11, 36, 44, 149), DefaultWindowSize, DefaultExplorationBonus, domain.ModeActive, rng.NewSeeded(7))
	got := b.SelectChannels(3)

	bands := map[domain.Band]bool{}
	for _, ch := range got {
		bands[domain.BandOf(ch)] = true
	}
	if !bands[domain.Band2G] || !bands[domain.Band5G] {
		t.Fatalf("expected both 2G and 5G represented, got bands=%v for selection=%v", bands, got)
	}
}

func TestUnscannedGuarantee(t *testing.T) {
	r := rng.NewSeeded(3)
	b := New(chans(1, 2, 3, 4, 5), DefaultWindowSize, DefaultExplorationBonus, domain.ModeActive, r)

	// Scan everything except channel 5 many times so its posterior
	// score would never rank in the top-2 on its own.
	for i := 0; i < 50; i++ {
		b.Update(1, 1.0)
		b.Update(2, 1.0)
		b.Update(3, 1.0)
		b.Update(4, 1.0)
	}

	found := false
	for i := 0; i < 20; i++ {
		got := b.SelectChannels(2)
		for _, ch := range got {
			if ch == 5 {
				found = true
			}
		}
	}
	if !found {
		t.Fatalf("expected channel 5 (never scanned) to appear in at least one selection")
	}
}

func TestWindowedStatsNeverExceedWindowSize(t *testing.T) {
	b := New(chans(1), 5, DefaultExplorationBonus, domain.ModeActive, rng.NewSeeded(1))
	for i := 0; i < 20; i++ {
		b.Update(1, 1.0)
	}
	successes, failures := b.windowedStats(1)
	if successes+failures > 5 {
		t.Fatalf("windowed total %d exceeds window size 5", successes+failures)
	}
}

func TestAlphaBetaLowerBound(t *testing.T) {
	b := New(chans(1), DefaultWindowSize, DefaultExplorationBonus, domain.ModeActive, rng.NewSeeded(1))
	successes, failures := b.windowedStats(1)
	alpha := 1 + float64(successes)
	beta := 1 + float64(failures)
	if alpha < 1 || beta < 1 {
		t.Fatalf("alpha/beta must be >= 1, got alpha=%v beta=%v", alpha, beta)
	}
}

func TestGetStateLoadStateRoundTrip(t *testing.T) {
	b := New(chans(1, 6, 36), 10, 0.2, domain.ModeAssist, rng.NewSeeded(5))
	b.Update(1, 1.0)
	b.Update(1, 0.0)
	b.Update(6, 1.0)
	b.RecordClientActivity(36, 4)
	b.Boost(36, 0.3)

	state := b.GetState()

	b2 := New(chans(1, 6, 36), DefaultWindowSize, DefaultExplorationBonus, domain.ModeActive, rng.NewSeeded(9))
	b2.LoadState(state)

	if b2.windowSize != 10 {
		t.Fatalf("expected window size 10 restored, got %d", b2.windowSize)
	}
	if b2.mode != domain.ModeAssist {
		t.Fatalf("expected mode assist restored, got %s", b2.mode)
	}

	s1, f1 := b.windowedStats(1)
	s2, f2 := b2.windowedStats(1)
	if s1 != s2 || f1 != f2 {
		t.Fatalf("channel 1 stats mismatch after round-trip: (%d,%d) vs (%d,%d)", s1, f1, s2, f2)
	}
	if b2.state(6).totalScans != b.state(6).totalScans {
		t.Fatalf("channel 6 total scans mismatch after round-trip")
	}
}

func TestChannelToBandMembership(t *testing.T) {
	for _, ch := range domain.Channels6G {
		if domain.BandOf(ch) != domain.Band6G {
			t.Fatalf("channel %d expected band 6G, got %s", ch, domain.BandOf(ch))
		}
	}
	if domain.BandOf(1) != domain.Band2G {
		t.Fatalf("channel 1 expected 2G")
	}
	if domain.BandOf(36) != domain.Band5G {
		t.Fatalf("channel 36 expected 5G")
	}
}

func TestGetStatsRecordsWindowedSuccesses(t *testing.T) {
	r := rng.NewSeeded(11)
	b := New(chans(1, 2, 3, 4, 5, 6, 7, 8), DefaultWindowSize, DefaultExplorationBonus, domain.ModeActive, r)
	for i := 0; i < 10; i++ {
		b.Update(1, 1.0)
	}
	stats := b.GetStats()
	if stats[1].SuccessesWindowed == 0 {
		t.Fatalf("expected channel 1 to have recorded successes")
	}
}
