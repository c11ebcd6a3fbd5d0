// Package tactical implements the target-scoring, attack-routing, and
// capture-bookkeeping layer: CaptureContext, TacticalEngine, and
// RewardV2. Ported from tactical_engine.py's CaptureContext,
// TacticalEngine, and RewardV2 classes.
package tactical

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/FadeVT/pwny-core/internal/core/domain"
)

var (
	colonMACPattern = regexp.MustCompile(`([0-9a-fA-F]{2}[:-]){5}[0-9a-fA-F]{2}`)
	bareHexPattern  = regexp.MustCompile(`[0-9a-fA-F]{12}`)

	captureSuffixes = []string{".22000", ".pcap", ".cap", ".hccapx"}
)

type captureRecord struct {
	Timestamp time.Time
	Kind      domain.CaptureKind
}

// CaptureContext is an in-memory index of known handshake/PMKID
// captures, per-AP captured-client sets, and per-AP interaction
// counters. All MACs are stored normalized (lowercase, colon-form).
type CaptureContext struct {
	mu sync.Mutex

	captured         map[string]captureRecord
	pmkids           map[string]struct{}
	capturedClients  map[string]map[string]struct{}
	sessionInteracts map[string]int
	epochInteracts   map[string]int
}

// NewCaptureContext constructs an empty CaptureContext.
func NewCaptureContext() *CaptureContext {
	return &CaptureContext{
		captured:         make(map[string]captureRecord),
		pmkids:           make(map[string]struct{}),
		capturedClients:  make(map[string]map[string]struct{}),
		sessionInteracts: make(map[string]int),
		epochInteracts:   make(map[string]int),
	}
}

// NewCaptureContextFromDir constructs a CaptureContext and bootstraps
// it from whatever capture artifacts already exist under dir.
func NewCaptureContextFromDir(dir string) *CaptureContext {
	c := NewCaptureContext()
	c.ScanExisting(dir)
	return c
}

// HasHandshake reports whether a capture of any kind is recorded for mac.
func (c *CaptureContext) HasHandshake(mac string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.captured[domain.NormalizeMAC(mac)]
	return ok
}

// HasPMKID reports whether a PMKID specifically is recorded for mac.
func (c *CaptureContext) HasPMKID(mac string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.pmkids[domain.NormalizeMAC(mac)]
	return ok
}

// RecordHandshake records a capture of the given kind against mac,
// optionally attributing it to a specific client MAC.
func (c *CaptureContext) RecordHandshake(mac string, kind domain.CaptureKind, clientMAC string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	mac = domain.NormalizeMAC(mac)
	c.captured[mac] = captureRecord{Timestamp: time.Now(), Kind: kind}
	if kind == domain.CapturePMKID {
		c.pmkids[mac] = struct{}{}
	}
	if clientMAC != "" {
		c.addCapturedClientLocked(mac, domain.NormalizeMAC(clientMAC))
	}
}

func (c *CaptureContext) addCapturedClientLocked(apMAC, clientMAC string) {
	set, ok := c.capturedClients[apMAC]
	if !ok {
		set = make(map[string]struct{})
		c.capturedClients[apMAC] = set
	}
	set[clientMAC] = struct{}{}
}

// GetNewClients returns the subset of currentClients whose handshake
// has not yet been captured for apMAC. An AP whose capture was recorded
// without any client attribution counts as covered for every client,
// so it yields no new clients.
func (c *CaptureContext) GetNewClients(apMAC string, currentClients []domain.Client) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	apMAC = domain.NormalizeMAC(apMAC)
	captured := c.capturedClients[apMAC]
	if _, ok := c.captured[apMAC]; ok && len(captured) == 0 {
		return nil
	}

	var fresh []string
	for _, client := range currentClients {
		cm := domain.NormalizeMAC(client.MAC)
		if cm == "" {
			continue
		}
		if _, ok := captured[cm]; !ok {
			fresh = append(fresh, cm)
		}
	}
	return fresh
}

// SessionInteractions returns the lifetime (session) interaction count
// recorded against mac.
func (c *CaptureContext) SessionInteractions(mac string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionInteracts[domain.NormalizeMAC(mac)]
}

// EpochInteractions returns the current-epoch interaction count
// recorded against mac.
func (c *CaptureContext) EpochInteractions(mac string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epochInteracts[domain.NormalizeMAC(mac)]
}

// RecordInteraction increments both the session and epoch interaction
// counters for mac.
func (c *CaptureContext) RecordInteraction(mac string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	mac = domain.NormalizeMAC(mac)
	c.sessionInteracts[mac]++
	c.epochInteracts[mac]++
}

// NewEpoch clears the epoch interaction counters only.
func (c *CaptureContext) NewEpoch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epochInteracts = make(map[string]int)
}

// CapturedCount returns the number of distinct MACs with a recorded
// capture.
func (c *CaptureContext) CapturedCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.captured)
}

// CapturedMACs returns the set of MACs with a recorded capture.
func (c *CaptureContext) CapturedMACs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	macs := make([]string, 0, len(c.captured))
	for mac := range c.captured {
		macs = append(macs, mac)
	}
	return macs
}

// ScanExisting best-effort walks dir looking for capture artifacts,
// recognizing two filename conventions: a bare MAC (colon/dash
// separated, or 12 raw hex digits) anywhere in the name, and the
// underscore-delimited pineapd convention
// "<ts>_<AP12>_<CLIENT12>_<suffix>". Hashcat-style files additionally
// have their first "WPA*"-prefixed line parsed for an AP MAC. All
// parse failures are silent; a missing directory is not an error.
func (c *CaptureContext) ScanExisting(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !hasCaptureSuffix(name) {
			continue
		}
		path := filepath.Join(dir, name)
		info, err := entry.Info()
		ts := time.Now()
		if err == nil {
			ts = info.ModTime()
		}

		if mac := extractMAC(name); mac != "" {
			c.recordFileCapture(mac, ts)
		}

		if apMAC, clientMAC, ok := extractAPClientPair(name); ok {
			c.mu.Lock()
			c.addCapturedClientLocked(apMAC, clientMAC)
			c.mu.Unlock()
		}

		if strings.HasSuffix(name, ".22000") {
			if mac := extractMACFrom22000(path); mac != "" {
				c.recordFileCapture(mac, ts)
			}
		}
	}
}

func (c *CaptureContext) recordFileCapture(mac string, ts time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	mac = domain.NormalizeMAC(mac)
	if _, ok := c.captured[mac]; ok {
		return
	}
	c.captured[mac] = captureRecord{Timestamp: ts, Kind: domain.CaptureFile}
}

func hasCaptureSuffix(name string) bool {
	for _, suffix := range captureSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

func extractMAC(name string) string {
	if m := colonMACPattern.FindString(name); m != "" {
		return domain.NormalizeMAC(m)
	}
	if m := bareHexPattern.FindString(name); m != "" {
		return colonizeHex(m)
	}
	return ""
}

func extractAPClientPair(name string) (apMAC, clientMAC string, ok bool) {
	base := name
	if i := strings.LastIndex(base, "."); i >= 0 {
		base = base[:i]
	}
	parts := strings.Split(base, "_")
	if len(parts) < 3 {
		return "", "", false
	}
	rawAP, rawClient := parts[1], parts[2]
	if len(rawAP) != 12 || len(rawClient) != 12 {
		return "", "", false
	}
	if !isHex(rawAP) || !isHex(rawClient) {
		return "", "", false
	}
	return colonizeHex(rawAP), colonizeHex(rawClient), true
}

func extractMACFrom22000(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "WPA*") {
			continue
		}
		fields := strings.Split(line, "*")
		if len(fields) < 4 {
			return ""
		}
		raw := strings.ToLower(fields[3])
		if len(raw) != 12 || !isHex(raw) {
			return ""
		}
		return colonizeHex(raw)
	}
	return ""
}

func isHex(s string) bool {
	_, err := strconv.ParseUint(s, 16, 64)
	return err == nil
}

func colonizeHex(raw string) string {
	raw = strings.ToLower(raw)
	var b strings.Builder
	for i := 0; i < len(raw); i += 2 {
		if i > 0 {
			b.WriteByte(':')
		}
		b.WriteString(raw[i : i+2])
	}
	return b.String()
}
