// Package config loads the orchestrator binary's configuration surface
// from environment variables and command-line flags. It lives outside
// the core: the core itself never parses configuration files or
// environment variables, taking a plain brain.Config value instead.
package config

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/FadeVT/pwny-core/internal/core/domain"
	"github.com/FadeVT/pwny-core/internal/core/services/brain"
)

// Config holds all orchestrator-binary configuration.
type Config struct {
	Mode             string
	ChannelsPerEpoch int
	MaxTargets       int
	OptimizeTiming   bool
	BanditWindow     int
	BOInitialEpochs  int
	MaxInteractions  int
	HandshakeDir     string
	StateDBPath      string
	ReportPath       string
	StatusAddr       string
	Mock             bool
	Debug            bool
}

// Load parses command-line flags and environment variables into a
// Config. Flags take precedence over environment variables.
func Load() *Config {
	cfg := &Config{}

	cfg.Mode = getEnv("PWNY_MODE", "active")
	cfg.ChannelsPerEpoch = int(getEnvFloat("PWNY_CHANNELS_PER_EPOCH", 5))
	cfg.MaxTargets = int(getEnvFloat("PWNY_MAX_TARGETS", 20))
	cfg.OptimizeTiming = getEnvBool("PWNY_OPTIMIZE_TIMING", true)
	cfg.BanditWindow = int(getEnvFloat("PWNY_BANDIT_WINDOW", 30))
	cfg.BOInitialEpochs = int(getEnvFloat("PWNY_BO_INITIAL_EPOCHS", 10))
	cfg.MaxInteractions = int(getEnvFloat("PWNY_MAX_INTERACTIONS", 3))
	cfg.HandshakeDir = getEnv("PWNY_HANDSHAKE_DIR", "/root/loot/handshakes")
	cfg.StateDBPath = getEnv("PWNY_STATE_DB", getDefaultStatePath())
	cfg.ReportPath = getEnv("PWNY_REPORT_PATH", "")
	cfg.StatusAddr = getEnv("PWNY_STATUS_ADDR", ":8099")

	flag.StringVar(&cfg.Mode, "mode", cfg.Mode, "operational mode: active|passive|assist")
	flag.IntVar(&cfg.ChannelsPerEpoch, "channels", cfg.ChannelsPerEpoch, "channels to select per epoch")
	flag.IntVar(&cfg.MaxTargets, "max-targets", cfg.MaxTargets, "max attack-plan entries per epoch")
	flag.BoolVar(&cfg.OptimizeTiming, "optimize-timing", cfg.OptimizeTiming, "enable Bayesian timing optimization")
	flag.IntVar(&cfg.BanditWindow, "bandit-window", cfg.BanditWindow, "channel bandit sliding-window size")
	flag.IntVar(&cfg.BOInitialEpochs, "bo-initial", cfg.BOInitialEpochs, "Bayesian optimizer initial random epochs")
	flag.IntVar(&cfg.MaxInteractions, "max-interactions", cfg.MaxInteractions, "per-AP per-epoch attack budget")
	flag.StringVar(&cfg.HandshakeDir, "handshake-dir", cfg.HandshakeDir, "directory scanned for existing captures")
	flag.StringVar(&cfg.StateDBPath, "state-db", cfg.StateDBPath, "path to the orchestrator's SQLite state database")
	flag.StringVar(&cfg.ReportPath, "report", cfg.ReportPath, "path to write a PDF session report on exit (empty to disable)")
	flag.StringVar(&cfg.StatusAddr, "status-addr", cfg.StatusAddr, "listen address for the read-only status HTTP API")
	flag.BoolVar(&cfg.Mock, "mock", false, "run against a mock sensor/actuator instead of real hardware")
	flag.BoolVar(&cfg.Debug, "debug", false, "enable verbose debug logging")

	flag.Parse()

	return cfg
}

// BrainConfig translates the parsed flags/environment into a
// brain.Config, falling back ModeActive with a logged warning on an
// unrecognized mode string.
func (c *Config) BrainConfig() brain.Config {
	cfg := brain.DefaultConfig()

	mode := domain.Mode(c.Mode)
	if !domain.ValidMode(mode) {
		log.Printf("[config] invalid mode %q, falling back to active", c.Mode)
		mode = domain.ModeActive
	}
	cfg.Mode = mode
	cfg.ChannelsPerEpoch = c.ChannelsPerEpoch
	cfg.MaxTargetsPerEpoch = c.MaxTargets
	cfg.OptimizeTiming = c.OptimizeTiming
	cfg.BanditWindow = c.BanditWindow
	cfg.BOInitialEpochs = c.BOInitialEpochs
	cfg.MaxInteractions = c.MaxInteractions
	cfg.HandshakeDir = c.HandshakeDir
	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

// getDefaultStatePath returns the default state-database path under the
// user's home directory, creating the directory if needed.
func getDefaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		log.Printf("[config] could not get user home directory, using current dir: %v", err)
		return "pwny-core.db"
	}

	dir := filepath.Join(home, ".pwny-core")
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Printf("[config] could not create state directory, using current dir: %v", err)
		return "pwny-core.db"
	}

	return filepath.Join(dir, "state.db")
}
