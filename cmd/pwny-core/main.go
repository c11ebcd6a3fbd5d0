// Command pwny-core runs the intelligence core's epoch loop against a
// mock sensor/actuator pair (-mock, demo/dev mode). No real sensor or
// actuator is wired in: without -mock it exits at startup. It owns
// process-level concerns the
// core itself stays free of: configuration, logging, persistence,
// and the read-only status HTTP API.
package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/FadeVT/pwny-core/internal/adapters/reporting"
	"github.com/FadeVT/pwny-core/internal/adapters/statestore"
	"github.com/FadeVT/pwny-core/internal/adapters/statusapi"
	"github.com/FadeVT/pwny-core/internal/config"
	"github.com/FadeVT/pwny-core/internal/core/domain"
	"github.com/FadeVT/pwny-core/internal/core/ports"
	"github.com/FadeVT/pwny-core/internal/core/services/brain"
	"github.com/FadeVT/pwny-core/internal/core/services/rng"
	"github.com/FadeVT/pwny-core/internal/mock"
	"github.com/FadeVT/pwny-core/internal/telemetry"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	slog.Info("pwny-core starting")

	cfg := config.Load()
	brainCfg := cfg.BrainConfig()

	shutdownTracer, err := telemetry.InitTracer()
	if err != nil {
		log.Fatalf("failed to init tracer: %v", err)
	}
	defer shutdownTracer(context.Background())
	telemetry.InitMetrics()

	var store ports.StateStore
	sqliteStore, err := statestore.New(cfg.StateDBPath)
	if err != nil {
		log.Printf("warning: failed to open state store at %s: %v (running without persistence)", cfg.StateDBPath, err)
	} else {
		store = sqliteStore
		defer sqliteStore.Close()
	}

	var sensor ports.Sensor
	var actuator ports.Actuator
	var mockActuator *mock.Actuator

	if cfg.Mock {
		slog.Info("running against mock sensor/actuator")
		channels := defaultMockChannels()
		mockSensor := mock.NewSensor(channels, time.Now().UnixNano())
		mockSensor.Seed(25)
		mockActuator = mock.NewActuator(time.Now().UnixNano() + 1)
		sensor = mockSensor
		actuator = mockActuator
	} else {
		log.Fatalf("no real sensor/actuator wired; rerun with -mock")
	}

	r := rng.New()
	b := brain.New(brainCfg, sensor, actuator, store, r, log.Default())

	errChan := make(chan error, 1)

	statusHandler := statusapi.NewHandler(b)
	statusRouter := statusapi.NewRouter(statusHandler)
	statusServer := &http.Server{Addr: cfg.StatusAddr, Handler: statusRouter}

	go func() {
		slog.Info("starting status API", "addr", cfg.StatusAddr)
		if err := statusServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	startedAt := time.Now()
	go runEpochLoop(ctx, b, sensor, mockActuator, brainCfg.ChannelsPerEpoch)

	slog.Info("pwny-core started, press Ctrl+C to exit")

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	case err := <-errChan:
		slog.Error("fatal error encountered", "error", err)
		cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	statusServer.Shutdown(shutdownCtx)

	if cfg.ReportPath != "" {
		writeSessionReport(b, startedAt, cfg.ReportPath)
	}

	slog.Info("pwny-core stopped")
}

// runEpochLoop drives the select→plan→execute→observe→close protocol
// once per tick, the way a real capture loop would once wall-clock
// timing replaces the fixed interval below.
func runEpochLoop(ctx context.Context, b *brain.Brain, sensor ports.Sensor, actuator *mock.Actuator, channelsPerEpoch int) {
	ticker := time.NewTicker(3 * time.Second)
	defer ticker.Stop()

	epoch := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			epoch++
			runEpoch(ctx, b, sensor, actuator, channelsPerEpoch, epoch)
		}
	}
}

func runEpoch(ctx context.Context, b *brain.Brain, sensor ports.Sensor, actuator *mock.Actuator, channelsPerEpoch, epoch int) {
	ctx, span := telemetry.Tracer.Start(ctx, "runEpoch")
	defer span.End()

	channels := b.SelectChannels(channelsPerEpoch)

	aps, err := sensor.SupplyAccessPoints(ctx)
	if err != nil {
		slog.Error("sensor failed to supply access points", "error", err)
		return
	}

	plan := b.PlanAttacks(aps)
	for _, entry := range plan {
		outcome := "miss"
		if b.ExecuteAttack(ctx, entry) {
			outcome = "hit"
		}
		telemetry.AttacksExecuted.WithLabelValues(string(entry.Variant), outcome).Inc()
	}

	for _, ch := range channels {
		hadActivity := false
		for _, ap := range aps {
			if ap.Channel == ch {
				hadActivity = true
				break
			}
		}
		b.OnChannelScanned(ch, hadActivity)
	}

	if actuator != nil {
		for _, capture := range actuator.DrainCaptures() {
			isNew := !b.Context().HasHandshake(capture.APMAC)
			b.OnHandshake(capture.APMAC, findAPChannel(aps, capture.APMAC))
			kind := "repeat"
			if isNew {
				kind = "new"
			}
			telemetry.HandshakesCaptured.WithLabelValues(kind).Inc()
		}
	}

	b.OnEpoch(epoch)

	telemetry.EpochsCompleted.WithLabelValues(string(b.Mode())).Inc()
	telemetry.EpochReward.WithLabelValues(string(b.Mode())).Set(b.LastReward())
	for band, stats := range b.Bandit().GetBandStats() {
		telemetry.BanditBandSuccessRate.WithLabelValues(string(band)).Set(stats.SuccessRate)
	}
	if opt := b.Optimizer(); opt != nil && opt.NumObservations() > 0 {
		_, bestReward := opt.GetBest()
		telemetry.OptimizerBestReward.WithLabelValues(string(b.Mode())).Set(bestReward)
	}
}

func findAPChannel(aps []domain.AP, mac string) domain.Channel {
	for _, ap := range aps {
		if ap.MAC == mac {
			return ap.Channel
		}
	}
	return 0
}

func defaultMockChannels() []domain.Channel {
	channels := make([]domain.Channel, 0, len(domain.Channels2G)+len(domain.Channels5G)+len(domain.Channels6G))
	channels = append(channels, domain.Channels2G...)
	channels = append(channels, domain.Channels5G...)
	channels = append(channels, domain.Channels6G...)
	return channels
}

func writeSessionReport(b *brain.Brain, startedAt time.Time, path string) {
	exporter := reporting.NewPDFExporter()

	var bestParams map[string]float64
	var bestReward float64
	if opt := b.Optimizer(); opt != nil {
		state := opt.GetState()
		bestParams = state.BestParams
		bestReward = state.BestReward
	}

	summary := reporting.SessionSummary{
		ID:              uuid.New().String(),
		Mode:            b.Mode(),
		StartedAt:       startedAt,
		GeneratedAt:     time.Now(),
		EpochsCompleted: b.Bandit().TotalEpochs(),
		BandStats:       b.Bandit().GetBandStats(),
		BestParams:      bestParams,
		BestReward:      bestReward,
		CapturedCount:   b.Context().CapturedCount(),
		CapturedMACs:    b.Context().CapturedMACs(),
	}

	data, err := exporter.Export(summary)
	if err != nil {
		slog.Error("failed to render session report", "error", err)
		return
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		slog.Error("failed to write session report", "path", path, "error", err)
		return
	}

	slog.Info("session report written", "path", path)
}
