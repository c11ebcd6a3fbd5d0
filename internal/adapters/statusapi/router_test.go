package statusapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FadeVT/pwny-core/internal/core/domain"
	"github.com/FadeVT/pwny-core/internal/core/services/brain"
	"github.com/FadeVT/pwny-core/internal/core/services/rng"
)

type stubSensor struct {
	channels []domain.Channel
}

func (s *stubSensor) SupplyAccessPoints(ctx context.Context) ([]domain.AP, error) {
	return nil, nil
}

func (s *stubSensor) SupplyChannels(ctx context.Context) ([]domain.Channel, error) {
	return s.channels, nil
}

type stubActuator struct{}

func (a *stubActuator) ExecuteAttack(ctx context.Context, ap domain.AP, variant domain.AttackVariant) (bool, error) {
	return true, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	sensor := &stubSensor{channels: []domain.Channel{1, 6, 11}}
	cfg := brain.DefaultConfig()
	b := brain.New(cfg, sensor, &stubActuator{}, nil, rng.NewSeeded(3), nil)
	return NewRouter(NewHandler(b))
}

func TestHandleStatusReturnsCurrentMode(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp statusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "active", resp.Mode)
	assert.True(t, resp.OptimizerActive)
}

func TestHandleBandStatsReturnsJSON(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/status/bands", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestHandleCapturesEmptyInitially(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/status/captures", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp capturesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Count)
}

func TestMetricsEndpointServesPrometheusFormat(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUnknownRouteReturnsNotFound(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/does-not-exist", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
