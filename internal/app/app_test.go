package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/skate-fantasy/internal/config"
	"github.com/riskibarqy/skate-fantasy/internal/platform/logging"
)

func memoryConfig() config.Config {
	return config.Config{
		AppEnv:             config.EnvDev,
		ServiceName:        "skate-fantasy-api",
		HTTPAddr:           ":0",
		ReadTimeout:        time.Second,
		WriteTimeout:       time.Second,
		MetricsEnabled:     true,
		StorageDriver:      config.StorageMemory,
		SeedDemoData:       true,
		CacheEnabled:       true,
		CacheDriver:        config.CacheMemory,
		CacheTTL:           time.Minute,
		AggregationWorkers: 2,
		NotifyWorkers:      1,
		AnubisBaseURL:      "http://127.0.0.1:1",
		AnubisTimeout:      time.Second,
	}
}

func TestNew_MemoryStack(t *testing.T) {
	a, err := New(context.Background(), memoryConfig(), logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, a.Close()) })

	rec := httptest.NewRecorder()
	a.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	a.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/standings", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestNew_MetricsDisabled(t *testing.T) {
	cfg := memoryConfig()
	cfg.MetricsEnabled = false
	cfg.CacheEnabled = false

	a, err := New(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	a.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNew_LoadsScoringRulesFile(t *testing.T) {
	cfg := memoryConfig()
	cfg.ScoringRulesPath = "../../config/scoring.toml"

	_, err := New(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)

	cfg.ScoringRulesPath = "testdata/missing.toml"
	_, err = New(context.Background(), cfg, logging.NewNop())
	require.Error(t, err)
}

func TestNew_RejectsEmptyAddr(t *testing.T) {
	cfg := memoryConfig()
	cfg.HTTPAddr = ""

	_, err := New(context.Background(), cfg, logging.NewNop())
	require.Error(t, err)
}

func TestNew_InvalidWebhookConfig(t *testing.T) {
	cfg := memoryConfig()
	cfg.NotifyWebhookEnabled = true
	cfg.NotifyWebhookURL = "not a url"

	_, err := New(context.Background(), cfg, logging.NewNop())
	require.Error(t, err)
}
