package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaultsEmptyConfig(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultServerMode, cfg.Server.Mode)

	assert.Equal(t, DefaultModalScopeReviewConfidenceThreshold, cfg.Pipeline.ModalScope.ReviewConfidenceThreshold)
	assert.Equal(t, DefaultAmbiguityGapThreshold, cfg.Pipeline.Ambiguity.GapThreshold)
	assert.Equal(t, DefaultPronounChainDistanceDecay, cfg.Pipeline.PronounChain.DistanceDecay)
	assert.Equal(t, DefaultPronounChainFloor, cfg.Pipeline.PronounChain.Floor)
	assert.Equal(t, DefaultScopeDomainBoundary, cfg.Pipeline.Scope.DefaultDomainBoundary)
	assert.True(t, cfg.Pipeline.Conflict.ActionNormalization.StripArticles)

	assert.Equal(t, DefaultAuditStoreHost, cfg.AuditStore.Host)
	assert.Equal(t, DefaultAuditStorePort, cfg.AuditStore.Port)
	assert.Equal(t, DefaultAuditStoreDBName, cfg.AuditStore.DBName)
	assert.Equal(t, DefaultAuditStoreMaxConns, cfg.AuditStore.MaxConns)
	assert.Equal(t, "disable", cfg.AuditStore.SSLMode)

	assert.Equal(t, DefaultCacheAddr, cfg.Cache.Addr)
	assert.Equal(t, time.Hour, cfg.Cache.DefaultTTL)

	assert.Equal(t, []string{DefaultEventBusBroker}, cfg.EventBus.Brokers)
	assert.Equal(t, DefaultEventBusGroupID, cfg.EventBus.GroupID)

	assert.Equal(t, DefaultVectorStoreAddr, cfg.VectorStore.Addr)
	assert.Equal(t, 64, cfg.VectorStore.EmbeddingDim)
	assert.Equal(t, 10, cfg.VectorStore.DefaultTopK)

	assert.Equal(t, DefaultDocArchiveEndpoint, cfg.DocArchive.Endpoint)

	assert.Equal(t, DefaultWorkerConcurrency, cfg.Worker.Concurrency)
	assert.Equal(t, 3, cfg.Worker.MaxRetries)

	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, DefaultLogFormat, cfg.Log.Format)

	assert.Equal(t, "/metrics", cfg.Metrics.Path)

	assert.Equal(t, "*.txt", cfg.Watch.Pattern)
	assert.Equal(t, 500*time.Millisecond, cfg.Watch.DebounceWindow)
}

func TestApplyDefaultsPreservesExistingValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9999
	cfg.AuditStore.Host = "custom-host"

	ApplyDefaults(cfg)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "custom-host", cfg.AuditStore.Host)
	assert.Equal(t, DefaultServerMode, cfg.Server.Mode)
}

func TestApplyDefaultsPreservesSliceValues(t *testing.T) {
	cfg := &Config{}
	brokers := []string{"broker-1:9092", "broker-2:9092"}
	cfg.EventBus.Brokers = brokers

	ApplyDefaults(cfg)

	assert.Equal(t, brokers, cfg.EventBus.Brokers)
}

func TestApplyDefaultsPreservesDurationValues(t *testing.T) {
	cfg := &Config{}
	ttl := 5 * time.Minute
	cfg.Cache.DefaultTTL = ttl

	ApplyDefaults(cfg)

	assert.Equal(t, ttl, cfg.Cache.DefaultTTL)
}

func TestApplyDefaultsNilConfigIsNoop(t *testing.T) {
	assert.NotPanics(t, func() { ApplyDefaults(nil) })
}
