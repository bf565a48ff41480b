package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newValidConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8080,
			Mode: "release",
		},
		Pipeline: PipelineConfig{
			ModalScope:   ModalScopeConfig{ReviewConfidenceThreshold: 0.6},
			Ambiguity:    AmbiguityConfig{GapThreshold: 0.15},
			PronounChain: PronounChainConfig{DistanceDecay: 0.98, Floor: 0.3},
			Scope:        ScopeConfig{DefaultDomainBoundary: "clause"},
		},
		AuditStore: AuditStoreConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "password",
			DBName:   "db",
			MaxConns: 10,
		},
		Cache: CacheConfig{
			Addr: "localhost:6379",
		},
		EventBus: EventBusConfig{
			Brokers: []string{"localhost:9092"},
			GroupID: "group",
		},
		VectorStore: VectorStoreConfig{
			Addr: "localhost:19530",
		},
		Worker: WorkerConfig{
			Concurrency: 4,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

func TestConfigValidateValidConfig(t *testing.T) {
	cfg := newValidConfig()
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidateMissingAuditStoreHost(t *testing.T) {
	cfg := newValidConfig()
	cfg.AuditStore.Host = ""
	assert.Error(t, cfg.Validate())
}

func TestConfigValidateInvalidLogLevel(t *testing.T) {
	cfg := newValidConfig()
	cfg.Log.Level = "invalid"
	assert.Error(t, cfg.Validate())
}

func TestConfigValidateInvalidServerPort(t *testing.T) {
	cfg := newValidConfig()
	cfg.Server.Port = 70000
	assert.Error(t, cfg.Validate())
}

func TestConfigValidateEmptyEventBusBrokers(t *testing.T) {
	cfg := newValidConfig()
	cfg.EventBus.Brokers = []string{}
	assert.Error(t, cfg.Validate())
}

func TestConfigValidateOutOfRangeReviewConfidenceThreshold(t *testing.T) {
	cfg := newValidConfig()
	cfg.Pipeline.ModalScope.ReviewConfidenceThreshold = 1.5
	assert.Error(t, cfg.Validate())
}

func TestConfigValidateInvalidDomainBoundary(t *testing.T) {
	cfg := newValidConfig()
	cfg.Pipeline.Scope.DefaultDomainBoundary = "paragraph"
	assert.Error(t, cfg.Validate())
}

func TestConfigValidateZeroWorkerConcurrency(t *testing.T) {
	cfg := newValidConfig()
	cfg.Worker.Concurrency = 0
	assert.Error(t, cfg.Validate())
}

func TestPipelineConfigToPipelineConfig(t *testing.T) {
	cfg := newValidConfig()
	cfg.Pipeline.ClauseLink.CrossLineEnabled = true
	cfg.Pipeline.Conflict.ActionNormalization.StripArticles = true
	cfg.Pipeline.ParallelPerLine = true
	cfg.Pipeline.UseDeixisFallback = true

	pc := cfg.Pipeline.ToPipelineConfig()
	assert.Equal(t, 0.6, pc.ModalScope.ReviewConfidenceThreshold)
	assert.Equal(t, 0.15, pc.Ambiguity.GapThreshold)
	assert.Equal(t, 0.98, pc.PronounChain.DistanceDecay)
	assert.Equal(t, 0.3, pc.PronounChain.Floor)
	assert.True(t, pc.ClauseLink.CrossLineEnabled)
	assert.True(t, pc.Conflict.ActionNormalization.StripArticles)
	assert.Equal(t, "clause", pc.Scope.DefaultDomainBoundary)
	assert.True(t, pc.ParallelPerLine)
	assert.True(t, pc.UseDeixisFallback)
}

func TestWatchConfigDebounceWindowType(t *testing.T) {
	cfg := newValidConfig()
	cfg.Watch.DebounceWindow = 2 * time.Second
	assert.Equal(t, 2*time.Second, cfg.Watch.DebounceWindow)
}
