// Package config defines configuration structures for the layered
// contract analyzer and its collaborators.  No I/O or parsing logic
// lives here — only plain data types, defaults, and validation.
package config

import (
	"fmt"
	"time"

	"github.com/turtacn/layeredcontracts/internal/pipeline"
)

// ─────────────────────────────────────────────────────────────────────────────
// Core pipeline tunables (spec.md §6)
// ─────────────────────────────────────────────────────────────────────────────

// ModalScopeConfig holds the modal-scope composition / review threshold.
type ModalScopeConfig struct {
	ReviewConfidenceThreshold float64 `mapstructure:"review_confidence_threshold"`
}

// AmbiguityConfig holds the ambiguity-flagging gap threshold shared by
// scope analysis and pronoun-chain resolution.
type AmbiguityConfig struct {
	GapThreshold float64 `mapstructure:"gap_threshold"`
}

// PronounChainConfig holds pronoun-antecedent distance-decay tunables.
type PronounChainConfig struct {
	DistanceDecay float64 `mapstructure:"distance_decay"`
	Floor         float64 `mapstructure:"floor"`
}

// ClauseLinkConfig holds clause-linking tunables.
type ClauseLinkConfig struct {
	CrossLineEnabled bool `mapstructure:"cross_line_enabled"`
}

// ActionNormalizationConfig holds conflict-detection action-text
// normalization tunables.
type ActionNormalizationConfig struct {
	StripArticles bool `mapstructure:"strip_articles"`
}

// ConflictConfig holds conflict-detection tunables.
type ConflictConfig struct {
	ActionNormalization ActionNormalizationConfig `mapstructure:"action_normalization"`
}

// ScopeConfig holds scope-boundary tunables.
type ScopeConfig struct {
	DefaultDomainBoundary string `mapstructure:"default_domain_boundary"`
}

// PipelineConfig names the resolver stages a run should execute, modeled
// on the spec-runner's PipelineConfig{resolvers: []string} shape.
// Resolvers is loaded and carried but not read by the pipeline:
// pipeline.Analyze runs its fixed stage sequence whatever the list holds.
type PipelineConfig struct {
	Resolvers         []string `mapstructure:"resolvers"`
	ParallelPerLine   bool     `mapstructure:"parallel_per_line"`
	UseDeixisFallback bool     `mapstructure:"use_deixis_fallback"`

	ModalScope   ModalScopeConfig   `mapstructure:"modal_scope"`
	Ambiguity    AmbiguityConfig    `mapstructure:"ambiguity"`
	PronounChain PronounChainConfig `mapstructure:"pronoun_chain"`
	ClauseLink   ClauseLinkConfig   `mapstructure:"clause_link"`
	Conflict     ConflictConfig     `mapstructure:"conflict"`
	Scope        ScopeConfig        `mapstructure:"scope"`
}

// ToPipelineConfig builds the pipeline.Config the core's Analyze
// function consumes. internal/pipeline never imports internal/config —
// this is the one-directional adapter from loaded configuration to the
// core's own tunable shape.
func (p PipelineConfig) ToPipelineConfig() pipeline.Config {
	cfg := pipeline.DefaultConfig()
	cfg.ModalScope.ReviewConfidenceThreshold = p.ModalScope.ReviewConfidenceThreshold
	cfg.Ambiguity.GapThreshold = p.Ambiguity.GapThreshold
	cfg.PronounChain.DistanceDecay = p.PronounChain.DistanceDecay
	cfg.PronounChain.Floor = p.PronounChain.Floor
	cfg.ClauseLink.CrossLineEnabled = p.ClauseLink.CrossLineEnabled
	cfg.Conflict.ActionNormalization.StripArticles = p.Conflict.ActionNormalization.StripArticles
	cfg.Scope.DefaultDomainBoundary = p.Scope.DefaultDomainBoundary
	cfg.ParallelPerLine = p.ParallelPerLine
	cfg.UseDeixisFallback = p.UseDeixisFallback
	return cfg
}

// ─────────────────────────────────────────────────────────────────────────────
// Collaborator sub-configuration structs (SPEC_FULL.md §3)
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds the CLI's HTTP healthcheck/metrics server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// AuditStoreConfig holds PostgreSQL connection parameters for
// internal/auditstore's analysis-run ledger.
type AuditStoreConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int           `mapstructure:"max_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationPath   string        `mapstructure:"migration_path"`
}

// GraphStoreConfig holds Neo4j connection parameters for
// internal/graphstore's clause-link/conflict export.
type GraphStoreConfig struct {
	URI                   string        `mapstructure:"uri"`
	User                  string        `mapstructure:"user"`
	Password              string        `mapstructure:"password"`
	MaxConnectionPoolSize int           `mapstructure:"max_connection_pool_size"`
	ConnectionTimeout     time.Duration `mapstructure:"connection_timeout"`
	Database              string        `mapstructure:"database"`
}

// CacheConfig holds Redis connection parameters for internal/cache's
// document-hash resolver memoization.
type CacheConfig struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	DefaultTTL   time.Duration `mapstructure:"default_ttl"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// EventBusConfig holds Kafka producer/consumer parameters for
// internal/eventbus's ObligationExtracted/ConflictDetected events.
type EventBusConfig struct {
	Brokers           []string `mapstructure:"brokers"`
	GroupID           string   `mapstructure:"group_id"`
	TimeoutMS         int      `mapstructure:"timeout_ms"`
	ProducerRetries   int      `mapstructure:"producer_retries"`
	AutoCreateTopics  bool     `mapstructure:"auto_create_topics"`
	ReplicationFactor int      `mapstructure:"replication_factor"`
	NumPartitions     int      `mapstructure:"num_partitions"`
}

// SearchIndexConfig holds OpenSearch connection parameters for
// internal/searchindex's obligation/clause free-text index.
type SearchIndexConfig struct {
	Addresses          []string `mapstructure:"addresses"`
	User               string   `mapstructure:"user"`
	Password           string   `mapstructure:"password"`
	InsecureSkipVerify bool     `mapstructure:"insecure_skip_verify"`
	BulkBatchSize      int      `mapstructure:"bulk_batch_size"`
	IndexPrefix        string   `mapstructure:"index_prefix"`
}

// VectorStoreConfig holds Milvus connection parameters for
// internal/vectorstore's frame-vector nearest-neighbor search.
type VectorStoreConfig struct {
	Addr             string `mapstructure:"addr"`
	DBName           string `mapstructure:"db_name"`
	EmbeddingDim     int    `mapstructure:"embedding_dim"`
	IndexType        string `mapstructure:"index_type"`
	DefaultTopK      int    `mapstructure:"default_top_k"`
	CollectionPrefix string `mapstructure:"collection_prefix"`
}

// DocArchiveConfig holds MinIO connection parameters for
// internal/docarchive's raw-text / snapshot archival.
type DocArchiveConfig struct {
	Endpoint      string        `mapstructure:"endpoint"`
	AccessKey     string        `mapstructure:"access_key"`
	SecretKey     string        `mapstructure:"secret_key"`
	Bucket        string        `mapstructure:"bucket"`
	UseSSL        bool          `mapstructure:"use_ssl"`
	PresignExpiry time.Duration `mapstructure:"presign_expiry"`
}

// WorkerConfig holds batch-analysis worker pool parameters for the CLI.
type WorkerConfig struct {
	Concurrency       int           `mapstructure:"concurrency"`
	QueueDepth        int           `mapstructure:"queue_depth"`
	MaxRetries        int           `mapstructure:"max_retries"`
	RetryBackoffMS    time.Duration `mapstructure:"retry_backoff_ms"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level            string `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format           string `mapstructure:"format"` // "json" | "text"
	Output           string `mapstructure:"output"`
	EnableCaller     bool   `mapstructure:"enable_caller"`
	EnableStacktrace bool   `mapstructure:"enable_stacktrace"`
}

// MetricsConfig holds Prometheus exposition parameters.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
	Port    int    `mapstructure:"port"`
}

// WatchConfig holds the CLI `watch` subcommand's fsnotify tunables.
type WatchConfig struct {
	Dir            string        `mapstructure:"dir"`
	Pattern        string        `mapstructure:"pattern"`
	DebounceWindow time.Duration `mapstructure:"debounce_window"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure for the analyzer CLI and
// its collaborators. The core (internal/pipeline) never reads this
// struct directly — the CLI converts PipelineConfig to pipeline.Config
// via ToPipelineConfig before calling pipeline.Analyze.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Pipeline    PipelineConfig    `mapstructure:"pipeline"`
	AuditStore  AuditStoreConfig  `mapstructure:"audit_store"`
	GraphStore  GraphStoreConfig  `mapstructure:"graph_store"`
	Cache       CacheConfig       `mapstructure:"cache"`
	EventBus    EventBusConfig    `mapstructure:"event_bus"`
	SearchIndex SearchIndexConfig `mapstructure:"search_index"`
	VectorStore VectorStoreConfig `mapstructure:"vector_store"`
	DocArchive  DocArchiveConfig  `mapstructure:"doc_archive"`
	Worker      WorkerConfig      `mapstructure:"worker"`
	Log         LogConfig         `mapstructure:"log"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
	Watch       WatchConfig       `mapstructure:"watch"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered; callers should treat any
// error as fatal and refuse to start the application.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}

	if c.Pipeline.ModalScope.ReviewConfidenceThreshold < 0 || c.Pipeline.ModalScope.ReviewConfidenceThreshold > 1 {
		return fmt.Errorf("config: pipeline.modal_scope.review_confidence_threshold %v must be in [0, 1]", c.Pipeline.ModalScope.ReviewConfidenceThreshold)
	}
	if c.Pipeline.Ambiguity.GapThreshold < 0 || c.Pipeline.Ambiguity.GapThreshold > 1 {
		return fmt.Errorf("config: pipeline.ambiguity.gap_threshold %v must be in [0, 1]", c.Pipeline.Ambiguity.GapThreshold)
	}
	if c.Pipeline.PronounChain.DistanceDecay <= 0 || c.Pipeline.PronounChain.DistanceDecay > 1 {
		return fmt.Errorf("config: pipeline.pronoun_chain.distance_decay %v must be in (0, 1]", c.Pipeline.PronounChain.DistanceDecay)
	}
	if c.Pipeline.PronounChain.Floor < 0 || c.Pipeline.PronounChain.Floor > 1 {
		return fmt.Errorf("config: pipeline.pronoun_chain.floor %v must be in [0, 1]", c.Pipeline.PronounChain.Floor)
	}
	switch c.Pipeline.Scope.DefaultDomainBoundary {
	case "clause", "sentence":
	default:
		return fmt.Errorf("config: pipeline.scope.default_domain_boundary %q is invalid; expected clause|sentence", c.Pipeline.Scope.DefaultDomainBoundary)
	}

	if c.AuditStore.Host == "" {
		return fmt.Errorf("config: audit_store.host is required")
	}
	if c.AuditStore.Port < 1 || c.AuditStore.Port > 65535 {
		return fmt.Errorf("config: audit_store.port %d is out of range [1, 65535]", c.AuditStore.Port)
	}
	if c.AuditStore.DBName == "" {
		return fmt.Errorf("config: audit_store.db_name is required")
	}
	if c.AuditStore.MaxConns < 1 {
		return fmt.Errorf("config: audit_store.max_conns must be ≥ 1, got %d", c.AuditStore.MaxConns)
	}

	if c.Cache.Addr == "" {
		return fmt.Errorf("config: cache.addr is required")
	}
	if c.Cache.DB < 0 {
		return fmt.Errorf("config: cache.db must be ≥ 0, got %d", c.Cache.DB)
	}

	if len(c.EventBus.Brokers) == 0 {
		return fmt.Errorf("config: event_bus.brokers must contain at least one broker address")
	}
	if c.EventBus.GroupID == "" {
		return fmt.Errorf("config: event_bus.group_id is required")
	}

	if c.VectorStore.Addr == "" {
		return fmt.Errorf("config: vector_store.addr is required")
	}

	if c.Worker.Concurrency < 1 {
		return fmt.Errorf("config: worker.concurrency must be ≥ 1, got %d", c.Worker.Concurrency)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|text", c.Log.Format)
	}

	return nil
}
