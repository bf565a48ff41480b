package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerPort = 8080
	DefaultServerMode = "debug"

	DefaultAuditStoreHost     = "localhost"
	DefaultAuditStorePort     = 5432
	DefaultAuditStoreDBName   = "layeredcontracts"
	DefaultAuditStoreMaxConns = 10

	DefaultCacheAddr = "localhost:6379"
	DefaultCacheDB   = 0

	DefaultEventBusBroker  = "localhost:9092"
	DefaultEventBusGroupID = "layeredcontracts"

	DefaultVectorStoreAddr = "localhost:19530"

	DefaultDocArchiveEndpoint = "localhost:9000"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultWorkerConcurrency = 4

	DefaultModalScopeReviewConfidenceThreshold = 0.6
	DefaultAmbiguityGapThreshold               = 0.15
	DefaultPronounChainDistanceDecay           = 0.98
	DefaultPronounChainFloor                   = 0.3
	DefaultScopeDomainBoundary                 = "clause"
)

// ApplyDefaults fills every zero-value field in cfg with the platform
// default. Fields already set by the caller (non-zero values) are left
// unchanged so that explicit configuration always wins. It must be
// called after unmarshalling raw config data and before Validate() so
// that optional-but-defaulted fields are never seen as missing.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}

	// ── Pipeline ──────────────────────────────────────────────────────
	if cfg.Pipeline.ModalScope.ReviewConfidenceThreshold == 0 {
		cfg.Pipeline.ModalScope.ReviewConfidenceThreshold = DefaultModalScopeReviewConfidenceThreshold
	}
	if cfg.Pipeline.Ambiguity.GapThreshold == 0 {
		cfg.Pipeline.Ambiguity.GapThreshold = DefaultAmbiguityGapThreshold
	}
	if cfg.Pipeline.PronounChain.DistanceDecay == 0 {
		cfg.Pipeline.PronounChain.DistanceDecay = DefaultPronounChainDistanceDecay
	}
	if cfg.Pipeline.PronounChain.Floor == 0 {
		cfg.Pipeline.PronounChain.Floor = DefaultPronounChainFloor
	}
	if cfg.Pipeline.Scope.DefaultDomainBoundary == "" {
		cfg.Pipeline.Scope.DefaultDomainBoundary = DefaultScopeDomainBoundary
	}
	// ClauseLink.CrossLineEnabled defaults to false through its zero value,
	// matching clauses.DefaultClauseLinkConfig. StripArticles defaults to
	// true, matching conflicts.DefaultNormalizationConfig, so it needs an
	// explicit push; a false value is always replaced with true here.
	if !cfg.Pipeline.Conflict.ActionNormalization.StripArticles {
		cfg.Pipeline.Conflict.ActionNormalization.StripArticles = true
	}

	// ── AuditStore ────────────────────────────────────────────────────
	if cfg.AuditStore.Host == "" {
		cfg.AuditStore.Host = DefaultAuditStoreHost
	}
	if cfg.AuditStore.Port == 0 {
		cfg.AuditStore.Port = DefaultAuditStorePort
	}
	if cfg.AuditStore.DBName == "" {
		cfg.AuditStore.DBName = DefaultAuditStoreDBName
	}
	if cfg.AuditStore.MaxConns == 0 {
		cfg.AuditStore.MaxConns = DefaultAuditStoreMaxConns
	}
	if cfg.AuditStore.SSLMode == "" {
		cfg.AuditStore.SSLMode = "disable"
	}

	// ── Cache ─────────────────────────────────────────────────────────
	if cfg.Cache.Addr == "" {
		cfg.Cache.Addr = DefaultCacheAddr
	}
	if cfg.Cache.DefaultTTL == 0 {
		cfg.Cache.DefaultTTL = time.Hour
	}

	// ── EventBus ──────────────────────────────────────────────────────
	if len(cfg.EventBus.Brokers) == 0 {
		cfg.EventBus.Brokers = []string{DefaultEventBusBroker}
	}
	if cfg.EventBus.GroupID == "" {
		cfg.EventBus.GroupID = DefaultEventBusGroupID
	}

	// ── VectorStore ───────────────────────────────────────────────────
	if cfg.VectorStore.Addr == "" {
		cfg.VectorStore.Addr = DefaultVectorStoreAddr
	}
	if cfg.VectorStore.EmbeddingDim == 0 {
		cfg.VectorStore.EmbeddingDim = 64
	}
	if cfg.VectorStore.DefaultTopK == 0 {
		cfg.VectorStore.DefaultTopK = 10
	}

	// ── DocArchive ────────────────────────────────────────────────────
	if cfg.DocArchive.Endpoint == "" {
		cfg.DocArchive.Endpoint = DefaultDocArchiveEndpoint
	}

	// ── Worker ────────────────────────────────────────────────────────
	if cfg.Worker.Concurrency == 0 {
		cfg.Worker.Concurrency = DefaultWorkerConcurrency
	}
	if cfg.Worker.MaxRetries == 0 {
		cfg.Worker.MaxRetries = 3
	}

	// ── Log ───────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	// ── Metrics ───────────────────────────────────────────────────────
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}

	// ── Watch ─────────────────────────────────────────────────────────
	if cfg.Watch.Pattern == "" {
		cfg.Watch.Pattern = "*.txt"
	}
	if cfg.Watch.DebounceWindow == 0 {
		cfg.Watch.DebounceWindow = 500 * time.Millisecond
	}
}
