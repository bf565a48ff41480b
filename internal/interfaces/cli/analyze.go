package cli

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/turtacn/layeredcontracts/internal/auditstore"
	"github.com/turtacn/layeredcontracts/internal/cache"
	"github.com/turtacn/layeredcontracts/internal/clauses"
	"github.com/turtacn/layeredcontracts/internal/docarchive"
	"github.com/turtacn/layeredcontracts/internal/eventbus"
	"github.com/turtacn/layeredcontracts/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/layeredcontracts/internal/obligations"
	"github.com/turtacn/layeredcontracts/internal/pipeline"
	"github.com/turtacn/layeredcontracts/internal/scopeops"
	"github.com/turtacn/layeredcontracts/pkg/errors"
)

var (
	analyzeInputPath string
	analyzeUseCache  bool
	analyzeArchive   bool
	analyzeAudit     bool
	analyzePublish   bool
)

// NewAnalyzeCmd creates the `analyze` command: run the resolver
// pipeline over a contract text file and print the resulting snapshot.
// The --cache/--archive/--audit/--publish flags opt into the matching
// collaborator (Redis memoization, MinIO archival, Postgres run
// ledger, Kafka event publication); each is skipped with a warning,
// not a failure, when its section of the config is unset.
func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a contract text file and print its annotation snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd)
		},
	}
	cmd.Flags().StringVarP(&analyzeInputPath, "file", "f", "", "path to the contract text file (required)")
	cmd.Flags().BoolVar(&analyzeUseCache, "cache", false, "memoize results in the configured cache collaborator")
	cmd.Flags().BoolVar(&analyzeArchive, "archive", false, "archive source text and snapshot JSON to the configured doc archive")
	cmd.Flags().BoolVar(&analyzeAudit, "audit", false, "record this run in the configured audit store")
	cmd.Flags().BoolVar(&analyzePublish, "publish", false, "publish ObligationExtracted/ConflictDetected events")
	cmd.MarkFlagRequired("file")
	return cmd
}

func runAnalyze(cmd *cobra.Command) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(analyzeInputPath)
	if err != nil {
		return errors.Wrap(err, errors.CodeLoadFailure, "analyze: failed to read input file")
	}
	text := string(raw)
	documentID := documentHash(text)
	pcfg := cliCtx.Config.Pipeline.ToPipelineConfig()

	start := time.Now()
	entries, fromCache, err := analyzeText(cmd.Context(), cliCtx, text, pcfg)
	if err != nil {
		return errors.Wrap(err, errors.CodeAssertionFailure, "analyze: pipeline run failed")
	}
	duration := time.Since(start)

	cliCtx.Logger.Info("analysis complete",
		logging.String("file", analyzeInputPath),
		logging.Int("entries", len(entries)),
		logging.Bool("from_cache", fromCache))

	if analyzeArchive {
		archiveResults(cmd.Context(), cliCtx, documentID, text, entries)
	}
	if analyzeAudit {
		recordAudit(cmd.Context(), cliCtx, documentID, entries, duration)
	}
	if analyzePublish {
		publishEvents(cmd.Context(), cliCtx, documentID, entries)
	}

	return PrintResult(cmd, entries)
}

// analyzeText runs the pipeline directly, or through internal/cache's
// memoization layer when --cache is set and the cache collaborator is
// configured.
func analyzeText(ctx context.Context, cliCtx *CLIContext, text string, pcfg pipeline.Config) ([]pipeline.SnapshotEntry, bool, error) {
	if !analyzeUseCache || cliCtx.Config.Cache.Addr == "" {
		doc := pipeline.Analyze(text, pcfg)
		return pipeline.Snapshot(doc), false, nil
	}

	c, err := cache.New(cache.Config{
		Addr:       cliCtx.Config.Cache.Addr,
		Password:   cliCtx.Config.Cache.Password,
		DB:         cliCtx.Config.Cache.DB,
		PoolSize:   cliCtx.Config.Cache.PoolSize,
		DefaultTTL: cliCtx.Config.Cache.DefaultTTL,
		KeyPrefix:  cliCtx.Config.Cache.KeyPrefix,
	}, cliCtx.Logger)
	if err != nil {
		cliCtx.Logger.Warn("cache unavailable, analyzing without memoization", logging.Err(err))
		doc := pipeline.Analyze(text, pcfg)
		return pipeline.Snapshot(doc), false, nil
	}
	defer c.Close()

	return c.AnalyzeSnapshot(ctx, text, pcfg)
}

func archiveResults(ctx context.Context, cliCtx *CLIContext, documentID, text string, entries []pipeline.SnapshotEntry) {
	if cliCtx.Config.DocArchive.Endpoint == "" {
		cliCtx.Logger.Warn("--archive set but doc_archive is not configured, skipping")
		return
	}
	a, err := docarchive.New(docarchive.Config{
		Endpoint:      cliCtx.Config.DocArchive.Endpoint,
		AccessKey:     cliCtx.Config.DocArchive.AccessKey,
		SecretKey:     cliCtx.Config.DocArchive.SecretKey,
		Bucket:        cliCtx.Config.DocArchive.Bucket,
		UseSSL:        cliCtx.Config.DocArchive.UseSSL,
		PresignExpiry: cliCtx.Config.DocArchive.PresignExpiry,
	}, cliCtx.Logger)
	if err != nil {
		cliCtx.Logger.Warn("doc archive unavailable, skipping archival", logging.Err(err))
		return
	}

	if err := a.PutSource(ctx, documentID, text); err != nil {
		cliCtx.Logger.Warn("failed to archive source text", logging.Err(err))
	}
	snapshotJSON, err := json.Marshal(entries)
	if err != nil {
		cliCtx.Logger.Warn("failed to encode snapshot for archival", logging.Err(err))
		return
	}
	if err := a.PutSnapshot(ctx, documentID, snapshotJSON); err != nil {
		cliCtx.Logger.Warn("failed to archive snapshot", logging.Err(err))
	}
}

func recordAudit(ctx context.Context, cliCtx *CLIContext, documentID string, entries []pipeline.SnapshotEntry, duration time.Duration) {
	if cliCtx.Config.AuditStore.Host == "" {
		cliCtx.Logger.Warn("--audit set but audit_store is not configured, skipping")
		return
	}
	store, err := auditstore.New(ctx, auditstore.Config{
		Host:            cliCtx.Config.AuditStore.Host,
		Port:            cliCtx.Config.AuditStore.Port,
		User:            cliCtx.Config.AuditStore.User,
		Password:        cliCtx.Config.AuditStore.Password,
		DBName:          cliCtx.Config.AuditStore.DBName,
		SSLMode:         cliCtx.Config.AuditStore.SSLMode,
		MaxConns:        cliCtx.Config.AuditStore.MaxConns,
		ConnMaxLifetime: cliCtx.Config.AuditStore.ConnMaxLifetime,
		MigrationPath:   cliCtx.Config.AuditStore.MigrationPath,
	}, cliCtx.Logger)
	if err != nil {
		cliCtx.Logger.Warn("audit store unavailable, skipping run record", logging.Err(err))
		return
	}
	defer store.Close()

	obligationCount, conflictCount, clauseCount := countByKind(entries)
	record := auditstore.RunRecord{
		ID:                uuid.NewString(),
		DocumentID:        documentID,
		DocumentHash:      documentID,
		ConfigFingerprint: cache.Fingerprint(cliCtx.Config.Pipeline.ToPipelineConfig()),
		ObligationCount:   obligationCount,
		ConflictCount:     conflictCount,
		ClauseCount:       clauseCount,
		DurationMS:        duration.Milliseconds(),
		RanAt:             time.Now(),
	}
	if err := store.RecordRun(ctx, record); err != nil {
		cliCtx.Logger.Warn("failed to record audit run", logging.Err(err))
	}
}

func publishEvents(ctx context.Context, cliCtx *CLIContext, documentID string, entries []pipeline.SnapshotEntry) {
	if len(cliCtx.Config.EventBus.Brokers) == 0 {
		cliCtx.Logger.Warn("--publish set but event_bus is not configured, skipping")
		return
	}
	bus, err := eventbus.New(eventbus.Config{
		Brokers:           cliCtx.Config.EventBus.Brokers,
		ProducerRetries:   cliCtx.Config.EventBus.ProducerRetries,
		TimeoutMS:         cliCtx.Config.EventBus.TimeoutMS,
		AutoCreateTopics:  cliCtx.Config.EventBus.AutoCreateTopics,
		ReplicationFactor: cliCtx.Config.EventBus.ReplicationFactor,
		NumPartitions:     cliCtx.Config.EventBus.NumPartitions,
	}, cliCtx.Logger)
	if err != nil {
		cliCtx.Logger.Warn("event bus unavailable, skipping publication", logging.Err(err))
		return
	}
	defer bus.Close()

	for _, e := range entries {
		switch v := e.Value.(type) {
		case obligations.ObligationPhrase:
			if err := bus.PublishObligationExtracted(ctx, documentID, eventbus.ObligationExtractedPayload{
				Span: e.Span.String(), Obligor: v.Obligor.Text, Type: string(v.Type),
			}); err != nil {
				cliCtx.Logger.Warn("failed to publish obligation event", logging.Err(err))
			}
		case scopeops.SpanLink[scopeops.ConflictRole]:
			if v.Role != scopeops.ConflictSideA {
				continue
			}
			if err := bus.PublishConflictDetected(ctx, documentID, eventbus.ConflictDetectedPayload{
				SpanA: e.Span.String(), SpanB: v.Target.String(),
			}); err != nil {
				cliCtx.Logger.Warn("failed to publish conflict event", logging.Err(err))
			}
		}
	}
}

func countByKind(entries []pipeline.SnapshotEntry) (obligationCount, conflictCount, clauseCount int) {
	for _, e := range entries {
		switch v := e.Value.(type) {
		case obligations.ObligationPhrase:
			obligationCount++
		case clauses.Clause:
			clauseCount++
		case scopeops.SpanLink[scopeops.ConflictRole]:
			if v.Role == scopeops.ConflictSideA {
				conflictCount++
			}
		}
	}
	return
}

// documentHash derives the stable document identity auditstore and
// docarchive key their records on, independent of the file path the
// text happened to be read from.
func documentHash(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}
