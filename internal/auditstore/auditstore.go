// Package auditstore keeps a durable ledger of analysis runs in
// Postgres: one row per run naming the document hash, the resolver
// configuration fingerprint that produced it, and summary counts, so
// "did this document's obligations change since the last run over
// this config" can be answered without re-running the pipeline. It is
// an ambient durability collaborator: internal/pipeline never imports
// it.
package auditstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/turtacn/layeredcontracts/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/layeredcontracts/pkg/errors"
)

const (
	maxConnectRetries = 5
	initialRetryDelay = 1 * time.Second
)

// Config holds Postgres connection parameters.
type Config struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	ConnMaxLifetime time.Duration
	MigrationPath   string
}

// Store wraps a pgx connection pool scoped to the analysis-run ledger.
type Store struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// RunRecord is one row of the analysis_runs ledger.
type RunRecord struct {
	ID                string
	DocumentID        string
	DocumentHash      string
	ConfigFingerprint string
	ObligationCount   int
	ConflictCount     int
	ClauseCount       int
	DurationMS        int64
	RanAt             time.Time
}

// New opens a connection pool with exponential-backoff retry, matching
// the fail-fast-after-retry convention the rest of the collaborator
// stack follows, then runs pending migrations if MigrationPath is set.
func New(ctx context.Context, cfg Config, logger logging.Logger) (*Store, error) {
	connString := buildConnString(cfg)

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "auditstore: failed to parse connection string")
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.ConnMaxLifetime
	}

	var pool *pgxpool.Pool
	delay := initialRetryDelay
	for attempt := 1; attempt <= maxConnectRetries; attempt++ {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		pool, err = pgxpool.NewWithConfig(connectCtx, poolConfig)
		cancel()

		if err == nil {
			pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
			err = pool.Ping(pingCtx)
			pingCancel()
			if err == nil {
				break
			}
			pool.Close()
		}

		logger.Warn("auditstore connection attempt failed", logging.Int("attempt", attempt), logging.Err(err))
		if attempt == maxConnectRetries {
			return nil, apperrors.Wrap(err, apperrors.CodeDBConnectionError, "auditstore: failed to connect after retries")
		}
		time.Sleep(delay)
		delay *= 2
	}

	s := &Store{pool: pool, logger: logger}

	if cfg.MigrationPath != "" {
		if err := s.migrate(connString, cfg.MigrationPath); err != nil {
			pool.Close()
			return nil, err
		}
	}

	logger.Info("auditstore connected", logging.String("host", cfg.Host), logging.String("db", cfg.DBName))
	return s, nil
}

func (s *Store) migrate(dbURL, migrationsPath string) error {
	m, err := migrate.New(migrationsPath, dbURL)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "auditstore: failed to create migrator")
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "auditstore: migration failed")
	}
	return nil
}

func buildConnString(cfg Config) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName, cfg.SSLMode)
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// RecordRun inserts one row into the analysis_runs ledger.
func (s *Store) RecordRun(ctx context.Context, r RunRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO analysis_runs
			(id, document_id, document_hash, config_fingerprint, obligation_count, conflict_count, clause_count, duration_ms, ran_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, r.ID, r.DocumentID, r.DocumentHash, r.ConfigFingerprint, r.ObligationCount, r.ConflictCount, r.ClauseCount, r.DurationMS, r.RanAt)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeDBQueryError, "auditstore: failed to record run")
	}
	return nil
}

// LatestRun returns the most recent run recorded for a document under
// a given config fingerprint, or false if none exists — the signal
// internal/cache's memoization layer is too coarse to give: auditstore
// keeps the full history, cache keeps only the most recent snapshot.
func (s *Store) LatestRun(ctx context.Context, documentID, configFingerprint string) (RunRecord, bool, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, document_id, document_hash, config_fingerprint, obligation_count, conflict_count, clause_count, duration_ms, ran_at
		FROM analysis_runs
		WHERE document_id = $1 AND config_fingerprint = $2
		ORDER BY ran_at DESC
		LIMIT 1
	`, documentID, configFingerprint)

	var r RunRecord
	err := row.Scan(&r.ID, &r.DocumentID, &r.DocumentHash, &r.ConfigFingerprint,
		&r.ObligationCount, &r.ConflictCount, &r.ClauseCount, &r.DurationMS, &r.RanAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return RunRecord{}, false, nil
		}
		return RunRecord{}, false, apperrors.Wrap(err, apperrors.CodeDBQueryError, "auditstore: failed to query latest run")
	}
	return r, true, nil
}
