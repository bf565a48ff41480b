// Package graphstore exports the core's clause-link and conflict-link
// attributes, plus the accountability graph internal/parties builds, as
// a Neo4j property graph. Clause links and conflicts are natively
// graph-shaped relations ("which clause does this exception modify",
// "which obligation conflicts with which"), so a graph database is the
// natural external query surface for traversals the core's in-memory
// find_* surface was never meant to serve (spec.md §6 scopes find_*
// to single-document span queries). This is an out-of-core
// collaborator: internal/pipeline never imports it.
package graphstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/turtacn/layeredcontracts/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/layeredcontracts/internal/parties"
	"github.com/turtacn/layeredcontracts/internal/pipeline"
	"github.com/turtacn/layeredcontracts/internal/scopeops"
	"github.com/turtacn/layeredcontracts/internal/substrate"
	"github.com/turtacn/layeredcontracts/pkg/errors"
)

// Config holds Neo4j connection parameters.
type Config struct {
	URI                   string
	User                  string
	Password              string
	Database              string
	MaxConnectionPoolSize int
	ConnectionTimeout     time.Duration
}

// Store wraps a Neo4j driver scoped to the analyzer's clause/conflict
// graph.
type Store struct {
	driver   neo4j.DriverWithContext
	database string
	logger   logging.Logger
}

// New opens a Neo4j driver and verifies connectivity.
func New(cfg Config, logger logging.Logger) (*Store, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.User, cfg.Password, ""),
		func(c *neo4j.Config) {
			if cfg.MaxConnectionPoolSize > 0 {
				c.MaxConnectionPoolSize = cfg.MaxConnectionPoolSize
			}
			if cfg.ConnectionTimeout > 0 {
				c.ConnectionAcquisitionTimeout = cfg.ConnectionTimeout
			}
		})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDBConnectionError, "graphstore: failed to create driver")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, errors.Wrap(err, errors.CodeDBConnectionError, "graphstore: connectivity check failed")
	}

	logger.Info("graphstore connected", logging.String("uri", cfg.URI))
	return &Store{driver: driver, database: cfg.Database, logger: logger}, nil
}

// Close releases the Neo4j driver.
func (s *Store) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

// ExportClauseLinks writes every clauses.AttributeClauseLink edge on doc
// as a (:Clause)-[:CLAUSE_LINK {role}]->(:Clause) relationship, the
// role property carrying the link's ClauseRole, keyed by documentID so
// repeated runs over revisions of
// the same document stay distinguishable.
func (s *Store) ExportClauseLinks(ctx context.Context, documentID string, doc *substrate.Document, attrType substrate.AttributeType) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.database, AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	links := pipeline.FindAll[scopeops.SpanLink[scopeops.ClauseRole]](doc, attrType)
	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for _, l := range links {
			_, err := tx.Run(ctx, `
				MERGE (from:Clause {documentId: $docId, span: $fromSpan})
				MERGE (to:Clause {documentId: $docId, span: $toSpan})
				MERGE (from)-[r:CLAUSE_LINK {role: $role}]->(to)
			`, map[string]any{
				"docId":    documentID,
				"fromSpan": l.Span.String(),
				"toSpan":   l.Value.Target.String(),
				"role":     string(l.Value.Role),
			})
			if err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return errors.Wrap(err, errors.CodeDBConnectionError, "graphstore: clause link export failed")
	}
	return nil
}

// ExportConflicts writes every conflicts.AttributeConflictLink edge on
// doc as a (:Obligation)-[:CONFLICTS_WITH]->(:Obligation) relationship.
func (s *Store) ExportConflicts(ctx context.Context, documentID string, doc *substrate.Document, attrType substrate.AttributeType) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.database, AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	links := pipeline.FindAll[scopeops.SpanLink[scopeops.ConflictRole]](doc, attrType)
	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for _, l := range links {
			_, err := tx.Run(ctx, `
				MERGE (a:Obligation {documentId: $docId, span: $fromSpan})
				MERGE (b:Obligation {documentId: $docId, span: $toSpan})
				MERGE (a)-[r:CONFLICTS_WITH {side: $side}]->(b)
			`, map[string]any{
				"docId":    documentID,
				"fromSpan": l.Span.String(),
				"toSpan":   l.Value.Target.String(),
				"side":     string(l.Value.Role),
			})
			if err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return errors.Wrap(err, errors.CodeDBConnectionError, "graphstore: conflict export failed")
	}
	return nil
}

// PartySummary is one row of the accountability analytics aggregation:
// how many obligations a party is the obligor of, and how many are
// still flagged for review. This aggregation is the "accountability
// graph analytics" collaborator spec.md §1 calls out as external —
// internal/parties only builds the graph, never rolls it up.
type PartySummary struct {
	Party            string
	ObligationCount  int
	NeedsReviewCount int
}

// ExportAccountabilityGraph writes an AccountabilityGraph's nodes and
// edges, tagging each ObligationNode with one UUID shared by this
// export run. Nodes are merged on document ID and span, so a repeat
// run over the same document updates the same nodes and overwrites
// their runId with the latest run's.
func (s *Store) ExportAccountabilityGraph(ctx context.Context, documentID string, graph parties.AccountabilityGraph) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.database, AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	runID := uuid.NewString()
	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for _, n := range graph.Nodes {
			if _, err := tx.Run(ctx, `
				MERGE (o:Obligation {documentId: $docId, span: $span})
				SET o.obligor = $obligor, o.voice = $voice, o.runId = $runId
			`, map[string]any{
				"docId":   documentID,
				"span":    n.Span.String(),
				"obligor": n.Obligor,
				"voice":   string(n.Voice),
				"runId":   runID,
			}); err != nil {
				return nil, err
			}
		}
		for _, b := range graph.Beneficiary {
			if _, err := tx.Run(ctx, `
				MATCH (o:Obligation {documentId: $docId, span: $span})
				MERGE (p:Party {name: $beneficiary})
				MERGE (o)-[:BENEFITS]->(p)
			`, map[string]any{
				"docId":       documentID,
				"span":        b.ObligationSpan.String(),
				"beneficiary": b.BeneficiaryText,
			}); err != nil {
				return nil, err
			}
		}
		for _, c := range graph.Conditions {
			if _, err := tx.Run(ctx, `
				MATCH (o:Obligation {documentId: $docId, span: $span})
				MERGE (cond:Clause {documentId: $docId, span: $condSpan})
				MERGE (cond)-[:CONDITIONS]->(o)
			`, map[string]any{
				"docId":    documentID,
				"span":     c.ObligationSpan.String(),
				"condSpan": c.ConditionSpan.String(),
			}); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return errors.Wrap(err, errors.CodeDBConnectionError, "graphstore: accountability graph export failed")
	}
	return nil
}

// SummarizeByParty runs the accountability analytics rollup: one row
// per obligor naming how many obligations they owe and how many of
// those carry a true needsReview property. ExportAccountabilityGraph
// does not write needsReview (ObligationNode has no review flag), so
// for nodes exported by this package the flagged count is 0.
func (s *Store) SummarizeByParty(ctx context.Context, documentID string) ([]PartySummary, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.database, AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
			MATCH (o:Obligation {documentId: $docId})
			RETURN o.obligor AS obligor, count(o) AS total, sum(CASE WHEN o.needsReview THEN 1 ELSE 0 END) AS flagged
		`, map[string]any{"docId": documentID})
		if err != nil {
			return nil, err
		}
		var summaries []PartySummary
		for res.Next(ctx) {
			rec := res.Record()
			obligor, _ := rec.Get("obligor")
			total, _ := rec.Get("total")
			flagged, _ := rec.Get("flagged")
			summaries = append(summaries, PartySummary{
				Party:            fmt.Sprintf("%v", obligor),
				ObligationCount:  int(total.(int64)),
				NeedsReviewCount: int(flagged.(int64)),
			})
		}
		return summaries, res.Err()
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDBConnectionError, "graphstore: party summary query failed")
	}
	return result.([]PartySummary), nil
}
