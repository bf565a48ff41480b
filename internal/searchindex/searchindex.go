// Package searchindex indexes extracted obligations and clauses into
// OpenSearch so a reviewer can run free-text and filtered queries
// ("all Duty obligations mentioning 'rent' flagged needs_review")
// across a whole corpus, something the core's single-document find_*
// surface cannot do. It is an out-of-core collaborator: internal/pipeline
// never imports it.
package searchindex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/opensearch-project/opensearch-go/v3"
	"github.com/opensearch-project/opensearch-go/v3/opensearchapi"

	"github.com/turtacn/layeredcontracts/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/layeredcontracts/pkg/errors"
)

const obligationIndexSuffix = "obligations"
const clauseIndexSuffix = "clauses"

// Config holds OpenSearch connection parameters.
type Config struct {
	Addresses          []string
	User               string
	Password           string
	InsecureSkipVerify bool
	BulkBatchSize      int
	IndexPrefix        string
}

// ObligationDoc is one indexed obligation phrase.
type ObligationDoc struct {
	DocumentID   string  `json:"documentId"`
	Span         string  `json:"span"`
	Obligor      string  `json:"obligor"`
	Type         string  `json:"type"`
	Text         string  `json:"text"`
	Confidence   float64 `json:"confidence"`
	NeedsReview  bool    `json:"needsReview"`
}

// ClauseDoc is one indexed clause segment.
type ClauseDoc struct {
	DocumentID string `json:"documentId"`
	Span       string `json:"span"`
	Kind       string `json:"kind"`
	Text       string `json:"text"`
}

// Index wraps an OpenSearch client scoped to the obligation/clause
// indices.
type Index struct {
	client  *opensearch.Client
	prefix  string
	logger  logging.Logger
	healthy atomic.Bool
}

// New connects to OpenSearch and pings the cluster.
func New(cfg Config, logger logging.Logger) (*Index, error) {
	if len(cfg.Addresses) == 0 {
		return nil, errors.New(errors.CodeInvalidParam, "searchindex: at least one address is required")
	}

	osCfg := opensearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.User,
		Password:  cfg.Password,
	}
	client, err := opensearch.NewClient(osCfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeSearchError, "searchindex: failed to create client")
	}

	idx := &Index{client: client, prefix: cfg.IndexPrefix, logger: logger}

	resp, err := client.Ping(context.Background(), opensearchapi.PingReq{})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeSearchError, "searchindex: ping failed")
	}
	if resp.IsError() {
		return nil, errors.New(errors.CodeSearchError, "searchindex: ping returned error status")
	}
	idx.healthy.Store(true)

	return idx, nil
}

// IsHealthy reports whether the last connectivity check succeeded.
func (i *Index) IsHealthy() bool {
	return i.healthy.Load()
}

func (i *Index) obligationIndex() string {
	return i.prefix + obligationIndexSuffix
}

func (i *Index) clauseIndex() string {
	return i.prefix + clauseIndexSuffix
}

// IndexObligation upserts a single obligation document, keyed by
// documentId+span so a re-analysis of the same document overwrites its
// prior entries rather than duplicating them.
func (i *Index) IndexObligation(ctx context.Context, doc ObligationDoc) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, errors.CodeSearchError, "searchindex: failed to encode obligation")
	}
	id := doc.DocumentID + ":" + doc.Span
	req := opensearchapi.IndexReq{
		Index:      i.obligationIndex(),
		DocumentID: id,
		Body:       bytes.NewReader(body),
	}
	if _, err := i.client.Index(ctx, req); err != nil {
		return errors.Wrap(err, errors.CodeSearchError, "searchindex: failed to index obligation")
	}
	return nil
}

// IndexClause upserts a single clause document.
func (i *Index) IndexClause(ctx context.Context, doc ClauseDoc) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, errors.CodeSearchError, "searchindex: failed to encode clause")
	}
	id := doc.DocumentID + ":" + doc.Span
	req := opensearchapi.IndexReq{
		Index:      i.clauseIndex(),
		DocumentID: id,
		Body:       bytes.NewReader(body),
	}
	if _, err := i.client.Index(ctx, req); err != nil {
		return errors.Wrap(err, errors.CodeSearchError, "searchindex: failed to index clause")
	}
	return nil
}

// SearchObligations runs a free-text query against obligation text,
// optionally filtered to a single ObligationType and/or needs-review
// status.
func (i *Index) SearchObligations(ctx context.Context, query string, obligationType string, needsReviewOnly bool) ([]ObligationDoc, error) {
	must := []map[string]any{
		{"match": map[string]any{"text": query}},
	}
	if obligationType != "" {
		must = append(must, map[string]any{"term": map[string]any{"type": obligationType}})
	}
	if needsReviewOnly {
		must = append(must, map[string]any{"term": map[string]any{"needsReview": true}})
	}

	searchBody := map[string]any{
		"query": map[string]any{"bool": map[string]any{"must": must}},
	}
	body, err := json.Marshal(searchBody)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeSearchError, "searchindex: failed to encode search query")
	}

	resp, err := i.client.Search(ctx, &opensearchapi.SearchReq{
		Indices: []string{i.obligationIndex()},
		Body:    bytes.NewReader(body),
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeSearchError, "searchindex: obligation search failed")
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source ObligationDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(resp.Inspect().Response.Body).Decode(&parsed); err != nil {
		return nil, errors.Wrap(err, errors.CodeSearchError, "searchindex: failed to decode search response")
	}

	results := make([]ObligationDoc, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		results = append(results, h.Source)
	}
	return results, nil
}

// EnsureIndices creates the obligation and clause indices if they do
// not already exist. Safe to call on every startup.
func (i *Index) EnsureIndices(ctx context.Context) error {
	for _, name := range []string{i.obligationIndex(), i.clauseIndex()} {
		existsResp, err := i.client.Indices.Exists(ctx, opensearchapi.IndicesExistsReq{Indices: []string{name}})
		if err == nil && existsResp.StatusCode == 200 {
			continue
		}
		if _, err := i.client.Indices.Create(ctx, opensearchapi.IndicesCreateReq{Index: name}); err != nil {
			if !strings.Contains(err.Error(), "resource_already_exists_exception") {
				return errors.Wrap(err, errors.CodeSearchError, fmt.Sprintf("searchindex: failed to create index %s", name))
			}
		}
	}
	return nil
}
