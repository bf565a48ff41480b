// Package vectorstore stores bag-of-words vectors for semantic frames
// (internal/semantics.Frame) in Milvus and answers nearest-neighbor
// queries, so "find obligations whose action is semantically close to
// 'deliver the goods'" can run across a corpus instead of requiring an
// exact normalized-text match. It is an out-of-core collaborator:
// internal/semantics never imports it.
package vectorstore

import (
	"context"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"github.com/turtacn/layeredcontracts/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/layeredcontracts/pkg/errors"
)

const (
	fieldDocumentID = "document_id"
	fieldSpan       = "span"
	fieldVerb       = "verb"
	fieldVector     = "vector"
)

// Config holds Milvus connection parameters.
type Config struct {
	Addr             string
	DBName           string
	EmbeddingDim     int
	IndexType        string
	DefaultTopK      int
	CollectionPrefix string
}

// FrameVector is one semantic frame's bag-of-words vector, scoped to
// the document and span it was built from.
type FrameVector struct {
	DocumentID string
	Span       string
	Verb       string
	Vector     []float32
}

// Neighbor is one nearest-neighbor search result.
type Neighbor struct {
	FrameVector
	Distance float32
}

// Store wraps a Milvus client scoped to a single frame-vector
// collection.
type Store struct {
	mc         client.Client
	collection string
	dim        int
	indexType  string
	topK       int
	logger     logging.Logger
}

// New connects to Milvus and ensures the frame-vector collection
// exists with the configured embedding dimension.
func New(ctx context.Context, cfg Config, logger logging.Logger) (*Store, error) {
	if cfg.Addr == "" {
		return nil, errors.New(errors.CodeInvalidParam, "vectorstore: address is required")
	}
	if cfg.EmbeddingDim <= 0 {
		return nil, errors.New(errors.CodeInvalidParam, "vectorstore: embedding dimension must be positive")
	}

	mc, err := client.NewClient(ctx, client.Config{Address: cfg.Addr, DBName: cfg.DBName})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeSearchError, "vectorstore: failed to connect")
	}

	collection := cfg.CollectionPrefix + "frame_vectors"
	topK := cfg.DefaultTopK
	if topK <= 0 {
		topK = 10
	}
	indexType := cfg.IndexType
	if indexType == "" {
		indexType = "IVF_FLAT"
	}

	s := &Store{mc: mc, collection: collection, dim: cfg.EmbeddingDim, indexType: indexType, topK: topK, logger: logger}

	if err := s.ensureCollection(ctx); err != nil {
		mc.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) ensureCollection(ctx context.Context) error {
	exists, err := s.mc.HasCollection(ctx, s.collection)
	if err != nil {
		return errors.Wrap(err, errors.CodeSearchError, "vectorstore: failed to check collection existence")
	}
	if exists {
		return nil
	}

	schema := entity.NewSchema().WithName(s.collection).WithDescription("semantic frame bag-of-words vectors").
		WithField(entity.NewField().WithName(fieldDocumentID).WithDataType(entity.FieldTypeVarChar).WithMaxLength(256)).
		WithField(entity.NewField().WithName(fieldSpan).WithDataType(entity.FieldTypeVarChar).WithMaxLength(64).WithIsPrimaryKey(true)).
		WithField(entity.NewField().WithName(fieldVerb).WithDataType(entity.FieldTypeVarChar).WithMaxLength(128)).
		WithField(entity.NewField().WithName(fieldVector).WithDataType(entity.FieldTypeFloatVector).WithDim(int64(s.dim)))

	if err := s.mc.CreateCollection(ctx, schema, 1); err != nil {
		return errors.Wrap(err, errors.CodeSearchError, "vectorstore: failed to create collection")
	}

	idx, err := entity.NewIndexIvfFlat(entity.L2, 128)
	if err != nil {
		return errors.Wrap(err, errors.CodeSearchError, "vectorstore: failed to build index spec")
	}
	if err := s.mc.CreateIndex(ctx, s.collection, fieldVector, idx, false); err != nil {
		return errors.Wrap(err, errors.CodeSearchError, "vectorstore: failed to create index")
	}
	return nil
}

// Upsert stores a frame's vector, replacing any prior vector for the
// same span.
func (s *Store) Upsert(ctx context.Context, fv FrameVector) error {
	if len(fv.Vector) != s.dim {
		return errors.New(errors.CodeInvalidParam, "vectorstore: vector dimension mismatch")
	}

	docIDs := entity.NewColumnVarChar(fieldDocumentID, []string{fv.DocumentID})
	spans := entity.NewColumnVarChar(fieldSpan, []string{fv.Span})
	verbs := entity.NewColumnVarChar(fieldVerb, []string{fv.Verb})
	vectors := entity.NewColumnFloatVector(fieldVector, s.dim, [][]float32{fv.Vector})

	if _, err := s.mc.Upsert(ctx, s.collection, "", docIDs, spans, verbs, vectors); err != nil {
		return errors.Wrap(err, errors.CodeSearchError, "vectorstore: upsert failed")
	}
	return nil
}

// LoadCollection makes the collection searchable; Milvus requires an
// explicit load after writes before a Search call will see them.
func (s *Store) LoadCollection(ctx context.Context) error {
	if err := s.mc.LoadCollection(ctx, s.collection, false); err != nil {
		return errors.Wrap(err, errors.CodeSearchError, "vectorstore: load collection failed")
	}
	return nil
}

// SearchNearest returns the topK frame vectors closest to query under
// L2 distance.
func (s *Store) SearchNearest(ctx context.Context, query []float32, topK int) ([]Neighbor, error) {
	if len(query) != s.dim {
		return nil, errors.New(errors.CodeInvalidParam, "vectorstore: query dimension mismatch")
	}
	if topK <= 0 {
		topK = s.topK
	}

	sp, err := entity.NewIndexIvfFlatSearchParam(16)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeSearchError, "vectorstore: failed to build search params")
	}

	vectors := []entity.Vector{entity.FloatVector(query)}
	results, err := s.mc.Search(ctx, s.collection, nil, "", []string{fieldDocumentID, fieldSpan, fieldVerb}, vectors, fieldVector,
		entity.L2, topK, sp)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeSearchError, "vectorstore: search failed")
	}

	var neighbors []Neighbor
	for _, r := range results {
		docIDCol := r.Fields.GetColumn(fieldDocumentID)
		spanCol := r.Fields.GetColumn(fieldSpan)
		verbCol := r.Fields.GetColumn(fieldVerb)
		for i := 0; i < r.ResultCount; i++ {
			docID, _ := docIDCol.GetAsString(i)
			span, _ := spanCol.GetAsString(i)
			verb, _ := verbCol.GetAsString(i)
			neighbors = append(neighbors, Neighbor{
				FrameVector: FrameVector{DocumentID: docID, Span: span, Verb: verb},
				Distance:    r.Scores[i],
			})
		}
	}
	return neighbors, nil
}

// Close releases the underlying Milvus connection.
func (s *Store) Close() error {
	return s.mc.Close()
}

// BagOfWords builds a fixed-dimension bag-of-words vector for tokens
// against a stable vocabulary. A token outside vocabulary is ignored,
// matching the closed-vocabulary assumption the rest of the core's
// keyword resolvers already make.
func BagOfWords(tokens []string, vocabulary []string, dim int) []float32 {
	index := make(map[string]int, len(vocabulary))
	for i, w := range vocabulary {
		if i >= dim {
			break
		}
		index[w] = i
	}

	vec := make([]float32, dim)
	for _, t := range tokens {
		if i, ok := index[t]; ok {
			vec[i]++
		}
	}
	return vec
}
