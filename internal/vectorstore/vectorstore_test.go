package vectorstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBagOfWordsCountsKnownTokens(t *testing.T) {
	vocab := []string{"pay", "rent", "deliver", "goods"}
	vec := BagOfWords([]string{"pay", "rent", "pay"}, vocab, 4)

	assert.Equal(t, []float32{2, 1, 0, 0}, vec)
}

func TestBagOfWordsIgnoresUnknownTokens(t *testing.T) {
	vocab := []string{"pay", "rent"}
	vec := BagOfWords([]string{"pay", "unknown"}, vocab, 2)

	assert.Equal(t, []float32{1, 0}, vec)
}

func TestBagOfWordsRespectsDimCap(t *testing.T) {
	vocab := []string{"pay", "rent", "deliver"}
	vec := BagOfWords([]string{"deliver"}, vocab, 2)

	assert.Equal(t, []float32{0, 0}, vec)
}

func TestUpsertRejectsDimensionMismatch(t *testing.T) {
	s := &Store{dim: 4}
	err := s.Upsert(nil, FrameVector{Vector: []float32{1, 2}})
	assert.Error(t, err)
}

func TestSearchNearestRejectsDimensionMismatch(t *testing.T) {
	s := &Store{dim: 4}
	_, err := s.SearchNearest(nil, []float32{1, 2}, 5)
	assert.Error(t, err)
}
