package searchindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObligationIndexNameUsesPrefix(t *testing.T) {
	idx := &Index{prefix: "lc-"}
	assert.Equal(t, "lc-obligations", idx.obligationIndex())
}

func TestClauseIndexNameUsesPrefix(t *testing.T) {
	idx := &Index{prefix: "lc-"}
	assert.Equal(t, "lc-clauses", idx.clauseIndex())
}

func TestIndexNamesWithEmptyPrefix(t *testing.T) {
	idx := &Index{}
	assert.Equal(t, "obligations", idx.obligationIndex())
	assert.Equal(t, "clauses", idx.clauseIndex())
}

func TestIsHealthyDefaultsFalse(t *testing.T) {
	idx := &Index{}
	assert.False(t, idx.IsHealthy())
}

func TestNewRejectsEmptyAddresses(t *testing.T) {
	_, err := New(Config{}, nil)
	assert.Error(t, err)
}
