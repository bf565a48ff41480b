package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/layeredcontracts/internal/obligations"
	"github.com/turtacn/layeredcontracts/internal/parties"
	"github.com/turtacn/layeredcontracts/internal/pipeline"
	"github.com/turtacn/layeredcontracts/internal/scoring"
	"github.com/turtacn/layeredcontracts/internal/semantics"
	"github.com/turtacn/layeredcontracts/internal/substrate"
)

func TestAnalyzeProducesLinkedObligationsAndFrames(t *testing.T) {
	doc := pipeline.Analyze("Tenant shall pay rent to Landlord.", pipeline.DefaultConfig())

	linked := pipeline.FindAll[scoring.ReviewableResult[scoring.Scored[parties.LinkedObligation]]](doc, parties.AttributeLinkedObligation)
	require.Len(t, linked, 1)
	assert.Equal(t, "Tenant", linked[0].Value.Value.Value.Obligor.Text)

	frames := pipeline.FindAll[semantics.Frame](doc, semantics.AttributeFrame)
	require.Len(t, frames, 1)
	assert.Equal(t, "rent", frames[0].Value.Theme.Text)
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	text := "Tenant shall pay the deposit. Tenant shall not pay the deposit."
	a := pipeline.Analyze(text, pipeline.DefaultConfig())
	b := pipeline.Analyze(text, pipeline.DefaultConfig())

	aObligations := pipeline.FindAll[scoring.ReviewableResult[scoring.Scored[obligations.ObligationPhrase]]](a, obligations.AttributeObligationPhrase)
	bObligations := pipeline.FindAll[scoring.ReviewableResult[scoring.Scored[obligations.ObligationPhrase]]](b, obligations.AttributeObligationPhrase)
	require.Len(t, aObligations, 2)
	require.Equal(t, len(aObligations), len(bObligations))
	for i := range aObligations {
		assert.Equal(t, aObligations[i].Span, bObligations[i].Span)
		assert.Equal(t, aObligations[i].Value.Value.Value.Type, bObligations[i].Value.Value.Value.Type)
	}
}

func TestAnalyzeParallelPerLineMatchesSequential(t *testing.T) {
	text := "Tenant shall pay rent.\nLandlord shall maintain the elevator.\nTenant shall not pay the deposit."
	seqCfg := pipeline.DefaultConfig()
	parCfg := pipeline.DefaultConfig()
	parCfg.ParallelPerLine = true

	seq := pipeline.Analyze(text, seqCfg)
	par := pipeline.Analyze(text, parCfg)

	seqObligations := pipeline.FindAll[scoring.ReviewableResult[scoring.Scored[obligations.ObligationPhrase]]](seq, obligations.AttributeObligationPhrase)
	parObligations := pipeline.FindAll[scoring.ReviewableResult[scoring.Scored[obligations.ObligationPhrase]]](par, obligations.AttributeObligationPhrase)
	require.Equal(t, len(seqObligations), len(parObligations))
	for i := range seqObligations {
		assert.Equal(t, seqObligations[i].Span, parObligations[i].Span)
	}
}

func TestFindAtReturnsAttributeCoveringPosition(t *testing.T) {
	doc := pipeline.Analyze("Tenant shall pay rent.", pipeline.DefaultConfig())
	pos := substrate.Position{Line: 0, Char: 8} // inside "shall"
	results := pipeline.FindAt[scoring.ReviewableResult[scoring.Scored[obligations.ObligationPhrase]]](doc, obligations.AttributeObligationPhrase, pos)
	assert.Len(t, results, 1)
}

func TestSnapshotAssignsStablePerTypeIDs(t *testing.T) {
	doc := pipeline.Analyze("Tenant shall pay rent to Landlord.", pipeline.DefaultConfig())
	entries := pipeline.Snapshot(doc)
	require.NotEmpty(t, entries)

	seen := make(map[string]bool)
	for _, e := range entries {
		assert.False(t, seen[e.ID], "duplicate snapshot id %s", e.ID)
		seen[e.ID] = true
	}

	var sawFrame bool
	for _, e := range entries {
		if _, ok := e.Value.(semantics.Frame); ok {
			sawFrame = true
			assert.Equal(t, "fr-0", e.ID)
		}
	}
	assert.True(t, sawFrame)
}
