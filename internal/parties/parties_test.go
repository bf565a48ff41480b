package parties_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/layeredcontracts/internal/entities"
	"github.com/turtacn/layeredcontracts/internal/lexical"
	"github.com/turtacn/layeredcontracts/internal/obligations"
	"github.com/turtacn/layeredcontracts/internal/parties"
	"github.com/turtacn/layeredcontracts/internal/scoring"
	"github.com/turtacn/layeredcontracts/internal/substrate"
)

func buildDoc(text string) *substrate.Document {
	doc := substrate.NewDocument(text)
	doc = doc.ApplyAssignments(lexical.AttributeModalKeyword, lexical.ResolveModalKeywords(doc))
	doc = doc.Apply(lexical.ProhibitionResolver{})
	doc = doc.Apply(entities.DefinedTermResolver{})
	doc = doc.Apply(entities.PronounResolver{})
	doc = doc.ApplyAssignments(entities.AttributeAntecedent, entities.ResolvePronounChains(doc, entities.DefaultPronounChainConfig()))
	doc = doc.ApplyAssignments(obligations.AttributeObligationPhrase, obligations.ResolveObligations(doc))
	return doc
}

func TestActiveVoiceObligorUnchanged(t *testing.T) {
	doc := buildDoc("The Tenant shall pay rent monthly.")
	assignments := parties.ResolveLinkedObligations(doc)
	require.Len(t, assignments, 1)

	reviewable := assignments[0].Value.(scoring.ReviewableResult[scoring.Scored[parties.LinkedObligation]])
	linked := reviewable.Value.Value
	assert.Equal(t, parties.Active, linked.Voice)
	assert.Equal(t, "Tenant", linked.Obligor.Text)
}

func TestPassiveVoiceWithByAgentExtractsObligor(t *testing.T) {
	doc := buildDoc("The deposit shall be returned by Landlord.")
	assignments := parties.ResolveLinkedObligations(doc)
	require.Len(t, assignments, 1)

	reviewable := assignments[0].Value.(scoring.ReviewableResult[scoring.Scored[parties.LinkedObligation]])
	linked := reviewable.Value.Value
	assert.Equal(t, parties.Passive, linked.Voice)
	assert.Equal(t, "Landlord", linked.Obligor.Text)
	assert.Equal(t, obligations.ObligorExplicit, linked.Obligor.Kind)
}

func TestPassiveVoiceWithoutAgentFlagsImplicit(t *testing.T) {
	doc := buildDoc("The deposit shall be returned.")
	assignments := parties.ResolveLinkedObligations(doc)
	require.Len(t, assignments, 1)

	reviewable := assignments[0].Value.(scoring.ReviewableResult[scoring.Scored[parties.LinkedObligation]])
	assert.True(t, reviewable.NeedsReview)
	require.NotNil(t, reviewable.Reason)
	assert.Equal(t, scoring.PassiveVoiceImplicitAgent, *reviewable.Reason)
	assert.Equal(t, obligations.ObligorImplicit, reviewable.Value.Value.Obligor.Kind)
}

func TestBeneficiaryExtractedFromDative(t *testing.T) {
	doc := buildDoc("Landlord shall deliver notice to Tenant.")
	assignments := parties.ResolveLinkedObligations(doc)
	require.Len(t, assignments, 1)

	reviewable := assignments[0].Value.(scoring.ReviewableResult[scoring.Scored[parties.LinkedObligation]])
	require.NotNil(t, reviewable.Value.Value.Beneficiary)
	assert.Equal(t, "Tenant", reviewable.Value.Value.Beneficiary.Text)
}

func TestAccountabilityGraphBuildsNodes(t *testing.T) {
	doc := buildDoc("The Tenant shall pay rent monthly.")
	doc = doc.ApplyAssignments(parties.AttributeLinkedObligation, parties.ResolveLinkedObligations(doc))
	graph := parties.BuildAccountabilityGraph(doc, nil)
	require.Len(t, graph.Nodes, 1)
	assert.Equal(t, "Tenant", graph.Nodes[0].Obligor)
}
