package conflicts_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/layeredcontracts/internal/conflicts"
	"github.com/turtacn/layeredcontracts/internal/entities"
	"github.com/turtacn/layeredcontracts/internal/lexical"
	"github.com/turtacn/layeredcontracts/internal/obligations"
	"github.com/turtacn/layeredcontracts/internal/parties"
	"github.com/turtacn/layeredcontracts/internal/scopeops"
	"github.com/turtacn/layeredcontracts/internal/substrate"
)

func buildDoc(text string) *substrate.Document {
	doc := substrate.NewDocument(text)
	doc = doc.ApplyAssignments(lexical.AttributeModalKeyword, lexical.ResolveModalKeywords(doc))
	doc = doc.Apply(lexical.ProhibitionResolver{})
	doc = doc.Apply(lexical.SectionHeaderResolver{})
	doc = doc.Apply(entities.DefinedTermResolver{})
	doc = doc.Apply(entities.PronounResolver{})
	doc = doc.ApplyAssignments(entities.AttributeAntecedent, entities.ResolvePronounChains(doc, entities.DefaultPronounChainConfig()))
	doc = doc.Apply(entities.SectionReferenceResolver{})
	doc = doc.Apply(entities.TemporalResolver{})
	doc = doc.ApplyAssignments(obligations.AttributeObligationPhrase, obligations.ResolveObligations(doc))
	doc = doc.ApplyAssignments(parties.AttributeLinkedObligation, parties.ResolveLinkedObligations(doc))
	return doc
}

func TestModalContradictionSameObligorSameAction(t *testing.T) {
	doc := buildDoc("Tenant shall pay the deposit. Tenant shall not pay the deposit.")
	found := conflicts.DetectConflicts(doc, conflicts.DefaultNormalizationConfig())

	var hasModal bool
	for _, c := range found {
		if c.Type == conflicts.ModalContradiction {
			hasModal = true
		}
	}
	assert.True(t, hasModal)
}

func TestPartyContradictionSameActionDifferentObligor(t *testing.T) {
	doc := buildDoc("Landlord shall repair the roof. Tenant shall repair the roof.")
	found := conflicts.DetectConflicts(doc, conflicts.DefaultNormalizationConfig())

	var hasParty bool
	for _, c := range found {
		if c.Type == conflicts.PartyContradiction {
			hasParty = true
		}
	}
	assert.True(t, hasParty)
}

func TestNoConflictForUnrelatedObligations(t *testing.T) {
	doc := buildDoc("Tenant shall pay rent. Landlord shall maintain the elevator.")
	found := conflicts.DetectConflicts(doc, conflicts.DefaultNormalizationConfig())
	assert.Empty(t, found)
}

func TestPrecedenceResolvesByNotwithstandingReference(t *testing.T) {
	doc := buildDoc("1. General Terms\nTenant shall pay rent monthly.\n1.1 Exceptions\nNotwithstanding Section 1, Tenant shall not pay rent in December.")
	headers := doc.Attributes().FindAll(lexical.AttributeSectionHeader)
	refs := doc.Attributes().FindAll(entities.AttributeSectionReference)
	resolver := conflicts.NewPrecedenceResolver(headers)
	refsByLine := conflicts.GroupReferencesByLine(refs)

	c := conflicts.Conflict{
		Type:  conflicts.ModalContradiction,
		SpanA: substrate.MustSpan(1, 0, 5),
		SpanB: substrate.MustSpan(3, 0, 5),
	}
	outcome := resolver.Resolve(c, refsByLine)
	assert.Equal(t, conflicts.PrecedenceB, outcome)
}

func TestConflictLinksAreReciprocal(t *testing.T) {
	doc := buildDoc("Tenant shall pay the deposit. Tenant shall not pay the deposit.")
	assignments := conflicts.ResolveConflictLinks(doc, conflicts.DefaultNormalizationConfig())
	require.Len(t, assignments, 2)

	linkA := assignments[0].Value.(scopeops.SpanLink[scopeops.ConflictRole])
	linkB := assignments[1].Value.(scopeops.SpanLink[scopeops.ConflictRole])
	assert.Equal(t, scopeops.ConflictSideA, linkA.Role)
	assert.Equal(t, scopeops.ConflictSideB, linkB.Role)
	assert.Equal(t, assignments[0].Span, linkB.Target)
	assert.Equal(t, assignments[1].Span, linkA.Target)
}

func TestPrecedenceUnresolvedWithoutSections(t *testing.T) {
	doc := buildDoc("Tenant shall pay the deposit.\nTenant shall not pay the deposit.")
	headers := doc.Attributes().FindAll(lexical.AttributeSectionHeader)
	refs := doc.Attributes().FindAll(entities.AttributeSectionReference)
	resolver := conflicts.NewPrecedenceResolver(headers)
	refsByLine := conflicts.GroupReferencesByLine(refs)

	c := conflicts.Conflict{
		Type:  conflicts.ModalContradiction,
		SpanA: substrate.MustSpan(0, 0, 5),
		SpanB: substrate.MustSpan(1, 0, 5),
	}
	require.Equal(t, conflicts.PrecedenceUnresolved, resolver.Resolve(c, refsByLine))
}
