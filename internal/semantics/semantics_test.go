package semantics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/layeredcontracts/internal/entities"
	"github.com/turtacn/layeredcontracts/internal/lexical"
	"github.com/turtacn/layeredcontracts/internal/obligations"
	"github.com/turtacn/layeredcontracts/internal/parties"
	"github.com/turtacn/layeredcontracts/internal/scopeops"
	"github.com/turtacn/layeredcontracts/internal/semantics"
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
	doc = doc.ApplyAssignments(parties.AttributeLinkedObligation, parties.ResolveLinkedObligations(doc))
	return doc
}

func frameFor(t *testing.T, doc *substrate.Document) semantics.Frame {
	t.Helper()
	frames := semantics.ResolveFrames(doc)
	require.Len(t, frames, 1)
	return frames[0].Value.(semantics.Frame)
}

func TestActiveTransferVerbFillsThemeAndAgent(t *testing.T) {
	doc := buildDoc("Tenant shall pay rent to Landlord.")
	frame := frameFor(t, doc)

	assert.Equal(t, "Tenant", frame.Agent.Text)
	require.NotNil(t, frame.Theme)
	assert.Equal(t, "rent", frame.Theme.Text)
	require.NotNil(t, frame.Recipient)
	assert.Equal(t, "Landlord", frame.Recipient.Text)
}

func TestNonTransferVerbFillsPatient(t *testing.T) {
	doc := buildDoc("Landlord shall maintain the elevator.")
	frame := frameFor(t, doc)

	assert.Equal(t, "Landlord", frame.Agent.Text)
	require.NotNil(t, frame.Patient)
	assert.Equal(t, "elevator", frame.Patient.Text)
	assert.Nil(t, frame.Theme)
}

func TestPassiveWithoutObjectFillsThemeFromSurfaceSubject(t *testing.T) {
	doc := buildDoc("The deposit shall be returned by Landlord.")
	frame := frameFor(t, doc)

	assert.Equal(t, "Landlord", frame.Agent.Text)
	require.NotNil(t, frame.Theme)
	assert.Equal(t, "deposit", frame.Theme.Text)
}

func TestActivePassiveEquivalentUnderNormalization(t *testing.T) {
	activeDoc := buildDoc("Tenant shall pay rent.")
	passiveDoc := buildDoc("Rent shall be paid by Tenant.")

	activeFrame := frameFor(t, activeDoc)
	passiveFrame := frameFor(t, passiveDoc)

	assert.True(t, semantics.Equivalent(activeFrame, passiveFrame))
}

func TestSemanticRoleLinksPointAtFrameSpans(t *testing.T) {
	doc := buildDoc("Tenant shall pay rent to Landlord.")
	doc = doc.ApplyAssignments(semantics.AttributeFrame, semantics.ResolveFrames(doc))
	links := semantics.ResolveSemanticRoleLinks(doc)
	require.Len(t, links, 3) // Agent, Theme, Recipient

	roles := make(map[scopeops.SemanticRole]bool)
	for _, l := range links {
		link := l.Value.(scopeops.SpanLink[scopeops.SemanticRole])
		roles[link.Role] = true
	}
	assert.True(t, roles[scopeops.RoleAgent])
	assert.True(t, roles[scopeops.RoleTheme])
	assert.True(t, roles[scopeops.RoleRecipient])
}
