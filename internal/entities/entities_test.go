package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/layeredcontracts/internal/entities"
	"github.com/turtacn/layeredcontracts/internal/scoring"
	"github.com/turtacn/layeredcontracts/internal/substrate"
)

func TestDefinedTermParenthetical(t *testing.T) {
	doc := substrate.NewDocument(`ABC Corp (the "Company") exists.`)
	applied := doc.Apply(entities.DefinedTermResolver{})
	attrs := applied.Attributes().FindAll(entities.AttributeDefinedTerm)
	require.Len(t, attrs, 1)
	scored := attrs[0].Value.(scoring.Scored[entities.DefinedTerm])
	assert.Equal(t, "Company", scored.Value.QuotedName)
	assert.Equal(t, entities.Parenthetical, scored.Value.Type)
	assert.InDelta(t, 0.95, scored.Confidence, 1e-9)
}

func TestDefinedTermMeansDefinition(t *testing.T) {
	doc := substrate.NewDocument(`"Effective Date" means the date of execution.`)
	applied := doc.Apply(entities.DefinedTermResolver{})
	attrs := applied.Attributes().FindAll(entities.AttributeDefinedTerm)
	require.Len(t, attrs, 1)
	scored := attrs[0].Value.(scoring.Scored[entities.DefinedTerm])
	assert.Equal(t, "Effective Date", scored.Value.QuotedName)
	assert.Equal(t, entities.MeansDefinition, scored.Value.Type)
}

func TestTermReferenceResolvesBackToDefinition(t *testing.T) {
	doc := substrate.NewDocument("ABC Corp (the \"Company\") exists.\nThe Company shall deliver.")
	doc = doc.Apply(entities.DefinedTermResolver{})
	refs := entities.ResolveTermReferences(doc)
	require.Len(t, refs, 1)
	scored := refs[0].Value.(scoring.Scored[entities.TermReference])
	assert.Equal(t, "Company", scored.Value.Name)
	assert.Equal(t, 1, refs[0].Span.Line())
}

func TestPronounResolverTagsPersonalAndDeictic(t *testing.T) {
	doc := substrate.NewDocument("It shall comply hereof.")
	applied := doc.Apply(entities.PronounResolver{})
	attrs := applied.Attributes().FindAll(entities.AttributePronoun)
	require.Len(t, attrs, 2)
}

func TestPronounChainResolvesNearestCompatibleAntecedent(t *testing.T) {
	doc := substrate.NewDocument(`ABC Corp (the "Company") exists. It shall deliver.`)
	doc = doc.Apply(entities.DefinedTermResolver{})
	doc = doc.Apply(entities.PronounResolver{})
	refs := entities.ResolveTermReferences(doc)
	doc = doc.ApplyAssignments(entities.AttributeTermReference, refs)

	chains := entities.ResolvePronounChains(doc, entities.DefaultPronounChainConfig())
	require.Len(t, chains, 1)
	ambiguous := chains[0].Value.(scoring.Ambiguous[entities.AntecedentCandidate])
	primary, ok := ambiguous.Primary()
	require.True(t, ok)
	assert.Equal(t, "Company", primary.Value.Text)
}

func TestSectionReferenceWithOverrideIntent(t *testing.T) {
	doc := substrate.NewDocument("Notwithstanding Section 3.2, this clause applies.")
	applied := doc.Apply(entities.SectionReferenceResolver{})
	attrs := applied.Attributes().FindAll(entities.AttributeSectionReference)
	require.Len(t, attrs, 1)
	scored := attrs[0].Value.(scoring.Scored[entities.SectionReference])
	assert.Equal(t, entities.IntentOverride, scored.Value.Intent)
	assert.Equal(t, "3.2", scored.Value.Number)
}

func TestTemporalDurationWrittenAndNumeric(t *testing.T) {
	doc := substrate.NewDocument("The report shall be delivered within thirty (30) days.")
	applied := doc.Apply(entities.TemporalResolver{})
	attrs := applied.Attributes().FindAll(entities.AttributeTemporalExpression)
	require.Len(t, attrs, 1)
	scored := attrs[0].Value.(scoring.Scored[entities.TemporalExpression])
	assert.Equal(t, entities.KindDeadline, scored.Value.Kind)
	assert.Equal(t, 30, scored.Value.Value)
	assert.Equal(t, "thirty", scored.Value.WrittenForm)
	assert.Equal(t, entities.Days, scored.Value.Unit)
}

func TestTemporalBusinessDaysPrefix(t *testing.T) {
	doc := substrate.NewDocument("Payment is due in 10 business days.")
	applied := doc.Apply(entities.TemporalResolver{})
	attrs := applied.Attributes().FindAll(entities.AttributeTemporalExpression)
	require.Len(t, attrs, 1)
	scored := attrs[0].Value.(scoring.Scored[entities.TemporalExpression])
	assert.Equal(t, entities.BusinessDays, scored.Value.Unit)
	assert.Equal(t, 10, scored.Value.Value)
}
