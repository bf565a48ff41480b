package lexical_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/layeredcontracts/internal/lexical"
	"github.com/turtacn/layeredcontracts/internal/scoring"
	"github.com/turtacn/layeredcontracts/internal/substrate"
)

func TestParseRomanBoundaries(t *testing.T) {
	_, ok := lexical.ParseRoman("")
	assert.False(t, ok)

	n, ok := lexical.ParseRoman("MMMCMXCIX")
	require.True(t, ok)
	assert.Equal(t, 3999, n.Value)
	assert.True(t, n.Uppercase)

	_, ok = lexical.ParseRoman("MMMM")
	assert.False(t, ok)
}

func TestParseRomanCaseInsensitiveSameValue(t *testing.T) {
	upper, ok1 := lexical.ParseRoman("XIV")
	lower, ok2 := lexical.ParseRoman("xiv")
	require.True(t, ok1)
	require.True(t, ok2)
	assert.Equal(t, upper.Value, lower.Value)
	assert.True(t, upper.Uppercase)
	assert.False(t, lower.Uppercase)
}

func TestParseRomanRejectsNonCanonical(t *testing.T) {
	_, ok := lexical.ParseRoman("IIII")
	assert.False(t, ok)
}

func TestPOSTaggerClosedClassConfidence(t *testing.T) {
	doc := substrate.NewDocument("Tenant shall pay rent.")
	applied := doc.Apply(lexical.POSTagger{})
	attrs := applied.Attributes().FindAll(lexical.AttributePOSTag)
	require.NotEmpty(t, attrs)

	var shallTag scoring.Scored[lexical.POSTag]
	for _, a := range attrs {
		scored := a.Value.(scoring.Scored[lexical.POSTag])
		if scored.Value == lexical.Modal {
			shallTag = scored
		}
	}
	assert.Equal(t, lexical.Modal, shallTag.Value)
	assert.Equal(t, 1.0, shallTag.Confidence)
}

func TestKeywordResolverFindsModal(t *testing.T) {
	doc := substrate.NewDocument("Tenant shall pay rent.")
	assignments := lexical.ResolveModalKeywords(doc)
	require.Len(t, assignments, 1)
	scored := assignments[0].Value.(scoring.Scored[lexical.ModalKeyword])
	assert.Equal(t, lexical.ModalShall, scored.Value.Verb)
	assert.InDelta(t, 0.95, scored.Confidence, 1e-9)
}

func TestKeywordResolverFindsDefinitionMarkers(t *testing.T) {
	doc := substrate.NewDocument(`"Company" means ABC Corp.`)
	assignments := lexical.ResolveDefinitionMarkers(doc)
	require.Len(t, assignments, 1)
	scored := assignments[0].Value.(scoring.Scored[lexical.DefinitionMarker])
	assert.Equal(t, lexical.MarkerMeans, scored.Value.Kind)
}

func TestProhibitionResolverDetectsShallNot(t *testing.T) {
	doc := substrate.NewDocument("Tenant shall not assign lease.")
	applied := doc.Apply(lexical.ProhibitionResolver{})
	attrs := applied.Attributes().FindAll(lexical.AttributeProhibition)
	require.Len(t, attrs, 1)
	scored := attrs[0].Value.(scoring.Scored[lexical.ProhibitionMatch])
	assert.Equal(t, lexical.ModalShall, scored.Value.Modal)
}

func TestProhibitionResolverDetectsNoEllipsisShall(t *testing.T) {
	doc := substrate.NewDocument("No party shall disclose information.")
	applied := doc.Apply(lexical.ProhibitionResolver{})
	attrs := applied.Attributes().FindAll(lexical.AttributeProhibition)
	require.Len(t, attrs, 1)
}

func TestSectionHeaderNumeric(t *testing.T) {
	doc := substrate.NewDocument("3.2 Payment Terms")
	applied := doc.Apply(lexical.SectionHeaderResolver{})
	attrs := applied.Attributes().FindAll(lexical.AttributeSectionHeader)
	require.Len(t, attrs, 1)
	scored := attrs[0].Value.(scoring.Scored[lexical.SectionHeader])
	assert.Equal(t, lexical.SectionNumeric, scored.Value.Kind)
	assert.Equal(t, "3.2", scored.Value.Number)
	assert.Equal(t, 2, scored.Value.Level)
}

func TestSectionHeaderWordArticle(t *testing.T) {
	doc := substrate.NewDocument("Article IV Remedies")
	applied := doc.Apply(lexical.SectionHeaderResolver{})
	attrs := applied.Attributes().FindAll(lexical.AttributeSectionHeader)
	require.Len(t, attrs, 1)
	scored := attrs[0].Value.(scoring.Scored[lexical.SectionHeader])
	assert.Equal(t, lexical.SectionWord, scored.Value.Kind)
	assert.Equal(t, 4, scored.Value.Roman)
}

func TestBuildSectionTreeNesting(t *testing.T) {
	doc := substrate.NewDocument("1. General\n1.1 Scope\n2. Payment")
	applied := doc.Apply(lexical.SectionHeaderResolver{})
	headers := applied.Attributes().FindAll(lexical.AttributeSectionHeader)
	require.Len(t, headers, 3)
	tree := lexical.BuildSectionTree(headers)
	require.Len(t, tree, 3)

	child := tree[headers[1].Span]
	require.NotNil(t, child.Parent)
	assert.Equal(t, headers[0].Span, *child.Parent)
}
