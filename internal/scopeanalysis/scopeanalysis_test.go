package scopeanalysis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/layeredcontracts/internal/lexical"
	"github.com/turtacn/layeredcontracts/internal/obligations"
	"github.com/turtacn/layeredcontracts/internal/scopeanalysis"
	"github.com/turtacn/layeredcontracts/internal/scopeops"
	"github.com/turtacn/layeredcontracts/internal/scoring"
	"github.com/turtacn/layeredcontracts/internal/substrate"
)

func buildDoc(text string) *substrate.Document {
	doc := substrate.NewDocument(text)
	doc = doc.ApplyAssignments(lexical.AttributeModalKeyword, lexical.ResolveModalKeywords(doc))
	doc = doc.Apply(lexical.ProhibitionResolver{})
	return doc
}

func TestNegationDetectorTriggersOnNeither(t *testing.T) {
	doc := buildDoc("Neither party shall disclose any information.")
	assignments := scopeanalysis.NegationDetector{}.Resolve(doc, doc.Select(0))
	require.Len(t, assignments, 1)
	op := assignments[0].Value.(scopeops.ScopeOperator[scopeanalysis.NegationOp])
	assert.Equal(t, "Neither", op.Payload.Text)
	assert.Equal(t, scopeanalysis.Sentential, op.Payload.Kind)
}

func TestQuantifierDetectorTriggersOnAny(t *testing.T) {
	doc := buildDoc("Neither party shall disclose any information.")
	assignments := scopeanalysis.QuantifierDetector{}.Resolve(doc, doc.Select(0))
	require.Len(t, assignments, 1)
	op := assignments[0].Value.(scopeops.ScopeOperator[scopeanalysis.QuantifierOp])
	assert.Equal(t, scopeanalysis.Existential, op.Payload.Kind)
	assert.Equal(t, "any", op.Payload.Text)
}

func TestModalScopeFlagsNegationInteraction(t *testing.T) {
	doc := buildDoc("Neither party shall disclose any information.")
	doc = doc.ApplyAssignments(obligations.AttributeObligationPhrase, obligations.ResolveObligations(doc))
	doc = doc.Apply(scopeanalysis.NegationDetector{})
	doc = doc.Apply(scopeanalysis.QuantifierDetector{})

	analyzer := scopeanalysis.NewModalScopeAnalyzer()
	assignments := analyzer.Analyze(doc)
	require.Len(t, assignments, 1)

	reviewable := assignments[0].Value.(scoring.ReviewableResult[scoring.Scored[scopeanalysis.ModalScope]])
	assert.True(t, reviewable.NeedsReview)
	require.NotNil(t, reviewable.Reason)
	assert.Equal(t, scoring.NegationInteraction, *reviewable.Reason)
	require.NotNil(t, reviewable.Value.Value.Negation)
	require.NotNil(t, reviewable.Value.Value.Quantifier)
}

func TestModalScopeUnflaggedWithoutNegationOverlap(t *testing.T) {
	doc := buildDoc("The Tenant shall pay rent monthly.")
	doc = doc.ApplyAssignments(obligations.AttributeObligationPhrase, obligations.ResolveObligations(doc))
	doc = doc.Apply(scopeanalysis.NegationDetector{})
	doc = doc.Apply(scopeanalysis.QuantifierDetector{})

	analyzer := scopeanalysis.NewModalScopeAnalyzer()
	assignments := analyzer.Analyze(doc)
	require.Len(t, assignments, 1)

	reviewable := assignments[0].Value.(scoring.ReviewableResult[scoring.Scored[scopeanalysis.ModalScope]])
	assert.False(t, reviewable.NeedsReview)
	assert.Nil(t, reviewable.Value.Value.Negation)
}

func TestAmbiguityFlaggerLowConfidencePrimaryCandidate(t *testing.T) {
	flagger := scopeanalysis.NewAmbiguityFlagger()
	trigger := substrate.MustSpan(0, 0, 3)
	weakDomain := substrate.MustSpan(0, 4, 10)
	op := scopeops.ScopeOperator[scopeanalysis.NegationOp]{
		Dimension: scopeops.DimensionNegation,
		Trigger:   trigger,
		Domain:    scopeops.NewScopeDomain([]scopeops.DomainCandidate{{Span: weakDomain, Score: 0.4}}),
		Payload:   scopeanalysis.NegationOp{Kind: scopeanalysis.Sentential, Text: "not"},
	}
	flagged, reason := flagger.Evaluate(op, nil, nil)
	assert.True(t, flagged)
	assert.Equal(t, scoring.LowConfidence, reason)
}

func TestAmbiguityFlaggerClearWhenNoOverlap(t *testing.T) {
	flagger := scopeanalysis.NewAmbiguityFlagger()
	trigger := substrate.MustSpan(0, 0, 3)
	domain := substrate.MustSpan(0, 4, 10)
	op := scopeops.ScopeOperator[scopeanalysis.NegationOp]{
		Dimension: scopeops.DimensionNegation,
		Trigger:   trigger,
		Domain:    scopeops.NewScopeDomain([]scopeops.DomainCandidate{{Span: domain, Score: 1.0}}),
		Payload:   scopeanalysis.NegationOp{Kind: scopeanalysis.Sentential, Text: "not"},
	}
	flagged, reason := flagger.Evaluate(op, nil, nil)
	assert.False(t, flagged)
	assert.Equal(t, scoring.ReviewKind(""), reason)
}
