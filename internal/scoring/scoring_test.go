package scoring_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/layeredcontracts/internal/scoring"
)

func TestComposeClampsAndMultiplies(t *testing.T) {
	assert.InDelta(t, 0.5, scoring.Compose(1.0, 0.5), 1e-9)
	assert.InDelta(t, 0.25, scoring.Compose(0.5, 0.5), 1e-9)
	assert.InDelta(t, 1.0, scoring.Compose(1.5, 2.0), 1e-9)
	assert.InDelta(t, 0.0, scoring.Compose(-1, 0.9), 1e-9)
}

func TestComposeAllIdentityOnEmpty(t *testing.T) {
	assert.InDelta(t, 1.0, scoring.ComposeAll(), 1e-9)
	assert.InDelta(t, 0.81, scoring.ComposeAll(0.9, 0.9), 1e-9)
}

func TestNeedsVerification(t *testing.T) {
	verified := scoring.New("x", 1.0, scoring.RuleHumanVerified)
	assert.False(t, verified.NeedsVerification())

	heuristic := scoring.New("x", 0.8, scoring.RulePOS)
	assert.True(t, heuristic.NeedsVerification())
}

func TestNewAmbiguousSortsDescendingAndFlagsCloseGap(t *testing.T) {
	a := scoring.NewAmbiguous([]scoring.Scored[string]{
		scoring.New("b", 0.5, scoring.RuleObligation),
		scoring.New("a", 0.6, scoring.RuleObligation),
	}, 0.15)

	primary, ok := a.Primary()
	assert.True(t, ok)
	assert.Equal(t, "a", primary.Value)
	assert.True(t, a.Flagged) // gap 0.1 < 0.15
}

func TestNewAmbiguousNotFlaggedWithWideGap(t *testing.T) {
	a := scoring.NewAmbiguous([]scoring.Scored[string]{
		scoring.New("a", 0.95, scoring.RuleObligation),
		scoring.New("b", 0.40, scoring.RuleObligation),
	}, 0.15)
	assert.False(t, a.Flagged)
}

func TestAmbiguousPrimaryEmpty(t *testing.T) {
	var a scoring.Ambiguous[string]
	_, ok := a.Primary()
	assert.False(t, ok)
}

func TestApplyVerificationAcceptRaisesConfidence(t *testing.T) {
	original := scoring.New("Tenant", 0.6, scoring.RulePartyLinker)
	note := scoring.VerificationNote{Action: scoring.VerificationAccept, Reviewer: "alice"}
	verified := scoring.ApplyVerification(original, note, "")
	assert.Equal(t, 1.0, verified.Confidence)
	assert.Equal(t, "Tenant", verified.Value)
}

func TestApplyVerificationOverrideReplacesValue(t *testing.T) {
	original := scoring.New("Tenant", 0.6, scoring.RulePartyLinker)
	note := scoring.VerificationNote{Action: scoring.VerificationOverride, Reviewer: "alice"}
	verified := scoring.ApplyVerification(original, note, "Landlord")
	assert.Equal(t, 1.0, verified.Confidence)
	assert.Equal(t, "Landlord", verified.Value)
}

func TestReviewableResultFlag(t *testing.T) {
	r := scoring.Reviewable(42).Flag(scoring.LowConfidence)
	assert.True(t, r.NeedsReview)
	assert.Equal(t, scoring.LowConfidence, *r.Reason)
}
