package scopeanalysis

import (
	"github.com/turtacn/layeredcontracts/internal/scopeops"
	"github.com/turtacn/layeredcontracts/internal/scoring"
	"github.com/turtacn/layeredcontracts/internal/substrate"
)

// DefaultScopeThreshold is the minimum primary-candidate score below which
// a scope operator's domain is flagged ambiguous on its own (spec.md §4.6
// rule 1).
const DefaultScopeThreshold = 0.6

// DefaultScopeGap is the gap below which two domain candidates are
// considered close enough to flag (spec.md §4.6 rule 2), matching the
// pipeline-wide ambiguity gap default (spec.md §6).
const DefaultScopeGap = 0.15

// AmbiguityFlagger evaluates the four scope-ambiguity rules from spec.md
// §4.6 against a negation operator and any quantifier operators whose
// domain it overlaps, returning whether the pair needs human review and
// why.
type AmbiguityFlagger struct {
	Threshold float64
	Gap       float64
}

// NewAmbiguityFlagger returns a flagger configured with the spec.md §4.6
// and §6 defaults.
func NewAmbiguityFlagger() AmbiguityFlagger {
	return AmbiguityFlagger{Threshold: DefaultScopeThreshold, Gap: DefaultScopeGap}
}

// Evaluate applies the four rules in order and returns the first that
// fires, or (false, nil) if none do:
//
//  1. the operator's primary domain candidate scores below Threshold;
//  2. at least two domain candidates are within Gap of the primary;
//  3. a negation operator's domain overlaps a quantifier operator's
//     domain (scope-interaction ambiguity, e.g. "not all" vs "all not");
//  4. an "except X and Y" coordination inside the domain, ambiguous
//     between "except (X and Y)" and "(except X) and Y" (SPEC_FULL.md §6
//     Open Question #2).
func (f AmbiguityFlagger) Evaluate(neg scopeops.ScopeOperator[NegationOp], quantifiers []scopeops.ScopeOperator[QuantifierOp], tokens []substrate.Token) (bool, scoring.ReviewKind) {
	primary, ok := neg.Domain.Primary()
	if !ok || primary.Score < f.Threshold {
		return true, scoring.LowConfidence
	}
	if len(neg.Domain.Candidates) >= 2 {
		gap := neg.Domain.Candidates[0].Score - neg.Domain.Candidates[1].Score
		if gap < f.Gap {
			return true, scoring.MultipleInterpretations
		}
	}
	for _, q := range quantifiers {
		qPrimary, ok := q.Domain.Primary()
		if !ok {
			continue
		}
		if primary.Span.Overlaps(qPrimary.Span) {
			return true, scoring.NegationInteraction
		}
	}
	if hasExceptCoordination(tokens, neg.Trigger) {
		return true, scoring.MultipleInterpretations
	}
	return false, ""
}

func hasExceptCoordination(tokens []substrate.Token, trigger substrate.Span) bool {
	idx := indexOfSpan(tokens, trigger)
	if idx < 0 {
		return false
	}
	end := clauseEndFrom(tokens, idx+1)
	sawExcept, sawAnd := false, false
	for i := idx; i < end; i++ {
		if tokens[i].Kind != substrate.TokenWord {
			continue
		}
		switch tokens[i].Text {
		case "except", "Except":
			sawExcept = true
		case "and", "And":
			if sawExcept {
				sawAnd = true
			}
		}
	}
	return sawExcept && sawAnd
}
