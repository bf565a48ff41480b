package scopeanalysis

import (
	"github.com/turtacn/layeredcontracts/internal/obligations"
	"github.com/turtacn/layeredcontracts/internal/scopeops"
	"github.com/turtacn/layeredcontracts/internal/scoring"
	"github.com/turtacn/layeredcontracts/internal/substrate"
)

// AttributeModalScope is the attribute type the modal-scope analyzer
// emits: one entry per obligation phrase, whether or not a negation or
// quantifier operator touches its clause.
const AttributeModalScope substrate.AttributeType = "scopeanalysis.ModalScope"

// ModalScope composes an obligation with whatever negation and
// quantifier operators govern its clause (spec.md §4.6).
type ModalScope struct {
	Obligation obligations.ObligationPhrase
	Negation   *scopeops.ScopeOperator[NegationOp]
	Quantifier *scopeops.ScopeOperator[QuantifierOp]
}

// ModalScopeAnalyzer runs after lexical, obligations, and the negation
// and quantifier detectors: for every obligation phrase, it finds the
// negation/quantifier operators whose trigger falls in the same clause,
// multiplicatively composes their confidences with the obligation's own,
// and flags the result for review when any input already needed review
// or the ambiguity flagger's rules fire.
type ModalScopeAnalyzer struct {
	Flagger AmbiguityFlagger
}

// NewModalScopeAnalyzer returns an analyzer using the spec.md §4.6/§6
// default ambiguity thresholds.
func NewModalScopeAnalyzer() ModalScopeAnalyzer {
	return ModalScopeAnalyzer{Flagger: NewAmbiguityFlagger()}
}

// Analyze reads obligations.AttributeObligationPhrase,
// AttributeNegationOp, and AttributeQuantifierOp off doc and emits one
// ReviewableResult[Scored[ModalScope]] per obligation. It is a
// multi-attribute stage (like clause linking and conflict detection) and
// so is invoked directly rather than through Document.Apply.
func (a ModalScopeAnalyzer) Analyze(doc *substrate.Document) []substrate.Assignment {
	obligationAttrs := doc.Attributes().FindAll(obligations.AttributeObligationPhrase)
	negationAttrs := doc.Attributes().FindAll(AttributeNegationOp)
	quantifierAttrs := doc.Attributes().FindAll(AttributeQuantifierOp)

	var out []substrate.Assignment
	for _, oa := range obligationAttrs {
		obReviewable := oa.Value.(scoring.ReviewableResult[scoring.Scored[obligations.ObligationPhrase]])
		line := oa.Span.Line()
		tokens := doc.Tokens(line)

		neg := findNegationOnLine(negationAttrs, line, oa.Span, tokens)
		quants := findQuantifiersOnLine(quantifierAttrs, line, oa.Span, tokens)

		confidence := obReviewable.Value.Confidence
		needsReview := obReviewable.NeedsReview
		var reason scoring.ReviewKind
		if obReviewable.Reason != nil {
			reason = *obReviewable.Reason
		}

		var negPtr *scopeops.ScopeOperator[NegationOp]
		var quantPtr *scopeops.ScopeOperator[QuantifierOp]
		if neg != nil {
			op := neg.Value.(scopeops.ScopeOperator[NegationOp])
			negPtr = &op
			if primary, ok := op.Domain.Primary(); ok {
				confidence = scoring.Compose(confidence, primary.Score)
			}
			flagged, kind := a.Flagger.Evaluate(op, quantifierOps(quants), tokens)
			if flagged && !needsReview {
				needsReview = true
				reason = kind
			}
		}
		if len(quants) > 0 {
			op := quants[0].Value.(scopeops.ScopeOperator[QuantifierOp])
			quantPtr = &op
		}

		scope := ModalScope{Obligation: obReviewable.Value.Value, Negation: negPtr, Quantifier: quantPtr}
		scored := scoring.New(scope, confidence, scoring.RuleModalScope)
		result := scoring.Reviewable(scored)
		if needsReview {
			result = result.Flag(reason)
		}
		out = append(out, substrate.Assignment{Span: oa.Span, Value: result})
	}
	return out
}

func findNegationOnLine(negations []substrate.Attribute, line int, obligationSpan substrate.Span, tokens []substrate.Token) *substrate.Attribute {
	for i := range negations {
		n := negations[i]
		if n.Span.Line() != line {
			continue
		}
		op := n.Value.(scopeops.ScopeOperator[NegationOp])
		if primary, ok := op.Domain.Primary(); ok && (primary.Span.Overlaps(obligationSpan) || primary.Span.Covers(obligationSpan) || obligationSpan.Covers(primary.Span)) {
			return &negations[i]
		}
	}
	return nil
}

// findQuantifiersOnLine matches quantifiers against the obligation's
// whole clause rather than its (typically single-token) modal span: a
// quantifier routinely governs a noun phrase elsewhere in the clause
// ("Neither party shall disclose any information" has the modal span
// at "shall" but the quantifier domain at "information"), so anchoring
// to the modal span alone would miss it.
func findQuantifiersOnLine(quantifiers []substrate.Attribute, line int, obligationSpan substrate.Span, tokens []substrate.Token) []substrate.Attribute {
	clauseSpan := clauseSpanAround(tokens, line, obligationSpan)
	var out []substrate.Attribute
	for _, q := range quantifiers {
		if q.Span.Line() != line {
			continue
		}
		op := q.Value.(scopeops.ScopeOperator[QuantifierOp])
		primary, ok := op.Domain.Primary()
		if !ok {
			continue
		}
		if primary.Span.Overlaps(clauseSpan) || q.Span.Overlaps(clauseSpan) {
			out = append(out, q)
		}
	}
	return out
}

// clauseSpanAround widens a modal/obligation span to cover its whole
// clause, so domain overlap checks see the full "subject modal verb
// object" phrase instead of just the modal token.
func clauseSpanAround(tokens []substrate.Token, line int, obligationSpan substrate.Span) substrate.Span {
	idx := indexOfSpan(tokens, obligationSpan)
	if idx < 0 || len(tokens) == 0 {
		return obligationSpan
	}
	start := clauseStartFrom(tokens, idx)
	end := clauseEndFrom(tokens, idx+1)
	if end >= len(tokens) {
		end = len(tokens) - 1
	}
	if start > end {
		return obligationSpan
	}
	return spanOfTokens(line, tokens[start:end+1])
}

// clauseStartFrom returns the token index just after the nearest
// preceding clause boundary, or 0 if none is found.
func clauseStartFrom(tokens []substrate.Token, before int) int {
	for i := before - 1; i >= 0; i-- {
		if tokens[i].Kind == substrate.TokenPunctuation {
			switch tokens[i].Text {
			case ".", ";", "!", "?", ",":
				return i + 1
			}
		}
	}
	return 0
}

func quantifierOps(attrs []substrate.Attribute) []scopeops.ScopeOperator[QuantifierOp] {
	out := make([]scopeops.ScopeOperator[QuantifierOp], 0, len(attrs))
	for _, a := range attrs {
		out = append(out, a.Value.(scopeops.ScopeOperator[QuantifierOp]))
	}
	return out
}
