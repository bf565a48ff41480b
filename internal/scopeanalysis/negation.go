package scopeanalysis

import (
	"strings"

	"github.com/turtacn/layeredcontracts/internal/scopeops"
	"github.com/turtacn/layeredcontracts/internal/substrate"
)

// AttributeNegationOp is the attribute type the negation detector emits.
const AttributeNegationOp substrate.AttributeType = "scopeanalysis.NegationOp"

// NegationKind classifies how broadly a negation trigger applies
// (spec.md §4.6).
type NegationKind string

const (
	Sentential  NegationKind = "Sentential"
	Constituent NegationKind = "Constituent"
	Contrastive NegationKind = "Contrastive"
)

// NegationOp is the payload carried by a ScopeOperator[NegationOp].
type NegationOp struct {
	Kind NegationKind
	Text string
}

var negationTriggers = map[string]bool{"not": true, "never": true, "neither": true, "no": true}

// NegationDetector triggers on "not, never, neither, no" and extends the
// domain rightward to the nearest clause boundary.
type NegationDetector struct{}

var _ substrate.Resolver = NegationDetector{}

func (NegationDetector) AttributeType() substrate.AttributeType { return AttributeNegationOp }

func (NegationDetector) Resolve(_ *substrate.Document, sel substrate.Selection) []substrate.Assignment {
	tokens := sel.Tokens()
	var out []substrate.Assignment
	for i, tok := range tokens {
		if tok.Kind != substrate.TokenWord {
			continue
		}
		lower := strings.ToLower(tok.Text)
		if !negationTriggers[lower] {
			continue
		}
		kind := classifyNegationKind(tokens, i, lower)
		end := clauseEndFrom(tokens, i+1)
		domainSpan := spanOfTokens(sel.Line(), tokens[i+1:end])
		op := scopeops.NewScopeOperator(scopeops.DimensionNegation, tok.Span, domainSpan, NegationOp{Kind: kind, Text: tok.Text})
		out = append(out, sel.FinishSpan(tok.Span, op))
	}
	return out
}

func classifyNegationKind(tokens []substrate.Token, idx int, lower string) NegationKind {
	if idx > 0 && strings.EqualFold(tokens[idx-1].Text, "but") {
		return Contrastive
	}
	switch lower {
	case "neither", "never":
		return Sentential
	case "no":
		return Sentential
	default: // "not"
		if idx == 0 {
			return Sentential
		}
		return Constituent
	}
}
