package scopeanalysis

import (
	"strings"

	"github.com/turtacn/layeredcontracts/internal/scopeops"
	"github.com/turtacn/layeredcontracts/internal/substrate"
)

// AttributeQuantifierOp is the attribute type the quantifier detector
// emits.
const AttributeQuantifierOp substrate.AttributeType = "scopeanalysis.QuantifierOp"

// QuantifierKind classifies a quantifier's logical force (spec.md §4.6).
type QuantifierKind string

const (
	Universal        QuantifierKind = "Universal"
	Existential      QuantifierKind = "Existential"
	NegativeUniversal QuantifierKind = "NegativeUniversal"
)

// QuantifierOp is the payload carried by a ScopeOperator[QuantifierOp].
type QuantifierOp struct {
	Kind QuantifierKind
	Text string
}

var quantifierKinds = map[string]QuantifierKind{
	"each":  Universal,
	"every": Universal,
	"all":   Universal,
	"any":   Existential,
	"some":  Existential,
	"no":    NegativeUniversal,
}

// QuantifierDetector triggers on "each, every, all, any, no, some" and
// extends the domain over the immediately-following noun phrase plus any
// trailing "of ..." prepositional phrase.
type QuantifierDetector struct{}

var _ substrate.Resolver = QuantifierDetector{}

func (QuantifierDetector) AttributeType() substrate.AttributeType { return AttributeQuantifierOp }

func (QuantifierDetector) Resolve(_ *substrate.Document, sel substrate.Selection) []substrate.Assignment {
	tokens := sel.Tokens()
	var out []substrate.Assignment
	for i, tok := range tokens {
		if tok.Kind != substrate.TokenWord {
			continue
		}
		lower := strings.ToLower(tok.Text)
		kind, ok := quantifierKinds[lower]
		if !ok {
			continue
		}
		end := nounPhraseEnd(tokens, i+1)
		domainSpan := spanOfTokens(sel.Line(), tokens[i+1:end])
		op := scopeops.NewScopeOperator(scopeops.DimensionQuantifier, tok.Span, domainSpan, QuantifierOp{Kind: kind, Text: tok.Text})
		out = append(out, sel.FinishSpan(tok.Span, op))
	}
	return out
}

// nounPhraseEnd walks forward over the noun phrase following a
// quantifier: word tokens, then an optional "of ..." prepositional
// phrase extension, stopping at the nearest clause boundary.
func nounPhraseEnd(tokens []substrate.Token, start int) int {
	boundary := clauseEndFrom(tokens, start)
	i := start
	for i < boundary && (tokens[i].Kind == substrate.TokenWord || tokens[i].Kind == substrate.TokenWhitespace) {
		i++
	}
	if i < boundary && tokens[i].Kind == substrate.TokenWord && strings.EqualFold(tokens[i].Text, "of") {
		j := i + 1
		for j < boundary && (tokens[j].Kind == substrate.TokenWord || tokens[j].Kind == substrate.TokenWhitespace) {
			j++
		}
		return j
	}
	return i
}
