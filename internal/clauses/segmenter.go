package clauses

import (
	"strings"

	"github.com/turtacn/layeredcontracts/internal/scoring"
	"github.com/turtacn/layeredcontracts/internal/substrate"
)

// AttributeClause is the attribute type the clause segmenter emits.
const AttributeClause substrate.AttributeType = "clauses.Clause"

// Clause is one logical sub-sentence (spec.md §4.7). Exactly one of
// ConditionSpan, EffectSpan, ExceptionSpan is non-nil, naming the role
// this segment plays within its sentence; the segment's own Span equals
// that sub-span. Cross-clause relationships (which effect a condition
// governs, which main clause an exception modifies) are recorded
// separately as SpanLink[ClauseRole] edges by the clause link resolver.
type Clause struct {
	Span          substrate.Span
	ConditionSpan *substrate.Span
	EffectSpan    *substrate.Span
	ExceptionSpan *substrate.Span
}

// ClauseSegmenter splits each line into clauses at sentence-final
// punctuation, semicolons, top-level coordinating conjunctions, and
// subordinators, respecting nested parentheticals (spec.md §4.7: "Nested
// parentheticals never start a new top-level clause").
type ClauseSegmenter struct{}

var _ substrate.Resolver = ClauseSegmenter{}

func (ClauseSegmenter) AttributeType() substrate.AttributeType { return AttributeClause }

func (ClauseSegmenter) Resolve(_ *substrate.Document, sel substrate.Selection) []substrate.Assignment {
	tokens := sel.Tokens()
	bounds := segmentBounds(tokens)
	var out []substrate.Assignment
	for _, b := range bounds {
		segment := tokens[b.start:b.end]
		if len(segment) == 0 {
			continue
		}
		span := spanOfTokens(sel.Line(), segment)
		clause := classifySegment(span, segment)
		out = append(out, sel.FinishSpan(span, scoring.New(clause, 0.85, scoring.RuleKeyword)))
	}
	return out
}

type bound struct{ start, end int }

// segmentBounds walks the token stream tracking parenthesis depth and
// returns the [start, end) token ranges of each top-level clause.
// Boundaries are placed after sentence-final punctuation / semicolons,
// before a top-level coordinating conjunction or subordinator that is
// not the very first word of the current segment, and before a comma
// that immediately precedes "then".
func segmentBounds(tokens []substrate.Token) []bound {
	var bounds []bound
	depth := 0
	start := 0
	openedBySubordinator := false
	for i, tok := range tokens {
		switch tok.Kind {
		case substrate.TokenPunctuation:
			switch tok.Text {
			case "(":
				depth++
				continue
			case ")":
				if depth > 0 {
					depth--
				}
				continue
			}
			if depth > 0 {
				continue
			}
			switch tok.Text {
			case ".", ";", "!", "?":
				bounds = append(bounds, bound{start, i})
				start = i + 1
				openedBySubordinator = false
				continue
			case ",":
				// A comma closes a condition/exception clause that began
				// with a subordinator, or precedes an explicit "then"
				// marking the start of the main clause.
				if openedBySubordinator || followsWithThen(tokens, i) {
					bounds = append(bounds, bound{start, i})
					start = i + 1
					openedBySubordinator = false
				}
				continue
			}
		case substrate.TokenWord:
			if depth > 0 {
				continue
			}
			lower := strings.ToLower(tok.Text)
			if i == start && (conditionStartWords[lower] || exceptionWords[lower]) {
				openedBySubordinator = true
				continue
			}
			if i > start && (andWords[lower] || conditionStartWords[lower] || exceptionWords[lower]) {
				bounds = append(bounds, bound{start, i})
				start = i
				openedBySubordinator = conditionStartWords[lower] || exceptionWords[lower]
			}
		}
	}
	if start < len(tokens) {
		bounds = append(bounds, bound{start, len(tokens)})
	}
	return bounds
}

func followsWithThen(tokens []substrate.Token, commaIdx int) bool {
	for j := commaIdx + 1; j < len(tokens); j++ {
		if tokens[j].Kind == substrate.TokenWhitespace {
			continue
		}
		return tokens[j].Kind == substrate.TokenWord && thenWords[strings.ToLower(tokens[j].Text)]
	}
	return false
}

func classifySegment(span substrate.Span, tokens []substrate.Token) Clause {
	first := strings.ToLower(firstWord(tokens))
	switch {
	case conditionStartWords[first]:
		s := span
		return Clause{Span: span, ConditionSpan: &s}
	case exceptionWords[first]:
		s := span
		return Clause{Span: span, ExceptionSpan: &s}
	default:
		s := span
		return Clause{Span: span, EffectSpan: &s}
	}
}

func firstWord(tokens []substrate.Token) string {
	for _, t := range tokens {
		if t.Kind == substrate.TokenWord {
			return t.Text
		}
	}
	return ""
}

func spanOfTokens(line int, tokens []substrate.Token) substrate.Span {
	if len(tokens) == 0 {
		return substrate.MustSpan(line, 0, 0)
	}
	return substrate.MustSpan(line, tokens[0].Span.Start().Char, tokens[len(tokens)-1].Span.End().Char)
}
