// Package scopeanalysis implements spec.md §4.6: negation and
// quantifier scope-operator detection, the scope-ambiguity flagger, and
// the modal-scope analyzer that composes them with obligation
// classification into a single reviewable confidence.
package scopeanalysis

import "github.com/turtacn/layeredcontracts/internal/substrate"

// clauseEndFrom returns the token index of the nearest clause boundary
// at or after start: a comma, semicolon, coordinating conjunction, or
// sentence-final punctuation (spec.md §4.6 "rightward domain extends to
// the nearest clause boundary"). It returns len(tokens) if none found.
func clauseEndFrom(tokens []substrate.Token, start int) int {
	for i := start; i < len(tokens); i++ {
		if tokens[i].Kind != substrate.TokenWord && tokens[i].Kind != substrate.TokenPunctuation {
			continue
		}
		switch tokens[i].Text {
		case ".", ";", "!", "?", ",":
			return i
		case "and", "or", "but":
			if i > start {
				return i
			}
		}
	}
	return len(tokens)
}

func indexOfSpan(tokens []substrate.Token, span substrate.Span) int {
	for i, t := range tokens {
		if t.Span == span {
			return i
		}
	}
	return -1
}

func spanOfTokens(line int, tokens []substrate.Token) substrate.Span {
	if len(tokens) == 0 {
		return substrate.MustSpan(line, 0, 0)
	}
	return substrate.MustSpan(line, tokens[0].Span.Start().Char, tokens[len(tokens)-1].Span.End().Char)
}
