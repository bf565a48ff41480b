// Package clauses implements spec.md §4.7: clause segmentation, the
// clause link resolver (Parent/Child/Conjunct/Exception/CrossReference
// edges), the clause query API, and the supplemented AggregateByObligor
// rollup (SPEC_FULL.md §4).
package clauses

import (
	"strings"

	"github.com/turtacn/layeredcontracts/internal/scoring"
	"github.com/turtacn/layeredcontracts/internal/substrate"
)

// AttributeClauseKeyword is the attribute type ClauseKeywordResolver
// emits.
const AttributeClauseKeyword substrate.AttributeType = "clauses.ClauseKeyword"

// ClauseKeyword classifies a clause-structuring word.
type ClauseKeyword string

const (
	ConditionStart ClauseKeyword = "ConditionStart"
	Then           ClauseKeyword = "Then"
	And            ClauseKeyword = "And"
	Exception      ClauseKeyword = "Exception"
)

var conditionStartWords = map[string]bool{"if": true, "when": true}
var andWords = map[string]bool{"and": true, "or": true, "but": true}
var thenWords = map[string]bool{"then": true}
var exceptionWords = map[string]bool{
	"except": true, "unless": true, "notwithstanding": true,
	"provided": true, "subject": true,
}

// ClauseKeywordResolver recognizes the closed vocabulary spec.md §4.7
// uses to find clause boundaries: conditionals, coordinators, and
// exception/subordinator triggers.
type ClauseKeywordResolver struct{}

var _ substrate.Resolver = ClauseKeywordResolver{}

func (ClauseKeywordResolver) AttributeType() substrate.AttributeType { return AttributeClauseKeyword }

func (ClauseKeywordResolver) Resolve(_ *substrate.Document, sel substrate.Selection) []substrate.Assignment {
	var out []substrate.Assignment
	for _, tok := range sel.Tokens() {
		if tok.Kind != substrate.TokenWord {
			continue
		}
		lower := strings.ToLower(tok.Text)
		var kw ClauseKeyword
		switch {
		case conditionStartWords[lower]:
			kw = ConditionStart
		case thenWords[lower]:
			kw = Then
		case andWords[lower]:
			kw = And
		case exceptionWords[lower]:
			kw = Exception
		default:
			continue
		}
		out = append(out, sel.FinishSpan(tok.Span, scoring.New(kw, 0.9, scoring.RuleKeyword)))
	}
	return out
}
