package clauses

import (
	"github.com/turtacn/layeredcontracts/internal/entities"
	"github.com/turtacn/layeredcontracts/internal/scopeops"
	"github.com/turtacn/layeredcontracts/internal/scoring"
	"github.com/turtacn/layeredcontracts/internal/substrate"
)

// AttributeClauseLink is the attribute type the clause link resolver
// emits: a scopeops.SpanLink[scopeops.ClauseRole] stored on the anchor
// clause's span.
const AttributeClauseLink substrate.AttributeType = "clauses.ClauseLink"

// ClauseLinkConfig mirrors spec.md §6's clause_link.cross_line_enabled
// option; same-line linking applies regardless.
type ClauseLinkConfig struct {
	CrossLineEnabled bool
}

// DefaultClauseLinkConfig returns the spec.md §6 default (cross-line
// linking disabled).
func DefaultClauseLinkConfig() ClauseLinkConfig {
	return ClauseLinkConfig{CrossLineEnabled: false}
}

// ResolveClauseLinks reads the already-segmented AttributeClause
// attributes and produces Parent/Child, Conjunct, Exception, and
// CrossReference edges (spec.md §4.7). It is a multi-attribute,
// cross-clause stage and so is invoked directly rather than through
// Document.Apply, following the same pattern as scopeanalysis's modal
// scope analyzer.
func ResolveClauseLinks(doc *substrate.Document, cfg ClauseLinkConfig) []substrate.Assignment {
	clauseAttrs := doc.Attributes().FindAll(AttributeClause)
	sectionRefs := doc.Attributes().FindAll(entities.AttributeSectionReference)

	var out []substrate.Assignment
	byLine := make(map[int][]substrate.Attribute)
	for _, c := range clauseAttrs {
		byLine[c.Span.Line()] = append(byLine[c.Span.Line()], c)
	}

	for _, clausesOnLine := range byLine {
		out = append(out, conjunctLinks(clausesOnLine)...)
		out = append(out, conditionEffectLinks(clausesOnLine)...)
		out = append(out, exceptionLinks(clausesOnLine)...)
	}
	out = append(out, crossReferenceLinks(clauseAttrs, sectionRefs)...)

	if cfg.CrossLineEnabled {
		out = append(out, crossLineConjunctLinks(clauseAttrs)...)
	}
	return out
}

// conjunctLinks chains consecutive non-condition, non-exception clauses
// on the same line: A→B, B→C for "A, B, and C" coordination.
func conjunctLinks(clausesOnLine []substrate.Attribute) []substrate.Assignment {
	var out []substrate.Assignment
	var effects []substrate.Attribute
	for _, c := range clausesOnLine {
		clause := c.Value.(scoring.Scored[Clause]).Value
		if clause.EffectSpan != nil {
			effects = append(effects, c)
		}
	}
	for i := 0; i+1 < len(effects); i++ {
		link := scopeops.NewSpanLink(scopeops.ClauseConjunct, effects[i+1].Span)
		out = append(out, substrate.Assignment{Span: effects[i].Span, Value: link})
	}
	return out
}

// conditionEffectLinks links each condition clause to the effect clause
// immediately following it as Parent (on the effect, pointing at the
// condition) and Child (on the condition, pointing at the effect).
func conditionEffectLinks(clausesOnLine []substrate.Attribute) []substrate.Assignment {
	var out []substrate.Assignment
	for i, c := range clausesOnLine {
		clause := c.Value.(scoring.Scored[Clause]).Value
		if clause.ConditionSpan == nil {
			continue
		}
		if i+1 >= len(clausesOnLine) {
			continue
		}
		next := clausesOnLine[i+1]
		nextClause := next.Value.(scoring.Scored[Clause]).Value
		if nextClause.EffectSpan == nil {
			continue
		}
		out = append(out, substrate.Assignment{Span: next.Span, Value: scopeops.NewSpanLink(scopeops.ClauseParent, c.Span)})
		out = append(out, substrate.Assignment{Span: c.Span, Value: scopeops.NewSpanLink(scopeops.ClauseChild, next.Span)})
	}
	return out
}

// exceptionLinks links each exception clause to the nearest preceding
// effect clause on the same line, which it modifies.
func exceptionLinks(clausesOnLine []substrate.Attribute) []substrate.Assignment {
	var out []substrate.Assignment
	var lastEffect *substrate.Attribute
	for i := range clausesOnLine {
		c := clausesOnLine[i]
		clause := c.Value.(scoring.Scored[Clause]).Value
		if clause.EffectSpan != nil {
			lastEffect = &clausesOnLine[i]
			continue
		}
		if clause.ExceptionSpan != nil && lastEffect != nil {
			out = append(out, substrate.Assignment{Span: c.Span, Value: scopeops.NewSpanLink(scopeops.ClauseException, lastEffect.Span)})
		}
	}
	return out
}

// crossReferenceLinks links each clause to any section reference whose
// span it covers.
func crossReferenceLinks(clauseAttrs, sectionRefs []substrate.Attribute) []substrate.Assignment {
	var out []substrate.Assignment
	for _, c := range clauseAttrs {
		for _, ref := range sectionRefs {
			if c.Span.Covers(ref.Span) {
				out = append(out, substrate.Assignment{Span: c.Span, Value: scopeops.NewSpanLink(scopeops.ClauseCrossReference, ref.Span)})
			}
		}
	}
	return out
}

// crossLineConjunctLinks is the feature-gated extension of conjunct
// chaining across lines. Only engaged when ClauseLinkConfig.CrossLineEnabled
// is set. It links the last clause of line N to the first clause of line
// N+1 whenever both lines carry clauses; it does not check the clauses'
// roles or whether line N already ends with a sentence-final terminator.
func crossLineConjunctLinks(clauseAttrs []substrate.Attribute) []substrate.Assignment {
	byLine := make(map[int][]substrate.Attribute)
	maxLine := -1
	for _, c := range clauseAttrs {
		line := c.Span.Line()
		byLine[line] = append(byLine[line], c)
		if line > maxLine {
			maxLine = line
		}
	}
	var out []substrate.Assignment
	for line := 0; line < maxLine; line++ {
		cur := byLine[line]
		next := byLine[line+1]
		if len(cur) == 0 || len(next) == 0 {
			continue
		}
		out = append(out, substrate.Assignment{Span: cur[len(cur)-1].Span, Value: scopeops.NewSpanLink(scopeops.ClauseConjunct, next[0].Span)})
	}
	return out
}
