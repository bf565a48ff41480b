package clauses

import (
	"github.com/turtacn/layeredcontracts/internal/obligations"
	"github.com/turtacn/layeredcontracts/internal/scopeops"
	"github.com/turtacn/layeredcontracts/internal/scoring"
	"github.com/turtacn/layeredcontracts/internal/substrate"
)

// ClauseView answers the clause query API (spec.md §4.7): given a
// clause, its obligation type, obligor, referenced sections, exceptions,
// parent, children, and conjuncts. It is built once per query over the
// full attribute store rather than stored as its own attribute, since it
// is a pure read-only lookup over attributes other stages already wrote.
type ClauseView struct {
	Clause          Clause
	ObligationType  *obligations.ObligationType
	Obligor         *obligations.ObligorReference
	ReferencedSpans []substrate.Span
	ExceptionSpans  []substrate.Span
	ParentSpan      *substrate.Span
	ChildSpans      []substrate.Span
	ConjunctSpans   []substrate.Span
}

// Query builds a ClauseView for the clause anchored at span. It returns
// false if no clause is recorded at that span.
func Query(doc *substrate.Document, span substrate.Span) (ClauseView, bool) {
	clauseAttrs := doc.Attributes().FindAll(AttributeClause)
	var clause Clause
	found := false
	for _, c := range clauseAttrs {
		if c.Span == span {
			clause = c.Value.(scoring.Scored[Clause]).Value
			found = true
			break
		}
	}
	if !found {
		return ClauseView{}, false
	}

	view := ClauseView{Clause: clause}
	view.ObligationType, view.Obligor = obligationWithin(doc, span)

	links := doc.Attributes().FindAll(AttributeClauseLink)
	for _, l := range links {
		if l.Span != span {
			continue
		}
		link := l.Value.(scopeops.SpanLink[scopeops.ClauseRole])
		switch link.Role {
		case scopeops.ClauseParent:
			target := link.Target
			view.ParentSpan = &target
		case scopeops.ClauseChild:
			view.ChildSpans = append(view.ChildSpans, link.Target)
		case scopeops.ClauseConjunct:
			view.ConjunctSpans = append(view.ConjunctSpans, link.Target)
		case scopeops.ClauseException:
			view.ExceptionSpans = append(view.ExceptionSpans, link.Target)
		case scopeops.ClauseCrossReference:
			view.ReferencedSpans = append(view.ReferencedSpans, link.Target)
		}
	}
	return view, true
}

func obligationWithin(doc *substrate.Document, span substrate.Span) (*obligations.ObligationType, *obligations.ObligorReference) {
	for _, o := range doc.Attributes().FindAll(obligations.AttributeObligationPhrase) {
		if !span.Covers(o.Span) {
			continue
		}
		reviewable := o.Value.(scoring.ReviewableResult[scoring.Scored[obligations.ObligationPhrase]])
		phrase := reviewable.Value.Value
		obType := phrase.Type
		obligor := phrase.Obligor
		return &obType, &obligor
	}
	return nil, nil
}

// AggregateByObligor groups every clause in the document that carries an
// obligation by the obligor's normalized text, returning clause spans per
// obligor (SPEC_FULL.md §4 supplemented feature, a pure rollup over the
// clause query API — not a new resolver).
func AggregateByObligor(doc *substrate.Document) map[string][]substrate.Span {
	result := make(map[string][]substrate.Span)
	for _, c := range doc.Attributes().FindAll(AttributeClause) {
		view, ok := Query(doc, c.Span)
		if !ok || view.Obligor == nil {
			continue
		}
		key := view.Obligor.Text
		result[key] = append(result[key], c.Span)
	}
	return result
}
