package conflicts

import (
	"github.com/turtacn/layeredcontracts/internal/entities"
	"github.com/turtacn/layeredcontracts/internal/lexical"
	"github.com/turtacn/layeredcontracts/internal/scoring"
	"github.com/turtacn/layeredcontracts/internal/substrate"
)

// PrecedenceOutcome names which side of a Conflict governs, per spec.md
// §4.9's precedence rules.
type PrecedenceOutcome string

const (
	PrecedenceA          PrecedenceOutcome = "SideA"
	PrecedenceB          PrecedenceOutcome = "SideB"
	PrecedenceUnresolved PrecedenceOutcome = "Unresolved"
)

// PrecedenceResolver decides which side of a conflict controls, using
// (in order) explicit "notwithstanding"/"subject to" section references
// and, failing that, which side sits in the more deeply nested section
// (grounded on original_source/layered-contracts/src/precedence.rs).
type PrecedenceResolver struct {
	headers map[substrate.Span]*lexical.SectionNode
	bySpan  map[int]substrate.Span // section header span keyed by line
	byNum   map[string]substrate.Span
}

// NewPrecedenceResolver builds the section index a document's obligations
// will be checked against. sectionHeaders are the raw
// AttributeSectionHeader attributes off doc; section references are passed
// to Resolve separately, grouped by GroupReferencesByLine.
func NewPrecedenceResolver(sectionHeaders []substrate.Attribute) *PrecedenceResolver {
	tree := lexical.BuildSectionTree(sectionHeaders)
	r := &PrecedenceResolver{
		headers: tree,
		bySpan:  make(map[int]substrate.Span, len(sectionHeaders)),
		byNum:   make(map[string]substrate.Span, len(sectionHeaders)),
	}
	for _, attr := range sectionHeaders {
		scored, ok := attr.Value.(scoring.Scored[lexical.SectionHeader])
		if !ok {
			continue
		}
		r.bySpan[attr.Span.Line()] = attr.Span
		if scored.Value.Number != "" {
			if _, exists := r.byNum[scored.Value.Number]; !exists {
				r.byNum[scored.Value.Number] = attr.Span
			}
		}
	}
	return r
}

// enclosingSection returns the section header governing the given line:
// the header with the greatest line number not after it.
func (r *PrecedenceResolver) enclosingSection(line int) (substrate.Span, bool) {
	best, found := substrate.Span{}, false
	bestLine := -1
	for headerLine, span := range r.bySpan {
		if headerLine <= line && headerLine > bestLine {
			best, bestLine, found = span, headerLine, true
		}
	}
	return best, found
}

// Resolve decides precedence for a conflict using section references on
// each side's line first, then section-nesting depth.
func (r *PrecedenceResolver) Resolve(c Conflict, refsByLine map[int][]entities.SectionReference) PrecedenceOutcome {
	if outcome, ok := r.resolveByReference(c, refsByLine); ok {
		return outcome
	}
	return r.resolveByDepth(c)
}

func (r *PrecedenceResolver) resolveByReference(c Conflict, refsByLine map[int][]entities.SectionReference) (PrecedenceOutcome, bool) {
	secA, okA := r.enclosingSection(c.SpanA.Line())
	secB, okB := r.enclosingSection(c.SpanB.Line())
	if !okA || !okB {
		return "", false
	}

	for _, ref := range refsByLine[c.SpanA.Line()] {
		target, ok := r.byNum[ref.Number]
		if !ok || target != secB {
			continue
		}
		switch ref.Intent {
		case entities.IntentOverride:
			return PrecedenceA, true
		case entities.IntentCondition:
			return PrecedenceB, true
		}
	}
	for _, ref := range refsByLine[c.SpanB.Line()] {
		target, ok := r.byNum[ref.Number]
		if !ok || target != secA {
			continue
		}
		switch ref.Intent {
		case entities.IntentOverride:
			return PrecedenceB, true
		case entities.IntentCondition:
			return PrecedenceA, true
		}
	}
	return "", false
}

func (r *PrecedenceResolver) resolveByDepth(c Conflict) PrecedenceOutcome {
	secA, okA := r.enclosingSection(c.SpanA.Line())
	secB, okB := r.enclosingSection(c.SpanB.Line())
	if !okA || !okB {
		return PrecedenceUnresolved
	}
	depthA := lexical.Depth(r.headers, secA)
	depthB := lexical.Depth(r.headers, secB)
	switch {
	case depthA > depthB:
		return PrecedenceA
	case depthB > depthA:
		return PrecedenceB
	default:
		return r.resolveByNumber(secA, secB)
	}
}

// resolveByNumber breaks a same-depth tie between two numbered sections
// by which number sorts later ("4.10" governs over "4.2"): the later
// numeric subsection is assumed to have been drafted to amend or refine
// the earlier one. Non-numeric headers (Word/Alphabetic/Roman) leave the
// tie unresolved.
func (r *PrecedenceResolver) resolveByNumber(secA, secB substrate.Span) PrecedenceOutcome {
	nodeA, okA := r.headers[secA]
	nodeB, okB := r.headers[secB]
	if !okA || !okB || nodeA.Header.Kind != lexical.SectionNumeric || nodeB.Header.Kind != lexical.SectionNumeric {
		return PrecedenceUnresolved
	}
	switch lexical.CompareSectionNumbers(nodeA.Header.Number, nodeB.Header.Number) {
	case 1:
		return PrecedenceA
	case -1:
		return PrecedenceB
	default:
		return PrecedenceUnresolved
	}
}

// GroupReferencesByLine indexes a document's section-reference attributes
// by line for PrecedenceResolver.Resolve's reference lookup.
func GroupReferencesByLine(refs []substrate.Attribute) map[int][]entities.SectionReference {
	out := make(map[int][]entities.SectionReference)
	for _, attr := range refs {
		scored, ok := attr.Value.(scoring.Scored[entities.SectionReference])
		if !ok {
			continue
		}
		out[attr.Span.Line()] = append(out[attr.Span.Line()], scored.Value)
	}
	return out
}
