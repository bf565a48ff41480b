package parties

import (
	"github.com/turtacn/layeredcontracts/internal/scoring"
	"github.com/turtacn/layeredcontracts/internal/substrate"
)

// ObligationNode is one node of the accountability graph: an obligation
// keyed by its span, tagged with its resolved obligor and voice so a
// downstream aggregator can group by party without re-walking the
// attribute store (SPEC_FULL.md §4, grounded on
// original_source/layered-contracts/src/accountability_graph.rs).
type ObligationNode struct {
	Span    substrate.Span
	Obligor string
	Voice   Voice
}

// BeneficiaryLink connects an obligation node to the party it benefits.
type BeneficiaryLink struct {
	ObligationSpan  substrate.Span
	BeneficiaryText string
}

// ConditionLink connects an obligation node to the span of a condition
// clause that governs it, when the clause structure layer has already
// linked one (spec.md §4.7's Parent/Child edges feed this).
type ConditionLink struct {
	ObligationSpan substrate.Span
	ConditionSpan  substrate.Span
}

// AccountabilityGraph is the pure in-core construction spec.md §1 calls
// out as feeding an external "accountability graph analytics"
// collaborator; the aggregation itself (party summaries, verification
// queue rollups) is out of core and lives in internal/graphstore.
type AccountabilityGraph struct {
	Nodes       []ObligationNode
	Beneficiary []BeneficiaryLink
	Conditions  []ConditionLink
}

// BuildAccountabilityGraph reads AttributeLinkedObligation off doc and
// assembles the node and edge lists. conditionOf is supplied by the
// caller (the pipeline wires it from internal/clauses' clause link
// resolver) rather than read directly here, keeping this package free of
// a dependency on internal/clauses.
func BuildAccountabilityGraph(doc *substrate.Document, conditionOf func(obligationSpan substrate.Span) (substrate.Span, bool)) AccountabilityGraph {
	var graph AccountabilityGraph
	for _, attr := range doc.Attributes().FindAll(AttributeLinkedObligation) {
		reviewable := attr.Value.(scoring.ReviewableResult[scoring.Scored[LinkedObligation]])
		linked := reviewable.Value.Value
		graph.Nodes = append(graph.Nodes, ObligationNode{Span: attr.Span, Obligor: linked.Obligor.Text, Voice: linked.Voice})
		if linked.Beneficiary != nil {
			graph.Beneficiary = append(graph.Beneficiary, BeneficiaryLink{ObligationSpan: attr.Span, BeneficiaryText: linked.Beneficiary.Text})
		}
		if conditionOf != nil {
			if condSpan, ok := conditionOf(attr.Span); ok {
				graph.Conditions = append(graph.Conditions, ConditionLink{ObligationSpan: attr.Span, ConditionSpan: condSpan})
			}
		}
	}
	return graph
}
