package graphstore

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/layeredcontracts/internal/parties"
	"github.com/turtacn/layeredcontracts/internal/substrate"
)

func TestPartySummaryZeroValue(t *testing.T) {
	var p PartySummary
	assert.Equal(t, "", p.Party)
	assert.Equal(t, 0, p.ObligationCount)
	assert.Equal(t, 0, p.NeedsReviewCount)
}

func TestAccountabilityGraphShapeIsExportable(t *testing.T) {
	graph := parties.AccountabilityGraph{
		Nodes: []parties.ObligationNode{
			{Span: substrate.MustSpan(0, 0, 10), Obligor: "Tenant", Voice: parties.Active},
		},
		Beneficiary: []parties.BeneficiaryLink{
			{ObligationSpan: substrate.MustSpan(0, 0, 10), BeneficiaryText: "Landlord"},
		},
		Conditions: []parties.ConditionLink{
			{ObligationSpan: substrate.MustSpan(0, 0, 10), ConditionSpan: substrate.MustSpan(1, 0, 20)},
		},
	}

	assert.Len(t, graph.Nodes, 1)
	assert.Equal(t, "Tenant", graph.Nodes[0].Obligor)
	assert.Len(t, graph.Beneficiary, 1)
	assert.Len(t, graph.Conditions, 1)
}
