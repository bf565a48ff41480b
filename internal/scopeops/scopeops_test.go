package scopeops_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/layeredcontracts/internal/scopeops"
	"github.com/turtacn/layeredcontracts/internal/substrate"
)

func TestScopeDomainPrimaryEmpty(t *testing.T) {
	var d scopeops.ScopeDomain
	_, ok := d.Primary()
	assert.False(t, ok)
}

func TestNewScopeDomainSortsDescending(t *testing.T) {
	low := substrate.MustSpan(0, 0, 3)
	high := substrate.MustSpan(0, 3, 6)
	d := scopeops.NewScopeDomain([]scopeops.DomainCandidate{
		{Span: low, Score: 0.2},
		{Span: high, Score: 0.9},
	})
	primary, ok := d.Primary()
	assert.True(t, ok)
	assert.Equal(t, high, primary.Span)
}

func TestSpanLinkRoundTrip(t *testing.T) {
	target := substrate.MustSpan(1, 0, 5)
	link := scopeops.NewSpanLink(scopeops.ClauseParent, target)
	assert.Equal(t, scopeops.ClauseParent, link.Role)
	assert.Equal(t, target, link.Target)
}
