// Package scopeops implements the generic typed-relation and
// scope-operator machinery spec.md §3/§4.6 describes: SpanLink[Role] is
// a typed directed edge between spans; ScopeOperator[O] is a
// trigger-plus-domain relation (negation, quantifier, precedence,
// deixis) whose domain may itself be ambiguous (N-best).
package scopeops

import (
	"sort"

	"github.com/turtacn/layeredcontracts/internal/substrate"
)

// ScopeDimension classifies the family a ScopeOperator belongs to.
type ScopeDimension string

const (
	DimensionNegation   ScopeDimension = "Negation"
	DimensionQuantifier ScopeDimension = "Quantifier"
	DimensionPrecedence ScopeDimension = "Precedence"
	DimensionDeictic    ScopeDimension = "Deictic"
	DimensionOther      ScopeDimension = "Other"
)

// DomainCandidate is one N-best candidate span for a scope operator's
// domain, ranked by Score.
type DomainCandidate struct {
	Span  substrate.Span
	Score float64
}

// ScopeDomain is an ordered list of DomainCandidate, sorted by
// descending Score. Invariant (spec.md §8): Primary returns ok == false
// iff Candidates is empty.
type ScopeDomain struct {
	Candidates []DomainCandidate
}

// NewScopeDomain sorts candidates by descending score and returns the
// resulting ScopeDomain.
func NewScopeDomain(candidates []DomainCandidate) ScopeDomain {
	sorted := append([]DomainCandidate(nil), candidates...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})
	return ScopeDomain{Candidates: sorted}
}

// Primary returns the highest-scoring candidate and true, or the zero
// value and false when the domain has no candidates.
func (d ScopeDomain) Primary() (DomainCandidate, bool) {
	if len(d.Candidates) == 0 {
		return DomainCandidate{}, false
	}
	return d.Candidates[0], true
}

// ScopeOperator is a trigger word (the anchor span where "not" or
// "every" appears) paired with the domain it is believed to govern and
// any dimension-specific payload (e.g. NegationKind, QuantifierKind).
type ScopeOperator[O any] struct {
	Dimension ScopeDimension
	Trigger   substrate.Span
	Domain    ScopeDomain
	Payload   O
}

// NewScopeOperator constructs a ScopeOperator with a single-candidate
// domain at score 1.0, the common case when a resolver is confident
// about the boundary it computed.
func NewScopeOperator[O any](dimension ScopeDimension, trigger substrate.Span, domain substrate.Span, payload O) ScopeOperator[O] {
	return ScopeOperator[O]{
		Dimension: dimension,
		Trigger:   trigger,
		Domain:    NewScopeDomain([]DomainCandidate{{Span: domain, Score: 1.0}}),
		Payload:   payload,
	}
}

// ClauseRole enumerates the clause-structure relation family (spec.md
// §4.7). Parent/Child are emitted as a reciprocal pair.
type ClauseRole string

const (
	ClauseParent         ClauseRole = "Parent"
	ClauseChild          ClauseRole = "Child"
	ClauseConjunct       ClauseRole = "Conjunct"
	ClauseException      ClauseRole = "Exception"
	ClauseCrossReference ClauseRole = "CrossReference"
)

// AttachmentRole enumerates generic entity-to-anchor attachments: a term
// reference pointing back to its DefinedTerm, a pronoun pointing to its
// antecedent, a section reference pointing at the section it names.
type AttachmentRole string

const (
	AttachesToDefinition AttachmentRole = "AttachesToDefinition"
	AttachesToAntecedent AttachmentRole = "AttachesToAntecedent"
	AttachesToSection    AttachmentRole = "AttachesToSection"
)

// SemanticRole enumerates the frame slots spec.md §4.10 names.
type SemanticRole string

const (
	RoleAgent       SemanticRole = "Agent"
	RolePatient     SemanticRole = "Patient"
	RoleTheme       SemanticRole = "Theme"
	RoleRecipient   SemanticRole = "Recipient"
	RoleBeneficiary SemanticRole = "Beneficiary"
)

// ConflictRole enumerates the two sides of a detected conflict pair, so
// a SpanLink[ConflictRole] on one obligation's span can point at the
// other side of the same conflict.
type ConflictRole string

const (
	ConflictSideA ConflictRole = "ConflictSideA"
	ConflictSideB ConflictRole = "ConflictSideB"
)

// SpanLink is a typed directed edge: Role names the relation family
// member, Target is the span the anchor (the span this link is stored
// under, in the AttributeStore) points at.
type SpanLink[Role any] struct {
	Role   Role
	Target substrate.Span
}

// NewSpanLink constructs a SpanLink.
func NewSpanLink[Role any](role Role, target substrate.Span) SpanLink[Role] {
	return SpanLink[Role]{Role: role, Target: target}
}
