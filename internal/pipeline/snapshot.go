package pipeline

import (
	"fmt"

	"github.com/turtacn/layeredcontracts/internal/clauses"
	"github.com/turtacn/layeredcontracts/internal/conflicts"
	"github.com/turtacn/layeredcontracts/internal/deixis"
	"github.com/turtacn/layeredcontracts/internal/entities"
	"github.com/turtacn/layeredcontracts/internal/lexical"
	"github.com/turtacn/layeredcontracts/internal/obligations"
	"github.com/turtacn/layeredcontracts/internal/parties"
	"github.com/turtacn/layeredcontracts/internal/scopeanalysis"
	"github.com/turtacn/layeredcontracts/internal/semantics"
	"github.com/turtacn/layeredcontracts/internal/substrate"
)

// snapshotPrefix assigns the stable per-type ID prefix spec.md §6's
// snapshot surface names ("dt-0", "ob-1", ...). The map is exhaustive
// over every AttributeType the core and the optional deixis package
// produce; a type missing from this map gets no stable prefix and is
// dropped from Snapshot, which only happens if a new resolver stage is
// added without updating this table.
var snapshotPrefix = map[substrate.AttributeType]string{
	lexical.AttributePOSTag:              "pos",
	lexical.AttributeModalKeyword:        "mk",
	lexical.AttributeDefinitionMarker:    "dm",
	lexical.AttributeProhibition:         "pb",
	lexical.AttributeSectionHeader:       "sh",
	entities.AttributeDefinedTerm:        "dt",
	entities.AttributeTermReference:      "tr",
	entities.AttributePronoun:            "pn",
	entities.AttributeAntecedent:         "an",
	entities.AttributeSectionReference:   "sf",
	entities.AttributeTemporalExpression: "te",
	obligations.AttributeObligationPhrase: "ob",
	scopeanalysis.AttributeNegationOp:     "ng",
	scopeanalysis.AttributeQuantifierOp:   "qt",
	scopeanalysis.AttributeModalScope:     "ms",
	clauses.AttributeClauseKeyword:        "ck",
	clauses.AttributeClause:               "cl",
	clauses.AttributeClauseLink:           "cx",
	parties.AttributeLinkedObligation:     "lo",
	conflicts.AttributeConflictLink:       "cf",
	semantics.AttributeFrame:              "fr",
	semantics.AttributeSemanticRoleLink:   "rl",
	deixis.AttributeDeicticReference:      "dx",
}

// SnapshotEntry is one row of the snapshot surface: a stable ID, the
// span and value a resolver recorded, and every other attribute
// (regardless of type) anchored at the exact same span, which the
// snapshot renderer uses to show related annotations (e.g. an
// obligation phrase alongside its modal-scope composition) without
// re-querying the document.
type SnapshotEntry struct {
	ID           string
	Span         substrate.Span
	Value        any
	Associations []substrate.Attribute
}

// Snapshot walks every attribute type in the order it was first added
// to doc (AttributeStore.Types, which is insertion order, i.e. pipeline
// stage order) and, within each type, every attribute in the order it
// was recorded, assigning "<prefix>-<index>" IDs. This is the surface
// the out-of-core snapshot-rendering collaborator (RON serialization,
// explicitly out of scope per spec.md §1) consumes instead of walking
// the AttributeStore directly.
func Snapshot(doc *substrate.Document) []SnapshotEntry {
	store := doc.Attributes()
	var out []SnapshotEntry
	for _, t := range store.Types() {
		prefix, ok := snapshotPrefix[t]
		if !ok {
			continue
		}
		for i, a := range store.FindAll(t) {
			out = append(out, SnapshotEntry{
				ID:           fmt.Sprintf("%s-%d", prefix, i),
				Span:         a.Span,
				Value:        a.Value,
				Associations: associationsAt(doc, t, a.Span),
			})
		}
	}
	return out
}

// associationsAt returns every attribute of a different type anchored
// at exactly the same span as (t, span).
func associationsAt(doc *substrate.Document, t substrate.AttributeType, span substrate.Span) []substrate.Attribute {
	store := doc.Attributes()
	var out []substrate.Attribute
	for _, other := range store.Types() {
		if other == t {
			continue
		}
		for _, a := range store.FindAll(other) {
			if a.Span == span {
				out = append(out, a)
			}
		}
	}
	return out
}
