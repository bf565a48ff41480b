package substrate

import "reflect"

// AttributeType names a family of annotations a resolver produces, e.g.
// "lexical.PartOfSpeech" or "obligations.Phrase". Resolvers declare the
// single AttributeType they own; the pipeline uses it to order stages and
// to answer FindAll/FindAt queries without reflection over value types.
type AttributeType string

// Attribute is one annotation recorded against a Span: a typed value
// produced by exactly one resolver family. Value is typically a
// scoring.Scored[T], scoring.Ambiguous[T], or scopeops.SpanLink[Role], but
// AttributeStore itself is agnostic to what Value holds.
type Attribute struct {
	Type  AttributeType
	Span  Span
	Value any
}

// AttributeStore is the append-only annotation layer attached to a
// Document. New attributes are added by Document.Apply as a resolver runs;
// nothing already in the store is ever mutated or removed, matching the
// substrate's immutability invariant.
type AttributeStore struct {
	order  []AttributeType
	byType map[AttributeType][]Attribute
}

// NewAttributeStore returns an empty store.
func NewAttributeStore() *AttributeStore {
	return &AttributeStore{byType: make(map[AttributeType][]Attribute)}
}

// Clone returns a deep-enough copy suitable for copy-on-write: the
// per-type slices are copied so appending to the clone never affects the
// original, while attribute Values themselves are shared (they are never
// mutated after being added).
func (s *AttributeStore) Clone() *AttributeStore {
	clone := NewAttributeStore()
	clone.order = append([]AttributeType(nil), s.order...)
	for t, attrs := range s.byType {
		clone.byType[t] = append([]Attribute(nil), attrs...)
	}
	return clone
}

// Add records a new attribute. It returns false without modifying the
// store if an attribute with the same Type, Span, and Value (by
// reflect.DeepEqual) already exists — the dedup rule that keeps repeated
// resolver runs over unchanged text idempotent.
func (s *AttributeStore) Add(t AttributeType, span Span, value any) bool {
	for _, existing := range s.byType[t] {
		if existing.Span == span && reflect.DeepEqual(existing.Value, value) {
			return false
		}
	}
	if _, seen := s.byType[t]; !seen {
		s.order = append(s.order, t)
	}
	s.byType[t] = append(s.byType[t], Attribute{Type: t, Span: span, Value: value})
	return true
}

// Types returns every attribute type present in the store, in the order
// each type was first added. Used by the snapshot surface to assign
// stable per-type ID prefixes.
func (s *AttributeStore) Types() []AttributeType {
	return append([]AttributeType(nil), s.order...)
}

// FindAll returns every attribute of the given type, in insertion order.
func (s *AttributeStore) FindAll(t AttributeType) []Attribute {
	return append([]Attribute(nil), s.byType[t]...)
}

// FindAt returns every attribute of the given type whose span contains p.
func (s *AttributeStore) FindAt(t AttributeType, p Position) []Attribute {
	var out []Attribute
	for _, a := range s.byType[t] {
		if a.Span.ContainsPosition(p) {
			out = append(out, a)
		}
	}
	return out
}

// FindCovering returns every attribute of the given type whose span
// fully covers the given span.
func (s *AttributeStore) FindCovering(t AttributeType, span Span) []Attribute {
	var out []Attribute
	for _, a := range s.byType[t] {
		if a.Span.Covers(span) {
			out = append(out, a)
		}
	}
	return out
}

// FindOverlapping returns every attribute of the given type whose span
// overlaps the given span.
func (s *AttributeStore) FindOverlapping(t AttributeType, span Span) []Attribute {
	var out []Attribute
	for _, a := range s.byType[t] {
		if a.Span.Overlaps(span) {
			out = append(out, a)
		}
	}
	return out
}

// Count returns the number of attributes recorded for the given type.
func (s *AttributeStore) Count(t AttributeType) int {
	return len(s.byType[t])
}
