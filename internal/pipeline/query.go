package pipeline

import "github.com/turtacn/layeredcontracts/internal/substrate"

// Typed pairs a span with the value recorded there, typed as T instead
// of any. The three generic query functions below implement spec.md
// §6's attribute query surface (find_all<T>, find_at<T>, find_covering<T>)
// for callers that know the concrete type an attribute type's Value
// holds (usually a scoring.Scored[X], scoring.Ambiguous[X],
// scoring.ReviewableResult[X], or scopeops.SpanLink[Role]).
type Typed[T any] struct {
	Span  substrate.Span
	Value T
}

// FindAll returns every attribute of type t, in insertion order, with
// Value already asserted to T. A value that does not assert to T is
// silently skipped rather than panicking: a caller mixing up an
// attribute type's Go shape is a programming error the test suite
// catches, not something Analyze's output should crash over.
func FindAll[T any](doc *substrate.Document, t substrate.AttributeType) []Typed[T] {
	attrs := doc.Attributes().FindAll(t)
	out := make([]Typed[T], 0, len(attrs))
	for _, a := range attrs {
		if v, ok := a.Value.(T); ok {
			out = append(out, Typed[T]{Span: a.Span, Value: v})
		}
	}
	return out
}

// FindAt returns the values of every attribute of type t whose span
// contains position p.
func FindAt[T any](doc *substrate.Document, t substrate.AttributeType, p substrate.Position) []T {
	attrs := doc.Attributes().FindAt(t, p)
	out := make([]T, 0, len(attrs))
	for _, a := range attrs {
		if v, ok := a.Value.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

// FindCovering returns the values of every attribute of type t whose
// span fully covers span.
func FindCovering[T any](doc *substrate.Document, t substrate.AttributeType, span substrate.Span) []T {
	attrs := doc.Attributes().FindCovering(t, span)
	out := make([]T, 0, len(attrs))
	for _, a := range attrs {
		if v, ok := a.Value.(T); ok {
			out = append(out, v)
		}
	}
	return out
}
