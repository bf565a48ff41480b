// Package substrate implements the immutable line/document data structure
// that every resolver in the pipeline reads and annotates. Positions and
// spans are expressed in Unicode scalar values (runes), never bytes, so
// that span arithmetic is stable across multi-byte contract text.
package substrate

import "strings"

// Assignment is a (span, value) pair a Resolver wants recorded against its
// declared AttributeType. Resolve returns a slice of these; Document.Apply
// is responsible for actually writing them into a new AttributeStore.
type Assignment struct {
	Span  Span
	Value any
}

// Resolver is the contract every pipeline stage implements: it declares
// the single AttributeType it produces and, given a Selection over one
// line (with access back to the full Document for attributes earlier
// stages produced), returns the assignments it wants recorded.
//
// A Resolver must never mutate the Document or any Attribute it reads;
// the append-only discipline is enforced by Document.Apply, which only
// ever adds to a cloned AttributeStore.
type Resolver interface {
	AttributeType() AttributeType
	Resolve(doc *Document, sel Selection) []Assignment
}

// Document is an immutable sequence of Lines plus the AttributeStore
// accumulated by resolvers applied so far. Every Apply call returns a new
// Document; the receiver is never modified.
type Document struct {
	lines []Line
	attrs *AttributeStore
}

// NewDocument splits text on newlines and tokenizes each line, producing a
// Document with an empty AttributeStore. A trailing newline does not
// produce an extra empty final line, matching how most contract text is
// authored (no synthetic blank last line).
func NewDocument(text string) *Document {
	raw := strings.Split(text, "\n")
	if len(raw) > 1 && raw[len(raw)-1] == "" {
		raw = raw[:len(raw)-1]
	}
	lines := make([]Line, len(raw))
	for i, t := range raw {
		lines[i] = NewLine(i, t)
	}
	return &Document{lines: lines, attrs: NewAttributeStore()}
}

// LineCount returns the number of lines in the document.
func (d *Document) LineCount() int { return len(d.lines) }

// Line returns the Line at the given zero-based index.
func (d *Document) Line(i int) Line { return d.lines[i] }

// LineText returns the normalized text of the line at index i.
func (d *Document) LineText(i int) string { return d.lines[i].Text() }

// Tokens returns the token sequence of the line at index i.
func (d *Document) Tokens(i int) []Token { return d.lines[i].Tokens() }

// Attributes returns the document's current AttributeStore. The returned
// store must be treated as read-only; resolvers add attributes only via
// Apply/ApplyAssignments, which clone before writing.
func (d *Document) Attributes() *AttributeStore { return d.attrs }

// Select returns a Selection scoped to the given line, ready for a
// Resolver to scan with Match/SplitAt/Finish.
func (d *Document) Select(line int) Selection {
	return Selection{doc: d, line: line, tokens: d.lines[line].Tokens()}
}

// Apply runs resolver over every line of the document in order and
// returns a new Document whose AttributeStore includes the resulting
// assignments. The receiver is unchanged.
func (d *Document) Apply(resolver Resolver) *Document {
	var all []Assignment
	for i := range d.lines {
		sel := d.Select(i)
		all = append(all, resolver.Resolve(d, sel)...)
	}
	return d.ApplyAssignments(resolver.AttributeType(), all)
}

// ApplyAssignments writes a pre-computed set of assignments under the
// given AttributeType into a new Document. This is the hook the pipeline
// package uses to parallelize per-line resolver execution (run Resolve
// concurrently across lines, preserving per-line insertion order when
// merging) while still only ever extending the store through one
// synchronized clone-and-add step.
func (d *Document) ApplyAssignments(t AttributeType, assignments []Assignment) *Document {
	clone := d.attrs.Clone()
	for _, a := range assignments {
		clone.Add(t, a.Span, a.Value)
	}
	return &Document{lines: d.lines, attrs: clone}
}

// WithAttributes returns a new Document sharing this one's lines but with
// the given AttributeStore. Used by higher-order stages (clause linking,
// conflict detection) that read across attribute types and append their
// own directly rather than going through a single-type Resolver.
func (d *Document) WithAttributes(attrs *AttributeStore) *Document {
	return &Document{lines: d.lines, attrs: attrs}
}
