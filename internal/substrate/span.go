package substrate

import (
	"fmt"

	"github.com/turtacn/layeredcontracts/pkg/errors"
)

// Span identifies a contiguous run of characters in a Document. Most spans
// cover a single line; Span also supports multi-line runs for attributes
// such as cross-line clause links that span a semicolon-joined sentence.
//
// A Span is a value type: two spans with equal fields are considered equal
// by AttributeStore's deduplication logic, so Span must never carry
// pointers or other non-comparable fields.
type Span struct {
	start Position
	end   Position
}

// NewSpan constructs a single-line Span covering [startChar, endChar) on the
// given line. It returns a *errors.AppError with CodeInvalidSpan when
// endChar < startChar; callers that construct spans from fixed offsets they
// control may ignore the error, but resolver code must propagate it.
func NewSpan(line, startChar, endChar int) (Span, error) {
	return NewMultiLineSpan(Position{Line: line, Char: startChar}, Position{Line: line, Char: endChar})
}

// NewMultiLineSpan constructs a Span from an explicit start and end
// Position. end must not sort strictly before start.
func NewMultiLineSpan(start, end Position) (Span, error) {
	if end.Before(start) {
		return Span{}, errors.InvalidSpan(fmt.Sprintf("span end %s precedes start %s", end, start))
	}
	return Span{start: start, end: end}, nil
}

// MustSpan is NewSpan for call sites that construct spans from values known
// at compile time or already validated; it panics on an invalid span since
// that indicates a substrate-contract violation in the calling resolver.
func MustSpan(line, startChar, endChar int) Span {
	s, err := NewSpan(line, startChar, endChar)
	if err != nil {
		panic(err)
	}
	return s
}

// Start returns the inclusive start position of the span.
func (s Span) Start() Position { return s.start }

// End returns the exclusive end position of the span.
func (s Span) End() Position { return s.end }

// SingleLine reports whether the span starts and ends on the same line.
func (s Span) SingleLine() bool { return s.start.Line == s.end.Line }

// Line returns the line index for a single-line span. Callers must check
// SingleLine first; Line returns the start line regardless.
func (s Span) Line() int { return s.start.Line }

// Len returns the number of runes covered by a single-line span. It returns
// -1 for a multi-line span, where "length" is not a single number.
func (s Span) Len() int {
	if !s.SingleLine() {
		return -1
	}
	return s.end.Char - s.start.Char
}

// Empty reports whether the span covers zero characters.
func (s Span) Empty() bool {
	return s.start.Equal(s.end)
}

// Covers reports whether s fully contains other: other.start is not before
// s.start, and other.end is not after s.end.
func (s Span) Covers(other Span) bool {
	return !other.start.Before(s.start) && !s.end.Before(other.end)
}

// Overlaps reports whether s and other share at least one character
// position. Two empty, equal-position spans do not overlap.
func (s Span) Overlaps(other Span) bool {
	if s.Empty() || other.Empty() {
		return false
	}
	return s.start.Before(other.end) && other.start.Before(s.end)
}

// ContainsPosition reports whether p lies within [start, end).
func (s Span) ContainsPosition(p Position) bool {
	return !p.Before(s.start) && p.Before(s.end)
}

func (s Span) String() string {
	if s.SingleLine() {
		return fmt.Sprintf("%d:%d-%d", s.start.Line, s.start.Char, s.end.Char)
	}
	return fmt.Sprintf("%s-%s", s.start, s.end)
}
