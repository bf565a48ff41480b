package lexical

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/turtacn/layeredcontracts/internal/scoring"
	"github.com/turtacn/layeredcontracts/internal/substrate"
)

// AttributeSectionHeader is the attribute type the section header
// resolver emits.
const AttributeSectionHeader substrate.AttributeType = "lexical.SectionHeader"

// SectionHeaderKind classifies which numbering scheme a header uses.
type SectionHeaderKind string

const (
	SectionNumeric    SectionHeaderKind = "Numeric"
	SectionRoman      SectionHeaderKind = "Roman"
	SectionAlphabetic SectionHeaderKind = "Alphabetic"
	SectionWord       SectionHeaderKind = "Word"
)

// SectionHeader is one detected heading: its numbering scheme, the raw
// numbering text, an optional Roman-numeral value, and a nesting Level
// derived from the numbering depth (used to build the section tree that
// the precedence resolver walks, spec.md §4.9).
type SectionHeader struct {
	Kind      SectionHeaderKind
	Text      string
	Number    string
	Roman     int
	Uppercase bool
	Level     int
}

var (
	numericHeaderRe    = regexp.MustCompile(`^(\d+(?:\.\d+)*)\.?(?:\s|$)`)
	alphaParenHeaderRe = regexp.MustCompile(`^\(([a-zA-Z])\)(?:\s|$)`)
	alphaDotHeaderRe   = regexp.MustCompile(`^([A-Za-z])\)(?:\s|$)`)
	wordHeaderRe       = regexp.MustCompile(`^(Article|Section)\s+([A-Za-z0-9.]+)`)
	romanTokenRe       = regexp.MustCompile(`^[IVXLCDMivxlcdm]+$`)
)

// SectionHeaderResolver detects section headings at the start of each
// line: numeric ("1.", "1.1"), Roman ("IV"), alphabetic ("A)", "(a)"),
// and word-introduced ("Article", "Section") forms (spec.md §4.3).
type SectionHeaderResolver struct{}

var _ substrate.Resolver = SectionHeaderResolver{}

func (SectionHeaderResolver) AttributeType() substrate.AttributeType { return AttributeSectionHeader }

func (SectionHeaderResolver) Resolve(_ *substrate.Document, sel substrate.Selection) []substrate.Assignment {
	text := strings.TrimLeft(sel.Text(), " \t")
	leadingWS := len(sel.Text()) - len(text)
	line := sel.Line()

	if m := wordHeaderRe.FindStringSubmatch(text); m != nil {
		span, ok := headerSpan(line, leadingWS, m[0])
		if !ok {
			return nil
		}
		level := 1
		if strings.EqualFold(m[1], "Section") {
			level = 2
		}
		header := SectionHeader{Kind: SectionWord, Text: m[0], Number: m[2], Level: level}
		if rn, ok := ParseRoman(m[2]); ok {
			header.Roman = rn.Value
			header.Uppercase = rn.Uppercase
		}
		return []substrate.Assignment{{Span: span, Value: scoring.New(header, 0.9, scoring.RuleKeyword)}}
	}

	if m := numericHeaderRe.FindStringSubmatch(text); m != nil {
		span, ok := headerSpan(line, leadingWS, m[0])
		if !ok {
			return nil
		}
		level := strings.Count(m[1], ".") + 1
		header := SectionHeader{Kind: SectionNumeric, Text: m[0], Number: m[1], Level: level}
		return []substrate.Assignment{{Span: span, Value: scoring.New(header, 0.95, scoring.RuleKeyword)}}
	}

	if m := alphaParenHeaderRe.FindStringSubmatch(text); m != nil {
		span, ok := headerSpan(line, leadingWS, m[0])
		if !ok {
			return nil
		}
		header := SectionHeader{Kind: SectionAlphabetic, Text: m[0], Number: m[1], Level: 3}
		return []substrate.Assignment{{Span: span, Value: scoring.New(header, 0.85, scoring.RuleKeyword)}}
	}

	if m := alphaDotHeaderRe.FindStringSubmatch(text); m != nil {
		span, ok := headerSpan(line, leadingWS, m[0])
		if !ok {
			return nil
		}
		header := SectionHeader{Kind: SectionAlphabetic, Text: m[0], Number: m[1], Level: 3}
		return []substrate.Assignment{{Span: span, Value: scoring.New(header, 0.8, scoring.RuleKeyword)}}
	}

	// Bare Roman numeral line, e.g. a standalone "IV" heading.
	fields := strings.Fields(text)
	if len(fields) > 0 && romanTokenRe.MatchString(strings.TrimRight(fields[0], ".")) {
		candidate := strings.TrimRight(fields[0], ".")
		if rn, ok := ParseRoman(candidate); ok {
			span, ok := headerSpan(line, leadingWS, fields[0])
			if !ok {
				return nil
			}
			header := SectionHeader{Kind: SectionRoman, Text: fields[0], Number: candidate, Roman: rn.Value, Uppercase: rn.Uppercase, Level: 1}
			return []substrate.Assignment{{Span: span, Value: scoring.New(header, 0.75, scoring.RuleKeyword)}}
		}
	}

	return nil
}

func headerSpan(line, offset int, matched string) (substrate.Span, bool) {
	span, err := substrate.NewSpan(line, offset, offset+len([]rune(matched)))
	return span, err == nil
}

// SectionNode is one node of the section tree built by BuildSectionTree:
// a detected header plus the spans of its immediate children, used by
// the precedence resolver to compare "deeper section wins over shallower
// general provision" (spec.md §4.9).
type SectionNode struct {
	Header   SectionHeader
	Span     substrate.Span
	Parent   *substrate.Span
	Children []substrate.Span
}

// BuildSectionTree nests a document's detected headers by Level using a
// stack: any header deeper than the current top of stack becomes its
// child; a header at or shallower than the stack top pops until it finds
// its parent. Headers are assumed to arrive in document order.
func BuildSectionTree(headers []substrate.Attribute) map[substrate.Span]*SectionNode {
	nodes := make(map[substrate.Span]*SectionNode, len(headers))
	type frame struct {
		level int
		span  substrate.Span
	}
	var stack []frame

	for _, attr := range headers {
		scored, ok := attr.Value.(scoring.Scored[SectionHeader])
		if !ok {
			continue
		}
		node := &SectionNode{Header: scored.Value, Span: attr.Span}
		for len(stack) > 0 && stack[len(stack)-1].level >= scored.Value.Level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) > 0 {
			parentSpan := stack[len(stack)-1].span
			node.Parent = &parentSpan
			nodes[parentSpan].Children = append(nodes[parentSpan].Children, attr.Span)
		}
		nodes[attr.Span] = node
		stack = append(stack, frame{level: scored.Value.Level, span: attr.Span})
	}
	return nodes
}

// Depth returns the number of ancestors a section node has, used by the
// precedence resolver's "deeper section wins" tiebreak.
func Depth(nodes map[substrate.Span]*SectionNode, span substrate.Span) int {
	depth := 0
	cur, ok := nodes[span]
	for ok && cur.Parent != nil {
		depth++
		cur, ok = nodes[*cur.Parent]
	}
	return depth
}

// atoiSafe parses a decimal string, returning 0 on failure. Used when
// comparing numeric section numbers lexically would be wrong (e.g. "9"
// vs "10").
func atoiSafe(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// CompareSectionNumbers orders two dotted numeric section numbers ("9"
// vs "10", "4.2" vs "4.10") by comparing each dot-separated segment as an
// integer rather than lexically, so "4.10" sorts after "4.2". Returns -1,
// 0, or 1. Non-numeric segments compare as 0, so a malformed number never
// panics, only sorts first.
func CompareSectionNumbers(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	for i := 0; i < len(as) || i < len(bs); i++ {
		var av, bv int
		if i < len(as) {
			av = atoiSafe(as[i])
		}
		if i < len(bs) {
			bv = atoiSafe(bs[i])
		}
		if av != bv {
			if av < bv {
				return -1
			}
			return 1
		}
	}
	return 0
}
