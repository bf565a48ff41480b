package entities

import (
	"strings"

	"github.com/turtacn/layeredcontracts/internal/scoring"
	"github.com/turtacn/layeredcontracts/internal/substrate"
)

// AttributeTermReference is the attribute type the term-reference
// resolver emits.
const AttributeTermReference substrate.AttributeType = "entities.TermReference"

// TermReference points a later occurrence of a defined name back at the
// DefinedTerm span that introduced it.
type TermReference struct {
	Name           string
	DefinitionSpan substrate.Span
}

// ResolveTermReferences scans every Word token in the document for a
// case-sensitive, whole-word match against an already-known defined
// term's name, skipping the span where the term was itself defined. It
// must run after DefinedTermResolver has populated AttributeDefinedTerm
// (spec.md §4.4: "after defined terms are known").
func ResolveTermReferences(doc *substrate.Document) []substrate.Assignment {
	definitions := doc.Attributes().FindAll(AttributeDefinedTerm)
	if len(definitions) == 0 {
		return nil
	}

	type def struct {
		name string
		span substrate.Span
	}
	var defs []def
	for _, attr := range definitions {
		scored := attr.Value.(scoring.Scored[DefinedTerm])
		defs = append(defs, def{name: scored.Value.QuotedName, span: attr.Span})
	}

	var out []substrate.Assignment
	for i := 0; i < doc.LineCount(); i++ {
		for _, tok := range doc.Tokens(i) {
			if tok.Kind != substrate.TokenWord {
				continue
			}
			for _, d := range defs {
				if tok.Span.Overlaps(d.span) {
					continue // skip the defining occurrence itself
				}
				if matchesWholeWordName(doc, i, tok, d.name) {
					out = append(out, substrate.Assignment{
						Span: tok.Span,
						Value: scoring.New(TermReference{Name: d.name, DefinitionSpan: d.span},
							1.0, scoring.RuleDefinedTerm),
					})
				}
			}
		}
	}
	return out
}

// matchesWholeWordName checks whether tok begins a case-sensitive,
// whole-word occurrence of name (which may itself be multiple words,
// e.g. "Effective Date"). name is compared case-sensitively per spec.md
// §4.4.
func matchesWholeWordName(doc *substrate.Document, line int, tok substrate.Token, name string) bool {
	words := strings.Fields(name)
	if len(words) == 0 || tok.Text != words[0] {
		return false
	}
	tokens := doc.Tokens(line)
	idx := indexOfToken(tokens, tok)
	if idx < 0 {
		return false
	}
	wi := 1
	ti := idx + 1
	for wi < len(words) {
		for ti < len(tokens) && tokens[ti].Kind == substrate.TokenWhitespace {
			ti++
		}
		if ti >= len(tokens) || tokens[ti].Text != words[wi] {
			return false
		}
		ti++
		wi++
	}
	return true
}

func indexOfToken(tokens []substrate.Token, target substrate.Token) int {
	for i, t := range tokens {
		if t.Span == target.Span {
			return i
		}
	}
	return -1
}
