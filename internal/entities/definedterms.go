// Package entities implements the entity-resolver layer of spec.md §4.4:
// defined terms, term references, pronouns and pronoun chains, section
// references, and temporal expressions. All resolvers here read only
// substrate tokens and, where noted, earlier entity attributes — never
// obligation or clause attributes, which are built on top of this layer.
package entities

import (
	"regexp"
	"strings"

	"github.com/turtacn/layeredcontracts/internal/scoring"
	"github.com/turtacn/layeredcontracts/internal/substrate"
)

// AttributeDefinedTerm is the attribute type the defined-term resolver
// emits.
const AttributeDefinedTerm substrate.AttributeType = "entities.DefinedTerm"

// DefinitionType classifies how a defined term was introduced.
type DefinitionType string

const (
	Parenthetical   DefinitionType = "Parenthetical"
	MeansDefinition DefinitionType = "MeansDefinition"
	ReferenceDef    DefinitionType = "Reference"
)

// DefinedTerm is a name introduced by a parenthetical or definitional
// construction, re-used later in the document with specific meaning
// (spec.md §3).
type DefinedTerm struct {
	QuotedName string
	Type       DefinitionType
}

var (
	// `ABC Corp (the "Company")` or `(hereinafter "Company")`.
	parentheticalRe = regexp.MustCompile(`\((?:the\s+|hereinafter\s+)?"([^"]+)"\)`)
	// `"Company" means ...` or `"Company" includes ...`.
	meansRe = regexp.MustCompile(`^"([^"]+)"\s+(?:means|includes)\b`)
)

// DefinedTermResolver detects the three definitional patterns spec.md
// §4.4 names and emits a Scored[DefinedTerm] over the quoted-name span
// (including the quotes, matching how the substrate tokenizes quoted
// regions as one TokenQuoted unit).
type DefinedTermResolver struct{}

var _ substrate.Resolver = DefinedTermResolver{}

func (DefinedTermResolver) AttributeType() substrate.AttributeType { return AttributeDefinedTerm }

func (DefinedTermResolver) Resolve(_ *substrate.Document, sel substrate.Selection) []substrate.Assignment {
	text := sel.Text()
	var out []substrate.Assignment

	for _, loc := range parentheticalRe.FindAllStringSubmatchIndex(text, -1) {
		name := text[loc[2]:loc[3]]
		quoteStart, quoteEnd := findQuoteSpan(text, loc[0], loc[1])
		span, err := substrate.NewSpan(sel.Line(), runeIndex(text, quoteStart), runeIndex(text, quoteEnd))
		if err != nil {
			continue
		}
		out = append(out, substrate.Assignment{
			Span:  span,
			Value: scoring.New(DefinedTerm{QuotedName: name, Type: Parenthetical}, 0.95, scoring.RuleDefinedTerm),
		})
	}

	if loc := meansRe.FindStringSubmatchIndex(text); loc != nil {
		name := text[loc[2]:loc[3]]
		span, err := substrate.NewSpan(sel.Line(), runeIndex(text, loc[2]-1), runeIndex(text, loc[3]+1))
		if err == nil {
			out = append(out, substrate.Assignment{
				Span:  span,
				Value: scoring.New(DefinedTerm{QuotedName: name, Type: MeansDefinition}, 0.9, scoring.RuleDefinedTerm),
			})
		}
	}

	return out
}

// findQuoteSpan narrows a parenthetical match's byte range down to just
// the quoted substring (including its quote marks) so the attribute span
// covers the name, not the surrounding parenthesis/"the"/"hereinafter".
func findQuoteSpan(text string, start, end int) (int, int) {
	segment := text[start:end]
	qs := strings.IndexByte(segment, '"')
	qe := strings.LastIndexByte(segment, '"')
	if qs < 0 || qe <= qs {
		return start, end
	}
	return start + qs, start + qe + 1
}

// runeIndex converts a byte offset within text to a rune offset, needed
// because spans are rune-indexed (spec.md §3) but regexp match indices
// are byte offsets.
func runeIndex(text string, byteOffset int) int {
	return len([]rune(text[:byteOffset]))
}
