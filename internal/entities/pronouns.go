package entities

import (
	"strings"

	"github.com/turtacn/layeredcontracts/internal/scoring"
	"github.com/turtacn/layeredcontracts/internal/substrate"
)

// AttributePronoun is the attribute type the pronoun resolver emits.
const AttributePronoun substrate.AttributeType = "entities.Pronoun"

// PronounKind distinguishes ordinary personal/collective pronouns from
// the archaic deictic forms contracts use ("hereof", "herein") that the
// deixis package's place lexicon also recognizes.
type PronounKind string

const (
	PersonalPronoun PronounKind = "Personal"
	DeicticPronoun  PronounKind = "Deictic"
)

// Pronoun is one recognized pronoun occurrence.
type Pronoun struct {
	Text string
	Kind PronounKind
}

var personalPronouns = map[string]bool{
	"he": true, "she": true, "it": true, "they": true, "such": true,
}

var deicticPronouns = map[string]bool{
	"hereof": true, "hereunder": true, "thereof": true, "herein": true,
	"hereby": true, "thereto": true, "hereinafter": true, "therein": true,
}

// PronounResolver tags the closed word list spec.md §4.4 names. It is
// deliberately narrower than POSTagger's Pronoun tag (which also covers
// these words): this resolver is what PronounChainResolver reads, kept
// as its own attribute type so entity resolution does not have to
// filter lexical.AttributePOSTag by value.
type PronounResolver struct{}

var _ substrate.Resolver = PronounResolver{}

func (PronounResolver) AttributeType() substrate.AttributeType { return AttributePronoun }

func (PronounResolver) Resolve(_ *substrate.Document, sel substrate.Selection) []substrate.Assignment {
	var out []substrate.Assignment
	for _, tok := range sel.Tokens() {
		if tok.Kind != substrate.TokenWord {
			continue
		}
		lower := strings.ToLower(tok.Text)
		switch {
		case personalPronouns[lower]:
			out = append(out, sel.FinishSpan(tok.Span, scoring.New(Pronoun{Text: tok.Text, Kind: PersonalPronoun}, 1.0, scoring.RulePronounChain)))
		case deicticPronouns[lower]:
			out = append(out, sel.FinishSpan(tok.Span, scoring.New(Pronoun{Text: tok.Text, Kind: DeicticPronoun}, 1.0, scoring.RulePronounChain)))
		}
	}
	return out
}
