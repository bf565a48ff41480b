package entities

import (
	"strings"
	"unicode"

	"github.com/turtacn/layeredcontracts/internal/scoring"
	"github.com/turtacn/layeredcontracts/internal/substrate"
)

// AttributeAntecedent is the attribute type the pronoun chain resolver
// emits: an Ambiguous[AntecedentCandidate] anchored on the pronoun span.
const AttributeAntecedent substrate.AttributeType = "entities.Antecedent"

// AntecedentCandidate is one candidate noun phrase a pronoun might refer
// back to.
type AntecedentCandidate struct {
	Span substrate.Span
	Text string
}

// PronounChainConfig holds the tunables spec.md §6 names for pronoun
// resolution: per-token confidence decay, a floor below which decay
// does not reduce confidence further, and the ambiguity gap threshold
// used to decide whether multiple candidates should be flagged.
type PronounChainConfig struct {
	DistanceDecay float64
	Floor         float64
	GapThreshold  float64
}

// DefaultPronounChainConfig matches spec.md §6's default table.
func DefaultPronounChainConfig() PronounChainConfig {
	return PronounChainConfig{DistanceDecay: 0.98, Floor: 0.3, GapThreshold: 0.15}
}

// globalToken is one token plus its document-wide ordinal position,
// used to measure pronoun-to-antecedent distance across line boundaries.
type globalToken struct {
	substrate.Token
	line  int
	index int
}

// flattenTokens returns every non-whitespace token in the document in
// reading order, each tagged with its global ordinal position.
func flattenTokens(doc *substrate.Document) []globalToken {
	var out []globalToken
	n := 0
	for i := 0; i < doc.LineCount(); i++ {
		for _, tok := range doc.Tokens(i) {
			if tok.Kind == substrate.TokenWhitespace {
				continue
			}
			out = append(out, globalToken{Token: tok, line: i, index: n})
			n++
		}
	}
	return out
}

// ResolvePronounChains finds, for every recognized personal pronoun
// (spec.md §4.4), the nearest preceding candidate antecedent compatible
// in grammatical number, decaying confidence by token distance. When no
// single candidate stands out it emits an Ambiguous set instead of
// guessing. Deictic pronouns ("hereof", "herein") are skipped: they
// conventionally refer to the instrument itself, not a prior noun
// phrase, and spec.md's worked antecedent examples are all personal
// pronouns.
func ResolvePronounChains(doc *substrate.Document, cfg PronounChainConfig) []substrate.Assignment {
	pronounAttrs := doc.Attributes().FindAll(AttributePronoun)
	if len(pronounAttrs) == 0 {
		return nil
	}
	tokens := flattenTokens(doc)
	candidates := collectCandidateNouns(doc, tokens)

	var out []substrate.Assignment
	for _, attr := range pronounAttrs {
		scoredPronoun := attr.Value.(scoring.Scored[Pronoun])
		if scoredPronoun.Value.Kind != PersonalPronoun {
			continue
		}
		pronounIdx := globalIndexOf(tokens, attr.Span)
		if pronounIdx < 0 {
			continue
		}
		plural := strings.EqualFold(scoredPronoun.Value.Text, "they")

		var scored []scoring.Scored[AntecedentCandidate]
		for _, c := range candidates {
			if c.index >= pronounIdx {
				continue
			}
			if !compatibleNumber(c.Text, plural) {
				continue
			}
			distance := pronounIdx - c.index
			conf := decay(cfg.DistanceDecay, cfg.Floor, distance)
			scored = append(scored, scoring.New(
				AntecedentCandidate{Span: c.Span, Text: c.Text}, conf, scoring.RulePronounChain))
		}

		if len(scored) == 0 {
			implicit := scoring.New(AntecedentCandidate{Text: "Implicit"}, 0.0, scoring.RulePronounChain)
			out = append(out, substrate.Assignment{
				Span:  attr.Span,
				Value: scoring.NewAmbiguous([]scoring.Scored[AntecedentCandidate]{implicit}, cfg.GapThreshold),
			})
			continue
		}

		ambiguous := scoring.NewAmbiguous(scored, cfg.GapThreshold)
		out = append(out, substrate.Assignment{Span: attr.Span, Value: ambiguous})
	}
	return out
}

// decay applies 0.95-ish base decay^distance, clamped to the floor. The
// base confidence of 0.95 before decay matches spec.md §4.4's formula
// "0.95 * 0.98^distance".
func decay(perTokenDecay, floor float64, distance int) float64 {
	conf := 0.95
	for i := 0; i < distance; i++ {
		conf *= perTokenDecay
	}
	if conf < floor {
		return floor
	}
	return conf
}

// compatibleNumber applies a coarse singular/plural heuristic: a
// candidate whose final word (quotes trimmed) ends in "s" but not "ss"
// is treated as plural; everything else is singular. Quoted defined
// terms get no exception. The caller marks only "they" as a plural
// pronoun, so "such" is matched like "it"/"he"/"she" against singular
// candidates. When the pronoun is plural we only accept plural
// candidates and vice versa — this is the "gender/number compatibility
// when inferrable" rule from spec.md §4.4.
func compatibleNumber(text string, pronounIsPlural bool) bool {
	words := strings.Fields(text)
	if len(words) == 0 {
		return true
	}
	last := strings.Trim(words[len(words)-1], `"`)
	isPlural := strings.HasSuffix(strings.ToLower(last), "s") && !strings.HasSuffix(strings.ToLower(last), "ss")
	return isPlural == pronounIsPlural
}

// collectCandidateNouns gathers defined-term names and capitalized noun
// phrases as antecedent candidates, each tagged with its global token
// position.
func collectCandidateNouns(doc *substrate.Document, tokens []globalToken) []struct {
	substrate.Span
	Text  string
	index int
} {
	type cand = struct {
		substrate.Span
		Text  string
		index int
	}
	var out []cand

	for _, attr := range doc.Attributes().FindAll(AttributeDefinedTerm) {
		scored := attr.Value.(scoring.Scored[DefinedTerm])
		idx := globalIndexOf(tokens, attr.Span)
		if idx >= 0 {
			out = append(out, cand{Span: attr.Span, Text: scored.Value.QuotedName, index: idx})
		}
	}
	for _, attr := range doc.Attributes().FindAll(AttributeTermReference) {
		scored := attr.Value.(scoring.Scored[TermReference])
		idx := globalIndexOf(tokens, attr.Span)
		if idx >= 0 {
			out = append(out, cand{Span: attr.Span, Text: scored.Value.Name, index: idx})
		}
	}
	for _, gt := range tokens {
		if gt.Kind == substrate.TokenWord && isCapitalized(gt.Text) {
			out = append(out, cand{Span: gt.Span, Text: gt.Text, index: gt.index})
		}
	}
	return out
}

func isCapitalized(s string) bool {
	r := []rune(s)
	return len(r) > 0 && unicode.IsUpper(r[0])
}

func globalIndexOf(tokens []globalToken, span substrate.Span) int {
	for _, t := range tokens {
		if t.Span == span || t.Span.Covers(span) {
			return t.index
		}
	}
	return -1
}
