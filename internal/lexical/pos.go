package lexical

import (
	"strings"

	"github.com/turtacn/layeredcontracts/internal/scoring"
	"github.com/turtacn/layeredcontracts/internal/substrate"
)

// AttributePOSTag is the attribute type the POS tagger emits.
const AttributePOSTag substrate.AttributeType = "lexical.POSTag"

// POSTag classifies a token's grammatical category.
type POSTag string

const (
	Noun        POSTag = "Noun"
	Verb        POSTag = "Verb"
	Modal       POSTag = "Modal"
	Adverb      POSTag = "Adverb"
	Adjective   POSTag = "Adjective"
	Determiner  POSTag = "Determiner"
	Preposition POSTag = "Preposition"
	Conjunction POSTag = "Conjunction"
	Pronoun     POSTag = "Pronoun"
	Punct       POSTag = "Punctuation"
)

// closedClass lists word forms whose part of speech is known exactly,
// independent of context, so the tagger can assign confidence 1.0.
var closedClass = map[string]POSTag{
	"shall": Modal, "must": Modal, "will": Modal, "may": Modal, "should": Modal, "can": Modal,

	"the": Determiner, "a": Determiner, "an": Determiner, "this": Determiner, "that": Determiner,
	"these": Determiner, "those": Determiner, "each": Determiner, "every": Determiner,
	"all": Determiner, "any": Determiner, "no": Determiner, "some": Determiner,
	"neither": Determiner, "either": Determiner,

	"of": Preposition, "to": Preposition, "by": Preposition, "for": Preposition, "in": Preposition,
	"on": Preposition, "at": Preposition, "with": Preposition, "under": Preposition,
	"notwithstanding": Preposition, "pursuant": Preposition, "within": Preposition,

	"and": Conjunction, "or": Conjunction, "but": Conjunction, "if": Conjunction,
	"when": Conjunction, "unless": Conjunction, "provided": Conjunction, "except": Conjunction,

	"he": Pronoun, "she": Pronoun, "it": Pronoun, "they": Pronoun, "such": Pronoun,
	"hereof": Pronoun, "hereunder": Pronoun, "thereof": Pronoun, "herein": Pronoun,
	"hereby": Pronoun, "thereto": Pronoun, "hereinafter": Pronoun,

	"not": Adverb, "never": Adverb, "also": Adverb, "promptly": Adverb, "immediately": Adverb,
}

// adverbSuffixes and adjectiveSuffixes drive the heuristic open-class
// fallback for words not present in closedClass.
var adverbSuffixes = []string{"ly"}
var adjectiveSuffixes = []string{"able", "ible", "ive", "ful", "ous", "al"}
var verbSuffixes = []string{"ate", "ify", "ize", "ise"}

// POSTagger tags every Word token with a POSTag. Closed-class words
// (modals, determiners, prepositions, conjunctions, pronouns) get
// confidence 1.0; everything else is classified heuristically by suffix
// with confidence 0.8, defaulting to Noun (spec.md §4.3).
type POSTagger struct{}

var _ substrate.Resolver = POSTagger{}

func (POSTagger) AttributeType() substrate.AttributeType { return AttributePOSTag }

func (t POSTagger) Resolve(_ *substrate.Document, sel substrate.Selection) []substrate.Assignment {
	var out []substrate.Assignment
	for _, tok := range sel.Tokens() {
		switch tok.Kind {
		case substrate.TokenPunctuation:
			out = append(out, sel.FinishSpan(tok.Span, scoring.New(Punct, 1.0, scoring.RulePOS)))
		case substrate.TokenWord:
			tag, conf := classify(tok.Text)
			out = append(out, sel.FinishSpan(tok.Span, scoring.New(tag, conf, scoring.RulePOS)))
		}
	}
	return out
}

func classify(word string) (POSTag, float64) {
	lower := strings.ToLower(word)
	if tag, ok := closedClass[lower]; ok {
		return tag, 1.0
	}
	for _, suf := range adverbSuffixes {
		if strings.HasSuffix(lower, suf) && len(lower) > len(suf)+1 {
			return Adverb, 0.8
		}
	}
	for _, suf := range adjectiveSuffixes {
		if strings.HasSuffix(lower, suf) {
			return Adjective, 0.8
		}
	}
	for _, suf := range verbSuffixes {
		if strings.HasSuffix(lower, suf) {
			return Verb, 0.8
		}
	}
	if strings.HasSuffix(lower, "ing") || strings.HasSuffix(lower, "ed") {
		return Verb, 0.8
	}
	return Noun, 0.8
}
