// Package deixis implements spec.md §1's "deixis word-list resolvers,
// treated as simple lexicon wrappers": closed word lists for the
// person/place/time/discourse categories the original layered-deixis
// crate defines, each wrapped in a substrate.Resolver that emits a
// DeicticReference and, for callers that want it in the scope-operator
// shape, a scopeops.ScopeOperator[DeicticReference] tagged with
// scopeops.DimensionDeictic. internal/entities' pronoun chain resolver
// may consult CategoryOf as a fallback when a pronoun falls outside its
// own personal/deictic word lists.
package deixis

import (
	"strings"

	"github.com/turtacn/layeredcontracts/internal/scopeops"
	"github.com/turtacn/layeredcontracts/internal/scoring"
	"github.com/turtacn/layeredcontracts/internal/substrate"
)

// DeicticCategory is one of the five families layered-deixis names.
// Social is listed by the original crate's doc comment but ships no
// word-list resolver there either; it is kept here as a category value
// only, for callers that classify honorifics some other way.
type DeicticCategory string

const (
	CategoryPerson    DeicticCategory = "Person"
	CategoryPlace     DeicticCategory = "Place"
	CategoryTime      DeicticCategory = "Time"
	CategoryDiscourse DeicticCategory = "Discourse"
	CategorySocial    DeicticCategory = "Social"
)

// DeicticReference is one recognized occurrence: the surface text, its
// category, and the narrower subcategory the originating word list
// distinguishes (e.g. "proximal" vs "distal" for place/time).
type DeicticReference struct {
	SurfaceText string
	Category    DeicticCategory
	Subcategory string
}

// AttributeDeicticReference is the attribute type every resolver in
// this package emits.
const AttributeDeicticReference substrate.AttributeType = "deixis.DeicticReference"

var personPronouns = map[string]string{
	"i": "first-singular", "me": "first-singular", "we": "first-plural", "us": "first-plural",
	"you": "second", "they": "third-plural", "them": "third-plural",
}

var placeDeictic = map[string]string{
	"here": "proximal", "there": "distal", "elsewhere": "distal",
	"hereof": "proximal", "thereof": "distal", "herein": "proximal", "therein": "distal",
}

var temporalDeictic = map[string]string{
	"now": "proximal", "then": "distal", "today": "proximal",
	"tomorrow": "distal", "yesterday": "distal", "hereafter": "distal", "heretofore": "distal",
}

var discourseMarkers = map[string]string{
	"however": "contrast", "therefore": "consequence", "moreover": "addition",
	"nonetheless": "contrast", "furthermore": "addition", "accordingly": "consequence",
	"notwithstanding": "contrast",
}

// lexiconResolver builds a Resolver for one closed word list.
type lexiconResolver struct {
	words    map[string]string
	category DeicticCategory
}

var _ substrate.Resolver = lexiconResolver{}

func (r lexiconResolver) AttributeType() substrate.AttributeType { return AttributeDeicticReference }

func (r lexiconResolver) Resolve(_ *substrate.Document, sel substrate.Selection) []substrate.Assignment {
	var out []substrate.Assignment
	for _, tok := range sel.Tokens() {
		if tok.Kind != substrate.TokenWord {
			continue
		}
		sub, ok := r.words[strings.ToLower(tok.Text)]
		if !ok {
			continue
		}
		ref := DeicticReference{SurfaceText: tok.Text, Category: r.category, Subcategory: sub}
		out = append(out, sel.FinishSpan(tok.Span, scoring.New(ref, 1.0, scoring.RuleDeixis)))
	}
	return out
}

// PersonPronounResolver tags the closed set of person-deictic pronouns
// (layered-deixis's PersonPronounResolver). It is narrower than
// internal/entities.PronounResolver's personal-pronoun list and exists
// for callers that want the deixis package's category/subcategory shape
// directly rather than entities.Pronoun.
var PersonPronounResolver substrate.Resolver = lexiconResolver{words: personPronouns, category: CategoryPerson}

// PlaceDeicticResolver tags spatial deictic words (layered-deixis's
// PlaceDeicticResolver).
var PlaceDeicticResolver substrate.Resolver = lexiconResolver{words: placeDeictic, category: CategoryPlace}

// TemporalDeicticResolver tags temporal deictic words (layered-deixis's
// SimpleTemporalResolver). It is deliberately separate from
// internal/entities.TemporalResolver, which parses quantified durations
// ("30 days") rather than deictic time words.
var TemporalDeicticResolver substrate.Resolver = lexiconResolver{words: temporalDeictic, category: CategoryTime}

// DiscourseMarkerResolver tags discourse connectives (layered-deixis's
// DiscourseMarkerResolver).
var DiscourseMarkerResolver substrate.Resolver = lexiconResolver{words: discourseMarkers, category: CategoryDiscourse}

// CategoryOf reports the deictic category of word, if any of the four
// lexicons recognize it. internal/entities' pronoun chain resolver can
// use this as a fallback classification for antecedent-less pronouns.
func CategoryOf(word string) (DeicticCategory, bool) {
	lower := strings.ToLower(word)
	for _, lex := range []struct {
		words map[string]string
		cat   DeicticCategory
	}{
		{personPronouns, CategoryPerson},
		{placeDeictic, CategoryPlace},
		{temporalDeictic, CategoryTime},
		{discourseMarkers, CategoryDiscourse},
	} {
		if _, ok := lex.words[lower]; ok {
			return lex.cat, true
		}
	}
	return "", false
}

// AsScopeOperator wraps a DeicticReference attribute's span and value
// into a scopeops.ScopeOperator[DeicticReference] tagged
// scopeops.DimensionDeictic, matching the generic scope-operator shape
// spec.md §3 names for negation/quantifier/precedence/deixis alike. The
// domain is the reference's own span: a bare deictic word has no wider
// scope to resolve, unlike negation or quantifier operators.
func AsScopeOperator(span substrate.Span, ref DeicticReference) scopeops.ScopeOperator[DeicticReference] {
	return scopeops.NewScopeOperator(scopeops.DimensionDeictic, span, span, ref)
}
