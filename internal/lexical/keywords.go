package lexical

import (
	"strings"

	"github.com/turtacn/layeredcontracts/internal/scoring"
	"github.com/turtacn/layeredcontracts/internal/substrate"
)

// AttributeModalKeyword and AttributeDefinitionMarker are the attribute
// types the contract keyword resolver emits; AttributeProhibition is
// emitted by the prohibition resolver.
const (
	AttributeModalKeyword     substrate.AttributeType = "lexical.ModalKeyword"
	AttributeDefinitionMarker substrate.AttributeType = "lexical.DefinitionMarker"
	AttributeProhibition      substrate.AttributeType = "lexical.Prohibition"
)

// ModalVerb enumerates the contract modal vocabulary spec.md §4.5 tables.
type ModalVerb string

const (
	ModalShall   ModalVerb = "shall"
	ModalMust    ModalVerb = "must"
	ModalWill    ModalVerb = "will"
	ModalMay     ModalVerb = "may"
	ModalShould  ModalVerb = "should"
	ModalCan     ModalVerb = "can"
)

// modalConfidence holds the base confidence for each modal: 0.95 for
// "shall"/"must", 0.9 for "will"/"may", 0.85 for "can", 0.7 for
// "should". KeywordResolver reads it through ModalConfidence; no
// pipeline or config setting overrides it.
var modalConfidence = map[ModalVerb]float64{
	ModalShall:  0.95,
	ModalMust:   0.95,
	ModalWill:   0.9,
	ModalMay:    0.9,
	ModalShould: 0.7,
	ModalCan:    0.85,
}

// ModalConfidence returns the default base confidence for a modal verb,
// or 0.5 for an unrecognized value.
func ModalConfidence(m ModalVerb) float64 {
	if c, ok := modalConfidence[m]; ok {
		return c
	}
	return 0.5
}

// ModalKeyword is one recognized modal-verb occurrence.
type ModalKeyword struct {
	Verb ModalVerb
	Text string
}

// DefinitionMarkerKind enumerates the definitional phrases spec.md §4.3
// names.
type DefinitionMarkerKind string

const (
	MarkerMeans    DefinitionMarkerKind = "means"
	MarkerIncludes DefinitionMarkerKind = "includes"
	MarkerRefersTo DefinitionMarkerKind = "refers to"
)

// DefinitionMarker is one recognized definitional phrase occurrence.
type DefinitionMarker struct {
	Kind DefinitionMarkerKind
	Text string
}

var modalWords = map[string]ModalVerb{
	"shall": ModalShall, "must": ModalMust, "will": ModalWill,
	"may": ModalMay, "should": ModalShould, "can": ModalCan,
}

// KeywordResolver recognizes modal verbs and definition markers. It
// declares AttributeModalKeyword as its primary type; definition
// markers are written under AttributeDefinitionMarker by the same pass
// since both are simple closed-vocabulary lookups over the same token
// stream (original_source/layered-contracts/src/contract_keyword.rs
// groups them for the same reason).
type KeywordResolver struct{}

var _ substrate.Resolver = KeywordResolver{}

func (KeywordResolver) AttributeType() substrate.AttributeType { return AttributeModalKeyword }

func (r KeywordResolver) Resolve(_ *substrate.Document, sel substrate.Selection) []substrate.Assignment {
	var out []substrate.Assignment
	tokens := sel.Tokens()
	for _, tok := range tokens {
		if tok.Kind != substrate.TokenWord {
			continue
		}
		lower := strings.ToLower(tok.Text)
		if modal, ok := modalWords[lower]; ok {
			out = append(out, sel.FinishSpan(tok.Span, scoring.New(
				ModalKeyword{Verb: modal, Text: tok.Text}, ModalConfidence(modal), scoring.RuleKeyword)))
		}
	}
	out = append(out, r.definitionMarkers(sel, tokens)...)
	return out
}

// definitionMarkers looks for "means", "includes", and the two-word
// phrase "refers to" and emits them under AttributeDefinitionMarker.
func (KeywordResolver) definitionMarkers(sel substrate.Selection, tokens []substrate.Token) []substrate.Assignment {
	var out []substrate.Assignment
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if tok.Kind != substrate.TokenWord {
			continue
		}
		lower := strings.ToLower(tok.Text)
		switch lower {
		case "means":
			out = append(out, substrate.Assignment{
				Span:  tok.Span,
				Value: markerAttr(scoring.New(DefinitionMarker{Kind: MarkerMeans, Text: tok.Text}, 0.9, scoring.RuleKeyword)),
			})
		case "includes":
			out = append(out, substrate.Assignment{
				Span:  tok.Span,
				Value: markerAttr(scoring.New(DefinitionMarker{Kind: MarkerIncludes, Text: tok.Text}, 0.85, scoring.RuleKeyword)),
			})
		case "refers":
			j := i + 1
			for j < len(tokens) && tokens[j].Kind == substrate.TokenWhitespace {
				j++
			}
			if j < len(tokens) && strings.EqualFold(tokens[j].Text, "to") {
				span, err := substrate.NewSpan(sel.Line(), tok.Span.Start().Char, tokens[j].Span.End().Char)
				if err == nil {
					out = append(out, substrate.Assignment{
						Span:  span,
						Value: markerAttr(scoring.New(DefinitionMarker{Kind: MarkerRefersTo, Text: "refers to"}, 0.85, scoring.RuleKeyword)),
					})
				}
			}
		}
	}
	return out
}

// markerAttr wraps a value so DefinitionMarker assignments can be
// distinguished from modal-keyword assignments even though
// KeywordResolver emits both from the same Resolve call (Document.Apply
// would write everything KeywordResolver returns under
// AttributeModalKeyword, so callers use ResolveDefinitionMarkers and
// ResolveModalKeywords below instead of Document.Apply for this
// resolver).
type markerWrapper struct {
	Value any
}

func markerAttr(v any) any { return markerWrapper{Value: v} }

// ResolveDefinitionMarkers runs KeywordResolver and returns only the
// definition-marker assignments, unwrapped, ready to be written under
// AttributeDefinitionMarker. The pipeline package calls this (and
// ResolveModalKeywords below) instead of a single Document.Apply because
// KeywordResolver produces two distinct attribute families from one scan.
func ResolveDefinitionMarkers(doc *substrate.Document) []substrate.Assignment {
	var out []substrate.Assignment
	r := KeywordResolver{}
	for i := 0; i < doc.LineCount(); i++ {
		sel := doc.Select(i)
		for _, a := range r.Resolve(doc, sel) {
			if w, ok := a.Value.(markerWrapper); ok {
				out = append(out, substrate.Assignment{Span: a.Span, Value: w.Value})
			}
		}
	}
	return out
}

// ResolveModalKeywords runs KeywordResolver and returns only the
// modal-keyword assignments (the ones not wrapped as definition markers).
func ResolveModalKeywords(doc *substrate.Document) []substrate.Assignment {
	var out []substrate.Assignment
	r := KeywordResolver{}
	for i := 0; i < doc.LineCount(); i++ {
		sel := doc.Select(i)
		for _, a := range r.Resolve(doc, sel) {
			if _, ok := a.Value.(markerWrapper); !ok {
				out = append(out, a)
			}
		}
	}
	return out
}

// ProhibitionMatch records a detected prohibition construction: a modal
// verb whose action is negated, either by an immediately following "not" or by
// the quantifier-negation pattern "no ... shall".
type ProhibitionMatch struct {
	Modal ModalVerb
	Text  string
}

// ProhibitionResolver detects "shall not", "may not", "must not",
// "will not", and "no ... shall" (spec.md §4.3). It scans independently
// of KeywordResolver because the prohibition pattern spans two or more
// tokens and needs lookback for the "no ... shall" form.
type ProhibitionResolver struct{}

var _ substrate.Resolver = ProhibitionResolver{}

func (ProhibitionResolver) AttributeType() substrate.AttributeType { return AttributeProhibition }

func (ProhibitionResolver) Resolve(_ *substrate.Document, sel substrate.Selection) []substrate.Assignment {
	tokens := sel.Tokens()
	var out []substrate.Assignment
	for i, tok := range tokens {
		if tok.Kind != substrate.TokenWord {
			continue
		}
		lower := strings.ToLower(tok.Text)
		modal, isModal := modalWords[lower]
		if !isModal {
			continue
		}
		j := i + 1
		for j < len(tokens) && tokens[j].Kind == substrate.TokenWhitespace {
			j++
		}
		if j < len(tokens) && isNegatingWord(tokens[j].Text) {
			span, err := substrate.NewSpan(sel.Line(), tok.Span.Start().Char, tokens[j].Span.End().Char)
			if err == nil {
				out = append(out, sel.FinishSpan(span, scoring.New(
					ProhibitionMatch{Modal: modal, Text: tok.Text + " " + tokens[j].Text}, 0.92, scoring.RuleKeyword)))
			}
			continue
		}
		if hasPrecedingNo(tokens, i) {
			out = append(out, sel.FinishSpan(tok.Span, scoring.New(
				ProhibitionMatch{Modal: modal, Text: "no ... " + tok.Text}, 0.8, scoring.RuleKeyword)))
		}
	}
	return out
}

func isNegatingWord(s string) bool {
	l := strings.ToLower(s)
	return l == "not"
}

// hasPrecedingNo reports whether the subject phrase before the modal at
// index i contains a quantifier "no" (e.g. "No party shall ...").
func hasPrecedingNo(tokens []substrate.Token, modalIdx int) bool {
	for j := modalIdx - 1; j >= 0 && j >= modalIdx-5; j-- {
		if tokens[j].Kind == substrate.TokenWord && strings.EqualFold(tokens[j].Text, "no") {
			return true
		}
	}
	return false
}
