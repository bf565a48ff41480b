// Package obligations implements obligation-phrase extraction (spec.md
// §4.5): detecting a modal verb within a clause with a subject, classing
// it by modal + negation into Duty/Permission/Prohibition/Discretion,
// and extracting a first-pass obligor from the grammatical subject.
// Passive-voice obligor/beneficiary refinement happens downstream in
// internal/parties.
package obligations

import (
	"strings"
	"unicode"

	"github.com/turtacn/layeredcontracts/internal/lexical"
	"github.com/turtacn/layeredcontracts/internal/scoring"
	"github.com/turtacn/layeredcontracts/internal/substrate"
)

// AttributeObligationPhrase is the attribute type the obligation
// resolver emits.
const AttributeObligationPhrase substrate.AttributeType = "obligations.Phrase"

// ObligationType classifies the commitment a modal verb expresses.
type ObligationType string

const (
	Duty        ObligationType = "Duty"
	Permission  ObligationType = "Permission"
	Prohibition ObligationType = "Prohibition"
	Discretion  ObligationType = "Discretion"
)

// ObligorKind classifies how an ObligorReference was resolved.
type ObligorKind string

const (
	ObligorExplicit ObligorKind = "Explicit"
	ObligorPronoun  ObligorKind = "PronounRef"
	ObligorImplicit ObligorKind = "Implicit"
)

// ObligorReference names the party bearing an obligation, or records
// that none could be found (spec.md §3, §4.5).
type ObligorReference struct {
	Kind ObligorKind
	Text string
	Span substrate.Span
}

// ObligationPhrase is one detected modal/action/obligor triple.
type ObligationPhrase struct {
	ModalSpan  substrate.Span
	ActionSpan substrate.Span
	Type       ObligationType
	Obligor    ObligorReference
}

var negationWords = map[string]bool{"not": true, "never": true, "neither": true}

// ResolveObligations scans the already-tagged lexical.AttributeModalKeyword
// and lexical.AttributeProhibition attributes and emits one
// Scored[ObligationPhrase]/ReviewableResult pair per modal occurrence.
// It must run after the lexical layer (spec.md §2 dependency order).
func ResolveObligations(doc *substrate.Document) []substrate.Assignment {
	modals := doc.Attributes().FindAll(lexical.AttributeModalKeyword)
	prohibitions := doc.Attributes().FindAll(lexical.AttributeProhibition)

	var out []substrate.Assignment
	for _, m := range modals {
		scoredModal := m.Value.(scoring.Scored[lexical.ModalKeyword])
		line := m.Span.Line()
		tokens := doc.Tokens(line)
		modalIdx := indexOfSpan(tokens, m.Span)
		if modalIdx < 0 {
			continue
		}

		negated, prohibitionConf := isNegated(m.Span, scoredModal.Value.Verb, prohibitions, tokens, modalIdx)
		if !negated && countExtraNegations(tokens, modalIdx, false) {
			// A negation word the prohibition resolver did not catch
			// ("shall never disclose") is the modal's own negation.
			negated = true
		}
		extraNegation := countExtraNegations(tokens, modalIdx, negated)
		needsReview := false
		var reviewReason *scoring.ReviewKind
		if extraNegation {
			negated = !negated // double negation flips back to affirmative
			lc := scoring.PolarityDoubleNegative
			needsReview = true
			reviewReason = &lc
		}

		obType, conf := classify(scoredModal.Value.Verb, negated)
		if prohibitionConf > 0 {
			conf = scoring.Compose(conf, prohibitionConf)
		}

		actionSpan := actionSpanFrom(doc, line, tokens, modalIdx)
		obligor := extractObligor(doc, line, tokens, modalIdx)

		phrase := ObligationPhrase{ModalSpan: m.Span, ActionSpan: actionSpan, Type: obType, Obligor: obligor}
		scored := scoring.New(phrase, conf, scoring.RuleObligation)
		result := scoring.Reviewable(scored)
		if needsReview {
			result = result.Flag(*reviewReason)
		}
		out = append(out, substrate.Assignment{Span: m.Span, Value: result})
	}
	return out
}

// classify maps a modal verb and its negation state to an
// ObligationType and base confidence per spec.md §4.5's table.
func classify(verb lexical.ModalVerb, negated bool) (ObligationType, float64) {
	switch verb {
	case lexical.ModalShall, lexical.ModalMust, lexical.ModalWill:
		if negated {
			return Prohibition, 0.9
		}
		return Duty, 0.95
	case lexical.ModalMay:
		if negated {
			return Prohibition, 0.85
		}
		return Permission, 0.9
	case lexical.ModalShould:
		if negated {
			return Prohibition, 0.7
		}
		return Duty, 0.7
	case lexical.ModalCan:
		return Discretion, 0.85
	default:
		return Duty, 0.5
	}
}

// isNegated reports whether the modal at span was caught by the
// prohibition resolver (shall not / no ... shall), returning the
// prohibition match's own confidence so it can compose into the final
// obligation confidence.
func isNegated(span substrate.Span, verb lexical.ModalVerb, prohibitions []substrate.Attribute, tokens []substrate.Token, modalIdx int) (bool, float64) {
	for _, p := range prohibitions {
		if p.Span.Overlaps(span) || p.Span.Covers(span) {
			scored := p.Value.(scoring.Scored[lexical.ProhibitionMatch])
			return true, scored.Confidence
		}
	}
	return false, 0
}

// countExtraNegations looks for a second negation word within the
// clause beyond the one already accounted for by isNegated, signalling
// a double negative ("shall not never disclose") that flips polarity
// back to affirmative and needs human review (spec.md §4.5).
func countExtraNegations(tokens []substrate.Token, modalIdx int, alreadyNegated bool) bool {
	count := 0
	end := clauseEnd(tokens, modalIdx)
	for i := modalIdx + 1; i < end; i++ {
		if tokens[i].Kind == substrate.TokenWord && negationWords[strings.ToLower(tokens[i].Text)] {
			count++
		}
	}
	if alreadyNegated {
		return count >= 2
	}
	return count >= 1
}

// clauseEnd returns the token index of the nearest clause boundary
// (sentence-final punctuation or semicolon) at or after start, or
// len(tokens) if none is found. This is a lightweight approximation used
// before the full clause segmenter (internal/clauses, layer 8) exists.
func clauseEnd(tokens []substrate.Token, start int) int {
	for i := start; i < len(tokens); i++ {
		if tokens[i].Kind == substrate.TokenPunctuation {
			switch tokens[i].Text {
			case ".", ";", "!", "?":
				return i
			}
		}
	}
	return len(tokens)
}

// clauseStart returns the token index just after the nearest preceding
// clause boundary, or 0 if none is found.
func clauseStart(tokens []substrate.Token, before int) int {
	for i := before - 1; i >= 0; i-- {
		if tokens[i].Kind == substrate.TokenPunctuation {
			switch tokens[i].Text {
			case ".", ";", "!", "?", ",":
				return i + 1
			}
		}
	}
	return 0
}

// actionSpanFrom covers from the modal verb's end to the clause
// boundary, approximating "verb-phrase head to clause boundary"
// (spec.md §4.5).
func actionSpanFrom(doc *substrate.Document, line int, tokens []substrate.Token, modalIdx int) substrate.Span {
	end := clauseEnd(tokens, modalIdx+1)
	startChar := tokens[modalIdx].Span.End().Char
	var endChar int
	if end < len(tokens) {
		endChar = tokens[end].Span.Start().Char
	} else if len(tokens) > 0 {
		endChar = tokens[len(tokens)-1].Span.End().Char
	} else {
		endChar = startChar
	}
	if endChar < startChar {
		endChar = startChar
	}
	span, err := substrate.NewSpan(line, startChar, endChar)
	if err != nil {
		return substrate.MustSpan(line, startChar, startChar)
	}
	return span
}

// extractObligor takes the noun phrase immediately left of the modal, up
// to the previous clause boundary, as the grammatical subject. A
// capitalized run of words is treated as an explicit party name; a
// recognized personal pronoun is tagged ObligorPronoun; an empty or
// all-lowercase-function-word span is Implicit.
func extractObligor(doc *substrate.Document, line int, tokens []substrate.Token, modalIdx int) ObligorReference {
	start := clauseStart(tokens, modalIdx)
	var subject []substrate.Token
	for _, t := range tokens[start:modalIdx] {
		if t.Kind != substrate.TokenWhitespace {
			subject = append(subject, t)
		}
	}
	// Drop leading determiners ("The Tenant shall ...").
	for len(subject) > 0 && isDeterminer(subject[0].Text) {
		subject = subject[1:]
	}
	if len(subject) == 0 {
		return ObligorReference{Kind: ObligorImplicit, Text: "Implicit"}
	}
	if len(subject) == 1 && isPersonalPronounWord(subject[0].Text) {
		return ObligorReference{Kind: ObligorPronoun, Text: subject[0].Text, Span: subject[0].Span}
	}
	text := joinWords(subject)
	span := spanOfTokens(line, subject)
	if isCapitalizedPhrase(subject) {
		return ObligorReference{Kind: ObligorExplicit, Text: text, Span: span}
	}
	return ObligorReference{Kind: ObligorImplicit, Text: "Implicit"}
}

func isDeterminer(word string) bool {
	switch strings.ToLower(word) {
	case "the", "a", "an":
		return true
	default:
		return false
	}
}

func isPersonalPronounWord(word string) bool {
	switch strings.ToLower(word) {
	case "he", "she", "it", "they":
		return true
	default:
		return false
	}
}

func isCapitalizedPhrase(tokens []substrate.Token) bool {
	for _, t := range tokens {
		if t.Kind != substrate.TokenWord {
			continue
		}
		r := []rune(t.Text)
		if len(r) > 0 && !unicode.IsUpper(r[0]) {
			return false
		}
	}
	return true
}

func joinWords(tokens []substrate.Token) string {
	var sb strings.Builder
	for i, t := range tokens {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(t.Text)
	}
	return sb.String()
}

func spanOfTokens(line int, tokens []substrate.Token) substrate.Span {
	if len(tokens) == 0 {
		return substrate.MustSpan(line, 0, 0)
	}
	return substrate.MustSpan(line, tokens[0].Span.Start().Char, tokens[len(tokens)-1].Span.End().Char)
}

func indexOfSpan(tokens []substrate.Token, span substrate.Span) int {
	for i, t := range tokens {
		if t.Span == span {
			return i
		}
	}
	return -1
}
