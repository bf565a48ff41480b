// Package conflicts implements spec.md §4.9: pairwise conflict detection
// over the document's linked obligations (modal, temporal, party, and
// scope-overlap contradictions) and the precedence resolver that decides
// which side of a conflict governs.
package conflicts

import (
	"strings"

	"github.com/turtacn/layeredcontracts/internal/entities"
	"github.com/turtacn/layeredcontracts/internal/obligations"
	"github.com/turtacn/layeredcontracts/internal/parties"
	"github.com/turtacn/layeredcontracts/internal/scopeops"
	"github.com/turtacn/layeredcontracts/internal/scoring"
	"github.com/turtacn/layeredcontracts/internal/substrate"
)

// AttributeConflictLink is the attribute type the conflict link resolver
// emits: a SpanLink[scopeops.ConflictRole] stored under each side of a
// detected conflict, pointing at the other side.
const AttributeConflictLink substrate.AttributeType = "conflicts.ConflictLink"

// ResolveConflictLinks runs DetectConflicts and converts each Conflict
// into a reciprocal pair of SpanLink[scopeops.ConflictRole] assignments,
// so a caller holding one obligation's span can look up the conflicting
// side via the attribute store instead of re-running detection.
func ResolveConflictLinks(doc *substrate.Document, cfg NormalizationConfig) []substrate.Assignment {
	var out []substrate.Assignment
	for _, c := range DetectConflicts(doc, cfg) {
		out = append(out,
			substrate.Assignment{Span: c.SpanA, Value: scopeops.NewSpanLink(scopeops.ConflictSideA, c.SpanB)},
			substrate.Assignment{Span: c.SpanB, Value: scopeops.NewSpanLink(scopeops.ConflictSideB, c.SpanA)},
		)
	}
	return out
}

// ConflictType classifies why two obligations were flagged as
// contradictory (spec.md §4.9).
type ConflictType string

const (
	ModalContradiction      ConflictType = "ModalContradiction"
	TemporalIncompatibility ConflictType = "TemporalIncompatibility"
	PartyContradiction      ConflictType = "PartyContradiction"
	ScopeOverlap            ConflictType = "ScopeOverlap"
)

// Conflict is one detected pair of contradictory obligations.
type Conflict struct {
	Type  ConflictType
	SpanA substrate.Span
	SpanB substrate.Span
}

// NormalizationConfig mirrors spec.md §6's
// conflict.action_normalization.strip_articles option.
type NormalizationConfig struct {
	StripArticles bool
}

// DefaultNormalizationConfig returns the spec.md §6 default
// (strip_articles = true).
func DefaultNormalizationConfig() NormalizationConfig {
	return NormalizationConfig{StripArticles: true}
}

// normalizePartyName trims surrounding quotes, lowercases, and
// optionally strips a leading "the"/"a"/"an" (spec.md §4.9).
func normalizePartyName(text string, cfg NormalizationConfig) string {
	t := strings.Trim(text, `"'`)
	t = strings.ToLower(strings.TrimSpace(t))
	if !cfg.StripArticles {
		return t
	}
	for _, article := range []string{"the ", "a ", "an "} {
		if strings.HasPrefix(t, article) {
			return strings.TrimSpace(t[len(article):])
		}
	}
	return t
}

// normalizeAction lowercases and trims an action phrase for equality
// comparison across obligations, stripping a leading negation word so a
// Duty and its negated Prohibition counterpart ("pay the deposit" vs.
// "not pay the deposit") are recognized as the same underlying action —
// polarity is compared separately via ObligationType.
func normalizeAction(text string) string {
	t := strings.ToLower(strings.TrimSpace(text))
	for _, neg := range []string{"not ", "never ", "no longer "} {
		if strings.HasPrefix(t, neg) {
			t = strings.TrimSpace(t[len(neg):])
			break
		}
	}
	return t
}

type linkedEntry struct {
	span   substrate.Span
	linked parties.LinkedObligation
	action string
}

// DetectConflicts scans every pair of linked obligations in the
// document and reports the conflicts spec.md §4.9 defines. It must run
// after internal/parties.
func DetectConflicts(doc *substrate.Document, cfg NormalizationConfig) []Conflict {
	entries := collectLinked(doc)
	for i := range entries {
		entries[i].action = spanText(doc, entries[i].linked.Obligation.ActionSpan)
	}
	temporals := doc.Attributes().FindAll(entities.AttributeTemporalExpression)

	var out []Conflict
	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			a, b := entries[i], entries[j]
			if c, ok := detectModalContradiction(a, b, cfg); ok {
				out = append(out, c)
				continue
			}
			if c, ok := detectPartyContradiction(a, b, cfg); ok {
				out = append(out, c)
				continue
			}
			if c, ok := detectTemporalIncompatibility(a, b, cfg, temporals); ok {
				out = append(out, c)
				continue
			}
			if c, ok := detectScopeOverlap(a, b); ok {
				out = append(out, c)
			}
		}
	}
	return out
}

func collectLinked(doc *substrate.Document) []linkedEntry {
	var out []linkedEntry
	for _, attr := range doc.Attributes().FindAll(parties.AttributeLinkedObligation) {
		reviewable := attr.Value.(scoring.ReviewableResult[scoring.Scored[parties.LinkedObligation]])
		out = append(out, linkedEntry{span: attr.Span, linked: reviewable.Value.Value})
	}
	return out
}

var modalConflictSet = map[obligations.ObligationType]bool{
	obligations.Duty: true, obligations.Permission: true, obligations.Prohibition: true,
}

func sameObligorAndAction(a, b linkedEntry, cfg NormalizationConfig) bool {
	return normalizePartyName(a.linked.Obligor.Text, cfg) == normalizePartyName(b.linked.Obligor.Text, cfg) &&
		normalizeAction(a.action) == normalizeAction(b.action)
}

// spanText extracts the literal text a single-line span covers. Conflict
// detection only ever compares action spans, which obligations.go always
// produces within one line.
func spanText(doc *substrate.Document, span substrate.Span) string {
	if !span.SingleLine() {
		return ""
	}
	return doc.Line(span.Line()).Slice(span.Start().Char, span.End().Char)
}

func detectModalContradiction(a, b linkedEntry, cfg NormalizationConfig) (Conflict, bool) {
	if !sameObligorAndAction(a, b, cfg) {
		return Conflict{}, false
	}
	ta, tb := a.linked.Obligation.Type, b.linked.Obligation.Type
	if ta == tb || !modalConflictSet[ta] || !modalConflictSet[tb] {
		return Conflict{}, false
	}
	return Conflict{Type: ModalContradiction, SpanA: a.span, SpanB: b.span}, true
}

func detectPartyContradiction(a, b linkedEntry, cfg NormalizationConfig) (Conflict, bool) {
	if normalizeAction(a.action) != normalizeAction(b.action) {
		return Conflict{}, false
	}
	if a.linked.Obligor.Kind != obligations.ObligorExplicit || b.linked.Obligor.Kind != obligations.ObligorExplicit {
		return Conflict{}, false
	}
	if normalizePartyName(a.linked.Obligor.Text, cfg) == normalizePartyName(b.linked.Obligor.Text, cfg) {
		return Conflict{}, false
	}
	return Conflict{Type: PartyContradiction, SpanA: a.span, SpanB: b.span}, true
}

func detectTemporalIncompatibility(a, b linkedEntry, cfg NormalizationConfig, temporals []substrate.Attribute) (Conflict, bool) {
	if !sameObligorAndAction(a, b, cfg) {
		return Conflict{}, false
	}
	ta, okA := temporalNear(a, temporals)
	tb, okB := temporalNear(b, temporals)
	if !okA || !okB {
		return Conflict{}, false
	}
	if normalizedDays(ta) == normalizedDays(tb) {
		return Conflict{}, false
	}
	return Conflict{Type: TemporalIncompatibility, SpanA: a.span, SpanB: b.span}, true
}

func detectScopeOverlap(a, b linkedEntry) (Conflict, bool) {
	spanA, spanB := a.linked.Obligation.ActionSpan, b.linked.Obligation.ActionSpan
	if !spanA.Overlaps(spanB) {
		return Conflict{}, false
	}
	if normalizeAction(a.action) == normalizeAction(b.action) {
		return Conflict{}, false
	}
	ta, tb := a.linked.Obligation.Type, b.linked.Obligation.Type
	if ta == tb || !modalConflictSet[ta] || !modalConflictSet[tb] {
		return Conflict{}, false
	}
	return Conflict{Type: ScopeOverlap, SpanA: a.span, SpanB: b.span}, true
}

// temporalNear returns the temporal expression whose span falls within
// the obligation's line, preferring the one closest to the action span.
func temporalNear(e linkedEntry, temporals []substrate.Attribute) (entities.TemporalExpression, bool) {
	line := e.span.Line()
	action := e.linked.Obligation.ActionSpan.Start().Char
	var best entities.TemporalExpression
	bestDist, found := 0, false
	for _, t := range temporals {
		if t.Span.Line() != line {
			continue
		}
		dist := t.Span.Start().Char - action
		if dist < 0 {
			dist = -dist
		}
		if !found || dist < bestDist {
			best = t.Value.(scoring.Scored[entities.TemporalExpression]).Value
			bestDist, found = dist, true
		}
	}
	return best, found
}

// normalizedDays converts a temporal expression's (value, unit) into an
// approximate day count so durations expressed in different units can be
// compared for overlap.
func normalizedDays(t entities.TemporalExpression) int {
	switch t.Unit {
	case entities.Days:
		return t.Value
	case entities.BusinessDays:
		return t.Value * 7 / 5
	case entities.Weeks:
		return t.Value * 7
	case entities.Months:
		return t.Value * 30
	case entities.Years:
		return t.Value * 365
	default:
		return t.Value
	}
}
