package entities

import (
	"regexp"

	"github.com/turtacn/layeredcontracts/internal/scoring"
	"github.com/turtacn/layeredcontracts/internal/substrate"
)

// AttributeSectionReference is the attribute type the section-reference
// resolver emits.
const AttributeSectionReference substrate.AttributeType = "entities.SectionReference"

// ReferenceIntent classifies the intent-bearing phrase that may precede
// a section reference (spec.md §4.4).
type ReferenceIntent string

const (
	IntentNone       ReferenceIntent = ""
	IntentCondition  ReferenceIntent = "Condition"
	IntentOverride   ReferenceIntent = "Override"
	IntentDefinition ReferenceIntent = "Definition"
)

// SectionReference is a detected reference to another part of the
// document ("Section 3.2", "Exhibit A", "Article IV").
type SectionReference struct {
	Kind      string // "Section" | "Exhibit" | "Article"
	Number    string
	Intent    ReferenceIntent
}

var (
	sectionRefRe = regexp.MustCompile(`\b(Section|Exhibit|Article)\s+([A-Za-z0-9.]+)`)
	subjectToRe  = regexp.MustCompile(`(?i)\bsubject to\s*$`)
	notwithRe    = regexp.MustCompile(`(?i)\bnotwithstanding\s*$`)
	asDefinedRe  = regexp.MustCompile(`(?i)\bas defined in\s*$`)
)

// SectionReferenceResolver detects cross-references to sections,
// exhibits, and articles, optionally tagged with the intent-bearing
// phrase preceding them.
type SectionReferenceResolver struct{}

var _ substrate.Resolver = SectionReferenceResolver{}

func (SectionReferenceResolver) AttributeType() substrate.AttributeType {
	return AttributeSectionReference
}

func (SectionReferenceResolver) Resolve(_ *substrate.Document, sel substrate.Selection) []substrate.Assignment {
	text := sel.Text()
	var out []substrate.Assignment
	for _, loc := range sectionRefRe.FindAllStringSubmatchIndex(text, -1) {
		kind := text[loc[2]:loc[3]]
		number := text[loc[4]:loc[5]]
		prefix := text[:loc[0]]
		intent := IntentNone
		switch {
		case notwithRe.MatchString(prefix):
			intent = IntentOverride
		case subjectToRe.MatchString(prefix):
			intent = IntentCondition
		case asDefinedRe.MatchString(prefix):
			intent = IntentDefinition
		}
		span, err := substrate.NewSpan(sel.Line(), runeIndex(text, loc[0]), runeIndex(text, loc[1]))
		if err != nil {
			continue
		}
		out = append(out, substrate.Assignment{
			Span:  span,
			Value: scoring.New(SectionReference{Kind: kind, Number: number, Intent: intent}, 0.9, scoring.RuleKeyword),
		})
	}
	return out
}
