package entities

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/turtacn/layeredcontracts/internal/scoring"
	"github.com/turtacn/layeredcontracts/internal/substrate"
)

// AttributeTemporalExpression is the attribute type the temporal
// resolver emits.
const AttributeTemporalExpression substrate.AttributeType = "entities.TemporalExpression"

// TimeUnit enumerates the duration units spec.md §4.4 names.
type TimeUnit string

const (
	Days         TimeUnit = "Days"
	Weeks        TimeUnit = "Weeks"
	Months       TimeUnit = "Months"
	Years        TimeUnit = "Years"
	BusinessDays TimeUnit = "BusinessDays"
)

// TemporalKind classifies the shape of a detected temporal expression.
type TemporalKind string

const (
	KindDate                 TemporalKind = "Date"
	KindDuration             TemporalKind = "Duration"
	KindDeadline             TemporalKind = "Deadline"
	KindDefinedDateReference TemporalKind = "DefinedDateReference"
	KindRelativeTime         TemporalKind = "RelativeTime"
)

// TemporalExpression is one detected date, duration, deadline, or
// relative-time phrase.
type TemporalExpression struct {
	Kind        TemporalKind
	Value       int
	Unit        TimeUnit
	WrittenForm string
	Text        string
}

var writtenNumbers = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6, "seven": 7,
	"eight": 8, "nine": 9, "ten": 10, "eleven": 11, "twelve": 12, "thirteen": 13,
	"fourteen": 14, "fifteen": 15, "sixteen": 16, "seventeen": 17, "eighteen": 18,
	"nineteen": 19, "twenty": 20, "thirty": 30, "forty": 40, "fifty": 50,
	"sixty": 60, "ninety": 90,
}

var (
	// "thirty (30) business days" / "30 days" / "ten days".
	durationRe = regexp.MustCompile(`(?i)\b(?:(` + writtenNumberAlternation() + `)\s*\((\d+)\)|(\d+))\s+(business|working)?\s*(day|days|week|weeks|month|months|year|years)\b`)
	deadlineRe = regexp.MustCompile(`(?i)\b(within|no later than|on or before|by)\b`)
	dateRe     = regexp.MustCompile(`\b(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},?\s+\d{4}\b|\b\d{1,2}/\d{1,2}/\d{4}\b`)
	definedDateRe = regexp.MustCompile(`\bthe\s+([A-Z][a-zA-Z]*\s+Date)\b`)
	relativeTimeRe = regexp.MustCompile(`(?i)\b(thereafter|immediately|promptly|as soon as possible|henceforth)\b`)
)

func writtenNumberAlternation() string {
	words := make([]string, 0, len(writtenNumbers))
	for w := range writtenNumbers {
		words = append(words, w)
	}
	return strings.Join(words, "|")
}

// TemporalResolver detects dates, durations, deadlines, defined-date
// references, and relative-time phrases (spec.md §4.4). Duration
// matches that fall inside a deadline-introducing phrase ("within
// thirty (30) days") are emitted as KindDeadline instead of
// KindDuration, carrying the same parsed value/unit.
type TemporalResolver struct{}

var _ substrate.Resolver = TemporalResolver{}

func (TemporalResolver) AttributeType() substrate.AttributeType { return AttributeTemporalExpression }

func (TemporalResolver) Resolve(_ *substrate.Document, sel substrate.Selection) []substrate.Assignment {
	text := sel.Text()
	var out []substrate.Assignment

	for _, loc := range durationRe.FindAllStringSubmatchIndex(text, -1) {
		expr := parseDuration(text, loc)
		kind := KindDuration
		if deadlineRe.MatchString(text[:loc[0]]) {
			kind = KindDeadline
		}
		expr.Kind = kind
		span, err := substrate.NewSpan(sel.Line(), runeIndex(text, loc[0]), runeIndex(text, loc[1]))
		if err != nil {
			continue
		}
		out = append(out, substrate.Assignment{Span: span, Value: scoring.New(expr, 0.9, scoring.RuleKeyword)})
	}

	for _, loc := range dateRe.FindAllStringIndex(text, -1) {
		span, err := substrate.NewSpan(sel.Line(), runeIndex(text, loc[0]), runeIndex(text, loc[1]))
		if err != nil {
			continue
		}
		expr := TemporalExpression{Kind: KindDate, Text: text[loc[0]:loc[1]]}
		out = append(out, substrate.Assignment{Span: span, Value: scoring.New(expr, 0.9, scoring.RuleKeyword)})
	}

	for _, loc := range definedDateRe.FindAllStringSubmatchIndex(text, -1) {
		span, err := substrate.NewSpan(sel.Line(), runeIndex(text, loc[0]), runeIndex(text, loc[1]))
		if err != nil {
			continue
		}
		expr := TemporalExpression{Kind: KindDefinedDateReference, Text: text[loc[2]:loc[3]]}
		out = append(out, substrate.Assignment{Span: span, Value: scoring.New(expr, 0.85, scoring.RuleKeyword)})
	}

	for _, loc := range relativeTimeRe.FindAllStringIndex(text, -1) {
		span, err := substrate.NewSpan(sel.Line(), runeIndex(text, loc[0]), runeIndex(text, loc[1]))
		if err != nil {
			continue
		}
		expr := TemporalExpression{Kind: KindRelativeTime, Text: text[loc[0]:loc[1]]}
		out = append(out, substrate.Assignment{Span: span, Value: scoring.New(expr, 0.8, scoring.RuleKeyword)})
	}

	return out
}

// parseDuration extracts value, written form, and unit from a
// durationRe submatch. Capture groups: 1=written word, 2=parenthetical
// digits, 3=bare digits, 4=business/working prefix, 5=unit word.
func parseDuration(text string, loc []int) TemporalExpression {
	expr := TemporalExpression{Text: text[loc[0]:loc[1]]}

	if loc[2] >= 0 && loc[3] >= 0 {
		expr.WrittenForm = text[loc[2]:loc[3]]
	}
	switch {
	case loc[4] >= 0 && loc[5] >= 0:
		v, _ := strconv.Atoi(text[loc[4]:loc[5]])
		expr.Value = v
	case loc[6] >= 0 && loc[7] >= 0:
		v, _ := strconv.Atoi(text[loc[6]:loc[7]])
		expr.Value = v
	}
	if expr.Value == 0 && expr.WrittenForm != "" {
		expr.Value = writtenNumbers[strings.ToLower(expr.WrittenForm)]
	}

	unitWord := strings.ToLower(text[loc[10]:loc[11]])
	expr.Unit = unitFromWord(unitWord)
	if loc[8] >= 0 && loc[9] >= 0 {
		expr.Unit = BusinessDays
	}
	return expr
}

func unitFromWord(word string) TimeUnit {
	switch {
	case strings.HasPrefix(word, "day"):
		return Days
	case strings.HasPrefix(word, "week"):
		return Weeks
	case strings.HasPrefix(word, "month"):
		return Months
	case strings.HasPrefix(word, "year"):
		return Years
	default:
		return Days
	}
}
