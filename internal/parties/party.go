// Package parties implements spec.md §4.8: the obligation party linker
// that resolves each obligation to an (obligor, beneficiary) pair,
// detecting passive voice and extracting beneficiaries from dative and
// direct-object patterns. It also builds the in-core half of the
// accountability graph (SPEC_FULL.md §4 supplemented feature); the
// out-of-core analytics aggregation lives in internal/graphstore.
package parties

import (
	"strings"

	"github.com/turtacn/layeredcontracts/internal/entities"
	"github.com/turtacn/layeredcontracts/internal/obligations"
	"github.com/turtacn/layeredcontracts/internal/scoring"
	"github.com/turtacn/layeredcontracts/internal/substrate"
)

// AttributeLinkedObligation is the attribute type the obligation party
// linker emits.
const AttributeLinkedObligation substrate.AttributeType = "parties.LinkedObligation"

// Voice records whether the obligation's obligor was found via the
// active grammatical subject or the passive by-agent pattern.
type Voice string

const (
	Active  Voice = "Active"
	Passive Voice = "Passive"
)

// BeneficiaryKind classifies how a BeneficiaryReference was found.
type BeneficiaryKind string

const (
	BeneficiaryExplicit BeneficiaryKind = "Explicit"
	BeneficiaryImplicit BeneficiaryKind = "Implicit"
)

// BeneficiaryReference names the party an obligation's performance
// benefits, if one could be extracted.
type BeneficiaryReference struct {
	Kind BeneficiaryKind
	Text string
	Span substrate.Span
}

// LinkedObligation pairs an obligation with its resolved obligor
// (refined for passive voice) and, when found, a beneficiary.
type LinkedObligation struct {
	Obligation  obligations.ObligationPhrase
	Obligor     obligations.ObligorReference
	Beneficiary *BeneficiaryReference
	Voice       Voice
}

var pastParticipleIrregular = map[string]bool{
	"paid": true, "made": true, "given": true, "sent": true, "held": true,
	"kept": true, "done": true, "taken": true, "sold": true, "brought": true,
}

// ResolveLinkedObligations reads obligations.AttributeObligationPhrase
// and entities.AttributeAntecedent off doc and emits one
// ReviewableResult[Scored[LinkedObligation]] per obligation. It must run
// after the obligations, entities (pronoun chain), and lexical layers.
func ResolveLinkedObligations(doc *substrate.Document) []substrate.Assignment {
	obligationAttrs := doc.Attributes().FindAll(obligations.AttributeObligationPhrase)
	antecedents := doc.Attributes().FindAll(entities.AttributeAntecedent)

	var out []substrate.Assignment
	for _, oa := range obligationAttrs {
		reviewable := oa.Value.(scoring.ReviewableResult[scoring.Scored[obligations.ObligationPhrase]])
		phrase := reviewable.Value.Value
		line := oa.Span.Line()
		tokens := doc.Tokens(line)
		modalIdx := indexOfSpan(tokens, phrase.ModalSpan)

		obligor := phrase.Obligor
		voice := Active
		confidence := reviewable.Value.Confidence
		needsReview := reviewable.NeedsReview
		var reviewReason scoring.ReviewKind
		if reviewable.Reason != nil {
			reviewReason = *reviewable.Reason
		}

		if modalIdx >= 0 {
			if passiveObligor, ok := detectPassiveAgent(tokens, modalIdx); ok {
				obligor = passiveObligor
				voice = Passive
				confidence = scoring.Compose(confidence, 0.85)
			} else if isPassiveConstruction(tokens, modalIdx) {
				obligor = obligations.ObligorReference{Kind: obligations.ObligorImplicit, Text: "Implicit"}
				voice = Passive
				confidence = scoring.Compose(confidence, 0.85)
				if !needsReview {
					needsReview = true
					reviewReason = scoring.PassiveVoiceImplicitAgent
				}
			}
		}

		if obligor.Kind == obligations.ObligorPronoun {
			if pronounConf, resolved, ok := resolvePronounObligor(antecedents, obligor.Span); ok {
				obligor = resolved
				confidence = scoring.Compose(confidence, pronounConf)
			}
		}

		var beneficiary *BeneficiaryReference
		if modalIdx >= 0 {
			beneficiary = extractBeneficiary(line, tokens, modalIdx)
		}

		linked := LinkedObligation{Obligation: phrase, Obligor: obligor, Beneficiary: beneficiary, Voice: voice}
		scored := scoring.New(linked, confidence, scoring.RulePartyLinker)
		result := scoring.Reviewable(scored)
		if needsReview {
			result = result.Flag(reviewReason)
		}
		out = append(out, substrate.Assignment{Span: oa.Span, Value: result})
	}
	return out
}

// detectPassiveAgent looks for "{modal} be {past participle} by {NP}"
// starting at modalIdx and, if found, returns an explicit obligor built
// from the NP after "by".
func detectPassiveAgent(tokens []substrate.Token, modalIdx int) (obligations.ObligorReference, bool) {
	i, ok := matchesPhrase(tokens, modalIdx+1, len(tokens), "be")
	if !ok {
		return obligations.ObligorReference{}, false
	}
	for i < len(tokens) && tokens[i].Kind == substrate.TokenWhitespace {
		i++
	}
	if i >= len(tokens) || !isPastParticiple(tokens[i].Text) {
		return obligations.ObligorReference{}, false
	}
	start, ok := matchesPhrase(tokens, i+1, len(tokens), "by")
	if !ok {
		return obligations.ObligorReference{}, false
	}
	for start < len(tokens) && tokens[start].Kind == substrate.TokenWhitespace {
		start++
	}
	end := clauseEndFrom(tokens, start)
	if start >= end {
		return obligations.ObligorReference{}, false
	}
	npTokens := tokens[start:end]
	text := joinWords(npTokens)
	span := spanOfTokens(tokens[modalIdx].Span.Line(), npTokens)
	return obligations.ObligorReference{Kind: obligations.ObligorExplicit, Text: text, Span: span}, true
}

// isPassiveConstruction reports "{modal} be {past participle}" without
// a trailing by-phrase, signalling an agentless passive.
func isPassiveConstruction(tokens []substrate.Token, modalIdx int) bool {
	i, ok := matchesPhrase(tokens, modalIdx+1, len(tokens), "be")
	if !ok {
		return false
	}
	for i < len(tokens) && tokens[i].Kind == substrate.TokenWhitespace {
		i++
	}
	return i < len(tokens) && isPastParticiple(tokens[i].Text)
}

func isPastParticiple(word string) bool {
	lower := strings.ToLower(word)
	if pastParticipleIrregular[lower] {
		return true
	}
	return strings.HasSuffix(lower, "ed") && len(lower) > 2
}

// extractBeneficiary looks, in order, for "for the benefit of {NP}", a
// dative "to {NP}", or a direct object following a small lexicon of
// transfer verbs (spec.md §4.8).
func extractBeneficiary(line int, tokens []substrate.Token, modalIdx int) *BeneficiaryReference {
	end := clauseEndFrom(tokens, modalIdx+1)
	for i := modalIdx + 1; i < end; i++ {
		if tokens[i].Kind != substrate.TokenWord {
			continue
		}
		if next, ok := matchesPhrase(tokens, i, end, "for", "the", "benefit", "of"); ok {
			if np := npAt(tokens, next, end); np != nil {
				return &BeneficiaryReference{Kind: BeneficiaryExplicit, Text: joinWords(np), Span: spanOfTokens(line, np)}
			}
		}
		if strings.EqualFold(tokens[i].Text, "to") {
			if np := npAt(tokens, i+1, end); np != nil {
				return &BeneficiaryReference{Kind: BeneficiaryExplicit, Text: joinWords(np), Span: spanOfTokens(line, np)}
			}
		}
	}
	if transferVerbs[strings.ToLower(firstVerbWord(tokens, modalIdx, end))] {
		verbIdx := findVerbIdx(tokens, modalIdx, end)
		if verbIdx >= 0 {
			if np := npAt(tokens, verbIdx+1, end); np != nil && isCapitalizedPhrase(np) {
				return &BeneficiaryReference{Kind: BeneficiaryExplicit, Text: joinWords(np), Span: spanOfTokens(line, np)}
			}
		}
	}
	return nil
}

var transferVerbs = map[string]bool{"pay": true, "deliver": true, "provide": true, "transfer": true, "convey": true}

func firstVerbWord(tokens []substrate.Token, modalIdx, end int) string {
	for i := modalIdx + 1; i < end; i++ {
		if tokens[i].Kind == substrate.TokenWord {
			return tokens[i].Text
		}
	}
	return ""
}

func findVerbIdx(tokens []substrate.Token, modalIdx, end int) int {
	for i := modalIdx + 1; i < end; i++ {
		if tokens[i].Kind == substrate.TokenWord {
			return i
		}
	}
	return -1
}

// matchesPhrase reports whether the word tokens starting at start spell
// out words in order (skipping whitespace tokens between them), and
// returns the token index immediately after the match.
func matchesPhrase(tokens []substrate.Token, start, end int, words ...string) (int, bool) {
	idx := start
	for _, w := range words {
		for idx < end && tokens[idx].Kind == substrate.TokenWhitespace {
			idx++
		}
		if idx >= end || !strings.EqualFold(tokens[idx].Text, w) {
			return 0, false
		}
		idx++
	}
	return idx, true
}

// npAt collects a contiguous word run (skipping a leading determiner)
// starting at idx, stopping at the clause boundary.
func npAt(tokens []substrate.Token, idx, end int) []substrate.Token {
	for idx < end && tokens[idx].Kind == substrate.TokenWhitespace {
		idx++
	}
	start := idx
	for idx < end && (tokens[idx].Kind == substrate.TokenWord || tokens[idx].Kind == substrate.TokenWhitespace) {
		idx++
	}
	np := tokens[start:idx]
	for len(np) > 0 && isDeterminer(np[0].Text) {
		np = np[1:]
	}
	if len(np) == 0 {
		return nil
	}
	return np
}

func isDeterminer(word string) bool {
	switch strings.ToLower(word) {
	case "the", "a", "an":
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
		if len(r) == 0 || r[0] < 'A' || r[0] > 'Z' {
			return false
		}
	}
	return true
}

// resolvePronounObligor looks up the pronoun chain's primary antecedent
// for the obligor's pronoun span and, if one stands out unambiguously,
// returns an explicit obligor built from it along with the chain
// confidence to compose in.
func resolvePronounObligor(antecedents []substrate.Attribute, pronounSpan substrate.Span) (float64, obligations.ObligorReference, bool) {
	for _, a := range antecedents {
		if a.Span != pronounSpan {
			continue
		}
		ambiguous := a.Value.(scoring.Ambiguous[entities.AntecedentCandidate])
		primary, ok := ambiguous.Primary()
		if !ok || primary.Value.Text == "Implicit" {
			return 0, obligations.ObligorReference{}, false
		}
		return primary.Confidence, obligations.ObligorReference{
			Kind: obligations.ObligorExplicit, Text: primary.Value.Text, Span: primary.Value.Span,
		}, true
	}
	return 0, obligations.ObligorReference{}, false
}

func joinWords(tokens []substrate.Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		if t.Kind != substrate.TokenWord {
			continue
		}
		if sb.Len() > 0 {
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

// clauseEndFrom returns the token index of the nearest clause boundary
// at or after start, mirroring internal/scopeanalysis's boundary logic.
func clauseEndFrom(tokens []substrate.Token, start int) int {
	for i := start; i < len(tokens); i++ {
		if tokens[i].Kind != substrate.TokenWord && tokens[i].Kind != substrate.TokenPunctuation {
			continue
		}
		switch tokens[i].Text {
		case ".", ";", "!", "?", ",":
			return i
		}
	}
	return len(tokens)
}
