// Package semantics implements spec.md §4.10: a verb-pattern semantic
// role labeler that extracts an agent/patient/theme/recipient/
// beneficiary frame from each linked obligation, and an obligation
// normalizer that collapses active/passive phrasings of the same
// commitment into a single canonical key.
package semantics

import (
	"strings"

	"github.com/turtacn/layeredcontracts/internal/parties"
	"github.com/turtacn/layeredcontracts/internal/scopeops"
	"github.com/turtacn/layeredcontracts/internal/scoring"
	"github.com/turtacn/layeredcontracts/internal/substrate"
)

// AttributeFrame is the attribute type the semantic role labeler emits.
const AttributeFrame substrate.AttributeType = "semantics.Frame"

// RoleFiller is one resolved frame slot: the text it covers and the span
// it was found at, when the slot could be filled.
type RoleFiller struct {
	Text string
	Span substrate.Span
}

// Frame is the agent/patient/theme/recipient/beneficiary structure
// spec.md §4.10 names. Agent is always filled (it is the obligor, which
// obligations.go already guarantees a value for, even if Implicit);
// the rest are optional.
type Frame struct {
	Agent       RoleFiller
	Patient     *RoleFiller
	Theme       *RoleFiller
	Recipient   *RoleFiller
	Beneficiary *RoleFiller
	Verb        string
}

// transferVerbs mirrors internal/parties' transfer-verb lexicon: when the
// main verb names a handover, the direct object fills Theme and a dative
// beneficiary fills Recipient rather than Beneficiary.
var transferVerbs = map[string]bool{
	"pay": true, "deliver": true, "provide": true, "transfer": true,
	"convey": true, "send": true, "return": true, "remit": true,
}

// pastParticipleLemma maps a handful of irregular past-participle forms
// back to their base form, so a passive clause ("shall be paid by X")
// and its active counterpart ("X shall pay ...") normalize to the same
// verb lemma. Regular "-ed" forms are stripped mechanically in
// verbLemma.
var pastParticipleLemma = map[string]string{
	"paid": "pay", "given": "provide", "sent": "send",
}

// verbLemma reduces a surface verb form to the base form used both for
// transfer-verb classification and for the obligation normalizer's
// canonical key.
func verbLemma(verb string) string {
	lower := strings.ToLower(verb)
	if lemma, ok := pastParticipleLemma[lower]; ok {
		return lemma
	}
	if strings.HasSuffix(lower, "ed") && len(lower) > 4 {
		return strings.TrimSuffix(lower, "ed")
	}
	return lower
}

func isTransferVerb(verb string) bool {
	return transferVerbs[verbLemma(verb)]
}

var prepositionStop = map[string]bool{
	"to": true, "by": true, "for": true, "in": true, "on": true,
	"under": true, "within": true, "of": true, "at": true,
}

// BuildFrame derives a Frame from one linked obligation. doc supplies the
// token stream the role labeler walks.
func BuildFrame(doc *substrate.Document, linked parties.LinkedObligation) Frame {
	frame := Frame{Agent: RoleFiller{Text: linked.Obligor.Text, Span: linked.Obligor.Span}}

	verb, verbIdx, tokens := mainVerb(doc, linked)
	frame.Verb = verbLemma(verb)
	obj, objSpan, ok := directObject(tokens, verbIdx)

	isTransfer := isTransferVerb(verb)
	if ok {
		filler := &RoleFiller{Text: obj, Span: objSpan}
		if isTransfer {
			frame.Theme = filler
		} else {
			frame.Patient = filler
		}
	}

	if linked.Beneficiary != nil {
		filler := &RoleFiller{Text: linked.Beneficiary.Text, Span: linked.Beneficiary.Span}
		if isTransfer {
			frame.Recipient = filler
		} else {
			frame.Beneficiary = filler
		}
	}

	if linked.Voice == parties.Passive && !ok {
		if subj, subjSpan, ok := surfaceSubject(doc, linked.Obligation.ModalSpan); ok {
			filler := &RoleFiller{Text: subj, Span: subjSpan}
			if isTransfer {
				frame.Theme = filler
			} else {
				frame.Patient = filler
			}
		}
	}

	return frame
}

var beAuxiliary = map[string]bool{"be": true, "is": true, "are": true, "being": true, "been": true}

// mainVerb returns the first word token inside the obligation's action
// span (the verb the modal governs), its token index within the line,
// and the line's full token slice. A leading "be" auxiliary (passive
// constructions: "shall be returned") is skipped so the verb reported is
// the past participle that actually names the action.
func mainVerb(doc *substrate.Document, linked parties.LinkedObligation) (string, int, []substrate.Token) {
	line := linked.Obligation.ActionSpan.Line()
	tokens := doc.Tokens(line)
	startChar := linked.Obligation.ActionSpan.Start().Char
	for i, t := range tokens {
		if t.Kind != substrate.TokenWord || t.Span.Start().Char < startChar {
			continue
		}
		if beAuxiliary[strings.ToLower(t.Text)] {
			continue
		}
		return t.Text, i, tokens
	}
	return "", -1, tokens
}

// directObject takes the noun phrase immediately after the main verb, up
// to the first stop preposition or clause boundary, dropping a leading
// determiner.
func directObject(tokens []substrate.Token, verbIdx int) (string, substrate.Span, bool) {
	if verbIdx < 0 || verbIdx+1 >= len(tokens) {
		return "", substrate.Span{}, false
	}
	line := tokens[verbIdx].Span.Line()
	start := verbIdx + 1
	end := start
	for end < len(tokens) {
		t := tokens[end]
		if t.Kind == substrate.TokenPunctuation {
			break
		}
		if t.Kind == substrate.TokenWord && prepositionStop[strings.ToLower(t.Text)] {
			break
		}
		end++
	}
	phrase := tokens[start:end]
	for len(phrase) > 0 && phrase[0].Kind != substrate.TokenWord {
		phrase = phrase[1:]
	}
	for len(phrase) > 0 && isDeterminer(phrase[0].Text) {
		phrase = phrase[1:]
	}
	if len(phrase) == 0 {
		return "", substrate.Span{}, false
	}
	return joinWords(phrase), spanOfTokens(line, phrase), true
}

// surfaceSubject returns the noun phrase preceding the modal verb, used
// as the Theme/Patient for a passive clause whose action span has no
// direct object ("The deposit shall be returned.").
func surfaceSubject(doc *substrate.Document, modalSpan substrate.Span) (string, substrate.Span, bool) {
	line := modalSpan.Line()
	tokens := doc.Tokens(line)
	modalIdx := -1
	for i, t := range tokens {
		if t.Span == modalSpan {
			modalIdx = i
			break
		}
	}
	if modalIdx <= 0 {
		return "", substrate.Span{}, false
	}
	start := 0
	for i := modalIdx - 1; i >= 0; i-- {
		if tokens[i].Kind == substrate.TokenPunctuation {
			start = i + 1
			break
		}
	}
	phrase := tokens[start:modalIdx]
	for len(phrase) > 0 && phrase[0].Kind != substrate.TokenWord {
		phrase = phrase[1:]
	}
	for len(phrase) > 0 && isDeterminer(phrase[0].Text) {
		phrase = phrase[1:]
	}
	if len(phrase) == 0 {
		return "", substrate.Span{}, false
	}
	return joinWords(phrase), spanOfTokens(line, phrase), true
}

func isDeterminer(word string) bool {
	switch strings.ToLower(word) {
	case "the", "a", "an":
		return true
	default:
		return false
	}
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

// ResolveFrames reads AttributeLinkedObligation off doc and emits one
// Frame per obligation, stored under AttributeFrame.
func ResolveFrames(doc *substrate.Document) []substrate.Assignment {
	var out []substrate.Assignment
	for _, attr := range doc.Attributes().FindAll(parties.AttributeLinkedObligation) {
		reviewable := attr.Value.(scoring.ReviewableResult[scoring.Scored[parties.LinkedObligation]])
		linked := reviewable.Value.Value
		frame := BuildFrame(doc, linked)
		out = append(out, substrate.Assignment{Span: attr.Span, Value: frame})
	}
	return out
}

// AttributeSemanticRoleLink is the attribute type the frame-link
// resolver emits: a SpanLink[scopeops.SemanticRole] per filled frame
// slot, so a caller holding an obligation's span can walk straight to
// its agent/patient/theme/recipient/beneficiary spans without
// re-deriving the frame. Must run after ResolveFrames.
const AttributeSemanticRoleLink substrate.AttributeType = "semantics.SemanticRoleLink"

// ResolveSemanticRoleLinks reads AttributeFrame off doc and emits the
// SpanLink[scopeops.SemanticRole] edges for every filled slot.
func ResolveSemanticRoleLinks(doc *substrate.Document) []substrate.Assignment {
	var out []substrate.Assignment
	for _, attr := range doc.Attributes().FindAll(AttributeFrame) {
		frame := attr.Value.(Frame)
		out = append(out, substrate.Assignment{Span: attr.Span, Value: scopeops.NewSpanLink(scopeops.RoleAgent, frame.Agent.Span)})
		if frame.Patient != nil {
			out = append(out, substrate.Assignment{Span: attr.Span, Value: scopeops.NewSpanLink(scopeops.RolePatient, frame.Patient.Span)})
		}
		if frame.Theme != nil {
			out = append(out, substrate.Assignment{Span: attr.Span, Value: scopeops.NewSpanLink(scopeops.RoleTheme, frame.Theme.Span)})
		}
		if frame.Recipient != nil {
			out = append(out, substrate.Assignment{Span: attr.Span, Value: scopeops.NewSpanLink(scopeops.RoleRecipient, frame.Recipient.Span)})
		}
		if frame.Beneficiary != nil {
			out = append(out, substrate.Assignment{Span: attr.Span, Value: scopeops.NewSpanLink(scopeops.RoleBeneficiary, frame.Beneficiary.Span)})
		}
	}
	return out
}
