// Package scoring implements the confidence and ambiguity machinery every
// resolver attribute is wrapped in: Scored[T] pairs a value with a
// confidence and the rule that produced it; Ambiguous[T] ranks competing
// candidates; ReviewableResult surfaces a human-review flag. Composition
// is always multiplicative, never additive (spec.md §9): a chain of
// imperfect rules can only ever become less certain, never more.
package scoring

import "sort"

// ScoreSource identifies which resolver rule or classifier produced a
// Scored value, used by the snapshot surface and by review tooling to
// explain where a confidence number came from.
type ScoreSource string

const (
	RulePOS           ScoreSource = "RulePOS"
	RuleKeyword       ScoreSource = "RuleKeyword"
	RuleDefinedTerm   ScoreSource = "RuleDefinedTerm"
	RulePronounChain  ScoreSource = "RulePronounChain"
	RuleObligation    ScoreSource = "RuleObligation"
	RuleScopeOperator ScoreSource = "RuleScopeOperator"
	RuleModalScope    ScoreSource = "RuleModalScope"
	RuleClauseLink    ScoreSource = "RuleClauseLink"
	RulePartyLinker   ScoreSource = "RulePartyLinker"
	RuleConflict      ScoreSource = "RuleConflict"
	RulePrecedence    ScoreSource = "RulePrecedence"
	RuleSemanticRole  ScoreSource = "RuleSemanticRole"
	RuleDeixis        ScoreSource = "RuleDeixis"
	RuleHumanVerified ScoreSource = "RuleHumanVerified"
)

// Scored pairs a value of type T with a confidence in [0.0, 1.0] and the
// rule that produced it. A confidence of exactly 1.0 denotes a
// human-verified value (spec.md §3).
type Scored[T any] struct {
	Value      T
	Confidence float64
	Source     ScoreSource
}

// New constructs a Scored value, clamping confidence into [0.0, 1.0].
func New[T any](value T, confidence float64, source ScoreSource) Scored[T] {
	return Scored[T]{Value: value, Confidence: clamp(confidence), Source: source}
}

// NeedsVerification reports whether the value's confidence is below the
// human-verified threshold of 1.0.
func (s Scored[T]) NeedsVerification() bool {
	return s.Confidence < 1.0
}

// Compose combines this Scored value's confidence with another factor
// (typically the confidence of an earlier-stage Scored value it
// depends on), returning a new Scored with the multiplied, clamped
// confidence and the same value and source as the receiver.
func (s Scored[T]) Compose(factor float64) Scored[T] {
	return Scored[T]{Value: s.Value, Confidence: compose(s.Confidence, factor), Source: s.Source}
}

// WithValue returns a copy of s with Value replaced, keeping confidence
// and source — used when a downstream stage re-keys a Scored value
// (e.g. wrapping a raw obligor string into an ObligorReference) without
// altering how certain the extraction was.
func (s Scored[T]) WithValue(value T) Scored[T] {
	return Scored[T]{Value: value, Confidence: s.Confidence, Source: s.Source}
}

// Compose multiplies two confidences and clamps the result to [0, 1].
// This is the one confidence-combination rule used throughout the
// pipeline (spec.md §3, §9): composition is always multiplicative.
func Compose(a, b float64) float64 {
	return compose(a, b)
}

// ComposeAll multiplicatively folds a sequence of confidences, returning
// 1.0 for an empty sequence (the multiplicative identity).
func ComposeAll(confidences ...float64) float64 {
	result := 1.0
	for _, c := range confidences {
		result = compose(result, c)
	}
	return result
}

func compose(a, b float64) float64 {
	return clamp(clamp(a) * clamp(b))
}

func clamp(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

// Ambiguous holds a list of candidate Scored[T] values ordered by
// descending confidence, plus an AmbiguityFlag derived from the gap
// between the top-1 and top-2 candidates.
type Ambiguous[T any] struct {
	Candidates []Scored[T]
	Flagged    bool
}

// NewAmbiguous sorts candidates by descending confidence and sets Flagged
// when the gap between the top two falls below gapThreshold (spec.md §6
// default 0.15). With fewer than two candidates Flagged stays false.
func NewAmbiguous[T any](candidates []Scored[T], gapThreshold float64) Ambiguous[T] {
	sorted := append([]Scored[T](nil), candidates...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Confidence > sorted[j].Confidence
	})
	a := Ambiguous[T]{Candidates: sorted}
	if len(sorted) >= 2 {
		gap := sorted[0].Confidence - sorted[1].Confidence
		a.Flagged = gap < gapThreshold
	}
	return a
}

// Primary returns the top-ranked candidate and true, or the zero value
// and false if there are no candidates.
func (a Ambiguous[T]) Primary() (Scored[T], bool) {
	if len(a.Candidates) == 0 {
		var zero Scored[T]
		return zero, false
	}
	return a.Candidates[0], true
}

// ReviewKind enumerates why a ReviewableResult needs a human look.
type ReviewKind string

const (
	LowConfidence             ReviewKind = "LowConfidence"
	MultipleInterpretations   ReviewKind = "MultipleInterpretations"
	NegationInteraction       ReviewKind = "NegationInteraction"
	PassiveVoiceImplicitAgent ReviewKind = "PassiveVoiceImplicitAgent"
	ModalAmbiguous            ReviewKind = "ModalAmbiguous"
	PolarityDoubleNegative    ReviewKind = "PolarityDoubleNegative"
)

// ReviewableResult wraps any output with a review flag and an optional
// reason. A nil Reason accompanies NeedsReview == false.
type ReviewableResult[T any] struct {
	Value       T
	NeedsReview bool
	Reason      *ReviewKind
}

// Reviewable constructs a ReviewableResult that does not need review.
func Reviewable[T any](value T) ReviewableResult[T] {
	return ReviewableResult[T]{Value: value}
}

// Flag returns a copy of r marked for review with the given reason.
func (r ReviewableResult[T]) Flag(reason ReviewKind) ReviewableResult[T] {
	r.NeedsReview = true
	r.Reason = &reason
	return r
}

// VerificationAction is the decision a human reviewer makes about a
// flagged result (original_source/layered-contracts/src/verification.rs).
type VerificationAction string

const (
	VerificationAccept   VerificationAction = "Accept"
	VerificationReject   VerificationAction = "Reject"
	VerificationOverride VerificationAction = "Override"
)

// VerificationTarget names the attribute a VerificationNote applies to,
// by type and span, so a note can be matched back to the Scored value it
// reviewed without holding a pointer into the AttributeStore.
type VerificationTarget struct {
	AttributeType string
	Span          string // Span.String(); kept as a string to avoid an import cycle with substrate
}

// VerificationNote records a human reviewer's decision about a flagged
// attribute: which target it concerns, what action was taken, and an
// optional override value (used only when Action == VerificationOverride).
type VerificationNote struct {
	Target   VerificationTarget
	Action   VerificationAction
	Reviewer string
	Comment  string
}

// ApplyVerification produces a new Scored[T] reflecting a human
// reviewer's decision. It never mutates the original value (the
// substrate's append-only invariant, spec.md §8 invariant 6):
//
//   - Accept: confidence is raised to 1.0, value and override are untouched.
//   - Reject: confidence is lowered to 0.0; the value is kept so callers can
//     still inspect what was rejected.
//   - Override: the override value replaces Value, confidence is raised to
//     1.0.
func ApplyVerification[T any](original Scored[T], note VerificationNote, override T) Scored[T] {
	switch note.Action {
	case VerificationAccept:
		return Scored[T]{Value: original.Value, Confidence: 1.0, Source: RuleHumanVerified}
	case VerificationReject:
		return Scored[T]{Value: original.Value, Confidence: 0.0, Source: RuleHumanVerified}
	case VerificationOverride:
		return Scored[T]{Value: override, Confidence: 1.0, Source: RuleHumanVerified}
	default:
		return original
	}
}
