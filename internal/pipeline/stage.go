// Package pipeline sequences every resolver stage built in
// internal/lexical, internal/entities, internal/obligations,
// internal/scopeanalysis, internal/clauses, internal/parties,
// internal/conflicts, and internal/semantics (plus the optional
// internal/deixis fallback lexicon) into the single dependency order
// spec.md §2 lists, and exposes the public surfaces spec.md §6 names on
// top of the finished document: the typed attribute query surface
// (FindAll/FindAt/FindCovering), the clause query API (re-exported from
// internal/clauses), and the snapshot surface the "snapshot renderer"
// collaborator consumes. Like every package it wraps, pipeline performs
// no I/O: Analyze is a pure function from text and Config to an
// annotated *substrate.Document.
package pipeline

// Stage names one resolver stage in the fixed dependency order, used for
// logging and for the latency histogram internal/infrastructure/monitoring/prometheus
// records per stage. The naming and "Requires:" doc-comment convention
// here follows the Annotator enum in the CoreNLP client reference
// (other_examples' client-annotators.go): each stage names the upstream
// attribute types it reads.
type Stage string

const (
	// StagePOS assigns closed-class part-of-speech tags.
	// Requires: substrate tokens only.
	StagePOS Stage = "pos"

	// StageModalKeyword detects modal verbs and definition markers.
	// Requires: substrate tokens only.
	StageModalKeyword Stage = "modal_keyword"

	// StageProhibition detects negated-modal constructions.
	// Requires: substrate tokens only.
	StageProhibition Stage = "prohibition"

	// StageSectionHeader detects numbered/lettered/Roman section headers.
	// Requires: substrate tokens only.
	StageSectionHeader Stage = "section_header"

	// StageDefinedTerm detects parenthetical and "means" definitions.
	// Requires: substrate tokens only.
	StageDefinedTerm Stage = "defined_term"

	// StageTermReference resolves later uses of a defined term back to
	// its definition.
	// Requires: defined_term.
	StageTermReference Stage = "term_reference"

	// StagePronoun tags personal and archaic-deictic pronouns.
	// Requires: substrate tokens only.
	StagePronoun Stage = "pronoun"

	// StagePronounChain resolves each pronoun to its nearest compatible
	// antecedent.
	// Requires: pronoun.
	StagePronounChain Stage = "pronoun_chain"

	// StageSectionReference detects cross-references to other sections.
	// Requires: substrate tokens only.
	StageSectionReference Stage = "section_reference"

	// StageTemporal detects quantified durations ("30 days").
	// Requires: substrate tokens only.
	StageTemporal Stage = "temporal"

	// StageObligation extracts obligation phrases with modal/negation
	// classification and an obligor reference.
	// Requires: modal_keyword, prohibition.
	StageObligation Stage = "obligation"

	// StageNegation detects negation scope operators.
	// Requires: substrate tokens only.
	StageNegation Stage = "negation"

	// StageQuantifier detects quantifier scope operators.
	// Requires: substrate tokens only.
	StageQuantifier Stage = "quantifier"

	// StageModalScope composes an obligation with the negation and
	// quantifier operators governing its clause.
	// Requires: obligation, negation, quantifier.
	StageModalScope Stage = "modal_scope"

	// StageClauseKeyword tags exception/condition subordinator words.
	// Requires: substrate tokens only.
	StageClauseKeyword Stage = "clause_keyword"

	// StageClauseSegment splits each line into clauses.
	// Requires: clause_keyword.
	StageClauseSegment Stage = "clause_segment"

	// StageClauseLink builds Parent/Child/Conjunct/Exception/CrossReference
	// edges between clauses.
	// Requires: clause_segment, section_reference.
	StageClauseLink Stage = "clause_link"

	// StageParty links each obligation to its obligor (active or passive
	// voice) and an optional beneficiary.
	// Requires: obligation, pronoun_chain, defined_term.
	StageParty Stage = "party"

	// StageConflictLink detects pairwise obligation conflicts and links
	// each side to the other.
	// Requires: party, section_header, section_reference, temporal.
	StageConflictLink Stage = "conflict_link"

	// StageSemanticFrame extracts an agent/patient/theme/recipient/
	// beneficiary frame per obligation.
	// Requires: party.
	StageSemanticFrame Stage = "semantic_frame"

	// StageSemanticRoleLink links each frame slot's span back to the
	// obligation it fills.
	// Requires: semantic_frame.
	StageSemanticRoleLink Stage = "semantic_role_link"

	// StageDeixisFallback tags deictic words the pronoun resolver's own
	// lexicon misses (optional, gated by Config.UseDeixisFallback).
	// Requires: substrate tokens only.
	StageDeixisFallback Stage = "deixis_fallback"
)

// Order is every stage, leaves first, matching spec.md §2's numbered
// component list. Analyze follows it except for StageDeixisFallback,
// which, when enabled, runs right after StageTemporal.
var Order = []Stage{
	StagePOS,
	StageModalKeyword,
	StageProhibition,
	StageSectionHeader,
	StageDefinedTerm,
	StageTermReference,
	StagePronoun,
	StagePronounChain,
	StageSectionReference,
	StageTemporal,
	StageObligation,
	StageNegation,
	StageQuantifier,
	StageModalScope,
	StageClauseKeyword,
	StageClauseSegment,
	StageClauseLink,
	StageParty,
	StageConflictLink,
	StageSemanticFrame,
	StageSemanticRoleLink,
	StageDeixisFallback,
}
