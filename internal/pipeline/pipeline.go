package pipeline

import (
	"github.com/turtacn/layeredcontracts/internal/clauses"
	"github.com/turtacn/layeredcontracts/internal/conflicts"
	"github.com/turtacn/layeredcontracts/internal/deixis"
	"github.com/turtacn/layeredcontracts/internal/entities"
	"github.com/turtacn/layeredcontracts/internal/lexical"
	"github.com/turtacn/layeredcontracts/internal/obligations"
	"github.com/turtacn/layeredcontracts/internal/parties"
	"github.com/turtacn/layeredcontracts/internal/scopeanalysis"
	"github.com/turtacn/layeredcontracts/internal/semantics"
	"github.com/turtacn/layeredcontracts/internal/substrate"
)

// Analyze runs every resolver stage over text in the dependency order
// spec.md §2 lists and returns the finished, fully-annotated document.
// It is a pure function: the same text and cfg always produce the same
// document (spec.md §5's determinism requirement), and it performs no
// I/O of its own.
func Analyze(text string, cfg Config) *substrate.Document {
	doc := substrate.NewDocument(text)

	// Lexical resolvers (spec.md §2.4): single-line, order-independent
	// of each other, safe to run per-line in parallel.
	doc = applyResolver(doc, lexical.POSTagger{}, cfg.ParallelPerLine)
	doc = doc.ApplyAssignments(lexical.AttributeModalKeyword, lexical.ResolveModalKeywords(doc))
	doc = doc.ApplyAssignments(lexical.AttributeDefinitionMarker, lexical.ResolveDefinitionMarkers(doc))
	doc = applyResolver(doc, lexical.ProhibitionResolver{}, cfg.ParallelPerLine)
	doc = applyResolver(doc, lexical.SectionHeaderResolver{}, cfg.ParallelPerLine)

	// Entity resolvers (spec.md §2.5).
	doc = applyResolver(doc, entities.DefinedTermResolver{}, cfg.ParallelPerLine)
	doc = doc.ApplyAssignments(entities.AttributeTermReference, entities.ResolveTermReferences(doc))
	doc = applyResolver(doc, entities.PronounResolver{}, cfg.ParallelPerLine)
	doc = doc.ApplyAssignments(entities.AttributeAntecedent, entities.ResolvePronounChains(doc, cfg.pronounChainConfig()))
	doc = applyResolver(doc, entities.SectionReferenceResolver{}, cfg.ParallelPerLine)
	doc = applyResolver(doc, entities.TemporalResolver{}, cfg.ParallelPerLine)

	if cfg.UseDeixisFallback {
		doc = applyResolver(doc, deixis.PersonPronounResolver, cfg.ParallelPerLine)
		doc = applyResolver(doc, deixis.PlaceDeicticResolver, cfg.ParallelPerLine)
		doc = applyResolver(doc, deixis.TemporalDeicticResolver, cfg.ParallelPerLine)
		doc = applyResolver(doc, deixis.DiscourseMarkerResolver, cfg.ParallelPerLine)
	}

	// Obligation extraction (spec.md §2.6): reads modal/prohibition
	// attributes across the whole document, so it is invoked directly.
	doc = doc.ApplyAssignments(obligations.AttributeObligationPhrase, obligations.ResolveObligations(doc))

	// Scope analysis (spec.md §2.7).
	doc = applyResolver(doc, scopeanalysis.NegationDetector{}, cfg.ParallelPerLine)
	doc = applyResolver(doc, scopeanalysis.QuantifierDetector{}, cfg.ParallelPerLine)
	modalScope := scopeanalysis.ModalScopeAnalyzer{Flagger: cfg.ambiguityFlagger()}
	doc = doc.ApplyAssignments(scopeanalysis.AttributeModalScope, modalScope.Analyze(doc))

	// Clause structure (spec.md §2.8).
	doc = applyResolver(doc, clauses.ClauseKeywordResolver{}, cfg.ParallelPerLine)
	doc = applyResolver(doc, clauses.ClauseSegmenter{}, cfg.ParallelPerLine)
	doc = doc.ApplyAssignments(clauses.AttributeClauseLink, clauses.ResolveClauseLinks(doc, cfg.clauseLinkConfig()))

	// Party linking (spec.md §2.9).
	doc = doc.ApplyAssignments(parties.AttributeLinkedObligation, parties.ResolveLinkedObligations(doc))

	// Conflict & precedence (spec.md §2.10).
	doc = doc.ApplyAssignments(conflicts.AttributeConflictLink, conflicts.ResolveConflictLinks(doc, cfg.normalizationConfig()))

	// Semantic roles & normalization (spec.md §2.11).
	doc = doc.ApplyAssignments(semantics.AttributeFrame, semantics.ResolveFrames(doc))
	doc = doc.ApplyAssignments(semantics.AttributeSemanticRoleLink, semantics.ResolveSemanticRoleLinks(doc))

	return doc
}
