package pipeline

import (
	"github.com/turtacn/layeredcontracts/internal/clauses"
	"github.com/turtacn/layeredcontracts/internal/conflicts"
	"github.com/turtacn/layeredcontracts/internal/entities"
	"github.com/turtacn/layeredcontracts/internal/scopeanalysis"
)

// Config holds every resolver tunable spec.md §6 names, plus the
// per-line-parallelism and deixis-fallback switches SPEC_FULL.md adds.
// internal/config is the collaborator that loads this shape from
// YAML/env (viper) for the CLI; pipeline itself never touches a file or
// environment variable.
type Config struct {
	ModalScope struct {
		ReviewConfidenceThreshold float64
	}
	Ambiguity struct {
		GapThreshold float64
	}
	PronounChain struct {
		DistanceDecay float64
		Floor         float64
	}
	ClauseLink struct {
		CrossLineEnabled bool
	}
	Conflict struct {
		ActionNormalization struct {
			StripArticles bool
		}
	}
	Scope struct {
		// DefaultDomainBoundary names the clause-vs-sentence boundary
		// negation/quantifier scope detection stops at. The core
		// currently only implements the "clause" boundary
		// (internal/scopeanalysis's clauseEndFrom); this field is
		// accepted and validated so a future sentence-level boundary
		// can be added without another config-shape change, per
		// SPEC_FULL.md §6 Open Question #3 treating these as
		// configuration rather than constants.
		DefaultDomainBoundary string
	}

	// ParallelPerLine enables per-line concurrent execution of the
	// pure, single-line Resolver stages (spec.md §5: "Implementations
	// may parallelize per-line resolvers whose outputs do not cross
	// line boundaries; such parallelism must preserve per-line
	// insertion order"). Multi-attribute stages (obligation, party,
	// conflict, semantic, clause link, modal scope) never run in
	// parallel: they read across the whole document by construction.
	ParallelPerLine bool

	// UseDeixisFallback runs internal/deixis's closed word lists as an
	// additional tagging pass (spec.md §1 calls these "simple lexicon
	// wrappers" that stay out of core scope; this flag is how a caller
	// opts into consulting them for pronoun fallback classification
	// without making internal/entities depend on internal/deixis).
	UseDeixisFallback bool
}

// DefaultConfig returns spec.md §6's documented defaults.
func DefaultConfig() Config {
	var cfg Config
	cfg.ModalScope.ReviewConfidenceThreshold = scopeanalysis.DefaultScopeThreshold
	cfg.Ambiguity.GapThreshold = scopeanalysis.DefaultScopeGap
	cfg.PronounChain.DistanceDecay = entities.DefaultPronounChainConfig().DistanceDecay
	cfg.PronounChain.Floor = entities.DefaultPronounChainConfig().Floor
	cfg.ClauseLink.CrossLineEnabled = clauses.DefaultClauseLinkConfig().CrossLineEnabled
	cfg.Conflict.ActionNormalization.StripArticles = conflicts.DefaultNormalizationConfig().StripArticles
	cfg.Scope.DefaultDomainBoundary = "clause"
	cfg.ParallelPerLine = false
	cfg.UseDeixisFallback = false
	return cfg
}

func (c Config) pronounChainConfig() entities.PronounChainConfig {
	return entities.PronounChainConfig{
		DistanceDecay: c.PronounChain.DistanceDecay,
		Floor:         c.PronounChain.Floor,
		GapThreshold:  c.Ambiguity.GapThreshold,
	}
}

func (c Config) clauseLinkConfig() clauses.ClauseLinkConfig {
	return clauses.ClauseLinkConfig{CrossLineEnabled: c.ClauseLink.CrossLineEnabled}
}

func (c Config) normalizationConfig() conflicts.NormalizationConfig {
	return conflicts.NormalizationConfig{StripArticles: c.Conflict.ActionNormalization.StripArticles}
}

func (c Config) ambiguityFlagger() scopeanalysis.AmbiguityFlagger {
	return scopeanalysis.AmbiguityFlagger{Threshold: c.ModalScope.ReviewConfidenceThreshold, Gap: c.Ambiguity.GapThreshold}
}
