package library

import (
	"sort"

	"github.com/jackzampolin/docket/internal/pattern"
)

// Complexity preferences accepted by Suggest.
const (
	ComplexitySimple  = "simple"
	ComplexityMedium  = "medium"
	ComplexityComplex = "complex"
)

// Feature names accepted in suggestion and recommendation queries.
const (
	FeatureLogo      = "logo"
	FeatureTables    = "tables"
	FeatureMultipage = "multipage"
	FeatureFormal    = "formal"
)

// maxSuggestions caps the ranked result list.
const maxSuggestions = 5

// Suggestion pairs a candidate pattern with its query score. Scores live
// here, beside the pattern rather than on it, so the stored patterns stay
// immutable and concurrent readers are safe.
type Suggestion struct {
	Pattern *pattern.TemplatePattern `json:"pattern"`
	Score   int                      `json:"score"`
}

// Suggest ranks stored patterns for a target document type, wanted
// features, and complexity preference, returning at most five. The query
// is pure: identical library state and inputs produce an identically
// ordered result. Ties break by ascending pattern id.
func (l *Library) Suggest(docType string, features []string, complexity string) []Suggestion {
	preferred := preferredComplexity(complexity)
	wantLogo := hasFeature(features, FeatureLogo)
	wantTables := hasFeature(features, FeatureTables)
	wantMultipage := hasFeature(features, FeatureMultipage)

	l.mu.RLock()
	var scored []Suggestion
	for _, p := range l.patterns {
		if p.DocumentType != docType && p.DocumentType != pattern.TypeGeneralLegal {
			continue
		}

		score := p.ReusabilityScore - 2*intAbs(p.ComplexityScore-preferred)
		if wantLogo && p.SupportsLogo() {
			score += 5
		}
		if wantTables && p.SupportsTables() {
			score += 5
		}
		if wantMultipage && p.ComplexityScore > 2 {
			score += 3
		}
		scored = append(scored, Suggestion{Pattern: p.Clone(), Score: score})
	}
	l.mu.RUnlock()

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Pattern.PatternID < scored[j].Pattern.PatternID
	})

	if len(scored) > maxSuggestions {
		scored = scored[:maxSuggestions]
	}
	return scored
}

func preferredComplexity(pref string) int {
	switch pref {
	case ComplexitySimple:
		return 1
	case ComplexityComplex:
		return 5
	default:
		return 3
	}
}

func hasFeature(features []string, want string) bool {
	for _, f := range features {
		if f == want {
			return true
		}
	}
	return false
}

func intAbs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
