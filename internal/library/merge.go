package library

import (
	"sort"
	"strings"

	"github.com/jackzampolin/docket/internal/pattern"
)

// Consolidate merges groups of patterns sharing a document type and
// complexity score into single patterns, reducing redundancy in the
// library. Returns the number of groups merged.
//
// The whole pass runs under the write lock: a merge removes several ids
// and inserts one replacement, and no reader may observe the in-between
// state.
func (l *Library) Consolidate() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	type groupKey struct {
		docType    string
		complexity int
	}

	groups := make(map[groupKey][]*pattern.TemplatePattern)
	for _, p := range l.patterns {
		key := groupKey{p.DocumentType, p.ComplexityScore}
		groups[key] = append(groups[key], p)
	}

	merged := 0
	for _, group := range groups {
		if len(group) < 2 {
			continue
		}
		replacement := mergePatterns(group)
		for _, member := range group {
			delete(l.patterns, member.PatternID)
		}
		l.patterns[replacement.PatternID] = replacement
		merged++

		l.logger.Info("patterns consolidated",
			"type", replacement.DocumentType,
			"members", len(group),
			"pattern_id", replacement.PatternID)
	}
	return merged
}

// mergePatterns folds a group into one pattern. The member with the
// highest reusability is the base; members are visited in ascending
// pattern-id order so repeated runs produce the same result.
func mergePatterns(group []*pattern.TemplatePattern) *pattern.TemplatePattern {
	if len(group) == 1 {
		// Nothing to fold in; keep the original identity.
		return group[0].Clone()
	}

	sort.Slice(group, func(i, j int) bool {
		return group[i].PatternID < group[j].PatternID
	})

	base := group[0]
	for _, p := range group[1:] {
		if p.ReusabilityScore > base.ReusabilityScore {
			base = p
		}
	}

	merged := base.Clone()

	maxComplexity := base.ComplexityScore
	totalReusability := 0
	var sources []string
	for _, p := range group {
		if p.ComplexityScore > maxComplexity {
			maxComplexity = p.ComplexityScore
		}
		totalReusability += p.ReusabilityScore
		sources = append(sources, p.SourceDocument)

		if p == base {
			continue
		}
		mergeLayoutFeatures(merged.LayoutFeatures, p.LayoutFeatures)
		merged.ContentSections = appendMissing(merged.ContentSections, p.ContentSections...)
		// Later members overwrite on key collision. Deliberate: the most
		// recently visited source wins, and visiting order is fixed above.
		for k, v := range p.DesignElements {
			merged.DesignElements[k] = v
		}
	}

	merged.ComplexityScore = maxComplexity
	merged.ReusabilityScore = totalReusability / len(group)
	merged.SourceDocument = strings.Join(sources, "+")
	merged.PatternID = pattern.ID(strings.Join(sources, ""))
	return merged
}

// mergeLayoutFeatures adds absent top-level zones outright and unions one
// level of nested keys for zones both sides have.
func mergeLayoutFeatures(dst, src map[string]map[string]any) {
	for zone, feats := range src {
		existing, ok := dst[zone]
		if !ok {
			inner := make(map[string]any, len(feats))
			for k, v := range feats {
				inner[k] = v
			}
			dst[zone] = inner
			continue
		}
		for k, v := range feats {
			existing[k] = v
		}
	}
}
