package library

import (
	"github.com/jackzampolin/docket/internal/pattern"
)

// Recommendation is a design basis for generating a new document: the
// best-known matching pattern plus static style presets.
type Recommendation struct {
	DocumentType   string                    `json:"document_type"`
	BasisPatternID string                    `json:"basis_pattern_id,omitempty"`
	Layout         map[string]map[string]any `json:"layout,omitempty"`
	StyleName      string                    `json:"style_name"`
	HeaderStyle    HeaderStyle               `json:"header_style"`
	TableStyle     TableStyle                `json:"table_style"`
	Confidence     int                       `json:"confidence"`
}

// Recommend picks the highest-reusability pattern of the requested type as
// the layout basis and attaches header/table presets chosen by the
// requested features. Confidence grows with the number of matching
// patterns, capped at 100.
func (l *Library) Recommend(docType string, features []string) *Recommendation {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var basis *pattern.TemplatePattern
	matches := 0
	for _, p := range l.patterns {
		if p.DocumentType != docType {
			continue
		}
		matches++
		if basis == nil ||
			p.ReusabilityScore > basis.ReusabilityScore ||
			(p.ReusabilityScore == basis.ReusabilityScore && p.PatternID < basis.PatternID) {
			basis = p
		}
	}

	styleName := "simple"
	switch {
	case hasFeature(features, FeatureLogo):
		styleName = "branded"
	case hasFeature(features, FeatureFormal):
		styleName = "formal"
	}

	rec := &Recommendation{
		DocumentType: docType,
		StyleName:    styleName,
		HeaderStyle:  l.design.HeaderStyles[styleName],
		TableStyle:   l.design.TableStyles[styleName],
		Confidence:   confidence(matches),
	}
	if basis != nil {
		clone := basis.Clone()
		rec.BasisPatternID = clone.PatternID
		rec.Layout = clone.LayoutFeatures
	}
	return rec
}

func confidence(matches int) int {
	c := matches * 20
	if c > 100 {
		c = 100
	}
	return c
}
