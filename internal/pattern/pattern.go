// Package pattern converts analyzed document structures into reusable
// template patterns with bounded complexity and reusability scores.
package pattern

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Document types inferred from detected sections, in priority order.
const (
	TypeResolution         = "resolution"
	TypeCreditorsNotice    = "creditors_notice"
	TypeLiquidation        = "liquidation_appointment"
	TypeDirectorsStatement = "directors_statement"
	TypeInteractiveForm    = "interactive_form"
	TypeGeneralLegal       = "general_legal"
)

// Score bounds.
const (
	MinComplexity  = 1
	MaxComplexity  = 5
	MinReusability = 1
	MaxReusability = 10
)

// TemplatePattern is a reusable description of a document's layout and
// content shape. Instances are treated as immutable values: the library
// replaces patterns wholesale on merge instead of mutating them in place.
type TemplatePattern struct {
	PatternID        string                    `json:"pattern_id"`
	SourceDocument   string                    `json:"source_document"`
	DocumentType     string                    `json:"document_type"`
	LayoutFeatures   map[string]map[string]any `json:"layout_features"`
	ContentSections  []string                  `json:"content_sections"`
	DesignElements   map[string]any            `json:"design_elements"`
	ComplexityScore  int                       `json:"complexity_score"`
	ReusabilityScore int                       `json:"reusability_score"`

	// GeneratedTemplate points at a produced template file, once one
	// exists for this pattern.
	GeneratedTemplate string `json:"generated_template,omitempty"`
}

// Clone returns a deep copy. Readers hand out clones so no caller can
// reach into shared library state.
func (p *TemplatePattern) Clone() *TemplatePattern {
	c := *p
	c.ContentSections = append([]string(nil), p.ContentSections...)
	c.LayoutFeatures = make(map[string]map[string]any, len(p.LayoutFeatures))
	for zone, feats := range p.LayoutFeatures {
		inner := make(map[string]any, len(feats))
		for k, v := range feats {
			inner[k] = v
		}
		c.LayoutFeatures[zone] = inner
	}
	c.DesignElements = make(map[string]any, len(p.DesignElements))
	for k, v := range p.DesignElements {
		c.DesignElements[k] = v
	}
	return &c
}

// HasSection reports whether any content section contains the keyword.
func (p *TemplatePattern) HasSection(keyword string) bool {
	for _, s := range p.ContentSections {
		if containsFold(s, keyword) {
			return true
		}
	}
	return false
}

// SupportsLogo reports whether the header features advertise logo support.
func (p *TemplatePattern) SupportsLogo() bool {
	if header, ok := p.LayoutFeatures["header"]; ok {
		if v, ok := header["logo_support"].(bool); ok {
			return v
		}
	}
	return false
}

// SupportsTables reports whether the body features advertise tables.
func (p *TemplatePattern) SupportsTables() bool {
	if body, ok := p.LayoutFeatures["body"]; ok {
		if v, ok := body["tables"].(bool); ok {
			return v
		}
	}
	return false
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// ID derives the deterministic pattern identifier for a source name. Merged
// patterns pass the concatenation of all their source names.
func ID(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])[:8]
}
