package library

import (
	"fmt"

	"github.com/jackzampolin/docket/internal/analyze"
	"github.com/jackzampolin/docket/internal/pattern"
)

// Complexity tiers for document knowledge entries.
const (
	TierSimple  = "simple"
	TierMedium  = "medium"
	TierComplex = "complex"
)

// DocumentKnowledge aggregates everything the library has learned about
// one document type across all analyzed instances.
type DocumentKnowledge struct {
	DocumentType     string   `json:"document_type"`
	Sections         []string `json:"sections"`
	MaxPages         int      `json:"max_pages"`
	ContentTypes     []string `json:"content_types"`
	MultipageSupport bool     `json:"multipage_support"`
	LogoIntegration  bool     `json:"logo_integration"`
	ComplexityTier   string   `json:"complexity_tier"`
	SourceDocuments  []string `json:"source_documents"`
}

// absorb merges one analyzed document into the knowledge entry.
func (k *DocumentKnowledge) absorb(doc *analyze.DocumentStructure, p *pattern.TemplatePattern) {
	k.Sections = appendMissing(k.Sections, doc.Sections...)
	k.ContentTypes = appendMissing(k.ContentTypes, doc.ContentTypes...)
	if doc.TotalPages > k.MaxPages {
		k.MaxPages = doc.TotalPages
	}
	if doc.HasContentType(analyze.ContentMultipage) {
		k.MultipageSupport = true
	}
	if doc.HasContentType(analyze.ContentHasLogo) {
		k.LogoIntegration = true
	}
	if tier := complexityTier(p.ComplexityScore); tierRank(tier) > tierRank(k.ComplexityTier) {
		k.ComplexityTier = tier
	}
	k.SourceDocuments = appendMissing(k.SourceDocuments, doc.Name)
}

// complexityTier buckets a 1-5 complexity score.
func complexityTier(score int) string {
	switch {
	case score <= 2:
		return TierSimple
	case score <= 4:
		return TierMedium
	default:
		return TierComplex
	}
}

func tierRank(tier string) int {
	switch tier {
	case TierSimple:
		return 1
	case TierMedium:
		return 2
	case TierComplex:
		return 3
	default:
		return 0
	}
}

// HeaderStyle is a static layout preset for document headers.
type HeaderStyle struct {
	Alignment    string `json:"alignment"`
	Bold         bool   `json:"bold"`
	RuleBelow    bool   `json:"rule_below"`
	LogoPosition string `json:"logo_position,omitempty"`
}

// TableStyle is a static preset for rendered tables.
type TableStyle struct {
	BorderWidth   float64 `json:"border_width"`
	HeaderShading bool    `json:"header_shading"`
	RowSpacing    float64 `json:"row_spacing"`
}

// DesignLibrary accumulates observed design elements and carries the
// static style presets used by design recommendations.
type DesignLibrary struct {
	Margins      map[string]analyze.Margins `json:"margins"`
	FontUsage    map[string]*FontStats      `json:"font_usage"`
	HeaderStyles map[string]HeaderStyle     `json:"header_styles"`
	TableStyles  map[string]TableStyle      `json:"table_styles"`
}

// FontStats accumulates font sizes seen for one document type.
type FontStats struct {
	Sizes []float64 `json:"sizes"`
	Uses  int       `json:"uses"`
}

// newDesignLibrary seeds the static presets. Observed margins and font
// usage start empty and grow with each upsert.
func newDesignLibrary() *DesignLibrary {
	return &DesignLibrary{
		Margins:   make(map[string]analyze.Margins),
		FontUsage: make(map[string]*FontStats),
		HeaderStyles: map[string]HeaderStyle{
			"formal":  {Alignment: "center", Bold: true, RuleBelow: true},
			"simple":  {Alignment: "left", Bold: false, RuleBelow: false},
			"branded": {Alignment: "left", Bold: true, RuleBelow: true, LogoPosition: "top-left"},
		},
		TableStyles: map[string]TableStyle{
			"formal":  {BorderWidth: 0.5, HeaderShading: true, RowSpacing: 1.2},
			"simple":  {BorderWidth: 0, HeaderShading: false, RowSpacing: 1.0},
			"branded": {BorderWidth: 0.75, HeaderShading: true, RowSpacing: 1.4},
		},
	}
}

// ensurePresets restores static presets after loading an older persisted
// file that predates them.
func (d *DesignLibrary) ensurePresets() {
	seed := newDesignLibrary()
	if d.Margins == nil {
		d.Margins = make(map[string]analyze.Margins)
	}
	if d.FontUsage == nil {
		d.FontUsage = make(map[string]*FontStats)
	}
	if len(d.HeaderStyles) == 0 {
		d.HeaderStyles = seed.HeaderStyles
	}
	if len(d.TableStyles) == 0 {
		d.TableStyles = seed.TableStyles
	}
}

// absorb records a document's design elements under the pattern's type.
func (d *DesignLibrary) absorb(doc *analyze.DocumentStructure, p *pattern.TemplatePattern) {
	d.Margins[fmt.Sprintf("sample_%d", len(d.Margins)+1)] = doc.DesignElements.Margins

	stats, ok := d.FontUsage[p.DocumentType]
	if !ok {
		stats = &FontStats{}
		d.FontUsage[p.DocumentType] = stats
	}
	stats.Uses++
	for _, usage := range doc.DesignElements.FontUsage {
		for _, size := range usage.Sizes {
			if !containsFloat(stats.Sizes, size) {
				stats.Sizes = append(stats.Sizes, size)
			}
		}
	}
}

func appendMissing(dst []string, items ...string) []string {
	for _, item := range items {
		found := false
		for _, existing := range dst {
			if existing == item {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, item)
		}
	}
	return dst
}

func containsFloat(values []float64, v float64) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
