package pattern

import (
	"math"
	"strings"

	"github.com/jackzampolin/docket/internal/analyze"
)

// standardSections are the sections expected in most reusable legal
// templates; each one found raises the reusability score.
var standardSections = []string{"header", "company_info", "resolution", "signatures"}

// FromStructure converts an analyzed document into a template pattern.
// Scores are clamped: complexity to [1,5], reusability to [1,10].
func FromStructure(doc *analyze.DocumentStructure) *TemplatePattern {
	hasTables := doc.HasContentType(analyze.ContentHasTables)
	hasForms := doc.HasContentType(analyze.ContentHasForms)
	hasLogo := doc.HasContentType(analyze.ContentHasLogo)

	complexity := complexityScore(doc.TotalPages, len(doc.Sections), hasTables, hasForms, hasLogo)

	return &TemplatePattern{
		PatternID:        ID(doc.SourcePath),
		SourceDocument:   doc.Name,
		DocumentType:     inferDocumentType(doc.Sections, hasForms),
		LayoutFeatures:   layoutFeatures(doc, hasTables, hasLogo),
		ContentSections:  append([]string(nil), doc.Sections...),
		DesignElements:   designElements(doc),
		ComplexityScore:  complexity,
		ReusabilityScore: reusabilityScore(doc.Sections, complexity, hasForms),
	}
}

// inferDocumentType picks the most specific type whose signature sections
// are present. Priority matters: a winding-up resolution mentions both
// resolutions and liquidators, and the resolution reading wins.
func inferDocumentType(sections []string, hasForms bool) string {
	joined := strings.ToLower(strings.Join(sections, " "))
	switch {
	case strings.Contains(joined, "resolution"):
		return TypeResolution
	case strings.Contains(joined, "creditor") || strings.Contains(joined, "notice"):
		return TypeCreditorsNotice
	case strings.Contains(joined, "liquidat") || strings.Contains(joined, "appointment"):
		return TypeLiquidation
	case strings.Contains(joined, "director") || strings.Contains(joined, "statement"):
		return TypeDirectorsStatement
	case hasForms:
		return TypeInteractiveForm
	default:
		return TypeGeneralLegal
	}
}

// complexityScore estimates structural difficulty on a 1-5 scale: extra
// pages (capped at two), tables, forms, a logo, and a long section list
// each add weight. The fractional logo contribution is truncated on output.
func complexityScore(pages, sectionCount int, hasTables, hasForms, hasLogo bool) int {
	score := 1.0
	extraPages := pages - 1
	if extraPages > 2 {
		extraPages = 2
	}
	if extraPages > 0 {
		score += float64(extraPages)
	}
	if hasTables {
		score++
	}
	if hasForms {
		score++
	}
	if hasLogo {
		score += 0.5
	}
	if sectionCount > 5 {
		score++
	}
	return clamp(int(math.Floor(score)), MinComplexity, MaxComplexity)
}

// reusabilityScore estimates how broadly the pattern transfers: standard
// sections raise it, high complexity and interactive forms lower it.
func reusabilityScore(sections []string, complexity int, hasForms bool) int {
	score := 5
	for _, std := range standardSections {
		for _, s := range sections {
			if containsFold(s, std) {
				score++
				break
			}
		}
	}
	if complexity > 3 {
		score--
	}
	if hasForms {
		score -= 2
	}
	return clamp(score, MinReusability, MaxReusability)
}

func layoutFeatures(doc *analyze.DocumentStructure, hasTables, hasLogo bool) map[string]map[string]any {
	headerType := "simple"
	if len(doc.Headers) > 0 {
		headerType = "formal"
	}

	pageNumbers := false
	for _, footer := range doc.Footers {
		if strings.Contains(strings.ToLower(footer), "page") {
			pageNumbers = true
			break
		}
	}

	return map[string]map[string]any{
		"header": {
			"type":         headerType,
			"logo_support": hasLogo,
		},
		"body": {
			"sections": append([]string(nil), doc.Sections...),
			"tables":   hasTables,
		},
		"footer": {
			"has_content":  len(doc.Footers) > 0,
			"page_numbers": pageNumbers,
		},
	}
}

func designElements(doc *analyze.DocumentStructure) map[string]any {
	elements := map[string]any{
		"margins": doc.DesignElements.Margins,
	}
	for class, usage := range doc.DesignElements.FontUsage {
		elements["font_"+class] = usage
	}
	return elements
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
