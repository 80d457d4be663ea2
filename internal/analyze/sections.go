package analyze

import (
	"strings"

	"github.com/jackzampolin/docket/internal/layout"
)

// sectionDef names a section and the keywords that identify it.
type sectionDef struct {
	name     string
	keywords []string
}

// sectionVocabulary maps section names to trigger keywords for the legal
// documents this tool targets (liquidations, creditor notices, board
// resolutions). Matching is lowercase substring containment.
var sectionVocabulary = []sectionDef{
	{"header", []string{"in the matter of", "corporations act", "insolvency"}},
	{"company_information", []string{"acn", "abn", "registered office"}},
	{"liquidator_appointment", []string{"liquidator", "appointment", "wind up"}},
	{"creditors_notice", []string{"notice to creditors", "proof of debt", "creditor"}},
	{"resolution", []string{"special resolution", "resolved that", "resolution"}},
	{"directors_statement", []string{"statement of affairs", "director", "solvency"}},
	{"meeting_notice", []string{"meeting of", "convene", "agenda"}},
	{"declaration", []string{"declaration", "solemnly", "declare"}},
	{"signatures", []string{"signature", "signed", "dated this"}},
	{"schedule", []string{"schedule", "annexure", "appendix"}},
}

// detectSections scans every block on every page for section keywords.
// Sections appear in the order they are first seen in the document, not in
// vocabulary order, and each section appears at most once.
func detectSections(pages []layout.PageLayout) []string {
	seen := make(map[string]bool)
	var sections []string

	for _, page := range pages {
		for _, block := range page.Blocks {
			text := strings.ToLower(block.Text)
			for _, def := range sectionVocabulary {
				if seen[def.name] {
					continue
				}
				if containsAny(text, def.keywords) {
					seen[def.name] = true
					sections = append(sections, def.name)
				}
			}
		}
	}
	return sections
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
