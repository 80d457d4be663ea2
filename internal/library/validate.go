package library

import (
	"fmt"
	"strings"

	"github.com/jackzampolin/docket/internal/pattern"
)

// criticalSections must be present in any proposed document structure.
var criticalSections = []string{"header", "company_info", "signatures"}

// ValidationReport is the outcome of checking a proposed structure
// against the library's reference pattern for a document type.
type ValidationReport struct {
	Valid       bool     `json:"valid"`
	Errors      []string `json:"errors"`
	Warnings    []string `json:"warnings"`
	Suggestions []string `json:"suggestions"`
	Confidence  int      `json:"confidence"`
}

// Validate checks a proposed section list for a document type. With no
// reference pattern on file the library has nothing to judge against, so
// the result is valid with a warning only. Against a reference, missing
// critical sections are fatal and sections the reference has but the
// proposal lacks become non-fatal suggestions.
func (l *Library) Validate(docType string, sections []string) *ValidationReport {
	report := &ValidationReport{Valid: true}

	l.mu.RLock()
	var reference *pattern.TemplatePattern
	matches := 0
	for _, p := range l.patterns {
		if p.DocumentType != docType {
			continue
		}
		matches++
		if reference == nil ||
			p.ReusabilityScore > reference.ReusabilityScore ||
			(p.ReusabilityScore == reference.ReusabilityScore && p.PatternID < reference.PatternID) {
			reference = p
		}
	}
	var refSections []string
	if reference != nil {
		refSections = append(refSections, reference.ContentSections...)
	}
	l.mu.RUnlock()

	report.Confidence = confidence(matches)

	if reference == nil {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("no reference pattern for document type %q; validation is advisory only", docType))
		return report
	}

	for _, critical := range criticalSections {
		if !anySectionContains(sections, critical) {
			report.Valid = false
			report.Errors = append(report.Errors,
				fmt.Sprintf("Missing critical section: %s", critical))
		}
	}

	for _, ref := range refSections {
		if !anySectionContains(sections, ref) {
			report.Suggestions = append(report.Suggestions,
				fmt.Sprintf("consider adding section %q (present in reference pattern)", ref))
		}
	}
	return report
}

func anySectionContains(sections []string, keyword string) bool {
	kw := strings.ToLower(keyword)
	for _, s := range sections {
		if strings.Contains(strings.ToLower(s), kw) {
			return true
		}
	}
	return false
}
