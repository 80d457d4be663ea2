package analyze

import "github.com/jackzampolin/docket/internal/layout"

// Content-type tags. The vocabulary is closed: classifyContent only ever
// emits values from this set.
const (
	ContentTextDocument = "text_document"
	ContentHasImages    = "has_images"
	ContentHasLogo      = "has_logo"
	ContentHasTables    = "has_tables"
	ContentHasForms     = "has_forms"
	ContentMultipage    = "multipage"
)

// classifyContent aggregates page-level signals into document-level tags.
// Every document carries at least text_document.
func classifyContent(doc *DocumentStructure) []string {
	tags := []string{ContentTextDocument}

	if len(doc.Images) > 0 {
		tags = append(tags, ContentHasImages)
		for _, img := range doc.Images {
			if img.Kind == layout.ImageKindLogo {
				tags = append(tags, ContentHasLogo)
				break
			}
		}
	}
	if len(doc.TableRows) > 0 {
		tags = append(tags, ContentHasTables)
	}
	if len(doc.FormFields) > 0 {
		tags = append(tags, ContentHasForms)
	}
	if doc.TotalPages > 1 {
		tags = append(tags, ContentMultipage)
	}
	return tags
}
