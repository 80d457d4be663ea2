package analyze

import (
	"strings"

	"github.com/jackzampolin/docket/internal/layout"
)

// splitZones collects the trimmed text of blocks falling in the page's
// header and footer zones. A block is a header when its top edge lies above
// headerPct of the page height, a footer when it lies below footerStart.
//
// On pages shorter than a few units the two zones overlap and a block can
// land in both lists; real pages are hundreds of units tall, so this is
// left as-is rather than special-cased.
func splitZones(page layout.PageLayout, headerPct, footerStart float64) (headers, footers []string) {
	headerLimit := page.Height * headerPct
	footerLimit := page.Height * footerStart

	for _, block := range page.Blocks {
		text := strings.TrimSpace(block.Text)
		if text == "" {
			continue
		}
		if block.BBox.Y0 < headerLimit {
			headers = append(headers, text)
		}
		if block.BBox.Y0 > footerLimit {
			footers = append(footers, text)
		}
	}
	return headers, footers
}
