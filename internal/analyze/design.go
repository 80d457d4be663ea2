package analyze

import (
	"fmt"
	"sort"

	"github.com/jackzampolin/docket/internal/layout"
)

// Font bucket classes.
const (
	FontClassHeading = "heading"
	FontClassBody    = "body_text"
	FontClassSmall   = "small_text"
)

// maxBucketSamples caps the example strings recorded per font bucket.
const maxBucketSamples = 3

// FontBucket aggregates all text sharing one exact font size.
type FontBucket struct {
	Size    float64  `json:"size"`
	Class   string   `json:"class"`
	Count   int      `json:"count"`
	Samples []string `json:"samples,omitempty"`
}

// Margins are the distances from page edges to the content extents.
type Margins struct {
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

// FontUsage summarizes how often a font class appears and at which sizes.
type FontUsage struct {
	Count int       `json:"count"`
	Sizes []float64 `json:"sizes"`
}

// DesignElements captures the visual design signals of a document.
type DesignElements struct {
	Margins   Margins               `json:"margins"`
	FontUsage map[string]*FontUsage `json:"font_usage"`
}

// analyzeDesign computes font-size buckets over the whole document and
// margins from the first page's content extents. Margins from later pages
// rarely differ and the first page carries the letterhead.
func analyzeDesign(pages []layout.PageLayout, headingMin, bodyMin float64) (map[string]FontBucket, DesignElements) {
	buckets := make(map[string]FontBucket)
	usage := make(map[string]*FontUsage)

	for _, page := range pages {
		for _, block := range page.Blocks {
			key := fontBucketKey(block.FontSize)
			bucket, ok := buckets[key]
			if !ok {
				bucket = FontBucket{
					Size:  block.FontSize,
					Class: fontClass(block.FontSize, headingMin, bodyMin),
				}
			}
			bucket.Count++
			if len(bucket.Samples) < maxBucketSamples {
				bucket.Samples = append(bucket.Samples, block.Text)
			}
			buckets[key] = bucket

			u, ok := usage[bucket.Class]
			if !ok {
				u = &FontUsage{}
				usage[bucket.Class] = u
			}
			u.Count++
			if !containsSize(u.Sizes, block.FontSize) {
				u.Sizes = append(u.Sizes, block.FontSize)
			}
		}
	}

	for _, u := range usage {
		sort.Float64s(u.Sizes)
	}

	design := DesignElements{FontUsage: usage}
	if len(pages) > 0 {
		design.Margins = pageMargins(pages[0])
	}
	return buckets, design
}

// pageMargins derives margins from the extreme block coordinates.
func pageMargins(page layout.PageLayout) Margins {
	if len(page.Blocks) == 0 {
		return Margins{}
	}

	minX, minY := page.Width, page.Height
	maxX, maxY := 0.0, 0.0
	for _, block := range page.Blocks {
		if block.BBox.X0 < minX {
			minX = block.BBox.X0
		}
		if block.BBox.Y0 < minY {
			minY = block.BBox.Y0
		}
		if block.BBox.X1 > maxX {
			maxX = block.BBox.X1
		}
		if block.BBox.Y1 > maxY {
			maxY = block.BBox.Y1
		}
	}

	return Margins{
		Left:   minX,
		Right:  page.Width - maxX,
		Top:    minY,
		Bottom: page.Height - maxY,
	}
}

func fontClass(size, headingMin, bodyMin float64) string {
	switch {
	case size >= headingMin:
		return FontClassHeading
	case size >= bodyMin:
		return FontClassBody
	default:
		return FontClassSmall
	}
}

func fontBucketKey(size float64) string {
	return fmt.Sprintf("size_%g", size)
}

func containsSize(sizes []float64, size float64) bool {
	for _, s := range sizes {
		if s == size {
			return true
		}
	}
	return false
}
