package analyze

import (
	"math"
	"sort"

	"github.com/jackzampolin/docket/internal/layout"
)

// TableRow is one detected row of evenly spaced columns.
type TableRow struct {
	Page    int         `json:"page"`
	YBin    int         `json:"y_bin"`
	Columns int         `json:"columns"`
	Cells   []string    `json:"cells"`
	BBox    layout.BBox `json:"bbox"`
}

// detectTableRows finds rows of regularly spaced blocks on one page.
// Blocks are bucketed by quantized top-Y; a bucket with at least minCols
// blocks is a row candidate, and it is accepted only when every horizontal
// gap between consecutive blocks stays within tolerance of the mean gap.
//
// The strictness is deliberate: a missed schedule row is cheaper than
// mistaking a paragraph for tabular data, so false negatives win.
func detectTableRows(page layout.PageLayout, binSize, tolerance float64, minCols int) []TableRow {
	if binSize <= 0 || len(page.Blocks) == 0 {
		return nil
	}

	bins := make(map[int][]layout.TextBlock)
	for _, block := range page.Blocks {
		bin := int(math.Floor(block.BBox.Y0 / binSize))
		bins[bin] = append(bins[bin], block)
	}

	binKeys := make([]int, 0, len(bins))
	for k := range bins {
		binKeys = append(binKeys, k)
	}
	sort.Ints(binKeys)

	var rows []TableRow
	for _, bin := range binKeys {
		blocks := bins[bin]
		if len(blocks) < minCols {
			continue
		}

		sort.Slice(blocks, func(i, j int) bool {
			return blocks[i].BBox.X0 < blocks[j].BBox.X0
		})

		if !regularSpacing(blocks, tolerance) {
			continue
		}

		row := TableRow{
			Page:    page.Number,
			YBin:    bin,
			Columns: len(blocks),
			BBox:    blocks[0].BBox,
		}
		for _, b := range blocks {
			row.Cells = append(row.Cells, b.Text)
			row.BBox = row.BBox.Union(b.BBox)
		}
		rows = append(rows, row)
	}
	return rows
}

// regularSpacing reports whether consecutive x-gaps all lie within
// tolerance of their mean. Blocks must already be sorted by X0.
func regularSpacing(blocks []layout.TextBlock, tolerance float64) bool {
	gaps := make([]float64, 0, len(blocks)-1)
	for i := 1; i < len(blocks); i++ {
		gaps = append(gaps, blocks[i].BBox.X0-blocks[i-1].BBox.X0)
	}

	var sum float64
	for _, g := range gaps {
		sum += g
	}
	mean := sum / float64(len(gaps))

	for _, g := range gaps {
		if math.Abs(g-mean) > tolerance {
			return false
		}
	}
	return true
}
