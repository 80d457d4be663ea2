package layout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// ErrNotFound is returned when the source PDF does not exist.
var ErrNotFound = errors.New("pdf not found")

// ErrUnreadable is returned when the source PDF cannot be parsed at all.
var ErrUnreadable = errors.New("pdf unreadable")

const (
	// lineTolerance groups spans sharing a baseline into one line.
	lineTolerance = 2.0

	// defaultPageWidth/Height are US Letter, used when no MediaBox is found.
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0
)

// Style flag bits derived from the font name.
const (
	FlagBold = 1 << iota
	FlagItalic
)

// Extractor turns raw per-page PDF content into normalized PageLayout
// records. All Y coordinates are flipped to top-down page units.
type Extractor struct {
	logger *slog.Logger
}

// NewExtractor creates an Extractor. A nil logger uses slog.Default.
func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// ExtractFile extracts layout records for every page of the PDF at path.
// A malformed page yields a record with Err set and empty lists; the rest
// of the document is still returned. File-level failures are fatal.
func (e *Extractor) ExtractFile(ctx context.Context, path string) ([]PageLayout, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	// pdfcpu reads the cross-reference table up front, catching truncated
	// or corrupt files before span extraction starts.
	cf, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	pageCount, err := api.PageCount(cf, nil)
	cf.Close()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if pageCount == 0 {
		return nil, fmt.Errorf("%w: no pages", ErrUnreadable)
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer f.Close()

	n := reader.NumPage()
	if n > pageCount {
		n = pageCount
	}

	pages := make([]PageLayout, 0, n)
	for num := 1; num <= n; num++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pages = append(pages, e.extractPage(reader.Page(num), num))
	}
	return pages, nil
}

// extractPage builds one PageLayout. Malformed content streams can panic
// deep inside the parser, so failures are converted into an error record.
func (e *Extractor) extractPage(page pdf.Page, num int) (pl PageLayout) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("page extraction panicked", "page", num, "cause", r)
			pl = PageLayout{Number: num, Width: defaultPageWidth, Height: defaultPageHeight,
				Orient: OrientationPortrait, Err: fmt.Sprintf("extraction failed: %v", r)}
		}
	}()

	width, height := mediaBoxSize(page)
	pl = PageLayout{
		Number: num,
		Width:  width,
		Height: height,
		Orient: orientationFor(width, height),
	}

	if page.V.IsNull() {
		pl.Err = "invalid page object"
		return pl
	}

	content := page.Content()
	pl.Blocks = buildBlocks(content.Text, height)
	pl.Images = extractImages(page, num)
	pl.Fields = extractFields(page, height)
	return pl
}

// mediaBoxSize resolves page dimensions, walking up the page tree for
// inherited MediaBox entries and defaulting to US Letter.
func mediaBoxSize(page pdf.Page) (float64, float64) {
	v := page.V
	for depth := 0; depth < 10 && !v.IsNull(); depth++ {
		if w, h, ok := parseMediaBox(v.Key("MediaBox")); ok {
			return w, h
		}
		v = v.Key("Parent")
	}
	return defaultPageWidth, defaultPageHeight
}

func parseMediaBox(mb pdf.Value) (float64, float64, bool) {
	if mb.IsNull() || mb.Kind() != pdf.Array || mb.Len() != 4 {
		return 0, 0, false
	}
	coords := make([]float64, 4)
	for i := 0; i < 4; i++ {
		val := mb.Index(i)
		switch val.Kind() {
		case pdf.Integer:
			coords[i] = float64(val.Int64())
		case pdf.Real:
			coords[i] = val.Float64()
		default:
			return 0, 0, false
		}
	}
	w := coords[2] - coords[0]
	h := coords[3] - coords[1]
	if w <= 0 || h <= 0 {
		return 0, 0, false
	}
	return w, h, true
}

// buildBlocks merges raw spans into line-level text blocks. Spans sharing a
// baseline belong to the same line; a wide horizontal gap inside a line
// starts a new block, which keeps table cells separate for row detection.
func buildBlocks(texts []pdf.Text, pageHeight float64) []TextBlock {
	spans := make([]pdf.Text, 0, len(texts))
	for _, t := range texts {
		if strings.TrimSpace(t.S) == "" && t.S != " " {
			continue
		}
		spans = append(spans, t)
	}
	if len(spans) == 0 {
		return nil
	}

	// Top of page first. PDF user space is bottom-up, so higher Y first.
	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].Y != spans[j].Y {
			return spans[i].Y > spans[j].Y
		}
		return spans[i].X < spans[j].X
	})

	var blocks []TextBlock
	var cur *blockBuilder
	lineY := spans[0].Y

	flush := func() {
		if cur != nil {
			if b, ok := cur.finish(pageHeight); ok {
				blocks = append(blocks, b)
			}
			cur = nil
		}
	}

	for _, s := range spans {
		if abs(s.Y-lineY) > lineTolerance {
			flush()
			lineY = s.Y
		}
		gapLimit := s.FontSize * 1.5
		if gapLimit < 3 {
			gapLimit = 3
		}
		if cur != nil && (s.X-cur.endX > gapLimit || s.FontSize != cur.fontSize) {
			flush()
		}
		if cur == nil {
			cur = newBlockBuilder(s)
			continue
		}
		cur.append(s)
	}
	flush()
	return blocks
}

// blockBuilder accumulates spans for one text block.
type blockBuilder struct {
	text     strings.Builder
	font     string
	fontSize float64
	x0, endX float64
	yBase    float64 // baseline in bottom-up coordinates
}

func newBlockBuilder(s pdf.Text) *blockBuilder {
	b := &blockBuilder{
		font:     s.Font,
		fontSize: s.FontSize,
		x0:       s.X,
		endX:     s.X + s.W,
		yBase:    s.Y,
	}
	b.text.WriteString(s.S)
	return b
}

func (b *blockBuilder) append(s pdf.Text) {
	// Insert a space when the gap between spans is word-sized.
	if s.X-b.endX > 0.25*b.fontSize && !strings.HasSuffix(b.text.String(), " ") {
		b.text.WriteByte(' ')
	}
	b.text.WriteString(s.S)
	if s.X+s.W > b.endX {
		b.endX = s.X + s.W
	}
}

func (b *blockBuilder) finish(pageHeight float64) (TextBlock, bool) {
	text := strings.TrimSpace(b.text.String())
	if text == "" {
		return TextBlock{}, false
	}
	return TextBlock{
		Text: text,
		BBox: BBox{
			X0: b.x0,
			Y0: pageHeight - (b.yBase + b.fontSize),
			X1: b.endX,
			Y1: pageHeight - b.yBase,
		},
		Font:     b.font,
		FontSize: b.fontSize,
		Flags:    styleFlags(b.font),
	}, true
}

func styleFlags(font string) int {
	lower := strings.ToLower(font)
	flags := 0
	if strings.Contains(lower, "bold") {
		flags |= FlagBold
	}
	if strings.Contains(lower, "italic") || strings.Contains(lower, "oblique") {
		flags |= FlagItalic
	}
	return flags
}

// extractImages lists image XObjects from the page resources. Stream
// placement would require interpreting the content stream's transform
// matrix, so the bbox records intrinsic dimensions anchored at the origin.
func extractImages(page pdf.Page, pageNum int) []ImageRef {
	resources := page.V.Key("Resources")
	if resources.IsNull() {
		return nil
	}
	xObjects := resources.Key("XObject")
	if xObjects.IsNull() || xObjects.Kind() != pdf.Dict {
		return nil
	}

	var images []ImageRef
	keys := xObjects.Keys()
	sort.Strings(keys)
	for _, key := range keys {
		obj := xObjects.Key(key)
		if obj.IsNull() {
			continue
		}
		if sub := obj.Key("Subtype"); sub.IsNull() || sub.Name() != "Image" {
			continue
		}
		w := float64(obj.Key("Width").Int64())
		h := float64(obj.Key("Height").Int64())
		if w <= 0 || h <= 0 {
			continue
		}
		box := BBox{X0: 0, Y0: 0, X1: w, Y1: h}
		images = append(images, ImageRef{
			Page:  pageNum,
			Index: len(images),
			BBox:  box,
			Kind:  classifyImage(box),
		})
	}
	return images
}

// extractFields lists widget annotations (interactive form fields) on the
// page. Field name and type may live on the widget or its parent field.
func extractFields(page pdf.Page, pageHeight float64) []FormFieldRef {
	annots := page.V.Key("Annots")
	if annots.IsNull() || annots.Kind() != pdf.Array {
		return nil
	}

	var fields []FormFieldRef
	for i := 0; i < annots.Len(); i++ {
		annot := annots.Index(i)
		if annot.IsNull() {
			continue
		}
		if sub := annot.Key("Subtype"); sub.IsNull() || sub.Name() != "Widget" {
			continue
		}

		field := FormFieldRef{
			Name: fieldAttr(annot, "T"),
			Type: fieldTypeName(annot),
			BBox: rectBBox(annot.Key("Rect"), pageHeight),
		}
		if v := annot.Key("V"); !v.IsNull() {
			field.Value = v.Text()
		}
		fields = append(fields, field)
	}
	return fields
}

// fieldAttr reads a text attribute from the annotation or its parent field.
func fieldAttr(annot pdf.Value, key string) string {
	if v := annot.Key(key); !v.IsNull() {
		return v.Text()
	}
	if parent := annot.Key("Parent"); !parent.IsNull() {
		if v := parent.Key(key); !v.IsNull() {
			return v.Text()
		}
	}
	return ""
}

func fieldTypeName(annot pdf.Value) string {
	ft := annot.Key("FT")
	if ft.IsNull() {
		if parent := annot.Key("Parent"); !parent.IsNull() {
			ft = parent.Key("FT")
		}
	}
	if ft.IsNull() {
		return "unknown"
	}
	switch ft.Name() {
	case "Tx":
		return "text"
	case "Btn":
		return "button"
	case "Ch":
		return "choice"
	case "Sig":
		return "signature"
	default:
		return ft.Name()
	}
}

// rectBBox converts a PDF Rect array to a top-down BBox.
func rectBBox(rect pdf.Value, pageHeight float64) BBox {
	if rect.IsNull() || rect.Kind() != pdf.Array || rect.Len() < 4 {
		return BBox{}
	}
	coord := func(i int) float64 {
		v := rect.Index(i)
		if v.Kind() == pdf.Integer {
			return float64(v.Int64())
		}
		return v.Float64()
	}
	x0, y0, x1, y1 := coord(0), coord(1), coord(2), coord(3)
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	return BBox{X0: x0, Y0: pageHeight - y1, X1: x1, Y1: pageHeight - y0}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
