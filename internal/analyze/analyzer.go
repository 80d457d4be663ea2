// Package analyze derives document-level structure from page layouts:
// header/footer zones, table rows, named sections, design elements, and
// content classification, aggregated into a DocumentStructure.
package analyze

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/jackzampolin/docket/internal/layout"
)

// DocumentStructure is the complete analysis result for one document.
// It is created once per analysis run and never mutated afterwards.
type DocumentStructure struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	SourcePath string    `json:"source_path"`
	AnalyzedAt time.Time `json:"analyzed_at"`

	TotalPages int                   `json:"total_pages"`
	Pages      []layout.PageLayout   `json:"pages"`
	Sections   []string              `json:"sections"`
	Headers    []string              `json:"headers"`
	Footers    []string              `json:"footers"`
	Images     []layout.ImageRef     `json:"images"`
	TableRows  []TableRow            `json:"table_rows"`
	FormFields []layout.FormFieldRef `json:"form_fields"`

	TextPatterns   map[string]FontBucket `json:"text_patterns"`
	DesignElements DesignElements        `json:"design_elements"`
	ContentTypes   []string              `json:"content_types"`
}

// HasContentType reports whether tag is present in the content-type set.
func (d *DocumentStructure) HasContentType(tag string) bool {
	for _, t := range d.ContentTypes {
		if t == tag {
			return true
		}
	}
	return false
}

// Options holds the heuristic thresholds for the feature extractors.
type Options struct {
	// HeaderZonePct is the fraction of page height forming the header zone.
	HeaderZonePct float64

	// FooterZoneStart is the fraction of page height past which blocks
	// belong to the footer zone.
	FooterZoneStart float64

	// TableRowBin is the Y quantization bin width for row candidates.
	TableRowBin float64

	// TableGapTolerance is the allowed deviation of each column gap from
	// the row's mean gap.
	TableGapTolerance float64

	// TableMinColumns is the minimum block count for a row candidate.
	TableMinColumns int

	// HeadingMinSize and BodyMinSize split font sizes into
	// heading / body_text / small_text buckets.
	HeadingMinSize float64
	BodyMinSize    float64
}

// DefaultOptions returns the thresholds tuned for legal documents.
func DefaultOptions() Options {
	return Options{
		HeaderZonePct:     0.15,
		FooterZoneStart:   0.85,
		TableRowBin:       5,
		TableGapTolerance: 20,
		TableMinColumns:   3,
		HeadingMinSize:    16,
		BodyMinSize:       12,
	}
}

// Analyzer runs the full extraction pipeline over PDF files.
type Analyzer struct {
	mu        sync.RWMutex
	opts      Options
	extractor *layout.Extractor
	logger    *slog.Logger
}

// New creates an Analyzer. A nil logger uses slog.Default.
func New(opts Options, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		opts:      opts,
		extractor: layout.NewExtractor(logger),
		logger:    logger,
	}
}

// SetOptions replaces the heuristic thresholds. Safe to call while a
// batch run is in flight; documents picked up afterwards use the new
// values, documents already being analyzed finish with the old ones.
func (a *Analyzer) SetOptions(opts Options) {
	a.mu.Lock()
	a.opts = opts
	a.mu.Unlock()
}

func (a *Analyzer) options() Options {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.opts
}

// AnalyzeFile extracts page layouts from the PDF at path and runs every
// feature extractor over them. The extractors are read-only with respect
// to each other; their order is fixed here only for reproducible logs.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) (*DocumentStructure, error) {
	start := time.Now()

	pages, err := a.extractor.ExtractFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("layout extraction failed for %s: %w", path, err)
	}

	doc := a.Analyze(filepath.Base(path), path, pages)

	a.logger.Info("document analyzed",
		"file", doc.Name,
		"pages", doc.TotalPages,
		"sections", len(doc.Sections),
		"tables", len(doc.TableRows),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return doc, nil
}

// Analyze aggregates feature extraction over already-extracted page
// layouts. Split out from AnalyzeFile so callers with pre-extracted spans
// (the PDF-parsing boundary) can reuse the pipeline.
func (a *Analyzer) Analyze(name, sourcePath string, pages []layout.PageLayout) *DocumentStructure {
	opts := a.options()
	doc := &DocumentStructure{
		ID:         DocumentID(sourcePath),
		Name:       name,
		SourcePath: sourcePath,
		AnalyzedAt: time.Now().UTC(),
		TotalPages: len(pages),
		Pages:      pages,
	}
	if doc.TotalPages < 1 {
		doc.TotalPages = 1
	}

	for _, page := range pages {
		headers, footers := splitZones(page, opts.HeaderZonePct, opts.FooterZoneStart)
		doc.Headers = append(doc.Headers, headers...)
		doc.Footers = append(doc.Footers, footers...)

		doc.TableRows = append(doc.TableRows,
			detectTableRows(page, opts.TableRowBin, opts.TableGapTolerance, opts.TableMinColumns)...)
		doc.Images = append(doc.Images, page.Images...)
		doc.FormFields = append(doc.FormFields, page.Fields...)
	}

	doc.Sections = detectSections(pages)
	doc.TextPatterns, doc.DesignElements = analyzeDesign(pages, opts.HeadingMinSize, opts.BodyMinSize)
	doc.ContentTypes = classifyContent(doc)
	return doc
}

// DocumentID derives the stable identifier for a source path. Hashing the
// full path rather than the bare filename keeps same-named files in
// different folders distinct.
func DocumentID(sourcePath string) string {
	sum := sha256.Sum256([]byte(sourcePath))
	return hex.EncodeToString(sum[:])[:16]
}
