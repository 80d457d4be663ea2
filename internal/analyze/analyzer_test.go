package analyze

import (
	"testing"

	"github.com/jackzampolin/docket/internal/layout"
)

func TestAnalyzeAggregation(t *testing.T) {
	pages := []layout.PageLayout{
		page(800,
			block("IN THE MATTER OF Acme Pty Ltd", 50, 20),
			block("ACN 004 085 616", 50, 200),
			cell("Name", 100, 400), cell("Amount", 200, 400), cell("Due", 300, 400),
			block("Page 1", 50, 720),
		),
		page(800,
			block("Signed by the liquidator", 50, 400),
		),
	}

	a := New(DefaultOptions(), nil)
	doc := a.Analyze("acme-notice.pdf", "/docs/acme-notice.pdf", pages)

	if doc.TotalPages != 2 {
		t.Errorf("total pages: got %d, want 2", doc.TotalPages)
	}
	if len(doc.Headers) != 1 || doc.Headers[0] != "IN THE MATTER OF Acme Pty Ltd" {
		t.Errorf("headers: got %v", doc.Headers)
	}
	if len(doc.Footers) != 1 || doc.Footers[0] != "Page 1" {
		t.Errorf("footers: got %v", doc.Footers)
	}
	if len(doc.TableRows) != 1 {
		t.Errorf("table rows: got %d, want 1", len(doc.TableRows))
	}
	if !contains(doc.ContentTypes, ContentHasTables) {
		t.Errorf("content types missing has_tables: %v", doc.ContentTypes)
	}
	if !contains(doc.ContentTypes, ContentMultipage) {
		t.Errorf("content types missing multipage: %v", doc.ContentTypes)
	}

	wantSections := map[string]bool{
		"header": true, "company_information": true,
		"liquidator_appointment": true, "signatures": true,
	}
	for _, s := range doc.Sections {
		if !wantSections[s] {
			t.Errorf("unexpected section %q", s)
		}
	}
	if len(doc.Sections) != len(wantSections) {
		t.Errorf("sections: got %v", doc.Sections)
	}
}

func TestAnalyzeEmptyDocumentStillValid(t *testing.T) {
	a := New(DefaultOptions(), nil)
	doc := a.Analyze("empty.pdf", "/tmp/empty.pdf", nil)

	// total_pages is at least 1 even for a document with no extractable pages.
	if doc.TotalPages != 1 {
		t.Errorf("total pages: got %d, want 1", doc.TotalPages)
	}
	if len(doc.ContentTypes) == 0 {
		t.Error("content types must never be empty")
	}
}

func TestSetOptionsAppliesToLaterRuns(t *testing.T) {
	pages := []layout.PageLayout{
		page(800, block("COMPANY LETTERHEAD", 50, 200)),
	}

	a := New(DefaultOptions(), nil)
	doc := a.Analyze("letter.pdf", "/docs/letter.pdf", pages)
	if len(doc.Headers) != 0 {
		t.Errorf("headers before reload: got %v, want none", doc.Headers)
	}

	// Widening the header zone past the block's position must take effect
	// on the next run without rebuilding the analyzer.
	opts := DefaultOptions()
	opts.HeaderZonePct = 0.30
	a.SetOptions(opts)

	doc = a.Analyze("letter.pdf", "/docs/letter.pdf", pages)
	if len(doc.Headers) != 1 {
		t.Errorf("headers after reload: got %v, want one", doc.Headers)
	}
}

func TestDocumentID(t *testing.T) {
	a := DocumentID("/folder-a/notice.pdf")
	b := DocumentID("/folder-b/notice.pdf")
	if a == b {
		t.Error("same-named files in different folders must get distinct ids")
	}
	if a != DocumentID("/folder-a/notice.pdf") {
		t.Error("document id must be deterministic")
	}
	if len(a) != 16 {
		t.Errorf("id length: got %d, want 16", len(a))
	}
}
