package library

import (
	"testing"
	"time"

	"github.com/jackzampolin/docket/internal/analyze"
	"github.com/jackzampolin/docket/internal/pattern"
)

func testPattern(id, docType string, complexity, reusability int, sections ...string) *pattern.TemplatePattern {
	return &pattern.TemplatePattern{
		PatternID:      id,
		SourceDocument: id + ".pdf",
		DocumentType:   docType,
		LayoutFeatures: map[string]map[string]any{
			"header": {"type": "formal", "logo_support": false},
			"body":   {"tables": false},
			"footer": {"has_content": false, "page_numbers": false},
		},
		ContentSections:  append([]string(nil), sections...),
		DesignElements:   map[string]any{"origin": id},
		ComplexityScore:  complexity,
		ReusabilityScore: reusability,
	}
}

func insert(t *testing.T, l *Library, p *pattern.TemplatePattern) {
	t.Helper()
	doc := &analyze.DocumentStructure{
		ID:           "doc-" + p.PatternID,
		Name:         p.SourceDocument,
		SourcePath:   "/docs/" + p.SourceDocument,
		AnalyzedAt:   time.Now().UTC(),
		TotalPages:   1,
		Sections:     p.ContentSections,
		ContentTypes: []string{analyze.ContentTextDocument},
	}
	l.Upsert(doc, p)
}

func TestUpsertBuildsKnowledge(t *testing.T) {
	l := New(nil)
	insert(t, l, testPattern("aaa11111", pattern.TypeResolution, 1, 8, "header", "resolution"))
	insert(t, l, testPattern("bbb22222", pattern.TypeResolution, 2, 6, "resolution", "signatures"))

	k, ok := l.Knowledge(pattern.TypeResolution)
	if !ok {
		t.Fatal("missing knowledge entry for resolution type")
	}
	wantSections := []string{"header", "resolution", "signatures"}
	if len(k.Sections) != len(wantSections) {
		t.Fatalf("sections: got %v, want %v", k.Sections, wantSections)
	}
	if len(k.SourceDocuments) != 2 {
		t.Errorf("source documents: got %v", k.SourceDocuments)
	}
	if k.ComplexityTier != TierSimple {
		t.Errorf("tier: got %q, want %q", k.ComplexityTier, TierSimple)
	}

	stats := l.Snapshot()
	if stats.Patterns != 2 {
		t.Errorf("patterns: got %d, want 2", stats.Patterns)
	}
	if stats.Counters.DocumentsAnalyzed != 2 {
		t.Errorf("documents analyzed: got %d, want 2", stats.Counters.DocumentsAnalyzed)
	}
	if stats.Counters.PatternsDiscovered != 2 {
		t.Errorf("patterns discovered: got %d, want 2", stats.Counters.PatternsDiscovered)
	}
	if stats.CacheEntries != 2 {
		t.Errorf("cache entries: got %d, want 2", stats.CacheEntries)
	}
}

func TestUpsertReplaceKeepsDiscoveredCount(t *testing.T) {
	l := New(nil)
	insert(t, l, testPattern("aaa11111", pattern.TypeResolution, 1, 8, "header"))
	insert(t, l, testPattern("aaa11111", pattern.TypeResolution, 2, 7, "header", "resolution"))

	stats := l.Snapshot()
	if stats.Patterns != 1 {
		t.Errorf("patterns: got %d, want 1", stats.Patterns)
	}
	if stats.Counters.PatternsDiscovered != 1 {
		t.Errorf("patterns discovered: got %d, want 1", stats.Counters.PatternsDiscovered)
	}
	if stats.Counters.DocumentsAnalyzed != 2 {
		t.Errorf("documents analyzed: got %d, want 2", stats.Counters.DocumentsAnalyzed)
	}
}

func TestPatternReturnsClone(t *testing.T) {
	l := New(nil)
	insert(t, l, testPattern("aaa11111", pattern.TypeResolution, 1, 8, "header"))

	p, ok := l.Pattern("aaa11111")
	if !ok {
		t.Fatal("pattern not found")
	}
	p.LayoutFeatures["header"]["type"] = "tampered"
	p.ContentSections = append(p.ContentSections, "tampered")

	fresh, _ := l.Pattern("aaa11111")
	if fresh.LayoutFeatures["header"]["type"] == "tampered" {
		t.Error("caller mutation reached library state")
	}
	if len(fresh.ContentSections) != 1 {
		t.Error("caller mutation reached stored sections")
	}
}

func TestComplexityTier(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{1, TierSimple}, {2, TierSimple},
		{3, TierMedium}, {4, TierMedium},
		{5, TierComplex},
	}
	for _, tt := range tests {
		if got := complexityTier(tt.score); got != tt.want {
			t.Errorf("score %d: got %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestDesignLibraryAbsorb(t *testing.T) {
	l := New(nil)
	p := testPattern("aaa11111", pattern.TypeResolution, 1, 8, "header")
	doc := &analyze.DocumentStructure{
		ID: "doc-1", Name: "a.pdf", TotalPages: 1,
		ContentTypes: []string{analyze.ContentTextDocument},
		DesignElements: analyze.DesignElements{
			Margins: analyze.Margins{Left: 72, Right: 72, Top: 50, Bottom: 50},
			FontUsage: map[string]*analyze.FontUsage{
				analyze.FontClassBody: {Count: 10, Sizes: []float64{11, 12}},
			},
		},
	}
	l.Upsert(doc, p)

	if len(l.design.Margins) != 1 {
		t.Errorf("margin samples: got %d, want 1", len(l.design.Margins))
	}
	stats := l.design.FontUsage[pattern.TypeResolution]
	if stats == nil || stats.Uses != 1 {
		t.Fatalf("font usage not recorded: %+v", stats)
	}
	if len(stats.Sizes) != 2 {
		t.Errorf("sizes: got %v, want [11 12]", stats.Sizes)
	}
}
