package library

import (
	"reflect"
	"testing"

	"github.com/jackzampolin/docket/internal/pattern"
)

func TestSuggestScoring(t *testing.T) {
	l := New(nil)
	onTarget := testPattern("aaa11111", pattern.TypeResolution, 3, 8, "resolution")
	offTarget := testPattern("bbb22222", pattern.TypeResolution, 1, 8, "resolution")
	generic := testPattern("ccc33333", pattern.TypeGeneralLegal, 3, 5, "header")
	other := testPattern("ddd44444", pattern.TypeCreditorsNotice, 3, 9, "creditor")
	insert(t, l, onTarget)
	insert(t, l, offTarget)
	insert(t, l, generic)
	insert(t, l, other)

	got := l.Suggest(pattern.TypeResolution, nil, "")
	if len(got) != 3 {
		t.Fatalf("suggestions: got %d, want 3", len(got))
	}

	// reusability minus twice the complexity distance from the default
	// preference of 3.
	wantScores := map[string]int{
		"aaa11111": 8, // 8 - 2*0
		"bbb22222": 4, // 8 - 2*2
		"ccc33333": 5, // generic fallback, 5 - 2*0
	}
	for _, s := range got {
		if want := wantScores[s.Pattern.PatternID]; s.Score != want {
			t.Errorf("pattern %s: score %d, want %d", s.Pattern.PatternID, s.Score, want)
		}
	}
	if got[0].Pattern.PatternID != "aaa11111" || got[1].Pattern.PatternID != "ccc33333" {
		t.Errorf("order: got %s, %s, %s",
			got[0].Pattern.PatternID, got[1].Pattern.PatternID, got[2].Pattern.PatternID)
	}
}

func TestSuggestFeatureBonuses(t *testing.T) {
	l := New(nil)
	p := testPattern("aaa11111", pattern.TypeResolution, 3, 6, "resolution")
	p.LayoutFeatures["header"]["logo_support"] = true
	p.LayoutFeatures["body"]["tables"] = true
	insert(t, l, p)

	got := l.Suggest(pattern.TypeResolution,
		[]string{FeatureLogo, FeatureTables, FeatureMultipage}, "")
	if len(got) != 1 {
		t.Fatalf("suggestions: got %d, want 1", len(got))
	}
	// 6 base + 5 logo + 5 tables + 3 multipage (complexity 3 > 2).
	if got[0].Score != 19 {
		t.Errorf("score: got %d, want 19", got[0].Score)
	}
}

func TestSuggestMultipageBonusNeedsComplexity(t *testing.T) {
	l := New(nil)
	insert(t, l, testPattern("aaa11111", pattern.TypeResolution, 2, 6, "resolution"))

	got := l.Suggest(pattern.TypeResolution, []string{FeatureMultipage}, "")
	// 6 - 2*|2-3|, no multipage bonus at complexity 2.
	if got[0].Score != 4 {
		t.Errorf("score: got %d, want 4", got[0].Score)
	}
}

func TestSuggestComplexityPreference(t *testing.T) {
	l := New(nil)
	insert(t, l, testPattern("aaa11111", pattern.TypeResolution, 1, 5, "resolution"))
	insert(t, l, testPattern("bbb22222", pattern.TypeResolution, 5, 5, "resolution"))

	got := l.Suggest(pattern.TypeResolution, nil, ComplexitySimple)
	if got[0].Pattern.PatternID != "aaa11111" {
		t.Errorf("simple preference: top is %s", got[0].Pattern.PatternID)
	}
	got = l.Suggest(pattern.TypeResolution, nil, ComplexityComplex)
	if got[0].Pattern.PatternID != "bbb22222" {
		t.Errorf("complex preference: top is %s", got[0].Pattern.PatternID)
	}
}

func TestSuggestTiesBreakByID(t *testing.T) {
	l := New(nil)
	insert(t, l, testPattern("bbb22222", pattern.TypeResolution, 3, 7, "resolution"))
	insert(t, l, testPattern("aaa11111", pattern.TypeResolution, 3, 7, "resolution"))

	got := l.Suggest(pattern.TypeResolution, nil, "")
	if got[0].Pattern.PatternID != "aaa11111" {
		t.Errorf("tie break: got %s first, want aaa11111", got[0].Pattern.PatternID)
	}
}

func TestSuggestCapsAtFive(t *testing.T) {
	l := New(nil)
	ids := []string{"a1", "b2", "c3", "d4", "e5", "f6", "g7"}
	for _, id := range ids {
		insert(t, l, testPattern(id, pattern.TypeResolution, 3, 7, "resolution"))
	}

	got := l.Suggest(pattern.TypeResolution, nil, "")
	if len(got) != maxSuggestions {
		t.Errorf("suggestions: got %d, want %d", len(got), maxSuggestions)
	}
}

func TestSuggestDeterministic(t *testing.T) {
	l := New(nil)
	for _, id := range []string{"e5", "a1", "c3", "b2", "d4"} {
		insert(t, l, testPattern(id, pattern.TypeResolution, 3, 7, "resolution"))
	}

	first := l.Suggest(pattern.TypeResolution, []string{FeatureTables}, ComplexityMedium)
	for i := 0; i < 10; i++ {
		again := l.Suggest(pattern.TypeResolution, []string{FeatureTables}, ComplexityMedium)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs from first result", i)
		}
	}
}

func TestSuggestReturnsClones(t *testing.T) {
	l := New(nil)
	insert(t, l, testPattern("aaa11111", pattern.TypeResolution, 3, 7, "resolution"))

	got := l.Suggest(pattern.TypeResolution, nil, "")
	got[0].Pattern.LayoutFeatures["header"]["type"] = "tampered"

	stored, _ := l.Pattern("aaa11111")
	if stored.LayoutFeatures["header"]["type"] == "tampered" {
		t.Error("suggestion mutation reached library state")
	}
}

func TestRecommendPicksBestBasis(t *testing.T) {
	l := New(nil)
	insert(t, l, testPattern("aaa11111", pattern.TypeResolution, 2, 6, "resolution"))
	insert(t, l, testPattern("bbb22222", pattern.TypeResolution, 3, 9, "resolution"))

	rec := l.Recommend(pattern.TypeResolution, nil)
	if rec.BasisPatternID != "bbb22222" {
		t.Errorf("basis: got %s, want bbb22222", rec.BasisPatternID)
	}
	if rec.Confidence != 40 {
		t.Errorf("confidence: got %d, want 40", rec.Confidence)
	}
	if rec.StyleName != "simple" {
		t.Errorf("style: got %s, want simple", rec.StyleName)
	}
}

func TestRecommendStyleSelection(t *testing.T) {
	l := New(nil)

	tests := []struct {
		name     string
		features []string
		want     string
	}{
		{"logo wins", []string{FeatureFormal, FeatureLogo}, "branded"},
		{"formal", []string{FeatureFormal}, "formal"},
		{"default", nil, "simple"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := l.Recommend(pattern.TypeResolution, tt.features)
			if rec.StyleName != tt.want {
				t.Errorf("style: got %s, want %s", rec.StyleName, tt.want)
			}
		})
	}
}

func TestRecommendEmptyLibrary(t *testing.T) {
	l := New(nil)
	rec := l.Recommend(pattern.TypeResolution, nil)
	if rec.BasisPatternID != "" {
		t.Errorf("basis: got %s, want empty", rec.BasisPatternID)
	}
	if rec.Confidence != 0 {
		t.Errorf("confidence: got %d, want 0", rec.Confidence)
	}
	if rec.HeaderStyle.Alignment == "" {
		t.Error("header style preset missing")
	}
}

func TestConfidenceCap(t *testing.T) {
	tests := []struct {
		matches int
		want    int
	}{
		{0, 0}, {1, 20}, {3, 60}, {5, 100}, {12, 100},
	}
	for _, tt := range tests {
		if got := confidence(tt.matches); got != tt.want {
			t.Errorf("confidence(%d): got %d, want %d", tt.matches, got, tt.want)
		}
	}
}
