package library

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/jackzampolin/docket/internal/pattern"
)

//go:embed schema.json
var librarySchemaJSON string

// librarySchema guards loads: a file that fails it is treated as corrupt.
// The schema is permissive on purpose; only score bounds and the shape of
// the pattern map are enforced.
var librarySchema = jsonschema.MustCompileString("library.schema.json", librarySchemaJSON)

// persistedState is the on-disk shape of the library. Every field is
// optional on load so older files keep working as the schema evolves.
type persistedState struct {
	KnowledgeBase    map[string]*DocumentKnowledge       `json:"knowledge_base,omitempty"`
	LegalClauses     json.RawMessage                     `json:"legal_clauses,omitempty"`
	ComplianceRules  json.RawMessage                     `json:"compliance_rules,omitempty"`
	TemplatePatterns map[string]*pattern.TemplatePattern `json:"template_patterns,omitempty"`
	DesignLibrary    *DesignLibrary                      `json:"design_library,omitempty"`
	AnalysisCache    map[string]*CacheEntry              `json:"pdf_analysis_cache,omitempty"`
	Counters         *Counters                           `json:"knowledge_stats,omitempty"`
	LastSaved        time.Time                           `json:"last_saved"`
}

// Save writes the whole library state to its backing file. Best-effort:
// the in-memory state is untouched either way, and a failure is logged
// and returned for the caller to surface.
func (l *Library) Save() error {
	if l.path == "" {
		return errors.New("library has no backing file")
	}

	l.mu.Lock()
	state := persistedState{
		KnowledgeBase:    l.knowledge,
		LegalClauses:     l.legalClauses,
		ComplianceRules:  l.complianceRules,
		TemplatePatterns: l.patterns,
		DesignLibrary:    l.design,
		AnalysisCache:    l.cache,
		Counters:         &l.counters,
		LastSaved:        time.Now().UTC(),
	}
	data, err := json.MarshalIndent(state, "", "  ")
	l.mu.Unlock()
	if err != nil {
		l.logger.Error("failed to encode library", "error", err)
		return fmt.Errorf("failed to encode library: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		l.logger.Error("failed to create library directory", "error", err)
		return fmt.Errorf("failed to create library directory: %w", err)
	}

	// Write-then-rename so a crash mid-write never corrupts the store.
	tmp := l.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		l.logger.Error("failed to write library", "path", l.path, "error", err)
		return fmt.Errorf("failed to write library: %w", err)
	}
	if err := os.Rename(tmp, l.path); err != nil {
		l.logger.Error("failed to replace library file", "path", l.path, "error", err)
		return fmt.Errorf("failed to replace library file: %w", err)
	}

	l.logger.Debug("library saved", "path", l.path, "patterns", len(l.patterns))
	return nil
}

// load reads the backing file into memory. Any failure leaves the library
// empty rather than propagating: a fresh start beats a crash on a stale
// or corrupt store.
func (l *Library) load() {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			l.logger.Info("no existing library, starting empty", "path", l.path)
		} else {
			l.logger.Warn("library unreadable, starting empty", "path", l.path, "error", err)
		}
		return
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		l.logger.Warn("library file corrupt, starting empty", "path", l.path, "error", err)
		return
	}
	if err := librarySchema.Validate(raw); err != nil {
		l.logger.Warn("library file failed schema validation, starting empty",
			"path", l.path, "error", err)
		return
	}

	var state persistedState
	if err := json.Unmarshal(data, &state); err != nil {
		l.logger.Warn("library file corrupt, starting empty", "path", l.path, "error", err)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if state.TemplatePatterns != nil {
		l.patterns = state.TemplatePatterns
	}
	if state.KnowledgeBase != nil {
		l.knowledge = state.KnowledgeBase
	}
	if state.DesignLibrary != nil {
		l.design = state.DesignLibrary
		l.design.ensurePresets()
	}
	if state.AnalysisCache != nil {
		l.cache = state.AnalysisCache
	}
	if state.Counters != nil {
		l.counters = *state.Counters
	}
	l.legalClauses = state.LegalClauses
	l.complianceRules = state.ComplianceRules

	l.logger.Info("library loaded",
		"path", l.path,
		"patterns", len(l.patterns),
		"document_types", len(l.knowledge))
}
