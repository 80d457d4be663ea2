// Package library is the pattern knowledge base: it stores template
// patterns and per-type document knowledge, answers scored suggestion and
// validation queries, and consolidates similar patterns over time.
//
// A Library is the only shared mutable state in the analysis subsystem.
// All mutations (upsert, consolidate, save) hold the write lock; queries
// hold the read lock and hand out clones, so readers never observe an
// in-progress merge.
package library

import (
	"encoding/json"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jackzampolin/docket/internal/analyze"
	"github.com/jackzampolin/docket/internal/pattern"
)

// Counters tracks library-wide running totals.
type Counters struct {
	DocumentsAnalyzed  int       `json:"documents_analyzed"`
	PatternsDiscovered int       `json:"patterns_discovered"`
	LastUpdate         time.Time `json:"last_update"`
}

// CacheEntry records the most recent analysis of a document.
type CacheEntry struct {
	EntryID      string    `json:"entry_id"`
	DocumentName string    `json:"document_name"`
	DocumentType string    `json:"document_type"`
	TotalPages   int       `json:"total_pages"`
	Sections     []string  `json:"sections"`
	ContentTypes []string  `json:"content_types"`
	Timestamp    time.Time `json:"timestamp"`
	Integrated   bool      `json:"integrated"`
}

// Library is the in-memory pattern knowledge base with optional file
// persistence. Construct with Open (load-from-store) or New (empty), and
// flush with Save.
type Library struct {
	mu     sync.RWMutex
	logger *slog.Logger
	path   string

	patterns  map[string]*pattern.TemplatePattern
	knowledge map[string]*DocumentKnowledge
	design    *DesignLibrary
	cache     map[string]*CacheEntry
	counters  Counters

	// Opaque payloads owned by other subsystems; persisted unchanged.
	legalClauses    json.RawMessage
	complianceRules json.RawMessage
}

// New creates an empty in-memory library. A nil logger uses slog.Default.
func New(logger *slog.Logger) *Library {
	if logger == nil {
		logger = slog.Default()
	}
	return &Library{
		logger:    logger,
		patterns:  make(map[string]*pattern.TemplatePattern),
		knowledge: make(map[string]*DocumentKnowledge),
		design:    newDesignLibrary(),
		cache:     make(map[string]*CacheEntry),
	}
}

// Open creates a library backed by the file at path and loads any existing
// state. A missing, corrupt, or schema-invalid file starts the library
// empty; it never fails the caller.
func Open(path string, logger *slog.Logger) *Library {
	l := New(logger)
	l.path = path
	l.load()
	return l
}

// Upsert inserts or replaces the pattern derived from doc and folds the
// document into the knowledge base, design library, and analysis cache.
func (l *Library) Upsert(doc *analyze.DocumentStructure, p *pattern.TemplatePattern) {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, replacing := l.patterns[p.PatternID]
	l.patterns[p.PatternID] = p.Clone()

	k, ok := l.knowledge[p.DocumentType]
	if !ok {
		k = &DocumentKnowledge{DocumentType: p.DocumentType}
		l.knowledge[p.DocumentType] = k
	}
	k.absorb(doc, p)

	l.design.absorb(doc, p)

	l.cache[doc.ID] = &CacheEntry{
		EntryID:      uuid.New().String(),
		DocumentName: doc.Name,
		DocumentType: p.DocumentType,
		TotalPages:   doc.TotalPages,
		Sections:     append([]string(nil), doc.Sections...),
		ContentTypes: append([]string(nil), doc.ContentTypes...),
		Timestamp:    doc.AnalyzedAt,
		Integrated:   true,
	}

	l.counters.DocumentsAnalyzed++
	if !replacing {
		l.counters.PatternsDiscovered++
	}
	l.counters.LastUpdate = time.Now().UTC()

	l.logger.Debug("pattern upserted",
		"pattern_id", p.PatternID, "type", p.DocumentType, "replaced", replacing)
}

// Pattern returns a clone of the pattern with the given id.
func (l *Library) Pattern(id string) (*pattern.TemplatePattern, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, ok := l.patterns[id]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

// Patterns returns clones of all stored patterns ordered by id.
func (l *Library) Patterns() []*pattern.TemplatePattern {
	l.mu.RLock()
	defer l.mu.RUnlock()

	ids := make([]string, 0, len(l.patterns))
	for id := range l.patterns {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]*pattern.TemplatePattern, 0, len(ids))
	for _, id := range ids {
		out = append(out, l.patterns[id].Clone())
	}
	return out
}

// Stats summarizes the library state.
type Stats struct {
	Path          string   `json:"path,omitempty"`
	Patterns      int      `json:"patterns"`
	DocumentTypes []string `json:"document_types"`
	CacheEntries  int      `json:"cache_entries"`
	Counters      Counters `json:"counters"`
}

// Snapshot returns current library statistics.
func (l *Library) Snapshot() Stats {
	l.mu.RLock()
	defer l.mu.RUnlock()

	types := make([]string, 0, len(l.knowledge))
	for t := range l.knowledge {
		types = append(types, t)
	}
	sort.Strings(types)

	return Stats{
		Path:          l.path,
		Patterns:      len(l.patterns),
		DocumentTypes: types,
		CacheEntries:  len(l.cache),
		Counters:      l.counters,
	}
}

// Knowledge returns a copy of the knowledge entry for a document type.
func (l *Library) Knowledge(docType string) (DocumentKnowledge, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	k, ok := l.knowledge[docType]
	if !ok {
		return DocumentKnowledge{}, false
	}
	cp := *k
	cp.Sections = append([]string(nil), k.Sections...)
	cp.ContentTypes = append([]string(nil), k.ContentTypes...)
	cp.SourceDocuments = append([]string(nil), k.SourceDocuments...)
	return cp, true
}
