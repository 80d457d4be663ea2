package analyze

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SaveReport writes the full analysis result as indented JSON at path,
// creating the parent directory if needed. Reports are plain files so
// they can be diffed and inspected without the CLI.
func SaveReport(path string, doc *DocumentStructure) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report for %s: %w", doc.Name, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// LoadReport reads a report previously written by SaveReport.
func LoadReport(path string) (*DocumentStructure, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}
	var doc DocumentStructure
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse report %s: %w", path, err)
	}
	return &doc, nil
}
