package home

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDirName is the default name for the docket home directory.
	DefaultDirName = ".docket"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"

	// LibraryFileName is the pattern library store.
	LibraryFileName = "library.json"

	// ReportsDirName is the subdirectory for saved analysis reports.
	ReportsDirName = "reports"
)

// Dir represents the docket home directory structure.
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the default (~/.docket).
func New(path string) (*Dir, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, DefaultDirName)
	}

	return &Dir{path: path}, nil
}

// Path returns the root path of the home directory.
func (d *Dir) Path() string {
	return d.path
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// LibraryPath returns the path to the pattern library store.
func (d *Dir) LibraryPath() string {
	return filepath.Join(d.path, LibraryFileName)
}

// ReportsDir returns the directory for saved analysis reports.
func (d *Dir) ReportsDir() string {
	return filepath.Join(d.path, ReportsDirName)
}

// ReportPath returns the path for a saved analysis report.
func (d *Dir) ReportPath(documentID string) string {
	return filepath.Join(d.ReportsDir(), fmt.Sprintf("%s.json", documentID))
}

// EnsureExists creates the home directory and subdirectories if they don't exist.
func (d *Dir) EnsureExists() error {
	// Create reports directory (this also creates the parent)
	if err := os.MkdirAll(d.ReportsDir(), 0o755); err != nil {
		return fmt.Errorf("failed to create reports directory: %w", err)
	}
	return nil
}

// Exists returns true if the home directory exists.
func (d *Dir) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// ConfigExists returns true if the config file exists in the home directory.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}
