package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/docket/internal/cli"
	"github.com/jackzampolin/docket/internal/config"
	"github.com/jackzampolin/docket/internal/home"
	"github.com/jackzampolin/docket/internal/library"
	"github.com/jackzampolin/docket/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "docket",
	Short: "Legal document structure analysis with a self-improving pattern library",
	Long: `Docket analyzes the structure of legal PDF documents and distills each
one into a reusable template pattern.

Analysis covers:
  - Page layout extraction (text blocks, images, form fields)
  - Header/footer zone classification and table detection
  - Legal section identification (resolutions, notices, declarations, ...)
  - Design elements (margins, font usage) and content classification

Learned patterns accumulate in a local library that answers template
suggestion, design recommendation, and structure validation queries.`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.docket/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "docket home directory (default: ~/.docket)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		cli.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(libraryCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig builds the config manager from the --config flag.
func loadConfig() (*config.Config, error) {
	mgr, err := config.NewManager(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return mgr.Get(), nil
}

// newLogger builds the process logger from the log config section.
func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.Log.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// openHome resolves the docket home directory and creates its layout.
func openHome() (*home.Dir, error) {
	h, err := home.New(homeDir)
	if err != nil {
		return nil, err
	}
	if err := h.EnsureExists(); err != nil {
		return nil, err
	}
	return h, nil
}

// openLibrary opens the pattern library at its configured location,
// creating the home directory if needed.
func openLibrary(cfg *config.Config, logger *slog.Logger) (*library.Library, error) {
	path := cfg.Library.Path
	if path == "" {
		h, err := openHome()
		if err != nil {
			return nil, err
		}
		path = h.LibraryPath()
	}
	return library.Open(path, logger), nil
}

// saveLibrary flushes the library when autosave is on.
func saveLibrary(cfg *config.Config, lib *library.Library) error {
	if !cfg.Library.AutoSave {
		return nil
	}
	return lib.Save()
}
