package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/docket/internal/analyze"
	"github.com/jackzampolin/docket/internal/cli"
	"github.com/jackzampolin/docket/internal/config"
	"github.com/jackzampolin/docket/internal/pattern"
)

var batchWorkers int

// batchReport is the structured output of the batch command.
type batchReport struct {
	Result          *analyze.BatchResult `json:"result" yaml:"result"`
	PatternsLearned int                  `json:"patterns_learned" yaml:"patterns_learned"`
	ReportsDir      string               `json:"reports_dir" yaml:"reports_dir"`
}

var batchCmd = &cobra.Command{
	Use:   "batch <directory>",
	Short: "Analyze every PDF in a directory",
	Long: `Batch analyzes all PDF files in a directory with a worker pool. Files
that fail after the configured retry attempts are recorded as failures; the
batch itself always completes. Successfully analyzed documents are learned
into the pattern library and their reports saved under the home directory.

The config file is watched for the duration of the run, so analysis
thresholds can be tuned while a long batch is in flight.

Examples:
  docket batch ./filings
  docket batch ./filings --workers 8`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		mgr, err := config.NewManager(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg := mgr.Get()
		logger := newLogger(cfg)

		workers := batchWorkers
		if workers <= 0 {
			workers = cfg.Workers()
		}

		analyzer := analyze.New(cfg.ToAnalyzerOptions(), logger)

		// Config edits made mid-run apply to documents not yet picked up.
		mgr.OnChange(func(next *config.Config) {
			analyzer.SetOptions(next.ToAnalyzerOptions())
			logger.Info("analysis thresholds reloaded from config")
		})
		mgr.WatchConfig()

		result, err := analyzer.AnalyzeDir(ctx, args[0], workers, cfg.RetryAttempts())
		if err != nil {
			return err
		}

		h, err := openHome()
		if err != nil {
			return err
		}
		lib, err := openLibrary(cfg, logger)
		if err != nil {
			return err
		}
		learned := 0
		for _, doc := range result.Structures() {
			if err := analyze.SaveReport(h.ReportPath(doc.ID), doc); err != nil {
				return err
			}
			lib.Upsert(doc, pattern.FromStructure(doc))
			learned++
		}
		if learned > 0 {
			if err := saveLibrary(cfg, lib); err != nil {
				return err
			}
		}

		return cli.Output(batchReport{
			Result:          result,
			PatternsLearned: learned,
			ReportsDir:      h.ReportsDir(),
		})
	},
}

func init() {
	batchCmd.Flags().IntVar(
		&batchWorkers, "workers", 0, "concurrent documents (default: from config)",
	)
}
