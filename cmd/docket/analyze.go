package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/docket/internal/analyze"
	"github.com/jackzampolin/docket/internal/cli"
	"github.com/jackzampolin/docket/internal/pattern"
)

var analyzeNoLearn bool

// analyzeReport is the structured output of the analyze command.
type analyzeReport struct {
	Structure  *analyze.DocumentStructure `json:"structure" yaml:"structure"`
	Pattern    *pattern.TemplatePattern   `json:"pattern" yaml:"pattern"`
	ReportPath string                     `json:"report_path" yaml:"report_path"`
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file.pdf>",
	Short: "Analyze a legal PDF and learn its template pattern",
	Long: `Analyze extracts the full document structure of a legal PDF, derives a
template pattern from it, and records both in the pattern library.

Examples:
  docket analyze notice.pdf
  docket analyze notice.pdf -o json
  docket analyze notice.pdf --no-learn    # report only, skip the library`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg)

		analyzer := analyze.New(cfg.ToAnalyzerOptions(), logger)
		doc, err := analyzer.AnalyzeFile(ctx, args[0])
		if err != nil {
			return err
		}
		p := pattern.FromStructure(doc)

		h, err := openHome()
		if err != nil {
			return err
		}
		reportPath := h.ReportPath(doc.ID)
		if err := analyze.SaveReport(reportPath, doc); err != nil {
			return err
		}

		if !analyzeNoLearn {
			lib, err := openLibrary(cfg, logger)
			if err != nil {
				return err
			}
			lib.Upsert(doc, p)
			if err := saveLibrary(cfg, lib); err != nil {
				return err
			}
		}

		return cli.Output(analyzeReport{Structure: doc, Pattern: p, ReportPath: reportPath})
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(
		&analyzeNoLearn, "no-learn", false, "analyze without updating the pattern library",
	)
}
