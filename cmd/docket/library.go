package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/docket/internal/cli"
	"github.com/jackzampolin/docket/internal/config"
	"github.com/jackzampolin/docket/internal/library"
)

var (
	queryType       string
	queryFeatures   []string
	queryComplexity string
	querySections   []string
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Query and maintain the pattern library",
}

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest template patterns for a document type",
	Long: `Suggest ranks stored patterns against the requested document type,
features, and complexity preference, returning the top five.

Examples:
  docket library suggest --type resolution
  docket library suggest --type creditors_notice --features logo,tables --complexity medium`,
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, _, err := openConfiguredLibrary()
		if err != nil {
			return err
		}
		return cli.Output(lib.Suggest(queryType, queryFeatures, queryComplexity))
	},
}

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend a design basis for a new document",
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, _, err := openConfiguredLibrary()
		if err != nil {
			return err
		}
		return cli.Output(lib.Recommend(queryType, queryFeatures))
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a proposed document structure",
	Long: `Validate checks a proposed section list against the critical sections
every legal document needs and against the best reference pattern on file
for the document type.

Example:
  docket library validate --type resolution --sections header,company_info,signatures`,
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, _, err := openConfiguredLibrary()
		if err != nil {
			return err
		}
		return cli.Output(lib.Validate(queryType, querySections))
	},
}

var consolidateCmd = &cobra.Command{
	Use:   "consolidate",
	Short: "Merge similar patterns to reduce redundancy",
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, cfg, err := openConfiguredLibrary()
		if err != nil {
			return err
		}
		merged := lib.Consolidate()
		if merged > 0 {
			if err := saveLibrary(cfg, lib); err != nil {
				return err
			}
		}
		return cli.Output(map[string]int{"merged_groups": merged})
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show library statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, _, err := openConfiguredLibrary()
		if err != nil {
			return err
		}
		return cli.Output(lib.Snapshot())
	},
}

// openConfiguredLibrary loads config and opens the library in one step for
// the query subcommands.
func openConfiguredLibrary() (*library.Library, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger := newLogger(cfg)
	lib, err := openLibrary(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return lib, cfg, nil
}

func init() {
	for _, cmd := range []*cobra.Command{suggestCmd, recommendCmd, validateCmd} {
		cmd.Flags().StringVar(&queryType, "type", "", "document type to query")
		cmd.Flags().StringSliceVar(&queryFeatures, "features", nil,
			"wanted features: logo, tables, multipage, formal")
		_ = cmd.MarkFlagRequired("type")
	}
	suggestCmd.Flags().StringVar(&queryComplexity, "complexity", "",
		"complexity preference: simple, medium, or complex")
	validateCmd.Flags().StringSliceVar(&querySections, "sections", nil,
		"proposed section list")

	libraryCmd.AddCommand(suggestCmd)
	libraryCmd.AddCommand(recommendCmd)
	libraryCmd.AddCommand(validateCmd)
	libraryCmd.AddCommand(consolidateCmd)
	libraryCmd.AddCommand(statsCmd)
}
