package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/csvsift/internal/config"
	"github.com/sells-group/csvsift/internal/output"
	"github.com/sells-group/csvsift/internal/pathfind"
	"github.com/sells-group/csvsift/internal/pipeline"
)

var (
	rootConfigFile string
	rootOutputType string
	rootOutputPath string
	rootVerbosity  string
)

var rootCmd = &cobra.Command{
	Use:   "csvsift [source]",
	Short: "Filter a CSV by per-column allow-lists and retain a subset of columns",
	Long: `Reads a CSV (or XLSX) file, keeps only rows whose filtered columns match
the configured allow-lists, retains the configured columns, optionally
deduplicates by key columns, and writes the result to stdout or a new CSV.

Criteria come from a JSON config file; CLI arguments override it field by
field. A source path may embed a {regex} placeholder in its filename, e.g.
"data/report_{[0-9]+}.csv", in which case the most recently modified match
is used.`,
	Args: cobra.MaximumNArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.InitLogger(rootVerbosity); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ov := config.Overrides{
			ConfigFile: rootConfigFile,
			OutputType: rootOutputType,
			OutputPath: rootOutputPath,
		}
		if len(args) == 1 {
			ov.Source = args[0]
		}

		cfg, err := config.Load(ov)
		if err != nil {
			if eris.Is(err, config.ErrGenerated) {
				zap.L().Info("edit the generated config file and run again")
				return nil
			}
			return err
		}

		table, err := pipeline.Run(cfg, pathfind.New())
		if err != nil {
			return err
		}

		switch cfg.OutputType {
		case config.OutputCSV:
			if err := output.ToFile(table, cfg.OutputPath); err != nil {
				return err
			}
		default:
			if err := output.ToStdout(table); err != nil {
				return err
			}
		}

		zap.L().Info("done", zap.Int("rows", len(table.Data)))
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVarP(&rootConfigFile, "config", "c", "", "config file to use instead of the default")
	rootCmd.Flags().StringVarP(&rootOutputType, "output_type", "t", "", "output type: stdout or csv")
	rootCmd.Flags().StringVarP(&rootOutputPath, "output_path", "o", "", "output file path")
	rootCmd.PersistentFlags().StringVarP(&rootVerbosity, "verbosity", "v", "info", "log verbosity: error|warn|info|debug|trace or 0-4")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
