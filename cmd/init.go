package main

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/csvsift/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a starter config.json in ./config",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := filepath.Join(config.DefaultDir, config.DefaultFile)

		if _, err := os.Stat(path); err == nil && !initForce {
			return eris.Errorf("config file %q already exists, use --force to overwrite", path)
		}

		if err := config.WriteDefault(path); err != nil {
			return err
		}
		zap.L().Info("generated config file", zap.String("path", path))
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}
