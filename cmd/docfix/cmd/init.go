package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/docfix/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Write a commented default .docfix.yaml to the current directory, or to
the path given with --path. Existing files are kept unless --force is set.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

var (
	initForce bool
	initPath  string
)

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing configuration")
	initCmd.Flags().StringVar(&initPath, "path", ".docfix.yaml", "where to write the configuration")
}

func runInit(cmd *cobra.Command, _ []string) error {
	path, err := filepath.Abs(initPath)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", initPath, err)
	}
	if err := config.WriteDefault(path, initForce); err != nil {
		return fmt.Errorf("%w (use --force to overwrite)", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", path)
	return nil
}
