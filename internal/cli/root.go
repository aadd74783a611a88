// Package cli provides the command-line interface for brunnylol.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jrodal98/brunnylol/internal/cli/commands"
	"github.com/jrodal98/brunnylol/internal/config"
)

var cfgFile string

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "brunnylol",
		Short: "brunnylol - a bang-style bookmark redirector",
		Long: `brunnylol turns short aliases into redirects: point your browser's
search keyword at it and "g some query" becomes a Google search, "gh user repo"
a GitHub page, and so on. Bookmarks are URL templates with variables, stored
per user or shared globally.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			cmd.SetContext(config.IntoContext(cmd.Context(), cfg))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./brunnylol.yaml)")
	rootCmd.PersistentFlags().String("host", "", "Bind address (empty for all interfaces)")
	rootCmd.PersistentFlags().Int("port", config.DefaultPort, "Listen port")
	rootCmd.PersistentFlags().String("database-path", "", "Path to the SQLite database")
	rootCmd.PersistentFlags().String("default-alias", "", "Alias that handles unrecognized queries")
	rootCmd.PersistentFlags().String("seeds-file", "", "YAML file of global bookmarks to import and watch")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug|info|warn|error)")

	rootCmd.AddCommand(commands.NewVersionCommand(Version, GitCommit))
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewResolveCommand())
	rootCmd.AddCommand(commands.NewListCommand())
	rootCmd.AddCommand(commands.NewSeedCommand())
	rootCmd.AddCommand(commands.NewExportCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
