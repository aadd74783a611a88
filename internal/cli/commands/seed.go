package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Import bookmarks into the global set",
		Long: `Import global bookmarks from a YAML file, or the built-in set when no file
is given. Existing aliases are left alone.`,
		Example: `  # Seed the built-in bookmarks
  brunnylol seed

  # Import a custom set
  brunnylol seed --file bookmarks.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd, file)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "YAML file to import (default: built-in bookmarks)")
	return cmd
}

func runSeed(cmd *cobra.Command, file string) error {
	cmdCtx, cleanup, err := newCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if file == "" {
		seeded, err := cmdCtx.Store.SeedGlobals(cmd.Context())
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "seeded %d built-in bookmarks\n", seeded)
		return nil
	}

	result, err := cmdCtx.Store.SeedGlobalsFromFile(cmd.Context(), file)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "imported %d, skipped %d\n", result.Imported, result.Skipped)
	for _, e := range result.Errors {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "error: %s\n", e)
	}
	if len(result.Errors) > 0 {
		return fmt.Errorf("%d bookmarks failed to import", len(result.Errors))
	}
	return nil
}
