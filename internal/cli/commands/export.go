package commands

import (
	"github.com/spf13/cobra"
)

// NewExportCommand creates the export command.
func NewExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Export the global bookmarks as YAML",
		Long:  `Write the global bookmark set to stdout in the import format.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd)
		},
	}
}

func runExport(cmd *cobra.Command) error {
	cmdCtx, cleanup, err := newCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	out, err := cmdCtx.Store.ExportYAML(cmd.Context(), nil)
	if err != nil {
		return err
	}

	_, err = cmd.OutOrStdout().Write(out)
	return err
}
