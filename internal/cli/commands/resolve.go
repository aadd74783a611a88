package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewResolveCommand creates the resolve command.
func NewResolveCommand() *cobra.Command {
	var defaultAlias string

	cmd := &cobra.Command{
		Use:   "resolve <query>...",
		Short: "Resolve a query to its redirect target without serving",
		Long: `Run a query through the redirector and print where it would send the
browser. Useful for checking templates and alias behavior from the shell.`,
		Example: `  brunnylol resolve g how do i exit vim
  brunnylol resolve gh jrodal98 brunnylol
  brunnylol resolve --default ddg "some fallback search"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, strings.Join(args, " "), defaultAlias)
		},
	}

	cmd.Flags().StringVar(&defaultAlias, "default", "", "Override the default alias for this query")
	return cmd
}

func runResolve(cmd *cobra.Command, query, defaultAlias string) error {
	cmdCtx, cleanup, err := newCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := cmdCtx.Service.Resolve(cmd.Context(), query, nil, defaultAlias)
	if err != nil {
		return fmt.Errorf("failed to resolve %q: %w", query, err)
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), result.Location)
	return nil
}
