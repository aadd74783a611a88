package commands

import (
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jrodal98/brunnylol/internal/command"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the global bookmarks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd)
		},
	}
}

func runList(cmd *cobra.Command) error {
	cmdCtx, cleanup, err := newCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	commands := cmdCtx.Cache.Commands()
	aliases := make([]string, 0, len(commands))
	for alias := range commands {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Alias", "Kind", "Description", "Target"})

	for _, alias := range aliases {
		c := commands[alias]
		kind := "variable"
		if c.Kind == command.KindNested {
			kind = "nested"
		}
		t.AppendRow(table.Row{alias, kind, c.Description, c.String()})
	}

	t.Render()
	return nil
}
