package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/barysiuk/ananke/internal/core/agent"
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "List supported agents and where their files live",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		disabled := map[string]bool{}
		for _, name := range d.settings.DisabledAgents {
			disabled[name] = true
		}
		paths := d.store.Paths()

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "AGENT\tNAME\tSKILLS\tMCP\tSTATUS")
		for _, a := range agent.All() {
			skills, mcp := "-", "-"
			installed := false
			if src, ok := a.Skills(paths); ok {
				skills = src.ID
				installed = installed || src.Installed()
			}
			if src, ok := a.MCP(paths); ok {
				mcp = fmt.Sprintf("%s (%s)", src.ID, src.Format)
				installed = installed || src.Listed()
			}
			status := "not installed"
			switch {
			case disabled[a.Name()]:
				status = "disabled"
			case installed:
				status = "installed"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", a.Name(), a.DisplayName(), skills, mcp, status)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(agentsCmd)
}
