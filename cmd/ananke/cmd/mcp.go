package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/barysiuk/ananke/internal/core"
	"github.com/barysiuk/ananke/internal/engine"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Manage MCP server configurations",
	Long:  `List, add, remove and copy MCP server entries across agents.`,
}

// ---------------------------------------------------------------------------
// mcp list
// ---------------------------------------------------------------------------

var mcpListCmd = &cobra.Command{
	Use:   "list",
	Short: "List agents with MCP configuration and their servers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		sourceFilter, _ := cmd.Flags().GetString("source")
		jsonOutput, _ := cmd.Flags().GetBool("json")

		sources, err := d.store.ListMcpSources(cmd.Context())
		if err != nil {
			return err
		}
		if sourceFilter != "" {
			var filtered []core.McpSource
			for _, src := range sources {
				if src.ID == sourceFilter {
					filtered = append(filtered, src)
				}
			}
			if len(filtered) == 0 {
				return fmt.Errorf("unknown MCP source %q", sourceFilter)
			}
			sources = filtered
		}

		if jsonOutput {
			if sources == nil {
				sources = []core.McpSource{}
			}
			return printJSON(cmd.OutOrStdout(), sources)
		}

		out := cmd.OutOrStdout()
		if len(sources) == 0 {
			fmt.Fprintln(out, "No agents with MCP configuration found.")
			return nil
		}
		for i, src := range sources {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "%s [%s] %s (%s)\n", src.Label, src.ID, src.Path, src.Format)
			if len(src.Servers) == 0 {
				fmt.Fprintln(out, "  (no servers)")
				continue
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			for _, srv := range src.Servers {
				kind, target := describeServer(srv)
				fmt.Fprintf(w, "  %s\t%s\t%s\n", srv.ID, kind, target)
			}
			_ = w.Flush()
		}
		return nil
	},
}

// ---------------------------------------------------------------------------
// mcp add
// ---------------------------------------------------------------------------

var mcpAddCmd = &cobra.Command{
	Use:   "add <source>",
	Short: "Merge MCP servers from JSON into an agent's configuration",
	Long: `Merge MCP server entries into an agent's configuration.

The JSON is read from --file or stdin and must be an object with an
"mcpServers" object. Each server id is added or replaced; servers not named
in the JSON are left untouched. Comments and unrelated keys in the agent's
file are preserved.

Examples:
  ananke mcp add claude --file servers.json
  echo '{"mcpServers":{"fs":{"command":"npx","args":["-y","@modelcontextprotocol/server-filesystem"]}}}' | ananke mcp add cursor`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		file, _ := cmd.Flags().GetString("file")

		var data []byte
		if file != "" && file != "-" {
			data, err = os.ReadFile(file)
		} else {
			data, err = io.ReadAll(cmd.InOrStdin())
		}
		if err != nil {
			return fmt.Errorf("reading MCP JSON: %w", err)
		}

		payload, err := engine.ValidateAndStage(args[0], string(data))
		if err != nil {
			return err
		}
		res := d.runner.SaveMcp(cmd.Context(), payload)
		if res.Err != nil {
			return res.Err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %d MCP server(s) to %s: %s\n",
			len(payload.ServerIDs), payload.SourceID, strings.Join(payload.ServerIDs, ", "))
		return nil
	},
}

// ---------------------------------------------------------------------------
// mcp remove
// ---------------------------------------------------------------------------

var mcpRemoveCmd = &cobra.Command{
	Use:   "remove <source> <id>",
	Short: "Remove an MCP server entry",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		res := d.runner.Delete(cmd.Context(), engine.KindMcp, core.Key{SourceID: args[0], ID: args[1]})
		if res.Err != nil {
			return res.Err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from %s\n", args[1], args[0])
		return nil
	},
}

// ---------------------------------------------------------------------------
// mcp sync
// ---------------------------------------------------------------------------

var mcpSyncCmd = &cobra.Command{
	Use:   "sync --from <source> --to <target>",
	Short: "Copy every MCP server the target agent is missing",
	Long: `Copy MCP server entries from one agent into another, converting between
configuration dialects. Server ids that already exist in the target are
skipped.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBulkSync(cmd, engine.KindMcp)
	},
}

func init() {
	mcpListCmd.Flags().String("source", "", "Only list this MCP source")
	mcpListCmd.Flags().Bool("json", false, "Output as JSON")
	mcpAddCmd.Flags().StringP("file", "f", "", "Read JSON from this file instead of stdin")
	addSyncFlags(mcpSyncCmd)

	mcpCmd.AddCommand(mcpListCmd, mcpAddCmd, mcpRemoveCmd, mcpSyncCmd)
	rootCmd.AddCommand(mcpCmd)
}
