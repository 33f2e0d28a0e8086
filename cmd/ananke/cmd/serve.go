package cmd

import (
	"github.com/spf13/cobra"

	"github.com/barysiuk/ananke/internal/mcpserver"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run an MCP server on stdio",
	Long: `Run a Model Context Protocol server on stdin/stdout so that coding agents
can list, install and sync skills and MCP servers through ananke.

Example client configuration:
  {"mcpServers": {"ananke": {"command": "ananke", "args": ["serve"]}}}`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		return mcpserver.ServeStdio(d.runner, Version)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
