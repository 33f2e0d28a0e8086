package cmd

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/barysiuk/ananke/internal/env"
	"github.com/barysiuk/ananke/internal/logger"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "ananke",
	Short: "Keep skills and MCP servers in sync across coding agents",
	Long: `Ananke manages skills and MCP server entries for the coding agents
installed in your home directory (Claude Code, Cursor, Codex, Gemini CLI, ...).

Install skills from GitHub, copy skills or MCP servers from one agent to
another, and merge MCP JSON into any agent's configuration. Run without a
command in a terminal to open the interactive UI.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if isatty.IsTerminal(os.Stdout.Fd()) {
			return runTUI(cmd)
		}
		return cmd.Help()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "ananke %s (commit: %s, built: %s)\n", Version, Commit, Date)
	},
}

func init() {
	rootCmd.PersistentPreRunE = initLogging
	rootCmd.PersistentFlags().String("home", "", "Home directory agents are looked up in (default: your home directory)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.AddCommand(versionCmd)
}

// initLogging routes logs to the state log file for the interactive UI, and
// to stderr at warning level otherwise.
func initLogging(cmd *cobra.Command, _ []string) error {
	debug, _ := cmd.Flags().GetBool("debug")

	var opts []logger.Option
	if cmd == rootCmd || cmd == tuiCmd {
		path, err := logger.LogFilePath()
		if err != nil {
			return err
		}
		opts = append(opts, logger.WithOutputPaths(path))
	} else if !debug {
		opts = append(opts, logger.WithLevel(zapcore.WarnLevel))
	}
	return logger.InitializeWithOptions(&env.OSReader{}, logger.StaticDebug(debug), opts...)
}

// Execute runs the root command.
func Execute() error {
	defer logger.Sync()
	return rootCmd.Execute()
}
