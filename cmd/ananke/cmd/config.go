package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/barysiuk/ananke/internal/core"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change settings",
	Long: `Show or change ananke settings, stored in $XDG_CONFIG_HOME/ananke/config.json.

Keys: githubApiUrl, requestTimeoutSeconds, disabledAgents (comma-separated
agent names), lastSkillSource, lastMcpSource.`,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one setting, or all of them",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cm := core.NewConfigManager()
		cfg, err := cm.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(args) == 1 {
			v, err := cfg.Settings.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(out, v)
			return nil
		}
		for _, key := range core.SettingKeys() {
			v, _ := cfg.Settings.Get(key)
			fmt.Fprintf(out, "%s=%s\n", key, v)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cm := core.NewConfigManager()
		if err := cm.Update(func(s *core.Settings) error { return s.Set(args[0], args[1]) }); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", args[0])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configGetCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}
