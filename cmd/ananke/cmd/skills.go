package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/barysiuk/ananke/internal/core"
	"github.com/barysiuk/ananke/internal/engine"
)

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "Manage skills",
	Long:  `List, install, refresh, delete and copy skills across agents.`,
}

// ---------------------------------------------------------------------------
// skills list
// ---------------------------------------------------------------------------

var skillsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed agents and their skills",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		sourceFilter, _ := cmd.Flags().GetString("source")
		jsonOutput, _ := cmd.Flags().GetBool("json")

		sources, err := d.store.ListSkills(cmd.Context())
		if err != nil {
			return err
		}
		if sourceFilter != "" {
			var filtered []core.AgentSource
			for _, src := range sources {
				if src.ID == sourceFilter {
					filtered = append(filtered, src)
				}
			}
			if len(filtered) == 0 {
				return fmt.Errorf("unknown skill source %q", sourceFilter)
			}
			sources = filtered
		}

		if jsonOutput {
			if sources == nil {
				sources = []core.AgentSource{}
			}
			return printJSON(cmd.OutOrStdout(), sources)
		}

		out := cmd.OutOrStdout()
		if len(sources) == 0 {
			fmt.Fprintln(out, "No agents with a skills directory found.")
			return nil
		}
		for i, src := range sources {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "%s [%s] %s\n", src.Label, src.ID, src.Root)
			if len(src.Skills) == 0 {
				fmt.Fprintln(out, "  (no skills)")
				continue
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			for _, s := range src.Skills {
				origin := "local"
				if s.Syncable() {
					origin = s.SourceURL
				}
				fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", s.ID, s.Name, engine.FormatLastModified(s.LastModified), origin)
			}
			_ = w.Flush()
		}
		return nil
	},
}

// ---------------------------------------------------------------------------
// skills tree
// ---------------------------------------------------------------------------

var skillsTreeCmd = &cobra.Command{
	Use:   "tree <source> <skill>",
	Short: "Show the files of a skill",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		tree, err := d.runner.Tree(cmd.Context(), core.Key{SourceID: args[0], ID: args[1]})
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s/\n", tree.Name)
		writeTree(out, tree, "")
		return nil
	},
}

// ---------------------------------------------------------------------------
// skills install
// ---------------------------------------------------------------------------

var skillsInstallCmd = &cobra.Command{
	Use:   "install <source> <url>",
	Short: "Install a skill from a GitHub directory URL",
	Long: `Install a skill from a GitHub directory URL into an agent.

The first attempt is made without a token (environment tokens are still
used). If the repository turns out to be private, pass --token, or use
--prompt-token to be asked for one and retry once.

Examples:
  ananke skills install claude-user https://github.com/anthropics/skills/tree/main/skills/pdf
  ananke skills install cursor-user https://github.com/acme/private-skills/tree/main/review --prompt-token`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		req, err := engine.NewInstallRequest(args[0], args[1])
		if err != nil {
			return err
		}
		skill, err := runInstall(cmd, d, req)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Installed %s as %s into %s\n", skill.Name, skill.ID, skill.SourceID)
		return nil
	},
}

// ---------------------------------------------------------------------------
// skills sync-latest
// ---------------------------------------------------------------------------

var skillsSyncLatestCmd = &cobra.Command{
	Use:   "sync-latest <source> <skill>",
	Short: "Re-fetch a skill from the URL it was installed from",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		skill, err := d.store.SkillByID(args[0], args[1])
		if err != nil {
			return err
		}
		req, err := engine.NewSyncLatestRequest(skill)
		if err != nil {
			return err
		}
		updated, err := runInstall(cmd, d, req)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Synced %s from %s\n", updated.ID, req.URL)
		return nil
	},
}

// ---------------------------------------------------------------------------
// skills delete
// ---------------------------------------------------------------------------

var skillsDeleteCmd = &cobra.Command{
	Use:   "delete <source> <skill>",
	Short: "Delete a skill directory",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			ok, err := confirm(cmd, fmt.Sprintf("Delete skill %s from %s?", args[1], args[0]))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
		}
		res := d.runner.Delete(cmd.Context(), engine.KindSkills, core.Key{SourceID: args[0], ID: args[1]})
		if res.Err != nil {
			return res.Err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s from %s\n", args[1], args[0])
		return nil
	},
}

// ---------------------------------------------------------------------------
// skills sync
// ---------------------------------------------------------------------------

var skillsSyncCmd = &cobra.Command{
	Use:   "sync --from <source> --to <target>",
	Short: "Copy every skill the target agent is missing",
	Long: `Copy every skill directory from one agent into another.

Skills whose id already exists in the target are skipped, so running the
same sync twice adds nothing the second time.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBulkSync(cmd, engine.KindSkills)
	},
}

func init() {
	skillsListCmd.Flags().String("source", "", "Only list this skill source")
	skillsListCmd.Flags().Bool("json", false, "Output as JSON")
	addTokenFlags(skillsInstallCmd)
	addTokenFlags(skillsSyncLatestCmd)
	skillsDeleteCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	addSyncFlags(skillsSyncCmd)

	skillsCmd.AddCommand(skillsListCmd, skillsTreeCmd, skillsInstallCmd, skillsSyncLatestCmd, skillsDeleteCmd, skillsSyncCmd)
	rootCmd.AddCommand(skillsCmd)
}
