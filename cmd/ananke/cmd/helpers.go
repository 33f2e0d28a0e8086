package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/barysiuk/ananke/internal/core"
	"github.com/barysiuk/ananke/internal/engine"
)

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readLine reads one line from the command's stdin.
func readLine(cmd *cobra.Command) (string, error) {
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// tokenPrompt asks for a GitHub token on stderr after an auth failure. On a
// terminal the input is not echoed.
func tokenPrompt(cmd *cobra.Command) engine.TokenPrompt {
	return func(_ context.Context, cause error) (string, error) {
		errOut := cmd.ErrOrStderr()
		fmt.Fprintf(errOut, "%v\n", cause)
		for _, hint := range engine.AuthHints(cause) {
			fmt.Fprintf(errOut, "  - %s\n", hint)
		}
		fmt.Fprint(errOut, "GitHub token (empty to cancel): ")

		if f, ok := cmd.InOrStdin().(*os.File); ok && isatty.IsTerminal(f.Fd()) {
			b, err := term.ReadPassword(int(f.Fd()))
			fmt.Fprintln(errOut)
			if err != nil {
				return "", fmt.Errorf("reading token: %w", err)
			}
			return strings.TrimSpace(string(b)), nil
		}
		tok, err := readLine(cmd)
		fmt.Fprintln(errOut)
		return tok, err
	}
}

// confirm asks a yes/no question, defaulting to no.
func confirm(cmd *cobra.Command, question string) (bool, error) {
	fmt.Fprintf(cmd.ErrOrStderr(), "%s [y/N]: ", question)
	answer, err := readLine(cmd)
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}

// authError decorates an auth failure the CLI could not retry.
func authError(err error) error {
	var b strings.Builder
	b.WriteString(err.Error())
	for _, hint := range engine.AuthHints(err) {
		b.WriteString("\n  - ")
		b.WriteString(hint)
	}
	b.WriteString("\n  - Rerun with --token or --prompt-token")
	return fmt.Errorf("%s", b.String())
}

// runInstall drives an install or sync-latest from the command line.
func runInstall(cmd *cobra.Command, d *deps, req engine.InstallRequest) (core.Skill, error) {
	token, _ := cmd.Flags().GetString("token")
	promptToken, _ := cmd.Flags().GetBool("prompt-token")

	var prompt engine.TokenPrompt
	if promptToken {
		prompt = tokenPrompt(cmd)
	}

	var flow engine.InstallFlow
	res, err := d.runner.RunInstall(cmd.Context(), &flow, req, token, prompt)
	if err != nil {
		if flow.State() == engine.InstallAwaitingToken {
			return core.Skill{}, authError(err)
		}
		return core.Skill{}, err
	}
	return res.Skill, nil
}

// runBulkSync copies every missing artifact of kind between two agents.
func runBulkSync(cmd *cobra.Command, kind engine.Kind) error {
	d, err := newDeps(cmd)
	if err != nil {
		return err
	}
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")

	rl := d.runner.Reload(cmd.Context(), kind)
	if rl.Err != nil {
		return rl.Err
	}
	snap := rl.Apply(engine.Snapshot{})

	flow := engine.NewBulkFlow(kind)
	if err := flow.Open(snap.SourceCount(kind)); err != nil {
		return err
	}
	req, err := flow.Begin(from, to)
	if err != nil {
		return err
	}
	out := d.runner.SyncCollection(cmd.Context(), req)
	if flow.Resolve(out.Result, out.Err) != engine.BulkDone {
		return out.Err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Synced %s from %s to %s: added %d, skipped %d\n",
		kind, req.SourceID, req.TargetID, out.Result.Added, out.Result.Skipped)
	return nil
}

// addSyncFlags adds the required --from and --to flags.
func addSyncFlags(cmd *cobra.Command) {
	cmd.Flags().String("from", "", "Agent source to copy from")
	cmd.Flags().String("to", "", "Agent source to copy into")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
}

// addTokenFlags adds --token and --prompt-token.
func addTokenFlags(cmd *cobra.Command) {
	cmd.Flags().String("token", "", "GitHub token for private repositories (default: $SKILL_GITHUB_TOKEN, $GITHUB_TOKEN, $GH_TOKEN)")
	cmd.Flags().Bool("prompt-token", false, "Ask for a token on stdin when the repository turns out to be private")
}

// writeTree renders a skill tree with box-drawing connectors.
func writeTree(w io.Writer, node core.TreeNode, prefix string) {
	for i, child := range node.Children {
		last := i == len(node.Children)-1
		connector, indent := "├── ", "│   "
		if last {
			connector, indent = "└── ", "    "
		}
		name := child.Name
		switch child.Kind {
		case core.TreeDir:
			name += "/"
		case core.TreeLink:
			name += "@"
		}
		fmt.Fprintf(w, "%s%s%s\n", prefix, connector, name)
		if child.Kind == core.TreeDir {
			writeTree(w, child, prefix+indent)
		}
	}
}

// describeServer summarizes what an MCP server runs or connects to.
func describeServer(srv core.McpServer) (kind, target string) {
	if url := srv.URL(); url != "" {
		return "remote", url
	}
	parts := append([]string{srv.Command()}, srv.Args()...)
	return "stdio", strings.TrimSpace(strings.Join(parts, " "))
}
