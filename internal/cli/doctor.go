package cli

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/retaglabs/retag/internal/config"
	"github.com/retaglabs/retag/internal/git"
	"github.com/retaglabs/retag/internal/release"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Health check for the environment",
	Long: `Run diagnostic checks: git availability, the current repository and
its remote, work tree cleanliness, and the configuration files.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		client := git.NewClient("")
		failures := 0

		// Git binary.
		gitPath, err := exec.LookPath("git")
		if err != nil {
			fmt.Fprintln(out, "[FAIL] git not found in PATH")
			failures++
		} else {
			version := ""
			if result, err := client.Run(ctx, "--version"); err == nil && result.ExitCode == 0 {
				version = strings.TrimSpace(result.Stdout)
			}
			fmt.Fprintf(out, "[ OK ] %s at %s\n", orElse(version, "git"), gitPath)
		}

		// Repository and remote.
		if gitPath != "" && client.IsRepo(ctx) {
			fmt.Fprintln(out, "[ OK ] Inside a git work tree")

			config.Load()
			remote := config.Remote()
			if url, err := client.RemoteURL(ctx, remote); err != nil {
				fmt.Fprintf(out, "[FAIL] Remote %q not configured: %v\n", remote, err)
				failures++
			} else {
				fmt.Fprintf(out, "[ OK ] Remote %q -> %s\n", remote, url)
			}

			clean, err := client.IsClean(ctx)
			switch {
			case err != nil:
				fmt.Fprintf(out, "[WARN] Cannot check work tree: %v\n", err)
			case clean:
				fmt.Fprintln(out, "[ OK ] Work tree clean")
			default:
				fmt.Fprintln(out, "[WARN] Work tree has uncommitted or untracked changes")
			}
		} else if gitPath != "" {
			fmt.Fprintln(out, "[WARN] Not inside a git work tree")
		}

		// User config.
		exists, err := config.CheckFile()
		switch {
		case err != nil:
			fmt.Fprintf(out, "[FAIL] User config: %v\n", err)
			failures++
		case exists:
			fmt.Fprintf(out, "[ OK ] User config at %s\n", config.FilePath())
		default:
			fmt.Fprintln(out, "[ OK ] No user config file (defaults in use)")
		}

		// Project release config, when present.
		if _, err := os.Stat(release.DefaultConfigName); err == nil {
			if _, err := release.LoadConfig(release.DefaultConfigName); err != nil {
				fmt.Fprintf(out, "[FAIL] %v\n", err)
				failures++
			} else {
				fmt.Fprintf(out, "[ OK ] %s is valid\n", release.DefaultConfigName)
			}
		}

		if failures > 0 {
			return fmt.Errorf("%d check(s) failed", failures)
		}
		return nil
	},
}

func orElse(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
