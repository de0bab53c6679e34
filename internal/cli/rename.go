package cli

import (
	"fmt"

	"github.com/retaglabs/retag/internal/config"
	"github.com/retaglabs/retag/internal/git"
	"github.com/retaglabs/retag/internal/tag"
	"github.com/spf13/cobra"
)

var renameRemote string

func init() {
	renameCmd.Flags().StringVar(&renameRemote, "remote", "", "Remote to update (default: configured remote, then origin)")
	rootCmd.AddCommand(renameCmd)
}

var renameCmd = &cobra.Command{
	Use:   "rename <old_tag> <new_tag>",
	Short: "Rename a git tag locally and on the remote",
	Long: `Rename a git tag, both locally and on the remote.

Before anything changes, the old tag must exist locally and the new tag
must not. The rename then runs as four git commands, each echoed before
it executes:

  1. git tag <new> <old>            create the new tag at the old target
  2. git tag -d <old>               delete the old tag locally
  3. git push <remote> <new>        publish the new tag
  4. git push --delete <remote> <old>  remove the old tag from the remote

Execution stops at the first failing command and nothing is rolled
back: the echoed commands show exactly where to resume by hand. The
process exits with the failed git command's own status.`,
	// Usage is silenced globally, so the argument error carries the
	// usage line itself.
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 2 {
			return fmt.Errorf("accepts 2 args, received %d\nUsage: %s", len(args), cmd.UseLine())
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		remote := renameRemote
		if remote == "" {
			remote = config.Remote()
		}

		client := git.NewClient("")
		client.Runner = &git.ExecRunner{
			Stdout: cmd.OutOrStdout(),
			Stderr: cmd.ErrOrStderr(),
		}

		opts := tag.Options{Old: args[0], New: args[1], Remote: remote}
		if err := tag.Rename(cmd.Context(), client, cmd.OutOrStdout(), opts); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Renamed tag %s to %s, locally and on %s\n", opts.Old, opts.New, remote)
		return nil
	},
}
