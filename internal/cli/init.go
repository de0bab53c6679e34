package cli

import (
	"fmt"

	"github.com/retaglabs/retag/internal/branding"
	"github.com/retaglabs/retag/internal/config"
	"github.com/retaglabs/retag/internal/scaffold"
	"github.com/spf13/cobra"
)

var (
	initSource string
	initLevel  string
	initRemote string
)

func init() {
	initCmd.Flags().StringVar(&initSource, "source", ".", "First source directory listed in the config")
	initCmd.Flags().StringVar(&initLevel, "level", "", "Default bump level written to the config (default: configured level, then patch)")
	initCmd.Flags().StringVar(&initRemote, "remote", "", "Remote written to the config (default: configured remote, then origin)")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter release.yaml",
	Long: `Write a starter release.yaml into the current directory. The file
lists the sources searched for pyproject.toml manifests and the
defaults used by ` + branding.CLIName() + ` bump. An existing file is never overwritten.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		data := scaffold.ReleaseData{
			Source: initSource,
			Level:  initLevel,
			Remote: initRemote,
		}
		if data.Level == "" {
			data.Level = config.BumpLevel()
		}
		if data.Remote == "" {
			data.Remote = config.Remote()
		}

		path, err := scaffold.WriteReleaseConfig(".", data)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
		fmt.Fprintf(cmd.OutOrStdout(), "Edit the sources list, then run `%s bump` to cut a release.\n", branding.CLIName())
		return nil
	},
}
