package cli

import (
	"os"

	"github.com/retaglabs/retag/internal/branding"
	"github.com/retaglabs/retag/internal/config"
	"github.com/retaglabs/retag/internal/updater"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` renames git tags safely (locally and on the remote, with
preconditions checked before anything changes) and bumps package versions
across one or more repositories, tagging the results.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Skip the banner for commands that report on versions themselves.
		name := cmd.Name()
		if name == "update" || name == "self-update" || name == "version" {
			return
		}

		config.Load()
		if !config.UpdateCheckEnabled() {
			return
		}

		// Non-blocking banner from cached version check.
		u := updater.New(buildVersion)
		u.CheckAndPrintBanner(os.Stderr, config.Dir())
	},
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	return rootCmd.Execute()
}
