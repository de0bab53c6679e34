package cli

import (
	"fmt"
	"time"

	"github.com/retaglabs/retag/internal/branding"
	"github.com/retaglabs/retag/internal/config"
	"github.com/retaglabs/retag/internal/updater"
	"github.com/spf13/cobra"
)

var (
	updateCheck   bool
	updateVersion string
)

func init() {
	updateCmd.Flags().BoolVar(&updateCheck, "check", false, "Only report whether an update is available")
	updateCmd.Flags().StringVar(&updateVersion, "version", "", "Look up a specific version (e.g., 1.2.0)")
	rootCmd.AddCommand(updateCmd)
}

var updateCmd = &cobra.Command{
	Use:     "update",
	Aliases: []string{"self-update"},
	Short:   "Check GitHub releases for a newer version",
	Long: `Check GitHub releases for a newer ` + branding.CLIName() + ` and report where to get it.
The running binary is never replaced in place: install the reported
version through your usual channel (go install, or the release page).

  ` + branding.CLIName() + ` update                  # report the latest release
  ` + branding.CLIName() + ` update --check          # availability only
  ` + branding.CLIName() + ` update --version 1.2.0  # look up a specific release`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		u := updater.New(buildVersion)

		var release *updater.Release
		var err error
		if updateVersion != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Checking for version %s...\n", updateVersion)
			release, err = u.CheckSpecificVersion(updateVersion)
		} else {
			fmt.Fprintln(cmd.ErrOrStderr(), "Checking for updates...")
			release, err = u.CheckLatestVersion()
		}
		if err != nil {
			return fmt.Errorf("checking for updates: %w", err)
		}

		available, err := updater.IsUpdateAvailable(buildVersion, release.Version)
		if err != nil {
			// Dev builds have no comparable version; treat any release as news.
			if buildVersion == "dev" {
				available = true
			} else {
				return fmt.Errorf("comparing versions: %w", err)
			}
		}

		// Remember the answer so the startup banner stays current.
		config.Load()
		cache := &updater.VersionCache{
			LatestVersion:   release.Version,
			CurrentVersion:  buildVersion,
			CheckedAt:       time.Now(),
			UpdateAvailable: available,
		}
		_ = updater.SaveCache(config.Dir(), cache)

		if !available {
			fmt.Fprintf(out, "You are on the latest version (%s)\n", buildVersion)
			return nil
		}
		if updateCheck {
			fmt.Fprintf(out, "Update available: %s -> %s\n", buildVersion, release.Version)
			return nil
		}

		fmt.Fprintf(out, "Update available: %s -> %s\n", buildVersion, release.Version)
		fmt.Fprintf(out, "  Release notes: %s\n", release.HTMLURL)
		fmt.Fprintf(out, "  Install with: go install %s@%s\n", branding.GoModule(), release.Version)
		fmt.Fprintf(out, "  Or download from https://github.com/%s/releases\n", branding.GitHubRepo())
		return nil
	},
}
