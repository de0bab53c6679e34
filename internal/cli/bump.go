package cli

import (
	"fmt"
	"os"

	"github.com/retaglabs/retag/internal/config"
	"github.com/retaglabs/retag/internal/release"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	bumpLevel     string
	bumpDryRun    bool
	bumpVerbose   bool
	bumpFetchTags bool
	bumpTag       bool
	bumpRoot      string
	bumpRemote    string
)

func init() {
	bumpCmd.Flags().StringVar(&bumpLevel, "level", "", "Version component to bump: major, minor, or patch")
	bumpCmd.Flags().BoolVar(&bumpDryRun, "dry-run", false, "Report the planned bumps without writing anything")
	bumpCmd.Flags().BoolVar(&bumpVerbose, "verbose", true, "Print the per-package bump report")
	bumpCmd.Flags().BoolVar(&bumpFetchTags, "fetch-tags", false, "Fetch remote tags before planning")
	bumpCmd.Flags().BoolVar(&bumpTag, "tag", false, "Create and push the new version tags")
	bumpCmd.Flags().StringVar(&bumpRoot, "root", "", "Base directory for report paths (default: current directory)")
	bumpCmd.Flags().StringVar(&bumpRemote, "remote", "", "Remote to push to (default: configured remote, then origin)")
	rootCmd.AddCommand(bumpCmd)
}

var bumpCmd = &cobra.Command{
	Use:   "bump [<source>...]",
	Short: "Bump pyproject.toml versions and tag the releases",
	Long: `Bump the [project] version in every pyproject.toml under the given
sources, commit and push the edits, and optionally create and push the
matching vX.Y.Z tags.

Sources are directories (searched recursively) or pyproject.toml files.
When no sources are given, they come from a release.yaml in the current
directory, which may also set defaults for --level, --tag, and
--fetch-tags. Versions are strict X.Y.Z triples; bumping a level zeroes
everything below it.

Each repository must be clean before anything is written. Edits are
staged to temporary files first, so either every manifest is replaced
or none is.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := resolveBumpOptions(cmd.Flags(), args)
		if err != nil {
			return err
		}

		bumper := &release.Bumper{Out: cmd.OutOrStdout()}
		results, err := bumper.Plan(cmd.Context(), opts)
		if err != nil {
			return err
		}

		if opts.Verbose || opts.DryRun {
			bumper.Report(results, opts)
		}
		if opts.DryRun {
			fmt.Fprintln(cmd.OutOrStdout(), "Dry run: nothing written.")
			return nil
		}

		if err := bumper.Apply(cmd.Context(), results, opts); err != nil {
			return err
		}
		if opts.CreateTags {
			if err := bumper.WriteTags(cmd.Context(), results, opts); err != nil {
				return err
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Bumped %d package(s)\n", len(results))
		return nil
	},
}

// resolveBumpOptions merges flags, the optional release.yaml, and user
// config defaults into the final options. Precedence: explicit flag,
// then release.yaml (when it supplies the sources), then user config.
func resolveBumpOptions(flags *pflag.FlagSet, args []string) (release.Options, error) {
	config.Load()
	opts := release.Options{
		Sources:    args,
		Level:      release.Level(bumpLevel),
		Root:       bumpRoot,
		Remote:     bumpRemote,
		FetchTags:  bumpFetchTags,
		CreateTags: bumpTag,
		DryRun:     bumpDryRun,
		Verbose:    bumpVerbose,
	}

	if len(opts.Sources) == 0 {
		cfg, err := loadReleaseConfig()
		if err != nil {
			return opts, err
		}
		opts.Sources = cfg.Sources
		if !flags.Changed("level") && cfg.Bump.Level != "" {
			opts.Level = release.Level(cfg.Bump.Level)
		}
		if !flags.Changed("tag") {
			opts.CreateTags = cfg.Bump.Tag
		}
		if !flags.Changed("fetch-tags") {
			opts.FetchTags = cfg.Bump.Fetch
		}
		if !flags.Changed("remote") && cfg.Remote != "" {
			opts.Remote = cfg.Remote
		}
	}

	if opts.Level == "" {
		opts.Level = release.Level(config.BumpLevel())
	}
	level, err := release.ParseLevel(string(opts.Level))
	if err != nil {
		return opts, err
	}
	opts.Level = level

	if opts.Remote == "" {
		opts.Remote = config.Remote()
	}
	return opts, nil
}

func loadReleaseConfig() (*release.Config, error) {
	if _, err := os.Stat(release.DefaultConfigName); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no sources given and no %s in the current directory", release.DefaultConfigName)
		}
		return nil, fmt.Errorf("reading %s: %w", release.DefaultConfigName, err)
	}
	return release.LoadConfig(release.DefaultConfigName)
}
