package cli

import (
	"fmt"
	"sort"

	"github.com/retaglabs/retag/internal/config"
	"github.com/retaglabs/retag/internal/git"
	"github.com/retaglabs/retag/internal/release"
	"github.com/spf13/cobra"
)

var (
	tagsSort        string
	tagsListRemote  string
	tagsListFetch   bool
	tagsFetchRemote string
)

func init() {
	tagsListCmd.Flags().StringVar(&tagsSort, "sort", "semver", "Tag order: semver or name")
	tagsListCmd.Flags().StringVar(&tagsListRemote, "remote", "", "Remote fetched from with --fetch (default: configured remote, then origin)")
	tagsListCmd.Flags().BoolVar(&tagsListFetch, "fetch", false, "Fetch remote tags first and mark the new arrivals")
	tagsFetchCmd.Flags().StringVar(&tagsFetchRemote, "remote", "", "Remote to fetch from (default: configured remote, then origin)")
	tagsCmd.AddCommand(tagsListCmd)
	tagsCmd.AddCommand(tagsFetchCmd)
	rootCmd.AddCommand(tagsCmd)
}

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Inspect the repository's tags",
}

var tagsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List local tags with their target commits",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if tagsSort != "semver" && tagsSort != "name" {
			return fmt.Errorf("invalid sort order %q: must be semver or name", tagsSort)
		}

		ctx := cmd.Context()
		client := git.NewClient("")

		fetched := map[string]bool{}
		if tagsListFetch {
			fresh, err := fetchNewTags(cmd, client, tagsListRemote)
			if err != nil {
				return err
			}
			for _, name := range fresh {
				fetched[name] = true
			}
		}

		tags, err := client.ListTags(ctx)
		if err != nil {
			return err
		}
		if len(tags) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No local tags.")
			return nil
		}

		switch tagsSort {
		case "semver":
			tags = release.SortVersionTags(tags)
		case "name":
			sort.Strings(tags)
		}

		for _, name := range tags {
			target, err := client.TagTarget(ctx, name)
			if err != nil {
				return fmt.Errorf("resolving tag %q: %w", name, err)
			}
			if len(target) > 12 {
				target = target[:12]
			}
			line := fmt.Sprintf("%-30s %s", name, target)
			if fetched[name] {
				line += "  (new)"
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
		return nil
	},
}

var tagsFetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch remote tags and report the new arrivals",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := git.NewClient("")
		fresh, err := fetchNewTags(cmd, client, tagsFetchRemote)
		if err != nil {
			return err
		}
		if len(fresh) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No new tags.")
			return nil
		}
		for _, name := range fresh {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

// fetchNewTags fetches tags from the remote and returns the names that
// were not present locally before the fetch, sorted.
func fetchNewTags(cmd *cobra.Command, client *git.Client, remote string) ([]string, error) {
	if remote == "" {
		config.Load()
		remote = config.Remote()
	}
	ctx := cmd.Context()

	before, err := client.ListTags(ctx)
	if err != nil {
		return nil, err
	}
	if err := client.FetchTags(ctx, remote); err != nil {
		return nil, fmt.Errorf("fetching tags from %s: %w", remote, err)
	}
	after, err := client.ListTags(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(before))
	for _, name := range before {
		seen[name] = true
	}
	var fresh []string
	for _, name := range after {
		if !seen[name] {
			fresh = append(fresh, name)
		}
	}
	sort.Strings(fresh)
	return fresh, nil
}
