package release

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Level selects which component of an X.Y.Z version to bump.
type Level string

const (
	Major Level = "major"
	Minor Level = "minor"
	Patch Level = "patch"
)

// ParseLevel validates a bump level string.
func ParseLevel(s string) (Level, error) {
	switch Level(s) {
	case Major, Minor, Patch:
		return Level(s), nil
	}
	return "", fmt.Errorf("invalid bump level %q: must be one of major, minor, patch", s)
}

// parseStrict parses an X.Y.Z version. Prerelease and build metadata
// suffixes are rejected: release versions are plain integer triples.
func parseStrict(version string) (*semver.Version, error) {
	v, err := semver.StrictNewVersion(version)
	if err != nil || v.Prerelease() != "" || v.Metadata() != "" {
		return nil, fmt.Errorf("invalid version format %q: expected X.Y.Z where X, Y, Z are integers", version)
	}
	return v, nil
}

// Bump returns version with the given level incremented and all lower
// levels reset to zero: 1.2.3 bumped at minor is 1.3.0.
func Bump(version string, level Level) (string, error) {
	v, err := parseStrict(version)
	if err != nil {
		return "", err
	}
	var next semver.Version
	switch level {
	case Major:
		next = v.IncMajor()
	case Minor:
		next = v.IncMinor()
	case Patch:
		next = v.IncPatch()
	default:
		return "", fmt.Errorf("invalid bump level %q: must be one of major, minor, patch", level)
	}
	return next.String(), nil
}

// TagToVersion converts a version tag like v1.2.3 to the version 1.2.3.
func TagToVersion(tag string) (string, error) {
	rest, ok := strings.CutPrefix(tag, "v")
	if !ok {
		return "", fmt.Errorf("invalid tag format %q: expected vX.Y.Z where X, Y, Z are integers", tag)
	}
	v, err := parseStrict(rest)
	if err != nil {
		return "", fmt.Errorf("invalid tag format %q: expected vX.Y.Z where X, Y, Z are integers", tag)
	}
	return v.String(), nil
}

// VersionTag converts a version like 1.2.3 to its tag name v1.2.3.
func VersionTag(version string) string {
	return "v" + version
}

// SortVersionTags returns tags ordered by semantic version, oldest
// first. Tags that do not parse as versions sort after the versioned
// ones, alphabetically.
func SortVersionTags(tags []string) []string {
	type versioned struct {
		name string
		v    *semver.Version
	}
	var parsed []versioned
	var plain []string
	for _, t := range tags {
		if v, err := semver.NewVersion(t); err == nil {
			parsed = append(parsed, versioned{name: t, v: v})
		} else {
			plain = append(plain, t)
		}
	}
	sort.Slice(parsed, func(i, j int) bool {
		if parsed[i].v.Equal(parsed[j].v) {
			return parsed[i].name < parsed[j].name
		}
		return parsed[i].v.LessThan(parsed[j].v)
	})
	sort.Strings(plain)

	out := make([]string, 0, len(tags))
	for _, p := range parsed {
		out = append(out, p.name)
	}
	return append(out, plain...)
}
