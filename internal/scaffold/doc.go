// Package scaffold generates starter project files from templates.
// Currently that is the release.yaml a repository needs before
// `retag bump` can run without explicit sources.
package scaffold
