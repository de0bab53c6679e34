// Package updater checks GitHub Releases for newer retag versions.
// A daily-cached version check powers the startup banner; the update
// command reports what is available and where to get it. The running
// binary is never replaced in place.
package updater
