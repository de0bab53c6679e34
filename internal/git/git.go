// Package git runs git commands for tag and release operations.
//
// The package treats git as an opaque command executor: success or
// failure is judged by exit status alone, never by parsing mutation
// output. Query helpers (ListTags, Status) read captured stdout but
// make no decisions based on the text of error output.
package git

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// DefaultRemote is the conventional name of the primary remote.
const DefaultRemote = "origin"

// Result captures a finished git invocation.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner executes a single git command in dir.
//
// A non-zero exit from git is not an error; it is reported through
// Result.ExitCode. The error return covers failures to run git at all
// (binary missing, context cancelled before start).
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (*Result, error)
}

// ExecRunner invokes the real git binary.
type ExecRunner struct {
	// Stdout and Stderr, when set, receive the command's output as it
	// runs. Output is always captured in the Result regardless.
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes `git <args...>` in dir (empty dir means the current
// directory) and waits for it to terminate.
func (r *ExecRunner) Run(ctx context.Context, dir string, args ...string) (*Result, error) {
	gitBin, err := exec.LookPath("git")
	if err != nil {
		return nil, fmt.Errorf("git is required but not found in PATH")
	}

	cmd := exec.CommandContext(ctx, gitBin, args...)
	cmd.Dir = dir

	var stdoutBuf, stderrBuf bytes.Buffer
	if r.Stdout != nil {
		cmd.Stdout = io.MultiWriter(r.Stdout, &stdoutBuf)
	} else {
		cmd.Stdout = &stdoutBuf
	}
	if r.Stderr != nil {
		cmd.Stderr = io.MultiWriter(r.Stderr, &stderrBuf)
	} else {
		cmd.Stderr = &stderrBuf
	}

	err = cmd.Run()

	result := &Result{
		Stdout: stdoutBuf.String(),
		Stderr: stderrBuf.String(),
	}

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, fmt.Errorf("executing git %s: %w", strings.Join(args, " "), err)
	}

	result.ExitCode = 0
	return result, nil
}

// CommandError reports a git command that exited with a non-zero status.
type CommandError struct {
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("git %s: exit status %d", strings.Join(e.Args, " "), e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += "\n" + s
	}
	return msg
}
