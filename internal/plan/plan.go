// Package plan executes an ordered sequence of external git commands.
//
// A plan is fail-fast: steps run strictly in declared order and
// execution stops at the first step whose command exits non-zero.
// Effects of earlier steps persist; nothing is rolled back. Before each
// step runs, its fully-resolved command is echoed to the operator so a
// partial failure can be diagnosed and resumed by hand.
package plan

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/retaglabs/retag/internal/git"
)

// Executor runs one git command and reports its exit status.
// *git.Client satisfies it; tests substitute a fake.
type Executor interface {
	Run(ctx context.Context, args ...string) (*git.Result, error)
}

// Step is one externally executed git command in a plan.
type Step struct {
	// Desc is a short human-readable description of the step.
	Desc string
	// Args is the fully-resolved git argument vector, e.g. ["tag", "-d", "v1.0.0"].
	Args []string
}

// Command returns the command text as the operator would type it.
func (s Step) Command() string {
	return "git " + strings.Join(s.Args, " ")
}

// StepError reports a step whose external command exited non-zero.
// The exit status is the command's own, preserved for propagation as
// the process exit code.
type StepError struct {
	Index    int    // zero-based position in the plan
	Total    int    // number of steps in the plan
	Desc     string // the step's description
	Command  string // fully-resolved command text
	ExitCode int    // the external command's own exit status
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d/%d (%s): %s exited with status %d",
		e.Index+1, e.Total, e.Desc, e.Command, e.ExitCode)
}

// Run executes steps in order via exec. Each step's command is echoed
// to out before it runs. The first non-zero exit stops the plan and is
// returned as a *StepError; earlier steps' effects are left in place.
func Run(ctx context.Context, exec Executor, out io.Writer, steps []Step) error {
	for i, step := range steps {
		fmt.Fprintf(out, "(%d/%d) %s\n", i+1, len(steps), step.Desc)
		fmt.Fprintf(out, "    $ %s\n", step.Command())

		result, err := exec.Run(ctx, step.Args...)
		if err != nil {
			return fmt.Errorf("running step %d/%d (%s): %w", i+1, len(steps), step.Desc, err)
		}
		if result.ExitCode != 0 {
			return &StepError{
				Index:    i,
				Total:    len(steps),
				Desc:     step.Desc,
				Command:  step.Command(),
				ExitCode: result.ExitCode,
			}
		}
	}
	return nil
}
