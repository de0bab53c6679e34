package cli

import (
	"errors"

	"github.com/retaglabs/retag/internal/git"
	"github.com/retaglabs/retag/internal/plan"
)

// ExitCode maps an error from Execute to the process exit status.
// Failed external git commands keep their own exit status (a failed
// plan step, a failed fetch); everything else — usage errors,
// precondition failures, config problems — exits 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var stepErr *plan.StepError
	if errors.As(err, &stepErr) && stepErr.ExitCode != 0 {
		return stepErr.ExitCode
	}
	var cmdErr *git.CommandError
	if errors.As(err, &cmdErr) && cmdErr.ExitCode != 0 {
		return cmdErr.ExitCode
	}
	return 1
}
