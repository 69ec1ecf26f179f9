// Package domain provides core types for the Azure DevOps reviewer.
package domain

// ExitCode represents the exit status of the reviewer.
type ExitCode int

const (
	// ExitOK indicates the run completed, including the "no changes to
	// review" and "no PR detected" early-exit cases.
	ExitOK ExitCode = 0
	// ExitError indicates the run failed: not a git repository, missing
	// base branch, agent failure, or a missing/empty review file.
	ExitError ExitCode = 1
	// ExitInterrupted indicates the run was interrupted by a signal.
	ExitInterrupted ExitCode = 130
)

// Int returns the exit code as an int for use with os.Exit.
func (e ExitCode) Int() int {
	return int(e)
}
