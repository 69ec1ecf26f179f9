package agent

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"syscall"
)

// commandSpec configures a single agent CLI invocation.
type commandSpec struct {
	Command string
	Args    []string
	Stdin   io.Reader
	WorkDir string
}

// runCommand runs a CLI command to completion, capturing stdout and
// stderr. The command gets its own process group so that cancellation
// kills the whole tree, not just the direct child.
func runCommand(ctx context.Context, spec commandSpec) ([]byte, error) {
	// #nosec G204 - Command is a known agent CLI from trusted code, not user input.
	cmd := exec.CommandContext(ctx, spec.Command, spec.Args...)

	if spec.Stdin != nil {
		cmd.Stdin = spec.Stdin
	}
	if spec.WorkDir != "" {
		cmd.Dir = spec.WorkDir
	}

	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			msg := strings.TrimSpace(stderr.String())
			if msg != "" {
				return nil, fmt.Errorf("%s exited with code %d: %s", spec.Command, exitErr.ExitCode(), msg)
			}
			return nil, fmt.Errorf("%s exited with code %d", spec.Command, exitErr.ExitCode())
		}
		return nil, fmt.Errorf("failed to run %s: %w", spec.Command, err)
	}

	return stdout.Bytes(), nil
}
