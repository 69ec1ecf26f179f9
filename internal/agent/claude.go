// Package agent invokes the external AI review agent as a subprocess.
package agent

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ReviewFileName is the fixed relative path the agent is instructed to
// write its review document to.
const ReviewFileName = "code-review.md"

// Invoker runs the claude CLI with a composed prompt on stdin. The agent's
// API key is consumed by the agent itself and is opaque to this tool.
type Invoker struct {
	// Command is the agent executable, "claude" unless overridden in tests.
	Command string
	// Args are the fixed output and permission flags passed on every run.
	Args []string
	// WorkDir is where the agent runs and where the review file appears.
	WorkDir string

	log *slog.Logger
}

// NewInvoker creates an invoker for the claude CLI. The trailing "-" makes
// the agent read its prompt from stdin, which sidesteps ARG_MAX limits on
// large diffs.
func NewInvoker(workDir string, log *slog.Logger) *Invoker {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Invoker{
		Command: "claude",
		Args: []string{
			"--print",
			"--output-format", "json",
			"--allowedTools", "Read,Write",
			"-",
		},
		WorkDir: workDir,
		log:     log,
	}
}

// IsAvailable checks that the agent CLI is installed.
func (i *Invoker) IsAvailable() error {
	if _, err := exec.LookPath(i.Command); err != nil {
		return fmt.Errorf("%s CLI not found in PATH: %w", i.Command, err)
	}
	return nil
}

// Run executes the agent with the prompt on stdin and waits for it to
// finish. Returns the agent's stdout (candidate telemetry JSON). A nonzero
// exit is an error carrying the captured stderr.
func (i *Invoker) Run(ctx context.Context, prompt string) ([]byte, error) {
	i.log.Debug("starting review agent", "command", i.Command, "args", strings.Join(i.Args, " "))

	out, err := runCommand(ctx, commandSpec{
		Command: i.Command,
		Args:    i.Args,
		Stdin:   strings.NewReader(prompt),
		WorkDir: i.WorkDir,
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ReviewFilePath returns the absolute path of the expected review file.
func (i *Invoker) ReviewFilePath() string {
	return filepath.Join(i.WorkDir, ReviewFileName)
}

// ReadReviewFile reads back the document the agent was expected to write.
// A missing or empty file means the agent run did not produce a review.
func (i *Invoker) ReadReviewFile() (string, error) {
	path := i.ReviewFilePath()
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("review file %s was not produced: %w", path, err)
	}
	content := strings.TrimSpace(string(data))
	if content == "" {
		return "", fmt.Errorf("review file %s is empty", path)
	}
	return string(data), nil
}

// RemoveReviewFile deletes the review file, for --cleanup. Non-fatal.
func (i *Invoker) RemoveReviewFile() {
	if err := os.Remove(i.ReviewFilePath()); err != nil && !os.IsNotExist(err) {
		i.log.Warn("failed to remove review file", "error", err)
	}
}
