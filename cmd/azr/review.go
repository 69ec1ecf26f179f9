package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/calebmoore/azdo-review/internal/agent"
	"github.com/calebmoore/azdo-review/internal/diff"
	"github.com/calebmoore/azdo-review/internal/domain"
	"github.com/calebmoore/azdo-review/internal/git"
	"github.com/calebmoore/azdo-review/internal/terminal"
)

// executeReview runs the full pipeline: diff, agent, echo, post.
func executeReview(ctx context.Context, opts ReviewOpts, ui *terminal.Logger, log *slog.Logger) domain.ExitCode {
	if !git.IsRepo(opts.Dir) {
		ui.Logf(terminal.StyleError, "%s is not a git repository", opts.Dir)
		return domain.ExitError
	}

	if !git.VerifyRef(ctx, opts.Dir, opts.Base) {
		ui.Logf(terminal.StyleError, "Compare branch %q does not exist", opts.Base)
		return domain.ExitError
	}

	invoker := agent.NewInvoker(opts.Dir, log)

	if !opts.Reuse {
		reviewed, code := runAgent(ctx, opts, invoker, ui, log)
		if code != domain.ExitOK {
			return code
		}
		if !reviewed {
			// Empty diff: nothing ran, nothing to echo or post.
			return domain.ExitOK
		}
	}

	review, err := invoker.ReadReviewFile()
	if err != nil {
		ui.Logf(terminal.StyleError, "%v", err)
		return domain.ExitError
	}

	// The review is always echoed, whatever happens to posting.
	fmt.Println(review)

	code := maybePost(ctx, opts, review, ui, log)

	if opts.Cleanup {
		invoker.RemoveReviewFile()
	}
	return code
}

// runAgent computes the sanitized diff and drives the review agent.
// Returns reviewed=false when the diff was empty and nothing was spawned.
func runAgent(ctx context.Context, opts ReviewOpts, invoker *agent.Invoker, ui *terminal.Logger, log *slog.Logger) (reviewed bool, code domain.ExitCode) {
	var diffText string
	err := terminal.WithSpinner(ctx, fmt.Sprintf("Diffing against %s", opts.Base), func() error {
		raw, err := git.Diff(ctx, opts.Dir, opts.Base)
		if err != nil {
			return err
		}
		diffText = diff.Sanitize(raw)
		return nil
	})
	if err != nil {
		ui.Logf(terminal.StyleError, "Failed to compute diff: %v", err)
		return false, domain.ExitError
	}

	if diffText == "" {
		ui.Logf(terminal.StyleSuccess, "No changes between %s and HEAD. Nothing to review.", opts.Base)
		return false, domain.ExitOK
	}
	log.Debug("diff computed", "bytes", len(diffText))

	prompt, err := loadPrompt(opts)
	if err != nil {
		ui.Logf(terminal.StyleError, "%v", err)
		return false, domain.ExitError
	}

	var fullPrompt string
	var tempDiffPath string
	if len(diffText) > agent.RefFileSizeThreshold {
		tempDiffPath, err = agent.WriteDiffToTempFile(opts.Dir, diffText)
		if err != nil {
			ui.Logf(terminal.StyleError, "%v", err)
			return false, domain.ExitError
		}
		defer agent.CleanupTempFile(tempDiffPath)
		fullPrompt = agent.BuildPromptWithRefFile(prompt, tempDiffPath)
		log.Debug("ref-file mode", "path", tempDiffPath)
	} else {
		fullPrompt = agent.BuildPrompt(prompt, diffText)
	}

	if err := invoker.IsAvailable(); err != nil {
		ui.Logf(terminal.StyleError, "%v", err)
		return false, domain.ExitError
	}

	var stdout []byte
	err = terminal.WithSpinner(ctx, "Running review agent", func() error {
		var runErr error
		stdout, runErr = invoker.Run(ctx, fullPrompt)
		return runErr
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return false, domain.ExitInterrupted
		}
		ui.Logf(terminal.StyleError, "Review agent failed: %v", err)
		return false, domain.ExitError
	}

	// Telemetry is best-effort: garbage on stdout only means no stats.
	if tel, err := agent.ParseTelemetry(stdout); err == nil {
		ui.Logf(terminal.StyleDim, "Agent stats: %s", tel)
	} else {
		log.Debug("no agent telemetry", "error", err)
	}

	return true, domain.ExitOK
}

// loadPrompt returns the custom prompt file content, or the default prompt.
func loadPrompt(opts ReviewOpts) (string, error) {
	if opts.PromptFile == "" {
		return agent.DefaultPrompt, nil
	}
	data, err := os.ReadFile(opts.PromptFile)
	if err != nil {
		return "", fmt.Errorf("prompt file %s: %w", opts.PromptFile, err)
	}
	return string(data), nil
}
