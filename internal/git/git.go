// Package git wraps the local git executable for branch, remote, and diff
// queries.
package git

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// IsRepo reports whether dir is inside a git working tree.
func IsRepo(dir string) bool {
	cmd := exec.Command("git", "rev-parse", "--git-dir")
	cmd.Dir = dir
	return cmd.Run() == nil
}

// CurrentBranch returns the short name of the checked-out branch.
func CurrentBranch(ctx context.Context, dir string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--abbrev-ref", "HEAD")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to read current branch: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// RemoteURL returns the URL of the origin remote.
func RemoteURL(ctx context.Context, dir string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "remote", "get-url", "origin")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to read origin remote URL: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// VerifyRef reports whether ref resolves in the repository.
func VerifyRef(ctx context.Context, dir, ref string) bool {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--verify", ref)
	cmd.Dir = dir
	return cmd.Run() == nil
}

// Diff returns the three-dot diff between base and HEAD. Output may be
// multiple megabytes; it is captured whole, never truncated.
func Diff(ctx context.Context, dir, base string) (string, error) {
	// #nosec G204 - base is a branch name validated by VerifyRef upstream.
	cmd := exec.CommandContext(ctx, "git", "diff", base+"...HEAD")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			msg := strings.TrimSpace(string(exitErr.Stderr))
			if msg != "" {
				return "", fmt.Errorf("git diff failed: %s", msg)
			}
		}
		return "", fmt.Errorf("git diff failed: %w", err)
	}
	return string(out), nil
}
