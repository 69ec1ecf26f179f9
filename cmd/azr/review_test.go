package main

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/calebmoore/azdo-review/internal/agent"
	"github.com/calebmoore/azdo-review/internal/config"
	"github.com/calebmoore/azdo-review/internal/domain"
	"github.com/calebmoore/azdo-review/internal/logging"
	"github.com/calebmoore/azdo-review/internal/terminal"
)

// initRepoWithBranches creates a repository where HEAD is a feature branch
// with no changes relative to main.
func initRepoWithBranches(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	dir := t.TempDir()
	runGit := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
			"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com",
		)
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, out)
		}
	}

	runGit("init", "-q", "-b", "main")
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("hello\n"), 0600); err != nil {
		t.Fatal(err)
	}
	runGit("add", "README.md")
	runGit("commit", "-q", "-m", "initial")
	runGit("checkout", "-q", "-b", "feature/64805-test")
	return dir
}

func baseOpts(dir string) ReviewOpts {
	return ReviewOpts{
		ResolvedConfig: config.ResolvedConfig{
			Base:     "main",
			Post:     config.PostNo,
			PostMode: domain.PostModeReplace,
		},
		Dir: dir,
	}
}

func TestExecuteReview_NotARepo(t *testing.T) {
	ui := terminal.NewLogger()
	code := executeReview(context.Background(), baseOpts(t.TempDir()), ui, logging.Discard())
	if code != domain.ExitError {
		t.Errorf("exit = %d, want %d", code, domain.ExitError)
	}
}

func TestExecuteReview_MissingBaseBranch(t *testing.T) {
	dir := initRepoWithBranches(t)
	opts := baseOpts(dir)
	opts.Base = "does-not-exist"

	code := executeReview(context.Background(), opts, terminal.NewLogger(), logging.Discard())
	if code != domain.ExitError {
		t.Errorf("exit = %d, want %d", code, domain.ExitError)
	}
}

func TestExecuteReview_NoChangesExitsZeroWithoutAgent(t *testing.T) {
	dir := initRepoWithBranches(t)

	code := executeReview(context.Background(), baseOpts(dir), terminal.NewLogger(), logging.Discard())
	if code != domain.ExitOK {
		t.Errorf("exit = %d, want 0 on empty diff", code)
	}
	if _, err := os.Stat(filepath.Join(dir, agent.ReviewFileName)); !os.IsNotExist(err) {
		t.Error("no review file should be produced when there is nothing to review")
	}
}

func TestExecuteReview_ReuseMissingFile(t *testing.T) {
	dir := initRepoWithBranches(t)
	opts := baseOpts(dir)
	opts.Reuse = true

	code := executeReview(context.Background(), opts, terminal.NewLogger(), logging.Discard())
	if code != domain.ExitError {
		t.Errorf("reuse without a review file must be fatal, got %d", code)
	}
}

func TestExecuteReview_ReuseEchoesAndCleansUp(t *testing.T) {
	dir := initRepoWithBranches(t)
	reviewPath := filepath.Join(dir, agent.ReviewFileName)
	if err := os.WriteFile(reviewPath, []byte("## Summary\n\nAll good.\n"), 0600); err != nil {
		t.Fatal(err)
	}

	opts := baseOpts(dir)
	opts.Reuse = true
	opts.Cleanup = true

	code := executeReview(context.Background(), opts, terminal.NewLogger(), logging.Discard())
	if code != domain.ExitOK {
		t.Errorf("exit = %d, want 0", code)
	}
	if _, err := os.Stat(reviewPath); !os.IsNotExist(err) {
		t.Error("--cleanup should remove the review file")
	}
}

func TestLoadPrompt(t *testing.T) {
	opts := baseOpts(".")
	got, err := loadPrompt(opts)
	if err != nil || got != agent.DefaultPrompt {
		t.Errorf("default prompt expected, err=%v", err)
	}

	dir := t.TempDir()
	custom := filepath.Join(dir, "prompt.md")
	if err := os.WriteFile(custom, []byte("custom instructions"), 0600); err != nil {
		t.Fatal(err)
	}
	opts.PromptFile = custom
	got, err = loadPrompt(opts)
	if err != nil || got != "custom instructions" {
		t.Errorf("custom prompt not loaded: %q, err=%v", got, err)
	}

	opts.PromptFile = filepath.Join(dir, "missing.md")
	if _, err := loadPrompt(opts); err == nil {
		t.Error("missing prompt file must be an error")
	}
}
