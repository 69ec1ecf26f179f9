// Package main provides the CLI entry point for the Azure DevOps AI
// reviewer.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/calebmoore/azdo-review/internal/config"
	"github.com/calebmoore/azdo-review/internal/domain"
	"github.com/calebmoore/azdo-review/internal/logging"
	"github.com/calebmoore/azdo-review/internal/terminal"
)

var (
	targetDir    string
	baseRef      string
	promptFile   string
	post         bool
	noPost       bool
	prID         string
	envOnly      bool
	reuse        bool
	appendMode   bool
	newComment   bool
	cleanup      bool
	linkWorkItem bool
	verbose      bool
	autoYes      bool
)

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := &cobra.Command{
		Use:   "azr",
		Short: "AI code review for Azure DevOps pull requests",
		Long: `Run an AI code review over the diff against a base branch and post the
result as a sticky comment on the matching Azure DevOps pull request.

Exit codes:
  0 - Review completed (including "no changes" and "no PR found")
  1 - Fatal error
  130 - Interrupted`,
		RunE:          runReview,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       buildVersionString(),
	}

	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Configuration flags (precedence: flag > env > .azr.yaml > default)
	rootCmd.Flags().StringVarP(&targetDir, "dir", "d", ".",
		"Directory of the git repository to review")
	rootCmd.Flags().StringVarP(&baseRef, "base", "b", "",
		"Compare branch for the diff (default: main, env: AZR_BASE_REF)")
	rootCmd.Flags().StringVar(&promptFile, "prompt-file", "",
		"Path to a custom review prompt (env: AZR_PROMPT_FILE)")
	rootCmd.Flags().BoolVar(&post, "post", false,
		"Post the review to the pull request without asking")
	rootCmd.Flags().BoolVar(&noPost, "no-post", false,
		"Never post; just print the review")
	rootCmd.Flags().StringVar(&prID, "pr", "",
		"Explicit pull request id (skips branch matching)")
	rootCmd.Flags().BoolVar(&envOnly, "env-only", false,
		"Resolve the PR from AZURE_DEVOPS_* environment variables only")
	rootCmd.Flags().BoolVar(&reuse, "reuse", false,
		"Reuse an existing review file instead of running the agent")
	rootCmd.Flags().BoolVar(&appendMode, "append", false,
		"Append to the existing review comment instead of replacing it")
	rootCmd.Flags().BoolVar(&newComment, "new-comment", false,
		"Always create a new comment thread")
	rootCmd.Flags().BoolVar(&cleanup, "cleanup", false,
		"Delete the review file after posting")
	rootCmd.Flags().BoolVar(&linkWorkItem, "link-work-item", false,
		"Link the work item named by the branch or PR title to the PR")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false,
		"Print strategy traces and request statuses")
	rootCmd.Flags().BoolVarP(&autoYes, "yes", "y", false,
		"Assume yes on the posting confirmation")

	if err := rootCmd.Execute(); err != nil {
		if exitErr, ok := err.(exitCodeError); ok {
			return exitErr.code.Int()
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return domain.ExitError.Int()
	}

	return 0
}

func runReview(cmd *cobra.Command, _ []string) error {
	if !terminal.IsStdoutTTY() {
		terminal.DisableColors()
	}

	ui := terminal.NewLogger()
	log := logging.New(os.Stderr, verbose)

	// Token and agent key are commonly kept in a .env next to the repo.
	_ = godotenv.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr)
		ui.Log("Interrupted, shutting down...", terminal.StyleWarning)
		cancel()
	}()

	if appendMode && newComment {
		ui.Log("--append and --new-comment are mutually exclusive", terminal.StyleError)
		return exitCode(domain.ExitError)
	}
	if post && noPost {
		ui.Log("--post and --no-post are mutually exclusive", terminal.StyleError)
		return exitCode(domain.ExitError)
	}

	result, err := config.LoadFromDir(targetDir)
	if err != nil {
		ui.Logf(terminal.StyleError, "Config error: %v", err)
		return exitCode(domain.ExitError)
	}
	for _, warning := range result.Warnings {
		ui.Logf(terminal.StyleWarning, "Warning: %s", warning)
	}

	envState, err := config.LoadEnvState()
	if err != nil {
		ui.Logf(terminal.StyleError, "Environment error: %v", err)
		return exitCode(domain.ExitError)
	}

	flagState := config.FlagState{
		BaseSet:       cmd.Flags().Changed("base"),
		PromptFileSet: cmd.Flags().Changed("prompt-file"),
		PostSet:       cmd.Flags().Changed("post"),
		NoPostSet:     cmd.Flags().Changed("no-post"),
		AppendSet:     cmd.Flags().Changed("append"),
		NewCommentSet: cmd.Flags().Changed("new-comment"),
		CleanupSet:    cmd.Flags().Changed("cleanup"),
	}
	flagValues := config.FlagValues{
		Base:       baseRef,
		PromptFile: promptFile,
		Cleanup:    cleanup,
	}

	resolved := config.Resolve(result.Config, envState, flagState, flagValues)

	opts := ReviewOpts{
		ResolvedConfig: resolved,
		Dir:            targetDir,
		PRID:           prID,
		EnvOnly:        envOnly,
		Reuse:          reuse,
		LinkWorkItem:   linkWorkItem,
		Verbose:        verbose,
		AutoYes:        autoYes,
	}

	return exitCode(executeReview(ctx, opts, ui, log))
}
