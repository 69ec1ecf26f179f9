package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"strings"

	"github.com/calebmoore/azdo-review/internal/azure"
	"github.com/calebmoore/azdo-review/internal/config"
	"github.com/calebmoore/azdo-review/internal/domain"
	"github.com/calebmoore/azdo-review/internal/git"
	"github.com/calebmoore/azdo-review/internal/terminal"
)

// maybePost decides whether to post and, if so, resolves the PR and
// reconciles the review comment. A posting failure is secondary — the
// review is already on the terminal — so nothing here returns ExitError
// except nothing: the exit code stays OK throughout.
func maybePost(ctx context.Context, opts ReviewOpts, review string, ui *terminal.Logger, log *slog.Logger) domain.ExitCode {
	switch opts.Post {
	case config.PostNo:
		return domain.ExitOK
	case config.PostAsk:
		if opts.AutoYes {
			break
		}
		if !terminal.IsStdinTTY() {
			ui.Log("Not a terminal; skipping posting (use --post to force)", terminal.StyleDim)
			return domain.ExitOK
		}
		if !confirm("Post review to the pull request?") {
			ui.Log("Posting skipped", terminal.StyleDim)
			return domain.ExitOK
		}
	}

	resolver := azure.NewResolver(azure.ResolveOptions{
		Dir:          opts.Dir,
		ExplicitPRID: opts.PRID,
		EnvOnly:      opts.EnvOnly,
	}, log)

	cfg, err := resolver.Resolve(ctx)
	if err != nil {
		ui.Logf(terminal.StyleWarning, "PR resolution failed: %v", err)
		return domain.ExitOK
	}
	if cfg == nil {
		ui.Log("No pull request detected for this branch; posting skipped", terminal.StyleWarning)
		return domain.ExitOK
	}

	client := azure.NewClient(*cfg, log)

	var outcome domain.PostOutcome
	_ = terminal.WithSpinner(ctx, fmt.Sprintf("Posting review to PR #%s", cfg.PRID), func() error {
		outcome = client.PostReview(ctx, review, opts.PostMode)
		return nil
	})

	if outcome.OK() {
		ui.Logf(terminal.StyleSuccess, "Review %s on PR #%s", outcome.Action, cfg.PRID)
	} else {
		ui.Logf(terminal.StyleError, "Posting failed (%d): %s", outcome.StatusCode, outcome.Body)
	}

	if opts.LinkWorkItem {
		linkWorkItemToPR(ctx, client, *cfg, opts, ui, log)
	}

	return domain.ExitOK
}

// linkWorkItemToPR extracts a work item id from the branch name or PR
// title and links it to the pull request. Best-effort.
func linkWorkItemToPR(ctx context.Context, client *azure.Client, cfg domain.AzureConfig, opts ReviewOpts, ui *terminal.Logger, log *slog.Logger) {
	var id string
	if branch, err := git.CurrentBranch(ctx, opts.Dir); err == nil {
		// Branch names carry the id in their last segment (feature/64805-billing).
		id = azure.ExtractWorkItemID(path.Base(branch))
	}
	if id == "" {
		if pr, err := client.GetPullRequest(ctx); err == nil {
			id = azure.ExtractWorkItemID(pr.Title)
		} else {
			log.Debug("could not fetch PR for work item extraction", "error", err)
		}
	}
	if id == "" {
		ui.Log("No work item id found in branch name or PR title", terminal.StyleDim)
		return
	}

	if err := client.LinkWorkItem(ctx, id); err != nil {
		ui.Logf(terminal.StyleWarning, "Could not link work item %s: %v", id, err)
		return
	}
	ui.Logf(terminal.StyleSuccess, "Linked work item %s to PR #%s", id, cfg.PRID)
}

// confirm asks a yes/no question on the terminal. Empty input means yes.
func confirm(question string) bool {
	fmt.Fprintf(os.Stderr, "%s?%s %s %s[Y/n]%s ",
		terminal.Color(terminal.Cyan), terminal.Color(terminal.Reset),
		question,
		terminal.Color(terminal.Dim), terminal.Color(terminal.Reset))

	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "" || response == "y" || response == "yes"
}
