package azure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/calebmoore/azdo-review/internal/domain"
	"github.com/calebmoore/azdo-review/internal/git"
)

// legacyOrgPattern extracts the organization from a PR's own url field.
// The az CLI still reports PR urls on the legacy per-org hostname; this
// narrow match is inherited behavior and a known fragility, not a bug.
var legacyOrgPattern = regexp.MustCompile(`^https://([^./]+)\.visualstudio\.com/`)

// azPullRequest is the subset of `az repos pr` JSON output we consume.
type azPullRequest struct {
	PullRequestID int    `json:"pullRequestId"`
	Title         string `json:"title"`
	SourceRefName string `json:"sourceRefName"`
	URL           string `json:"url"`
	Repository    struct {
		Name    string `json:"name"`
		Project struct {
			Name string `json:"name"`
		} `json:"project"`
	} `json:"repository"`
}

// resolveFromAzCLI shells out to the Azure CLI, which auto-detects the
// organization and repository from the working tree. Active PRs are
// listed; the first whose source branch equals the current branch is
// taken. An explicit PR id bypasses matching and is fetched directly.
func (r *Resolver) resolveFromAzCLI(ctx context.Context) (*domain.AzureConfig, error) {
	if _, err := exec.LookPath("az"); err != nil {
		return nil, nil
	}

	prs, err := r.listActivePRs(ctx)
	if err != nil {
		return nil, err
	}

	if len(prs) == 0 {
		if r.opts.ExplicitPRID != "" {
			return r.showAndNormalize(ctx)
		}
		return nil, nil
	}

	branch, err := git.CurrentBranch(ctx, r.opts.Dir)
	if err != nil {
		return nil, err
	}

	for _, pr := range prs {
		if strings.TrimPrefix(pr.SourceRefName, "refs/heads/") == branch {
			return r.normalizeAzPR(pr)
		}
	}

	if r.opts.ExplicitPRID != "" {
		return r.showAndNormalize(ctx)
	}
	return nil, nil
}

func (r *Resolver) listActivePRs(ctx context.Context) ([]azPullRequest, error) {
	out, err := r.runAz(ctx, "repos", "pr", "list", "--status", "active", "--output", "json")
	if err != nil {
		return nil, err
	}

	var prs []azPullRequest
	if err := json.Unmarshal(out, &prs); err != nil {
		return nil, fmt.Errorf("failed to parse az pr list output: %w", err)
	}
	return prs, nil
}

func (r *Resolver) showAndNormalize(ctx context.Context) (*domain.AzureConfig, error) {
	out, err := r.runAz(ctx, "repos", "pr", "show", "--id", r.opts.ExplicitPRID, "--output", "json")
	if err != nil {
		return nil, err
	}

	var pr azPullRequest
	if err := json.Unmarshal(out, &pr); err != nil {
		return nil, fmt.Errorf("failed to parse az pr show output: %w", err)
	}
	return r.normalizeAzPR(pr)
}

// normalizeAzPR converts an az CLI PR object into a complete AzureConfig.
// Failure to extract the organization or find a token is a warning-level
// "no result", not a hard error.
func (r *Resolver) normalizeAzPR(pr azPullRequest) (*domain.AzureConfig, error) {
	m := legacyOrgPattern.FindStringSubmatch(pr.URL)
	if m == nil {
		r.log.Warn("could not extract organization from PR url", "url", pr.URL)
		return nil, nil
	}

	token := os.Getenv(TokenEnvVar)
	if token == "" {
		r.log.Warn("az CLI found a PR but " + TokenEnvVar + " is not set")
		return nil, nil
	}

	return &domain.AzureConfig{
		Token:        token,
		Organization: m[1],
		Project:      pr.Repository.Project.Name,
		Repository:   pr.Repository.Name,
		PRID:         strconv.Itoa(pr.PullRequestID),
	}, nil
}

func (r *Resolver) runAz(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "az", args...)
	cmd.Dir = r.opts.Dir
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			msg := strings.TrimSpace(string(exitErr.Stderr))
			if msg != "" {
				return nil, fmt.Errorf("az %s failed: %s", strings.Join(args[:2], " "), msg)
			}
		}
		return nil, fmt.Errorf("az %s failed: %w", strings.Join(args[:2], " "), err)
	}
	return out, nil
}
