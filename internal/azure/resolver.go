package azure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/caarlos0/env/v11"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7"
	adogit "github.com/microsoft/azure-devops-go-api/azuredevops/v7/git"

	"github.com/calebmoore/azdo-review/internal/domain"
	"github.com/calebmoore/azdo-review/internal/git"
)

// TokenEnvVar holds the personal access token for every strategy that
// talks to Azure DevOps.
const TokenEnvVar = "AZURE_DEVOPS_TOKEN"

// ResolveOptions carries the caller-supplied inputs to PR resolution.
type ResolveOptions struct {
	// Dir is the working tree the tool was pointed at.
	Dir string
	// ExplicitPRID short-circuits any search in whichever strategy is
	// active. It is never validated against the branch.
	ExplicitPRID string
	// EnvOnly skips straight to the environment-variable strategy.
	EnvOnly bool
}

// Resolver determines which pull request the current branch belongs to.
type Resolver struct {
	opts ResolveOptions
	log  *slog.Logger

	// prSearch is swappable in tests; the default queries the Azure
	// DevOps SDK.
	prSearch func(ctx context.Context, info domain.RemoteInfo, token, branch string) (string, error)
}

// NewResolver creates a resolver. A nil logger discards strategy traces.
func NewResolver(opts ResolveOptions, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	r := &Resolver{opts: opts, log: log}
	r.prSearch = r.searchPullRequests
	return r
}

// Resolve tries progressively less reliable strategies in a fixed order and
// stops at the first complete AzureConfig. A (nil, nil) return means no PR
// could be found anywhere, which callers treat as a normal, reportable
// outcome: the review is still shown, posting is skipped.
func (r *Resolver) Resolve(ctx context.Context) (*domain.AzureConfig, error) {
	type strategy struct {
		name string
		run  func(context.Context) (*domain.AzureConfig, error)
	}

	var strategies []strategy
	if r.opts.EnvOnly {
		strategies = []strategy{{"environment variables", r.resolveFromEnv}}
	} else {
		strategies = []strategy{
			{"repository + API", r.resolveFromRepo},
			{"az CLI", r.resolveFromAzCLI},
			{"environment variables", r.resolveFromEnv},
		}
	}

	for _, s := range strategies {
		cfg, err := s.run(ctx)
		if err != nil {
			// Strategy failures are recoverable: log and move on.
			r.log.Warn("PR resolution strategy failed", "strategy", s.name, "error", err)
			continue
		}
		if cfg == nil {
			r.log.Debug("PR resolution strategy yielded no result", "strategy", s.name)
			continue
		}
		r.log.Debug("PR resolved", "strategy", s.name, "pr", cfg.PRID, "org", cfg.Organization)
		return cfg, nil
	}

	return nil, nil
}

// resolveFromRepo derives the PR from the working tree's remote plus an API
// search. Preconditions short-circuit to "no result": not a repo, or no
// token. A malformed remote URL is an error so the chain can report it
// before falling through to the next strategy.
func (r *Resolver) resolveFromRepo(ctx context.Context) (*domain.AzureConfig, error) {
	if !git.IsRepo(r.opts.Dir) {
		return nil, nil
	}

	token := os.Getenv(TokenEnvVar)
	if token == "" {
		return nil, nil
	}

	branch, err := git.CurrentBranch(ctx, r.opts.Dir)
	if err != nil {
		return nil, err
	}

	remote, err := git.RemoteURL(ctx, r.opts.Dir)
	if err != nil {
		return nil, err
	}

	info, err := ParseRemoteURL(remote)
	if err != nil {
		return nil, err
	}

	if r.opts.ExplicitPRID != "" {
		return &domain.AzureConfig{
			Token:        token,
			Organization: info.Organization,
			Project:      info.Project,
			Repository:   info.Repository,
			PRID:         r.opts.ExplicitPRID,
		}, nil
	}

	prID, err := r.prSearch(ctx, info, token, branch)
	if err != nil {
		return nil, err
	}
	if prID == "" {
		return nil, nil
	}

	return &domain.AzureConfig{
		Token:        token,
		Organization: info.Organization,
		Project:      info.Project,
		Repository:   info.Repository,
		PRID:         prID,
	}, nil
}

// searchPullRequests queries the Azure DevOps SDK for PRs whose source ref
// is the current branch. Active PRs are preferred; if none match, the same
// query is repeated without the status filter so an abandoned or completed
// PR can still be surfaced. The first PR in API response order wins.
func (r *Resolver) searchPullRequests(ctx context.Context, info domain.RemoteInfo, token, branch string) (string, error) {
	orgURL := fmt.Sprintf("%s/%s", DefaultBaseURL, info.Organization)
	connection := azuredevops.NewPatConnection(orgURL, token)

	client, err := adogit.NewClient(ctx, connection)
	if err != nil {
		return "", fmt.Errorf("failed to connect to %s: %w", orgURL, err)
	}

	sourceRef := "refs/heads/" + branch

	query := func(status *adogit.PullRequestStatus) (*[]adogit.GitPullRequest, error) {
		return client.GetPullRequests(ctx, adogit.GetPullRequestsArgs{
			RepositoryId: &info.Repository,
			Project:      &info.Project,
			SearchCriteria: &adogit.GitPullRequestSearchCriteria{
				SourceRefName: &sourceRef,
				Status:        status,
			},
		})
	}

	prs, err := query(&adogit.PullRequestStatusValues.Active)
	if err != nil {
		return "", fmt.Errorf("pull request search failed: %w", err)
	}

	if prs == nil || len(*prs) == 0 {
		prs, err = query(nil)
		if err != nil {
			return "", fmt.Errorf("pull request search failed: %w", err)
		}
	}

	if prs == nil || len(*prs) == 0 {
		return "", nil
	}

	first := (*prs)[0]
	if first.PullRequestId == nil {
		return "", fmt.Errorf("pull request search returned an entry without an id")
	}
	return strconv.Itoa(*first.PullRequestId), nil
}

// envSettings is the environment-variable strategy's input block.
type envSettings struct {
	Token        string `env:"AZURE_DEVOPS_TOKEN"`
	Organization string `env:"AZURE_DEVOPS_ORG"`
	Project      string `env:"AZURE_DEVOPS_PROJECT"`
	Repository   string `env:"AZURE_DEVOPS_REPO"`
	PRID         string `env:"AZURE_DEVOPS_PR_ID"`
}

// resolveFromEnv is the final fallback: every field must be present, with
// the PR id allowed to come from the explicit command-line override
// instead. Any missing field means no result, not an error.
func (r *Resolver) resolveFromEnv(_ context.Context) (*domain.AzureConfig, error) {
	settings, err := env.ParseAs[envSettings]()
	if err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	prID := settings.PRID
	if r.opts.ExplicitPRID != "" {
		prID = r.opts.ExplicitPRID
	}

	if settings.Token == "" || settings.Organization == "" || settings.Project == "" ||
		settings.Repository == "" || prID == "" {
		return nil, nil
	}

	return &domain.AzureConfig{
		Token:        settings.Token,
		Organization: settings.Organization,
		Project:      settings.Project,
		Repository:   settings.Repository,
		PRID:         prID,
	}, nil
}
