package azure

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/calebmoore/azdo-review/internal/domain"
)

// apiVersion pins the Azure DevOps REST surface this client speaks.
const apiVersion = "7.1"

// DefaultBaseURL is the Azure DevOps service root.
const DefaultBaseURL = "https://dev.azure.com"

// Client is a thin Azure DevOps REST client scoped to a single pull
// request. The wire contract is fixed: thread listing, first-comment
// update, thread creation, PR fetch, and work item linking.
type Client struct {
	httpClient *http.Client
	baseURL    string
	cfg        domain.AzureConfig
	log        *slog.Logger
}

// NewClient creates a client for the pull request identified by cfg.
func NewClient(cfg domain.AzureConfig, log *slog.Logger) *Client {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		httpClient: http.DefaultClient,
		baseURL:    DefaultBaseURL,
		cfg:        cfg,
		log:        log,
	}
}

// SetBaseURL overrides the service root, for tests.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = u
}

// prURL builds {base}/{org}/{project}/_apis/git/repositories/{repo}/pullRequests/{prId}{suffix}.
func (c *Client) prURL(suffix string) string {
	return fmt.Sprintf("%s/%s/%s/_apis/git/repositories/%s/pullRequests/%s%s?api-version=%s",
		c.baseURL,
		url.PathEscape(c.cfg.Organization),
		url.PathEscape(c.cfg.Project),
		url.PathEscape(c.cfg.Repository),
		url.PathEscape(c.cfg.PRID),
		suffix,
		apiVersion)
}

// do sends a request with PAT basic auth and returns the status code and
// raw body.
func (c *Client) do(ctx context.Context, method, rawURL, contentType string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}

	// Azure DevOps PATs use basic auth with an empty username.
	token := base64.StdEncoding.EncodeToString([]byte(":" + c.cfg.Token))
	req.Header.Set("Authorization", "Basic "+token)
	if body != nil {
		if contentType == "" {
			contentType = "application/json"
		}
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s failed: %w", method, rawURL, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.log.Debug("azure devops request", "method", method, "url", rawURL, "status", resp.StatusCode)
	return resp.StatusCode, data, nil
}

// commentThread is one comment conversation on a pull request.
type commentThread struct {
	ID       int             `json:"id"`
	Comments []threadComment `json:"comments"`
}

type threadComment struct {
	ID      int    `json:"id"`
	Content string `json:"content"`
}

type threadListResponse struct {
	Value []commentThread `json:"value"`
	Count int             `json:"count"`
}

// ListThreads returns all comment threads on the pull request in API
// response order.
func (c *Client) ListThreads(ctx context.Context) ([]commentThread, error) {
	status, body, err := c.do(ctx, http.MethodGet, c.prURL("/threads"), "", nil)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("listing threads returned %d: %s", status, string(body))
	}

	var resp threadListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse thread list: %w", err)
	}
	return resp.Value, nil
}

// UpdateFirstComment PATCHes the first comment of the given thread with new
// content.
func (c *Client) UpdateFirstComment(ctx context.Context, threadID int, content string) (int, []byte, error) {
	u := c.prURL(fmt.Sprintf("/threads/%d/comments/1", threadID))
	return c.do(ctx, http.MethodPatch, u, "", map[string]string{"content": content})
}

// CreateThread POSTs a new active comment thread whose first comment holds
// content.
func (c *Client) CreateThread(ctx context.Context, content string) (int, []byte, error) {
	body := map[string]any{
		"comments": []map[string]any{
			{
				"parentCommentId": 0,
				"content":         content,
				"commentType":     1,
			},
		},
		"status": 1,
	}
	return c.do(ctx, http.MethodPost, c.prURL("/threads"), "", body)
}

// pullRequestDetails carries the identifiers needed for work item linking.
type pullRequestDetails struct {
	PullRequestID int    `json:"pullRequestId"`
	Title         string `json:"title"`
	Repository    struct {
		ID      string `json:"id"`
		Project struct {
			ID string `json:"id"`
		} `json:"project"`
	} `json:"repository"`
}

// GetPullRequest fetches the pull request to recover its title and the
// repository/project GUIDs.
func (c *Client) GetPullRequest(ctx context.Context) (*pullRequestDetails, error) {
	status, body, err := c.do(ctx, http.MethodGet, c.prURL(""), "", nil)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("fetching pull request returned %d: %s", status, string(body))
	}

	var pr pullRequestDetails
	if err := json.Unmarshal(body, &pr); err != nil {
		return nil, fmt.Errorf("failed to parse pull request: %w", err)
	}
	return &pr, nil
}

// LinkWorkItem attaches the pull request to a work item with an
// ArtifactLink relation. Best-effort; callers report failures as warnings.
func (c *Client) LinkWorkItem(ctx context.Context, workItemID string) error {
	pr, err := c.GetPullRequest(ctx)
	if err != nil {
		return err
	}

	artifact := fmt.Sprintf("vstfs:///Git/PullRequestId/%s%%2F%s%%2F%s",
		pr.Repository.Project.ID, pr.Repository.ID, c.cfg.PRID)

	patch := []map[string]any{
		{
			"op":   "add",
			"path": "/relations/-",
			"value": map[string]any{
				"rel": "ArtifactLink",
				"url": artifact,
				"attributes": map[string]string{
					"name": "Pull Request",
				},
			},
		},
	}

	u := fmt.Sprintf("%s/%s/%s/_apis/wit/workitems/%s?api-version=%s",
		c.baseURL,
		url.PathEscape(c.cfg.Organization),
		url.PathEscape(c.cfg.Project),
		url.PathEscape(workItemID),
		apiVersion)

	status, body, err := c.do(ctx, http.MethodPatch, u, "application/json-patch+json", patch)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("linking work item %s returned %d: %s", workItemID, status, string(body))
	}
	return nil
}
