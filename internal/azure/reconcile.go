package azure

import (
	"context"
	"strings"

	"github.com/calebmoore/azdo-review/internal/domain"
)

// ReviewMarker is the fixed heading that identifies the sticky review
// comment. The first thread whose first comment contains it is "the"
// review comment; if several qualify, API response order decides.
const ReviewMarker = "## 🤖 AI Code Review"

// appendSeparator introduces re-posted content in append mode.
const appendSeparator = "\n\n---\n\n### Updated Review\n\n"

// existingComment locates the sticky review comment on a pull request.
type existingComment struct {
	threadID int
	content  string
}

// findExistingComment scans all threads for the first one whose first
// comment carries the review marker.
func findExistingComment(threads []commentThread) *existingComment {
	for _, thread := range threads {
		if len(thread.Comments) == 0 {
			continue
		}
		first := thread.Comments[0]
		if strings.Contains(first.Content, ReviewMarker) {
			return &existingComment{threadID: thread.ID, content: first.Content}
		}
	}
	return nil
}

// composeReview places content under the review marker.
func composeReview(content string) string {
	return ReviewMarker + "\n\n" + content
}

// PostReview ensures exactly one current review is visible on the pull
// request. Replace mode (the default) overwrites the existing sticky
// comment, append mode extends it, and new mode always opens a fresh
// thread. A failure to search for the existing comment is deliberately
// treated as "not found": an unreachable thread listing must not block
// posting a fresh review.
func (c *Client) PostReview(ctx context.Context, content string, mode domain.PostMode) domain.PostOutcome {
	if mode == domain.PostModeNew {
		status, body, err := c.CreateThread(ctx, composeReview(content))
		return outcome(domain.PostActionCreated, status, body, err)
	}

	var existing *existingComment
	threads, err := c.ListThreads(ctx)
	if err != nil {
		c.log.Debug("sticky comment search failed, will create a new thread", "error", err)
	} else {
		existing = findExistingComment(threads)
	}

	if existing == nil {
		status, body, err := c.CreateThread(ctx, composeReview(content))
		return outcome(domain.PostActionCreated, status, body, err)
	}

	if mode == domain.PostModeAppend {
		merged := existing.content + appendSeparator + content
		status, body, err := c.UpdateFirstComment(ctx, existing.threadID, merged)
		return outcome(domain.PostActionAppended, status, body, err)
	}

	status, body, err := c.UpdateFirstComment(ctx, existing.threadID, composeReview(content))
	return outcome(domain.PostActionUpdated, status, body, err)
}

func outcome(action domain.PostAction, status int, body []byte, err error) domain.PostOutcome {
	o := domain.PostOutcome{Action: action, StatusCode: status, Body: string(body)}
	if err != nil {
		o.Body = err.Error()
	}
	return o
}
