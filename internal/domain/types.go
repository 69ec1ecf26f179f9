package domain

// RemoteInfo identifies an Azure DevOps repository, derived once per
// invocation from the git remote URL.
type RemoteInfo struct {
	Organization string
	Project      string
	Repository   string
}

// AzureConfig fully determines the REST endpoint for a pull request. It is
// produced by exactly one of the resolution strategies and is never
// partially populated: resolution yields a complete value or nothing.
type AzureConfig struct {
	Token        string
	Organization string
	Project      string
	Repository   string
	PRID         string
}

// PostMode selects how a review is reconciled with any existing sticky
// comment on the pull request.
type PostMode string

const (
	// PostModeReplace overwrites the existing sticky comment, or creates
	// one if none exists. This is the default.
	PostModeReplace PostMode = "replace"
	// PostModeAppend merges the new review under an "Updated Review"
	// sub-heading inside the existing sticky comment.
	PostModeAppend PostMode = "append"
	// PostModeNew always creates a fresh comment thread.
	PostModeNew PostMode = "new"
)

// PostAction records which reconciliation path was taken.
type PostAction string

const (
	PostActionCreated  PostAction = "created"
	PostActionUpdated  PostAction = "updated"
	PostActionAppended PostAction = "appended"
)

// PostOutcome reports the result of posting a review to a pull request.
// A non-2xx StatusCode is a reported failure, not a fatal one: the review
// was already echoed to the terminal by the time posting happens.
type PostOutcome struct {
	Action     PostAction
	StatusCode int
	Body       string
}

// OK reports whether the transport accepted the post.
func (o PostOutcome) OK() bool {
	return o.StatusCode >= 200 && o.StatusCode < 300
}
