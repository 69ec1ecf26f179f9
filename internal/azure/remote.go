// Package azure implements pull request resolution and sticky review
// comment reconciliation against Azure DevOps.
package azure

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/calebmoore/azdo-review/internal/domain"
)

// httpsRemotePattern matches https://dev.azure.com/{org}/{project}/_git/{repo},
// optionally with a user@ prefix as produced by git credential helpers.
var httpsRemotePattern = regexp.MustCompile(`^https://(?:[^@/]+@)?dev\.azure\.com/([^/]+)/([^/]+)/_git/([^/]+?)(?:\.git)?$`)

// sshRemotePattern matches {org}@vs-ssh.visualstudio.com:v3/{org}/{project}/{repo}.
var sshRemotePattern = regexp.MustCompile(`^[^@]+@vs-ssh\.visualstudio\.com:v3/([^/]+)/([^/]+)/([^/]+?)(?:\.git)?$`)

// ParseRemoteURL derives {organization, project, repository} from an Azure
// DevOps remote URL in either HTTPS or SSH form. Project names are
// percent-decoded (spaces appear as %20 in HTTPS remotes). Any other URL,
// including GitHub remotes, is a descriptive error.
func ParseRemoteURL(remote string) (domain.RemoteInfo, error) {
	remote = strings.TrimSpace(remote)

	for _, pattern := range []*regexp.Regexp{httpsRemotePattern, sshRemotePattern} {
		m := pattern.FindStringSubmatch(remote)
		if m == nil {
			continue
		}
		project, err := url.PathUnescape(m[2])
		if err != nil {
			return domain.RemoteInfo{}, fmt.Errorf("invalid project encoding in remote URL %q: %w", remote, err)
		}
		return domain.RemoteInfo{
			Organization: m[1],
			Project:      project,
			Repository:   m[3],
		}, nil
	}

	return domain.RemoteInfo{}, fmt.Errorf(
		"remote %q is not an Azure DevOps URL (expected https://dev.azure.com/{org}/{project}/_git/{repo} or {org}@vs-ssh.visualstudio.com:v3/{org}/{project}/{repo})",
		remote)
}
