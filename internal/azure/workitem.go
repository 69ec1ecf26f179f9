package azure

import "regexp"

// workItemPattern requires a leading run of at least four digits. Shorter
// runs are ticket-number noise ("v2", "123-test") rather than work items.
var workItemPattern = regexp.MustCompile(`^(\d{4,})`)

// ExtractWorkItemID pulls a work item id from a branch name or PR title.
// Returns "" when the string does not begin with a qualifying digit run.
func ExtractWorkItemID(s string) string {
	m := workItemPattern.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return m[1]
}
