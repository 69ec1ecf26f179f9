// Package diff post-processes raw git diff text before it reaches the
// review agent.
package diff

import "strings"

// lockfileNames are generated dependency manifests whose diffs add noise
// and tokens without being reviewable.
var lockfileNames = []string{
	"package-lock.json",
	"yarn.lock",
	"pnpm-lock.yaml",
	"Cargo.lock",
	"Gemfile.lock",
	"composer.lock",
	"poetry.lock",
	"go.sum",
}

const segmentHeader = "diff --git "

// Sanitize removes lockfile-only segments from a raw git diff. Each segment
// starts at a "diff --git" header and runs until the next header; a segment
// is dropped when its header names a known lockfile.
func Sanitize(raw string) string {
	if raw == "" {
		return raw
	}

	var b strings.Builder
	b.Grow(len(raw))

	skipping := false
	for _, line := range strings.SplitAfter(raw, "\n") {
		if strings.HasPrefix(line, segmentHeader) {
			skipping = isLockfileHeader(line)
		}
		if !skipping {
			b.WriteString(line)
		}
	}
	return b.String()
}

// isLockfileHeader reports whether a "diff --git a/... b/..." header line
// refers to a lockfile. Matches on path suffix so nested lockfiles
// (e.g. web/package-lock.json) are also dropped.
func isLockfileHeader(line string) bool {
	fields := strings.Fields(line)
	// "diff", "--git", "a/<path>", "b/<path>"
	if len(fields) < 4 {
		return false
	}
	path := strings.TrimPrefix(fields[2], "a/")
	for _, name := range lockfileNames {
		if path == name || strings.HasSuffix(path, "/"+name) {
			return true
		}
	}
	return false
}
