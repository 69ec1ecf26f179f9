package agent

import "fmt"

// DefaultPrompt instructs the agent to review the diff and write the
// result to the fixed review file path.
const DefaultPrompt = `You are performing a code review of the changes described by the git diff below.

Review the diff for bugs, security issues, race conditions, missing error handling, and significant design problems. Ignore style nits unless they hide a defect. For each finding, name the file and explain the problem with a concrete suggestion.

Write the full review as GitHub-flavored markdown to a file named ` + ReviewFileName + ` in the current directory. Start with a one-paragraph summary, then a section per finding. If the diff looks good, say so explicitly in the summary.

Do not modify any other files.`

// BuildPrompt combines the review prompt with the diff, embedded inline.
func BuildPrompt(prompt, diff string) string {
	if diff == "" {
		return prompt + "\n\n(No changes detected)"
	}
	return prompt + "\n\n```diff\n" + diff + "\n```"
}

// BuildPromptWithRefFile combines the review prompt with a pointer to a
// diff written out as a file, for diffs too large to embed.
func BuildPromptWithRefFile(prompt, diffPath string) string {
	return fmt.Sprintf("%s\n\nThe git diff is in the file: %s\nUse the Read tool to examine it.", prompt, diffPath)
}
