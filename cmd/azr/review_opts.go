package main

import "github.com/calebmoore/azdo-review/internal/config"

// ReviewOpts bundles the resolved configuration with the CLI-only flags so
// the review and posting functions take one explicit value instead of
// reading package-level state.
type ReviewOpts struct {
	config.ResolvedConfig

	Dir          string
	PRID         string // explicit --pr value, empty if not set
	EnvOnly      bool
	Reuse        bool
	LinkWorkItem bool
	Verbose      bool
	AutoYes      bool
}
