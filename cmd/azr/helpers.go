package main

import (
	"fmt"
	"runtime/debug"

	"github.com/calebmoore/azdo-review/internal/domain"
)

// version is set at build time via -ldflags.
var version = "dev"

// buildVersionString assembles the --version output, falling back to VCS
// metadata when no release version was stamped.
func buildVersionString() string {
	if version != "dev" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" && len(setting.Value) >= 7 {
				return "dev (" + setting.Value[:7] + ")"
			}
		}
	}
	return version
}

// exitCodeError carries an exit code through cobra's error return.
type exitCodeError struct {
	code domain.ExitCode
}

func (e exitCodeError) Error() string {
	switch e.code {
	case domain.ExitError:
		return "review failed with error"
	case domain.ExitInterrupted:
		return "review was interrupted"
	default:
		return fmt.Sprintf("exit code %d", e.code)
	}
}

func exitCode(code domain.ExitCode) error {
	if code == domain.ExitOK {
		return nil
	}
	return exitCodeError{code: code}
}
