package main

import (
	"errors"
	"testing"

	"github.com/calebmoore/azdo-review/internal/domain"
)

func TestExitCode_OKIsNil(t *testing.T) {
	if err := exitCode(domain.ExitOK); err != nil {
		t.Errorf("ExitOK should map to nil, got %v", err)
	}
}

func TestExitCode_ErrorCarriesCode(t *testing.T) {
	err := exitCode(domain.ExitError)
	var ec exitCodeError
	if !errors.As(err, &ec) {
		t.Fatalf("expected exitCodeError, got %T", err)
	}
	if ec.code != domain.ExitError {
		t.Errorf("code = %d", ec.code)
	}
	if ec.Error() == "" {
		t.Error("error text should not be empty")
	}
}

func TestBuildVersionString(t *testing.T) {
	if buildVersionString() == "" {
		t.Error("version string should never be empty")
	}
}
