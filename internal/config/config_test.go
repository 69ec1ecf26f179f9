package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/calebmoore/azdo-review/internal/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestLoadFromDir_Missing(t *testing.T) {
	result, err := LoadFromDir(t.TempDir())
	if err != nil {
		t.Fatalf("missing config file should not be an error: %v", err)
	}
	if result.Config.Base != nil {
		t.Error("missing file should produce an empty config")
	}
}

func TestLoadFromDir_Values(t *testing.T) {
	dir := writeConfig(t, "base: develop\npost: true\npost_mode: append\n")
	result, err := LoadFromDir(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Config.Base == nil || *result.Config.Base != "develop" {
		t.Errorf("base = %v", result.Config.Base)
	}
	if result.Config.Post == nil || !*result.Config.Post {
		t.Errorf("post = %v", result.Config.Post)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}
}

func TestLoadFromDir_UnknownKeySuggestion(t *testing.T) {
	dir := writeConfig(t, "bsae: develop\n")
	result, err := LoadFromDir(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("warnings = %v", result.Warnings)
	}
	if !strings.Contains(result.Warnings[0], `did you mean "base"`) {
		t.Errorf("warning should suggest the close key: %s", result.Warnings[0])
	}
}

func TestLoadFromDir_BadPostMode(t *testing.T) {
	dir := writeConfig(t, "post_mode: upsert\n")
	if _, err := LoadFromDir(dir); err == nil {
		t.Error("invalid post_mode must be rejected")
	}
}

func TestResolve_Defaults(t *testing.T) {
	out := Resolve(&Config{}, EnvState{}, FlagState{}, FlagValues{})
	if out.Base != DefaultBase {
		t.Errorf("base = %q", out.Base)
	}
	if out.Post != PostAsk {
		t.Errorf("post = %q", out.Post)
	}
	if out.PostMode != domain.PostModeReplace {
		t.Errorf("post mode = %q", out.PostMode)
	}
	if out.Cleanup {
		t.Error("cleanup should default to false")
	}
}

func TestResolve_Precedence(t *testing.T) {
	base := "from-file"
	cfg := &Config{Base: &base}

	// env beats file
	out := Resolve(cfg, EnvState{Base: "from-env"}, FlagState{}, FlagValues{})
	if out.Base != "from-env" {
		t.Errorf("env should beat file, got %q", out.Base)
	}

	// flag beats env
	out = Resolve(cfg, EnvState{Base: "from-env"}, FlagState{BaseSet: true}, FlagValues{Base: "from-flag"})
	if out.Base != "from-flag" {
		t.Errorf("flag should beat env, got %q", out.Base)
	}
}

func TestResolve_PostFlags(t *testing.T) {
	filePost := true
	cfg := &Config{Post: &filePost}

	out := Resolve(cfg, EnvState{}, FlagState{}, FlagValues{})
	if out.Post != PostYes {
		t.Errorf("config post=true should resolve to yes, got %q", out.Post)
	}

	out = Resolve(cfg, EnvState{}, FlagState{NoPostSet: true}, FlagValues{})
	if out.Post != PostNo {
		t.Errorf("--no-post should win, got %q", out.Post)
	}

	envPost := false
	out = Resolve(cfg, EnvState{Post: &envPost}, FlagState{}, FlagValues{})
	if out.Post != PostNo {
		t.Errorf("AZR_POST=false should beat the file, got %q", out.Post)
	}
}

func TestResolve_PostModeFlags(t *testing.T) {
	out := Resolve(nil, EnvState{}, FlagState{AppendSet: true}, FlagValues{})
	if out.PostMode != domain.PostModeAppend {
		t.Errorf("got %q", out.PostMode)
	}

	out = Resolve(nil, EnvState{}, FlagState{NewCommentSet: true}, FlagValues{})
	if out.PostMode != domain.PostModeNew {
		t.Errorf("got %q", out.PostMode)
	}
}

func TestLoadEnvState(t *testing.T) {
	t.Setenv("AZR_BASE_REF", "release/2.4")
	t.Setenv("AZR_POST", "true")

	state, err := LoadEnvState()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Base != "release/2.4" {
		t.Errorf("base = %q", state.Base)
	}
	if state.Post == nil || !*state.Post {
		t.Errorf("post = %v", state.Post)
	}
}
