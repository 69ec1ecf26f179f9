package agent

import (
	"strings"
	"testing"
	"time"
)

func TestParseTelemetry(t *testing.T) {
	data := []byte(`{
		"result": "done",
		"duration_ms": 92500,
		"total_cost_usd": 0.3421,
		"usage": {"input_tokens": 48210, "output_tokens": 2103}
	}`)

	tel, err := ParseTelemetry(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tel.Duration() != 92500*time.Millisecond {
		t.Errorf("duration = %v", tel.Duration())
	}
	if tel.TotalCostUSD != 0.3421 {
		t.Errorf("cost = %v", tel.TotalCostUSD)
	}
	if tel.Usage.InputTokens != 48210 || tel.Usage.OutputTokens != 2103 {
		t.Errorf("usage = %+v", tel.Usage)
	}

	s := tel.String()
	if !strings.Contains(s, "$0.3421") || !strings.Contains(s, "48210 in") {
		t.Errorf("display line = %q", s)
	}
}

func TestParseTelemetry_NotJSON(t *testing.T) {
	if _, err := ParseTelemetry([]byte("plain text output")); err == nil {
		t.Error("non-JSON stdout must fail telemetry parsing")
	}
}

func TestParseTelemetry_JSONWithoutFields(t *testing.T) {
	if _, err := ParseTelemetry([]byte(`{"result": "ok"}`)); err == nil {
		t.Error("JSON without telemetry fields must fail parsing")
	}
}

func TestBuildPrompt(t *testing.T) {
	got := BuildPrompt("review this", "diff --git a/x b/x")
	if !strings.Contains(got, "```diff\ndiff --git a/x b/x\n```") {
		t.Errorf("diff not embedded: %q", got)
	}

	empty := BuildPrompt("review this", "")
	if !strings.Contains(empty, "(No changes detected)") {
		t.Errorf("empty diff note missing: %q", empty)
	}
}

func TestBuildPromptWithRefFile(t *testing.T) {
	got := BuildPromptWithRefFile("review this", "/tmp/.azr-diff-x.patch")
	if !strings.Contains(got, "/tmp/.azr-diff-x.patch") || !strings.Contains(got, "Read tool") {
		t.Errorf("ref file pointer missing: %q", got)
	}
}
