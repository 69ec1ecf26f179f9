package agent

import (
	"encoding/json"
	"fmt"
	"time"
)

// Telemetry holds the usage/cost fields the agent reports on stdout when
// run with JSON output. Parse failure is non-fatal and only suppresses the
// telemetry display.
type Telemetry struct {
	DurationMS   int64   `json:"duration_ms"`
	TotalCostUSD float64 `json:"total_cost_usd"`
	Usage        struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// Duration returns the reported wall-clock duration.
func (t *Telemetry) Duration() time.Duration {
	return time.Duration(t.DurationMS) * time.Millisecond
}

// String renders the telemetry line shown after the review.
func (t *Telemetry) String() string {
	return fmt.Sprintf("%s · $%.4f · %d in / %d out tokens",
		t.Duration().Round(time.Second), t.TotalCostUSD,
		t.Usage.InputTokens, t.Usage.OutputTokens)
}

// ParseTelemetry extracts telemetry from the agent's stdout JSON.
func ParseTelemetry(data []byte) (*Telemetry, error) {
	var tel Telemetry
	if err := json.Unmarshal(data, &tel); err != nil {
		return nil, fmt.Errorf("failed to parse agent telemetry: %w", err)
	}
	if tel.DurationMS == 0 && tel.TotalCostUSD == 0 && tel.Usage.InputTokens == 0 {
		return nil, fmt.Errorf("agent output carries no telemetry fields")
	}
	return &tel, nil
}
