// Package config provides configuration file and environment support with
// a fixed precedence: flags > env vars > .azr.yaml > defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/calebmoore/azdo-review/internal/domain"
)

// ConfigFileName is the name of the config file, looked up in the target
// directory.
const ConfigFileName = ".azr.yaml"

// DefaultBase is the compare branch when nothing else specifies one.
const DefaultBase = "main"

// PostChoice is the three-way posting behavior.
type PostChoice string

const (
	// PostAsk prompts for confirmation when stdin is a TTY, and skips
	// posting otherwise.
	PostAsk PostChoice = "ask"
	PostYes PostChoice = "yes"
	PostNo  PostChoice = "no"
)

// Config represents the .azr.yaml file. Pointer fields distinguish "unset"
// from zero values during resolution.
type Config struct {
	Base       *string `yaml:"base"`
	PromptFile *string `yaml:"prompt_file"`
	Post       *bool   `yaml:"post"`
	PostMode   *string `yaml:"post_mode"`
	Cleanup    *bool   `yaml:"cleanup"`
}

// LoadResult contains the loaded config plus warnings for unknown keys.
type LoadResult struct {
	Config   *Config
	Warnings []string
}

// LoadFromDir reads .azr.yaml from dir. A missing file yields an empty
// config, not an error.
func LoadFromDir(dir string) (*LoadResult, error) {
	data, err := os.ReadFile(filepath.Join(dir, ConfigFileName))
	if os.IsNotExist(err) {
		return &LoadResult{Config: &Config{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	warnings := checkUnknownKeys(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", ConfigFileName, err)
	}

	if cfg.PostMode != nil {
		switch domain.PostMode(*cfg.PostMode) {
		case domain.PostModeReplace, domain.PostModeAppend, domain.PostModeNew:
		default:
			return nil, fmt.Errorf("%s: post_mode must be one of replace, append, new (got %q)", ConfigFileName, *cfg.PostMode)
		}
	}

	return &LoadResult{Config: &cfg, Warnings: warnings}, nil
}

// EnvState carries the AZR_* environment overrides.
type EnvState struct {
	Base       string `env:"AZR_BASE_REF"`
	PromptFile string `env:"AZR_PROMPT_FILE"`
	Post       *bool  `env:"AZR_POST"`
}

// LoadEnvState reads the AZR_* environment variables.
func LoadEnvState() (EnvState, error) {
	state, err := env.ParseAs[EnvState]()
	if err != nil {
		return EnvState{}, fmt.Errorf("failed to parse AZR_* environment: %w", err)
	}
	return state, nil
}

// FlagState records which flags were set explicitly on the command line,
// so defaults never override intent.
type FlagState struct {
	BaseSet       bool
	PromptFileSet bool
	PostSet       bool
	NoPostSet     bool
	AppendSet     bool
	NewCommentSet bool
	CleanupSet    bool
}

// FlagValues carries the raw flag values for resolution.
type FlagValues struct {
	Base       string
	PromptFile string
	Cleanup    bool
}

// ResolvedConfig is the final configuration after precedence resolution.
type ResolvedConfig struct {
	Base       string
	PromptFile string
	Post       PostChoice
	PostMode   domain.PostMode
	Cleanup    bool
}

// Resolve applies the precedence flags > env > config file > defaults.
func Resolve(cfg *Config, envState EnvState, flags FlagState, values FlagValues) ResolvedConfig {
	if cfg == nil {
		cfg = &Config{}
	}

	out := ResolvedConfig{
		Base:     DefaultBase,
		Post:     PostAsk,
		PostMode: domain.PostModeReplace,
	}

	// Config file layer.
	if cfg.Base != nil {
		out.Base = *cfg.Base
	}
	if cfg.PromptFile != nil {
		out.PromptFile = *cfg.PromptFile
	}
	if cfg.Post != nil {
		out.Post = boolToChoice(*cfg.Post)
	}
	if cfg.PostMode != nil {
		out.PostMode = domain.PostMode(*cfg.PostMode)
	}
	if cfg.Cleanup != nil {
		out.Cleanup = *cfg.Cleanup
	}

	// Environment layer.
	if envState.Base != "" {
		out.Base = envState.Base
	}
	if envState.PromptFile != "" {
		out.PromptFile = envState.PromptFile
	}
	if envState.Post != nil {
		out.Post = boolToChoice(*envState.Post)
	}

	// Flag layer.
	if flags.BaseSet {
		out.Base = values.Base
	}
	if flags.PromptFileSet {
		out.PromptFile = values.PromptFile
	}
	if flags.PostSet {
		out.Post = PostYes
	}
	if flags.NoPostSet {
		out.Post = PostNo
	}
	if flags.AppendSet {
		out.PostMode = domain.PostModeAppend
	}
	if flags.NewCommentSet {
		out.PostMode = domain.PostModeNew
	}
	if flags.CleanupSet {
		out.Cleanup = values.Cleanup
	}

	return out
}

func boolToChoice(b bool) PostChoice {
	if b {
		return PostYes
	}
	return PostNo
}

// knownKeys are the valid top-level keys in the config file.
var knownKeys = []string{"base", "prompt_file", "post", "post_mode", "cleanup"}

// checkUnknownKeys returns warnings for keys the file should not contain.
func checkUnknownKeys(data []byte) []string {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		// Let the main parser produce the error.
		return nil
	}

	var warnings []string
	for key := range raw {
		if !slices.Contains(knownKeys, key) {
			warning := fmt.Sprintf("unknown key %q in %s", key, ConfigFileName)
			if suggestion := findSimilar(key, knownKeys); suggestion != "" {
				warning += fmt.Sprintf(" (did you mean %q?)", suggestion)
			}
			warnings = append(warnings, warning)
		}
	}
	return warnings
}

// findSimilar finds the closest candidate within 3 edits.
func findSimilar(input string, candidates []string) string {
	const maxDistance = 3
	bestMatch := ""
	bestDistance := maxDistance + 1

	for _, candidate := range candidates {
		if dist := levenshtein(input, candidate); dist < bestDistance {
			bestDistance = dist
			bestMatch = candidate
		}
	}

	if bestDistance <= maxDistance {
		return bestMatch
	}
	return ""
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)

	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	matrix := make([][]int, len(ra)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(rb)+1)
		matrix[i][0] = i
	}
	for j := range matrix[0] {
		matrix[0][j] = j
	}

	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,
				matrix[i][j-1]+1,
				matrix[i-1][j-1]+cost,
			)
		}
	}

	return matrix[len(ra)][len(rb)]
}
