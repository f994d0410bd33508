// Package config resolves crewcall settings from three layered sources:
// the YAML config file, CREWCALL_* environment variables, and CLI flags,
// in that order of increasing precedence. Every resolved value remembers
// where it came from so `crewcall config` can explain itself.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type ValueSource string

const (
	SourceUnknown ValueSource = "unknown"
	SourceConfig  ValueSource = "config"
	SourceEnv     ValueSource = "env"
	SourceCLI     ValueSource = "cli"
	SourceDefault ValueSource = "default"
)

type ResolvedValue struct {
	Value  string      `json:"value"`
	Source ValueSource `json:"source"`
	From   string      `json:"from,omitempty"`
}

// ResolveOptions carries the CLI-flag layer into resolution.
type ResolveOptions struct {
	ConfigPath string

	CLIDBPath         string
	CLIThreshold      string
	CLIMinQuality     string
	CLINameSimilarity string
	CLIDocumentType   string
	CLIProductionType string
	CLILogLevel       string
}

// ResolvedConfig is the merged view of all sources.
type ResolvedConfig struct {
	ConfigPath string `json:"config_path"`

	DBPath ResolvedValue `json:"db_path"`

	ConfidenceThreshold ResolvedValue `json:"confidence_threshold"`
	MinQualityScore     ResolvedValue `json:"min_quality_score"`
	NameSimilarity      ResolvedValue `json:"name_similarity"`
	MultiPass           ResolvedValue `json:"multi_pass"`
	RolePreferences     ResolvedValue `json:"role_preferences"`

	DocumentType   ResolvedValue `json:"document_type"`
	ProductionType ResolvedValue `json:"production_type"`

	LogLevel  ResolvedValue `json:"log_level"`
	LogFormat ResolvedValue `json:"log_format"`
}

type fileConfig struct {
	DBPath string `yaml:"db_path"`
	Engine struct {
		ConfidenceThreshold string `yaml:"confidence_threshold"`
		MinQualityScore     string `yaml:"min_quality_score"`
		NameSimilarity      string `yaml:"name_similarity"`
		MultiPass           string `yaml:"multi_pass"`
		RolePreferences     string `yaml:"role_preferences"`
	} `yaml:"engine"`
	Defaults struct {
		DocumentType   string `yaml:"document_type"`
		ProductionType string `yaml:"production_type"`
	} `yaml:"defaults"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".crewcall", "config.yaml")
}

// DefaultDBPath is where extraction runs are persisted when nothing
// overrides it.
func DefaultDBPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".crewcall", "crewcall.db")
}

// ResolveConfig merges config file, environment, and CLI flags. A missing
// config file is not an error; a malformed one is.
func ResolveConfig(opts ResolveOptions) (ResolvedConfig, error) {
	path := strings.TrimSpace(opts.ConfigPath)
	if path == "" {
		path = DefaultConfigPath()
	}

	out := ResolvedConfig{ConfigPath: path}

	cfg, err := loadConfig(path)
	if err != nil {
		return out, err
	}

	if cfg != nil {
		apply(&out.DBPath, cfg.DBPath, SourceConfig, path)
		apply(&out.ConfidenceThreshold, cfg.Engine.ConfidenceThreshold, SourceConfig, path)
		apply(&out.MinQualityScore, cfg.Engine.MinQualityScore, SourceConfig, path)
		apply(&out.NameSimilarity, cfg.Engine.NameSimilarity, SourceConfig, path)
		apply(&out.MultiPass, cfg.Engine.MultiPass, SourceConfig, path)
		apply(&out.RolePreferences, cfg.Engine.RolePreferences, SourceConfig, path)
		apply(&out.DocumentType, cfg.Defaults.DocumentType, SourceConfig, path)
		apply(&out.ProductionType, cfg.Defaults.ProductionType, SourceConfig, path)
		apply(&out.LogLevel, cfg.Log.Level, SourceConfig, path)
		apply(&out.LogFormat, cfg.Log.Format, SourceConfig, path)
	}

	applyEnv(&out.DBPath, "CREWCALL_DB")
	applyEnv(&out.ConfidenceThreshold, "CREWCALL_CONFIDENCE_THRESHOLD")
	applyEnv(&out.MinQualityScore, "CREWCALL_MIN_QUALITY")
	applyEnv(&out.NameSimilarity, "CREWCALL_NAME_SIMILARITY")
	applyEnv(&out.MultiPass, "CREWCALL_MULTI_PASS")
	applyEnv(&out.RolePreferences, "CREWCALL_ROLE_PREFERENCES")
	applyEnv(&out.DocumentType, "CREWCALL_DOCUMENT_TYPE")
	applyEnv(&out.ProductionType, "CREWCALL_PRODUCTION_TYPE")
	applyEnv(&out.LogLevel, "CREWCALL_LOG_LEVEL")
	applyEnv(&out.LogFormat, "CREWCALL_LOG_FORMAT")

	apply(&out.DBPath, opts.CLIDBPath, SourceCLI, "--db")
	apply(&out.ConfidenceThreshold, opts.CLIThreshold, SourceCLI, "--threshold")
	apply(&out.MinQualityScore, opts.CLIMinQuality, SourceCLI, "--min-quality")
	apply(&out.NameSimilarity, opts.CLINameSimilarity, SourceCLI, "--name-similarity")
	apply(&out.DocumentType, opts.CLIDocumentType, SourceCLI, "--document-type")
	apply(&out.ProductionType, opts.CLIProductionType, SourceCLI, "--production-type")
	apply(&out.LogLevel, opts.CLILogLevel, SourceCLI, "--log-level")

	if out.DBPath.Value == "" {
		out.DBPath = ResolvedValue{Value: DefaultDBPath(), Source: SourceDefault, From: "built-in default"}
	}
	out.DBPath.Value = expandUserPath(out.DBPath.Value)

	return out, nil
}

// Float returns a resolved value parsed as float64, or fallback when the
// value is unset or unparseable.
func (v ResolvedValue) Float(fallback float64) float64 {
	s := strings.TrimSpace(v.Value)
	if s == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return f
}

// Bool returns a resolved value parsed as bool, or fallback.
func (v ResolvedValue) Bool(fallback bool) bool {
	s := strings.TrimSpace(v.Value)
	if s == "" {
		return fallback
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return fallback
	}
	return b
}

// List splits a comma-separated resolved value into trimmed items.
func (v ResolvedValue) List() []string {
	s := strings.TrimSpace(v.Value)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func apply(dst *ResolvedValue, raw string, source ValueSource, from string) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return
	}
	*dst = ResolvedValue{Value: v, Source: source, From: from}
}

func applyEnv(dst *ResolvedValue, envKey string) {
	if v := strings.TrimSpace(os.Getenv(envKey)); v != "" {
		*dst = ResolvedValue{Value: v, Source: SourceEnv, From: envKey}
	}
}

func loadConfig(path string) (*fileConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}

func expandUserPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
