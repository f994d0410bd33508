package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestResolveConfig_Precedence_ConfigEnvCLI(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "config.yaml")
	yaml := `db_path: ~/.crewcall/from-config.db
engine:
  confidence_threshold: "0.4"
  name_similarity: "0.92"
defaults:
  document_type: call_sheet
`
	if err := os.WriteFile(cfgPath, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("CREWCALL_DB", "~/from-env.db")
	t.Setenv("CREWCALL_CONFIDENCE_THRESHOLD", "0.5")

	resolved, err := ResolveConfig(ResolveOptions{
		ConfigPath:   cfgPath,
		CLIDBPath:    "~/from-cli.db",
		CLIThreshold: "0.6",
	})
	if err != nil {
		t.Fatalf("ResolveConfig: %v", err)
	}

	if resolved.DBPath.Source != SourceCLI {
		t.Fatalf("expected DB path source cli, got %s", resolved.DBPath.Source)
	}
	if resolved.ConfidenceThreshold.Source != SourceCLI {
		t.Fatalf("expected threshold source cli, got %s", resolved.ConfidenceThreshold.Source)
	}
	if got := resolved.ConfidenceThreshold.Float(0.3); got != 0.6 {
		t.Fatalf("threshold = %f", got)
	}
	if resolved.NameSimilarity.Source != SourceConfig {
		t.Fatalf("expected name similarity from config, got %s", resolved.NameSimilarity.Source)
	}
	if resolved.DocumentType.Value != "call_sheet" {
		t.Fatalf("document type = %q", resolved.DocumentType.Value)
	}
}

func TestResolveConfig_MissingFileUsesDefaults(t *testing.T) {
	resolved, err := ResolveConfig(ResolveOptions{
		ConfigPath: filepath.Join(t.TempDir(), "does-not-exist.yaml"),
	})
	if err != nil {
		t.Fatalf("ResolveConfig: %v", err)
	}
	if resolved.DBPath.Source != SourceDefault {
		t.Fatalf("expected default DB path, got %s from %s", resolved.DBPath.Source, resolved.DBPath.From)
	}
	if resolved.DBPath.Value == "" {
		t.Fatal("default DB path is empty")
	}
}

func TestResolveConfig_MalformedFileErrors(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("engine: [not a map"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := ResolveConfig(ResolveOptions{ConfigPath: cfgPath}); err == nil {
		t.Fatal("expected an error for malformed yaml")
	}
}

func TestResolvedValue_Parsers(t *testing.T) {
	if got := (ResolvedValue{Value: "0.85"}).Float(0.3); got != 0.85 {
		t.Errorf("Float = %f", got)
	}
	if got := (ResolvedValue{Value: "garbage"}).Float(0.3); got != 0.3 {
		t.Errorf("Float fallback = %f", got)
	}
	if !(ResolvedValue{Value: "true"}).Bool(false) {
		t.Error("Bool(true) failed")
	}
	if (ResolvedValue{}).Bool(false) {
		t.Error("empty Bool should use fallback")
	}
	got := (ResolvedValue{Value: "photographer, producer , "}).List()
	if !reflect.DeepEqual(got, []string{"photographer", "producer"}) {
		t.Errorf("List = %v", got)
	}
}
