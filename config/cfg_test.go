package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}

	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}
	if len(cfg.Compile.Extensions) != 1 || cfg.Compile.Extensions[0] != ".vue" {
		t.Errorf("Default extensions = %v, want [.vue]", cfg.Compile.Extensions)
	}
	if cfg.Compile.Workers != runtime.NumCPU() {
		t.Errorf("Default workers = %d, want %d", cfg.Compile.Workers, runtime.NumCPU())
	}
	if cfg.Compile.OutputNameTemplate != "" {
		t.Errorf("Default output name template = %q, want empty", cfg.Compile.OutputNameTemplate)
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	configContent := `version: 1
compile:
  extensions: [".vue", ".component"]
  output_name_template: "{{ .Component }}-{{ .Scope }}"
  file_name_transliterate: true
  workers: 2
logging:
  console:
    level: debug
reporting:
  destination: /tmp/test-report.zip
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfiguration(configPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if len(cfg.Compile.Extensions) != 2 {
		t.Errorf("Extensions = %v, want 2 entries", cfg.Compile.Extensions)
	}
	if !cfg.Compile.FileNameTransliterate {
		t.Error("Expected FileNameTransliterate to be true")
	}
	if cfg.Compile.Workers != 2 {
		t.Errorf("Workers = %d, want 2", cfg.Compile.Workers)
	}
	// per-component template fields must survive loading unexpanded
	if cfg.Compile.OutputNameTemplate != "{{ .Component }}-{{ .Scope }}" {
		t.Errorf("OutputNameTemplate = %q, want it kept verbatim", cfg.Compile.OutputNameTemplate)
	}
}

func TestLoadConfiguration_NonExistentFile(t *testing.T) {
	if _, err := LoadConfiguration("/nonexistent/config.yaml"); err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestLoadConfiguration_UnknownFields(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "unknown.yaml")

	configWithUnknown := `version: 1
unknown_field: value
`
	if err := os.WriteFile(configPath, []byte(configWithUnknown), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	if _, err := LoadConfiguration(configPath); err == nil {
		t.Error("Expected error for unknown fields")
	}
}

func TestLoadConfiguration_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad version", "version: 2\n"},
		{"extension without dot", "version: 1\ncompile:\n  extensions: [\"vue\"]\n"},
		{"negative workers", "version: 1\ncompile:\n  workers: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("Failed to write config file: %v", err)
			}
			if _, err := LoadConfiguration(configPath); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestLoadConfiguration_MergeWithDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "partial.yaml")

	partialConfig := `version: 1
compile:
  file_name_transliterate: true
`
	if err := os.WriteFile(configPath, []byte(partialConfig), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfiguration(configPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if !cfg.Compile.FileNameTransliterate {
		t.Error("Expected FileNameTransliterate from config file")
	}
	// defaults still present for unspecified fields
	if len(cfg.Compile.Extensions) != 1 || cfg.Compile.Extensions[0] != ".vue" {
		t.Errorf("Extensions = %v, want defaults preserved", cfg.Compile.Extensions)
	}
}

func TestPrepare(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if len(data) == 0 {
		t.Error("Prepare() returned empty data")
	}

	cfg := &Config{}
	if _, err = unmarshalConfig(data, cfg, true); err != nil {
		t.Errorf("Prepared config is not valid: %v", err)
	}
}

func TestDump(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if len(data) == 0 {
		t.Error("Dump() returned empty data")
	}

	cfg2 := &Config{}
	if _, err = unmarshalConfig(data, cfg2, false); err != nil {
		t.Fatalf("Dumped config cannot be loaded: %v", err)
	}
	if cfg2.Version != cfg.Version || cfg2.Compile.Workers != cfg.Compile.Workers {
		t.Errorf("Config mismatch after dump/load: got %+v, want %+v", cfg2, cfg)
	}
}

func TestCleanFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"button", "button"},
		{".hidden", "hidden"},
		{"a/b", "ab"},
		{"", "_bad_file_name_"},
	}

	for _, tt := range tests {
		if got := CleanFileName(tt.in); got != tt.want {
			t.Errorf("CleanFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
