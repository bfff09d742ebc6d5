package compile

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"scopec/config"
	"scopec/scope"
	"scopec/state"
)

func setupPathEnv(t *testing.T, noDirs, transliterate bool, template string) *state.LocalEnv {
	t.Helper()
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg.Compile.FileNameTransliterate = transliterate
	cfg.Compile.OutputNameTemplate = template

	return &state.LocalEnv{
		Log:    zaptest.NewLogger(t),
		Cfg:    cfg,
		NoDirs: noDirs,
	}
}

func pathArtifacts() *Artifacts {
	return &Artifacts{Component: "button", Scope: scope.ID("abc123def456")}
}

func TestBuildOutputPath_Default_NoDirs(t *testing.T) {
	env := setupPathEnv(t, true, false, "")

	result := buildOutputPath(pathArtifacts(), "components/forms/button.vue", "/output", ".css", env)
	expected := filepath.Join("/output", "button.css")
	if result != expected {
		t.Errorf("buildOutputPath() = %q, want %q", result, expected)
	}
}

func TestBuildOutputPath_Default_WithDirs(t *testing.T) {
	env := setupPathEnv(t, false, false, "")

	result := buildOutputPath(pathArtifacts(), "components/forms/button.vue", "/output", ".css", env)
	expected := filepath.Join("/output", "components", "forms", "button.css")
	if result != expected {
		t.Errorf("buildOutputPath() = %q, want %q", result, expected)
	}
}

func TestBuildOutputPath_Transliterate(t *testing.T) {
	env := setupPathEnv(t, true, true, "")

	result := buildOutputPath(pathArtifacts(), "Кнопка.vue", "/output", ".css", env)
	expected := filepath.Join("/output", "knopka.css")
	if result != expected {
		t.Errorf("buildOutputPath() = %q, want %q", result, expected)
	}
}

func TestBuildOutputPath_Template(t *testing.T) {
	env := setupPathEnv(t, true, false, "{{ .Component }}-{{ .Scope }}")

	result := buildOutputPath(pathArtifacts(), "button.vue", "/output", ".css", env)
	expected := filepath.Join("/output", "button-abc123def456.css")
	if result != expected {
		t.Errorf("buildOutputPath() = %q, want %q", result, expected)
	}
}

func TestBuildOutputPath_TemplateWithSubdirs(t *testing.T) {
	env := setupPathEnv(t, true, false, "{{ .Scope }}/{{ .SourceFile }}")

	result := buildOutputPath(pathArtifacts(), "button.vue", "/output", ".html", env)
	expected := filepath.Join("/output", "abc123def456", "button.html")
	if result != expected {
		t.Errorf("buildOutputPath() = %q, want %q", result, expected)
	}
}

func TestBuildOutputPath_BadTemplateFallsBack(t *testing.T) {
	env := setupPathEnv(t, true, false, "{{ .Component ")

	result := buildOutputPath(pathArtifacts(), "button.vue", "/output", ".css", env)
	expected := filepath.Join("/output", "button.css")
	if result != expected {
		t.Errorf("buildOutputPath() = %q, want %q", result, expected)
	}
}

func TestDefaultFileName(t *testing.T) {
	tests := []struct {
		name          string
		src           string
		transliterate bool
		expected      string
	}{
		{"simple", "button.vue", false, "button.css"},
		{"with path", "path/to/button.vue", false, "button.css"},
		{"transliterate", "Кнопка.vue", true, "knopka.css"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupPathEnv(t, true, tt.transliterate, "")
			if result := defaultFileName(tt.src, ".css", env); result != tt.expected {
				t.Errorf("defaultFileName() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestSplitPath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected []string
	}{
		{"simple path", "scope/button", []string{"scope", "button"}},
		{"single segment", "button", []string{"button"}},
		{"with trailing slash", "scope/button/", []string{"scope", "button"}},
		{"three levels", "app/scope/button", []string{"app", "scope", "button"}},
		{"empty path", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := splitPath(tt.path)
			if len(result) != len(tt.expected) {
				t.Fatalf("splitPath() length = %d, want %d", len(result), len(tt.expected))
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("splitPath()[%d] = %q, want %q", i, result[i], tt.expected[i])
				}
			}
		})
	}
}
