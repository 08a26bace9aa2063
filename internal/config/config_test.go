package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Diagram.LinkPrefix != "AL_" {
		t.Errorf("Diagram.LinkPrefix = %q, want %q", cfg.Diagram.LinkPrefix, "AL_")
	}
	if cfg.Diagram.FontMarker != " embedded" {
		t.Errorf("Diagram.FontMarker = %q, want %q", cfg.Diagram.FontMarker, " embedded")
	}
	if cfg.Diagram.LinkTarget != "_top" {
		t.Errorf("Diagram.LinkTarget = %q, want %q", cfg.Diagram.LinkTarget, "_top")
	}
	if cfg.Filter.IntrospectMarker != "AL_INTROSPECT" {
		t.Errorf("Filter.IntrospectMarker = %q, want %q", cfg.Filter.IntrospectMarker, "AL_INTROSPECT")
	}
	if cfg.Filter.AlignedMarker != "__AL_ALIGNED__" {
		t.Errorf("Filter.AlignedMarker = %q, want %q", cfg.Filter.AlignedMarker, "__AL_ALIGNED__")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestValidateFieldLength(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		maxLength int
		wantErr   bool
	}{
		{"empty value is valid", "", 10, false},
		{"value at limit is valid", "1234567890", 10, false},
		{"value over limit returns error", "12345678901", 10, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := validateFieldLength("test.field", tt.value, tt.maxLength)
			if tt.wantErr {
				if !errors.Is(err, ErrFieldTooLong) {
					t.Errorf("error = %v, want ErrFieldTooLong", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"html index format", func(c *Config) { c.Diagram.IndexFormat = "HTML" }, nil},
		{"unknown index format", func(c *Config) { c.Diagram.IndexFormat = "pdf" }, ErrInvalidValue},
		{"empty link target", func(c *Config) { c.Diagram.LinkTarget = "" }, ErrInvalidValue},
		{"negative workers", func(c *Config) { c.Diagram.Workers = -1 }, ErrInvalidValue},
		{"empty introspect marker", func(c *Config) { c.Filter.IntrospectMarker = "" }, ErrInvalidValue},
		{"empty aligned marker", func(c *Config) { c.Filter.AlignedMarker = "" }, ErrInvalidValue},
		{"link prefix too long", func(c *Config) { c.Diagram.LinkPrefix = strings.Repeat("x", MaxPrefixLength+1) }, ErrFieldTooLong},
		{"font marker too long", func(c *Config) { c.Diagram.FontMarker = strings.Repeat("x", MaxMarkerLength+1) }, ErrFieldTooLong},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParse(t *testing.T) {
	t.Run("partial config keeps defaults", func(t *testing.T) {
		cfg, err := Parse([]byte("diagram:\n  linkPrefix: XX_\n  workers: 4\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := DefaultConfig()
		want.Diagram.LinkPrefix = "XX_"
		want.Diagram.Workers = 4
		if diff := cmp.Diff(want, cfg); diff != "" {
			t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("empty document yields defaults", func(t *testing.T) {
		cfg, err := Parse([]byte("\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
			t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("unknown field is rejected", func(t *testing.T) {
		_, err := Parse([]byte("diagram:\n  colour: red\n"))
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("invalid value is rejected", func(t *testing.T) {
		_, err := Parse([]byte("diagram:\n  indexFormat: pdf\n"))
		if !errors.Is(err, ErrInvalidValue) {
			t.Errorf("error = %v, want ErrInvalidValue", err)
		}
	})

	t.Run("oversized input is rejected", func(t *testing.T) {
		_, err := Parse(make([]byte, MaxConfigSize+1))
		if !errors.Is(err, ErrConfigTooLarge) {
			t.Errorf("error = %v, want ErrConfigTooLarge", err)
		}
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("empty name", func(t *testing.T) {
		_, err := LoadConfig("")
		if !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("error = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("explicit path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "doxyprep.yaml")
		content := "filter:\n  alignedMarker: MY_ALIGNED\n"
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Filter.AlignedMarker != "MY_ALIGNED" {
			t.Errorf("Filter.AlignedMarker = %q, want %q", cfg.Filter.AlignedMarker, "MY_ALIGNED")
		}
		if cfg.Filter.IntrospectMarker != "AL_INTROSPECT" {
			t.Errorf("Filter.IntrospectMarker = %q, want default", cfg.Filter.IntrospectMarker)
		}
	})

	t.Run("missing explicit path", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("name resolved in current directory", func(t *testing.T) {
		dir := t.TempDir()
		chdir(t, dir)
		if err := os.WriteFile(filepath.Join(dir, "docs.yml"), []byte("diagram:\n  linkTarget: _blank\n"), 0o644); err != nil {
			t.Fatal(err)
		}

		cfg, err := LoadConfig("docs")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Diagram.LinkTarget != "_blank" {
			t.Errorf("Diagram.LinkTarget = %q, want %q", cfg.Diagram.LinkTarget, "_blank")
		}
	})

	t.Run("unknown name lists searched paths", func(t *testing.T) {
		chdir(t, t.TempDir())

		_, err := LoadConfig("nonexistent-doxyprep-config")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("error = %v, want ErrConfigNotFound", err)
		}
		if !strings.Contains(err.Error(), "nonexistent-doxyprep-config.yaml") {
			t.Errorf("error should list searched paths, got %q", err.Error())
		}
	})
}

func TestSearchPaths(t *testing.T) {
	paths := SearchPaths("docs")
	if len(paths) < 2 {
		t.Fatalf("len(paths) = %d, want at least 2", len(paths))
	}
	if paths[0] != "docs.yaml" || paths[1] != "docs.yml" {
		t.Errorf("local paths = %v, want [docs.yaml docs.yml]", paths[:2])
	}
	for _, p := range paths[2:] {
		if !strings.Contains(p, userConfigDirName) {
			t.Errorf("user path %q should contain %q", p, userConfigDirName)
		}
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir for Go < 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
