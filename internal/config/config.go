package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/alnah/go-doxyprep/internal/fileutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrConfigTooLarge  = errors.New("config exceeds maximum size")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// MaxConfigSize limits config input to prevent memory exhaustion (1MB).
const MaxConfigSize = 1 << 20

// Field length limits.
const (
	MaxPrefixLength = 64  // "AL_"
	MaxMarkerLength = 128 // " embedded", "AL_INTROSPECT"
	MaxTargetLength = 64  // "_top", "_blank"
)

// userConfigDirName is the directory searched under os.UserConfigDir.
const userConfigDirName = "go-doxyprep"

// Config holds all configuration for both tools.
type Config struct {
	Diagram DiagramConfig `yaml:"diagram"`
	Filter  FilterConfig  `yaml:"filter"`
}

// DiagramConfig defines diagram link-rewriter options.
type DiagramConfig struct {
	LinkPrefix  string `yaml:"linkPrefix"`  // index entries must start with this (default: "AL_")
	FontMarker  string `yaml:"fontMarker"`  // removed from font-family (default: " embedded")
	LinkTarget  string `yaml:"linkTarget"`  // hyperlink target (default: "_top")
	IndexFormat string `yaml:"indexFormat"` // "xhtml" or "html" (default: "xhtml")
	Workers     int    `yaml:"workers"`     // batch workers, 0 = auto
}

// FilterConfig defines annotation stripper options.
type FilterConfig struct {
	IntrospectMarker string `yaml:"introspectMarker"` // default: "AL_INTROSPECT"
	AlignedMarker    string `yaml:"alignedMarker"`    // default: "__AL_ALIGNED__"
}

// Validate checks field lengths and enumerations.
// Called automatically by LoadConfig, but available for callers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("diagram.linkPrefix", c.Diagram.LinkPrefix, MaxPrefixLength); err != nil {
		return err
	}
	if err := validateFieldLength("diagram.fontMarker", c.Diagram.FontMarker, MaxMarkerLength); err != nil {
		return err
	}
	if err := validateFieldLength("diagram.linkTarget", c.Diagram.LinkTarget, MaxTargetLength); err != nil {
		return err
	}
	if c.Diagram.LinkTarget == "" {
		return fmt.Errorf("%w: diagram.linkTarget: must not be empty", ErrInvalidValue)
	}
	switch strings.ToLower(c.Diagram.IndexFormat) {
	case "", "xhtml", "html":
		// valid
	default:
		return fmt.Errorf("%w: diagram.indexFormat: %q (must be xhtml or html)", ErrInvalidValue, c.Diagram.IndexFormat)
	}
	if c.Diagram.Workers < 0 {
		return fmt.Errorf("%w: diagram.workers: must not be negative, got %d", ErrInvalidValue, c.Diagram.Workers)
	}

	if err := validateFieldLength("filter.introspectMarker", c.Filter.IntrospectMarker, MaxMarkerLength); err != nil {
		return err
	}
	if err := validateFieldLength("filter.alignedMarker", c.Filter.AlignedMarker, MaxMarkerLength); err != nil {
		return err
	}
	if c.Filter.IntrospectMarker == "" {
		return fmt.Errorf("%w: filter.introspectMarker: must not be empty", ErrInvalidValue)
	}
	if c.Filter.AlignedMarker == "" {
		return fmt.Errorf("%w: filter.alignedMarker: must not be empty", ErrInvalidValue)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration matching the generated
// documentation this tool was written for.
func DefaultConfig() *Config {
	return &Config{
		Diagram: DiagramConfig{
			LinkPrefix:  "AL_",
			FontMarker:  " embedded",
			LinkTarget:  "_top",
			IndexFormat: "xhtml",
		},
		Filter: FilterConfig{
			IntrospectMarker: "AL_INTROSPECT",
			AlignedMarker:    "__AL_ALIGNED__",
		},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Fields missing from the file keep their DefaultConfig values.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}
	return cfg, nil
}

// Parse decodes YAML config data, fills unset fields from DefaultConfig and
// validates the result.
// Unknown fields are rejected.
func Parse(data []byte) (*Config, error) {
	if len(data) > MaxConfigSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrConfigTooLarge, len(data), MaxConfigSize)
	}

	var fromFile Config
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := yaml.UnmarshalWithOptions(data, &fromFile, yaml.Strict()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
		}
	}

	cfg := DefaultConfig()
	cfg.merge(&fromFile)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// merge copies the non-zero fields of other into c.
func (c *Config) merge(other *Config) {
	setIfNotEmpty(&c.Diagram.LinkPrefix, other.Diagram.LinkPrefix)
	setIfNotEmpty(&c.Diagram.FontMarker, other.Diagram.FontMarker)
	setIfNotEmpty(&c.Diagram.LinkTarget, other.Diagram.LinkTarget)
	setIfNotEmpty(&c.Diagram.IndexFormat, other.Diagram.IndexFormat)
	if other.Diagram.Workers != 0 {
		c.Diagram.Workers = other.Diagram.Workers
	}
	setIfNotEmpty(&c.Filter.IntrospectMarker, other.Filter.IntrospectMarker)
	setIfNotEmpty(&c.Filter.AlignedMarker, other.Filter.AlignedMarker)
}

func setIfNotEmpty(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

// SearchPaths returns the locations tried for a config name, in order.
// Tries extensions .yaml then .yml, in the current directory first and then
// in the user config directory.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, userConfigDirName, name+ext))
		}
	}
	return paths
}

// resolveConfigPath searches for a config file by name in standard locations.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
