package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"listfetch/internal/spec"
)

const SupportedSchema = "v1"

// Default is used when no pipeline file is given: the http source with its
// defaults and a stdout sink.
func Default() spec.File {
	var f spec.File
	f.SchemaVersion = SupportedSchema
	f.Sinks = []string{"stdout"}
	f.UI.Theme = "auto"
	return f
}

// LoadPipelineSpec parses a pipeline YAML, validates schema_version, and
// returns the parsed spec and an absolute path to the source config (if set).
func LoadPipelineSpec(path string) (spec.File, string, error) {
	var cfg spec.File
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, "", err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, "", fmt.Errorf("pipeline %s: %w", path, err)
	}
	if cfg.SchemaVersion == "" {
		cfg.SchemaVersion = SupportedSchema
	}
	if cfg.SchemaVersion != SupportedSchema {
		return cfg, "", fmt.Errorf("pipeline schema_version %q not supported (want %q)", cfg.SchemaVersion, SupportedSchema)
	}
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = "auto"
	}
	confPath := cfg.Source.Config
	if confPath != "" && !filepath.IsAbs(confPath) {
		confPath = filepath.Join(filepath.Dir(path), confPath)
	}
	if confPath != "" {
		if abs, err := filepath.Abs(confPath); err == nil {
			confPath = abs
		}
	}
	return cfg, confPath, nil
}
