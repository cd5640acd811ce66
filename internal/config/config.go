package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Output types accepted in config and on the CLI.
const (
	OutputStdout = "stdout"
	OutputCSV    = "csv"
)

// DefaultDir and DefaultFile locate the config file relative to the working
// directory when no -c flag is given.
const (
	DefaultDir  = "config"
	DefaultFile = "config.json"
)

// placeholderPrefix marks template filler entries in the generated default
// config. Entries carrying it are stripped after parsing.
const placeholderPrefix = "__"

// ErrGenerated is returned by Load when no config file existed and a default
// one was written for the user to edit.
var ErrGenerated = eris.New("config: default config file generated")

// Config holds the full run configuration after file/CLI merging.
type Config struct {
	Source          string              `json:"source" mapstructure:"source"`
	OutputType      string              `json:"output_type" mapstructure:"output_type"`
	OutputPath      string              `json:"output_path" mapstructure:"output_path"`
	HasHeaders      bool                `json:"has_headers" mapstructure:"has_headers"`
	Fields          []string            `json:"fields" mapstructure:"fields"`
	UniqueFields    []string            `json:"unique_fields" mapstructure:"unique_fields"`
	IncludeColsWith map[string][]string `json:"include_cols_with" mapstructure:"include_cols_with"`
}

// Overrides carries already-parsed CLI values. Empty fields leave the config
// file value untouched.
type Overrides struct {
	Source     string
	ConfigFile string
	OutputType string
	OutputPath string
}

// Load reads the JSON config file and applies CLI overrides field-by-field.
//
// When no -c path is given and the default config file is missing or empty, a
// filler config is written and ErrGenerated returned so the caller can tell
// the user to edit it.
func Load(ov Overrides) (*Config, error) {
	path := ov.ConfigFile
	if path == "" {
		p, err := ensureDefault()
		if err != nil {
			return nil, err
		}
		path = p
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	v.SetDefault("output_type", OutputStdout)
	v.SetDefault("has_headers", true)

	if err := v.ReadInConfig(); err != nil {
		return nil, eris.Wrap(err, "config: read file")
	}

	// CLI wins over the file, field by field.
	if ov.Source != "" {
		v.Set("source", ov.Source)
	}
	if ov.OutputType != "" {
		v.Set("output_type", ov.OutputType)
	}
	if ov.OutputPath != "" {
		v.Set("output_path", ov.OutputPath)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	// Viper lowercases nested map keys, but filter column names must match
	// CSV headers verbatim. Decode the filter map straight from the file.
	filters, err := caseExactFilters(path)
	if err != nil {
		return nil, err
	}
	cfg.IncludeColsWith = filters

	if cfg.OutputType != OutputStdout && cfg.OutputType != OutputCSV {
		return nil, eris.Errorf("config: unknown output_type %q", cfg.OutputType)
	}

	cfg.stripPlaceholders()
	cfg.fixOutputExtension()

	return &cfg, nil
}

// stripPlaceholders drops the __ filler entries the generated default config
// ships with.
func (c *Config) stripPlaceholders() {
	kept := c.Fields[:0]
	for _, f := range c.Fields {
		if !isPlaceholder(f) {
			kept = append(kept, f)
		}
	}
	c.Fields = kept

	for k := range c.IncludeColsWith {
		if isPlaceholder(k) {
			delete(c.IncludeColsWith, k)
		}
	}
}

// fixOutputExtension forces a .csv extension when the user configured a bare
// filename as the output path.
func (c *Config) fixOutputExtension() {
	if c.OutputPath == "" {
		return
	}
	if filepath.Ext(c.OutputPath) == "" {
		c.OutputPath += ".csv"
	}
}

// caseExactFilters re-reads include_cols_with from the raw JSON, preserving
// key case.
func caseExactFilters(path string) (map[string][]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "config: read file")
	}

	var aux struct {
		IncludeColsWith map[string][]string `json:"include_cols_with"`
	}
	if err := json.Unmarshal(raw, &aux); err != nil {
		return nil, eris.Wrap(err, "config: parse include_cols_with")
	}
	return aux.IncludeColsWith, nil
}

func isPlaceholder(s string) bool {
	return len(s) >= len(placeholderPrefix) && s[:len(placeholderPrefix)] == placeholderPrefix
}

// ensureDefault returns the default config path, generating the filler file
// if it is missing or empty.
func ensureDefault() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", eris.Wrap(err, "config: get working directory")
	}

	dir := filepath.Join(wd, DefaultDir)
	path := filepath.Join(dir, DefaultFile)

	info, err := os.Stat(path)
	if err == nil && info.Size() > 0 {
		return path, nil
	}

	if err := WriteDefault(path); err != nil {
		return "", err
	}
	zap.L().Warn("no config file found, generated a default one", zap.String("path", path))
	return "", ErrGenerated
}

// WriteDefault writes the filler config to path, creating parent directories.
func WriteDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrap(err, "config: create config directory")
	}
	if err := os.WriteFile(path, []byte(DefaultFiller), 0o644); err != nil {
		return eris.Wrap(err, "config: write default config")
	}
	return nil
}

// DefaultFiller is the generated starter config. The __ entries are template
// filler and are stripped on load.
const DefaultFiller = `{
  "source": "path/to/file.csv",
  "output_type": "stdout",
  "output_path": "path/to/output.csv",
  "has_headers": true,
  "fields": [
    "__fields_to_retain_always",
    "__fields_to_retain_always2"
  ],
  "unique_fields": [],
  "include_cols_with": {
    "__fields_that_need_filtering_for_values": [
      "__value_of_field_to_filter_for",
      "__value_of_field_to_filter_for2"
    ]
  }
}
`
