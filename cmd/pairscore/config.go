package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config is the optional pairscore configuration file
// (~/.config/pairscore/config.yaml). Values only apply to flags that were
// not set on the command line.
type Config struct {
	TokenizerJSON   string `yaml:"tokenizer_json"`
	TokenizerConfig string `yaml:"tokenizer_config"`
	TensorName      string `yaml:"tensor_name"`

	// Output
	OutputFormat string `yaml:"output_format"`
	LogLevel     string `yaml:"log_level"`
	LogFormat    string `yaml:"log_format"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "pairscore", "config.yaml")
}

// LoadConfig reads the config file at path, or the default location when
// path is empty. A missing default file yields a zero Config; a missing
// explicit file is an error.
func LoadConfig(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = configPath()
		if path == "" {
			return Config{}, nil
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// applyConfig copies config values into opts for every flag the user did
// not set explicitly.
func applyConfig(c *cli.Command, cfg Config, opts *options) {
	if cfg.TokenizerJSON != "" && !c.IsSet("tokenizer-json") {
		opts.tokenizerJSON = cfg.TokenizerJSON
	}
	if cfg.TokenizerConfig != "" && !c.IsSet("tokenizer-config") {
		opts.tokenizerConfig = cfg.TokenizerConfig
	}
	if cfg.TensorName != "" && !c.IsSet("tensor-name") {
		opts.tensorName = cfg.TensorName
	}
	if cfg.OutputFormat != "" && !c.IsSet("format") {
		opts.format = cfg.OutputFormat
	}
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		opts.logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		opts.logFormat = cfg.LogFormat
	}
}
