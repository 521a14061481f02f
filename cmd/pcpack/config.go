package main

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config represents the tool configuration file
// (~/.config/pcpack/config.yaml). CLI flags always win over config
// values; pointer fields distinguish "not set" from zero.
type Config struct {
	// DictPath is the default hash dictionary file.
	DictPath string `yaml:"dict_path"`

	// Align is the default payload alignment for rebuilds.
	Align *int `yaml:"align"`

	// Output
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Server
	ServeAddress string `yaml:"serve_address"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "pcpack", "config.yaml")
}

// LoadConfig reads the config file. Returns a zero Config if the file
// doesn't exist or doesn't parse.
func LoadConfig() Config {
	path := configPath()
	if path == "" {
		return Config{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}
	return cfg
}

// applyDictConfig fills the dictionary path from config when the flag
// was not set.
func applyDictConfig(c *cli.Command, cfg Config, dictPath *string) {
	if cfg.DictPath != "" && !c.IsSet("dict") {
		*dictPath = cfg.DictPath
	}
}

// applyAlignConfig fills the alignment from config when the flag was not
// set.
func applyAlignConfig(c *cli.Command, cfg Config, align *int) {
	if cfg.Align != nil && !c.IsSet("align") {
		*align = *cfg.Align
	}
}

func applyServeConfig(c *cli.Command, cfg Config, addr *string) {
	if cfg.ServeAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServeAddress
	}
}
