package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const configFile = ".lispy.yaml"

// Config holds front-end settings read from the YAML config file. Zero
// fields fall back to the defaults.
type Config struct {
	Prompt             string `yaml:"prompt"`
	ContinuationPrompt string `yaml:"continuation_prompt"`
	HistoryFile        string `yaml:"history_file"`
	MaxDepth           int    `yaml:"max_depth"`
	CollectList        bool   `yaml:"collect_list"`
}

func defaultConfig() Config {
	return Config{
		Prompt:             "lispy> ",
		ContinuationPrompt: "...... ",
		HistoryFile:        "~/.lispy_history",
	}
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, configFile)
}

// loadConfig reads path over the defaults. A missing file is only an error
// when the path was given explicitly.
func loadConfig(path string, explicit bool) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer file.Close()

	var raw Config
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if raw.MaxDepth < 0 {
		return cfg, fmt.Errorf("config: %s: max_depth must not be negative", path)
	}

	cfg.merge(raw)
	return cfg, nil
}

func (c *Config) merge(other Config) {
	if other.Prompt != "" {
		c.Prompt = other.Prompt
	}
	if other.ContinuationPrompt != "" {
		c.ContinuationPrompt = other.ContinuationPrompt
	}
	if other.HistoryFile != "" {
		c.HistoryFile = other.HistoryFile
	}
	if other.MaxDepth != 0 {
		c.MaxDepth = other.MaxDepth
	}
	if other.CollectList {
		c.CollectList = true
	}
}

// historyPath expands a leading ~ in the history file setting.
func (c Config) historyPath() string {
	path := c.HistoryFile
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
