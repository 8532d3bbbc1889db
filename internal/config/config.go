package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	TemplatePath string `yaml:"template_path"`
	OutputPath   string `yaml:"output_path"`
	StorePath    string `yaml:"store_path"`
	Pretty       bool   `yaml:"pretty"`

	Layout struct {
		LineJoinThreshold  float64 `yaml:"line_join_threshold"`
		BlockJoinThreshold float64 `yaml:"block_join_threshold"`
	} `yaml:"layout"`

	Matching struct {
		Threshold float64 `yaml:"threshold"`
	} `yaml:"matching"`

	Chunking struct {
		Size    int `yaml:"size"`
		Overlap int `yaml:"overlap"`
	} `yaml:"chunking"`
}

// Default returns the built-in configuration used when no config file is
// given. Environment overrides apply here too.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.applyEnv()
	return cfg
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Layout.LineJoinThreshold == 0 {
		c.Layout.LineJoinThreshold = 5.0
	}
	if c.Layout.BlockJoinThreshold == 0 {
		c.Layout.BlockJoinThreshold = 12.0
	}
	if c.Matching.Threshold == 0 {
		c.Matching.Threshold = 0.75
	}
	if c.Chunking.Size == 0 {
		c.Chunking.Size = 500
	}
	if c.Chunking.Overlap == 0 {
		c.Chunking.Overlap = 150
	}
}

// applyEnv lets deployment-level settings override the file without editing
// it. The .env file, if any, is loaded by the CLI before this runs.
func (c *Config) applyEnv() {
	if v := os.Getenv("PDFSIFT_TEMPLATE"); v != "" {
		c.TemplatePath = v
	}
	if v := os.Getenv("PDFSIFT_STORE"); v != "" {
		c.StorePath = v
	}
	if v := os.Getenv("PDFSIFT_OUTPUT"); v != "" {
		c.OutputPath = v
	}
}
