package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "routetree.yaml"

// Config represents the routetree.yaml configuration.
type Config struct {
	Repo            string   `yaml:"repo"`
	Root            string   `yaml:"root"`
	TSConfig        string   `yaml:"tsconfig"`
	Sources         []string `yaml:"sources"`
	Ignore          []string `yaml:"ignore"`
	TitleAnnotation string   `yaml:"title_annotation"`
}

// Default returns a Config with the conventional workspace layout.
func Default() *Config {
	return &Config{
		Repo:     ".",
		Root:     "apps/funsel/src/app/app-routing.module.ts",
		TSConfig: "tsconfig.base.json",
		Sources: []string{
			"apps/funsel/**/*",
			"libs/**/*",
		},
		Ignore: []string{
			"node_modules/**",
			".git/**",
			"dist/**",
			"**/*.spec.ts",
			"**/*.d.ts",
		},
		TitleAnnotation: "FunselPage",
	}
}

// Load reads a configuration file from the given path.
// Missing fields are filled with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	def := Default()
	if cfg.Repo == "" {
		cfg.Repo = def.Repo
	}
	if cfg.Root == "" {
		cfg.Root = def.Root
	}
	if cfg.TSConfig == "" {
		cfg.TSConfig = def.TSConfig
	}
	if len(cfg.Sources) == 0 {
		cfg.Sources = def.Sources
	}
	if cfg.TitleAnnotation == "" {
		cfg.TitleAnnotation = def.TitleAnnotation
	}

	return cfg, nil
}
