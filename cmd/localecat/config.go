package main

import (
	"fmt"
	"os"

	"github.com/loopcontext/localecat"
	"gopkg.in/yaml.v2"
)

// fileConfig mirrors the engine Config fields that make sense in a YAML
// file checked in next to the resources.
type fileConfig struct {
	Locales   []string            `yaml:"locales"`
	Default   string              `yaml:"default"`
	Fallbacks map[string][]string `yaml:"fallbacks"`
	Source    string              `yaml:"source"`
	Files     []string            `yaml:"files"`
	Backend   string              `yaml:"backend"`
	Clean     bool                `yaml:"clean"`
}

func loadFileConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if len(cfg.Files) == 0 {
		cfg.Files = []string{"messages.yaml"}
	}
	return cfg, nil
}

func (fc fileConfig) engineConfig() localecat.Config {
	return localecat.Config{
		Locales:       fc.Locales,
		DefaultLocale: fc.Default,
		Fallbacks:     fc.Fallbacks,
		Source:        fc.Source,
		Files:         fc.Files,
		Backend:       fc.Backend,
		Clean:         fc.Clean,
	}
}
