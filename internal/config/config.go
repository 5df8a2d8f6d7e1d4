// Package config loads the optional YAML configuration file. Everything has
// a sensible default; the file only overrides what it names.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Language preselects the prompt language (en, fr, ar); empty means
	// ask interactively.
	Language string `yaml:"language"`
	// Translations is the path of the JSON translation catalog.
	Translations string `yaml:"translations"`
	// SampleWindow is the number of points sampled from the set minimum.
	SampleWindow int `yaml:"sample_window"`
	// PrimeCap bounds prime annotation of sampled results (0 = unbounded).
	PrimeCap int64 `yaml:"prime_cap"`
	// ListenAddr is the bind address of the HTTP API server.
	ListenAddr string `yaml:"listen_addr"`
}

func Default() Config {
	return Config{
		Translations: "translations.json",
		SampleWindow: 10,
		PrimeCap:     1000,
		ListenAddr:   ":8080",
	}
}

// Load reads path over the defaults. An empty path returns the defaults;
// a named but unreadable or malformed file is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config file %s: %w", path, err)
	}
	if cfg.SampleWindow <= 0 {
		cfg.SampleWindow = Default().SampleWindow
	}
	if cfg.Translations == "" {
		cfg.Translations = Default().Translations
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = Default().ListenAddr
	}
	return cfg, nil
}
