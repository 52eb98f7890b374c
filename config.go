package main

import (
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

var (
	moonConfig     *Config
	moonConfigOnce sync.Once
)

type Config struct {
	Store  *bool  `yaml:"store" toml:"store"`
	Verify bool   `yaml:"verify" toml:"verify"`
	Format string `yaml:"format" toml:"format"`
	Jobs   int    `yaml:"jobs" toml:"jobs"`
	Output string `yaml:"output" toml:"output"`
}

func (c *Config) StoreRuns() bool {
	return c.Store == nil || *c.Store
}

func getMoonConfig() *Config {
	moonConfigOnce.Do(func() {
		moonConfig = new(Config)
		file, configPath := getConfig()
		if file == nil {
			return
		}
		defer file.Close()
		config, err := loadConfig(file, filepath.Ext(configPath))
		if err != nil {
			logFatal(fmt.Errorf("config %s: %w", configPath, err))
		}
		moonConfig = config
	})
	return moonConfig
}

func loadConfig(r io.Reader, ext string) (*Config, error) {
	config := new(Config)
	switch ext {
	case ".toml":
		if _, err := toml.NewDecoder(r).Decode(config); err != nil {
			return nil, err
		}
	default:
		if err := yaml.NewDecoder(r).Decode(config); err != nil && err != io.EOF {
			return nil, err
		}
	}
	if config.Jobs < 0 {
		return nil, fmt.Errorf("jobs must not be negative, got %d", config.Jobs)
	}
	return config, nil
}
