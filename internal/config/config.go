// Package config loads the application configuration from a TOML file,
// writing defaults on first run.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	DataDir            string `toml:"data_dir"`
	OllamaBin          string `toml:"ollama_bin"`
	PortRangeStart     int    `toml:"port_range_start"`
	PortRangeEnd       int    `toml:"port_range_end"`
	EmbedModel         string `toml:"embed_model"`
	CacheCapacity      int    `toml:"cache_capacity"`
	RetrievalTopN      int    `toml:"retrieval_top_n"`
	HTTPTimeoutSeconds int    `toml:"http_timeout_seconds"`
}

func Default() Config {
	return Config{
		DataDir:            defaultDataDir(),
		OllamaBin:          "ollama",
		PortRangeStart:     4200,
		PortRangeEnd:       4300,
		EmbedModel:         "nomic-embed-text",
		CacheCapacity:      20,
		RetrievalTopN:      5,
		HTTPTimeoutSeconds: 300,
	}
}

func (c Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// DefaultPath is the config location used when no --config flag is given.
func DefaultPath() string {
	return filepath.Join(defaultDataDir(), "config.toml")
}

// LoadOrCreate reads the config at path, writing the defaults there first if
// the file does not exist yet.
func LoadOrCreate(path string) (Config, error) {
	config := Default()

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return config, err
			}

			configData, err := toml.Marshal(config)
			if err != nil {
				return config, err
			}

			if err := os.WriteFile(path, configData, 0o644); err != nil {
				return config, err
			}

			return config, nil
		}

		return config, err
	}

	configData, err := os.ReadFile(path)
	if err != nil {
		return config, err
	}

	if err := toml.Unmarshal(configData, &config); err != nil {
		return config, err
	}

	config.DataDir = expandPath(config.DataDir)
	config.OllamaBin = strings.TrimSpace(config.OllamaBin)

	if config.OllamaBin == "" {
		config.OllamaBin = "ollama"
	}

	if config.PortRangeEnd < config.PortRangeStart {
		return config, errors.New("port_range_end must not be below port_range_start")
	}

	if config.CacheCapacity <= 0 {
		config.CacheCapacity = 20
	}

	if config.RetrievalTopN <= 0 {
		config.RetrievalTopN = 5
	}

	return config, nil
}

func defaultDataDir() string {
	homeDir, _ := os.UserHomeDir()

	if homeDir == "" {
		return ".parlor"
	}

	return filepath.Join(homeDir, ".parlor")
}

func expandPath(path string) string {
	if path == "" {
		return ""
	}

	if strings.HasPrefix(path, "~") {
		homeDir, _ := os.UserHomeDir()

		if homeDir != "" {
			trimmed := strings.TrimPrefix(path, "~")
			trimmed = strings.TrimPrefix(trimmed, string(os.PathSeparator))

			return filepath.Join(homeDir, trimmed)
		}
	}

	return path
}
