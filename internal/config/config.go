package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	LastFM   LastFMConfig   `yaml:"lastfm"`
	AudioDB  AudioDBConfig  `yaml:"audiodb"`
	Spotify  SpotifyConfig  `yaml:"spotify"`
	Story      StoryConfig      `yaml:"story"`
	Encryption EncryptionConfig `yaml:"encryption"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port     int    `yaml:"port"`
	BasePath string `yaml:"base_path"`
}

// DatabaseConfig holds SQLite settings for the bookkeeping store.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LastFMConfig holds Last.fm API credentials.
type LastFMConfig struct {
	APIKey string `yaml:"api_key"`
}

// AudioDBConfig holds TheAudioDB API credentials. The public test key "2"
// is used when no key is configured.
type AudioDBConfig struct {
	APIKey string `yaml:"api_key"`
}

// SpotifyConfig holds the Spotify application credentials and the long-lived
// refresh token for the connected account. All three are optional; without
// them the Spotify source and the Spotify image-search fallback are disabled.
type SpotifyConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RefreshToken string `yaml:"refresh_token"`
}

// StoryConfig holds story generation settings.
type StoryConfig struct {
	TileLimit      int   `yaml:"tile_limit"`
	InlineMaxBytes int64 `yaml:"inline_max_bytes"`
}

// EncryptionConfig holds the key sealing credentials at rest. When empty, a
// key is loaded from or generated next to the database file.
type EncryptionConfig struct {
	Key string `yaml:"key"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	FilePath string `yaml:"file_path"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8080,
		},
		Database: DatabaseConfig{
			Path: "/data/rewindfm.db",
		},
		AudioDB: AudioDBConfig{
			APIKey: "2",
		},
		Story: StoryConfig{
			TileLimit:      12,
			InlineMaxBytes: 2_500_000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads config from a YAML file (if it exists) and overrides with
// environment variables. Environment variables take precedence.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFromFile(path); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	cfg.loadFromEnv()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) loadFromEnv() {
	if v := os.Getenv("RW_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("RW_BASE_PATH"); v != "" {
		c.Server.BasePath = v
	}
	if v := os.Getenv("RW_DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("RW_LASTFM_API_KEY"); v != "" {
		c.LastFM.APIKey = v
	}
	if v := os.Getenv("RW_AUDIODB_API_KEY"); v != "" {
		c.AudioDB.APIKey = v
	}
	if v := os.Getenv("RW_SPOTIFY_CLIENT_ID"); v != "" {
		c.Spotify.ClientID = v
	}
	if v := os.Getenv("RW_SPOTIFY_CLIENT_SECRET"); v != "" {
		c.Spotify.ClientSecret = v
	}
	if v := os.Getenv("RW_SPOTIFY_REFRESH_TOKEN"); v != "" {
		c.Spotify.RefreshToken = v
	}
	if v := os.Getenv("RW_ENCRYPTION_KEY"); v != "" {
		c.Encryption.Key = v
	}
	if v := os.Getenv("RW_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("RW_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("RW_LOG_FILE"); v != "" {
		c.Logging.FilePath = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}
	if c.LastFM.APIKey == "" {
		return fmt.Errorf("lastfm api_key is required")
	}
	if c.Story.TileLimit < 1 {
		return fmt.Errorf("invalid tile limit: %d", c.Story.TileLimit)
	}
	if c.Story.InlineMaxBytes < 1 {
		return fmt.Errorf("invalid inline byte ceiling: %d", c.Story.InlineMaxBytes)
	}
	c.Server.BasePath = strings.TrimRight(c.Server.BasePath, "/")
	return nil
}
