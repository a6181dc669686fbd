// Package config loads service configuration from config.yaml, an
// optional config.local.yaml override, and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration parses yaml scalars either as Go duration strings ("90s",
// "2m") or as integer nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var n int64
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("invalid duration value: %w", err)
	}
	*d = Duration(n)
	return nil
}

// Std converts to the standard library type.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the full service configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	ASR         ASRConfig         `yaml:"asr"`
	TTS         TTSConfig         `yaml:"tts"`
	Diarization DiarizationConfig `yaml:"diarization"`
	Alignment   AlignmentConfig   `yaml:"alignment"`
	Session     SessionConfig     `yaml:"session"`
	Database    DatabaseConfig    `yaml:"database"`
	Storage     StorageConfig     `yaml:"storage"`
	Cache       CacheConfig       `yaml:"cache"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type ASRConfig struct {
	Provider           string        `yaml:"provider"`
	Model              string        `yaml:"model"`
	Language           string        `yaml:"language"`
	MinSegmentDuration float64       `yaml:"min_segment_duration"`
	NumSpeakers        int           `yaml:"num_speakers"`
	SegmentWorkers     int           `yaml:"segment_workers"`
	SegmentTimeout     Duration      `yaml:"segment_timeout"`
	SegmentRetries     int           `yaml:"segment_retries"`
}

type TTSConfig struct {
	Model string  `yaml:"model"`
	Voice string  `yaml:"voice"`
	Speed float64 `yaml:"speed"`
}

type DiarizationConfig struct {
	SegmentsFile string `yaml:"segments_file"`
	UseEnergy    bool   `yaml:"use_energy_fallback"`
}

type AlignmentConfig struct {
	ResultFile string `yaml:"result_file"`
}

type SessionConfig struct {
	BaseDir         string   `yaml:"base_dir"`
	Retention       Duration `yaml:"retention"`
	CleanupInterval Duration `yaml:"cleanup_interval"`
}

type DatabaseConfig struct {
	Driver     string `yaml:"driver"` // sqlite or postgres
	SQLitePath string `yaml:"sqlite_path"`
	PostgresDS string `yaml:"postgres_dsn"`
}

type StorageConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type CacheConfig struct {
	Enabled bool     `yaml:"enabled"`
	Addr    string   `yaml:"addr"`
	TTL     Duration `yaml:"ttl"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 5001,
		},
		ASR: ASRConfig{
			Provider:           "whisper",
			Language:           "zh",
			MinSegmentDuration: 0.1,
			NumSpeakers:        2,
			SegmentWorkers:     4,
			SegmentTimeout:     Duration(2 * time.Minute),
			SegmentRetries:     1,
		},
		TTS: TTSConfig{
			Voice: "alloy",
			Speed: 1.0,
		},
		Diarization: DiarizationConfig{
			UseEnergy: true,
		},
		Session: SessionConfig{
			BaseDir:         "data/sessions",
			Retention:       Duration(24 * time.Hour),
			CleanupInterval: Duration(time.Hour),
		},
		Database: DatabaseConfig{
			Driver:     "sqlite",
			SQLitePath: "data/transcripts.db",
		},
		Cache: CacheConfig{
			Addr: "localhost:6379",
			TTL:  Duration(24 * time.Hour),
		},
	}
}

// Load reads config.yaml from dir, applies config.local.yaml on top if
// present, then environment overrides. Missing files fall back to
// defaults; a malformed file is an error.
func Load(dir string) (*Config, error) {
	cfg := Default()

	for _, name := range []string{"config.yaml", "config.local.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DUALSCRIBE_PORT"); v != "" {
		var port int
		if _, err := fmt.Sscanf(v, "%d", &port); err == nil && port > 0 {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("DUALSCRIBE_LANGUAGE"); v != "" {
		c.ASR.Language = v
	}
	if v := os.Getenv("DUALSCRIBE_DB_DRIVER"); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.PostgresDS = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Addr = v
	}
	if v := os.Getenv("MINIO_ENDPOINT"); v != "" {
		c.Storage.Endpoint = v
	}
	if v := os.Getenv("MINIO_ACCESS_KEY"); v != "" {
		c.Storage.AccessKey = v
	}
	if v := os.Getenv("MINIO_SECRET_KEY"); v != "" {
		c.Storage.SecretKey = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.ASR.MinSegmentDuration < 0 {
		return fmt.Errorf("min_segment_duration cannot be negative")
	}
	if c.ASR.SegmentWorkers < 1 {
		c.ASR.SegmentWorkers = 1
	}
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	return nil
}

// Addr returns the listen address.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
