package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/tgienger/taskvault/internal/codec"
	"github.com/tgienger/taskvault/internal/db"
)

type Reader interface {
	Read() (*Config, error)
}

// EnvReader reads configuration from the environment only
type EnvReader struct{}

func NewEnvReader() EnvReader {
	return EnvReader{}
}

func (EnvReader) Read() (*Config, error) {
	cfg := new(Config)
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, err
	}
	return finish(cfg)
}

// FileReader reads a YAML file and lets the environment override it
type FileReader struct {
	Path string
}

func NewFileReader(path string) FileReader {
	return FileReader{Path: path}
}

func (r FileReader) Read() (*Config, error) {
	cfg := new(Config)
	if err := cleanenv.ReadConfig(r.Path, cfg); err != nil {
		return nil, err
	}
	return finish(cfg)
}

// finish fills derived defaults and validates
func finish(cfg *Config) (*Config, error) {
	switch cfg.Env {
	case EnvDev, EnvProd, EnvLocal:
	default:
		return nil, fmt.Errorf("unknown env: %s", cfg.Env)
	}
	if _, err := codec.Lookup(cfg.Cipher); err != nil {
		return nil, err
	}
	if cfg.Session.TTL <= 0 {
		return nil, fmt.Errorf("session ttl must be positive, got %v", cfg.Session.TTL)
	}
	if cfg.Session.PollInterval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive, got %v", cfg.Session.PollInterval)
	}

	if cfg.DataDir == "" {
		dir, err := db.DefaultDataDir()
		if err != nil {
			return nil, err
		}
		cfg.DataDir = dir
	}
	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(cfg.DataDir, "taskvault.log")
	}
	return cfg, nil
}

// Load picks the file reader when path is set and exists, the env reader otherwise
func Load(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return NewFileReader(path).Read()
		}
	}
	return NewEnvReader().Read()
}
