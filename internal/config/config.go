package config

import "time"

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

type Config struct {
	Env        string        `yaml:"env" env:"TASKVAULT_ENV" env-default:"prod"`
	DataDir    string        `yaml:"data_dir" env:"TASKVAULT_DATA_DIR"`
	LogFile    string        `yaml:"log_file" env:"TASKVAULT_LOG_FILE"`
	StorageKey string        `yaml:"storage_key" env:"TASKVAULT_STORAGE_KEY" env-default:"taskManagementAppData"`
	Cipher     string        `yaml:"cipher" env:"TASKVAULT_CIPHER" env-default:"aead"`
	Session    SessionConfig `yaml:"session"`
}

type SessionConfig struct {
	TTL          time.Duration `yaml:"ttl" env:"TASKVAULT_SESSION_TTL" env-default:"60s"`
	PollInterval time.Duration `yaml:"poll_interval" env:"TASKVAULT_POLL_INTERVAL" env-default:"10s"`
}
