package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestEnvReaderDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TASKVAULT_DATA_DIR", dir)

	cfg, err := NewEnvReader().Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if cfg.Env != EnvProd {
		t.Errorf("Expected env prod, got %q", cfg.Env)
	}
	if cfg.Cipher != "aead" {
		t.Errorf("Expected aead cipher, got %q", cfg.Cipher)
	}
	if cfg.StorageKey != "taskManagementAppData" {
		t.Errorf("Unexpected storage key %q", cfg.StorageKey)
	}
	if cfg.Session.TTL != 60*time.Second || cfg.Session.PollInterval != 10*time.Second {
		t.Errorf("Unexpected session config %+v", cfg.Session)
	}
	if cfg.LogFile != filepath.Join(dir, "taskvault.log") {
		t.Errorf("Expected log file in data dir, got %q", cfg.LogFile)
	}
}

func TestEnvReaderOverrides(t *testing.T) {
	t.Setenv("TASKVAULT_DATA_DIR", t.TempDir())
	t.Setenv("TASKVAULT_ENV", "local")
	t.Setenv("TASKVAULT_CIPHER", "xor")
	t.Setenv("TASKVAULT_SESSION_TTL", "5m")

	cfg, err := NewEnvReader().Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if cfg.Env != EnvLocal || cfg.Cipher != "xor" || cfg.Session.TTL != 5*time.Minute {
		t.Errorf("Overrides not applied: %+v", cfg)
	}
}

func TestEnvReaderRejectsBadValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"TASKVAULT_ENV", "staging"},
		{"TASKVAULT_CIPHER", "rot13"},
		{"TASKVAULT_SESSION_TTL", "-1s"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv("TASKVAULT_DATA_DIR", t.TempDir())
			t.Setenv(tt.key, tt.value)
			if _, err := NewEnvReader().Read(); err == nil {
				t.Errorf("Expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestFileReader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `env: dev
data_dir: ` + dir + `
cipher: xor
session:
  ttl: 2m
  poll_interval: 3s
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Env != EnvDev || cfg.Cipher != "xor" || cfg.DataDir != dir {
		t.Errorf("Unexpected config %+v", cfg)
	}
	if cfg.Session.TTL != 2*time.Minute || cfg.Session.PollInterval != 3*time.Second {
		t.Errorf("Unexpected session config %+v", cfg.Session)
	}
}
