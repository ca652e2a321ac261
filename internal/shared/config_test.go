package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Sync.MaxVideoSeconds != 10000 {
		t.Errorf("DefaultConfig() max_video_seconds = %v, want 10000", config.Sync.MaxVideoSeconds)
	}
	if config.Credentials.Google.TokenPath != "token.json" {
		t.Errorf("DefaultConfig() token_path = %v, want token.json", config.Credentials.Google.TokenPath)
	}
	if config.Server.Port != 8484 {
		t.Errorf("DefaultConfig() server port = %v, want 8484", config.Server.Port)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
[credentials.google]
client_id = "abc"
client_secret = "def"
token_path = "/tmp/token.json"

[sync]
max_video_seconds = 600
ledger_dir = "/var/lib/topho"

[database]
path = ":memory:"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if config.Credentials.Google.ClientID != "abc" {
		t.Errorf("LoadConfig() client_id = %v, want abc", config.Credentials.Google.ClientID)
	}
	if config.Sync.MaxVideoSeconds != 600 {
		t.Errorf("LoadConfig() max_video_seconds = %v, want 600", config.Sync.MaxVideoSeconds)
	}
	if config.Sync.LedgerDir != "/var/lib/topho" {
		t.Errorf("LoadConfig() ledger_dir = %v, want /var/lib/topho", config.Sync.LedgerDir)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Error("LoadConfig() expected error for missing file")
	}
}

func TestCreateConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	if err := CreateConfigFile(path); err != nil {
		t.Fatalf("CreateConfigFile() error = %v", err)
	}

	if _, err := LoadConfig(path); err != nil {
		t.Errorf("created config does not parse: %v", err)
	}

	if err := CreateConfigFile(path); err == nil {
		t.Error("CreateConfigFile() expected error when file exists")
	}
}
