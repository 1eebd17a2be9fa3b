package bot

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleConfig = `
telegram:
  token: "123:abc"
  run_mode: longpoll

logging:
  level: info
  format: kv

database:
  host: localhost
  port: "5432"
  user: u
  name: d
  sslmode: disable

pipeline:
  queue_size: 3
  workers: 2

generation:
  command: gen
  output_dir: out
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Core.Telegram.Token != "123:abc" {
		t.Fatalf("token = %q", cfg.Core.Telegram.Token)
	}
	if cfg.Pipeline.QueueSize != 3 || cfg.Pipeline.Workers != 2 {
		t.Fatalf("pipeline = %+v", cfg.Pipeline)
	}
	if cfg.Generation.Command != "gen" {
		t.Fatalf("generation = %+v", cfg.Generation)
	}
	if cfg.Database.Host != "localhost" {
		t.Fatalf("database = %+v", cfg.Database)
	}
}

func TestLoadConfigRequiresGeneratorCommand(t *testing.T) {
	body := `
telegram:
  token: "123:abc"
`
	if _, err := LoadConfig(writeConfig(t, body)); err == nil {
		t.Fatal("expected error for missing generation.command")
	}
}
