package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const validYAML = `
environment: test
server:
  port: 8080
  shutdown_timeout: 5s
log:
  level: info
  format: json
  output: stdout
data:
  loader: eodfile
  root: /tmp/eod
  extension: .csv
  native_timeframe: daily
batch:
  workers: 4
cache:
  enabled: true
  ttl: 10m
`

func TestLoadValid(t *testing.T) {
	path := writeConfig(t, validYAML)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Environment != "test" {
		t.Fatalf("environment = %q", c.Environment)
	}
	if c.Data.Loader != "eodfile" || c.Data.Root != "/tmp/eod" {
		t.Fatalf("data section not parsed: %+v", c.Data)
	}
	if c.Server.Port != 8080 {
		t.Fatalf("server.port = %d", c.Server.Port)
	}
	if !c.Cache.Enabled {
		t.Fatalf("cache.enabled not parsed")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestValidateUnknownLoader(t *testing.T) {
	path := writeConfig(t, `
environment: test
data:
  loader: sqlite
  root: /tmp/eod
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unknown loader")
	}
}

func TestValidateEODFileNeedsRoot(t *testing.T) {
	path := writeConfig(t, `
environment: test
data:
  loader: eodfile
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for missing data.root")
	}
}

func TestValidateClickHouseNeedsHostAndTable(t *testing.T) {
	path := writeConfig(t, `
environment: test
data:
  loader: clickhouse
clickhouse:
  host: localhost
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for missing clickhouse.table")
	}
}

func TestValidateBadNativeTimeframe(t *testing.T) {
	path := writeConfig(t, `
environment: test
data:
  loader: eodfile
  root: /tmp/eod
  native_timeframe: hourly
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unknown native timeframe")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, validYAML)
	t.Setenv("DATA_ROOT", "/var/eod")
	t.Setenv("SERVER_PORT", "9090")

	c, err := LoadWithEnv(path)
	if err != nil {
		t.Fatalf("LoadWithEnv: %v", err)
	}
	if c.Data.Root != "/var/eod" {
		t.Fatalf("data.root = %q", c.Data.Root)
	}
	if c.Server.Port != 9090 {
		t.Fatalf("server.port = %d", c.Server.Port)
	}
}
