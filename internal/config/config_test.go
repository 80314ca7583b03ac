package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"CREV_DELAY", "CREV_ADDR", "CREV_PORT", "CREV_FORMAT", "CREV_MAX_UPLOAD"} {
		t.Setenv(k, "")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Output.Format != "text" {
		t.Errorf("Default format = %q, want text", cfg.Output.Format)
	}
	if cfg.ListenAddr() != "127.0.0.1:6142" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr())
	}
	d, err := cfg.DelayDuration()
	if err != nil || d != 2*time.Second {
		t.Errorf("DelayDuration = %v, %v", d, err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadLayering(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	yamlData := "analysis:\n  delay: 500ms\nserver:\n  port: 9000\noutput:\n  format: json\n"
	if err := os.WriteFile(path, []byte(yamlData), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("CREV_FORMAT", "markdown")
	t.Setenv("CREV_ADDR", "0.0.0.0")

	cfg, err := Load(path, map[string]string{"port": "7000", "format": ""})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Analysis.Delay != "500ms" {
		t.Errorf("delay from file = %q", cfg.Analysis.Delay)
	}
	if cfg.Output.Format != "markdown" {
		t.Errorf("env should override file format, got %q", cfg.Output.Format)
	}
	if cfg.Server.Addr != "0.0.0.0" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("flag should override file port, got %d", cfg.Server.Port)
	}
	if cfg.Upload.MaxBytes != 1<<20 {
		t.Errorf("unset keys keep defaults, got %d", cfg.Upload.MaxBytes)
	}
}

func TestLoadInvalid(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name      string
		yaml      string
		overrides map[string]string
		want      string
	}{
		{"bad yaml", "server: [", nil, "parsing config file"},
		{"bad delay", "analysis:\n  delay: soon\n", nil, "analysis.delay"},
		{"bad format", "output:\n  format: pdf\n", nil, "output.format"},
		{"bad port flag", "", map[string]string{"port": "abc"}, "port"},
		{"negative upload", "upload:\n  max_bytes: -1\n", nil, "upload.max_bytes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path, tt.overrides)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestWriteDefaultRoundTrips(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	if err := WriteDefault(path, false); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}
	if err := WriteDefault(path, false); err == nil {
		t.Error("expected error when file exists")
	}
	if err := WriteDefault(path, true); err != nil {
		t.Errorf("force overwrite: %v", err)
	}

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("written defaults differ: %+v", cfg)
	}
}

func TestPathHonoursXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	p, err := Path()
	if err != nil {
		t.Fatal(err)
	}
	if p != filepath.Join(dir, "crev", "config.yaml") {
		t.Errorf("Path = %q", p)
	}
}

func TestMarshal(t *testing.T) {
	out, err := Marshal(Default())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), "max_bytes: 1048576") {
		t.Errorf("unexpected yaml:\n%s", out)
	}
}
