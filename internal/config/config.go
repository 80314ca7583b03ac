// Package config loads crev settings.
//
// The effective configuration is layered: defaults <- YAML file <- CREV_*
// environment variables <- command-line overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Formats lists the report formats crev can render.
var Formats = []string{"text", "json", "markdown", "html"}

// Config is the full crev configuration.
type Config struct {
	Analysis AnalysisConfig `yaml:"analysis"`
	Server   ServerConfig   `yaml:"server"`
	Output   OutputConfig   `yaml:"output"`
	Upload   UploadConfig   `yaml:"upload"`
}

// AnalysisConfig controls the heuristic analyzer.
type AnalysisConfig struct {
	// Delay is a Go duration string, e.g. "2s" or "0".
	Delay string `yaml:"delay"`
}

// ServerConfig controls `crev serve`.
type ServerConfig struct {
	Addr string `yaml:"addr"`
	Port int    `yaml:"port"`
}

// OutputConfig controls `crev review`.
type OutputConfig struct {
	Format string `yaml:"format"`
}

// UploadConfig holds presentation-layer upload limits. MaxBytes of 0 disables
// the limit.
type UploadConfig struct {
	MaxBytes int64 `yaml:"max_bytes"`
}

const defaultConfigYAML = `# crev configuration
analysis:
  # artificial latency before results are shown
  delay: 2s

server:
  addr: 127.0.0.1
  port: 6142

output:
  # text, json, markdown or html
  format: text

upload:
  # uploads larger than this are refused by the API and TUI; 0 disables
  max_bytes: 1048576
`

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Analysis: AnalysisConfig{Delay: "2s"},
		Server:   ServerConfig{Addr: "127.0.0.1", Port: 6142},
		Output:   OutputConfig{Format: "text"},
		Upload:   UploadConfig{MaxBytes: 1 << 20},
	}
}

// DelayDuration parses Analysis.Delay.
func (c Config) DelayDuration() (time.Duration, error) {
	if c.Analysis.Delay == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Analysis.Delay)
	if err != nil {
		return 0, fmt.Errorf("analysis.delay: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("analysis.delay: must not be negative, got %s", d)
	}
	return d, nil
}

// ListenAddr returns host:port for the API server.
func (c Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Addr, c.Server.Port)
}

// Validate checks values that cannot be caught by parsing alone.
func (c Config) Validate() error {
	var errs []error
	if _, err := c.DelayDuration(); err != nil {
		errs = append(errs, err)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port: %d out of range", c.Server.Port))
	}
	if !validFormat(c.Output.Format) {
		errs = append(errs, fmt.Errorf("output.format: unknown format %q", c.Output.Format))
	}
	if c.Upload.MaxBytes < 0 {
		errs = append(errs, fmt.Errorf("upload.max_bytes: must not be negative"))
	}
	return errors.Join(errs...)
}

func validFormat(f string) bool {
	for _, known := range Formats {
		if f == known {
			return true
		}
	}
	return false
}

// Dir returns the platform-appropriate config directory for crev.
func Dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "crev"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "crev"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "crev"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "crev"), nil
	default:
		return filepath.Join(home, ".config", "crev"), nil
	}
}

// Path returns the full path to the config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// LoadFile applies the YAML file at path on top of cfg. A missing file is not
// an error.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

// WriteDefault writes the commented default config to path. An existing file
// is left alone unless force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// Marshal renders cfg as YAML.
func Marshal(cfg Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// Load builds the effective config. An empty path means the default Path().
// Overrides come from CLI flags; only non-empty values are applied.
func Load(path string, overrides map[string]string) (Config, error) {
	cfg := Default()

	if path == "" {
		p, err := Path()
		if err != nil {
			return Config{}, err
		}
		path = p
	}
	if err := LoadFile(path, &cfg); err != nil {
		return Config{}, err
	}
	if err := mergeEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := mergeOverrides(&cfg, overrides); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func mergeEnv(cfg *Config) error {
	return apply(cfg, map[string]string{
		"delay":     os.Getenv("CREV_DELAY"),
		"addr":      os.Getenv("CREV_ADDR"),
		"port":      os.Getenv("CREV_PORT"),
		"format":    os.Getenv("CREV_FORMAT"),
		"maxUpload": os.Getenv("CREV_MAX_UPLOAD"),
	})
}

func mergeOverrides(cfg *Config, overrides map[string]string) error {
	if overrides == nil {
		return nil
	}
	return apply(cfg, overrides)
}

func apply(cfg *Config, values map[string]string) error {
	if v := values["delay"]; v != "" {
		cfg.Analysis.Delay = v
	}
	if v := values["addr"]; v != "" {
		cfg.Server.Addr = v
	}
	if v := values["port"]; v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("port: %w", err)
		}
		cfg.Server.Port = n
	}
	if v := values["format"]; v != "" {
		cfg.Output.Format = v
	}
	if v := values["maxUpload"]; v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("max upload: %w", err)
		}
		cfg.Upload.MaxBytes = n
	}
	return nil
}
