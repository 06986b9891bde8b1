package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds everything encore reads at startup.
type Config struct {
	APIURL        string
	SyncURL       string
	ControlBind   string // empty disables the control server
	DataDir       string
	LogFile       string
	LogLevel      string
	Strict        bool
	ActionTimeout time.Duration
	APIToken      string
}

const (
	defaultConfigPath    = "~/.config/encore/config.toml"
	defaultAPIURL        = "https://api.encore.fm"
	defaultControlBind   = "127.0.0.1:7311"
	defaultDataDir       = "~/.local/share/encore"
	defaultLogLevel      = "info"
	defaultActionTimeout = 10 * time.Second

	// TokenEnv names the environment variable holding the API token.
	TokenEnv = "ENCORE_API_TOKEN"
)

// Load locates and parses the config, falling back to defaults when the
// file is missing. A .env file next to the config is loaded into the
// environment first; variables already set win.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}
	if err := loadDotenv(filepath.Join(filepath.Dir(resolved), ".env")); err != nil {
		return Config{}, err
	}

	cfg := Config{
		APIURL:        defaultAPIURL,
		ControlBind:   defaultControlBind,
		DataDir:       mustExpand(defaultDataDir),
		LogLevel:      defaultLogLevel,
		ActionTimeout: defaultActionTimeout,
		APIToken:      strings.TrimSpace(os.Getenv(TokenEnv)),
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.LogFile = filepath.Join(cfg.DataDir, "encore.log")
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL        string  `toml:"api_url"`
		SyncURL       string  `toml:"sync_url"`
		ControlBind   *string `toml:"control_bind"`
		DataDir       string  `toml:"data_dir"`
		LogFile       string  `toml:"log_file"`
		LogLevel      string  `toml:"log_level"`
		Strict        bool    `toml:"strict"`
		ActionTimeout string  `toml:"action_timeout"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	cfg.SyncURL = strings.TrimSpace(raw.SyncURL)
	if raw.ControlBind != nil {
		cfg.ControlBind = strings.TrimSpace(*raw.ControlBind)
	}
	if v := strings.TrimSpace(raw.DataDir); v != "" {
		cfg.DataDir = mustExpand(v)
	}
	cfg.LogFile = strings.TrimSpace(raw.LogFile)
	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(cfg.DataDir, "encore.log")
	} else {
		cfg.LogFile = mustExpand(cfg.LogFile)
	}
	if v := strings.ToLower(strings.TrimSpace(raw.LogLevel)); v != "" {
		cfg.LogLevel = v
	}
	cfg.Strict = raw.Strict
	if v := strings.TrimSpace(raw.ActionTimeout); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil || timeout <= 0 {
			return Config{}, fmt.Errorf("parse action_timeout %q: must be a positive duration", v)
		}
		cfg.ActionTimeout = timeout
	}

	return cfg, nil
}

// DatabaseDir is where the local SQLite database lives.
func (c Config) DatabaseDir() string {
	if strings.TrimSpace(c.DataDir) == "" {
		return mustExpand(defaultDataDir)
	}
	return c.DataDir
}

func loadDotenv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
