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

	"github.com/five82/partpick/internal/catalog"
)

// Config is everything partpick reads from disk and the environment.
type Config struct {
	ServerURL      string
	Username       string
	Password       string
	ImageDir       string
	LogFile        string
	Debug          bool
	RequestTimeout time.Duration
	DriverID       int

	// Path is the config file that was resolved, even when it does not exist.
	Path string
}

const (
	defaultConfigPath = "~/.config/partpick/config.toml"
	defaultServerURL  = "http://localhost:8000"
	defaultImageDir   = "~/.cache/partpick/images"
	defaultLogFile    = "~/.local/state/partpick/partpick.log"
	defaultDriverID   = 1

	envServerURL = "INVENTREE_URL"
	envUsername  = "INVENTREE_USERNAME"
	envPassword  = "INVENTREE_PASSWORD"
)

// Load locates and parses the config, falling back to defaults when the file
// is missing. A .env file next to the config and then the process environment
// override the server URL and credentials.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		ServerURL: defaultServerURL,
		ImageDir:  mustExpand(defaultImageDir),
		LogFile:   mustExpand(defaultLogFile),
		DriverID:  defaultDriverID,
		Path:      resolved,
	}

	if err := cfg.readFile(resolved); err != nil {
		return Config{}, err
	}

	dotenv, err := readDotenv(filepath.Join(filepath.Dir(resolved), ".env"))
	if err != nil {
		return Config{}, err
	}
	cfg.applyEnv(dotenv)

	return cfg, nil
}

func (c *Config) readFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		ServerURL      string `toml:"server_url"`
		Username       string `toml:"username"`
		Password       string `toml:"password"`
		ImageDir       string `toml:"image_dir"`
		LogFile        string `toml:"log_file"`
		Debug          bool   `toml:"debug"`
		RequestTimeout string `toml:"request_timeout"`
		DriverID       int    `toml:"driver_id"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.ServerURL); v != "" {
		c.ServerURL = v
	}
	c.Username = strings.TrimSpace(raw.Username)
	c.Password = raw.Password
	if v := strings.TrimSpace(raw.ImageDir); v != "" {
		c.ImageDir = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		c.LogFile = mustExpand(v)
	}
	c.Debug = raw.Debug
	if v := strings.TrimSpace(raw.RequestTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse request_timeout %q: %w", v, err)
		}
		if d < 0 {
			return fmt.Errorf("parse request_timeout %q: must not be negative", v)
		}
		c.RequestTimeout = d
	}
	if raw.DriverID != 0 {
		c.DriverID = raw.DriverID
	}
	return nil
}

func readDotenv(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return values, nil
}

// applyEnv overrides fields from the process environment first and the
// dotenv values second.
func (c *Config) applyEnv(dotenv map[string]string) {
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			return v, true
		}
		if v, ok := dotenv[key]; ok && strings.TrimSpace(v) != "" {
			return v, true
		}
		return "", false
	}
	if v, ok := lookup(envServerURL); ok {
		c.ServerURL = strings.TrimSpace(v)
	}
	if v, ok := lookup(envUsername); ok {
		c.Username = strings.TrimSpace(v)
	}
	if v, ok := lookup(envPassword); ok {
		c.Password = v
	}
}

// Credentials returns the login entries handed to Warehouse.Connect. Only
// non-empty entries are included, so missing credentials yield an empty map.
func (c Config) Credentials() catalog.Credentials {
	creds := catalog.Credentials{}
	if c.Username != "" {
		creds["username"] = c.Username
	}
	if c.Password != "" {
		creds["password"] = c.Password
	}
	return creds
}

// DefaultPath returns the expanded default config location.
func DefaultPath() string {
	return mustExpand(defaultConfigPath)
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
