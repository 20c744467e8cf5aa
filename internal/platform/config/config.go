package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvPrefix      = "GEOMOMENTS_"
	configFileName = "config.yaml"
	stateDirName   = ".geomoments"
)

type Config struct {
	Endpoint       string        `yaml:"endpoint" env:"ENDPOINT"`
	UploadURL      string        `yaml:"upload_url" env:"UPLOAD_URL"`
	StateDir       string        `yaml:"state_dir" env:"STATE_DIR"`
	DBPath         string        `yaml:"db_path" env:"DB_PATH"`
	CookiePath     string        `yaml:"cookie_path" env:"COOKIE_PATH"`
	LogPath        string        `yaml:"log_path" env:"LOG_PATH"`
	Ephemeral      bool          `yaml:"ephemeral" env:"EPHEMERAL"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"REQUEST_TIMEOUT"`
	Map            MapConfig     `yaml:"map" envPrefix:"MAP_"`
	Log            LogConfig     `yaml:"log" envPrefix:"LOG_"`
}

type MapConfig struct {
	CenterLat float64 `yaml:"center_lat" env:"CENTER_LAT"`
	CenterLng float64 `yaml:"center_lng" env:"CENTER_LNG"`
	Zoom      int     `yaml:"zoom" env:"ZOOM"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
}

// Overrides carries values coming from command-line flags. Empty fields
// leave the loaded value untouched.
type Overrides struct {
	ConfigPath string
	StateDir   string
	Ephemeral  bool
	LogLevel   string
}

func Default() Config {
	return Config{
		Endpoint:       "http://localhost:4000/graphql",
		UploadURL:      "http://localhost:4000/upload",
		RequestTimeout: 15 * time.Second,
		Map: MapConfig{
			CenterLat: 21.0285,
			CenterLng: 105.8542,
			Zoom:      13,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load resolves configuration in order: defaults, YAML file, .env file,
// GEOMOMENTS_* environment variables, then flag overrides.
func Load(o Overrides) (Config, error) {
	cfg := Default()

	stateDir := strings.TrimSpace(o.StateDir)
	if stateDir == "" {
		stateDir = strings.TrimSpace(os.Getenv(EnvPrefix + "STATE_DIR"))
	}
	if stateDir == "" {
		if home, err := os.UserHomeDir(); err == nil && home != "" {
			stateDir = filepath.Join(home, stateDirName)
		}
	}
	cfg.StateDir = stateDir

	configPath := strings.TrimSpace(o.ConfigPath)
	explicit := configPath != ""
	if !explicit && stateDir != "" {
		configPath = filepath.Join(stateDir, configFileName)
	}
	if configPath != "" {
		if err := mergeFile(&cfg, configPath, explicit); err != nil {
			return Config{}, err
		}
	}

	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return Config{}, fmt.Errorf("load .env file: %w", err)
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env config: %w", err)
	}

	if o.StateDir != "" {
		cfg.StateDir = o.StateDir
	}
	if o.Ephemeral {
		cfg.Ephemeral = true
	}
	if o.LogLevel != "" {
		cfg.Log.Level = o.LogLevel
	}

	cfg.fillPaths()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func mergeFile(cfg *Config, path string, required bool) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(payload, cfg); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}

// fillPaths derives state file locations. Without a state directory the
// client cannot persist anything and runs ephemeral.
func (c *Config) fillPaths() {
	if c.StateDir == "" {
		c.Ephemeral = true
		return
	}
	if c.DBPath == "" {
		c.DBPath = filepath.Join(c.StateDir, "geomoments.db")
	}
	if c.CookiePath == "" {
		c.CookiePath = filepath.Join(c.StateDir, "cookies.json")
	}
	if c.LogPath == "" {
		c.LogPath = filepath.Join(c.StateDir, "geomoments.log")
	}
}

func (c Config) Validate() error {
	if err := validateURL("endpoint", c.Endpoint); err != nil {
		return err
	}
	if err := validateURL("upload_url", c.UploadURL); err != nil {
		return err
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.Map.Zoom < 1 || c.Map.Zoom > 18 {
		return fmt.Errorf("map.zoom must be within 1..18, got %d", c.Map.Zoom)
	}
	if c.Map.CenterLat < -90 || c.Map.CenterLat > 90 {
		return fmt.Errorf("map.center_lat out of range: %v", c.Map.CenterLat)
	}
	if c.Map.CenterLng < -180 || c.Map.CenterLng > 180 {
		return fmt.Errorf("map.center_lng out of range: %v", c.Map.CenterLng)
	}
	return nil
}

func validateURL(name, raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must be an http(s) URL, got %q", name, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%s has no host: %q", name, raw)
	}
	return nil
}

// YAML renders the effective configuration for `config show`.
func (c Config) YAML() (string, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return string(out), nil
}
