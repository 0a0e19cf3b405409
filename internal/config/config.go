package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/drova-launcher/internal/catalog"
	"github.com/five82/drova-launcher/internal/drova"
	"github.com/five82/drova-launcher/internal/imagecache"
	"github.com/five82/drova-launcher/internal/launch"
)

// Environment overrides applied after the file is read.
const (
	EnvImageCache = "DROVA_IMAGE_CACHE"
	EnvAPIBase    = "DROVA_API_BASE"
)

const (
	defaultConfigPath  = "~/.config/drova-launcher/config.toml"
	defaultAPIBase     = "https://services.drova.io"
	defaultHTTPTimeout = 30 * time.Second
	defaultLogFile     = "~/.local/state/drova-launcher/launcher.log"
	defaultLogMaxSize  = 10
	defaultLogBackups  = 3
	defaultLogMaxAge   = 14
)

// Config is the resolved launcher configuration.
type Config struct {
	APIBase     string
	HTTPTimeout time.Duration
	Endpoints   drova.Endpoints
	Catalog     Catalog
	Images      Images
	Launch      Launch
	Log         Log
}

// Catalog tunes the aggregation pipeline.
type Catalog struct {
	MetadataAuth bool
	LaunchSource catalog.LaunchSourceKind
	Desktop      catalog.DesktopPolicy
}

// Images tunes the local image cache.
type Images struct {
	Cache bool
	Dir   string
	TTL   time.Duration
}

// Launch tunes process startup.
type Launch struct {
	Args           launch.ArgMode
	DryRun         bool
	ExitAfterSpawn bool
}

// Log configures the rotating log file.
type Log struct {
	File       string
	Level      slog.Level
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type rawConfig struct {
	APIBase     string `toml:"api_base"`
	HTTPTimeout string `toml:"http_timeout"`
	Endpoints   struct {
		StationProducts string `toml:"station_products"`
		ProductsFull    string `toml:"products_full"`
		LaunchDetails   string `toml:"launch_details"`
		StationInfo     string `toml:"station_info"`
		StationHardware string `toml:"station_hardware"`
	} `toml:"endpoints"`
	Catalog struct {
		MetadataAuth  bool   `toml:"metadata_auth"`
		LaunchSource  string `toml:"launch_source"`
		DesktopPolicy string `toml:"desktop_policy"`
	} `toml:"catalog"`
	Images struct {
		Cache bool   `toml:"cache"`
		Dir   string `toml:"dir"`
		TTL   string `toml:"ttl"`
	} `toml:"images"`
	Launch struct {
		Args           string `toml:"args"`
		DryRun         bool   `toml:"dry_run"`
		ExitAfterSpawn bool   `toml:"exit_after_spawn"`
	} `toml:"launch"`
	Log struct {
		File       string `toml:"file"`
		Level      string `toml:"level"`
		MaxSizeMB  int    `toml:"max_size_mb"`
		MaxBackups int    `toml:"max_backups"`
		MaxAge     int    `toml:"max_age"`
	} `toml:"log"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIBase:     defaultAPIBase,
		HTTPTimeout: defaultHTTPTimeout,
		Endpoints:   drova.DefaultEndpoints(),
		Images: Images{
			Dir: imagecache.DefaultDir(),
			TTL: imagecache.DefaultTTL,
		},
		Log: Log{
			File:       mustExpand(defaultLogFile),
			Level:      slog.LevelInfo,
			MaxSizeMB:  defaultLogMaxSize,
			MaxBackups: defaultLogBackups,
			MaxAgeDays: defaultLogMaxAge,
		},
	}
}

// Load reads the launcher config, falling back to defaults when missing, and
// applies the environment overrides.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("open config: %w", err)
	default:
		defer file.Close()
		bytes, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		var raw rawConfig
		if err := toml.Unmarshal(bytes, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
		if err := cfg.apply(raw); err != nil {
			return Config{}, err
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// Path returns the resolved config path for display.
func Path(path string) string {
	resolved, err := resolvePath(path)
	if err != nil {
		return path
	}
	return resolved
}

func (c *Config) apply(raw rawConfig) error {
	if v := strings.TrimSpace(raw.APIBase); v != "" {
		c.APIBase = v
	}
	if v := strings.TrimSpace(raw.HTTPTimeout); v != "" {
		d, err := parseDuration("http_timeout", v)
		if err != nil {
			return err
		}
		c.HTTPTimeout = d
	}

	setString(&c.Endpoints.StationProducts, raw.Endpoints.StationProducts)
	setString(&c.Endpoints.ProductsFull, raw.Endpoints.ProductsFull)
	setString(&c.Endpoints.LaunchDetails, raw.Endpoints.LaunchDetails)
	setString(&c.Endpoints.StationInfo, raw.Endpoints.StationInfo)
	setString(&c.Endpoints.StationHardware, raw.Endpoints.StationHardware)

	c.Catalog.MetadataAuth = raw.Catalog.MetadataAuth
	source, ok := catalog.ParseLaunchSource(raw.Catalog.LaunchSource)
	if !ok {
		return fieldError("catalog.launch_source", raw.Catalog.LaunchSource, "inline, details")
	}
	c.Catalog.LaunchSource = source
	policy, ok := catalog.ParseDesktopPolicy(raw.Catalog.DesktopPolicy)
	if !ok {
		return fieldError("catalog.desktop_policy", raw.Catalog.DesktopPolicy, "match, flag")
	}
	c.Catalog.Desktop = policy

	c.Images.Cache = raw.Images.Cache
	if v := strings.TrimSpace(raw.Images.Dir); v != "" {
		dir, err := expandPath(v)
		if err != nil {
			return fmt.Errorf("images.dir: %w", err)
		}
		c.Images.Dir = dir
	}
	if v := strings.TrimSpace(raw.Images.TTL); v != "" {
		d, err := parseDuration("images.ttl", v)
		if err != nil {
			return err
		}
		c.Images.TTL = d
	}

	mode, ok := launch.ParseArgMode(raw.Launch.Args)
	if !ok {
		return fieldError("launch.args", raw.Launch.Args, "single, split")
	}
	c.Launch.Args = mode
	c.Launch.DryRun = raw.Launch.DryRun
	c.Launch.ExitAfterSpawn = raw.Launch.ExitAfterSpawn

	if v := strings.TrimSpace(raw.Log.File); v != "" {
		c.Log.File = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.Log.Level); v != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(v)); err != nil {
			return fieldError("log.level", v, "debug, info, warn, error")
		}
		c.Log.Level = level
	}
	setPositive(&c.Log.MaxSizeMB, raw.Log.MaxSizeMB)
	setPositive(&c.Log.MaxBackups, raw.Log.MaxBackups)
	setPositive(&c.Log.MaxAgeDays, raw.Log.MaxAge)
	return nil
}

func (c *Config) applyEnv() {
	if v, ok := os.LookupEnv(EnvImageCache); ok {
		c.Images.Cache = truthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvAPIBase)); v != "" {
		c.APIBase = v
	}
}

// truthy accepts 1, true, yes and on in any case.
func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func parseDuration(field, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s: must be positive, got %s", field, value)
	}
	return d, nil
}

func fieldError(field, value, allowed string) error {
	return fmt.Errorf("%s: unknown value %q (want one of %s)", field, value, allowed)
}

func setString(dst *string, value string) {
	if v := strings.TrimSpace(value); v != "" {
		*dst = v
	}
}

func setPositive(dst *int, value int) {
	if value > 0 {
		*dst = value
	}
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
