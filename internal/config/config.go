package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultMaxItems       = 30
	DefaultDiskQuotaBytes = 256 * 1024 * 1024
	DefaultLogLevel       = "warn"

	DefaultThumbMaxEntries   = 128
	DefaultThumbMaxBytes     = 16 * 1024 * 1024
	DefaultPreviewMaxEntries = 32
	DefaultPreviewMaxBytes   = 64 * 1024 * 1024
	DefaultCacheWorkers      = 2

	configFileName  = ".clipvault.toml"
	configDirEnvKey = "CLIPVAULT_CONFIG_DIR"
)

// ImageCacheConfig bounds the image cache tiers.
type ImageCacheConfig struct {
	ThumbMaxEntries   int   `toml:"thumb_max_entries"`
	ThumbMaxBytes     int64 `toml:"thumb_max_bytes"`
	PreviewMaxEntries int   `toml:"preview_max_entries"`
	PreviewMaxBytes   int64 `toml:"preview_max_bytes"`
	Workers           int   `toml:"workers"`
}

// Config defines runtime configuration for clipvault.
type Config struct {
	BaseDir        string           `toml:"base_dir"`
	CacheDir       string           `toml:"cache_dir"`
	MaxItems       int              `toml:"max_items"`
	DiskQuotaBytes int64            `toml:"disk_quota_bytes"`
	LogLevel       string           `toml:"log_level"`
	ImageCache     ImageCacheConfig `toml:"image_cache"`
}

// Default returns default configuration values. Directories default lazily
// via EffectiveBaseDir/EffectiveCacheDir so a config file can override them.
func Default() Config {
	return Config{
		MaxItems:       DefaultMaxItems,
		DiskQuotaBytes: DefaultDiskQuotaBytes,
		LogLevel:       DefaultLogLevel,
		ImageCache: ImageCacheConfig{
			ThumbMaxEntries:   DefaultThumbMaxEntries,
			ThumbMaxBytes:     DefaultThumbMaxBytes,
			PreviewMaxEntries: DefaultPreviewMaxEntries,
			PreviewMaxBytes:   DefaultPreviewMaxBytes,
			Workers:           DefaultCacheWorkers,
		},
	}
}

// Load reads config from the global file and validates it.
func Load() (*Config, error) {
	cfg := Default()

	path, err := Path()
	if err != nil {
		return nil, err
	}
	if err := loadFileIfExists(path, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks bound sanity.
func (c *Config) Validate() error {
	if c.MaxItems <= 0 {
		return fmt.Errorf("max_items must be positive")
	}
	if c.DiskQuotaBytes <= 0 {
		return fmt.Errorf("disk_quota_bytes must be positive")
	}
	for name, v := range map[string]int64{
		"image_cache.thumb_max_entries":   int64(c.ImageCache.ThumbMaxEntries),
		"image_cache.thumb_max_bytes":     c.ImageCache.ThumbMaxBytes,
		"image_cache.preview_max_entries": int64(c.ImageCache.PreviewMaxEntries),
		"image_cache.preview_max_bytes":   c.ImageCache.PreviewMaxBytes,
		"image_cache.workers":             int64(c.ImageCache.Workers),
	} {
		if v <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	return nil
}

// EffectiveBaseDir resolves the clip catalog directory.
func (c *Config) EffectiveBaseDir() (string, error) {
	if strings.TrimSpace(c.BaseDir) != "" {
		return expandPath(c.BaseDir), nil
	}
	data, err := dataHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(data, "clipvault", "clips"), nil
}

// EffectiveCacheDir resolves the derived-image cache directory.
func (c *Config) EffectiveCacheDir() (string, error) {
	if strings.TrimSpace(c.CacheDir) != "" {
		return expandPath(c.CacheDir), nil
	}
	data, err := dataHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(data, "clipvault", "imagecache"), nil
}

// Path returns the config file location, honoring the directory override.
func Path() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(configDirEnvKey)); dir != "" {
		return filepath.Join(dir, configFileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configFileName), nil
}

var allowedKeys = []string{
	"base_dir",
	"cache_dir",
	"max_items",
	"disk_quota_bytes",
	"log_level",
	"image_cache.thumb_max_entries",
	"image_cache.thumb_max_bytes",
	"image_cache.preview_max_entries",
	"image_cache.preview_max_bytes",
	"image_cache.workers",
}

// AllowedKeys returns the set of valid config keys.
func AllowedKeys() []string {
	return allowedKeys
}

// IsAllowedKey checks if a key is a valid config key.
func IsAllowedKey(key string) bool {
	for _, k := range allowedKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Get returns the value of a config key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "base_dir":
		return c.BaseDir, nil
	case "cache_dir":
		return c.CacheDir, nil
	case "max_items":
		return strconv.Itoa(c.MaxItems), nil
	case "disk_quota_bytes":
		return strconv.FormatInt(c.DiskQuotaBytes, 10), nil
	case "log_level":
		return c.LogLevel, nil
	case "image_cache.thumb_max_entries":
		return strconv.Itoa(c.ImageCache.ThumbMaxEntries), nil
	case "image_cache.thumb_max_bytes":
		return strconv.FormatInt(c.ImageCache.ThumbMaxBytes, 10), nil
	case "image_cache.preview_max_entries":
		return strconv.Itoa(c.ImageCache.PreviewMaxEntries), nil
	case "image_cache.preview_max_bytes":
		return strconv.FormatInt(c.ImageCache.PreviewMaxBytes, 10), nil
	case "image_cache.workers":
		return strconv.Itoa(c.ImageCache.Workers), nil
	default:
		return "", fmt.Errorf("unknown key: %s", key)
	}
}

// SetKey reads the TOML file at path, sets key=value, and writes it back.
func SetKey(path, key, value string) error {
	if !IsAllowedKey(key) {
		return fmt.Errorf("unknown key: %s", key)
	}

	data := make(map[string]any)
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &data); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}

	parsedValue, err := parseSetValue(key, value)
	if err != nil {
		return err
	}
	if err := setNestedKey(data, strings.Split(key, "."), parsedValue); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(data)
}

func parseSetValue(key, value string) (any, error) {
	switch key {
	case "base_dir", "cache_dir", "log_level":
		return value, nil
	case "max_items", "image_cache.thumb_max_entries", "image_cache.preview_max_entries", "image_cache.workers":
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("%s requires an integer: %w", key, err)
		}
		return n, nil
	case "disk_quota_bytes", "image_cache.thumb_max_bytes", "image_cache.preview_max_bytes":
		n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s requires an integer: %w", key, err)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("unknown key: %s", key)
	}
}

func setNestedKey(data map[string]any, parts []string, value any) error {
	if len(parts) == 1 {
		data[parts[0]] = value
		return nil
	}
	child, ok := data[parts[0]]
	if !ok {
		child = map[string]any{}
		data[parts[0]] = child
	}
	childMap, ok := child.(map[string]any)
	if !ok {
		return fmt.Errorf("config key %s conflicts with an existing value", parts[0])
	}
	return setNestedKey(childMap, parts[1:], value)
}

func loadFileIfExists(path string, cfg *Config) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if info.IsDir() {
		return nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

func dataHome() (string, error) {
	if xdg := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); xdg != "" {
		return xdg, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share"), nil
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
