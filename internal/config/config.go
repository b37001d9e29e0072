// Package config loads the process configuration: defaults, then an optional YAML file,
// then environment variables.
package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aretw0/selim/pkg/dispatch"
	"github.com/mitchellh/mapstructure"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Config is the typed process configuration.
type Config struct {
	LogLevel string `mapstructure:"log_level"`

	// APIKey enables remote dispatch. It is read once at startup.
	APIKey            string        `mapstructure:"api_key"`
	BaseURL           string        `mapstructure:"base_url"`
	Model             string        `mapstructure:"model"`
	Temperature       float64       `mapstructure:"temperature"`
	Timeout           time.Duration `mapstructure:"timeout"`
	SystemInstruction string        `mapstructure:"system_instruction"`

	DegradeMode   string        `mapstructure:"degrade_mode"`
	LocalDelayMin time.Duration `mapstructure:"local_delay_min"`
	LocalDelayMax time.Duration `mapstructure:"local_delay_max"`
	Locale        string        `mapstructure:"locale"`
	KeywordsFile  string        `mapstructure:"keywords_file"`

	// ExtendedOperators maps divide words to '/' and reads "artı" and "eksi".
	ExtendedOperators bool `mapstructure:"extended_operators"`

	Store StoreConfig `mapstructure:"store"`
	HTTP  HTTPConfig  `mapstructure:"http"`
}

// StoreConfig selects where the transcript is kept.
type StoreConfig struct {
	Backend       string        `mapstructure:"backend"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	RedisKey      string        `mapstructure:"redis_key"`
	TTL           time.Duration `mapstructure:"ttl"`

	// EncryptionKey is a base64 AES-256 key. When set the transcript is sealed at rest.
	EncryptionKey string   `mapstructure:"encryption_key"`
	FallbackKeys  []string `mapstructure:"fallback_keys"`

	// Redact masks RedactPatterns in stored turn text.
	Redact         bool     `mapstructure:"redact"`
	RedactPatterns []string `mapstructure:"redact_patterns"`
}

// HTTPConfig configures the serve command.
type HTTPConfig struct {
	Addr           string   `mapstructure:"addr"`
	RateLimit      float64  `mapstructure:"rate_limit"`
	RateBurst      int      `mapstructure:"rate_burst"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// keySize is the AES-256 key length.
const keySize = 32

// Store backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Defaults returns the configuration used when nothing else is set.
func Defaults() map[string]any {
	return map[string]any{
		"log_level":          "info",
		"api_key":            "",
		"base_url":           "",
		"model":              "gemini-2.5-flash",
		"temperature":        0.7,
		"timeout":            "30s",
		"system_instruction": "",
		"degrade_mode":       string(dispatch.DegradeApology),
		"local_delay_min":    dispatch.DefaultLocalDelayMin.String(),
		"local_delay_max":    dispatch.DefaultLocalDelayMax.String(),
		"locale":             "tr",
		"keywords_file":      "",
		"extended_operators": false,
		"store": map[string]any{
			"backend":         BackendMemory,
			"redis_addr":      "localhost:6379",
			"redis_password":  "",
			"redis_db":        0,
			"redis_key":       "selim:transcript",
			"ttl":             "0s",
			"encryption_key":  "",
			"fallback_keys":   []string{},
			"redact":          false,
			"redact_patterns": []string{},
		},
		"http": map[string]any{
			"addr":            ":8080",
			"rate_limit":      2.0,
			"rate_burst":      5,
			"allowed_origins": []string{"*"},
		},
	}
}

// envBindings maps environment variables to configuration paths. Later entries win.
var envBindings = []struct {
	env  string
	path string
}{
	{"API_KEY", "api_key"},
	{"GEMINI_API_KEY", "api_key"},
	{"SELIM_API_KEY", "api_key"},
	{"SELIM_BASE_URL", "base_url"},
	{"SELIM_MODEL", "model"},
	{"SELIM_TEMPERATURE", "temperature"},
	{"SELIM_TIMEOUT", "timeout"},
	{"SELIM_LOG_LEVEL", "log_level"},
	{"SELIM_DEGRADE_MODE", "degrade_mode"},
	{"SELIM_LOCALE", "locale"},
	{"SELIM_KEYWORDS_FILE", "keywords_file"},
	{"SELIM_EXTENDED_OPERATORS", "extended_operators"},
	{"SELIM_STORE", "store.backend"},
	{"SELIM_REDIS_ADDR", "store.redis_addr"},
	{"SELIM_REDIS_PASSWORD", "store.redis_password"},
	{"SELIM_REDIS_DB", "store.redis_db"},
	{"SELIM_ENCRYPTION_KEY", "store.encryption_key"},
	{"SELIM_REDACT", "store.redact"},
	{"SELIM_HTTP_ADDR", "http.addr"},
	{"SELIM_ALLOWED_ORIGINS", "http.allowed_origins"},
}

// Load builds the configuration. path may be empty.
func Load(path string) (*Config, error) {
	return load(path, os.LookupEnv)
}

func load(path string, lookup func(string) (string, bool)) (*Config, error) {
	raw := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		var file map[string]any
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		merge(raw, file)
	}

	for _, b := range envBindings {
		if v, ok := lookup(b.env); ok && v != "" {
			setPath(raw, b.path, v)
		}
	}

	var cfg Config
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &cfg,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create config decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that decode fine but make no sense.
func (c *Config) Validate() error {
	if _, err := dispatch.ParseDegradeMode(c.DegradeMode); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("invalid configuration: temperature %.2f out of range [0, 2]", c.Temperature)
	}
	if c.LocalDelayMax < c.LocalDelayMin {
		return fmt.Errorf("invalid configuration: local_delay_max %s is below local_delay_min %s", c.LocalDelayMax, c.LocalDelayMin)
	}
	if _, err := language.Parse(c.Locale); err != nil {
		return fmt.Errorf("invalid configuration: locale %q: %w", c.Locale, err)
	}
	switch c.Store.Backend {
	case BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("invalid configuration: unknown store backend %q", c.Store.Backend)
	}
	if _, _, err := c.Store.Keys(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Keys decodes the encryption keys. active is nil when encryption is off.
func (s StoreConfig) Keys() (active []byte, fallback [][]byte, err error) {
	if s.EncryptionKey == "" {
		return nil, nil, nil
	}
	active, err = decodeKey("encryption_key", s.EncryptionKey)
	if err != nil {
		return nil, nil, err
	}
	for i, k := range s.FallbackKeys {
		key, err := decodeKey(fmt.Sprintf("fallback_keys[%d]", i), k)
		if err != nil {
			return nil, nil, err
		}
		fallback = append(fallback, key)
	}
	return active, fallback, nil
}

func decodeKey(name, encoded string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("%s is not valid base64: %w", name, err)
	}
	if len(key) != keySize {
		return nil, fmt.Errorf("%s must decode to %d bytes, got %d", name, keySize, len(key))
	}
	return key, nil
}

// CredentialPresent reports whether remote dispatch is configured.
func (c *Config) CredentialPresent() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// LocaleTag returns the parsed locale. Validate guarantees it parses.
func (c *Config) LocaleTag() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.Turkish
	}
	return tag
}

// merge copies src into dst, descending into nested maps.
func merge(dst, src map[string]any) {
	for k, v := range src {
		if sm, ok := v.(map[string]any); ok {
			if dm, ok := dst[k].(map[string]any); ok {
				merge(dm, sm)
				continue
			}
		}
		dst[k] = v
	}
}

func setPath(m map[string]any, path, value string) {
	parts := strings.Split(path, ".")
	for _, p := range parts[:len(parts)-1] {
		next, ok := m[p].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[p] = next
		}
		m = next
	}
	m[parts[len(parts)-1]] = value
}
