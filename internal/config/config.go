// Package config loads runtime settings from an optional YAML file, a .env
// file and FORMPREDICT_* environment variables, in that order of precedence
// (later sources win).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read when no explicit path is given and the file exists.
const DefaultFile = "formpredict.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "FORMPREDICT_"

// Model store backends.
const (
	// BackendEmbedded serves the demo artifacts bundled with the binary.
	BackendEmbedded = "embedded"
	BackendDir      = "dir"
	BackendS3       = "s3"
	BackendRedis    = "redis"
	BackendGCS      = "gcs"
)

// Config is the full runtime configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Registry RegistryConfig `yaml:"registry"`
	Models   ModelsConfig   `yaml:"models"`
	Log      LogConfig      `yaml:"log"`
	Theme    ThemeConfig    `yaml:"theme"`
}

// ServerConfig configures the HTTP transport.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	MaxBodyBytes   int64    `yaml:"max_body_bytes"`
}

// RegistryConfig points at task schema documents. An empty Dir selects the
// embedded tasks.
type RegistryConfig struct {
	Dir string `yaml:"dir"`
}

// ModelsConfig selects and configures the model store.
type ModelsConfig struct {
	Backend         string `yaml:"backend"`
	Dir             string `yaml:"dir"`
	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKey       string `yaml:"access_key"`
	SecretKey       string `yaml:"secret_key"`
	CredentialsFile string `yaml:"credentials_file"`
	RedisAddr       string `yaml:"redis_addr"`
	RedisPassword   string `yaml:"redis_password"`
	RedisDB         int    `yaml:"redis_db"`
	Preload         bool   `yaml:"preload"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Mode  string `yaml:"mode"`
	Level string `yaml:"level"`
}

// ThemeConfig holds design tokens exposed to the web surface.
type ThemeConfig struct {
	Name     string                       `yaml:"name"`
	Variant  string                       `yaml:"variant"`
	Tokens   map[string]string            `yaml:"tokens"`
	Variants map[string]map[string]string `yaml:"variants"`
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() Config {
	return Config{
		Server: ServerConfig{Addr: ":8080"},
		Models: ModelsConfig{
			Backend: BackendEmbedded,
			Dir:     "models",
			Preload: true,
		},
		Log:   LogConfig{Mode: "development", Level: "info"},
		Theme: ThemeConfig{Name: "default"},
	}
}

// Load builds the configuration. path may be empty, in which case
// DefaultFile is used when present. envFiles default to ".env"; missing env
// files are ignored.
func Load(path string, envFiles ...string) (Config, error) {
	cfg := Defaults()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	loadEnvFiles(envFiles)
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadEnvFiles(files []string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		_ = godotenv.Load(file)
	}
}

// Validate reports inconsistent settings.
func (c Config) Validate() error {
	switch c.Models.Backend {
	case BackendEmbedded:
	case BackendDir:
		if c.Models.Dir == "" {
			return errors.New("config: models.dir is required for the dir backend")
		}
	case BackendS3, BackendGCS:
		if c.Models.Bucket == "" {
			return fmt.Errorf("config: models.bucket is required for the %s backend", c.Models.Backend)
		}
	case BackendRedis:
		if c.Models.RedisAddr == "" {
			return errors.New("config: models.redis_addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("config: unknown models.backend %q", c.Models.Backend)
	}

	switch strings.ToLower(c.Log.Mode) {
	case "", "dev", "development", "prod", "production":
	default:
		return fmt.Errorf("config: unknown log.mode %q", c.Log.Mode)
	}
	if c.Server.MaxBodyBytes < 0 {
		return errors.New("config: server.max_body_bytes must not be negative")
	}
	return nil
}

type lookupFunc func(string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = strings.TrimSpace(v)
		}
	}

	str("SERVER_ADDR", &c.Server.Addr)
	str("REGISTRY_DIR", &c.Registry.Dir)
	str("MODELS_BACKEND", &c.Models.Backend)
	str("MODELS_DIR", &c.Models.Dir)
	str("MODELS_BUCKET", &c.Models.Bucket)
	str("MODELS_PREFIX", &c.Models.Prefix)
	str("MODELS_REGION", &c.Models.Region)
	str("MODELS_ENDPOINT", &c.Models.Endpoint)
	str("MODELS_ACCESS_KEY", &c.Models.AccessKey)
	str("MODELS_SECRET_KEY", &c.Models.SecretKey)
	str("MODELS_CREDENTIALS_FILE", &c.Models.CredentialsFile)
	str("MODELS_REDIS_ADDR", &c.Models.RedisAddr)
	str("MODELS_REDIS_PASSWORD", &c.Models.RedisPassword)
	str("LOG_MODE", &c.Log.Mode)
	str("LOG_LEVEL", &c.Log.Level)
	str("THEME_NAME", &c.Theme.Name)
	str("THEME_VARIANT", &c.Theme.Variant)

	if v, ok := lookup(EnvPrefix + "SERVER_ALLOWED_ORIGINS"); ok {
		c.Server.AllowedOrigins = splitList(v)
	}
	if v, ok := lookup(EnvPrefix + "SERVER_MAX_BODY_BYTES"); ok {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("config: %sSERVER_MAX_BODY_BYTES: %w", EnvPrefix, err)
		}
		c.Server.MaxBodyBytes = n
	}
	if v, ok := lookup(EnvPrefix + "MODELS_REDIS_DB"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config: %sMODELS_REDIS_DB: %w", EnvPrefix, err)
		}
		c.Models.RedisDB = n
	}
	if v, ok := lookup(EnvPrefix + "MODELS_PRELOAD"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config: %sMODELS_PRELOAD: %w", EnvPrefix, err)
		}
		c.Models.Preload = b
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
