package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	HTTPAddr  string        `koanf:"http_addr"`
	JWTSecret string        `koanf:"jwt_secret"`
	TokenTTL  time.Duration `koanf:"token_ttl"`

	DatabaseURL string `koanf:"database_url"`

	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	LoginMaxFailures int           `koanf:"login_max_failures"`
	LoginLockout     time.Duration `koanf:"login_lockout"`
	BcryptCost       int           `koanf:"bcrypt_cost"`
	SeedAdmin        bool          `koanf:"seed_admin"`

	CORSOrigins []string `koanf:"cors_origins"`

	LogFormat      string `koanf:"log_format"`
	LogLevel       string `koanf:"log_level"`
	ServiceVersion string `koanf:"service_version"`
}

var defaults = map[string]interface{}{
	"http_addr":          ":3001",
	"jwt_secret":         "",
	"token_ttl":          24 * time.Hour,
	"database_url":       "",
	"redis_addr":         "",
	"redis_password":     "",
	"redis_db":           0,
	"login_max_failures": 7,
	"login_lockout":      15 * time.Minute,
	"bcrypt_cost":        bcrypt.DefaultCost,
	"seed_admin":         true,
	"cors_origins":       []string{"http://localhost:3000", "http://localhost:5173"},
	"log_format":         "json",
	"log_level":          "info",
	"service_version":    "dev",
}

// envKeys maps configuration keys to the environment variables that override them.
var envKeys = map[string]string{
	"http_addr":          "HTTP_ADDR",
	"jwt_secret":         "JWT_SECRET",
	"token_ttl":          "TOKEN_TTL",
	"database_url":       "DATABASE_URL",
	"redis_addr":         "REDIS_ADDR",
	"redis_password":     "REDIS_PASSWORD",
	"redis_db":           "REDIS_DB",
	"login_max_failures": "LOGIN_MAX_FAILURES",
	"login_lockout":      "LOGIN_LOCKOUT",
	"bcrypt_cost":        "BCRYPT_COST",
	"seed_admin":         "SEED_ADMIN",
	"cors_origins":       "CORS_ORIGINS",
	"log_format":         "LOG_FORMAT",
	"log_level":          "LOG_LEVEL",
	"service_version":    "SERVICE_VERSION",
}

// RegisterFlags adds the command-line overrides understood by Load.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("http-addr", ":3001", "HTTP listen address")
	fs.String("database-url", "", "Postgres connection URL (empty uses in-memory stores)")
	fs.String("redis-addr", "", "Redis address for login throttling")
	fs.String("log-level", "info", "log level (debug, info, warn, error)")
	fs.String("log-format", "json", "log format (json or text)")
	fs.Bool("seed-admin", true, "create the default admin account when missing")
}

// Load builds the configuration from defaults, an optional YAML file, .env,
// the process environment and changed flags, in that order of precedence.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	for key, val := range defaults {
		if err := k.Set(key, val); err != nil {
			return Config{}, fmt.Errorf("setting default %s: %w", key, err)
		}
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}

	if err := loadEnv(k); err != nil {
		return Config{}, err
	}

	if flags != nil {
		provider := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			if key == "cors_origins" {
				return key, splitList(f.Value.String())
			}
			return key, f.Value.String()
		})
		if err := k.Load(provider, nil); err != nil {
			return Config{}, fmt.Errorf("loading flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadEnv(k *koanf.Koanf) error {
	for key, env := range envKeys {
		raw, ok := os.LookupEnv(env)
		if !ok {
			continue
		}
		var val interface{} = raw
		switch key {
		case "cors_origins":
			val = splitList(raw)
		case "token_ttl", "login_lockout":
			d, err := time.ParseDuration(raw)
			if err != nil {
				return fmt.Errorf("%s: %w", env, err)
			}
			val = d
		}
		if err := k.Set(key, val); err != nil {
			return fmt.Errorf("%s: %w", env, err)
		}
	}

	// TOKEN_TTL_SECONDS is accepted for deployments that only deal in integers.
	if raw, ok := os.LookupEnv("TOKEN_TTL_SECONDS"); ok {
		if _, set := os.LookupEnv("TOKEN_TTL"); !set {
			secs, err := strconv.Atoi(raw)
			if err != nil {
				return fmt.Errorf("TOKEN_TTL_SECONDS: %w", err)
			}
			if err := k.Set("token_ttl", time.Duration(secs)*time.Second); err != nil {
				return err
			}
		}
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate reports the first setting that would keep the server from running safely.
func (c Config) Validate() error {
	switch {
	case c.JWTSecret == "":
		return errors.New("JWT_SECRET is required")
	case c.TokenTTL <= 0:
		return fmt.Errorf("token_ttl must be positive, got %s", c.TokenTTL)
	case c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost:
		return fmt.Errorf("bcrypt_cost must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, c.BcryptCost)
	case c.LoginMaxFailures < 1:
		return fmt.Errorf("login_max_failures must be at least 1, got %d", c.LoginMaxFailures)
	}
	return nil
}

// UsesPostgres reports whether a database URL was configured.
func (c Config) UsesPostgres() bool { return c.DatabaseURL != "" }

// UsesRedis reports whether login throttling is backed by Redis.
func (c Config) UsesRedis() bool { return c.RedisAddr != "" }
