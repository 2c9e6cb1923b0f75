package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
	StoreRedis    = "redis"
)

type Config struct {
	Port string `mapstructure:"port"`

	APIBaseURL string        `mapstructure:"api_base_url"`
	APITimeout time.Duration `mapstructure:"api_timeout"`

	SessionStore string        `mapstructure:"session_store"`
	SessionTTL   time.Duration `mapstructure:"session_ttl"`
	CookieSecure bool          `mapstructure:"cookie_secure"`
	DBDSN        string        `mapstructure:"db_dsn"`
	SQLitePath   string        `mapstructure:"sqlite_path"`
	RedisAddr    string        `mapstructure:"redis_addr"`
	RedisDB      int           `mapstructure:"redis_db"`

	BreedsCacheTTL time.Duration `mapstructure:"breeds_cache_ttl"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
	AppName   string `mapstructure:"app_name"`
}

// Options: EnvFile default ".env"; ConfigFile default $CONFIG_FILE.
type Options struct {
	EnvFile    string
	ConfigFile string
}

// Load: .env (si existe, sin pisar el entorno) -> defaults -> archivo YAML
// opcional -> variables de entorno.
func Load(opts Options) (Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading %s: %w", envFile, err)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfgFile := opts.ConfigFile
	if cfgFile == "" {
		cfgFile = os.Getenv("CONFIG_FILE")
	}
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}

	cfg.SessionStore = inferStore(cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("api_base_url", "https://frontend-take-home-service.fetch.com")
	v.SetDefault("api_timeout", 10*time.Second)
	v.SetDefault("session_store", "")
	v.SetDefault("session_ttl", time.Hour)
	v.SetDefault("cookie_secure", false)
	v.SetDefault("db_dsn", "")
	v.SetDefault("sqlite_path", "")
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("breeds_cache_ttl", 5*time.Minute)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("app_name", "dog-finder")
}

// inferStore: sin SESSION_STORE explícito, gana el primer backend configurado.
func inferStore(cfg Config) string {
	if s := strings.ToLower(strings.TrimSpace(cfg.SessionStore)); s != "" {
		return s
	}
	switch {
	case cfg.DBDSN != "":
		return StorePostgres
	case cfg.RedisAddr != "":
		return StoreRedis
	case cfg.SQLitePath != "":
		return StoreSQLite
	default:
		return StoreMemory
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIBaseURL) == "" {
		return errors.New("config: API_BASE_URL is required")
	}
	if c.APITimeout <= 0 {
		return errors.New("config: API_TIMEOUT must be positive")
	}
	if c.SessionTTL <= 0 {
		return errors.New("config: SESSION_TTL must be positive")
	}

	switch c.SessionStore {
	case StoreMemory:
	case StorePostgres:
		if c.DBDSN == "" {
			return errors.New("config: DB_DSN is required for the postgres store")
		}
	case StoreSQLite:
		if c.SQLitePath == "" {
			return errors.New("config: SQLITE_PATH is required for the sqlite store")
		}
	case StoreRedis:
		if c.RedisAddr == "" {
			return errors.New("config: REDIS_ADDR is required for the redis store")
		}
	default:
		return fmt.Errorf("config: unknown SESSION_STORE %q", c.SessionStore)
	}
	return nil
}

func (c Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}
