package config

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Supported record store drivers.
const (
	StoreDriverFile     = "file"
	StoreDriverMemory   = "memory"
	StoreDriverRedis    = "redis"
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
)

type Config struct {
	Env             string
	Port            int
	APIPrefix       string
	ShutdownTimeout time.Duration

	Store        StoreConfig
	Database     DatabaseConfig
	SQLite       SQLiteConfig
	Redis        RedisConfig
	Log          LogConfig
	Listing      ListingConfig
	Registration RegistrationConfig
	Print        PrintConfig
	Metrics      MetricsConfig
}

// StoreConfig selects where the enrollment collection lives.
type StoreConfig struct {
	Driver     string
	Dir        string
	Collection string
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

// SQLiteConfig points at the embedded database file.
type SQLiteConfig struct {
	Path string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type LogConfig struct {
	Level  string
	Format string
}

// ListingConfig tunes the listing page sessions and page sizes.
type ListingConfig struct {
	DefaultPageSize int
	PageSizes       []int
	SessionTTL      time.Duration
}

// RegistrationConfig controls the post-submit navigation pause.
type RegistrationConfig struct {
	RedirectDelay time.Duration
}

// PrintConfig controls the printable document.
type PrintConfig struct {
	SettleDelay time.Duration
}

type MetricsConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")
	cfg.ShutdownTimeout = parseDuration(v.GetString("SHUTDOWN_TIMEOUT"), 10*time.Second)

	cfg.Store = StoreConfig{
		Driver:     strings.ToLower(strings.TrimSpace(v.GetString("STORE_DRIVER"))),
		Dir:        v.GetString("STORE_DIR"),
		Collection: v.GetString("STORE_COLLECTION"),
	}
	if cfg.Store.Collection == "" {
		cfg.Store.Collection = "matriculas"
	}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.SQLite = SQLiteConfig{Path: v.GetString("SQLITE_PATH")}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	pageSizes := parseInts(splitAndTrim(v.GetString("LISTING_PAGE_SIZES")))
	if len(pageSizes) == 0 {
		pageSizes = []int{5, 10, 25, 50}
	}
	defaultSize := v.GetInt("LISTING_DEFAULT_PAGE_SIZE")
	if defaultSize <= 0 {
		defaultSize = 10
	}
	cfg.Listing = ListingConfig{
		DefaultPageSize: defaultSize,
		PageSizes:       pageSizes,
		SessionTTL:      parseDuration(v.GetString("LISTING_SESSION_TTL"), 30*time.Minute),
	}

	cfg.Registration = RegistrationConfig{
		RedirectDelay: parseDuration(v.GetString("REGISTRATION_REDIRECT_DELAY"), 2*time.Second),
	}

	cfg.Print = PrintConfig{
		SettleDelay: parseDuration(v.GetString("PRINT_SETTLE_DELAY"), 500*time.Millisecond),
	}

	cfg.Metrics = MetricsConfig{Enabled: v.GetBool("ENABLE_METRICS")}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	v.SetDefault("STORE_DRIVER", StoreDriverFile)
	v.SetDefault("STORE_DIR", "./data")
	v.SetDefault("STORE_COLLECTION", "matriculas")
	v.SetDefault("SQLITE_PATH", "./data/matricula.db")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "matricula")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("LISTING_DEFAULT_PAGE_SIZE", 10)
	v.SetDefault("LISTING_PAGE_SIZES", "5,10,25,50")
	v.SetDefault("LISTING_SESSION_TTL", "30m")
	v.SetDefault("REGISTRATION_REDIRECT_DELAY", "2s")
	v.SetDefault("PRINT_SETTLE_DELAY", "500ms")
	v.SetDefault("ENABLE_METRICS", true)
}

func isMissingFile(err error) bool {
	return strings.Contains(err.Error(), "no such file or directory")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

func parseInts(parts []string) []int {
	result := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n <= 0 {
			continue
		}
		result = append(result, n)
	}
	return result
}
