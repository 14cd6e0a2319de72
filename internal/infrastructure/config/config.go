package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Log      LogConfig
	HTTP     HTTPConfig
	Store    StoreConfig
	Kafka    KafkaConfig
	Storage  StorageConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// JWTConfig holds JWT settings
type JWTConfig struct {
	Secret                string
	AccessTokenExpiration time.Duration
	Issuer                string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
	MaxBodySize       int64
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration
	CORSAllowOrigins  []string
	CORSAllowMethods  []string
	CORSAllowHeaders  []string
	TrustedProxies    []string
}

// StoreConfig holds storefront-level settings
type StoreConfig struct {
	Currency             string
	PriceDecimals        int
	Timezone             string
	PermalinkBase        string
	DefaultProductStatus string // product status or "any"
	LowStockThreshold    int64
}

// KafkaConfig holds the order event stream settings
type KafkaConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
}

// StorageConfig holds S3 object storage settings for product images
type StorageConfig struct {
	Enabled        bool
	Region         string
	Bucket         string
	Endpoint       string // custom endpoint for S3-compatible backends
	PublicBaseURL  string // served instead of presigned URLs when set
	PresignExpiry  time.Duration
	ForcePathStyle bool
}

// Load reads configuration from config.toml and STORE_-prefixed environment
// variables. Environment variables win over the file, the file wins over the
// built-in defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Running on defaults plus environment is fine
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("STORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:                v.GetString("jwt.secret"),
			AccessTokenExpiration: v.GetDuration("jwt.access_token_expiration"),
			Issuer:                v.GetString("jwt.issuer"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:       v.GetDuration("http.read_timeout"),
			WriteTimeout:      v.GetDuration("http.write_timeout"),
			IdleTimeout:       v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:    v.GetInt("http.max_header_bytes"),
			MaxBodySize:       v.GetInt64("http.max_body_size"),
			RateLimitEnabled:  v.GetBool("http.rate_limit_enabled"),
			RateLimitRequests: v.GetInt("http.rate_limit_requests"),
			RateLimitWindow:   v.GetDuration("http.rate_limit_window"),
			CORSAllowOrigins:  v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods:  v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders:  v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:    v.GetStringSlice("http.trusted_proxies"),
		},
		Store: StoreConfig{
			Currency:             v.GetString("store.currency"),
			PriceDecimals:        v.GetInt("store.price_decimals"),
			Timezone:             v.GetString("store.timezone"),
			PermalinkBase:        v.GetString("store.permalink_base"),
			DefaultProductStatus: v.GetString("store.default_product_status"),
			LowStockThreshold:    v.GetInt64("store.low_stock_threshold"),
		},
		Kafka: KafkaConfig{
			Enabled: v.GetBool("kafka.enabled"),
			Brokers: v.GetStringSlice("kafka.brokers"),
			Topic:   v.GetString("kafka.topic"),
		},
		Storage: StorageConfig{
			Enabled:        v.GetBool("storage.enabled"),
			Region:         v.GetString("storage.region"),
			Bucket:         v.GetString("storage.bucket"),
			Endpoint:       v.GetString("storage.endpoint"),
			PublicBaseURL:  v.GetString("storage.public_base_url"),
			PresignExpiry:  v.GetDuration("storage.presign_expiry"),
			ForcePathStyle: v.GetBool("storage.force_path_style"),
		},
	}

	cfg.normalize()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "store-backend")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.dbname", "store")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 60)
	v.SetDefault("database.conn_max_idle_time", 30)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)

	v.SetDefault("jwt.access_token_expiration", 15*time.Minute)
	v.SetDefault("jwt.issuer", "store-backend")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 15*time.Second)
	v.SetDefault("http.idle_timeout", 60*time.Second)
	v.SetDefault("http.max_header_bytes", 1<<20)
	v.SetDefault("http.max_body_size", 10<<20)
	v.SetDefault("http.rate_limit_requests", 100)
	v.SetDefault("http.rate_limit_window", time.Minute)
	// cors_allow_origins deliberately has no default: an empty list means no
	// cross-origin requests until origins are configured explicitly.
	v.SetDefault("http.cors_allow_methods", []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"})
	v.SetDefault("http.cors_allow_headers", []string{"Content-Type", "Authorization", "X-Request-ID"})

	v.SetDefault("store.currency", "USD")
	v.SetDefault("store.price_decimals", 2)
	v.SetDefault("store.timezone", "UTC")
	v.SetDefault("store.default_product_status", "any")
	v.SetDefault("store.low_stock_threshold", 5)

	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "store.order-events")

	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.presign_expiry", time.Hour)
}

// normalize fills the few values that cannot be plain viper defaults: pool
// sizes explicitly set to zero fall back, and the permalink base derives from
// the listen port when unset.
func (c *Config) normalize() {
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Store.PermalinkBase == "" {
		c.Store.PermalinkBase = "http://localhost:" + c.App.Port
	}
	if c.Store.PriceDecimals == 0 {
		c.Store.PriceDecimals = 2
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	if c.Store.LowStockThreshold < 0 {
		return fmt.Errorf("store.low_stock_threshold cannot be negative")
	}
	if _, err := parseTimezone(c.Store.Timezone); err != nil {
		return fmt.Errorf("store.timezone is not a valid IANA timezone: %q", c.Store.Timezone)
	}

	if c.App.Env == "production" {
		if c.JWT.Secret == "" {
			return fmt.Errorf("jwt.secret is required in production")
		}
		if len(c.JWT.Secret) < 32 {
			return fmt.Errorf("jwt.secret must be at least 32 characters in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
	}

	return nil
}

func parseTimezone(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(name)
}

// Location returns the store timezone as a time.Location. Validation at load
// time guarantees this cannot fail for a loaded config.
func (s *StoreConfig) Location() *time.Location {
	loc, err := parseTimezone(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// Addr returns the host:port pair for the Redis client
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}
