package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full runtime configuration, loaded once at startup
// and passed by section to the components that need it.
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Storage   StorageConfig
	Swagger   SwaggerConfig
	Telemetry TelemetryConfig
}

// LogConfig selects zap level, encoding and sink.
type LogConfig struct {
	Level  string // debug, info, warn or error
	Format string // json or console
	Output string // stdout, stderr or a file path
}

// AppConfig names the process and picks the listen port.
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig is the Postgres connection and pool sizing.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // minutes
	ConnMaxIdleTime int // minutes
}

// RedisConfig holds Redis connection settings for the token blacklist
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// JWTConfig carries the signing secrets and token lifetimes. Access
// and refresh tokens sign with different secrets.
type JWTConfig struct {
	Secret                 string
	RefreshSecret          string
	AccessTokenExpiration  time.Duration
	RefreshTokenExpiration time.Duration
	Issuer                 string
}

// HTTPConfig covers server timeouts, size caps, rate limits, CORS
// and proxy trust.
type HTTPConfig struct {
	ReadTimeout           time.Duration
	WriteTimeout          time.Duration
	IdleTimeout           time.Duration
	MaxHeaderBytes        int
	MaxBodySize           int64
	RateLimitEnabled      bool
	RateLimitRequests     int
	RateLimitWindow       time.Duration
	AuthRateLimitEnabled  bool // stricter per-IP limit on login and register
	AuthRateLimitRequests int
	AuthRateLimitWindow   time.Duration
	CORSAllowOrigins      []string
	CORSAllowMethods      []string
	CORSAllowHeaders      []string
	TrustedProxies        []string
}

// StorageConfig holds object storage settings for product images
type StorageConfig struct {
	Provider        string // "stub" or "s3"
	Bucket          string
	Region          string
	Endpoint        string // Custom endpoint for S3-compatible stores (MinIO etc)
	AccessKeyID     string
	SecretAccessKey string
	PublicBaseURL   string // Base URL served to clients; defaults to the bucket endpoint
	UsePathStyle    bool
	MaxUploadSize   int64
}

// SwaggerConfig gates the docs endpoint. Production deployments keep
// it disabled or behind auth plus an IP allowlist.
type SwaggerConfig struct {
	Enabled     bool
	RequireAuth bool
	AllowedIPs  []string // empty allows every IP
}

// TelemetryConfig switches the OTEL exporters and pyroscope on or
// off. One collector endpoint serves traces, metrics and logs.
type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string  // host:port of the OTEL collector
	SamplingRatio     float64 // 0.0 to 1.0, where 1.0 samples every trace
	ServiceName       string
	Insecure          bool // plaintext gRPC to the collector
	DBTraceEnabled    bool // per-query spans through otelgorm
	ProfilingEnabled  bool
	ProfilingAddress  string // pyroscope server address
}

// Load reads config.toml, overlays SOKO_ environment variables on
// top of it, and fills whatever is left from the built-in defaults.
// SOKO_DATABASE_PASSWORD therefore beats the file, which beats the
// default.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./backend")
	v.AddConfigPath("/app")

	// A missing config file is fine, defaults and env vars still apply.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("SOKO")
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
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:                 v.GetString("jwt.secret"),
			RefreshSecret:          v.GetString("jwt.refresh_secret"),
			AccessTokenExpiration:  v.GetDuration("jwt.access_token_expiration"),
			RefreshTokenExpiration: v.GetDuration("jwt.refresh_token_expiration"),
			Issuer:                 v.GetString("jwt.issuer"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:           v.GetDuration("http.read_timeout"),
			WriteTimeout:          v.GetDuration("http.write_timeout"),
			IdleTimeout:           v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:        v.GetInt("http.max_header_bytes"),
			MaxBodySize:           v.GetInt64("http.max_body_size"),
			RateLimitEnabled:      v.GetBool("http.rate_limit_enabled"),
			RateLimitRequests:     v.GetInt("http.rate_limit_requests"),
			RateLimitWindow:       v.GetDuration("http.rate_limit_window"),
			AuthRateLimitEnabled:  v.GetBool("http.auth_rate_limit_enabled"),
			AuthRateLimitRequests: v.GetInt("http.auth_rate_limit_requests"),
			AuthRateLimitWindow:   v.GetDuration("http.auth_rate_limit_window"),
			CORSAllowOrigins:      v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods:      v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders:      v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:        v.GetStringSlice("http.trusted_proxies"),
		},
		Storage: StorageConfig{
			Provider:        v.GetString("storage.provider"),
			Bucket:          v.GetString("storage.bucket"),
			Region:          v.GetString("storage.region"),
			Endpoint:        v.GetString("storage.endpoint"),
			AccessKeyID:     v.GetString("storage.access_key_id"),
			SecretAccessKey: v.GetString("storage.secret_access_key"),
			PublicBaseURL:   v.GetString("storage.public_base_url"),
			UsePathStyle:    v.GetBool("storage.use_path_style"),
			MaxUploadSize:   v.GetInt64("storage.max_upload_size"),
		},
		Swagger: SwaggerConfig{
			Enabled:     v.GetBool("swagger.enabled"),
			RequireAuth: v.GetBool("swagger.require_auth"),
			AllowedIPs:  v.GetStringSlice("swagger.allowed_ips"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			DBTraceEnabled:    v.GetBool("telemetry.db_trace_enabled"),
			ProfilingEnabled:  v.GetBool("telemetry.profiling_enabled"),
			ProfilingAddress:  v.GetString("telemetry.profiling_address"),
		},
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func stringDefault(target *string, fallback string) {
	if *target == "" {
		*target = fallback
	}
}

func intDefault(target *int, fallback int) {
	if *target == 0 {
		*target = fallback
	}
}

func durationDefault(target *time.Duration, fallback time.Duration) {
	if *target == 0 {
		*target = fallback
	}
}

// applyDefaults fills every unset field with a development-friendly
// value. Secrets never get defaults.
func (cfg *Config) applyDefaults() {
	stringDefault(&cfg.App.Name, "sokohub-backend")
	stringDefault(&cfg.App.Env, "development")
	stringDefault(&cfg.App.Port, "8080")

	stringDefault(&cfg.Database.Host, "localhost")
	intDefault(&cfg.Database.Port, 5432)
	stringDefault(&cfg.Database.User, "postgres")
	stringDefault(&cfg.Database.DBName, "sokohub")
	stringDefault(&cfg.Database.SSLMode, "disable")
	intDefault(&cfg.Database.MaxOpenConns, 25)
	intDefault(&cfg.Database.MaxIdleConns, 5)
	intDefault(&cfg.Database.ConnMaxLifetime, 60)
	intDefault(&cfg.Database.ConnMaxIdleTime, 30)

	stringDefault(&cfg.Redis.Host, "localhost")
	intDefault(&cfg.Redis.Port, 6379)

	durationDefault(&cfg.JWT.AccessTokenExpiration, 15*time.Minute)
	durationDefault(&cfg.JWT.RefreshTokenExpiration, 168*time.Hour)
	stringDefault(&cfg.JWT.Issuer, "sokohub-backend")

	stringDefault(&cfg.Log.Level, "info")
	stringDefault(&cfg.Log.Format, "console")
	stringDefault(&cfg.Log.Output, "stdout")

	durationDefault(&cfg.HTTP.ReadTimeout, 15*time.Second)
	durationDefault(&cfg.HTTP.WriteTimeout, 15*time.Second)
	durationDefault(&cfg.HTTP.IdleTimeout, 60*time.Second)
	intDefault(&cfg.HTTP.MaxHeaderBytes, 1<<20)
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 10 << 20
	}
	intDefault(&cfg.HTTP.RateLimitRequests, 100)
	durationDefault(&cfg.HTTP.RateLimitWindow, time.Minute)
	intDefault(&cfg.HTTP.AuthRateLimitRequests, 5)
	durationDefault(&cfg.HTTP.AuthRateLimitWindow, time.Minute)
	// CORS origins have no fallback. An empty list blocks cross-origin
	// requests until origins are configured explicitly.
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID"}
	}

	stringDefault(&cfg.Storage.Provider, "stub")
	stringDefault(&cfg.Storage.Region, "us-east-1")
	if cfg.Storage.MaxUploadSize == 0 {
		cfg.Storage.MaxUploadSize = 5 << 20
	}

	stringDefault(&cfg.Telemetry.CollectorEndpoint, "localhost:4317")
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	stringDefault(&cfg.Telemetry.ServiceName, "sokohub-backend")
}

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

	if c.Storage.Provider != "stub" && c.Storage.Provider != "s3" {
		return fmt.Errorf("storage.provider must be 'stub' or 's3', got %q", c.Storage.Provider)
	}
	if c.Storage.Provider == "s3" && c.Storage.Bucket == "" {
		return fmt.Errorf("storage.bucket is required when storage.provider is 's3'")
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	if c.App.Env == "production" {
		return c.validateProduction()
	}
	return nil
}

// validateProduction rejects settings that are fine on a laptop but
// unsafe on a public deployment.
func (c *Config) validateProduction() error {
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
	if c.Swagger.Enabled && !c.Swagger.RequireAuth && len(c.Swagger.AllowedIPs) == 0 {
		return fmt.Errorf("swagger endpoint must be disabled, require authentication, or have IP restriction in production")
	}
	if c.Storage.Provider == "stub" {
		return fmt.Errorf("storage.provider cannot be 'stub' in production")
	}
	return nil
}

// DSN builds the postgres URL, escaping the credentials so passwords
// with reserved characters survive.
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

// Addr returns the Redis host:port address
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}
