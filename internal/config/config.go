package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Supported credential store backends.
const (
	UserStoreMongo    = "mongo"
	UserStorePostgres = "postgres"
)

// DefaultGatedRoutes are the routes that require a token unless AUTH_GATED_ROUTES says otherwise.
const DefaultGatedRoutes = "PUT /movies,DELETE /movies,PUT /posters"

// Config holds all service configuration loaded from environment variables.
type Config struct {
	Port string

	TokenSecret string

	MongoURI string
	MongoDB  string

	UserStore   string
	PostgresDSN string

	RedisAddr     string
	RedisPassword string
	CacheTTL      time.Duration

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	AnalyticsTrackingID string
	AnalyticsURL        string

	UniqueKey string

	GatedRoutes     []string
	SigninRateLimit int
	AllowedOrigins  []string

	LogLevel  string
	LogFormat string
}

func Load() *Config {
	return &Config{
		Port:                getenv("PORT", "8080"),
		TokenSecret:         getenv("SECRET_KEY", os.Getenv("SECRET")),
		MongoURI:            getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:             getenv("MONGO_DB", "movies"),
		UserStore:           strings.ToLower(getenv("USER_STORE", UserStoreMongo)),
		PostgresDSN:         getenv("POSTGRES_DSN", ""),
		RedisAddr:           getenv("REDIS_ADDR", ""),
		RedisPassword:       getenv("REDIS_PASSWORD", ""),
		CacheTTL:            getduration("CACHE_TTL", 30*time.Second),
		MinioEndpoint:       getenv("MINIO_ENDPOINT", ""),
		MinioAccessKey:      getenv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey:      getenv("MINIO_SECRET_KEY", ""),
		MinioBucket:         getenv("MINIO_BUCKET", "movie-posters"),
		MinioUseSSL:         getenv("MINIO_USE_SSL", "false") == "true",
		AnalyticsTrackingID: getenv("GA_KEY", ""),
		AnalyticsURL:        getenv("ANALYTICS_URL", "https://www.google-analytics.com"),
		UniqueKey:           getenv("UNIQUE_KEY", ""),
		GatedRoutes:         splitList(getenv("AUTH_GATED_ROUTES", DefaultGatedRoutes)),
		SigninRateLimit:     getint("SIGNIN_RATE_LIMIT", 0),
		AllowedOrigins:      splitList(getenv("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:            getenv("LOG_LEVEL", "info"),
		LogFormat:           getenv("LOG_FORMAT", "json"),
	}
}

// Validate reports configuration that would leave the server unable to serve requests.
func (c *Config) Validate() error {
	var errs []error
	if c.TokenSecret == "" {
		errs = append(errs, errors.New("SECRET_KEY is required"))
	}
	switch c.UserStore {
	case UserStoreMongo:
	case UserStorePostgres:
		if c.PostgresDSN == "" {
			errs = append(errs, errors.New("POSTGRES_DSN is required when USER_STORE=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown USER_STORE %q", c.UserStore))
	}
	if c.SigninRateLimit < 0 {
		errs = append(errs, errors.New("SIGNIN_RATE_LIMIT must not be negative"))
	}
	return errors.Join(errs...)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getduration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
