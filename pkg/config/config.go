package config

import (
	"fmt"
	"os"
	"regexp"
	"storefront/pkg/client"
	"storefront/pkg/logger"
	"strconv"
	"time"
)

var reMongoURI = regexp.MustCompile(`^mongodb(\+srv)?://`)

type Config struct {
	Port string

	RequestTimeout time.Duration

	RefreshRateLimitRequests int
	RefreshRateLimitWindow   time.Duration
	TrustProxyHeaders        bool

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	BannerSource          string
	BannerFetchDelay      time.Duration
	BannerRefreshInterval time.Duration
	BannerRefreshMinGap   time.Duration

	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		Port: getEnvStr(EnvPort, DefaultPort),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),

		RefreshRateLimitRequests: getEnvNum(EnvRefreshRateLimitRequests, DefaultRefreshRateLimitRequests),
		RefreshRateLimitWindow:   getEnvDuration(EnvRefreshRateLimitWindow, DefaultRefreshRateLimitWindow),
		TrustProxyHeaders:        getEnvBool(EnvTrustProxyHeaders, DefaultTrustProxyHeaders),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		BannerSource:          getEnvStr(EnvBannerSource, DefaultBannerSource),
		BannerFetchDelay:      getEnvDuration(EnvBannerFetchDelay, DefaultBannerFetchDelay),
		BannerRefreshInterval: getEnvDuration(EnvBannerRefreshInterval, DefaultBannerRefreshInterval),
		BannerRefreshMinGap:   getEnvDuration(EnvBannerRefreshMinGap, DefaultBannerRefreshMinGap),

		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	err := cfg.Validate()
	if err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) UsesMongo() bool {
	return cfg.BannerSource == BannerSourceMongo
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.RefreshRateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RefreshRateLimitRequests must be positive, got: %d", cfg.RefreshRateLimitRequests))
	}
	if cfg.RefreshRateLimitWindow <= 0 {
		errors = append(errors, fmt.Sprintf("RefreshRateLimitWindow must be positive, got: %s", cfg.RefreshRateLimitWindow))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if cfg.BannerSource != BannerSourceMock && cfg.BannerSource != BannerSourceMongo {
		errors = append(errors, fmt.Sprintf("BannerSource must be one of [%s, %s], got: %s", BannerSourceMock, BannerSourceMongo, cfg.BannerSource))
	}
	if cfg.BannerFetchDelay < 0 {
		errors = append(errors, fmt.Sprintf("BannerFetchDelay cannot be negative, got: %s", cfg.BannerFetchDelay))
	}
	if cfg.BannerRefreshInterval < 0 {
		errors = append(errors, fmt.Sprintf("BannerRefreshInterval cannot be negative, got: %s", cfg.BannerRefreshInterval))
	}
	if cfg.BannerRefreshMinGap < 0 {
		errors = append(errors, fmt.Sprintf("BannerRefreshMinGap cannot be negative, got: %s", cfg.BannerRefreshMinGap))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if len(cfg.MongoURI) < 10 || !reMongoURI.MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
	}
	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}
	if cfg.MongoConnTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"port", cfg.Port,
		"request_timeout", cfg.RequestTimeout,
		"refresh_rate_limit_requests", cfg.RefreshRateLimitRequests,
		"refresh_rate_limit_window", cfg.RefreshRateLimitWindow,
		"trust_proxy_headers", cfg.TrustProxyHeaders,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"banner_source", cfg.BannerSource,
		"banner_fetch_delay", cfg.BannerFetchDelay,
		"banner_refresh_interval", cfg.BannerRefreshInterval,
		"banner_refresh_min_gap", cfg.BannerRefreshMinGap,
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown()
}
