package config

import "time"

const (
	BannerSourceMock  = "mock"
	BannerSourceMongo = "mongo"
)

const (
	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRequestTimeout = 30 * time.Second

	DefaultRefreshRateLimitRequests = 5
	DefaultRefreshRateLimitWindow   = 1 * time.Minute
	DefaultTrustProxyHeaders        = false

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultBannerSource          = BannerSourceMock
	DefaultBannerFetchDelay      = 1 * time.Second
	DefaultBannerRefreshInterval = 5 * time.Minute
	DefaultBannerRefreshMinGap   = 2 * time.Second

	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "storefront"
	DefaultMongoConnTimeout  = 10 * time.Second
)
