package config

const (
	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRequestTimeout = "REQUEST_TIMEOUT"

	EnvRefreshRateLimitRequests = "REFRESH_RATE_LIMIT_REQUESTS"
	EnvRefreshRateLimitWindow   = "REFRESH_RATE_LIMIT_WINDOW"
	EnvTrustProxyHeaders        = "TRUST_PROXY_HEADERS"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvBannerSource          = "BANNER_SOURCE"
	EnvBannerFetchDelay      = "BANNER_FETCH_DELAY"
	EnvBannerRefreshInterval = "BANNER_REFRESH_INTERVAL"
	EnvBannerRefreshMinGap   = "BANNER_REFRESH_MIN_GAP"

	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"
)
