package main

import (
	"context"

	"storefront/internal/banners/handler"
	"storefront/internal/banners/repository"
	"storefront/internal/banners/service"
	"storefront/internal/banners/state"
	"storefront/internal/banners/validator"
	"storefront/internal/navigation"
	"storefront/pkg/app"
	"storefront/pkg/config"
	"storefront/pkg/middleware"
)

const ServiceName = "storefront"

func main() {
	cfg := config.Load(ServiceName)

	cfg.Log.Info("Starting Storefront service")

	var pinger handler.Pinger
	if cfg.UsesMongo() {
		cfg.SetMongo()
		pinger = cfg.Client.Mongo
	}

	bannerService := initServices(cfg)
	store := state.NewStore(bannerService, cfg.BannerRefreshMinGap, cfg.Log)

	refreshLimiter := middleware.NewClientRateLimiter(
		cfg.RefreshRateLimitRequests,
		cfg.RefreshRateLimitWindow,
		middleware.ClientKeyExtractor(cfg.TrustProxyHeaders),
		cfg.Log,
	)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		handler.NewHealthHandler(pinger, store, cfg.Log),
		handler.NewBannerHandler(bannerService, store, refreshLimiter, cfg.Log),
		navigation.NewHandler(navigation.DefaultTabs(), cfg.Log),
	)
	serverApp.Go(func(ctx context.Context) error {
		return store.Run(ctx, cfg.BannerRefreshInterval)
	})
	serverApp.OnShutdown(refreshLimiter)
	serverApp.Run()
}

func initServices(cfg *config.Config) service.BannerService {
	var repo repository.BannerRepository
	if cfg.UsesMongo() {
		repo = repository.NewMongoBannerRepository(cfg)
	} else {
		repo = repository.NewMockBannerRepository(cfg.BannerFetchDelay)
	}

	bannerService := service.NewBannerService(
		repo,
		nil,
		validator.NewBannerValidator(),
		cfg,
	)

	cfg.Log.Info("Banner service initialized", "source", cfg.BannerSource)
	return bannerService
}
