package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/quantbridge/tradeops/config"
	"github.com/quantbridge/tradeops/internal/adapters/marketdata"
	"github.com/quantbridge/tradeops/internal/adapters/memcache"
	redisadapter "github.com/quantbridge/tradeops/internal/adapters/redis"
	"github.com/quantbridge/tradeops/internal/data"
	"github.com/quantbridge/tradeops/internal/ports"
	"github.com/quantbridge/tradeops/internal/service"
	"github.com/redis/go-redis/v9"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth      *service.AuthService
	Assets    *service.AssetService
	Trades    *service.TradeService
	Holdings  *service.HoldingService
	Macro     *service.MacroService
	Watchlist *service.WatchlistService
	Access    *service.AccessService
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// serviceRepositories groups data adapters backing service ports.
type serviceRepositories struct {
	Users     *data.UserRepo
	Access    *data.AccessRepo
	Assets    *data.AssetRepo
	Trades    *data.TradeRepo
	Holdings  *data.HoldingRepo
	Watchlist *data.WatchlistRepo
}

// BuildServices constructs the full service graph from shared infrastructure.
func BuildServices(ctx context.Context, deps *ServiceDeps) (ServiceContainer, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	repos := buildRepositories(deps.DB)
	sessions := buildSessionCache(deps.RedisClient)
	feed := buildMarketDataFeed(deps.Config.MarketData, logger)

	auth, err := BuildAuthService(ctx, AuthServiceConfig{
		Auth:     deps.Config.Auth,
		Users:    repos.Users,
		Sessions: sessions,
		Logger:   logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build auth service: %w", err)
	}

	return ServiceContainer{
		Auth:     auth,
		Assets:   service.NewAssetService(service.AssetServiceOptions{Repo: repos.Assets}),
		Trades:   service.NewTradeService(service.TradeServiceOptions{Repo: repos.Trades}),
		Holdings: service.NewHoldingService(service.HoldingServiceOptions{Repo: repos.Holdings}),
		Macro:    service.NewMacroService(service.MacroServiceOptions{Market: feed}),
		Watchlist: service.NewWatchlistService(service.WatchlistServiceOptions{
			Repo:   repos.Watchlist,
			Market: feed,
			Logger: logger,
		}),
		Access: service.NewAccessService(service.AccessServiceOptions{
			Users:  repos.Users,
			Access: repos.Access,
		}),
	}, nil
}

// buildRepositories builds repositories backing service ports; no business rules here.
func buildRepositories(db *sql.DB) *serviceRepositories {
	return &serviceRepositories{
		Users:     data.NewUserRepo(db),
		Access:    data.NewAccessRepo(db),
		Assets:    data.NewAssetRepo(db),
		Trades:    data.NewTradeRepo(db),
		Holdings:  data.NewHoldingRepo(db),
		Watchlist: data.NewWatchlistRepo(db),
	}
}

// buildSessionCache picks Redis when a client is configured, otherwise an
// in-process cache suitable only for single-instance deployments.
//
//nolint:ireturn // cache selection happens at runtime based on redis availability.
func buildSessionCache(client redis.UniversalClient) ports.SessionCache {
	if client != nil {
		return redisadapter.NewSessionCache(client)
	}
	return memcache.NewSessionCache()
}

// buildMarketDataFeed returns the HTTP pricing feed when an upstream is
// configured and a deterministic synthetic feed otherwise.
//
//nolint:ireturn // feed selection happens at runtime based on configuration.
func buildMarketDataFeed(cfg config.MarketDataConfig, logger *slog.Logger) ports.MarketData {
	if cfg.BaseURL == "" {
		logger.Info("market data upstream not configured; using synthetic feed")
		return &marketdata.StaticFeed{}
	}

	feed, err := marketdata.NewHTTPFeed(marketdata.FeedOptions{
		BaseURL:    cfg.BaseURL,
		APIKey:     cfg.APIKey,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
	})
	if err != nil {
		logger.Error("failed to create market data feed; falling back to synthetic feed", "error", err)
		return &marketdata.StaticFeed{}
	}

	logger.Info("market data feed configured", "base_url", cfg.BaseURL)
	return feed
}
