package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/quantbridge/tradeops/config"
	httpx "github.com/quantbridge/tradeops/internal/http"
	"golang.org/x/sync/errgroup"
)

// HTTPServerConfig contains configuration for the HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// RunHTTPServer starts the HTTP server and blocks until the context is
// cancelled or the server fails. Shutdown drains in-flight requests.
func RunHTTPServer(ctx context.Context, cfg *HTTPServerConfig) error {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	handler := httpx.NewRouter(httpx.RouterServices{
		Auth:             cfg.Services.Auth,
		Assets:           cfg.Services.Assets,
		Trades:           cfg.Services.Trades,
		Holdings:         cfg.Services.Holdings,
		Macro:            cfg.Services.Macro,
		Watchlist:        cfg.Services.Watchlist,
		Access:           cfg.Services.Access,
		CookieDomain:     appCfg.HTTP.CookieDomain,
		CompressionLevel: appCfg.HTTP.CompressionLevel,
		Logger:           logger,
	})

	addr := appCfg.HTTP.Addr
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		logger.Info("HTTP server stopped")
		return nil
	})

	return g.Wait()
}
