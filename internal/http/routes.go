package httpx

import (
	"log/slog"
	"net/http"

	"github.com/quantbridge/tradeops/internal/service"
)

// Action names gate the API routes. They mirror the seeded action catalog.
const (
	ActionViewAsset     = "VIEW_ASSET"
	ActionCreateAsset   = "CREATE_ASSET"
	ActionEditAsset     = "EDIT_ASSET"
	ActionDeleteAsset   = "DELETE_ASSET"
	ActionViewTrade     = "VIEW_TRADE"
	ActionCreateTrade   = "CREATE_TRADE"
	ActionEditTrade     = "EDIT_TRADE"
	ActionDeleteTrade   = "DELETE_TRADE"
	ActionViewHolding   = "VIEW_HOLDING"
	ActionViewMacro     = "VIEW_MACRO"
	ActionViewWatchlist = "VIEW_WATCHLIST"
	ActionEditWatchlist = "EDIT_WATCHLIST"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth      *service.AuthService
	Assets    *service.AssetService
	Trades    *service.TradeService
	Holdings  *service.HoldingService
	Macro     *service.MacroService
	Watchlist *service.WatchlistService
	Access    *service.AccessService

	CookieDomain string
	// CompressionLevel is the gzip level for response compression.
	// Zero uses the middleware default.
	CompressionLevel int
	Logger           *slog.Logger
}

// NewRouter creates and configures the HTTP router.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	registerAuthRoutes(mux, &AuthHandlers{
		Svc:          services.Auth,
		CookieDomain: services.CookieDomain,
		Logger:       logger,
	}, services.Auth)
	registerAssetRoutes(mux, &AssetHandlers{Svc: services.Assets}, services.Auth)
	registerTradeRoutes(mux, &TradeHandlers{Svc: services.Trades}, services.Auth)
	registerPortfolioRoutes(mux, &PortfolioHandlers{
		Holdings: services.Holdings,
		Macro:    services.Macro,
	}, services.Auth)
	registerWatchlistRoutes(mux, &WatchlistHandlers{Svc: services.Watchlist}, services.Auth)
	registerAccessRoutes(mux, &AccessHandlers{Svc: services.Access}, services.Auth)

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	var handler http.Handler = mux
	handler = Compression(CompressionConfig{Level: services.CompressionLevel, Logger: logger})(handler)
	handler = Logging(logger)(handler)
	handler = Recover(logger)(handler)
	return handler
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers, resolver SessionResolver) {
	mux.Handle("POST /auth/signup", http.HandlerFunc(h.Signup))
	mux.Handle("POST /auth/signin", http.HandlerFunc(h.Signin))
	mux.Handle("POST /auth/logout", http.HandlerFunc(h.Logout))
	mux.Handle("GET /auth/google", http.HandlerFunc(h.GoogleLogin))
	mux.Handle("GET /auth/google/callback", http.HandlerFunc(h.GoogleCallback))
	mux.Handle("GET /auth/me", RequireAuth(resolver)(http.HandlerFunc(h.Me)))
}

func registerAssetRoutes(mux *http.ServeMux, h *AssetHandlers, resolver SessionResolver) {
	mux.Handle("GET /api/assets", RequireAction(resolver, ActionViewAsset)(http.HandlerFunc(h.List)))
	mux.Handle("GET /api/assets/{id}", RequireAction(resolver, ActionViewAsset)(http.HandlerFunc(h.Get)))
	mux.Handle("POST /api/assets", RequireAction(resolver, ActionCreateAsset)(http.HandlerFunc(h.Create)))
	mux.Handle("PUT /api/assets/{id}", RequireAction(resolver, ActionEditAsset)(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /api/assets/{id}", RequireAction(resolver, ActionDeleteAsset)(http.HandlerFunc(h.Delete)))
}

func registerTradeRoutes(mux *http.ServeMux, h *TradeHandlers, resolver SessionResolver) {
	mux.Handle("GET /api/trades", RequireAction(resolver, ActionViewTrade)(http.HandlerFunc(h.List)))
	mux.Handle("GET /api/trades/{id}", RequireAction(resolver, ActionViewTrade)(http.HandlerFunc(h.Get)))
	mux.Handle("POST /api/trades", RequireAction(resolver, ActionCreateTrade)(http.HandlerFunc(h.Create)))
	mux.Handle("PUT /api/trades/{id}", RequireAction(resolver, ActionEditTrade)(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /api/trades/{id}", RequireAction(resolver, ActionDeleteTrade)(http.HandlerFunc(h.Delete)))
}

func registerPortfolioRoutes(mux *http.ServeMux, h *PortfolioHandlers, resolver SessionResolver) {
	mux.Handle("GET /api/holdings", RequireAction(resolver, ActionViewHolding)(http.HandlerFunc(h.ListHoldings)))
	mux.Handle("GET /api/macro", RequireAction(resolver, ActionViewMacro)(http.HandlerFunc(h.MacroSnapshot)))
}

func registerWatchlistRoutes(mux *http.ServeMux, h *WatchlistHandlers, resolver SessionResolver) {
	mux.Handle("GET /api/watchlist", RequireAction(resolver, ActionViewWatchlist)(http.HandlerFunc(h.List)))
	mux.Handle("POST /api/watchlist", RequireAction(resolver, ActionEditWatchlist)(http.HandlerFunc(h.Add)))
	mux.Handle("DELETE /api/watchlist/{id}", RequireAction(resolver, ActionEditWatchlist)(http.HandlerFunc(h.Remove)))
}

func registerAccessRoutes(mux *http.ServeMux, h *AccessHandlers, resolver SessionResolver) {
	admin := RequireAdmin(resolver)
	mux.Handle("GET /api/users", admin(http.HandlerFunc(h.ListUsers)))
	mux.Handle("GET /api/users/{id}", admin(http.HandlerFunc(h.GetUser)))
	mux.Handle("PUT /api/users/{id}/roles", admin(http.HandlerFunc(h.SetUserRoles)))
	mux.Handle("GET /api/roles", admin(http.HandlerFunc(h.ListRoles)))
	mux.Handle("PUT /api/roles/{id}/actions", admin(http.HandlerFunc(h.SetRoleActions)))
	mux.Handle("GET /api/actions", admin(http.HandlerFunc(h.ListActions)))
}
