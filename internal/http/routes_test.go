package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/quantbridge/tradeops/internal/domain/auth"
	"github.com/quantbridge/tradeops/internal/domain/model"
	"github.com/quantbridge/tradeops/internal/mocks"
	authmocks "github.com/quantbridge/tradeops/internal/mocks/auth"
	"github.com/quantbridge/tradeops/internal/service"
)

// routerFixture wires the full router over mocked repositories so tests
// exercise route registration, auth gates, and handlers together.
type routerFixture struct {
	router    http.Handler
	users     *mocks.MockUserRepository
	access    *mocks.MockAccessRepository
	assets    *mocks.MockAssetRepository
	trades    *mocks.MockTradeRepository
	holdings  *mocks.MockHoldingRepository
	watchlist *mocks.MockWatchlistRepository
	market    *mocks.MockMarketData

	tokens   *authmocks.MockTokenIssuer
	sessions *authmocks.MemorySessionCache
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := &routerFixture{
		users:     mocks.NewMockUserRepository(ctrl),
		access:    mocks.NewMockAccessRepository(ctrl),
		assets:    mocks.NewMockAssetRepository(ctrl),
		trades:    mocks.NewMockTradeRepository(ctrl),
		holdings:  mocks.NewMockHoldingRepository(ctrl),
		watchlist: mocks.NewMockWatchlistRepository(ctrl),
		market:    mocks.NewMockMarketData(ctrl),
		tokens:    authmocks.NewMockTokenIssuer(),
		sessions:  authmocks.NewMemorySessionCache(),
	}

	auth := service.NewAuthService(service.AuthServiceOptions{
		Users:              f.users,
		Tokens:             f.tokens,
		Sessions:           f.sessions,
		Provider:           authmocks.NewMockAuthProvider(),
		ConsoleCallbackURL: "https://console.example.com/auth/callback",
	})

	f.router = NewRouter(RouterServices{
		Auth:      auth,
		Assets:    service.NewAssetService(service.AssetServiceOptions{Repo: f.assets}),
		Trades:    service.NewTradeService(service.TradeServiceOptions{Repo: f.trades}),
		Holdings:  service.NewHoldingService(service.HoldingServiceOptions{Repo: f.holdings}),
		Macro:     service.NewMacroService(service.MacroServiceOptions{Market: f.market}),
		Watchlist: service.NewWatchlistService(service.WatchlistServiceOptions{Repo: f.watchlist, Market: f.market}),
		Access:    service.NewAccessService(service.AccessServiceOptions{Users: f.users, Access: f.access}),
	})
	return f
}

// mintToken issues a verifiable token and caches its session.
func (f *routerFixture) mintToken(t *testing.T, user domainauth.User) string {
	t.Helper()
	token, expiresAt, err := f.tokens.Issue(user)
	require.NoError(t, err)
	require.NoError(t, f.sessions.Save(context.Background(), domainauth.Session{
		Token:     token,
		User:      user,
		ExpiresAt: expiresAt,
	}))
	return token
}

func traderUser() domainauth.User {
	return domainauth.User{
		ID:       7,
		Email:    "trader@example.com",
		Username: "trader",
		Roles: []domainauth.Role{{
			ID:   2,
			Name: "trader",
			Actions: []domainauth.Action{
				{ID: 1, Name: ActionViewAsset},
				{ID: 2, Name: ActionViewTrade},
				{ID: 3, Name: ActionCreateTrade},
				{ID: 4, Name: ActionViewHolding},
				{ID: 5, Name: ActionViewMacro},
				{ID: 6, Name: ActionViewWatchlist},
				{ID: 7, Name: ActionEditWatchlist},
			},
		}},
	}
}

func adminUser() domainauth.User {
	return domainauth.User{
		ID:       1,
		Email:    "admin@example.com",
		Username: "admin",
		Roles:    []domainauth.Role{{ID: 1, Name: "admin"}},
	}
}

func (f *routerFixture) do(method, path, token, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	r := httptest.NewRequest(method, path, reader)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, r)
	return rec
}

func TestRouter_Healthz(t *testing.T) {
	t.Parallel()
	f := newRouterFixture(t)

	rec := f.do(http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRouter_UnauthenticatedGets401(t *testing.T) {
	t.Parallel()
	f := newRouterFixture(t)

	for _, path := range []string{"/api/assets", "/api/trades", "/api/holdings", "/api/macro", "/api/watchlist", "/api/users"} {
		rec := f.do(http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestRouter_AssetList(t *testing.T) {
	t.Parallel()
	f := newRouterFixture(t)
	token := f.mintToken(t, traderUser())

	f.assets.EXPECT().List(gomock.Any()).Return([]model.Asset{
		{ID: 1, CUSIP: "037833100", Type: model.AssetTypeEquity, DisplayName: "Apple Inc"},
	}, nil)

	rec := f.do(http.MethodGet, "/api/assets", token, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "037833100")
}

func TestRouter_AssetDeleteRequiresGrant(t *testing.T) {
	t.Parallel()
	f := newRouterFixture(t)

	// Trader has no DELETE_ASSET grant.
	rec := f.do(http.MethodDelete, "/api/assets/1", f.mintToken(t, traderUser()), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Admin passes every action gate.
	f.assets.EXPECT().Delete(gomock.Any(), 1).Return(nil)
	rec = f.do(http.MethodDelete, "/api/assets/1", f.mintToken(t, adminUser()), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRouter_TradeCreate(t *testing.T) {
	t.Parallel()
	f := newRouterFixture(t)
	token := f.mintToken(t, traderUser())

	f.trades.EXPECT().
		Create(gomock.Any(), gomock.Any(), 7).
		DoAndReturn(func(_ context.Context, req model.CreateTradeRequest, createdBy int) (model.Trade, error) {
			assert.Equal(t, model.TradeDirectionBuy, req.Direction)
			return model.Trade{ID: 42, Direction: req.Direction, AssetID: req.AssetID, Quantity: req.Quantity, CreatedBy: createdBy}, nil
		})

	body := `{
		"trade_date": "2026-08-27T00:00:00Z",
		"settle_date": "2026-08-29T00:00:00Z",
		"direction": "Buy",
		"asset_type": "Corporate Bond",
		"asset_id": 3,
		"quantity": 5000,
		"price": 98.75
	}`
	rec := f.do(http.MethodPost, "/api/trades", token, body)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":42`)
}

func TestRouter_TradeCreate_ValidationFailure(t *testing.T) {
	t.Parallel()
	f := newRouterFixture(t)
	token := f.mintToken(t, traderUser())

	// Settle precedes trade date; the repo is never reached.
	f.trades.EXPECT().
		Create(gomock.Any(), gomock.Any(), 7).
		DoAndReturn(func(_ context.Context, req model.CreateTradeRequest, _ int) (model.Trade, error) {
			return model.Trade{}, req.Validate()
		})

	body := `{
		"trade_date": "2026-08-27T00:00:00Z",
		"settle_date": "2026-08-20T00:00:00Z",
		"direction": "Buy",
		"asset_type": "Equity",
		"asset_id": 3,
		"quantity": 100,
		"price": 10
	}`
	rec := f.do(http.MethodPost, "/api/trades", token, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "validation_failed")
}

func TestRouter_Holdings(t *testing.T) {
	t.Parallel()
	f := newRouterFixture(t)
	token := f.mintToken(t, traderUser())

	f.holdings.EXPECT().List(gomock.Any()).Return([]model.Holding{
		{ID: 1, CUSIP: "037833100", DisplayName: "Apple Inc", Quantity: 1500, AvgCost: 105, Mark: 110, MarketValue: 165000},
	}, nil)

	rec := f.do(http.MethodGet, "/api/holdings", token, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"market_value":165000`)
}

func TestRouter_MacroSnapshot(t *testing.T) {
	t.Parallel()
	f := newRouterFixture(t)
	token := f.mintToken(t, traderUser())

	f.market.EXPECT().Indicators(gomock.Any(), gomock.Any()).Return([]model.MacroIndicator{
		{Ticker: "VIX Index", LastPrice: 14.2},
	}, nil)

	rec := f.do(http.MethodGet, "/api/macro", token, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Volatility"`)
	assert.Contains(t, rec.Body.String(), "VIX Index")
}

func TestRouter_WatchlistScopedToUser(t *testing.T) {
	t.Parallel()
	f := newRouterFixture(t)
	token := f.mintToken(t, traderUser())

	f.watchlist.EXPECT().ListByUser(gomock.Any(), 7).Return([]model.WatchItem{
		{ID: 1, CUSIP: "037833100", AssetType: model.AssetTypeEquity, CreatedBy: 7},
	}, nil)
	f.market.EXPECT().Quotes(gomock.Any(), []string{"037833100"}).Return(map[string]model.Quote{}, nil)

	rec := f.do(http.MethodGet, "/api/watchlist", token, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "037833100")
}

func TestRouter_AdminRoutes(t *testing.T) {
	t.Parallel()
	f := newRouterFixture(t)

	// Non-admin is rejected before the handler runs.
	rec := f.do(http.MethodGet, "/api/roles", f.mintToken(t, traderUser()), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	f.access.EXPECT().ListRoles(gomock.Any()).Return([]domainauth.Role{
		{ID: 1, Name: "admin", Actions: []domainauth.Action{{ID: 1, Name: ActionViewAsset}}},
	}, nil)
	rec = f.do(http.MethodGet, "/api/roles", f.mintToken(t, adminUser()), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"admin"`)
}

func TestRouter_SetUserRoles(t *testing.T) {
	t.Parallel()
	f := newRouterFixture(t)
	token := f.mintToken(t, adminUser())

	f.access.EXPECT().SetUserRoles(gomock.Any(), 7, []int{2}).Return(nil)

	rec := f.do(http.MethodPut, "/api/users/7/roles", token, `{"role_ids":[2]}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRouter_ExpiredSessionRejected(t *testing.T) {
	t.Parallel()
	f := newRouterFixture(t)

	user := traderUser()
	token, _, err := f.tokens.Issue(user)
	require.NoError(t, err)
	require.NoError(t, f.sessions.Save(context.Background(), domainauth.Session{
		Token:     token,
		User:      user,
		ExpiresAt: time.Now().Add(time.Minute),
	}))
	// Session evicted server-side (logout elsewhere, cache flush).
	require.NoError(t, f.sessions.Delete(context.Background(), token))

	rec := f.do(http.MethodGet, "/api/assets", token, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
