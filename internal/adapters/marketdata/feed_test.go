package marketdata

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantbridge/tradeops/internal/domain/model"
)

func feedServer(t *testing.T, doc any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quotes", r.URL.Path)
		_ = json.NewEncoder(w).Encode(doc)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPFeed_Quotes_DefaultPaths(t *testing.T) {
	srv := feedServer(t, map[string]any{
		"items": []any{
			map[string]any{"id": "037833100", "last_price": 99.5, "chg_net_1d": -0.25, "chg_pct_1d": -0.25},
			map[string]any{"id": "17275R102", "last_price": 48.1, "chg_net_1d": 0.4, "chg_pct_1d": 0.84},
		},
	})

	feed, err := NewHTTPFeed(FeedOptions{BaseURL: srv.URL})
	require.NoError(t, err)

	quotes, err := feed.Quotes(context.Background(), []string{"037833100", "17275R102", "unknown"})
	require.NoError(t, err)

	// Unknown identifiers are omitted, not erred.
	require.Len(t, quotes, 2)
	assert.Equal(t, 99.5, quotes["037833100"].LastPrice)
	assert.Equal(t, -0.25, quotes["037833100"].ChgNet1D)
	assert.Equal(t, 0.84, quotes["17275R102"].ChgPct1D)
}

func TestHTTPFeed_Quotes_CustomPaths(t *testing.T) {
	// Vendor payload with nested fields.
	srv := feedServer(t, map[string]any{
		"data": map[string]any{
			"rows": []any{
				map[string]any{
					"security": map[string]any{"cusip": "037833100"},
					"px":       map[string]any{"last": 101.0, "net": 1.0, "pct": 1.0},
				},
			},
		},
	})

	feed, err := NewHTTPFeed(FeedOptions{
		BaseURL: srv.URL,
		Paths: FieldPaths{
			Items:     "data.rows",
			ID:        "security.cusip",
			LastPrice: "px.last",
			ChgNet1D:  "px.net",
			ChgPct1D:  "px.pct",
		},
	})
	require.NoError(t, err)

	quotes, err := feed.Quotes(context.Background(), []string{"037833100"})
	require.NoError(t, err)

	require.Contains(t, quotes, "037833100")
	assert.Equal(t, 101.0, quotes["037833100"].LastPrice)
}

func TestHTTPFeed_InvalidPathRejected(t *testing.T) {
	_, err := NewHTTPFeed(FeedOptions{BaseURL: "http://example.com", Paths: FieldPaths{ID: "][bad"}})
	assert.Error(t, err)
}

func TestHTTPFeed_Indicators_GroupsTagged(t *testing.T) {
	srv := feedServer(t, map[string]any{
		"items": []any{
			map[string]any{"id": "VIX Index", "last_price": 14.2, "chg_pct_ytd": -8.0},
			map[string]any{"id": "GT10 Govt", "last_price": 4.2},
		},
	})

	feed, err := NewHTTPFeed(FeedOptions{BaseURL: srv.URL})
	require.NoError(t, err)

	rows, err := feed.Indicators(context.Background(), []string{"VIX Index", "GT10 Govt"})
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, "Volatility", rows[0].Group)
	assert.Equal(t, -8.0, rows[0].ChgPctYTD)
	assert.Equal(t, "Rates", rows[1].Group)
}

func TestHTTPFeed_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	feed, err := NewHTTPFeed(FeedOptions{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = feed.Quotes(context.Background(), []string{"x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestHTTPFeed_EmptyRequest(t *testing.T) {
	feed, err := NewHTTPFeed(FeedOptions{BaseURL: "http://feed.invalid"})
	require.NoError(t, err)

	quotes, err := feed.Quotes(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, quotes)
}

func TestStaticFeed_DeterministicWithOverrides(t *testing.T) {
	feed := &StaticFeed{Overrides: map[string]model.Quote{
		"VIX Index": {CUSIP: "VIX Index", LastPrice: 20, ChgNet1D: 2, ChgPct1D: 10},
	}}

	first, err := feed.Quotes(context.Background(), []string{"VIX Index", "ESA Index"})
	require.NoError(t, err)
	second, err := feed.Quotes(context.Background(), []string{"VIX Index", "ESA Index"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 20.0, first["VIX Index"].LastPrice)
	assert.NotZero(t, first["ESA Index"].LastPrice)

	rows, err := feed.Indicators(context.Background(), []string{"ESA Index"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Equities", rows[0].Group)
}
