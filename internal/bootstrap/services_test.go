package bootstrap

import (
	"log/slog"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/quantbridge/tradeops/config"
	"github.com/quantbridge/tradeops/internal/adapters/marketdata"
	"github.com/quantbridge/tradeops/internal/adapters/memcache"
	redisadapter "github.com/quantbridge/tradeops/internal/adapters/redis"
)

func TestBuildSessionCache(t *testing.T) {
	t.Parallel()

	assert.IsType(t, &memcache.SessionCache{}, buildSessionCache(nil))

	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	t.Cleanup(func() { _ = client.Close() })
	assert.IsType(t, &redisadapter.SessionCache{}, buildSessionCache(client))
}

func TestBuildMarketDataFeed(t *testing.T) {
	t.Parallel()
	logger := slog.Default()

	feed := buildMarketDataFeed(config.MarketDataConfig{}, logger)
	assert.IsType(t, &marketdata.StaticFeed{}, feed)

	feed = buildMarketDataFeed(config.MarketDataConfig{
		BaseURL: "https://feed.example.com",
		APIKey:  "key",
	}, logger)
	assert.IsType(t, &marketdata.HTTPFeed{}, feed)
}
