package ports

import (
	"context"

	"github.com/quantbridge/tradeops/internal/domain/model"
)

// MarketData is the pricing feed behind the macro dashboard and watchlist
// enrichment. Implementations may batch; missing tickers are omitted from the
// result rather than erroring.
type MarketData interface {
	// Quotes returns feed snapshots keyed by the requested identifier.
	Quotes(ctx context.Context, ids []string) (map[string]model.Quote, error)

	// Indicators returns macro rows for the requested tickers.
	Indicators(ctx context.Context, tickers []string) ([]model.MacroIndicator, error)
}
