package marketdata

import (
	"context"
	"hash/fnv"

	"github.com/quantbridge/tradeops/internal/domain/model"
)

// StaticFeed is a deterministic in-process feed for local development and
// tests. Values are derived from the identifier so reloads are stable.
type StaticFeed struct {
	// Overrides pins exact quotes for specific identifiers.
	Overrides map[string]model.Quote
}

func (s *StaticFeed) Quotes(_ context.Context, ids []string) (map[string]model.Quote, error) {
	out := make(map[string]model.Quote, len(ids))
	for _, id := range ids {
		if s.Overrides != nil {
			if q, ok := s.Overrides[id]; ok {
				out[id] = q
				continue
			}
		}
		out[id] = syntheticQuote(id)
	}
	return out, nil
}

func (s *StaticFeed) Indicators(_ context.Context, tickers []string) ([]model.MacroIndicator, error) {
	out := make([]model.MacroIndicator, 0, len(tickers))
	for _, ticker := range tickers {
		q := syntheticQuote(ticker)
		if s.Overrides != nil {
			if o, ok := s.Overrides[ticker]; ok {
				q = o
			}
		}
		out = append(out, model.MacroIndicator{
			Ticker:    ticker,
			LastPrice: q.LastPrice,
			ChgNet1D:  q.ChgNet1D,
			ChgPct1D:  q.ChgPct1D,
			ChgPct5D:  q.ChgPct1D * 2.5,
			ChgPct1M:  q.ChgPct1D * 4,
			ChgPct6M:  q.ChgPct1D * 9,
			ChgPctYTD: q.ChgPct1D * 12,
			Group:     GroupFor(ticker),
		})
	}
	return out, nil
}

func syntheticQuote(id string) model.Quote {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	seed := h.Sum32()

	price := 50 + float64(seed%15000)/100   // 50.00 .. 199.99
	net := float64(int32(seed%500)-250) / 100 // -2.50 .. +2.49
	pct := 0.0
	if price != 0 {
		pct = net / price * 100
	}
	return model.Quote{CUSIP: id, LastPrice: price, ChgNet1D: net, ChgPct1D: pct}
}
