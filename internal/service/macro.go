package service

import (
	"context"
	"fmt"

	"github.com/quantbridge/tradeops/internal/domain/model"
	"github.com/quantbridge/tradeops/internal/ports"
)

// MacroServiceOptions groups dependencies for MacroService.
type MacroServiceOptions struct {
	Market ports.MarketData
}

// MacroService renders the macro dashboard from the pricing feed.
type MacroService struct {
	market ports.MarketData
}

// NewMacroService constructs a new MacroService.
func NewMacroService(opts MacroServiceOptions) *MacroService {
	return &MacroService{market: opts.Market}
}

// Snapshot fetches all dashboard tickers in one feed call and arranges the
// rows into the fixed group layout. Groups keep their display order; tickers
// the feed has no data for are omitted from their section.
func (s *MacroService) Snapshot(ctx context.Context) ([]model.MacroSection, error) {
	var tickers []string
	for _, g := range model.MacroGroups {
		tickers = append(tickers, g.Tickers...)
	}

	indicators, err := s.market.Indicators(ctx, tickers)
	if err != nil {
		return nil, fmt.Errorf("fetch indicators: %w", err)
	}

	byTicker := make(map[string]model.MacroIndicator, len(indicators))
	for _, ind := range indicators {
		byTicker[ind.Ticker] = ind
	}

	sections := make([]model.MacroSection, 0, len(model.MacroGroups))
	for _, g := range model.MacroGroups {
		section := model.MacroSection{Name: g.Name, Indicators: []model.MacroIndicator{}}
		for _, ticker := range g.Tickers {
			if ind, ok := byTicker[ticker]; ok {
				ind.Group = g.Name
				section.Indicators = append(section.Indicators, ind)
			}
		}
		sections = append(sections, section)
	}
	return sections, nil
}
