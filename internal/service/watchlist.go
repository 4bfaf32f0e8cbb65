package service

import (
	"context"
	"log/slog"

	"github.com/quantbridge/tradeops/internal/domain/model"
	"github.com/quantbridge/tradeops/internal/ports"
)

// WatchlistServiceOptions groups dependencies for WatchlistService.
type WatchlistServiceOptions struct {
	Repo   ports.WatchlistRepository
	Market ports.MarketData
	Logger *slog.Logger
}

// WatchlistService manages per-user tracked CUSIPs and enriches them with
// quotes from the pricing feed.
type WatchlistService struct {
	repo   ports.WatchlistRepository
	market ports.MarketData
	logger *slog.Logger
}

// NewWatchlistService constructs a new WatchlistService.
func NewWatchlistService(opts WatchlistServiceOptions) *WatchlistService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &WatchlistService{repo: opts.Repo, market: opts.Market, logger: logger}
}

// List returns the user's watchlist with quotes attached where the feed has
// data. A feed outage degrades to rows without quotes rather than an error.
func (s *WatchlistService) List(ctx context.Context, userID int) ([]model.WatchItemWithData, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	enriched := make([]model.WatchItemWithData, len(items))
	for i, item := range items {
		enriched[i] = model.WatchItemWithData{WatchItem: item}
	}
	if len(items) == 0 || s.market == nil {
		return enriched, nil
	}

	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.CUSIP
	}

	quotes, err := s.market.Quotes(ctx, ids)
	if err != nil {
		s.logger.Warn("watchlist quote fetch failed", "error", err, "cusips", len(ids))
		return enriched, nil
	}

	for i := range enriched {
		if q, ok := quotes[enriched[i].CUSIP]; ok {
			quote := q
			enriched[i].Quote = &quote
		}
	}
	return enriched, nil
}

// Add tracks a CUSIP on the user's watchlist.
func (s *WatchlistService) Add(ctx context.Context, req model.CreateWatchItemRequest, userID int) (model.WatchItem, error) {
	if err := req.Validate(); err != nil {
		return model.WatchItem{}, err
	}
	return s.repo.Add(ctx, req, userID)
}

// Remove untracks a watchlist entry. Users can only remove their own entries.
func (s *WatchlistService) Remove(ctx context.Context, id, userID int) error {
	return s.repo.Remove(ctx, id, userID)
}
