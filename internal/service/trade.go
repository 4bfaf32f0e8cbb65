package service

import (
	"context"

	"github.com/quantbridge/tradeops/internal/domain/model"
	"github.com/quantbridge/tradeops/internal/ports"
)

// TradeServiceOptions groups dependencies for TradeService.
type TradeServiceOptions struct {
	Repo ports.TradeRepository
}

// TradeService orchestrates the trade blotter.
type TradeService struct {
	repo ports.TradeRepository
}

// NewTradeService constructs a new TradeService.
func NewTradeService(opts TradeServiceOptions) *TradeService {
	return &TradeService{repo: opts.Repo}
}

// List returns the blotter, most recent trade date first.
func (s *TradeService) List(ctx context.Context) ([]model.Trade, error) {
	return s.repo.List(ctx)
}

// Get retrieves a single trade by ID.
func (s *TradeService) Get(ctx context.Context, id int) (model.Trade, error) {
	return s.repo.Get(ctx, id)
}

// Create books a trade for the acting user.
func (s *TradeService) Create(ctx context.Context, req model.CreateTradeRequest, createdBy int) (model.Trade, error) {
	return s.repo.Create(ctx, req, createdBy)
}

// Update amends a booked trade.
func (s *TradeService) Update(ctx context.Context, id int, req model.CreateTradeRequest) (model.Trade, error) {
	return s.repo.Update(ctx, id, req)
}

// Delete cancels a booked trade.
func (s *TradeService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}
