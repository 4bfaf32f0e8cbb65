package service

import (
	"context"

	"github.com/quantbridge/tradeops/internal/domain/model"
	"github.com/quantbridge/tradeops/internal/ports"
)

// HoldingServiceOptions groups dependencies for HoldingService.
type HoldingServiceOptions struct {
	Repo ports.HoldingRepository
}

// HoldingService exposes current positions derived from the blotter.
// Holdings are read-only; they change only as trades are booked.
type HoldingService struct {
	repo ports.HoldingRepository
}

// NewHoldingService constructs a new HoldingService.
func NewHoldingService(opts HoldingServiceOptions) *HoldingService {
	return &HoldingService{repo: opts.Repo}
}

// List returns all non-flat positions.
func (s *HoldingService) List(ctx context.Context) ([]model.Holding, error) {
	return s.repo.List(ctx)
}
