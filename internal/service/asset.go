package service

import (
	"context"

	"github.com/quantbridge/tradeops/internal/domain/model"
	"github.com/quantbridge/tradeops/internal/ports"
)

// AssetServiceOptions groups dependencies for AssetService.
type AssetServiceOptions struct {
	Repo ports.AssetRepository
}

// AssetService orchestrates CRUD for bookable instruments.
type AssetService struct {
	repo ports.AssetRepository
}

// NewAssetService constructs a new AssetService.
func NewAssetService(opts AssetServiceOptions) *AssetService {
	return &AssetService{repo: opts.Repo}
}

// List returns all assets ordered by display name.
func (s *AssetService) List(ctx context.Context) ([]model.Asset, error) {
	return s.repo.List(ctx)
}

// Get retrieves a single asset by ID.
func (s *AssetService) Get(ctx context.Context, id int) (model.Asset, error) {
	return s.repo.Get(ctx, id)
}

// Create validates and stores a new asset owned by the acting user.
func (s *AssetService) Create(ctx context.Context, req model.CreateAssetRequest, createdBy int) (model.Asset, error) {
	return s.repo.Create(ctx, req, createdBy)
}

// Update replaces an asset's editable fields.
func (s *AssetService) Update(ctx context.Context, id int, req model.CreateAssetRequest) (model.Asset, error) {
	return s.repo.Update(ctx, id, req)
}

// Delete removes an asset. Assets with booked trades cannot be deleted.
func (s *AssetService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}
