package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/quantbridge/tradeops/internal/domain/model"
	"github.com/quantbridge/tradeops/internal/mocks"
)

func newWatchlistService(t *testing.T) (*mocks.MockWatchlistRepository, *mocks.MockMarketData, *WatchlistService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	repo := mocks.NewMockWatchlistRepository(ctrl)
	market := mocks.NewMockMarketData(ctrl)
	svc := NewWatchlistService(WatchlistServiceOptions{Repo: repo, Market: market})
	return repo, market, svc
}

func TestWatchlistService_List_EnrichesWithQuotes(t *testing.T) {
	t.Parallel()
	repo, market, svc := newWatchlistService(t)
	ctx := context.Background()

	items := []model.WatchItem{
		{ID: 1, CUSIP: "037833100", AssetType: model.AssetTypeEquity, CreatedBy: 7},
		{ID: 2, CUSIP: "594918104", AssetType: model.AssetTypeEquity, CreatedBy: 7},
	}
	repo.EXPECT().ListByUser(ctx, 7).Return(items, nil)
	market.EXPECT().
		Quotes(ctx, []string{"037833100", "594918104"}).
		Return(map[string]model.Quote{
			"037833100": {CUSIP: "037833100", LastPrice: 182.5, ChgPct1D: 0.4},
		}, nil)

	got, err := svc.List(ctx, 7)
	require.NoError(t, err)
	require.Len(t, got, 2)

	require.NotNil(t, got[0].Quote)
	assert.Equal(t, 182.5, got[0].Quote.LastPrice)
	// Feed had no data for the second CUSIP.
	assert.Nil(t, got[1].Quote)
}

func TestWatchlistService_List_FeedOutageDegrades(t *testing.T) {
	t.Parallel()
	repo, market, svc := newWatchlistService(t)
	ctx := context.Background()

	items := []model.WatchItem{{ID: 1, CUSIP: "037833100", AssetType: model.AssetTypeEquity, CreatedBy: 7}}
	repo.EXPECT().ListByUser(ctx, 7).Return(items, nil)
	market.EXPECT().Quotes(ctx, gomock.Any()).Return(nil, errors.New("upstream 503"))

	got, err := svc.List(ctx, 7)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].Quote)
}

func TestWatchlistService_List_EmptySkipsFeed(t *testing.T) {
	t.Parallel()
	repo, _, svc := newWatchlistService(t)
	ctx := context.Background()

	repo.EXPECT().ListByUser(ctx, 7).Return(nil, nil)

	got, err := svc.List(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestWatchlistService_Add_Validates(t *testing.T) {
	t.Parallel()
	repo, _, svc := newWatchlistService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, model.CreateWatchItemRequest{CUSIP: " "}, 7)
	assert.ErrorContains(t, err, "cusip")

	req := model.CreateWatchItemRequest{CUSIP: "037833100", AssetType: model.AssetTypeEquity}
	repo.EXPECT().Add(ctx, req, 7).Return(model.WatchItem{ID: 3, CUSIP: req.CUSIP, CreatedBy: 7}, nil)

	item, err := svc.Add(ctx, req, 7)
	require.NoError(t, err)
	assert.Equal(t, 3, item.ID)
}

func TestWatchlistService_Remove(t *testing.T) {
	t.Parallel()
	repo, _, svc := newWatchlistService(t)
	ctx := context.Background()

	repo.EXPECT().Remove(ctx, 3, 7).Return(nil)
	assert.NoError(t, svc.Remove(ctx, 3, 7))
}
