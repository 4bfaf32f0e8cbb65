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

func newMacroService(t *testing.T) (*mocks.MockMarketData, *MacroService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	market := mocks.NewMockMarketData(ctrl)
	return market, NewMacroService(MacroServiceOptions{Market: market})
}

func TestMacroService_Snapshot_GroupsByLayout(t *testing.T) {
	t.Parallel()
	market, svc := newMacroService(t)
	ctx := context.Background()

	market.EXPECT().
		Indicators(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, tickers []string) ([]model.MacroIndicator, error) {
			// One call covering every ticker in the layout.
			var total int
			for _, g := range model.MacroGroups {
				total += len(g.Tickers)
			}
			assert.Len(t, tickers, total)
			return []model.MacroIndicator{
				{Ticker: "VIX Index", LastPrice: 14.2, ChgPct1D: -1.1},
				{Ticker: "ESA Index", LastPrice: 5600, ChgPct1D: 0.3},
				{Ticker: "GT10 Govt", LastPrice: 4.25, ChgNet1D: 0.02},
			}, nil
		})

	sections, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, sections, len(model.MacroGroups))

	// Layout order is preserved even for empty sections.
	assert.Equal(t, "Equities", sections[0].Name)
	require.Len(t, sections[0].Indicators, 1)
	assert.Equal(t, "ESA Index", sections[0].Indicators[0].Ticker)
	assert.Equal(t, "Equities", sections[0].Indicators[0].Group)

	assert.Equal(t, "Volatility", sections[1].Name)
	require.Len(t, sections[1].Indicators, 1)
	assert.Equal(t, 14.2, sections[1].Indicators[0].LastPrice)

	assert.Equal(t, "Credit", sections[2].Name)
	assert.Empty(t, sections[2].Indicators)

	assert.Equal(t, "Rates", sections[3].Name)
	require.Len(t, sections[3].Indicators, 1)
	assert.Equal(t, "GT10 Govt", sections[3].Indicators[0].Ticker)
}

func TestMacroService_Snapshot_FeedError(t *testing.T) {
	t.Parallel()
	market, svc := newMacroService(t)

	market.EXPECT().Indicators(gomock.Any(), gomock.Any()).Return(nil, errors.New("upstream 429"))

	_, err := svc.Snapshot(context.Background())
	assert.ErrorContains(t, err, "fetch indicators")
}
