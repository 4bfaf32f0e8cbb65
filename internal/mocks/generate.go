// Package mocks provides mock implementations for testing the tradeops services.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our repository
// and market data interfaces. The mocks are generated using go:generate directives and provide
// a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockRepo := mocks.NewMockAssetRepository(ctrl)
//	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(asset, nil)
package mocks

// Generate mocks for the repository interfaces from internal/ports.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=repositories_mock.go github.com/quantbridge/tradeops/internal/ports UserRepository,AccessRepository,AssetRepository,TradeRepository,HoldingRepository,WatchlistRepository

// Generate mock for the MarketData interface from internal/ports.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=market_data_mock.go github.com/quantbridge/tradeops/internal/ports MarketData
