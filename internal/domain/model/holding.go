//revive:disable-next-line:var-naming // legacy package name used across the project
package model

// Holding is a current portfolio position. Holdings are derived from booked
// trades and are read-only through the API.
type Holding struct {
	ID          int     `json:"id"           db:"id"`
	CUSIP       string  `json:"cusip"        db:"cusip"`
	DisplayName string  `json:"display_name" db:"display_name"`
	AssetType   string  `json:"asset_type"   db:"asset_type"`
	Quantity    float64 `json:"quantity"     db:"quantity"`
	AvgCost     float64 `json:"avg_cost"     db:"avg_cost"`
	Mark        float64 `json:"mark"         db:"mark"`
	MarketValue float64 `json:"market_value" db:"market_value"`
}
