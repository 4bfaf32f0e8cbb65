//revive:disable-next-line:var-naming // legacy package name used across the project
package model

import (
	"errors"
	"strings"
)

// WatchItem is a CUSIP a user is tracking. CUSIPs are unique per user on the
// watchlist.
type WatchItem struct {
	ID        int       `json:"id"         db:"id"`
	CUSIP     string    `json:"cusip"      db:"cusip"`
	AssetType AssetType `json:"asset_type" db:"asset_type"`
	CreatedBy int       `json:"created_by" db:"created_by"`
}

// CreateWatchItemRequest contains fields to add a CUSIP to the watchlist.
type CreateWatchItemRequest struct {
	CUSIP     string    `json:"cusip"`
	AssetType AssetType `json:"asset_type"`
}

// Validate checks required fields and enumerations.
func (r CreateWatchItemRequest) Validate() error {
	if strings.TrimSpace(r.CUSIP) == "" {
		return errors.New("cusip is required")
	}
	if !r.AssetType.Valid() {
		return errors.New("unsupported asset type")
	}
	return nil
}

// WatchItemWithData is a watchlist row enriched with market data from the
// pricing feed. Quote is nil when the feed has no data for the CUSIP.
type WatchItemWithData struct {
	WatchItem
	Quote *Quote `json:"quote,omitempty"`
}

// Quote is a pricing feed snapshot for a single instrument.
type Quote struct {
	CUSIP     string  `json:"cusip"`
	LastPrice float64 `json:"last_price"`
	ChgNet1D  float64 `json:"chg_net_1d"`
	ChgPct1D  float64 `json:"chg_pct_1d"`
}
