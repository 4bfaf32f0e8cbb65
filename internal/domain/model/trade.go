//revive:disable-next-line:var-naming // legacy package name used across the project
package model

import (
	"errors"
	"strings"
	"time"
)

// TradeDirection is the side of a trade.
type TradeDirection string

const (
	TradeDirectionBuy  TradeDirection = "Buy"
	TradeDirectionSell TradeDirection = "Sell"
)

// Valid reports whether the direction is supported.
func (d TradeDirection) Valid() bool {
	return d == TradeDirectionBuy || d == TradeDirectionSell
}

// Trade is a single booked transaction against an asset.
type Trade struct {
	ID            int            `json:"id"                       db:"id"`
	TradeDate     time.Time      `json:"trade_date"               db:"trade_date"`
	SettleDate    time.Time      `json:"settle_date"              db:"settle_date"`
	Direction     TradeDirection `json:"direction"                db:"direction"`
	AssetType     string         `json:"asset_type"               db:"asset_type"`
	AssetID       int            `json:"asset_id"                 db:"asset_id"`
	Quantity      float64        `json:"quantity"                 db:"quantity"`
	Price         float64        `json:"price"                    db:"price"`
	Counterparty  *string        `json:"counterparty,omitempty"   db:"counterparty"`
	FundAlloc     *string        `json:"fund_alloc,omitempty"     db:"fund_alloc"`
	SubAlloc      *string        `json:"sub_alloc,omitempty"      db:"sub_alloc"`
	AgreementType *string        `json:"agreement_type,omitempty" db:"agreement_type"`
	DocType       *string        `json:"doc_type,omitempty"       db:"doc_type"`
	Notes         *string        `json:"notes,omitempty"          db:"notes"`
	CreatedBy     int            `json:"created_by"               db:"created_by"`
}

// CreateTradeRequest contains fields to book or amend a trade.
type CreateTradeRequest struct {
	TradeDate     time.Time      `json:"trade_date"`
	SettleDate    time.Time      `json:"settle_date"`
	Direction     TradeDirection `json:"direction"`
	AssetType     string         `json:"asset_type"`
	AssetID       int            `json:"asset_id"`
	Quantity      float64        `json:"quantity"`
	Price         float64        `json:"price"`
	Counterparty  *string        `json:"counterparty,omitempty"`
	FundAlloc     *string        `json:"fund_alloc,omitempty"`
	SubAlloc      *string        `json:"sub_alloc,omitempty"`
	AgreementType *string        `json:"agreement_type,omitempty"`
	DocType       *string        `json:"doc_type,omitempty"`
	Notes         *string        `json:"notes,omitempty"`
}

// Validate checks required fields, enumerations, and basic economics.
func (r CreateTradeRequest) Validate() error {
	if r.TradeDate.IsZero() {
		return errors.New("trade_date is required")
	}
	if r.SettleDate.IsZero() {
		return errors.New("settle_date is required")
	}
	if r.SettleDate.Before(r.TradeDate) {
		return errors.New("settle_date cannot precede trade_date")
	}
	if !r.Direction.Valid() {
		return errors.New("direction must be Buy or Sell")
	}
	if strings.TrimSpace(r.AssetType) == "" {
		return errors.New("asset_type is required")
	}
	if r.AssetID <= 0 {
		return errors.New("asset_id is required")
	}
	if r.Quantity <= 0 {
		return errors.New("quantity must be positive")
	}
	if r.Price < 0 {
		return errors.New("price cannot be negative")
	}
	return nil
}
