//revive:disable-next-line:var-naming // legacy package name used across the project
package model

import (
	"errors"
	"strings"
	"time"
)

// AssetType enumerates the instrument types the desk books.
type AssetType string

const (
	AssetTypeBond                AssetType = "Bond"
	AssetTypeStock               AssetType = "Stock"
	AssetTypeOther               AssetType = "Other"
	AssetTypeCorporateBond       AssetType = "Corporate Bond"
	AssetTypeGovernmentBond      AssetType = "Government Bond"
	AssetTypeTermLoan            AssetType = "Term Loan"
	AssetTypeRevolver            AssetType = "Revolver"
	AssetTypeEquity              AssetType = "Equity"
	AssetTypeEquityOption        AssetType = "Equity Option"
	AssetTypeTradeClaim          AssetType = "Trade Claim"
	AssetTypeSingleNameCDS       AssetType = "Single Name CDS"
	AssetTypeIndexCDS            AssetType = "Index CDS"
	AssetTypeDelayedDrawTermLoan AssetType = "Delayed Draw Term Loan"
)

// Valid reports whether the asset type is one of the supported instruments.
func (t AssetType) Valid() bool {
	switch t {
	case AssetTypeBond, AssetTypeStock, AssetTypeOther, AssetTypeCorporateBond,
		AssetTypeGovernmentBond, AssetTypeTermLoan, AssetTypeRevolver,
		AssetTypeEquity, AssetTypeEquityOption, AssetTypeTradeClaim,
		AssetTypeSingleNameCDS, AssetTypeIndexCDS, AssetTypeDelayedDrawTermLoan:
		return true
	default:
		return false
	}
}

// Asset is a bookable instrument identified by CUSIP. CUSIPs are unique per
// creating user, not globally.
type Asset struct {
	ID                int        `json:"id"                           db:"id"`
	CUSIP             string     `json:"cusip"                        db:"cusip"`
	Type              AssetType  `json:"type"                         db:"type"`
	DisplayName       string     `json:"display_name"                 db:"display_name"`
	Issuer            *string    `json:"issuer,omitempty"             db:"issuer"`
	DealName          *string    `json:"deal_name,omitempty"          db:"deal_name"`
	SpreadCoupon      *float64   `json:"spread_coupon,omitempty"      db:"spread_coupon"`
	Maturity          *time.Time `json:"maturity,omitempty"           db:"maturity"`
	PaymentRank       *string    `json:"payment_rank,omitempty"       db:"payment_rank"`
	MoodysCFR         *string    `json:"moodys_cfr,omitempty"         db:"moodys_cfr"`
	MoodysAsset       *string    `json:"moodys_asset,omitempty"       db:"moodys_asset"`
	SPCFR             *string    `json:"sp_cfr,omitempty"             db:"sp_cfr"`
	SPAsset           *string    `json:"sp_asset,omitempty"           db:"sp_asset"`
	AmountOutstanding *int64     `json:"amount_outstanding,omitempty" db:"amount_outstanding"`
	Mark              *float64   `json:"mark,omitempty"               db:"mark"`
	CreatedBy         int        `json:"created_by"                   db:"created_by"`
}

// CreateAssetRequest contains fields to create or replace an asset.
type CreateAssetRequest struct {
	CUSIP             string     `json:"cusip"`
	Type              AssetType  `json:"type"`
	DisplayName       string     `json:"display_name"`
	Issuer            *string    `json:"issuer,omitempty"`
	DealName          *string    `json:"deal_name,omitempty"`
	SpreadCoupon      *float64   `json:"spread_coupon,omitempty"`
	Maturity          *time.Time `json:"maturity,omitempty"`
	PaymentRank       *string    `json:"payment_rank,omitempty"`
	MoodysCFR         *string    `json:"moodys_cfr,omitempty"`
	MoodysAsset       *string    `json:"moodys_asset,omitempty"`
	SPCFR             *string    `json:"sp_cfr,omitempty"`
	SPAsset           *string    `json:"sp_asset,omitempty"`
	AmountOutstanding *int64     `json:"amount_outstanding,omitempty"`
	Mark              *float64   `json:"mark,omitempty"`
}

// Validate checks required fields and enumerations.
func (r CreateAssetRequest) Validate() error {
	if strings.TrimSpace(r.CUSIP) == "" {
		return errors.New("cusip is required")
	}
	if !r.Type.Valid() {
		return errors.New("unsupported asset type")
	}
	if strings.TrimSpace(r.DisplayName) == "" {
		return errors.New("display_name is required")
	}
	return nil
}
