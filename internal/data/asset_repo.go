package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/quantbridge/tradeops/internal/data/pgxutil"
	"github.com/quantbridge/tradeops/internal/domain/model"
)

var (
	// ErrAssetNotFound is returned when an asset is not found.
	ErrAssetNotFound = errors.New("asset not found")
	// ErrAssetExists is returned when a user already booked the CUSIP.
	ErrAssetExists = errors.New("asset already exists for this user")
	// ErrAssetInUse is returned when deleting an asset that has booked trades.
	ErrAssetInUse = errors.New("asset has booked trades")
)

// AssetRepo provides database operations for assets.
type AssetRepo struct {
	DB *sql.DB
}

// NewAssetRepo creates a new AssetRepo.
func NewAssetRepo(db *sql.DB) *AssetRepo {
	return &AssetRepo{DB: db}
}

const assetColumns = `
	id, cusip, type, display_name, issuer, deal_name, spread_coupon, maturity,
	payment_rank, moodys_cfr, moodys_asset, sp_cfr, sp_asset,
	amount_outstanding, mark, created_by`

// List retrieves all assets ordered by display name.
func (r *AssetRepo) List(ctx context.Context) ([]model.Asset, error) {
	var out []model.Asset
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT `+assetColumns+` FROM assets ORDER BY display_name, id`)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Asset])
		return err
	}); err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	return out, nil
}

// Get retrieves an asset by ID.
func (r *AssetRepo) Get(ctx context.Context, id int) (model.Asset, error) {
	var out model.Asset
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT `+assetColumns+` FROM assets WHERE id = $1`, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Asset])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Asset{}, ErrAssetNotFound
		}
		return model.Asset{}, fmt.Errorf("get asset: %w", err)
	}
	return out, nil
}

// Create inserts a new asset owned by createdBy.
func (r *AssetRepo) Create(
	ctx context.Context,
	req model.CreateAssetRequest,
	createdBy int,
) (model.Asset, error) {
	if err := req.Validate(); err != nil {
		return model.Asset{}, err
	}

	var out model.Asset
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO assets (
				cusip, type, display_name, issuer, deal_name, spread_coupon, maturity,
				payment_rank, moodys_cfr, moodys_asset, sp_cfr, sp_asset,
				amount_outstanding, mark, created_by
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
			RETURNING `+assetColumns,
			req.CUSIP, req.Type, req.DisplayName, req.Issuer, req.DealName,
			req.SpreadCoupon, req.Maturity, req.PaymentRank, req.MoodysCFR,
			req.MoodysAsset, req.SPCFR, req.SPAsset, req.AmountOutstanding,
			req.Mark, createdBy,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Asset])
		return err
	})
	if err != nil {
		return model.Asset{}, r.mapWriteErr(err, false)
	}
	return out, nil
}

// Update replaces the mutable fields of an asset. Ownership does not change.
func (r *AssetRepo) Update(
	ctx context.Context,
	id int,
	req model.CreateAssetRequest,
) (model.Asset, error) {
	if err := req.Validate(); err != nil {
		return model.Asset{}, err
	}

	var out model.Asset
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE assets SET
				cusip = $1, type = $2, display_name = $3, issuer = $4, deal_name = $5,
				spread_coupon = $6, maturity = $7, payment_rank = $8, moodys_cfr = $9,
				moodys_asset = $10, sp_cfr = $11, sp_asset = $12,
				amount_outstanding = $13, mark = $14
			WHERE id = $15
			RETURNING `+assetColumns,
			req.CUSIP, req.Type, req.DisplayName, req.Issuer, req.DealName,
			req.SpreadCoupon, req.Maturity, req.PaymentRank, req.MoodysCFR,
			req.MoodysAsset, req.SPCFR, req.SPAsset, req.AmountOutstanding,
			req.Mark, id,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Asset])
		return err
	})
	if err != nil {
		return model.Asset{}, r.mapWriteErr(err, true)
	}
	return out, nil
}

// Delete removes an asset by ID. Assets with booked trades cannot be deleted.
func (r *AssetRepo) Delete(ctx context.Context, id int) error {
	var affected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM assets WHERE id = $1`, id)
		if err != nil {
			return err
		}
		affected = ct.RowsAffected()
		return nil
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return ErrAssetInUse
		}
		return fmt.Errorf("delete asset: %w", err)
	}
	if affected == 0 {
		return ErrAssetNotFound
	}
	return nil
}

func (r *AssetRepo) mapWriteErr(err error, includeNotFound bool) error {
	if err == nil {
		return nil
	}
	if includeNotFound && errors.Is(err, pgx.ErrNoRows) {
		return ErrAssetNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return ErrAssetExists
	}
	return err
}
