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
	// ErrTradeNotFound is returned when a trade is not found.
	ErrTradeNotFound = errors.New("trade not found")
	// ErrTradeAssetMissing is returned when booking against an unknown asset.
	ErrTradeAssetMissing = errors.New("referenced asset does not exist")
)

// TradeRepo provides database operations for trades.
type TradeRepo struct {
	DB *sql.DB
}

// NewTradeRepo creates a new TradeRepo.
func NewTradeRepo(db *sql.DB) *TradeRepo {
	return &TradeRepo{DB: db}
}

const tradeColumns = `
	id, trade_date, settle_date, direction, asset_type, asset_id, quantity, price,
	counterparty, fund_alloc, sub_alloc, agreement_type, doc_type, notes, created_by`

// List retrieves all trades, most recent trade date first.
func (r *TradeRepo) List(ctx context.Context) ([]model.Trade, error) {
	var out []model.Trade
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT `+tradeColumns+` FROM trades ORDER BY trade_date DESC, id DESC`)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Trade])
		return err
	}); err != nil {
		return nil, fmt.Errorf("list trades: %w", err)
	}
	return out, nil
}

// Get retrieves a trade by ID.
func (r *TradeRepo) Get(ctx context.Context, id int) (model.Trade, error) {
	var out model.Trade
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT `+tradeColumns+` FROM trades WHERE id = $1`, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Trade])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Trade{}, ErrTradeNotFound
		}
		return model.Trade{}, fmt.Errorf("get trade: %w", err)
	}
	return out, nil
}

// Create books a new trade owned by createdBy.
func (r *TradeRepo) Create(
	ctx context.Context,
	req model.CreateTradeRequest,
	createdBy int,
) (model.Trade, error) {
	if err := req.Validate(); err != nil {
		return model.Trade{}, err
	}

	var out model.Trade
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO trades (
				trade_date, settle_date, direction, asset_type, asset_id, quantity, price,
				counterparty, fund_alloc, sub_alloc, agreement_type, doc_type, notes, created_by
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			RETURNING `+tradeColumns,
			req.TradeDate, req.SettleDate, req.Direction, req.AssetType, req.AssetID,
			req.Quantity, req.Price, req.Counterparty, req.FundAlloc, req.SubAlloc,
			req.AgreementType, req.DocType, req.Notes, createdBy,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Trade])
		return err
	})
	if err != nil {
		return model.Trade{}, r.mapWriteErr(err, false)
	}
	return out, nil
}

// Update amends a booked trade.
func (r *TradeRepo) Update(
	ctx context.Context,
	id int,
	req model.CreateTradeRequest,
) (model.Trade, error) {
	if err := req.Validate(); err != nil {
		return model.Trade{}, err
	}

	var out model.Trade
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE trades SET
				trade_date = $1, settle_date = $2, direction = $3, asset_type = $4,
				asset_id = $5, quantity = $6, price = $7, counterparty = $8,
				fund_alloc = $9, sub_alloc = $10, agreement_type = $11,
				doc_type = $12, notes = $13
			WHERE id = $14
			RETURNING `+tradeColumns,
			req.TradeDate, req.SettleDate, req.Direction, req.AssetType, req.AssetID,
			req.Quantity, req.Price, req.Counterparty, req.FundAlloc, req.SubAlloc,
			req.AgreementType, req.DocType, req.Notes, id,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Trade])
		return err
	})
	if err != nil {
		return model.Trade{}, r.mapWriteErr(err, true)
	}
	return out, nil
}

// Delete cancels a trade by ID.
func (r *TradeRepo) Delete(ctx context.Context, id int) error {
	var affected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM trades WHERE id = $1`, id)
		if err != nil {
			return err
		}
		affected = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete trade: %w", err)
	}
	if affected == 0 {
		return ErrTradeNotFound
	}
	return nil
}

func (r *TradeRepo) mapWriteErr(err error, includeNotFound bool) error {
	if err == nil {
		return nil
	}
	if includeNotFound && errors.Is(err, pgx.ErrNoRows) {
		return ErrTradeNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
		return ErrTradeAssetMissing
	}
	return err
}
