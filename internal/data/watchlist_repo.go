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
	// ErrWatchItemNotFound is returned when a watchlist entry is not found
	// for the requesting user.
	ErrWatchItemNotFound = errors.New("watchlist entry not found")
	// ErrWatchItemExists is returned when the user already tracks the CUSIP.
	ErrWatchItemExists = errors.New("cusip already on watchlist")
)

// WatchlistRepo provides database operations for per-user watchlists.
type WatchlistRepo struct {
	DB *sql.DB
}

// NewWatchlistRepo creates a new WatchlistRepo.
func NewWatchlistRepo(db *sql.DB) *WatchlistRepo {
	return &WatchlistRepo{DB: db}
}

// ListByUser retrieves the user's watchlist ordered by id.
func (r *WatchlistRepo) ListByUser(ctx context.Context, userID int) ([]model.WatchItem, error) {
	var out []model.WatchItem
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT id, cusip, asset_type, created_by FROM watchlist WHERE created_by = $1 ORDER BY id`,
			userID,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.WatchItem])
		return err
	}); err != nil {
		return nil, fmt.Errorf("list watchlist: %w", err)
	}
	return out, nil
}

// Add puts a CUSIP on the user's watchlist.
func (r *WatchlistRepo) Add(
	ctx context.Context,
	req model.CreateWatchItemRequest,
	userID int,
) (model.WatchItem, error) {
	if err := req.Validate(); err != nil {
		return model.WatchItem{}, err
	}

	var out model.WatchItem
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO watchlist (cusip, asset_type, created_by)
			VALUES ($1, $2, $3)
			RETURNING id, cusip, asset_type, created_by`,
			req.CUSIP, req.AssetType, userID,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.WatchItem])
		return err
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return model.WatchItem{}, ErrWatchItemExists
		}
		return model.WatchItem{}, fmt.Errorf("add watchlist entry: %w", err)
	}
	return out, nil
}

// Remove deletes a watchlist entry. The entry must belong to the user.
func (r *WatchlistRepo) Remove(ctx context.Context, id, userID int) error {
	var affected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx,
			`DELETE FROM watchlist WHERE id = $1 AND created_by = $2`, id, userID)
		if err != nil {
			return err
		}
		affected = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return fmt.Errorf("remove watchlist entry: %w", err)
	}
	if affected == 0 {
		return ErrWatchItemNotFound
	}
	return nil
}
