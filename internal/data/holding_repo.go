package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/quantbridge/tradeops/internal/data/pgxutil"
	"github.com/quantbridge/tradeops/internal/domain/model"
)

// HoldingRepo derives current positions from booked trades. Positions are
// aggregated per asset; fully unwound positions are excluded.
type HoldingRepo struct {
	DB *sql.DB
}

// NewHoldingRepo creates a new HoldingRepo.
func NewHoldingRepo(db *sql.DB) *HoldingRepo {
	return &HoldingRepo{DB: db}
}

// holdingsQuery nets signed quantities per asset and carries a buy-weighted
// average cost. Market value uses the asset's current mark when present,
// falling back to average cost.
const holdingsQuery = `
	SELECT
		a.id,
		a.cusip,
		a.display_name,
		a.type AS asset_type,
		SUM(CASE WHEN t.direction = 'Buy' THEN t.quantity ELSE -t.quantity END) AS quantity,
		COALESCE(
			SUM(CASE WHEN t.direction = 'Buy' THEN t.quantity * t.price ELSE 0 END)
				/ NULLIF(SUM(CASE WHEN t.direction = 'Buy' THEN t.quantity ELSE 0 END), 0),
			0
		) AS avg_cost,
		COALESCE(
			a.mark,
			SUM(CASE WHEN t.direction = 'Buy' THEN t.quantity * t.price ELSE 0 END)
				/ NULLIF(SUM(CASE WHEN t.direction = 'Buy' THEN t.quantity ELSE 0 END), 0),
			0
		) AS mark,
		SUM(CASE WHEN t.direction = 'Buy' THEN t.quantity ELSE -t.quantity END)
			* COALESCE(
				a.mark,
				SUM(CASE WHEN t.direction = 'Buy' THEN t.quantity * t.price ELSE 0 END)
					/ NULLIF(SUM(CASE WHEN t.direction = 'Buy' THEN t.quantity ELSE 0 END), 0),
				0
			) AS market_value
	FROM trades t
	JOIN assets a ON a.id = t.asset_id
	GROUP BY a.id, a.cusip, a.display_name, a.type, a.mark
	HAVING SUM(CASE WHEN t.direction = 'Buy' THEN t.quantity ELSE -t.quantity END) <> 0
	ORDER BY a.display_name`

// List returns current positions.
func (r *HoldingRepo) List(ctx context.Context) ([]model.Holding, error) {
	var out []model.Holding
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, holdingsQuery)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Holding])
		return err
	}); err != nil {
		return nil, fmt.Errorf("list holdings: %w", err)
	}
	return out, nil
}
