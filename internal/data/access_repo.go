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
	domainauth "github.com/quantbridge/tradeops/internal/domain/auth"
)

// ErrUnknownAssignment is returned when an assignment references a role,
// action, or user that does not exist.
var ErrUnknownAssignment = errors.New("assignment references unknown entity")

// AccessRepo manages the role/action catalog and its assignments.
type AccessRepo struct {
	DB *sql.DB
}

// NewAccessRepo creates a new AccessRepo.
func NewAccessRepo(db *sql.DB) *AccessRepo {
	return &AccessRepo{DB: db}
}

type catalogRow struct {
	ID   int    `db:"id"`
	Name string `db:"name"`
}

// ListRoles returns all roles with their action lists, ordered by id.
func (r *AccessRepo) ListRoles(ctx context.Context) ([]domainauth.Role, error) {
	var roleRows []catalogRow
	var actionRows []actionRowWithRole
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT id, name FROM roles ORDER BY id`)
		if err != nil {
			return err
		}
		roleRows, err = pgx.CollectRows(rows, pgx.RowToStructByName[catalogRow])
		rows.Close()
		if err != nil {
			return err
		}

		rows, err = conn.Query(ctx, `
			SELECT ra.role_id, a.id AS action_id, a.name
			FROM actions a
			JOIN role_actions ra ON ra.action_id = a.id
			ORDER BY ra.role_id, a.id`)
		if err != nil {
			return err
		}
		actionRows, err = pgx.CollectRows(rows, pgx.RowToStructByName[actionRowWithRole])
		rows.Close()
		return err
	}); err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}

	actionsByRole := make(map[int][]domainauth.Action)
	for _, a := range actionRows {
		actionsByRole[a.RoleID] = append(actionsByRole[a.RoleID], domainauth.Action{
			ID:   a.ActionID,
			Name: a.Name,
		})
	}

	roles := make([]domainauth.Role, 0, len(roleRows))
	for _, rr := range roleRows {
		actions := actionsByRole[rr.ID]
		if actions == nil {
			actions = []domainauth.Action{}
		}
		roles = append(roles, domainauth.Role{ID: rr.ID, Name: rr.Name, Actions: actions})
	}
	return roles, nil
}

// ListActions returns the full action catalog, ordered by id.
func (r *AccessRepo) ListActions(ctx context.Context) ([]domainauth.Action, error) {
	var rowsOut []catalogRow
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT id, name FROM actions ORDER BY id`)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[catalogRow])
		return err
	}); err != nil {
		return nil, fmt.Errorf("list actions: %w", err)
	}

	actions := make([]domainauth.Action, 0, len(rowsOut))
	for _, row := range rowsOut {
		actions = append(actions, domainauth.Action{ID: row.ID, Name: row.Name})
	}
	return actions, nil
}

// SetRoleActions replaces the action set of a role atomically.
func (r *AccessRepo) SetRoleActions(ctx context.Context, roleID int, actionIDs []int) error {
	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{Fn: func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM role_actions WHERE role_id = $1`, roleID); err != nil {
			return err
		}
		for _, actionID := range actionIDs {
			if _, err := tx.Exec(ctx,
				`INSERT INTO role_actions (role_id, action_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
				roleID, actionID,
			); err != nil {
				return err
			}
		}
		return nil
	}})
	return r.mapAssignErr(err, "set role actions")
}

// SetUserRoles replaces the role set of a user atomically.
func (r *AccessRepo) SetUserRoles(ctx context.Context, userID int, roleIDs []int) error {
	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{Fn: func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1`, userID); err != nil {
			return err
		}
		for _, roleID := range roleIDs {
			if _, err := tx.Exec(ctx,
				`INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
				userID, roleID,
			); err != nil {
				return err
			}
		}
		return nil
	}})
	return r.mapAssignErr(err, "set user roles")
}

func (r *AccessRepo) mapAssignErr(err error, op string) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
		return ErrUnknownAssignment
	}
	return fmt.Errorf("%s: %w", op, err)
}
