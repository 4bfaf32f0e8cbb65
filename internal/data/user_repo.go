package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/quantbridge/tradeops/internal/data/pgxutil"
	domainauth "github.com/quantbridge/tradeops/internal/domain/auth"
	"github.com/quantbridge/tradeops/internal/ports"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserEmailExists is returned when registering a duplicate email.
	ErrUserEmailExists = errors.New("email already registered")
)

// UserRepo provides database operations for users, including role and action
// hydration.
type UserRepo struct {
	DB *sql.DB
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

// userRow is the scan target for the users table.
type userRow struct {
	ID           int     `db:"id"`
	Email        string  `db:"email"`
	Username     string  `db:"username"`
	PasswordHash *string `db:"password_hash"`
	GoogleID     *string `db:"google_id"`
}

const userColumns = `id, email, username, password_hash, google_id`

// roleRowWithOwner carries a role row joined back to its owning user.
type roleRowWithOwner struct {
	UserID int    `db:"user_id"`
	RoleID int    `db:"role_id"`
	Name   string `db:"name"`
}

// actionRowWithRole carries an action row joined back to its owning role.
type actionRowWithRole struct {
	RoleID   int    `db:"role_id"`
	ActionID int    `db:"action_id"`
	Name     string `db:"name"`
}

// Create inserts a new user.
func (r *UserRepo) Create(ctx context.Context, in ports.CreateUserInput) (domainauth.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return domainauth.User{}, errors.New("email is required")
	}
	username := strings.TrimSpace(in.Username)
	if username == "" {
		// Default to the local part of the email.
		username = email
		if i := strings.IndexByte(email, '@'); i >= 0 {
			username = email[:i]
		}
	}

	var row userRow
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var hash *string
		if in.PasswordHash != "" {
			hash = &in.PasswordHash
		}
		rows, err := conn.Query(ctx, `
			INSERT INTO users (email, username, password_hash, google_id)
			VALUES ($1, $2, $3, $4)
			RETURNING `+userColumns,
			email, username, hash, in.GoogleID,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		row, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[userRow])
		return err
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return domainauth.User{}, ErrUserEmailExists
		}
		return domainauth.User{}, fmt.Errorf("create user: %w", err)
	}

	return domainauth.User{
		ID:       row.ID,
		Email:    row.Email,
		Username: row.Username,
		Roles:    []domainauth.Role{},
	}, nil
}

// GetByEmail retrieves a user with its credential hash and hydrated roles.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (ports.UserRecord, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	row, err := r.getRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	if err != nil {
		return ports.UserRecord{}, err
	}

	user, err := r.hydrate(ctx, row)
	if err != nil {
		return ports.UserRecord{}, err
	}

	rec := ports.UserRecord{User: user}
	if row.PasswordHash != nil {
		rec.PasswordHash = *row.PasswordHash
	}
	return rec, nil
}

// GetByID retrieves a user with hydrated roles.
func (r *UserRepo) GetByID(ctx context.Context, id int) (domainauth.User, error) {
	row, err := r.getRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		return domainauth.User{}, err
	}
	return r.hydrate(ctx, row)
}

// List retrieves all users with hydrated roles, ordered by id.
func (r *UserRepo) List(ctx context.Context) ([]domainauth.User, error) {
	var rowsOut []userRow
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[userRow])
		return err
	}); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	users := make([]domainauth.User, 0, len(rowsOut))
	for _, row := range rowsOut {
		u, err := r.hydrate(ctx, row)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

// LinkGoogleID records the provider subject for an existing user.
func (r *UserRepo) LinkGoogleID(ctx context.Context, userID int, googleID string) error {
	var affected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `UPDATE users SET google_id = $1 WHERE id = $2`, googleID, userID)
		if err != nil {
			return err
		}
		affected = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return fmt.Errorf("link google id: %w", err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) getRow(ctx context.Context, query string, arg any) (userRow, error) {
	var row userRow
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, arg)
		if err != nil {
			return err
		}
		defer rows.Close()
		row, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[userRow])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return userRow{}, ErrUserNotFound
		}
		return userRow{}, fmt.Errorf("get user: %w", err)
	}
	return row, nil
}

// hydrate attaches roles (with their actions) to a user row.
func (r *UserRepo) hydrate(ctx context.Context, row userRow) (domainauth.User, error) {
	roles, err := r.rolesForUser(ctx, row.ID)
	if err != nil {
		return domainauth.User{}, err
	}
	return domainauth.User{
		ID:       row.ID,
		Email:    row.Email,
		Username: row.Username,
		Roles:    roles,
	}, nil
}

func (r *UserRepo) rolesForUser(ctx context.Context, userID int) ([]domainauth.Role, error) {
	var roleRows []roleRowWithOwner
	var actionRows []actionRowWithRole
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT ur.user_id, r.id AS role_id, r.name
			FROM roles r
			JOIN user_roles ur ON ur.role_id = r.id
			WHERE ur.user_id = $1
			ORDER BY r.id`, userID)
		if err != nil {
			return err
		}
		roleRows, err = pgx.CollectRows(rows, pgx.RowToStructByName[roleRowWithOwner])
		rows.Close()
		if err != nil {
			return err
		}

		rows, err = conn.Query(ctx, `
			SELECT ra.role_id, a.id AS action_id, a.name
			FROM actions a
			JOIN role_actions ra ON ra.action_id = a.id
			JOIN user_roles ur ON ur.role_id = ra.role_id
			WHERE ur.user_id = $1
			ORDER BY a.id`, userID)
		if err != nil {
			return err
		}
		actionRows, err = pgx.CollectRows(rows, pgx.RowToStructByName[actionRowWithRole])
		rows.Close()
		return err
	}); err != nil {
		return nil, fmt.Errorf("hydrate roles for user %d: %w", userID, err)
	}

	actionsByRole := make(map[int][]domainauth.Action, len(roleRows))
	for _, a := range actionRows {
		actionsByRole[a.RoleID] = append(actionsByRole[a.RoleID], domainauth.Action{
			ID:   a.ActionID,
			Name: a.Name,
		})
	}

	roles := make([]domainauth.Role, 0, len(roleRows))
	for _, rr := range roleRows {
		actions := actionsByRole[rr.RoleID]
		if actions == nil {
			actions = []domainauth.Action{}
		}
		roles = append(roles, domainauth.Role{
			ID:      rr.RoleID,
			Name:    rr.Name,
			Actions: actions,
		})
	}
	return roles, nil
}
