package data

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/quantbridge/tradeops/internal/domain/auth"
	"github.com/quantbridge/tradeops/internal/ports"
	"github.com/quantbridge/tradeops/internal/testutil"
)

func createTestUser(t *testing.T, db *sql.DB, email string) domainauth.User {
	t.Helper()
	u, err := NewUserRepo(db).Create(context.Background(), ports.CreateUserInput{
		Email:        email,
		PasswordHash: "$2a$10$fakehashfakehashfakehash",
	})
	require.NoError(t, err)
	return u
}

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@example.com", prefix, time.Now().UnixNano())
}

func TestUserRepo_CreateAndGet(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewUserRepo(db)

		email := uniqueEmail("alice")
		created, err := repo.Create(ctx, ports.CreateUserInput{
			Email:        email,
			PasswordHash: "hash",
		})
		require.NoError(t, err)
		require.NotZero(t, created.ID)
		// Username defaults to the local part of the email.
		assert.Contains(t, created.Username, "alice-")
		assert.Empty(t, created.Roles)

		rec, err := repo.GetByEmail(ctx, email)
		require.NoError(t, err)
		assert.Equal(t, created.ID, rec.User.ID)
		assert.Equal(t, "hash", rec.PasswordHash)

		byID, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, email, byID.Email)
	})
}

func TestUserRepo_EmailNormalizedAndUnique(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewUserRepo(db)

		email := uniqueEmail("bob")
		_, err := repo.Create(ctx, ports.CreateUserInput{Email: "  " + email + " "})
		require.NoError(t, err)

		_, err = repo.Create(ctx, ports.CreateUserInput{Email: email})
		assert.ErrorIs(t, err, ErrUserEmailExists)

		// Lookup is case/space tolerant too.
		_, err = repo.GetByEmail(ctx, " "+email)
		assert.NoError(t, err)
	})
}

func TestUserRepo_GetMissing(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewUserRepo(db)

		_, err := repo.GetByEmail(context.Background(), "absent@example.com")
		assert.ErrorIs(t, err, ErrUserNotFound)

		_, err = repo.GetByID(context.Background(), 999999)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestUserRepo_RoleHydration(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		users := NewUserRepo(db)
		access := NewAccessRepo(db)

		u := createTestUser(t, db, uniqueEmail("carol"))

		// Seeded catalog from migrations.
		roles, err := access.ListRoles(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, roles)

		var adminID, traderID int
		for _, r := range roles {
			switch r.Name {
			case "admin":
				adminID = r.ID
			case "trader":
				traderID = r.ID
			}
		}
		require.NotZero(t, adminID)
		require.NotZero(t, traderID)

		require.NoError(t, access.SetUserRoles(ctx, u.ID, []int{traderID}))

		got, err := users.GetByID(ctx, u.ID)
		require.NoError(t, err)
		require.Len(t, got.Roles, 1)
		assert.Equal(t, "trader", got.Roles[0].Name)
		assert.NotEmpty(t, got.Roles[0].Actions)
		assert.True(t, got.HasAction("CREATE_TRADE"))
		assert.False(t, got.IsAdmin())

		// Replacing assignments is atomic, not additive.
		require.NoError(t, access.SetUserRoles(ctx, u.ID, []int{adminID}))
		got, err = users.GetByID(ctx, u.ID)
		require.NoError(t, err)
		require.Len(t, got.Roles, 1)
		assert.True(t, got.IsAdmin())
	})
}

func TestUserRepo_LinkGoogleID(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewUserRepo(db)

		u := createTestUser(t, db, uniqueEmail("dave"))
		require.NoError(t, repo.LinkGoogleID(ctx, u.ID, fmt.Sprintf("google-sub-%d", u.ID)))

		err := repo.LinkGoogleID(ctx, 999999, "google-sub-x")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestAccessRepo_UnknownAssignment(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		access := NewAccessRepo(db)

		err := access.SetUserRoles(context.Background(), 999999, []int{1})
		assert.ErrorIs(t, err, ErrUnknownAssignment)
	})
}
