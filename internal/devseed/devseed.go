// Package devseed populates a development database with users, assets, and
// trades so the console has something to render on first boot. Seeding is
// idempotent and only runs in dev mode.
package devseed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	domainauth "github.com/quantbridge/tradeops/internal/domain/auth"
	"github.com/quantbridge/tradeops/internal/data"
	"github.com/quantbridge/tradeops/internal/domain/model"
	"github.com/quantbridge/tradeops/internal/ports"
)

// DevPassword is the password for all seeded accounts.
const DevPassword = "devpassword"

// Options configures a seeding run.
type Options struct {
	DB     *sql.DB
	Logger *slog.Logger
}

type seedDeps struct {
	users     *data.UserRepo
	access    *data.AccessRepo
	assets    *data.AssetRepo
	trades    *data.TradeRepo
	watchlist *data.WatchlistRepo
	logger    *slog.Logger
}

// Run seeds development fixtures. Existing rows are left untouched, so it is
// safe to call on every startup.
func Run(ctx context.Context, opts Options) error {
	if opts.DB == nil {
		return errors.New("devseed: DB is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	d := seedDeps{
		users:     data.NewUserRepo(opts.DB),
		access:    data.NewAccessRepo(opts.DB),
		assets:    data.NewAssetRepo(opts.DB),
		trades:    data.NewTradeRepo(opts.DB),
		watchlist: data.NewWatchlistRepo(opts.DB),
		logger:    logger,
	}

	admin, err := seedUser(ctx, d, "admin@example.com", "admin", "admin")
	if err != nil {
		return err
	}
	trader, err := seedUser(ctx, d, "trader@example.com", "trader", "trader")
	if err != nil {
		return err
	}

	assetIDs, err := seedAssets(ctx, d, admin.ID)
	if err != nil {
		return err
	}
	if err := seedTrades(ctx, d, trader.ID, assetIDs); err != nil {
		return err
	}
	if err := seedWatchlist(ctx, d, trader.ID); err != nil {
		return err
	}

	logger.InfoContext(ctx, "dev fixtures seeded",
		"admin", admin.Email,
		"trader", trader.Email)
	return nil
}

// seedUser creates a user with the dev password and assigns the named role.
// An existing user with the same email is returned as is.
func seedUser(ctx context.Context, d seedDeps, email, username, roleName string) (domainauth.User, error) {
	if rec, err := d.users.GetByEmail(ctx, email); err == nil {
		return rec.User, nil
	} else if !errors.Is(err, data.ErrUserNotFound) {
		return domainauth.User{}, fmt.Errorf("look up %s: %w", email, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DevPassword), bcrypt.DefaultCost)
	if err != nil {
		return domainauth.User{}, fmt.Errorf("hash dev password: %w", err)
	}

	user, err := d.users.Create(ctx, ports.CreateUserInput{
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
	})
	if err != nil {
		return domainauth.User{}, fmt.Errorf("create %s: %w", email, err)
	}

	roleID, err := findRoleID(ctx, d, roleName)
	if err != nil {
		return domainauth.User{}, err
	}
	if err := d.access.SetUserRoles(ctx, user.ID, []int{roleID}); err != nil {
		return domainauth.User{}, fmt.Errorf("assign role %s to %s: %w", roleName, email, err)
	}

	d.logger.InfoContext(ctx, "seeded dev user", "email", email, "role", roleName)
	// Re-read so the returned user carries its hydrated roles.
	return d.users.GetByID(ctx, user.ID)
}

func findRoleID(ctx context.Context, d seedDeps, name string) (int, error) {
	roles, err := d.access.ListRoles(ctx)
	if err != nil {
		return 0, fmt.Errorf("list roles: %w", err)
	}
	for _, r := range roles {
		if strings.EqualFold(r.Name, name) {
			return r.ID, nil
		}
	}
	return 0, fmt.Errorf("role %q not found; were migrations applied?", name)
}

// seedAssets books a small instrument universe and returns CUSIP to asset ID.
func seedAssets(ctx context.Context, d seedDeps, createdBy int) (map[string]int, error) {
	existing, err := d.assets.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}

	byCUSIP := make(map[string]int, len(existing))
	for _, a := range existing {
		byCUSIP[a.CUSIP] = a.ID
	}

	for _, req := range sampleAssets() {
		if _, ok := byCUSIP[req.CUSIP]; ok {
			continue
		}
		asset, createErr := d.assets.Create(ctx, req, createdBy)
		if createErr != nil {
			return nil, fmt.Errorf("seed asset %s: %w", req.CUSIP, createErr)
		}
		byCUSIP[asset.CUSIP] = asset.ID
		d.logger.InfoContext(ctx, "seeded asset", "cusip", asset.CUSIP, "name", asset.DisplayName)
	}

	return byCUSIP, nil
}

func sampleAssets() []model.CreateAssetRequest {
	issuer := func(s string) *string { return &s }
	coupon := func(f float64) *float64 { return &f }
	maturity := func(y int, m time.Month) *time.Time {
		t := time.Date(y, m, 15, 0, 0, 0, 0, time.UTC)
		return &t
	}

	return []model.CreateAssetRequest{
		{
			CUSIP:        "037833100",
			Type:         model.AssetTypeEquity,
			DisplayName:  "Apple Inc",
			Issuer:       issuer("Apple Inc"),
			SpreadCoupon: nil,
		},
		{
			CUSIP:        "345370860",
			Type:         model.AssetTypeCorporateBond,
			DisplayName:  "Ford Motor 6.1% 2032",
			Issuer:       issuer("Ford Motor Company"),
			SpreadCoupon: coupon(6.10),
			Maturity:     maturity(2032, time.August),
		},
		{
			CUSIP:        "912828YK0",
			Type:         model.AssetTypeGovernmentBond,
			DisplayName:  "US Treasury 1.375% 2029",
			Issuer:       issuer("United States Treasury"),
			SpreadCoupon: coupon(1.375),
			Maturity:     maturity(2029, time.October),
		},
		{
			CUSIP:        "23331ABH7",
			Type:         model.AssetTypeTermLoan,
			DisplayName:  "DT Midstream TL B",
			Issuer:       issuer("DT Midstream Inc"),
			SpreadCoupon: coupon(2.00),
			Maturity:     maturity(2028, time.March),
		},
	}
}

// seedTrades books one buy per seeded asset so holdings are non-empty.
func seedTrades(ctx context.Context, d seedDeps, createdBy int, assetIDs map[string]int) error {
	existing, err := d.trades.List(ctx)
	if err != nil {
		return fmt.Errorf("list trades: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	tradeDate := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -7)
	counterparty := "GSCO"

	for _, a := range sampleAssets() {
		assetID, ok := assetIDs[a.CUSIP]
		if !ok {
			continue
		}
		req := model.CreateTradeRequest{
			TradeDate:    tradeDate,
			SettleDate:   tradeDate.AddDate(0, 0, 2),
			Direction:    model.TradeDirectionBuy,
			AssetType:    string(a.Type),
			AssetID:      assetID,
			Quantity:     1_000_000,
			Price:        98.5,
			Counterparty: &counterparty,
		}
		if _, err := d.trades.Create(ctx, req, createdBy); err != nil {
			return fmt.Errorf("seed trade for %s: %w", a.CUSIP, err)
		}
	}

	d.logger.InfoContext(ctx, "seeded trades", "count", len(assetIDs))
	return nil
}

// seedWatchlist tracks a couple of seeded CUSIPs for the trader account.
func seedWatchlist(ctx context.Context, d seedDeps, userID int) error {
	existing, err := d.watchlist.ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("list watchlist: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	for _, a := range sampleAssets()[:2] {
		req := model.CreateWatchItemRequest{CUSIP: a.CUSIP, AssetType: a.Type}
		if _, err := d.watchlist.Add(ctx, req, userID); err != nil {
			return fmt.Errorf("seed watchlist %s: %w", a.CUSIP, err)
		}
	}
	return nil
}
