package ports

import (
	"context"

	domainauth "github.com/quantbridge/tradeops/internal/domain/auth"
	"github.com/quantbridge/tradeops/internal/domain/model"
)

// UserRecord is a stored user together with its credential hash. The hash
// never leaves the service layer.
type UserRecord struct {
	User         domainauth.User
	PasswordHash string
}

// CreateUserInput carries inputs for registering a user.
type CreateUserInput struct {
	Email        string
	Username     string
	PasswordHash string
	GoogleID     *string
}

// UserRepository stores users and hydrates their roles and actions.
type UserRepository interface {
	Create(ctx context.Context, in CreateUserInput) (domainauth.User, error)
	GetByEmail(ctx context.Context, email string) (UserRecord, error)
	GetByID(ctx context.Context, id int) (domainauth.User, error)
	List(ctx context.Context) ([]domainauth.User, error)

	// LinkGoogleID records the provider subject for an existing user.
	LinkGoogleID(ctx context.Context, userID int, googleID string) error
}

// AccessRepository manages the role/action catalog and its assignments.
type AccessRepository interface {
	ListRoles(ctx context.Context) ([]domainauth.Role, error)
	ListActions(ctx context.Context) ([]domainauth.Action, error)
	SetRoleActions(ctx context.Context, roleID int, actionIDs []int) error
	SetUserRoles(ctx context.Context, userID int, roleIDs []int) error
}

// AssetRepository stores bookable instruments.
type AssetRepository interface {
	List(ctx context.Context) ([]model.Asset, error)
	Get(ctx context.Context, id int) (model.Asset, error)
	Create(ctx context.Context, req model.CreateAssetRequest, createdBy int) (model.Asset, error)
	Update(ctx context.Context, id int, req model.CreateAssetRequest) (model.Asset, error)
	Delete(ctx context.Context, id int) error
}

// TradeRepository stores booked trades.
type TradeRepository interface {
	List(ctx context.Context) ([]model.Trade, error)
	Get(ctx context.Context, id int) (model.Trade, error)
	Create(ctx context.Context, req model.CreateTradeRequest, createdBy int) (model.Trade, error)
	Update(ctx context.Context, id int, req model.CreateTradeRequest) (model.Trade, error)
	Delete(ctx context.Context, id int) error
}

// HoldingRepository reads current positions aggregated from trades.
type HoldingRepository interface {
	List(ctx context.Context) ([]model.Holding, error)
}

// WatchlistRepository stores per-user tracked CUSIPs.
type WatchlistRepository interface {
	ListByUser(ctx context.Context, userID int) ([]model.WatchItem, error)
	Add(ctx context.Context, req model.CreateWatchItemRequest, userID int) (model.WatchItem, error)
	Remove(ctx context.Context, id, userID int) error
}
