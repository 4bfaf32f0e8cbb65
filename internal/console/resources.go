package console

import (
	"context"
	"fmt"
	"net/http"

	domainauth "github.com/quantbridge/tradeops/internal/domain/auth"
	"github.com/quantbridge/tradeops/internal/domain/model"
)

// Resource clients: one thin typed wrapper per screen, all sharing the same
// transport. Each call rides the bearer token and the 401 forced-logout
// policy of the underlying Client.

// AssetsClient accesses /assets.
type AssetsClient struct{ C *Client }

func (a AssetsClient) List(ctx context.Context) ([]model.Asset, error) {
	var out []model.Asset
	err := a.C.do(ctx, requestParams{Method: http.MethodGet, Path: "/assets", Out: &out})
	return out, err
}

func (a AssetsClient) Create(ctx context.Context, req model.CreateAssetRequest) (*model.Asset, error) {
	var out model.Asset
	err := a.C.do(ctx, requestParams{Method: http.MethodPost, Path: "/assets", Body: req, Out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (a AssetsClient) Update(ctx context.Context, id int, req model.CreateAssetRequest) (*model.Asset, error) {
	var out model.Asset
	err := a.C.do(ctx, requestParams{
		Method: http.MethodPut,
		Path:   fmt.Sprintf("/assets/%d", id),
		Body:   req,
		Out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (a AssetsClient) Delete(ctx context.Context, id int) error {
	return a.C.do(ctx, requestParams{Method: http.MethodDelete, Path: fmt.Sprintf("/assets/%d", id)})
}

// TradesClient accesses /trades.
type TradesClient struct{ C *Client }

func (t TradesClient) List(ctx context.Context) ([]model.Trade, error) {
	var out []model.Trade
	err := t.C.do(ctx, requestParams{Method: http.MethodGet, Path: "/trades", Out: &out})
	return out, err
}

func (t TradesClient) Create(ctx context.Context, req model.CreateTradeRequest) (*model.Trade, error) {
	var out model.Trade
	err := t.C.do(ctx, requestParams{Method: http.MethodPost, Path: "/trades", Body: req, Out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (t TradesClient) Update(ctx context.Context, id int, req model.CreateTradeRequest) (*model.Trade, error) {
	var out model.Trade
	err := t.C.do(ctx, requestParams{
		Method: http.MethodPut,
		Path:   fmt.Sprintf("/trades/%d", id),
		Body:   req,
		Out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (t TradesClient) Delete(ctx context.Context, id int) error {
	return t.C.do(ctx, requestParams{Method: http.MethodDelete, Path: fmt.Sprintf("/trades/%d", id)})
}

// HoldingsClient accesses the read-only /holdings screen.
type HoldingsClient struct{ C *Client }

func (h HoldingsClient) List(ctx context.Context) ([]model.Holding, error) {
	var out []model.Holding
	err := h.C.do(ctx, requestParams{Method: http.MethodGet, Path: "/holdings", Out: &out})
	return out, err
}

// MacroClient accesses the macro indicator board.
type MacroClient struct{ C *Client }

func (m MacroClient) Snapshot(ctx context.Context) ([]model.MacroIndicator, error) {
	var out []model.MacroIndicator
	err := m.C.do(ctx, requestParams{Method: http.MethodGet, Path: "/macro", Out: &out})
	return out, err
}

// WatchlistClient accesses /watchlist.
type WatchlistClient struct{ C *Client }

func (w WatchlistClient) List(ctx context.Context) ([]model.WatchItemWithData, error) {
	var out []model.WatchItemWithData
	err := w.C.do(ctx, requestParams{Method: http.MethodGet, Path: "/watchlist", Out: &out})
	return out, err
}

func (w WatchlistClient) Add(ctx context.Context, req model.CreateWatchItemRequest) (*model.WatchItem, error) {
	var out model.WatchItem
	err := w.C.do(ctx, requestParams{Method: http.MethodPost, Path: "/watchlist", Body: req, Out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (w WatchlistClient) Remove(ctx context.Context, id int) error {
	return w.C.do(ctx, requestParams{Method: http.MethodDelete, Path: fmt.Sprintf("/watchlist/%d", id)})
}

// AccessClient accesses the admin-only role/action management screens.
type AccessClient struct{ C *Client }

func (a AccessClient) Users(ctx context.Context) ([]domainauth.User, error) {
	var out []domainauth.User
	err := a.C.do(ctx, requestParams{Method: http.MethodGet, Path: "/access/users", Out: &out})
	return out, err
}

func (a AccessClient) Roles(ctx context.Context) ([]domainauth.Role, error) {
	var out []domainauth.Role
	err := a.C.do(ctx, requestParams{Method: http.MethodGet, Path: "/access/roles", Out: &out})
	return out, err
}

func (a AccessClient) Actions(ctx context.Context) ([]domainauth.Action, error) {
	var out []domainauth.Action
	err := a.C.do(ctx, requestParams{Method: http.MethodGet, Path: "/access/actions", Out: &out})
	return out, err
}

func (a AccessClient) AssignActions(ctx context.Context, roleID int, actionIDs []int) error {
	return a.C.do(ctx, requestParams{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/access/roles/%d/actions", roleID),
		Body:   actionIDs,
	})
}

func (a AccessClient) AssignRoles(ctx context.Context, userID int, roleIDs []int) error {
	return a.C.do(ctx, requestParams{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/access/users/%d/roles", userID),
		Body:   roleIDs,
	})
}
