// Package httpx provides HTTP handlers and utilities for the trading
// operations API.
package httpx

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/quantbridge/tradeops/internal/data"
	"github.com/quantbridge/tradeops/internal/domain/model"
	"github.com/quantbridge/tradeops/internal/service"
)

// AssetHandlers provides HTTP handlers for asset CRUD.
type AssetHandlers struct {
	Svc *service.AssetService
}

// List handles GET /api/assets.
func (h *AssetHandlers) List(w http.ResponseWriter, r *http.Request) {
	assets, err := h.Svc.List(r.Context())
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}
	WriteJSON(w, http.StatusOK, assets)
}

// Get handles GET /api/assets/{id}.
func (h *AssetHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	asset, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, data.ErrAssetNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "get_failed", Err: err})
		return
	}
	WriteJSON(w, http.StatusOK, asset)
}

// Create handles POST /api/assets.
func (h *AssetHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateAssetRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	asset, err := h.Svc.Create(r.Context(), req, CurrentUserID(r.Context()))
	if err != nil {
		h.writeAssetError(w, err, "create_failed")
		return
	}
	WriteJSON(w, http.StatusCreated, asset)
}

// Update handles PUT /api/assets/{id}.
func (h *AssetHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req model.CreateAssetRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	asset, err := h.Svc.Update(r.Context(), id, req)
	if err != nil {
		h.writeAssetError(w, err, "update_failed")
		return
	}
	WriteJSON(w, http.StatusOK, asset)
}

// Delete handles DELETE /api/assets/{id}.
func (h *AssetHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.Svc.Delete(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, data.ErrAssetNotFound):
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: err})
		case errors.Is(err, data.ErrAssetInUse):
			WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "asset_in_use", Err: err})
		default:
			WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "delete_failed", Err: err})
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AssetHandlers) writeAssetError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, data.ErrAssetNotFound):
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: err})
	case errors.Is(err, data.ErrAssetExists):
		WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "cusip_conflict", Err: err})
	case isValidationError(err):
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
	default:
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: fallback, Err: err})
	}
}

// pathID parses the {id} path value as a positive integer. On failure it
// writes a 400 and reports false.
func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_id",
			Err:     errors.New("id must be a positive integer"),
		})
		return 0, false
	}
	return id, true
}
