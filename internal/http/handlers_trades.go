package httpx

import (
	"errors"
	"net/http"

	"github.com/quantbridge/tradeops/internal/data"
	"github.com/quantbridge/tradeops/internal/domain/model"
	"github.com/quantbridge/tradeops/internal/service"
)

// TradeHandlers provides HTTP handlers for the trade blotter.
type TradeHandlers struct {
	Svc *service.TradeService
}

// List handles GET /api/trades.
func (h *TradeHandlers) List(w http.ResponseWriter, r *http.Request) {
	trades, err := h.Svc.List(r.Context())
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}
	WriteJSON(w, http.StatusOK, trades)
}

// Get handles GET /api/trades/{id}.
func (h *TradeHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	trade, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, data.ErrTradeNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "get_failed", Err: err})
		return
	}
	WriteJSON(w, http.StatusOK, trade)
}

// Create handles POST /api/trades.
func (h *TradeHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateTradeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	trade, err := h.Svc.Create(r.Context(), req, CurrentUserID(r.Context()))
	if err != nil {
		h.writeTradeError(w, err, "create_failed")
		return
	}
	WriteJSON(w, http.StatusCreated, trade)
}

// Update handles PUT /api/trades/{id}.
func (h *TradeHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req model.CreateTradeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	trade, err := h.Svc.Update(r.Context(), id, req)
	if err != nil {
		h.writeTradeError(w, err, "update_failed")
		return
	}
	WriteJSON(w, http.StatusOK, trade)
}

// Delete handles DELETE /api/trades/{id}.
func (h *TradeHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.Svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, data.ErrTradeNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "delete_failed", Err: err})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TradeHandlers) writeTradeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, data.ErrTradeNotFound):
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: err})
	case errors.Is(err, data.ErrTradeAssetMissing):
		WriteError(w, ErrorParams{Code: http.StatusUnprocessableEntity, ErrCode: "unknown_asset", Err: err})
	case isValidationError(err):
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
	default:
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: fallback, Err: err})
	}
}
