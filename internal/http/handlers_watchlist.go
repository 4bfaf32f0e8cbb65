package httpx

import (
	"errors"
	"net/http"

	"github.com/quantbridge/tradeops/internal/data"
	"github.com/quantbridge/tradeops/internal/domain/model"
	"github.com/quantbridge/tradeops/internal/service"
)

// WatchlistHandlers provides HTTP handlers for the per-user watchlist.
type WatchlistHandlers struct {
	Svc *service.WatchlistService
}

// List handles GET /api/watchlist. Entries are scoped to the acting user.
func (h *WatchlistHandlers) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Svc.List(r.Context(), CurrentUserID(r.Context()))
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}
	WriteJSON(w, http.StatusOK, items)
}

// Add handles POST /api/watchlist.
func (h *WatchlistHandlers) Add(w http.ResponseWriter, r *http.Request) {
	var req model.CreateWatchItemRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	item, err := h.Svc.Add(r.Context(), req, CurrentUserID(r.Context()))
	if err != nil {
		switch {
		case errors.Is(err, data.ErrWatchItemExists):
			WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "already_watched", Err: err})
		case isValidationError(err):
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
		default:
			WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "add_failed", Err: err})
		}
		return
	}
	WriteJSON(w, http.StatusCreated, item)
}

// Remove handles DELETE /api/watchlist/{id}.
func (h *WatchlistHandlers) Remove(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.Svc.Remove(r.Context(), id, CurrentUserID(r.Context())); err != nil {
		if errors.Is(err, data.ErrWatchItemNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "remove_failed", Err: err})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
