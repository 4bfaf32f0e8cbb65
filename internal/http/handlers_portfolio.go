package httpx

import (
	"net/http"

	"github.com/quantbridge/tradeops/internal/service"
)

// PortfolioHandlers serves the read-only portfolio views: holdings and the
// macro dashboard.
type PortfolioHandlers struct {
	Holdings *service.HoldingService
	Macro    *service.MacroService
}

// ListHoldings handles GET /api/holdings.
func (h *PortfolioHandlers) ListHoldings(w http.ResponseWriter, r *http.Request) {
	holdings, err := h.Holdings.List(r.Context())
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}
	WriteJSON(w, http.StatusOK, holdings)
}

// MacroSnapshot handles GET /api/macro.
func (h *PortfolioHandlers) MacroSnapshot(w http.ResponseWriter, r *http.Request) {
	sections, err := h.Macro.Snapshot(r.Context())
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadGateway, ErrCode: "feed_unavailable", Err: err})
		return
	}
	WriteJSON(w, http.StatusOK, sections)
}
