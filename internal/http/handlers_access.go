package httpx

import (
	"errors"
	"net/http"

	"github.com/quantbridge/tradeops/internal/data"
	"github.com/quantbridge/tradeops/internal/service"
)

// AccessHandlers provides admin-only HTTP handlers for the role/action
// catalog and its assignments.
type AccessHandlers struct {
	Svc *service.AccessService
}

// ListUsers handles GET /api/users.
func (h *AccessHandlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Svc.ListUsers(r.Context())
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}
	WriteJSON(w, http.StatusOK, users)
}

// GetUser handles GET /api/users/{id}.
func (h *AccessHandlers) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	user, err := h.Svc.GetUser(r.Context(), id)
	if err != nil {
		if errors.Is(err, data.ErrUserNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "get_failed", Err: err})
		return
	}
	WriteJSON(w, http.StatusOK, user)
}

// ListRoles handles GET /api/roles.
func (h *AccessHandlers) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.Svc.ListRoles(r.Context())
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}
	WriteJSON(w, http.StatusOK, roles)
}

// ListActions handles GET /api/actions.
func (h *AccessHandlers) ListActions(w http.ResponseWriter, r *http.Request) {
	actions, err := h.Svc.ListActions(r.Context())
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}
	WriteJSON(w, http.StatusOK, actions)
}

type setActionsRequest struct {
	ActionIDs []int `json:"action_ids"`
}

// SetRoleActions handles PUT /api/roles/{id}/actions.
func (h *AccessHandlers) SetRoleActions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req setActionsRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	if err := h.Svc.SetRoleActions(r.Context(), id, req.ActionIDs); err != nil {
		h.writeAssignError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type setRolesRequest struct {
	RoleIDs []int `json:"role_ids"`
}

// SetUserRoles handles PUT /api/users/{id}/roles.
func (h *AccessHandlers) SetUserRoles(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req setRolesRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	if err := h.Svc.SetUserRoles(r.Context(), id, req.RoleIDs); err != nil {
		h.writeAssignError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AccessHandlers) writeAssignError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, data.ErrUnknownAssignment):
		WriteError(w, ErrorParams{Code: http.StatusUnprocessableEntity, ErrCode: "unknown_assignment", Err: err})
	case isValidationError(err):
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
	default:
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "assign_failed", Err: err})
	}
}
