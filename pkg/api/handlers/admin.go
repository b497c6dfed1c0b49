package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ren-ben/HelikonProject/internal/logger"
	"github.com/ren-ben/HelikonProject/pkg/api/middleware"
	"github.com/ren-ben/HelikonProject/pkg/models"
	"github.com/ren-ben/HelikonProject/pkg/store"
)

// AdminHandler handles administrative API endpoints.
// All routes are mounted behind the RequireAdmin middleware.
type AdminHandler struct {
	store store.Store
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(s store.Store) *AdminHandler {
	return &AdminHandler{store: s}
}

// AdminAccountResponse extends the account representation with the
// number of materials the account owns.
type AdminAccountResponse struct {
	AccountResponse
	MaterialCount int64 `json:"material_count"`
}

func (h *AdminHandler) adminAccountResponse(r *http.Request, a *models.Account) AdminAccountResponse {
	count, err := h.store.CountMaterialsByOwner(r.Context(), a.ID)
	if err != nil {
		logger.WarnCtx(r.Context(), "failed to count materials",
			logger.KeyAccountID, a.ID, logger.KeyError, err)
	}
	return AdminAccountResponse{
		AccountResponse: accountToResponse(a),
		MaterialCount:   count,
	}
}

// ListUsers handles GET /api/v1/clil/admin/users.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.store.ListAccounts(r.Context())
	if err != nil {
		InternalServerError(w, "Failed to list accounts")
		return
	}

	resp := make([]AdminAccountResponse, 0, len(accounts))
	for _, a := range accounts {
		resp = append(resp, h.adminAccountResponse(r, a))
	}

	WriteJSONOK(w, resp)
}

// GetUser handles GET /api/v1/clil/admin/users/{id}.
func (h *AdminHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	account, err := h.store.GetAccount(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrAccountNotFound) {
			NotFound(w, "Account not found")
			return
		}
		InternalServerError(w, "Failed to fetch account")
		return
	}

	WriteJSONOK(w, h.adminAccountResponse(r, account))
}

// UpdateRolesRequest is the request body for PUT .../users/{id}/roles.
type UpdateRolesRequest struct {
	Roles []string `json:"roles"`
}

// UpdateUserRoles handles PUT /api/v1/clil/admin/users/{id}/roles.
// Replaces the account's role set. Existing access tokens keep their
// role snapshot until they expire or are refreshed.
func (h *AdminHandler) UpdateUserRoles(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateRolesRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if len(req.Roles) == 0 {
		BadRequest(w, "At least one role is required")
		return
	}

	roles, err := models.ParseRoles(req.Roles)
	if err != nil {
		BadRequest(w, err.Error())
		return
	}

	account, err := h.store.UpdateAccountRoles(r.Context(), id, roles)
	if err != nil {
		if errors.Is(err, models.ErrAccountNotFound) {
			NotFound(w, "Account not found")
			return
		}
		InternalServerError(w, "Failed to update roles")
		return
	}

	logger.InfoCtx(r.Context(), "updated account roles",
		logger.KeyAccountID, id, logger.KeyRoles, account.Roles)
	WriteJSONOK(w, h.adminAccountResponse(r, account))
}

// ApproveRequest is the request body for POST .../users/{id}/approve.
// Approved defaults to true when the body is empty.
type ApproveRequest struct {
	Approved *bool `json:"approved"`
}

// ApproveUser handles POST /api/v1/clil/admin/users/{id}/approve.
// Unblocks (or re-blocks) an account's login.
func (h *AdminHandler) ApproveUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	approved := true
	if r.ContentLength > 0 {
		var req ApproveRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}
		if req.Approved != nil {
			approved = *req.Approved
		}
	}

	account, err := h.store.SetAccountApproval(r.Context(), id, approved)
	if err != nil {
		if errors.Is(err, models.ErrAccountNotFound) {
			NotFound(w, "Account not found")
			return
		}
		InternalServerError(w, "Failed to update approval")
		return
	}

	logger.InfoCtx(r.Context(), "updated account approval",
		logger.KeyAccountID, id, "approved", approved)
	WriteJSONOK(w, h.adminAccountResponse(r, account))
}

// DeleteUser handles DELETE /api/v1/clil/admin/users/{id}.
// Admins cannot delete their own account to avoid locking everyone out.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	claims := middleware.GetClaimsFromContext(r.Context())
	if claims != nil {
		self, err := h.store.GetAccountByUsername(r.Context(), claims.Subject)
		if err == nil && self.ID == id {
			Forbidden(w, "Cannot delete your own account")
			return
		}
	}

	if err := h.store.DeleteAccount(r.Context(), id); err != nil {
		if errors.Is(err, models.ErrAccountNotFound) {
			NotFound(w, "Account not found")
			return
		}
		InternalServerError(w, "Failed to delete account")
		return
	}

	logger.InfoCtx(r.Context(), "deleted account", logger.KeyAccountID, id)
	WriteNoContent(w)
}

// StatsResponse is the response body for GET /api/v1/clil/admin/stats.
type StatsResponse struct {
	TotalUsers     int64 `json:"totalUsers"`
	TotalMaterials int64 `json:"totalMaterials"`
}

// Stats handles GET /api/v1/clil/admin/stats.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.CountAccounts(r.Context())
	if err != nil {
		InternalServerError(w, "Failed to count accounts")
		return
	}

	materials, err := h.store.CountMaterials(r.Context())
	if err != nil {
		InternalServerError(w, "Failed to count materials")
		return
	}

	WriteJSONOK(w, StatsResponse{
		TotalUsers:     users,
		TotalMaterials: materials,
	})
}
