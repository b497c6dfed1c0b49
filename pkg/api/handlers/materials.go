package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ren-ben/HelikonProject/internal/logger"
	"github.com/ren-ben/HelikonProject/pkg/api/auth"
	"github.com/ren-ben/HelikonProject/pkg/api/middleware"
	"github.com/ren-ben/HelikonProject/pkg/models"
	"github.com/ren-ben/HelikonProject/pkg/store"
)

// MaterialHandler handles lesson material CRUD endpoints.
//
// Materials are owner-scoped: a user only ever sees their own, and a
// material owned by someone else renders as 404 rather than 403 to
// avoid leaking its existence. Admins can read any material.
type MaterialHandler struct {
	store store.Store
}

// NewMaterialHandler creates a new MaterialHandler.
func NewMaterialHandler(s store.Store) *MaterialHandler {
	return &MaterialHandler{store: s}
}

// requireAccount resolves the authenticated account behind the request.
func requireAccount(w http.ResponseWriter, r *http.Request, s store.AccountStore) (*models.Account, *auth.Claims, bool) {
	claims := middleware.GetClaimsFromContext(r.Context())
	if claims == nil {
		Unauthorized(w, "Authentication required")
		return nil, nil, false
	}

	account, err := s.GetAccountByUsername(r.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, models.ErrAccountNotFound) {
			Unauthorized(w, "Account no longer exists")
			return nil, nil, false
		}
		InternalServerError(w, "Failed to fetch account")
		return nil, nil, false
	}

	return account, claims, true
}

// MaterialCreateRequest is the request body for POST .../materials.
type MaterialCreateRequest struct {
	MaterialType     string   `json:"material_type" validate:"required"`
	Topic            string   `json:"topic" validate:"required"`
	Content          string   `json:"content" validate:"required"`
	FormattedHTML    string   `json:"formatted_html"`
	Subject          string   `json:"subject"`
	LanguageLevel    string   `json:"language_level"`
	VocabPercentage  *int     `json:"vocab_percentage"`
	ContentFocus     string   `json:"content_focus"`
	IncludeVocabList *bool    `json:"include_vocab_list"`
	Description      string   `json:"description"`
	Tags             []string `json:"tags"`
}

// MaterialUpdateRequest is the request body for PUT .../materials/{id}.
// Nil fields are left unchanged.
type MaterialUpdateRequest struct {
	MaterialType     *string   `json:"material_type"`
	Topic            *string   `json:"topic"`
	Content          *string   `json:"content"`
	FormattedHTML    *string   `json:"formatted_html"`
	Subject          *string   `json:"subject"`
	LanguageLevel    *string   `json:"language_level"`
	VocabPercentage  *int      `json:"vocab_percentage"`
	ContentFocus     *string   `json:"content_focus"`
	IncludeVocabList *bool     `json:"include_vocab_list"`
	Description      *string   `json:"description"`
	Tags             *[]string `json:"tags"`
}

// List handles GET /api/v1/clil/materials.
// Returns the authenticated account's materials, newest first.
func (h *MaterialHandler) List(w http.ResponseWriter, r *http.Request) {
	account, _, ok := requireAccount(w, r, h.store)
	if !ok {
		return
	}

	materials, err := h.store.ListMaterialsByOwner(r.Context(), account.ID)
	if err != nil {
		InternalServerError(w, "Failed to list materials")
		return
	}

	WriteJSONOK(w, materials)
}

// Get handles GET /api/v1/clil/materials/{id}.
func (h *MaterialHandler) Get(w http.ResponseWriter, r *http.Request) {
	account, claims, ok := requireAccount(w, r, h.store)
	if !ok {
		return
	}

	material, err := h.store.GetMaterial(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, models.ErrMaterialNotFound) {
			NotFound(w, "Material not found")
			return
		}
		InternalServerError(w, "Failed to fetch material")
		return
	}

	if material.OwnerID != account.ID && !claims.IsAdmin() {
		NotFound(w, "Material not found")
		return
	}

	WriteJSONOK(w, material)
}

// Create handles POST /api/v1/clil/materials.
func (h *MaterialHandler) Create(w http.ResponseWriter, r *http.Request) {
	account, _, ok := requireAccount(w, r, h.store)
	if !ok {
		return
	}

	var req MaterialCreateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	material := &models.LessonMaterial{
		OwnerID:          account.ID,
		MaterialType:     req.MaterialType,
		Topic:            req.Topic,
		Content:          req.Content,
		FormattedHTML:    req.FormattedHTML,
		Subject:          req.Subject,
		LanguageLevel:    req.LanguageLevel,
		VocabPercentage:  req.VocabPercentage,
		ContentFocus:     req.ContentFocus,
		IncludeVocabList: req.IncludeVocabList,
		Description:      req.Description,
		Tags:             req.Tags,
	}

	if err := h.store.CreateMaterial(r.Context(), material); err != nil {
		InternalServerError(w, "Failed to create material")
		return
	}

	logger.InfoCtx(r.Context(), "created material",
		logger.KeyMaterialID, material.ID, logger.KeyTopic, material.Topic)
	WriteJSONCreated(w, material)
}

// Update handles PUT /api/v1/clil/materials/{id}.
// Only the owner may update a material.
func (h *MaterialHandler) Update(w http.ResponseWriter, r *http.Request) {
	account, _, ok := requireAccount(w, r, h.store)
	if !ok {
		return
	}

	material, err := h.store.GetMaterial(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, models.ErrMaterialNotFound) {
			NotFound(w, "Material not found")
			return
		}
		InternalServerError(w, "Failed to fetch material")
		return
	}

	if material.OwnerID != account.ID {
		NotFound(w, "Material not found")
		return
	}

	var req MaterialUpdateRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	applyMaterialUpdate(material, &req)

	if err := h.store.UpdateMaterial(r.Context(), material); err != nil {
		if errors.Is(err, models.ErrMaterialNotFound) {
			NotFound(w, "Material not found")
			return
		}
		BadRequest(w, err.Error())
		return
	}

	WriteJSONOK(w, material)
}

func applyMaterialUpdate(m *models.LessonMaterial, req *MaterialUpdateRequest) {
	if req.MaterialType != nil {
		m.MaterialType = *req.MaterialType
	}
	if req.Topic != nil {
		m.Topic = *req.Topic
	}
	if req.Content != nil {
		m.Content = *req.Content
	}
	if req.FormattedHTML != nil {
		m.FormattedHTML = *req.FormattedHTML
	}
	if req.Subject != nil {
		m.Subject = *req.Subject
	}
	if req.LanguageLevel != nil {
		m.LanguageLevel = *req.LanguageLevel
	}
	if req.VocabPercentage != nil {
		m.VocabPercentage = req.VocabPercentage
	}
	if req.ContentFocus != nil {
		m.ContentFocus = *req.ContentFocus
	}
	if req.IncludeVocabList != nil {
		m.IncludeVocabList = req.IncludeVocabList
	}
	if req.Description != nil {
		m.Description = *req.Description
	}
	if req.Tags != nil {
		m.Tags = *req.Tags
	}
}

// Delete handles DELETE /api/v1/clil/materials/{id}.
// Only the owner may delete a material.
func (h *MaterialHandler) Delete(w http.ResponseWriter, r *http.Request) {
	account, _, ok := requireAccount(w, r, h.store)
	if !ok {
		return
	}

	material, err := h.store.GetMaterial(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, models.ErrMaterialNotFound) {
			NotFound(w, "Material not found")
			return
		}
		InternalServerError(w, "Failed to fetch material")
		return
	}

	if material.OwnerID != account.ID {
		NotFound(w, "Material not found")
		return
	}

	if err := h.store.DeleteMaterial(r.Context(), material.ID); err != nil {
		InternalServerError(w, "Failed to delete material")
		return
	}

	logger.InfoCtx(r.Context(), "deleted material", logger.KeyMaterialID, material.ID)
	WriteNoContent(w)
}
