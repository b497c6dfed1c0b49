package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ren-ben/HelikonProject/pkg/models"
	"github.com/ren-ben/HelikonProject/pkg/store"
)

// SubjectHandler handles per-account subject list endpoints.
type SubjectHandler struct {
	store store.Store
}

// NewSubjectHandler creates a new SubjectHandler.
func NewSubjectHandler(s store.Store) *SubjectHandler {
	return &SubjectHandler{store: s}
}

// SubjectResponse is the API representation of a subject.
type SubjectResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// List handles GET /api/v1/clil/subjects.
// First access seeds the account with the default subject list.
func (h *SubjectHandler) List(w http.ResponseWriter, r *http.Request) {
	account, _, ok := requireAccount(w, r, h.store)
	if !ok {
		return
	}

	subjects, err := h.store.ListSubjects(r.Context(), account.ID)
	if err != nil {
		InternalServerError(w, "Failed to list subjects")
		return
	}

	resp := make([]SubjectResponse, 0, len(subjects))
	for _, s := range subjects {
		resp = append(resp, SubjectResponse{ID: s.ID, Name: s.Name})
	}

	WriteJSONOK(w, resp)
}

// CreateSubjectRequest is the request body for POST .../subjects.
type CreateSubjectRequest struct {
	Name string `json:"name"`
}

// Create handles POST /api/v1/clil/subjects.
func (h *SubjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	account, _, ok := requireAccount(w, r, h.store)
	if !ok {
		return
	}

	var req CreateSubjectRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		BadRequest(w, "Name is required")
		return
	}

	subject := &models.Subject{
		Name:    name,
		OwnerID: account.ID,
	}

	if err := h.store.CreateSubject(r.Context(), subject); err != nil {
		if errors.Is(err, models.ErrDuplicateSubject) {
			Conflict(w, "Subject already exists")
			return
		}
		InternalServerError(w, "Failed to create subject")
		return
	}

	WriteJSONCreated(w, SubjectResponse{ID: subject.ID, Name: subject.Name})
}

// Delete handles DELETE /api/v1/clil/subjects/{id}.
// A subject owned by another account renders as 404.
func (h *SubjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	account, _, ok := requireAccount(w, r, h.store)
	if !ok {
		return
	}

	subject, err := h.store.GetSubject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, models.ErrSubjectNotFound) {
			NotFound(w, "Subject not found")
			return
		}
		InternalServerError(w, "Failed to fetch subject")
		return
	}

	if subject.OwnerID != account.ID {
		NotFound(w, "Subject not found")
		return
	}

	if err := h.store.DeleteSubject(r.Context(), subject.ID); err != nil {
		InternalServerError(w, "Failed to delete subject")
		return
	}

	WriteNoContent(w)
}
