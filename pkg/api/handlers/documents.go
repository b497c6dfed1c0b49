package handlers

import (
	"net/http"

	"github.com/ren-ben/HelikonProject/internal/logger"
	"github.com/ren-ben/HelikonProject/pkg/llm"
	"github.com/ren-ben/HelikonProject/pkg/store"
)

// DefaultMaxUploadSize bounds document uploads at 50 MiB unless configured.
const DefaultMaxUploadSize = 50 << 20

// DocumentHandler proxies document ingestion and retrieval queries to
// the RAG service, scoping every call to the authenticated account.
type DocumentHandler struct {
	store         store.AccountStore
	rag           *llm.RAGClient
	maxUploadSize int64
}

// NewDocumentHandler creates a new DocumentHandler.
// A non-positive maxUploadSize falls back to DefaultMaxUploadSize.
func NewDocumentHandler(s store.AccountStore, rag *llm.RAGClient, maxUploadSize int64) *DocumentHandler {
	if maxUploadSize <= 0 {
		maxUploadSize = DefaultMaxUploadSize
	}
	return &DocumentHandler{store: s, rag: rag, maxUploadSize: maxUploadSize}
}

// Upload handles POST /api/v1/clil/documents/upload.
// Accepts a multipart form with a "file" part and an optional "subject"
// field, and forwards it to the RAG service for ingestion.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	account, _, ok := requireAccount(w, r, h.store)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		BadRequest(w, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		BadRequest(w, "File is required")
		return
	}
	defer func() { _ = file.Close() }()

	subject := r.FormValue("subject")

	logger.InfoCtx(r.Context(), "document upload",
		"filename", header.Filename, logger.KeyAccountID, account.ID, "subject", subject)

	result, err := h.rag.Ingest(r.Context(), header.Filename, file, account.ID, subject)
	if err != nil {
		logger.ErrorCtx(r.Context(), "document upload failed",
			logger.KeyUpstream, "rag", logger.KeyError, err)
		BadGateway(w, "Document upload failed")
		return
	}

	WriteJSONOK(w, result)
}

// List handles GET /api/v1/clil/documents.
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	account, _, ok := requireAccount(w, r, h.store)
	if !ok {
		return
	}

	docs, err := h.rag.ListDocuments(r.Context(), account.ID)
	if err != nil {
		logger.ErrorCtx(r.Context(), "failed to list documents",
			logger.KeyUpstream, "rag", logger.KeyError, err)
		BadGateway(w, "Failed to list documents")
		return
	}

	if docs == nil {
		docs = []llm.Document{}
	}
	WriteJSONOK(w, docs)
}

// DeleteDocumentsRequest is the request body for DELETE .../documents.
type DeleteDocumentsRequest struct {
	DocIDs []string `json:"docIds"`
}

// Delete handles DELETE /api/v1/clil/documents.
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	_, _, ok := requireAccount(w, r, h.store)
	if !ok {
		return
	}

	var req DeleteDocumentsRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if len(req.DocIDs) == 0 {
		BadRequest(w, "docIds is required")
		return
	}

	result, err := h.rag.DeleteDocuments(r.Context(), req.DocIDs)
	if err != nil {
		logger.ErrorCtx(r.Context(), "document deletion failed",
			logger.KeyUpstream, "rag", logger.KeyError, err)
		BadGateway(w, "Document deletion failed")
		return
	}

	WriteJSONOK(w, result)
}

// QueryRequest is the request body for POST /api/v1/clil/documents/query.
type QueryRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"topK"`
}

// Query handles POST /api/v1/clil/documents/query.
// Runs a retrieval query against the account's ingested documents.
func (h *DocumentHandler) Query(w http.ResponseWriter, r *http.Request) {
	account, _, ok := requireAccount(w, r, h.store)
	if !ok {
		return
	}

	var req QueryRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if req.Query == "" {
		BadRequest(w, "Query is required")
		return
	}

	result, err := h.rag.Query(r.Context(), llm.QueryRequest{
		Query:   req.Query,
		OwnerID: account.ID,
		TopK:    req.TopK,
	})
	if err != nil {
		logger.ErrorCtx(r.Context(), "RAG query failed",
			logger.KeyUpstream, "rag", logger.KeyError, err)
		BadGateway(w, "Query failed")
		return
	}

	WriteJSONOK(w, result)
}
