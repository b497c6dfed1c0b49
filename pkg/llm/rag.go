package llm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/ren-ben/HelikonProject/internal/logger"
	"github.com/ren-ben/HelikonProject/internal/telemetry"
)

// DefaultRAGModel is the fallback when the RAG service reports no models.
const DefaultRAGModel = "gpt-4o-mini"

// RAGConfig configures the RAG service client.
type RAGConfig struct {
	// URL is the base URL of the Python RAG service. Default: http://localhost:8000
	URL string `mapstructure:"url" yaml:"url"`

	// Timeout bounds a single upstream call. Ingestion of large documents
	// is the slowest operation. Default: 120s
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// ApplyDefaults fills in missing configuration with default values.
func (c *RAGConfig) ApplyDefaults() {
	if c.URL == "" {
		c.URL = "http://localhost:8000"
	}
	if c.Timeout == 0 {
		c.Timeout = 120 * time.Second
	}
}

// RAGClient proxies generation, ingestion and retrieval requests to the
// Python RAG service.
type RAGClient struct {
	client
}

// NewRAGClient creates a client for the RAG service.
func NewRAGClient(cfg RAGConfig) *RAGClient {
	cfg.ApplyDefaults()
	return &RAGClient{
		client: newClient(cfg.URL, cfg.Timeout),
	}
}

// modelsResponse is the shape of GET /rag/models.
type modelsResponse struct {
	Provider string   `json:"provider"`
	Models   []string `json:"models"`
}

// ListModels returns the model names the RAG service offers. On error or
// an empty answer, the default model is returned.
func (c *RAGClient) ListModels(ctx context.Context) []string {
	ctx, span := telemetry.StartSpan(ctx, telemetry.SpanRAGModels)
	defer span.End()
	span.SetAttributes(telemetry.Upstream("rag"))

	var resp modelsResponse
	if err := c.do(ctx, http.MethodGet, "/rag/models", nil, &resp); err != nil {
		telemetry.RecordError(ctx, err)
		logger.ErrorCtx(ctx, "failed to fetch models from RAG service",
			logger.KeyUpstream, "rag", logger.KeyError, err)
		return []string{DefaultRAGModel}
	}

	if len(resp.Models) == 0 {
		logger.WarnCtx(ctx, "no models returned from RAG service", logger.KeyUpstream, "rag")
		return []string{DefaultRAGModel}
	}

	logger.InfoCtx(ctx, "fetched RAG service models",
		logger.KeyUpstream, "rag", "provider", resp.Provider, logger.KeyCount, len(resp.Models))
	return resp.Models
}

// GenerateRequest mirrors the generation payload the RAG service accepts.
// OwnerID scopes document retrieval to the requesting account.
type GenerateRequest struct {
	MaterialType       string `json:"materialType"`
	Topic              string `json:"topic"`
	Prompt             string `json:"prompt"`
	Subject            string `json:"subject"`
	LanguageLevel      string `json:"languageLevel,omitempty"`
	VocabPercentage    *int   `json:"vocabPercentage,omitempty"`
	ContentFocus       string `json:"contentFocus,omitempty"`
	IncludeVocabList   *bool  `json:"includeVocabList,omitempty"`
	Description        string `json:"description,omitempty"`
	ModelName          string `json:"modelName,omitempty"`
	UseDocumentContext bool   `json:"useDocumentContext"`
	OwnerID            string `json:"userId,omitempty"`
	ContextSubject     string `json:"contextSubject,omitempty"`
	CitationStyle      string `json:"citationStyle,omitempty"`
}

// GenerateResponse is the generation reply rendered by the frontend.
type GenerateResponse struct {
	FormattedResponse string `json:"formattedResponse"`
}

// Generate proxies a generation request to the RAG service.
// Errors are wrapped into the HTML error fragment instead of failing the
// request, matching the frontend contract.
func (c *RAGClient) Generate(ctx context.Context, req GenerateRequest) *GenerateResponse {
	ctx, span := telemetry.StartSpan(ctx, telemetry.SpanRAGGenerate)
	defer span.End()
	span.SetAttributes(telemetry.Upstream("rag"), telemetry.Model(req.ModelName))

	logger.InfoCtx(ctx, "proxying generate request to RAG service",
		logger.KeyUpstream, "rag", logger.KeyModel, req.ModelName)

	var resp GenerateResponse
	if err := c.do(ctx, http.MethodPost, "/rag/generate", req, &resp); err != nil {
		telemetry.RecordError(ctx, err)
		logger.ErrorCtx(ctx, "error proxying generation",
			logger.KeyUpstream, "rag", logger.KeyError, err)
		return &GenerateResponse{FormattedResponse: ErrorHTML(err.Error())}
	}

	return &resp
}

// IngestResult is the RAG service's answer to a document upload.
type IngestResult map[string]any

// Ingest uploads a document to the RAG service as multipart form data.
// The metadata part scopes the document to the owning account and an
// optional subject.
func (c *RAGClient) Ingest(ctx context.Context, filename string, content io.Reader, ownerID, subject string) (IngestResult, error) {
	ctx, span := telemetry.StartSpan(ctx, telemetry.SpanRAGIngest)
	defer span.End()
	span.SetAttributes(telemetry.Upstream("rag"), telemetry.AccountID(ownerID))

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("failed to copy file content: %w", err)
	}

	metadata := fmt.Sprintf(`{"user_id": %q, "subject": %q}`, ownerID, subject)
	if err := writer.WriteField("metadata", metadata); err != nil {
		return nil, fmt.Errorf("failed to write metadata field: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rag/ingest", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	var result IngestResult
	if err := c.send(req, &result); err != nil {
		telemetry.RecordError(ctx, err)
		return nil, err
	}

	logger.InfoCtx(ctx, "document uploaded", logger.KeyUpstream, "rag", "filename", filename)
	return result, nil
}

// QueryRequest is the body of a retrieval query.
type QueryRequest struct {
	Query   string `json:"query"`
	OwnerID string `json:"user_id"`
	TopK    int    `json:"top_k"`
}

// Query runs a retrieval query against the account's ingested documents.
func (c *RAGClient) Query(ctx context.Context, req QueryRequest) (map[string]any, error) {
	if req.TopK <= 0 {
		req.TopK = 5
	}

	ctx, span := telemetry.StartSpan(ctx, telemetry.SpanRAGQuery)
	defer span.End()
	span.SetAttributes(telemetry.Upstream("rag"), telemetry.AccountID(req.OwnerID))

	var result map[string]any
	if err := c.do(ctx, http.MethodPost, "/rag/query", req, &result); err != nil {
		telemetry.RecordError(ctx, err)
		return nil, err
	}
	return result, nil
}

// Document is a single ingested document as reported by the RAG service.
type Document map[string]any

// ListDocuments returns the documents ingested for an account.
func (c *RAGClient) ListDocuments(ctx context.Context, ownerID string) ([]Document, error) {
	ctx, span := telemetry.StartSpan(ctx, telemetry.SpanRAGDocuments)
	defer span.End()
	span.SetAttributes(telemetry.Upstream("rag"), telemetry.AccountID(ownerID))

	path := "/rag/documents?user_id=" + url.QueryEscape(ownerID)

	var docs []Document
	if err := c.do(ctx, http.MethodGet, path, nil, &docs); err != nil {
		telemetry.RecordError(ctx, err)
		return nil, err
	}
	return docs, nil
}

// DeleteDocuments removes the given documents from the RAG index.
func (c *RAGClient) DeleteDocuments(ctx context.Context, docIDs []string) (map[string]any, error) {
	ctx, span := telemetry.StartSpan(ctx, telemetry.SpanRAGDocuments)
	defer span.End()
	span.SetAttributes(telemetry.Upstream("rag"))

	body := map[string][]string{"doc_ids": docIDs}

	var result map[string]any
	if err := c.do(ctx, http.MethodDelete, "/rag/documents", body, &result); err != nil {
		telemetry.RecordError(ctx, err)
		return nil, err
	}
	return result, nil
}
