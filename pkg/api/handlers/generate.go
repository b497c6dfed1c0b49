package handlers

import (
	"net/http"

	"github.com/ren-ben/HelikonProject/internal/logger"
	"github.com/ren-ben/HelikonProject/pkg/llm"
	"github.com/ren-ben/HelikonProject/pkg/prompt"
	"github.com/ren-ben/HelikonProject/pkg/store"
)

// GenerateHandler handles model listing and lesson material generation.
//
// Generation routes to one of two upstreams: requests that want document
// context go to the RAG service, plain requests go to the local Ollama
// daemon. Upstream failures are rendered as an HTML error fragment with
// HTTP 200, matching the frontend contract.
type GenerateHandler struct {
	store  store.AccountStore
	ollama *llm.OllamaClient
	rag    *llm.RAGClient
}

// NewGenerateHandler creates a new GenerateHandler.
func NewGenerateHandler(s store.AccountStore, ollama *llm.OllamaClient, rag *llm.RAGClient) *GenerateHandler {
	return &GenerateHandler{
		store:  s,
		ollama: ollama,
		rag:    rag,
	}
}

// ModelsResponse is the response body for GET /api/v1/clil/models.
type ModelsResponse struct {
	Local []string `json:"local"`
	RAG   []string `json:"rag"`
}

// Models handles GET /api/v1/clil/models.
// Lists the models of both upstreams. Each upstream degrades to its
// default model name when unreachable, so this never fails.
func (h *GenerateHandler) Models(w http.ResponseWriter, r *http.Request) {
	WriteJSONOK(w, ModelsResponse{
		Local: h.ollama.ListModels(r.Context()),
		RAG:   h.rag.ListModels(r.Context()),
	})
}

// GenerateRequest is the request body for POST /api/v1/clil/generate.
type GenerateRequest struct {
	MaterialType       string `json:"materialType"`
	Topic              string `json:"topic"`
	Prompt             string `json:"prompt"`
	Subject            string `json:"subject"`
	LanguageLevel      string `json:"languageLevel"`
	VocabPercentage    *int   `json:"vocabPercentage"`
	ContentFocus       string `json:"contentFocus"`
	IncludeVocabList   *bool  `json:"includeVocabList"`
	Description        string `json:"description"`
	ModelName          string `json:"modelName"`
	UseDocumentContext bool   `json:"useDocumentContext"`
	ContextSubject     string `json:"contextSubject"`
	CitationStyle      string `json:"citationStyle"`
}

// GenerateResponse is the response body for POST /api/v1/clil/generate.
type GenerateResponse struct {
	FormattedResponse string `json:"formattedResponse"`
}

// Generate handles POST /api/v1/clil/generate.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	account, _, ok := requireAccount(w, r, h.store)
	if !ok {
		return
	}

	var req GenerateRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	params := prompt.Params{
		MaterialType:     req.MaterialType,
		Topic:            req.Topic,
		Prompt:           req.Prompt,
		Subject:          req.Subject,
		LanguageLevel:    req.LanguageLevel,
		VocabPercentage:  req.VocabPercentage,
		ContentFocus:     req.ContentFocus,
		IncludeVocabList: req.IncludeVocabList,
		Description:      req.Description,
	}
	if err := params.Validate(); err != nil {
		BadRequest(w, err.Error())
		return
	}

	if req.UseDocumentContext {
		resp := h.rag.Generate(r.Context(), llm.GenerateRequest{
			MaterialType:       req.MaterialType,
			Topic:              req.Topic,
			Prompt:             req.Prompt,
			Subject:            req.Subject,
			LanguageLevel:      req.LanguageLevel,
			VocabPercentage:    req.VocabPercentage,
			ContentFocus:       req.ContentFocus,
			IncludeVocabList:   req.IncludeVocabList,
			Description:        req.Description,
			ModelName:          req.ModelName,
			UseDocumentContext: true,
			OwnerID:            account.ID,
			ContextSubject:     req.ContextSubject,
			CitationStyle:      req.CitationStyle,
		})
		WriteJSONOK(w, GenerateResponse{FormattedResponse: resp.FormattedResponse})
		return
	}

	content, err := h.ollama.Generate(
		r.Context(),
		req.ModelName,
		prompt.SystemPrompt(),
		prompt.BuildUserPrompt(params),
	)
	if err != nil {
		logger.ErrorCtx(r.Context(), "generation failed",
			logger.KeyUpstream, "ollama", logger.KeyModel, req.ModelName, logger.KeyError, err)
		WriteJSONOK(w, GenerateResponse{FormattedResponse: llm.ErrorHTML(err.Error())})
		return
	}

	WriteJSONOK(w, GenerateResponse{FormattedResponse: content})
}
