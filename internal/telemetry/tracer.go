package telemetry

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
)

// Common attribute keys for API and upstream operations.
// These follow OpenTelemetry semantic conventions where applicable.
const (
	// Client attributes
	AttrClientIP   = "client.ip"
	AttrClientAddr = "client.address"

	// HTTP attributes
	AttrHTTPMethod = "http.request.method"
	AttrHTTPRoute  = "http.route"
	AttrHTTPStatus = "http.response.status_code"

	// User/Auth attributes
	AttrUsername  = "user.name"
	AttrAccountID = "user.id"
	AttrRoles     = "user.roles"

	// Domain attributes
	AttrMaterialID   = "material.id"
	AttrMaterialType = "material.type"
	AttrSubjectID    = "subject.id"
	AttrTopic        = "material.topic"

	// Upstream LLM attributes
	AttrUpstream    = "upstream.name" // ollama, rag
	AttrModel       = "llm.model"
	AttrUpstreamURL = "upstream.url"
)

// Span names for operations.
// Format: <component>.<operation>
const (
	// Authentication flow spans
	SpanAuthRegister = "auth.register"
	SpanAuthLogin    = "auth.login"
	SpanAuthRefresh  = "auth.refresh"

	// Store spans
	SpanStoreBootstrap = "store.ensure_admin"

	// Upstream spans
	SpanOllamaModels   = "ollama.models"
	SpanOllamaGenerate = "ollama.generate"
	SpanRAGModels      = "rag.models"
	SpanRAGGenerate    = "rag.generate"
	SpanRAGIngest      = "rag.ingest"
	SpanRAGQuery       = "rag.query"
	SpanRAGDocuments   = "rag.documents"
)

// ClientIP returns an attribute for client IP address
func ClientIP(ip string) attribute.KeyValue {
	return attribute.String(AttrClientIP, ip)
}

// HTTPMethod returns an attribute for the HTTP method
func HTTPMethod(method string) attribute.KeyValue {
	return attribute.String(AttrHTTPMethod, method)
}

// HTTPRoute returns an attribute for the matched route pattern
func HTTPRoute(route string) attribute.KeyValue {
	return attribute.String(AttrHTTPRoute, route)
}

// HTTPStatus returns an attribute for the response status code
func HTTPStatus(status int) attribute.KeyValue {
	return attribute.Int(AttrHTTPStatus, status)
}

// Username returns an attribute for the account username
func Username(name string) attribute.KeyValue {
	return attribute.String(AttrUsername, name)
}

// AccountID returns an attribute for the account UUID
func AccountID(id string) attribute.KeyValue {
	return attribute.String(AttrAccountID, id)
}

// MaterialID returns an attribute for a lesson material UUID
func MaterialID(id string) attribute.KeyValue {
	return attribute.String(AttrMaterialID, id)
}

// Model returns an attribute for the LLM model name
func Model(name string) attribute.KeyValue {
	return attribute.String(AttrModel, name)
}

// Upstream returns an attribute for the upstream service name
func Upstream(name string) attribute.KeyValue {
	return attribute.String(AttrUpstream, name)
}

// ErrorMessage returns an attribute carrying an error's message
func ErrorMessage(err error) attribute.KeyValue {
	return attribute.String("error.message", fmt.Sprintf("%v", err))
}
