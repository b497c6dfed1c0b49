package logger

import (
	"fmt"
	"log/slog"
)

// Standard field keys for structured logging. Use these consistently
// across all log statements so logs stay aggregatable and queryable.
const (
	// Distributed tracing
	KeyTraceID = "trace_id" // OpenTelemetry trace ID for request correlation
	KeySpanID  = "span_id"  // OpenTelemetry span ID for operation tracking

	// HTTP request
	KeyMethod     = "method"      // HTTP method
	KeyPath       = "path"        // Request path
	KeyStatus     = "status"      // HTTP response status code
	KeyRequestID  = "request_id"  // Per-request correlation ID
	KeyClientIP   = "client_ip"   // Client IP address (without port)
	KeyDurationMs = "duration_ms" // Request duration in milliseconds

	// Identity
	KeyUsername  = "username"   // Account username
	KeyAccountID = "account_id" // Account UUID
	KeyRoles     = "roles"      // Role set

	// Domain entities
	KeyMaterialID = "material_id" // Lesson material UUID
	KeySubjectID  = "subject_id"  // Subject UUID
	KeyTopic      = "topic"       // Material topic

	// Upstream services
	KeyUpstream = "upstream" // Upstream service name: ollama, rag
	KeyModel    = "model"    // LLM model name
	KeyURL      = "url"      // Upstream URL

	// Generic
	KeyError     = "error"     // Error message
	KeyCount     = "count"     // Generic count
	KeyOperation = "operation" // Sub-operation for multi-step flows
)

// Err returns a slog.Attr for an error value.
// Usage: logger.Error("operation failed", logger.Err(err))
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// F is a shorthand for building a slog.Attr from any value.
func F(key string, value any) slog.Attr {
	return slog.Any(key, value)
}

// Stringify formats a value for logging, guarding against nil.
func Stringify(v any) string {
	if v == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%v", v)
}
