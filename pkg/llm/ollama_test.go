package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
)

func newOllamaTestClient(t *testing.T, handler http.HandlerFunc) *OllamaClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewOllamaClient(OllamaConfig{URL: server.URL})
}

func TestOllamaListModels(t *testing.T) {
	client := newOllamaTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"models": []map[string]string{
				{"name": "llama3.2"},
				{"name": "mistral"},
			},
		})
	})

	models := client.ListModels(context.Background())
	if !slices.Equal(models, []string{"llama3.2", "mistral"}) {
		t.Errorf("expected [llama3.2 mistral], got %v", models)
	}
}

func TestOllamaListModels_EmptyFallsBackToDefault(t *testing.T) {
	client := newOllamaTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"models": []any{}})
	})

	models := client.ListModels(context.Background())
	if !slices.Equal(models, []string{DefaultOllamaModel}) {
		t.Errorf("expected default model fallback, got %v", models)
	}
}

func TestOllamaListModels_DaemonDownFallsBackToDefault(t *testing.T) {
	client := NewOllamaClient(OllamaConfig{
		URL:          "http://127.0.0.1:1", // nothing listens here
		DefaultModel: "phi3",
	})

	models := client.ListModels(context.Background())
	if !slices.Equal(models, []string{"phi3"}) {
		t.Errorf("expected configured default, got %v", models)
	}
}

func TestOllamaGenerate(t *testing.T) {
	var captured chatRequest
	client := newOllamaTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("failed to decode chat request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]string{"role": "assistant", "content": "<h1>Lesson</h1>"},
		})
	})

	content, err := client.Generate(context.Background(), "mistral", "system prompt", "user prompt")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if content != "<h1>Lesson</h1>" {
		t.Errorf("expected generated content, got %q", content)
	}
	if captured.Model != "mistral" {
		t.Errorf("expected model 'mistral', got %q", captured.Model)
	}
	if captured.Stream {
		t.Error("expected non-streaming request")
	}
	if len(captured.Messages) != 2 || captured.Messages[0].Role != "system" || captured.Messages[1].Role != "user" {
		t.Errorf("expected system+user messages, got %+v", captured.Messages)
	}
}

func TestOllamaGenerate_EmptyModelUsesDefault(t *testing.T) {
	var captured chatRequest
	client := newOllamaTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&captured)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]string{"role": "assistant", "content": "ok"},
		})
	})

	if _, err := client.Generate(context.Background(), "  ", "s", "u"); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if captured.Model != DefaultOllamaModel {
		t.Errorf("expected default model, got %q", captured.Model)
	}
}

func TestOllamaGenerate_EmptyReply(t *testing.T) {
	client := newOllamaTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{})
	})

	if _, err := client.Generate(context.Background(), "mistral", "s", "u"); err == nil {
		t.Error("expected error for empty reply")
	}
}

func TestOllamaGenerate_UpstreamError(t *testing.T) {
	client := newOllamaTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	})

	_, err := client.Generate(context.Background(), "ghost", "s", "u")
	if err == nil {
		t.Fatal("expected error from upstream failure")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("expected status code in error, got %v", err)
	}
}
