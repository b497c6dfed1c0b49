package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ren-ben/HelikonProject/pkg/api/auth"
	"github.com/ren-ben/HelikonProject/pkg/models"
)

func newTestTokenService(t *testing.T) *auth.TokenService {
	t.Helper()
	tokens, err := auth.NewTokenService(auth.Config{
		Secret: "test-secret-key-must-be-32-chars!",
	})
	if err != nil {
		t.Fatalf("failed to create token service: %v", err)
	}
	return tokens
}

func issueTestPair(t *testing.T, tokens *auth.TokenService, roles ...models.Role) *auth.TokenPair {
	t.Helper()
	account := &models.Account{
		ID:       "test-uuid",
		Username: "testuser",
		Email:    "testuser@example.com",
		Approved: true,
	}
	if len(roles) == 0 {
		roles = []models.Role{models.RoleUser}
	}
	account.SetRoles(roles)

	pair, err := tokens.IssuePair(account)
	if err != nil {
		t.Fatalf("failed to issue tokens: %v", err)
	}
	return pair
}

// claimsCapturingHandler records whether it ran and which claims it saw.
type claimsCapturingHandler struct {
	called bool
	claims *auth.Claims
}

func (h *claimsCapturingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.called = true
	h.claims = GetClaimsFromContext(r.Context())
	w.WriteHeader(http.StatusOK)
}

func TestJWTAuth_ValidToken(t *testing.T) {
	tokens := newTestTokenService(t)
	pair := issueTestPair(t, tokens)

	next := &claimsCapturingHandler{}
	handler := JWTAuth(tokens)(next)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/clil/materials", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !next.called {
		t.Fatal("expected handler to be called")
	}
	if next.claims == nil {
		t.Fatal("expected claims in request context")
	}
	if next.claims.Username() != "testuser" {
		t.Errorf("expected username 'testuser', got %q", next.claims.Username())
	}
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	tokens := newTestTokenService(t)

	next := &claimsCapturingHandler{}
	handler := JWTAuth(tokens)(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	if next.called {
		t.Error("expected handler not to be called")
	}
}

func TestJWTAuth_MalformedHeader(t *testing.T) {
	tokens := newTestTokenService(t)
	pair := issueTestPair(t, tokens)

	headers := []string{
		"Basic dXNlcjpwYXNz",
		pair.AccessToken, // missing Bearer prefix
		"Bearer",
	}

	for _, header := range headers {
		next := &claimsCapturingHandler{}
		handler := JWTAuth(tokens)(next)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("header %q: expected 401, got %d", header, rec.Code)
		}
		if next.called {
			t.Errorf("header %q: expected handler not to be called", header)
		}
	}
}

func TestJWTAuth_CaseInsensitiveBearer(t *testing.T) {
	tokens := newTestTokenService(t)
	pair := issueTestPair(t, tokens)

	next := &claimsCapturingHandler{}
	handler := JWTAuth(tokens)(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 for lowercase bearer scheme, got %d", rec.Code)
	}
}

func TestJWTAuth_InvalidToken(t *testing.T) {
	tokens := newTestTokenService(t)

	next := &claimsCapturingHandler{}
	handler := JWTAuth(tokens)(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestJWTAuth_RejectsRefreshToken(t *testing.T) {
	tokens := newTestTokenService(t)
	pair := issueTestPair(t, tokens)

	next := &claimsCapturingHandler{}
	handler := JWTAuth(tokens)(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+pair.RefreshToken)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for refresh token on API route, got %d", rec.Code)
	}
	if next.called {
		t.Error("expected handler not to be called")
	}
}

func TestRequireAdmin(t *testing.T) {
	tokens := newTestTokenService(t)

	tests := []struct {
		name     string
		roles    []models.Role
		expected int
	}{
		{"admin allowed", []models.Role{models.RoleAdmin}, http.StatusOK},
		{"user and admin allowed", []models.Role{models.RoleUser, models.RoleAdmin}, http.StatusOK},
		{"plain user forbidden", []models.Role{models.RoleUser}, http.StatusForbidden},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pair := issueTestPair(t, tokens, tc.roles...)

			next := &claimsCapturingHandler{}
			handler := JWTAuth(tokens)(RequireAdmin()(next))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/clil/admin/users", nil)
			req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tc.expected {
				t.Errorf("expected %d, got %d", tc.expected, rec.Code)
			}
		})
	}
}

func TestRequireAdmin_WithoutClaims(t *testing.T) {
	next := &claimsCapturingHandler{}
	handler := RequireAdmin()(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without claims, got %d", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	tokens := newTestTokenService(t)

	t.Run("matching role passes", func(t *testing.T) {
		pair := issueTestPair(t, tokens, models.RoleUser)

		next := &claimsCapturingHandler{}
		handler := JWTAuth(tokens)(RequireRole("USER", "ADMIN")(next))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("no matching role is forbidden", func(t *testing.T) {
		pair := issueTestPair(t, tokens, models.RoleUser)

		next := &claimsCapturingHandler{}
		handler := JWTAuth(tokens)(RequireRole("ADMIN")(next))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d", rec.Code)
		}
	})
}

func TestGetClaimsFromContext_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if claims := GetClaimsFromContext(req.Context()); claims != nil {
		t.Errorf("expected nil claims, got %+v", claims)
	}
}
