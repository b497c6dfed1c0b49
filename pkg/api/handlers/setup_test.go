//go:build integration

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ren-ben/HelikonProject/pkg/api/auth"
	"github.com/ren-ben/HelikonProject/pkg/api/middleware"
	"github.com/ren-ben/HelikonProject/pkg/authflow"
	"github.com/ren-ben/HelikonProject/pkg/models"
	"github.com/ren-ben/HelikonProject/pkg/store"
)

const testPassword = "password123"

// setupTestStore creates an in-memory SQLite store.
func setupTestStore(t *testing.T) *store.GORMStore {
	t.Helper()
	s, err := store.New(&store.Config{
		Type:   store.DatabaseTypeSQLite,
		SQLite: store.SQLiteConfig{Path: ":memory:"},
	})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func setupTokenService(t *testing.T) *auth.TokenService {
	t.Helper()
	tokens, err := auth.NewTokenService(auth.Config{
		Secret: "test-secret-key-that-is-at-least-32-characters-long",
	})
	if err != nil {
		t.Fatalf("failed to create token service: %v", err)
	}
	return tokens
}

func setupAuthFlow(t *testing.T, s *store.GORMStore) *authflow.Service {
	t.Helper()
	return authflow.NewService(s, setupTokenService(t))
}

// createAccount inserts an approved account with the given roles.
func createAccount(t *testing.T, s *store.GORMStore, username string, roles ...models.Role) *models.Account {
	t.Helper()

	hash, err := models.HashPassword(testPassword)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	if len(roles) == 0 {
		roles = []models.Role{models.RoleUser}
	}
	account := &models.Account{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		Approved:     true,
	}
	account.SetRoles(roles)

	if err := s.CreateAccount(context.Background(), account); err != nil {
		t.Fatalf("failed to create account %q: %v", username, err)
	}
	return account
}

// claimsFor builds the access claims the JWTAuth middleware would inject.
func claimsFor(account *models.Account) *auth.Claims {
	return &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: account.Username},
		Roles:            models.RoleNames(account.RoleSet()),
		TokenType:        auth.TokenTypeAccess,
	}
}

// authedRequest builds a request carrying the account's claims, bypassing
// the JWT middleware the way the real router would have populated them.
func authedRequest(method, target string, body any, account *models.Account) *http.Request {
	var reader io.Reader
	if body != nil {
		buf, _ := json.Marshal(body)
		reader = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if account != nil {
		req = req.WithContext(middleware.WithClaims(req.Context(), claimsFor(account)))
	}
	return req
}

func jsonRequest(method, target string, body any) *http.Request {
	return authedRequest(method, target, body, nil)
}

func decodeResponse[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("failed to decode response body: %v\nbody: %s", err, rec.Body.String())
	}
	return out
}
