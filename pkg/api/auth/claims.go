// Package auth provides JWT token issuance and verification for the
// Helikon API.
package auth

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// TokenType indicates whether a token is an access token or refresh token.
type TokenType string

const (
	// TokenTypeAccess is a short-lived token used for API authorization.
	TokenTypeAccess TokenType = "access"
	// TokenTypeRefresh is a long-lived token used to obtain new access tokens.
	TokenTypeRefresh TokenType = "refresh"
)

// Claims represents the JWT claims carried by Helikon tokens.
//
// The subject is the account username. Roles are only embedded in access
// tokens: a refresh token never grants authority by itself, the role set
// is re-read from the store when it is redeemed.
type Claims struct {
	jwt.RegisteredClaims

	// Roles is the account's role snapshot at issuance time.
	// Present on access tokens only.
	Roles []string `json:"roles,omitempty"`

	// TokenType discriminates access tokens from refresh tokens.
	TokenType TokenType `json:"type"`
}

// IsAccessToken returns true if this is an access token.
func (c *Claims) IsAccessToken() bool {
	return c.TokenType == TokenTypeAccess
}

// IsRefreshToken returns true if this is a refresh token.
func (c *Claims) IsRefreshToken() bool {
	return c.TokenType == TokenTypeRefresh
}

// Username returns the account username the token was issued for.
func (c *Claims) Username() string {
	return c.Subject
}

// HasRole returns true if the token carries the given role name.
func (c *Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// IsAdmin returns true if the token carries the ADMIN role.
func (c *Claims) IsAdmin() bool {
	return c.HasRole("ADMIN")
}
