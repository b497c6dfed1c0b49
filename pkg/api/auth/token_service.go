package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ren-ben/HelikonProject/pkg/models"
)

// Token verification errors. Verify distinguishes the failure causes so
// callers can log or report them precisely; the HTTP layer collapses all
// of them into a single 401.
var (
	// ErrMalformedToken is returned when a token is not structurally a JWT.
	ErrMalformedToken = errors.New("malformed token")

	// ErrInvalidSignature is returned when a token's signature does not
	// verify against the configured secret.
	ErrInvalidSignature = errors.New("invalid token signature")

	// ErrExpiredToken is returned when a token's expiry has passed.
	ErrExpiredToken = errors.New("token has expired")

	// ErrInvalidToken is returned for any other verification failure.
	ErrInvalidToken = errors.New("invalid token")

	// ErrInvalidTokenType is returned when a token verifies but carries
	// the wrong type discriminator for the operation.
	ErrInvalidTokenType = errors.New("invalid token type")

	// ErrTokenSigningFailed is returned when signing a token fails.
	ErrTokenSigningFailed = errors.New("failed to sign token")

	// ErrInvalidSecretLength is returned when the signing secret is too
	// short to offer meaningful HMAC security.
	ErrInvalidSecretLength = errors.New("JWT secret must be at least 32 characters")
)

// Config holds configuration for token issuance.
type Config struct {
	// Secret is the HMAC signing key. Must be at least 32 characters.
	Secret string

	// Issuer is the token issuer claim. Default: "helikon"
	Issuer string

	// AccessTokenDuration is the lifetime of access tokens. Default: 15 minutes.
	AccessTokenDuration time.Duration

	// RefreshTokenDuration is the lifetime of refresh tokens. Default: 7 days.
	RefreshTokenDuration time.Duration
}

// TokenService issues and verifies HS256-signed JWT tokens.
type TokenService struct {
	config Config
}

// TokenPair contains both access and refresh tokens.
type TokenPair struct {
	// AccessToken is the short-lived token for API authorization.
	AccessToken string `json:"access_token"`

	// RefreshToken is the long-lived token for obtaining new access tokens.
	RefreshToken string `json:"refresh_token"`

	// TokenType is always "Bearer".
	TokenType string `json:"token_type"`

	// ExpiresIn is the access token lifetime in seconds.
	ExpiresIn int64 `json:"expires_in"`

	// ExpiresAt is the access token expiration time.
	ExpiresAt time.Time `json:"expires_at"`
}

// NewTokenService creates a new token service with the given configuration.
func NewTokenService(config Config) (*TokenService, error) {
	if len(config.Secret) < 32 {
		return nil, ErrInvalidSecretLength
	}

	// Apply defaults
	if config.Issuer == "" {
		config.Issuer = "helikon"
	}
	if config.AccessTokenDuration == 0 {
		config.AccessTokenDuration = 15 * time.Minute
	}
	if config.RefreshTokenDuration == 0 {
		config.RefreshTokenDuration = 7 * 24 * time.Hour
	}

	return &TokenService{config: config}, nil
}

// IssuePair creates a new access/refresh token pair for the given account.
// The access token carries the account's current role snapshot; the
// refresh token carries identity only.
func (s *TokenService) IssuePair(account *models.Account) (*TokenPair, error) {
	now := time.Now()
	accessExpiry := now.Add(s.config.AccessTokenDuration)
	refreshExpiry := now.Add(s.config.RefreshTokenDuration)

	accessToken, err := s.issueToken(account, TokenTypeAccess, now, accessExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	refreshToken, err := s.issueToken(account, TokenTypeRefresh, now, refreshExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.config.AccessTokenDuration.Seconds()),
		ExpiresAt:    accessExpiry,
	}, nil
}

// issueToken creates a single signed JWT.
func (s *TokenService) issueToken(account *models.Account, tokenType TokenType, issuedAt, expiresAt time.Time) (string, error) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   account.Username,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		TokenType: tokenType,
	}

	if tokenType == TokenTypeAccess {
		claims.Roles = models.RoleNames(account.RoleSet())
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", ErrTokenSigningFailed
	}

	return signedToken, nil
}

// Verify parses and validates a token and returns its claims, regardless
// of token type. A token whose expiry equals the current instant is
// already expired.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		// Reject any algorithm other than HMAC to rule out downgrade tricks
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformedToken
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		default:
			return nil, ErrInvalidToken
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// VerifyAccess verifies a token and ensures it is an access token.
func (s *TokenService) VerifyAccess(tokenString string) (*Claims, error) {
	claims, err := s.Verify(tokenString)
	if err != nil {
		return nil, err
	}

	if !claims.IsAccessToken() {
		return nil, ErrInvalidTokenType
	}

	return claims, nil
}

// VerifyRefresh verifies a token and ensures it is a refresh token.
func (s *TokenService) VerifyRefresh(tokenString string) (*Claims, error) {
	claims, err := s.Verify(tokenString)
	if err != nil {
		return nil, err
	}

	if !claims.IsRefreshToken() {
		return nil, ErrInvalidTokenType
	}

	return claims, nil
}

// IsValidFor reports whether the token currently verifies and names the
// given username as its subject. It answers yes/no only; use Verify when
// the failure cause matters.
func (s *TokenService) IsValidFor(tokenString, username string) bool {
	claims, err := s.Verify(tokenString)
	if err != nil {
		return false
	}

	if claims.Subject != username {
		return false
	}

	// Strict expiry: a token is invalid from the expiry instant onwards.
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(time.Now()) {
		return false
	}

	return true
}

// AccessTokenDuration returns the configured access token duration.
func (s *TokenService) AccessTokenDuration() time.Duration {
	return s.config.AccessTokenDuration
}

// RefreshTokenDuration returns the configured refresh token duration.
func (s *TokenService) RefreshTokenDuration() time.Duration {
	return s.config.RefreshTokenDuration
}
