// Package jwt verifies the access tokens issued to yard staff by the identity provider.
package jwt

import (
	"errors"
	"strings"
	"time"

	"rolloff/config"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token has expired")
	ErrInvalidClaim  = errors.New("invalid token claim")
	ErrMissingHeader = errors.New("authorization header is required")
	ErrInvalidHeader = errors.New("authorization header must use the Bearer scheme")
)

type TokenType string

const AccessToken TokenType = "access"

type Claims struct {
	UserID  string    `json:"user_id"`
	Email   string    `json:"email"`
	Role    string    `json:"role,omitempty"`
	TokenID string    `json:"token_id"`
	Type    TokenType `json:"type"`
	jwt.RegisteredClaims
}

type JWT interface {
	ValidateToken(tokenString string) (*Claims, error)
}

type Service struct {
	secret []byte
	parser *jwt.Parser
}

func New(cfg *config.Config) JWT {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg(), jwt.SigningMethodHS384.Alg(), jwt.SigningMethodHS512.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(time.Duration(cfg.JWT.LeewaySeconds) * time.Second),
	}

	if cfg.JWT.Issuer != "" {
		options = append(options, jwt.WithIssuer(cfg.JWT.Issuer))
	}

	return &Service{
		secret: []byte(cfg.JWT.AccessSecret),
		parser: jwt.NewParser(options...),
	}
}

// ValidateToken verifies an HMAC signed access token and returns its claims. Refresh and other
// token types are rejected.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	var claims Claims

	_, err := s.parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return nil, ErrInvalidClaim
	case err != nil:
		return nil, ErrInvalidToken
	case claims.Type != AccessToken:
		return nil, ErrInvalidClaim
	}

	return &claims, nil
}

// ExtractTokenFromHeader returns the token of an "Authorization: Bearer <token>" header. The scheme
// is matched case insensitively.
func ExtractTokenFromHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrMissingHeader
	}

	scheme, token, ok := strings.Cut(authHeader, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", ErrInvalidHeader
	}

	return strings.TrimSpace(token), nil
}
