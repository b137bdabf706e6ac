package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"taskflow-api/internal/model"
)

// TokenService signs and verifies the bearer tokens used by the API. It is
// kind-agnostic: callers decide which TokenKind/TTL pairing a token gets.
type TokenService struct {
	secret []byte
	method jwt.SigningMethod
}

func NewTokenService(secret string, algorithm string) (*TokenService, error) {
	if secret == "" {
		return nil, fmt.Errorf("token secret is required")
	}

	method := jwt.GetSigningMethod(algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}

	return &TokenService{secret: []byte(secret), method: method}, nil
}

func (s *TokenService) Issue(subject string, kind model.TokenKind, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	token := jwt.NewWithClaims(s.method, jwt.MapClaims{
		"sub": subject,
		"typ": string(kind),
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	})

	return token.SignedString(s.secret)
}

// Verify checks signature, encoding, and expiry. All failures collapse into
// model.ErrInvalidToken so the reason is not observable from outside.
func (s *TokenService) Verify(tokenString string) (*model.TokenClaims, error) {
	parsed, err := jwt.Parse(tokenString,
		func(token *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return nil, model.ErrInvalidToken
	}

	claimsMap, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, model.ErrInvalidToken
	}

	subject, _ := claimsMap["sub"].(string)
	if subject == "" {
		return nil, model.ErrInvalidToken
	}

	kind, _ := claimsMap["typ"].(string)
	tokenID, _ := claimsMap["jti"].(string)

	claims := &model.TokenClaims{
		Subject: subject,
		Kind:    model.TokenKind(kind),
		TokenID: tokenID,
	}
	if exp, err := claimsMap.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}

	return claims, nil
}
