package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow-api/internal/model"
)

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	svc, err := NewTokenService("test-secret", "HS256")
	require.NoError(t, err)
	return svc
}

func TestNewTokenService_Validation(t *testing.T) {
	_, err := NewTokenService("", "HS256")
	assert.Error(t, err)

	_, err = NewTokenService("secret", "RS256")
	assert.Error(t, err, "only HMAC algorithms are supported")

	_, err = NewTokenService("secret", "none")
	assert.Error(t, err)

	for _, alg := range []string{"HS256", "HS384", "HS512"} {
		_, err := NewTokenService("secret", alg)
		assert.NoError(t, err, alg)
	}
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	svc := newTestTokenService(t)

	token, err := svc.Issue("a@x.com", model.TokenKindAccess, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 3, len(strings.Split(token, ".")), "expected compact JWS with three parts")

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Subject)
	assert.Equal(t, model.TokenKindAccess, claims.Kind)
	assert.NotEmpty(t, claims.TokenID)
	assert.WithinDuration(t, time.Now().Add(time.Minute), claims.ExpiresAt, 5*time.Second)
}

func TestTokenService_KindPreserved(t *testing.T) {
	svc := newTestTokenService(t)

	token, err := svc.Issue("a@x.com", model.TokenKindRefresh, time.Hour)
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, model.TokenKindRefresh, claims.Kind)
}

func TestTokenService_ExpiredToken(t *testing.T) {
	svc := newTestTokenService(t)

	for _, ttl := range []time.Duration{0, -time.Minute} {
		token, err := svc.Issue("a@x.com", model.TokenKindAccess, ttl)
		require.NoError(t, err)

		_, err = svc.Verify(token)
		assert.ErrorIs(t, err, model.ErrInvalidToken, "ttl=%s", ttl)
	}
}

func TestTokenService_TamperedToken(t *testing.T) {
	svc := newTestTokenService(t)

	token, err := svc.Issue("a@x.com", model.TokenKindAccess, time.Minute)
	require.NoError(t, err)

	// Flip a character in the payload segment.
	parts := strings.Split(token, ".")
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = svc.Verify(tampered)
	assert.ErrorIs(t, err, model.ErrInvalidToken)
}

func TestTokenService_WrongSecret(t *testing.T) {
	svc := newTestTokenService(t)
	other, err := NewTokenService("another-secret", "HS256")
	require.NoError(t, err)

	token, err := other.Issue("a@x.com", model.TokenKindAccess, time.Minute)
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, model.ErrInvalidToken)
}

func TestTokenService_WrongAlgorithmRejected(t *testing.T) {
	hs256 := newTestTokenService(t)
	hs512, err := NewTokenService("test-secret", "HS512")
	require.NoError(t, err)

	token, err := hs256.Issue("a@x.com", model.TokenKindAccess, time.Minute)
	require.NoError(t, err)

	_, err = hs512.Verify(token)
	assert.ErrorIs(t, err, model.ErrInvalidToken)
}

func TestTokenService_MalformedToken(t *testing.T) {
	svc := newTestTokenService(t)

	for _, raw := range []string{"", "garbage", "a.b.c", "only.two"} {
		_, err := svc.Verify(raw)
		assert.ErrorIs(t, err, model.ErrInvalidToken, "token=%q", raw)
	}
}
