package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow-api/internal/model"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Health(_ context.Context) error {
	return s.err
}

func TestHealth_Healthy(t *testing.T) {
	h := NewHealthHandler(stubPinger{})

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var envelope model.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
}

func TestHealth_DegradedUsesErrorEnvelope(t *testing.T) {
	h := NewHealthHandler(stubPinger{err: errors.New("connection refused")})

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var envelope model.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "SERVICE_UNAVAILABLE", envelope.Error.Code)
}
