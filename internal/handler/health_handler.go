package handler

import (
	"context"
	"net/http"

	"taskflow-api/pkg/apierror"
)

const apiVersion = "1.0.0"

type pinger interface {
	Health(ctx context.Context) error
}

type HealthHandler struct {
	db pinger
}

func NewHealthHandler(db pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Root(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]any{
		"message": "Welcome to TaskFlow API",
		"version": apiVersion,
		"docs":    "/docs",
	}, nil)
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		if err := h.db.Health(r.Context()); err != nil {
			writeError(w, apierror.New("SERVICE_UNAVAILABLE", "database unreachable", "", http.StatusServiceUnavailable))
			return
		}
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"service": "TaskFlow API",
	}, nil)
}

func (h *HealthHandler) APIHealth(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]any{
		"status":      "healthy",
		"api_version": "v1",
	}, nil)
}
