package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"taskflow-api/internal/middleware"
	"taskflow-api/internal/model"
	"taskflow-api/internal/service"
	"taskflow-api/pkg/apierror"
)

type UserHandler struct {
	service *service.AuthService
}

func NewUserHandler(service *service.AuthService) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, apierror.New("UNAUTHORIZED", "authentication required", "", http.StatusUnauthorized))
		return
	}

	var payload model.UpdateMeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	updated, err := h.service.UpdateUser(r.Context(), user.ID, payload)
	if errors.Is(err, model.ErrEmailTaken) {
		// Unlike registration, a collision here is a conflict with another
		// existing account, not a malformed request.
		writeError(w, apierror.New("CONFLICT", "Email already registered", "", http.StatusConflict))
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, updated.Public(), nil)
}
