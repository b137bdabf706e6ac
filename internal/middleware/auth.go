package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"taskflow-api/internal/model"
)

// userResolver resolves a bearer access token into the authenticated user.
type userResolver interface {
	ResolveAccess(ctx context.Context, token string) (model.User, error)
}

type contextKey string

const currentUserContextKey contextKey = "current_user"

type AuthMiddleware struct {
	resolver userResolver
}

func NewAuthMiddleware(resolver userResolver) *AuthMiddleware {
	return &AuthMiddleware{resolver: resolver}
}

// RequireAuth gates a route behind a valid access token. On success the
// resolved user is placed in the request context; on failure the request is
// rejected before the handler runs.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeAuthError(w, model.ErrInvalidToken)
			return
		}

		user, err := m.resolver.ResolveAccess(r.Context(), token)
		if err != nil {
			writeAuthError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), currentUserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func UserFromContext(ctx context.Context) (model.User, bool) {
	user, ok := ctx.Value(currentUserContextKey).(model.User)
	return user, ok
}

func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return "", false
	}

	token := strings.TrimSpace(header[7:])
	return token, token != ""
}

// writeAuthError keeps the outward message generic for the whole token
// failure family; only the disabled-account case gets a distinct status.
func writeAuthError(w http.ResponseWriter, err error) {
	status := http.StatusUnauthorized
	code := "UNAUTHORIZED"
	message := "invalid or expired token"

	if errors.Is(err, model.ErrAccountDisabled) {
		status = http.StatusForbidden
		code = "FORBIDDEN"
		message = "account disabled"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = jsonEncode(w, model.APIResponse{
		Success: false,
		Error: &model.APIError{
			Code:    code,
			Message: message,
		},
	})
}
