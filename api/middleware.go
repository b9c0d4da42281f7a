package api

import (
	"context"
	"net/http"

	"github.com/mindflow/life-ledger/auth"
)

type contextKey string

// userContextKey carries the authenticated user through the request.
const userContextKey contextKey = "user"

// requireAuth guards a route group: it verifies the bearer token and
// stores the authenticated user in the request context.
func (h *Handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "Missing bearer token", nil)
			return
		}

		user, err := h.Auth.Verify(r.Context(), token)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserFromContext returns the authenticated user set by requireAuth.
func UserFromContext(ctx context.Context) (auth.User, bool) {
	user, ok := ctx.Value(userContextKey).(auth.User)
	return user, ok
}
