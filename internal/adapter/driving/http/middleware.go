package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/bharatgram/server/internal/core/domain"
)

type contextKey string

const userIDKey contextKey = "user_id"

// RequireAuth validates the bearer token and stores the authenticated user
// id in the request context. A query-param fallback exists for clients
// that cannot set headers.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ""
		if header := r.Header.Get("Authorization"); header != "" {
			parts := strings.SplitN(header, " ", 2)
			if len(parts) == 2 && parts[0] == "Bearer" {
				token = parts[1]
			}
		}
		if token == "" {
			token = r.URL.Query().Get("token")
		}
		if token == "" {
			respondError(w, http.StatusUnauthorized, "authorization token is required")
			return
		}

		userID, err := h.Verifier.ValidateToken(token)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, domain.UserID(userID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userFromContext(ctx context.Context) (domain.UserID, bool) {
	userID, ok := ctx.Value(userIDKey).(domain.UserID)
	return userID, ok
}
