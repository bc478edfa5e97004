package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/hlog"
)

type contextKey string

const UserIDKey contextKey = "user_id"

// Verifier resolves a bearer token to a user id.
type Verifier interface {
	Verify(token string) (string, error)
}

// UserID returns the authenticated user stored by RequireAuth.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(UserIDKey).(string)
	return id
}

// WithUserID returns a copy of ctx carrying id, as RequireAuth does.
func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, UserIDKey, id)
}

// RequireAuth rejects requests without a valid "Authorization: Bearer" token
// and puts the token's user id in the request context.
func RequireAuth(v Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				unauthorized(w, "missing bearer token")
				return
			}
			userID, err := v.Verify(raw)
			if err != nil {
				hlog.FromRequest(r).Debug().Err(err).Msg("rejected token")
				unauthorized(w, "invalid token")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": msg})
}
