package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/fekuna/omnipos-catalog-sync/internal/logger"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type contextKey struct{}

type UserContext struct {
	UserID string
	Email  string
	Role   string
}

func WithUser(ctx context.Context, u UserContext) context.Context {
	return context.WithValue(ctx, contextKey{}, u)
}

func UserFromContext(ctx context.Context) (UserContext, bool) {
	u, ok := ctx.Value(contextKey{}).(UserContext)
	return u, ok
}

// RequireRole rejects requests whose bearer token does not carry role.
func RequireRole(v *Verifier, role string, log logger.ZapLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				log.Debug("rejected sync request", zap.String("path", r.URL.Path), zap.Error(ErrMissingToken))
				deny(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			claims, err := v.Verify(token)
			if err != nil {
				log.Debug("rejected sync request", zap.String("path", r.URL.Path), zap.Error(err))
				deny(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			if !strings.EqualFold(claims.Role, role) {
				log.Warn("non-admin sync attempt", zap.String("user_id", claims.UserID), zap.String("role", claims.Role))
				deny(w, http.StatusForbidden, ErrForbidden.Error())
				return
			}

			ctx := WithUser(r.Context(), UserContext{UserID: claims.UserID, Email: claims.Email, Role: claims.Role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "bearer "
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return strings.TrimSpace(h[len(prefix):])
	}
	return ""
}

func deny(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": message})
}
