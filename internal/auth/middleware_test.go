package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fekuna/omnipos-catalog-sync/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireRole(t *testing.T) {
	v, err := NewVerifier("test-secret")
	require.NoError(t, err)

	admin, err := v.Sign("u-1", "ADMIN", time.Hour)
	require.NoError(t, err)
	customer, err := v.Sign("u-2", "CUSTOMER", time.Hour)
	require.NoError(t, err)
	expired, err := v.Sign("u-1", "ADMIN", -time.Minute)
	require.NoError(t, err)

	other, err := NewVerifier("other-secret")
	require.NoError(t, err)
	forged, err := other.Sign("u-1", "ADMIN", time.Hour)
	require.NoError(t, err)

	var seen UserContext
	h := RequireRole(v, "ADMIN", logger.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"admin", "Bearer " + admin, http.StatusNoContent},
		{"lower-case scheme", "bearer " + admin, http.StatusNoContent},
		{"customer", "Bearer " + customer, http.StatusForbidden},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"wrong secret", "Bearer " + forged, http.StatusUnauthorized},
		{"missing", "", http.StatusUnauthorized},
		{"basic auth", "Basic dXNlcjpwYXNz", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/sync/categories", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	assert.Equal(t, "u-1", seen.UserID)
}

func TestNewVerifierRequiresSecret(t *testing.T) {
	_, err := NewVerifier("")
	assert.Error(t, err)
}
