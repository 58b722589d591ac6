package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitcollab/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestAuth(t *testing.T) *AuthMiddleware {
	t.Helper()
	am, err := NewAuthMiddleware(&config.AuthConfig{JWTSecret: "test-secret", TokenTTL: time.Hour})
	require.NoError(t, err)
	return am
}

func protectedRouter(am *AuthMiddleware) *gin.Engine {
	r := gin.New()
	r.GET("/me", am.RequireAuth(), func(c *gin.Context) {
		user, _ := CurrentUser(c)
		c.JSON(http.StatusOK, user)
	})
	r.GET("/maybe", am.OptionalAuth(), func(c *gin.Context) {
		_, ok := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"authenticated": ok})
	})
	return r
}

func TestNewAuthMiddleware_RequiresSecret(t *testing.T) {
	_, err := NewAuthMiddleware(&config.AuthConfig{})
	assert.Error(t, err)
}

func TestRequireAuth(t *testing.T) {
	am := newTestAuth(t)
	good, _, err := am.IssueToken("user-1", "alice")
	require.NoError(t, err)

	other, err := NewAuthMiddleware(&config.AuthConfig{JWTSecret: "other-secret"})
	require.NoError(t, err)
	forged, _, err := other.IssueToken("user-1", "alice")
	require.NoError(t, err)

	expiredAuth := newTestAuth(t)
	expiredAuth.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, err := expiredAuth.IssueToken("user-1", "alice")
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "user-1", "iss": tokenIssuer}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"valid", "Bearer " + good, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Token " + good, http.StatusUnauthorized},
		{"wrong secret", "Bearer " + forged, http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"alg none", "Bearer " + none, http.StatusUnauthorized},
	}

	router := protectedRouter(am)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.JSONEq(t, `{"id":"user-1","username":"alice"}`, w.Body.String())
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	am := newTestAuth(t)
	token, _, err := am.IssueToken("user-1", "alice")
	require.NoError(t, err)
	router := protectedRouter(am)

	for header, want := range map[string]string{
		"":                `{"authenticated":false}`,
		"Bearer garbage":  `{"authenticated":false}`,
		"Bearer " + token: `{"authenticated":true}`,
	} {
		req := httptest.NewRequest(http.MethodGet, "/maybe", nil)
		req.Header.Set("Authorization", header)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, want, w.Body.String())
	}
}
