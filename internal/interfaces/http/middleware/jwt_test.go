package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sokohub/backend/internal/domain/identity"
	"github.com/sokohub/backend/internal/infrastructure/auth"
	"github.com/sokohub/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-access-secret-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-at-least-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "sokohub-test",
	})
}

func issueTestToken(t *testing.T, svc *auth.JWTService, role identity.Role) (uuid.UUID, string) {
	t.Helper()
	userID := uuid.New()
	pair, err := svc.GenerateTokenPair(auth.GenerateTokenInput{
		UserID: userID,
		Email:  "amina@example.com",
		Role:   role,
	})
	require.NoError(t, err)
	return userID, pair.AccessToken
}

func newProtectedRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(mw)
	router.GET("/api/v1/profile", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": GetJWTUserID(c),
			"role":    string(GetJWTRole(c)),
		})
	})
	router.GET("/api/v1/auth/login", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

func TestJWTAuthMiddleware(t *testing.T) {
	jwtService := newTestJWTService()

	t.Run("lets a valid token through and sets claims", func(t *testing.T) {
		router := newProtectedRouter(JWTAuthMiddleware(jwtService))

		userID, token := issueTestToken(t, jwtService, identity.RoleVendor)

		req := httptest.NewRequest("GET", "/api/v1/profile", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), userID.String())
		assert.Contains(t, w.Body.String(), `"role":"vendor"`)
	})

	t.Run("rejects a missing header", func(t *testing.T) {
		router := newProtectedRouter(JWTAuthMiddleware(jwtService))

		req := httptest.NewRequest("GET", "/api/v1/profile", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), `"success":false`)
	})

	t.Run("rejects a garbage token", func(t *testing.T) {
		router := newProtectedRouter(JWTAuthMiddleware(jwtService))

		req := httptest.NewRequest("GET", "/api/v1/profile", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+"not-a-token")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_TOKEN_INVALID")
	})

	t.Run("rejects a refresh token on access endpoints", func(t *testing.T) {
		router := newProtectedRouter(JWTAuthMiddleware(jwtService))

		pair, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{
			UserID: uuid.New(),
			Email:  "amina@example.com",
			Role:   identity.RoleCustomer,
		})
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/api/v1/profile", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+pair.RefreshToken)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("skips configured paths", func(t *testing.T) {
		router := newProtectedRouter(JWTAuthMiddleware(jwtService))

		req := httptest.NewRequest("GET", "/api/v1/auth/login", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects a blacklisted token", func(t *testing.T) {
		blacklist := auth.NewInMemoryTokenBlacklist()
		cfg := DefaultJWTConfig(jwtService)
		cfg.TokenBlacklist = blacklist
		router := newProtectedRouter(JWTAuthMiddlewareWithConfig(cfg))

		_, token := issueTestToken(t, jwtService, identity.RoleCustomer)

		claims, err := jwtService.ValidateAccessToken(token)
		require.NoError(t, err)
		require.NoError(t, blacklist.AddToBlacklist(t.Context(), claims.ID, time.Minute))

		req := httptest.NewRequest("GET", "/api/v1/profile", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "revoked")
	})

	t.Run("rejects tokens issued before a global invalidation", func(t *testing.T) {
		blacklist := auth.NewInMemoryTokenBlacklist()
		cfg := DefaultJWTConfig(jwtService)
		cfg.TokenBlacklist = blacklist
		router := newProtectedRouter(JWTAuthMiddlewareWithConfig(cfg))

		userID, token := issueTestToken(t, jwtService, identity.RoleCustomer)

		// Password change invalidates everything issued so far
		time.Sleep(10 * time.Millisecond)
		require.NoError(t, blacklist.AddUserTokensToBlacklist(t.Context(), userID.String(), time.Minute))

		req := httptest.NewRequest("GET", "/api/v1/profile", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestOptionalJWTAuthMiddleware(t *testing.T) {
	jwtService := newTestJWTService()
	gin.SetMode(gin.TestMode)

	newRouter := func() *gin.Engine {
		router := gin.New()
		router.Use(OptionalJWTAuthMiddleware(jwtService))
		router.GET("/products/:slug", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"user_id": GetJWTUserID(c)})
		})
		return router
	}

	t.Run("anonymous requests pass through", func(t *testing.T) {
		router := newRouter()

		req := httptest.NewRequest("GET", "/products/solar-lamp", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"user_id":""`)
	})

	t.Run("valid tokens populate claims", func(t *testing.T) {
		router := newRouter()

		userID, token := issueTestToken(t, jwtService, identity.RoleVendor)

		req := httptest.NewRequest("GET", "/products/solar-lamp", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), userID.String())
	})

	t.Run("invalid tokens are ignored", func(t *testing.T) {
		router := newRouter()

		req := httptest.NewRequest("GET", "/products/solar-lamp", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+"broken")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"user_id":""`)
	})
}

func TestRequireRole(t *testing.T) {
	jwtService := newTestJWTService()
	gin.SetMode(gin.TestMode)

	newAdminRouter := func() *gin.Engine {
		router := gin.New()
		router.Use(JWTAuthMiddleware(jwtService))
		admin := router.Group("/admin", RequireAdmin())
		admin.GET("/dashboard", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})
		return router
	}

	t.Run("admin passes", func(t *testing.T) {
		router := newAdminRouter()
		_, token := issueTestToken(t, jwtService, identity.RoleAdmin)

		req := httptest.NewRequest("GET", "/admin/dashboard", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("vendor is rejected with 403", func(t *testing.T) {
		router := newAdminRouter()
		_, token := issueTestToken(t, jwtService, identity.RoleVendor)

		req := httptest.NewRequest("GET", "/admin/dashboard", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_FORBIDDEN")
	})

	t.Run("missing claims yield 401", func(t *testing.T) {
		router := gin.New()
		router.GET("/admin/dashboard", RequireAdmin(), func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})

		req := httptest.NewRequest("GET", "/admin/dashboard", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("vendor endpoints admit admins", func(t *testing.T) {
		router := gin.New()
		router.Use(JWTAuthMiddleware(jwtService))
		router.POST("/products", RequireVendor(), func(c *gin.Context) {
			c.String(http.StatusCreated, "ok")
		})

		_, token := issueTestToken(t, jwtService, identity.RoleAdmin)

		req := httptest.NewRequest("POST", "/products", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})
}
