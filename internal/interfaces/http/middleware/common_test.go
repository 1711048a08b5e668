package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCORSRouter(cfg CORSConfig) *gin.Engine {
	router := gin.New()
	router.Use(CORSWithConfig(cfg))
	router.GET("/api/v1/products", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return router
}

func TestRequestID(t *testing.T) {
	t.Run("generates an id when the caller sends none", func(t *testing.T) {
		router := gin.New()
		router.Use(RequestID())
		router.GET("/health", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		id := w.Header().Get("X-Request-ID")
		require.NotEmpty(t, id)
		assert.Len(t, id, 32)
	})

	t.Run("echoes the caller's id", func(t *testing.T) {
		router := gin.New()
		router.Use(RequestID())
		var seen string
		router.GET("/health", func(c *gin.Context) {
			seen = c.GetString("request_id")
			c.Status(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("X-Request-ID", "soko-trace-42")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "soko-trace-42", w.Header().Get("X-Request-ID"))
		assert.Equal(t, "soko-trace-42", seen)
	})
}

func TestCORSWithConfig(t *testing.T) {
	t.Run("whitelisted frontend origin is allowed with credentials", func(t *testing.T) {
		router := newCORSRouter(CORSConfig{
			AllowOrigins:     []string{"https://soko.example.com"},
			AllowMethods:     []string{"GET", "POST"},
			AllowHeaders:     []string{"Authorization"},
			AllowCredentials: true,
		})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
		req.Header.Set("Origin", "https://soko.example.com")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "https://soko.example.com", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("unknown origin gets no CORS headers", func(t *testing.T) {
		router := newCORSRouter(CORSConfig{
			AllowOrigins: []string{"https://soko.example.com"},
		})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("default config rejects cross-origin until configured", func(t *testing.T) {
		router := newCORSRouter(DefaultCORSConfig())

		req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
		req.Header.Set("Origin", "https://soko.example.com")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("wildcard allows any origin without credentials", func(t *testing.T) {
		router := newCORSRouter(CORSConfig{
			AllowOrigins:     []string{"*"},
			AllowCredentials: true,
		})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
		req.Header.Set("Origin", "https://anywhere.example.com")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("preflight answers 204 even for unknown origins", func(t *testing.T) {
		router := newCORSRouter(CORSConfig{
			AllowOrigins: []string{"https://soko.example.com"},
		})

		req := httptest.NewRequest(http.MethodOptions, "/api/v1/products", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight for an allowed origin carries the full header set", func(t *testing.T) {
		router := newCORSRouter(CORSConfig{
			AllowOrigins:  []string{"https://soko.example.com"},
			AllowMethods:  []string{"GET", "POST", "PUT"},
			AllowHeaders:  []string{"Content-Type", "Authorization"},
			ExposeHeaders: []string{"X-Request-ID"},
			MaxAge:        time.Hour,
		})

		req := httptest.NewRequest(http.MethodOptions, "/api/v1/products", nil)
		req.Header.Set("Origin", "https://soko.example.com")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "https://soko.example.com", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "GET, POST, PUT", w.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "Content-Type, Authorization", w.Header().Get("Access-Control-Allow-Headers"))
		assert.Equal(t, "X-Request-ID", w.Header().Get("Access-Control-Expose-Headers"))
		assert.Equal(t, "3600", w.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("same-origin request without Origin header passes untouched", func(t *testing.T) {
		router := newCORSRouter(CORSConfig{
			AllowOrigins: []string{"https://soko.example.com"},
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestSecureWithConfig(t *testing.T) {
	newSecureRouter := func(cfg SecurityConfig) *gin.Engine {
		router := gin.New()
		router.Use(SecureWithConfig(cfg))
		router.GET("/health", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		return router
	}

	t.Run("baseline headers are always present", func(t *testing.T) {
		router := newSecureRouter(DefaultSecurityConfig())

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, "strict-origin-when-cross-origin", w.Header().Get("Referrer-Policy"))
		assert.Contains(t, w.Header().Get("Content-Security-Policy"), "default-src 'self'")
		assert.NotEmpty(t, w.Header().Get("Permissions-Policy"))
	})

	t.Run("HSTS stays off by default", func(t *testing.T) {
		router := newSecureRouter(DefaultSecurityConfig())

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
	})

	t.Run("HSTS value reflects subdomain and preload flags", func(t *testing.T) {
		cfg := DefaultSecurityConfig()
		cfg.HSTSEnabled = true
		cfg.HSTSMaxAge = 600
		cfg.HSTSPreload = true
		router := newSecureRouter(cfg)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, "max-age=600; includeSubDomains; preload", w.Header().Get("Strict-Transport-Security"))
	})

	t.Run("CSP can be switched off", func(t *testing.T) {
		cfg := DefaultSecurityConfig()
		cfg.CSPEnabled = false
		router := newSecureRouter(cfg)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Empty(t, w.Header().Get("Content-Security-Policy"))
	})
}
