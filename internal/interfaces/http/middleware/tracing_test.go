package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace/noop"
)

func newSpanCapture(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	t.Cleanup(func() {
		_ = tp.Shutdown(t.Context())
	})

	return sr
}

// spanNamed returns the first ended span with the given name.
func spanNamed(sr *tracetest.SpanRecorder, name string) (sdktrace.ReadOnlySpan, bool) {
	for _, span := range sr.Ended() {
		if span.Name() == name {
			return span, true
		}
	}
	return nil, false
}

func spanAttrString(span sdktrace.ReadOnlySpan, key string) (string, bool) {
	for _, attr := range span.Attributes() {
		if string(attr.Key) == key {
			return attr.Value.AsString(), true
		}
	}
	return "", false
}

func serveListing(router *gin.Engine, header http.Header) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/products/solar-lamp", nil)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	router.ServeHTTP(w, req)
	return w
}

func TestTracingWithConfig(t *testing.T) {
	cfg := TracingConfig{Enabled: true, ServiceName: "sokohub-test"}

	t.Run("disabled config records nothing", func(t *testing.T) {
		sr := newSpanCapture(t)

		router := gin.New()
		router.Use(TracingWithConfig(TracingConfig{Enabled: false}))
		router.GET("/api/v1/products/:slug", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"slug": c.Param("slug")})
		})

		w := serveListing(router, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, sr.Ended())
	})

	t.Run("span is named after the route pattern", func(t *testing.T) {
		sr := newSpanCapture(t)

		router := gin.New()
		router.Use(TracingWithConfig(cfg))
		router.GET("/api/v1/products/:slug", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"slug": c.Param("slug")})
		})

		w := serveListing(router, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		_, found := spanNamed(sr, "GET /api/v1/products/:slug")
		assert.True(t, found, "expected a span for the product detail route")
	})

	t.Run("request id lands on the span", func(t *testing.T) {
		sr := newSpanCapture(t)

		router := gin.New()
		router.Use(RequestID())
		router.Use(TracingWithConfig(cfg))
		router.Use(TracingAttributeInjector())
		router.GET("/api/v1/products/:slug", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"slug": c.Param("slug")})
		})

		serveListing(router, http.Header{"X-Request-ID": []string{"req-trace-77"}})

		span, found := spanNamed(sr, "GET /api/v1/products/:slug")
		require.True(t, found)
		got, ok := spanAttrString(span, "request_id")
		require.True(t, ok, "request_id attribute missing")
		assert.Equal(t, "req-trace-77", got)
	})

	t.Run("authenticated user id lands on the span", func(t *testing.T) {
		sr := newSpanCapture(t)

		router := gin.New()
		router.Use(TracingWithConfig(cfg))
		router.Use(func(c *gin.Context) {
			c.Set(JWTUserIDKey, "usr_9f21")
			c.Next()
		})
		router.Use(TracingAttributeInjector())
		router.GET("/api/v1/products/:slug", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"slug": c.Param("slug")})
		})

		serveListing(router, nil)

		span, found := spanNamed(sr, "GET /api/v1/products/:slug")
		require.True(t, found)
		got, ok := spanAttrString(span, "user_id")
		require.True(t, ok, "user_id attribute missing")
		assert.Equal(t, "usr_9f21", got)
	})

	t.Run("default constructor traces with the service name", func(t *testing.T) {
		sr := newSpanCapture(t)

		router := gin.New()
		router.Use(Tracing())
		router.GET("/api/v1/products/:slug", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"slug": c.Param("slug")})
		})

		w := serveListing(router, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, sr.Ended())
	})
}

func TestSpanErrorMarker(t *testing.T) {
	cfg := TracingConfig{Enabled: true, ServiceName: "sokohub-test"}

	statuses := []struct {
		status      int
		description string
	}{
		{http.StatusNotFound, "Not Found"},
		{http.StatusUnauthorized, "Unauthorized"},
		{http.StatusForbidden, "Forbidden"},
		{http.StatusBadRequest, "Client Error"},
	}

	for _, tt := range statuses {
		t.Run(tt.description, func(t *testing.T) {
			sr := newSpanCapture(t)

			router := gin.New()
			router.Use(TracingWithConfig(cfg))
			router.Use(SpanErrorMarker())
			router.GET("/api/v1/products/:slug", func(c *gin.Context) {
				c.JSON(tt.status, gin.H{"success": false})
			})

			w := serveListing(router, nil)
			assert.Equal(t, tt.status, w.Code)

			span, found := spanNamed(sr, "GET /api/v1/products/:slug")
			require.True(t, found)
			assert.Equal(t, codes.Error, span.Status().Code)
			assert.Equal(t, tt.description, span.Status().Description)
		})
	}

	t.Run("5xx is marked as error", func(t *testing.T) {
		sr := newSpanCapture(t)

		router := gin.New()
		router.Use(TracingWithConfig(cfg))
		router.Use(SpanErrorMarker())
		router.GET("/api/v1/products/:slug", func(c *gin.Context) {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false})
		})

		serveListing(router, nil)

		// otelgin may set its own description for 5xx, the code is what matters.
		span, found := spanNamed(sr, "GET /api/v1/products/:slug")
		require.True(t, found)
		assert.Equal(t, codes.Error, span.Status().Code)
	})

	t.Run("success responses stay unmarked", func(t *testing.T) {
		sr := newSpanCapture(t)

		router := gin.New()
		router.Use(TracingWithConfig(cfg))
		router.Use(SpanErrorMarker())
		router.GET("/api/v1/products/:slug", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true})
		})

		serveListing(router, nil)

		span, found := spanNamed(sr, "GET /api/v1/products/:slug")
		require.True(t, found)
		assert.NotEqual(t, codes.Error, span.Status().Code)
	})

	t.Run("survives a no-op tracer provider", func(t *testing.T) {
		otel.SetTracerProvider(noop.NewTracerProvider())

		router := gin.New()
		router.Use(SpanErrorMarker())
		router.GET("/api/v1/products/:slug", func(c *gin.Context) {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false})
		})

		w := serveListing(router, nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestTracingAttributeInjectorWithoutSpan(t *testing.T) {
	router := gin.New()
	router.Use(TracingAttributeInjector())
	router.GET("/api/v1/products/:slug", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	w := serveListing(router, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestIDResolution(t *testing.T) {
	t.Run("context value wins over the header", func(t *testing.T) {
		router := gin.New()
		router.Use(func(c *gin.Context) {
			c.Set("request_id", "req-from-context")
			c.Next()
		})
		router.GET("/api/v1/products/:slug", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"request_id": getRequestID(c)})
		})

		w := serveListing(router, http.Header{"X-Request-ID": []string{"req-from-header"}})
		assert.Contains(t, w.Body.String(), "req-from-context")
	})

	t.Run("header is the fallback", func(t *testing.T) {
		router := gin.New()
		router.GET("/api/v1/products/:slug", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"request_id": getRequestID(c)})
		})

		w := serveListing(router, http.Header{"X-Request-ID": []string{"req-from-header"}})
		assert.Contains(t, w.Body.String(), "req-from-header")
	})

	t.Run("oversized header ids are truncated", func(t *testing.T) {
		router := gin.New()
		router.GET("/api/v1/products/:slug", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"length": len(getRequestID(c))})
		})

		w := serveListing(router, http.Header{
			"X-Request-ID": []string{strings.Repeat("x", 300)},
		})
		assert.Contains(t, w.Body.String(), `"length":128`)
	})
}

func TestUserIDResolution(t *testing.T) {
	t.Run("reads the verified JWT subject", func(t *testing.T) {
		router := gin.New()
		router.Use(func(c *gin.Context) {
			c.Set(JWTUserIDKey, "usr_3b7d")
			c.Next()
		})
		router.GET("/api/v1/products/:slug", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"user_id": getUserID(c)})
		})

		w := serveListing(router, nil)
		assert.Contains(t, w.Body.String(), "usr_3b7d")
	})

	t.Run("anonymous requests resolve to empty", func(t *testing.T) {
		router := gin.New()
		router.GET("/api/v1/products/:slug", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"user_id": getUserID(c)})
		})

		w := serveListing(router, nil)
		assert.Contains(t, w.Body.String(), `"user_id":""`)
	})
}

func TestDefaultTracingConfig(t *testing.T) {
	cfg := DefaultTracingConfig()

	assert.Equal(t, "sokohub-backend", cfg.ServiceName)
	assert.True(t, cfg.Enabled)
}
