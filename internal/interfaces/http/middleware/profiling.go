package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sokohub/backend/internal/infrastructure/telemetry"
)

// ProfilingConfig controls which requests get Pyroscope labels attached.
type ProfilingConfig struct {
	Enabled bool
	// SkipPaths are matched exactly, SkipPathPrefixes by prefix.
	SkipPaths        []string
	SkipPathPrefixes []string
}

// DefaultProfilingConfig skips health checks and the docs endpoints.
func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		Enabled: true,
		SkipPaths: []string{
			"/health",
			"/healthz",
			"/ready",
			"/metrics",
		},
		SkipPathPrefixes: []string{
			"/swagger",
			"/api-docs",
		},
	}
}

// Profiling returns the profiling middleware with the default configuration.
func Profiling() gin.HandlerFunc {
	return ProfilingWithConfig(DefaultProfilingConfig())
}

// ProfilingWithConfig attaches controller, route, and method labels to the
// request's profiling context. The labels use gin's route pattern rather than
// the raw path, so "/api/v1/products/solar-lamp" profiles under
// "/api/v1/products/:slug" and cardinality stays bounded.
func ProfilingWithConfig(cfg ProfilingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if path == skip {
				c.Next()
				return
			}
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		labels := requestProfileLabels(c)
		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

func requestProfileLabels(c *gin.Context) map[string]string {
	labels := make(map[string]string, 3)

	if method := c.Request.Method; method != "" {
		labels[telemetry.ProfilingLabelMethod] = method
	}

	route := c.FullPath()
	if route != "" {
		labels[telemetry.ProfilingLabelRoute] = route
	}

	if resource := resourceFromRoute(route); resource != "" {
		labels[telemetry.ProfilingLabelController] = resource
	}

	return labels
}

// resourceFromRoute picks the resource segment out of a route pattern, so
// "/api/v1/products/:slug/reveal-contact" labels as "products".
func resourceFromRoute(route string) string {
	if route == "" {
		return ""
	}

	for _, part := range strings.Split(route, "/") {
		if part == "" || part == "api" || isAPIVersion(part) {
			continue
		}
		if strings.HasPrefix(part, ":") || strings.HasPrefix(part, "{") {
			continue
		}
		return part
	}

	return ""
}

// isAPIVersion reports whether a path segment looks like "v1", "v2", etc.
func isAPIVersion(segment string) bool {
	if len(segment) < 2 {
		return false
	}
	if segment[0] != 'v' && segment[0] != 'V' {
		return false
	}
	for i := 1; i < len(segment); i++ {
		if segment[i] < '0' || segment[i] > '9' {
			return false
		}
	}
	return true
}
