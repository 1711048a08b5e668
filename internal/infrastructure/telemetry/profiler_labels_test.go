package telemetry_test

import (
	"context"
	"runtime/pprof"
	"strings"
	"testing"

	"github.com/sokohub/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
)

// collectLabels runs fn under WithProfilingLabels and reports the pprof
// labels visible inside the callback.
func collectLabels(t *testing.T, labels map[string]string) map[string]string {
	t.Helper()

	var seen map[string]string
	called := false
	telemetry.WithProfilingLabels(context.Background(), labels, func(ctx context.Context) {
		called = true
		seen = map[string]string{}
		pprof.ForLabels(ctx, func(key, value string) bool {
			seen[key] = value
			return true
		})
	})
	assert.True(t, called, "callback must run")
	return seen
}

func TestWithProfilingLabels(t *testing.T) {
	t.Run("attaches request labels", func(t *testing.T) {
		seen := collectLabels(t, map[string]string{
			telemetry.ProfilingLabelController: "products",
			telemetry.ProfilingLabelRoute:      "/api/v1/products/:slug",
			telemetry.ProfilingLabelMethod:     "GET",
		})

		assert.Equal(t, "products", seen[telemetry.ProfilingLabelController])
		assert.Equal(t, "/api/v1/products/:slug", seen[telemetry.ProfilingLabelRoute])
		assert.Equal(t, "GET", seen[telemetry.ProfilingLabelMethod])
	})

	t.Run("nil and empty maps run the callback unlabeled", func(t *testing.T) {
		assert.Empty(t, collectLabels(t, nil))
		assert.Empty(t, collectLabels(t, map[string]string{}))
	})

	t.Run("drops high cardinality keys", func(t *testing.T) {
		seen := collectLabels(t, map[string]string{
			"controller": "products",
			"user_id":    "usr_8e4f",
			"vendor_id":  "ven_11ab",
			"product_id": "prd_302c",
			"request_id": "req-41",
			"trace_id":   "a1b2",
		})

		assert.Equal(t, map[string]string{"controller": "products"}, seen)
	})

	t.Run("truncates oversized values", func(t *testing.T) {
		long := strings.Repeat("category-", 40)
		seen := collectLabels(t, map[string]string{"route": long})

		assert.Len(t, seen["route"], telemetry.MaxLabelValueLength)
		assert.Equal(t, long[:telemetry.MaxLabelValueLength], seen["route"])
	})

	t.Run("skips empty keys and values", func(t *testing.T) {
		seen := collectLabels(t, map[string]string{
			"":       "orphan",
			"method": "",
			"route":  "/api/v1/categories",
		})

		assert.Equal(t, map[string]string{"route": "/api/v1/categories"}, seen)
	})

	t.Run("normalizes keys to snake_case", func(t *testing.T) {
		seen := collectLabels(t, map[string]string{
			"Vendor Tier":  "premium",
			"http-route":   "/api/v1/products",
			"weird!chars#": "kept",
		})

		assert.Equal(t, "premium", seen["vendor_tier"])
		assert.Equal(t, "/api/v1/products", seen["http_route"])
		assert.Equal(t, "kept", seen["weirdchars"])
	})

	t.Run("caller may reuse the map after the call", func(t *testing.T) {
		labels := map[string]string{"controller": "dashboard"}
		telemetry.WithProfilingLabels(context.Background(), labels, func(ctx context.Context) {})
		labels["controller"] = "reports"

		seen := collectLabels(t, labels)
		assert.Equal(t, "reports", seen["controller"])
	})
}

func TestProfilingLabelKeys(t *testing.T) {
	assert.Equal(t, "controller", telemetry.ProfilingLabelController)
	assert.Equal(t, "route", telemetry.ProfilingLabelRoute)
	assert.Equal(t, "method", telemetry.ProfilingLabelMethod)
}
