package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/sokohub/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func disabledTracingConfig() telemetry.Config {
	return telemetry.Config{
		Enabled:           false,
		CollectorEndpoint: "localhost:14317",
		SamplingRatio:     1.0,
		ServiceName:       "sokohub-test",
	}
}

func TestNewTracerProvider(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled config yields a no-op provider", func(t *testing.T) {
		tp, err := telemetry.NewTracerProvider(ctx, disabledTracingConfig(), zaptest.NewLogger(t))
		require.NoError(t, err)
		require.NotNil(t, tp)

		assert.False(t, tp.IsEnabled())
		assert.Equal(t, "sokohub-test", tp.GetConfig().ServiceName)
		assert.NoError(t, tp.Shutdown(ctx))
	})

	t.Run("sampling ratio does not affect construction when disabled", func(t *testing.T) {
		for _, ratio := range []float64{0.0, 0.5, 1.0} {
			cfg := disabledTracingConfig()
			cfg.SamplingRatio = ratio

			tp, err := telemetry.NewTracerProvider(ctx, cfg, zaptest.NewLogger(t))
			require.NoError(t, err)
			assert.False(t, tp.IsEnabled())
			assert.NoError(t, tp.Shutdown(ctx))
		}
	})

	t.Run("enabled provider exports through a live collector", func(t *testing.T) {
		if testing.Short() {
			t.Skip("needs an OTLP collector on localhost:14317")
		}

		cfg := disabledTracingConfig()
		cfg.Enabled = true

		tp, err := telemetry.NewTracerProvider(ctx, cfg, zaptest.NewLogger(t))
		require.NoError(t, err)
		assert.True(t, tp.IsEnabled())

		_, span := tp.Tracer("catalog").Start(ctx, "product.reveal")
		span.End()

		assert.NoError(t, tp.ForceFlush(ctx))
		assert.NoError(t, tp.Shutdown(ctx))
	})
}

func TestTracerProviderDisabledBehavior(t *testing.T) {
	ctx := context.Background()

	tp, err := telemetry.NewTracerProvider(ctx, disabledTracingConfig(), zaptest.NewLogger(t))
	require.NoError(t, err)

	t.Run("tracers still hand out usable spans", func(t *testing.T) {
		tracer := tp.Tracer("catalog")
		require.NotNil(t, tracer)

		_, span := tracer.Start(ctx, "product.list")
		span.End()
	})

	t.Run("force flush is a no-op", func(t *testing.T) {
		assert.NoError(t, tp.ForceFlush(ctx))
	})

	t.Run("shutdown survives a cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		assert.NoError(t, tp.Shutdown(cancelled))
	})
}

func TestTracerProviderSpanProfiles(t *testing.T) {
	ctx := context.Background()

	t.Run("stays off while tracing is disabled", func(t *testing.T) {
		tp, err := telemetry.NewTracerProvider(ctx, disabledTracingConfig(), zaptest.NewLogger(t))
		require.NoError(t, err)

		assert.False(t, tp.IsSpanProfilesEnabled())
		assert.NoError(t, tp.EnableSpanProfiles())
		assert.False(t, tp.IsSpanProfilesEnabled())
		assert.NoError(t, tp.Shutdown(ctx))
	})

	t.Run("enable is safe under concurrent callers", func(t *testing.T) {
		tp, err := telemetry.NewTracerProvider(ctx, disabledTracingConfig(), zaptest.NewLogger(t))
		require.NoError(t, err)
		defer func() { _ = tp.Shutdown(ctx) }()

		done := make(chan struct{})
		for i := 0; i < 10; i++ {
			go func() {
				defer func() { done <- struct{}{} }()
				_ = tp.EnableSpanProfiles()
				_ = tp.IsSpanProfilesEnabled()
			}()
		}
		for i := 0; i < 10; i++ {
			<-done
		}

		assert.False(t, tp.IsSpanProfilesEnabled())
	})

	t.Run("enable is idempotent against a live collector", func(t *testing.T) {
		if testing.Short() {
			t.Skip("needs an OTLP collector on localhost:14317")
		}

		cfg := disabledTracingConfig()
		cfg.Enabled = true
		cfg.ServiceName = "sokohub-span-profiles"

		tp, err := telemetry.NewTracerProvider(ctx, cfg, zaptest.NewLogger(t))
		require.NoError(t, err)
		defer func() { _ = tp.Shutdown(ctx) }()

		require.NoError(t, tp.EnableSpanProfiles())
		assert.True(t, tp.IsSpanProfilesEnabled())

		require.NoError(t, tp.EnableSpanProfiles())
		assert.True(t, tp.IsSpanProfilesEnabled())

		_, span := tp.Tracer("catalog").Start(ctx, "product.detail")
		time.Sleep(15 * time.Millisecond)
		span.End()

		assert.NoError(t, tp.ForceFlush(ctx))
	})
}
