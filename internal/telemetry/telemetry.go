// Package telemetry installs the OpenTelemetry tracer provider that the
// engine's spans are exported through.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/IlumCI/HACF/internal/config"
)

// ServiceName identifies HACF in exported spans.
const ServiceName = "hacf"

// Shutdown flushes pending spans and releases the exporter.
type Shutdown func(context.Context) error

func noop(context.Context) error { return nil }

// Init installs a global tracer provider exporting spans as JSON to
// cfg.File, or stderr when File is empty. A disabled config installs
// nothing and returns a no-op Shutdown.
func Init(ctx context.Context, cfg config.TracingConfig, version string) (Shutdown, error) {
	if ctx == nil {
		return nil, errors.New("telemetry: nil context")
	}
	if !cfg.Enabled {
		return noop, nil
	}

	var (
		w         io.Writer = os.Stderr
		closeFile           = noop
	)
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o700); err != nil {
			return nil, fmt.Errorf("telemetry: create trace dir: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, fmt.Errorf("telemetry: open trace file: %w", err)
		}
		w = f
		closeFile = func(context.Context) error { return f.Close() }
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		_ = closeFile(ctx)
		return nil, fmt.Errorf("telemetry: create exporter: %w", err)
	}

	res := resource.NewWithAttributes(
		"",
		attribute.String("service.name", ServiceName),
		attribute.String("service.version", version),
	)
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)

	return func(ctx context.Context) error {
		return errors.Join(tp.Shutdown(ctx), closeFile(ctx))
	}, nil
}
