// Package observability provides structured logging, metrics and tracing
// for condfmt compilation and rendering.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds render context to a logger.
// Returns a new logger with the render_id field.
//
// Example:
//
//	enriched := EnrichLogger(logger, "render-123")
//	enriched.Info("resolving") // includes render_id
func EnrichLogger(logger *slog.Logger, renderID string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(slog.String("render_id", renderID))
}

// LogConstructorReady logs creation of a constructor.
func LogConstructorReady(logger *slog.Logger, names, formatCodes, specifierCodes int) {
	if logger == nil {
		return
	}
	logger.Debug("constructor ready",
		slog.Int("placeholders", names),
		slog.Int("format_codes", formatCodes),
		slog.Int("specifier_codes", specifierCodes),
	)
}

// LogCompileComplete logs a successful template compilation.
func LogCompileComplete(logger *slog.Logger, sourceLen, tokens int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("template compiled",
		slog.Int("source_len", sourceLen),
		slog.Int("tokens", tokens),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogCompileError logs a failed template compilation.
func LogCompileError(logger *slog.Logger, sourceLen int, err error) {
	if logger == nil {
		return
	}
	logger.Warn("template compile failed",
		slog.Int("source_len", sourceLen),
		slog.String("error", err.Error()),
	)
}

// LogEarlyCode logs invocation of a compile-time format code.
func LogEarlyCode(logger *slog.Logger, code string, inGroup bool) {
	if logger == nil {
		return
	}
	logger.Debug("early format code invoked",
		slog.String("code", code),
		slog.Bool("in_group", inGroup),
	)
}

// LogRenderStart logs the start of a render call.
func LogRenderStart(logger *slog.Logger, renderID string) {
	if logger == nil {
		return
	}
	logger.Debug("render starting",
		slog.String("render_id", renderID),
	)
}

// LogRenderComplete logs a successful render.
func LogRenderComplete(logger *slog.Logger, renderID string, durationMs float64, outputLen int) {
	if logger == nil {
		return
	}
	logger.Debug("render completed",
		slog.String("render_id", renderID),
		slog.Float64("duration_ms", durationMs),
		slog.Int("output_len", outputLen),
	)
}

// LogRenderError logs a failed render.
func LogRenderError(logger *slog.Logger, renderID string, err error, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Error("render failed",
		slog.String("render_id", renderID),
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", durationMs),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	elapsed := done()
func TimedOperation() func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}

// Millis converts a duration to fractional milliseconds for log fields.
func Millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
