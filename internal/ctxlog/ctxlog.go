// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	logLevelEnvVar  = "PALLEL_LOG_LEVEL"
	logFormatEnvVar = "PALLEL_LOG_FORMAT"
)

type loggerKey struct{}

// LevelVar holds the level shared by every logger built by this package.
var LevelVar = &slog.LevelVar{}

// DefaultLogger is a pretty logger writing to stderr that is used if no logger is provided.
var DefaultLogger = slog.New(NewPrettyHandler(&slog.HandlerOptions{
	Level: LevelVar,
},
	WithAutoColour(),
	WithDestinationWriter(os.Stderr),
))

// JSONLogger writes structured JSON records to stderr.
var JSONLogger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
	Level: LevelVar,
}))

func init() {
	LevelVar.Set(logLevelFromEnv())
}

// New creates a new context with the given logger.
// If logger is nil, it uses the default logger.
func New(ctx context.Context, logger *slog.Logger) context.Context {
	if logger == nil {
		logger = DefaultLogger
	}

	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromEnv returns JSONLogger when PALLEL_LOG_FORMAT is json, otherwise DefaultLogger.
func FromEnv() *slog.Logger {
	if jsonFromEnv() {
		return JSONLogger
	}

	return DefaultLogger
}

// NewBuffered returns a context whose logger writes uncoloured records to w, as JSON when
// PALLEL_LOG_FORMAT is json.
// It is used while the interactive printer owns the terminal; the caller flushes w afterwards.
func NewBuffered(ctx context.Context, w io.Writer) context.Context {
	opts := &slog.HandlerOptions{
		Level: LevelVar,
	}

	if jsonFromEnv() {
		return New(ctx, slog.New(slog.NewJSONHandler(w, opts)))
	}

	return New(ctx, slog.New(NewPrettyHandler(opts, WithDestinationWriter(w))))
}

// Logger returns the logger from the context, or the default logger if not found.
func Logger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(loggerKey{}).(*slog.Logger)
	if !ok || logger == nil {
		return DefaultLogger
	}

	return logger
}

// Info logs an info message with the given context.
func Info(ctx context.Context, msg string, args ...any) {
	Logger(ctx).Info(msg, args...)
}

// Debug logs a debug message with the given context.
func Debug(ctx context.Context, msg string, args ...any) {
	Logger(ctx).Debug(msg, args...)
}

// Warn logs a warning message with the given context.
func Warn(ctx context.Context, msg string, args ...any) {
	Logger(ctx).Warn(msg, args...)
}

// Error logs an error message with the given context.
func Error(ctx context.Context, msg string, args ...any) {
	Logger(ctx).Error(msg, args...)
}

func jsonFromEnv() bool {
	return strings.EqualFold(strings.TrimSpace(os.Getenv(logFormatEnvVar)), "json")
}

func logLevelFromEnv() slog.Level {
	switch strings.ToUpper(os.Getenv(logLevelEnvVar)) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
