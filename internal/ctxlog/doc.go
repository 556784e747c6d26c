// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ctxlog provides a context-aware logger built on log/slog.
//
// The default is a pretty console handler writing to stderr. The level is read once
// from the PALLEL_LOG_LEVEL environment variable (DEBUG, INFO, WARN or ERROR) and
// defaults to WARN, so a normal run prints nothing but the command view.
package ctxlog
