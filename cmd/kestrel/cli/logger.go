// Copyright 2026 The Kestrel Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// DebugEnvironment enables debug-level logging when set non-empty.
const DebugEnvironment = "KESTREL_DEBUG"

// NewCommandLogger creates the structured logger for command output on
// stderr. A terminal gets slog.TextHandler; pipes and files get
// slog.JSONHandler so init scripts and log collectors can parse it.
func NewCommandLogger() *slog.Logger {
	return NewLogger(os.Stderr, os.Getenv(DebugEnvironment) != "")
}

// NewLogger is NewCommandLogger over an arbitrary writer. The text
// handler is chosen only when w is a terminal file.
func NewLogger(w io.Writer, debug bool) *slog.Logger {
	options := &slog.HandlerOptions{Level: slog.LevelInfo}
	if debug {
		options.Level = slog.LevelDebug
	}
	if file, ok := w.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		return slog.New(slog.NewTextHandler(w, options))
	}
	return slog.New(slog.NewJSONHandler(w, options))
}
