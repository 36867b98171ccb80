// Copyright 2026 The Kestrel Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"regexp"
)

// varPattern matches ${VAR} and ${VAR:-default}.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands variable references in s. Names are looked up in
// the snapshot first, then the environment; unset or empty names take
// the default, or the empty string.
func expandVars(s string, snapshot *Snapshot) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := snapshot.Get(name); ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}
