// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package version provides build-time version information.
package version

import (
	"fmt"
	"runtime/debug"
)

// Placeholders used when ldflags did not inject a value.
const (
	DevVersion = "dev"
	Unknown    = "unknown"
)

// Info contains build-time version information injected via ldflags.
type Info struct {
	Version   string // Semantic version from git tags (e.g., "v1.2.3")
	GitCommit string // Short git commit hash (e.g., "abc1234")
	BuildTime string // Build timestamp in RFC3339 format
}

// String formats the info as printed by the version command.
func (i Info) String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", i.Version, i.GitCommit, i.BuildTime)
}

// WithBuildInfo fills placeholder fields from the VCS stamp the Go toolchain
// embeds in the binary.
func (i Info) WithBuildInfo() Info {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return i
	}
	return i.withSettings(bi.Settings)
}

func (i Info) withSettings(settings []debug.BuildSetting) Info {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if isPlaceholder(i.GitCommit) && s.Value != "" {
				i.GitCommit = s.Value
				if len(i.GitCommit) > 7 {
					i.GitCommit = i.GitCommit[:7]
				}
			}
		case "vcs.time":
			if isPlaceholder(i.BuildTime) && s.Value != "" {
				i.BuildTime = s.Value
			}
		}
	}
	return i
}

func isPlaceholder(s string) bool {
	return s == "" || s == Unknown
}
