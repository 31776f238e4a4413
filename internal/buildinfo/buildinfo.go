// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package buildinfo holds the ldflags-settable version metadata for
// cmd/drbgctl.
package buildinfo

import (
	"strings"

	"github.com/blang/semver/v4"
)

// Prefix is the leading character stripped from version before parsing
// it as a semantic version.
const Prefix = "v"

// version and commit are set at build time via:
//
//	-ldflags="-X github.com/sixafter/drbg/internal/buildinfo.version=vX.Y.Z \
//	           -X github.com/sixafter/drbg/internal/buildinfo.commit=<sha>"
var (
	version = "v0.0.0-unset"
	commit  = ""
)

// Version returns the build version string.
func Version() string { return version }

// Commit returns the git commit id the binary was built from.
func Commit() string { return commit }

// Semver parses Version as a semantic version, stripping the leading
// "v" if present.
func Semver() (semver.Version, error) {
	return semver.Make(strings.TrimPrefix(version, Prefix))
}
