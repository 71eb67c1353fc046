// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package pkg contains metadata about geotrace.
package pkg

// Version is the current version of geotrace.
// It is set from main at startup, see main.version.
var Version string
