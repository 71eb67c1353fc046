// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package geo enriches hop addresses with IP2Location geolocation records.
package geo
