// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package api

import "errors"

var (
	// ErrInvalidAddress is returned when the listening address is invalid
	ErrInvalidAddress = errors.New("invalid listening address")
	// ErrServe is returned when the server could not be started
	ErrServe = errors.New("failed to serve api")
)
