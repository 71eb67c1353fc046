// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package config

import "errors"

var (
	// ErrInvalidName is returned when the instance name is invalid
	ErrInvalidName = errors.New("invalid instance name")
	// ErrInvalidTrace is returned when the traceroute options are invalid
	ErrInvalidTrace = errors.New("invalid traceroute options")
	// ErrInvalidGeo is returned when the geolocation configuration is invalid
	ErrInvalidGeo = errors.New("invalid geolocation configuration")
	// ErrInvalidDNS is returned when the reverse lookup configuration is invalid
	ErrInvalidDNS = errors.New("invalid dns configuration")
	// ErrInvalidLoaderInterval is returned when the loader interval is invalid
	ErrInvalidLoaderInterval = errors.New("invalid loader interval")
	// ErrInvalidLoaderFilePath is returned when the loader file path is invalid
	ErrInvalidLoaderFilePath = errors.New("invalid loader file path")
	// ErrInvalidLoaderHttpURL is returned when the loader http url is invalid
	ErrInvalidLoaderHttpURL = errors.New("invalid loader http url")
	// ErrInvalidLoaderHttpRetryCount is returned when the loader http retry count is invalid
	ErrInvalidLoaderHttpRetryCount = errors.New("invalid loader http retry count")
	// ErrAmbiguousLoader is returned when the targets should be loaded from a file and a url
	ErrAmbiguousLoader = errors.New("the targets can either be loaded from a file or from a url")
)
