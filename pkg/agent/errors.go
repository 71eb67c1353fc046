// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package agent

import (
	"errors"
	"fmt"
)

// ErrFinalShutdown is returned by [Agent.Run] once all components are stopped
var ErrFinalShutdown = errors.New("agent was shut down")

// ErrShutdown holds any errors that may
// have occurred during shutdown of the agent
type ErrShutdown struct {
	errAPI     error
	errMetrics error
}

// HasError returns true if any of the errors are set
func (e ErrShutdown) HasError() bool {
	return e.errAPI != nil || e.errMetrics != nil
}

func (e ErrShutdown) Error() string {
	return fmt.Sprintf("shutdown failed: api: %v, metrics: %v", e.errAPI, e.errMetrics)
}

func (e ErrShutdown) Unwrap() []error {
	return []error{e.errAPI, e.errMetrics}
}
