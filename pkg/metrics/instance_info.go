// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	instanceInfoMetricName = "geotrace_instance_info"
	instanceInfoHelp       = "Information about the geotrace instance. Always 1."
)

// RegisterInstanceInfo registers the geotrace_instance_info info-style metric on the given registry.
// It sets the gauge to 1 with the labels instance_name, version and go_version.
func RegisterInstanceInfo(registry prometheus.Registerer, instanceName string) error {
	info := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: instanceInfoMetricName,
			Help: instanceInfoHelp,
		},
		[]string{"instance_name", "version", "go_version"},
	)
	info.WithLabelValues(instanceName, version(), runtime.Version()).Set(1)
	return registry.Register(info)
}
