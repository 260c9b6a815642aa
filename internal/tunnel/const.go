// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package tunnel

import "time"

const (
	// DefaultGcloudPath is the gcloud binary looked up on PATH.
	DefaultGcloudPath = "gcloud"

	// DefaultRemotePort is the WinRM HTTPS port.
	DefaultRemotePort = 5986

	// DefaultTimeout bounds port discovery and readiness probing together.
	DefaultTimeout = 30 * time.Second

	// DefaultGracePeriod is how long Terminate waits after each signal.
	DefaultGracePeriod = 5 * time.Second

	// DefaultPollInterval is the pause between failed readiness probes.
	DefaultPollInterval = 500 * time.Millisecond

	// DefaultProbeTimeout bounds a single readiness connect attempt.
	DefaultProbeTimeout = time.Second

	// LocalHost is the address the tunnel binds and the probe dials.
	LocalHost = "localhost"

	// outputDrainTimeout bounds how long a failed launch waits for the
	// remaining output of an exited process.
	outputDrainTimeout = time.Second

	// groupPollInterval is how often teardown checks whether any member of
	// the tunnel's process group is left.
	groupPollInterval = 50 * time.Millisecond

	// maxOutputLine is the longest output line kept. Longer lines end line
	// collection and the rest of the output is discarded.
	maxOutputLine = 1024 * 1024
)
