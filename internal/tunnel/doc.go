// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package tunnel supervises a single `gcloud compute start-iap-tunnel`
// process.
//
// A Supervisor owns at most one live tunnel at a time. EnsureRunning
// launches the tunnel in its own session, asking gcloud to bind an
// OS-assigned local port (localhost:0). The port is discovered by scanning
// the process output for one of:
//
//	Listening on port [<N>]
//	Picking local unused port [<N>]
//
// gcloud reports the port as soon as it binds locally, before the remote
// leg is necessarily usable, so discovery is followed by a readiness probe
// that retries TCP connects to localhost:<N>. Both phases share a single
// deadline of Config.Timeout measured from the launch.
//
// Any failure during startup tears the process group down before the error
// is returned. Terminate is best-effort and never fails: SIGTERM to the
// group, a grace period, then SIGKILL.
package tunnel
