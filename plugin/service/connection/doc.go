// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package connection runs WinRM to Compute Engine instances that have no
// public address by tunnelling it through Identity-Aware Proxy.
//
// A Connection wraps a Protocol. On connect it starts a tunnel with
// `gcloud compute start-iap-tunnel`, waits for the tunnel's local port to
// accept connections and then connects the protocol to localhost on that
// port. Certificate validation is turned off for the tunnelled connection
// because the WinRM listener's certificate names the instance, not
// localhost. Close and Reset always tear the tunnel down; Reset then
// connects again over a fresh tunnel.
//
// # Attributes
// Connection attributes are read from a structpb.Struct. Inventory
// variables can be converted with NormalizeVars, which understands the
// usual ansible_* aliases (for example ansible_winrm_port for port and
// ansible_host for remote_addr).
//
// The instance to tunnel to is gcp_instance_name, or remote_addr when that
// is not set. gcp_project and gcp_zone are required.
//
// When scheme is not set it is derived from the configured port: 5985 means
// http, anything else https. The local tunnel port plays no part in it.
package connection
