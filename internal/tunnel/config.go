// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package tunnel

import (
	"strconv"
	"time"

	"github.com/hashicorp/winrm-iap-plugin-gcp/internal/errors"
)

// Config describes how to launch one tunnel. It is derived once per
// connect attempt and not modified afterwards.
type Config struct {
	// Instance is the name of the Compute Engine instance.
	Instance string
	// Project is the GCP project containing the instance.
	Project string
	// Zone is the zone of the instance.
	Zone string
	// RemotePort is the port on the instance to forward to.
	RemotePort int
	// ImpersonateServiceAccount, when set, is passed to gcloud as
	// --impersonate-service-account.
	ImpersonateServiceAccount string
	// Timeout bounds port discovery and readiness probing together.
	Timeout time.Duration
}

// withDefaults returns a copy of c with zero values replaced by defaults.
func (c Config) withDefaults() Config {
	if c.RemotePort == 0 {
		c.RemotePort = DefaultRemotePort
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// Validate reports every missing identifying field as an InvalidArgument
// error.
func (c Config) Validate() error {
	badFields := make(map[string]string)
	if c.Instance == "" {
		badFields["gcp_instance_name"] = "an instance name is required for the IAP tunnel"
	}
	if c.Project == "" {
		badFields["gcp_project"] = "gcp_project is required for the IAP tunnel"
	}
	if c.Zone == "" {
		badFields["gcp_zone"] = "gcp_zone is required for the IAP tunnel"
	}
	if c.RemotePort < 0 || c.RemotePort > 65535 {
		badFields["port"] = "port must be between 1 and 65535"
	}
	if len(badFields) > 0 {
		return errors.InvalidArgumentError("Invalid IAP tunnel configuration", badFields)
	}
	return nil
}

// Args returns the gcloud arguments that start the tunnel. The local side
// always asks for an OS-assigned port.
func (c Config) Args() []string {
	c = c.withDefaults()
	args := []string{
		"compute", "start-iap-tunnel",
		c.Instance, strconv.Itoa(c.RemotePort),
		"--local-host-port=" + LocalHost + ":0",
		"--zone", c.Zone,
		"--project", c.Project,
	}
	if c.ImpersonateServiceAccount != "" {
		args = append(args, "--impersonate-service-account", c.ImpersonateServiceAccount)
	}
	return args
}
