// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package connection

import "time"

const (
	// ConstInstanceName is the Compute Engine instance to tunnel to. When
	// unset the remote address is used as the instance name.
	ConstInstanceName = "gcp_instance_name"
	// ConstProject is the project containing the instance.
	ConstProject = "gcp_project"
	// ConstZone is the zone of the instance.
	ConstZone = "gcp_zone"
	// ConstIAPServiceAccount is a service account gcloud impersonates when
	// opening the tunnel.
	ConstIAPServiceAccount = "gcp_iap_service_account"
	// ConstIAPTunnelTimeout is the tunnel startup timeout in seconds.
	ConstIAPTunnelTimeout = "iap_tunnel_timeout"

	ConstRemoteAddr        = "remote_addr"
	ConstRemoteUser        = "remote_user"
	ConstRemotePassword    = "remote_password"
	ConstPort              = "port"
	ConstScheme            = "scheme"
	ConstPath              = "path"
	ConstTransport         = "transport"
	ConstKerberosCommand   = "kerberos_command"
	ConstKinitArgs         = "kinit_args"
	ConstKinitEnvVars      = "kinit_env_vars"
	ConstKerberosMode      = "kerberos_mode"
	ConstConnectionTimeout = "connection_timeout"
)

const (
	DefaultPort              = 5986
	DefaultHTTPPort          = 5985
	DefaultPath              = "/wsman"
	DefaultTransport         = "ntlm"
	DefaultKerberosCommand   = "kinit"
	DefaultIAPTunnelTimeout  = 30 * time.Second
	DefaultConnectionTimeout = 60 * time.Second

	SchemeHTTP  = "http"
	SchemeHTTPS = "https"

	KerberosModeManaged = "managed"
	KerberosModeManual  = "manual"
)

// variableAliases maps each connection attribute to the inventory variables
// that may set it, highest precedence first. The attribute name itself
// always wins over its aliases.
var variableAliases = map[string][]string{
	ConstInstanceName:      {"ansible_gcp_instance_name"},
	ConstProject:           {"ansible_gcp_project"},
	ConstZone:              {"ansible_gcp_zone"},
	ConstIAPServiceAccount: {"ansible_gcp_iap_service_account"},
	ConstIAPTunnelTimeout:  {"ansible_iap_tunnel_timeout"},
	ConstRemoteAddr:        {"ansible_winrm_host", "ansible_host", "inventory_hostname"},
	ConstRemoteUser:        {"ansible_winrm_user", "ansible_user"},
	ConstRemotePassword:    {"ansible_winrm_password", "ansible_winrm_pass", "ansible_password", "password"},
	ConstPort:              {"ansible_winrm_port", "ansible_port"},
	ConstScheme:            {"ansible_winrm_scheme"},
	ConstPath:              {"ansible_winrm_path"},
	ConstTransport:         {"ansible_winrm_transport"},
	ConstKerberosCommand:   {"ansible_winrm_kinit_cmd"},
	ConstKinitArgs:         {"ansible_winrm_kinit_args"},
	ConstKinitEnvVars:      {"ansible_winrm_kinit_env_vars"},
	ConstKerberosMode:      {"ansible_winrm_kinit_mode"},
	ConstConnectionTimeout: {"ansible_winrm_connection_timeout"},
}

var allowedTransports = map[string]struct{}{
	"basic":       {},
	"certificate": {},
	"credssp":     {},
	"kerberos":    {},
	"ntlm":        {},
	"plaintext":   {},
	"ssl":         {},
}
