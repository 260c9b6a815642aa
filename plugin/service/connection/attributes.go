// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package connection

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/winrm-iap-plugin-gcp/internal/errors"
	"github.com/hashicorp/winrm-iap-plugin-gcp/internal/tunnel"
	"github.com/hashicorp/winrm-iap-plugin-gcp/internal/values"
	"github.com/mitchellh/mapstructure"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// KerberosOptions are handed to the protocol untouched.
type KerberosOptions struct {
	Command string
	Args    string
	EnvVars []string
	Mode    string
}

// ConnectionAttributes is the validated configuration of one connection.
type ConnectionAttributes struct {
	InstanceName      string
	Project           string
	Zone              string
	IAPServiceAccount string
	IAPTunnelTimeout  time.Duration

	RemoteAddr        string
	RemoteUser        string
	RemotePassword    string
	Port              int
	Scheme            string
	Path              string
	Transport         []string
	Kerberos          KerberosOptions
	ConnectionTimeout time.Duration
}

// listAttributes are the attributes that may be given either as a list or
// as a single comma separated string.
type listAttributes struct {
	Transport    []string `mapstructure:"transport"`
	KinitEnvVars []string `mapstructure:"kinit_env_vars"`
}

// GetConnectionAttributes validates a connection attribute bag. Every
// problem, including unknown keys, is reported in one InvalidArgument
// error.
func GetConnectionAttributes(in *structpb.Struct) (*ConnectionAttributes, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "attributes are required")
	}

	unknownFields := values.StructFields(in)
	badFields := make(map[string]string)
	for k := range variableAliases {
		delete(unknownFields, k)
	}
	for s := range unknownFields {
		badFields[fmt.Sprintf("attributes.%s", s)] = "unrecognized field"
	}

	attrs := &ConnectionAttributes{}

	getString := func(k string, required bool) string {
		v, err := values.GetStringValue(in, k, required)
		if err != nil {
			badFields[fmt.Sprintf("attributes.%s", k)] = err.Error()
		}
		return v
	}
	getSeconds := func(k string, def time.Duration) time.Duration {
		v, err := values.GetIntValue(in, k, false)
		switch {
		case err != nil:
			badFields[fmt.Sprintf("attributes.%s", k)] = err.Error()
		case v < 0:
			badFields[fmt.Sprintf("attributes.%s", k)] = "must not be negative"
		case v > 0:
			return time.Duration(v) * time.Second
		}
		return def
	}

	attrs.Project = getString(ConstProject, true)
	attrs.Zone = getString(ConstZone, true)
	attrs.InstanceName = getString(ConstInstanceName, false)
	attrs.IAPServiceAccount = getString(ConstIAPServiceAccount, false)
	attrs.IAPTunnelTimeout = getSeconds(ConstIAPTunnelTimeout, DefaultIAPTunnelTimeout)
	attrs.RemoteAddr = getString(ConstRemoteAddr, false)
	attrs.RemoteUser = getString(ConstRemoteUser, false)
	attrs.RemotePassword = getString(ConstRemotePassword, false)
	attrs.Scheme = getString(ConstScheme, false)
	attrs.Path = getString(ConstPath, false)
	attrs.Kerberos.Command = getString(ConstKerberosCommand, false)
	attrs.Kerberos.Args = getString(ConstKinitArgs, false)
	attrs.Kerberos.Mode = getString(ConstKerberosMode, false)
	attrs.ConnectionTimeout = getSeconds(ConstConnectionTimeout, DefaultConnectionTimeout)

	if attrs.InstanceName == "" && attrs.RemoteAddr == "" {
		if _, ok := badFields["attributes."+ConstInstanceName]; !ok {
			badFields[fmt.Sprintf("attributes.%s", ConstInstanceName)] = fmt.Sprintf("one of %s or %s is required", ConstInstanceName, ConstRemoteAddr)
		}
	}

	port, err := values.GetIntValue(in, ConstPort, false)
	switch {
	case err != nil:
		badFields[fmt.Sprintf("attributes.%s", ConstPort)] = err.Error()
	case port == 0:
		attrs.Port = DefaultPort
	case port < 1 || port > 65535:
		badFields[fmt.Sprintf("attributes.%s", ConstPort)] = "port must be between 1 and 65535"
	default:
		attrs.Port = int(port)
	}

	switch attrs.Scheme {
	case "", SchemeHTTP, SchemeHTTPS:
	default:
		badFields[fmt.Sprintf("attributes.%s", ConstScheme)] = fmt.Sprintf("scheme must be %q or %q", SchemeHTTP, SchemeHTTPS)
	}

	switch attrs.Kerberos.Mode {
	case "", KerberosModeManaged, KerberosModeManual:
	default:
		badFields[fmt.Sprintf("attributes.%s", ConstKerberosMode)] = fmt.Sprintf("kerberos mode must be %q or %q", KerberosModeManaged, KerberosModeManual)
	}

	lists, listErrs := getListAttributes(in)
	for k, e := range listErrs {
		badFields[fmt.Sprintf("attributes.%s", k)] = e
	}
	attrs.Transport = lists.Transport
	attrs.Kerberos.EnvVars = lists.KinitEnvVars
	for _, t := range attrs.Transport {
		if _, ok := allowedTransports[t]; !ok {
			badFields[fmt.Sprintf("attributes.%s", ConstTransport)] = fmt.Sprintf("unknown transport %q", t)
		}
	}

	if len(badFields) > 0 {
		return nil, errors.InvalidArgumentError("Error in the connection attributes provided", badFields)
	}

	if attrs.Path == "" {
		attrs.Path = DefaultPath
	}
	if len(attrs.Transport) == 0 {
		attrs.Transport = []string{DefaultTransport}
	}
	if attrs.Kerberos.Command == "" {
		attrs.Kerberos.Command = DefaultKerberosCommand
	}
	if attrs.Kerberos.EnvVars == nil {
		attrs.Kerberos.EnvVars = []string{}
	}

	return attrs, nil
}

// getListAttributes decodes the list attributes, returning decode errors
// keyed by attribute name.
func getListAttributes(in *structpb.Struct) (*listAttributes, map[string]string) {
	var lists listAttributes
	errs := make(map[string]string)

	inMap := in.AsMap()
	for _, k := range []string{ConstTransport, ConstKinitEnvVars} {
		raw, ok := inMap[k]
		if !ok || raw == nil {
			continue
		}
		// A single string may hold a comma separated list.
		if s, ok := raw.(string); ok {
			raw = splitList(s)
		}
		if err := mapstructure.Decode(map[string]any{k: raw}, &lists); err != nil {
			errs[k] = fmt.Sprintf("error decoding list: %s", err)
		}
	}
	return &lists, errs
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Instance is the name of the instance to tunnel to: the configured
// instance name, else the remote address.
func (a *ConnectionAttributes) Instance() string {
	if a.InstanceName != "" {
		return a.InstanceName
	}
	return a.RemoteAddr
}

// TunnelConfig derives the tunnel configuration. The remote port is the
// configured WinRM port on the instance.
func (a *ConnectionAttributes) TunnelConfig() tunnel.Config {
	return tunnel.Config{
		Instance:                  a.Instance(),
		Project:                   a.Project,
		Zone:                      a.Zone,
		RemotePort:                a.Port,
		ImpersonateServiceAccount: a.IAPServiceAccount,
		Timeout:                   a.IAPTunnelTimeout,
	}
}

// EffectiveScheme is the configured scheme, or one derived from the
// configured remote port.
func (a *ConnectionAttributes) EffectiveScheme() string {
	if a.Scheme != "" {
		return a.Scheme
	}
	if a.Port == DefaultHTTPPort {
		return SchemeHTTP
	}
	return SchemeHTTPS
}

// NormalizeVars folds inventory variables into connection attributes by
// resolving aliases. Variables that are neither attributes nor aliases are
// not included and their names are returned sorted.
func NormalizeVars(vars map[string]any) (*structpb.Struct, []string, error) {
	known := make(map[string]struct{})
	out := make(map[string]any)

	for attr, aliases := range variableAliases {
		known[attr] = struct{}{}
		for _, a := range aliases {
			known[a] = struct{}{}
		}
		if v, ok := vars[attr]; ok {
			out[attr] = v
			continue
		}
		for _, a := range aliases {
			if v, ok := vars[a]; ok {
				out[attr] = v
				break
			}
		}
	}

	var ignored []string
	for k := range vars {
		if _, ok := known[k]; !ok {
			ignored = append(ignored, k)
		}
	}
	sort.Strings(ignored)

	s, err := structpb.NewStruct(out)
	if err != nil {
		return nil, nil, status.Errorf(codes.InvalidArgument, "error converting variables to attributes: %s", err)
	}
	return s, ignored, nil
}
