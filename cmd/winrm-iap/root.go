// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/winrm-iap-plugin-gcp/internal/tunnel"
	"github.com/hashicorp/winrm-iap-plugin-gcp/plugin"
	"github.com/hashicorp/winrm-iap-plugin-gcp/plugin/service/connection"
	"github.com/hashicorp/winrm-iap-plugin-gcp/plugin/service/password"
	"github.com/spf13/cobra"
)

type rootFlags struct {
	logLevel   string
	gcloudPath string

	// extraTunnelOptions and protocol replace the gcloud process and the
	// WinRM client in tests.
	extraTunnelOptions []tunnel.Option
	protocol           connection.Protocol
}

func newRootCmd() *cobra.Command {
	return newRootCmdWithFlags(&rootFlags{})
}

func newRootCmdWithFlags(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "winrm-iap",
		Short:         "WinRM over GCP Identity-Aware Proxy tunnels",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "warn", "log level: trace, debug, info, warn or error")
	cmd.PersistentFlags().StringVar(&flags.gcloudPath, "gcloud", "gcloud", "gcloud binary")

	cmd.AddCommand(newExecCmd(flags))
	cmd.AddCommand(newTunnelCmd(flags))
	cmd.AddCommand(newResetPasswordCmd(flags))
	cmd.AddCommand(newInventoryCmd(flags))
	return cmd
}

func (f *rootFlags) logger() (hclog.Logger, error) {
	level := hclog.LevelFromString(f.logLevel)
	if level == hclog.NoLevel {
		return nil, fmt.Errorf("unknown log level %q", f.logLevel)
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "winrm-iap",
		Level:  level,
		Output: os.Stderr,
	}), nil
}

func (f *rootFlags) plugin(logger hclog.Logger, opt ...plugin.Option) (*plugin.GCPPlugin, error) {
	return plugin.NewGCPPlugin(append([]plugin.Option{
		plugin.WithLogger(logger),
		plugin.WithConnectionOptions(connection.WithTunnelOptions(f.tunnelOptions()...)),
		plugin.WithPasswordOptions(password.WithGcloudPath(f.gcloudPath)),
	}, opt...)...)
}

func (f *rootFlags) tunnelOptions() []tunnel.Option {
	return append([]tunnel.Option{tunnel.WithGcloudPath(f.gcloudPath)}, f.extraTunnelOptions...)
}
