// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/winrm-iap-plugin-gcp/internal/tunnel"
	"github.com/hashicorp/winrm-iap-plugin-gcp/plugin/service/connection"
	"github.com/spf13/cobra"
)

func newTunnelCmd(root *rootFlags) *cobra.Command {
	var vars hostVarsFlags
	cmd := &cobra.Command{
		Use:   "tunnel",
		Short: "Open an IAP tunnel to an instance's WinRM port and hold it until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := root.logger()
			if err != nil {
				return err
			}
			in, err := vars.attributes(logger)
			if err != nil {
				return err
			}
			attrs, err := connection.GetConnectionAttributes(in)
			if err != nil {
				return err
			}

			sup, err := tunnel.NewSupervisor(append(root.tunnelOptions(), tunnel.WithLogger(logger))...)
			if err != nil {
				return err
			}
			defer sup.Terminate()

			return holdTunnel(cmd.Context(), sup, attrs, cmd.OutOrStdout(), logger)
		},
	}
	vars.bind(cmd)
	return cmd
}

// holdTunnel starts the tunnel, prints its local endpoint and waits until
// ctx ends or the tunnel process exits.
func holdTunnel(ctx context.Context, sup *tunnel.Supervisor, attrs *connection.ConnectionAttributes, out io.Writer, logger hclog.Logger) error {
	port, err := sup.EnsureRunning(ctx, attrs.TunnelConfig())
	if err != nil {
		return err
	}
	h := sup.Handle()
	if h == nil {
		return fmt.Errorf("tunnel to %s stopped before it could be held", attrs.Instance())
	}
	fmt.Fprintf(out, "%s://%s:%d%s -> %s:%d\n",
		attrs.EffectiveScheme(), tunnel.LocalHost, port, attrs.Path, attrs.Instance(), attrs.Port)

	select {
	case <-ctx.Done():
		logger.Debug("closing tunnel", "instance", attrs.Instance())
		return nil
	case <-h.Exited():
		return fmt.Errorf("tunnel process exited (exit code %d):\n%s", h.ExitCode(), h.Output())
	}
}
